package automation

import (
	"fmt"

	"github.com/alexanderramin/vartui/internal/app"
)

// Action names one semantic operation on a session.
type Action string

const (
	ActionNoop              Action = "noop"
	ActionRefresh           Action = "refresh"
	ActionReloadProjects    Action = "reload_projects"
	ActionFocusDays         Action = "focus_days"
	ActionFocusEntries      Action = "focus_entries"
	ActionNextDay           Action = "next_day"
	ActionPreviousDay       Action = "previous_day"
	ActionNextEntry         Action = "next_entry"
	ActionPreviousEntry     Action = "previous_entry"
	ActionOpenDuplicate     Action = "open_duplicate_entry"
	ActionOpenAddEntry      Action = "open_add_entry"
	ActionCloseAddEntry     Action = "close_add_entry"
	ActionSubmitEntry       Action = "submit_entry"
	ActionEntryNextField    Action = "entry_next_field"
	ActionEntryPrevField    Action = "entry_prev_field"
	ActionEntryEnter        Action = "entry_enter"
	ActionEntryNavUp        Action = "entry_nav_up"
	ActionEntryNavDown      Action = "entry_nav_down"
	ActionEntryBackspace    Action = "entry_backspace"
	ActionToggleBillable    Action = "toggle_billable"
	ActionSetEntryField     Action = "set_entry_field"
	ActionSelectProject     Action = "select_project"
	ActionOpenConfig        Action = "open_config"
	ActionCloseConfig       Action = "close_config"
	ActionSaveConfig        Action = "save_config"
	ActionConfigNextField   Action = "config_next_field"
	ActionConfigPrevField   Action = "config_prev_field"
	ActionConfigBackspace   Action = "config_backspace"
	ActionConfigReset       Action = "config_reset_defaults"
	ActionConfigClearField  Action = "config_clear_field"
	ActionConfigThemeNext   Action = "config_theme_next"
	ActionConfigThemePrev   Action = "config_theme_previous"
	ActionSetConfigField    Action = "set_config_field"
	ActionOpenRangeEditor   Action = "open_range_editor"
	ActionSubmitRange       Action = "submit_range"
	ActionCancelRangeEditor Action = "cancel_range_editor"
	ActionSetRange          Action = "set_range"
	ActionSendKey           Action = "send_key"
	ActionTypeText          Action = "type_text"
)

var actionAliases = map[string]Action{
	"n":   ActionNextDay,
	"nd":  ActionNextDay,
	"p":   ActionPreviousDay,
	"pd":  ActionPreviousDay,
	"ne":  ActionNextEntry,
	"pe":  ActionPreviousEntry,
	"fd":  ActionFocusDays,
	"fe":  ActionFocusEntries,
	"rf":  ActionRefresh,
	"rp":  ActionReloadProjects,
	"oa":  ActionOpenAddEntry,
	"ca":  ActionCloseAddEntry,
	"se":  ActionSubmitEntry,
	"sf":  ActionSetEntryField,
	"sp":  ActionSelectProject,
	"tb":  ActionToggleBillable,
	"oc":  ActionOpenConfig,
	"cc":  ActionCloseConfig,
	"sv":  ActionSaveConfig,
	"scf": ActionSetConfigField,
	"clf": ActionConfigClearField,
	"sr":  ActionSetRange,
	"sk":  ActionSendKey,
	"tt":  ActionTypeText,
	"dup": ActionOpenDuplicate,
}

// ResolveAction expands a short alias. Unknown names come back unchanged
// and fail when applied.
func ResolveAction(name string) Action {
	if a, ok := actionAliases[name]; ok {
		return a
	}
	return Action(name)
}

// simpleActions take no arguments.
var simpleActions = map[Action]func(*app.App){
	ActionNoop:              func(*app.App) {},
	ActionRefresh:           (*app.App).Refresh,
	ActionReloadProjects:    (*app.App).ReloadProjects,
	ActionFocusDays:         (*app.App).FocusDays,
	ActionFocusEntries:      (*app.App).FocusEntries,
	ActionNextDay:           (*app.App).NextDay,
	ActionPreviousDay:       (*app.App).PreviousDay,
	ActionNextEntry:         (*app.App).NextEntry,
	ActionPreviousEntry:     (*app.App).PreviousEntry,
	ActionOpenDuplicate:     (*app.App).OpenDuplicateEntry,
	ActionOpenAddEntry:      (*app.App).OpenAddEntry,
	ActionCloseAddEntry:     (*app.App).CloseAddEntry,
	ActionSubmitEntry:       (*app.App).SubmitEntry,
	ActionEntryNextField:    (*app.App).FormNextField,
	ActionEntryPrevField:    (*app.App).FormPrevField,
	ActionEntryEnter:        (*app.App).FormEnter,
	ActionEntryNavUp:        (*app.App).FormNavUp,
	ActionEntryNavDown:      (*app.App).FormNavDown,
	ActionEntryBackspace:    (*app.App).FormInputBackspace,
	ActionToggleBillable:    (*app.App).ToggleBillable,
	ActionOpenConfig:        (*app.App).OpenConfig,
	ActionCloseConfig:       (*app.App).CloseConfig,
	ActionSaveConfig:        (*app.App).SaveConfig,
	ActionConfigNextField:   (*app.App).ConfigNextField,
	ActionConfigPrevField:   (*app.App).ConfigPrevField,
	ActionConfigBackspace:   (*app.App).ConfigBackspace,
	ActionConfigReset:       (*app.App).ConfigResetDefaults,
	ActionConfigThemeNext:   (*app.App).ConfigThemeNext,
	ActionConfigThemePrev:   (*app.App).ConfigThemePrevious,
	ActionOpenRangeEditor:   (*app.App).StartRangeInput,
	ActionSubmitRange:       (*app.App).SubmitRangeInput,
	ActionCancelRangeEditor: (*app.App).CancelRangeInput,
}

// applyAction runs one action and reports whether it asked the program
// to exit. Only key replay can exit.
func applyAction(a *app.App, action Action, args Args) (bool, error) {
	if fn, ok := simpleActions[action]; ok {
		fn(a)
		a.CheckBackgroundLoad()
		return false, nil
	}

	var err error
	switch action {
	case ActionSetEntryField:
		err = setEntryField(a, args)
	case ActionSelectProject:
		err = selectProject(a, args)
	case ActionSetConfigField:
		err = setConfigField(a, args)
	case ActionConfigClearField:
		err = clearConfigField(a, args)
	case ActionSetRange:
		var value string
		if value, err = args.requiredString("value", "v", "range", "r"); err == nil {
			err = a.SetRange(value)
		}
	case ActionSendKey:
		key, kerr := args.requiredString("key", "k")
		if kerr != nil {
			return false, kerr
		}
		text, hasText := args.optionalString("text", "t")
		return replayKeys(a, key, text, hasText)
	case ActionTypeText:
		text, terr := args.requiredString("text", "t")
		if terr != nil {
			return false, terr
		}
		return replayKeys(a, "text", text, true)
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	if err != nil {
		return false, err
	}
	a.CheckBackgroundLoad()
	return false, nil
}

// replayKeys feeds a key sequence through the dispatcher, polling after
// every key and stopping at the first exit request.
func replayKeys(a *app.App, key, text string, hasText bool) (bool, error) {
	seq, err := ParseKeySequence(key, text, hasText)
	if err != nil {
		return false, err
	}
	for _, msg := range seq {
		if app.HandleKey(a, msg) {
			return true, nil
		}
		a.CheckBackgroundLoad()
	}
	return false, nil
}

func parseEntryField(v string) (app.EntryField, error) {
	switch v {
	case "date", "d":
		return app.FieldDate, nil
	case "project", "project_id", "p":
		return app.FieldProject, nil
	case "description", "desc", "n":
		return app.FieldDescription, nil
	case "minutes", "m":
		return app.FieldMinutes, nil
	case "billable", "b":
		return app.FieldBillable, nil
	}
	return 0, fmt.Errorf("unsupported form field: %s", v)
}

func parseConfigField(v string) (app.ConfigField, error) {
	switch v {
	case "token", "t":
		return app.ConfigToken, nil
	case "base_url", "url", "u":
		return app.ConfigBaseURL, nil
	case "default_range", "range", "r":
		return app.ConfigDefaultRange, nil
	case "theme", "th":
		return app.ConfigTheme, nil
	}
	return 0, fmt.Errorf("unsupported config field: %s", v)
}

func setEntryField(a *app.App, args Args) error {
	a.EnsureEntryForm()
	field, err := args.requiredString("field", "f")
	if err != nil {
		return err
	}

	switch field {
	case "date", "d":
		return setEntryText(a, app.FieldDate, args)
	case "project", "project_search", "p":
		return setEntryText(a, app.FieldProject, args)
	case "description", "desc", "n":
		return setEntryText(a, app.FieldDescription, args)
	case "minutes", "m":
		return setEntryText(a, app.FieldMinutes, args)
	case "project_id", "pid":
		id, err := args.requiredInt("value", "v")
		if err != nil {
			return err
		}
		a.SetEntryProjectID(id)
	case "billable", "b":
		v, err := args.boolean(true, "value", "v")
		if err != nil {
			return err
		}
		a.SetEntryBillable(v)
	case "focused", "focus":
		v, err := args.requiredString("value", "v")
		if err != nil {
			return err
		}
		f, err := parseEntryField(v)
		if err != nil {
			return err
		}
		a.FocusEntryField(f)
	default:
		return fmt.Errorf("unsupported entry field: %s", field)
	}
	return nil
}

func setEntryText(a *app.App, field app.EntryField, args Args) error {
	v, err := args.requiredString("value", "v")
	if err != nil {
		return err
	}
	a.SetEntryText(field, v)
	return nil
}

func selectProject(a *app.App, args Args) error {
	index := args.optionalIndex(0, "index", "i")
	moveNext, err := args.boolean(true, "move_next", "mn")
	if err != nil {
		return err
	}
	return a.SelectFilteredProject(index, moveNext)
}

func setConfigField(a *app.App, args Args) error {
	a.EnsureConfigForm()
	field, err := args.requiredString("field", "f")
	if err != nil {
		return err
	}
	value, err := args.requiredString("value", "v")
	if err != nil {
		return err
	}

	if field == "focused" || field == "focus" {
		f, err := parseConfigField(value)
		if err != nil {
			return err
		}
		a.FocusConfigField(f)
		return nil
	}
	f, err := parseConfigField(field)
	if err != nil {
		return err
	}
	a.SetConfigText(f, value)
	return nil
}

func clearConfigField(a *app.App, args Args) error {
	a.EnsureConfigForm()
	field, ok := args.optionalString("field", "f")
	if !ok {
		a.ConfigClearField()
		return nil
	}
	f, err := parseConfigField(field)
	if err != nil {
		return err
	}
	a.ClearConfigText(f)
	return nil
}

// step is one entry of an action batch.
type step struct {
	name string
	args Args
}

// parseSteps reads either an "actions" list or a single action from args.
func parseSteps(args Args) ([]step, error) {
	raw, ok := args["actions"]
	if !ok {
		name, err := args.requiredString("action", "a")
		if err != nil {
			return nil, err
		}
		return []step{{name: name, args: args}}, nil
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("actions must be an array")
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("actions must not be empty")
	}
	steps := make([]step, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("each item in actions must be an object")
		}
		stepArgs := Args(m)
		name, err := stepArgs.requiredString("action", "a")
		if err != nil {
			return nil, err
		}
		steps = append(steps, step{name: name, args: stepArgs})
	}
	return steps, nil
}
