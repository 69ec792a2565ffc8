package app

import (
	"strings"

	"github.com/alexanderramin/vartui/internal/config"
	"github.com/alexanderramin/vartui/internal/domain"
)

// OpenConfig opens the configuration modal seeded with the effective
// token and base URL, so values coming from the environment are visible.
func (a *App) OpenConfig() {
	form := &ConfigForm{
		Token:        a.cfg.EffectiveToken(a.deps.Getenv),
		BaseURL:      a.cfg.EffectiveBaseURL(a.deps.Getenv),
		DefaultRange: a.cfg.DefaultDateRange,
		Theme:        config.NormalizeTheme(a.cfg.Theme),
		Focused:      ConfigToken,
	}
	a.mode = &configMode{form: form, ret: a.mode.resume()}
	a.status = "configuring..."
}

// EnsureConfigForm opens the configuration modal when it is closed.
func (a *App) EnsureConfigForm() *ConfigForm {
	if form, ok := a.ConfigForm(); ok {
		return form
	}
	a.OpenConfig()
	form, _ := a.ConfigForm()
	return form
}

// CloseConfig discards the form without saving.
func (a *App) CloseConfig() {
	if _, ok := a.mode.(*configMode); !ok {
		return
	}
	a.returnToNormal()
	a.status = "cancelled"
}

// SaveConfig trims and persists the form. On success the stored default
// range is applied when it parses, the form closes and a refresh starts.
// On failure the form stays open.
func (a *App) SaveConfig() {
	form, ok := a.ConfigForm()
	if !ok {
		return
	}
	next := a.cfg
	next.Token = strings.TrimSpace(form.Token)
	next.BaseURL = strings.TrimSpace(form.BaseURL)
	next.DefaultDateRange = strings.TrimSpace(form.DefaultRange)
	next.Theme = config.NormalizeTheme(form.Theme)

	if err := a.deps.Config.Save(next); err != nil {
		a.status = "error saving: " + err.Error()
		return
	}
	a.cfg = next
	a.logger.Info("config_saved", "theme", next.Theme, "has_token", next.Token != "")

	if next.DefaultDateRange != "" {
		if r, err := domain.ParseDateRangeAt(next.DefaultDateRange, a.deps.Now()); err == nil {
			a.rng = r
			a.setDays(domain.BuildEmptyDays(r))
		}
	}
	a.returnToNormal()
	a.Refresh()
	a.spawnLoadProjects()
	a.status = "configuration saved!"
}

// ConfigNextField focuses the next config field, wrapping.
func (a *App) ConfigNextField() {
	if form, ok := a.ConfigForm(); ok {
		form.nextField()
	}
}

// ConfigPrevField focuses the previous config field, wrapping.
func (a *App) ConfigPrevField() {
	if form, ok := a.ConfigForm(); ok {
		form.prevField()
	}
}

// ConfigInput types ch into the focused field.
func (a *App) ConfigInput(ch rune) {
	form, ok := a.ConfigForm()
	if !ok {
		return
	}
	p := form.field(form.Focused)
	*p += string(ch)
}

// ConfigBackspace deletes the last character of the focused field.
func (a *App) ConfigBackspace() {
	form, ok := a.ConfigForm()
	if !ok {
		return
	}
	p := form.field(form.Focused)
	*p = dropLastRune(*p)
}

// ConfigClearField empties the focused field.
func (a *App) ConfigClearField() {
	if form, ok := a.ConfigForm(); ok {
		a.ClearConfigText(form.Focused)
	}
}

// ConfigResetDefaults replaces every field with the built-in defaults.
func (a *App) ConfigResetDefaults() {
	form, ok := a.ConfigForm()
	if !ok {
		return
	}
	*form = *defaultConfigForm()
	a.status = "defaults restored (enter to save)"
}

// ConfigThemeNext cycles the theme forward.
func (a *App) ConfigThemeNext() {
	if form, ok := a.ConfigForm(); ok {
		form.Theme = config.NextTheme(form.Theme)
	}
}

// ConfigThemePrevious cycles the theme backward.
func (a *App) ConfigThemePrevious() {
	if form, ok := a.ConfigForm(); ok {
		form.Theme = config.PreviousTheme(form.Theme)
	}
}

// SetConfigText replaces a config field, opening the modal if needed.
// Theme values are normalized; an empty theme means the default.
func (a *App) SetConfigText(field ConfigField, value string) {
	form := a.EnsureConfigForm()
	if field == ConfigTheme {
		form.Theme = config.NormalizeTheme(value)
		return
	}
	*form.field(field) = value
}

// ClearConfigText empties a config field, opening the modal if needed.
func (a *App) ClearConfigText(field ConfigField) {
	a.SetConfigText(field, "")
}

// FocusConfigField moves config focus, opening the modal if needed.
func (a *App) FocusConfigField(field ConfigField) {
	a.EnsureConfigForm().Focused = field
}
