// Package app holds the session state machine shared by the terminal UI,
// the one-shot CLI and the automation server. Drivers call App methods and
// then poll CheckBackgroundLoad; App never knows which driver called it.
package app

import (
	"log/slog"
	"os"
	"time"

	"github.com/alexanderramin/vartui/internal/api"
	"github.com/alexanderramin/vartui/internal/config"
	"github.com/alexanderramin/vartui/internal/domain"
	"github.com/alexanderramin/vartui/internal/repository"
)

// Deps are the collaborators an App needs. Clients and Config are
// required; the rest are optional.
type Deps struct {
	Clients api.Factory
	Config  config.Store
	Journal repository.Journal
	Cache   repository.ProjectCache
	Logger  *slog.Logger
	// Getenv defaults to os.Getenv.
	Getenv config.Getenv
	// Now defaults to time.Now.
	Now func() time.Time
	// Source tags journal records; defaults to domain.SourceTUI.
	Source domain.SubmissionSource
}

// App is one session of the time-tracking client.
type App struct {
	deps   Deps
	logger *slog.Logger

	cfg      config.Config
	rng      domain.DateRange
	days     []domain.Day
	dayIdx   int
	projects []domain.Project
	status   string
	mode     mode

	loads loader
}

// New builds an App from deps, loads configuration and starts the initial
// project and day fetches.
func New(deps Deps) *App {
	if deps.Getenv == nil {
		deps.Getenv = os.Getenv
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Source == "" {
		deps.Source = domain.SourceTUI
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	a := &App{
		deps:   deps,
		logger: logger,
		cfg:    deps.Config.Load(),
		dayIdx: -1,
		mode:   daysFocus(),
	}

	a.rng = domain.MonthToDate(deps.Now())
	if a.cfg.DefaultDateRange != "" {
		if r, err := domain.ParseDateRangeAt(a.cfg.DefaultDateRange, deps.Now()); err == nil {
			a.rng = r
		} else {
			logger.Warn("default_range_ignored", "value", a.cfg.DefaultDateRange, "error", err.Error())
		}
	}
	a.setDays(domain.BuildEmptyDays(a.rng))

	a.spawnLoadProjects()
	a.spawnLoad(a.rng)
	a.status = "loading..."
	return a
}

// NewHeadless builds an App for the automation server.
func NewHeadless(deps Deps) *App {
	if deps.Source == "" {
		deps.Source = domain.SourceAutomation
	}
	return New(deps)
}

// Status is the one-line message shown to the user.
func (a *App) Status() string { return a.status }

// Range is the date range currently displayed.
func (a *App) Range() domain.DateRange { return a.rng }

// Days is the materialized day list, newest first.
func (a *App) Days() []domain.Day { return a.days }

// Projects is the flat project list in (client, name) order.
func (a *App) Projects() []domain.Project { return a.projects }

// Config is the configuration the session is running with.
func (a *App) Config() config.Config { return a.cfg }

// Mode reports the active input mode.
func (a *App) Mode() ModeKind { return a.mode.kind() }

// Focus reports the Normal-mode focus, remembered while a modal is open.
func (a *App) Focus() Focus { return a.clampNormal(a.mode.resume()).focus }

// DayIndex is the selected day, or -1 when the day list is empty.
func (a *App) DayIndex() int { return a.dayIdx }

// EntryIndex is the selected entry, or -1 unless focus is on entries.
func (a *App) EntryIndex() int { return a.clampNormal(a.mode.resume()).entry }

// RangeInput returns the range editor buffer while editing.
func (a *App) RangeInput() (string, bool) {
	m, ok := a.mode.(*editingMode)
	if !ok {
		return "", false
	}
	return m.buffer, true
}

// EntryForm returns the open add/duplicate form.
func (a *App) EntryForm() (*EntryForm, bool) {
	m, ok := a.mode.(*addingMode)
	if !ok {
		return nil, false
	}
	return m.form, true
}

// ConfigForm returns the open configuration form.
func (a *App) ConfigForm() (*ConfigForm, bool) {
	m, ok := a.mode.(*configMode)
	if !ok {
		return nil, false
	}
	return m.form, true
}

// SelectedDay returns the selected day.
func (a *App) SelectedDay() (domain.Day, bool) {
	if a.dayIdx < 0 || a.dayIdx >= len(a.days) {
		return domain.Day{}, false
	}
	return a.days[a.dayIdx], true
}

// SelectedEntry returns the selected entry of the selected day.
func (a *App) SelectedEntry() (domain.Entry, bool) {
	day, ok := a.SelectedDay()
	idx := a.EntryIndex()
	if !ok || idx < 0 || idx >= len(day.Entries) {
		return domain.Entry{}, false
	}
	return day.Entries[idx], true
}

// Credentials resolves the token and base URL in effect right now.
func (a *App) Credentials() config.Credentials {
	return config.Resolve(a.cfg, a.deps.Getenv)
}

// setDays replaces the day list and re-clamps the selection.
func (a *App) setDays(days []domain.Day) {
	a.days = days
	switch {
	case len(days) == 0:
		a.dayIdx = -1
	case a.dayIdx < 0:
		a.dayIdx = 0
	case a.dayIdx >= len(days):
		a.dayIdx = len(days) - 1
	}
	a.reclamp()
}

// clampNormal fits a remembered normal state to the selected day: entry
// focus needs at least one entry and an index inside the list.
func (a *App) clampNormal(n normalMode) normalMode {
	if n.focus != FocusEntries {
		return daysFocus()
	}
	day, ok := a.SelectedDay()
	switch {
	case !ok || len(day.Entries) == 0:
		return daysFocus()
	case n.entry < 0:
		return normalMode{focus: FocusEntries, entry: 0}
	case n.entry >= len(day.Entries):
		return normalMode{focus: FocusEntries, entry: len(day.Entries) - 1}
	}
	return n
}

func (a *App) reclamp() {
	if n, ok := a.mode.(normalMode); ok {
		a.mode = a.clampNormal(n)
	}
}

func (a *App) returnToNormal() {
	a.mode = a.clampNormal(a.mode.resume())
}

// NextDay moves the day cursor down, wrapping to the first day.
func (a *App) NextDay() {
	if len(a.days) == 0 {
		return
	}
	if a.dayIdx < 0 || a.dayIdx+1 >= len(a.days) {
		a.dayIdx = 0
	} else {
		a.dayIdx++
	}
	a.reclamp()
}

// PreviousDay moves the day cursor up, wrapping to the last day.
func (a *App) PreviousDay() {
	if len(a.days) == 0 {
		return
	}
	if a.dayIdx <= 0 {
		a.dayIdx = len(a.days) - 1
	} else {
		a.dayIdx--
	}
	a.reclamp()
}

// FocusEntries moves focus into the selected day's entries. It is a no-op
// when the day has none.
func (a *App) FocusEntries() {
	day, ok := a.SelectedDay()
	if !ok || len(day.Entries) == 0 {
		return
	}
	if _, normal := a.mode.(normalMode); !normal {
		return
	}
	a.mode = normalMode{focus: FocusEntries, entry: 0}
}

// FocusDays returns focus to the day list and clears the entry selection.
func (a *App) FocusDays() {
	if _, normal := a.mode.(normalMode); !normal {
		return
	}
	a.mode = daysFocus()
}

// NextEntry moves the entry cursor down, wrapping.
func (a *App) NextEntry() {
	a.stepEntry(1)
}

// PreviousEntry moves the entry cursor up, wrapping.
func (a *App) PreviousEntry() {
	a.stepEntry(-1)
}

func (a *App) stepEntry(delta int) {
	n, ok := a.mode.(normalMode)
	if !ok || n.focus != FocusEntries {
		return
	}
	day, ok := a.SelectedDay()
	if !ok || len(day.Entries) == 0 {
		return
	}
	count := len(day.Entries)
	a.mode = normalMode{focus: FocusEntries, entry: ((n.entry+delta)%count + count) % count}
}
