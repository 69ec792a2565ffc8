// Package tui renders an app.App as a full-screen bubbletea program.
// Keys go straight to app.HandleKey; a ticker merges background fetch
// results so the screen never blocks on the network.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/vartui/internal/app"
	"github.com/alexanderramin/vartui/internal/config"
)

// TickInterval is how often pending fetches are polled.
const TickInterval = 100 * time.Millisecond

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the bubbletea model wrapping one App.
type Model struct {
	app    *app.App
	getenv config.Getenv
	now    func() time.Time
	keys   keyMap
	help   help.Model

	width    int
	height   int
	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithGetenv sets the environment lookup used for theme detection.
func WithGetenv(fn config.Getenv) Option {
	return func(m *Model) { m.getenv = fn }
}

// WithClock overrides the clock used to color future days.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// New wraps a.
func New(a *app.App, opts ...Option) *Model {
	m := &Model{
		app:    a,
		getenv: os.Getenv,
		now:    time.Now,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Quitting reports whether the user asked to exit.
func (m *Model) Quitting() bool { return m.quitting }

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if app.HandleKey(m.app, msg) {
			m.quitting = true
			return m, tea.Quit
		}
		m.app.CheckBackgroundLoad()
		return m, nil

	case tickMsg:
		m.app.CheckBackgroundLoad()
		return m, tick()
	}
	return m, nil
}

// Run starts the program on the terminal and blocks until it exits.
func Run(ctx context.Context, a *app.App, opts ...Option) error {
	p := tea.NewProgram(New(a, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}
