// Package cli builds the vartui command tree.
package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/vartui/internal/api"
	"github.com/alexanderramin/vartui/internal/app"
	"github.com/alexanderramin/vartui/internal/config"
	"github.com/alexanderramin/vartui/internal/repository"
	"github.com/alexanderramin/vartui/internal/tui"
)

// ErrNotInteractive is returned when the TUI is requested without a terminal.
var ErrNotInteractive = errors.New("vartui needs an interactive terminal; use `vartui api` or `vartui mcp` for scripted access")

// App holds the collaborators shared by every command.
type App struct {
	Config  config.Store
	Clients api.Factory
	Journal repository.Journal
	Cache   repository.ProjectCache
	Logger  *slog.Logger
	Getenv  config.Getenv
	Now     func() time.Time

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	// RunTUI runs the terminal UI; tests replace it.
	RunTUI func(ctx context.Context, a *app.App) error
}

func (a *App) getenv(k string) string {
	if a.Getenv == nil {
		return os.Getenv(k)
	}
	return a.Getenv(k)
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.Logger
}

// deps assembles the state machine collaborators.
func (a *App) deps() app.Deps {
	return app.Deps{
		Clients: a.Clients,
		Config:  a.Config,
		Journal: a.Journal,
		Cache:   a.Cache,
		Logger:  a.logger(),
		Getenv:  a.getenv,
		Now:     a.now,
	}
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "vartui" command. Without a
// subcommand it opens the terminal UI.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "vartui",
		Short:         "Terminal client for the VAR time tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.interactive() {
				return ErrNotInteractive
			}
			run := a.RunTUI
			if run == nil {
				run = func(ctx context.Context, session *app.App) error {
					return tui.Run(ctx, session, tui.WithGetenv(a.getenv), tui.WithClock(a.now))
				}
			}
			return run(cmd.Context(), app.New(a.deps()))
		},
	}

	root.AddCommand(
		newAPICmd(a),
		newMCPCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}
