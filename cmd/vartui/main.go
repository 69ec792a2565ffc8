package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/vartui/internal/api"
	"github.com/alexanderramin/vartui/internal/cli"
	"github.com/alexanderramin/vartui/internal/config"
	"github.com/alexanderramin/vartui/internal/db"
	"github.com/alexanderramin/vartui/internal/logging"
	"github.com/alexanderramin/vartui/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger, closeLog := logging.FromEnv(os.Getenv)
	defer closeLog.Close()

	configPath, err := config.DefaultPath()
	if err != nil {
		return err
	}
	dbPath, err := db.DefaultPath()
	if err != nil {
		return err
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	app := &cli.App{
		Config:  config.NewFileStore(configPath, logger),
		Clients: api.NewFactory(api.WithObserver(api.NewLogObserver(logger))),
		Journal: repository.NewSQLiteJournal(database),
		Cache:   repository.NewSQLiteProjectCache(database),
		Logger:  logger,
		Getenv:  os.Getenv,
	}

	// The TUI and the config editor need a terminal on stdin.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
