// Package logging builds the slog loggers shared by the TUI, the CLI and
// the automation server.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// EnvDebugLog names the file that receives debug output when set.
const EnvDebugLog = "VARTUI_DEBUG_LOG"

// New returns a text logger writing to w. A nil writer discards everything.
func New(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		return Discard()
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// OpenFile appends debug records to path, creating parent directories.
// The returned closer must be closed on shutdown.
func OpenFile(path string) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return New(f, slog.LevelDebug), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// FromEnv opens the file named by VARTUI_DEBUG_LOG. When the variable is
// unset or the file cannot be opened, logging is discarded; the TUI owns
// the terminal so there is nowhere else to write.
func FromEnv(getenv func(string) string) (*slog.Logger, io.Closer) {
	path := getenv(EnvDebugLog)
	if path == "" {
		return Discard(), nopCloser{}
	}
	logger, closer, err := OpenFile(path)
	if err != nil {
		return Discard(), nopCloser{}
	}
	return logger, closer
}
