package api

import (
	"log/slog"
	"time"
)

// CallEvent records metadata about one HTTP call to the time-tracking API.
type CallEvent struct {
	Method    string
	Path      string
	Status    int
	Latency   time.Duration
	TokenLen  int
	ErrorCode string
}

// Observer receives events about API calls for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a slog logger. The token itself is
// never part of an event.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"method", event.Method,
		"path", event.Path,
		"status", event.Status,
		"latency_ms", event.Latency.Milliseconds(),
		"token_len", event.TokenLen,
	}
	if event.ErrorCode != "" {
		o.logger.Warn("api_call", append(attrs, "error_code", event.ErrorCode)...)
		return
	}
	o.logger.Debug("api_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
