package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesTextRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)

	logger.Debug("hidden")
	logger.Info("fetch_complete", "days", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=fetch_complete")
	assert.Contains(t, out, "days=3")
}

func TestNew_NilWriterDiscards(t *testing.T) {
	assert.NotPanics(t, func() { New(nil, slog.LevelDebug).Info("x") })
}

func TestFromEnv_WritesToConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	logger, closer := FromEnv(func(k string) string {
		if k == EnvDebugLog {
			return path
		}
		return ""
	})
	logger.Debug("session_created", "sid", "abc")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session_created")
}

func TestFromEnv_UnsetDiscards(t *testing.T) {
	logger, closer := FromEnv(func(string) string { return "" })
	assert.NotNil(t, logger)
	assert.NoError(t, closer.Close())
}
