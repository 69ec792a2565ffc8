package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/vartui/internal/config"
	"github.com/alexanderramin/vartui/internal/tui"
)

func TestConfigShow_MasksToken(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "var_token:          ***1234")
	assert.Contains(t, out, "effective base url: "+config.DefaultBaseURL)
	assert.NotContains(t, out, "secret-token")
}

func TestConfigShow_UnsetToken(t *testing.T) {
	env := testApp(t)
	require.NoError(t, env.store.Save(config.Default()))

	out, err := executeCmd(t, env.app, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "var_token:          (not set)")
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "(not set)", maskToken(""))
	assert.Equal(t, "***", maskToken("abcd"))
	assert.Equal(t, "***2345", maskToken("12345"))
}

func TestConfigSet(t *testing.T) {
	tests := []struct {
		key   string
		value string
		check func(t *testing.T, cfg config.Config)
	}{
		{"var_token", " new-token ", func(t *testing.T, cfg config.Config) {
			assert.Equal(t, "new-token", cfg.Token)
		}},
		{"base_url", "https://example.test/api/", func(t *testing.T, cfg config.Config) {
			assert.Equal(t, "https://example.test/api", cfg.BaseURL)
		}},
		{"default_date_range", "AUTO-WEEK", func(t *testing.T, cfg config.Config) {
			assert.Equal(t, "AUTO-WEEK", cfg.DefaultDateRange)
		}},
		{"theme", "Mocha", func(t *testing.T, cfg config.Config) {
			assert.Equal(t, "catppuccin-mocha", cfg.Theme)
		}},
		{"theme", "system", func(t *testing.T, cfg config.Config) {
			assert.Equal(t, "auto", cfg.Theme)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			env := testApp(t)
			out, err := executeCmd(t, env.app, "config", "set", tt.key, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.key+" updated\n", out)
			tt.check(t, env.store.Load())
		})
	}
}

func TestConfigSet_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown key", []string{"colour", "red"}, `unknown key "colour"`},
		{"relative url", []string{"base_url", "var/api"}, "must be an absolute URL"},
		{"bad range", []string{"default_date_range", "2024-03-10"}, "invalid date range"},
		{"unknown theme", []string{"theme", "neon"}, `unknown theme "neon"`},
		{"missing value", []string{"theme"}, "accepts 2 arg(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testApp(t)
			_, err := executeCmd(t, env.app, append([]string{"config", "set"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Zero(t, env.store.Saves())
		})
	}
}

func TestConfigPath(t *testing.T) {
	env := testApp(t)
	path := filepath.Join(t.TempDir(), "vartui", "config.toml")
	env.app.Config = config.NewFileStore(path, nil)

	out, err := executeCmd(t, env.app, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path, strings.TrimSpace(out))
}

func TestConfigPath_MemoryStore(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "config", "path")
	assert.EqualError(t, err, "configuration is not file backed")
}

func TestConfigSet_PersistsToFile(t *testing.T) {
	env := testApp(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	env.app.Config = config.NewFileStore(path, nil)

	_, err := executeCmd(t, env.app, "config", "set", "default_date_range", "2024-03-01..2024-03-31")
	require.NoError(t, err)

	loaded := config.NewFileStore(path, nil).Load()
	assert.Equal(t, "2024-03-01..2024-03-31", loaded.DefaultDateRange)
	assert.Equal(t, config.DefaultBaseURL, loaded.BaseURL)
}

func TestConfigEditor_RefusesWithoutTerminal(t *testing.T) {
	env := testApp(t)
	env.app.IsInteractive = func() bool { return false }

	_, err := executeCmd(t, env.app, "config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interactive terminal")
}

func TestNormalizeConfig(t *testing.T) {
	got := normalizeConfig(config.Config{
		Token:            "  tok ",
		BaseURL:          " ",
		DefaultDateRange: " AUTO ",
		Theme:            "Tokyo",
	})
	assert.Equal(t, config.Config{
		Token:            "tok",
		BaseURL:          config.DefaultBaseURL,
		DefaultDateRange: "AUTO",
		Theme:            "tokyo-night",
	}, got)
}

func TestConfigForm_BuildsWithAliasTheme(t *testing.T) {
	cfg := config.Config{Theme: "latte"}
	form := configForm(&cfg, tui.PaletteFor("catppuccin-latte"))

	require.NotNil(t, form)
	assert.Equal(t, "catppuccin-latte", cfg.Theme)
}

func TestConfigValidators(t *testing.T) {
	assert.NoError(t, validateBaseURL(""))
	assert.NoError(t, validateBaseURL("http://localhost:8080/api"))
	assert.Error(t, validateBaseURL("localhost"))

	assert.NoError(t, validateOptionalRange(" "))
	assert.NoError(t, validateOptionalRange("week"))
	assert.Error(t, validateOptionalRange("2024-03-02..2024-03-01"))

	assert.NoError(t, validateTheme("auto"))
	assert.NoError(t, validateTheme("gruvbox"))
	assert.Error(t, validateTheme("neon"))
}
