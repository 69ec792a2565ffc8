package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/vartui/internal/config"
)

func TestResolveTheme(t *testing.T) {
	env := func(v string) config.Getenv {
		return func(k string) string {
			if k == EnvSystemTheme {
				return v
			}
			return ""
		}
	}
	tests := []struct {
		raw    string
		getenv config.Getenv
		want   string
	}{
		{"", noEnv, "tokyo-night"},
		{"Dracula", noEnv, "dracula"},
		{"mocha", noEnv, "catppuccin-mocha"},
		{"gruvbox", noEnv, "gruvbox-dark"},
		{"unknown-theme", noEnv, "tokyo-night"},
		{"auto", noEnv, "tokyo-night"},
		{"system", env("light"), "catppuccin-latte"},
		{"auto", env("0"), "catppuccin-latte"},
		{"auto", env("DARK"), "tokyo-night"},
		{"auto", nil, "tokyo-night"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResolveTheme(tt.raw, tt.getenv), tt.raw)
	}
}

func TestPalettes_CoverCatalogue(t *testing.T) {
	for _, name := range config.Themes {
		_, ok := palettes[name]
		assert.True(t, ok, name)
	}
	assert.Len(t, palettes, len(config.Themes))
}

func TestStylesFor_UnknownFallsBack(t *testing.T) {
	assert.Equal(t, StylesFor(config.DefaultTheme).Title.GetForeground(), StylesFor("nope").Title.GetForeground())
}
