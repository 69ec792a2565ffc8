package config

import "strings"

// Themes is the selectable theme catalogue, in cycling order.
var Themes = []string{
	"dracula",
	"one-dark-pro",
	"nord",
	"catppuccin-mocha",
	"catppuccin-latte",
	"gruvbox-dark",
	"gruvbox-light",
	"tokyo-night",
	"solarized-dark",
	"solarized-light",
	"monokai-pro",
	"rose-pine",
	"kanagawa",
	"everforest",
	"cyberpunk",
}

var themeAliases = map[string]string{
	"default":          "auto",
	"system":           "auto",
	"tokyo":            "tokyo-night",
	"catppuccin":       "catppuccin-mocha",
	"catppuccin-dark":  "catppuccin-mocha",
	"mocha":            "catppuccin-mocha",
	"catppuccin-light": "catppuccin-latte",
	"latte":            "catppuccin-latte",
	"gruvbox":          "gruvbox-dark",
	"solarized":        "solarized-dark",
}

// NormalizeTheme lowercases a theme key and resolves aliases. Empty input
// maps to DefaultTheme; "auto" is returned for system-detected themes.
func NormalizeTheme(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return DefaultTheme
	}
	if alias, ok := themeAliases[v]; ok {
		return alias
	}
	return v
}

// IsKnownTheme reports whether the key names a catalogue theme or "auto".
func IsKnownTheme(raw string) bool {
	v := NormalizeTheme(raw)
	if v == "auto" {
		return true
	}
	return themeIndex(v) >= 0
}

// NextTheme returns the catalogue entry after current, wrapping.
func NextTheme(current string) string {
	i := themeIndex(NormalizeTheme(current))
	return Themes[(i+1)%len(Themes)]
}

// PreviousTheme returns the catalogue entry before current, wrapping.
func PreviousTheme(current string) string {
	i := themeIndex(NormalizeTheme(current))
	if i <= 0 {
		return Themes[len(Themes)-1]
	}
	return Themes[i-1]
}

func themeIndex(name string) int {
	for i, t := range Themes {
		if t == name {
			return i
		}
	}
	return -1
}
