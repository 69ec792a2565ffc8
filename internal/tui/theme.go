package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/vartui/internal/config"
)

// EnvSystemTheme hints the terminal background for the "auto" theme:
// dark|1|true or light|0|false.
const EnvSystemTheme = "VARTUI_SYSTEM_THEME"

// Palette is the set of colors a theme contributes.
type Palette struct {
	Bg        lipgloss.Color
	Fg        lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Selection lipgloss.Color
}

var palettes = map[string]Palette{
	"dracula":          {"#282a36", "#f8f8f2", "#bd93f9", "#6272a4", "#50fa7b", "#f1fa8c", "#ff5555", "#44475a"},
	"one-dark-pro":     {"#282c34", "#abb2bf", "#61afef", "#5c6370", "#98c379", "#e5c07b", "#e06c75", "#3e4451"},
	"nord":             {"#2e3440", "#d8dee9", "#88c0d0", "#4c566a", "#a3be8c", "#ebcb8b", "#bf616a", "#434c5e"},
	"catppuccin-mocha": {"#1e1e2e", "#cdd6f4", "#cba6f7", "#6c7086", "#a6e3a1", "#f9e2af", "#f38ba8", "#313244"},
	"catppuccin-latte": {"#eff1f5", "#4c4f69", "#8839ef", "#9ca0b0", "#40a02b", "#df8e1d", "#d20f39", "#ccd0da"},
	"gruvbox-dark":     {"#282828", "#ebdbb2", "#fe8019", "#928374", "#b8bb26", "#fabd2f", "#fb4934", "#3c3836"},
	"gruvbox-light":    {"#fbf1c7", "#3c3836", "#af3a03", "#928374", "#79740e", "#b57614", "#9d0006", "#ebdbb2"},
	"tokyo-night":      {"#1a1b26", "#c0caf5", "#7aa2f7", "#565f89", "#9ece6a", "#e0af68", "#f7768e", "#283457"},
	"solarized-dark":   {"#002b36", "#839496", "#268bd2", "#586e75", "#859900", "#b58900", "#dc322f", "#073642"},
	"solarized-light":  {"#fdf6e3", "#657b83", "#268bd2", "#93a1a1", "#859900", "#b58900", "#dc322f", "#eee8d5"},
	"monokai-pro":      {"#2d2a2e", "#fcfcfa", "#ffd866", "#727072", "#a9dc76", "#fc9867", "#ff6188", "#403e41"},
	"rose-pine":        {"#191724", "#e0def4", "#c4a7e7", "#6e6a86", "#9ccfd8", "#f6c177", "#eb6f92", "#26233a"},
	"kanagawa":         {"#1f1f28", "#dcd7ba", "#7e9cd8", "#727169", "#98bb6c", "#e6c384", "#e82424", "#2d4f67"},
	"everforest":       {"#2d353b", "#d3c6aa", "#a7c080", "#859289", "#a7c080", "#dbbc7f", "#e67e80", "#475258"},
	"cyberpunk":        {"#000b1e", "#0abdc6", "#ea00d9", "#133e7c", "#00ff9f", "#f3e600", "#ff003c", "#091833"},
}

// ResolveTheme maps a configured theme key to a catalogue slug. "auto"
// follows EnvSystemTheme and unknown keys fall back to the default theme.
func ResolveTheme(raw string, getenv config.Getenv) string {
	name := config.NormalizeTheme(raw)
	if name == "auto" {
		if isDark, ok := systemThemeHint(getenv); ok && !isDark {
			return "catppuccin-latte"
		}
		return config.DefaultTheme
	}
	if _, ok := palettes[name]; !ok {
		return config.DefaultTheme
	}
	return name
}

func systemThemeHint(getenv config.Getenv) (bool, bool) {
	if getenv == nil {
		return false, false
	}
	switch strings.ToLower(strings.TrimSpace(getenv(EnvSystemTheme))) {
	case "dark", "1", "true":
		return true, true
	case "light", "0", "false":
		return false, true
	}
	return false, false
}

// Styles are the lipgloss styles derived from one palette.
type Styles struct {
	Title       lipgloss.Style
	Text        lipgloss.Style
	Dim         lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	Error       lipgloss.Style
	Selected    lipgloss.Style
	SelectedAlt lipgloss.Style
	Pane        lipgloss.Style
	PaneFocused lipgloss.Style
	Modal       lipgloss.Style
	Label       lipgloss.Style
	LabelActive lipgloss.Style
}

func newStyles(p Palette) Styles {
	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Muted).
		Padding(0, 1)
	return Styles{
		Title:       lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Text:        lipgloss.NewStyle().Foreground(p.Fg),
		Dim:         lipgloss.NewStyle().Foreground(p.Muted),
		Success:     lipgloss.NewStyle().Foreground(p.Success),
		Warning:     lipgloss.NewStyle().Foreground(p.Warning),
		Error:       lipgloss.NewStyle().Foreground(p.Error),
		Selected:    lipgloss.NewStyle().Foreground(p.Accent).Background(p.Selection).Bold(true),
		SelectedAlt: lipgloss.NewStyle().Foreground(p.Warning).Background(p.Selection).Bold(true),
		Pane:        pane,
		PaneFocused: pane.BorderForeground(p.Accent),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.Accent).
			Padding(0, 2),
		Label:       lipgloss.NewStyle().Foreground(p.Muted).Width(14),
		LabelActive: lipgloss.NewStyle().Foreground(p.Accent).Bold(true).Width(14),
	}
}

// PaletteFor returns the colors of a resolved theme slug.
func PaletteFor(slug string) Palette {
	p, ok := palettes[slug]
	if !ok {
		return palettes[config.DefaultTheme]
	}
	return p
}

// StylesFor returns the styles of a resolved theme slug.
func StylesFor(slug string) Styles {
	return newStyles(PaletteFor(slug))
}
