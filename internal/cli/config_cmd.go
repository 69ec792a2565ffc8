package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/vartui/internal/config"
	"github.com/alexanderramin/vartui/internal/domain"
	"github.com/alexanderramin/vartui/internal/tui"
)

// configKeys are the names accepted by `config set`, in form order.
var configKeys = []string{"var_token", "base_url", "default_date_range", "theme"}

// vartuiHuhTheme colors huh forms with the configured palette.
func vartuiHuhTheme(p tui.Palette) *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(p.Accent)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(p.Success)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(p.Fg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(p.Bg).Background(p.Accent).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(p.Accent)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(p.Accent)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(p.Fg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(p.Muted)
	t.Focused.Description = lipgloss.NewStyle().Foreground(p.Muted)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(p.Error)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(p.Muted)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(p.Muted)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(p.Muted)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(p.Muted)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(p.Muted)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(p.Muted)

	return t
}

func validateBaseURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute URL like %s", config.DefaultBaseURL)
	}
	return nil
}

func validateOptionalRange(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := domain.ParseDateRange(s)
	return err
}

func validateTheme(s string) error {
	if config.IsKnownTheme(s) {
		return nil
	}
	return fmt.Errorf("unknown theme %q", s)
}

// configForm edits cfg in place.
func configForm(cfg *config.Config, p tui.Palette) *huh.Form {
	options := make([]huh.Option[string], 0, len(config.Themes)+1)
	options = append(options, huh.NewOption("auto (follow terminal)", "auto"))
	for _, name := range config.Themes {
		options = append(options, huh.NewOption(name, name))
	}
	cfg.Theme = config.NormalizeTheme(cfg.Theme)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API token").
				Description("blank falls back to VAR_TOKEN").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Token),
			huh.NewInput().
				Title("Base URL").
				Placeholder(config.DefaultBaseURL).
				Value(&cfg.BaseURL).
				Validate(validateBaseURL),
			huh.NewInput().
				Title("Default range").
				Placeholder("AUTO").
				Description("AUTO, AUTO-WEEK, AUTO-MONTH or YYYY-MM-DD..YYYY-MM-DD").
				Value(&cfg.DefaultDateRange).
				Validate(validateOptionalRange),
			huh.NewSelect[string]().
				Title("Theme").
				Options(options...).
				Value(&cfg.Theme),
		),
	).WithTheme(vartuiHuhTheme(p)).WithShowHelp(false)
}

// normalizeConfig trims form input and fills blanks with defaults.
func normalizeConfig(cfg config.Config) config.Config {
	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultBaseURL
	}
	cfg.DefaultDateRange = strings.TrimSpace(cfg.DefaultDateRange)
	cfg.Theme = config.NormalizeTheme(cfg.Theme)
	return cfg
}

func newConfigCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Edit the configuration interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.interactive() {
				return errors.New("config editor needs an interactive terminal; use `vartui config set`")
			}
			cfg := a.Config.Load()
			palette := tui.PaletteFor(tui.ResolveTheme(cfg.Theme, a.getenv))
			if err := configForm(&cfg, palette).RunWithContext(cmd.Context()); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
					return nil
				}
				return err
			}
			if err := a.Config.Save(normalizeConfig(cfg)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "configuration saved!")
			return nil
		},
	}
	cmd.AddCommand(newConfigShowCmd(a), newConfigSetCmd(a), newConfigPathCmd(a))
	return cmd
}

func newConfigShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored configuration with the token masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.Config.Load()
			creds := config.Resolve(cfg, a.getenv)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "var_token:          %s\n", maskToken(cfg.Token))
			fmt.Fprintf(out, "base_url:           %s\n", cfg.BaseURL)
			fmt.Fprintf(out, "default_date_range: %s\n", cfg.DefaultDateRange)
			fmt.Fprintf(out, "theme:              %s\n", cfg.Theme)
			fmt.Fprintf(out, "effective base url: %s\n", creds.BaseURL)
			fmt.Fprintf(out, "effective token:    %s\n", maskToken(creds.Token))
			return nil
		},
	}
}

func newConfigSetCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set one configuration key",
		Long:      "Set one configuration key. Keys: " + strings.Join(configKeys, ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: configKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.Config.Load()
			key, value := args[0], args[1]
			switch key {
			case "var_token", "token":
				cfg.Token = value
			case "base_url":
				if err := validateBaseURL(value); err != nil {
					return err
				}
				cfg.BaseURL = value
			case "default_date_range":
				if err := validateOptionalRange(value); err != nil {
					return err
				}
				cfg.DefaultDateRange = value
			case "theme":
				if err := validateTheme(value); err != nil {
					return err
				}
				cfg.Theme = value
			default:
				return fmt.Errorf("unknown key %q (use %s)", key, strings.Join(configKeys, ", "))
			}
			if err := a.Config.Save(normalizeConfig(cfg)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s updated\n", key)
			return nil
		},
	}
}

func newConfigPathCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, ok := a.Config.(interface{ Path() string })
			if !ok {
				return errors.New("configuration is not file backed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.Path())
			return nil
		},
	}
}

func maskToken(s string) string {
	if s == "" {
		return "(not set)"
	}
	r := []rune(s)
	if len(r) <= 4 {
		return "***"
	}
	return "***" + string(r[len(r)-4:])
}
