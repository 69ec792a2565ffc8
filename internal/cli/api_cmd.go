package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/vartui/internal/api"
	"github.com/alexanderramin/vartui/internal/config"
	"github.com/alexanderramin/vartui/internal/domain"
)

// ErrMissingToken is returned by api commands when no token is configured.
var ErrMissingToken = errors.New("no token configured: set VAR_TOKEN or save var_token with `vartui config`")

type projectOutput struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	ClientName string `json:"client_name"`
}

type daysOutput struct {
	Range string       `json:"range"`
	Days  []domain.Day `json:"days"`
}

type entryOutput struct {
	Date    string  `json:"date"`
	Project string  `json:"project"`
	Hours   float64 `json:"hours"`
	Note    string  `json:"note"`
}

type entriesOutput struct {
	Range   string        `json:"range"`
	Entries []entryOutput `json:"entries"`
}

type createEntryOutput struct {
	OK         bool   `json:"ok"`
	Date       string `json:"date"`
	ProjectID  int    `json:"project_id"`
	Minutes    int    `json:"minutes"`
	IsBillable bool   `json:"is_billable"`
}

func newAPICmd(a *App) *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "api",
		Short: "One-shot remote API calls printing JSON",
	}
	cmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "indent JSON output")

	emit := func(cmd *cobra.Command, v any) error {
		return writeJSON(cmd.OutOrStdout(), v, pretty)
	}

	cmd.AddCommand(
		newAPIProjectsCmd(a, emit),
		newAPIDaysCmd(a, emit),
		newAPIEntriesCmd(a, emit),
		newAPICreateEntryCmd(a, emit),
		newAPIHistoryCmd(a, emit),
	)
	return cmd
}

type printer func(cmd *cobra.Command, v any) error

func writeJSON(w io.Writer, v any, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// client resolves credentials and refuses to run without a token.
func (a *App) client() (api.Client, config.Config, config.Credentials, error) {
	cfg := a.Config.Load()
	creds := config.Resolve(cfg, a.getenv)
	if creds.Token == "" {
		return nil, cfg, creds, ErrMissingToken
	}
	c, err := a.Clients(creds)
	if err != nil {
		return nil, cfg, creds, fmt.Errorf("building api client: %w", err)
	}
	return c, cfg, creds, nil
}

// resolveRange applies the flag, then the configured default, then AUTO.
func (a *App) resolveRange(flag *rangeValue, cfg config.Config) (domain.DateRange, error) {
	raw := flag.raw
	if raw == "" {
		raw = strings.TrimSpace(cfg.DefaultDateRange)
	}
	if raw == "" {
		raw = "AUTO"
	}
	r, err := domain.ParseDateRangeAt(raw, a.now())
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("invalid range (%s): %w", raw, err)
	}
	return r, nil
}

func newAPIProjectsCmd(a *App, emit printer) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects sorted by client and name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, _, creds, err := a.client()
			if err != nil {
				return err
			}
			projects, err := client.FetchProjects(ctx)
			if err != nil {
				if a.Cache == nil {
					return err
				}
				cached, cerr := a.Cache.List(ctx, creds.BaseURL)
				if cerr != nil || len(cached) == 0 {
					return err
				}
				a.logger().Warn("projects_served_from_cache", "error", err.Error(), "count", len(cached))
				projects = cached
			} else if a.Cache != nil {
				if cerr := a.Cache.Replace(ctx, creds.BaseURL, projects); cerr != nil {
					a.logger().Warn("project_cache_write_failed", "error", cerr.Error())
				}
			}

			out := make([]projectOutput, 0, len(projects))
			for _, p := range projects {
				out = append(out, projectOutput{ID: p.ID, Name: p.Name, ClientName: p.ClientName})
			}
			return emit(cmd, out)
		},
	}
}

func newAPIDaysCmd(a *App, emit printer) *cobra.Command {
	var rng rangeValue
	cmd := &cobra.Command{
		Use:   "days",
		Short: "List days with their entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, cfg, _, err := a.client()
			if err != nil {
				return err
			}
			r, err := a.resolveRange(&rng, cfg)
			if err != nil {
				return err
			}
			days, err := client.FetchDays(cmd.Context(), r)
			if err != nil {
				return err
			}
			if days == nil {
				days = []domain.Day{}
			}
			return emit(cmd, daysOutput{Range: r.Label(), Days: days})
		},
	}
	cmd.Flags().Var(&rng, "range", "AUTO|AUTO-WEEK|AUTO-MONTH|YYYY-MM-DD..YYYY-MM-DD")
	return cmd
}

func newAPIEntriesCmd(a *App, emit printer) *cobra.Command {
	var rng rangeValue
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List entries flattened across days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, cfg, _, err := a.client()
			if err != nil {
				return err
			}
			r, err := a.resolveRange(&rng, cfg)
			if err != nil {
				return err
			}
			days, err := client.FetchDays(cmd.Context(), r)
			if err != nil {
				return err
			}
			out := entriesOutput{Range: r.Label(), Entries: []entryOutput{}}
			for _, d := range days {
				for _, e := range d.Entries {
					out.Entries = append(out.Entries, entryOutput{
						Date:    d.Date,
						Project: e.Project,
						Hours:   e.Hours,
						Note:    e.Note,
					})
				}
			}
			return emit(cmd, out)
		},
	}
	cmd.Flags().Var(&rng, "range", "AUTO|AUTO-WEEK|AUTO-MONTH|YYYY-MM-DD..YYYY-MM-DD")
	return cmd
}

func newAPICreateEntryCmd(a *App, emit printer) *cobra.Command {
	var (
		date        string
		projectID   int
		description string
		minutes     int
		billable    = boolishValue{v: true}
	)
	cmd := &cobra.Command{
		Use:   "create-entry",
		Short: "Create a time entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, ok := domain.ParseDate(date)
			if !ok {
				return fmt.Errorf("invalid --date %q", date)
			}
			if err := validatePositiveInt("project-id", projectID); err != nil {
				return err
			}
			if err := validatePositiveInt("minutes", minutes); err != nil {
				return err
			}

			client, _, _, err := a.client()
			if err != nil {
				return err
			}
			req := api.CreateEntryRequest{
				Date:        day.Format(domain.DateLayout),
				ProjectID:   projectID,
				Description: description,
				Minutes:     minutes,
				IsBillable:  billable.v,
				TagIDs:      []int{},
			}
			createErr := client.CreateTimeEntry(cmd.Context(), req)
			a.record(cmd, req, createErr)
			if createErr != nil {
				return createErr
			}
			return emit(cmd, createEntryOutput{
				OK:         true,
				Date:       req.Date,
				ProjectID:  req.ProjectID,
				Minutes:    req.Minutes,
				IsBillable: req.IsBillable,
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "entry date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&projectID, "project-id", 0, "project ID")
	cmd.Flags().StringVar(&description, "description", "", "entry description")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "duration in minutes")
	cmd.Flags().Var(&billable, "billable", "billable (true|false|yes|no|1|0)")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("project-id")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("minutes")
	return cmd
}

func (a *App) record(cmd *cobra.Command, req api.CreateEntryRequest, createErr error) {
	if a.Journal == nil {
		return
	}
	s := &domain.Submission{
		SubmittedAt: a.now().UTC(),
		Source:      domain.SourceCLI,
		Date:        req.Date,
		ProjectID:   req.ProjectID,
		Description: req.Description,
		Minutes:     req.Minutes,
		IsBillable:  req.IsBillable,
	}
	if createErr != nil {
		s.Error = createErr.Error()
	}
	if err := a.Journal.Record(cmd.Context(), s); err != nil {
		a.logger().Warn("journal_write_failed", "error", err.Error())
	}
}

func newAPIHistoryCmd(a *App, emit printer) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent create attempts from the local journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validatePositiveInt("limit", limit); err != nil {
				return err
			}
			if a.Journal == nil {
				return errors.New("local journal is not available")
			}
			subs, err := a.Journal.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if subs == nil {
				subs = []domain.Submission{}
			}
			return emit(cmd, subs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum submissions to list")
	return cmd
}
