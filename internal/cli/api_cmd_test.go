package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/vartui/internal/config"
	"github.com/alexanderramin/vartui/internal/domain"
	"github.com/alexanderramin/vartui/internal/testutil"
)

func TestAPIProjects_PrintsSortedCatalogueAndCaches(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "api", "projects")
	require.NoError(t, err)

	got := decode[[]projectOutput](t, out)
	require.Len(t, got, 4)
	assert.Equal(t, projectOutput{ID: 11, Name: "Backend", ClientName: "Acme"}, got[0])
	assert.Contains(t, out, `"client_name":"Acme"`)

	cached, err := env.cache.List(context.Background(), config.DefaultBaseURL)
	require.NoError(t, err)
	assert.Len(t, cached, 4)
}

func TestAPIProjects_FallsBackToCache(t *testing.T) {
	env := testApp(t)
	_, err := executeCmd(t, env.app, "api", "projects")
	require.NoError(t, err)

	env.client.Set(func(c *testutil.FakeClient) { c.ProjectsErr = errors.New("502 bad gateway") })
	out, err := executeCmd(t, env.app, "api", "projects")
	require.NoError(t, err)
	assert.Len(t, decode[[]projectOutput](t, out), 4)
}

func TestAPIProjects_ErrorWithoutCache(t *testing.T) {
	env := testApp(t)
	env.client.Set(func(c *testutil.FakeClient) { c.ProjectsErr = errors.New("502 bad gateway") })

	_, err := executeCmd(t, env.app, "api", "projects")
	assert.EqualError(t, err, "502 bad gateway")
}

func TestAPI_MissingToken(t *testing.T) {
	env := testApp(t)
	require.NoError(t, env.store.Save(config.Default()))

	for _, args := range [][]string{
		{"api", "projects"},
		{"api", "days"},
		{"api", "entries"},
		{"api", "create-entry", "--date", "2024-03-12", "--project-id", "11", "--description", "x", "--minutes", "30"},
	} {
		t.Run(args[1], func(t *testing.T) {
			_, err := executeCmd(t, env.app, args...)
			assert.ErrorIs(t, err, ErrMissingToken)
		})
	}
	assert.Empty(t, env.client.Created())
}

func TestAPI_TokenFromEnvironment(t *testing.T) {
	env := testApp(t)
	require.NoError(t, env.store.Save(config.Default()))
	env.app.Getenv = func(k string) string {
		if k == config.EnvToken {
			return ` "env-token" `
		}
		return ""
	}

	_, err := executeCmd(t, env.app, "api", "projects")
	require.NoError(t, err)
	creds := env.client.Credentials()
	require.Len(t, creds, 1)
	assert.Equal(t, "env-token", creds[0].Token)
}

func TestAPIDays_ExplicitRange(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "api", "days", "--range", "2024-03-11..2024-03-12")
	require.NoError(t, err)

	got := decode[daysOutput](t, out)
	assert.Equal(t, "2024-03-11..2024-03-12", got.Range)
	require.Len(t, got.Days, 2)
	assert.Equal(t, "2024-03-12", got.Days[0].Date)
	require.Len(t, got.Days[0].Entries, 1)
	assert.Equal(t, domain.Entry{Project: "Backend", Hours: 1.5, Note: "api review"}, got.Days[0].Entries[0])
}

func TestAPIDays_RangeDefaults(t *testing.T) {
	tests := []struct {
		name        string
		configRange string
		want        string
	}{
		{"config default", "2024-03-01..2024-03-03", "2024-03-01..2024-03-03"},
		{"auto", "", "2024-03-01..2024-03-13"},
		{"config keyword", "auto-week", "2024-03-11..2024-03-13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testApp(t)
			cfg := env.store.Load()
			cfg.DefaultDateRange = tt.configRange
			require.NoError(t, env.store.Save(cfg))

			out, err := executeCmd(t, env.app, "api", "days")
			require.NoError(t, err)
			assert.Equal(t, tt.want, decode[daysOutput](t, out).Range)

			ranges := env.client.DaysRanges()
			require.Len(t, ranges, 1)
			assert.Equal(t, tt.want, ranges[0].Label())
		})
	}
}

func TestAPIDays_InvalidRange(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "api", "days", "--range", "2024-03-12")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date range")
	assert.Empty(t, env.client.DaysRanges())
}

func TestAPIDays_InvalidConfiguredRange(t *testing.T) {
	env := testApp(t)
	cfg := env.store.Load()
	cfg.DefaultDateRange = "someday"
	require.NoError(t, env.store.Save(cfg))

	_, err := executeCmd(t, env.app, "api", "days")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid range (someday)")
}

func TestAPIEntries_Flattened(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "api", "entries", "--range", "2024-03-10..2024-03-12")
	require.NoError(t, err)

	got := decode[entriesOutput](t, out)
	assert.Equal(t, "2024-03-10..2024-03-12", got.Range)
	assert.Equal(t, []entryOutput{
		{Date: "2024-03-12", Project: "Backend", Hours: 1.5, Note: "api review"},
		{Date: "2024-03-11", Project: "Mobile App", Hours: 0.5, Note: "release"},
	}, got.Entries)
}

func TestAPIEntries_EmptyListIsArray(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "api", "entries", "--range", "2024-01-01..2024-01-02")
	require.NoError(t, err)
	assert.Contains(t, out, `"entries":[]`)
}

func TestAPI_PrettyOutput(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "api", "--pretty", "projects")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[\n  {\n    \"id\": 11"), out)
}

func TestAPICreateEntry_SendsAndJournals(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "api", "create-entry",
		"--date", "12/03/2024",
		"--project-id", "12",
		"--description", "standup",
		"--minutes", "15",
		"--billable", "no",
	)
	require.NoError(t, err)

	assert.Equal(t, createEntryOutput{OK: true, Date: "2024-03-12", ProjectID: 12, Minutes: 15}, decode[createEntryOutput](t, out))

	created := env.client.Created()
	require.Len(t, created, 1)
	assert.Equal(t, "standup", created[0].Description)
	assert.False(t, created[0].IsBillable)
	assert.NotNil(t, created[0].TagIDs)

	subs, err := env.journal.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, domain.SourceCLI, subs[0].Source)
	assert.True(t, subs[0].Succeeded())
}

func TestAPICreateEntry_BillableDefaultsTrue(t *testing.T) {
	env := testApp(t)

	_, err := executeCmd(t, env.app, "api", "create-entry",
		"--date", "2024-03-12", "--project-id", "11", "--description", "x", "--minutes", "60")
	require.NoError(t, err)

	created := env.client.Created()
	require.Len(t, created, 1)
	assert.True(t, created[0].IsBillable)
}

func TestAPICreateEntry_RemoteFailureIsJournaled(t *testing.T) {
	env := testApp(t)
	env.client.Set(func(c *testutil.FakeClient) { c.CreateErr = errors.New("422 invalid project") })

	_, err := executeCmd(t, env.app, "api", "create-entry",
		"--date", "2024-03-12", "--project-id", "99", "--description", "x", "--minutes", "60")
	assert.EqualError(t, err, "422 invalid project")

	subs, err := env.journal.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "422 invalid project", subs[0].Error)
}

func TestAPICreateEntry_Validation(t *testing.T) {
	base := []string{"api", "create-entry", "--description", "x"}
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"bad date", []string{"--date", "yesterday", "--project-id", "1", "--minutes", "5"}, `invalid --date "yesterday"`},
		{"zero project", []string{"--date", "2024-03-12", "--project-id", "0", "--minutes", "5"}, "--project-id must be greater than 0"},
		{"negative minutes", []string{"--date", "2024-03-12", "--project-id", "1", "--minutes", "-5"}, "--minutes must be greater than 0"},
		{"bad billable", []string{"--date", "2024-03-12", "--project-id", "1", "--minutes", "5", "--billable", "maybe"}, `invalid boolean "maybe"`},
		{"missing minutes", []string{"--date", "2024-03-12", "--project-id", "1"}, "minutes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testApp(t)
			_, err := executeCmd(t, env.app, append(base, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, env.client.Created())
		})
	}
}

func TestAPIHistory(t *testing.T) {
	env := testApp(t)
	ctx := context.Background()
	require.NoError(t, env.journal.Record(ctx, testutil.NewTestSubmission("first", 30,
		testutil.WithSubmittedAt(fixedNow.Add(-2 * time.Hour)))))
	require.NoError(t, env.journal.Record(ctx, testutil.NewTestSubmission("second", 45,
		testutil.WithSubmittedAt(fixedNow.Add(-time.Hour)), testutil.WithSubmissionError("500 boom"))))

	out, err := executeCmd(t, env.app, "api", "history", "--limit", "1")
	require.NoError(t, err)

	got := decode[[]domain.Submission](t, out)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Description)
	assert.Equal(t, "500 boom", got[0].Error)
}

func TestAPIHistory_Empty(t *testing.T) {
	env := testApp(t)

	out, err := executeCmd(t, env.app, "api", "history")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestParseBoolish(t *testing.T) {
	tests := []struct {
		in     string
		want   bool
		wantOK bool
	}{
		{"1", true, true},
		{"TRUE", true, true},
		{" yes ", true, true},
		{"y", true, true},
		{"0", false, true},
		{"false", false, true},
		{"No", false, true},
		{"n", false, true},
		{"maybe", false, false},
		{"", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseBoolish(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
