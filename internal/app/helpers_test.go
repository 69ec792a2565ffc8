package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/vartui/internal/config"
	"github.com/alexanderramin/vartui/internal/domain"
	"github.com/alexanderramin/vartui/internal/repository"
	"github.com/alexanderramin/vartui/internal/testutil"
)

// fixedNow is Wednesday 2024-03-13.
var fixedNow = time.Date(2024, 3, 13, 10, 0, 0, 0, time.Local)

type fixture struct {
	app     *App
	client  *testutil.FakeClient
	store   *testutil.MemoryConfigStore
	journal *repository.SQLiteJournal
	cache   *repository.SQLiteProjectCache
	env     map[string]string
}

type fixtureOption func(*fixtureSetup)

type fixtureSetup struct {
	cfg    config.Config
	env    map[string]string
	client func(*testutil.FakeClient)
	noWait bool
	seed   []domain.Project
}

func withConfig(cfg config.Config) fixtureOption {
	return func(s *fixtureSetup) { s.cfg = cfg }
}

func withEnv(k, v string) fixtureOption {
	return func(s *fixtureSetup) { s.env[k] = v }
}

func withClient(fn func(*testutil.FakeClient)) fixtureOption {
	return func(s *fixtureSetup) { s.client = fn }
}

func withoutWait() fixtureOption {
	return func(s *fixtureSetup) { s.noWait = true }
}

func withCachedProjects(p []domain.Project) fixtureOption {
	return func(s *fixtureSetup) { s.seed = p }
}

// sampleEntries puts two entries on 2024-03-12 and one on 2024-03-11.
func sampleEntries() []domain.TimeEntry {
	return []domain.TimeEntry{
		{Date: "2024-03-12", Description: "api review", ProjectID: 11, Minutes: 90},
		{Date: "2024-03-12", Description: "standup", ProjectID: 12, Minutes: 15},
		{Date: "2024-03-11", Description: "landing page", ProjectID: 31, Minutes: 120},
	}
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	setup := &fixtureSetup{cfg: config.Default(), env: map[string]string{}}
	for _, opt := range opts {
		opt(setup)
	}

	client := testutil.NewFakeClient()
	client.Entries = sampleEntries()
	if setup.client != nil {
		setup.client(client)
	}

	database := testutil.NewTestDB(t)
	f := &fixture{
		client:  client,
		store:   testutil.NewMemoryConfigStore(setup.cfg),
		journal: repository.NewSQLiteJournal(database),
		cache:   repository.NewSQLiteProjectCache(database),
		env:     setup.env,
	}
	if setup.seed != nil {
		creds := config.Resolve(setup.cfg, f.getenv)
		require.NoError(t, f.cache.Replace(t.Context(), creds.BaseURL, setup.seed))
	}

	f.app = New(Deps{
		Clients: client.Factory(),
		Config:  f.store,
		Journal: f.journal,
		Cache:   f.cache,
		Getenv:  f.getenv,
		Now:     func() time.Time { return fixedNow },
	})
	if !setup.noWait {
		require.True(t, f.app.WaitBackgroundLoad(2*time.Second), "initial fetches should finish")
	}
	return f
}

func (f *fixture) getenv(k string) string { return f.env[k] }

func (f *fixture) wait(t *testing.T) {
	t.Helper()
	require.True(t, f.app.WaitBackgroundLoad(2*time.Second))
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func typeText(a *App, s string) {
	for _, r := range s {
		HandleKey(a, keyRunes(string(r)))
	}
}
