package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/vartui/internal/app"
	"github.com/alexanderramin/vartui/internal/config"
	"github.com/alexanderramin/vartui/internal/domain"
	"github.com/alexanderramin/vartui/internal/repository"
	"github.com/alexanderramin/vartui/internal/teatest"
	"github.com/alexanderramin/vartui/internal/testutil"
)

// fixedNow is Wednesday 2024-03-13.
var fixedNow = time.Date(2024, 3, 13, 10, 0, 0, 0, time.Local)

func noEnv(string) string { return "" }

func newTestApp(t *testing.T, setup func(*testutil.FakeClient)) (*app.App, *testutil.FakeClient) {
	t.Helper()
	client := testutil.NewFakeClient()
	client.Entries = []domain.TimeEntry{
		{Date: "2024-03-12", Description: "api review", ProjectID: 11, Minutes: 90},
		{Date: "2024-03-12", Description: "standup", ProjectID: 12, Minutes: 15},
	}
	if setup != nil {
		setup(client)
	}
	database := testutil.NewTestDB(t)
	a := app.New(app.Deps{
		Clients: client.Factory(),
		Config:  testutil.NewMemoryConfigStore(config.Default()),
		Journal: repository.NewSQLiteJournal(database),
		Cache:   repository.NewSQLiteProjectCache(database),
		Getenv:  noEnv,
		Now:     func() time.Time { return fixedNow },
	})
	return a, client
}

func newDriver(t *testing.T, a *app.App) *teatest.Driver {
	t.Helper()
	require.True(t, a.WaitBackgroundLoad(2*time.Second))
	m := New(a, WithGetenv(noEnv), WithClock(func() time.Time { return fixedNow }))
	d := teatest.New(t, m, teatest.WithSize(160, 40))
	d.DrainInit()
	return d
}

func TestModel_QuitKeys(t *testing.T) {
	a, _ := newTestApp(t, nil)
	d := newDriver(t, a)

	d.PressKey('q')
	assert.True(t, d.Quitting)
	assert.True(t, d.Model.(*Model).Quitting())
	assert.Empty(t, d.View())
}

func TestModel_CtrlCQuitsFromForm(t *testing.T) {
	a, _ := newTestApp(t, nil)
	d := newDriver(t, a)

	d.PressKey('n')
	require.Equal(t, app.ModeAddingEntry, a.Mode())
	d.PressKey('q')
	assert.False(t, d.Quitting, "q is text inside the form")

	d.PressCtrlC()
	assert.True(t, d.Quitting)
}

func TestModel_TickMergesBackgroundLoad(t *testing.T) {
	gate := make(chan struct{})
	a, _ := newTestApp(t, func(c *testutil.FakeClient) { c.DaysGate = gate })
	m := New(a, WithGetenv(noEnv))
	d := teatest.New(t, m, teatest.WithSize(160, 40))
	d.DrainInit()

	assert.True(t, a.Loading())
	close(gate)

	deadline := time.Now().Add(2 * time.Second)
	for a.Loading() && time.Now().Before(deadline) {
		d.Send(tickMsg(time.Now()))
		time.Sleep(5 * time.Millisecond)
	}
	require.False(t, a.Loading())
	day := a.Days()[1]
	assert.Len(t, day.Entries, 2)
}

func TestModel_KeysReachApp(t *testing.T) {
	a, _ := newTestApp(t, nil)
	d := newDriver(t, a)

	d.PressKey('j')
	d.PressKey('l')
	assert.Equal(t, 1, a.DayIndex())
	assert.Equal(t, app.FocusEntries, a.Focus())

	d.PressDown()
	assert.Equal(t, 1, a.EntryIndex())

	d.PressKey('d')
	form, ok := a.EntryForm()
	require.True(t, ok)
	assert.Equal(t, "standup", form.Description)
	assert.Equal(t, "00:15", form.Minutes)
}

func TestModel_IgnoresUnknownMessages(t *testing.T) {
	a, _ := newTestApp(t, nil)
	d := newDriver(t, a)

	d.Send(tea.FocusMsg{})
	assert.False(t, d.Quitting)
	assert.Equal(t, app.ModeNormal, a.Mode())
}
