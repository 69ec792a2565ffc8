package app

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/vartui/internal/testutil"
)

func clearRangeBuffer(a *App) {
	buf, _ := a.RangeInput()
	for range buf {
		HandleKey(a, key(tea.KeyBackspace))
	}
}

func TestRangeInput_SubmitBuildsSkeletonAndRefetches(t *testing.T) {
	gate := make(chan struct{})
	f := newFixture(t, withClient(func(c *testutil.FakeClient) { c.DaysGate = gate }), withoutWait())
	defer close(gate)

	HandleKey(f.app, keyRunes("f"))
	buf, ok := f.app.RangeInput()
	require.True(t, ok)
	assert.Equal(t, "2024-03-01..2024-03-13", buf)

	clearRangeBuffer(f.app)
	typeText(f.app, "2024-03-01..2024-03-03")
	HandleKey(f.app, key(tea.KeyEnter))

	assert.Equal(t, ModeNormal, f.app.Mode())
	assert.Equal(t, "2024-03-01..2024-03-03", f.app.Range().Label())
	require.Len(t, f.app.Days(), 3)
	assert.Equal(t, "2024-03-03", f.app.Days()[0].Date)
	assert.Equal(t, "2024-03-02", f.app.Days()[1].Date)
	assert.Equal(t, "2024-03-01", f.app.Days()[2].Date)
	assert.Equal(t, "refreshing...", f.app.Status())

	assert.Eventually(t, func() bool {
		for _, r := range f.client.DaysRanges() {
			if r.Label() == "2024-03-01..2024-03-03" {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func TestRangeInput_InvalidKeepsEditor(t *testing.T) {
	f := newFixture(t)
	before := f.app.Range()

	f.app.StartRangeInput()
	clearRangeBuffer(f.app)
	typeText(f.app, "2024-03-05..2024-03-01")
	f.app.SubmitRangeInput()

	assert.Equal(t, ModeEditing, f.app.Mode())
	buf, _ := f.app.RangeInput()
	assert.Equal(t, "2024-03-05..2024-03-01", buf)
	assert.Contains(t, f.app.Status(), "error: ")
	assert.Equal(t, before, f.app.Range())
}

func TestRangeInput_CancelRestoresNormal(t *testing.T) {
	f := newFixture(t)
	f.app.NextDay()
	f.app.FocusEntries()

	f.app.StartRangeInput()
	HandleKey(f.app, key(tea.KeyEsc))

	assert.Equal(t, ModeNormal, f.app.Mode())
	assert.Equal(t, FocusEntries, f.app.Focus())
	assert.Equal(t, "2024-03-01..2024-03-13", f.app.Range().Label())
}

func TestRangeInput_BufferLimits(t *testing.T) {
	f := newFixture(t)
	f.app.StartRangeInput()
	clearRangeBuffer(f.app)

	f.app.RangeInputPush('é')
	buf, _ := f.app.RangeInput()
	assert.Empty(t, buf)

	for i := 0; i < maxRangeInput+10; i++ {
		f.app.RangeInputPush('x')
	}
	buf, _ = f.app.RangeInput()
	assert.Len(t, buf, maxRangeInput)

	f.app.RangeInputBackspace()
	buf, _ = f.app.RangeInput()
	assert.Len(t, buf, maxRangeInput-1)
}

func TestSetRange(t *testing.T) {
	f := newFixture(t)

	err := f.app.SetRange("yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid range (yesterday)")
	assert.Equal(t, ModeNormal, f.app.Mode())

	require.NoError(t, f.app.SetRange("auto-week"))
	assert.Equal(t, "2024-03-11..2024-03-13", f.app.Range().Label())
	assert.Len(t, f.app.Days(), 3)
	assert.Equal(t, ModeNormal, f.app.Mode())
}

func TestSetRange_AppliesEditorLimits(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.app.SetRange("2024-03-01..2024-03-02é"))
	assert.Equal(t, "2024-03-01..2024-03-02", f.app.Range().Label())
	assert.Len(t, f.app.Days(), 2)

	long := strings.Repeat("x", maxRangeInput+6)
	err := f.app.SetRange(long)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "("+strings.Repeat("x", maxRangeInput)+")")
	assert.NotContains(t, err.Error(), strings.Repeat("x", maxRangeInput+1))
	assert.Equal(t, ModeNormal, f.app.Mode())
	assert.Equal(t, "2024-03-01..2024-03-02", f.app.Range().Label())
}
