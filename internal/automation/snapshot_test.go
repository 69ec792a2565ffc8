package automation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/vartui/internal/app"
	"github.com/alexanderramin/vartui/internal/testutil"
	"github.com/alexanderramin/vartui/internal/toon"
	"github.com/alexanderramin/vartui/internal/version"
)

func TestClip(t *testing.T) {
	assert.Equal(t, "abc", clip("abc", 3))
	assert.Equal(t, "ab~", clip("abc", 2))
	assert.Equal(t, "ññ~", clip("ñññ", 2))
	assert.Equal(t, "", clip("", 5))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "***", maskSecret("ab"))
	assert.Equal(t, "***", maskSecret("abcd"))
	assert.Equal(t, "***bcde", maskSecret("abcde"))
	assert.Equal(t, "***1234", maskSecret("secret-1234"))
}

func TestParseView(t *testing.T) {
	tests := map[string]View{
		"none": ViewNone, "0": ViewNone,
		"tiny": ViewTiny, "T": ViewTiny,
		"normal": ViewNormal, "n": ViewNormal,
		" Full ": ViewFull, "f": ViewFull,
	}
	for in, want := range tests {
		got, err := ParseView(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseView("verbose")
	assert.Error(t, err)
}

func snapshot(t *testing.T, a *app.App, opts responseOptions) toon.Object {
	t.Helper()
	v := buildSnapshot("s1", a, opts)
	obj, ok := v.(toon.Object)
	require.True(t, ok)
	return obj
}

func TestBuildSnapshot_None(t *testing.T) {
	a, _ := newTestApp(t)
	assert.Nil(t, buildSnapshot("s1", a, responseOptions{view: ViewNone}))
}

func TestBuildSnapshot_Tiny(t *testing.T) {
	a, _ := newTestApp(t)
	s := snapshot(t, a, responseOptions{view: ViewTiny})

	keys := make([]string, 0, len(s))
	for _, f := range s {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"sid", "im", "fc", "dr", "di", "ei", "dc", "pc", "st"}, keys)

	v, _ := s.Get("im")
	assert.Equal(t, "n", v)
	v, _ = s.Get("fc")
	assert.Equal(t, "d", v)
	v, _ = s.Get("dr")
	assert.Equal(t, "2024-03-01..2024-03-13", v)
	v, _ = s.Get("di")
	assert.Equal(t, 0, v)
	v, _ = s.Get("ei")
	assert.Nil(t, v)
	v, _ = s.Get("dc")
	assert.Equal(t, 13, v)
	v, _ = s.Get("pc")
	assert.Equal(t, 4, v)
}

func TestBuildSnapshot_NormalSelection(t *testing.T) {
	a, _ := newTestApp(t)
	a.NextDay()
	a.FocusEntries()
	s := snapshot(t, a, responseOptions{view: ViewNormal})

	sd, _ := s.Get("sd")
	day := sd.(toon.Object)
	d, _ := day.Get("d")
	assert.Equal(t, "2024-03-12", d)
	ec, _ := day.Get("ec")
	assert.Equal(t, 2, ec)
	th, _ := day.Get("th")
	assert.InDelta(t, 1.75, th, 0.0001)

	se, _ := s.Get("se")
	entry := se.(toon.Object)
	p, _ := entry.Get("p")
	assert.Equal(t, "Backend", p)
	n, _ := entry.Get("n")
	assert.Equal(t, "api review", n)

	ef, _ := s.Get("ef")
	assert.Nil(t, ef)
	cf, _ := s.Get("cf")
	assert.Nil(t, cf)
}

func TestBuildSnapshot_NormalForms(t *testing.T) {
	a, _ := newTestApp(t)
	a.OpenAddEntry()
	a.SetEntryText(app.FieldDescription, strings.Repeat("x", 200))
	s := snapshot(t, a, responseOptions{view: ViewNormal})

	im, _ := s.Get("im")
	assert.Equal(t, "a", im)
	ef, _ := s.Get("ef")
	form := ef.(toon.Object)
	f, _ := form.Get("f")
	assert.Equal(t, "d", f)
	d, _ := form.Get("d")
	assert.Equal(t, "2024-03-13", d)
	desc, _ := form.Get("n")
	assert.Equal(t, strings.Repeat("x", 140)+"~", desc)
	fc, _ := form.Get("fc")
	assert.Equal(t, 4, fc)

	a.CloseAddEntry()
	a.OpenConfig()
	a.SetConfigText(app.ConfigToken, "token-abcd")
	s = snapshot(t, a, responseOptions{view: ViewNormal})

	cf, _ := s.Get("cf")
	cfg := cf.(toon.Object)
	tok, _ := cfg.Get("t")
	assert.Equal(t, "***abcd", tok)
	v, _ := cfg.Get("v")
	assert.Equal(t, version.String(), v)
	fld, _ := cfg.Get("f")
	assert.Equal(t, "t", fld)
}

func TestBuildSnapshot_FullLimits(t *testing.T) {
	a, _ := newTestApp(t)
	s := snapshot(t, a, responseOptions{view: ViewFull, maxDays: 2, maxEntries: 1})

	v, ok := s.Get("ds")
	require.True(t, ok)
	ds := v.([]any)
	require.Len(t, ds, 2)

	second := ds[1].(toon.Object)
	d, _ := second.Get("d")
	assert.Equal(t, "2024-03-12", d)
	ec, _ := second.Get("ec")
	assert.Equal(t, 2, ec, "ec counts every entry, not just the emitted ones")
	e, _ := second.Get("e")
	assert.Len(t, e, 1)
}

func TestBuildSnapshot_FullSingleDaySingleEntry(t *testing.T) {
	client := testutil.NewFakeClient()
	client.Days = testutil.PopulatedDays(testutil.MustRange("2024-03-09..2024-03-13"), 3)
	a := app.NewHeadless(newTestDeps(t, client))
	require.True(t, a.WaitBackgroundLoad(testWait))

	s := snapshot(t, a, responseOptions{view: ViewFull, maxDays: 1, maxEntries: 1})
	v, _ := s.Get("ds")
	ds := v.([]any)
	require.Len(t, ds, 1)

	day := ds[0].(toon.Object)
	ec, _ := day.Get("ec")
	assert.Equal(t, 3, ec)
	e, _ := day.Get("e")
	assert.Len(t, e, 1)
}

func TestBuildSnapshot_EncodesAsToon(t *testing.T) {
	a, _ := newTestApp(t)
	text, err := toon.Encode(buildSnapshot("s1", a, responseOptions{view: ViewFull, maxDays: 3, maxEntries: 5}), toon.Compact())
	require.NoError(t, err)

	assert.Contains(t, text, "sid: s1")
	assert.Contains(t, text, "ds[3\t]:")
	assert.Contains(t, text, "e[2\t]{p\th\tn}:")
}
