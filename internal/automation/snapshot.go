package automation

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/vartui/internal/app"
	"github.com/alexanderramin/vartui/internal/toon"
	"github.com/alexanderramin/vartui/internal/version"
)

// View is the snapshot verbosity. Each level includes everything below it.
type View int

const (
	ViewNone View = iota
	ViewTiny
	ViewNormal
	ViewFull
)

func (v View) String() string {
	switch v {
	case ViewNone:
		return "none"
	case ViewTiny:
		return "tiny"
	case ViewNormal:
		return "normal"
	case ViewFull:
		return "full"
	default:
		return "unknown"
	}
}

// ParseView accepts none|0, tiny|t, normal|n and full|f, case-insensitively.
func ParseView(raw string) (View, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "none", "0":
		return ViewNone, nil
	case "tiny", "t":
		return ViewTiny, nil
	case "normal", "n":
		return ViewNormal, nil
	case "full", "f":
		return ViewFull, nil
	}
	return ViewNone, fmt.Errorf("invalid view: %s", v)
}

// Text caps, in characters.
const (
	clipStatus      = 120
	clipProject     = 48
	clipProjectFull = 64
	clipNote        = 140
	clipNoteFull    = 220
	clipURL         = 96
	clipRange       = 48
	clipTheme       = 40
	clipError       = 220
)

// clip keeps the first max characters and marks the cut with '~'.
func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "~"
}

// maskSecret shows only the last four characters of secrets longer than
// four; shorter ones are masked entirely.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	if len(r) <= 4 {
		return "***"
	}
	return "***" + string(r[len(r)-4:])
}

// indexOrNil renders -1 selections as null.
func indexOrNil(i int) any {
	if i < 0 {
		return nil
	}
	return i
}

func modeCode(m app.ModeKind) string {
	switch m {
	case app.ModeEditing:
		return "e"
	case app.ModeAddingEntry:
		return "a"
	case app.ModeConfiguring:
		return "c"
	default:
		return "n"
	}
}

func focusCode(f app.Focus) string {
	if f == app.FocusEntries {
		return "e"
	}
	return "d"
}

func entryFieldCode(f app.EntryField) string {
	switch f {
	case app.FieldProject:
		return "p"
	case app.FieldDescription:
		return "n"
	case app.FieldMinutes:
		return "m"
	case app.FieldBillable:
		return "b"
	default:
		return "d"
	}
}

func configFieldCode(f app.ConfigField) string {
	switch f {
	case app.ConfigBaseURL:
		return "u"
	case app.ConfigDefaultRange:
		return "r"
	case app.ConfigTheme:
		return "h"
	default:
		return "t"
	}
}

// buildSnapshot returns nil for ViewNone so the envelope carries null.
func buildSnapshot(sid string, a *app.App, opts responseOptions) any {
	switch opts.view {
	case ViewTiny:
		return tinySnapshot(sid, a)
	case ViewNormal:
		return normalSnapshot(sid, a)
	case ViewFull:
		return fullSnapshot(sid, a, opts.maxDays, opts.maxEntries)
	}
	return nil
}

func tinySnapshot(sid string, a *app.App) toon.Object {
	return toon.Object{
		{Key: "sid", Value: sid},
		{Key: "im", Value: modeCode(a.Mode())},
		{Key: "fc", Value: focusCode(a.Focus())},
		{Key: "dr", Value: a.Range().Label()},
		{Key: "di", Value: indexOrNil(a.DayIndex())},
		{Key: "ei", Value: indexOrNil(a.EntryIndex())},
		{Key: "dc", Value: len(a.Days())},
		{Key: "pc", Value: len(a.Projects())},
		{Key: "st", Value: clip(a.Status(), clipStatus)},
	}
}

func normalSnapshot(sid string, a *app.App) toon.Object {
	s := tinySnapshot(sid, a)

	var sd any
	if day, ok := a.SelectedDay(); ok {
		sd = toon.Object{
			{Key: "d", Value: day.Date},
			{Key: "ec", Value: len(day.Entries)},
			{Key: "th", Value: day.TotalHours()},
		}
	}
	s.Set("sd", sd)

	var se any
	if e, ok := a.SelectedEntry(); ok {
		se = toon.Object{
			{Key: "p", Value: clip(e.Project, clipProject)},
			{Key: "h", Value: e.Hours},
			{Key: "n", Value: clip(e.Note, clipNote)},
		}
	}
	s.Set("se", se)

	var ef any
	if form, ok := a.EntryForm(); ok {
		ef = toon.Object{
			{Key: "f", Value: entryFieldCode(form.Focused)},
			{Key: "d", Value: form.Date},
			{Key: "p", Value: clip(form.ProjectSearch(), clipProject)},
			{Key: "n", Value: clip(form.Description, clipNote)},
			{Key: "m", Value: form.Minutes},
			{Key: "b", Value: form.Billable},
			{Key: "fc", Value: len(form.Filtered())},
		}
	}
	s.Set("ef", ef)

	var cf any
	if form, ok := a.ConfigForm(); ok {
		cf = toon.Object{
			{Key: "f", Value: configFieldCode(form.Focused)},
			{Key: "u", Value: clip(form.BaseURL, clipURL)},
			{Key: "r", Value: clip(form.DefaultRange, clipRange)},
			{Key: "th", Value: clip(form.Theme, clipTheme)},
			{Key: "v", Value: version.String()},
			{Key: "t", Value: maskSecret(form.Token)},
		}
	}
	s.Set("cf", cf)

	return s
}

func fullSnapshot(sid string, a *app.App, maxDays, maxEntries int) toon.Object {
	s := normalSnapshot(sid, a)

	days := a.Days()
	if len(days) > maxDays {
		days = days[:maxDays]
	}
	ds := make([]any, 0, len(days))
	for _, day := range days {
		entries := day.Entries
		if len(entries) > maxEntries {
			entries = entries[:maxEntries]
		}
		rows := make([]toon.Object, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, toon.Object{
				{Key: "p", Value: clip(e.Project, clipProjectFull)},
				{Key: "h", Value: e.Hours},
				{Key: "n", Value: clip(e.Note, clipNoteFull)},
			})
		}
		ds = append(ds, toon.Object{
			{Key: "d", Value: day.Date},
			{Key: "th", Value: day.TotalHours()},
			{Key: "ec", Value: len(day.Entries)},
			{Key: "e", Value: rows},
		})
	}
	s.Set("ds", ds)
	return s
}
