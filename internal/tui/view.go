package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/vartui/internal/app"
	"github.com/alexanderramin/vartui/internal/domain"
	"github.com/alexanderramin/vartui/internal/version"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	rangePrompt   = "Range (YYYY-MM-DD..YYYY-MM-DD): "
)

// themeSlug previews the theme being edited while the config form is open.
func (m *Model) themeSlug() string {
	raw := m.app.Config().Theme
	if form, ok := m.app.ConfigForm(); ok {
		raw = form.Theme
	}
	return ResolveTheme(raw, m.getenv)
}

func (m *Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	slug := m.themeSlug()
	st := StylesFor(slug)
	width, height := m.size()

	footer := m.renderFooter(st, slug, width)
	bodyHeight := max(height-lipgloss.Height(footer), 6)

	var body string
	switch m.app.Mode() {
	case app.ModeAddingEntry:
		body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, m.renderEntryForm(st))
	case app.ModeConfiguring:
		body = lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, m.renderConfigForm(st))
	default:
		body = m.renderPanes(st, width, bodyHeight)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func (m *Model) renderPanes(st Styles, width, height int) string {
	left := width * 3 / 10
	right := width - left

	daysPane, entriesPane := st.Pane, st.Pane
	if m.app.Focus() == app.FocusEntries {
		entriesPane = st.PaneFocused
	} else {
		daysPane = st.PaneFocused
	}

	// Border and padding take two columns and two rows on each pane.
	inner := height - 2
	days := daysPane.Width(left - 2).Height(inner).Render(m.renderDays(st, inner))
	entries := entriesPane.Width(right - 4).Height(inner).Render(m.renderEntries(st, inner))
	return lipgloss.JoinHorizontal(lipgloss.Top, days, entries)
}

func (m *Model) renderDays(st Styles, rows int) string {
	days := m.app.Days()
	title := fmt.Sprintf("Days (0/0) %s", m.app.Range().Label())
	if len(days) > 0 {
		title = fmt.Sprintf("Days (%d/%d) %s", m.app.DayIndex()+1, len(days), m.app.Range().Label())
	}

	lines := []string{st.Title.Render(title)}
	start, end := window(len(days), m.app.DayIndex(), rows-1)
	for i := start; i < end; i++ {
		day := days[i]
		hours := dayStyle(st, day, m.now()).Render(fmt.Sprintf("%4.1fh", day.TotalHours()))
		if i == m.app.DayIndex() {
			lines = append(lines, st.Selected.Render("-> "+day.Date+"  ")+hours)
		} else {
			lines = append(lines, "   "+day.Date+"  "+hours)
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderEntries(st Styles, rows int) string {
	day, ok := m.app.SelectedDay()
	if !ok {
		return st.Title.Render("Entries")
	}
	lines := []string{st.Title.Render("Entries - " + day.Date)}
	if len(day.Entries) == 0 {
		lines = append(lines, st.Dim.Render("no entries"))
		return strings.Join(lines, "\n")
	}
	selected := m.app.EntryIndex()
	start, end := window(len(day.Entries), selected, rows-1)
	for i := start; i < end; i++ {
		e := day.Entries[i]
		text := fmt.Sprintf("%-14s %4.1fh  %s", e.Project, e.Hours, e.Note)
		if i == selected {
			lines = append(lines, st.SelectedAlt.Render("» "+text))
		} else {
			lines = append(lines, "  "+st.Text.Render(text))
		}
	}
	return strings.Join(lines, "\n")
}

// window returns the visible slice bounds keeping selected in view.
func window(n, selected, rows int) (int, int) {
	if rows <= 0 || n <= rows {
		return 0, n
	}
	start := 0
	if selected >= rows {
		start = selected - rows + 1
	}
	return start, start + rows
}

// TargetHours is the expected workload of a weekday: nine hours Monday
// through Thursday, eight on Friday, none on weekends.
func TargetHours(d time.Weekday) float64 {
	switch d {
	case time.Saturday, time.Sunday:
		return 0
	case time.Friday:
		return 8
	default:
		return 9
	}
}

// dayStyle colors a day's total against its target. Future days and empty
// weekends are muted.
func dayStyle(st Styles, day domain.Day, now time.Time) lipgloss.Style {
	date, ok := domain.ParseDate(day.Date)
	if !ok {
		return st.Dim
	}
	hours := day.TotalHours()
	weekday := date.Weekday()
	switch {
	case weekday == time.Saturday || weekday == time.Sunday:
		if hours > 0 {
			return st.Success
		}
		return st.Dim
	case date.After(domain.Today(now)):
		return st.Dim
	case hours >= TargetHours(weekday):
		return st.Success
	default:
		return st.Error
	}
}

func (m *Model) renderFooter(st Styles, slug string, width int) string {
	var line string
	if buffer, ok := m.app.RangeInput(); ok {
		line = st.Title.Render(rangePrompt) + st.Text.Render(buffer+"█") + "  " + st.Dim.Render(m.app.Status())
	} else {
		line = st.Text.Render(m.app.Status())
	}
	m.help.Styles.ShortKey = st.Title
	m.help.Styles.ShortDesc = st.Dim
	m.help.Styles.ShortSeparator = st.Dim
	legend := m.help.ShortHelpView(m.keys.shortHelp(m.app))

	title := st.Dim.Render(fmt.Sprintf("vartui %s [%s]", version.String(), slug))
	sep := st.Dim.Render(strings.Repeat("─", max(width, 20)))
	return strings.Join([]string{sep, title + "  " + legend, line}, "\n")
}

func (m *Model) renderEntryForm(st Styles) string {
	form, ok := m.app.EntryForm()
	if !ok {
		return ""
	}
	label := func(f app.EntryField, text string) string {
		if form.Focused == f {
			return st.LabelActive.Render("› " + text)
		}
		return st.Label.Render("  " + text)
	}

	project := form.ProjectSearch()
	if p, ok := form.SelectedProject(); ok {
		project = st.Success.Render(fmt.Sprintf("%s (%s) #%d", p.Name, p.ClientName, p.ID))
	}
	billable := "[ ]"
	if form.Billable {
		billable = "[x]"
	}

	lines := []string{
		st.Title.Render("New entry"),
		"",
		label(app.FieldDate, "Date") + st.Text.Render(form.Date),
		label(app.FieldProject, "Project") + st.Text.Render(project),
	}
	if form.Focused == app.FieldProject {
		lines = append(lines, m.renderDropdown(st, form)...)
	}
	lines = append(lines,
		label(app.FieldDescription, "Description")+st.Text.Render(form.Description),
		label(app.FieldMinutes, "Minutes")+st.Text.Render(form.Minutes)+st.Dim.Render("  HH:MM or minutes"),
		label(app.FieldBillable, "Billable")+st.Text.Render(billable),
		"",
		st.Dim.Render(m.app.Status()),
	)
	return st.Modal.Render(strings.Join(lines, "\n"))
}

const dropdownRows = 8

func (m *Model) renderDropdown(st Styles, form *app.EntryForm) []string {
	projects := m.app.Projects()
	filtered := form.Filtered()
	if len(filtered) == 0 {
		return []string{st.Dim.Render("                no matching projects")}
	}
	start, end := window(len(filtered), form.Cursor(), dropdownRows)
	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		idx := filtered[i]
		if idx >= len(projects) {
			continue
		}
		p := projects[idx]
		text := fmt.Sprintf("%s · %s", p.ClientName, p.Name)
		if i == form.Cursor() {
			out = append(out, "              "+st.Selected.Render("» "+text))
		} else {
			out = append(out, "                "+st.Dim.Render(text))
		}
	}
	return out
}

func (m *Model) renderConfigForm(st Styles) string {
	form, ok := m.app.ConfigForm()
	if !ok {
		return ""
	}
	label := func(f app.ConfigField, text string) string {
		if form.Focused == f {
			return st.LabelActive.Render("› " + text)
		}
		return st.Label.Render("  " + text)
	}

	token := strings.Repeat("•", min(len([]rune(form.Token)), 24))
	lines := []string{
		st.Title.Render("Configuration"),
		"",
		label(app.ConfigToken, "Token") + st.Text.Render(token),
		label(app.ConfigBaseURL, "Base URL") + st.Text.Render(form.BaseURL),
		label(app.ConfigDefaultRange, "Range") + st.Text.Render(form.DefaultRange) + st.Dim.Render("  AUTO, WEEK or a..b"),
		label(app.ConfigTheme, "Theme") + st.Text.Render("◀ "+form.Theme+" ▶"),
		"",
		st.Dim.Render("version " + version.String()),
		st.Dim.Render(m.app.Status()),
	}
	return st.Modal.Render(strings.Join(lines, "\n"))
}
