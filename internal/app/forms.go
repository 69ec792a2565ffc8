package app

import (
	"strings"

	"github.com/alexanderramin/vartui/internal/config"
	"github.com/alexanderramin/vartui/internal/domain"
)

// projectFilterLimit caps the project dropdown.
const projectFilterLimit = 20

// EntryField is a field of the add/duplicate form, in focus order.
type EntryField int

const (
	FieldDate EntryField = iota
	FieldProject
	FieldDescription
	FieldMinutes
	FieldBillable
	entryFieldCount
)

func (f EntryField) String() string {
	switch f {
	case FieldDate:
		return "date"
	case FieldProject:
		return "project"
	case FieldDescription:
		return "description"
	case FieldMinutes:
		return "minutes"
	case FieldBillable:
		return "billable"
	default:
		return "unknown"
	}
}

// EntryForm holds the add/duplicate modal. The project search text and the
// resolved project are private so an edit of one always clears the other.
type EntryForm struct {
	Date        string
	Description string
	Minutes     string
	Billable    bool
	Focused     EntryField

	projectSearch string
	filtered      []int
	cursor        int
	selected      *domain.Project
}

func newEntryForm(date string) *EntryForm {
	return &EntryForm{
		Date:     date,
		Billable: true,
		Focused:  FieldDate,
		cursor:   -1,
	}
}

func newDuplicateForm(date string, e domain.Entry) *EntryForm {
	f := newEntryForm(date)
	f.projectSearch = e.Project
	f.Description = e.Note
	f.Minutes = domain.FormatMinutes(e.Minutes())
	f.Focused = FieldDescription
	return f
}

// ProjectSearch is the text typed into the project field.
func (f *EntryForm) ProjectSearch() string { return f.projectSearch }

// Filtered returns indices into the project list matching the search text.
func (f *EntryForm) Filtered() []int { return f.filtered }

// Cursor is the highlighted dropdown row, -1 when the dropdown is empty.
func (f *EntryForm) Cursor() int { return f.cursor }

// SelectedProject returns the project confirmed from the dropdown.
func (f *EntryForm) SelectedProject() (domain.Project, bool) {
	if f.selected == nil {
		return domain.Project{}, false
	}
	return *f.selected, true
}

func (f *EntryForm) setProjectSearch(s string) {
	f.projectSearch = s
	f.selected = nil
}

func (f *EntryForm) selectProject(p domain.Project) {
	f.selected = &p
	f.projectSearch = p.Name
	f.filtered = nil
	f.cursor = -1
}

func (f *EntryForm) nextField() {
	f.Focused = (f.Focused + 1) % entryFieldCount
}

func (f *EntryForm) prevField() {
	f.Focused = (f.Focused + entryFieldCount - 1) % entryFieldCount
}

// FilterProjects returns indices of projects whose name contains query,
// case-insensitively, in list order and capped at 20. An empty query
// yields the first 20 projects.
func FilterProjects(projects []domain.Project, query string) []int {
	q := strings.ToLower(query)
	out := make([]int, 0, min(len(projects), projectFilterLimit))
	for i, p := range projects {
		if len(out) == projectFilterLimit {
			break
		}
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, i)
		}
	}
	return out
}

// ConfigField is a field of the configuration modal, in focus order.
type ConfigField int

const (
	ConfigToken ConfigField = iota
	ConfigBaseURL
	ConfigDefaultRange
	ConfigTheme
	configFieldCount
)

func (f ConfigField) String() string {
	switch f {
	case ConfigToken:
		return "token"
	case ConfigBaseURL:
		return "base_url"
	case ConfigDefaultRange:
		return "default_range"
	case ConfigTheme:
		return "theme"
	default:
		return "unknown"
	}
}

// ConfigForm holds the configuration modal.
type ConfigForm struct {
	Token        string
	BaseURL      string
	DefaultRange string
	Theme        string
	Focused      ConfigField
}

func defaultConfigForm() *ConfigForm {
	def := config.Default()
	return &ConfigForm{
		Token:        def.Token,
		BaseURL:      def.BaseURL,
		DefaultRange: def.DefaultDateRange,
		Theme:        def.Theme,
		Focused:      ConfigToken,
	}
}

func (f *ConfigForm) field(which ConfigField) *string {
	switch which {
	case ConfigToken:
		return &f.Token
	case ConfigBaseURL:
		return &f.BaseURL
	case ConfigDefaultRange:
		return &f.DefaultRange
	default:
		return &f.Theme
	}
}

func (f *ConfigForm) nextField() {
	f.Focused = (f.Focused + 1) % configFieldCount
}

func (f *ConfigForm) prevField() {
	f.Focused = (f.Focused + configFieldCount - 1) % configFieldCount
}
