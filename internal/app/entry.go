package app

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/alexanderramin/vartui/internal/api"
	"github.com/alexanderramin/vartui/internal/domain"
)

// ErrNoEntryForm is returned by form operations when no form is open.
var ErrNoEntryForm = errors.New("no entry form open")

// OpenAddEntry opens an empty form dated on the selected day, or today.
func (a *App) OpenAddEntry() {
	date := domain.Today(a.deps.Now()).Format(domain.DateLayout)
	if day, ok := a.SelectedDay(); ok {
		date = day.Date
	}
	a.openEntryForm(newEntryForm(date))
}

// OpenDuplicateEntry opens a form pre-filled from the selected entry. It
// requires entry focus.
func (a *App) OpenDuplicateEntry() {
	if n, ok := a.mode.(normalMode); !ok || n.focus != FocusEntries {
		return
	}
	day, _ := a.SelectedDay()
	entry, ok := a.SelectedEntry()
	if !ok {
		return
	}
	a.openEntryForm(newDuplicateForm(day.Date, entry))
}

func (a *App) openEntryForm(form *EntryForm) {
	a.mode = &addingMode{form: form, ret: a.mode.resume()}
	a.refilter(form)
}

// EnsureEntryForm opens an add form when none is open and returns it.
func (a *App) EnsureEntryForm() *EntryForm {
	if form, ok := a.EntryForm(); ok {
		return form
	}
	a.OpenAddEntry()
	form, _ := a.EntryForm()
	return form
}

// CloseAddEntry discards the form.
func (a *App) CloseAddEntry() {
	if _, ok := a.mode.(*addingMode); !ok {
		return
	}
	a.returnToNormal()
}

func (a *App) refilter(form *EntryForm) {
	form.filtered = FilterProjects(a.projects, form.projectSearch)
	if len(form.filtered) > 0 {
		form.cursor = 0
	} else {
		form.cursor = -1
	}
}

// FormNextField focuses the next form field, wrapping.
func (a *App) FormNextField() {
	if form, ok := a.EntryForm(); ok {
		form.nextField()
	}
}

// FormPrevField focuses the previous form field, wrapping.
func (a *App) FormPrevField() {
	if form, ok := a.EntryForm(); ok {
		form.prevField()
	}
}

// FormInputPush types ch into the focused field. Space on the billable
// field toggles it.
func (a *App) FormInputPush(ch rune) {
	form, ok := a.EntryForm()
	if !ok {
		return
	}
	switch form.Focused {
	case FieldDate:
		form.Date += string(ch)
	case FieldProject:
		form.setProjectSearch(form.projectSearch + string(ch))
		a.refilter(form)
	case FieldDescription:
		form.Description += string(ch)
	case FieldMinutes:
		form.Minutes += string(ch)
	case FieldBillable:
		if ch == ' ' {
			form.Billable = !form.Billable
		}
	}
}

// FormInputBackspace deletes the last character of the focused field.
func (a *App) FormInputBackspace() {
	form, ok := a.EntryForm()
	if !ok {
		return
	}
	switch form.Focused {
	case FieldDate:
		form.Date = dropLastRune(form.Date)
	case FieldProject:
		form.setProjectSearch(dropLastRune(form.projectSearch))
		a.refilter(form)
	case FieldDescription:
		form.Description = dropLastRune(form.Description)
	case FieldMinutes:
		form.Minutes = dropLastRune(form.Minutes)
	}
}

// FormNavUp moves the dropdown cursor up without wrapping.
func (a *App) FormNavUp() {
	form, ok := a.EntryForm()
	if !ok || form.Focused != FieldProject || len(form.filtered) == 0 {
		return
	}
	if form.cursor > 0 {
		form.cursor--
	}
}

// FormNavDown moves the dropdown cursor down without wrapping.
func (a *App) FormNavDown() {
	form, ok := a.EntryForm()
	if !ok || form.Focused != FieldProject || len(form.filtered) == 0 {
		return
	}
	if form.cursor+1 < len(form.filtered) {
		form.cursor++
	}
}

// FormEnter confirms the highlighted project on the project field,
// submits on the billable field and otherwise advances focus.
func (a *App) FormEnter() {
	form, ok := a.EntryForm()
	if !ok {
		return
	}
	if form.Focused == FieldProject && form.cursor >= 0 && form.cursor < len(form.filtered) {
		if idx := form.filtered[form.cursor]; idx < len(a.projects) {
			form.selectProject(a.projects[idx])
			form.nextField()
			return
		}
	}
	if form.Focused == FieldBillable {
		a.SubmitEntry()
		return
	}
	form.nextField()
}

// SelectFilteredProject resolves the project at index of the dropdown.
func (a *App) SelectFilteredProject(index int, moveNext bool) error {
	form := a.EnsureEntryForm()
	if len(form.filtered) == 0 {
		a.refilter(form)
	}
	if index < 0 || index >= len(form.filtered) {
		return errors.New("no filtered project at index " + strconv.Itoa(index))
	}
	idx := form.filtered[index]
	if idx >= len(a.projects) {
		return errors.New("project not found")
	}
	form.selectProject(a.projects[idx])
	if moveNext {
		form.nextField()
	}
	return nil
}

// SetEntryText replaces a text field of the form, opening one if needed.
// Setting the project search clears any resolved project. The billable
// field is not text; use SetEntryBillable.
func (a *App) SetEntryText(field EntryField, value string) {
	form := a.EnsureEntryForm()
	switch field {
	case FieldDate:
		form.Date = value
	case FieldProject:
		form.setProjectSearch(value)
		a.refilter(form)
	case FieldDescription:
		form.Description = value
	case FieldMinutes:
		form.Minutes = value
	}
}

// SetEntryProjectID resolves id against the project list. Unknown ids are
// kept as search text so submission can still parse them.
func (a *App) SetEntryProjectID(id int) {
	form := a.EnsureEntryForm()
	for _, p := range a.projects {
		if p.ID == id {
			form.selectProject(p)
			return
		}
	}
	form.setProjectSearch(strconv.Itoa(id))
	a.refilter(form)
}

// SetEntryBillable sets the billable flag, opening a form if needed.
func (a *App) SetEntryBillable(v bool) {
	a.EnsureEntryForm().Billable = v
}

// ToggleBillable flips the billable flag, opening a form if needed.
func (a *App) ToggleBillable() {
	form := a.EnsureEntryForm()
	form.Billable = !form.Billable
}

// FocusEntryField moves form focus, opening a form if needed.
func (a *App) FocusEntryField(field EntryField) {
	a.EnsureEntryForm().Focused = field
}

// SubmitEntry validates the form and creates the entry remotely. Success
// closes the form and refreshes; any failure keeps the form open and
// reports through the status line.
func (a *App) SubmitEntry() {
	form, ok := a.EntryForm()
	if !ok {
		return
	}

	projectID := 0
	if p, ok := form.SelectedProject(); ok {
		projectID = p.ID
	} else if n, err := strconv.Atoi(strings.TrimSpace(form.projectSearch)); err == nil {
		projectID = n
	}

	if form.Date == "" || projectID <= 0 || form.Description == "" || form.Minutes == "" {
		a.status = "error: empty fields or invalid project"
		return
	}
	minutes, err := domain.ParseMinutes(form.Minutes)
	if err != nil {
		a.status = "error: " + err.Error()
		return
	}

	req := api.CreateEntryRequest{
		Date:        form.Date,
		ProjectID:   projectID,
		Description: form.Description,
		Minutes:     minutes,
		IsBillable:  form.Billable,
	}
	a.status = "creating entry..."

	client, err := newClient(a.deps.Clients, a.Credentials())
	if err != nil {
		a.status = err.Error()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*api.DefaultTimeout)
	defer cancel()

	err = client.CreateTimeEntry(ctx, req)
	a.journal(ctx, req, err)
	if err != nil {
		a.status = "create error: " + err.Error()
		return
	}

	a.returnToNormal()
	a.Refresh()
	a.status = "entry created!"
}

func (a *App) journal(ctx context.Context, req api.CreateEntryRequest, createErr error) {
	if a.deps.Journal == nil {
		return
	}
	s := &domain.Submission{
		SubmittedAt: a.deps.Now().UTC(),
		Source:      a.deps.Source,
		Date:        req.Date,
		ProjectID:   req.ProjectID,
		Description: req.Description,
		Minutes:     req.Minutes,
		IsBillable:  req.IsBillable,
	}
	if createErr != nil {
		s.Error = createErr.Error()
	}
	if err := a.deps.Journal.Record(ctx, s); err != nil {
		a.logger.Warn("journal_write_failed", "error", err.Error())
	}
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
