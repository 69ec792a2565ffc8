package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/alexanderramin/vartui/internal/app"
)

// keyMap describes the bindings for the footer legend. Dispatch itself
// goes through app.HandleKey so the legend never drives behavior.
type keyMap struct {
	Move      key.Binding
	Entries   key.Binding
	Back      key.Binding
	Range     key.Binding
	Refresh   key.Binding
	New       key.Binding
	Duplicate key.Binding
	Config    key.Binding
	Quit      key.Binding

	Apply  key.Binding
	Cancel key.Binding

	Fields  key.Binding
	Pick    key.Binding
	Submit  key.Binding
	Toggle  key.Binding
	Theme   key.Binding
	Clear   key.Binding
	Reset   key.Binding
	Save    key.Binding
	Discard key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Move:      key.NewBinding(key.WithKeys("j", "k", "up", "down"), key.WithHelp("j/k", "move")),
		Entries:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "entries")),
		Back:      key.NewBinding(key.WithKeys("h", "left", "esc"), key.WithHelp("h", "back")),
		Range:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "range")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		New:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Duplicate: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "duplicate")),
		Config:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "config")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Apply:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),

		Fields:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "field")),
		Pick:    key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "project")),
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next/submit")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "billable")),
		Theme:   key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "theme")),
		Clear:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "clear")),
		Reset:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "defaults")),
		Save:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Discard: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// shortHelp returns the legend for the App's current mode and focus.
func (k keyMap) shortHelp(a *app.App) []key.Binding {
	switch a.Mode() {
	case app.ModeEditing:
		return []key.Binding{k.Apply, k.Cancel}
	case app.ModeAddingEntry:
		return []key.Binding{k.Fields, k.Pick, k.Submit, k.Toggle, k.Discard}
	case app.ModeConfiguring:
		return []key.Binding{k.Fields, k.Theme, k.Clear, k.Reset, k.Save, k.Discard}
	}
	if a.Focus() == app.FocusEntries {
		return []key.Binding{k.Move, k.Back, k.Duplicate, k.Quit}
	}
	return []key.Binding{k.Move, k.Entries, k.Range, k.Refresh, k.New, k.Config, k.Quit}
}
