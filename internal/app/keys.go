package app

import tea "github.com/charmbracelet/bubbletea"

// HandleKey routes one key event to the App according to the active mode.
// It returns true only when the program should exit. Keys with no meaning
// in the current mode are ignored.
func HandleKey(a *App, msg tea.KeyMsg) bool {
	if msg.Type == tea.KeyCtrlC {
		return true
	}

	switch a.Mode() {
	case ModeEditing:
		handleEditingKey(a, msg)
	case ModeAddingEntry:
		handleEntryKey(a, msg)
	case ModeConfiguring:
		handleConfigKey(a, msg)
	default:
		return handleNormalKey(a, msg)
	}
	return false
}

// typed returns the characters a key event inserts, if any.
func typed(msg tea.KeyMsg) []rune {
	switch msg.Type {
	case tea.KeyRunes:
		return msg.Runes
	case tea.KeySpace:
		return []rune{' '}
	}
	return nil
}

func handleEditingKey(a *App, msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc:
		a.CancelRangeInput()
	case tea.KeyEnter:
		a.SubmitRangeInput()
	case tea.KeyBackspace:
		a.RangeInputBackspace()
	default:
		for _, r := range typed(msg) {
			a.RangeInputPush(r)
		}
	}
}

func handleEntryKey(a *App, msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc:
		a.CloseAddEntry()
	case tea.KeyShiftTab:
		a.FormPrevField()
	case tea.KeyTab:
		a.FormNextField()
	case tea.KeyEnter:
		a.FormEnter()
	case tea.KeyUp:
		a.FormNavUp()
	case tea.KeyDown:
		a.FormNavDown()
	case tea.KeyBackspace:
		a.FormInputBackspace()
	default:
		for _, r := range typed(msg) {
			a.FormInputPush(r)
		}
	}
}

func handleConfigKey(a *App, msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc:
		a.CloseConfig()
	case tea.KeyShiftTab:
		a.ConfigPrevField()
	case tea.KeyTab:
		a.ConfigNextField()
	case tea.KeyUp:
		a.ConfigThemePrevious()
	case tea.KeyDown:
		a.ConfigThemeNext()
	case tea.KeyEnter:
		a.SaveConfig()
	case tea.KeyBackspace:
		a.ConfigBackspace()
	case tea.KeyCtrlU:
		a.ConfigClearField()
	case tea.KeyCtrlR:
		a.ConfigResetDefaults()
	default:
		for _, r := range typed(msg) {
			a.ConfigInput(r)
		}
	}
}

func handleNormalKey(a *App, msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyDown:
		moveDown(a)
		return false
	case tea.KeyUp:
		moveUp(a)
		return false
	case tea.KeyRight:
		a.FocusEntries()
		return false
	case tea.KeyLeft, tea.KeyEsc:
		a.FocusDays()
		return false
	case tea.KeyRunes:
	default:
		return false
	}
	if len(msg.Runes) != 1 || msg.Alt {
		return false
	}

	switch msg.Runes[0] {
	case 'q':
		return true
	case 'j':
		moveDown(a)
	case 'k':
		moveUp(a)
	case 'l':
		a.FocusEntries()
	case 'h':
		a.FocusDays()
	case 'd':
		a.OpenDuplicateEntry()
	case 'r':
		a.Refresh()
	case 'f':
		a.StartRangeInput()
	case 'n':
		a.OpenAddEntry()
	case 'c':
		a.OpenConfig()
	}
	return false
}

func moveDown(a *App) {
	if a.Focus() == FocusEntries {
		a.NextEntry()
		return
	}
	a.NextDay()
}

func moveUp(a *App) {
	if a.Focus() == FocusEntries {
		a.PreviousEntry()
		return
	}
	a.PreviousDay()
}
