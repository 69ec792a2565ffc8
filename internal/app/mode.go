package app

// Focus selects which list Normal-mode navigation moves through.
type Focus int

const (
	FocusDays Focus = iota
	FocusEntries
)

func (f Focus) String() string {
	if f == FocusEntries {
		return "entries"
	}
	return "days"
}

// ModeKind names the active input mode.
type ModeKind int

const (
	ModeNormal ModeKind = iota
	ModeEditing
	ModeAddingEntry
	ModeConfiguring
)

func (k ModeKind) String() string {
	switch k {
	case ModeEditing:
		return "editing"
	case ModeAddingEntry:
		return "adding"
	case ModeConfiguring:
		return "configuring"
	default:
		return "normal"
	}
}

// mode is the tagged union of input modes. Each non-normal mode carries
// the normal state to return to when it closes, so focus and entry
// selection survive a trip through a modal.
type mode interface {
	kind() ModeKind
	resume() normalMode
}

type normalMode struct {
	focus Focus
	// entry is the selected entry index, -1 unless focus is FocusEntries.
	entry int
}

type editingMode struct {
	buffer string
	ret    normalMode
}

type addingMode struct {
	form *EntryForm
	ret  normalMode
}

type configMode struct {
	form *ConfigForm
	ret  normalMode
}

func (m normalMode) kind() ModeKind { return ModeNormal }
func (m normalMode) resume() normalMode { return m }

func (m *editingMode) kind() ModeKind { return ModeEditing }
func (m *editingMode) resume() normalMode { return m.ret }

func (m *addingMode) kind() ModeKind { return ModeAddingEntry }
func (m *addingMode) resume() normalMode { return m.ret }

func (m *configMode) kind() ModeKind { return ModeConfiguring }
func (m *configMode) resume() normalMode { return m.ret }

func daysFocus() normalMode {
	return normalMode{focus: FocusDays, entry: -1}
}
