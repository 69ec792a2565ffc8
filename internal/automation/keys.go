package automation

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// namedKeys maps automation key names to the event a terminal would send.
// left and right follow the vim bindings so they behave the same in
// every mode.
var namedKeys = map[string]tea.KeyMsg{
	"up":        {Type: tea.KeyUp},
	"down":      {Type: tea.KeyDown},
	"left":      runeKey('h'),
	"right":     runeKey('l'),
	"enter":     {Type: tea.KeyEnter},
	"esc":       {Type: tea.KeyEsc},
	"tab":       {Type: tea.KeyTab},
	"backtab":   {Type: tea.KeyShiftTab},
	"backspace": {Type: tea.KeyBackspace},
	"space":     runeKey(' '),
	"ctrl+c":    {Type: tea.KeyCtrlC},
	"ctrl+r":    {Type: tea.KeyCtrlR},
	"ctrl+u":    {Type: tea.KeyCtrlU},
}

const letterKeys = "jkhlqrfndc"

func runeKey(r rune) tea.KeyMsg {
	if r == ' ' {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// ParseKeySequence turns a key name into the events to replay. The name
// "text" expands text into one event per character; "char:<x>" sends x.
func ParseKeySequence(name, text string, hasText bool) ([]tea.KeyMsg, error) {
	switch {
	case name == "text":
		if !hasText {
			return nil, fmt.Errorf("key=text requires a text argument")
		}
		if text == "" {
			return nil, fmt.Errorf("text must not be empty")
		}
		seq := make([]tea.KeyMsg, 0, len(text))
		for _, r := range text {
			seq = append(seq, runeKey(r))
		}
		return seq, nil
	case strings.HasPrefix(name, "char:"):
		rest := []rune(strings.TrimPrefix(name, "char:"))
		if len(rest) == 0 {
			return nil, fmt.Errorf("char: requires a character")
		}
		return []tea.KeyMsg{runeKey(rest[0])}, nil
	}

	if msg, ok := namedKeys[name]; ok {
		return []tea.KeyMsg{msg}, nil
	}
	if len(name) == 1 && strings.Contains(letterKeys, name) {
		return []tea.KeyMsg{runeKey(rune(name[0]))}, nil
	}
	return nil, fmt.Errorf("unsupported key: %s; use text, char:<x> or a terminal key name", name)
}
