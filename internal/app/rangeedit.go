package app

import (
	"fmt"

	"github.com/alexanderramin/vartui/internal/domain"
)

// maxRangeInput bounds the range editor buffer.
const maxRangeInput = 64

// StartRangeInput opens the range editor seeded with the current label.
func (a *App) StartRangeInput() {
	a.mode = &editingMode{buffer: a.rng.Label(), ret: a.mode.resume()}
}

// CancelRangeInput discards the editor buffer.
func (a *App) CancelRangeInput() {
	if _, ok := a.mode.(*editingMode); !ok {
		return
	}
	a.returnToNormal()
}

// SubmitRangeInput applies the buffer. On a parse error the editor stays
// open with the buffer intact and the error in the status line.
func (a *App) SubmitRangeInput() {
	m, ok := a.mode.(*editingMode)
	if !ok {
		return
	}
	r, err := domain.ParseDateRangeAt(m.buffer, a.deps.Now())
	if err != nil {
		a.status = "error: " + err.Error()
		return
	}
	a.returnToNormal()
	a.applyRange(r)
}

func (a *App) applyRange(r domain.DateRange) {
	a.rng = r
	a.setDays(domain.BuildEmptyDays(r))
	a.Refresh()
}

// RangeInputPush appends an ASCII character to the editor buffer.
func (a *App) RangeInputPush(ch rune) {
	m, ok := a.mode.(*editingMode)
	if !ok {
		return
	}
	m.buffer = pushRangeChar(m.buffer, ch)
}

// pushRangeChar drops non-ASCII characters and anything past maxRangeInput.
func pushRangeChar(buf string, ch rune) string {
	if ch > 0x7f || len(buf) >= maxRangeInput {
		return buf
	}
	return buf + string(ch)
}

// RangeInputBackspace removes the last buffer character.
func (a *App) RangeInputBackspace() {
	m, ok := a.mode.(*editingMode)
	if !ok || m.buffer == "" {
		return
	}
	m.buffer = m.buffer[:len(m.buffer)-1]
}

// SetRange applies value through the range editor exactly as typing it
// would: non-ASCII characters are dropped and the buffer is capped at
// maxRangeInput. The filtered text is validated before the editor opens.
func (a *App) SetRange(value string) error {
	buf := ""
	for _, ch := range value {
		buf = pushRangeChar(buf, ch)
	}
	if _, err := domain.ParseDateRangeAt(buf, a.deps.Now()); err != nil {
		return fmt.Errorf("invalid range (%s): %w", buf, err)
	}
	a.StartRangeInput()
	a.mode.(*editingMode).buffer = buf
	a.SubmitRangeInput()
	return nil
}
