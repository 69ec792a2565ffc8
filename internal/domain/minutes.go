package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidMinutes reports a duration that is malformed or zero.
var ErrInvalidMinutes = errors.New("invalid time (zero or bad format)")

// ParseMinutes accepts "H:MM"/"HH:MM" or a bare minute count.
func ParseMinutes(s string) (int, error) {
	s = strings.TrimSpace(s)
	var total int
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 2 {
			return 0, ErrInvalidMinutes
		}
		h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0, ErrInvalidMinutes
		}
		m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, ErrInvalidMinutes
		}
		total = h*60 + m
	} else {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, ErrInvalidMinutes
		}
		total = n
	}
	if total <= 0 {
		return 0, ErrInvalidMinutes
	}
	return total, nil
}

// FormatMinutes renders a minute count as zero-padded HH:MM.
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
