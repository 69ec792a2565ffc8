package automation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Args are the decoded arguments of a tool call or of one batch step.
// Numbers are kept as json.Number so integer values round-trip exactly.
type Args map[string]any

// lookup returns the first key present, so a long name wins over its alias.
func (a Args) lookup(keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := a[k]; ok {
			return v, true
		}
	}
	return nil, false
}

// requiredString accepts strings, numbers and booleans.
func (a Args) requiredString(keys ...string) (string, error) {
	v, ok := a.lookup(keys...)
	if !ok {
		return "", fmt.Errorf("missing required field: %s", keys[0])
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	}
	return "", fmt.Errorf("%s must be a string, number or bool", keys[0])
}

// optionalString returns the value only when it is a string.
func (a Args) optionalString(keys ...string) (string, bool) {
	v, ok := a.lookup(keys...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (a Args) requiredInt(keys ...string) (int, error) {
	v, ok := a.lookup(keys...)
	if !ok {
		return 0, fmt.Errorf("missing required field: %s", keys[0])
	}
	var text string
	switch x := v.(type) {
	case json.Number:
		text = x.String()
	case string:
		text = strings.TrimSpace(x)
	default:
		return 0, fmt.Errorf("%s must be an integer", keys[0])
	}
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", keys[0])
	}
	return int(n), nil
}

// optionalIndex falls back to def when the value is missing or not a
// non-negative integer.
func (a Args) optionalIndex(def int, keys ...string) int {
	v, ok := a.lookup(keys...)
	if !ok {
		return def
	}
	var text string
	switch x := v.(type) {
	case json.Number:
		text = x.String()
	case string:
		text = strings.TrimSpace(x)
	default:
		return def
	}
	n, err := strconv.ParseUint(text, 10, 31)
	if err != nil {
		return def
	}
	return int(n)
}

func (a Args) boolean(def bool, keys ...string) (bool, error) {
	v, ok := a.lookup(keys...)
	if !ok {
		return def, nil
	}
	if b, ok := parseBoolish(v); ok {
		return b, nil
	}
	return false, fmt.Errorf("%s must be a bool", keys[0])
}

func parseBoolish(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case json.Number:
		switch x.String() {
		case "1":
			return true, true
		case "0":
			return false, true
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "1", "true", "yes", "y":
			return true, true
		case "0", "false", "no", "n":
			return false, true
		}
	}
	return false, false
}

// limit parses a positive count, rejecting zero and capping at max.
func (a Args) limit(def, max int, keys ...string) (int, error) {
	v, ok := a.lookup(keys...)
	if !ok {
		return def, nil
	}
	var text string
	switch x := v.(type) {
	case json.Number:
		text = x.String()
	case string:
		text = strings.TrimSpace(x)
	default:
		return 0, fmt.Errorf("limits must be positive integers")
	}
	n, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("limits must be positive integers")
	}
	if n == 0 {
		return 0, fmt.Errorf("limits must be greater than 0")
	}
	return int(min(n, uint64(max))), nil
}

func (a Args) view(def View) (View, error) {
	v, ok := a.lookup("view", "vw")
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return def, fmt.Errorf("view must be a string")
	}
	return ParseView(s)
}

func (a Args) sessionID() (string, error) {
	return a.requiredString("session_id", "sid")
}

// responseOptions controls snapshot verbosity and the structured echo.
type responseOptions struct {
	structured bool
	view       View
	maxDays    int
	maxEntries int
}

const (
	defaultMaxDays    = 14
	maxMaxDays        = 120
	defaultMaxEntries = 20
	maxMaxEntries     = 300
)

func (a Args) responseOptions(def View) (responseOptions, error) {
	var (
		opts responseOptions
		err  error
	)
	if opts.structured, err = a.boolean(false, "structured", "stc"); err != nil {
		return opts, err
	}
	if opts.view, err = a.view(def); err != nil {
		return opts, err
	}
	if opts.maxDays, err = a.limit(defaultMaxDays, maxMaxDays, "max_days", "md"); err != nil {
		return opts, err
	}
	if opts.maxEntries, err = a.limit(defaultMaxEntries, maxMaxEntries, "max_entries_per_day", "me"); err != nil {
		return opts, err
	}
	return opts, nil
}

// decodeArgs parses a JSON object, keeping numbers as json.Number.
func decodeArgs(raw json.RawMessage) (Args, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Args{}, nil
	}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var args Args
	if err := dec.Decode(&args); err != nil {
		return nil, fmt.Errorf("arguments must be an object: %w", err)
	}
	if args == nil {
		args = Args{}
	}
	return args, nil
}
