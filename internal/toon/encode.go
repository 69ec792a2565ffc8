// Package toon encodes values as TOON, a line-oriented notation that
// spends far fewer tokens than JSON on the uniform arrays automation
// payloads are made of.
//
//	e: sa
//	as[2]: next_day,open_add_entry
//	ds[1]:
//	  - d: 2024-03-12
//	    e[1]{p,h,n}:
//	      Backend,1.5,api review
package toon

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnsupported is returned for values that have no TOON form.
var ErrUnsupported = errors.New("toon: unsupported value")

// Delimiter separates inline array values and tabular cells.
type Delimiter rune

const (
	Comma Delimiter = ','
	Tab   Delimiter = '\t'
	Pipe  Delimiter = '|'
)

// Options control layout.
type Options struct {
	// Indent is the number of spaces per nesting level.
	Indent    int
	Delimiter Delimiter
}

// DefaultOptions is two-space indentation with comma delimiters.
func DefaultOptions() Options {
	return Options{Indent: 2, Delimiter: Comma}
}

// Compact is the densest layout: one-space indentation and tab delimiters.
func Compact() Options {
	return Options{Indent: 1, Delimiter: Tab}
}

var (
	bareKey     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
	numericLike = regexp.MustCompile(`^-?\d+(\.\d+)?([eE][+-]?\d+)?$|^0\d+$`)
)

// Encode renders v. Maps are emitted with sorted keys; use Object when
// field order matters.
func Encode(v any, opts Options) (string, error) {
	if opts.Indent <= 0 {
		opts.Indent = 2
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = Comma
	}
	nv, err := normalize(v)
	if err != nil {
		return "", err
	}

	e := &encoder{opts: opts, delim: string(opts.Delimiter)}
	switch x := nv.(type) {
	case Object:
		e.object(x, 0)
	case []any:
		e.array("", x, 0, 1)
	default:
		e.line(0, e.primitive(x))
	}
	return strings.Join(e.lines, "\n"), nil
}

type encoder struct {
	opts  Options
	delim string
	lines []string
}

func (e *encoder) line(depth int, s string) {
	e.lines = append(e.lines, strings.Repeat(" ", depth*e.opts.Indent)+s)
}

func (e *encoder) object(o Object, depth int) {
	for _, f := range o {
		e.field("", f, depth, depth+1)
	}
}

// field writes one key/value pair. lead prefixes the first line and
// childDepth is where nested content goes.
func (e *encoder) field(lead string, f Field, depth, childDepth int) {
	key := lead + e.key(f.Key)
	switch v := f.Value.(type) {
	case Object:
		e.line(depth, key+":")
		e.object(v, childDepth)
	case []any:
		e.array(key, v, depth, childDepth)
	default:
		e.line(depth, key+": "+e.primitive(v))
	}
}

func (e *encoder) header(key string, n int) string {
	marker := ""
	if e.opts.Delimiter != Comma {
		marker = e.delim
	}
	return key + "[" + strconv.Itoa(n) + marker + "]"
}

func (e *encoder) array(key string, arr []any, depth, childDepth int) {
	head := e.header(key, len(arr))
	if len(arr) == 0 {
		e.line(depth, head+":")
		return
	}

	if cells, ok := e.inline(arr); ok {
		e.line(depth, head+": "+strings.Join(cells, e.delim))
		return
	}

	if cols, ok := tabular(arr); ok {
		keys := make([]string, len(cols))
		for i, c := range cols {
			keys[i] = e.key(c)
		}
		e.line(depth, head+"{"+strings.Join(keys, e.delim)+"}:")
		for _, item := range arr {
			row := item.(Object)
			cells := make([]string, len(row))
			for i, f := range row {
				cells[i] = e.primitive(f.Value)
			}
			e.line(childDepth, strings.Join(cells, e.delim))
		}
		return
	}

	e.line(depth, head+":")
	for _, item := range arr {
		e.listItem(item, childDepth)
	}
}

func (e *encoder) listItem(item any, depth int) {
	switch v := item.(type) {
	case Object:
		if len(v) == 0 {
			e.line(depth, "-")
			return
		}
		e.field("- ", v[0], depth, depth+2)
		for _, f := range v[1:] {
			e.field("", f, depth+1, depth+2)
		}
	case []any:
		e.array("- ", v, depth, depth+1)
	default:
		e.line(depth, "- "+e.primitive(v))
	}
}

// inline renders arr on one line when every element is primitive.
func (e *encoder) inline(arr []any) ([]string, bool) {
	cells := make([]string, len(arr))
	for i, v := range arr {
		if !isPrimitive(v) {
			return nil, false
		}
		cells[i] = e.primitive(v)
	}
	return cells, true
}

// tabular reports whether arr is a non-empty list of objects that share
// one key sequence and hold only primitives.
func tabular(arr []any) ([]string, bool) {
	first, ok := arr[0].(Object)
	if !ok || len(first) == 0 {
		return nil, false
	}
	cols := make([]string, len(first))
	for i, f := range first {
		cols[i] = f.Key
	}
	for _, item := range arr {
		o, ok := item.(Object)
		if !ok || len(o) != len(cols) {
			return nil, false
		}
		for i, f := range o {
			if f.Key != cols[i] || !isPrimitive(f.Value) {
				return nil, false
			}
		}
	}
	return cols, true
}

func isPrimitive(v any) bool {
	switch v.(type) {
	case Object, []any:
		return false
	}
	return true
}

func (e *encoder) key(k string) string {
	if bareKey.MatchString(k) {
		return k
	}
	return quote(k)
}

func (e *encoder) primitive(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return formatFloat(x)
	case string:
		if e.needsQuote(x) {
			return quote(x)
		}
		return x
	}
	return "null"
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (e *encoder) needsQuote(s string) bool {
	switch {
	case s == "", s != strings.TrimSpace(s):
		return true
	case s == "true", s == "false", s == "null":
		return true
	case numericLike.MatchString(s):
		return true
	case strings.HasPrefix(s, "-"):
		return true
	case strings.ContainsAny(s, ":\"\\[]{}"):
		return true
	case strings.Contains(s, e.delim):
		return true
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
