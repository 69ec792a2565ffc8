package toon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
)

// Field is one key/value pair of an Object.
type Field struct {
	Key   string
	Value any
}

// Object is an ordered map. Key order is preserved by both Encode and
// MarshalJSON, which keeps payloads stable across calls.
type Object []Field

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for _, f := range o {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the value under key or appends a new field.
func (o *Object) Set(key string, value any) {
	for i := range *o {
		if (*o)[i].Key == key {
			(*o)[i].Value = value
			return
		}
	}
	*o = append(*o, Field{Key: key, Value: value})
}

// MarshalJSON writes the fields in order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(jsonSafe(f.Value))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// jsonSafe maps non-finite floats to null, matching Encode.
func jsonSafe(v any) any {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return v
}

// normalize reduces v to the closed set the encoder understands: nil,
// bool, string, int64, uint64, float64, Object and []any.
func normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, int64, uint64, float64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint:
		return uint64(x), nil
	case uint32:
		return uint64(x), nil
	case float32:
		return float64(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: number %q", ErrUnsupported, x)
		}
		return f, nil
	case Object:
		out := make(Object, len(x))
		for i, f := range x {
			nv, err := normalize(f.Value)
			if err != nil {
				return nil, err
			}
			out[i] = Field{Key: f.Key, Value: nv}
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(Object, 0, len(x))
		for _, k := range keys {
			nv, err := normalize(x[k])
			if err != nil {
				return nil, err
			}
			out = append(out, Field{Key: k, Value: nv})
		}
		return out, nil
	case []any:
		return normalizeSlice(len(x), func(i int) any { return x[i] })
	case []Object:
		return normalizeSlice(len(x), func(i int) any { return x[i] })
	case []string:
		return normalizeSlice(len(x), func(i int) any { return x[i] })
	}

	// Remaining slices of primitives, e.g. []int or []float64.
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		return normalizeSlice(rv.Len(), func(i int) any { return rv.Index(i).Interface() })
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
}

func normalizeSlice(n int, at func(int) any) (any, error) {
	out := make([]any, n)
	for i := 0; i < n; i++ {
		nv, err := normalize(at(i))
		if err != nil {
			return nil, err
		}
		out[i] = nv
	}
	return out, nil
}
