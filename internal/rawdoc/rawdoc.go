// Package rawdoc provides typed traversal over raw JSON documents
// (map[string]any trees as produced by encoding/json). Every accessor
// returns an explicit presence marker instead of relying on nil/zero
// ambiguity, so callers can distinguish "absent" from "present but empty".
package rawdoc

// Value is the result of a path lookup. Absent values report Ok() == false;
// all typed accessors on an absent Value return their zero value and false.
type Value struct {
	v  any
	ok bool
}

// Absent is the explicit missing-value marker.
var Absent = Value{}

// Of wraps an arbitrary decoded JSON value.
func Of(v any) Value {
	if v == nil {
		return Absent
	}
	return Value{v: v, ok: true}
}

// Dig walks a key path through nested objects. A missing key, a nil value,
// or a non-object intermediate node yields Absent.
func Dig(doc map[string]any, path ...string) Value {
	var cur any = doc
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return Absent
		}
		cur, ok = m[key]
		if !ok || cur == nil {
			return Absent
		}
	}
	return Of(cur)
}

// Ok reports whether the value is present.
func (v Value) Ok() bool { return v.ok }

// Raw returns the underlying value, or nil when absent.
func (v Value) Raw() any {
	if !v.ok {
		return nil
	}
	return v.v
}

// Map returns the value as a JSON object.
func (v Value) Map() (map[string]any, bool) {
	if !v.ok {
		return nil, false
	}
	m, ok := v.v.(map[string]any)
	return m, ok
}

// Slice returns the value as a JSON array.
func (v Value) Slice() ([]any, bool) {
	if !v.ok {
		return nil, false
	}
	s, ok := v.v.([]any)
	return s, ok
}

// String returns the value as a string.
func (v Value) String() (string, bool) {
	if !v.ok {
		return "", false
	}
	s, ok := v.v.(string)
	return s, ok
}

// Float returns the value as a float64 (the native JSON number type).
func (v Value) Float() (float64, bool) {
	if !v.ok {
		return 0, false
	}
	f, ok := v.v.(float64)
	return f, ok
}

// Int returns the value truncated to an int64. JSON numbers decode as
// float64, so integral source values round-trip exactly up to 2^53.
func (v Value) Int() (int64, bool) {
	f, ok := v.Float()
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// FirstString handles fields that arrive either as a string or as a list
// of strings (query params decoded from URLs do both). Returns the string
// itself, or the first string element of the list.
func (v Value) FirstString() (string, bool) {
	if s, ok := v.String(); ok {
		return s, true
	}
	list, ok := v.Slice()
	if !ok || len(list) == 0 {
		return "", false
	}
	s, ok := list[0].(string)
	return s, ok
}
