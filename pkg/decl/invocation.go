// SPDX-License-Identifier: MPL-2.0

package decl

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

type (
	// Invocation is the state shared by every handler of a single parse.
	Invocation struct {
		// ID identifies the invocation in logs.
		ID string
		// Command is the resolved command name ("" for the top-level command).
		Command string
		// Args holds positional values keyed by APIName.
		Args *Values
		// Options holds option values keyed by Option.Key.
		Options *Values
		// Data is the mutable context shared across handlers.
		Data *Data
		// Immediate is the key of the immediate option that short-circuited
		// the invocation, or "".
		Immediate string

		suspended bool
	}

	// Values is an insertion-ordered map of bound values.
	Values struct {
		keys []string
		m    map[string]Value
	}

	// Data is the mutable context object shared across all handlers of one invocation.
	Data struct {
		m map[string]any
	}
)

// NewInvocation returns an invocation with empty values and a fresh Data context.
func NewInvocation(id string) *Invocation {
	return &Invocation{
		ID:      id,
		Args:    NewValues(),
		Options: NewValues(),
		Data:    NewData(),
	}
}

// Suspend stops the remaining action handlers of the invocation.
func (inv *Invocation) Suspend() { inv.suspended = true }

// Suspended reports whether a handler called Suspend.
func (inv *Invocation) Suspended() bool { return inv.suspended }

// NewValues returns an empty Values.
func NewValues() *Values {
	return &Values{m: make(map[string]Value)}
}

// Set binds key to val, keeping the first insertion position.
func (v *Values) Set(key string, val Value) {
	if _, ok := v.m[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.m[key] = val
}

// Get returns the value bound to key, or Absent.
func (v *Values) Get(key string) Value {
	return v.m[key]
}

// Has reports whether key holds a provided value.
func (v *Values) Has(key string) bool {
	return v.m[key].Provided()
}

// Keys returns bound keys in insertion order.
func (v *Values) Keys() []string {
	return slices.Clone(v.keys)
}

// Len returns the number of bound keys.
func (v *Values) Len() int { return len(v.keys) }

// String returns the scalar bound to key formatted as a string.
// Absent and missing values return "".
func (v *Values) String(key string) string {
	val := v.m[key]
	switch val.Kind() {
	case KindScalar:
		if s, ok := val.data.(string); ok {
			return s
		}
		return fmt.Sprint(val.data)
	case KindFlag, KindList:
		return val.String()
	default:
		return ""
	}
}

// Strings returns the items bound to key as strings. A scalar yields a
// single-element slice; missing items are skipped.
func (v *Values) Strings(key string) []string {
	val := v.m[key]
	switch val.Kind() {
	case KindList:
		out := make([]string, 0, len(val.items))
		for _, item := range val.items {
			if item.Provided() && !item.IsMissing() {
				out = append(out, item.String())
			}
		}
		return out
	case KindScalar, KindFlag:
		return []string{val.String()}
	default:
		return nil
	}
}

// Bool returns the boolean bound to key; anything else is false.
func (v *Values) Bool(key string) bool {
	b, _ := v.m[key].Bool()
	return b
}

// Float returns the number bound to key, parsing strings when needed.
func (v *Values) Float(key string) (float64, bool) {
	val, ok := v.m[key].Scalar()
	if !ok {
		return 0, false
	}
	switch n := val.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Map returns the bound values as plain Go values (see Value.Interface).
func (v *Values) Map() map[string]any {
	out := make(map[string]any, len(v.keys))
	for _, k := range v.keys {
		out[k] = v.m[k].Interface()
	}
	return out
}

// Clone returns a deep copy.
func (v *Values) Clone() *Values {
	cp := &Values{keys: slices.Clone(v.keys), m: make(map[string]Value, len(v.m))}
	for k, val := range v.m {
		cp.m[k] = val.Clone()
	}
	return cp
}

// NewData returns an empty context object.
func NewData() *Data {
	return &Data{m: make(map[string]any)}
}

// Set stores value under key.
func (d *Data) Set(key string, value any) { d.m[key] = value }

// Get returns the value stored under key.
func (d *Data) Get(key string) (any, bool) {
	val, ok := d.m[key]
	return val, ok
}

// Delete removes key.
func (d *Data) Delete(key string) { delete(d.m, key) }

// Keys returns the stored keys in sorted order.
func (d *Data) Keys() []string {
	return slices.Sorted(maps.Keys(d.m))
}

// Lookup returns the value stored under key when it has type T.
func Lookup[T any](d *Data, key string) (T, bool) {
	var zero T
	raw, ok := d.m[key]
	if !ok {
		return zero, false
	}
	val, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return val, true
}
