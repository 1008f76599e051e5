// SPDX-License-Identifier: MPL-2.0

package decl

import (
	"fmt"
	"reflect"
	"strings"
)

const (
	// KindAbsent marks a value that never appeared on the command line.
	KindAbsent Kind = iota
	// KindMissing marks an option that appeared without its value.
	KindMissing
	// KindFlag marks a boolean flag value.
	KindFlag
	// KindScalar marks a single value (a raw string until a validator transforms it).
	KindScalar
	// KindList marks an ordered list of values (rest arguments and multi options).
	KindList
)

type (
	// Kind identifies which variant a Value holds.
	Kind uint8

	// Value is the tagged value bound to an argument or option.
	// The zero Value is Absent.
	Value struct {
		kind  Kind
		flag  bool
		data  any
		items []Value
	}
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindMissing:
		return "missing"
	case KindFlag:
		return "flag"
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Absent returns the value of something that was never provided.
func Absent() Value { return Value{} }

// Missing returns the value of an option provided without its argument.
func Missing() Value { return Value{kind: KindMissing} }

// FlagValue returns a boolean flag value.
func FlagValue(b bool) Value { return Value{kind: KindFlag, flag: b} }

// ScalarValue returns a scalar value holding x.
func ScalarValue(x any) Value { return Value{kind: KindScalar, data: x} }

// ListValue returns a list value holding a copy of items.
func ListValue(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindList, items: cp}
}

// StringList returns a list of scalar string values.
func StringList(ss ...string) Value {
	items := make([]Value, len(ss))
	for i, s := range ss {
		items[i] = ScalarValue(s)
	}
	return Value{kind: KindList, items: items}
}

// FromAny converts a plain Go value into a Value.
// nil becomes Missing; slices become lists; everything else is a scalar.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Missing(), nil
	case Value:
		return t.Clone(), nil
	case []Value:
		return ListValue(t...), nil
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return ScalarValue(t), nil
	case []string:
		return StringList(t...), nil
	case []any:
		items := make([]Value, 0, len(t))
		for i, item := range t {
			v, err := FromAny(item)
			if err != nil {
				return Value{}, fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, v)
		}
		return Value{kind: KindList, items: items}, nil
	default:
		rv := reflect.ValueOf(x)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			items := make([]Value, 0, rv.Len())
			for i := range rv.Len() {
				v, err := FromAny(rv.Index(i).Interface())
				if err != nil {
					return Value{}, fmt.Errorf("item %d: %w", i, err)
				}
				items = append(items, v)
			}
			return Value{kind: KindList, items: items}, nil
		}
		if rv.Kind() == reflect.Map || rv.Kind() == reflect.Func || rv.Kind() == reflect.Chan {
			return Value{}, fmt.Errorf("unsupported value type %T", x)
		}
		return ScalarValue(x), nil
	}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v was never provided.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsMissing reports whether v is an option provided without its value.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// IsList reports whether v holds a list.
func (v Value) IsList() bool { return v.kind == KindList }

// Provided reports whether v appeared in any form.
func (v Value) Provided() bool { return v.kind != KindAbsent }

// Bool returns the boolean held by a flag or a boolean scalar.
func (v Value) Bool() (b, ok bool) {
	switch v.kind {
	case KindFlag:
		return v.flag, true
	case KindScalar:
		b, ok = v.data.(bool)
		return b, ok
	default:
		return false, false
	}
}

// Scalar returns the payload of a scalar value.
func (v Value) Scalar() (any, bool) {
	if v.kind != KindScalar {
		return nil, false
	}
	return v.data, true
}

// Items returns a copy of the list items. Non-list values return nil.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	cp := make([]Value, len(v.items))
	copy(cp, v.items)
	return cp
}

// Len returns the number of list items, 1 for scalars and flags, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.items)
	case KindScalar, KindFlag:
		return 1
	default:
		return 0
	}
}

// Append returns a list value with item appended. Absent becomes an empty list first.
func (v Value) Append(item Value) Value {
	items := v.Items()
	if v.kind != KindList && v.kind != KindAbsent {
		items = []Value{v}
	}
	return Value{kind: KindList, items: append(items, item)}
}

// Interface converts v to a plain Go value: nil for absent and missing values,
// bool for flags, the payload for scalars and []any for lists.
func (v Value) Interface() any {
	switch v.kind {
	case KindFlag:
		return v.flag
	case KindScalar:
		return v.data
	case KindList:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	if v.kind != KindList {
		return v
	}
	items := make([]Value, len(v.items))
	for i, item := range v.items {
		items[i] = item.Clone()
	}
	return Value{kind: KindList, items: items}
}

// Equal reports whether v and o hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindFlag:
		return v.flag == o.flag
	case KindScalar:
		return reflect.DeepEqual(v.data, o.data)
	case KindList:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders v for messages and logs.
func (v Value) String() string {
	switch v.kind {
	case KindAbsent:
		return "<absent>"
	case KindMissing:
		return "<missing>"
	case KindFlag:
		if v.flag {
			return "true"
		}
		return "false"
	case KindScalar:
		return fmt.Sprint(v.data)
	case KindList:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return v.kind.String()
	}
}
