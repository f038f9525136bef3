package vdom

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// Value is component state: either a scalar or a mapping of named Values.
// The zero Value is the nil scalar. Values are never mutated in place;
// Merge and Set return new Values.
type Value struct {
	fields map[string]Value // non-nil iff this is a mapping
	scalar any
}

// ValueOf converts v into a Value. Any map with string keys becomes a
// mapping (recursively) and a Value passes through; everything else is a
// scalar.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case Value:
		return x
	case map[string]any:
		fields := make(map[string]Value, len(x))
		for k, fv := range x {
			fields[k] = ValueOf(fv)
		}
		return Value{fields: fields}
	case Props:
		return ValueOf(map[string]any(x))
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		if rv.IsNil() {
			return Value{scalar: v}
		}
		fields := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			fields[iter.Key().String()] = ValueOf(iter.Value().Interface())
		}
		return Value{fields: fields}
	}
	return Value{scalar: v}
}

// Scalar wraps a non-mapping value.
func Scalar(v any) Value {
	return Value{scalar: v}
}

// IsMap reports whether v is a mapping.
func (v Value) IsMap() bool {
	return v.fields != nil
}

// IsNil reports whether v is the nil scalar.
func (v Value) IsNil() bool {
	return v.fields == nil && v.scalar == nil
}

// Lookup returns the field named key of a mapping.
func (v Value) Lookup(key string) (Value, bool) {
	f, ok := v.fields[key]
	return f, ok
}

// Get returns the field named key, or the nil scalar.
func (v Value) Get(key string) Value {
	return v.fields[key]
}

// Keys returns a mapping's keys in sorted order.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of fields of a mapping.
func (v Value) Len() int {
	return len(v.fields)
}

// Set returns a copy of v with key set to val. A scalar becomes a mapping.
func (v Value) Set(key string, val any) Value {
	fields := make(map[string]Value, len(v.fields)+1)
	for k, f := range v.fields {
		fields[k] = f
	}
	fields[key] = ValueOf(val)
	return Value{fields: fields}
}

// Merge returns v with patch deep-merged into it.
//
// If either side is a scalar, patch wins outright. Otherwise each key of
// patch is merged into the matching field of v when that field is itself a
// mapping, and overwrites it when it is not. Keys absent from patch keep
// their old value.
func (v Value) Merge(patch Value) Value {
	if !patch.IsMap() || !v.IsMap() {
		return patch
	}
	out := make(map[string]Value, len(v.fields)+len(patch.fields))
	for k, f := range v.fields {
		out[k] = f
	}
	for k, pf := range patch.fields {
		if old, ok := out[k]; ok && old.IsMap() {
			out[k] = old.Merge(pf)
			continue
		}
		out[k] = pf
	}
	return Value{fields: out}
}

// Equal reports deep equality.
func (v Value) Equal(o Value) bool {
	if v.IsMap() != o.IsMap() {
		return false
	}
	if !v.IsMap() {
		return propsEqual(v.scalar, o.scalar)
	}
	if len(v.fields) != len(o.fields) {
		return false
	}
	for k, f := range v.fields {
		of, ok := o.fields[k]
		if !ok || !f.Equal(of) {
			return false
		}
	}
	return true
}

// Any converts v back to plain Go values: map[string]any for mappings.
func (v Value) Any() any {
	if !v.IsMap() {
		return v.scalar
	}
	m := make(map[string]any, len(v.fields))
	for k, f := range v.fields {
		m[k] = f.Any()
	}
	return m
}

// Int returns a numeric scalar as an int, or 0.
func (v Value) Int() int {
	switch x := v.scalar.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case int32:
		return int(x)
	case float64:
		return int(x)
	case string:
		n, _ := strconv.Atoi(x)
		return n
	}
	if rv := reflect.ValueOf(v.scalar); rv.IsValid() && rv.CanInt() {
		return int(rv.Int())
	}
	return 0
}

// Bool returns a boolean scalar, or false.
func (v Value) Bool() bool {
	b, _ := v.scalar.(bool)
	return b
}

// Str returns a string scalar, or the formatted scalar.
func (v Value) Str() string {
	if s, ok := v.scalar.(string); ok {
		return s
	}
	if v.scalar == nil {
		return ""
	}
	return fmt.Sprint(v.scalar)
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if !v.IsMap() {
		return fmt.Sprintf("%v", v.scalar)
	}
	s := "{"
	for i, k := range v.Keys() {
		if i > 0 {
			s += " "
		}
		s += k + ":" + v.fields[k].String()
	}
	return s + "}"
}
