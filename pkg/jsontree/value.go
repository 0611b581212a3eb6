// SPDX-License-Identifier: MPL-2.0

package jsontree

import (
	"iter"
	"math/big"
	"slices"
	"strconv"
)

const (
	// KindNull is the JSON null literal.
	KindNull Kind = iota
	// KindBool is true or false.
	KindBool
	// KindNumber is a JSON number, kept as its literal text.
	KindNumber
	// KindString is a JSON string.
	KindString
	// KindArray is an ordered sequence of values.
	KindArray
	// KindObject is an ordered mapping of string keys to values.
	KindObject
)

type (
	// Kind identifies the shape of a Value.
	Kind uint8

	// Value is a node of the tree. The concrete types are Null, Bool, Number,
	// String, Array and *Object.
	Value interface {
		Kind() Kind
	}

	// Null is the JSON null literal.
	Null struct{}

	// Bool is a JSON boolean.
	Bool bool

	// Number is a JSON number literal such as "1", "-2.5" or "1e9".
	Number string

	// String is a JSON string.
	String string

	// Array is a JSON array.
	Array []Value

	// Object is a JSON object whose keys keep insertion order.
	// The zero value is an empty object ready for use.
	Object struct {
		keys   []string
		fields map[string]Value
	}
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Kind implements Value.
func (Null) Kind() Kind { return KindNull }

// Kind implements Value.
func (Bool) Kind() Kind { return KindBool }

// Kind implements Value.
func (Number) Kind() Kind { return KindNumber }

// Kind implements Value.
func (String) Kind() Kind { return KindString }

// Kind implements Value.
func (Array) Kind() Kind { return KindArray }

// Kind implements Value.
func (*Object) Kind() Kind { return KindObject }

// Int returns the Number for an integer.
func Int(i int64) Number { return Number(strconv.FormatInt(i, 10)) }

// Int64 parses the number as a base-10 integer.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// NewObject returns an empty object with room for size keys.
func NewObject(size int) *Object {
	return &Object{
		keys:   make([]string, 0, size),
		fields: make(map[string]Value, size),
	}
}

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.fields[key]
	return v, ok
}

// Set stores v under key. A new key is appended; an existing key keeps its position.
func (o *Object) Set(key string, v Value) {
	if o.fields == nil {
		o.fields = make(map[string]Value)
	}
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if _, ok := o.fields[key]; !ok {
		return false
	}
	delete(o.fields, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
	return true
}

// Keys returns the keys in order. The returned slice is a copy.
func (o *Object) Keys() []string { return slices.Clone(o.keys) }

// All iterates over the fields in key order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range o.keys {
			if !yield(k, o.fields[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch t := v.(type) {
	case Array:
		out := make(Array, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	case *Object:
		if t == nil {
			return t
		}
		out := NewObject(t.Len())
		for k, e := range t.All() {
			out.Set(k, Clone(e))
		}
		return out
	default:
		return v
	}
}

// IsNull reports whether v is nil or the JSON null literal.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Equal reports whether a and b are structurally equal. Object key order is
// ignored; array order is not. Numbers compare by value, so "1" equals "1.0".
func Equal(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Bool:
		return x == b.(Bool)
	case String:
		return x == b.(String)
	case Number:
		return numbersEqual(x, b.(Number))
	case Array:
		y := b.(Array)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Object:
		y := b.(*Object)
		if x.Len() != y.Len() {
			return false
		}
		for k, xv := range x.All() {
			yv, ok := y.Get(k)
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func numbersEqual(a, b Number) bool {
	if a == b {
		return true
	}
	x, okA := new(big.Float).SetString(string(a))
	y, okB := new(big.Float).SetString(string(b))
	return okA && okB && x.Cmp(y) == 0
}
