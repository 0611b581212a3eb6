// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"errors"
	"fmt"

	"github.com/invowk/launchpad/pkg/jsontree"
)

var (
	// ErrEmptyOneOf is returned when encoding a one-of with no populated slot.
	ErrEmptyOneOf = errors.New("no alternative of one-of is set")
	// ErrAmbiguousOneOf is returned when encoding a one-of with more than one populated slot.
	ErrAmbiguousOneOf = errors.New("more than one alternative of one-of is set")
	// ErrUnrecognizedOneOfShape is returned when a value fits none of the alternatives.
	ErrUnrecognizedOneOfShape = errors.New("value matches no alternative of one-of")
)

type (
	// OneOfSlots names the two alternatives of a one-of: Scalar holds a
	// string, number or boolean and Object holds an object.
	OneOfSlots struct {
		Scalar string
		Object string
	}

	oneOf struct {
		slots OneOfSlots
	}
)

// OneOf returns a transform that flattens {Scalar: v} or {Object: v} into v
// on encode and wraps v back into the matching slot on decode.
func OneOf(slots OneOfSlots) Transform {
	return oneOf{slots: slots}
}

func (o oneOf) Encode(v jsontree.Value) (jsontree.Value, error) {
	obj, ok := v.(*jsontree.Object)
	if !ok || obj == nil {
		return nil, fmt.Errorf("%w: expected object, got %s", ErrUnrecognizedOneOfShape, kindOf(v))
	}

	var (
		chosen jsontree.Value
		set    []string
	)
	for k, e := range obj.All() {
		if k != o.slots.Scalar && k != o.slots.Object {
			return nil, fmt.Errorf("%w: unexpected key %q", ErrUnrecognizedOneOfShape, k)
		}
		if jsontree.IsNull(e) {
			continue
		}
		chosen = e
		set = append(set, k)
	}

	switch len(set) {
	case 0:
		return nil, fmt.Errorf("%w: expected %q or %q", ErrEmptyOneOf, o.slots.Scalar, o.slots.Object)
	case 1:
		return chosen, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousOneOf, set)
	}
}

func (o oneOf) Decode(v jsontree.Value) (jsontree.Value, error) {
	out := jsontree.NewObject(1)
	switch v.(type) {
	case jsontree.String, jsontree.Number, jsontree.Bool:
		out.Set(o.slots.Scalar, v)
	case *jsontree.Object:
		out.Set(o.slots.Object, v)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnrecognizedOneOfShape, kindOf(v))
	}
	return out, nil
}

func kindOf(v jsontree.Value) string {
	if v == nil {
		return jsontree.KindNull.String()
	}
	return v.Kind().String()
}
