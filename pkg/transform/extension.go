// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"errors"
	"fmt"
	"slices"

	"github.com/invowk/launchpad/pkg/jsontree"
)

// ExtensionKey is the key of the nested bag holding free-form properties in
// the structural form of an object.
const ExtensionKey = "additional"

var (
	// ErrExtensionKeyCollision is returned when an extension property has the
	// name of a known property or of a key already present in its parent.
	ErrExtensionKeyCollision = errors.New("extension property collides with a known property")
	// ErrMalformedExtensionBag is returned when the extension bag is not an object.
	ErrMalformedExtensionBag = errors.New("extension bag is not an object")
)

type extension struct {
	known []string
}

// Extension returns a transform that merges the nested ExtensionKey bag into
// its parent on encode and moves every key outside known back into the bag
// on decode.
func Extension(known ...string) Transform {
	return extension{known: slices.Clone(known)}
}

func (x extension) Encode(v jsontree.Value) (jsontree.Value, error) {
	obj, ok := v.(*jsontree.Object)
	if !ok || obj == nil {
		return v, nil
	}
	bag, ok := obj.Get(ExtensionKey)
	if !ok {
		return obj, nil
	}

	out := jsontree.NewObject(obj.Len())
	for k, e := range obj.All() {
		if k != ExtensionKey {
			out.Set(k, e)
		}
	}
	if jsontree.IsNull(bag) {
		return out, nil
	}

	extra, ok := bag.(*jsontree.Object)
	if !ok || extra == nil {
		return nil, fmt.Errorf("%w: got %s", ErrMalformedExtensionBag, kindOf(bag))
	}
	for k, e := range extra.All() {
		if x.isKnown(k) || out.Has(k) {
			return nil, fmt.Errorf("%w: %q", ErrExtensionKeyCollision, k)
		}
		out.Set(k, e)
	}
	return out, nil
}

func (x extension) Decode(v jsontree.Value) (jsontree.Value, error) {
	obj, ok := v.(*jsontree.Object)
	if !ok || obj == nil {
		return v, nil
	}

	out := jsontree.NewObject(obj.Len())
	var extra *jsontree.Object
	for k, e := range obj.All() {
		if x.isKnown(k) {
			out.Set(k, e)
			continue
		}
		if extra == nil {
			extra = jsontree.NewObject(0)
		}
		extra.Set(k, e)
	}
	if extra != nil {
		out.Set(ExtensionKey, extra)
	}
	return out, nil
}

func (x extension) isKnown(key string) bool {
	return slices.Contains(x.known, key)
}
