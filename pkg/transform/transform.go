// SPDX-License-Identifier: MPL-2.0

package transform

import (
	"fmt"
	"strings"

	"github.com/invowk/launchpad/pkg/jsontree"
)

// Each is a path segment that applies the rest of the path to every element
// of an array.
const Each = "[*]"

type (
	// Transform rewrites a single tree node. Decode must invert Encode for
	// every value Encode accepts.
	Transform interface {
		Encode(v jsontree.Value) (jsontree.Value, error)
		Decode(v jsontree.Value) (jsontree.Value, error)
	}

	// Rule attaches a Transform to a location in a document. Path is a list
	// of object keys, with Each stepping into array elements.
	Rule struct {
		Path      []string
		Transform Transform
	}

	// RuleError reports the location at which a transform failed.
	RuleError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the transform's error.
func (e *RuleError) Unwrap() error { return e.Err }

// EncodeAll applies Encode of every rule, in order, to a copy of root.
// Locations that are missing or null are skipped, as are locations whose
// parent has a different shape than the path expects.
func EncodeAll(root jsontree.Value, rules []Rule) (jsontree.Value, error) {
	out := jsontree.Clone(root)
	for _, r := range rules {
		var err error
		out, err = apply(out, r.Path, "", r.Transform.Encode)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DecodeAll applies Decode of every rule, in reverse order, to a copy of root.
func DecodeAll(root jsontree.Value, rules []Rule) (jsontree.Value, error) {
	out := jsontree.Clone(root)
	for i := len(rules) - 1; i >= 0; i-- {
		var err error
		out, err = apply(out, rules[i].Path, "", rules[i].Transform.Decode)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// String renders the rule path as "authors[*].contact".
func (r Rule) String() string {
	return joinPath(r.Path)
}

func apply(v jsontree.Value, path []string, at string, fn func(jsontree.Value) (jsontree.Value, error)) (jsontree.Value, error) {
	if len(path) == 0 {
		res, err := fn(v)
		if err != nil {
			return nil, &RuleError{Path: at, Err: err}
		}
		return res, nil
	}

	seg, rest := path[0], path[1:]
	if seg == Each {
		arr, ok := v.(jsontree.Array)
		if !ok {
			return v, nil
		}
		for i, e := range arr {
			if jsontree.IsNull(e) {
				continue
			}
			res, err := apply(e, rest, fmt.Sprintf("%s[%d]", at, i), fn)
			if err != nil {
				return nil, err
			}
			arr[i] = res
		}
		return arr, nil
	}

	obj, ok := v.(*jsontree.Object)
	if !ok || obj == nil {
		return v, nil
	}
	child, ok := obj.Get(seg)
	if !ok || jsontree.IsNull(child) {
		return v, nil
	}
	res, err := apply(child, rest, childPath(at, seg), fn)
	if err != nil {
		return nil, err
	}
	obj.Set(seg, res)
	return obj, nil
}

func childPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func joinPath(path []string) string {
	var sb strings.Builder
	for _, seg := range path {
		if seg != Each && sb.Len() > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(seg)
	}
	return sb.String()
}
