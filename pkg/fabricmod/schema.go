// SPDX-License-Identifier: MPL-2.0

package fabricmod

import (
	_ "embed"
	"errors"

	"github.com/invowk/launchpad/pkg/cueutil"
	"github.com/invowk/launchpad/pkg/jsontree"
)

const schemaDefinition = "#FabricMod"

// Schema is the CUE schema every fabric.mod.json document is checked against.
//
//go:embed fabric_mod_schema.cue
var Schema []byte

// CheckSchema validates a fabric.mod.json document against Schema. Object
// fields set to null are treated as absent. Failures are *DecodeError values
// whose Path locates the offending field.
func CheckSchema(data []byte) error {
	root, err := jsontree.Parse(data)
	if err != nil {
		return &DecodeError{Err: err}
	}
	return checkTree(root)
}

func checkTree(root jsontree.Value) error {
	doc, err := jsontree.Marshal(withoutNullFields(root), "")
	if err != nil {
		return &DecodeError{Err: err}
	}

	err = cueutil.Validate(Schema, doc, schemaDefinition,
		cueutil.WithFormat(cueutil.FormatJSON),
		cueutil.WithFilename("fabric.mod.json"),
	)
	if err == nil {
		return nil
	}

	var vErr *cueutil.ValidationError
	if errors.As(err, &vErr) {
		return &DecodeError{Path: vErr.CUEPath.String(), Err: err}
	}
	return &DecodeError{Err: err}
}

// withoutNullFields returns a copy of v without object fields whose value is null.
func withoutNullFields(v jsontree.Value) jsontree.Value {
	switch t := v.(type) {
	case jsontree.Array:
		out := make(jsontree.Array, len(t))
		for i, e := range t {
			out[i] = withoutNullFields(e)
		}
		return out
	case *jsontree.Object:
		out := jsontree.NewObject(t.Len())
		for k, e := range t.All() {
			if !jsontree.IsNull(e) {
				out.Set(k, withoutNullFields(e))
			}
		}
		return out
	default:
		return v
	}
}
