// SPDX-License-Identifier: MPL-2.0

// Package transform implements reversible rewrites between the structural
// tree of a data model and its wire shape.
//
// Two transforms are provided. OneOf collapses an object with mutually
// exclusive slots into the value of the single populated slot, so that a
// field can be either a string or an object on the wire. Extension splices a
// nested bag of free-form properties into its parent object, so that known
// and unknown keys share one JSON object on the wire.
//
// Transforms are attached to locations in a document with Rule and applied
// in bulk with EncodeAll and DecodeAll.
package transform
