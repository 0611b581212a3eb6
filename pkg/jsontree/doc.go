// SPDX-License-Identifier: MPL-2.0

// Package jsontree provides an ordered attribute-value tree for JSON documents.
//
// Objects keep their keys in insertion order so that a document can be parsed,
// rewritten by the schema transforms in pkg/transform and emitted again
// without reshuffling fields. Numbers keep their literal text; they are never
// routed through float64 on the way in or out.
//
// The tree is the generic representation the document codec works on:
//
//	root, err := jsontree.Parse(data)
//	obj, ok := root.(*jsontree.Object)
//	...
//	out, err := jsontree.Marshal(obj, "\t")
package jsontree
