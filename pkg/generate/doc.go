// SPDX-License-Identifier: MPL-2.0

// Package generate keeps a fabric.mod.json file in sync with a descriptor.
//
// The decision depends on whether the file exists and whether a descriptor
// is configured:
//
//	exists  desired  action
//	no      nil      none
//	no      set      write
//	yes     nil      delete
//	yes     set      none if the decoded file equals desired, write otherwise
//
// Equality is structural, so a file that differs only in formatting (pretty
// or compact, key order) is current. A file that does not decode is
// overwritten.
package generate
