// SPDX-License-Identifier: MPL-2.0

// Package modsource reads mod descriptor sources (fabric.mod.cue,
// fabric.mod.toml or fabric.mod.yaml) and builds the fabric.mod.json
// metadata from them.
//
// A descriptor uses the fabric.mod.json keys, so any valid fabric.mod.json
// is also a valid YAML descriptor. CUE descriptors are unified with the
// fabric.mod.json schema, which reports mistakes against the source file.
package modsource
