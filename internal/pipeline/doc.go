// SPDX-License-Identifier: MPL-2.0

// Package pipeline runs launchpad's build tasks in dependency order.
//
// The standard graph has two tasks: generateFabricMetadata keeps
// fabric.mod.json in sync with the mod descriptor, and processResources,
// which depends on it, mirrors the resource directories and the generated
// metadata directory into the build output. Tasks whose UpToDate check
// passes are skipped.
package pipeline
