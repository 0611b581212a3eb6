// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for launchpad.
//
// This package implements the Cobra command hierarchy for the launchpad CLI:
// generating and checking fabric.mod.json, validating existing metadata,
// running the build task graph, and managing configuration.
package cmd
