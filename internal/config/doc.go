// SPDX-License-Identifier: MPL-2.0

// Package config loads launchpad project configuration using Viper with CUE as
// the file format.
//
// Values come from the built-in defaults, then the user-level launchpad.cue
// (under os.UserConfigDir), then the project's launchpad.cue, then LAUNCHPAD_*
// environment variables. Each file is validated against the embedded
// config_schema.cue #Config definition before it is merged.
package config
