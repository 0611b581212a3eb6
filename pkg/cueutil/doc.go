// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE schema validation.
//
// The same three steps serve the configuration file, descriptor sources and
// generated fabric.mod.json documents:
//
//  1. Compile the embedded schema
//  2. Compile user data (CUE source, or JSON with WithFormat(FormatJSON)) and
//     unify it with a schema definition
//  3. Validate, and optionally decode to a Go struct
//
// # Usage
//
//	//go:embed config_schema.cue
//	var configSchema []byte
//
//	result, err := cueutil.ParseAndDecode[Config](
//	    configSchema,
//	    userFileBytes,
//	    "#Config",
//	    cueutil.WithFilename("launchpad.cue"),
//	)
//	if err != nil {
//	    return nil, err  // error includes the field path
//	}
//	return result.Value, nil
package cueutil
