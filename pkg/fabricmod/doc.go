// SPDX-License-Identifier: MPL-2.0

// Package fabricmod models fabric.mod.json, the metadata document of a Fabric
// mod, and converts it to and from its JSON form.
//
// A ModDescriptor is built once with New and validated there; a descriptor
// that exists is valid. Marshal omits every field that holds its default
// (schemaVersion 1, environment "*", the "default" entry point adapter and
// absent optionals), and Unmarshal substitutes those defaults back:
//
//	ep, _ := fabricmod.NewEntryPoint("net.example.Mod::init", "kotlin")
//	m, err := fabricmod.New("example", "1.0.0",
//	    fabricmod.WithEntryPoints(fabricmod.EntryPoints{Common: []fabricmod.EntryPoint{ep}}),
//	    fabricmod.WithDepends(map[string]string{"fabricloader": ">=0.11.3"}),
//	)
//	data, err := fabricmod.Marshal(m, fabricmod.WithPrettyPrint(true))
//
// On the wire, extension properties of entry points and contact information
// share the object with the known keys, and the icon is either a path string
// or a width-to-path object. These shapes are produced by the rules in
// pkg/transform, applied to a structural tree that keeps extensions in a
// nested "additional" object.
package fabricmod
