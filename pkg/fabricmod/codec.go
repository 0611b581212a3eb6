// SPDX-License-Identifier: MPL-2.0

package fabricmod

import (
	"errors"
	"fmt"
	"io"

	"github.com/invowk/launchpad/pkg/jsontree"
	"github.com/invowk/launchpad/pkg/transform"
	"github.com/invowk/launchpad/pkg/types"
)

// Wire keys of a fabric.mod.json document, in emission order.
const (
	keyID               = "id"
	keyVersion          = "version"
	keySchemaVersion    = "schemaVersion"
	keyEnvironment      = "environment"
	keyEntryPoints      = "entrypoints"
	keyJars             = "jars"
	keyLanguageAdapters = "languageAdapters"
	keyMixins           = "mixins"
	keyDepends          = "depends"
	keyRecommends       = "recommends"
	keySuggests         = "suggests"
	keyConflicts        = "conflicts"
	keyBreaks           = "breaks"
	keyName             = "name"
	keyDescription      = "description"
	keyAuthors          = "authors"
	keyContributors     = "contributors"
	keyContact          = "contact"
	keyLicense          = "license"
	keyIcon             = "icon"
	keyCustom           = "custom"

	iconPathSlot  = "path"
	iconPathsSlot = "paths"
	prettyIndent  = "\t"
)

var (
	// ErrUnknownField is returned when a document contains a key the schema does not define.
	ErrUnknownField = errors.New("unknown field")
	// ErrMissingField is returned when a required key is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrUnexpectedType is returned when a value has the wrong JSON type.
	ErrUnexpectedType = errors.New("unexpected value type")

	errNilDescriptor = errors.New("descriptor is nil")

	documentKeys = []string{
		keyID, keyVersion, keySchemaVersion, keyEnvironment, keyEntryPoints, keyJars,
		keyLanguageAdapters, keyMixins, keyDepends, keyRecommends, keySuggests, keyConflicts,
		keyBreaks, keyName, keyDescription, keyAuthors, keyContributors, keyContact, keyLicense,
		keyIcon, keyCustom,
	}

	// wireRules map the structural tree of a descriptor onto the document shape.
	wireRules = []transform.Rule{
		{Path: []string{keyEntryPoints}, Transform: transform.Extension(entryPointKeys...)},
		{Path: []string{keyContact}, Transform: transform.Extension(contactKeys...)},
		{Path: []string{keyAuthors, transform.Each, keyContact}, Transform: transform.Extension(contactKeys...)},
		{Path: []string{keyContributors, transform.Each, keyContact}, Transform: transform.Extension(contactKeys...)},
		{Path: []string{keyIcon}, Transform: transform.OneOf(transform.OneOfSlots{Scalar: iconPathSlot, Object: iconPathsSlot})},
	}
)

type (
	// CodecOption configures Marshal and Encode.
	CodecOption func(*codecOptions)

	codecOptions struct {
		pretty bool
	}
)

// WithPrettyPrint enables tab-indented output.
func WithPrettyPrint(pretty bool) CodecOption {
	return func(o *codecOptions) { o.pretty = pretty }
}

// Marshal encodes m as a fabric.mod.json document. Fields equal to their
// default are omitted.
func Marshal(m *ModDescriptor, opts ...CodecOption) ([]byte, error) {
	var o codecOptions
	for _, opt := range opts {
		opt(&o)
	}

	tree, err := ToTree(m)
	if err != nil {
		return nil, err
	}
	indent := ""
	if o.pretty {
		indent = prettyIndent
	}
	data, err := jsontree.Marshal(tree, indent)
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	return data, nil
}

// Encode writes the document for m to w.
func Encode(w io.Writer, m *ModDescriptor, opts ...CodecOption) error {
	data, err := Marshal(m, opts...)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing fabric.mod.json: %w", err)
	}
	return nil
}

// Unmarshal decodes a fabric.mod.json document. The document is checked
// against Schema before it is converted; any failure is a *DecodeError.
func Unmarshal(data []byte) (*ModDescriptor, error) {
	root, err := jsontree.Parse(data)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if err := checkTree(root); err != nil {
		return nil, err
	}
	return FromTree(root)
}

// Decode reads and decodes a whole document from r.
func Decode(r io.Reader) (*ModDescriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading fabric.mod.json: %w", err)
	}
	return Unmarshal(data)
}

// ToTree returns the document tree for m.
func ToTree(m *ModDescriptor) (*jsontree.Object, error) {
	if m == nil {
		return nil, &EncodeError{Err: errNilDescriptor}
	}
	structural, err := m.structure()
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	wire, err := transform.EncodeAll(structural, wireRules)
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	return wire.(*jsontree.Object), nil
}

// FromTree converts a document tree into a descriptor. Unlike Unmarshal it
// does not check the tree against Schema.
func FromTree(root jsontree.Value) (*ModDescriptor, error) {
	obj, err := asObject("", root)
	if err != nil {
		return nil, err
	}
	structural, err := transform.DecodeAll(obj, wireRules)
	if err != nil {
		var ruleErr *transform.RuleError
		if errors.As(err, &ruleErr) {
			return nil, &DecodeError{Path: ruleErr.Path, Err: ruleErr.Err}
		}
		return nil, &DecodeError{Err: err}
	}
	return fromStructure(structural.(*jsontree.Object))
}

// structure builds the structural tree: extension bags nested under
// "additional" and the icon wrapped as {path} or {paths}.
func (m *ModDescriptor) structure() (*jsontree.Object, error) {
	o := jsontree.NewObject(len(documentKeys))
	o.Set(keyID, jsontree.String(m.id))
	o.Set(keyVersion, jsontree.String(m.version))
	if m.schemaVersion != DefaultSchemaVersion {
		o.Set(keySchemaVersion, jsontree.Int(int64(m.schemaVersion)))
	}
	if m.environment != EnvironmentEither {
		o.Set(keyEnvironment, jsontree.String(m.environment))
	}
	if m.entryPoints != nil {
		o.Set(keyEntryPoints, m.entryPoints.structure())
	}
	if m.jars != nil {
		jars := make(jsontree.Array, len(m.jars))
		for i, j := range m.jars {
			file, err := pathValue(j.File)
			if err != nil {
				return nil, fmt.Errorf("jars[%d].file: %w", i, err)
			}
			jar := jsontree.NewObject(1)
			jar.Set("file", file)
			jars[i] = jar
		}
		o.Set(keyJars, jars)
	}
	setStringMap(o, keyLanguageAdapters, m.languageAdapters)
	if m.mixins != nil {
		config, err := pathValue(m.mixins.Config)
		if err != nil {
			return nil, fmt.Errorf("mixins.config: %w", err)
		}
		mixins := jsontree.NewObject(2)
		mixins.Set("config", config)
		if m.mixins.Environment != EnvironmentEither {
			mixins.Set(keyEnvironment, jsontree.String(m.mixins.Environment))
		}
		o.Set(keyMixins, mixins)
	}
	setStringMap(o, keyDepends, m.depends)
	setStringMap(o, keyRecommends, m.recommends)
	setStringMap(o, keySuggests, m.suggests)
	setStringMap(o, keyConflicts, m.conflicts)
	setStringMap(o, keyBreaks, m.breaks)
	setString(o, keyName, m.name)
	setString(o, keyDescription, m.description)
	setPeople(o, keyAuthors, m.authors)
	setPeople(o, keyContributors, m.contributors)
	if m.contact != nil {
		o.Set(keyContact, m.contact.structure())
	}
	if m.license != nil {
		o.Set(keyLicense, stringArray(m.license))
	}
	if m.icon != nil {
		icon, err := m.icon.structure()
		if err != nil {
			return nil, fmt.Errorf("icon: %w", err)
		}
		o.Set(keyIcon, icon)
	}
	if m.custom != nil {
		custom := jsontree.NewObject(len(m.custom))
		for _, k := range sortedKeys(m.custom) {
			custom.Set(k, jsontree.Clone(m.custom[k]))
		}
		o.Set(keyCustom, custom)
	}
	return o, nil
}

func (eps *EntryPoints) structure() *jsontree.Object {
	o := jsontree.NewObject(4)
	set := func(key string, list []EntryPoint) {
		if list != nil {
			o.Set(key, entryPointArray(list))
		}
	}
	set(entryPointsMain, eps.Common)
	set(entryPointsServer, eps.Server)
	set(entryPointsClient, eps.Client)
	if eps.Additional != nil {
		extra := jsontree.NewObject(len(eps.Additional))
		for _, k := range sortedKeys(eps.Additional) {
			extra.Set(k, entryPointArray(eps.Additional[k]))
		}
		o.Set(transform.ExtensionKey, extra)
	}
	return o
}

func entryPointArray(list []EntryPoint) jsontree.Array {
	arr := make(jsontree.Array, len(list))
	for i, ep := range list {
		e := jsontree.NewObject(2)
		e.Set("value", jsontree.String(ep.value))
		if ep.adapter != DefaultAdapter {
			e.Set("adapter", jsontree.String(ep.adapter))
		}
		arr[i] = e
	}
	return arr
}

func (c *ContactInfo) structure() *jsontree.Object {
	o := jsontree.NewObject(len(contactKeys) + 1)
	setString(o, "email", c.Email)
	setString(o, "irc", c.IRC)
	setString(o, "homepage", c.Homepage)
	setString(o, "issues", c.Issues)
	setString(o, "sources", c.Sources)
	setStringMap(o, transform.ExtensionKey, c.Additional)
	return o
}

func (i *Icon) structure() (*jsontree.Object, error) {
	o := jsontree.NewObject(1)
	if i.paths == nil {
		path, err := pathValue(i.path)
		if err != nil {
			return nil, err
		}
		o.Set(iconPathSlot, path)
		return o, nil
	}
	paths := jsontree.NewObject(len(i.paths))
	for _, k := range sortedKeys(i.paths) {
		path, err := pathValue(i.paths[k])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		paths.Set(k, path)
	}
	o.Set(iconPathsSlot, paths)
	return o, nil
}

// pathValue encodes a path through its scalar codec.
func pathValue(p types.FilesystemPath) (jsontree.Value, error) {
	s, err := types.EncodePath(p)
	if err != nil {
		return nil, err
	}
	return jsontree.String(s), nil
}

func setString(o *jsontree.Object, key, value string) {
	if value != "" {
		o.Set(key, jsontree.String(value))
	}
}

func setStringMap(o *jsontree.Object, key string, m map[string]string) {
	if m == nil {
		return
	}
	obj := jsontree.NewObject(len(m))
	for _, k := range sortedKeys(m) {
		obj.Set(k, jsontree.String(m[k]))
	}
	o.Set(key, obj)
}

func setPeople(o *jsontree.Object, key string, people []Person) {
	if people == nil {
		return
	}
	arr := make(jsontree.Array, len(people))
	for i, p := range people {
		person := jsontree.NewObject(2)
		person.Set("name", jsontree.String(p.Name))
		if p.Contact != nil {
			person.Set(keyContact, p.Contact.structure())
		}
		arr[i] = person
	}
	o.Set(key, arr)
}

func stringArray(values []string) jsontree.Array {
	arr := make(jsontree.Array, len(values))
	for i, s := range values {
		arr[i] = jsontree.String(s)
	}
	return arr
}
