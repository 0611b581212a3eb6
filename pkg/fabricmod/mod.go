// SPDX-License-Identifier: MPL-2.0

package fabricmod

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/invowk/launchpad/pkg/jsontree"
)

// DefaultSchemaVersion is the fabric.mod.json schema version assumed when a
// document does not state one.
const DefaultSchemaVersion = 1

type (
	// ModDescriptor is the content of a fabric.mod.json document. It is built
	// with New and is immutable afterwards: accessors return copies.
	//
	// A nil *ModDescriptor stands for "no descriptor configured".
	ModDescriptor struct {
		id               ModID
		version          string
		schemaVersion    int
		environment      Environment
		entryPoints      *EntryPoints
		jars             []NestedJar
		languageAdapters map[string]string
		mixins           *Mixins
		depends          map[string]string
		recommends       map[string]string
		suggests         map[string]string
		conflicts        map[string]string
		breaks           map[string]string
		name             string
		description      string
		authors          []Person
		contributors     []Person
		contact          *ContactInfo
		license          []string
		icon             *Icon
		custom           map[string]jsontree.Value
	}

	// Option configures an optional field of a ModDescriptor.
	Option func(*ModDescriptor)
)

// New returns a validated descriptor. Every collection passed through an
// option is copied. On failure it returns an *InvalidModDescriptorError
// listing every invalid field.
func New(id ModID, version string, opts ...Option) (*ModDescriptor, error) {
	m := &ModDescriptor{
		id:            id,
		version:       version,
		schemaVersion: DefaultSchemaVersion,
		environment:   EnvironmentEither,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.normalize()

	if errs := m.validate(); len(errs) > 0 {
		return nil, &InvalidModDescriptorError{FieldErrors: errs}
	}
	return m, nil
}

// WithSchemaVersion sets the schema version.
func WithSchemaVersion(v int) Option {
	return func(m *ModDescriptor) { m.schemaVersion = v }
}

// WithEnvironment sets the side the mod runs on.
func WithEnvironment(env Environment) Option {
	return func(m *ModDescriptor) { m.environment = env }
}

// WithEntryPoints sets the entry points.
func WithEntryPoints(eps EntryPoints) Option {
	return func(m *ModDescriptor) {
		c := eps.clone()
		m.entryPoints = &c
	}
}

// WithJars sets the nested jars.
func WithJars(jars ...NestedJar) Option {
	return func(m *ModDescriptor) { m.jars = cloneSlice(jars) }
}

// WithLanguageAdapters sets the language adapter name to class mapping.
func WithLanguageAdapters(adapters map[string]string) Option {
	return func(m *ModDescriptor) { m.languageAdapters = maps.Clone(adapters) }
}

// WithMixins sets the mixin configuration.
func WithMixins(mixins Mixins) Option {
	return func(m *ModDescriptor) { m.mixins = &mixins }
}

// WithDepends sets the required dependencies and their version ranges.
func WithDepends(deps map[string]string) Option {
	return func(m *ModDescriptor) { m.depends = maps.Clone(deps) }
}

// WithRecommends sets the recommended dependencies.
func WithRecommends(deps map[string]string) Option {
	return func(m *ModDescriptor) { m.recommends = maps.Clone(deps) }
}

// WithSuggests sets the suggested dependencies.
func WithSuggests(deps map[string]string) Option {
	return func(m *ModDescriptor) { m.suggests = maps.Clone(deps) }
}

// WithConflicts sets the mods this one conflicts with.
func WithConflicts(deps map[string]string) Option {
	return func(m *ModDescriptor) { m.conflicts = maps.Clone(deps) }
}

// WithBreaks sets the mods this one breaks.
func WithBreaks(deps map[string]string) Option {
	return func(m *ModDescriptor) { m.breaks = maps.Clone(deps) }
}

// WithName sets the display name.
func WithName(name string) Option {
	return func(m *ModDescriptor) { m.name = name }
}

// WithDescription sets the description.
func WithDescription(description string) Option {
	return func(m *ModDescriptor) { m.description = description }
}

// WithAuthors sets the authors.
func WithAuthors(people ...Person) Option {
	return func(m *ModDescriptor) { m.authors = clonePeople(people) }
}

// WithContributors sets the contributors.
func WithContributors(people ...Person) Option {
	return func(m *ModDescriptor) { m.contributors = clonePeople(people) }
}

// WithContact sets the mod's contact information.
func WithContact(c ContactInfo) Option {
	return func(m *ModDescriptor) {
		cc := c.clone()
		m.contact = &cc
	}
}

// WithLicense sets the license identifiers.
func WithLicense(licenses ...string) Option {
	return func(m *ModDescriptor) { m.license = cloneSlice(licenses) }
}

// WithIcon sets the icon.
func WithIcon(icon Icon) Option {
	return func(m *ModDescriptor) {
		i := Icon{path: icon.path, paths: maps.Clone(icon.paths)}
		m.icon = &i
	}
}

// WithCustom sets the free-form custom values. Nil values are stored as JSON null.
func WithCustom(custom map[string]jsontree.Value) Option {
	return func(m *ModDescriptor) {
		if custom == nil {
			m.custom = nil
			return
		}
		m.custom = make(map[string]jsontree.Value, len(custom))
		for k, v := range custom {
			if v == nil {
				v = jsontree.Null{}
			}
			m.custom[k] = jsontree.Clone(v)
		}
	}
}

// normalize folds equivalent spellings into one so that Equal is structural.
func (m *ModDescriptor) normalize() {
	m.environment = m.environment.orDefault()
	if m.mixins != nil {
		m.mixins.Environment = m.mixins.Environment.orDefault()
	}
	if m.entryPoints != nil {
		if len(m.entryPoints.Additional) == 0 {
			m.entryPoints.Additional = nil
		}
		// A named group is always written, so an absent list means an empty one.
		for k, v := range m.entryPoints.Additional {
			if v == nil {
				m.entryPoints.Additional[k] = []EntryPoint{}
			}
		}
	}
	normContact := func(c *ContactInfo) {
		if c != nil && len(c.Additional) == 0 {
			c.Additional = nil
		}
	}
	normContact(m.contact)
	for i := range m.authors {
		normContact(m.authors[i].Contact)
	}
	for i := range m.contributors {
		normContact(m.contributors[i].Contact)
	}
}

func (m *ModDescriptor) validate() []error {
	var errs []error
	if err := m.id.Validate(); err != nil {
		errs = append(errs, err)
	}
	if m.schemaVersion < 0 {
		errs = append(errs, &InvalidSchemaVersionError{Value: m.schemaVersion})
	}
	if err := m.environment.Validate(); err != nil {
		errs = append(errs, err)
	}
	if m.entryPoints != nil {
		errs = append(errs, m.entryPoints.validate()...)
	}
	for i, j := range m.jars {
		if err := j.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("jars[%d]: %w", i, err))
		}
	}
	if m.mixins != nil {
		if err := m.mixins.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if m.contact != nil {
		errs = append(errs, m.contact.validate("contact")...)
	}
	for i, p := range m.authors {
		if p.Contact != nil {
			errs = append(errs, p.Contact.validate(fmt.Sprintf("authors[%d].contact", i))...)
		}
	}
	for i, p := range m.contributors {
		if p.Contact != nil {
			errs = append(errs, p.Contact.validate(fmt.Sprintf("contributors[%d].contact", i))...)
		}
	}
	if m.icon != nil {
		if err := m.icon.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// ID returns the mod identifier.
func (m *ModDescriptor) ID() ModID { return m.id }

// Version returns the mod version.
func (m *ModDescriptor) Version() string { return m.version }

// SchemaVersion returns the schema version, DefaultSchemaVersion unless set.
func (m *ModDescriptor) SchemaVersion() int { return m.schemaVersion }

// Environment returns the side the mod runs on.
func (m *ModDescriptor) Environment() Environment { return m.environment }

// EntryPoints returns the entry points, if set.
func (m *ModDescriptor) EntryPoints() (EntryPoints, bool) {
	if m.entryPoints == nil {
		return EntryPoints{}, false
	}
	return m.entryPoints.clone(), true
}

// Jars returns the nested jars.
func (m *ModDescriptor) Jars() []NestedJar { return cloneSlice(m.jars) }

// LanguageAdapters returns the language adapter mapping.
func (m *ModDescriptor) LanguageAdapters() map[string]string { return maps.Clone(m.languageAdapters) }

// Mixins returns the mixin configuration, if set.
func (m *ModDescriptor) Mixins() (Mixins, bool) {
	if m.mixins == nil {
		return Mixins{}, false
	}
	return *m.mixins, true
}

// Depends returns the required dependencies.
func (m *ModDescriptor) Depends() map[string]string { return maps.Clone(m.depends) }

// Recommends returns the recommended dependencies.
func (m *ModDescriptor) Recommends() map[string]string { return maps.Clone(m.recommends) }

// Suggests returns the suggested dependencies.
func (m *ModDescriptor) Suggests() map[string]string { return maps.Clone(m.suggests) }

// Conflicts returns the conflicting mods.
func (m *ModDescriptor) Conflicts() map[string]string { return maps.Clone(m.conflicts) }

// Breaks returns the mods this one breaks.
func (m *ModDescriptor) Breaks() map[string]string { return maps.Clone(m.breaks) }

// Name returns the display name.
func (m *ModDescriptor) Name() string { return m.name }

// Description returns the description.
func (m *ModDescriptor) Description() string { return m.description }

// Authors returns the authors.
func (m *ModDescriptor) Authors() []Person { return clonePeople(m.authors) }

// Contributors returns the contributors.
func (m *ModDescriptor) Contributors() []Person { return clonePeople(m.contributors) }

// Contact returns the contact information, if set.
func (m *ModDescriptor) Contact() (ContactInfo, bool) {
	if m.contact == nil {
		return ContactInfo{}, false
	}
	return m.contact.clone(), true
}

// License returns the license identifiers.
func (m *ModDescriptor) License() []string { return cloneSlice(m.license) }

// Icon returns the icon, if set.
func (m *ModDescriptor) Icon() (Icon, bool) {
	if m.icon == nil {
		return Icon{}, false
	}
	return Icon{path: m.icon.path, paths: maps.Clone(m.icon.paths)}, true
}

// Custom returns a deep copy of the custom values.
func (m *ModDescriptor) Custom() map[string]jsontree.Value {
	if m.custom == nil {
		return nil
	}
	out := make(map[string]jsontree.Value, len(m.custom))
	for k, v := range m.custom {
		out[k] = jsontree.Clone(v)
	}
	return out
}

// Equal reports whether m and other describe the same mod. Two nil
// descriptors are equal. Custom values are compared with jsontree.Equal.
func (m *ModDescriptor) Equal(other *ModDescriptor) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.id == other.id &&
		m.version == other.version &&
		m.schemaVersion == other.schemaVersion &&
		m.environment == other.environment &&
		optEqual(m.entryPoints, other.entryPoints, EntryPoints.equal) &&
		sliceEqual(m.jars, other.jars) &&
		mapEqual(m.languageAdapters, other.languageAdapters) &&
		optEqual(m.mixins, other.mixins, func(a, b Mixins) bool { return a == b }) &&
		mapEqual(m.depends, other.depends) &&
		mapEqual(m.recommends, other.recommends) &&
		mapEqual(m.suggests, other.suggests) &&
		mapEqual(m.conflicts, other.conflicts) &&
		mapEqual(m.breaks, other.breaks) &&
		m.name == other.name &&
		m.description == other.description &&
		peopleEqual(m.authors, other.authors) &&
		peopleEqual(m.contributors, other.contributors) &&
		optEqual(m.contact, other.contact, ContactInfo.equal) &&
		sliceEqual(m.license, other.license) &&
		optEqual(m.icon, other.icon, Icon.equal) &&
		(m.custom == nil) == (other.custom == nil) &&
		maps.EqualFunc(m.custom, other.custom, jsontree.Equal)
}

func optEqual[T any](a, b *T, eq func(T, T) bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return eq(*a, *b)
}

// sliceEqual distinguishes a nil slice (absent) from an empty one.
func sliceEqual[S ~[]E, E comparable](a, b S) bool {
	return (a == nil) == (b == nil) && slices.Equal(a, b)
}

// mapEqual distinguishes a nil map (absent) from an empty one.
func mapEqual[M ~map[K]V, K, V comparable](a, b M) bool {
	return (a == nil) == (b == nil) && maps.Equal(a, b)
}

func cloneSlice[S ~[]E, E any](s S) S {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

func sortedKeys[M ~map[K]V, K cmp.Ordered, V any](m M) []K {
	return slices.Sorted(maps.Keys(m))
}

func containsString(list []string, s string) bool {
	return slices.Contains(list, s)
}
