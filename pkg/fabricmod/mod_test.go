// SPDX-License-Identifier: MPL-2.0

package fabricmod

import (
	"errors"
	"strings"
	"testing"

	"github.com/invowk/launchpad/pkg/jsontree"
	"github.com/invowk/launchpad/pkg/types"
)

func TestModID_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id      ModID
		wantErr bool
	}{
		{"ab", false},
		{"test", false},
		{"fabric-api", false},
		{"my_mod2", false},
		{"a-", false},
		{ModID("a" + strings.Repeat("b", 63)), false},
		{"a", true},
		{"", true},
		{"Ab", true},
		{"aB", true},
		{"1ab", true},
		{"-ab", true},
		{"my.mod", true},
		{"my mod", true},
		{ModID("a" + strings.Repeat("b", 64)), true},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			t.Parallel()
			err := tt.id.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ModID(%q).Validate() error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrInvalidModID) {
				t.Errorf("error should wrap ErrInvalidModID, got: %v", err)
			}
			var idErr *InvalidModIDError
			if !errors.As(err, &idErr) || idErr.Value != tt.id {
				t.Errorf("error should be *InvalidModIDError for %q, got: %v", tt.id, err)
			}
		})
	}
}

func TestNew_RejectsInvalidID(t *testing.T) {
	t.Parallel()

	m, err := New("A", "1.0")
	if m != nil {
		t.Fatal("New() returned a descriptor for an invalid id")
	}
	if !errors.Is(err, ErrInvalidModDescriptor) {
		t.Errorf("error should wrap ErrInvalidModDescriptor, got: %v", err)
	}
	if !errors.Is(err, ErrInvalidModID) {
		t.Errorf("error should wrap ErrInvalidModID, got: %v", err)
	}
}

func TestNew_SchemaVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version int
		wantErr bool
	}{
		{"default", 1, false},
		{"zero", 0, false},
		{"future", 2, false},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := New("test", "1", WithSchemaVersion(tt.version))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("New() unexpected error: %v", err)
				}
				if m.SchemaVersion() != tt.version {
					t.Errorf("SchemaVersion() = %d, want %d", m.SchemaVersion(), tt.version)
				}
				return
			}
			if m != nil {
				t.Fatal("New() returned a descriptor for a negative schema version")
			}
			if !errors.Is(err, ErrInvalidSchemaVersion) || !errors.Is(err, ErrInvalidModDescriptor) {
				t.Errorf("error should wrap ErrInvalidSchemaVersion and ErrInvalidModDescriptor, got: %v", err)
			}
		})
	}
}

func TestNew_NilEntryPointGroupIsEmpty(t *testing.T) {
	t.Parallel()

	m, err := New("test", "1", WithEntryPoints(EntryPoints{Additional: map[string][]EntryPoint{"rei": nil}}))
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	eps, _ := m.EntryPoints()
	group, ok := eps.Additional["rei"]
	if !ok || group == nil || len(group) != 0 {
		t.Errorf("Additional[rei] = %#v (present=%v), want an empty non-nil group", group, ok)
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	m, err := New("test", "3.14")
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	if m.SchemaVersion() != 1 {
		t.Errorf("SchemaVersion() = %d, want 1", m.SchemaVersion())
	}
	if m.Environment() != EnvironmentEither {
		t.Errorf("Environment() = %q, want %q", m.Environment(), EnvironmentEither)
	}
	if _, ok := m.EntryPoints(); ok {
		t.Error("EntryPoints() should be absent")
	}
	if _, ok := m.Icon(); ok {
		t.Error("Icon() should be absent")
	}
	if m.Depends() != nil || m.Jars() != nil || m.Custom() != nil {
		t.Error("collections should be nil by default")
	}
}

func TestNew_CollectsFieldErrors(t *testing.T) {
	t.Parallel()

	_, err := New("x", "1.0",
		WithEnvironment("both"),
		WithEntryPoints(EntryPoints{Common: []EntryPoint{{}}}),
		WithIcon(Icon{}),
		WithContact(ContactInfo{Additional: map[string]string{"email": "dup@example.com"}}),
		WithJars(NestedJar{File: " "}),
	)

	var modErr *InvalidModDescriptorError
	if !errors.As(err, &modErr) {
		t.Fatalf("New() error = %v, want *InvalidModDescriptorError", err)
	}
	if len(modErr.FieldErrors) != 6 {
		t.Errorf("field errors = %d, want 6: %v", len(modErr.FieldErrors), modErr.FieldErrors)
	}
	for _, sentinel := range []error{
		ErrInvalidModID,
		ErrInvalidEnvironment,
		ErrInvalidEntryPoint,
		ErrInvalidIcon,
		ErrInvalidExtensionKey,
		types.ErrInvalidFilesystemPath,
	} {
		if !errors.Is(err, sentinel) {
			t.Errorf("error should wrap %v", sentinel)
		}
	}
}

func TestNewEntryPoint(t *testing.T) {
	t.Parallel()

	ep, err := NewEntryPoint("net.example.Mod::init", "")
	if err != nil {
		t.Fatalf("NewEntryPoint() unexpected error: %v", err)
	}
	if ep.Adapter() != DefaultAdapter {
		t.Errorf("Adapter() = %q, want %q", ep.Adapter(), DefaultAdapter)
	}
	if ep.String() != "default:net.example.Mod::init" {
		t.Errorf("String() = %q", ep.String())
	}

	if _, err := NewEntryPoint("", "kotlin"); !errors.Is(err, ErrInvalidEntryPoint) {
		t.Errorf("NewEntryPoint(\"\") error = %v, want ErrInvalidEntryPoint", err)
	}
}

func TestEntryPoints_ExtensionKeys(t *testing.T) {
	t.Parallel()

	ep, _ := NewEntryPoint("a.B", "")
	for _, key := range []string{"main", "server", "client", ""} {
		_, err := New("test", "1", WithEntryPoints(EntryPoints{
			Additional: map[string][]EntryPoint{key: {ep}},
		}))
		if !errors.Is(err, ErrInvalidExtensionKey) {
			t.Errorf("additional entry point group %q: error = %v, want ErrInvalidExtensionKey", key, err)
		}
	}

	// "common" is the Go name of the main slot, not a wire key.
	if _, err := New("test", "1", WithEntryPoints(EntryPoints{
		Additional: map[string][]EntryPoint{"common": {ep}},
	})); err != nil {
		t.Errorf("additional group \"common\" should be allowed, got: %v", err)
	}
}

func TestEntryPoints_Count(t *testing.T) {
	t.Parallel()

	ep, _ := NewEntryPoint("a.B", "")
	eps := EntryPoints{
		Common:     []EntryPoint{ep, ep},
		Client:     []EntryPoint{ep},
		Additional: map[string][]EntryPoint{"modmenu": {ep}, "rei": {ep, ep}},
	}
	if got := eps.Count(); got != 6 {
		t.Errorf("Count() = %d, want 6", got)
	}
	if got := (EntryPoints{}).Count(); got != 0 {
		t.Errorf("empty Count() = %d, want 0", got)
	}
}

func TestNewIcon(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    types.FilesystemPath
		paths   map[string]types.FilesystemPath
		wantErr error
	}{
		{"single path", "icon.png", nil, nil},
		{"size map", "", map[string]types.FilesystemPath{"16": "a.png", "128": "b.png"}, nil},
		{"empty size map", "", map[string]types.FilesystemPath{}, nil},
		{"neither", "", nil, ErrInvalidIcon},
		{"both", "icon.png", map[string]types.FilesystemPath{"16": "a.png"}, ErrInvalidIcon},
		{"zero width", "", map[string]types.FilesystemPath{"0": "a.png"}, ErrInvalidIconSize},
		{"leading zero", "", map[string]types.FilesystemPath{"016": "a.png"}, ErrInvalidIconSize},
		{"non-numeric", "", map[string]types.FilesystemPath{"large": "a.png"}, ErrInvalidIconSize},
		{"negative", "", map[string]types.FilesystemPath{"-16": "a.png"}, ErrInvalidIconSize},
		{"blank path", "", map[string]types.FilesystemPath{"16": " "}, types.ErrInvalidFilesystemPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			icon, err := NewIcon(tt.path, tt.paths)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewIcon() unexpected error: %v", err)
				}
				if p, ok := icon.Path(); ok != (tt.path != "") || p != tt.path {
					t.Errorf("Path() = %q, %v", p, ok)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewIcon() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIcon_DoesNotAlias(t *testing.T) {
	t.Parallel()

	paths := map[string]types.FilesystemPath{"16": "a.png"}
	icon, err := IconSizes(paths)
	if err != nil {
		t.Fatalf("IconSizes() unexpected error: %v", err)
	}
	paths["32"] = "b.png"
	if len(icon.Paths()) != 1 {
		t.Errorf("icon shares its map with the caller: %v", icon.Paths())
	}
}

func TestModDescriptor_AccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	depends := map[string]string{"fabricloader": ">=0.11"}
	authors := []Person{{Name: "A", Contact: &ContactInfo{Email: "a@example.com"}}}
	m, err := New("test", "1", WithDepends(depends), WithAuthors(authors...))
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}

	depends["minecraft"] = "1.16.5"
	authors[0].Contact.Email = "changed@example.com"
	if len(m.Depends()) != 1 {
		t.Error("descriptor shares depends with the caller")
	}
	if got := m.Authors()[0].Contact.Email; got != "a@example.com" {
		t.Errorf("descriptor shares author contact with the caller: %q", got)
	}

	got := m.Depends()
	got["x"] = "y"
	if len(m.Depends()) != 1 {
		t.Error("Depends() exposes internal state")
	}
}

func TestModDescriptor_Equal(t *testing.T) {
	t.Parallel()

	build := func(opts ...Option) *ModDescriptor {
		t.Helper()
		m, err := New("test", "1", opts...)
		if err != nil {
			t.Fatalf("New() unexpected error: %v", err)
		}
		return m
	}

	custom := func(keys ...string) map[string]jsontree.Value {
		obj := jsontree.NewObject(len(keys))
		for i, k := range keys {
			obj.Set(k, jsontree.Int(int64(i)))
		}
		return map[string]jsontree.Value{"settings": obj}
	}

	tests := []struct {
		name string
		a, b *ModDescriptor
		want bool
	}{
		{"nil and nil", nil, nil, true},
		{"nil and value", nil, build(), false},
		{"same fields", build(WithName("A")), build(WithName("A")), true},
		{"different name", build(WithName("A")), build(WithName("B")), false},
		{"empty environment is Either", build(WithEnvironment("")), build(), true},
		{"nil vs empty depends", build(), build(WithDepends(map[string]string{})), false},
		{
			"empty contact bag is absent",
			build(WithContact(ContactInfo{Email: "e", Additional: map[string]string{}})),
			build(WithContact(ContactInfo{Email: "e"})),
			true,
		},
		{
			"mixins default environment",
			build(WithMixins(Mixins{Config: "m.json"})),
			build(WithMixins(Mixins{Config: "m.json", Environment: EnvironmentEither})),
			true,
		},
		{"custom ignores key order", build(WithCustom(custom("a", "b"))), build(WithCustom(map[string]jsontree.Value{
			"settings": func() jsontree.Value {
				o := jsontree.NewObject(2)
				o.Set("b", jsontree.Number("1"))
				o.Set("a", jsontree.Number("0"))
				return o
			}(),
		})), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("Equal() is not symmetric: %v", got)
			}
		})
	}
}
