// SPDX-License-Identifier: MPL-2.0

package fabricmod

import (
	"fmt"

	"github.com/invowk/launchpad/pkg/jsontree"
	"github.com/invowk/launchpad/pkg/transform"
	"github.com/invowk/launchpad/pkg/types"
)

func fromStructure(root *jsontree.Object) (*ModDescriptor, error) {
	var (
		id      ModID
		version string
		hasID   bool
		hasVer  bool
		opts    []Option
	)

	for key, v := range root.All() {
		if jsontree.IsNull(v) {
			continue
		}
		var err error
		switch key {
		case keyID:
			var s string
			s, err = asString(key, v)
			id, hasID = ModID(s), err == nil
		case keyVersion:
			version, err = asString(key, v)
			hasVer = err == nil
		case keySchemaVersion:
			var n int64
			n, err = asInt(key, v)
			opts = append(opts, WithSchemaVersion(int(n)))
		case keyEnvironment:
			var s string
			s, err = asString(key, v)
			opts = append(opts, WithEnvironment(Environment(s)))
		case keyEntryPoints:
			var eps EntryPoints
			eps, err = decodeEntryPoints(key, v)
			opts = append(opts, WithEntryPoints(eps))
		case keyJars:
			var jars []NestedJar
			jars, err = decodeJars(key, v)
			opts = append(opts, WithJars(jars...))
		case keyLanguageAdapters:
			var m map[string]string
			m, err = asStringMap(key, v)
			opts = append(opts, WithLanguageAdapters(m))
		case keyMixins:
			var mx Mixins
			mx, err = decodeMixins(key, v)
			opts = append(opts, WithMixins(mx))
		case keyDepends, keyRecommends, keySuggests, keyConflicts, keyBreaks:
			var m map[string]string
			m, err = asStringMap(key, v)
			opts = append(opts, relationOption(key, m))
		case keyName:
			var s string
			s, err = asString(key, v)
			opts = append(opts, WithName(s))
		case keyDescription:
			var s string
			s, err = asString(key, v)
			opts = append(opts, WithDescription(s))
		case keyAuthors:
			var people []Person
			people, err = decodePeople(key, v)
			opts = append(opts, WithAuthors(people...))
		case keyContributors:
			var people []Person
			people, err = decodePeople(key, v)
			opts = append(opts, WithContributors(people...))
		case keyContact:
			var c ContactInfo
			c, err = decodeContact(key, v)
			opts = append(opts, WithContact(c))
		case keyLicense:
			var licenses []string
			licenses, err = decodeLicense(key, v)
			opts = append(opts, WithLicense(licenses...))
		case keyIcon:
			var icon Icon
			icon, err = decodeIcon(key, v)
			opts = append(opts, WithIcon(icon))
		case keyCustom:
			var custom map[string]jsontree.Value
			custom, err = decodeCustom(key, v)
			opts = append(opts, WithCustom(custom))
		default:
			err = &DecodeError{Path: key, Err: ErrUnknownField}
		}
		if err != nil {
			return nil, err
		}
	}

	if !hasID {
		return nil, &DecodeError{Path: keyID, Err: ErrMissingField}
	}
	if !hasVer {
		return nil, &DecodeError{Path: keyVersion, Err: ErrMissingField}
	}

	m, err := New(id, version, opts...)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return m, nil
}

func relationOption(key string, m map[string]string) Option {
	switch key {
	case keyDepends:
		return WithDepends(m)
	case keyRecommends:
		return WithRecommends(m)
	case keySuggests:
		return WithSuggests(m)
	case keyConflicts:
		return WithConflicts(m)
	default:
		return WithBreaks(m)
	}
}

func decodeEntryPoints(path string, v jsontree.Value) (EntryPoints, error) {
	obj, err := asObject(path, v)
	if err != nil {
		return EntryPoints{}, err
	}

	var eps EntryPoints
	for key, group := range obj.All() {
		if jsontree.IsNull(group) {
			continue
		}
		at := path + "." + key
		switch key {
		case entryPointsMain:
			eps.Common, err = decodeEntryPointList(at, group)
		case entryPointsServer:
			eps.Server, err = decodeEntryPointList(at, group)
		case entryPointsClient:
			eps.Client, err = decodeEntryPointList(at, group)
		case transform.ExtensionKey:
			eps.Additional, err = decodeEntryPointGroups(path, group)
		default:
			err = &DecodeError{Path: at, Err: ErrUnknownField}
		}
		if err != nil {
			return EntryPoints{}, err
		}
	}
	return eps, nil
}

func decodeEntryPointGroups(path string, v jsontree.Value) (map[string][]EntryPoint, error) {
	obj, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	groups := make(map[string][]EntryPoint, obj.Len())
	for key, group := range obj.All() {
		if jsontree.IsNull(group) {
			continue
		}
		list, err := decodeEntryPointList(path+"."+key, group)
		if err != nil {
			return nil, err
		}
		groups[key] = list
	}
	return groups, nil
}

func decodeEntryPointList(path string, v jsontree.Value) ([]EntryPoint, error) {
	arr, err := asArray(path, v)
	if err != nil {
		return nil, err
	}
	list := make([]EntryPoint, 0, len(arr))
	for i, e := range arr {
		at := fmt.Sprintf("%s[%d]", path, i)
		var value, adapter string
		switch t := e.(type) {
		case jsontree.String:
			value = string(t)
		case *jsontree.Object:
			err = eachField(t, func(key string, fv jsontree.Value) error {
				var ferr error
				switch key {
				case "value":
					value, ferr = asString(at+".value", fv)
				case "adapter":
					adapter, ferr = asString(at+".adapter", fv)
				default:
					ferr = &DecodeError{Path: at + "." + key, Err: ErrUnknownField}
				}
				return ferr
			})
			if err != nil {
				return nil, err
			}
		default:
			return nil, typeError(at, "string or object", e)
		}
		ep, err := NewEntryPoint(value, adapter)
		if err != nil {
			return nil, &DecodeError{Path: at, Err: err}
		}
		list = append(list, ep)
	}
	return list, nil
}

func decodeJars(path string, v jsontree.Value) ([]NestedJar, error) {
	arr, err := asArray(path, v)
	if err != nil {
		return nil, err
	}
	jars := make([]NestedJar, 0, len(arr))
	for i, e := range arr {
		at := fmt.Sprintf("%s[%d]", path, i)
		obj, err := asObject(at, e)
		if err != nil {
			return nil, err
		}
		var jar NestedJar
		err = eachField(obj, func(key string, fv jsontree.Value) error {
			if key != "file" {
				return &DecodeError{Path: at + "." + key, Err: ErrUnknownField}
			}
			var ferr error
			jar.File, ferr = asPath(at+".file", fv)
			return ferr
		})
		if err != nil {
			return nil, err
		}
		if jar.File == "" {
			return nil, &DecodeError{Path: at + ".file", Err: ErrMissingField}
		}
		jars = append(jars, jar)
	}
	return jars, nil
}

func decodeMixins(path string, v jsontree.Value) (Mixins, error) {
	if s, ok := v.(jsontree.String); ok {
		p, err := asPath(path, s)
		return Mixins{Config: p}, err
	}
	obj, err := asObject(path, v)
	if err != nil {
		return Mixins{}, err
	}
	var mx Mixins
	err = eachField(obj, func(key string, fv jsontree.Value) error {
		var ferr error
		switch key {
		case "config":
			mx.Config, ferr = asPath(path+".config", fv)
		case keyEnvironment:
			var s string
			s, ferr = asString(path+"."+keyEnvironment, fv)
			mx.Environment = Environment(s)
		default:
			ferr = &DecodeError{Path: path + "." + key, Err: ErrUnknownField}
		}
		return ferr
	})
	if err != nil {
		return Mixins{}, err
	}
	if mx.Config == "" {
		return Mixins{}, &DecodeError{Path: path + ".config", Err: ErrMissingField}
	}
	return mx, nil
}

func decodePeople(path string, v jsontree.Value) ([]Person, error) {
	arr, err := asArray(path, v)
	if err != nil {
		return nil, err
	}
	people := make([]Person, 0, len(arr))
	for i, e := range arr {
		at := fmt.Sprintf("%s[%d]", path, i)
		switch t := e.(type) {
		case jsontree.String:
			people = append(people, Person{Name: string(t)})
		case *jsontree.Object:
			var (
				p       Person
				hasName bool
			)
			err := eachField(t, func(key string, fv jsontree.Value) error {
				switch key {
				case "name":
					var ferr error
					p.Name, ferr = asString(at+".name", fv)
					hasName = ferr == nil
					return ferr
				case keyContact:
					c, ferr := decodeContact(at+"."+keyContact, fv)
					p.Contact = &c
					return ferr
				default:
					return &DecodeError{Path: at + "." + key, Err: ErrUnknownField}
				}
			})
			if err != nil {
				return nil, err
			}
			if !hasName {
				return nil, &DecodeError{Path: at + ".name", Err: ErrMissingField}
			}
			people = append(people, p)
		default:
			return nil, typeError(at, "string or object", e)
		}
	}
	return people, nil
}

func decodeContact(path string, v jsontree.Value) (ContactInfo, error) {
	obj, err := asObject(path, v)
	if err != nil {
		return ContactInfo{}, err
	}
	var c ContactInfo
	err = eachField(obj, func(key string, fv jsontree.Value) error {
		at := path + "." + key
		var ferr error
		switch key {
		case "email":
			c.Email, ferr = asString(at, fv)
		case "irc":
			c.IRC, ferr = asString(at, fv)
		case "homepage":
			c.Homepage, ferr = asString(at, fv)
		case "issues":
			c.Issues, ferr = asString(at, fv)
		case "sources":
			c.Sources, ferr = asString(at, fv)
		case transform.ExtensionKey:
			c.Additional, ferr = asStringMap(path, fv)
		default:
			ferr = &DecodeError{Path: at, Err: ErrUnknownField}
		}
		return ferr
	})
	return c, err
}

func decodeLicense(path string, v jsontree.Value) ([]string, error) {
	if s, ok := v.(jsontree.String); ok {
		return []string{string(s)}, nil
	}
	arr, err := asArray(path, v)
	if err != nil {
		return nil, err
	}
	licenses := make([]string, len(arr))
	for i, e := range arr {
		if licenses[i], err = asString(fmt.Sprintf("%s[%d]", path, i), e); err != nil {
			return nil, err
		}
	}
	return licenses, nil
}

func decodeIcon(path string, v jsontree.Value) (Icon, error) {
	obj, err := asObject(path, v)
	if err != nil {
		return Icon{}, err
	}
	if single, ok := obj.Get(iconPathSlot); ok {
		p, err := asPath(path, single)
		if err != nil {
			return Icon{}, err
		}
		icon, err := IconPath(p)
		return wrapIcon(path, icon, err)
	}
	sizes, _ := obj.Get(iconPathsSlot)
	sizeMap, err := asObject(path, sizes)
	if err != nil {
		return Icon{}, err
	}
	paths := make(map[string]types.FilesystemPath, sizeMap.Len())
	for k, pv := range sizeMap.All() {
		if paths[k], err = asPath(path+"."+k, pv); err != nil {
			return Icon{}, err
		}
	}
	icon, err := IconSizes(paths)
	return wrapIcon(path, icon, err)
}

func wrapIcon(path string, icon Icon, err error) (Icon, error) {
	if err != nil {
		return Icon{}, &DecodeError{Path: path, Err: err}
	}
	return icon, nil
}

func decodeCustom(path string, v jsontree.Value) (map[string]jsontree.Value, error) {
	obj, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	custom := make(map[string]jsontree.Value, obj.Len())
	for k, e := range obj.All() {
		custom[k] = e
	}
	return custom, nil
}

// eachField calls fn for every non-null field of obj in document order.
func eachField(obj *jsontree.Object, fn func(key string, v jsontree.Value) error) error {
	for key, v := range obj.All() {
		if jsontree.IsNull(v) {
			continue
		}
		if err := fn(key, v); err != nil {
			return err
		}
	}
	return nil
}

func asObject(path string, v jsontree.Value) (*jsontree.Object, error) {
	obj, ok := v.(*jsontree.Object)
	if !ok || obj == nil {
		return nil, typeError(path, "object", v)
	}
	return obj, nil
}

func asArray(path string, v jsontree.Value) (jsontree.Array, error) {
	arr, ok := v.(jsontree.Array)
	if !ok {
		return nil, typeError(path, "array", v)
	}
	return arr, nil
}

func asString(path string, v jsontree.Value) (string, error) {
	s, ok := v.(jsontree.String)
	if !ok {
		return "", typeError(path, "string", v)
	}
	return string(s), nil
}

func asInt(path string, v jsontree.Value) (int64, error) {
	n, ok := v.(jsontree.Number)
	if !ok {
		return 0, typeError(path, "integer", v)
	}
	i, err := n.Int64()
	if err != nil {
		return 0, &DecodeError{Path: path, Err: fmt.Errorf("%w: expected integer, got %s", ErrUnexpectedType, string(n))}
	}
	return i, nil
}

func asPath(path string, v jsontree.Value) (types.FilesystemPath, error) {
	s, err := asString(path, v)
	if err != nil {
		return "", err
	}
	p, err := types.DecodePath(s)
	if err != nil {
		return "", &DecodeError{Path: path, Err: err}
	}
	return p, nil
}

func asStringMap(path string, v jsontree.Value) (map[string]string, error) {
	obj, err := asObject(path, v)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, obj.Len())
	for k, e := range obj.All() {
		if jsontree.IsNull(e) {
			continue
		}
		if m[k], err = asString(path+"."+k, e); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func typeError(path, want string, got jsontree.Value) error {
	kind := jsontree.KindNull
	if got != nil {
		kind = got.Kind()
	}
	return &DecodeError{Path: path, Err: fmt.Errorf("%w: expected %s, got %s", ErrUnexpectedType, want, kind)}
}
