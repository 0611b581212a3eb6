// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/invowk/launchpad/pkg/cueutil"
	"github.com/invowk/launchpad/pkg/fabricmod"
	"github.com/invowk/launchpad/pkg/fspath"
	"github.com/invowk/launchpad/pkg/jsontree"
	"github.com/invowk/launchpad/pkg/types"
)

const (
	// FormatCUE is a descriptor written in CUE and unified with the
	// fabric.mod.json schema.
	FormatCUE Format = "cue"
	// FormatTOML is a descriptor written in TOML.
	FormatTOML Format = "toml"
	// FormatYAML is a descriptor written in YAML.
	FormatYAML Format = "yaml"

	schemaDefinition = "#FabricMod"
)

var (
	// ErrUnsupportedFormat is returned for descriptor files whose extension
	// is not .cue, .toml, .yaml or .yml.
	ErrUnsupportedFormat = errors.New("unsupported descriptor format")

	// ErrParseSource is returned when a descriptor file cannot be read as
	// its format.
	ErrParseSource = errors.New("cannot parse descriptor source")
)

type (
	// Format is the language a descriptor source is written in.
	Format string

	// UnsupportedFormatError names the rejected file.
	UnsupportedFormatError struct {
		Path types.FilesystemPath
	}

	// ParseError reports a descriptor source that could not be read as its
	// format or failed the schema. A descriptor that parses but fails
	// validation yields the *fabricmod.InvalidModDescriptorError itself.
	ParseError struct {
		Path   types.FilesystemPath
		Format Format
		Err    error
	}
)

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: %s (want .cue, .toml, .yaml or .yml)", ErrUnsupportedFormat, e.Path)
}

func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s descriptor %s: %v", e.Format, e.Path, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParseSource, e.Err} }

// FormatOf picks the descriptor format from the file extension.
func FormatOf(path types.FilesystemPath) (Format, error) {
	switch fspath.Ext(path) {
	case ".cue":
		return FormatCUE, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", &UnsupportedFormatError{Path: path}
	}
}

// Load reads the descriptor at path and builds the mod metadata from it.
// A missing file yields (nil, nil): no descriptor is configured.
func Load(path types.FilesystemPath) (*fabricmod.ModDescriptor, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(string(path))
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no mod descriptor", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}
	return Parse(path, format, data)
}

// Parse builds the mod metadata from descriptor source data. path is only
// used in error messages.
func Parse(path types.FilesystemPath, format Format, data []byte) (*fabricmod.ModDescriptor, error) {
	doc, err := ToDocument(path, format, data)
	if err != nil {
		return nil, err
	}

	desc, err := fabricmod.Unmarshal(doc)
	if err != nil {
		var invalid *fabricmod.InvalidModDescriptorError
		if errors.As(err, &invalid) {
			return nil, invalid
		}
		return nil, &ParseError{Path: path, Format: format, Err: err}
	}
	slog.Debug("loaded mod descriptor", "path", path, "format", format, "id", desc.ID())
	return desc, nil
}

// ToDocument converts descriptor source data into a compact fabric.mod.json
// document. The keys of the descriptor are the keys of fabric.mod.json.
func ToDocument(path types.FilesystemPath, format Format, data []byte) ([]byte, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, string(path)); err != nil {
		return nil, &ParseError{Path: path, Format: format, Err: err}
	}

	var (
		doc []byte
		err error
	)
	switch format {
	case FormatCUE:
		doc, err = cueDocument(path, data)
	case FormatTOML:
		doc, err = tomlDocument(data)
	case FormatYAML:
		doc, err = yamlDocument(data)
	default:
		return nil, &UnsupportedFormatError{Path: path}
	}
	if err != nil {
		return nil, &ParseError{Path: path, Format: format, Err: err}
	}
	return doc, nil
}

// cueDocument unifies the source with the fabric.mod.json schema so that
// errors point at the CUE file, then exports the concrete result as JSON.
func cueDocument(path types.FilesystemPath, data []byte) ([]byte, error) {
	result, err := cueutil.ParseAndDecode[map[string]any](fabricmod.Schema, data, schemaDefinition,
		cueutil.WithFilename(string(path)),
	)
	if err != nil {
		return nil, err
	}
	doc, err := result.Unified.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", path, err)
	}
	return doc, nil
}

func tomlDocument(data []byte) ([]byte, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("line %d, column %d: %w", row, col, err)
		}
		return nil, err
	}
	tree, err := jsontree.FromGo(raw)
	if err != nil {
		return nil, err
	}
	return jsontree.Marshal(tree, "")
}

func yamlDocument(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if node.Kind == 0 {
		return nil, errors.New("empty document")
	}
	tree, err := fromYAML(&node)
	if err != nil {
		return nil, err
	}
	return jsontree.Marshal(tree, "")
}
