// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/invowk/launchpad/pkg/jsontree"
)

// fromYAML converts a YAML node into a tree. Walking nodes keeps mapping
// order and treats every key as a string, so icon sizes such as `16:` stay
// object keys.
func fromYAML(n *yaml.Node) (jsontree.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return jsontree.Null{}, nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.SequenceNode:
		arr := make(jsontree.Array, len(n.Content))
		for i, c := range n.Content {
			v, err := fromYAML(c)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = v
		}
		return arr, nil
	case yaml.MappingNode:
		obj := jsontree.NewObject(len(n.Content) / 2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			v, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key.Value, err)
			}
			obj.Set(key.Value, v)
		}
		return obj, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
}

func yamlScalar(n *yaml.Node) (jsontree.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return jsontree.Null{}, nil
	case "!!bool", "!!int", "!!float":
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		tree, err := jsontree.FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return tree, nil
	default:
		return jsontree.String(n.Value), nil
	}
}
