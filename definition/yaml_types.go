package definition

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML implements custom YAML unmarshaling for FieldDef.
// Accepts either a bare property name or a full map.
func (f *FieldDef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string

		if err := node.Decode(&name); err != nil {
			return err
		}

		*f = FieldDef{Name: name}

		return nil

	case yaml.MappingNode:
		// plain avoids recursing into this method
		type plain FieldDef

		var p plain

		if err := node.Decode(&p); err != nil {
			return err
		}

		*f = FieldDef(p)

		return nil

	default:
		return fmt.Errorf("line %d: expected field name or map, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for FieldDef.
// Outputs the bare name when nothing else is set.
func (f FieldDef) MarshalYAML() (any, error) {
	if f == (FieldDef{Name: f.Name}) {
		return f.Name, nil
	}

	type plain FieldDef

	return plain(f), nil
}
