package description

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML parses a YAML description. Nodes carry their kind in a kind
// field; all other keys mirror the XML element names.
func ParseYAML(data []byte) (*Description, error) {
	var d Description
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing description: %w", err)
	}
	if err := d.normalize(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadYAML loads and parses a YAML description from a file.
func LoadYAML(path string) (*Description, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return ParseYAML(data)
}
