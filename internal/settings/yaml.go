package settings

import "gopkg.in/yaml.v3"

// MarshalYAML renders the store as a mapping of sections to key/value
// mappings, preserving file order. Values are always emitted as strings.
func (s *Store) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, section := range s.Sections() {
		values := &yaml.Node{Kind: yaml.MappingNode}
		for _, key := range s.Keys(section) {
			v, _ := s.Get(section, key)
			values.Content = append(values.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v},
			)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: section},
			values,
		)
	}
	return root, nil
}
