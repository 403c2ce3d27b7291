package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Gobd/apispec"
	"gopkg.in/yaml.v3"
)

// ErrDecode wraps every failure to read or decode a manifest.
var ErrDecode = errors.New("manifest: decode")

// Decode reads one manifest document from r. JSON input is accepted since
// it is a subset of YAML. The decoded manifest is normalized and validated.
func Decode(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return &m, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := apispec.NormalizeAndValidate(&m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return &m, nil
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(b []byte) (*Manifest, error) {
	return Decode(bytes.NewReader(b))
}

// Load decodes the manifest stored at path.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer f.Close()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// UnmarshalYAML keeps the declaration order of the rule mapping. Each value
// is either a pipe-delimited string or a sequence of tokens.
func (rs *RuleSet) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*rs = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: rules must be a mapping", node.Line)
	}

	out := make(RuleSet, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		fr := FieldRules{Field: key.Value}
		switch val.Kind {
		case yaml.ScalarNode:
			fr.Tokens = apispec.SplitRules(val.Value)
		case yaml.SequenceNode:
			for _, item := range val.Content {
				if item.Kind != yaml.ScalarNode {
					return fmt.Errorf("line %d: rule for %q must be a string", item.Line, key.Value)
				}
				fr.Tokens = append(fr.Tokens, item.Value)
			}
		default:
			return fmt.Errorf("line %d: rules for %q must be a string or a list", val.Line, key.Value)
		}
		out = append(out, fr)
	}
	*rs = out
	return nil
}

// MarshalYAML writes the rule set back as an ordered mapping of token lists.
func (rs RuleSet) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, fr := range rs {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, tok := range fr.Tokens {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: tok})
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: fr.Field}, seq)
	}
	return node, nil
}

// Lookup returns the tokens declared for field.
func (rs RuleSet) Lookup(field string) ([]string, bool) {
	for _, fr := range rs {
		if fr.Field == field {
			return fr.Tokens, true
		}
	}
	return nil, false
}

// UnmarshalYAML accepts a bare class name or a {class, status, description}
// mapping.
func (e *Exception) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*e = Exception{Class: node.Value}
		return nil
	}
	type plain Exception
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = Exception(p)
	return nil
}
