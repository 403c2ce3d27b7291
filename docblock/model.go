package docblock

import (
	"strings"

	"github.com/Gobd/apispec"
	"gopkg.in/yaml.v3"
)

// Property is a documented property of a model class.
type Property struct {
	Name        string
	Type        TypeExpr
	Description string
	// Rules carries the sibling tags (@example, @enum, @format, @required,
	// @nullable, @default, @deprecated) in tag order.
	Rules []apispec.Rule
	// Typed is false when no @var or @property type was given.
	Typed bool
}

// FieldDoc is the doc comment attached to one declared field.
type FieldDoc struct {
	Name string
	Doc  string
}

// ModelDoc is what the doc comments of a model class document.
type ModelDoc struct {
	Description string
	Properties  []Property
	Mixins      []string
}

// Lookup returns the property with the given name.
func (m ModelDoc) Lookup(name string) (Property, bool) {
	for _, p := range m.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// ParseModel reads a class doc comment and the doc comments of its fields.
// Field doc comments come first; class-level @property lines only add
// properties that no field documented.
func ParseModel(classDoc string, fields []FieldDoc) ModelDoc {
	block := Parse(classDoc)
	m := ModelDoc{Description: block.Description, Mixins: block.Mixins()}
	seen := map[string]bool{}

	for _, f := range fields {
		p, ok := FieldProperty(f.Name, Parse(f.Doc))
		if !ok || seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		m.Properties = append(m.Properties, p)
	}

	for _, t := range block.Tags {
		switch t.Name {
		case "property", "property-read", "property-write":
		default:
			continue
		}
		p, ok := parsePropertyTag(t.Value)
		if !ok || seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		m.Properties = append(m.Properties, p)
	}
	return m
}

// FieldProperty builds the property documented by a field's doc comment.
// It reports false when the comment documents nothing.
func FieldProperty(name string, b Block) (Property, bool) {
	p := Property{Name: strings.TrimPrefix(name, "$"), Description: b.Description}
	if v, ok := b.Tag("var"); ok {
		typ, rest := splitTypeAndRest(v)
		if typ != "" {
			p.Type = ParseType(typ)
			p.Typed = true
		}
		if rest = strings.TrimSpace(strings.TrimPrefix(rest, "$"+p.Name)); rest != "" && p.Description == "" {
			p.Description = rest
		}
	}
	p.Rules = tagRules(b)
	if !p.Typed && p.Description == "" && len(p.Rules) == 0 {
		return Property{}, false
	}
	return p, true
}

// parsePropertyTag parses "Type $name description".
func parsePropertyTag(value string) (Property, bool) {
	typ, rest := splitTypeAndRest(value)
	if strings.HasPrefix(typ, "$") {
		// "@property $name" without a type.
		typ, rest = "", value
	}
	name, desc := splitTypeAndRest(rest)
	if !strings.HasPrefix(name, "$") || len(name) < 2 {
		return Property{}, false
	}
	p := Property{Name: name[1:], Description: desc}
	if typ != "" {
		p.Type = ParseType(typ)
		p.Typed = true
	}
	return p, true
}

// tagRules converts the annotation tags of b into documentation rules.
func tagRules(b Block) []apispec.Rule {
	var rules []apispec.Rule
	for _, t := range b.Tags {
		switch t.Name {
		case "example":
			rules = append(rules, apispec.Example(Scalar(t.Value)))
		case "default":
			rules = append(rules, apispec.Default(Scalar(t.Value)))
		case "enum":
			if values := Enum(t.Value); len(values) > 0 {
				rules = append(rules, apispec.In(values...))
			}
		case "format":
			if t.Value != "" {
				rules = append(rules, apispec.Format(strings.Fields(t.Value)[0]))
			}
		case "required":
			rules = append(rules, apispec.Required)
		case "nullable":
			rules = append(rules, apispec.Nullable)
		case "deprecated":
			rules = append(rules, apispec.Deprecate())
		}
	}
	return rules
}

// Scalar decodes a tag value as a YAML scalar so numbers, booleans and null
// keep their type. Anything else, dates and quoted values included, is
// returned as the trimmed string.
func Scalar(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil || len(doc.Content) != 1 {
		return strings.Trim(s, `"'`)
	}
	n := doc.Content[0]
	if n.Kind != yaml.ScalarNode || n.Style != 0 {
		return strings.Trim(s, `"'`)
	}
	switch n.Tag {
	case "!!int", "!!float", "!!bool", "!!null":
		var v any
		if err := n.Decode(&v); err == nil {
			return v
		}
	}
	return s
}

// Enum parses "{a,b,c}", "[a, b]" or "a, b, c" into scalar values.
func Enum(s string) []any {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimSuffix(s, "}"), "{")
	s = strings.TrimPrefix(strings.TrimSuffix(s, "]"), "[")
	var out []any
	for _, part := range strings.Split(s, ",") {
		part = strings.Trim(strings.TrimSpace(part), `"'`)
		if part == "" {
			continue
		}
		out = append(out, Scalar(part))
	}
	return out
}
