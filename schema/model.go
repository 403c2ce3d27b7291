package schema

import (
	"strings"

	"github.com/Gobd/apispec"
	"github.com/Gobd/apispec/docblock"
	"github.com/Gobd/apispec/manifest"
	"github.com/getkin/kin-openapi/openapi3"
)

type modelTier struct {
	name  string
	build func(b *Builder, class string, m *manifest.Model) (*openapi3.Schema, bool)
}

// modelTiers are tried in order; the first that yields properties wins.
func modelTiers() []modelTier {
	return []modelTier{
		{"annotation", (*Builder).annotatedModel},
		{"docblock", (*Builder).documentedModel},
		{"fillable", (*Builder).fillableModel},
		{"fields", (*Builder).reflectedModel},
	}
}

// Model returns a $ref to the component schema of the named model,
// resolving the name through the index. ok is false when no model class
// matches.
func (b *Builder) Model(name string) (*openapi3.SchemaRef, bool) {
	class, _, ok := b.ix.Model(name)
	if !ok {
		return nil, false
	}
	return b.ModelRef(class), true
}

// ModelRef returns a $ref to the component schema of class, building it
// on first use. A model referenced while it is being expanded yields a
// placeholder object and an unknown class yields the generic object.
func (b *Builder) ModelRef(class string) *openapi3.SchemaRef {
	class, m, ok := b.ix.Model(class)
	if !ok {
		return openapi3.NewSchemaRef("", b.Generic())
	}
	if ref, ok := b.models[class]; ok {
		return ref
	}

	key := "model:" + class
	if !b.enter(key) {
		b.log.Debug().Str("class", class).Str("reason", "circular reference").Msg("model placeholder")
		return Placeholder()
	}
	defer b.leave(key)

	return b.register(class, b.buildModel(class, m))
}

func (b *Builder) buildModel(class string, m *manifest.Model) *openapi3.Schema {
	for _, tier := range modelTiers() {
		s, ok := tier.build(b, class, m)
		if !ok {
			continue
		}
		b.log.Debug().Str("class", class).Str("tier", tier.name).Msg("model schema")
		if len(s.Required) == 0 {
			s.Required = nil
		}
		return s
	}
	return b.Generic()
}

func (b *Builder) annotatedModel(_ string, m *manifest.Model) (*openapi3.Schema, bool) {
	if m.Annotation == nil || len(m.Annotation.Properties) == 0 {
		return nil, false
	}
	s := openapi3.NewObjectSchema()
	s.Description = m.Annotation.Description
	for _, p := range m.Annotation.Properties {
		if p.Name == "" {
			continue
		}
		s.Properties[p.Name] = b.property(s, p.Name, annotatedType(p), p.Description, annotatedRules(p))
	}
	return s, len(s.Properties) > 0
}

func annotatedType(p manifest.PropertyAnnotation) docblock.TypeExpr {
	if p.Type == "" {
		return docblock.TypeExpr{Name: "string"}
	}
	te := docblock.ParseType(p.Type)
	if strings.EqualFold(te.Name, "array") && !te.Array && p.Items != "" {
		te = docblock.ParseType(p.Items)
		te.Array = true
	}
	return te
}

func annotatedRules(p manifest.PropertyAnnotation) []apispec.Rule {
	var rules []apispec.Rule
	if p.Format != "" {
		rules = append(rules, apispec.Format(p.Format))
	}
	if p.Nullable {
		rules = append(rules, apispec.Nullable)
	}
	if len(p.Enum) > 0 {
		rules = append(rules, apispec.In(p.Enum...))
	}
	if p.Example != nil {
		rules = append(rules, apispec.Example(p.Example))
	}
	if p.Required {
		rules = append(rules, apispec.Required)
	}
	return rules
}

func (b *Builder) documentedModel(class string, m *manifest.Model) (*openapi3.Schema, bool) {
	doc := b.modelDoc(class, m)
	if len(doc.Properties) == 0 {
		return nil, false
	}
	s := openapi3.NewObjectSchema()
	s.Description = doc.Description
	for _, p := range doc.Properties {
		te := p.Type
		if !p.Typed {
			te = docblock.TypeExpr{Name: "string"}
		}
		s.Properties[p.Name] = b.property(s, p.Name, te, p.Description, p.Rules)
	}
	return s, true
}

// modelDoc parses the doc comments of m and of the classes it names as
// mixins. Mixin properties only fill names the model left undocumented.
func (b *Builder) modelDoc(class string, m *manifest.Model) docblock.ModelDoc {
	doc := docblock.ParseModel(m.Doc, fieldDocs(m))
	for _, mixin := range doc.Mixins {
		mc, mm, ok := b.ix.Model(mixin)
		if !ok || mc == class {
			continue
		}
		for _, p := range docblock.ParseModel(mm.Doc, fieldDocs(mm)).Properties {
			if _, seen := doc.Lookup(p.Name); !seen {
				doc.Properties = append(doc.Properties, p)
			}
		}
	}
	return doc
}

func fieldDocs(m *manifest.Model) []docblock.FieldDoc {
	out := make([]docblock.FieldDoc, len(m.Fields))
	for i, f := range m.Fields {
		out[i] = docblock.FieldDoc{Name: f.Name, Doc: f.Doc}
	}
	return out
}

func (b *Builder) fillableModel(_ string, m *manifest.Model) (*openapi3.Schema, bool) {
	if len(m.Fillable) == 0 {
		return nil, false
	}
	return b.heuristicObject(m.Fillable), true
}

func (b *Builder) reflectedModel(_ string, m *manifest.Model) (*openapi3.Schema, bool) {
	fields := append([]string{"id"}, m.PublicFields...)
	fields = append(fields, "created_at", "updated_at")
	return b.heuristicObject(fields), true
}

// property builds one property of parent from its type and rules. The
// required rule lists the name on parent; the other rules annotate a
// schema owned by the property so shared components stay untouched.
func (b *Builder) property(parent *openapi3.Schema, name string, te docblock.TypeExpr, desc string, rules []apispec.Rule) *openapi3.SchemaRef {
	ref := b.TypeSchema(te)
	for _, r := range rules {
		if !apispec.IsRequired(r) {
			ref = own(ref)
			break
		}
	}
	if desc != "" {
		ref = own(ref)
		ref.Value.Description = desc
	}
	for _, r := range rules {
		if err := r.Describe(name, parent, ref); err != nil {
			b.log.Warn().Err(err).Str("property", name).Msg("rule not applied")
		}
	}
	return ref
}
