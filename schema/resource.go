package schema

import (
	"encoding/json"
	"strings"

	"github.com/Gobd/apispec/manifest"
	"github.com/getkin/kin-openapi/openapi3"
)

// resolved is the base schema a resource tier produced.
type resolved struct {
	schema *openapi3.SchemaRef
	// model is the class the schema was derived from, if any.
	model string
	// verbatim schemas are taken as-is: no relations, no description.
	verbatim bool
}

type resourceTier struct {
	name  string
	build func(b *Builder, class string, r *manifest.Resource) (resolved, bool)
}

// resourceTiers are tried in order; guessedModel always succeeds.
func resourceTiers() []resourceTier {
	return []resourceTier{
		{"schema", (*Builder).explicitSchema},
		{"model", (*Builder).annotatedModelRef},
		{"source", (*Builder).transformedSource},
		{"guess", (*Builder).guessedModel},
	}
}

// Resource builds the response schema of a resource class rendered with
// card. ok is false when no resource class matches name. A resource met
// again while it is being expanded yields a placeholder object.
func (b *Builder) Resource(name string, card Card) (*openapi3.SchemaRef, bool) {
	class, r, ok := b.ix.Resource(name)
	if !ok {
		return nil, false
	}

	key := "resource:" + class
	if !b.enter(key) {
		b.log.Debug().Str("class", class).Str("reason", "circular reference").Msg("resource placeholder")
		return Placeholder(), true
	}
	defer b.leave(key)

	return b.Wrap(b.resourceBase(class, r), b.Shape(b.card(r, card))), true
}

// card merges the caller's cardinality with the resource's own flags.
func (b *Builder) card(r *manifest.Resource, c Card) Card {
	ann := r.Annotation
	if ann == nil {
		ann = &manifest.ResourceAnnotation{}
	}
	if r.Collection || ann.Collection != nil && *ann.Collection {
		c.Collection = true
	}
	if c.Paginated == nil {
		c.Paginated = ann.Paginated
	}
	return c
}

func (b *Builder) resourceBase(class string, r *manifest.Resource) *openapi3.SchemaRef {
	var res resolved
	for _, tier := range resourceTiers() {
		var ok bool
		if res, ok = tier.build(b, class, r); ok {
			b.log.Debug().Str("class", class).Str("tier", tier.name).Msg("resource schema")
			break
		}
	}
	if res.verbatim || r.Annotation == nil {
		return res.schema
	}

	ann := r.Annotation
	if len(ann.Relations) == 0 && !ann.IncludeRelations {
		if ann.Description != "" {
			res.schema = own(res.schema)
			res.schema.Value.Description = ann.Description
		}
		return res.schema
	}

	s := inline(res.schema)
	if ann.Description != "" {
		s.Description = ann.Description
	}
	b.explicitRelations(s, ann.Relations)
	if ann.IncludeRelations && res.model != "" {
		b.autoRelations(s, res.model)
	}
	return openapi3.NewSchemaRef("", s)
}

func (b *Builder) explicitSchema(class string, r *manifest.Resource) (resolved, bool) {
	if r.Annotation == nil || len(r.Annotation.Schema) == 0 {
		return resolved{}, false
	}
	s, err := Raw(r.Annotation.Schema)
	if err != nil {
		b.log.Warn().Err(err).Str("class", class).Msg("resource schema annotation ignored")
		return resolved{}, false
	}
	return resolved{schema: s, verbatim: true}, true
}

// Raw decodes a schema written out as a generic map.
func Raw(m map[string]any) (*openapi3.SchemaRef, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var s openapi3.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return openapi3.NewSchemaRef("", &s), nil
}

func (b *Builder) annotatedModelRef(class string, r *manifest.Resource) (resolved, bool) {
	if r.Annotation == nil || r.Annotation.Model == "" {
		return resolved{}, false
	}
	model, _, ok := b.ix.Model(r.Annotation.Model)
	if !ok {
		b.log.Debug().Str("class", class).Str("model", r.Annotation.Model).Str("reason", "model not found").Msg("resource")
		return resolved{}, false
	}
	return resolved{schema: b.ModelRef(model), model: model}, true
}

// transformedSource reads the literal array of an overridden
// transformation method. Attributes take their schema from the guessed
// model when it documents them, otherwise from the name heuristic.
func (b *Builder) transformedSource(class string, r *manifest.Resource) (resolved, bool) {
	if !r.OverridesToArray || r.Source == "" {
		return resolved{}, false
	}
	entries := ScanArray(r.Source)
	if len(entries) == 0 {
		return resolved{}, false
	}

	model, _ := b.guessModel(class)
	var modelProps openapi3.Schemas
	if model != "" {
		if ref := b.ModelRef(model); ref.Value != nil {
			modelProps = ref.Value.Properties
		}
	}

	s := openapi3.NewObjectSchema()
	now := b.now()
	paged := false
	for _, e := range entries {
		switch {
		case e.Resource != "":
			nested, ok := b.Resource(e.Resource, Card{Collection: e.Collection, Paginated: &paged})
			if !ok {
				nested = openapi3.NewSchemaRef("", b.Generic())
				if e.Collection {
					nested = b.Wrap(nested, List)
				}
			}
			s.Properties[e.Key] = nested
		case e.Field != "" && modelProps[e.Field] != nil:
			s.Properties[e.Key] = modelProps[e.Field]
		default:
			s.Properties[e.Key] = openapi3.NewSchemaRef("", FieldSchema(e.Key, now))
		}
	}
	return resolved{schema: openapi3.NewSchemaRef("", s), model: model}, true
}

// guessedModel derives the model from the resource's name. A collection
// class whose element resource exists renders that resource instead.
func (b *Builder) guessedModel(class string, r *manifest.Resource) (resolved, bool) {
	if r.Collection {
		base := strings.TrimSuffix(manifest.ShortName(class), "Collection")
		for _, candidate := range []string{base + "Resource", base} {
			if candidate == manifest.ShortName(class) {
				continue
			}
			if elem, _, ok := b.ix.Resource(candidate); ok {
				if ref, ok := b.Resource(elem, Card{}); ok {
					return resolved{schema: ref}, true
				}
			}
		}
	}
	if model, ok := b.guessModel(class); ok {
		return resolved{schema: b.ModelRef(model), model: model}, true
	}
	b.log.Debug().Str("class", class).Str("reason", "no model guessed").Msg("generic resource schema")
	return resolved{schema: openapi3.NewSchemaRef("", b.Generic())}, true
}

// guessModel strips the conventional suffixes off a resource class name
// and tries the model namespaces.
func (b *Builder) guessModel(class string) (string, bool) {
	short := manifest.ShortName(class)
	for _, suffix := range []string{"Resource", "Collection"} {
		short = strings.TrimSuffix(short, suffix)
	}
	if short == "" {
		return "", false
	}
	model, _, ok := b.ix.Model(short)
	return model, ok
}

// explicitRelations adds the declared relations that are not already
// properties of s.
func (b *Builder) explicitRelations(s *openapi3.Schema, relations map[string]manifest.RelationSpec) {
	for _, name := range manifest.SortedKeys(relations) {
		if _, taken := s.Properties[name]; taken {
			continue
		}
		spec := relations[name]
		var item *openapi3.SchemaRef
		if spec.Resource != "" {
			item, _ = b.Resource(spec.Resource, Card{})
		}
		if item == nil && spec.Model != "" {
			item, _ = b.Model(spec.Model)
		}
		if item == nil {
			b.log.Debug().Str("relation", name).Str("reason", "target not found").Msg("generic relation schema")
			item = openapi3.NewSchemaRef("", b.Generic())
		}
		if spec.Many {
			item = b.Wrap(item, List)
		}
		s.Properties[name] = item
	}
}

// autoRelations adds the relations detected on model. A related model
// with a resource of its own is rendered through that resource.
func (b *Builder) autoRelations(s *openapi3.Schema, model string) {
	for _, rel := range b.Relations(model) {
		if _, taken := s.Properties[rel.Name]; taken {
			continue
		}
		var item *openapi3.SchemaRef
		if rel.Model != "" {
			if res, _, ok := b.ix.Resource(manifest.ShortName(rel.Model) + "Resource"); ok {
				item, _ = b.Resource(res, Card{})
			}
			if item == nil {
				item = b.ModelRef(rel.Model)
			}
		} else {
			item = openapi3.NewSchemaRef("", b.Generic())
		}
		if rel.Many {
			item = b.Wrap(item, List)
		}
		s.Properties[rel.Name] = item
	}
}
