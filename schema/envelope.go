package schema

import (
	"github.com/Gobd/apispec"
	"github.com/getkin/kin-openapi/openapi3"
)

// Shape is how a resource or model is rendered in a response.
type Shape int

const (
	// Single renders one object.
	Single Shape = iota
	// List renders a bare array of objects.
	List
	// Paged renders the pagination envelope.
	Paged
)

// Card is the cardinality a caller asks for.
type Card struct {
	Collection bool
	// Paginated overrides the resource's own flag and the builder default.
	Paginated *bool
}

// Shape resolves c against the builder default.
func (b *Builder) Shape(c Card) Shape {
	if !c.Collection {
		return Single
	}
	if c.Paginated != nil && !*c.Paginated || c.Paginated == nil && !b.paginate {
		return List
	}
	return Paged
}

// Wrap renders base with the given shape. Schemas Wrap produced are
// returned unchanged, so wrapping twice yields the first envelope.
func (b *Builder) Wrap(base *openapi3.SchemaRef, shape Shape) *openapi3.SchemaRef {
	if shape == Single || base.Value != nil && b.wrapped[base.Value] {
		return base
	}
	var s *openapi3.Schema
	switch shape {
	case List:
		s = openapi3.NewArraySchema()
		s.Items = base
	default:
		s = b.envelope(base)
	}
	b.wrapped[s] = true
	return openapi3.NewSchemaRef("", s)
}

type pageLinks struct {
	First *string `json:"first"`
	Last  *string `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

func (l *pageLinks) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&l.First, apispec.Required, apispec.Example("https://example.com/api/items?page=1")),
		apispec.Field(&l.Last, apispec.Required, apispec.Example("https://example.com/api/items?page=10")),
		apispec.Field(&l.Next, apispec.Example("https://example.com/api/items?page=2")),
	}
}

type pageLink struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

func (l *pageLink) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&l.URL, apispec.Required),
		apispec.Field(&l.Label, apispec.Required, apispec.Example("1")),
		apispec.Field(&l.Active, apispec.Required),
	}
}

type pageMeta struct {
	CurrentPage int        `json:"current_page"`
	From        *int       `json:"from"`
	LastPage    int        `json:"last_page"`
	Links       []pageLink `json:"links"`
	Path        string     `json:"path"`
	PerPage     int        `json:"per_page"`
	To          *int       `json:"to"`
	Total       int        `json:"total"`
}

func (m *pageMeta) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&m.CurrentPage, apispec.Required, apispec.Min(1), apispec.Example(1)),
		apispec.Field(&m.From, apispec.Example(1)),
		apispec.Field(&m.LastPage, apispec.Required, apispec.Min(1), apispec.Example(10)),
		apispec.Field(&m.Links, apispec.Required),
		apispec.Field(&m.Path, apispec.Required, apispec.Example("https://example.com/api/items")),
		apispec.Field(&m.PerPage, apispec.Required, apispec.Min(1), apispec.Example(15)),
		apispec.Field(&m.To, apispec.Example(15)),
		apispec.Field(&m.Total, apispec.Required, apispec.Min(0), apispec.Example(150)),
	}
}

type page struct {
	Data  []map[string]any `json:"data"`
	Links pageLinks        `json:"links"`
	Meta  pageMeta         `json:"meta"`
}

func (p *page) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&p.Data, apispec.Required),
		apispec.Field(&p.Links, apispec.Required),
		apispec.Field(&p.Meta, apispec.Required),
	}
}

// envelope builds the pagination envelope around items.
func (b *Builder) envelope(items *openapi3.SchemaRef) *openapi3.Schema {
	ref, err := apispec.NewSchemaRefForValue(page{})
	if err != nil {
		b.log.Warn().Err(err).Msg("pagination envelope")
		s := openapi3.NewObjectSchema()
		s.Properties["data"] = openapi3.NewSchemaRef("", openapi3.NewArraySchema())
		ref = openapi3.NewSchemaRef("", s)
	}
	ref.Value.Properties["data"].Value.Items = items
	return ref.Value
}
