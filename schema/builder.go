package schema

import (
	"strconv"
	"strings"
	"time"

	"github.com/Gobd/apispec/manifest"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/rs/zerolog"
)

// Builder builds model and resource schemas for one generation run.
type Builder struct {
	ix       *manifest.Index
	log      zerolog.Logger
	now      func() time.Time
	paginate bool

	components openapi3.Schemas
	models     map[string]*openapi3.SchemaRef // class -> $ref
	names      map[string]string              // component name -> class
	inflight   map[string]bool
	wrapped    map[*openapi3.Schema]bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger degraded items are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Builder) { b.log = l }
}

// WithNow sets the clock used for date examples.
func WithNow(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithPaginatedCollections sets whether collections are paginated when
// neither the caller nor the resource says so. Defaults to true.
func WithPaginatedCollections(on bool) Option {
	return func(b *Builder) { b.paginate = on }
}

// New returns a Builder resolving classes through ix.
func New(ix *manifest.Index, opts ...Option) *Builder {
	b := &Builder{
		ix:         ix,
		log:        zerolog.Nop(),
		now:        time.Now,
		paginate:   true,
		components: openapi3.Schemas{},
		models:     map[string]*openapi3.SchemaRef{},
		names:      map[string]string{},
		inflight:   map[string]bool{},
		wrapped:    map[*openapi3.Schema]bool{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Components returns the component schemas registered so far.
func (b *Builder) Components() openapi3.Schemas {
	return b.components
}

// Now returns the builder's clock reading.
func (b *Builder) Now() time.Time {
	return b.now()
}

// Index returns the class index the builder resolves against.
func (b *Builder) Index() *manifest.Index {
	return b.ix
}

// enter marks key as being expanded. It reports false when key is already
// in flight; the caller must then emit a placeholder.
func (b *Builder) enter(key string) bool {
	if b.inflight[key] {
		return false
	}
	b.inflight[key] = true
	return true
}

func (b *Builder) leave(key string) {
	delete(b.inflight, key)
}

// register claims a component name for class and stores s under it.
func (b *Builder) register(class string, s *openapi3.Schema) *openapi3.SchemaRef {
	name := b.componentName(class)
	b.names[name] = class
	b.components[name] = openapi3.NewSchemaRef("", s)
	ref := openapi3.NewSchemaRef("#/components/schemas/"+name, s)
	b.models[class] = ref
	return ref
}

// componentName is the short class name, prefixed with the namespace
// segments when another class already took it.
func (b *Builder) componentName(class string) string {
	name := manifest.ShortName(class)
	if owner, taken := b.names[name]; !taken || owner == class {
		return name
	}
	base := strings.ReplaceAll(manifest.CleanClass(class), `\`, "")
	name = base
	for i := 2; ; i++ {
		if owner, taken := b.names[name]; !taken || owner == class {
			return name
		}
		name = base + strconv.Itoa(i)
	}
}

// Placeholder is the schema emitted for a class already being expanded.
func Placeholder() *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("", openapi3.NewObjectSchema())
}

// Generic is the minimal object emitted when nothing is known about a
// class: id, created_at and updated_at.
func (b *Builder) Generic() *openapi3.Schema {
	return b.heuristicObject([]string{"id", "created_at", "updated_at"})
}

// own returns a schema ref that may carry annotations without touching
// the component it points to.
func own(ref *openapi3.SchemaRef) *openapi3.SchemaRef {
	if ref.Ref == "" {
		return ref
	}
	return openapi3.NewSchemaRef("", &openapi3.Schema{AllOf: openapi3.SchemaRefs{ref}})
}

// inline returns an editable copy of the object schema behind ref. The
// property map is copied; the property schemas are shared.
func inline(ref *openapi3.SchemaRef) *openapi3.Schema {
	src := ref.Value
	if src == nil {
		return openapi3.NewObjectSchema()
	}
	cp := *src
	cp.Properties = make(openapi3.Schemas, len(src.Properties))
	for k, v := range src.Properties {
		cp.Properties[k] = v
	}
	cp.Required = append([]string(nil), src.Required...)
	if len(cp.Required) == 0 {
		cp.Required = nil
	}
	return &cp
}
