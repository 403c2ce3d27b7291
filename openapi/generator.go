package openapi

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobd/apispec"
	"github.com/Gobd/apispec/config"
	"github.com/Gobd/apispec/manifest"
	"github.com/Gobd/apispec/schema"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/rs/zerolog"
)

// Generator builds documents from one manifest and configuration. It
// holds no state between runs; every Generate call starts fresh.
type Generator struct {
	m   *manifest.Manifest
	cfg *config.Config
	log zerolog.Logger
	now func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger skipped routes and fallbacks are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithNow sets the clock used for date examples.
func WithNow(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New returns a Generator over m. A nil cfg uses the built-in defaults.
func New(m *manifest.Manifest, cfg *config.Config, opts ...Option) *Generator {
	if cfg == nil {
		cfg, _ = config.Default()
	}
	g := &Generator{
		m:   m,
		cfg: cfg,
		log: zerolog.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// run is the state of one generation.
type run struct {
	*Generator
	ix     *manifest.Index
	b      *schema.Builder
	interp apispec.Interpreter
	doc    *openapi3.T
	errs   *errorBodies

	opIDs map[string]bool
	tags  map[string]*openapi3.Tag
}

// Generate builds the document. Routes are processed in manifest order;
// ctx is checked between routes.
func (g *Generator) Generate(ctx context.Context) (*openapi3.T, Report, error) {
	ix := manifest.NewIndex(g.m)
	ix.ModelNamespaces = g.cfg.Models.Namespaces
	ix.ResourceNamespaces = g.cfg.Resources.Namespaces
	ix.RequestNamespaces = g.cfg.Requests.Namespaces

	errs, err := newErrorBodies()
	if err != nil {
		return nil, nil, fmt.Errorf("error body schemas: %w", err)
	}

	r := &run{
		Generator: g,
		ix:        ix,
		b: schema.New(ix,
			schema.WithLogger(g.log),
			schema.WithNow(g.now),
			schema.WithPaginatedCollections(g.cfg.Resources.PaginateCollections),
		),
		interp: apispec.Interpreter{Now: g.now, Log: g.log},
		doc:    NewDocument(g.cfg),
		errs:   errs,
		opIDs:  map[string]bool{},
		tags:   map[string]*openapi3.Tag{},
	}

	report := make(Report, 0, len(ix.Manifest().Routes))
	for _, route := range ix.Manifest().Routes {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
		res := r.route(route)
		report = append(report, res)
		ev := g.log.Debug()
		if res.Status == Skipped {
			ev = g.log.Info()
		}
		ev.Str("route", string(route.Method)+" "+route.Path).
			Str("handler", route.Handler).
			Str("status", string(res.Status)).
			Str("reason", res.Reason).
			Msg("route")
	}

	if components := r.b.Components(); len(components) > 0 {
		r.doc.Components.Schemas = components
	}
	return r.doc, report, nil
}
