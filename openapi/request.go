package openapi

import (
	"fmt"
	"strings"

	"github.com/Gobd/apispec"
	"github.com/Gobd/apispec/manifest"
	"github.com/Gobd/apispec/schema"
	"github.com/getkin/kin-openapi/openapi3"
)

// requestBody attaches the explicit request body, or infers one from the
// first handler parameter typed as a validation-rule class. It reports
// whether the operation validates its input, so a 422 can be documented.
// GET handlers get the rules as query parameters instead of a body.
func (r *run) requestBody(op *openapi3.Operation, route manifest.Route, class string, m *manifest.Method) (bool, error) {
	if m.RequestBody != nil {
		return r.explicitBody(op, m.RequestBody)
	}

	for _, p := range m.Params {
		name, req, ok := r.ix.Request(strings.TrimPrefix(p.Type, "?"))
		if !ok {
			continue
		}
		if req.Error != "" {
			r.log.Warn().Str("class", class).Str("request", name).Str("reason", req.Error).Msg("validation rules unavailable")
			return false, nil
		}
		props := r.properties(name, req.Rules)
		if len(props) == 0 {
			return false, nil
		}
		if route.Method == manifest.MethodGet {
			queryParameters(op, props)
			return true, nil
		}
		op.RequestBody = newRequestBody("", bodyContentType(props), true, openapi3.NewSchemaRef("", apispec.Object(props...)))
		return true, nil
	}
	return false, nil
}

func (r *run) explicitBody(op *openapi3.Operation, rb *manifest.RequestBody) (bool, error) {
	var (
		s         *openapi3.SchemaRef
		validated bool
		ct        = rb.ContentType
	)
	switch {
	case rb.Request != "":
		name, req, ok := r.ix.Request(rb.Request)
		if !ok || req.Error != "" {
			r.log.Debug().Str("request", rb.Request).Str("reason", "validation class unavailable").Msg("request body")
			s = openapi3.NewSchemaRef("", openapi3.NewObjectSchema())
			break
		}
		props := r.properties(name, req.Rules)
		s = openapi3.NewSchemaRef("", apispec.Object(props...))
		validated = len(props) > 0
		if ct == "" {
			ct = bodyContentType(props)
		}
	case rb.Ref != "":
		var ok bool
		if s, ok = r.classSchema(rb.Ref, schema.Card{}); !ok {
			r.log.Debug().Str("ref", rb.Ref).Str("reason", "class not found").Msg("request body")
			s = openapi3.NewSchemaRef("", r.b.Generic())
		}
	case len(rb.Schema) > 0:
		var err error
		if s, err = schema.Raw(rb.Schema); err != nil {
			return false, fmt.Errorf("request body schema: %w", err)
		}
	default:
		s = openapi3.NewSchemaRef("", openapi3.NewObjectSchema())
	}
	op.RequestBody = newRequestBody(rb.Description, ct, rb.Required, s)
	return validated, nil
}

// properties interprets a rule set in declaration order. Nested field
// names such as "items.*.id" are left out.
func (r *run) properties(class string, rules manifest.RuleSet) []apispec.Property {
	var props []apispec.Property
	for _, fr := range rules {
		p, ok := r.interp.Interpret(fr.Field, fr.Tokens)
		if !ok {
			r.log.Debug().Str("class", class).Str("field", fr.Field).Str("reason", "nested field").Msg("rule skipped")
			continue
		}
		props = append(props, p)
	}
	return props
}

// bodyContentType is multipart when any property carries a file.
func bodyContentType(props []apispec.Property) string {
	for _, p := range props {
		if isBinary(p.Schema) || p.Schema.Items != nil && isBinary(p.Schema.Items.Value) {
			return contentMultipart
		}
	}
	return contentJSON
}

func isBinary(s *openapi3.Schema) bool {
	return s != nil && s.Format == "binary"
}

func queryParameters(op *openapi3.Operation, props []apispec.Property) {
	for _, p := range props {
		if op.Parameters.GetByInAndName(openapi3.ParameterInQuery, p.Name) != nil {
			continue
		}
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: &openapi3.Parameter{
			Name:     p.Name,
			In:       openapi3.ParameterInQuery,
			Required: p.Required,
			Schema:   openapi3.NewSchemaRef("", p.Schema),
		}})
	}
}

// classSchema renders a resource class, or a model class when no resource
// matches.
func (r *run) classSchema(name string, card schema.Card) (*openapi3.SchemaRef, bool) {
	if s, ok := r.b.Resource(name, card); ok {
		return s, true
	}
	if ref, ok := r.b.Model(name); ok {
		return r.b.Wrap(ref, r.b.Shape(card)), true
	}
	return nil, false
}
