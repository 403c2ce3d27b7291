package openapi

import (
	"strconv"
	"strings"

	"github.com/Gobd/apispec"
	"github.com/Gobd/apispec/docblock"
	"github.com/Gobd/apispec/manifest"
	"github.com/Gobd/apispec/schema"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/jinzhu/inflection"
)

// operation builds the operation for one route. Each step only adds what
// earlier steps left missing.
func (r *run) operation(route manifest.Route, class, method string, ctrl *manifest.Controller, m *manifest.Method) (*openapi3.Operation, error) {
	block := docblock.Parse(m.Doc)
	op := &openapi3.Operation{Responses: &openapi3.Responses{}}

	r.seed(op, class, method, ctrl, m, block)
	r.addParameters(op, m.Parameters)
	r.addParameters(op, m.ParameterAnnotations)

	validated, err := r.requestBody(op, route, class, m)
	if err != nil {
		return nil, err
	}
	if err := r.responses(op, class, m, block, validated); err != nil {
		return nil, err
	}
	r.exceptions(op, ctrl.Exceptions, m.Exceptions)
	defaultResponses(op, r.errs)
	pathParameters(op, route)
	return op, nil
}

// seed fills summary, description, tags, deprecation, operation id and
// security from explicit metadata, then the doc comment, then naming
// conventions.
func (r *run) seed(op *openapi3.Operation, class, method string, ctrl *manifest.Controller, m *manifest.Method, block docblock.Block) {
	explicit := m.Operation
	if explicit == nil {
		explicit = &manifest.Operation{}
	}
	base := controllerBase(class)

	op.Summary = first(explicit.Summary, block.Summary, conventionalSummary(method, base))
	op.Description = first(explicit.Description, details(block))
	op.Deprecated = explicit.Deprecated || block.Has("deprecated")

	tags := explicit.Tags
	if len(tags) == 0 {
		tags = ctrl.Tags
	}
	if len(tags) == 0 {
		tags = []string{base}
	}
	tagDesc := first(ctrl.TagDescription, docblock.Parse(ctrl.Doc).Summary)
	for _, t := range tags {
		r.addTag(t, tagDesc)
	}
	op.Tags = tags

	id := explicit.OperationID
	if id == "" {
		id = schema.Snake(base) + "_" + strings.Trim(schema.Snake(method), "_")
	}
	op.OperationID = r.operationID(id)

	if names := firstList(explicit.Security, ctrl.Security); len(names) > 0 {
		reqs := security(names)
		op.Security = &reqs
	}
}

// operationID returns id, or id with a numeric suffix when taken.
func (r *run) operationID(id string) string {
	base := id
	for i := 2; r.opIDs[id]; i++ {
		id = base + "_" + strconv.Itoa(i)
	}
	r.opIDs[id] = true
	return id
}

// controllerBase is the short class name without its "Controller" suffix.
func controllerBase(class string) string {
	short := manifest.ShortName(class)
	if base := strings.TrimSuffix(short, "Controller"); base != "" {
		return base
	}
	return short
}

// conventionalSummary names resourceful actions after the controller's
// subject; other methods use their humanized name.
func conventionalSummary(method, base string) string {
	noun := strings.ToLower(schema.Humanize(base))
	switch method {
	case "index":
		return "List " + inflection.Plural(noun)
	case "show":
		return "Get " + noun
	case "store":
		return "Create " + noun
	case "update":
		return "Update " + noun
	case "destroy":
		return "Delete " + noun
	case "__invoke":
		return schema.Humanize(base)
	}
	return schema.Humanize(method)
}

// details is the doc comment past its summary paragraph.
func details(b docblock.Block) string {
	_, rest, _ := strings.Cut(b.Description, "\n\n")
	return strings.TrimSpace(rest)
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstList(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}

// addParameters appends declared parameters. A parameter whose name and
// location are already present is dropped.
func (r *run) addParameters(op *openapi3.Operation, params []manifest.Parameter) {
	for _, p := range params {
		if op.Parameters.GetByInAndName(p.In, p.Name) != nil {
			r.log.Debug().Str("parameter", p.Name).Str("in", p.In).Str("reason", "duplicate").Msg("parameter dropped")
			continue
		}
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: parameter(p)})
	}
}

func parameter(p manifest.Parameter) *openapi3.Parameter {
	s := apispec.MapType(p.Type).Schema()
	if p.Format != "" {
		s.Format = p.Format
	}
	if len(p.Enum) > 0 {
		s.Enum = p.Enum
	}
	return &openapi3.Parameter{
		Name:        p.Name,
		In:          p.In,
		Description: p.Description,
		Required:    p.Required || p.In == openapi3.ParameterInPath,
		Deprecated:  p.Deprecated,
		Example:     p.Example,
		Schema:      openapi3.NewSchemaRef("", s),
	}
}

// pathParameters declares every placeholder of the path template that
// no parameter covers yet. Declared path parameters are forced required.
func pathParameters(op *openapi3.Operation, route manifest.Route) {
	for _, name := range route.Placeholders() {
		if p := op.Parameters.GetByInAndName(openapi3.ParameterInPath, name); p != nil {
			p.Required = true
			continue
		}
		op.Parameters = append(op.Parameters, &openapi3.ParameterRef{Value: &openapi3.Parameter{
			Name:        name,
			In:          openapi3.ParameterInPath,
			Required:    true,
			Description: "ID of the " + inflection.Singular(name),
			Schema:      openapi3.NewSchemaRef("", openapi3.NewStringSchema()),
		}})
	}
}
