package openapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Gobd/apispec/docblock"
	"github.com/Gobd/apispec/manifest"
	"github.com/Gobd/apispec/schema"
	"github.com/getkin/kin-openapi/openapi3"
)

const successDescription = "Successful response"

// responses merges the explicit responses, then infers the 200 body from
// the returned resource when none is declared.
func (r *run) responses(op *openapi3.Operation, class string, m *manifest.Method, block docblock.Block, validated bool) error {
	for _, code := range manifest.SortedKeys(m.Responses) {
		resp := m.Responses[code]
		if resp == nil {
			continue
		}
		s, err := r.responseSchema(resp)
		if err != nil {
			return fmt.Errorf("response %s: %w", code, err)
		}
		op.Responses.Set(code, newResponse(first(resp.Description, statusDescription(code)), resp.ContentType, s))
	}

	ok200 := op.Responses.Value("200")
	if ok200 == nil || ok200.Value == nil || len(ok200.Value.Content) == 0 {
		if s, ok := r.inferResponse(m, block); ok {
			if ok200 != nil && ok200.Value != nil {
				ok200.Value.Content = content(contentJSON, s)
			} else {
				op.Responses.Set("200", newResponse(successDescription, contentJSON, s))
			}
		} else {
			r.log.Debug().Str("class", class).Str("returns", m.Returns).Str("reason", "no resource found").Msg("response not inferred")
		}
	}

	if validated && op.Responses.Value("422") == nil {
		op.Responses.Set("422", newResponse("Validation error", contentJSON, r.errs.validation))
	}
	return nil
}

func (r *run) responseSchema(resp *manifest.Response) (*openapi3.SchemaRef, error) {
	card := schema.Card{Collection: resp.Collection, Paginated: resp.Paginated}
	switch {
	case resp.Resource != "" || resp.Model != "":
		name := first(resp.Resource, resp.Model)
		if s, ok := r.classSchema(name, card); ok {
			return s, nil
		}
		r.log.Debug().Str("class", name).Str("reason", "class not found").Msg("response")
		return r.b.Wrap(openapi3.NewSchemaRef("", r.b.Generic()), r.b.Shape(card)), nil
	case len(resp.Schema) > 0:
		return schema.Raw(resp.Schema)
	}
	return nil, nil
}

// inferResponse looks at the declared return type, then the doc comment's
// @return, then "return new X(...)" statements in the handler source.
func (r *run) inferResponse(m *manifest.Method, block docblock.Block) (*openapi3.SchemaRef, bool) {
	te, known := docblock.ParseType(m.Returns), m.Returns != ""
	if !known {
		te, known = block.Return()
	}
	if known {
		if s, ok := r.returnedSchema(te); ok {
			return s, true
		}
	}
	for _, ret := range schema.ScanReturns(m.Source) {
		if s, ok := r.b.Resource(ret.Class, schema.Card{Collection: ret.Collection}); ok {
			return s, true
		}
	}
	return nil, false
}

// returnedSchema renders a return type naming a resource or a model.
// Paginator containers render the pagination envelope; other lists of
// models render a bare array.
func (r *run) returnedSchema(te docblock.TypeExpr) (*openapi3.SchemaRef, bool) {
	card := schema.Card{Collection: te.Array}
	if _, _, ok := r.ix.Resource(te.Name); ok {
		if isPaginator(te.Container) {
			card.Paginated = boolPtr(true)
		}
		return r.b.Resource(te.Name, card)
	}
	ref, ok := r.b.Model(te.Name)
	if !ok {
		return nil, false
	}
	if card.Collection {
		card.Paginated = boolPtr(isPaginator(te.Container))
	}
	return r.b.Wrap(ref, r.b.Shape(card)), true
}

func isPaginator(container string) bool {
	return strings.Contains(strings.ToLower(container), "paginator")
}

func boolPtr(b bool) *bool {
	return &b
}

func statusDescription(code string) string {
	if code == "default" {
		return "Default response"
	}
	n, _ := strconv.Atoi(code)
	if text := http.StatusText(n); text != "" {
		return text
	}
	return "Response"
}

// exceptions documents declared exceptions, class-level lists first. A
// status code already documented is never replaced.
func (r *run) exceptions(op *openapi3.Operation, lists ...[]manifest.Exception) {
	for _, list := range lists {
		for _, e := range list {
			status := e.Status
			if status == 0 {
				status = r.exceptionStatus(e.Class)
			}
			if status == 0 {
				r.log.Debug().Str("exception", e.Class).Str("reason", "no status").Msg("exception skipped")
				continue
			}
			code := strconv.Itoa(status)
			if op.Responses.Value(code) != nil {
				continue
			}
			desc := first(e.Description, exceptionDescription(e.Class))
			op.Responses.Set(code, newResponse(desc, contentJSON, r.errs.forStatus(status)))
		}
	}
}

// exceptionStatus looks the class up in the configured defaults, by full
// name first.
func (r *run) exceptionStatus(class string) int {
	if s, ok := r.cfg.Exceptions[manifest.CleanClass(class)]; ok {
		return s
	}
	return r.cfg.Exceptions[manifest.ShortName(class)]
}

// exceptionDescription turns "ModelNotFoundException" into "Model not found".
func exceptionDescription(class string) string {
	short := manifest.ShortName(class)
	if base := strings.TrimSuffix(short, "Exception"); base != "" {
		short = base
	}
	return schema.Humanize(short)
}

// defaultResponses documents the generic quartet on operations that
// ended up with no response at all.
func defaultResponses(op *openapi3.Operation, errs *errorBodies) {
	if op.Responses.Len() > 0 {
		return
	}
	op.Responses.Set("200", newResponse("Successful operation", "", nil))
	op.Responses.Set("400", newResponse("Bad request", contentJSON, errs.plain))
	op.Responses.Set("401", newResponse("Unauthenticated", contentJSON, errs.plain))
	op.Responses.Set("500", newResponse("Server error", contentJSON, errs.plain))
}
