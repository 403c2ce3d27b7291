package manifest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Gobd/apispec"
	"github.com/Gobd/apispec/transform"
)

// HTTP methods a route may carry.
const (
	MethodGet     HTTPMethod = "GET"
	MethodHead    HTTPMethod = "HEAD"
	MethodPost    HTTPMethod = "POST"
	MethodPut     HTTPMethod = "PUT"
	MethodPatch   HTTPMethod = "PATCH"
	MethodDelete  HTTPMethod = "DELETE"
	MethodOptions HTTPMethod = "OPTIONS"
)

// ValueRules limits m to the known HTTP methods.
func (m HTTPMethod) ValueRules() []apispec.Rule {
	return []apispec.Rule{apispec.In(MethodGet, MethodHead, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodOptions)}
}

// Normalize trims every string and strips the leading namespace separator
// from class keys.
func (m *Manifest) Normalize() {
	transform.TrimSpace(m)
	m.Controllers = rekey(m.Controllers)
	m.Requests = rekey(m.Requests)
	m.Resources = rekey(m.Resources)
	m.Models = rekey(m.Models)
}

func rekey[T any](in map[string]*T) map[string]*T {
	for k, v := range in {
		if c := CleanClass(k); c != k {
			delete(in, k)
			in[c] = v
		}
	}
	return in
}

// CleanClass strips surrounding space and the leading "\" from a class name.
func CleanClass(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), `\`)
}

// Normalize upper-cases the method, keeps the first non-HEAD entry of a
// "GET|HEAD" list and rewrites optional placeholders "{id?}" to "{id}".
func (r *Route) Normalize() {
	method := strings.ToUpper(string(r.Method))
	if alts := strings.Split(method, "|"); len(alts) > 1 {
		method = alts[0]
		for _, alt := range alts {
			if alt != "HEAD" {
				method = alt
				break
			}
		}
	}
	r.Method = HTTPMethod(method)

	if r.Path != "" && !strings.HasPrefix(r.Path, "/") {
		r.Path = "/" + r.Path
	}
	r.Path = strings.ReplaceAll(r.Path, "?}", "}")
}

// Normalize lower-cases the parameter location.
func (p *Parameter) Normalize() {
	p.In = strings.ToLower(p.In)
}

// Rules implements apispec.Ruler.
func (m *Manifest) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&m.Routes),
		apispec.Field(&m.Controllers),
		apispec.Field(&m.Models),
		apispec.Field(&m.Resources),
	}
}

// Rules implements apispec.Ruler.
func (r *Route) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&r.Method, apispec.Required),
		apispec.Field(&r.Path, apispec.Required, apispec.By(leadingSlash, "must start with /")),
		apispec.Field(&r.Handler, apispec.Required),
	}
}

func leadingSlash(value any) error {
	if s, _ := value.(string); s != "" && !strings.HasPrefix(s, "/") {
		return errors.New("must start with /")
	}
	return nil
}

// Rules implements apispec.Ruler.
func (c *Controller) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&c.Exceptions),
		apispec.Field(&c.Methods),
	}
}

// Rules implements apispec.Ruler.
func (m *Method) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&m.Parameters),
		apispec.Field(&m.ParameterAnnotations),
		apispec.Field(&m.Responses, apispec.By(statusKeys, "keys are status codes or default")),
		apispec.Field(&m.Exceptions),
	}
}

func statusKeys(value any) error {
	responses, _ := value.(map[string]*Response)
	for code := range responses {
		if code == "default" {
			continue
		}
		if n, err := strconv.Atoi(code); err != nil || n < 100 || n > 599 {
			return fmt.Errorf("%q is not a status code", code)
		}
	}
	return nil
}

// Rules implements apispec.Ruler.
func (p *Parameter) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&p.Name, apispec.Required),
		apispec.Field(&p.In, apispec.Required, apispec.In("path", "query", "header", "cookie")),
	}
}

// Rules implements apispec.Ruler.
func (e *Exception) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&e.Class, apispec.Required),
		apispec.Field(&e.Status, apispec.Min(100), apispec.Max(599)),
	}
}

// Rules implements apispec.Ruler.
func (m *Model) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&m.Annotation),
		apispec.Field(&m.Fields),
		apispec.Field(&m.Methods),
	}
}

// Rules implements apispec.Ruler.
func (a *ModelAnnotation) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&a.Properties),
	}
}

// Rules implements apispec.Ruler.
func (p *PropertyAnnotation) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&p.Name, apispec.Required),
	}
}

// Rules implements apispec.Ruler.
func (f *FieldDoc) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&f.Name, apispec.Required),
	}
}

// Rules implements apispec.Ruler.
func (m *ModelMethod) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&m.Name, apispec.Required),
	}
}

// Rules implements apispec.Ruler.
func (r *Resource) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&r.Annotation),
	}
}

// Rules implements apispec.Ruler.
func (a *ResourceAnnotation) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&a.Relations, apispec.By(relationTargets, "each relation names a resource or a model")),
	}
}

func relationTargets(value any) error {
	relations, _ := value.(map[string]RelationSpec)
	for name, spec := range relations {
		if spec.Resource == "" && spec.Model == "" {
			return fmt.Errorf("relation %q names neither a resource nor a model", name)
		}
	}
	return nil
}
