// Package manifest holds the metadata harvested from the host application:
// its routes, controllers, validation-rule classes, resources and models.
// Builders read these typed records instead of inspecting classes at run
// time.
package manifest

import (
	"strings"
)

// Manifest is one harvested application.
type Manifest struct {
	Routes      []Route                `json:"routes" yaml:"routes"`
	Controllers map[string]*Controller `json:"controllers,omitempty" yaml:"controllers,omitempty"`
	Requests    map[string]*Request    `json:"requests,omitempty" yaml:"requests,omitempty"`
	Resources   map[string]*Resource   `json:"resources,omitempty" yaml:"resources,omitempty"`
	Models      map[string]*Model      `json:"models,omitempty" yaml:"models,omitempty"`
}

// HTTPMethod is an upper-case HTTP method.
type HTTPMethod string

// Route is one entry of the application's route table.
type Route struct {
	Method HTTPMethod `json:"method" yaml:"method" jsonschema:"required,enum=GET,enum=POST,enum=PUT,enum=PATCH,enum=DELETE,enum=HEAD,enum=OPTIONS"`
	// Path is the URI template, e.g. "/users/{user}".
	Path string `json:"path" yaml:"path" jsonschema:"required"`
	// Handler is "Class@method", "Class::method" or "Closure".
	Handler string `json:"handler" yaml:"handler" jsonschema:"required"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Target splits the handler into class and method. Invokable controllers
// named without a method resolve to "__invoke". ok is false for closures.
func (r Route) Target() (class, method string, ok bool) {
	h := strings.TrimSpace(r.Handler)
	if h == "" || strings.EqualFold(h, "closure") {
		return "", "", false
	}
	for _, sep := range []string{"@", "::"} {
		if c, m, found := strings.Cut(h, sep); found {
			return strings.TrimPrefix(c, `\`), m, c != "" && m != ""
		}
	}
	return strings.TrimPrefix(h, `\`), "__invoke", true
}

// Placeholders returns the names of the path template's "{name}" segments
// in order.
func (r Route) Placeholders() []string {
	return Placeholders(r.Path)
}

// Placeholders returns the "{name}" names of a path template in order.
func Placeholders(path string) []string {
	var out []string
	for {
		open := strings.IndexByte(path, '{')
		if open < 0 {
			return out
		}
		end := strings.IndexByte(path[open:], '}')
		if end < 0 {
			return out
		}
		if name := strings.TrimSuffix(path[open+1:open+end], "?"); name != "" {
			out = append(out, name)
		}
		path = path[open+end+1:]
	}
}

// Controller is a handler class.
type Controller struct {
	Doc            string   `json:"doc,omitempty" yaml:"doc,omitempty"`
	Tags           []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	TagDescription string   `json:"tag_description,omitempty" yaml:"tag_description,omitempty"`
	Security       []string `json:"security,omitempty" yaml:"security,omitempty"`
	// Document opts the whole class out (false) or in (true).
	Document   *bool              `json:"document,omitempty" yaml:"document,omitempty"`
	Exceptions []Exception        `json:"exceptions,omitempty" yaml:"exceptions,omitempty"`
	Methods    map[string]*Method `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// Method is a handler method.
type Method struct {
	Doc string `json:"doc,omitempty" yaml:"doc,omitempty"`
	// Document opts the method out (false) or in (true).
	Document             *bool                `json:"document,omitempty" yaml:"document,omitempty"`
	Operation            *Operation           `json:"operation,omitempty" yaml:"operation,omitempty"`
	Parameters           []Parameter          `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	ParameterAnnotations []Parameter          `json:"parameter_annotations,omitempty" yaml:"parameter_annotations,omitempty"`
	RequestBody          *RequestBody         `json:"request_body,omitempty" yaml:"request_body,omitempty"`
	Responses            map[string]*Response `json:"responses,omitempty" yaml:"responses,omitempty"`
	Exceptions           []Exception          `json:"exceptions,omitempty" yaml:"exceptions,omitempty"`
	// Params are the handler's declared parameters in order.
	Params []Param `json:"params,omitempty" yaml:"params,omitempty"`
	// Returns is the declared return type.
	Returns string `json:"returns,omitempty" yaml:"returns,omitempty"`
	// Source is the method body, scanned for returned resources.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Operation is explicit operation metadata.
type Operation struct {
	Summary     string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	OperationID string   `json:"operation_id,omitempty" yaml:"operation_id,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Security    []string `json:"security,omitempty" yaml:"security,omitempty"`
}

// Parameter is an explicitly declared operation parameter.
type Parameter struct {
	Name        string `json:"name" yaml:"name" jsonschema:"required"`
	In          string `json:"in" yaml:"in" jsonschema:"required,enum=path,enum=query,enum=header,enum=cookie"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Deprecated  bool   `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`
	Enum        []any  `json:"enum,omitempty" yaml:"enum,omitempty"`
	Example     any    `json:"example,omitempty" yaml:"example,omitempty"`
}

// RequestBody is an explicit request body. Exactly one of Request, Ref or
// Schema names the body's shape.
type RequestBody struct {
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	// Request names a validation-rule class.
	Request string `json:"request,omitempty" yaml:"request,omitempty"`
	// Ref names a model or resource class.
	Ref    string         `json:"ref,omitempty" yaml:"ref,omitempty"`
	Schema map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Response is an explicit response for one status code.
type Response struct {
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	ContentType string         `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Resource    string         `json:"resource,omitempty" yaml:"resource,omitempty"`
	Model       string         `json:"model,omitempty" yaml:"model,omitempty"`
	Collection  bool           `json:"collection,omitempty" yaml:"collection,omitempty"`
	Paginated   *bool          `json:"paginated,omitempty" yaml:"paginated,omitempty"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Exception maps an exception class to a status code. A zero Status is
// resolved from the configured defaults.
type Exception struct {
	Class       string `json:"class" yaml:"class"`
	Status      int    `json:"status,omitempty" yaml:"status,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Param is a declared handler parameter.
type Param struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Request is a validation-rule class.
type Request struct {
	Rules RuleSet `json:"rules,omitempty" yaml:"rules,omitempty"`
	// Error records why the class could not be instantiated; its rules are
	// then treated as absent.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// FieldRules is the rule list of one request field.
type FieldRules struct {
	Field  string
	Tokens []string
}

// RuleSet is the ordered rule list of a validation-rule class.
type RuleSet []FieldRules

// Resource is a presentation class wrapping a model for output.
type Resource struct {
	Doc        string              `json:"doc,omitempty" yaml:"doc,omitempty"`
	Annotation *ResourceAnnotation `json:"annotation,omitempty" yaml:"annotation,omitempty"`
	// Collection marks a collection resource class.
	Collection bool `json:"collection,omitempty" yaml:"collection,omitempty"`
	// OverridesToArray is set when the class defines its own transformation.
	OverridesToArray bool `json:"overrides_to_array,omitempty" yaml:"overrides_to_array,omitempty"`
	// Source is the body of the transformation method.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// ResourceAnnotation is the metadata a resource declares about itself.
type ResourceAnnotation struct {
	Model            string                  `json:"model,omitempty" yaml:"model,omitempty"`
	Schema           map[string]any          `json:"schema,omitempty" yaml:"schema,omitempty"`
	Collection       *bool                   `json:"collection,omitempty" yaml:"collection,omitempty"`
	Paginated        *bool                   `json:"paginated,omitempty" yaml:"paginated,omitempty"`
	Relations        map[string]RelationSpec `json:"relations,omitempty" yaml:"relations,omitempty"`
	IncludeRelations bool                    `json:"include_relations,omitempty" yaml:"include_relations,omitempty"`
	Description      string                  `json:"description,omitempty" yaml:"description,omitempty"`
}

// RelationSpec is an explicitly declared relation of a resource.
type RelationSpec struct {
	Resource string `json:"resource,omitempty" yaml:"resource,omitempty"`
	Model    string `json:"model,omitempty" yaml:"model,omitempty"`
	Many     bool   `json:"many,omitempty" yaml:"many,omitempty"`
}

// Model is a data-model class.
type Model struct {
	Doc          string           `json:"doc,omitempty" yaml:"doc,omitempty"`
	Annotation   *ModelAnnotation `json:"annotation,omitempty" yaml:"annotation,omitempty"`
	Fields       []FieldDoc       `json:"fields,omitempty" yaml:"fields,omitempty"`
	Fillable     []string         `json:"fillable,omitempty" yaml:"fillable,omitempty"`
	PublicFields []string         `json:"public_fields,omitempty" yaml:"public_fields,omitempty"`
	Methods      []ModelMethod    `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// ModelAnnotation is the explicit per-field schema of a model.
type ModelAnnotation struct {
	Description string               `json:"description,omitempty" yaml:"description,omitempty"`
	Properties  []PropertyAnnotation `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// PropertyAnnotation documents one model property explicitly.
type PropertyAnnotation struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Format      string `json:"format,omitempty" yaml:"format,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Nullable    bool   `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	Enum        []any  `json:"enum,omitempty" yaml:"enum,omitempty"`
	Example     any    `json:"example,omitempty" yaml:"example,omitempty"`
	// Items is the element type when Type is array.
	Items string `json:"items,omitempty" yaml:"items,omitempty"`
}

// FieldDoc is a declared model field and its doc comment.
type FieldDoc struct {
	Name string `json:"name" yaml:"name"`
	Doc  string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// ModelMethod is an accessor method of a model.
type ModelMethod struct {
	Name    string `json:"name" yaml:"name"`
	Returns string `json:"returns,omitempty" yaml:"returns,omitempty"`
	Doc     string `json:"doc,omitempty" yaml:"doc,omitempty"`
}
