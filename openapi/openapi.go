package openapi

import (
	"net/http"
	"strings"

	"github.com/Gobd/apispec/config"
	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPIVersion is the dialect of generated documents.
const OpenAPIVersion = "3.0.0"

const (
	contentJSON      = "application/json"
	contentMultipart = "multipart/form-data"
)

// NewDocument returns the document skeleton described by cfg: info,
// servers, security schemes and the global security requirement.
func NewDocument(cfg *config.Config) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: OpenAPIVersion,
		Info: &openapi3.Info{
			Title:       cfg.Info.Title,
			Description: cfg.Info.Description,
			Version:     cfg.Info.Version,
		},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{},
	}
	for _, s := range cfg.Servers {
		doc.Servers = append(doc.Servers, &openapi3.Server{URL: s.URL, Description: s.Description})
	}
	if len(cfg.SecuritySchemes) > 0 {
		doc.Components.SecuritySchemes = openapi3.SecuritySchemes{}
		for name, s := range cfg.SecuritySchemes {
			doc.Components.SecuritySchemes[name] = &openapi3.SecuritySchemeRef{Value: &openapi3.SecurityScheme{
				Type:         s.Type,
				Scheme:       s.Scheme,
				BearerFormat: s.BearerFormat,
				In:           s.In,
				Name:         s.Name,
				Description:  s.Description,
			}}
		}
	}
	if len(cfg.Security) > 0 {
		doc.Security = security(cfg.Security)
	}
	return doc
}

// security builds a requirement list where any one named scheme suffices.
func security(names []string) openapi3.SecurityRequirements {
	reqs := openapi3.SecurityRequirements{}
	for _, n := range names {
		reqs = append(reqs, openapi3.SecurityRequirement{n: []string{}})
	}
	return reqs
}

// AddPath adds an operation to the document at the given path and method.
func AddPath(path, method string, doc *openapi3.T, op *openapi3.Operation) {
	p := doc.Paths.Value(path)
	if p == nil {
		p = &openapi3.PathItem{}
	}

	switch strings.ToUpper(method) {
	case http.MethodGet:
		p.Get = op
	case http.MethodPost:
		p.Post = op
	case http.MethodPut:
		p.Put = op
	case http.MethodPatch:
		p.Patch = op
	case http.MethodDelete:
		p.Delete = op
	case http.MethodOptions:
		p.Options = op
	case http.MethodHead:
		p.Head = op
	}

	doc.Paths.Set(path, p)
}

// addTag declares a tag once. The first non-empty description given for
// a name is kept.
func (r *run) addTag(name, description string) {
	if name == "" {
		return
	}
	if tag, ok := r.tags[name]; ok {
		if tag.Description == "" {
			tag.Description = description
		}
		return
	}
	tag := &openapi3.Tag{Name: name, Description: description}
	r.tags[name] = tag
	r.doc.Tags = append(r.doc.Tags, tag)
}

// content wraps a body schema in a single-entry content map.
func content(contentType string, s *openapi3.SchemaRef) openapi3.Content {
	if contentType == "" {
		contentType = contentJSON
	}
	return openapi3.Content{contentType: &openapi3.MediaType{Schema: s}}
}

// newResponse builds a response; a nil schema gives a body-less response.
func newResponse(desc, contentType string, s *openapi3.SchemaRef) *openapi3.ResponseRef {
	resp := openapi3.NewResponse().WithDescription(desc)
	if s != nil {
		resp.Content = content(contentType, s)
	}
	return &openapi3.ResponseRef{Value: resp}
}

// newRequestBody builds a request body around s.
func newRequestBody(desc, contentType string, required bool, s *openapi3.SchemaRef) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{Value: &openapi3.RequestBody{
		Description: desc,
		Required:    required,
		Content:     content(contentType, s),
	}}
}
