package apispec

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

type (
	// RuleFunc validates a value and returns an error if it is invalid.
	RuleFunc func(value any) error

	// Rule is the interface that all validation rules must implement.
	//
	// Describe receives the enclosing object schema (so rules such as
	// [Required] can register the field name on it) and a reference to the
	// field's own property schema.
	Rule interface {
		Validate(value any) error
		Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error
	}

	// FieldRules binds a struct field pointer to its validation rules.
	FieldRules struct {
		fieldPtr any
		rules    []Rule
	}

	// Ruler is implemented by structs that declare rules for their fields.
	//
	//	func (c *Config) Rules() []*apispec.FieldRules {
	//	    return []*apispec.FieldRules{
	//	        apispec.Field(&c.Title, apispec.Required),
	//	    }
	//	}
	Ruler interface {
		Rules() []*FieldRules
	}

	// ValueRuler is implemented by non-struct types (e.g. type HTTPMethod string)
	// that carry their own validation rules. The returned rules are applied
	// wherever the type appears as a struct field.
	ValueRuler interface {
		ValueRules() []Rule
	}
)

// schemaType returns the single OpenAPI type of s, or "" when unset.
func schemaType(s *openapi3.Schema) string {
	if s == nil || s.Type == nil || len(*s.Type) == 0 {
		return ""
	}
	return (*s.Type)[0]
}

// appendDescription adds text to the schema description, separated by a space.
func appendDescription(s *openapi3.Schema, text string) {
	if text == "" {
		return
	}
	if s.Description != "" && !strings.HasSuffix(s.Description, " ") {
		s.Description += " "
	}
	s.Description += text
}
