package apispec

import (
	"slices"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type requiredRule struct {
	validation.RequiredRule
}

// Required is a validation rule that checks if a value is not empty.
// It documents the field by listing its name in the enclosing object's
// required array; the property schema itself is left untouched.
var Required = requiredRule{validation.Required}

func (r requiredRule) Describe(name string, schema *openapi3.Schema, _ *openapi3.SchemaRef) error {
	if schema == nil || name == "" || slices.Contains(schema.Required, name) {
		return nil
	}
	schema.Required = append(schema.Required, name)
	return nil
}

type nullableRule struct{}

// Nullable is a documentation-only rule marking the property as nullable.
var Nullable Rule = nullableRule{}

func (nullableRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Nullable = true
	return nil
}

func (nullableRule) Validate(any) error {
	return nil
}

// IsRequired reports whether r is the [Required] rule.
func IsRequired(r Rule) bool {
	_, ok := r.(requiredRule)
	return ok
}
