package apispec

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// annotation is a documentation-only rule: it edits the property schema
// and accepts every value.
type annotation func(s *openapi3.Schema)

func (a annotation) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	a(ref.Value)
	return nil
}

func (annotation) Validate(any) error {
	return nil
}

// Example sets the schema example value.
func Example(ex any) Rule {
	return annotation(func(s *openapi3.Schema) { s.Example = ex })
}

// Default sets the schema default value.
func Default(v any) Rule {
	return annotation(func(s *openapi3.Schema) { s.Default = v })
}

// Deprecate marks the property as deprecated.
func Deprecate() Rule {
	return annotation(func(s *openapi3.Schema) { s.Deprecated = true })
}

// Describe appends desc to the schema description.
func Describe(desc string) Rule {
	return annotation(func(s *openapi3.Schema) { appendDescription(s, desc) })
}

// Format overrides the schema format without touching its type.
func Format(format string) Rule {
	return annotation(func(s *openapi3.Schema) { s.Format = format })
}

// Title sets the schema title.
func Title(title string) Rule {
	return annotation(func(s *openapi3.Schema) { s.Title = title })
}
