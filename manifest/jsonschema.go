package manifest

import (
	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema of the manifest format.
func Schema() *jsonschema.Schema {
	r := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  true,
		DoNotReference:             true,
	}
	s := r.Reflect(&Manifest{})
	s.Title = "apispec manifest"
	return s
}

// JSONSchema describes a rule mapping: field name to a pipe-delimited
// string or a list of tokens.
func (RuleSet) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		AdditionalProperties: &jsonschema.Schema{
			OneOf: []*jsonschema.Schema{
				{Type: "string"},
				{Type: "array", Items: &jsonschema.Schema{Type: "string"}},
			},
		},
	}
}

// JSONSchema describes an exception entry: a class name or a mapping.
func (Exception) JSONSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("class", &jsonschema.Schema{Type: "string"})
	props.Set("status", &jsonschema.Schema{Type: "integer", Minimum: "100", Maximum: "599"})
	props.Set("description", &jsonschema.Schema{Type: "string"})
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "object", Properties: props, Required: []string{"class"}},
		},
	}
}
