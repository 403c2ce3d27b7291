package openapi

import (
	"errors"

	"github.com/Gobd/apispec"
	"github.com/getkin/kin-openapi/openapi3"
)

// ErrWrite wraps every failure to persist a generated document.
var ErrWrite = errors.New("write failed")

// errorBody is the body of error responses.
type errorBody struct {
	Message string `json:"message"`
}

// Rules implements apispec.Ruler.
func (e *errorBody) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&e.Message, apispec.Required, apispec.Describe("Error message"), apispec.Example("Server Error")),
	}
}

// validationErrorBody is the body of 422 responses.
type validationErrorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// Rules implements apispec.Ruler.
func (e *validationErrorBody) Rules() []*apispec.FieldRules {
	return []*apispec.FieldRules{
		apispec.Field(&e.Message, apispec.Required, apispec.Example("The given data was invalid.")),
		apispec.Field(&e.Errors, apispec.Required,
			apispec.Describe("Messages keyed by field name"),
			apispec.Example(map[string]any{"field": []any{"The field is required."}})),
	}
}

type errorBodies struct {
	plain      *openapi3.SchemaRef
	validation *openapi3.SchemaRef
}

func newErrorBodies() (*errorBodies, error) {
	plain, err := apispec.NewSchemaRefForValue(errorBody{})
	if err != nil {
		return nil, err
	}
	validation, err := apispec.NewSchemaRefForValue(validationErrorBody{})
	if err != nil {
		return nil, err
	}
	return &errorBodies{plain: plain, validation: validation}, nil
}

// forStatus picks the error body for a status code.
func (e *errorBodies) forStatus(status int) *openapi3.SchemaRef {
	if status == 422 {
		return e.validation
	}
	return e.plain
}
