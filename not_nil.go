package apispec

import (
	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// NotNil checks that a value is present, though it may be empty.
var NotNil = notNilRule{Rule: validation.NotNil, desc: "must be present"}

// Filled checks that a value, when present, is not empty.
var Filled = notNilRule{Rule: validation.NilOrNotEmpty, desc: "must not be empty when present"}

type notNilRule struct {
	validation.Rule
	desc string
}

func (r notNilRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Nullable = false
	appendDescription(ref.Value, r.desc)
	return nil
}
