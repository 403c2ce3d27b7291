package apispec

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// In returns a validation rule that checks if a value is one of the allowed values.
func In(values ...any) Rule {
	return &inRule{
		InRule: validation.In(values...).Error(fmt.Sprintf("must be one of %s", quoteAll(values))),
		values: values,
	}
}

// NotIn returns a validation rule that checks if a value is not among the given values.
func NotIn(values ...any) Rule {
	return &notInRule{
		NotInRule: validation.NotIn(values...),
		values:    values,
	}
}

// inRule is a validation rule that validates if a value can be found in the given list of values.
type inRule struct {
	validation.InRule
	values []any
}

func (r *inRule) Validate(value any) error {
	err := r.InRule.Validate(value)
	if err != nil {
		return fmt.Errorf("%s got '%v'", err, value)
	}
	return nil
}

// Describe replaces the enum. Values are coerced to numbers when the
// property is numeric at the time of the call.
func (r *inRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Enum = coerceEnum(schemaType(ref.Value), r.values)
	return nil
}

type notInRule struct {
	validation.NotInRule
	values []any
}

func (r *notInRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	appendDescription(ref.Value, "must not be one of "+quoteAll(r.values))
	return nil
}

func quoteAll(values []any) string {
	want := make([]string, len(values))
	for i := range values {
		want[i] = fmt.Sprintf("'%v'", values[i])
	}
	return strings.Join(want, ", ")
}

func coerceEnum(typ string, values []any) []any {
	out := make([]any, len(values))
	copy(out, values)
	if typ != openapi3.TypeInteger && typ != openapi3.TypeNumber {
		return out
	}
	for i, v := range values {
		f, err := getFloat(v)
		if err != nil {
			continue
		}
		if typ == openapi3.TypeInteger && f == float64(int64(f)) {
			out[i] = int64(f)
		} else {
			out[i] = f
		}
	}
	return out
}
