package apispec

import (
	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type lengthRule struct {
	validation.LengthRule
	min, max int
}

// Length returns a validation rule that checks if a string's rune length is within the specified range.
func Length(lo, hi int) Rule {
	return &lengthRule{
		validation.RuneLength(lo, hi),
		lo,
		hi,
	}
}

func (r *lengthRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.MinLength = uint64(r.min)
	if r.max > 0 {
		hi := uint64(r.max)
		ref.Value.MaxLength = &hi
	}
	return nil
}

type rangeRule struct {
	lo, hi boundRule
}

// Between returns a rule bounding a value on both sides. Like [Min] and
// [Max], the bounds apply to length, value or item count depending on the
// property type.
func Between(lo, hi any) Rule {
	return rangeRule{newBound(lowerBound, lo), newBound(upperBound, hi)}
}

func (r rangeRule) Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error {
	if err := r.lo.Describe(name, schema, ref); err != nil {
		return err
	}
	return r.hi.Describe(name, schema, ref)
}

func (r rangeRule) Validate(value any) error {
	if err := r.lo.Validate(value); err != nil {
		return err
	}
	return r.hi.Validate(value)
}
