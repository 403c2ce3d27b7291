package apispec

import (
	"fmt"
	"reflect"
	"strconv"
	"unicode/utf8"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type boundKind int

const (
	lowerBound boundKind = iota
	upperBound
	exactBound
)

// boundRule constrains a value by size. What "size" means follows the
// property type at the point the rule is described: string length for
// strings, the value itself for numbers, item count for arrays and
// kilobytes for files.
type boundRule struct {
	kind  boundKind
	limit float64
}

// Min returns a validation rule that checks if a value is greater than or equal to the specified minimum.
func Min(threshold any) Rule {
	return newBound(lowerBound, threshold)
}

// Max returns a validation rule that checks if a value is less than or equal to the specified maximum.
func Max(threshold any) Rule {
	return newBound(upperBound, threshold)
}

// Size returns a validation rule that checks if a value has exactly the given size.
func Size(size any) Rule {
	return newBound(exactBound, size)
}

func newBound(kind boundKind, threshold any) boundRule {
	f, err := getFloat(threshold)
	if err != nil {
		panic(err)
	}
	return boundRule{kind: kind, limit: f}
}

func (r boundRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	s := ref.Value
	limit := r.limit
	switch schemaType(s) {
	case openapi3.TypeInteger, openapi3.TypeNumber:
		if r.kind != upperBound {
			s.Min = &limit
		}
		if r.kind != lowerBound {
			s.Max = &limit
		}
	case openapi3.TypeArray:
		n := uint64(limit)
		if r.kind != upperBound {
			s.MinItems = n
		}
		if r.kind != lowerBound {
			s.MaxItems = &n
		}
	default:
		if s.Format == "binary" {
			appendDescription(s, r.fileDescription())
			return nil
		}
		n := uint64(limit)
		if r.kind != upperBound {
			s.MinLength = n
		}
		if r.kind != lowerBound {
			s.MaxLength = &n
		}
	}
	return nil
}

func (r boundRule) fileDescription() string {
	switch r.kind {
	case lowerBound:
		return fmt.Sprintf("at least %g kilobytes", r.limit)
	case upperBound:
		return fmt.Sprintf("at most %g kilobytes", r.limit)
	default:
		return fmt.Sprintf("exactly %g kilobytes", r.limit)
	}
}

// Validate measures strings by rune count, collections by length and
// numbers by value.
func (r boundRule) Validate(value any) error {
	value, isNil := validation.Indirect(value)
	if isNil || validation.IsEmpty(value) {
		return nil
	}
	n, err := measure(value)
	if err != nil {
		return err
	}
	switch r.kind {
	case lowerBound:
		return validation.Min(r.limit).Validate(n)
	case upperBound:
		return validation.Max(r.limit).Validate(n)
	default:
		if n != r.limit {
			return fmt.Errorf("must have size %g", r.limit)
		}
	}
	return nil
}

func measure(value any) (float64, error) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return float64(utf8.RuneCountInString(rv.String())), nil
	case reflect.Slice, reflect.Array, reflect.Map:
		return float64(rv.Len()), nil
	default:
		return getFloat(value)
	}
}

var floatType = reflect.TypeOf(float64(0))

func getFloat(unk any) (float64, error) {
	if s, ok := unk.(string); ok {
		return strconv.ParseFloat(s, 64)
	}
	v := reflect.Indirect(reflect.ValueOf(unk))
	if !v.IsValid() || !v.Type().ConvertibleTo(floatType) {
		return 0, fmt.Errorf("cannot convert %T to float64", unk)
	}
	return v.Convert(floatType).Float(), nil
}
