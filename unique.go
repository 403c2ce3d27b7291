package apispec

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
)

type distinctRule struct {
	key func(v any) any
}

// Distinct returns a rule requiring the elements of an array to be unique.
// Elements are compared by their formatted value.
func Distinct() Rule {
	return distinctRule{key: func(v any) any { return fmt.Sprintf("%#v", v) }}
}

// Unique returns a validation rule that checks if all elements in a slice are unique according to key.
func Unique(key func(v any) any) Rule {
	return distinctRule{key: key}
}

func (r distinctRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.UniqueItems = true
	return nil
}

// Validate checks if the given value is valid or not.
func (r distinctRule) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return nil
	}

	rv = reflect.Indirect(rv)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		seen := make(map[any]struct{}, rv.Len())
		for i := range rv.Len() {
			k := r.key(rv.Index(i).Interface())
			if _, dup := seen[k]; dup {
				return errors.New("must not contain duplicates")
			}
			seen[k] = struct{}{}
		}
	default:
		return errors.New("must be an array")
	}
	return nil
}
