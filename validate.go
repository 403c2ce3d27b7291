package apispec

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate is the single entry point for struct validation.
// If value implements Ruler, validates struct fields via Rules().
// If value implements ValueRuler, applies its rules to the value directly.
// Collection elements implementing Ruler are auto-validated.
func Validate(value any) error {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil()) {
		return nil
	}

	if r, ok := value.(Ruler); ok {
		return validation.ValidateStruct(value, convertFieldRules(value, r.Rules()...)...)
	}
	// ozzo hands struct fields over by value; *T may still be a Ruler.
	if rv.Kind() == reflect.Struct {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		if r, ok := ptr.Interface().(Ruler); ok {
			return validation.ValidateStruct(ptr.Interface(), convertFieldRules(ptr.Interface(), r.Rules()...)...)
		}
	}

	if vr, ok := value.(ValueRuler); ok {
		return ValidateValue(value, vr.ValueRules()...)
	}

	if rv.Kind() == reflect.Interface && rv.IsNil() {
		return nil
	}
	rv = reflect.Indirect(rv)

	switch rv.Kind() {
	case reflect.Map:
		if shouldAutoValidate(rv.Type().Elem()) {
			return validateMap(rv)
		}
	case reflect.Slice, reflect.Array:
		if shouldAutoValidate(rv.Type().Elem()) {
			return validateSlice(rv)
		}
	}
	return nil
}

// ValidateValue applies rules to a single value, stopping at the first failure.
func ValidateValue(value any, rules ...Rule) error {
	for _, rule := range rules {
		if err := rule.Validate(value); err != nil {
			return err
		}
	}
	return nil
}

// NormalizeAndValidate normalizes v (see [Normalizer]) and validates it.
func NormalizeAndValidate(v any) error {
	normalizeRecursive(v)
	return Validate(v)
}

// shouldAutoValidate checks if elements of the given type can be auto-validated.
// Recurses into nested collections (e.g. map[string][]Ruler).
func shouldAutoValidate(elemType reflect.Type) bool {
	switch elemType.Kind() {
	case reflect.Struct:
		_, ok := reflect.New(elemType).Interface().(Ruler)
		return ok
	case reflect.Ptr:
		_, ok := reflect.Zero(elemType).Interface().(Ruler)
		return ok
	case reflect.Slice, reflect.Array, reflect.Map:
		return shouldAutoValidate(elemType.Elem())
	}
	return false
}

func validateElement(v reflect.Value) error {
	if (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && v.IsNil() {
		return nil
	}
	if v.Kind() == reflect.Struct && v.CanAddr() {
		return Validate(v.Addr().Interface())
	}
	return Validate(v.Interface())
}

func validateSlice(rv reflect.Value) error {
	errs := validation.Errors{}
	for i := range rv.Len() {
		if err := validateElement(rv.Index(i)); err != nil {
			errs[strconv.Itoa(i)] = err
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateMap(rv reflect.Value) error {
	errs := validation.Errors{}
	for _, key := range rv.MapKeys() {
		if err := validateElement(rv.MapIndex(key)); err != nil {
			errs[fmt.Sprintf("%v", key.Interface())] = err
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// rulerBridge sends field values back through Validate so nested Ruler
// structs and collections of them are checked too.
type rulerBridge struct{}

func (rulerBridge) Validate(value any) error {
	if value == nil {
		return nil
	}
	return Validate(value)
}

// convertFieldRules translates FieldRules into ozzo's FieldRules, with
// embedded Ruler fields flattened into the parent.
func convertFieldRules(structPtr any, fields ...*FieldRules) []*validation.FieldRules {
	flat := expandFields(structPtr, fields)

	vFields := make([]*validation.FieldRules, len(flat))
	for i, fr := range flat {
		rules := convertRules(fr.rules...)
		rules = append(rules, rulerBridge{})
		vFields[i] = validation.Field(fr.fieldPtr, rules...)
	}
	return vFields
}

func convertRules(rules ...Rule) []validation.Rule {
	vRules := make([]validation.Rule, len(rules), len(rules)+1)
	for i := range rules {
		vRules[i] = validation.Rule(rules[i])
	}
	return vRules
}

// By wraps a RuleFunc into a Rule documented by desc.
func By(f RuleFunc, desc string) Rule {
	return &inlineRule{validation.By(validation.RuleFunc(f)), desc}
}

type inlineRule struct {
	validation.Rule
	desc string
}

func (r *inlineRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	appendDescription(ref.Value, r.desc)
	return nil
}
