package apispec

import (
	"reflect"
	"strings"
)

// Field creates a FieldRules binding a struct field pointer to its validation rules.
func Field[T any](fieldPtr *T, rules ...Rule) *FieldRules {
	return &FieldRules{
		fieldPtr: fieldPtr,
		rules:    rules,
	}
}

// expandFields inlines the rules of embedded Ruler fields so error keys and
// schema properties stay flat.
func expandFields(structPtr any, fields []*FieldRules) []*FieldRules {
	structVal := reflect.Indirect(reflect.ValueOf(structPtr))
	if !structVal.IsValid() || structVal.Kind() != reflect.Struct {
		return fields
	}

	result := make([]*FieldRules, 0, len(fields))
	for _, fr := range fields {
		fv := reflect.ValueOf(fr.fieldPtr)
		if fv.Kind() == reflect.Ptr {
			if sf := findStructField(structVal, fv); sf != nil && sf.Anonymous {
				if r, ok := fv.Interface().(Ruler); ok {
					result = append(result, expandFields(fv.Interface(), r.Rules())...)
					continue
				}
			}
		}
		result = append(result, fr)
	}
	return result
}

// findStructField returns the field of structValue whose address is
// fieldValue, searching embedded structs as well.
func findStructField(structValue reflect.Value, fieldValue reflect.Value) *reflect.StructField {
	ptr := fieldValue.Pointer()
	for i := structValue.NumField() - 1; i >= 0; i-- {
		sf := structValue.Type().Field(i)
		fi := structValue.Field(i)
		if ptr == fi.UnsafeAddr() && sf.Type == fieldValue.Elem().Type() {
			return &sf
		}
		if sf.Anonymous && fi.Kind() == reflect.Struct {
			if f := findStructField(fi, fieldValue); f != nil {
				return f
			}
		}
	}
	return nil
}

// jsonName returns the property name of a struct field.
func jsonName(sf *reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" {
		return sf.Name
	}
	return name
}
