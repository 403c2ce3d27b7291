package apispec

import (
	"reflect"
)

// Normalizer is implemented by types that tidy themselves after decoding.
// [NormalizeAndValidate] calls Normalize on the top-level value first and
// then depth-first on every nested struct, pointer, slice element and map
// value that implements it.
type Normalizer interface {
	Normalize()
}

func normalizeRecursive(a any) {
	if a == nil {
		return
	}
	callNormalize(a)
	rv := reflect.ValueOf(a)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		walkNormalize(rv)
	}
}

func callNormalize(v any) {
	if n, ok := v.(Normalizer); ok {
		n.Normalize()
	}
}

func walkNormalize(rv reflect.Value) {
	for i := range rv.NumField() {
		if !rv.Type().Field(i).IsExported() {
			continue
		}
		normalizeValue(rv.Field(i))
	}
}

func normalizeValue(v reflect.Value) {
	switch v.Kind() {
	case reflect.Struct:
		if v.CanAddr() {
			callNormalize(v.Addr().Interface())
		}
		walkNormalize(v)
	case reflect.Ptr:
		if v.IsNil() {
			return
		}
		callNormalize(v.Interface())
		if v.Elem().Kind() == reflect.Struct {
			walkNormalize(v.Elem())
		}
	case reflect.Slice:
		for j := range v.Len() {
			normalizeValue(v.Index(j))
		}
	case reflect.Map:
		for _, key := range v.MapKeys() {
			val := v.MapIndex(key)
			// Map values aren't addressable; copy, normalize, put back.
			switch val.Kind() {
			case reflect.Struct:
				cp := reflect.New(val.Type())
				cp.Elem().Set(val)
				normalizeValue(cp.Elem())
				v.SetMapIndex(key, cp.Elem())
			case reflect.Ptr:
				normalizeValue(val)
			}
		}
	}
}
