package transform

import (
	"reflect"
	"strings"
)

// TrimSpace runs [strings.TrimSpace] on every string reachable from v:
// struct fields, pointers, slice elements, map values and map keys.
// v must be a pointer for struct fields to be updated.
func TrimSpace(v any) {
	Strings(v, strings.TrimSpace)
}

// Strings applies f to every string reachable from v.
func Strings(v any, f func(string) string) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return
	}
	walk(rv.Elem(), f)
}

func walk(v reflect.Value, f func(string) string) {
	switch v.Kind() {
	case reflect.String:
		if v.CanSet() {
			v.SetString(f(v.String()))
		}
	case reflect.Struct:
		for i := range v.NumField() {
			if v.Type().Field(i).IsExported() {
				walk(v.Field(i), f)
			}
		}
	case reflect.Pointer:
		if !v.IsNil() {
			walk(v.Elem(), f)
		}
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			walk(v.Index(i), f)
		}
	case reflect.Map:
		walkMap(v, f)
	}
}

// walkMap rebuilds the entries of v: map values are not addressable, and a
// key that changes under f moves its entry. Interface-typed values are
// left untouched since their dynamic type is unknown here.
func walkMap(v reflect.Value, f func(string) string) {
	if v.IsNil() {
		return
	}
	for _, key := range v.MapKeys() {
		val := v.MapIndex(key)
		cp := reflect.New(val.Type()).Elem()
		cp.Set(val)
		walk(cp, f)

		newKey := key
		if key.Kind() == reflect.String {
			newKey = reflect.New(key.Type()).Elem()
			newKey.SetString(f(key.String()))
			if newKey.String() != key.String() {
				v.SetMapIndex(key, reflect.Value{})
			}
		}
		v.SetMapIndex(newKey, cp)
	}
}
