package apispec

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// typeRule sets the property type and format. A later type rule replaces
// an earlier one entirely.
type typeRule struct {
	tf   TypeFormat
	desc string
}

// Type returns a rule that types the property according to [MapType].
func Type(token string) Rule {
	return typeRule{tf: MapType(token)}
}

// Image types the property as a binary upload restricted to images.
var Image Rule = typeRule{tf: TypeFormat{Type: openapi3.TypeString, Format: "binary"}, desc: "image file"}

func (r typeRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	s := ref.Value
	fresh := r.tf.Schema()
	s.Type = fresh.Type
	s.Format = fresh.Format
	s.Items = fresh.Items
	s.Properties = fresh.Properties
	appendDescription(s, r.desc)
	return nil
}

var formatRules = map[string]validation.Rule{
	"email": is.EmailFormat,
	"uri":   is.URL,
	"uuid":  is.UUID,
	"ipv4":  is.IPv4,
	"ipv6":  is.IPv6,
}

func (r typeRule) Validate(value any) error {
	value, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	rv := reflect.ValueOf(value)
	switch r.tf.Type {
	case openapi3.TypeInteger:
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return nil
		case reflect.Float32, reflect.Float64:
			if f := rv.Float(); f == float64(int64(f)) {
				return nil
			}
		case reflect.String:
			return is.Int.Validate(value)
		}
		return fmt.Errorf("must be an integer")
	case openapi3.TypeNumber:
		if _, err := getFloat(value); err != nil {
			return fmt.Errorf("must be a number")
		}
	case openapi3.TypeBoolean:
		switch v := value.(type) {
		case bool:
			return nil
		case string:
			if _, err := strconv.ParseBool(v); err == nil {
				return nil
			}
		}
		return fmt.Errorf("must be a boolean")
	case openapi3.TypeArray:
		if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
			return fmt.Errorf("must be an array")
		}
	case openapi3.TypeObject:
		if k := rv.Kind(); k != reflect.Map && k != reflect.Struct {
			return fmt.Errorf("must be an object")
		}
	default:
		if rule, ok := formatRules[r.tf.Format]; ok {
			return rule.Validate(value)
		}
	}
	return nil
}
