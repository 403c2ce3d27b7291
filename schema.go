package apispec

import (
	"fmt"
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

// rulesForType returns the Rules of t when *t implements Ruler.
func rulesForType(t reflect.Type) (any, []*FieldRules) {
	if t.Kind() != reflect.Struct {
		return nil, nil
	}
	inst := reflect.New(t).Interface()
	if r, ok := inst.(Ruler); ok {
		return inst, r.Rules()
	}
	return nil, nil
}

// describeFields runs each field's rules against the matching property of
// the generated object schema.
func describeFields(structPtr any, fields []*FieldRules, schema *openapi3.Schema) error {
	structVal := reflect.Indirect(reflect.ValueOf(structPtr))
	for i, fr := range fields {
		fv := reflect.ValueOf(fr.fieldPtr)
		if fv.Kind() != reflect.Ptr {
			return fmt.Errorf("rule target for field index %d must be a pointer, got %s", i, fv.Kind())
		}
		sf := findStructField(structVal, fv)
		if sf == nil {
			return fmt.Errorf("rule target for field index %d not found in struct %s", i, structVal.Type())
		}
		name := jsonName(sf)
		propRef, ok := schema.Properties[name]
		if !ok {
			continue
		}
		for _, rule := range fr.rules {
			if err := rule.Describe(name, schema, propRef); err != nil {
				return err
			}
		}
	}
	return nil
}

func describeValueRuler(t reflect.Type, name string, schema *openapi3.Schema) error {
	vr, ok := reflect.New(t).Interface().(ValueRuler)
	if !ok {
		return nil
	}
	ref := &openapi3.SchemaRef{Value: schema}
	for _, rule := range vr.ValueRules() {
		if err := rule.Describe(name, schema, ref); err != nil {
			return err
		}
	}
	return nil
}

func customize(name string, t reflect.Type, _ reflect.StructTag, schema *openapi3.Schema) error {
	inst, fields := rulesForType(t)
	if inst == nil {
		return describeValueRuler(t, name, schema)
	}
	return describeFields(inst, expandFields(inst, fields), schema)
}

// NewSchemaRefForValue generates an OpenAPI schema for the given value,
// applying the documentation of types that implement [Ruler] or
// [ValueRuler]. Pointer fields come out nullable.
func NewSchemaRefForValue(value any) (*openapi3.SchemaRef, error) {
	g := openapi3gen.NewGenerator(openapi3gen.SchemaCustomizer(customize))
	return g.NewSchemaRefForValue(value, nil)
}
