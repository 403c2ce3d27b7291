package schema

import (
	"github.com/Gobd/apispec"
	"github.com/Gobd/apispec/docblock"
	"github.com/getkin/kin-openapi/openapi3"
)

// TypeSchema maps a parsed type expression to a schema. Known scalar
// tokens go through the type mapper, model classes become a $ref (or a
// placeholder while that model is being expanded), array forms wrap the
// element and nullable forms are marked nullable.
func (b *Builder) TypeSchema(te docblock.TypeExpr) *openapi3.SchemaRef {
	item := b.elementSchema(te.Name)
	if te.Array {
		arr := openapi3.NewArraySchema()
		arr.Items = item
		item = openapi3.NewSchemaRef("", arr)
	}
	if te.Nullable {
		item = own(item)
		item.Value.Nullable = true
	}
	return item
}

func (b *Builder) elementSchema(name string) *openapi3.SchemaRef {
	if tf, known := apispec.LookupType(name); known || name == "" {
		return openapi3.NewSchemaRef("", tf.Schema())
	}
	if class, _, ok := b.ix.Model(name); ok {
		return b.ModelRef(class)
	}
	return openapi3.NewSchemaRef("", apispec.MapType(name).Schema())
}
