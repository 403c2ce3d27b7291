package docblock_test

import (
	"testing"

	"github.com/Gobd/apispec/docblock"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func describe(t *testing.T, p docblock.Property) (*openapi3.Schema, *openapi3.Schema) {
	t.Helper()
	parent := openapi3.NewObjectSchema()
	ref := openapi3.NewSchemaRef("", openapi3.NewStringSchema())
	for _, r := range p.Rules {
		require.NoError(t, r.Describe(p.Name, parent, ref))
	}
	return parent, ref.Value
}

func TestParseModel(t *testing.T) {
	classDoc := `/**
	 * A product in the catalogue.
	 *
	 * @property int $id
	 * @property-read string $name Display name from the class doc
	 * @property \Carbon\Carbon|null $published_at
	 * @property-write $secret
	 * @property Collection<Review> $reviews
	 */`
	fields := []docblock.FieldDoc{
		{Name: "name", Doc: `/**
		 * The product name.
		 *
		 * @var string
		 * @example Widget
		 * @required
		 */`},
		{Name: "status", Doc: "/** @var string @enum {draft,live} */"},
		{Name: "undocumented"},
	}

	m := docblock.ParseModel(classDoc, fields)
	assert.Equal(t, "A product in the catalogue.", m.Description)

	var names []string
	for _, p := range m.Properties {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"name", "status", "id", "published_at", "secret", "reviews"}, names)

	name, ok := m.Lookup("name")
	require.True(t, ok)
	assert.Equal(t, "The product name.", name.Description)
	assert.Equal(t, "string", name.Type.Name)
	parent, s := describe(t, name)
	assert.Equal(t, "Widget", s.Example)
	assert.Equal(t, []string{"name"}, parent.Required)

	published, _ := m.Lookup("published_at")
	assert.Equal(t, docblock.TypeExpr{Name: "Carbon", Nullable: true}, published.Type)

	secret, _ := m.Lookup("secret")
	assert.False(t, secret.Typed)

	reviews, _ := m.Lookup("reviews")
	assert.True(t, reviews.Type.Array)
	assert.Equal(t, "Review", reviews.Type.Name)
}

func TestFieldProperty_InlineTags(t *testing.T) {
	p, ok := docblock.FieldProperty("status", docblock.Parse("/** @var string @enum {draft,live} @example user@example.com */"))
	require.True(t, ok)
	assert.True(t, p.Typed)
	assert.Empty(t, p.Description)

	_, s := describe(t, p)
	assert.Equal(t, []any{"draft", "live"}, s.Enum)
	assert.Equal(t, "user@example.com", s.Example)

	_, ok = docblock.FieldProperty("empty", docblock.Parse(""))
	assert.False(t, ok)
}

func TestFieldProperty_Tags(t *testing.T) {
	p, ok := docblock.FieldProperty("price", docblock.Parse(`/**
	 * @var float $price Unit price
	 * @example 9.99
	 * @format double
	 * @nullable
	 * @default 0
	 * @deprecated
	 * @enum {1.5, 2.5}
	 */`))
	require.True(t, ok)
	assert.Equal(t, "Unit price", p.Description)
	assert.Equal(t, "float", p.Type.Name)

	_, s := describe(t, p)
	assert.Equal(t, 9.99, s.Example)
	assert.Equal(t, "double", s.Format)
	assert.True(t, s.Nullable)
	assert.Equal(t, 0, s.Default)
	assert.True(t, s.Deprecated)
	assert.Equal(t, []any{1.5, 2.5}, s.Enum)
}
