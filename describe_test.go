package apispec

import (
	"testing"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSchemaRef returns a parent object schema and a property ref of the given type.
func newTestSchemaRef(typ string) (*openapi3.Schema, *openapi3.SchemaRef) {
	prop := openapi3.NewSchema()
	if typ != "" {
		prop.Type = &openapi3.Types{typ}
	}
	return openapi3.NewObjectSchema(), &openapi3.SchemaRef{Value: prop}
}

func TestDescribe_Required(t *testing.T) {
	schema, ref := newTestSchemaRef("string")

	require.NoError(t, Required.Describe("name", schema, ref))
	require.NoError(t, Required.Describe("name", schema, ref))
	require.NoError(t, Required.Describe("email", schema, ref))

	assert.Equal(t, []string{"name", "email"}, schema.Required)
}

func TestDescribe_Nullable(t *testing.T) {
	schema, ref := newTestSchemaRef("string")

	require.NoError(t, Nullable.Describe("name", schema, ref))
	assert.True(t, ref.Value.Nullable)

	require.NoError(t, NotNil.Describe("name", schema, ref))
	assert.False(t, ref.Value.Nullable)
}

func TestDescribe_BoundsFollowType(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		schema, ref := newTestSchemaRef("string")
		require.NoError(t, Min(3).Describe("name", schema, ref))
		require.NoError(t, Max(5).Describe("name", schema, ref))

		assert.Equal(t, uint64(3), ref.Value.MinLength)
		require.NotNil(t, ref.Value.MaxLength)
		assert.Equal(t, uint64(5), *ref.Value.MaxLength)
		assert.Nil(t, ref.Value.Min)
		assert.Nil(t, ref.Value.Max)
	})

	t.Run("untyped counts as string", func(t *testing.T) {
		schema, ref := newTestSchemaRef("")
		require.NoError(t, Max(10).Describe("name", schema, ref))
		require.NotNil(t, ref.Value.MaxLength)
		assert.Equal(t, uint64(10), *ref.Value.MaxLength)
	})

	t.Run("integer", func(t *testing.T) {
		schema, ref := newTestSchemaRef("integer")
		require.NoError(t, Min(0).Describe("age", schema, ref))
		require.NoError(t, Max(150).Describe("age", schema, ref))

		require.NotNil(t, ref.Value.Min)
		require.NotNil(t, ref.Value.Max)
		assert.Equal(t, float64(0), *ref.Value.Min)
		assert.Equal(t, float64(150), *ref.Value.Max)
		assert.Nil(t, ref.Value.MaxLength)
	})

	t.Run("array", func(t *testing.T) {
		schema, ref := newTestSchemaRef("array")
		require.NoError(t, Min(1).Describe("tags", schema, ref))
		require.NoError(t, Max(3).Describe("tags", schema, ref))

		assert.Equal(t, uint64(1), ref.Value.MinItems)
		require.NotNil(t, ref.Value.MaxItems)
		assert.Equal(t, uint64(3), *ref.Value.MaxItems)
	})

	t.Run("size", func(t *testing.T) {
		schema, ref := newTestSchemaRef("string")
		require.NoError(t, Size(4).Describe("pin", schema, ref))

		assert.Equal(t, uint64(4), ref.Value.MinLength)
		require.NotNil(t, ref.Value.MaxLength)
		assert.Equal(t, uint64(4), *ref.Value.MaxLength)
	})

	t.Run("file", func(t *testing.T) {
		schema, ref := newTestSchemaRef("string")
		ref.Value.Format = "binary"
		require.NoError(t, Max(2048).Describe("avatar", schema, ref))

		assert.Equal(t, "at most 2048 kilobytes", ref.Value.Description)
		assert.Nil(t, ref.Value.MaxLength)
	})
}

func TestDescribe_Between(t *testing.T) {
	schema, ref := newTestSchemaRef("number")
	require.NoError(t, Between(1, 9.5).Describe("score", schema, ref))

	require.NotNil(t, ref.Value.Min)
	require.NotNil(t, ref.Value.Max)
	assert.Equal(t, 1.0, *ref.Value.Min)
	assert.Equal(t, 9.5, *ref.Value.Max)
}

func TestDescribe_Length(t *testing.T) {
	schema, ref := newTestSchemaRef("string")
	require.NoError(t, Length(1, 100).Describe("name", schema, ref))

	assert.Equal(t, uint64(1), ref.Value.MinLength)
	require.NotNil(t, ref.Value.MaxLength)
	assert.Equal(t, uint64(100), *ref.Value.MaxLength)
}

func TestDescribe_In(t *testing.T) {
	schema, ref := newTestSchemaRef("string")
	require.NoError(t, In("a", "b").Describe("status", schema, ref))
	assert.Equal(t, []any{"a", "b"}, ref.Value.Enum)

	schema, ref = newTestSchemaRef("integer")
	require.NoError(t, In("1", "2").Describe("level", schema, ref))
	assert.Equal(t, []any{int64(1), int64(2)}, ref.Value.Enum)

	schema, ref = newTestSchemaRef("number")
	require.NoError(t, In("1.5", "x").Describe("ratio", schema, ref))
	assert.Equal(t, []any{1.5, "x"}, ref.Value.Enum)
}

func TestDescribe_NotIn(t *testing.T) {
	schema, ref := newTestSchemaRef("string")
	require.NoError(t, NotIn("root", "admin").Describe("user", schema, ref))
	assert.Equal(t, "must not be one of 'root', 'admin'", ref.Value.Description)
}

func TestDescribe_Type(t *testing.T) {
	schema, ref := newTestSchemaRef("")

	require.NoError(t, Type("email").Describe("contact", schema, ref))
	assert.True(t, ref.Value.Type.Is("string"))
	assert.Equal(t, "email", ref.Value.Format)

	require.NoError(t, Type("integer").Describe("contact", schema, ref))
	assert.True(t, ref.Value.Type.Is("integer"))
	assert.Empty(t, ref.Value.Format)

	require.NoError(t, Type("array").Describe("contact", schema, ref))
	assert.True(t, ref.Value.Type.Is("array"))
	assert.NotNil(t, ref.Value.Items)

	require.NoError(t, Type("string").Describe("contact", schema, ref))
	assert.True(t, ref.Value.Type.Is("string"))
	assert.Nil(t, ref.Value.Items)
}

func TestDescribe_DateFormat(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	schema, ref := newTestSchemaRef("integer")

	require.NoError(t, DateFormat("Y-m-d H:i:s", now).Describe("starts_at", schema, ref))

	assert.True(t, ref.Value.Type.Is("string"))
	assert.Equal(t, "date-time", ref.Value.Format)
	assert.Equal(t, "2024-03-05 14:07:09", ref.Value.Example)
}

func TestDescribe_DateRange(t *testing.T) {
	schema, ref := newTestSchemaRef("string")
	r := Date(time.DateOnly).
		Min(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)).
		Max(time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC))

	require.NoError(t, r.Describe("birthday", schema, ref))
	assert.Equal(t, "date", ref.Value.Format)
	assert.Equal(t, "after 2020-01-01 before 2030-12-31", ref.Value.Description)

	assert.NoError(t, r.Validate("2024-06-01"))
	assert.Error(t, r.Validate("2019-06-01"))
	assert.Error(t, r.Validate("June 1st"))
}

func TestGoLayout(t *testing.T) {
	tests := map[string]string{
		"Y-m-d":       "2006-01-02",
		"Y-m-d H:i:s": "2006-01-02 15:04:05",
		"d/m/Y":       "02/01/2006",
		`Y-m-d\TH:i`:  "2006-01-02T15:04",
		"D, d M Y":    "Mon, 02 Jan 2006",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, GoLayout(in))
		})
	}
}

func TestDescribe_Regex(t *testing.T) {
	r, err := Regex("/^[a-z]+$/i")
	require.NoError(t, err)

	schema, ref := newTestSchemaRef("string")
	require.NoError(t, r.Describe("slug", schema, ref))
	assert.Equal(t, "(?i)^[a-z]+$", ref.Value.Pattern)

	assert.NoError(t, r.Validate("Hello"))
	assert.Error(t, r.Validate("hello world"))

	_, err = Regex("/([a-z/")
	assert.Error(t, err)
}

func TestDescribe_Decimal(t *testing.T) {
	schema, ref := newTestSchemaRef("string")
	r := NewStringRuleDecimalMax(2)
	require.NoError(t, r.Describe("price", schema, ref))

	assert.True(t, ref.Value.Type.Is("number"))
	assert.Equal(t, "no more than 2 decimals", ref.Value.Description)
	assert.NoError(t, r.Validate("1.25"))
	assert.NoError(t, r.Validate(1.5))
	assert.Error(t, r.Validate("1.255"))
}

func TestDescribe_KeyIn(t *testing.T) {
	schema, ref := newTestSchemaRef("array")
	require.NoError(t, KeyIn("street", "city").Describe("address", schema, ref))

	assert.True(t, ref.Value.Type.Is("object"))
	assert.Nil(t, ref.Value.Items)
	assert.Equal(t, "keys must be in (street,city)", ref.Value.Description)
}

func TestDescribe_Distinct(t *testing.T) {
	schema, ref := newTestSchemaRef("array")
	require.NoError(t, Distinct().Describe("tags", schema, ref))
	assert.True(t, ref.Value.UniqueItems)

	assert.NoError(t, Distinct().Validate([]string{"a", "b"}))
	assert.Error(t, Distinct().Validate([]string{"a", "a"}))
	assert.Error(t, Distinct().Validate("a"))
}

func TestDescribe_When(t *testing.T) {
	schema, ref := newTestSchemaRef("string")
	r := When(false, "type is company", Required).Else(Max(10))

	require.NoError(t, r.Describe("vat", schema, ref))
	assert.Equal(t, "required when type is company otherwise max length 10", ref.Value.Description)
	assert.Empty(t, schema.Required)
}

func TestDescribe_Annotations(t *testing.T) {
	schema, ref := newTestSchemaRef("string")
	for _, r := range []Rule{
		Example("abc"),
		Default("x"),
		Deprecate(),
		Describe("first"),
		Describe("second"),
		Format("password"),
		Title("Secret"),
	} {
		require.NoError(t, r.Describe("secret", schema, ref))
		assert.NoError(t, r.Validate(nil))
	}

	assert.Equal(t, "abc", ref.Value.Example)
	assert.Equal(t, "x", ref.Value.Default)
	assert.True(t, ref.Value.Deprecated)
	assert.Equal(t, "first second", ref.Value.Description)
	assert.Equal(t, "password", ref.Value.Format)
	assert.Equal(t, "Secret", ref.Value.Title)
}

func TestDescribe_Absent(t *testing.T) {
	schema, ref := newTestSchemaRef("string")
	require.NoError(t, Nil.Describe("legacy", schema, ref))
	assert.Equal(t, "must not be present", ref.Value.Description)

	assert.NoError(t, Nil.Validate(nil))
	assert.Error(t, Nil.Validate("x"))
}
