package apispec_test

import (
	"testing"

	v "github.com/Gobd/apispec"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type schemaBasic struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Age   int     `json:"age"`
	Note  *string `json:"note"`
}

func (s *schemaBasic) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&s.Name, v.Required, v.Length(1, 100)),
		v.Field(&s.Email, v.Required, v.Type("email")),
		v.Field(&s.Age, v.Min(0), v.Max(150), v.Example(30)),
		v.Field(&s.Note, v.Describe("free-form notes")),
	}
}

type schemaParent struct {
	Basic  schemaBasic `json:"basic"`
	Status status      `json:"status"`
}

func (s *schemaParent) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&s.Basic, v.Required),
	}
}

type status string

func (status) ValueRules() []v.Rule {
	return []v.Rule{v.In("active", "inactive")}
}

func TestNewSchemaRefForValue(t *testing.T) {
	ref, err := v.NewSchemaRefForValue(schemaBasic{})
	require.NoError(t, err)
	s := ref.Value

	assert.ElementsMatch(t, []string{"name", "email"}, s.Required)

	name := s.Properties["name"].Value
	assert.Equal(t, uint64(1), name.MinLength)
	require.NotNil(t, name.MaxLength)
	assert.Equal(t, uint64(100), *name.MaxLength)

	assert.Equal(t, "email", s.Properties["email"].Value.Format)

	age := s.Properties["age"].Value
	assert.True(t, age.Type.Is(openapi3.TypeInteger))
	require.NotNil(t, age.Min)
	assert.Equal(t, float64(0), *age.Min)
	assert.Equal(t, 30, age.Example)

	note := s.Properties["note"].Value
	assert.True(t, note.Nullable)
	assert.Equal(t, "free-form notes", note.Description)
}

func TestNewSchemaRefForValue_Nested(t *testing.T) {
	ref, err := v.NewSchemaRefForValue(&schemaParent{})
	require.NoError(t, err)
	s := ref.Value

	assert.Equal(t, []string{"basic"}, s.Required)
	basic := s.Properties["basic"].Value
	assert.ElementsMatch(t, []string{"name", "email"}, basic.Required)
	assert.Equal(t, []any{"active", "inactive"}, s.Properties["status"].Value.Enum)
}
