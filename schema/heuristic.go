package schema

import (
	"strings"
	"time"

	"github.com/Gobd/apispec"
	"github.com/asaskevich/govalidator"
	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleCase = cases.Title(language.English)
	lowerCase = cases.Lower(language.English)
)

// FieldSchema types a field by its name alone. The first matching rule
// wins:
//
//	id, *_id            integer
//	*_at, *_date        date-time
//	email               email
//	*url*, *link*       uri
//	is_*, has_*         boolean
//	*amount*, *price*, *cost*  float
//
// Anything else is a string with an example derived from the name.
func FieldSchema(field string, now time.Time) *openapi3.Schema {
	name := Snake(field)
	var s *openapi3.Schema
	switch {
	case name == "id" || strings.HasSuffix(name, "_id"):
		s = openapi3.NewIntegerSchema()
		s.Example = 1
	case strings.HasSuffix(name, "_at") || strings.HasSuffix(name, "_date"):
		s = openapi3.NewDateTimeSchema()
		s.Example = now.Format(time.RFC3339)
	case name == "email":
		s = apispec.MapType("email").Schema()
		s.Example = apispec.Sample(s, now)
	case strings.Contains(name, "url") || strings.Contains(name, "link"):
		s = apispec.MapType("url").Schema()
		s.Example = apispec.Sample(s, now)
	case strings.HasPrefix(name, "is_") || strings.HasPrefix(name, "has_"):
		s = openapi3.NewBoolSchema()
		s.Example = true
	case strings.Contains(name, "amount") || strings.Contains(name, "price") || strings.Contains(name, "cost"):
		s = openapi3.NewFloat64Schema()
		s.Format = "float"
		s.Example = 99.99
	default:
		s = openapi3.NewStringSchema()
		s.Example = "Example " + Humanize(name)
	}
	return s
}

// heuristicObject builds an object whose properties are typed by name.
func (b *Builder) heuristicObject(fields []string) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	now := b.now()
	for _, f := range fields {
		if _, ok := s.Properties[f]; ok || f == "" {
			continue
		}
		s.Properties[f] = openapi3.NewSchemaRef("", FieldSchema(f, now))
	}
	return s
}

// Snake converts camelCase and kebab-case names to snake_case.
func Snake(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "-", "_")
	if strings.Contains(name, "_") || strings.ToUpper(name) == name {
		return strings.ToLower(name)
	}
	return govalidator.CamelCaseToUnderscore(name)
}

// Humanize turns "first_name" into "First name".
func Humanize(name string) string {
	words := strings.Fields(strings.ReplaceAll(Snake(name), "_", " "))
	if len(words) == 0 {
		return ""
	}
	words[0] = titleCase.String(words[0])
	for i := 1; i < len(words); i++ {
		words[i] = lowerCase.String(words[i])
	}
	return strings.Join(words, " ")
}
