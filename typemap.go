package apispec

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// TypeFormat is the OpenAPI type and format a type token maps to.
type TypeFormat struct {
	Type   string
	Format string
}

var typeTokens = map[string]TypeFormat{
	"int":       {Type: openapi3.TypeInteger},
	"integer":   {Type: openapi3.TypeInteger},
	"bigint":    {Type: openapi3.TypeInteger, Format: "int64"},
	"float":     {Type: openapi3.TypeNumber, Format: "float"},
	"double":    {Type: openapi3.TypeNumber, Format: "double"},
	"decimal":   {Type: openapi3.TypeNumber},
	"numeric":   {Type: openapi3.TypeNumber},
	"number":    {Type: openapi3.TypeNumber},
	"bool":      {Type: openapi3.TypeBoolean},
	"boolean":   {Type: openapi3.TypeBoolean},
	"array":     {Type: openapi3.TypeArray},
	"list":      {Type: openapi3.TypeArray},
	"object":    {Type: openapi3.TypeObject},
	"json":      {Type: openapi3.TypeObject},
	"mixed":     {Type: openapi3.TypeString},
	"date":      {Type: openapi3.TypeString, Format: "date"},
	"datetime":  {Type: openapi3.TypeString, Format: "date-time"},
	"date-time": {Type: openapi3.TypeString, Format: "date-time"},
	"timestamp": {Type: openapi3.TypeString, Format: "date-time"},
	"carbon":    {Type: openapi3.TypeString, Format: "date-time"},
	"email":     {Type: openapi3.TypeString, Format: "email"},
	"password":  {Type: openapi3.TypeString, Format: "password"},
	"url":       {Type: openapi3.TypeString, Format: "uri"},
	"uri":       {Type: openapi3.TypeString, Format: "uri"},
	"ip":        {Type: openapi3.TypeString, Format: "ipv4"},
	"ipv4":      {Type: openapi3.TypeString, Format: "ipv4"},
	"ipv6":      {Type: openapi3.TypeString, Format: "ipv6"},
	"uuid":      {Type: openapi3.TypeString, Format: "uuid"},
	"file":      {Type: openapi3.TypeString, Format: "binary"},
	"string":    {Type: openapi3.TypeString},
}

// MapType maps a language-level type or validation token to an OpenAPI
// type and format. Tokens are matched case-insensitively after stripping a
// leading namespace separator, so `\Carbon\Carbon` and `Carbon` agree.
// Unknown tokens map to string.
func MapType(token string) TypeFormat {
	tf, _ := LookupType(token)
	return tf
}

// LookupType is like [MapType] but reports whether the token is part of the
// known vocabulary.
func LookupType(token string) (TypeFormat, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	if i := strings.LastIndex(t, `\`); i >= 0 {
		t = t[i+1:]
	}
	if tf, ok := typeTokens[t]; ok {
		return tf, true
	}
	return TypeFormat{Type: openapi3.TypeString}, false
}

// Schema returns a fresh schema carrying the type and format.
func (tf TypeFormat) Schema() *openapi3.Schema {
	s := &openapi3.Schema{Type: &openapi3.Types{tf.Type}, Format: tf.Format}
	switch tf.Type {
	case openapi3.TypeObject:
		s.Properties = openapi3.Schemas{}
	case openapi3.TypeArray:
		s.Items = openapi3.NewSchemaRef("", openapi3.NewSchema())
	}
	return s
}
