package apispec

import (
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
)

var formatSamples = map[string]any{
	"email":  "user@example.com",
	"uri":    "https://example.com",
	"binary": "(binary)",
	"ipv4":   "127.0.0.1",
	"ipv6":   "::1",
}

// Sample returns a representative example for the schema's type and format.
// Dates are rendered from now.
func Sample(s *openapi3.Schema, now time.Time) any {
	if len(s.Enum) > 0 {
		return s.Enum[0]
	}
	switch schemaType(s) {
	case openapi3.TypeInteger:
		return 1
	case openapi3.TypeNumber:
		return 1.23
	case openapi3.TypeBoolean:
		return true
	case openapi3.TypeArray:
		return []any{}
	case openapi3.TypeObject:
		return map[string]any{}
	}
	switch s.Format {
	case "date":
		return now.Format(time.DateOnly)
	case "date-time":
		return now.Format(time.RFC3339)
	case "uuid":
		return uuid.Nil.String()
	}
	if ex, ok := formatSamples[s.Format]; ok {
		return ex
	}
	return "string"
}

// FitExample adjusts ex to the schema's bounds and checks it against the
// rules that describe the final type. Strings are padded or truncated to
// the length bounds and numbers are clamped to the value bounds. When the
// adjusted example still fails a rule, ex is returned unchanged.
func FitExample(s *openapi3.Schema, ex any, rules []Rule) any {
	fitted := clamp(s, ex)
	for _, r := range currentRules(rules) {
		switch r.(type) {
		case requiredRule, absentRule, *inRule:
			continue
		}
		if err := r.Validate(fitted); err != nil {
			return ex
		}
	}
	return fitted
}

// currentRules drops the type rules a later one replaced, together with
// the size bounds described under them.
func currentRules(rules []Rule) []Rule {
	last := -1
	for i, r := range rules {
		switch r.(type) {
		case typeRule, *DateRule:
			last = i
		}
	}
	var out []Rule
	for i, r := range rules {
		if i < last {
			switch r.(type) {
			case typeRule, *DateRule, boundRule, rangeRule:
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func clamp(s *openapi3.Schema, ex any) any {
	switch v := ex.(type) {
	case string:
		if s.Format != "" && s.Format != "password" {
			return v
		}
		n := uint64(len([]rune(v)))
		if n < s.MinLength {
			v += strings.Repeat("x", int(s.MinLength-n))
		}
		if s.MaxLength != nil && uint64(len([]rune(v))) > *s.MaxLength {
			v = string([]rune(v)[:*s.MaxLength])
		}
		return v
	case int:
		f := clampFloat(s, float64(v))
		return int(f)
	case float64:
		return clampFloat(s, v)
	}
	return ex
}

func clampFloat(s *openapi3.Schema, f float64) float64 {
	if s.Min != nil && f < *s.Min {
		f = *s.Min
	}
	if s.Max != nil && f > *s.Max {
		f = *s.Max
	}
	return f
}
