package apispec

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type stringRule struct {
	validation.StringRule
	desc    string
	pattern string
}

// NewStringRule returns a string validation rule using desc as both the error message and schema description.
func NewStringRule(validator func(string) bool, desc string) Rule {
	return stringRule{
		StringRule: validation.NewStringRule(validator, desc),
		desc:       desc,
	}
}

// Regex returns a rule matching values against a regular expression. The
// delimiters and flags of a PCRE literal such as "/^[a-z]+$/i" are
// stripped; the i flag becomes (?i). It returns an error when the
// expression does not compile.
func Regex(expr string) (Rule, error) {
	pattern := stripDelimiters(expr)
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("regex %q: %w", expr, err)
	}
	return stringRule{
		StringRule: validation.NewStringRule(re.MatchString, "must match "+pattern),
		pattern:    pattern,
	}, nil
}

func stripDelimiters(expr string) string {
	if len(expr) < 2 || expr[0] != '/' {
		return expr
	}
	end := strings.LastIndexByte(expr, '/')
	if end <= 0 {
		return expr
	}
	pattern, flags := expr[1:end], expr[end+1:]
	if strings.Contains(flags, "i") {
		pattern = "(?i)" + pattern
	}
	return pattern
}

var (
	// Alpha accepts letters only.
	Alpha = mustPattern(`^\pL+$`)
	// AlphaNum accepts letters and digits.
	AlphaNum = mustPattern(`^[\pL\pN]+$`)
	// AlphaDash accepts letters, digits, dashes and underscores.
	AlphaDash = mustPattern(`^[\pL\pN_-]+$`)
)

func mustPattern(pattern string) Rule {
	r, err := Regex(pattern)
	if err != nil {
		panic(err)
	}
	return r
}

// Digits returns a rule accepting exactly n decimal digits. The property
// becomes a pattern-constrained string.
func Digits(n int) Rule {
	return mustPattern(fmt.Sprintf(`^[0-9]{%d}$`, n))
}

// NewStringRuleDecimalMax returns a validation rule that limits the number of decimal places in a numeric string.
func NewStringRuleDecimalMax(i uint) Rule {
	desc := fmt.Sprintf("no more than %d decimals", i)
	return decimalRule{
		stringRule: stringRule{
			StringRule: validation.NewStringRule(func(s string) bool {
				spl := strings.Split(s, ".")
				if len(spl) < 2 {
					return true
				}
				return len(spl[1]) <= int(i)
			}, desc),
			desc: desc,
		},
	}
}

func (r stringRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	if r.pattern != "" {
		ref.Value.Pattern = r.pattern
	}
	appendDescription(ref.Value, r.desc)
	return nil
}

// decimalRule documents a numeric property; values may arrive as numbers
// or numeric strings.
type decimalRule struct {
	stringRule
}

func (r decimalRule) Describe(name string, schema *openapi3.Schema, ref *openapi3.SchemaRef) error {
	ref.Value.Type = &openapi3.Types{openapi3.TypeNumber}
	ref.Value.Format = ""
	return r.stringRule.Describe(name, schema, ref)
}

func (r decimalRule) Validate(value any) error {
	if f, err := getFloat(value); err == nil {
		if _, ok := value.(string); !ok {
			value = fmt.Sprint(f)
		}
	}
	return r.stringRule.Validate(value)
}
