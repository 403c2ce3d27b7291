package apispec

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// WhenRule validates conditionally: it applies one set of rules when the
// condition is true, and an optional alternative set (via [WhenRule.Else])
// when false. Use [When] to create one.
//
// Conditions that depend on sibling fields cannot be evaluated while a
// schema is being built, so the rule only documents them: Describe renders
// a summary of what each branch would do.
type WhenRule struct {
	validation.WhenRule
	condition bool
	desc      string
	whenRules []Rule
	elseRules []Rule
}

// When returns a conditional validation rule that applies rules only when condition is true.
func When(condition bool, desc string, rules ...Rule) *WhenRule {
	return &WhenRule{
		WhenRule:  validation.When(condition, convertRules(rules...)...),
		condition: condition,
		desc:      desc,
		whenRules: rules,
	}
}

// Else specifies alternative rules to apply when the [When] condition is false.
func (r *WhenRule) Else(rules ...Rule) *WhenRule {
	r.elseRules = rules
	r.WhenRule = r.WhenRule.Else(convertRules(rules...)...)
	return r
}

// summarize runs the rules against a scratch schema and renders the
// resulting constraints as text.
func summarize(name string, rules []Rule) (string, error) {
	if len(rules) == 0 {
		return "", nil
	}

	parent := openapi3.NewObjectSchema()
	ref := openapi3.NewSchemaRef("", openapi3.NewSchema())

	for _, r := range rules {
		if err := r.Describe(name, parent, ref); err != nil {
			return "", err
		}
	}

	s := ref.Value
	var parts []string
	if len(parent.Required) > 0 {
		parts = append(parts, "required")
	}
	if s.Description != "" {
		parts = append(parts, s.Description)
	}
	if s.Min != nil {
		parts = append(parts, fmt.Sprintf("min %g", *s.Min))
	}
	if s.Max != nil {
		parts = append(parts, fmt.Sprintf("max %g", *s.Max))
	}
	if s.MinLength > 0 {
		parts = append(parts, fmt.Sprintf("min length %d", s.MinLength))
	}
	if s.MaxLength != nil {
		parts = append(parts, fmt.Sprintf("max length %d", *s.MaxLength))
	}
	if len(s.Enum) > 0 {
		vals := make([]string, len(s.Enum))
		for i, v := range s.Enum {
			vals[i] = fmt.Sprint(v)
		}
		parts = append(parts, "one of ["+strings.Join(vals, ", ")+"]")
	}
	if s.UniqueItems {
		parts = append(parts, "unique")
	}

	return strings.Join(parts, ", "), nil
}

// Describe implements [Rule] by appending a human-readable summary of the
// conditional rules to the schema description.
func (r *WhenRule) Describe(name string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	desc, err := summarize(name, r.whenRules)
	if err != nil {
		return err
	}
	if desc != "" {
		if r.desc != "" {
			desc = fmt.Sprintf("%s when %s", desc, r.desc)
		}
		appendDescription(ref.Value, desc)
	}

	desc, err = summarize(name, r.elseRules)
	if err != nil {
		return err
	}
	if desc != "" {
		appendDescription(ref.Value, "otherwise "+desc)
	}
	return nil
}
