package apispec

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/rs/zerolog"
)

// Property is the schema inferred for one request field.
type Property struct {
	Name     string
	Schema   *openapi3.Schema
	Required bool
	Rules    []Rule
}

// Interpreter turns validation-rule tokens such as "required|string|max:5"
// into property schemas. The zero value is ready to use.
type Interpreter struct {
	// Now is the clock used for date examples. Defaults to time.Now.
	Now func() time.Time
	// Log receives tokens that could not be documented. The zero value
	// discards them.
	Log zerolog.Logger
}

type ruleFactory func(in Interpreter, name string, params []string) (Rule, error)

var ruleFactories map[string]ruleFactory

func init() {
	ruleFactories = map[string]ruleFactory{
		"required":   fixed(Required),
		"nullable":   fixed(Nullable),
		"filled":     fixed(Filled),
		"present":    fixed(NotNil),
		"prohibited": fixed(Empty),
		"missing":    fixed(Nil),
		"sometimes":  skip,
		"bail":       skip,

		// types
		"string":  fixed(Type("string")),
		"integer": fixed(Type("integer")),
		"int":     fixed(Type("int")),
		"numeric": fixed(Type("numeric")),
		"boolean": fixed(Type("boolean")),
		"bool":    fixed(Type("bool")),
		"date":    fixed(Type("date")),
		"email":   fixed(Type("email")),
		"url":     fixed(Type("url")),
		"uuid":    fixed(Type("uuid")),
		"ip":      fixed(Type("ip")),
		"ipv4":    fixed(Type("ipv4")),
		"ipv6":    fixed(Type("ipv6")),
		"file":    fixed(Type("file")),
		"image":   fixed(Image),
		"json":    fixed(Type("json")),
		"list":    fixed(Type("list")),
		"array":   array,

		"min":      bound(Min),
		"max":      bound(Max),
		"size":     bound(Size),
		"between":  between,
		"digits":   digits,
		"decimal":  decimal,
		"in":       in,
		"not_in":   notIn,
		"distinct": fixed(Distinct()),

		"date_format": dateFormat,
		"regex":       regex,
		"alpha":       fixed(Alpha),
		"alpha_num":   fixed(AlphaNum),
		"alpha_dash":  fixed(AlphaDash),
		"uppercase":   fixed(Describe("must be uppercase")),
		"lowercase":   fixed(Describe("must be lowercase")),
		"timezone":    fixed(Describe("must be a valid timezone")),
		"accepted":    fixed(Describe("must be accepted")),
		"declined":    fixed(Describe("must be declined")),

		// documented only
		"not_regex": describef("must not match %s"),
		"before":    describef("must be a date before %s"),
		"after":     describef("must be a date after %s"),
		"same":      describef("must match %s"),
		"different": describef("must differ from %s"),
		"gt":        describef("must be greater than %s"),
		"gte":       describef("must be greater than or equal to %s"),
		"lt":        describef("must be less than %s"),
		"lte":       describef("must be less than or equal to %s"),
		"mimes":     describef("allowed file types: %s"),
		"exists":    describef("must exist in %s"),
		"unique":    describef("must be unique in %s"),
		"confirmed": confirmed,

		"before_or_equal": describef("must be a date before or equal to %s"),
		"after_or_equal":  describef("must be a date after or equal to %s"),
		"starts_with":     describef("must start with one of %s"),
		"ends_with":       describef("must end with one of %s"),
		"mimetypes":       describef("allowed mime types: %s"),
		"digits_between":  describef("must have between %s digits"),

		"required_if":          conditional("%s is %s"),
		"required_unless":      conditional("%s is not %s"),
		"required_with":        conditional("any of %s is present"),
		"required_with_all":    conditional("all of %s are present"),
		"required_without":     conditional("any of %s is missing"),
		"required_without_all": conditional("all of %s are missing"),
	}
}

func fixed(r Rule) ruleFactory {
	return func(Interpreter, string, []string) (Rule, error) { return r, nil }
}

func skip(Interpreter, string, []string) (Rule, error) {
	return nil, nil
}

func array(_ Interpreter, _ string, params []string) (Rule, error) {
	if len(params) == 0 {
		return Type("array"), nil
	}
	return KeyIn(params...), nil
}

func bound(f func(any) Rule) ruleFactory {
	return func(_ Interpreter, _ string, params []string) (Rule, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("expected one parameter")
		}
		if _, err := getFloat(params[0]); err != nil {
			return nil, err
		}
		return f(params[0]), nil
	}
}

func between(_ Interpreter, _ string, params []string) (Rule, error) {
	if len(params) != 2 {
		return nil, fmt.Errorf("expected two parameters")
	}
	for _, p := range params {
		if _, err := getFloat(p); err != nil {
			return nil, err
		}
	}
	return Between(params[0], params[1]), nil
}

func digits(_ Interpreter, _ string, params []string) (Rule, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("expected one parameter")
	}
	n, err := getFloat(params[0])
	if err != nil {
		return nil, err
	}
	return Digits(int(n)), nil
}

func decimal(_ Interpreter, _ string, params []string) (Rule, error) {
	if len(params) == 0 {
		return Type("decimal"), nil
	}
	n, err := getFloat(params[len(params)-1])
	if err != nil {
		return nil, err
	}
	return NewStringRuleDecimalMax(uint(n)), nil
}

func in(_ Interpreter, _ string, params []string) (Rule, error) {
	return In(anys(params)...), nil
}

func notIn(_ Interpreter, _ string, params []string) (Rule, error) {
	return NotIn(anys(params)...), nil
}

func anys(params []string) []any {
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = strings.Trim(p, `"'`)
	}
	return out
}

func dateFormat(in Interpreter, _ string, params []string) (Rule, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("missing format")
	}
	return DateFormat(strings.Join(params, ","), in.now()), nil
}

func regex(_ Interpreter, _ string, params []string) (Rule, error) {
	return Regex(strings.Join(params, ","))
}

func describef(format string) ruleFactory {
	return func(_ Interpreter, _ string, params []string) (Rule, error) {
		return Describe(fmt.Sprintf(format, strings.Join(params, ", "))), nil
	}
}

func confirmed(_ Interpreter, name string, _ []string) (Rule, error) {
	return Describe(fmt.Sprintf("must match %s_confirmation", name)), nil
}

func conditional(format string) ruleFactory {
	return func(_ Interpreter, _ string, params []string) (Rule, error) {
		var desc string
		if strings.Count(format, "%s") == 2 && len(params) > 0 {
			desc = fmt.Sprintf(format, params[0], strings.Join(params[1:], " or "))
		} else {
			desc = fmt.Sprintf(format, strings.Join(params, ", "))
		}
		return When(false, desc, Required), nil
	}
}

func (in Interpreter) now() time.Time {
	if in.Now != nil {
		return in.Now()
	}
	return time.Now()
}

// SplitRules splits a pipe-delimited rule string into tokens. A regex
// token swallows the rest of the string since its pattern may itself
// contain pipes.
func SplitRules(rules string) []string {
	var out []string
	for rules != "" {
		tok, rest, found := strings.Cut(rules, "|")
		if name, _, _ := strings.Cut(tok, ":"); found && (name == "regex" || name == "not_regex") {
			tok, rest = rules, ""
		}
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
		rules = rest
	}
	return out
}

// ParseToken splits "name:a,b" into its lower-cased name and parameters.
// The parameters of regex tokens are kept whole.
func ParseToken(token string) (string, []string) {
	name, arg, ok := strings.Cut(strings.TrimSpace(token), ":")
	name = strings.ToLower(strings.TrimSpace(name))
	if !ok {
		return name, nil
	}
	if name == "regex" || name == "not_regex" || name == "date_format" {
		return name, []string{arg}
	}
	params := strings.Split(arg, ",")
	for i := range params {
		params[i] = strings.TrimSpace(params[i])
	}
	return name, params
}

// Rules parses tokens into rules in token order. Enumerations are moved
// to the end so they see the final property type. Unknown tokens and
// tokens with malformed parameters are ignored.
func (in Interpreter) Rules(name string, tokens []string) []Rule {
	var rules, deferred []Rule
	for _, tok := range tokens {
		key, params := ParseToken(tok)
		f, ok := ruleFactories[key]
		if !ok {
			continue
		}
		r, err := f(in, name, params)
		if err != nil {
			in.Log.Debug().Str("field", name).Str("token", tok).Err(err).Msg("rule token ignored")
			continue
		}
		if r == nil {
			continue
		}
		if key == "in" {
			deferred = append(deferred, r)
			continue
		}
		rules = append(rules, r)
	}
	return append(rules, deferred...)
}

// Interpret builds the property schema for one field. Dotted and wildcard
// field names describe nested input and are skipped; ok is false for them.
func (in Interpreter) Interpret(name string, tokens []string) (Property, bool) {
	if strings.ContainsAny(name, ".*") {
		return Property{}, false
	}
	rules := in.Rules(name, tokens)
	parent := openapi3.NewObjectSchema()
	ref := openapi3.NewSchemaRef("", openapi3.NewStringSchema())
	for _, r := range rules {
		if err := r.Describe(name, parent, ref); err != nil {
			in.Log.Warn().Str("field", name).Str("rule", fmt.Sprintf("%T", r)).Err(err).Msg("rule not documented")
		}
	}
	s := ref.Value
	if s.Example == nil {
		s.Example = FitExample(s, Sample(s, in.now()), rules)
	}
	return Property{
		Name:     name,
		Schema:   s,
		Required: slices.Contains(parent.Required, name),
		Rules:    rules,
	}, true
}

// Object assembles properties into an object schema. The required list is
// left nil when no property is required.
func Object(props ...Property) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	for _, p := range props {
		s.Properties[p.Name] = openapi3.NewSchemaRef("", p.Schema)
		if p.Required && !slices.Contains(s.Required, p.Name) {
			s.Required = append(s.Required, p.Name)
		}
	}
	return s
}
