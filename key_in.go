package apispec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// KeyIn ensures that the keys of a map are in the allowed values. The
// property is documented as an object.
func KeyIn(values ...string) Rule {
	return &keyInRule{values}
}

type keyInRule struct {
	values []string
}

func (r *keyInRule) Describe(_ string, _ *openapi3.Schema, ref *openapi3.SchemaRef) error {
	s := ref.Value
	s.Type = &openapi3.Types{openapi3.TypeObject}
	s.Format = ""
	s.Items = nil
	if s.Properties == nil {
		s.Properties = openapi3.Schemas{}
	}
	appendDescription(s, fmt.Sprintf("keys must be in (%s)", strings.Join(r.values, ",")))
	return nil
}

func (r *keyInRule) Validate(value any) error {
	if value == nil {
		return nil
	}
	validKeys := map[string]bool{}
	for _, v := range r.values {
		validKeys[v] = true
	}

	var jsonmap map[string]any
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, &jsonmap); err != nil {
		return fmt.Errorf("must be an object")
	}

	for k := range jsonmap {
		if !validKeys[k] {
			return fmt.Errorf("key '%s' not allowed", k)
		}
	}
	return nil
}
