package schema

import (
	"regexp"
	"strings"
)

// The scanners below read source text, not a parse tree. They recognize a
// handful of literal patterns and return nothing when those are absent,
// which callers treat as "no information".

// Returned is a resource class a handler returns.
type Returned struct {
	Class      string
	Collection bool
}

var returnPattern = regexp.MustCompile(`return\s+(?:new\s+\\?([A-Za-z_][\w\\]*)\s*\(|\\?([A-Za-z_][\w\\]*)::(collection|make)\s*\()`)

// ScanReturns finds "return new X(...)", "return X::make(...)" and
// "return X::collection(...)" statements in source order.
func ScanReturns(source string) []Returned {
	var out []Returned
	for _, m := range returnPattern.FindAllStringSubmatch(source, -1) {
		if m[1] != "" {
			out = append(out, Returned{Class: m[1]})
			continue
		}
		out = append(out, Returned{Class: m[2], Collection: m[3] == "collection"})
	}
	return out
}

// Entry is one key of the literal array a transformation method returns.
type Entry struct {
	Key string
	// Field is the model attribute the value reads, if any.
	Field string
	// Resource is the resource class the value is wrapped in, if any.
	Resource   string
	Collection bool
}

var (
	entryPattern     = regexp.MustCompile(`['"]([A-Za-z_][\w]*)['"]\s*=>\s*([^\n]*)`)
	whenLoaded       = regexp.MustCompile(`whenLoaded\(\s*['"](\w+)['"]`)
	attributePattern = regexp.MustCompile(`\$this->(?:resource->)?([A-Za-z_]\w*)(\s*\()?`)
	wrapPattern      = regexp.MustCompile(`(?:new\s+\\?([A-Za-z_][\w\\]*)\s*\(|\\?([A-Za-z_][\w\\]*)::(collection|make)\s*\()`)
)

// ScanArray reads the "key => value" pairs of a transformation method
// body. It returns nil when the body defers to the parent
// transformation or has no literal keys.
func ScanArray(source string) []Entry {
	if strings.Contains(source, "parent::toArray") {
		return nil
	}
	var out []Entry
	seen := map[string]bool{}
	for _, m := range entryPattern.FindAllStringSubmatch(source, -1) {
		key, value := m[1], m[2]
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, scanEntry(key, value))
	}
	return out
}

func scanEntry(key, value string) Entry {
	e := Entry{Key: key}
	if w := wrapPattern.FindStringSubmatch(value); w != nil {
		if w[1] != "" {
			e.Resource = w[1]
		} else {
			e.Resource = w[2]
			e.Collection = w[3] == "collection"
		}
	}
	if l := whenLoaded.FindStringSubmatch(value); l != nil {
		e.Field = l[1]
		return e
	}
	for _, a := range attributePattern.FindAllStringSubmatch(value, -1) {
		if a[2] == "" {
			e.Field = a[1]
			break
		}
	}
	return e
}
