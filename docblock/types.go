package docblock

import (
	"strings"
)

// TypeExpr is a parsed type expression such as "?int", "Post[]",
// "Collection<Post>", "array<int, Post>" or "HasMany<Post>|null".
type TypeExpr struct {
	// Name is the element type with any leading namespace separator removed.
	Name string
	// Container is the generic wrapper, e.g. "Collection" or "HasMany".
	Container string
	// Array is set for "T[]", "array<T>", "list<T>" and collection wrappers.
	Array    bool
	Nullable bool
}

// ParseType parses a type expression. Unions pick the first non-null
// member; "null" anywhere in the union makes the type nullable.
func ParseType(expr string) TypeExpr {
	var te TypeExpr
	expr = strings.TrimSpace(expr)
	if strings.HasPrefix(expr, "?") {
		te.Nullable = true
		expr = expr[1:]
	}

	var picked string
	for _, member := range splitUnion(expr) {
		member = strings.TrimSpace(member)
		if strings.EqualFold(member, "null") {
			te.Nullable = true
			continue
		}
		// "Collection|Post[]" documents the element type in the second member.
		if picked == "" || (isCollection(baseName(picked)) && strings.HasSuffix(member, "[]")) {
			picked = member
		}
	}
	if picked == "" {
		picked = "mixed"
	}

	if strings.HasSuffix(picked, "[]") {
		te.Array = true
		te.Name = trimNamespace(strings.TrimSuffix(picked, "[]"))
		return te
	}

	if open := strings.IndexByte(picked, '<'); open > 0 && strings.HasSuffix(picked, ">") {
		te.Container = trimNamespace(picked[:open])
		args := splitTopLevel(picked[open+1:len(picked)-1], ',')
		arg := args[0]
		if isCollection(te.Container) {
			arg = args[len(args)-1]
		}
		te.Name = trimNamespace(arg)
		te.Array = isCollection(te.Container) || isToMany(te.Container)
		if inner := ParseType(te.Name); inner.Array && inner.Name != "" {
			te.Name = inner.Name
		}
		return te
	}

	te.Name = trimNamespace(picked)
	if isCollection(te.Name) {
		te.Container = te.Name
		te.Array = true
		te.Name = "mixed"
	}
	return te
}

// IsScalar reports whether the element type is a builtin rather than a class.
func (te TypeExpr) IsScalar() bool {
	switch strings.ToLower(te.Name) {
	case "int", "integer", "float", "double", "bool", "boolean", "string",
		"array", "object", "mixed", "numeric", "number", "null", "callable",
		"iterable", "void", "resource", "self", "static", "true", "false", "":
		return true
	}
	return false
}

// isCollection reports whether name is a list-like wrapper whose last
// generic argument is the element type.
func isCollection(name string) bool {
	switch strings.ToLower(name) {
	case "array", "list", "iterable", "collection", "eloquentcollection",
		"paginator", "lengthawarepaginator", "cursorpaginator":
		return true
	}
	return false
}

// relationTypes maps the recognized relation classes to whether they
// are to-many.
var relationTypes = map[string]bool{
	"HasOne":         false,
	"BelongsTo":      false,
	"MorphOne":       false,
	"MorphTo":        false,
	"HasOneThrough":  false,
	"HasMany":        true,
	"BelongsToMany":  true,
	"MorphMany":      true,
	"MorphToMany":    true,
	"HasManyThrough": true,
}

// Relation reports whether typeName (namespace allowed) is a relation
// class and, if so, whether it is to-many.
func Relation(typeName string) (many, ok bool) {
	many, ok = relationTypes[trimNamespace(typeName)]
	return many, ok
}

func isToMany(container string) bool {
	return relationTypes[container]
}

func baseName(s string) string {
	if i := strings.IndexAny(s, "<["); i > 0 {
		s = s[:i]
	}
	return trimNamespace(s)
}

func trimNamespace(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, `\`); i >= 0 {
		return s[i+1:]
	}
	return s
}

// splitUnion splits on "|" outside angle brackets.
func splitUnion(expr string) []string {
	return splitTopLevel(expr, '|')
}

func splitTopLevel(s string, sep byte) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '{', '(':
			depth++
		case '>', '}', ')':
			depth--
		case sep:
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

// splitTypeAndRest splits "Type rest of line" at the first space outside
// angle brackets.
func splitTypeAndRest(s string) (string, string) {
	s = strings.TrimSpace(s)
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '{', '(':
			depth++
		case '>', '}', ')':
			depth--
		case ' ', '\t':
			if depth == 0 {
				return s[:i], strings.TrimSpace(s[i+1:])
			}
		}
	}
	return s, ""
}
