package schema

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Gobd/apispec/docblock"
	"github.com/Gobd/apispec/manifest"
	"github.com/jinzhu/inflection"
)

// Relation is a relation accessor detected on a model.
type Relation struct {
	// Name is the property the relation is serialized under.
	Name string
	// Model is the resolved related class, or "" when it could not be
	// resolved.
	Model string
	Many  bool
}

type relationVerb struct {
	prefix string
	many   bool
}

// relationVerbs are the accessor name prefixes that mark a relation when
// the accessor declares no return type. Longer prefixes come first.
var relationVerbs = []relationVerb{
	{"belongsToMany", true},
	{"hasManyThrough", true},
	{"hasOneThrough", false},
	{"morphToMany", true},
	{"morphMany", true},
	{"morphOne", false},
	{"morphTo", false},
	{"belongsTo", false},
	{"hasMany", true},
	{"hasOne", false},
	{"belongs", false},
	{"morph", false},
	{"has", false},
}

// Relations detects the relation accessors of a model. A method is a
// relation when its declared return type (or, lacking one, its @return
// tag) is one of the relation classes, or when it declares no type and
// its name starts with a relation verb.
func (b *Builder) Relations(class string) []Relation {
	_, m, ok := b.ix.Model(class)
	if !ok {
		return nil
	}
	var out []Relation
	for _, method := range m.Methods {
		if rel, ok := b.relation(method); ok {
			out = append(out, rel)
		}
	}
	return out
}

func (b *Builder) relation(method manifest.ModelMethod) (Relation, bool) {
	doc := docblock.Parse(method.Doc)
	declared := docblock.ParseType(method.Returns)
	if method.Returns == "" {
		if rt, ok := doc.Return(); ok {
			declared = rt
		}
	}

	rel := Relation{Name: Snake(method.Name)}
	var candidates []string
	switch many, ok := relationType(declared); {
	case ok:
		rel.Many = many
		if declared.Container != "" {
			candidates = append(candidates, declared.Name)
		}
	case method.Returns != "" || declared.Name != "mixed":
		return Relation{}, false
	default:
		verb, rest, ok := cutVerb(method.Name)
		if !ok {
			return Relation{}, false
		}
		rel.Many = verb.many || isPlural(rest)
	}

	// The accessor's own @return tag names the target before any guess.
	if rt, ok := doc.Return(); ok {
		if _, isRel := docblock.Relation(rt.Name); !isRel && !rt.IsScalar() {
			candidates = append([]string{rt.Name}, candidates...)
		}
	}
	_, rest, _ := cutVerb(method.Name)
	candidates = append(candidates, modelName(rest))

	for _, c := range candidates {
		if class, _, ok := b.ix.Model(c); ok {
			rel.Model = class
			return rel, true
		}
	}
	b.log.Debug().Str("method", method.Name).Str("reason", "related model not found").Msg("relation")
	return rel, true
}

// relationType reports whether te names a relation class, either as the
// generic container or as the bare type.
func relationType(te docblock.TypeExpr) (many, ok bool) {
	if te.Container != "" {
		if many, ok := docblock.Relation(te.Container); ok {
			return many, true
		}
	}
	return docblock.Relation(te.Name)
}

// cutVerb strips a relation verb prefix from an accessor name. The prefix
// must be followed by an upper-case letter. Names without a verb are
// returned whole with ok false.
func cutVerb(name string) (verb relationVerb, rest string, ok bool) {
	for _, v := range relationVerbs {
		if len(name) <= len(v.prefix) || !strings.HasPrefix(name, v.prefix) {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(name[len(v.prefix):]); unicode.IsUpper(r) {
			return v, name[len(v.prefix):], true
		}
	}
	return verb, name, false
}

func isPlural(name string) bool {
	return inflection.Singular(name) != name
}

// modelName turns an accessor name such as "comments" or "BlogPosts" into
// the class name it most likely refers to: "Comment", "BlogPost".
func modelName(name string) string {
	name = inflection.Singular(name)
	r, size := utf8.DecodeRuneInString(name)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
