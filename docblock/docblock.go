// Package docblock parses documentation comments of the host application:
// free-text summaries and descriptions, "@tag value" annotations and the
// type expressions those annotations carry.
package docblock

import (
	"strings"
)

// Tag is one "@name value" annotation. Value holds the rest of the line
// plus any continuation lines.
type Tag struct {
	Name  string
	Value string
}

// Block is a parsed doc comment.
type Block struct {
	// Summary is the first paragraph of the description.
	Summary string
	// Description is the whole comment without its tag lines.
	Description string
	Tags        []Tag
}

// Parse splits a doc comment into description and tags. Comment markers
// ("/**", "*/", leading "*" and "//") are stripped. Text following a tag
// on the next lines belongs to that tag until a blank line or the next tag.
func Parse(doc string) Block {
	var (
		b       Block
		text    []string
		current = -1
	)
	for _, line := range strings.Split(doc, "\n") {
		line = cleanLine(line)
		switch {
		case strings.HasPrefix(line, "@"):
			for _, part := range splitInlineTags(line) {
				name, value, _ := strings.Cut(part[1:], " ")
				b.Tags = append(b.Tags, Tag{Name: strings.ToLower(strings.TrimSpace(name)), Value: strings.TrimSpace(value)})
			}
			current = len(b.Tags) - 1
		case line == "":
			current = -1
			text = append(text, "")
		case current >= 0:
			t := &b.Tags[current]
			t.Value = strings.TrimSpace(t.Value + " " + line)
		default:
			text = append(text, line)
		}
	}
	b.Description = strings.TrimSpace(collapseBlank(text))
	b.Summary, _, _ = strings.Cut(b.Description, "\n\n")
	b.Summary = strings.Join(strings.Fields(b.Summary), " ")
	return b
}

// splitInlineTags splits "@var string @enum {a,b}" into one part per tag.
// A tag starts at an "@" preceded by a space and followed by a letter.
func splitInlineTags(line string) []string {
	var parts []string
	start := 0
	for i := 1; i+1 < len(line); i++ {
		if line[i] == '@' && line[i-1] == ' ' && isLetter(line[i+1]) {
			parts = append(parts, strings.TrimSpace(line[start:i]))
			start = i
		}
	}
	return append(parts, strings.TrimSpace(line[start:]))
}

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "/**")
	line = strings.TrimPrefix(line, "/*")
	line = strings.TrimSuffix(line, "*/")
	line = strings.TrimPrefix(strings.TrimSpace(line), "//")
	line = strings.TrimLeft(strings.TrimSpace(line), "*")
	return strings.TrimSpace(line)
}

// collapseBlank joins lines, keeping at most one blank line between paragraphs.
func collapseBlank(lines []string) string {
	var out []string
	for _, l := range lines {
		if l == "" && (len(out) == 0 || out[len(out)-1] == "") {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}

// Tag returns the value of the first tag with the given name.
func (b Block) Tag(name string) (string, bool) {
	for _, t := range b.Tags {
		if t.Name == name {
			return t.Value, true
		}
	}
	return "", false
}

// Has reports whether the block carries the tag.
func (b Block) Has(name string) bool {
	_, ok := b.Tag(name)
	return ok
}

// All returns the values of every tag with the given name, in order.
func (b Block) All(name string) []string {
	var out []string
	for _, t := range b.Tags {
		if t.Name == name {
			out = append(out, t.Value)
		}
	}
	return out
}

// Return parses the "@return" tag.
func (b Block) Return() (TypeExpr, bool) {
	v, ok := b.Tag("return")
	if !ok {
		return TypeExpr{}, false
	}
	typ, _ := splitTypeAndRest(v)
	if typ == "" {
		return TypeExpr{}, false
	}
	return ParseType(typ), true
}

// Mixins returns the class names named by "@mixin" tags.
func (b Block) Mixins() []string {
	var out []string
	for _, v := range b.All("mixin") {
		if f := strings.Fields(v); len(f) > 0 {
			out = append(out, f[0])
		}
	}
	return out
}
