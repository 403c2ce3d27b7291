package manifest

import (
	"sort"
	"strings"
)

// Index resolves class names against a manifest. A name matches exactly,
// then under each configured namespace, then by a short name shared by no
// other class.
type Index struct {
	m *Manifest

	// ModelNamespaces are tried in order when a model name is unqualified.
	ModelNamespaces []string
	// ResourceNamespaces are tried in order for resource names.
	ResourceNamespaces []string
	// RequestNamespaces are tried in order for validation-rule classes.
	RequestNamespaces []string
}

// NewIndex returns an Index over m.
func NewIndex(m *Manifest) *Index {
	if m == nil {
		m = &Manifest{}
	}
	return &Index{m: m}
}

// Manifest returns the indexed manifest.
func (ix *Index) Manifest() *Manifest {
	return ix.m
}

// Controller looks up a handler class by its exact name.
func (ix *Index) Controller(name string) (*Controller, bool) {
	c, ok := ix.m.Controllers[CleanClass(name)]
	return c, ok && c != nil
}

// Request resolves a validation-rule class.
func (ix *Index) Request(name string) (string, *Request, bool) {
	return resolve(ix.m.Requests, name, ix.RequestNamespaces)
}

// Resource resolves a resource class.
func (ix *Index) Resource(name string) (string, *Resource, bool) {
	return resolve(ix.m.Resources, name, ix.ResourceNamespaces)
}

// Model resolves a model class.
func (ix *Index) Model(name string) (string, *Model, bool) {
	return resolve(ix.m.Models, name, ix.ModelNamespaces)
}

func resolve[T any](classes map[string]*T, name string, namespaces []string) (string, *T, bool) {
	name = CleanClass(name)
	if name == "" {
		return "", nil, false
	}
	if v, ok := classes[name]; ok && v != nil {
		return name, v, true
	}

	short := ShortName(name)
	for _, ns := range namespaces {
		full := strings.Trim(ns, `\`) + `\` + short
		if v, ok := classes[full]; ok && v != nil {
			return full, v, true
		}
	}

	var found []string
	for class := range classes {
		if ShortName(class) == short {
			found = append(found, class)
		}
	}
	if len(found) != 1 {
		return "", nil, false
	}
	return found[0], classes[found[0]], classes[found[0]] != nil
}

// ShortName returns the class name without its namespace.
func ShortName(class string) string {
	class = CleanClass(class)
	if i := strings.LastIndexByte(class, '\\'); i >= 0 {
		return class[i+1:]
	}
	return class
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
