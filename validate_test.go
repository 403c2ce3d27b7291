package apispec_test

import (
	"errors"
	"strings"
	"testing"

	v "github.com/Gobd/apispec"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type valItem struct {
	Name string `json:"name"`
}

func (i *valItem) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&i.Name, v.Required, v.Length(1, 10)),
	}
}

type valParent struct {
	Title    string    `json:"title"`
	Children []valItem `json:"children"`
}

func (p *valParent) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&p.Title, v.Required),
		v.Field(&p.Children, v.Unique(func(a any) any { return a.(valItem).Name })),
	}
}

type valBase struct {
	ID string `json:"id"`
}

func (b *valBase) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&b.ID, v.Required),
	}
}

type valWithEmbed struct {
	valBase
	Value string `json:"value"`
}

func (w *valWithEmbed) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&w.valBase),
		v.Field(&w.Value, v.Required),
	}
}

type httpMethod string

func (m httpMethod) ValueRules() []v.Rule {
	return []v.Rule{v.In(httpMethod("GET"), httpMethod("POST"))}
}

type valRoute struct {
	Method httpMethod `json:"method"`
	Path   string     `json:"path"`
}

func (r *valRoute) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&r.Method, v.Required),
		v.Field(&r.Path, v.Required, v.NewStringRule(func(s string) bool {
			return strings.HasPrefix(s, "/")
		}, "must start with /")),
	}
}

func (r *valRoute) Normalize() {
	r.Method = httpMethod(strings.ToUpper(string(r.Method)))
}

type rangeCheck struct {
	Count int     `json:"count"`
	Ratio float64 `json:"ratio"`
	Tags  []string
}

func (c *rangeCheck) Rules() []*v.FieldRules {
	return []*v.FieldRules{
		v.Field(&c.Count, v.Min(1), v.Max(10)),
		v.Field(&c.Ratio, v.Between(0, 1)),
		v.Field(&c.Tags, v.Max(2), v.Distinct()),
	}
}

func TestValidate_Ruler(t *testing.T) {
	assert.NoError(t, v.Validate(&valItem{Name: "test"}))

	err := v.Validate(&valItem{})
	require.Error(t, err)
	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "name")

	assert.Error(t, v.Validate(&valItem{Name: "much too long"}))
}

func TestValidate_NonRuler(t *testing.T) {
	assert.NoError(t, v.Validate("anything"))
	assert.NoError(t, v.Validate(nil))
	assert.NoError(t, v.Validate((*valItem)(nil)))
}

func TestValidate_Slice(t *testing.T) {
	items := []valItem{{Name: "alpha"}, {Name: ""}}
	err := v.Validate(&items)
	require.Error(t, err)

	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "1")
}

func TestValidate_Map(t *testing.T) {
	items := map[string]*valItem{"a": {Name: "alpha"}, "b": {}}
	err := v.Validate(items)
	require.Error(t, err)

	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "b")
	assert.NotContains(t, errs, "a")
}

func TestValidate_NestedChildren(t *testing.T) {
	p := valParent{Title: "t", Children: []valItem{{Name: "a"}, {Name: "b"}}}
	assert.NoError(t, v.Validate(&p))

	p.Children[1].Name = ""
	err := v.Validate(&p)
	require.Error(t, err)
	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "children")

	p.Children[1].Name = "a"
	err = v.Validate(&p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicates")
}

func TestValidate_Embedded(t *testing.T) {
	err := v.Validate(&valWithEmbed{Value: "x"})
	require.Error(t, err)

	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs, "id")
	assert.NoError(t, v.Validate(&valWithEmbed{valBase: valBase{ID: "1"}, Value: "x"}))
}

func TestValidate_ValueRuler(t *testing.T) {
	assert.NoError(t, v.Validate(&valRoute{Method: "GET", Path: "/a"}))
	assert.Error(t, v.Validate(&valRoute{Method: "PATCH", Path: "/a"}))
	assert.Error(t, v.Validate(&valRoute{Method: "GET", Path: "a"}))
}

func TestNormalizeAndValidate(t *testing.T) {
	r := valRoute{Method: "get", Path: "/a"}
	require.NoError(t, v.NormalizeAndValidate(&r))
	assert.Equal(t, httpMethod("GET"), r.Method)
}

func TestValidate_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		in      rangeCheck
		wantErr bool
	}{
		{name: "valid", in: rangeCheck{Count: 3, Ratio: 0.5, Tags: []string{"a"}}},
		{name: "zero skipped", in: rangeCheck{}},
		{name: "count too large", in: rangeCheck{Count: 11}, wantErr: true},
		{name: "ratio too large", in: rangeCheck{Ratio: 1.5}, wantErr: true},
		{name: "too many tags", in: rangeCheck{Tags: []string{"a", "b", "c"}}, wantErr: true},
		{name: "duplicate tags", in: rangeCheck{Tags: []string{"a", "a"}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBoundRule_Validate(t *testing.T) {
	assert.Error(t, v.Min(3).Validate("ab"))
	assert.NoError(t, v.Min(3).Validate("abc"))
	assert.NoError(t, v.Max(3).Validate("äöü"))
	assert.Error(t, v.Min(0).Validate(-1))
	assert.NoError(t, v.Min("1.5").Validate(2))
	assert.Error(t, v.Max(2).Validate([]int{1, 2, 3}))
	assert.NoError(t, v.Size(2).Validate("ab"))
	assert.Error(t, v.Size(2).Validate("abc"))
	assert.NoError(t, v.Min(3).Validate(nil))
	assert.Error(t, v.Min(3).Validate(struct{ A int }{1}))
}
