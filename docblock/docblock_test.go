package docblock_test

import (
	"testing"

	"github.com/Gobd/apispec/docblock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	b := docblock.Parse(`/**
	 * List products.
	 * Sorted by name.
	 *
	 * Supports filtering by category.
	 *
	 * @return ProductResource[] the page
	 * @throws ModelNotFoundException
	 *         when the category is unknown
	 * @deprecated
	 */`)

	assert.Equal(t, "List products. Sorted by name.", b.Summary)
	assert.Equal(t, "List products.\nSorted by name.\n\nSupports filtering by category.", b.Description)
	require.Len(t, b.Tags, 3)
	assert.Equal(t, docblock.Tag{Name: "throws", Value: "ModelNotFoundException when the category is unknown"}, b.Tags[1])
	assert.True(t, b.Has("deprecated"))
	assert.False(t, b.Has("internal"))

	ret, ok := b.Return()
	require.True(t, ok)
	assert.Equal(t, docblock.TypeExpr{Name: "ProductResource", Array: true}, ret)
}

func TestParse_LineComments(t *testing.T) {
	b := docblock.Parse("// Show a product.\n// @mixin \\App\\Models\\Product")
	assert.Equal(t, "Show a product.", b.Summary)
	assert.Equal(t, []string{`\App\Models\Product`}, b.Mixins())
}

func TestParse_Empty(t *testing.T) {
	b := docblock.Parse("")
	assert.Empty(t, b.Description)
	assert.Empty(t, b.Tags)
	_, ok := b.Return()
	assert.False(t, ok)
}

func TestParseType(t *testing.T) {
	tests := []struct {
		expr string
		want docblock.TypeExpr
	}{
		{"int", docblock.TypeExpr{Name: "int"}},
		{"?string", docblock.TypeExpr{Name: "string", Nullable: true}},
		{"string|null", docblock.TypeExpr{Name: "string", Nullable: true}},
		{"null|Post", docblock.TypeExpr{Name: "Post", Nullable: true}},
		{"Post[]", docblock.TypeExpr{Name: "Post", Array: true}},
		{`\App\Models\Post[]`, docblock.TypeExpr{Name: "Post", Array: true}},
		{"Collection<Post>", docblock.TypeExpr{Name: "Post", Container: "Collection", Array: true}},
		{"Collection<int, Post>", docblock.TypeExpr{Name: "Post", Container: "Collection", Array: true}},
		{"array<int, string>", docblock.TypeExpr{Name: "string", Container: "array", Array: true}},
		{"Collection|Post[]", docblock.TypeExpr{Name: "Post", Array: true}},
		{"HasMany<Comment, Post>", docblock.TypeExpr{Name: "Comment", Container: "HasMany", Array: true}},
		{"BelongsTo<User>", docblock.TypeExpr{Name: "User", Container: "BelongsTo"}},
		{"array", docblock.TypeExpr{Name: "mixed", Container: "array", Array: true}},
		{"", docblock.TypeExpr{Name: "mixed"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			assert.Equal(t, tt.want, docblock.ParseType(tt.expr))
		})
	}
}

func TestTypeExpr_IsScalar(t *testing.T) {
	assert.True(t, docblock.ParseType("?int").IsScalar())
	assert.True(t, docblock.ParseType("string[]").IsScalar())
	assert.False(t, docblock.ParseType("Post[]").IsScalar())
}

func TestRelation(t *testing.T) {
	many, ok := docblock.Relation("HasMany")
	assert.True(t, ok)
	assert.True(t, many)

	many, ok = docblock.Relation(`Illuminate\Database\Eloquent\Relations\BelongsTo`)
	assert.True(t, ok)
	assert.False(t, many)

	_, ok = docblock.Relation("Builder")
	assert.False(t, ok)
}

func TestScalarAndEnum(t *testing.T) {
	assert.Equal(t, 42, docblock.Scalar("42"))
	assert.Equal(t, 9.99, docblock.Scalar("9.99"))
	assert.Equal(t, true, docblock.Scalar("true"))
	assert.Equal(t, "Widget Pro", docblock.Scalar("Widget Pro"))
	assert.Equal(t, "2024-01-01", docblock.Scalar("2024-01-01"))
	assert.Equal(t, "2024-01-01T10:00:00Z", docblock.Scalar(" 2024-01-01T10:00:00Z "))
	assert.Equal(t, "a: b", docblock.Scalar("a: b"))
	assert.Equal(t, "42", docblock.Scalar(`"42"`))
	assert.Nil(t, docblock.Scalar("null"))
	assert.Equal(t, "quoted", docblock.Scalar(`"quoted"`))

	assert.Equal(t, []any{"draft", "published"}, docblock.Enum("{draft, published}"))
	assert.Equal(t, []any{1, 2}, docblock.Enum("[1,2]"))
	assert.Equal(t, []any{"a", "b"}, docblock.Enum(`'a', "b"`))
}
