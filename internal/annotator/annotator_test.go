package annotator

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"dfagen/ast"
)

func chars(s string) []ast.Expression {
	var out []ast.Expression
	for _, r := range s {
		out = append(out, ast.Char{Value: r})
	}
	return out
}

// annotated returns the user expression below the synthetic terminal
// concatenation.
func annotated(t *testing.T, e ast.Expression, opts ...Option) (*Context, *Node) {
	t.Helper()
	ctx, err := Annotate(e, opts...)
	require.NoError(t, err)
	root := ctx.RootNode()
	require.Equal(t, KindConcatenation, root.Kind)
	require.Len(t, root.Children, 2)
	require.Equal(t, KindTerminal, ctx.Node(root.Children[1]).Kind)
	return ctx, ctx.Node(root.Children[0])
}

func TestAnnotateNodes(t *testing.T) {
	tests := []struct {
		name     string
		expr     ast.Expression
		nullable bool
		first    []int
		last     []int
	}{
		{"char", ast.Char{Value: 'a'}, false, []int{0}, []int{0}},
		{"empty string", ast.EmptyString{}, true, []int{}, []int{}},
		{"concatenation", ast.Concatenation{Items: chars("ab")}, false, []int{0}, []int{1}},
		{"nullable choice", ast.Choice{Alternatives: items(ast.EmptyString{}, ast.Char{Value: 'a'})}, true, []int{1}, []int{1}},
		{"choice", ast.Choice{Alternatives: chars("ab")}, false, []int{0, 1}, []int{0, 1}},
		{"closure", ast.Closure{Inner: ast.Char{Value: 'a'}}, true, []int{0}, []int{0}},
		{"closure over concatenation", ast.Closure{Inner: ast.Concatenation{Items: chars("ab")}}, true, []int{0}, []int{1}},
		{"concatenation ending in closure", ast.Concatenation{Items: items(ast.Char{Value: 'a'}, ast.Closure{Inner: ast.Char{Value: 'b'}})}, false, []int{0}, []int{0, 1}},
		{"concatenation starting with closure", ast.Concatenation{Items: items(ast.Closure{Inner: ast.Char{Value: 'a'}}, ast.Char{Value: 'b'})}, false, []int{0, 1}, []int{1}},
		{"empty choice", ast.Choice{}, false, []int{}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, n := annotated(t, tt.expr)
			require.Equal(t, tt.nullable, n.Nullable)
			require.Equal(t, tt.first, n.First.Positions())
			require.Equal(t, tt.last, n.Last.Positions())
		})
	}
}

func items(e ...ast.Expression) []ast.Expression { return e }

func TestAnnotateLegacyLastPos(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expression
		last []int
	}{
		{"closure over concatenation", ast.Closure{Inner: ast.Concatenation{Items: chars("ab")}}, []int{0}},
		{"concatenation ending in closure", ast.Concatenation{Items: items(ast.Char{Value: 'a'}, ast.Closure{Inner: ast.Char{Value: 'b'}})}, []int{1}},
		{"closure over char", ast.Closure{Inner: ast.Char{Value: 'a'}}, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, n := annotated(t, tt.expr, WithLegacyLastPos())
			require.Equal(t, tt.last, n.Last.Positions())
		})
	}
}

func TestAnnotateTerminal(t *testing.T) {
	t.Run("not nullable", func(t *testing.T) {
		ctx, _ := annotated(t, ast.Char{Value: 'a'})
		root := ctx.RootNode()
		require.Equal(t, 1, ctx.Terminal())
		require.False(t, root.Nullable)
		require.Equal(t, []int{0}, root.First.Positions())
		require.Equal(t, []int{1}, root.Last.Positions())
	})

	t.Run("nullable", func(t *testing.T) {
		ctx, _ := annotated(t, ast.Closure{Inner: ast.Char{Value: 'a'}})
		root := ctx.RootNode()
		require.Equal(t, 1, ctx.Terminal())
		require.False(t, root.Nullable)
		require.Equal(t, []int{0, 1}, root.First.Positions())
		require.Equal(t, []int{1}, root.Last.Positions())

		ctx, _ = annotated(t, ast.Closure{Inner: ast.Char{Value: 'a'}}, WithLegacyLastPos())
		require.Equal(t, []int{0, 1}, ctx.RootNode().Last.Positions())
	})

	t.Run("empty string", func(t *testing.T) {
		ctx, _ := annotated(t, ast.EmptyString{})
		root := ctx.RootNode()
		require.Equal(t, 1, ctx.Terminal())
		require.Equal(t, []int{1}, root.First.Positions())
		require.Equal(t, []int{1}, root.Last.Positions())
	})
}

func TestAnnotateLeafTable(t *testing.T) {
	expr := ast.Choice{Alternatives: items(
		ast.Char{Value: 'a'},
		ast.Concatenation{Items: items(ast.Char{Value: 'b'}, ast.EmptyString{})},
	)}
	ctx, err := Annotate(expr)
	require.NoError(t, err)
	require.Len(t, ctx.Leaves, 4)

	want := []struct {
		kind Kind
		char rune
	}{
		{KindChar, 'a'},
		{KindChar, 'b'},
		{KindEmptyString, 0},
		{KindTerminal, 0},
	}
	for p, w := range want {
		leaf := ctx.Leaf(p)
		require.True(t, leaf.IsLeaf())
		require.Equal(t, p, leaf.Position)
		require.Equal(t, w.kind, leaf.Kind, "position %d", p)
		require.Equal(t, w.char, leaf.Char, "position %d", p)
	}
}

func TestAnnotateInvalidExpression(t *testing.T) {
	tests := []ast.Expression{
		ast.Concatenation{},
		ast.Closure{Inner: ast.Concatenation{}},
		ast.Choice{Alternatives: items(ast.Char{Value: 'a'}, ast.Concatenation{Items: items(ast.Concatenation{})})},
	}
	for _, expr := range tests {
		_, err := Annotate(expr)
		require.True(t, errors.Is(err, ErrInvalidExpression), "got %v", err)
	}
}

func TestAnnotateNodeOverflow(t *testing.T) {
	expr := ast.Concatenation{Items: chars("ab")}

	_, err := Annotate(expr, WithCapacity(2))
	var overflow *NodeOverflowError
	require.True(t, errors.As(err, &overflow), "got %v", err)
	require.Equal(t, 2, overflow.Size)

	_, err = Annotate(expr, WithCapacity(1))
	require.True(t, errors.As(err, &overflow), "got %v", err)

	ctx, err := Annotate(expr, WithCapacity(3))
	require.NoError(t, err)
	require.Equal(t, 2, ctx.Terminal())
}
