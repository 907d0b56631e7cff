package dfagen

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"dfagen/ast"
)

func TestGenerateDFA(t *testing.T) {
	tests := []struct {
		expression string
		alphabet   string
		accept     []string
		reject     []string
	}{
		{"", "ab", []string{""}, []string{"a"}},
		{"()", "ab", []string{""}, []string{"a"}},
		{"a", "ab", []string{"a"}, []string{"", "b", "aa"}},
		{"a*", "a", []string{"", "a", "aaaa"}, []string{"b"}},
		{"ab*", "ab", []string{"a", "ab", "abbb"}, []string{"", "b", "aba"}},
		{"(ab)*", "ab", []string{"", "ab", "abab"}, []string{"a", "aba", "b"}},
		{"a()", "a", []string{"a"}, []string{"", "aa"}},
		{"|a", "a", []string{"", "a"}, []string{"aa"}},
		{"a(b|c)*", "abc", []string{"a", "abcb", "accc"}, []string{"", "b", "abca"}},
		{"a(a|b)*b|b(a|b)*a", "ab", []string{"abbabababb", "ba", "baaba"}, []string{"abbabababba", "a", ""}},
		{"(🦀⟹)*", "🦀⟹", []string{"", "🦀⟹", "🦀⟹🦀⟹"}, []string{"🦀", "⟹🦀"}},
	}

	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			d, err := GenerateDFA(tt.expression, tt.alphabet)
			require.NoError(t, err)
			for _, in := range tt.accept {
				require.True(t, d.Evaluate(in), "should accept %q", in)
			}
			for _, in := range tt.reject {
				require.False(t, d.Evaluate(in), "should reject %q", in)
			}
		})
	}
}

func TestGenerateDFAShape(t *testing.T) {
	d, err := GenerateDFA("ab|ba", "ab")
	require.NoError(t, err)

	want := &DFA{
		NumStates: 4,
		Accepting: map[int]bool{3: true},
		Transitions: map[int]map[rune]int{
			0: {'a': 1, 'b': 2},
			1: {'b': 3},
			2: {'a': 3},
		},
	}
	require.True(t, d.Isomorphic(want))
	require.Equal(t, want.Transitions, d.Transitions)
}

func TestGenerateDFAErrors(t *testing.T) {
	t.Run("unmatchable character", func(t *testing.T) {
		_, err := GenerateDFA("az", "ab")
		var gerr *GenerationError
		require.ErrorAs(t, err, &gerr)
		require.Equal(t, StageLexical, gerr.Stage)

		var unmatchable *UnmatchableCharacterError
		require.ErrorAs(t, err, &unmatchable)
		require.Equal(t, 'z', unmatchable.Char)
		require.Equal(t, 1, unmatchable.Offset)
	})

	t.Run("reserved alphabet character", func(t *testing.T) {
		_, err := GenerateDFA("a", "a*")
		var gerr *GenerationError
		require.ErrorAs(t, err, &gerr)
		require.Equal(t, StageLexical, gerr.Stage)

		var reserved *ReservedTokenError
		require.ErrorAs(t, err, &reserved)
		require.Equal(t, '*', reserved.Char)
	})

	t.Run("syntax", func(t *testing.T) {
		for _, expression := range []string{"*", "()**", "a)", "(a", "a|"} {
			_, err := GenerateDFA(expression, "a")
			var gerr *GenerationError
			require.ErrorAs(t, err, &gerr, expression)
			require.Equal(t, StageSyntactic, gerr.Stage, expression)

			var serr *SyntaxError
			require.ErrorAs(t, err, &serr, expression)
		}
	})

	t.Run("invalid tree", func(t *testing.T) {
		_, err := GenerateFromExpression(ast.Concatenation{})
		var gerr *GenerationError
		require.ErrorAs(t, err, &gerr)
		require.Equal(t, StageAnnotation, gerr.Stage)
		require.ErrorIs(t, err, ErrInvalidExpression)
	})
}

func TestEvaluateOutsideAlphabet(t *testing.T) {
	d := MustGenerateDFA("a*", "ab")
	require.False(t, d.Evaluate("z"))
	require.False(t, d.Evaluate("aza"))
}

func TestMustGenerateDFAPanics(t *testing.T) {
	require.Panics(t, func() { MustGenerateDFA("a)", "a") })
}

func TestGenerateFromExpression(t *testing.T) {
	tree := ast.Concatenation{Items: []ast.Expression{
		ast.Char{Value: 'a'},
		ast.Closure{Inner: ast.Char{Value: 'b'}},
	}}
	fromTree, err := GenerateFromExpression(tree)
	require.NoError(t, err)

	fromText := MustGenerateDFA(tree.String(), "ab")
	require.True(t, fromTree.Isomorphic(fromText))
}

func TestWithLegacyLastPos(t *testing.T) {
	legacy := MustGenerateDFA("(ab)*", "ab", WithLegacyLastPos())
	require.True(t, legacy.Evaluate("a"))
	require.False(t, MustGenerateDFA("(ab)*", "ab").Evaluate("a"))
}

func TestWithLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	MustGenerateDFA("ab*", "ab", WithLogger(log))

	var messages []string
	for _, e := range hook.AllEntries() {
		messages = append(messages, e.Message)
	}
	require.Contains(t, messages, "parsed expression")
	require.Contains(t, messages, "state discovered")
	require.Contains(t, messages, "transition")
	require.Contains(t, messages, "generated automaton")
}

func TestConcurrentEvaluate(t *testing.T) {
	d := MustGenerateDFA("a(a|b)*b", "ab")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				require.True(t, d.Evaluate("abab"))
				require.False(t, d.Evaluate("aba"))
			}
		}()
	}
	wg.Wait()
}
