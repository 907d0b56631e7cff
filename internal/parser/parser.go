// Package parser builds an expression tree from a token stream.
//
// Grammar, lowest precedence first:
//
//	choice  = [ concat ] { "|" concat }
//	concat  = closure { closure }
//	closure = atom [ "*" ]
//	atom    = Char | "(" [ choice ] ")"
//
// An empty input and "()" both denote the empty string.
package parser

import (
	"fmt"
	"io"

	"github.com/alecthomas/participle/v2"
	plexer "github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"

	"dfagen/ast"
	"dfagen/internal/lexer"
)

type choiceNode struct {
	Head *concatNode   `parser:"@@?"`
	Tail []*concatNode `parser:"( '|' @@ )*"`
}

type concatNode struct {
	Items []*closureNode `parser:"@@+"`
}

type closureNode struct {
	Atom *atomNode `parser:"@@"`
	Star bool      `parser:"@'*'?"`
}

type atomNode struct {
	Char  *string    `parser:"  @Char"`
	Group *groupNode `parser:"| @@"`
}

type groupNode struct {
	Body *choiceNode `parser:"'(' @@? ')'"`
}

const (
	charToken plexer.TokenType = iota + 1
	operatorToken
)

var grammar = participle.MustBuild[choiceNode](participle.Lexer(tokenDefinition{}))

// SyntaxError reports a token sequence that does not form an expression.
type SyntaxError struct {
	// Offset is the byte offset of the offending token, or the input length
	// when the expression ended early.
	Offset int
	// Found describes the offending token. Empty when Missing is set.
	Found string
	// Missing is set when the tokens ran out before the expression was
	// complete.
	Missing bool
	Detail  string
}

func (e *SyntaxError) Error() string {
	if e.Missing {
		return fmt.Sprintf("expression ended early at offset %d: %s", e.Offset, e.Detail)
	}
	return fmt.Sprintf("unexpected token %s at offset %d: %s", e.Found, e.Offset, e.Detail)
}

// Parse builds the expression tree for tokens. Single-element
// concatenations and choices collapse to their element.
func Parse(tokens []lexer.Token) (ast.Expression, error) {
	if len(tokens) == 0 {
		return ast.EmptyString{}, nil
	}
	stream := newTokenStream(tokens)
	peek, err := plexer.Upgrade(stream)
	if err != nil {
		return nil, errors.Wrap(err, "read tokens")
	}
	root, err := grammar.ParseFromLexer(peek)
	if err != nil {
		return nil, syntaxError(err, tokens, stream.end)
	}
	return root.expression(), nil
}

func syntaxError(err error, tokens []lexer.Token, end int) error {
	var perr participle.Error
	if !errors.As(err, &perr) {
		return errors.Wrap(err, "parse")
	}
	offset := perr.Position().Offset
	if offset >= end {
		return &SyntaxError{Offset: end, Missing: true, Detail: perr.Message()}
	}
	serr := &SyntaxError{Offset: offset, Detail: perr.Message()}
	for _, t := range tokens {
		if t.Offset == offset {
			serr.Found = t.String()
			break
		}
	}
	return serr
}

func (n *choiceNode) expression() ast.Expression {
	var alts []ast.Expression
	if n.Head != nil {
		alts = append(alts, n.Head.expression())
	} else {
		alts = append(alts, ast.EmptyString{})
	}
	for _, c := range n.Tail {
		alts = append(alts, c.expression())
	}
	if len(alts) == 1 {
		return alts[0]
	}
	return ast.Choice{Alternatives: alts}
}

func (n *concatNode) expression() ast.Expression {
	items := make([]ast.Expression, len(n.Items))
	for i, c := range n.Items {
		items[i] = c.expression()
	}
	if len(items) == 1 {
		return items[0]
	}
	return ast.Concatenation{Items: items}
}

func (n *closureNode) expression() ast.Expression {
	e := n.Atom.expression()
	if n.Star {
		return ast.Closure{Inner: e}
	}
	return e
}

func (n *atomNode) expression() ast.Expression {
	switch {
	case n.Char != nil:
		return ast.Char{Value: []rune(*n.Char)[0]}
	case n.Group != nil && n.Group.Body != nil:
		return n.Group.Body.expression()
	default:
		return ast.EmptyString{}
	}
}

// tokenDefinition lets participle consume tokens that were already produced
// by the lexer package. It never reads text.
type tokenDefinition struct{}

func (tokenDefinition) Symbols() map[string]plexer.TokenType {
	return map[string]plexer.TokenType{
		"EOF":      plexer.EOF,
		"Char":     charToken,
		"Operator": operatorToken,
	}
}

func (tokenDefinition) Lex(filename string, r io.Reader) (plexer.Lexer, error) {
	return nil, errors.Errorf("%s: parser reads token streams only", filename)
}

type tokenStream struct {
	tokens []lexer.Token
	next   int
	end    int
}

func newTokenStream(tokens []lexer.Token) *tokenStream {
	last := tokens[len(tokens)-1]
	return &tokenStream{tokens: tokens, end: last.Offset + last.Width()}
}

func (s *tokenStream) Next() (plexer.Token, error) {
	if s.next >= len(s.tokens) {
		return plexer.EOFToken(position(s.end)), nil
	}
	t := s.tokens[s.next]
	s.next++
	typ := operatorToken
	if t.Kind == lexer.Char {
		typ = charToken
	}
	return plexer.Token{Type: typ, Value: string(t.Value), Pos: position(t.Offset)}, nil
}

func position(offset int) plexer.Position {
	return plexer.Position{Offset: offset, Line: 1, Column: offset + 1}
}
