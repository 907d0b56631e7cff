// Package dfagen compiles regular expressions straight into deterministic
// finite automata, without an intermediate NFA.
//
// An expression is written over a caller-supplied alphabet using four
// operators: "|" for choice, "*" for closure and parentheses for grouping.
// Adjacent terms are concatenated. "()" is the empty string.
//
//	d, err := dfagen.GenerateDFA("a(b|c)*", "abc")
//	if err != nil {
//		return err
//	}
//	d.Evaluate("abcb") // true
package dfagen

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"dfagen/ast"
	"dfagen/internal/annotator"
	"dfagen/internal/dfa"
	"dfagen/internal/lexer"
	"dfagen/internal/parser"
)

// DFA is a compiled automaton. It is immutable and safe for concurrent use.
type DFA = dfa.DFA

type (
	UnmatchableCharacterError = lexer.UnmatchableCharacterError
	ReservedTokenError        = lexer.ReservedTokenError
	SyntaxError               = parser.SyntaxError
	NodeOverflowError         = annotator.NodeOverflowError
)

// ErrInvalidExpression is returned for a hand-built tree that contains an
// empty concatenation or a node type this package does not know.
var ErrInvalidExpression = annotator.ErrInvalidExpression

// Stage names the step of compilation that failed.
type Stage string

const (
	StageLexical    Stage = "lexical"
	StageSyntactic  Stage = "syntactic"
	StageAnnotation Stage = "annotation"
)

// GenerationError wraps any error raised while compiling an expression.
// Use errors.As on Err to reach the typed cause.
type GenerationError struct {
	Stage Stage
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

type options struct {
	log        logrus.FieldLogger
	annotation []annotator.Option
}

type Option func(*options)

// WithLogger traces compilation at debug level.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

// WithLegacyLastPos compiles with the lastpos rules of the first release,
// where a closure ends where its child starts. Some expressions, (ab)* for
// one, then accept strings they should not.
func WithLegacyLastPos() Option {
	return func(o *options) { o.annotation = append(o.annotation, annotator.WithLegacyLastPos()) }
}

// GenerateDFA compiles expression over alphabet. Characters of expression
// that are neither operators nor in alphabet are a lexical error, and so is
// an alphabet that contains an operator.
func GenerateDFA(expression, alphabet string, opts ...Option) (*DFA, error) {
	o := newOptions(opts)

	tokens, err := tokenize(expression, alphabet)
	if err != nil {
		return nil, &GenerationError{Stage: StageLexical, Err: err}
	}
	tree, err := parser.Parse(tokens)
	if err != nil {
		return nil, &GenerationError{Stage: StageSyntactic, Err: err}
	}
	o.log.WithField("tree", tree.String()).Debug("parsed expression")
	return generate(tree, o)
}

// MustGenerateDFA is like GenerateDFA but panics on error.
func MustGenerateDFA(expression, alphabet string, opts ...Option) *DFA {
	d, err := GenerateDFA(expression, alphabet, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// GenerateFromExpression compiles an expression tree built by hand.
func GenerateFromExpression(expr ast.Expression, opts ...Option) (*DFA, error) {
	return generate(expr, newOptions(opts))
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		o.log = l
	}
	return o
}

func tokenize(expression, alphabet string) ([]lexer.Token, error) {
	m, err := lexer.NewTokenMap(alphabet)
	if err != nil {
		return nil, err
	}
	return m.Tokenize(expression)
}

func generate(tree ast.Expression, o *options) (*DFA, error) {
	ctx, err := annotator.Annotate(tree, o.annotation...)
	if err != nil {
		return nil, &GenerationError{Stage: StageAnnotation, Err: err}
	}
	o.log.WithField("positions", len(ctx.Leaves)).Debug("annotated expression")

	d := dfa.Generate(ctx, dfa.WithLogger(o.log))
	o.log.WithField("states", d.NumStates).Debug("generated automaton")
	return d, nil
}
