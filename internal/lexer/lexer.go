// Package lexer turns an expression string into tokens, using a token map
// compiled from the caller's alphabet.
package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

type Kind int

const (
	Char Kind = iota
	Choice
	Closure
	LeftParen
	RightParen
)

var kindNames = map[Kind]string{
	Char:       "Char",
	Choice:     `Choice "|"`,
	Closure:    `Closure "*"`,
	LeftParen:  `Left Precedence "("`,
	RightParen: `Right Precedence ")"`,
}

func (k Kind) String() string { return kindNames[k] }

// Reserved maps each operator character to its token kind. None of them may
// appear in an alphabet.
var Reserved = map[rune]Kind{
	'|': Choice,
	'*': Closure,
	'(': LeftParen,
	')': RightParen,
}

var reservedPatterns = map[Kind]string{
	Choice:     `[|]`,
	Closure:    `[*]`,
	LeftParen:  `[(]`,
	RightParen: `[)]`,
}

type Token struct {
	Kind Kind
	// Value is the matched character; for operators it is the operator
	// itself.
	Value rune
	// Offset is the byte offset of the token in the input.
	Offset int
}

func (t Token) String() string {
	if t.Kind == Char {
		return fmt.Sprintf("Char %q", string(t.Value))
	}
	return "Reserved Token " + t.Kind.String()
}

// Width is the number of input bytes the token covers.
func (t Token) Width() int { return utf8.RuneLen(t.Value) }

// UnmatchableCharacterError reports a character that is neither an operator
// nor part of the alphabet.
type UnmatchableCharacterError struct {
	Char   rune
	Offset int
}

func (e *UnmatchableCharacterError) Error() string {
	return fmt.Sprintf("character %q at offset %d could not be matched to a token rule", e.Char, e.Offset)
}

// ReservedTokenError reports an alphabet character that collides with an
// operator.
type ReservedTokenError struct {
	Char     rune
	Reserved Kind
}

func (e *ReservedTokenError) Error() string {
	return fmt.Sprintf("alphabet character %q overwrites reserved token %s", e.Char, e.Reserved)
}

// TokenMap recognises the operators plus one token per alphabet character.
// It is safe for concurrent use once built.
type TokenMap struct {
	alphabet []rune
	lexer    *lexmachine.Lexer
}

// NewTokenMap compiles a token map for alphabet. Repeated characters are
// accepted and collapse to one token rule.
func NewTokenMap(alphabet string) (*TokenMap, error) {
	l := lexmachine.NewLexer()
	for _, kind := range []Kind{Choice, Closure, LeftParen, RightParen} {
		l.Add([]byte(reservedPatterns[kind]), tokAction(kind))
	}

	seen := map[rune]bool{}
	var chars []rune
	for _, c := range alphabet {
		if kind, ok := Reserved[c]; ok {
			return nil, &ReservedTokenError{Char: c, Reserved: kind}
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		chars = append(chars, c)
		l.Add(literalPattern(c), tokAction(Char))
	}

	if err := l.Compile(); err != nil {
		return nil, errors.Wrap(err, "compile token map")
	}
	return &TokenMap{alphabet: chars, lexer: l}, nil
}

// Alphabet returns the distinct alphabet characters in declaration order.
func (m *TokenMap) Alphabet() []rune {
	return append([]rune(nil), m.alphabet...)
}

// Tokenize splits input into tokens. It stops at the first character with no
// token rule.
func (m *TokenMap) Tokenize(input string) ([]Token, error) {
	if input == "" {
		return nil, nil
	}
	scanner, err := m.lexer.Scanner([]byte(input))
	if err != nil {
		return nil, errors.Wrap(err, "start scanner")
	}

	var tokens []Token
	next := 0
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		if err != nil {
			c, _ := utf8.DecodeRuneInString(input[next:])
			return nil, &UnmatchableCharacterError{Char: c, Offset: next}
		}
		t := tok.(Token)
		tokens = append(tokens, t)
		next = t.Offset + t.Width()
	}
	return tokens, nil
}

func tokAction(kind Kind) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		c, _ := utf8.DecodeRune(m.Bytes)
		return Token{
			Kind:   kind,
			Value:  c,
			Offset: m.TC,
		}, nil
	}
}

// literalPattern escapes c for the lexmachine pattern language. ASCII
// punctuation goes into a one-byte class; other bytes are literal.
func literalPattern(c rune) []byte {
	var out []byte
	for _, b := range []byte(string(c)) {
		switch {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', b >= utf8.RuneSelf:
			out = append(out, b)
		case b == ']' || b == '\\' || b == '^' || b == '-' || b == '[':
			out = append(out, '[', '\\', b, ']')
		default:
			out = append(out, '[', b, ']')
		}
	}
	return out
}
