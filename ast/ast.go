// Package ast defines the expression tree produced by the front end and
// consumed by the annotator.
package ast

import (
	"strings"
)

// Expression is one of Char, EmptyString, Closure, Concatenation or Choice.
type Expression interface {
	// String renders the node back to expression syntax.
	String() string
	expressionNode()
}

// Char matches a single alphabet character.
type Char struct {
	Value rune
}

// EmptyString matches only the empty string.
type EmptyString struct{}

// Closure matches zero or more repetitions of Inner.
type Closure struct {
	Inner Expression
}

// Concatenation matches its items in sequence. It must have at least one item.
type Concatenation struct {
	Items []Expression
}

// Choice matches any one of its alternatives. With no alternatives it
// matches nothing at all.
type Choice struct {
	Alternatives []Expression
}

func (Char) expressionNode()          {}
func (EmptyString) expressionNode()   {}
func (Closure) expressionNode()       {}
func (Concatenation) expressionNode() {}
func (Choice) expressionNode()        {}

func (c Char) String() string { return string(c.Value) }

func (EmptyString) String() string { return "()" }

func (c Closure) String() string {
	switch c.Inner.(type) {
	case Char, EmptyString:
		return c.Inner.String() + "*"
	}
	return "(" + c.Inner.String() + ")*"
}

func (c Concatenation) String() string {
	var out strings.Builder
	for _, item := range c.Items {
		if _, ok := item.(Choice); ok {
			out.WriteString("(" + item.String() + ")")
			continue
		}
		out.WriteString(item.String())
	}
	return out.String()
}

func (c Choice) String() string {
	parts := make([]string, len(c.Alternatives))
	for i, alt := range c.Alternatives {
		parts[i] = alt.String()
	}
	return strings.Join(parts, "|")
}
