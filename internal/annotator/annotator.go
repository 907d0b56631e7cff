// Package annotator decorates an expression tree with the nullable, firstpos
// and lastpos information used for direct DFA construction.
package annotator

import (
	"fmt"

	"github.com/pkg/errors"

	"dfagen/ast"
	"dfagen/internal/posset"
)

// ErrInvalidExpression is returned for a concatenation with no items.
var ErrInvalidExpression = errors.New("expression tree contains an empty concatenation")

// NodeOverflowError is returned when the tree has more leaves than the
// position sets can address.
type NodeOverflowError struct {
	Size int
}

func (e *NodeOverflowError) Error() string {
	return fmt.Sprintf("expression tree has too many leaf nodes, >%d", e.Size)
}

type Option func(*annotator)

// WithCapacity limits the number of positions, terminal included.
func WithCapacity(n int) Option {
	return func(a *annotator) { a.capacity = n }
}

// WithLegacyLastPos reproduces the lastpos rules of the first annotator:
// a closure ends where its child starts, and a concatenation keeps
// accumulating lastpos only while every item so far is nullable.
func WithLegacyLastPos() Option {
	return func(a *annotator) { a.legacyLastPos = true }
}

type annotator struct {
	nodes         []Node
	leaves        []NodeID
	capacity      int
	legacyLastPos bool
}

// Annotate walks root once and returns the annotated tree wrapped in a
// concatenation with the terminal leaf.
func Annotate(root ast.Expression, opts ...Option) (*Context, error) {
	a := &annotator{capacity: posset.MaxPositions}
	for _, opt := range opts {
		opt(a)
	}

	id, err := a.annotate(root)
	if err != nil {
		return nil, err
	}
	terminal, err := a.leaf(KindTerminal, 0)
	if err != nil {
		return nil, err
	}
	rootID := a.concatenation([]NodeID{id, terminal})

	return &Context{
		Nodes:  a.nodes,
		Root:   rootID,
		Leaves: a.leaves,
	}, nil
}

func (a *annotator) annotate(e ast.Expression) (NodeID, error) {
	switch e := e.(type) {
	case ast.Char:
		return a.leaf(KindChar, e.Value)
	case ast.EmptyString:
		return a.leaf(KindEmptyString, 0)
	case ast.Closure:
		inner, err := a.annotate(e.Inner)
		if err != nil {
			return 0, err
		}
		return a.closure(inner), nil
	case ast.Choice:
		children := make([]NodeID, 0, len(e.Alternatives))
		for _, alt := range e.Alternatives {
			id, err := a.annotate(alt)
			if err != nil {
				return 0, err
			}
			children = append(children, id)
		}
		return a.choice(children), nil
	case ast.Concatenation:
		if len(e.Items) == 0 {
			return 0, ErrInvalidExpression
		}
		children := make([]NodeID, 0, len(e.Items))
		for _, item := range e.Items {
			id, err := a.annotate(item)
			if err != nil {
				return 0, err
			}
			children = append(children, id)
		}
		return a.concatenation(children), nil
	}
	return 0, errors.Wrapf(ErrInvalidExpression, "unknown node %T", e)
}

func (a *annotator) push(n Node) NodeID {
	a.nodes = append(a.nodes, n)
	return NodeID(len(a.nodes) - 1)
}

// leaf takes the next free position.
func (a *annotator) leaf(kind Kind, ch rune) (NodeID, error) {
	pos := len(a.leaves)
	if pos >= a.capacity {
		return 0, &NodeOverflowError{Size: a.capacity}
	}
	n := Node{
		Kind:     kind,
		Char:     ch,
		Position: pos,
		First:    posset.New(),
		Last:     posset.New(),
	}
	if kind == KindEmptyString {
		n.Nullable = true
	} else {
		n.First.Add(pos)
		n.Last.Add(pos)
	}
	id := a.push(n)
	a.leaves = append(a.leaves, id)
	return id, nil
}

func (a *annotator) closure(inner NodeID) NodeID {
	child := &a.nodes[inner]
	last := child.Last.Clone()
	if a.legacyLastPos {
		last = child.First.Clone()
	}
	return a.push(Node{
		Kind:     KindClosure,
		Position: -1,
		Children: []NodeID{inner},
		Nullable: true,
		First:    child.First.Clone(),
		Last:     last,
	})
}

func (a *annotator) choice(children []NodeID) NodeID {
	n := Node{
		Kind:     KindChoice,
		Position: -1,
		Children: children,
		First:    posset.New(),
		Last:     posset.New(),
	}
	for _, id := range children {
		child := &a.nodes[id]
		n.Nullable = n.Nullable || child.Nullable
		n.First.Union(child.First)
		n.Last.Union(child.Last)
	}
	return a.push(n)
}

func (a *annotator) concatenation(children []NodeID) NodeID {
	first := posset.New()
	last := posset.New()
	nullable := true
	for i, id := range children {
		child := &a.nodes[id]
		if i == 0 || nullable {
			first.Union(child.First)
		}
		nullable = nullable && child.Nullable

		switch {
		case a.legacyLastPos && (i == len(children)-1 || nullable):
			last.Union(child.Last)
		case a.legacyLastPos:
			last = posset.New()
		case child.Nullable:
			last.Union(child.Last)
		default:
			last = child.Last.Clone()
		}
	}
	return a.push(Node{
		Kind:     KindConcatenation,
		Position: -1,
		Children: children,
		Nullable: nullable,
		First:    first,
		Last:     last,
	})
}
