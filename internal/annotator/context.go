package annotator

import (
	"dfagen/internal/posset"
)

type Kind int

const (
	KindChar Kind = iota
	KindEmptyString
	// KindTerminal marks the end of the expression. Its position in a DFA
	// state makes that state accepting.
	KindTerminal
	KindClosure
	KindConcatenation
	KindChoice
)

func (k Kind) String() string {
	switch k {
	case KindChar:
		return "Char"
	case KindEmptyString:
		return "EmptyString"
	case KindTerminal:
		return "Terminal"
	case KindClosure:
		return "Closure"
	case KindConcatenation:
		return "Concatenation"
	case KindChoice:
		return "Choice"
	}
	return "Unknown"
}

// NodeID addresses a node in Context.Nodes.
type NodeID int

// Node is an annotated expression node. Leaves carry a position, inner nodes
// have Position -1 and reference their children by id.
type Node struct {
	Kind     Kind
	Char     rune
	Position int
	Children []NodeID

	Nullable bool
	// First holds the positions that can match the first character of a
	// string accepted by this node, Last the ones that can match the last.
	First posset.Set
	Last  posset.Set
}

func (n *Node) IsLeaf() bool {
	return n.Kind == KindChar || n.Kind == KindEmptyString || n.Kind == KindTerminal
}

// Context is the annotated tree plus the leaf table. It is read-only once
// Annotate returns.
type Context struct {
	Nodes []Node
	Root  NodeID
	// Leaves is indexed by position; the terminal is last.
	Leaves []NodeID
}

func (c *Context) Node(id NodeID) *Node { return &c.Nodes[id] }

// Leaf returns the leaf holding position p.
func (c *Context) Leaf(p int) *Node { return &c.Nodes[c.Leaves[p]] }

func (c *Context) RootNode() *Node { return &c.Nodes[c.Root] }

// Terminal is the position of the terminal leaf.
func (c *Context) Terminal() int { return len(c.Leaves) - 1 }
