package dfa

import (
	"sort"

	"github.com/sirupsen/logrus"

	"dfagen/internal/annotator"
	"dfagen/internal/posset"
)

type Option func(*generator)

// WithLogger traces state discovery at debug level.
func WithLogger(log logrus.FieldLogger) Option {
	return func(g *generator) { g.log = log }
}

type generator struct {
	ctx    *annotator.Context
	follow []posset.Set
	log    logrus.FieldLogger
}

// FollowPositions computes, for every position, the positions that may come
// right after it in an accepted string. The result is indexed by position.
func FollowPositions(ctx *annotator.Context) []posset.Set {
	follow := make([]posset.Set, len(ctx.Leaves))
	for i := range follow {
		follow[i] = posset.New()
	}
	computeFollow(ctx, ctx.RootNode(), follow)
	return follow
}

func computeFollow(ctx *annotator.Context, n *annotator.Node, follow []posset.Set) {
	switch n.Kind {
	case annotator.KindConcatenation:
		for _, id := range n.Children {
			computeFollow(ctx, ctx.Node(id), follow)
		}
		// right to left: next holds the firstpos of whatever can follow
		// the current item, looking past nullable items
		next := posset.New()
		for i := len(n.Children) - 1; i >= 0; i-- {
			child := ctx.Node(n.Children[i])
			child.Last.Each(func(j int) {
				follow[j].Union(next)
			})
			if !child.Nullable {
				next = posset.New()
			}
			next.Union(child.First)
		}
	case annotator.KindClosure:
		child := ctx.Node(n.Children[0])
		computeFollow(ctx, child, follow)
		child.Last.Each(func(j int) {
			follow[j].Union(child.First)
		})
	case annotator.KindChoice:
		for _, id := range n.Children {
			computeFollow(ctx, ctx.Node(id), follow)
		}
	}
}

// Generate runs subset construction over position sets. States are
// discovered in FIFO order and, within a state, by ascending character, so
// the same tree always yields the same numbering.
func Generate(ctx *annotator.Context, opts ...Option) *DFA {
	g := &generator{ctx: ctx}
	for _, opt := range opts {
		opt(g)
	}
	g.follow = FollowPositions(ctx)
	return g.run()
}

func (g *generator) run() *DFA {
	terminal := g.ctx.Terminal()
	d := &DFA{
		Start:       0,
		Accepting:   map[int]bool{},
		Transitions: map[int]map[rune]int{},
	}

	ids := map[string]int{}
	var queue []int
	add := func(s posset.Set) int {
		if id, ok := ids[s.Key()]; ok {
			return id
		}
		id := len(d.positions)
		ids[s.Key()] = id
		d.positions = append(d.positions, s)
		if s.Contains(terminal) {
			d.Accepting[id] = true
		}
		queue = append(queue, id)
		g.debug(logrus.Fields{"state": id, "positions": s.String()}, "state discovered")
		return id
	}

	add(g.ctx.RootNode().First.Clone())
	for len(queue) > 0 {
		from := queue[0]
		queue = queue[1:]

		targets := map[rune]posset.Set{}
		d.positions[from].Each(func(p int) {
			leaf := g.ctx.Leaf(p)
			if leaf.Kind != annotator.KindChar {
				return
			}
			t, ok := targets[leaf.Char]
			if !ok {
				t = posset.New()
				targets[leaf.Char] = t
			}
			t.Union(g.follow[p])
		})

		chars := make([]rune, 0, len(targets))
		for c := range targets {
			chars = append(chars, c)
		}
		sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })

		for _, c := range chars {
			t := targets[c]
			if t.Empty() {
				continue
			}
			to := add(t)
			if d.Transitions[from] == nil {
				d.Transitions[from] = map[rune]int{}
			}
			d.Transitions[from][c] = to
			g.debug(logrus.Fields{"state": from, "char": string(c), "target": to}, "transition")
		}
	}

	d.NumStates = len(d.positions)
	return d
}

func (g *generator) debug(fields logrus.Fields, msg string) {
	if g.log == nil {
		return
	}
	g.log.WithFields(fields).Debug(msg)
}
