package dfa

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteDOT prints a Graphviz description of the automaton to w. Each state
// is labelled with its id and the positions it was built from.
func (d *DFA) WriteDOT(w io.Writer, name string) error {
	if name == "" {
		name = "G"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", name)
	b.WriteString("    rankdir=LR;\n")

	for s := 0; s < d.NumStates; s++ {
		shape := "circle"
		if d.Accepting[s] {
			shape = "doublecircle"
		}
		fmt.Fprintf(&b, "    q%d [shape=%s, label=%q];\n", s, shape, d.stateLabel(s))
	}
	for s := 0; s < d.NumStates; s++ {
		for _, c := range sortedChars(d.Transitions[s]) {
			fmt.Fprintf(&b, "    q%d -> q%d [label=%q];\n", s, d.Transitions[s][c], string(c))
		}
	}
	fmt.Fprintf(&b, "    _start [shape=point]; _start -> q%d;\n", d.Start)
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (d *DFA) stateLabel(s int) string {
	positions := d.Positions(s)
	if positions == nil {
		return strconv.Itoa(s)
	}
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = strconv.Itoa(p)
	}
	return fmt.Sprintf("%d\n{%s}", s, strings.Join(parts, ","))
}

func sortedChars(m map[rune]int) []rune {
	out := make([]rune, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sortRunes(out)
	return out
}

func sortRunes(rs []rune) {
	sort.Slice(rs, func(i, j int) bool { return rs[i] < rs[j] })
}
