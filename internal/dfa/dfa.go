// Package dfa builds a DFA from an annotated expression tree and runs it.
package dfa

import (
	"dfagen/internal/posset"
)

// DFA is a deterministic automaton over runes. States are 0..NumStates-1 and
// every state is reachable from Start. A missing entry in Transitions means
// the input is rejected. A DFA is never modified after Generate returns, so
// it can be shared between goroutines.
type DFA struct {
	NumStates   int
	Start       int
	Accepting   map[int]bool
	Transitions map[int]map[rune]int

	// positions[i] is the position set state i was built from
	positions []posset.Set
}

// Evaluate reports whether the automaton accepts input.
func (d *DFA) Evaluate(input string) bool {
	state := d.Start
	for _, c := range input {
		next, ok := d.Transitions[state][c]
		if !ok {
			return false
		}
		state = next
	}
	return d.Accepting[state]
}

// Next returns the state reached from state on c.
func (d *DFA) Next(state int, c rune) (int, bool) {
	next, ok := d.Transitions[state][c]
	return next, ok
}

func (d *DFA) IsAccepting(state int) bool { return d.Accepting[state] }

// Positions returns the leaf positions state was built from, or nil for a
// DFA that was not produced by Generate.
func (d *DFA) Positions(state int) []int {
	if state < 0 || state >= len(d.positions) {
		return nil
	}
	return d.positions[state].Positions()
}

// Alphabet returns the characters that label at least one transition, in
// ascending order.
func (d *DFA) Alphabet() []rune {
	seen := map[rune]bool{}
	var out []rune
	for state := 0; state < d.NumStates; state++ {
		for _, c := range sortedChars(d.Transitions[state]) {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	sortRunes(out)
	return out
}

// Isomorphic reports whether d and o are the same automaton up to a
// relabeling of states that maps Start to Start.
func (d *DFA) Isomorphic(o *DFA) bool {
	if d.NumStates != o.NumStates || len(d.Accepting) != len(o.Accepting) {
		return false
	}
	mapping := map[int]int{d.Start: o.Start}
	used := map[int]bool{o.Start: true}
	queue := []int{d.Start}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		t := mapping[s]
		if d.Accepting[s] != o.Accepting[t] {
			return false
		}
		if len(d.Transitions[s]) != len(o.Transitions[t]) {
			return false
		}
		for _, c := range sortedChars(d.Transitions[s]) {
			ns := d.Transitions[s][c]
			nt, ok := o.Transitions[t][c]
			if !ok {
				return false
			}
			if mapped, seen := mapping[ns]; seen {
				if mapped != nt {
					return false
				}
				continue
			}
			if used[nt] {
				return false
			}
			mapping[ns] = nt
			used[nt] = true
			queue = append(queue, ns)
		}
	}
	return len(mapping) == d.NumStates
}
