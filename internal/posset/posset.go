// Package posset holds the position sets that annotated nodes and DFA states
// are built from.
package posset

import (
	"math"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// MaxPositions is the number of distinct positions a Set can address.
const MaxPositions = math.MaxInt32

// Set is a set of leaf positions. The zero value is not usable, use New or Of.
type Set struct {
	bits *bitset.BitSet
}

func New() Set { return Set{bits: bitset.New(0)} }

// Of returns a set holding the given positions.
func Of(positions ...int) Set {
	s := New()
	for _, p := range positions {
		s.Add(p)
	}
	return s
}

func (s Set) Add(p int) { s.bits.Set(uint(p)) }

func (s Set) Contains(p int) bool { return p >= 0 && s.bits.Test(uint(p)) }

// Union adds every position of o to s.
func (s Set) Union(o Set) { s.bits.InPlaceUnion(o.bits) }

func (s Set) Len() int { return int(s.bits.Count()) }

func (s Set) Empty() bool { return s.bits.None() }

func (s Set) Clone() Set { return Set{bits: s.bits.Clone()} }

// Equal compares membership only; the capacity of the underlying bitsets may
// differ.
func (s Set) Equal(o Set) bool {
	return s.bits.SymmetricDifferenceCardinality(o.bits) == 0
}

// Each calls fn for every position in ascending order.
func (s Set) Each(fn func(p int)) {
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		fn(int(i))
	}
}

// Positions returns the members in ascending order.
func (s Set) Positions() []int {
	out := make([]int, 0, s.Len())
	s.Each(func(p int) { out = append(out, p) })
	return out
}

// Key is a canonical encoding of the membership, usable as a map key.
func (s Set) Key() string {
	var b strings.Builder
	s.Each(func(p int) {
		b.WriteString(strconv.Itoa(p))
		b.WriteByte(',')
	})
	return b.String()
}

func (s Set) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	s.Each(func(p int) {
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(strconv.Itoa(p))
	})
	b.WriteByte('}')
	return b.String()
}
