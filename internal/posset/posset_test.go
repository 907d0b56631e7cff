package posset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetMembership(t *testing.T) {
	s := Of(3, 1, 7)
	require.True(t, s.Contains(1))
	require.True(t, s.Contains(7))
	require.False(t, s.Contains(2))
	require.False(t, s.Contains(-1))
	require.Equal(t, 3, s.Len())
	require.Equal(t, []int{1, 3, 7}, s.Positions())
	require.Equal(t, "{1,3,7}", s.String())
}

func TestSetUnionDoesNotAlias(t *testing.T) {
	a := Of(1)
	b := Of(2, 100)
	c := a.Clone()
	c.Union(b)

	require.Equal(t, []int{1}, a.Positions())
	require.Equal(t, []int{1, 2, 100}, c.Positions())
}

func TestSetEqualityIgnoresCapacity(t *testing.T) {
	a := Of(2)
	b := Of(2, 500)
	require.False(t, a.Equal(b))

	c := Of(500)
	c.Union(Of(2))
	require.True(t, b.Equal(c))
	require.Equal(t, b.Key(), c.Key())
}

func TestEmptySet(t *testing.T) {
	s := New()
	require.True(t, s.Empty())
	require.Equal(t, "", s.Key())
	require.Equal(t, "{}", s.String())
	require.Empty(t, s.Positions())
}
