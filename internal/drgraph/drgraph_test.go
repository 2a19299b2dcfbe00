package drgraph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDegreeConstancy(t *testing.T) {
	g := New(50, 5, seed(1))
	for i := 0; i < 50; i++ {
		require.Len(t, g.Parents(i), 5)
	}
}

func TestMonotonicAndSelfLoop(t *testing.T) {
	g := New(50, 5, seed(2))
	require.Equal(t, []int{0, 0, 0, 0, 0}, g.Parents(0))
	for i := 1; i < 50; i++ {
		for _, p := range g.Parents(i) {
			require.LessOrEqual(t, p, i)
		}
	}
}

func TestStableAcrossCalls(t *testing.T) {
	g := New(50, 5, seed(3))
	require.Equal(t, g.Parents(30), g.Parents(30))
}

func seed(b byte) [32]byte {
	var s [32]byte
	s[0] = b
	return s
}
