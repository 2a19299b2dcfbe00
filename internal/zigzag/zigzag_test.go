package zigzag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func seed(b byte) [32]byte {
	var s [32]byte
	s[0] = b
	return s
}

func TestDirectionAlternation(t *testing.T) {
	g := New(50, 5, 8, seed(1))
	for i := 0; i < g.Size(); i++ {
		for _, p := range g.Parents(i) {
			require.LessOrEqual(t, p, i)
		}
	}

	gz := g.Zigzag()
	require.True(t, gz.Reversed())
	for i := 0; i < gz.Size(); i++ {
		for _, p := range gz.Parents(i) {
			require.GreaterOrEqual(t, p, i)
		}
	}
}

func TestDegreeConstancy(t *testing.T) {
	g := New(30, 3, 4, seed(2))
	for i := 0; i < g.Size(); i++ {
		require.Len(t, g.Parents(i), 7)
	}
}

func TestZigzagTwiceReturnsOriginalDirection(t *testing.T) {
	g := New(20, 2, 3, seed(3))
	require.False(t, g.Reversed())
	require.True(t, g.Zigzag().Reversed())
	require.False(t, g.Zigzag().Zigzag().Reversed())
}

func TestSharedCacheAcrossClones(t *testing.T) {
	g := New(20, 2, 3, seed(4))
	_ = g.Parents(10)
	gz := g.Zigzag()
	// gz shares g's cache pointer; reading gz's own direction populates the
	// reverse half of the same structure without racing the forward half.
	_ = gz.Parents(10)
	require.Same(t, g.cache, gz.cache)
}
