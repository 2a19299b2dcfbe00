package seal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeterministicChallengeMatchesLegacyFixedList(t *testing.T) {
	var commR, commD [32]byte
	got := DeriveChallenges(commR, commD, 50, 1, true)
	require.Equal(t, []int{1}, got)
}

func TestDerivedChallengesAreWithinRangeAndDistinct(t *testing.T) {
	var commR, commD [32]byte
	commR[0] = 7
	commD[0] = 9
	got := DeriveChallenges(commR, commD, 50, 5, false)
	require.Len(t, got, 5)
	seen := map[int]bool{}
	for _, c := range got {
		require.GreaterOrEqual(t, c, 0)
		require.Less(t, c, 50)
		require.False(t, seen[c])
		seen[c] = true
	}
}

func TestDerivedChallengesDependOnCommitments(t *testing.T) {
	var a, b [32]byte
	b[0] = 1
	ca := DeriveChallenges(a, a, 1000, 3, false)
	cb := DeriveChallenges(b, a, 1000, 3, false)
	require.NotEqual(t, ca, cb)
}
