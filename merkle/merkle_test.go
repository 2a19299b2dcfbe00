package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kysee/zigzag-porep/hasher"
)

func TestBuildOpenVerify(t *testing.T) {
	leaves := make([][32]byte, 5)
	for i := range leaves {
		leaves[i][0] = byte(i + 1)
	}

	tr, err := Build(leaves, hasher.SHA256)
	require.NoError(t, err)

	for i := range leaves {
		op, err := tr.Open(i)
		require.NoError(t, err)
		ok, err := Verify(tr.Root(), op, hasher.SHA256)
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestVerifyRejectsTamperedLeaf(t *testing.T) {
	leaves := make([][32]byte, 4)
	for i := range leaves {
		leaves[i][0] = byte(i + 1)
	}
	tr, err := Build(leaves, hasher.SHA256)
	require.NoError(t, err)

	op, err := tr.Open(1)
	require.NoError(t, err)
	op.Leaf[0] ^= 0xff

	ok, err := Verify(tr.Root(), op, hasher.SHA256)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOpenRejectsOutOfRange(t *testing.T) {
	leaves := make([][32]byte, 2)
	tr, err := Build(leaves, hasher.SHA256)
	require.NoError(t, err)
	_, err = tr.Open(99)
	require.Error(t, err)
}
