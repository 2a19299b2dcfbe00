package porep

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kysee/zigzag-porep/hasher"
	"github.com/kysee/zigzag-porep/internal/zigzag"
)

func testLayeredParams(n, layers int) LayeredPublicParams {
	var seed [32]byte
	seed[0] = 11
	return LayeredPublicParams{
		Layer0: PublicParams{
			Graph:      zigzag.New(n, 1, 2, seed),
			SlothIter:  1,
			HasherName: hasher.SHA256,
		},
		Layers: layers,
	}
}

func TestLayeredReplicateExtractInvertible(t *testing.T) {
	const n = 8
	lpp := testLayeredParams(n, 2)

	data := make([]byte, n*Lambda)
	for i := range data {
		data[i] = byte(i * 5 % 241)
	}
	original := append([]byte(nil), data...)

	var replicaID [32]byte
	replicaID[0] = 3

	taus, _, err := LayeredReplicate(lpp, replicaID, data)
	require.NoError(t, err)
	require.Len(t, taus, 2)

	recovered, err := LayeredExtractAll(lpp, replicaID, data)
	require.NoError(t, err)
	require.Equal(t, original, recovered)
}

func TestSimplifyTau(t *testing.T) {
	taus := []Tau{
		{CommD: [32]byte{1}, CommR: [32]byte{2}},
		{CommD: [32]byte{3}, CommR: [32]byte{4}},
	}
	simplified, err := SimplifyTau(taus)
	require.NoError(t, err)
	require.Equal(t, [32]byte{1}, simplified.CommD)
	require.Equal(t, [32]byte{4}, simplified.CommR)
}

func TestLayeredProveVerify(t *testing.T) {
	const n = 8
	lpp := testLayeredParams(n, 2)

	data := make([]byte, n*Lambda)
	for i := range data {
		data[i] = byte(i + 7)
	}
	original := append([]byte(nil), data...)
	var replicaID [32]byte

	taus, _, err := LayeredReplicate(lpp, replicaID, data)
	require.NoError(t, err)

	lproof, err := LayeredProve(lpp, replicaID, original, []int{2, 5})
	require.NoError(t, err)
	require.Len(t, lproof.Proofs, 2)

	ok, err := LayeredVerify(lpp, replicaID, taus, lproof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestLayeredVerifyRejectsLengthMismatch(t *testing.T) {
	lpp := testLayeredParams(8, 2)
	var replicaID [32]byte
	_, err := LayeredVerify(lpp, replicaID, []Tau{{}}, LayeredProof{})
	require.Error(t, err)
}
