package porep

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kysee/zigzag-porep/hasher"
	"github.com/kysee/zigzag-porep/internal/zigzag"
)

func testParams(n int) PublicParams {
	var seed [32]byte
	seed[0] = 9
	return PublicParams{
		Graph:      zigzag.New(n, 1, 2, seed),
		SlothIter:  1,
		HasherName: hasher.SHA256,
	}
}

func TestReplicateExtractInvertible(t *testing.T) {
	const n = 8
	pp := testParams(n)

	data := make([]byte, n*Lambda)
	for i := range data {
		data[i] = byte(i * 3 % 251)
	}
	original := append([]byte(nil), data...)

	var replicaID [32]byte
	replicaID[0] = 1

	tau, _, err := Replicate(pp, replicaID, data)
	require.NoError(t, err)
	require.NotEqual(t, original, data, "replication should mutate the buffer")

	recovered, err := ExtractAll(pp, replicaID, data)
	require.NoError(t, err)
	require.Equal(t, original, recovered)

	require.NotEqual(t, tau.CommR, tau.CommD)
}

func TestProveVerify(t *testing.T) {
	const n = 8
	pp := testParams(n)

	data := make([]byte, n*Lambda)
	for i := range data {
		data[i] = byte(i + 1)
	}
	var replicaID [32]byte

	tau, aux, err := Replicate(pp, replicaID, data)
	require.NoError(t, err)

	proof, err := Prove(pp, aux, []int{0, 3, 7})
	require.NoError(t, err)

	ok, err := Verify(pp, replicaID, tau.CommR, tau.CommD, proof)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRejectsWrongCommitment(t *testing.T) {
	const n = 8
	pp := testParams(n)

	data := make([]byte, n*Lambda)
	var replicaID [32]byte

	tau, aux, err := Replicate(pp, replicaID, data)
	require.NoError(t, err)

	proof, err := Prove(pp, aux, []int{1})
	require.NoError(t, err)

	badCommR := tau.CommR
	badCommR[0] ^= 0xff

	ok, err := Verify(pp, replicaID, badCommR, tau.CommD, proof)
	require.NoError(t, err)
	require.False(t, ok)
}
