package hasher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetKnownHashers(t *testing.T) {
	for _, name := range []Name{SHA256, Blake2s, Keccak, Pedersen, ""} {
		f, err := Get(name)
		require.NoError(t, err)
		require.NotNil(t, f)

		d1 := f([]byte("hello"))
		d2 := f([]byte("hello"))
		require.Equal(t, d1, d2)
	}
}

func TestGetUnknownHasher(t *testing.T) {
	_, err := Get(Name("does-not-exist"))
	require.Error(t, err)
}

func TestEmptyNameDefaultsToSHA256(t *testing.T) {
	def, err := Get("")
	require.NoError(t, err)
	sha, err := Get(SHA256)
	require.NoError(t, err)
	require.Equal(t, sha([]byte("x")), def([]byte("x")))
}
