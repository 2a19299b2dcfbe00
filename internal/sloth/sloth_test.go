package sloth

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeInverse(t *testing.T) {
	var key, x fr.Element
	key.SetUint64(42)
	x.SetUint64(123456789)

	enc := EncodeIter(key, x, 3)
	dec := DecodeIter(key, enc, 3)
	require.True(t, x.Equal(&dec))
}

func TestEncodeIsNotIdentity(t *testing.T) {
	var key, x fr.Element
	key.SetUint64(7)
	x.SetUint64(99)

	enc := EncodeIter(key, x, 1)
	require.False(t, x.Equal(&enc))
}
