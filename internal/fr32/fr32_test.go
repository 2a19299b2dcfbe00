package fr32

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWritePaddedShape(t *testing.T) {
	data := make([]byte, 32)
	for i := range data {
		data[i] = 0xff
	}

	padded := WritePadded(data)
	require.Len(t, padded, 64)
	require.Equal(t, data[:31], padded[:31])
	require.Equal(t, byte(0b0011_1111), padded[31])
	require.Equal(t, byte(0b0000_0011), padded[32])
	for _, b := range padded[33:64] {
		require.Equal(t, byte(0), b)
	}
}

func TestWritePaddedShortFrame(t *testing.T) {
	padded := WritePadded([]byte{0xff})
	require.Len(t, padded, 32)
	require.Equal(t, byte(0xff), padded[0])
	for _, b := range padded[1:] {
		require.Equal(t, byte(0), b)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{1},
		{1, 2, 3, 4, 5},
		make([]byte, 31),
		make([]byte, 32),
		make([]byte, 69),
		make([]byte, 256),
	}
	for _, b := range cases {
		for i := range b {
			b[i] = byte(i*7 + 3)
		}
		padded := WritePadded(b)
		require.Zero(t, len(padded)%PaddedBytes)

		got, err := WriteUnpadded(padded, 0, len(b))
		require.NoError(t, err)
		require.Equal(t, b, got)
	}
}

func TestRoundTripOffsetLen(t *testing.T) {
	b := make([]byte, 100)
	for i := range b {
		b[i] = byte(i)
	}
	padded := WritePadded(b)

	for _, tc := range []struct{ offset, length int }{
		{0, 100}, {5, 95}, {10, 20}, {99, 1}, {100, 0},
	} {
		got, err := WriteUnpadded(padded, tc.offset, tc.length)
		require.NoError(t, err)
		require.Equal(t, b[tc.offset:tc.offset+tc.length], got)
	}
}

func TestWriterPrefixContinuation(t *testing.T) {
	w := NewWriter()
	_, err := w.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	_, err = w.Write([]byte{4, 5})
	require.NoError(t, err)
	streamed := w.Finish()

	oneShot := WritePadded([]byte{1, 2, 3, 4, 5})
	require.Equal(t, oneShot, streamed)
}

func TestWriteUnpaddedRejectsMisalignedInput(t *testing.T) {
	_, err := WriteUnpadded(make([]byte, 10), 0, 1)
	require.Error(t, err)
}
