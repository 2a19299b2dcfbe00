package seal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kysee/zigzag-porep/sectorstore"
)

func TestSealVerifySealRoundTrip(t *testing.T) {
	dir := t.TempDir()

	store, err := sectorstore.NewFastFakeDiskStore(filepath.Join(dir, "sealed"), filepath.Join(dir, "staging"))
	require.NoError(t, err)

	inPath := filepath.Join(dir, "staging", "in")
	content := make([]byte, store.Config().SectorBytes)
	for i := range content {
		content[i] = byte(i) & 0x3f
	}
	require.NoError(t, os.WriteFile(inPath, content, 0o644))

	outPath := filepath.Join(dir, "sealed", "1")

	params := DefaultTestParams(filepath.Join(dir, "cache"))
	sealer := NewSealer(params)

	var proverID [31]byte
	proverID[0] = 2
	var sectorID [31]byte

	res, code, err := sealer.Seal(context.Background(), store, inPath, outPath, proverID, sectorID)
	require.NoError(t, err)
	require.Equal(t, 0, int(code))
	require.NotZero(t, res.ProofData)

	verifyCode, err := sealer.VerifySeal(context.Background(), store, res.CommR, res.CommD, proverID, sectorID, res.ProofData)
	require.NoError(t, err)
	require.Equal(t, 0, int(verifyCode))
}
