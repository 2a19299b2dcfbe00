package sectorstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresets(t *testing.T) {
	dir := t.TempDir()

	real, err := NewRealDiskStore(filepath.Join(dir, "sealed"), filepath.Join(dir, "staging"))
	require.NoError(t, err)
	require.False(t, real.Config().Fake)
	require.Equal(t, RealSectorSize, real.Config().SectorBytes)

	fast, err := NewFastFakeDiskStore(filepath.Join(dir, "sealed2"), filepath.Join(dir, "staging2"))
	require.NoError(t, err)
	require.True(t, fast.Config().Fake)
	require.Equal(t, FastDelaySeconds, fast.Config().DelaySeconds)
	require.Equal(t, ProofBytesSize, fast.Config().ProofSectorBytes)
}

func TestNewSectorAccess(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFastFakeDiskStore(filepath.Join(dir, "sealed"), filepath.Join(dir, "staging"))
	require.NoError(t, err)

	p1, err := store.Manager().NewSealedSectorAccess()
	require.NoError(t, err)
	p2, err := store.Manager().NewSealedSectorAccess()
	require.NoError(t, err)
	require.NotEqual(t, p1, p2)
}
