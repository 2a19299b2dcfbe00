// Package sectorstore is the thin SectorStore collaborator: staging/sealed
// directory provisioning and the per-store config (fake, delay, sector
// size) the seal orchestration reads. Kept minimal on purpose.
package sectorstore

import (
	"fmt"
	"os"
	"path/filepath"
)

// Preset sector sizes and simulated delays, mirroring RealConfig/FakeConfig.
const (
	RealSectorSize uint64 = 128
	FastSectorSize uint64 = 1024
	SlowSectorSize uint64 = 1 << 30

	FastDelaySeconds uint32 = 10
	SlowDelaySeconds uint32 = 4 * 60 * 60

	// ProofBytesSize is the faked replication prefix used when Fake is set.
	ProofBytesSize uint64 = 128
)

// Config is what the seal orchestration reads from the store before
// replicating: whether this is a fake (fast-test) configuration, the
// simulated per-op delay, the full sector size, and the size actually
// replicated (equal to SectorBytes unless Fake).
type Config struct {
	Fake             bool
	DelaySeconds     uint32
	SectorBytes      uint64
	ProofSectorBytes uint64
}

// Manager provisions sector file paths.
type Manager interface {
	NewSealedSectorAccess() (string, error)
	NewStagingSectorAccess() (string, error)
}

// Store bundles a Config and a Manager, the full SectorStore capability.
type Store interface {
	Config() Config
	Manager() Manager
}

// Disk is a filesystem-backed SectorStore: sealed and staging sectors live
// under two directories, named by an incrementing counter.
type Disk struct {
	cfg         Config
	sealedPath  string
	stagingPath string
	counter     int
}

// NewDisk constructs a disk-backed store rooted at sealedPath/stagingPath
// with the given config.
func NewDisk(sealedPath, stagingPath string, cfg Config) (*Disk, error) {
	if err := os.MkdirAll(sealedPath, 0o755); err != nil {
		return nil, fmt.Errorf("sectorstore: creating sealed dir: %w", err)
	}
	if err := os.MkdirAll(stagingPath, 0o755); err != nil {
		return nil, fmt.Errorf("sectorstore: creating staging dir: %w", err)
	}
	return &Disk{cfg: cfg, sealedPath: sealedPath, stagingPath: stagingPath}, nil
}

// NewRealDiskStore constructs the production-intent preset (no simulated
// delay, full-size sectors).
func NewRealDiskStore(sealedPath, stagingPath string) (*Disk, error) {
	return NewDisk(sealedPath, stagingPath, Config{
		Fake:             false,
		SectorBytes:      RealSectorSize,
		ProofSectorBytes: RealSectorSize,
	})
}

// NewFastFakeDiskStore constructs the fast-fake preset used by interactive
// tests: a short simulated delay and a small proof-sector prefix.
func NewFastFakeDiskStore(sealedPath, stagingPath string) (*Disk, error) {
	return NewDisk(sealedPath, stagingPath, Config{
		Fake:             true,
		DelaySeconds:     FastDelaySeconds,
		SectorBytes:      FastSectorSize,
		ProofSectorBytes: ProofBytesSize,
	})
}

// NewSlowFakeDiskStore constructs the slow-fake preset approximating
// production sector sizes with a long simulated delay.
func NewSlowFakeDiskStore(sealedPath, stagingPath string) (*Disk, error) {
	return NewDisk(sealedPath, stagingPath, Config{
		Fake:             true,
		DelaySeconds:     SlowDelaySeconds,
		SectorBytes:      SlowSectorSize,
		ProofSectorBytes: ProofBytesSize,
	})
}

// Config returns the store's configuration.
func (d *Disk) Config() Config { return d.cfg }

// Manager returns the store acting as its own Manager.
func (d *Disk) Manager() Manager { return d }

// NewSealedSectorAccess provisions a fresh sealed-sector file path.
func (d *Disk) NewSealedSectorAccess() (string, error) {
	return d.newSectorAccess(d.sealedPath)
}

// NewStagingSectorAccess provisions a fresh staging-sector file path.
func (d *Disk) NewStagingSectorAccess() (string, error) {
	return d.newSectorAccess(d.stagingPath)
}

func (d *Disk) newSectorAccess(root string) (string, error) {
	d.counter++
	path := filepath.Join(root, fmt.Sprintf("%d", d.counter))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return "", fmt.Errorf("sectorstore: provisioning %s: %w", path, err)
	}
	defer f.Close()
	return path, nil
}
