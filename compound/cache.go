// Package compound wraps the layered PoRep vanilla proof in a Groth16 SNARK:
// it builds the circuit witness, drives gnark's Setup/Prove/Verify, and
// maintains the on-disk proving/verifying key cache.
package compound

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// CachePath derives the well-known on-disk path for a sector-byte-size-keyed
// cache entry: <cache_root>/<prefix>[<sector_bytes>].
func CachePath(cacheRoot, prefix string, sectorBytes uint64) string {
	return filepath.Join(cacheRoot, fmt.Sprintf("%s[%d]", prefix, sectorBytes))
}

// lockPath returns the sidecar lock file path for a cache entry.
func lockPath(path string) string { return path + ".lock" }

// WithExclusiveWrite runs write while holding an exclusive lock on path's
// sidecar lock file, so concurrent writers across processes serialize and
// readers never observe a torn file.
func WithExclusiveWrite(ctx context.Context, path string, write func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("compound: creating cache dir: %w", err)
	}
	fl := flock.New(lockPath(path))
	locked, err := fl.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("compound: acquiring parameter cache lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("compound: could not acquire parameter cache lock for %s", path)
	}
	defer fl.Unlock()

	return write()
}

// Exists reports whether a cache entry is already present; readers proceed
// without locking once an entry exists, per the protocol's concurrent-reader
// tolerance.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
