package seal

import (
	"crypto/sha256"
	"encoding/binary"
)

// DeriveChallenges folds comm_r and comm_d through SHA-256 to produce count
// distinct node indices in [0, n). This resolves the protocol's documented
// open question (derive_challenges returning a hard-coded [1] in the
// reference source): production callers should pass deterministic=false;
// deterministic=true reproduces the legacy fixed [1] list when count==1, for
// parity with the reference implementation's existing test vectors.
func DeriveChallenges(commR, commD [32]byte, n, count int, deterministic bool) []int {
	if deterministic && count == 1 {
		return []int{1 % max(n, 1)}
	}

	seen := make(map[int]bool, count)
	out := make([]int, 0, count)
	var counter uint64
	for len(out) < count && n > 0 {
		buf := make([]byte, 0, 64+8)
		buf = append(buf, commR[:]...)
		buf = append(buf, commD[:]...)
		var ctr [8]byte
		binary.BigEndian.PutUint64(ctr[:], counter)
		buf = append(buf, ctr[:]...)
		digest := sha256.Sum256(buf)
		idx := int(binary.BigEndian.Uint64(digest[:8]) % uint64(n))
		counter++
		if seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, idx)
	}
	return out
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
