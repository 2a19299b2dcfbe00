// Package merkle builds the binary commitment trees used for comm_d/comm_r
// and produces per-challenge opening proofs. Leaf padding uses the level-0
// entry of protolambda/ztyp's zero-hash table; node hashing goes through the
// hasher package.
package merkle

import (
	"fmt"

	"github.com/protolambda/ztyp/tree"

	"github.com/kysee/zigzag-porep/hasher"
)

// Tree is a binary Merkle tree over a power-of-two number of 32-byte leaves.
type Tree struct {
	levels [][][32]byte // levels[0] = leaves, levels[last] = {root}
}

// Build constructs a Merkle tree over leaves (padded up to the next power of
// two with ztyp's zero-hash table) using the named hasher.
func Build(leaves [][32]byte, h hasher.Name) (*Tree, error) {
	hf, err := hasher.Get(h)
	if err != nil {
		return nil, err
	}
	hashFn := func(a, b [32]byte) [32]byte {
		var buf [64]byte
		copy(buf[:32], a[:])
		copy(buf[32:], b[:])
		return hf(buf[:])
	}

	depth := 0
	for (1 << depth) < len(leaves) {
		depth++
	}
	size := 1 << depth
	padded := make([][32]byte, size)
	copy(padded, leaves)
	for i := len(leaves); i < size; i++ {
		padded[i] = tree.ZeroHashes[0]
	}

	levels := make([][][32]byte, depth+1)
	levels[0] = padded
	for lvl := 0; lvl < depth; lvl++ {
		cur := levels[lvl]
		next := make([][32]byte, len(cur)/2)
		for i := range next {
			next[i] = hashFn(cur[2*i], cur[2*i+1])
		}
		levels[lvl+1] = next
	}

	return &Tree{levels: levels}, nil
}

// Root returns the tree's commitment root.
func (t *Tree) Root() [32]byte {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// Opening is a Merkle inclusion proof for a single leaf index: the leaf
// value and the sibling hash at each level from the bottom up.
type Opening struct {
	Index   int
	Leaf    [32]byte
	Path    [][32]byte
}

// Open produces the opening proof for leaf index.
func (t *Tree) Open(index int) (Opening, error) {
	if index < 0 || index >= len(t.levels[0]) {
		return Opening{}, fmt.Errorf("merkle: index %d out of range [0,%d)", index, len(t.levels[0]))
	}
	op := Opening{Index: index, Leaf: t.levels[0][index]}
	idx := index
	for lvl := 0; lvl < len(t.levels)-1; lvl++ {
		sibling := idx ^ 1
		op.Path = append(op.Path, t.levels[lvl][sibling])
		idx /= 2
	}
	return op, nil
}

// Verify checks an opening proof against root using the named hasher.
func Verify(root [32]byte, op Opening, h hasher.Name) (bool, error) {
	hf, err := hasher.Get(h)
	if err != nil {
		return false, err
	}
	hashFn := func(a, b [32]byte) [32]byte {
		var buf [64]byte
		copy(buf[:32], a[:])
		copy(buf[32:], b[:])
		return hf(buf[:])
	}

	cur := op.Leaf
	idx := op.Index
	for _, sib := range op.Path {
		if idx%2 == 0 {
			cur = hashFn(cur, sib)
		} else {
			cur = hashFn(sib, cur)
		}
		idx /= 2
	}
	return cur == root, nil
}
