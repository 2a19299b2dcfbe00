// Package zigzag implements the ZigZag graph construction: a base DRG
// composed with a Feistel-derived expansion overlay, with direction
// reversal and a shared, reader/writer-guarded parents cache.
package zigzag

import (
	"sort"
	"sync"

	"github.com/kysee/zigzag-porep/internal/drgraph"
	"github.com/kysee/zigzag-porep/internal/feistel"
)

// cacheBudgetBytes caps the parents cache at roughly 10 MiB, mirroring the
// reference implementation's MAX_CACHE_SIZE budget: New sizes the cache to
// budget / ((degree + 1) * 8 bytes) entries, capped at n.
const cacheBudgetBytes = 10 * 1024 * 1024

// parentsCache is the shared, two-direction cache. It is allocated once per
// base graph and shared by pointer between a Graph and every clone produced
// by Zigzag(), so alternating-direction layers reuse cross-direction work.
type parentsCache struct {
	mu      sync.RWMutex
	entries int
	forward map[int][]int
	reverse map[int][]int
}

func newParentsCache(entries int) *parentsCache {
	return &parentsCache{
		entries: entries,
		forward: make(map[int][]int),
		reverse: make(map[int][]int),
	}
}

func (c *parentsCache) get(reversed bool, node int) ([]int, bool) {
	if node >= c.entries {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	m := c.forward
	if reversed {
		m = c.reverse
	}
	v, ok := m[node]
	return v, ok
}

// put writes the cache entry for node, asserting the key was previously
// absent: a second write at the same key is a logic error, exactly as the
// reference implementation's debug_assert_eq!(old_value, None) documents.
func (c *parentsCache) put(reversed bool, node int, v []int) {
	if node >= c.entries {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.forward
	if reversed {
		m = c.reverse
	}
	if _, exists := m[node]; exists {
		panic("zigzag: parents cache write collision")
	}
	m[node] = v
}

// Graph is a ZigZag graph: a base DRG plus a Feistel expansion overlay.
// Graphs are immutable after construction; Zigzag() returns a toggled clone
// sharing the same underlying cache and precomputed Feistel metadata.
type Graph struct {
	base            *drgraph.Graph
	expansionDegree int
	reversed        bool
	feistelPre      feistel.Precomputed
	cache           *parentsCache
}

// New constructs a ZigZag graph over n nodes with the given base and
// expansion degrees, seeded deterministically.
func New(n, baseDegree, expansionDegree int, seed [32]byte) *Graph {
	base := drgraph.New(n, baseDegree, seed)
	domain := uint64(expansionDegree) * uint64(n)
	if domain == 0 {
		domain = 1
	}
	entries := cacheBudgetBytes / (8 * (baseDegree + expansionDegree + 1))
	if entries > n {
		entries = n
	}
	if entries < 1 {
		entries = 1
	}
	return &Graph{
		base:            base,
		expansionDegree: expansionDegree,
		reversed:        false,
		feistelPre:      feistel.Precompute(domain),
		cache:           newParentsCache(entries),
	}
}

// Size returns the node count n.
func (g *Graph) Size() int { return g.base.Size() }

// Degree returns base_degree + expansion_degree.
func (g *Graph) Degree() int { return g.base.Degree() + g.expansionDegree }

// Reversed reports the current direction flag.
func (g *Graph) Reversed() bool { return g.reversed }

// ExpansionDegree returns the overlay fan-in.
func (g *Graph) ExpansionDegree() int { return g.expansionDegree }

// Zigzag returns a clone of g with the direction flag toggled, sharing the
// underlying parents cache and Feistel precomputation by reference.
func (g *Graph) Zigzag() *Graph {
	clone := *g
	clone.reversed = !g.reversed
	return &clone
}

// realIndex maps a base-graph index to its position under the current
// direction: identity when forward, mirrored (n-1-i) when reversed.
func (g *Graph) realIndex(i int) int {
	if g.reversed {
		return g.Size() - 1 - i
	}
	return i
}

// correspondent computes the Feistel-permuted overlay partner of (node, i)
// over the domain expansion_degree*n: permute() when forward, the inverse
// permutation when reversed, so the overlay is invertible per direction.
func (g *Graph) correspondent(node, i int) int {
	x := uint64(node)*uint64(g.expansionDegree) + uint64(i)
	var y uint64
	if g.reversed {
		y = feistel.InvertPermute(x, feistel.Keys, g.feistelPre)
	} else {
		y = feistel.Permute(x, feistel.Keys, g.feistelPre)
	}
	return int(y / uint64(g.expansionDegree))
}

// ExpandedParents returns the cached (or freshly computed) set of overlay
// parents for node, filtered to respect direction monotonicity: strictly
// smaller indices when forward, strictly larger when reversed.
func (g *Graph) ExpandedParents(node int) []int {
	if v, ok := g.cache.get(g.reversed, node); ok {
		return v
	}

	out := make([]int, 0, g.expansionDegree)
	for i := 0; i < g.expansionDegree; i++ {
		other := g.correspondent(node, i)
		if g.reversed {
			if other > node {
				out = append(out, other)
			}
		} else {
			if other < node {
				out = append(out, other)
			}
		}
	}
	g.cache.put(g.reversed, node, out)
	return out
}

// Parents returns the full, sorted, degree-constant parent list for
// rawNode: base-graph parents re-indexed through realIndex, unioned with
// the expansion overlay, padded to Degree() with the direction's boundary
// node, and sorted ascending.
func (g *Graph) Parents(rawNode int) []int {
	n := g.Size()
	base := g.base.Parents(g.realIndex(rawNode))

	parents := make([]int, 0, g.Degree())
	for _, p := range base {
		parents = append(parents, g.realIndex(p))
	}
	parents = append(parents, g.ExpandedParents(rawNode)...)

	pad := n - 1
	if !g.reversed {
		pad = 0
	}
	for len(parents) < g.Degree() {
		parents = append(parents, pad)
	}
	if len(parents) > g.Degree() {
		parents = parents[:g.Degree()]
	}

	sort.Ints(parents)
	assertMonotonic(parents, rawNode, g.reversed)
	return parents
}

func assertMonotonic(parents []int, node int, reversed bool) {
	for _, p := range parents {
		if reversed {
			if p < node {
				panic("zigzag: non-monotonic reversed parent")
			}
		} else {
			if p > node {
				panic("zigzag: non-monotonic forward parent")
			}
		}
	}
}
