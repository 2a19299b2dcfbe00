// Package porep implements single-layer DRG-PoRep replicate/extract/prove/
// verify over a ZigZag graph, plus the layered driver that runs L layers
// with direction alternation between them.
package porep

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/kysee/zigzag-porep/hasher"
	"github.com/kysee/zigzag-porep/internal/sloth"
	"github.com/kysee/zigzag-porep/internal/zigzag"
	"github.com/kysee/zigzag-porep/merkle"
)

// Lambda is the field-element slot size in bytes.
const Lambda = 32

// PublicParams configures one layer's graph and hashing.
type PublicParams struct {
	Graph      *zigzag.Graph
	SlothIter  int
	HasherName hasher.Name
}

// Tau is the (comm_r, comm_d) commitment pair for one layer.
type Tau struct {
	CommR [32]byte
	CommD [32]byte
}

// Aux holds the Merkle trees needed to answer challenges for one layer.
type Aux struct {
	ReplicaTree *merkle.Tree
	DataTree    *merkle.Tree
}

// slots views a sector buffer as n contiguous lambda-byte field slots.
func slots(data []byte) [][32]byte {
	n := len(data) / Lambda
	out := make([][32]byte, n)
	for i := 0; i < n; i++ {
		copy(out[i][:], data[i*Lambda:(i+1)*Lambda])
	}
	return out
}

// Replicate mutates data in place, node by node in graph order: the key
// hashes replicaID with the node's current parent slots, Sloth-encodes it,
// and adds the result into the node's slot under field addition. Returns the layer's tau and the
// Merkle trees over both the post- and pre-mutation sector.
func Replicate(pp PublicParams, replicaID [32]byte, data []byte) (Tau, Aux, error) {
	if len(data)%Lambda != 0 {
		return Tau{}, Aux{}, fmt.Errorf("porep: sector length %d not a multiple of lambda %d", len(data), Lambda)
	}
	n := len(data) / Lambda
	if n != pp.Graph.Size() {
		return Tau{}, Aux{}, fmt.Errorf("porep: sector has %d nodes, graph has %d", n, pp.Graph.Size())
	}

	hf, err := hasher.Get(pp.HasherName)
	if err != nil {
		return Tau{}, Aux{}, err
	}

	dataSlots := slots(data)
	dataTree, err := merkle.Build(dataSlots, pp.HasherName)
	if err != nil {
		return Tau{}, Aux{}, err
	}

	order := nodeOrder(pp.Graph)
	for _, node := range order {
		key := nodeKey(hf, replicaID, pp.Graph, data, node)
		encKey := sloth.EncodeIter(feBytes(replicaID[:]), feBytes(key[:]), pp.SlothIter)
		combineSlot(data, node, encKey, false)
	}

	replicaSlots := slots(data)
	replicaTree, err := merkle.Build(replicaSlots, pp.HasherName)
	if err != nil {
		return Tau{}, Aux{}, err
	}

	return Tau{CommR: replicaTree.Root(), CommD: dataTree.Root()},
		Aux{ReplicaTree: replicaTree, DataTree: dataTree}, nil
}

// ExtractAll inverts Replicate: it traverses nodes in reverse graph order,
// recomputes enc_key from the (still-encoded) parent slots, and subtracts
// it back out, recovering the original data in place on a copy of replica.
func ExtractAll(pp PublicParams, replicaID [32]byte, replica []byte) ([]byte, error) {
	if len(replica)%Lambda != 0 {
		return nil, fmt.Errorf("porep: sector length %d not a multiple of lambda %d", len(replica), Lambda)
	}
	n := len(replica) / Lambda
	if n != pp.Graph.Size() {
		return nil, fmt.Errorf("porep: sector has %d nodes, graph has %d", n, pp.Graph.Size())
	}

	hf, err := hasher.Get(pp.HasherName)
	if err != nil {
		return nil, err
	}

	data := make([]byte, len(replica))
	copy(data, replica)

	order := nodeOrder(pp.Graph)
	for i := len(order) - 1; i >= 0; i-- {
		node := order[i]
		key := nodeKey(hf, replicaID, pp.Graph, data, node)
		encKey := sloth.EncodeIter(feBytes(replicaID[:]), feBytes(key[:]), pp.SlothIter)
		combineSlot(data, node, encKey, true)
	}
	return data, nil
}

// nodeOrder returns nodes in the direction the graph currently traverses:
// ascending if forward, descending if reversed.
func nodeOrder(g *zigzag.Graph) []int {
	n := g.Size()
	order := make([]int, n)
	if g.Reversed() {
		for i := 0; i < n; i++ {
			order[i] = n - 1 - i
		}
	} else {
		for i := 0; i < n; i++ {
			order[i] = i
		}
	}
	return order
}

// nodeKey hashes replicaID with the node's parent slots (reading from data,
// which must hold the parents' encoded values: during replicate they were
// encoded earlier in traversal order, and during extract the reversed walk
// decodes a node before any of its parents). The direction's
// boundary node is padded with itself as a parent (node 0 forward, node
// n-1 reversed); that self-reference is excluded from the hash rather than
// read, since at the moment the boundary node's key is computed its own
// slot is mid-mutation — Replicate reads it pre-encode while ExtractAll
// processes the node last and would read it post-encode. Excluding it keeps
// the key (and so enc_key) identical in both directions.
func nodeKey(hf hasher.Func, replicaID [32]byte, g *zigzag.Graph, data []byte, node int) [32]byte {
	parents := g.Parents(node)
	buf := make([]byte, 0, 32+32*len(parents))
	buf = append(buf, replicaID[:]...)
	for _, p := range parents {
		if p == node {
			continue
		}
		buf = append(buf, data[p*Lambda:(p+1)*Lambda]...)
	}
	return hf(buf)
}

// combineSlot combines data[node]'s slot with encKey under field addition
// (replicate) or its inverse, field subtraction (extract) — the protocol's
// "field xor" combining step and its inverse.
func combineSlot(data []byte, node int, encKey fr.Element, subtract bool) {
	var cur fr.Element
	cur.SetBytes(data[node*Lambda : (node+1)*Lambda])
	if subtract {
		cur.Sub(&cur, &encKey)
	} else {
		cur.Add(&cur, &encKey)
	}
	out := cur.Bytes()
	copy(data[node*Lambda:(node+1)*Lambda], out[:])
}

func feBytes(b []byte) fr.Element {
	var e fr.Element
	e.SetBytes(b)
	return e
}
