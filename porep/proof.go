package porep

import (
	"fmt"

	"github.com/kysee/zigzag-porep/hasher"
	"github.com/kysee/zigzag-porep/internal/sloth"
	"github.com/kysee/zigzag-porep/merkle"
)

// ChallengeOpening is the per-challenge witness: an opening of the
// challenged node's pre-encode data slot and post-encode replica slot, plus
// an opening of each of its non-self parents' replica slots. Parents are
// always encoded earlier in traversal order, so their committed value by
// the time the node is processed is their replica (post-encode) value; the
// direction's boundary node pads itself as its own parent, and that
// self-reference is excluded here the same way nodeKey excludes it.
type ChallengeOpening struct {
	Node          int
	DataOpen      merkle.Opening
	ReplicaOpen   merkle.Opening
	ParentIndices []int
	ParentOpens   []merkle.Opening
}

// Proof is the vanilla (non-SNARK) layer proof: one opening set per
// challenge.
type Proof struct {
	Openings []ChallengeOpening
}

// Prove answers a challenge set by opening, for each challenged node, its
// pre- and post-encode slots and every one of its non-self parents' replica
// slots.
func Prove(pp PublicParams, aux Aux, challenges []int) (Proof, error) {
	var proof Proof
	for _, c := range challenges {
		if c < 0 || c >= pp.Graph.Size() {
			return Proof{}, fmt.Errorf("porep: challenge %d out of range", c)
		}
		dataOpen, err := aux.DataTree.Open(c)
		if err != nil {
			return Proof{}, err
		}
		replicaOpen, err := aux.ReplicaTree.Open(c)
		if err != nil {
			return Proof{}, err
		}
		parents := pp.Graph.Parents(c)
		parentIndices := make([]int, 0, len(parents))
		parentOpens := make([]merkle.Opening, 0, len(parents))
		for _, p := range parents {
			if p == c {
				continue
			}
			op, err := aux.ReplicaTree.Open(p)
			if err != nil {
				return Proof{}, err
			}
			parentIndices = append(parentIndices, p)
			parentOpens = append(parentOpens, op)
		}
		proof.Openings = append(proof.Openings, ChallengeOpening{
			Node:          c,
			DataOpen:      dataOpen,
			ReplicaOpen:   replicaOpen,
			ParentIndices: parentIndices,
			ParentOpens:   parentOpens,
		})
	}
	return proof, nil
}

// Verify recomputes enc_key from the opened parent replica slots, Sloth-
// encodes it, and checks that combining it with the opened data slot
// reproduces the opened replica slot — and that every opening is valid
// against the claimed commitments.
func Verify(pp PublicParams, replicaID [32]byte, commR, commD [32]byte, proof Proof) (bool, error) {
	hf, err := hasher.Get(pp.HasherName)
	if err != nil {
		return false, err
	}

	for _, op := range proof.Openings {
		if ok, err := merkle.Verify(commD, op.DataOpen, pp.HasherName); err != nil || !ok {
			return false, err
		}
		if ok, err := merkle.Verify(commR, op.ReplicaOpen, pp.HasherName); err != nil || !ok {
			return false, err
		}

		buf := make([]byte, 0, 32+32*len(op.ParentOpens))
		buf = append(buf, replicaID[:]...)
		for i, pOp := range op.ParentOpens {
			ok, err := merkle.Verify(commR, pOp, pp.HasherName)
			if err != nil || !ok {
				return false, err
			}
			if pOp.Index != op.ParentIndices[i] {
				return false, nil
			}
			buf = append(buf, pOp.Leaf[:]...)
		}
		key := hf(buf)
		encKey := sloth.EncodeIter(feBytes(replicaID[:]), feBytes(key[:]), pp.SlothIter)

		dataFE := feBytes(op.DataOpen.Leaf[:])
		dataFE.Add(&dataFE, &encKey)
		if dataFE.Bytes() != op.ReplicaOpen.Leaf {
			return false, nil
		}
	}
	return true, nil
}
