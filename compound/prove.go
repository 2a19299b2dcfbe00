package compound

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"

	"github.com/kysee/zigzag-porep/circuit"
	"github.com/kysee/zigzag-porep/porep"
)

// PublicInputs is the compound proof's public statement.
type PublicInputs struct {
	CommR     [32]byte
	CommD     [32]byte
	ReplicaID [32]byte
}

// PrivateInputs is the witness feeding the circuit: the vanilla per-
// challenge openings produced by the layered driver's final layer.
type PrivateInputs struct {
	Proof porep.Proof
}

// Prove arithmetizes the vanilla proof's openings into the replication
// circuit's witness and runs groth16.Prove against the cached keys.
func Prove(pp PublicParams, pub PublicInputs, priv PrivateInputs) (groth16.Proof, error) {
	assignment := &circuit.ReplicationCircuit{
		CommR:     bytesToFr(pub.CommR[:]),
		CommD:     bytesToFr(pub.CommD[:]),
		ReplicaID: bytesToFr(pub.ReplicaID[:]),
	}
	fillChallengeWitness(assignment, priv.Proof)

	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("compound: building witness: %w", err)
	}

	proof, err := groth16.Prove(pp.CCS, pp.PK, witness)
	if err != nil {
		return nil, fmt.Errorf("compound: groth16 prove: %w", err)
	}
	return proof, nil
}

// Verify checks a Groth16 proof against the cached verifying key and the
// public statement.
func Verify(pp PublicParams, pub PublicInputs, proof groth16.Proof) (bool, error) {
	assignment := &circuit.ReplicationCircuit{
		CommR:     bytesToFr(pub.CommR[:]),
		CommD:     bytesToFr(pub.CommD[:]),
		ReplicaID: bytesToFr(pub.ReplicaID[:]),
	}
	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return false, fmt.Errorf("compound: building public witness: %w", err)
	}

	if err := groth16.Verify(proof, pp.VK, witness); err != nil {
		return false, nil
	}
	return true, nil
}

func bytesToFr(b []byte) frontend.Variable {
	return new(big.Int).SetBytes(b)
}

// fillChallengeWitness copies the vanilla proof's per-challenge leaves into
// the circuit's private witness arrays, padding with the last real
// challenge if fewer than circuit.MaxChallenges were opened.
func fillChallengeWitness(c *circuit.ReplicationCircuit, proof porep.Proof) {
	for i := 0; i < circuit.MaxChallenges; i++ {
		var op porep.ChallengeOpening
		if i < len(proof.Openings) {
			op = proof.Openings[i]
		} else if len(proof.Openings) > 0 {
			op = proof.Openings[len(proof.Openings)-1]
		}
		for b := 0; b < 32; b++ {
			c.ReplicaLeaf[i][b] = op.ReplicaOpen.Leaf[b]
			if len(op.ParentOpens) > 0 {
				c.ParentLeaf[i][b] = op.ParentOpens[0].Leaf[b]
			}
		}
	}
}
