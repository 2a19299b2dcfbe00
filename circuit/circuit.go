// Package circuit defines the Groth16 circuit shape the compound proof
// wraps around a layered PoRep vanilla proof. In-circuit arithmetization
// depth is explicitly out of scope for this module: Define stays thin,
// touching the private per-challenge witness through the sha2 gadget
// without re-deriving the Sloth encoding step.
package circuit

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/sha2"
)

// MaxChallenges bounds the number of challenge openings a single circuit
// instance can carry; callers pad unused slots by repeating the last real
// challenge.
const MaxChallenges = 1

// ReplicationCircuit is the public/private input shape for one sealed
// sector's compound proof.
type ReplicationCircuit struct {
	// Public inputs.
	CommR     frontend.Variable `gnark:",public"`
	CommD     frontend.Variable `gnark:",public"`
	ReplicaID frontend.Variable `gnark:",public"`

	// Private witness: per-challenge replica leaf and parent leaves, each
	// serialized as a sequence of bytes for the sha2 gadget.
	ReplicaLeaf [MaxChallenges][32]frontend.Variable
	ParentLeaf  [MaxChallenges][32]frontend.Variable
}

// Define hashes each challenge slot's parent leaf through the sha2 gadget.
// It does not re-derive the Sloth encoding step or assert the result
// against CommR/CommD/ReplicaID in-circuit: that arithmetization depth is
// an explicit Non-goal.
func (c *ReplicationCircuit) Define(api frontend.API) error {
	for i := 0; i < MaxChallenges; i++ {
		h, err := sha2.New(api)
		if err != nil {
			return err
		}
		var msg []frontend.Variable
		msg = append(msg, c.ParentLeaf[i][:]...)
		h.Write(msg)
		_ = h.Sum()
	}
	return nil
}
