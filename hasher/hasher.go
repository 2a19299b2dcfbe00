// Package hasher provides the pluggable digest capability the protocol is
// generic over: each node commitment and Merkle level is hashed through a
// named, swappable primitive rather than a single hard-coded function.
package hasher

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2s"
)

// Name identifies one of the registered hash capabilities.
type Name string

const (
	SHA256   Name = "sha256"
	Blake2s  Name = "blake2s"
	Keccak   Name = "keccak256"
	Pedersen Name = "pedersen"
)

// Func hashes an arbitrary-length message to a 32-byte digest.
type Func func(msg []byte) [32]byte

var registry = map[Name]Func{
	SHA256:   sha256Hash,
	Blake2s:  blake2sHash,
	Keccak:   keccakHash,
	Pedersen: pedersenHash,
}

// Get resolves a hasher by name, defaulting to SHA256 if name is empty.
func Get(name Name) (Func, error) {
	if name == "" {
		name = SHA256
	}
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("hasher: unknown hasher %q", name)
	}
	return f, nil
}

func sha256Hash(msg []byte) [32]byte {
	return sha256.Sum256(msg)
}

func blake2sHash(msg []byte) [32]byte {
	return blake2s.Sum256(msg)
}

func keccakHash(msg []byte) [32]byte {
	var out [32]byte
	copy(out[:], crypto.Keccak256(msg))
	return out
}

// pedersenHash is a native stand-in for a Pedersen commitment over
// BLS12-381 G1: the SHA-256 digest of the message is taken as a scalar and
// multiplied into the G1 generator, and the first 32 bytes of the compressed
// point are the digest. No dedicated Pedersen-hash package is available in
// this module's dependency set outside of in-circuit gadgets, which only
// operate inside a constraint system; this gives the capability a native
// equivalent rather than silently dropping it from the registry.
func pedersenHash(msg []byte) [32]byte {
	_, _, g1Gen, _ := bls12381.Generators()
	scalar := new(big.Int).SetBytes(sha256Bytes(msg))
	var point bls12381.G1Affine
	point.ScalarMultiplication(&g1Gen, scalar)
	compressed := point.Bytes()
	var out [32]byte
	copy(out[:], compressed[:32])
	return out
}

func sha256Bytes(msg []byte) []byte {
	d := sha256.Sum256(msg)
	return d[:]
}
