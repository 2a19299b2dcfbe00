// Package sloth implements the Sloth verifiable-delay encoding used to make
// per-node replication time-bound: encode is a repeated modular 5th-root
// (slow), decode is the repeated inverse 5th power (fast).
package sloth

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// fifthRootExponent is the inverse of 5 modulo (p-1), used to compute 5th
// roots over the BLS12-381 scalar field by exponentiation. gcd(5, p-1) == 1
// for this field's modulus, so the 5th-power map is a bijection and this
// exponent is well-defined.
var fifthRootExponent = computeFifthRootExponent()

func computeFifthRootExponent() *big.Int {
	pMinus1 := new(big.Int).Sub(fr.Modulus(), big.NewInt(1))
	inv := new(big.Int).ModInverse(big.NewInt(5), pMinus1)
	if inv == nil {
		panic("sloth: 5 is not invertible mod p-1 for this field")
	}
	return inv
}

// EncodeIter applies iterations rounds of the slow direction: at each round
// the running value is summed with the key then replaced by its modular
// 5th root.
func EncodeIter(key, x fr.Element, iterations int) fr.Element {
	cur := x
	for i := 0; i < iterations; i++ {
		cur.Add(&cur, &key)
		cur = fifthRoot(cur)
	}
	return cur
}

// DecodeIter applies iterations rounds of the fast inverse direction,
// mutually inverse with EncodeIter for the same key and iteration count.
func DecodeIter(key, x fr.Element, iterations int) fr.Element {
	cur := x
	for i := 0; i < iterations; i++ {
		cur.Exp(cur, big.NewInt(5))
		cur.Sub(&cur, &key)
	}
	return cur
}

func fifthRoot(x fr.Element) fr.Element {
	var out fr.Element
	out.Exp(x, fifthRootExponent)
	return out
}
