package porep

import "fmt"

// LayeredPublicParams configures the outer driver: the layer-0 public
// params (its graph's direction is the layer-0 direction) and the layer
// count L.
type LayeredPublicParams struct {
	Layer0 PublicParams
	Layers int
}

// Transform advances pp to the next layer's public params by toggling the
// ZigZag direction between layers ℓ and ℓ+1.
func Transform(pp PublicParams) PublicParams {
	next := pp
	next.Graph = pp.Graph.Zigzag()
	return next
}

// InvertTransform is Transform's inverse: invert_transform(transform(pp)) ==
// pp, since Zigzag() toggling twice returns to the original direction.
func InvertTransform(pp PublicParams) PublicParams {
	return Transform(pp)
}

// LayeredReplicate drives L layers of single-layer Replicate over data,
// transforming the public params between layers. Returns one tau and aux
// per layer, in layer order.
func LayeredReplicate(lpp LayeredPublicParams, replicaID [32]byte, data []byte) ([]Tau, []Aux, error) {
	taus := make([]Tau, 0, lpp.Layers)
	auxs := make([]Aux, 0, lpp.Layers)

	pp := lpp.Layer0
	for l := 0; l < lpp.Layers; l++ {
		tau, aux, err := Replicate(pp, replicaID, data)
		if err != nil {
			return nil, nil, fmt.Errorf("porep: layer %d replicate: %w", l, err)
		}
		taus = append(taus, tau)
		auxs = append(auxs, aux)
		pp = Transform(pp)
	}
	return taus, auxs, nil
}

// LayeredExtractAll inverts LayeredReplicate: walks layers L-1..0, running
// each single-layer ExtractAll with that layer's public params, recovering
// the original data.
func LayeredExtractAll(lpp LayeredPublicParams, replicaID [32]byte, replica []byte) ([]byte, error) {
	// Derive the layer-(L-1) public params by transforming forward L-1
	// times from layer 0, since the driver only ever stores layer 0.
	pps := make([]PublicParams, lpp.Layers)
	pps[0] = lpp.Layer0
	for l := 1; l < lpp.Layers; l++ {
		pps[l] = Transform(pps[l-1])
	}

	data := replica
	for l := lpp.Layers - 1; l >= 0; l-- {
		out, err := ExtractAll(pps[l], replicaID, data)
		if err != nil {
			return nil, fmt.Errorf("porep: layer %d extract: %w", l, err)
		}
		data = out
	}
	return data, nil
}

// SimplifyTau collapses per-layer taus into the single commitment pair the
// compound proof exposes: comm_d from the first layer, comm_r from the
// last.
func SimplifyTau(taus []Tau) (Tau, error) {
	if len(taus) == 0 {
		return Tau{}, fmt.Errorf("porep: no layers to simplify")
	}
	return Tau{CommD: taus[0].CommD, CommR: taus[len(taus)-1].CommR}, nil
}

// LayeredProof accumulates one vanilla Proof per layer, in layer order.
type LayeredProof struct {
	Proofs []Proof
}

// LayeredProve walks layers, re-replicating a scratch copy of the original
// data at each step to obtain the per-layer aux matching that layer's
// state, then defers to the single-layer prover for the given challenges.
func LayeredProve(lpp LayeredPublicParams, replicaID [32]byte, originalData []byte, challenges []int) (LayeredProof, error) {
	scratch := make([]byte, len(originalData))
	copy(scratch, originalData)

	var lproof LayeredProof
	pp := lpp.Layer0
	for l := 0; l < lpp.Layers; l++ {
		_, aux, err := Replicate(pp, replicaID, scratch)
		if err != nil {
			return LayeredProof{}, fmt.Errorf("porep: layer %d scratch replicate: %w", l, err)
		}
		proof, err := Prove(pp, aux, challenges)
		if err != nil {
			return LayeredProof{}, fmt.Errorf("porep: layer %d prove: %w", l, err)
		}
		lproof.Proofs = append(lproof.Proofs, proof)
		pp = Transform(pp)
	}
	return lproof, nil
}

// LayeredVerify iterates proofs and layer taus in lockstep, transforming pp
// after each; it rejects on any sub-proof failure or a proof-count
// mismatch.
func LayeredVerify(lpp LayeredPublicParams, replicaID [32]byte, taus []Tau, lproof LayeredProof) (bool, error) {
	if len(taus) != lpp.Layers || len(lproof.Proofs) != lpp.Layers {
		return false, fmt.Errorf("porep: expected %d layers, got %d taus and %d proofs", lpp.Layers, len(taus), len(lproof.Proofs))
	}

	pp := lpp.Layer0
	for l := 0; l < lpp.Layers; l++ {
		ok, err := Verify(pp, replicaID, taus[l].CommR, taus[l].CommD, lproof.Proofs[l])
		if err != nil {
			return false, fmt.Errorf("porep: layer %d verify: %w", l, err)
		}
		if !ok {
			return false, nil
		}
		pp = Transform(pp)
	}
	return true, nil
}
