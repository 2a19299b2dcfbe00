// Package seal implements the seal/verify_seal/get_unsealed_range
// orchestration: read a sector, run layered replication, derive challenges,
// drive the compound prover, and manage the on-disk parameter cache.
package seal

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/rs/zerolog"

	"github.com/kysee/zigzag-porep/compound"
	"github.com/kysee/zigzag-porep/hasher"
	"github.com/kysee/zigzag-porep/internal/fr32"
	"github.com/kysee/zigzag-porep/internal/zigzag"
	"github.com/kysee/zigzag-porep/porep"
	"github.com/kysee/zigzag-porep/sectorstore"
	"github.com/kysee/zigzag-porep/status"
)

// Params configures a Sealer: graph shape, layer count, hasher choice, and
// where the Groth16 parameter cache lives.
type Params struct {
	BaseDegree      int
	ExpansionDegree int
	SlothIter       int
	Layers          int
	HasherName      hasher.Name
	CacheRoot       string
	Seed            [32]byte

	// ChallengeCount and DeterministicChallenges configure DeriveChallenges
	// for the production seal path. ChallengeCount<=0 defaults to 1, and
	// DeterministicChallenges reproduces the reference implementation's
	// fixed [1] list for parity with its existing test vectors; set it
	// false to use the real hash-expand derivation.
	ChallengeCount          int
	DeterministicChallenges bool
}

// DefaultTestParams mirrors the protocol's reference (test) configuration:
// base_degree=1, expansion_degree=2, sloth_iter=1, layers=2, and the
// reference's fixed single challenge.
func DefaultTestParams(cacheRoot string) Params {
	return Params{
		BaseDegree:              1,
		ExpansionDegree:         2,
		SlothIter:               1,
		Layers:                  2,
		HasherName:              hasher.SHA256,
		CacheRoot:               cacheRoot,
		ChallengeCount:          1,
		DeterministicChallenges: true,
	}
}

// Sealer drives seal/verify_seal/get_unsealed_range against a SectorStore.
type Sealer struct {
	Params Params
	Log    zerolog.Logger
}

// NewSealer constructs a Sealer with the given params and a zerolog logger
// in this codebase's ambient style.
func NewSealer(p Params) *Sealer {
	return &Sealer{
		Params: p,
		Log:    zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().Timestamp().Logger(),
	}
}

// Result is what a successful seal returns.
type Result struct {
	CommR     [32]byte
	CommD     [32]byte
	ProofData []byte
}

// Seal reads inPath (at most sector_bytes, zero-padded), replicates it
// (honoring fake-mode's proof-sector-bytes prefix), writes the replica to
// outPath, produces and self-verifies a compound proof, and persists the
// Groth16 parameters for subsequent verifies.
func (s *Sealer) Seal(ctx context.Context, store sectorstore.Store, inPath, outPath string, proverID, sectorID [31]byte) (Result, status.Code, error) {
	cfg := store.Config()

	if cfg.Fake && cfg.DelaySeconds > 0 {
		s.Log.Debug().Uint32("delay_seconds", cfg.DelaySeconds).Msg("simulating fake-mode delay")
		time.Sleep(time.Duration(cfg.DelaySeconds) * time.Second)
	}

	raw, err := os.ReadFile(inPath)
	if err != nil {
		return Result{}, status.SealFailed, fmt.Errorf("seal: reading %s: %w", inPath, err)
	}
	if uint64(len(raw)) > cfg.SectorBytes {
		raw = raw[:cfg.SectorBytes]
	}
	data := make([]byte, cfg.SectorBytes)
	copy(data, raw)

	replicaID := deriveReplicaID(proverID, sectorID)

	cpp, err := compound.Setup(ctx, compound.SetupParams{CacheRoot: s.Params.CacheRoot, SectorBytes: cfg.ProofSectorBytes})
	if err != nil {
		return Result{}, status.SealFailed, fmt.Errorf("seal: compound setup: %w", err)
	}

	lpp := s.layeredParams(cfg.ProofSectorBytes)

	var taus []porep.Tau
	var replicaBuf []byte
	var witness []byte
	if cfg.Fake {
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return Result{}, status.SealFailed, fmt.Errorf("seal: writing fake original data: %w", err)
		}
		prefix := make([]byte, cfg.ProofSectorBytes)
		copy(prefix, data[:min64(cfg.ProofSectorBytes, uint64(len(data)))])
		witness = append([]byte(nil), prefix...)
		taus, _, err = porep.LayeredReplicate(lpp, replicaID, prefix)
		if err != nil {
			return Result{}, status.SealFailed, fmt.Errorf("seal: fake-mode replicate: %w", err)
		}
		replicaBuf = prefix
	} else {
		witness = append([]byte(nil), data...)
		taus, _, err = porep.LayeredReplicate(lpp, replicaID, data)
		if err != nil {
			return Result{}, status.SealFailed, fmt.Errorf("seal: replicate: %w", err)
		}
		replicaBuf = data
		if err := os.WriteFile(outPath, replicaBuf, 0o644); err != nil {
			return Result{}, status.SealFailed, fmt.Errorf("seal: writing replica: %w", err)
		}
	}

	tau, err := porep.SimplifyTau(taus)
	if err != nil {
		return Result{}, status.SealFailed, fmt.Errorf("seal: simplify_tau: %w", err)
	}

	count := s.Params.ChallengeCount
	if count <= 0 {
		count = 1
	}
	challenges := DeriveChallenges(tau.CommR, tau.CommD, lpp.Layer0.Graph.Size(), count, s.Params.DeterministicChallenges)

	lproof, err := porep.LayeredProve(lpp, replicaID, witness, challenges)
	if err != nil {
		return Result{}, status.SealFailed, fmt.Errorf("seal: layered prove: %w", err)
	}
	vanillaProof := lproof.Proofs[len(lproof.Proofs)-1]

	pub := compound.PublicInputs{CommR: tau.CommR, CommD: tau.CommD, ReplicaID: replicaID}
	gproof, err := compound.Prove(cpp, pub, compound.PrivateInputs{Proof: vanillaProof})
	if err != nil {
		return Result{}, status.SealFailed, fmt.Errorf("seal: compound prove: %w", err)
	}

	ok, err := compound.Verify(cpp, pub, gproof)
	if err != nil || !ok {
		// A failed self-verify after a successful seal is a fatal internal
		// invariant violation: never return a non-verifying proof. Callers
		// at the process boundary should treat this status as unrecoverable.
		s.Log.Error().Err(err).Msg("self-verify failed after seal")
		return Result{}, status.SealFailed, fmt.Errorf("seal: fatal: self-verify failed after seal")
	}

	proofBytes, err := serializeProof(gproof)
	if err != nil {
		return Result{}, status.SealFailed, fmt.Errorf("seal: serializing proof: %w", err)
	}

	return Result{CommR: tau.CommR, CommD: tau.CommD, ProofData: proofBytes}, status.OK, nil
}

// VerifySeal recomputes replica_id, loads cached keys, deserializes the
// proof, and runs compound Verify against comm_r, comm_d and replica_id. It
// does not derive challenges: the compound public inputs carry none.
func (s *Sealer) VerifySeal(ctx context.Context, store sectorstore.Store, commR, commD [32]byte, proverID, sectorID [31]byte, proofBytes []byte) (status.Code, error) {
	cfg := store.Config()
	replicaID := deriveReplicaID(proverID, sectorID)

	cpp, err := compound.Setup(ctx, compound.SetupParams{CacheRoot: s.Params.CacheRoot, SectorBytes: cfg.ProofSectorBytes})
	if err != nil {
		return status.VerifyError, fmt.Errorf("verify_seal: compound setup: %w", err)
	}

	gproof, err := deserializeProof(proofBytes)
	if err != nil {
		return status.VerifyError, fmt.Errorf("verify_seal: deserializing proof: %w", err)
	}

	pub := compound.PublicInputs{CommR: commR, CommD: commD, ReplicaID: replicaID}
	ok, err := compound.Verify(cpp, pub, gproof)
	if err != nil {
		return status.VerifyError, fmt.Errorf("verify_seal: %w", err)
	}
	if !ok {
		return status.VerifyInvalid, nil
	}
	return status.OK, nil
}

// GetUnsealedRange extracts a byte range of the original data. In fake
// mode the sealed file IS the original data; otherwise it runs the layered
// extract and write_unpadded's the requested range. Returns the number of
// unpadded bytes written.
func (s *Sealer) GetUnsealedRange(store sectorstore.Store, sealedPath, outPath string, proverID, sectorID [31]byte, offset, length int) (int, status.Code, error) {
	cfg := store.Config()

	sealed, err := os.ReadFile(sealedPath)
	if err != nil {
		return 0, status.GetUnsealedRangeFailed, fmt.Errorf("get_unsealed_range: reading %s: %w", sealedPath, err)
	}

	var unpadded []byte
	if cfg.Fake {
		unpadded = sealed
	} else {
		replicaID := deriveReplicaID(proverID, sectorID)
		lpp := s.layeredParams(cfg.ProofSectorBytes)
		data, err := porep.LayeredExtractAll(lpp, replicaID, sealed)
		if err != nil {
			return 0, status.GetUnsealedRangeFailed, fmt.Errorf("get_unsealed_range: extract_all: %w", err)
		}
		unpadded, err = fr32.WriteUnpadded(data, 0, len(data))
		if err != nil {
			return 0, status.GetUnsealedRangeFailed, fmt.Errorf("get_unsealed_range: write_unpadded: %w", err)
		}
	}

	if offset < 0 || offset > len(unpadded) {
		return 0, status.GetUnsealedRangeFailed, fmt.Errorf("get_unsealed_range: offset %d out of range", offset)
	}
	end := offset + length
	if end > len(unpadded) {
		end = len(unpadded)
	}
	out := unpadded[offset:end]

	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return 0, status.GetUnsealedRangeFailed, fmt.Errorf("get_unsealed_range: writing %s: %w", outPath, err)
	}
	return len(out), status.OK, nil
}

func (s *Sealer) layeredParams(sectorBytes uint64) porep.LayeredPublicParams {
	n := int(sectorBytes) / porep.Lambda
	g := zigzag.New(n, s.Params.BaseDegree, s.Params.ExpansionDegree, s.Params.Seed)
	return porep.LayeredPublicParams{
		Layer0: porep.PublicParams{
			Graph:      g,
			SlothIter:  s.Params.SlothIter,
			HasherName: s.Params.HasherName,
		},
		Layers: s.Params.Layers,
	}
}

// deriveReplicaID computes replica_id = H(pad32(prover_id) ‖ pad32(sector_id)).
func deriveReplicaID(proverID, sectorID [31]byte) [32]byte {
	var padP, padS [32]byte
	copy(padP[:31], proverID[:])
	copy(padS[:31], sectorID[:])
	buf := make([]byte, 0, 64)
	buf = append(buf, padP[:]...)
	buf = append(buf, padS[:]...)
	return sha256.Sum256(buf)
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func serializeProof(p groth16.Proof) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deserializeProof(b []byte) (groth16.Proof, error) {
	// Curve is fixed to BN254 for this module's single circuit; callers
	// needing multi-curve support would thread ecc.ID through Params.
	p := groth16.NewProof(ecc.BN254)
	if _, err := p.ReadFrom(bytes.NewReader(b)); err != nil {
		return nil, err
	}
	return p, nil
}
