package compound

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/kysee/zigzag-porep/circuit"
)

// SetupParams configures compound setup: the cache root directory and the
// effective sector-byte size the vanilla public params are keyed by.
type SetupParams struct {
	CacheRoot   string
	SectorBytes uint64
}

// PublicParams holds the compiled circuit and the proving/verifying keys for
// one effective sector size. It does not carry the vanilla (layered PoRep)
// public params, and each Setup call compiles the circuit afresh.
type PublicParams struct {
	SectorBytes uint64
	CCS         constraint.ConstraintSystem
	PK          groth16.ProvingKey
	VK          groth16.VerifyingKey
}

// Setup compiles the replication circuit and either loads cached proving/
// verifying keys for this sector size or generates and persists fresh ones.
func Setup(ctx context.Context, sp SetupParams) (PublicParams, error) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit.ReplicationCircuit{})
	if err != nil {
		return PublicParams{}, fmt.Errorf("compound: compiling circuit: %w", err)
	}

	ccsPath := CachePath(sp.CacheRoot, "porep.ccs", sp.SectorBytes)
	pkPath := CachePath(sp.CacheRoot, "porep.pk", sp.SectorBytes)
	vkPath := CachePath(sp.CacheRoot, "porep.vk", sp.SectorBytes)

	if Exists(pkPath) && Exists(vkPath) {
		pk, vk, err := loadKeys(pkPath, vkPath)
		if err != nil {
			return PublicParams{}, err
		}
		return PublicParams{SectorBytes: sp.SectorBytes, CCS: ccs, PK: pk, VK: vk}, nil
	}

	var pk groth16.ProvingKey
	var vk groth16.VerifyingKey
	err = WithExclusiveWrite(ctx, pkPath, func() error {
		var setupErr error
		pk, vk, setupErr = groth16.Setup(ccs)
		if setupErr != nil {
			return fmt.Errorf("compound: groth16 setup: %w", setupErr)
		}
		if err := writeTo(ccsPath, ccs); err != nil {
			return err
		}
		if err := writeTo(pkPath, pk); err != nil {
			return err
		}
		return writeTo(vkPath, vk)
	})
	if err != nil {
		return PublicParams{}, err
	}

	return PublicParams{SectorBytes: sp.SectorBytes, CCS: ccs, PK: pk, VK: vk}, nil
}

func writeTo(path string, v io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("compound: creating %s: %w", path, err)
	}
	defer f.Close()
	if _, err := v.WriteTo(f); err != nil {
		return fmt.Errorf("compound: writing %s: %w", path, err)
	}
	return nil
}

func loadKeys(pkPath, vkPath string) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	pk := groth16.NewProvingKey(ecc.BN254)
	vk := groth16.NewVerifyingKey(ecc.BN254)

	fpk, err := os.Open(pkPath)
	if err != nil {
		return nil, nil, fmt.Errorf("compound: opening %s: %w", pkPath, err)
	}
	defer fpk.Close()
	if _, err := pk.ReadFrom(fpk); err != nil {
		return nil, nil, fmt.Errorf("compound: reading %s: %w", pkPath, err)
	}

	fvk, err := os.Open(vkPath)
	if err != nil {
		return nil, nil, fmt.Errorf("compound: opening %s: %w", vkPath, err)
	}
	defer fvk.Close()
	if _, err := vk.ReadFrom(fvk); err != nil {
		return nil, nil, fmt.Errorf("compound: reading %s: %w", vkPath, err)
	}

	return pk, vk, nil
}
