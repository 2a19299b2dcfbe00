// Command porepctl is the CLI/FFI-boundary stand-in for the seal/verify
// orchestration: it exposes seal, verify-seal, and get-unsealed-range as
// subcommands, printing a status code and result the way the protocol's
// external interface contract describes.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kysee/zigzag-porep/hasher"
	"github.com/kysee/zigzag-porep/seal"
	"github.com/kysee/zigzag-porep/sectorstore"
	"github.com/kysee/zigzag-porep/types"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: porepctl <seal|verify-seal|get-unsealed-range> [flags]")
		os.Exit(1)
	}

	cmd := os.Args[1]
	cfg := newConfig(os.Args[2:]...)

	store, err := storeFor(cfg)
	if err != nil {
		fail(err)
	}

	sealer := seal.NewSealer(seal.Params{
		BaseDegree:      1,
		ExpansionDegree: 2,
		SlothIter:       1,
		Layers:          2,
		HasherName:      hasher.SHA256,
		CacheRoot:       cfg.CacheRoot,
	})

	ctx := context.Background()

	switch cmd {
	case "seal":
		proverID, sectorID := identities()
		in, out := sealPaths(cfg)
		res, code, err := sealer.Seal(ctx, store, in, out, proverID, sectorID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seal failed: %v\n", err)
		}
		printJSON(types.SealResult{
			Status:    int(code),
			CommR:     types.HexBytes(res.CommR[:]),
			CommD:     types.HexBytes(res.CommD[:]),
			ProofData: types.HexBytes(res.ProofData),
		})
		os.Exit(int(code))

	case "verify-seal":
		proverID, sectorID := identities()
		req, err := verifySealRequest(cfg, proverID, sectorID)
		if err != nil {
			fail(err)
		}
		var commR, commD [32]byte
		copy(commR[:], req.CommR)
		copy(commD[:], req.CommD)
		code, err := sealer.VerifySeal(ctx, store, commR, commD, proverID, sectorID, req.ProofData)
		if err != nil {
			fmt.Fprintf(os.Stderr, "verify-seal failed: %v\n", err)
		}
		fmt.Printf("status=%d\n", code)
		os.Exit(int(code))

	case "get-unsealed-range":
		proverID, sectorID := identities()
		n, code, err := sealer.GetUnsealedRange(store, sealedFile(cfg), unsealedOutFile(cfg), proverID, sectorID, 0, int(cfg.SectorBytes))
		if err != nil {
			fmt.Fprintf(os.Stderr, "get-unsealed-range failed: %v\n", err)
		}
		printJSON(types.UnsealedRangeResult{Status: int(code), BytesWritten: n})
		os.Exit(int(code))

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		os.Exit(1)
	}
}

func storeFor(cfg *Config) (sectorstore.Store, error) {
	if cfg.Fake {
		return sectorstore.NewFastFakeDiskStore(cfg.SealedDir, cfg.StagingDir)
	}
	return sectorstore.NewRealDiskStore(cfg.SealedDir, cfg.StagingDir)
}

func identities() (proverID, sectorID [31]byte) {
	for i := range proverID {
		proverID[i] = 2
	}
	return proverID, sectorID
}

func sealPaths(cfg *Config) (in, out string) {
	return cfg.StagingDir + "/in", cfg.SealedDir + "/1"
}

func sealedFile(cfg *Config) string      { return cfg.SealedDir + "/1" }
func unsealedOutFile(cfg *Config) string { return cfg.StagingDir + "/unsealed" }

// verifySealRequest builds the JSON request shape for a verify-seal call from
// the CLI's --comm-r/--comm-d/--proof-file flags, reading the proof bytes
// from disk when given.
func verifySealRequest(cfg *Config, proverID, sectorID [31]byte) (types.VerifySealRequest, error) {
	commR, err := types.HexToBytes(cfg.CommR)
	if err != nil {
		return types.VerifySealRequest{}, fmt.Errorf("--comm-r: %w", err)
	}
	commD, err := types.HexToBytes(cfg.CommD)
	if err != nil {
		return types.VerifySealRequest{}, fmt.Errorf("--comm-d: %w", err)
	}
	var proofData []byte
	if cfg.ProofFile != "" {
		proofData, err = os.ReadFile(cfg.ProofFile)
		if err != nil {
			return types.VerifySealRequest{}, fmt.Errorf("--proof-file: %w", err)
		}
	}
	return types.VerifySealRequest{
		CommR:     commR,
		CommD:     commD,
		ProverID:  proverID[:],
		SectorID:  sectorID[:],
		ProofData: proofData,
	}, nil
}

func printJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshaling result: %v\n", err)
		return
	}
	fmt.Println(string(b))
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
