package main

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the CLI's seal/verify configuration, parsed env-first then
// overridden by CLI args, the same way provers/types/config.go builds its
// relayer config.
type Config struct {
	CacheRoot   string
	SealedDir   string
	StagingDir  string
	SectorBytes uint64
	Fake        bool
	CommR       string
	CommD       string
	ProofFile   string
}

func newConfig(args ...string) *Config {
	config := Config{
		CacheRoot:   getEnv("POREP_CACHE_ROOT", ".porep-cache"),
		SealedDir:   getEnv("POREP_SEALED_DIR", "./sealed"),
		StagingDir:  getEnv("POREP_STAGING_DIR", "./staging"),
		SectorBytes: 128,
		Fake:        true,
	}

	for i := 0; i < len(args); i++ {
		if len(args) <= i+1 {
			panic(fmt.Errorf("missing argument for %s", args[i]))
		}
		switch args[i] {
		case "--cache-root":
			config.CacheRoot = args[i+1]
			i++
		case "--sealed-dir":
			config.SealedDir = args[i+1]
			i++
		case "--staging-dir":
			config.StagingDir = args[i+1]
			i++
		case "--sector-bytes":
			config.SectorBytes, _ = strconv.ParseUint(args[i+1], 10, 64)
			i++
		case "--fake":
			config.Fake, _ = strconv.ParseBool(args[i+1])
			i++
		case "--comm-r":
			config.CommR = args[i+1]
			i++
		case "--comm-d":
			config.CommD = args[i+1]
			i++
		case "--proof-file":
			config.ProofFile = args[i+1]
			i++
		}
	}

	return &config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
