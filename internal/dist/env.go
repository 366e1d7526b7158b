// Package dist reads the ambient distributed environment for the sharding
// pass: which partition this process owns and how many partitions exist.
package dist

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names set by the process launcher.
const (
	RankEnv      = "RANK"
	WorldSizeEnv = "WORLD_SIZE"
)

// Env describes this process's place in the parallel group.
type Env struct {
	Rank      int // Partition index in [0, WorldSize).
	WorldSize int // Total number of partitions.
}

// Default returns the single-process environment.
func Default() Env {
	return Env{Rank: 0, WorldSize: 1}
}

// FromEnv reads RANK and WORLD_SIZE from the process environment.
// Unset variables fall back to the single-process defaults.
func FromEnv() (Env, error) {
	env := Default()

	if v, ok := os.LookupEnv(WorldSizeEnv); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Env{}, fmt.Errorf("parse %s=%q: %w", WorldSizeEnv, v, err)
		}
		env.WorldSize = n
	}
	if v, ok := os.LookupEnv(RankEnv); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Env{}, fmt.Errorf("parse %s=%q: %w", RankEnv, v, err)
		}
		env.Rank = n
	}

	if err := env.Validate(); err != nil {
		return Env{}, err
	}
	return env, nil
}

// Validate checks rank/world-size consistency.
func (e Env) Validate() error {
	if e.WorldSize < 1 {
		return fmt.Errorf("world size must be >= 1, got %d", e.WorldSize)
	}
	if e.Rank < 0 || e.Rank >= e.WorldSize {
		return fmt.Errorf("rank %d out of range [0, %d)", e.Rank, e.WorldSize)
	}
	return nil
}
