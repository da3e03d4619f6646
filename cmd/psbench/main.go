// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Command psbench is the external benchmark collaborator described
// alongside the psdict package: it drives a tree through n random
// insertions at random positions, then reports elapsed time and allocated
// bytes against the information-theoretic lower bound for the value range
// used.
package main

import (
	"math/rand/v2"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/prefixsum/psdict"
	"github.com/prefixsum/psdict/internal/diag"
)

func main() {
	var (
		flagN      int
		flagMaxval uint64
		flagSeed   uint64
		flagLog    string
	)

	pflag.IntVarP(&flagN, "count", "n", 100_000, "number of random insertions to perform")
	pflag.Uint64VarP(&flagMaxval, "maxval", "m", 1<<20, "exclusive upper bound on inserted values")
	pflag.Uint64VarP(&flagSeed, "seed", "s", 1, "PRNG seed")
	pflag.StringVarP(&flagLog, "log", "l", "info", "log output level")
	pflag.Parse()

	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	level, err := zerolog.ParseLevel(flagLog)
	if err != nil {
		log.Fatal().Err(err).Str("level", flagLog).Msg("invalid log level")
	}
	log = log.Level(level)

	log.Info().Int("n", flagN).Uint64("maxval", flagMaxval).Uint64("seed", flagSeed).Msg("starting psbench")

	prng := rand.New(rand.NewPCG(flagSeed, flagSeed^0x9e3779b97f4a7c15))

	tree := psdict.New()
	start := time.Now()
	for i := 0; i < flagN; i++ {
		pos := prng.IntN(tree.Len() + 1)
		val := prng.Uint64N(flagMaxval)
		tree.Insert(pos, val)
	}
	elapsed := time.Since(start)

	stats := tree.Alloc()
	bound := diag.Bound(flagN, flagMaxval)
	ratio := diag.Ratio(stats.Total(), flagN, flagMaxval)

	log.Info().
		Dur("elapsed", elapsed).
		Int("len", tree.Len()).
		Int("depth", tree.Depth()).
		Uint64("sum", tree.Sum()).
		Uint64("alloc_bytes", stats.Total()).
		Uint64("leaf_bytes", stats.LeafBytes).
		Uint64("internal_bytes", stats.InternalBytes).
		Int("leaves", stats.Leaves).
		Int("internals", stats.Internals).
		Uint64("info_theoretic_bound_bytes", bound).
		Float64("ratio", ratio).
		Msg("psbench finished")

	if ratio > 4 {
		log.Warn().Float64("ratio", ratio).Msg("allocation exceeds the 4x reference threshold")
	}
}
