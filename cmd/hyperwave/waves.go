package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hyperwave/internal/play"
	"github.com/vovakirdan/hyperwave/internal/rng"
	"github.com/vovakirdan/hyperwave/internal/wave"
)

var (
	flagStart   int
	flagCount   int
	flagBatches int
	flagWorkers int
	flagOut     string
)

var wavesCmd = &cobra.Command{
	Use:   "waves",
	Short: "Generate wave sequences",
	Long: `Generate wave sequences and write them as YAML.

With --batches N, N sequences are generated in parallel from consecutive
seeds and merged, dropping duplicate layouts. The file can be played back
with 'hyperwave play --waves'.

Examples:
  hyperwave waves --count 10
  hyperwave waves --start 5 --count 20 --seed 42 --out waves.yaml
  hyperwave waves --batches 8 --workers 4 --count 50`,
	Args: cobra.NoArgs,
	Run:  runWaves,
}

func init() {
	wavesCmd.Flags().IntVar(&flagStart, "start", 1, "Starting difficulty level (1-10)")
	wavesCmd.Flags().IntVar(&flagCount, "count", 10, "Waves per sequence")
	wavesCmd.Flags().IntVar(&flagBatches, "batches", 1, "Sequences to generate from consecutive seeds")
	wavesCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Parallel generators (0 = one per batch)")
	wavesCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output file (default stdout)")
}

func runWaves(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr)

	if flagCount <= 0 || flagBatches <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --count and --batches must be positive")
		os.Exit(1)
	}

	gameCfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	gen := wave.NewGenerator(play.GenParams(gameCfg.Waves), logger)

	seed := seedFlag()
	if seed == nil {
		seed = rng.Seed(uint32(rng.Ambient().Float64() * (1 << 32)))
	}

	reqs := make([]wave.BatchRequest, flagBatches)
	for i := range reqs {
		reqs[i] = wave.BatchRequest{Start: flagStart, Count: flagCount, Seed: *seed + uint32(i)}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	batches, err := gen.Batch(ctx, reqs, flagWorkers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var patterns []wave.Pattern
	for _, b := range batches {
		patterns = append(patterns, b...)
	}
	unique := wave.Unique(patterns)
	for i := range unique {
		unique[i].ID = i
	}
	logger.Info("generated waves", "batches", len(batches), "total", len(patterns), "unique", len(unique), "seed", *seed)

	var w io.Writer = os.Stdout
	if flagOut != "" {
		f, err := os.Create(flagOut)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	file := wave.NewFile(flagStart, seed, unique, rng.New(seed))
	if err := wave.Export(w, file); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing waves: %v\n", err)
		os.Exit(1)
	}
}
