package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hyperwave/internal/play"
	"github.com/vovakirdan/hyperwave/internal/storage"
	"github.com/vovakirdan/hyperwave/internal/telemetry"
	"github.com/vovakirdan/hyperwave/internal/xmath"
)

var (
	flagFrames    int
	flagLootEvery int
	flagSave      bool
	flagTelemetry string
	flagEvery     int
	flagEase      string
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a headless simulation",
	Long: `Run a run without a terminal UI. The pointer sweeps the field on a
sine curve and drops loot at a fixed rate, which makes seeded runs
reproducible.

With --telemetry the run is paced in real time and snapshots are streamed
over WebSocket at /ws, the latest one at /snapshot. A bare --telemetry
listens on the config's telemetry address; --telemetry=host:port overrides it.

Examples:
  hyperwave sim --frames 3600 --seed 7
  hyperwave sim --mode endless --difficulty hard --loot-every 30
  hyperwave sim --telemetry --every 6
  hyperwave sim --telemetry=:8080
  hyperwave sim --seed 7 --save
  hyperwave sim --ease bounceOut`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagFrames, "frames", 3600, "Host frames to run (0 = until the run ends)")
	simCmd.Flags().IntVar(&flagLootEvery, "loot-every", 45, "Drop loot every N frames (0 = never)")
	simCmd.Flags().BoolVar(&flagSave, "save", false, "Store the finished run in the runs database")
	simCmd.Flags().StringVar(&flagTelemetry, "telemetry", "", "Stream snapshots on this address (host:port)")
	simCmd.Flags().Lookup("telemetry").NoOptDefVal = configAddr
	simCmd.Flags().IntVar(&flagEvery, "every", 0, "Publish a snapshot every N steps (default from config)")
	simCmd.Flags().StringVar(&flagEase, "ease", "sineInOut", "Pointer sweep easing ("+strings.Join(xmath.EasingNames(), ", ")+")")
}

// configAddr is the --telemetry value given without an address.
const configAddr = "config"

func runSim(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr)

	preset, err := presetFlag()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	ease, ok := xmath.EasingByName(flagEase)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown easing %q\n", flagEase)
		os.Exit(1)
	}
	gameCfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	session, err := sessionFactory(gameCfg, nil, logger)(flagMode, preset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating run: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	addr := flagTelemetry
	if addr == configAddr {
		addr = gameCfg.Telemetry.Addr
	}
	realtime := addr != ""
	if realtime {
		every := flagEvery
		if every <= 0 {
			every = gameCfg.Telemetry.Every
		}
		hub := telemetry.NewHub(logger)
		hub.Observe(session.Game(), every)

		errCh := make(chan error, 1)
		go func() { errCh <- telemetry.ListenAndServe(ctx, addr, hub) }()
		defer func() {
			stop()
			if err := <-errCh; err != nil {
				logger.Error("telemetry server", "err", err)
			}
		}()
		logger.Info("streaming snapshots", "addr", addr, "every", every)
	}

	frames, err := simulate(ctx, session, flagFrames, flagLootEvery, realtime, ease)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printSummary(session, frames)

	if flagSave {
		saveSimRun(session.Result())
	}
}

// simulate drives s with a scripted pointer for up to frames host frames,
// stopping early when the run ends. It returns the frames actually run.
func simulate(ctx context.Context, s *play.Session, frames, lootEvery int, realtime bool, ease xmath.EasingFunc) (int, error) {
	fps := flagFPS
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)

	var ticker *time.Ticker
	if realtime {
		ticker = time.NewTicker(interval)
		defer ticker.Stop()
	}

	cfg := s.Config()
	width := cfg.Screen.Width
	y := cfg.Player.StartY

	n := 0
	for frames <= 0 || n < frames {
		if s.Finished() {
			break
		}
		if ticker != nil {
			select {
			case <-ctx.Done():
				return n, ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return n, err
		}

		s.Pointer().Set(sweep(width, n, ease), y)
		if lootEvery > 0 && n%lootEvery == 0 {
			s.DropLoot()
		}
		s.Advance(interval)
		n++
	}
	return n, nil
}

// sweep is the scripted pointer x for frame n: an eased back and forth
// across the middle 80% of the field, one pass every sweepFrames frames.
func sweep(width float64, n int, ease xmath.EasingFunc) float64 {
	t := xmath.PingPong(float64(n) / sweepFrames)
	return xmath.Ease(0.1*width, 0.9*width, t, ease)
}

const sweepFrames = 180

func printSummary(s *play.Session, frames int) {
	r := s.Result()
	totals := s.Game().Totals()

	outcome := "stopped"
	switch {
	case s.Won():
		outcome = "all waves cleared"
	case s.Over():
		outcome = "game over"
	}

	fmt.Printf("Hyperwave simulation - %s / %s\n", s.Mode(), r.Difficulty)
	fmt.Println()
	if r.Seed != nil {
		fmt.Printf("  %-10s  %d\n", "Seed", *r.Seed)
	} else {
		fmt.Printf("  %-10s  %s\n", "Seed", "random")
	}
	fmt.Printf("  %-10s  %d\n", "Frames", frames)
	fmt.Printf("  %-10s  %d\n", "Steps", r.Steps)
	fmt.Printf("  %-10s  %s\n", "Time", r.Duration.Round(time.Millisecond))
	fmt.Printf("  %-10s  %d\n", "Score", r.Score)
	fmt.Printf("  %-10s  %d\n", "Lives", r.Lives)
	fmt.Printf("  %-10s  %d\n", "Waves", r.WavesCleared)
	fmt.Printf("  %-10s  %d\n", "Collected", totals.Collected)
	fmt.Printf("  %-10s  %d\n", "Hits", totals.Hits)
	fmt.Printf("  %-10s  %s\n", "Outcome", outcome)
}

func saveSimRun(run storage.Run) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		return
	}
	defer store.Close()

	id, err := store.SaveRun(run)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save run: %v\n", err)
		return
	}
	fmt.Printf("\nSaved run %s\n", id)
}
