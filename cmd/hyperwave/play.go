package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/hyperwave/internal/core"
	"github.com/vovakirdan/hyperwave/internal/platform/tui"
	"github.com/vovakirdan/hyperwave/internal/storage"
)

var flagWaves string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run",
	Long: `Start a run in the terminal.

Controls:
  WASD/Arrows  - Move the pointer
  Mouse        - Point at a cell, click to drop loot
  Space        - Drop loot
  P            - Pause
  R            - Restart (after the run ends)
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Start at lowest difficulty, 5 lives
  normal - Start at 30% difficulty
  hard   - Start at 70% difficulty, 2 lives
  fixed  - No progression, stays at config's initial level

Examples:
  hyperwave play
  hyperwave play --difficulty hard
  hyperwave play --mode endless --seed 42
  hyperwave play --waves ./waves.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagWaves, "waves", "", "Play a wave file written by 'hyperwave waves --out'")
}

func runPlay(_ *cobra.Command, _ []string) {
	preset, err := presetFlag()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	gameCfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	waves, err := loadWaveFile(flagWaves)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := fileLogger()
	defer closeLog()

	session, err := sessionFactory(gameCfg, waves, logger)(flagMode, preset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating run: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'hyperwave modes' to see available modes.")
		os.Exit(1)
	}

	// Open run storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage - the run still works
		store = nil
	}

	runErr := tui.Run(session, store, runtimeConfig(), logger)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// runtimeConfig sizes the host to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = seedFlag()
	return cfg
}
