// hyperwave is a terminal arcade game: steer with the pointer, dodge the
// falling waves and catch the loot.
//
// Usage:
//
//	hyperwave play              - Play a run directly
//	hyperwave menu              - Pick mode and difficulty interactively
//	hyperwave modes             - List run modes and difficulties
//	hyperwave sim               - Run a headless scripted simulation
//	hyperwave waves             - Generate wave sequences
//	hyperwave scores            - Show the best runs
//	hyperwave serve             - Start the SSH server for remote play
//
// Global flags:
//
//	--fps <rate>           - Host frame rate (default: 60)
//	--seed <value>         - RNG seed for reproducible waves (-1 = random)
//	--db <path>            - Runs database (default: ~/.hyperwave/runs.db)
//	--config <path>        - Game config YAML
//	--difficulty <preset>  - easy, normal, hard, fixed
//	--mode <id>            - campaign or endless
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagMode       string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hyperwave",
	Short: "Hyperwave - dodge the waves in your terminal",
	Long: `Hyperwave is a terminal arcade game. Steer your ship toward the
pointer, dodge the enemy waves falling from the top and catch the loot.

Available commands:
  play     - Play a run directly
  menu     - Interactive mode and difficulty picker
  modes    - List run modes and difficulties
  sim      - Headless simulation with a scripted pointer
  waves    - Generate and export wave sequences
  scores   - View the best runs
  serve    - Start SSH server for remote play

Examples:
  hyperwave play --difficulty hard
  hyperwave play --mode endless --seed 42
  hyperwave sim --frames 3600 --seed 7
  hyperwave waves --count 20 --out waves.yaml
  hyperwave serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Host frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", -1, "RNG seed (-1 = random)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.hyperwave/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagMode, "mode", "campaign", "Run mode: campaign, endless")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(wavesCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}
