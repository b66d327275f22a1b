package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hyperwave/internal/config"
	"github.com/vovakirdan/hyperwave/internal/registry"
)

var modesCmd = &cobra.Command{
	Use:   "modes",
	Short: "List run modes and difficulties",
	Long: `Display the run modes and difficulty presets.

Example:
  hyperwave modes`,
	Args: cobra.NoArgs,
	Run:  runModes,
}

func runModes(_ *cobra.Command, _ []string) {
	modes := registry.List()

	fmt.Println("Modes:")
	fmt.Println()
	if len(modes) == 0 {
		fmt.Println("  No modes registered.")
	}
	for _, mode := range modes {
		fmt.Printf("  %-12s  %s\n", mode.ID, mode.Title)
	}

	fmt.Println()
	fmt.Println("Difficulties:")
	fmt.Println()
	base := config.DefaultHyperwaveConfig()
	for _, preset := range config.Presets {
		cfg := base
		config.ApplyPreset(&cfg, preset)
		fmt.Printf("  %-12s  start %.0f%%  lives %d  wave every %.1fs\n",
			preset, config.InitialLevelForPreset(preset)*100, cfg.Gameplay.Lives, cfg.Gameplay.WaveInterval/1000)
	}

	fmt.Println()
	fmt.Println("Use 'hyperwave play --mode <id> --difficulty <preset>' to start a run.")
}
