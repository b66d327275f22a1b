package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hyperwave/internal/config"
	"github.com/vovakirdan/hyperwave/internal/storage"
)

var flagLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [difficulty]",
	Short: "Show the best runs",
	Long: `Display the best runs for a difficulty, or across all difficulties,
followed by per-difficulty statistics.

Examples:
  hyperwave scores
  hyperwave scores hard
  hyperwave scores custom --limit 20`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
}

func runScores(_ *cobra.Command, args []string) {
	difficulty := ""
	if len(args) == 1 {
		difficulty = args[0]
		if _, ok := config.ParsePreset(difficulty); !ok && difficulty != "custom" {
			fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q\n", difficulty)
			fmt.Fprintln(os.Stderr, "Run 'hyperwave modes' to see available difficulties.")
			os.Exit(1)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening runs database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	runs, err := store.TopRuns(difficulty, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		return
	}

	title := difficulty
	if title == "" {
		title = "all difficulties"
	}
	fmt.Printf("Best Runs - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'hyperwave play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %-10s  %-8s  %s\n", "Rank", "Score", "Waves", "Difficulty", "Time", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-10s  %-8s  %s\n", "----", "-----", "-----", "----------", "----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-8d  %-6d  %-10s  %-8s  %s\n",
			i+1, r.Score, r.WavesCleared, r.Difficulty, formatDuration(r.Duration.Seconds()), r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.AllStats()
	if err != nil || len(stats) == 0 {
		return
	}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println()
	fmt.Printf("  %-10s  %-6s  %-6s  %-8s  %s\n", "Difficulty", "Runs", "Best", "Average", "Last played")
	for _, k := range keys {
		st := stats[k]
		fmt.Printf("  %-10s  %-6d  %-6d  %-8.1f  %s\n",
			k, st.Runs, st.HighScore, st.AvgScore, st.LastPlayed.Format("2006-01-02 15:04"))
	}
}

func formatDuration(secs float64) string {
	m := int(secs) / 60
	s := int(secs) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
