package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hyperwave/internal/config"
	"github.com/vovakirdan/hyperwave/internal/platform/tui"
	"github.com/vovakirdan/hyperwave/internal/play"
	"github.com/vovakirdan/hyperwave/internal/rng"
	"github.com/vovakirdan/hyperwave/internal/wave"
)

// newLogger creates the command logger writing to w.
func newLogger(w io.Writer) *log.Logger {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "hyperwave",
		Level:           level,
	})
}

// fileLogger logs to ~/.hyperwave/hyperwave.log so that log lines do not
// tear the alternate screen. It falls back to discarding.
func fileLogger() (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return newLogger(io.Discard), func() {}
	}
	dir := filepath.Join(home, ".hyperwave")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newLogger(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "hyperwave.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return newLogger(io.Discard), func() {}
	}
	return newLogger(f), func() { f.Close() }
}

// seedFlag returns the --seed value, nil when random.
func seedFlag() *uint32 {
	if flagSeed < 0 {
		return nil
	}
	return rng.Seed(uint32(flagSeed))
}

// presetFlag validates --difficulty. Empty keeps the config's difficulty.
func presetFlag() (config.DifficultyPreset, error) {
	if flagDifficulty == "" {
		return "", nil
	}
	p, ok := config.ParsePreset(flagDifficulty)
	if !ok {
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
	}
	return p, nil
}

// loadConfig loads the game config from --config or the search path.
func loadConfig() (config.HyperwaveConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// loadWaveFile reads a YAML wave file written by 'hyperwave waves --out'.
func loadWaveFile(path string) ([]wave.Pattern, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open waves: %w", err)
	}
	defer f.Close()
	return wave.Load(f)
}

// sessionFactory builds sessions sharing one config, seed and wave file.
func sessionFactory(cfg config.HyperwaveConfig, waves []wave.Pattern, logger *log.Logger) tui.SessionFactory {
	return func(mode string, preset config.DifficultyPreset) (*play.Session, error) {
		return play.New(play.Options{
			Config: cfg,
			Preset: preset,
			Mode:   mode,
			Seed:   seedFlag(),
			Waves:  waves,
			Logger: logger,
		})
	}
}
