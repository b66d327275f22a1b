package config

import (
	_ "embed"
)

//go:embed defaults/hyperwave.yaml
var defaultHyperwaveYAML []byte

// DefaultHyperwaveConfig returns the default configuration.
func DefaultHyperwaveConfig() HyperwaveConfig {
	return HyperwaveConfig{
		Screen: ScreenConfig{
			Width:  320,
			Height: 480,
		},
		Grid: GridConfig{
			CellSize:    64,
			Margin:      64,
			SpawnHeight: 512,
		},
		Player: PlayerConfig{
			StartX: 160,
			StartY: 420,
			Width:  28,
			Height: 28,
		},
		Gameplay: GameplayConfig{
			Lives:        3,
			WaveInterval: 2000,
			ScrollSpeed:  1.0,
			LootSize:     8,
		},
		Waves: WavesConfig{
			Count:     20,
			Columns:   6,
			Rows:      8,
			LevelStep: 5,
		},
		Scheduler: SchedulerConfig{
			TargetFPS:   60,
			MinFPS:      28,
			MaxSteps:    5,
			HistorySize: 10,
			RelaxRate:   0.1,
		},
		Telemetry: TelemetryConfig{
			Addr:  "127.0.0.1:7070",
			Every: 6,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 100,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
			},
		},
	}
}
