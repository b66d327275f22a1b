// Package config provides YAML-based configuration loading and difficulty
// management for hyperwave.
package config

// HyperwaveConfig contains all configuration for a run.
type HyperwaveConfig struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Grid       GridConfig       `yaml:"grid"`
	Player     PlayerConfig     `yaml:"player"`
	Gameplay   GameplayConfig   `yaml:"gameplay"`
	Waves      WavesConfig      `yaml:"waves"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// ScreenConfig is the playfield size in world units.
type ScreenConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// GridConfig sizes the collision grid around the screen.
type GridConfig struct {
	CellSize    float64 `yaml:"cell_size"`
	Margin      float64 `yaml:"margin"`       // added left, right and below the screen
	SpawnHeight float64 `yaml:"spawn_height"` // added above the screen for incoming waves
}

// PlayerConfig defines the player's box and start position.
type PlayerConfig struct {
	StartX float64 `yaml:"start_x"`
	StartY float64 `yaml:"start_y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// GameplayConfig defines lives and wave pacing.
type GameplayConfig struct {
	Lives        int     `yaml:"lives"`
	WaveInterval float64 `yaml:"wave_interval"` // ms
	ScrollSpeed  float64 `yaml:"scroll_speed"`
	LootSize     float64 `yaml:"loot_size"`
}

// WavesConfig defines the generated wave sequence.
type WavesConfig struct {
	Count     int `yaml:"count"`
	Columns   int `yaml:"columns"`
	Rows      int `yaml:"rows"`
	LevelStep int `yaml:"level_step"` // waves per level increase
}

// SchedulerConfig tunes the adaptive frame scheduler.
type SchedulerConfig struct {
	TargetFPS   float64 `yaml:"target_fps"`
	MinFPS      float64 `yaml:"min_fps"`
	MaxSteps    int     `yaml:"max_steps"`
	HistorySize int     `yaml:"history_size"`
	RelaxRate   float64 `yaml:"relax_rate"`
}

// TelemetryConfig configures the debug snapshot stream.
type TelemetryConfig struct {
	Addr  string `yaml:"addr"`
	Every int    `yaml:"every"` // publish every N steps
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/steps at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Added to the scroll speed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists the presets in menu order.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// ParsePreset returns the preset named s, or false if there is none.
func ParsePreset(s string) (DifficultyPreset, bool) {
	for _, p := range Presets {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// GridBounds returns the collision grid rectangle for the configured screen.
// above is how far over the screen's top edge spawned waves reach; the grid
// extends by SpawnHeight or above, whichever is larger.
func (c HyperwaveConfig) GridBounds(above float64) (x, y, width, height float64) {
	m := c.Grid.Margin
	top := max(c.Grid.SpawnHeight, above)
	return -m, -top,
		c.Screen.Width + 2*m,
		c.Screen.Height + top + m
}
