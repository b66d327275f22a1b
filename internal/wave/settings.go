// Package wave turns a difficulty level into enemy wave patterns.
//
// Patterns are grids of tiles produced by the wfc solver and then
// post-processed so that a path of the configured width is free of enemies
// from the top row to the bottom row.
package wave

import "math"

const (
	MinLevel = 1
	MaxLevel = 10
)

// Settings are the generation parameters derived from a difficulty level.
type Settings struct {
	Level             int     // 1-10
	EnemyDensity      float64 // 0.35 at level 1 to 0.8 at level 10
	PathWidth         int     // 3 at level 1, 2 from level 4, 1 from level 8
	StrongEnemyChance float64 // 0.08 to 0.8
	HazardChance      float64 // 0.05 to 0.5
	Speed             float64 // 1.3 to 4.0
}

// ClampLevel limits a level to [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	return max(MinLevel, min(MaxLevel, level))
}

// SettingsFor returns the settings for a level, clamped to 1-10.
func SettingsFor(level int) Settings {
	l := ClampLevel(level)
	fl := float64(l)
	return Settings{
		Level:             l,
		EnemyDensity:      0.3 + fl*0.05,
		PathWidth:         max(1, 3-int(math.Floor(fl/4))),
		StrongEnemyChance: fl * 0.08,
		HazardChance:      fl * 0.05,
		Speed:             1 + fl*0.3,
	}
}
