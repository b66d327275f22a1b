package wave

import (
	"fmt"

	"github.com/vovakirdan/hyperwave/internal/rng"
	"github.com/vovakirdan/hyperwave/internal/wfc"
)

// Tile is one cell of a wave pattern.
type Tile uint8

const (
	Empty Tile = iota
	EnemyWeak
	EnemyMedium
	EnemyStrong
	Hazard   // comets may spawn here
	Boundary // edge of the playfield, never drawn by weight
)

var tileNames = [...]string{
	Empty:       "empty",
	EnemyWeak:   "enemy_weak",
	EnemyMedium: "enemy_medium",
	EnemyStrong: "enemy_strong",
	Hazard:      "hazard_zone",
	Boundary:    "boundary",
}

// tileCodes is the one-character form used in exported wave files.
var tileCodes = [...]rune{
	Empty:       '.',
	EnemyWeak:   'w',
	EnemyMedium: 'm',
	EnemyStrong: 's',
	Hazard:      'h',
	Boundary:    '#',
}

func (t Tile) String() string {
	if int(t) < len(tileNames) {
		return tileNames[t]
	}
	return fmt.Sprintf("tile(%d)", t)
}

// IsEnemy reports whether the tile holds an enemy.
func (t Tile) IsEnemy() bool {
	return t == EnemyWeak || t == EnemyMedium || t == EnemyStrong
}

// Code returns the single-character form of the tile.
func (t Tile) Code() rune {
	if int(t) < len(tileCodes) {
		return tileCodes[t]
	}
	return '?'
}

// TileFromCode parses the single-character form.
func TileFromCode(r rune) (Tile, bool) {
	for i, c := range tileCodes {
		if c == r {
			return Tile(i), true
		}
	}
	return Empty, false
}

// EnemyType names an enemy sprite and its health tier.
type EnemyType string

const (
	Enemy1 EnemyType = "enemy1"
	Enemy2 EnemyType = "enemy2"
	Enemy3 EnemyType = "enemy3"
	Enemy4 EnemyType = "enemy4"
	Enemy5 EnemyType = "enemy5"
)

// Health returns the starting health for the type: enemy1 has 1, enemy5 has 5.
func (e EnemyType) Health() int {
	switch e {
	case Enemy1:
		return 1
	case Enemy2:
		return 2
	case Enemy3:
		return 3
	case Enemy4:
		return 4
	case Enemy5:
		return 5
	}
	return 1
}

// TileToEnemyType picks the enemy to spawn for a tile. Weak and strong
// tiles choose between two types with equal chance.
func TileToEnemyType(t Tile, src rng.Source) (EnemyType, bool) {
	switch t {
	case EnemyWeak:
		if rng.Chance(src, 0.5) {
			return Enemy1, true
		}
		return Enemy2, true
	case EnemyMedium:
		return Enemy2, true
	case EnemyStrong:
		if rng.Chance(src, 0.5) {
			return Enemy3, true
		}
		return Enemy4, true
	}
	return "", false
}

// tileWeights builds the solver tiles for the settings.
func tileWeights(s Settings) []wfc.Tile[Tile] {
	return []wfc.Tile[Tile]{
		{ID: Empty, Weight: 100 - s.EnemyDensity*100},
		{ID: EnemyWeak, Weight: 50 * (1 - s.StrongEnemyChance)},
		{ID: EnemyMedium, Weight: 30},
		{ID: EnemyStrong, Weight: 20 * s.StrongEnemyChance},
		{ID: Hazard, Weight: s.HazardChance * 30},
		{ID: Boundary, Weight: 0},
	}
}

// tileConstraints keeps hard enemies from stacking vertically.
func tileConstraints() []wfc.Constraint[Tile] {
	all := []Tile{Empty, EnemyWeak, EnemyMedium, EnemyStrong, Hazard}
	notStrong := []Tile{Empty, EnemyWeak, EnemyMedium, Hazard}
	safeish := []Tile{Empty, EnemyWeak, Hazard}
	boundary := []Tile{Boundary}

	return []wfc.Constraint[Tile]{
		{Tile: Empty, Up: all, Down: all, Left: all, Right: all},
		{Tile: EnemyWeak, Up: all, Down: all, Left: all, Right: all},
		{Tile: EnemyMedium, Up: all, Down: notStrong, Left: all, Right: all},
		{Tile: EnemyStrong, Up: safeish, Down: notStrong, Left: all, Right: all},
		{Tile: Hazard, Up: all, Down: all, Left: all, Right: all},
		{Tile: Boundary, Up: boundary, Down: boundary, Left: boundary, Right: boundary},
	}
}
