// Package sim holds the game simulation: components, archetypes, the
// boundary actions used by hosts, and the per-step systems.
package sim

import (
	"math"

	"github.com/vovakirdan/hyperwave/internal/ecs"
	"github.com/vovakirdan/hyperwave/internal/spatial"
	"github.com/vovakirdan/hyperwave/internal/wave"
	"github.com/vovakirdan/hyperwave/internal/xmath"
)

// Position is the world-space origin of an entity.
type Position struct{ X, Y float64 }

// Velocity is the displacement applied every step.
type Velocity struct{ X, Y float64 }

// VelocityMax caps the vertical speed reachable through gravity.
type VelocityMax struct{ Value float64 }

// Gravity is added while the entity is under its VelocityMax.
type Gravity struct{ X, Y float64 }

// Point returns p as a vector.
func (p Position) Point() xmath.Point { return xmath.P(p.X, p.Y) }

// Point returns v as a vector.
func (v Velocity) Point() xmath.Point { return xmath.P(v.X, v.Y) }

// Bounds is a local bounding box relative to an entity's position.
type Bounds struct {
	X, Y          float64
	Width, Height float64
}

// Extent is a local bounding box with values derived at construction.
// Build it with NewExtent so the derived fields stay consistent.
type Extent struct {
	X, Y          float64
	Width, Height float64

	Pivot    xmath.Point // center relative to the position
	Radius   float64     // enclosing circle
	RadiusSq float64
	MinX     float64
	MinY     float64
	MaxX     float64
	MaxY     float64
}

// NewExtent derives an Extent from raw bounds.
func NewExtent(b Bounds) Extent {
	e := Extent{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
	e.Pivot = xmath.P(b.X+b.Width/2, b.Y+b.Height/2)
	e.Radius = math.Hypot(b.Width, b.Height) / 2
	e.RadiusSq = e.Radius * e.Radius
	e.MinX, e.MinY = b.X, b.Y
	e.MaxX, e.MaxY = b.X+b.Width, b.Y+b.Height
	return e
}

// AABB returns the world-space box of an entity at p.
func (e Extent) AABB(p Position) xmath.Rect {
	return xmath.R(p.X+e.X, p.Y+e.Y, e.Width, e.Height)
}

// Constraint is the rectangle an entity's box is kept inside.
type Constraint struct {
	X, Y          float64
	Width, Height float64
}

// Group is a collision group tag.
type Group uint8

const (
	GroupNone Group = iota
	GroupPlayer
	GroupEnemy
	GroupLoot
)

func (g Group) String() string {
	switch g {
	case GroupPlayer:
		return "player"
	case GroupEnemy:
		return "enemy"
	case GroupLoot:
		return "loot"
	}
	return "none"
}

// GroupSet is a set of groups.
type GroupSet uint16

// Groups builds a set.
func Groups(gs ...Group) GroupSet {
	var s GroupSet
	for _, g := range gs {
		s |= 1 << g
	}
	return s
}

// Has reports whether g is in the set.
func (s GroupSet) Has(g Group) bool {
	return s&(1<<g) != 0
}

// Collider tags an entity for collision and names the groups it tests against.
type Collider struct {
	Group        Group
	CollidesWith GroupSet
}

// Contact is one confirmed overlap.
type Contact struct {
	Cell   int
	Entity ecs.Entity
	Group  Group
}

// Collision lists the overlaps found for an entity this step.
type Collision struct {
	Group  Group
	Others []Contact
}

// OutOfBounds marks an entity that could not be placed in the collision grid.
type OutOfBounds struct{}

// Renderable is the host-side object bound to an entity.
type Renderable interface {
	SetPosition(x, y float64)
}

// Instance links an entity to its renderable. Ref is nil until the host binds one.
type Instance struct {
	Ref Renderable
}

// Player tags the player entity.
type Player struct{ ID int }

// Enemy holds an enemy's type and health.
type Enemy struct {
	Type      wave.EnemyType
	Health    int
	MaxHealth int
}

// Loot tags a collectible.
type Loot struct{}

// Pointer is the latest input position in screen space.
type Pointer struct{ X, Y float64 }

// Offset corrects input coordinates into world coordinates.
type Offset struct{ X, Y float64 }

// Grid is the spatial hash type used for collisions.
type Grid = spatial.Hash[ecs.Entity, Group]

// CollisionGrid holds the broad-phase index.
type CollisionGrid struct {
	Value *Grid
}

// Delta is published once per frame by the scheduler.
type Delta struct {
	DeltaTime float64 `json:"deltaTime"` // simulated milliseconds this frame
	FPS       float64 `json:"fps"`
	Dilation  float64 `json:"dilation"` // nominal interval / current interval
}

// WaveScheduler tracks wave spawning progress.
type WaveScheduler struct {
	Waves            []wave.Pattern
	CurrentWaveIndex int
	WaveTimer        float64 // ms since the last wave
	WaveInterval     float64 // ms between waves
	GameTime         float64 // ms since StartWaves
	IsActive         bool
	Difficulty       int
	ScrollSpeed      float64
}

// Remaining returns the number of waves not yet spawned.
func (s WaveScheduler) Remaining() int {
	return max(len(s.Waves)-s.CurrentWaveIndex, 0)
}

// GameState is the run's score and status.
type GameState struct {
	Score     int  `json:"score"`
	Lives     int  `json:"lives"`
	Level     int  `json:"level"`
	IsPlaying bool `json:"isPlaying"`
	IsPaused  bool `json:"isPaused"`
}
