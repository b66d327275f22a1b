package sim

import (
	"github.com/vovakirdan/hyperwave/internal/ecs"
	"github.com/vovakirdan/hyperwave/internal/wave"
)

// Default enemy geometry and motion.
var (
	EnemyBounds   = Bounds{X: -8, Y: -8, Width: 16, Height: 16}
	EnemyVelocity = Velocity{X: 0, Y: 2}
)

// PlayerBundle is the fixed component set of a player.
type PlayerBundle struct {
	Player     Player
	Extent     Extent
	Constraint Constraint
	Collider   Collider
	Position   Position
	Velocity   Velocity
	Instance   Instance
}

// NewPlayer builds a player at rest that collides with loot and enemies.
func NewPlayer(id int, pos Position, bounds Bounds, c Constraint) PlayerBundle {
	return PlayerBundle{
		Player:     Player{ID: id},
		Extent:     NewExtent(bounds),
		Constraint: c,
		Collider:   Collider{Group: GroupPlayer, CollidesWith: Groups(GroupLoot, GroupEnemy)},
		Position:   pos,
	}
}

// Attach implements ecs.Bundle.
func (b PlayerBundle) Attach(w *ecs.World, e ecs.Entity) {
	ecs.Set(w, e, b.Player)
	ecs.Set(w, e, b.Extent)
	ecs.Set(w, e, b.Constraint)
	ecs.Set(w, e, b.Collider)
	ecs.Set(w, e, b.Position)
	ecs.Set(w, e, b.Velocity)
	ecs.Set(w, e, b.Instance)
}

// EnemyBundle is the fixed component set of an enemy.
type EnemyBundle struct {
	Enemy    Enemy
	Position Position
	Extent   Extent
	Collider Collider
	Velocity Velocity
	Instance Instance
}

// NewEnemy builds an enemy whose health follows its type. A nil velocity
// uses EnemyVelocity.
func NewEnemy(pos Position, t wave.EnemyType, v *Velocity) EnemyBundle {
	if t == "" {
		t = wave.Enemy1
	}
	vel := EnemyVelocity
	if v != nil {
		vel = *v
	}
	hp := t.Health()
	return EnemyBundle{
		Enemy:    Enemy{Type: t, Health: hp, MaxHealth: hp},
		Position: pos,
		Extent:   NewExtent(EnemyBounds),
		Collider: Collider{Group: GroupEnemy, CollidesWith: Groups(GroupPlayer)},
		Velocity: vel,
	}
}

// Attach implements ecs.Bundle.
func (b EnemyBundle) Attach(w *ecs.World, e ecs.Entity) {
	ecs.Set(w, e, b.Enemy)
	ecs.Set(w, e, b.Position)
	ecs.Set(w, e, b.Extent)
	ecs.Set(w, e, b.Collider)
	ecs.Set(w, e, b.Velocity)
	ecs.Set(w, e, b.Instance)
}

// LootBundle is the fixed component set of a loot drop.
type LootBundle struct {
	Loot        Loot
	Position    Position
	Extent      Extent
	Collider    Collider
	Velocity    Velocity
	VelocityMax VelocityMax
	Gravity     Gravity
	Instance    Instance
}

// NewLoot builds a loot drop. Loot is collided with but tests nothing itself.
func NewLoot(pos Position, bounds Bounds, v Velocity, maxSpeed, gravity float64) LootBundle {
	return LootBundle{
		Position:    pos,
		Extent:      NewExtent(bounds),
		Collider:    Collider{Group: GroupLoot},
		Velocity:    v,
		VelocityMax: VelocityMax{Value: maxSpeed},
		Gravity:     Gravity{Y: gravity},
	}
}

// Attach implements ecs.Bundle.
func (b LootBundle) Attach(w *ecs.World, e ecs.Entity) {
	ecs.Set(w, e, b.Loot)
	ecs.Set(w, e, b.Position)
	ecs.Set(w, e, b.Extent)
	ecs.Set(w, e, b.Collider)
	ecs.Set(w, e, b.Velocity)
	ecs.Set(w, e, b.VelocityMax)
	ecs.Set(w, e, b.Gravity)
	ecs.Set(w, e, b.Instance)
}
