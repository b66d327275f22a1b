package sim

import (
	"github.com/vovakirdan/hyperwave/internal/ecs"
	"github.com/vovakirdan/hyperwave/internal/xmath"
)

// PlayerSpeed is how far the player moves per step toward the pointer.
const PlayerSpeed = 5.0

// Input supplies the pointer position in screen space.
type Input interface {
	Pointer() (x, y float64)
}

// UpdatePointer reads the input, clamps it to the screen and stores it.
// Pointer and Offset are created on first use.
func UpdatePointer(w *ecs.World, in Input, screenW, screenH float64, offset Offset) {
	ecs.AddResource(w, Pointer{})
	ecs.AddResource(w, offset)
	if in == nil {
		return
	}
	x, y := in.Pointer()
	ecs.SetResource(w, Pointer{
		X: xmath.Clamp(x, 0, screenW),
		Y: xmath.Clamp(y, 0, screenH),
	})
}

// UpdatePlayer steers players toward the pointer at PlayerSpeed. Within
// one step of the target the player stops.
func UpdatePlayer(w *ecs.World) {
	var pointer Pointer
	var offset Offset
	if p, ok := ecs.GetResource[Pointer](w); ok {
		pointer = *p
	}
	if o, ok := ecs.GetResource[Offset](w); ok {
		offset = *o
	}

	ecs.Each4(w, func(_ ecs.Entity, _ *Player, pos *Position, ext *Extent, vel *Velocity) {
		target := xmath.P(
			pointer.X+offset.X-ext.X-ext.Width/2,
			pointer.Y+offset.Y-ext.Y-ext.Height/2,
		)
		dir := target.Sub(pos.Point()).Normalize()
		if target.DistanceToSq(pos.Point()) > PlayerSpeed*PlayerSpeed {
			v := dir.Scale(PlayerSpeed)
			vel.X, vel.Y = v.X, v.Y
		} else {
			vel.X, vel.Y = 0, 0
		}
	})
}

// UpdatePosition adds velocity to position.
func UpdatePosition(w *ecs.World) {
	ecs.Each2(w, func(_ ecs.Entity, pos *Position, vel *Velocity) {
		pos.X += vel.X
		pos.Y += vel.Y
	})
}

// UpdateVelocity bends velocity with gravity while the vertical speed is
// under the cap. Gravity is added to the unit direction, which is then
// scaled back by the speed measured before gravity. The result curves the
// path more than it accelerates it.
func UpdateVelocity(w *ecs.World) {
	ecs.Each3(w, func(_ ecs.Entity, vel *Velocity, vmax *VelocityMax, g *Gravity) {
		if abs(vel.Y) >= vmax.Value {
			return
		}
		speed := vel.Point().Len()
		if speed == 0 {
			vel.Y += g.Y
			return
		}
		dir := vel.Point().Scale(1 / speed)
		dir.Y += g.Y
		v := dir.Scale(speed)
		vel.X, vel.Y = v.X, v.Y
	})
}

// ApplyConstraints keeps each constrained box inside its rectangle,
// resolving X before Y.
func ApplyConstraints(w *ecs.World) {
	ecs.Each3(w, func(_ ecs.Entity, pos *Position, ext *Extent, c *Constraint) {
		x := c.X - ext.X
		y := c.Y - ext.Y

		if pos.X < x {
			pos.X = x
		}
		if pos.X+ext.Width > x+c.Width {
			pos.X = x + c.Width - ext.Width
		}
		if pos.Y < y {
			pos.Y = y
		}
		if pos.Y+ext.Height > y+c.Height {
			pos.Y = y + c.Height - ext.Height
		}
	})
}

// UpdateInstance copies positions into bound renderables.
func UpdateInstance(w *ecs.World) {
	ecs.Each2(w, func(_ ecs.Entity, pos *Position, inst *Instance) {
		if inst.Ref != nil {
			inst.Ref.SetPosition(pos.X, pos.Y)
		}
	})
}

// PruneOutOfBounds destroys every entity marked OutOfBounds and returns
// how many were removed.
func PruneOutOfBounds(w *ecs.World) int {
	doomed := ecs.Query(w, ecs.KindOf[OutOfBounds]())
	for _, e := range doomed {
		w.Destroy(e)
	}
	return len(doomed)
}

// UpdateWaveScheduler advances wave timing by dt milliseconds and spawns
// the next wave every WaveInterval. The scheduler deactivates once every
// wave has spawned. It does nothing while inactive or paused.
func UpdateWaveScheduler(w *ecs.World, a *Actions, dt float64) {
	ws, ok := ecs.GetResource[WaveScheduler](w)
	if !ok || !ws.IsActive {
		return
	}
	if gs, ok := ecs.GetResource[GameState](w); ok && gs.IsPaused {
		return
	}

	ws.GameTime += dt
	ws.WaveTimer += dt
	if ws.WaveInterval <= 0 || ws.WaveTimer < ws.WaveInterval {
		return
	}
	ws.WaveTimer -= ws.WaveInterval

	if ws.CurrentWaveIndex < len(ws.Waves) {
		a.SpawnWave(ws.CurrentWaveIndex, 0)
		ws.CurrentWaveIndex++
	}
	if ws.CurrentWaveIndex >= len(ws.Waves) {
		ws.IsActive = false
		a.log.Info("all waves spawned", "waves", len(ws.Waves), "gameTime", ws.GameTime)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
