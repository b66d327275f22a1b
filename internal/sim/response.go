package sim

import "github.com/vovakirdan/hyperwave/internal/ecs"

// Outcome summarizes what ResolveCollisions changed this step.
type Outcome struct {
	Collected int // loot picked up
	Hits      int // enemies that reached a player
	GameOver  bool
}

// ResolveCollisions applies player contacts: loot scores a point, an enemy
// costs a life, and both are removed. Running out of lives ends the run and
// stops the waves. Without a GameState only the removals happen.
func ResolveCollisions(w *ecs.World) Outcome {
	var out Outcome
	gs, hasState := ecs.GetResource[GameState](w)

	ecs.Each2(w, func(_ ecs.Entity, _ *Player, c *Collision) {
		for _, other := range c.Others {
			if !w.Alive(other.Entity) {
				continue
			}
			switch other.Group {
			case GroupLoot:
				out.Collected++
				if hasState {
					gs.Score++
				}
			case GroupEnemy:
				out.Hits++
				if hasState && gs.Lives > 0 {
					gs.Lives--
				}
			default:
				continue
			}
			w.Destroy(other.Entity)
		}
	})

	if hasState && gs.IsPlaying && out.Hits > 0 && gs.Lives <= 0 {
		gs.IsPlaying = false
		out.GameOver = true
		if ws, ok := ecs.GetResource[WaveScheduler](w); ok {
			ws.IsActive = false
		}
	}
	return out
}
