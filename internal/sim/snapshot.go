package sim

import (
	"github.com/vovakirdan/hyperwave/internal/ecs"
	"github.com/vovakirdan/hyperwave/internal/spatial"
)

// WaveProgress is the read-only view of the wave scheduler.
type WaveProgress struct {
	Index       int     `json:"index"`
	Total       int     `json:"total"`
	Timer       float64 `json:"timer"`
	Interval    float64 `json:"interval"`
	GameTime    float64 `json:"gameTime"`
	Active      bool    `json:"active"`
	Difficulty  int     `json:"difficulty"`
	ScrollSpeed float64 `json:"scrollSpeed"`
}

// Counts are entity totals by role.
type Counts struct {
	Total     int `json:"total"`
	Players   int `json:"players"`
	Enemies   int `json:"enemies"`
	Loot      int `json:"loot"`
	Colliding int `json:"colliding"`
}

// Snapshot is the debug view of a game after a step.
type Snapshot struct {
	Step     uint64              `json:"step"`
	Delta    Delta               `json:"delta"`
	Waves    *WaveProgress       `json:"waves,omitempty"`
	Grid     *spatial.GridConfig `json:"grid,omitempty"`
	Entities Counts              `json:"entities"`
	State    *GameState          `json:"state,omitempty"`
}

// Snapshot captures the current debug view. Missing singletons are omitted.
func (g *Game) Snapshot() Snapshot {
	w := g.world
	s := Snapshot{
		Step: g.steps,
		Entities: Counts{
			Total:     w.Count(),
			Players:   ecs.Len[Player](w),
			Enemies:   ecs.Len[Enemy](w),
			Loot:      ecs.Len[Loot](w),
			Colliding: ecs.Len[Collision](w),
		},
	}
	if d, ok := ecs.GetResource[Delta](w); ok {
		s.Delta = *d
	}
	if ws, ok := ecs.GetResource[WaveScheduler](w); ok {
		s.Waves = &WaveProgress{
			Index:       ws.CurrentWaveIndex,
			Total:       len(ws.Waves),
			Timer:       ws.WaveTimer,
			Interval:    ws.WaveInterval,
			GameTime:    ws.GameTime,
			Active:      ws.IsActive,
			Difficulty:  ws.Difficulty,
			ScrollSpeed: ws.ScrollSpeed,
		}
	}
	if cg, ok := ecs.GetResource[CollisionGrid](w); ok && cg.Value != nil {
		cfg := cg.Value.Config()
		s.Grid = &cfg
	}
	if gs, ok := ecs.GetResource[GameState](w); ok {
		state := *gs
		s.State = &state
	}
	return s
}
