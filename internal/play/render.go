package play

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/hyperwave/internal/core"
	"github.com/vovakirdan/hyperwave/internal/ecs"
	"github.com/vovakirdan/hyperwave/internal/sim"
)

// HUDRows is the number of screen rows above the playfield.
const HUDRows = 1

// Viewport returns the mapping from the playfield onto dst below the HUD.
func (s *Session) Viewport(dst *core.Screen) core.Viewport {
	return core.Viewport{
		WorldW: s.cfg.Screen.Width,
		WorldH: s.cfg.Screen.Height,
		Cols:   dst.Width(),
		Rows:   max(dst.Height()-HUDRows, 0),
	}
}

// PointAt moves the pointer to the world point under screen cell (col, row).
func (s *Session) PointAt(dst *core.Screen, col, row int) {
	x, y := s.Viewport(dst).ToWorld(col, row-HUDRows)
	s.pointer.Set(x, y)
}

// Render draws the HUD and the playfield into dst.
func (s *Session) Render(dst *core.Screen) {
	dst.Clear()
	s.renderHUD(dst)

	vp := s.Viewport(dst)
	sprites := make([]*Sprite, 0, len(s.sprites))
	for _, sp := range s.sprites {
		sprites = append(sprites, sp)
	}
	// Players on top of loot on top of enemies.
	sort.SliceStable(sprites, func(i, j int) bool {
		if sprites[i].Kind != sprites[j].Kind {
			return sprites[i].Kind < sprites[j].Kind
		}
		if sprites[i].Y != sprites[j].Y {
			return sprites[i].Y < sprites[j].Y
		}
		return sprites[i].X < sprites[j].X
	})
	for _, sp := range sprites {
		col, row := vp.ToCell(sp.X, sp.Y)
		if vp.InView(col, row) {
			dst.SetColor(col, row+HUDRows, sp.Glyph, sp.Color)
		}
	}

	mid := HUDRows + vp.Rows/2
	switch {
	case s.Over():
		dst.DrawTextCentered(mid, "GAME OVER", core.ColorBrightRed)
		dst.DrawTextCentered(mid+1, "r to restart, q to quit", core.ColorGray)
	case s.Won():
		dst.DrawTextCentered(mid, "ALL WAVES CLEARED", core.ColorBrightGreen)
		dst.DrawTextCentered(mid+1, "r to restart, q to quit", core.ColorGray)
	case s.Paused():
		dst.DrawTextCentered(mid, "PAUSED", core.ColorBrightYellow)
	}
}

func (s *Session) renderHUD(dst *core.Screen) {
	w := s.game.World()
	var lives, total int
	if gs, ok := ecs.GetResource[sim.GameState](w); ok {
		lives = gs.Lives
	}
	if ws, ok := ecs.GetResource[sim.WaveScheduler](w); ok {
		total = s.spawned + len(ws.Waves)
	}
	var fps float64
	if d, ok := ecs.GetResource[sim.Delta](w); ok {
		fps = d.FPS
	}

	hud := fmt.Sprintf("SCORE %d  LIVES %d  WAVE %d/%d", s.game.Score(), lives, s.WavesSpawned(), total)
	dst.DrawTextColor(0, 0, hud, core.ColorBrightWhite)
	rate := fmt.Sprintf("%3.0f FPS", fps)
	if x := dst.Width() - len(rate); x > len(hud) {
		dst.DrawTextColor(x, 0, rate, core.ColorGray)
	}
}
