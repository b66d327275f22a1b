package sim

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hyperwave/internal/ecs"
	"github.com/vovakirdan/hyperwave/internal/rng"
	"github.com/vovakirdan/hyperwave/internal/spatial"
	"github.com/vovakirdan/hyperwave/internal/wave"
	"github.com/vovakirdan/hyperwave/internal/xmath"
)

// Wave scheduler defaults.
const (
	DefaultWaveInterval = 2000.0 // ms
	DefaultScrollSpeed  = 1.0
)

// Loot toss parameters.
const (
	LootAngle   = 15.0 // degrees, centered on straight up
	LootSpeed   = 8.0
	LootGravity = 0.2
)

// Layout places wave tiles in world space. Row 0 is spawned lowest and
// later rows stack upward.
type Layout struct {
	ColumnWidth float64
	StartX      float64
	StartY      float64
	RowSpacing  float64
}

// Top returns the world y of the highest row of a wave with rows rows.
func (l Layout) Top(rows int) float64 {
	return l.StartY - float64(max(rows-1, 0))*l.RowSpacing
}

// DefaultLayout matches a 6 column wave on a 320 unit wide field.
func DefaultLayout() Layout {
	return Layout{ColumnWidth: 40, StartX: 50, StartY: -100, RowSpacing: 50}
}

// Actions is the boundary API used by hosts, debug tooling and the wave
// system to change the world.
type Actions struct {
	w      *ecs.World
	rand   rng.Source
	log    *log.Logger
	layout Layout
	lives  int
}

func newActions(w *ecs.World, src rng.Source, logger *log.Logger, layout Layout, lives int) *Actions {
	return &Actions{w: w, rand: src, log: logger, layout: layout, lives: lives}
}

// SetupCollisionGrid creates the collision grid. It does nothing if a grid
// already exists.
func (a *Actions) SetupCollisionGrid(cellSize, width, height, x, y float64) {
	if ecs.HasResource[CollisionGrid](a.w) {
		return
	}
	grid := spatial.New[ecs.Entity, Group](spatial.Config{
		CellSize: cellSize, Width: width, Height: height, X: x, Y: y,
	})
	ecs.SetResource(a.w, CollisionGrid{Value: grid})
	cfg := grid.Config()
	a.log.Debug("collision grid ready", "cols", cfg.Cols, "rows", cfg.Rows, "cell", cellSize)
}

// SetupWaveScheduler creates the wave scheduler and game state if missing.
// Nil arguments use DefaultWaveInterval and DefaultScrollSpeed.
func (a *Actions) SetupWaveScheduler(interval, scrollSpeed *float64) {
	ws := WaveScheduler{WaveInterval: DefaultWaveInterval, ScrollSpeed: DefaultScrollSpeed, Difficulty: 1}
	if interval != nil {
		ws.WaveInterval = *interval
	}
	if scrollSpeed != nil {
		ws.ScrollSpeed = *scrollSpeed
	}
	ecs.AddResource(a.w, ws)
	ecs.AddResource(a.w, GameState{Lives: a.lives, Level: 1})
}

// SpawnPlayer spawns a player unless one with the same id exists.
func (a *Actions) SpawnPlayer(id int, pos Position, bounds Bounds, c Constraint) ecs.Entity {
	for _, e := range ecs.Query(a.w, ecs.KindOf[Player]()) {
		if p, _ := ecs.Get[Player](a.w, e); p.ID == id {
			return e
		}
	}
	return a.w.Spawn(NewPlayer(id, pos, bounds, c))
}

// SpawnEnemy spawns an enemy. A nil velocity uses the default downward drift.
func (a *Actions) SpawnEnemy(pos Position, t wave.EnemyType, v *Velocity) ecs.Entity {
	return a.w.Spawn(NewEnemy(pos, t, v))
}

// SpawnLoot tosses a loot drop upward within LootAngle of vertical.
func (a *Actions) SpawnLoot(pos Position, bounds Bounds) ecs.Entity {
	theta := xmath.Rad(a.rand.Float64()*LootAngle - LootAngle/2)
	dir := xmath.P(0, -1).Rotate(theta).Scale(LootSpeed)
	return a.w.Spawn(NewLoot(pos, bounds, Velocity{X: dir.X, Y: dir.Y}, LootSpeed, LootGravity))
}

// UpdatePointer records the pointer position.
func (a *Actions) UpdatePointer(x, y float64) {
	ecs.SetResource(a.w, Pointer{X: x, Y: y})
}

// LoadWaves replaces the wave list and rewinds the scheduler.
func (a *Actions) LoadWaves(patterns []wave.Pattern) {
	ws := ecs.MustResource[WaveScheduler](a.w)
	ws.Waves = patterns
	ws.CurrentWaveIndex = 0
	ws.WaveTimer = 0
}

// StartWaves starts spawning from the first wave and marks the game playing.
func (a *Actions) StartWaves(difficulty int) {
	ws := ecs.MustResource[WaveScheduler](a.w)
	gs := ecs.MustResource[GameState](a.w)

	ws.IsActive = true
	ws.Difficulty = difficulty
	ws.GameTime = 0
	ws.CurrentWaveIndex = 0
	ws.WaveTimer = 0

	gs.IsPlaying = true
	gs.IsPaused = false
	gs.Level = difficulty
	a.log.Info("waves started", "difficulty", difficulty, "waves", len(ws.Waves))
}

// StopWaves stops spawning. Progress is kept.
func (a *Actions) StopWaves() {
	ecs.MustResource[WaveScheduler](a.w).IsActive = false
}

// PauseGame toggles pause.
func (a *Actions) PauseGame() {
	gs := ecs.MustResource[GameState](a.w)
	gs.IsPaused = !gs.IsPaused
}

// SetScrollSpeed changes the multiplier applied to waves spawned from now on.
func (a *Actions) SetScrollSpeed(speed float64) {
	ecs.MustResource[WaveScheduler](a.w).ScrollSpeed = speed
}

// SpawnWave spawns every enemy tile of wave index, shifted down by offsetY.
// An index past the loaded waves is ignored. It returns the number of
// enemies spawned.
func (a *Actions) SpawnWave(index int, offsetY float64) int {
	ws := ecs.MustResource[WaveScheduler](a.w)
	if index < 0 || index >= len(ws.Waves) {
		return 0
	}

	p := ws.Waves[index]
	l := a.layout
	startY := l.StartY + offsetY
	vel := Velocity{X: 0, Y: p.Speed * ws.ScrollSpeed}

	spawned := 0
	for col, tiles := range p.Columns {
		for row, tile := range tiles {
			t, ok := wave.TileToEnemyType(tile, a.rand)
			if !ok {
				continue
			}
			pos := Position{
				X: l.StartX + float64(col)*l.ColumnWidth,
				Y: startY - float64(row)*l.RowSpacing,
			}
			a.SpawnEnemy(pos, t, &vel)
			spawned++
		}
	}
	a.log.Debug("spawned wave", "index", index, "enemies", spawned, "level", p.Difficulty)
	return spawned
}
