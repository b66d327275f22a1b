package sim

import (
	"encoding/json"
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hyperwave/internal/ecs"
	"github.com/vovakirdan/hyperwave/internal/rng"
	"github.com/vovakirdan/hyperwave/internal/wave"
	"github.com/vovakirdan/hyperwave/internal/xmath"
)

type fixedInput struct{ x, y float64 }

func (f *fixedInput) Pointer() (float64, float64) { return f.x, f.y }

type sprite struct {
	x, y  float64
	moved int
}

func (s *sprite) SetPosition(x, y float64) {
	s.x, s.y = x, y
	s.moved++
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	opts := DefaultOptions()
	opts.ScreenWidth, opts.ScreenHeight = 512, 512
	opts.Seed = rng.Seed(1)
	opts.Logger = log.New(io.Discard)
	return New(opts)
}

const step = 1000.0 / 60

func TestNewExtentDerivesFields(t *testing.T) {
	e := NewExtent(Bounds{X: -14, Y: -10, Width: 28, Height: 20})

	assert.Equal(t, xmath.P(0, 0), e.Pivot)
	assert.InDelta(t, math.Hypot(28, 20)/2, e.Radius, 1e-9)
	assert.InDelta(t, e.Radius*e.Radius, e.RadiusSq, 1e-9)
	assert.Equal(t, -14.0, e.MinX)
	assert.Equal(t, -10.0, e.MinY)
	assert.Equal(t, 14.0, e.MaxX)
	assert.Equal(t, 10.0, e.MaxY)
	assert.Equal(t, xmath.R(86, 90, 28, 20), e.AABB(Position{X: 100, Y: 100}))
}

func TestGroupSet(t *testing.T) {
	s := Groups(GroupLoot, GroupEnemy)
	assert.True(t, s.Has(GroupLoot))
	assert.True(t, s.Has(GroupEnemy))
	assert.False(t, s.Has(GroupPlayer))
	assert.False(t, GroupSet(0).Has(GroupNone))
}

func TestGroupNames(t *testing.T) {
	assert.Equal(t, "player", GroupPlayer.String())
	assert.Equal(t, "enemy", GroupEnemy.String())
	assert.Equal(t, "loot", GroupLoot.String())
	assert.Equal(t, "none", GroupNone.String())
	assert.Equal(t, "none", (GroupLoot + 1).String(), "loot is the last group")
}

func spawnCollider(w *ecs.World, pos Position, group Group, with GroupSet) ecs.Entity {
	return w.Spawn(
		ecs.With(pos),
		ecs.With(NewExtent(Bounds{X: -5, Y: -5, Width: 10, Height: 10})),
		ecs.With(Collider{Group: group, CollidesWith: with}),
	)
}

func TestCollisionIsAsymmetric(t *testing.T) {
	g := newTestGame(t)
	w := g.World()
	g.Actions().SetupCollisionGrid(64, 512, 512, 0, 0)

	a := spawnCollider(w, Position{X: 100, Y: 100}, GroupPlayer, Groups(GroupEnemy))
	b := spawnCollider(w, Position{X: 104, Y: 104}, GroupEnemy, 0)

	UpdateCollisions(w)

	col, ok := ecs.Get[Collision](w, a)
	require.True(t, ok)
	assert.Equal(t, GroupPlayer, col.Group)
	require.Len(t, col.Others, 1)
	assert.Equal(t, b, col.Others[0].Entity)
	assert.Equal(t, GroupEnemy, col.Others[0].Group)

	assert.False(t, ecs.Has[Collision](w, b))
}

func TestCollisionBothSidesWhenBothFilter(t *testing.T) {
	g := newTestGame(t)
	w := g.World()
	g.Actions().SetupCollisionGrid(64, 512, 512, 0, 0)

	a := spawnCollider(w, Position{X: 60, Y: 60}, GroupEnemy, Groups(GroupEnemy))
	b := spawnCollider(w, Position{X: 66, Y: 66}, GroupEnemy, Groups(GroupEnemy))

	UpdateCollisions(w)

	for _, pair := range [][2]ecs.Entity{{a, b}, {b, a}} {
		col, ok := ecs.Get[Collision](w, pair[0])
		require.True(t, ok)
		require.Len(t, col.Others, 1, "self is never reported and spanning cells is deduplicated")
		assert.Equal(t, pair[1], col.Others[0].Entity)
	}
}

func TestCollisionTouchingEdgesAndMisses(t *testing.T) {
	g := newTestGame(t)
	w := g.World()
	g.Actions().SetupCollisionGrid(64, 512, 512, 0, 0)

	a := spawnCollider(w, Position{X: 100, Y: 100}, GroupPlayer, Groups(GroupLoot))
	touching := spawnCollider(w, Position{X: 110, Y: 100}, GroupLoot, 0)
	_ = spawnCollider(w, Position{X: 111, Y: 120}, GroupLoot, 0) // same cell, no overlap

	UpdateCollisions(w)

	col, ok := ecs.Get[Collision](w, a)
	require.True(t, ok)
	require.Len(t, col.Others, 1)
	assert.Equal(t, touching, col.Others[0].Entity)
}

func TestCollisionStateIsRebuiltEachPass(t *testing.T) {
	g := newTestGame(t)
	w := g.World()
	g.Actions().SetupCollisionGrid(64, 512, 512, 0, 0)

	a := spawnCollider(w, Position{X: 100, Y: 100}, GroupPlayer, Groups(GroupEnemy))
	b := spawnCollider(w, Position{X: 100, Y: 100}, GroupEnemy, 0)
	UpdateCollisions(w)
	require.True(t, ecs.Has[Collision](w, a))

	ecs.MustGet[Position](w, b).X = 400
	UpdateCollisions(w)
	assert.False(t, ecs.Has[Collision](w, a))
}

func TestOutOfBoundsIsMarkedAndPruned(t *testing.T) {
	g := newTestGame(t)
	w := g.World()
	g.Actions().SetupCollisionGrid(64, 512, 512, 0, 0)

	inside := spawnCollider(w, Position{X: 10, Y: 10}, GroupEnemy, 0)
	outside := spawnCollider(w, Position{X: -100, Y: 50}, GroupEnemy, 0)
	straddling := spawnCollider(w, Position{X: -4, Y: 50}, GroupEnemy, 0)

	UpdateCollisions(w)
	assert.False(t, ecs.Has[OutOfBounds](w, inside))
	assert.True(t, ecs.Has[OutOfBounds](w, outside))
	assert.False(t, ecs.Has[OutOfBounds](w, straddling), "clipped, not rejected")

	assert.Equal(t, 1, PruneOutOfBounds(w))
	assert.False(t, w.Alive(outside))
	assert.True(t, w.Alive(inside))
}

func TestCollisionWithoutGridPanicsInDev(t *testing.T) {
	w := ecs.NewWorld()
	assert.Panics(t, func() { UpdateCollisions(w) })
}

func TestConstraintClampsBothAxes(t *testing.T) {
	w := ecs.NewWorld()
	ext := NewExtent(Bounds{X: -5, Y: -5, Width: 10, Height: 10})
	c := Constraint{X: 0, Y: 0, Width: 100, Height: 100}
	e := w.Spawn(
		ecs.With(Position{X: 10, Y: 90}),
		ecs.With(Velocity{X: -20, Y: 200}),
		ecs.With(ext),
		ecs.With(c),
	)

	UpdatePosition(w)
	ApplyConstraints(w)

	pos := ecs.MustGet[Position](w, e)
	box := ext.AABB(*pos)
	assert.Equal(t, c.X, box.X, "left edge touches")
	assert.Equal(t, c.Y+c.Height, box.Bottom(), "bottom edge touches")

	ecs.Set(w, e, Velocity{X: 500, Y: -500})
	UpdatePosition(w)
	ApplyConstraints(w)

	box = ext.AABB(*ecs.MustGet[Position](w, e))
	assert.Equal(t, c.X+c.Width, box.Right(), "right edge touches")
	assert.Equal(t, c.Y, box.Y, "top edge touches")
}

func TestPlayerDeadzoneEndToEnd(t *testing.T) {
	g := newTestGame(t)
	g.SetInput(&fixedInput{x: 100, y: 100})
	a := g.Actions()
	a.SetupCollisionGrid(64, 512, 512, 0, 0)
	p := a.SpawnPlayer(0, Position{X: 100, Y: 100}, Bounds{X: -14, Y: -14, Width: 28, Height: 28},
		Constraint{X: 0, Y: 0, Width: 512, Height: 512})

	g.Step(step)

	assert.Equal(t, Position{X: 100, Y: 100}, *ecs.MustGet[Position](g.World(), p))
	assert.Equal(t, Velocity{}, *ecs.MustGet[Velocity](g.World(), p))
}

func TestPlayerSteersTowardPointer(t *testing.T) {
	g := newTestGame(t)
	in := &fixedInput{x: 300, y: 100}
	g.SetInput(in)
	a := g.Actions()
	a.SetupCollisionGrid(64, 512, 512, 0, 0)
	p := a.SpawnPlayer(0, Position{X: 100, Y: 100}, Bounds{X: -14, Y: -14, Width: 28, Height: 28},
		Constraint{X: 0, Y: 0, Width: 512, Height: 512})

	g.Step(step)
	pos := ecs.MustGet[Position](g.World(), p)
	assert.InDelta(t, 105, pos.X, 1e-9)
	assert.InDelta(t, 100, pos.Y, 1e-9)

	for i := 0; i < 100; i++ {
		g.Step(step)
	}
	assert.InDelta(t, 300, pos.X, PlayerSpeed)
}

func TestSpawnPlayerIsIdempotentPerID(t *testing.T) {
	g := newTestGame(t)
	a := g.Actions()
	b := Bounds{X: -14, Y: -14, Width: 28, Height: 28}

	first := a.SpawnPlayer(0, Position{}, b, Constraint{})
	again := a.SpawnPlayer(0, Position{X: 50}, b, Constraint{})
	other := a.SpawnPlayer(1, Position{}, b, Constraint{})

	assert.Equal(t, first, again)
	assert.NotEqual(t, first, other)
	assert.Equal(t, 2, ecs.Len[Player](g.World()))
}

func TestSetupCollisionGridIsIdempotent(t *testing.T) {
	g := newTestGame(t)
	a := g.Actions()
	a.SetupCollisionGrid(64, 512, 512, 0, 0)
	first := ecs.MustResource[CollisionGrid](g.World()).Value

	a.SetupCollisionGrid(32, 100, 100, 0, 0)
	assert.Same(t, first, ecs.MustResource[CollisionGrid](g.World()).Value)
	assert.Equal(t, 8, first.Config().Cols)
}

func TestLootVelocityRisesToCap(t *testing.T) {
	g := newTestGame(t)
	a := g.Actions()
	a.SetupCollisionGrid(64, 4000, 4000, -2000, -2000)
	w := g.World()

	random := a.SpawnLoot(Position{}, Bounds{X: -4, Y: -4, Width: 8, Height: 8})

	theta := xmath.Rad(LootAngle / 2)
	dir := xmath.P(0, -1).Rotate(theta).Scale(LootSpeed)
	steep := w.Spawn(NewLoot(Position{}, Bounds{X: -4, Y: -4, Width: 8, Height: 8},
		Velocity{X: dir.X, Y: dir.Y}, LootSpeed, LootGravity))

	reached := false
	for i := 0; i < 60; i++ {
		before := map[ecs.Entity]Velocity{
			random: *ecs.MustGet[Velocity](w, random),
			steep:  *ecs.MustGet[Velocity](w, steep),
		}
		g.Step(step)

		for e, prev := range before {
			require.True(t, w.Alive(e), "step %d", i)
			v := ecs.MustGet[Velocity](w, e)
			if math.Abs(prev.Y) < LootSpeed {
				assert.Greater(t, v.Y, prev.Y, "step %d: still under the cap", i)
			} else {
				assert.Equal(t, prev, *v, "step %d: capped", i)
			}
			assert.InDelta(t, prev.X, v.X, 1e-9, "gravity only bends the vertical axis")
		}
		if ecs.MustGet[Velocity](w, steep).Y >= LootSpeed {
			reached = true
		}
	}
	assert.True(t, reached)
}

func TestSpawnLootTossesUpward(t *testing.T) {
	g := newTestGame(t)
	for i := 0; i < 20; i++ {
		e := g.Actions().SpawnLoot(Position{}, Bounds{Width: 4, Height: 4})
		v := ecs.MustGet[Velocity](g.World(), e)
		assert.InDelta(t, LootSpeed, v.Point().Len(), 1e-9)
		assert.Less(t, v.Y, 0.0)
		assert.LessOrEqual(t, math.Abs(v.X), LootSpeed*math.Sin(xmath.Rad(LootAngle/2))+1e-9)
		assert.Equal(t, LootSpeed, ecs.MustGet[VelocityMax](g.World(), e).Value)
	}
}

func TestSpawnEnemyDefaults(t *testing.T) {
	g := newTestGame(t)
	w := g.World()
	e := g.Actions().SpawnEnemy(Position{X: 5}, wave.Enemy3, nil)

	en := ecs.MustGet[Enemy](w, e)
	assert.Equal(t, 3, en.Health)
	assert.Equal(t, 3, en.MaxHealth)
	assert.Equal(t, EnemyVelocity, *ecs.MustGet[Velocity](w, e))
	assert.Equal(t, Groups(GroupPlayer), ecs.MustGet[Collider](w, e).CollidesWith)
	assert.True(t, ecs.Has[Instance](w, e))

	custom := g.Actions().SpawnEnemy(Position{}, "", &Velocity{Y: 7})
	assert.Equal(t, wave.Enemy1, ecs.MustGet[Enemy](w, custom).Type)
	assert.Equal(t, 7.0, ecs.MustGet[Velocity](w, custom).Y)
}

func testWaves() []wave.Pattern {
	return []wave.Pattern{
		{ID: 0, Speed: 2, Columns: [][]wave.Tile{
			{wave.EnemyMedium, wave.Empty},
			{wave.Empty, wave.EnemyMedium},
		}},
		{ID: 1, Speed: 3, Columns: [][]wave.Tile{
			{wave.Hazard, wave.EnemyWeak},
		}},
	}
}

func TestSpawnWave(t *testing.T) {
	g := newTestGame(t)
	a := g.Actions()
	a.SetupWaveScheduler(nil, nil)
	a.LoadWaves(testWaves())
	a.SetScrollSpeed(1.5)

	assert.Equal(t, 0, a.SpawnWave(2, 0), "out of range is a no-op")
	assert.Equal(t, 0, a.SpawnWave(-1, 0))
	assert.Equal(t, 0, g.World().Count())

	require.Equal(t, 2, a.SpawnWave(0, 10))

	var got []Position
	ecs.Each3(g.World(), func(_ ecs.Entity, _ *Enemy, p *Position, v *Velocity) {
		got = append(got, *p)
		assert.Equal(t, Velocity{Y: 3}, *v)
	})
	assert.Equal(t, []Position{{X: 50, Y: -90}, {X: 90, Y: -140}}, got)
}

func TestWaveSchedulerDefaults(t *testing.T) {
	g := newTestGame(t)
	g.Actions().SetupWaveScheduler(nil, nil)
	ws := ecs.MustResource[WaveScheduler](g.World())
	assert.Equal(t, DefaultWaveInterval, ws.WaveInterval)
	assert.Equal(t, DefaultScrollSpeed, ws.ScrollSpeed)
	assert.Equal(t, 3, ecs.MustResource[GameState](g.World()).Lives)

	interval := 500.0
	g.Actions().SetupWaveScheduler(&interval, nil)
	assert.Equal(t, DefaultWaveInterval, ws.WaveInterval, "existing scheduler is kept")
}

func TestUpdateWaveSchedulerSpawnsOnInterval(t *testing.T) {
	g := newTestGame(t)
	a := g.Actions()
	interval := 100.0
	a.SetupWaveScheduler(&interval, nil)
	a.LoadWaves(testWaves())
	a.StartWaves(4)

	w := g.World()
	ws := ecs.MustResource[WaveScheduler](w)
	gs := ecs.MustResource[GameState](w)
	assert.True(t, gs.IsPlaying)
	assert.Equal(t, 4, ws.Difficulty)

	UpdateWaveScheduler(w, a, 60)
	assert.Equal(t, 0, ws.CurrentWaveIndex)
	UpdateWaveScheduler(w, a, 60)
	assert.Equal(t, 1, ws.CurrentWaveIndex)
	assert.InDelta(t, 20, ws.WaveTimer, 1e-9)
	assert.Equal(t, 2, ecs.Len[Enemy](w))

	a.PauseGame()
	UpdateWaveScheduler(w, a, 1000)
	assert.Equal(t, 1, ws.CurrentWaveIndex, "paused")
	a.PauseGame()

	UpdateWaveScheduler(w, a, 80)
	assert.Equal(t, 2, ws.CurrentWaveIndex)
	assert.False(t, ws.IsActive, "all waves spawned")
	assert.InDelta(t, 200, ws.GameTime, 1e-9)

	UpdateWaveScheduler(w, a, 1000)
	assert.Equal(t, 2, ws.CurrentWaveIndex)
	assert.LessOrEqual(t, ws.CurrentWaveIndex, len(ws.Waves))
}

func TestStopWavesAndLoadRewinds(t *testing.T) {
	g := newTestGame(t)
	a := g.Actions()
	a.SetupWaveScheduler(nil, nil)
	a.LoadWaves(testWaves())
	a.StartWaves(1)
	ws := ecs.MustResource[WaveScheduler](g.World())
	ws.CurrentWaveIndex = 1
	ws.WaveTimer = 50

	a.StopWaves()
	assert.False(t, ws.IsActive)

	a.LoadWaves(testWaves()[:1])
	assert.Equal(t, 0, ws.CurrentWaveIndex)
	assert.Equal(t, 0.0, ws.WaveTimer)
	assert.Len(t, ws.Waves, 1)
}

func TestResolveCollisionsScoresAndDamages(t *testing.T) {
	g := newTestGame(t)
	a := g.Actions()
	g.SetInput(&fixedInput{x: 100, y: 100})
	a.SetupCollisionGrid(64, 512, 512, 0, 0)
	a.SetupWaveScheduler(nil, nil)
	a.StartWaves(1)
	a.SpawnPlayer(0, Position{X: 100, Y: 100}, Bounds{X: -14, Y: -14, Width: 28, Height: 28},
		Constraint{Width: 512, Height: 512})

	w := g.World()
	loot := w.Spawn(NewLoot(Position{X: 100, Y: 100}, Bounds{X: -4, Y: -4, Width: 8, Height: 8}, Velocity{}, LootSpeed, 0))
	enemy := a.SpawnEnemy(Position{X: 104, Y: 104}, wave.Enemy1, &Velocity{})

	g.Step(step)

	gs := ecs.MustResource[GameState](w)
	assert.Equal(t, 1, gs.Score)
	assert.Equal(t, 2, gs.Lives)
	assert.False(t, w.Alive(loot))
	assert.False(t, w.Alive(enemy))
	assert.True(t, gs.IsPlaying)
	assert.Equal(t, Outcome{Collected: 1, Hits: 1}, g.Totals())
}

func TestLastLifeEndsRun(t *testing.T) {
	g := newTestGame(t)
	a := g.Actions()
	g.SetInput(&fixedInput{x: 100, y: 100})
	a.SetupCollisionGrid(64, 512, 512, 0, 0)
	a.SetupWaveScheduler(nil, nil)
	a.LoadWaves(testWaves())
	a.StartWaves(1)
	a.SpawnPlayer(0, Position{X: 100, Y: 100}, Bounds{X: -14, Y: -14, Width: 28, Height: 28},
		Constraint{Width: 512, Height: 512})
	ecs.MustResource[GameState](g.World()).Lives = 1

	a.SpawnEnemy(Position{X: 100, Y: 100}, wave.Enemy1, &Velocity{})
	g.Step(step)

	gs := ecs.MustResource[GameState](g.World())
	assert.Equal(t, 0, gs.Lives)
	assert.False(t, gs.IsPlaying)
	assert.False(t, ecs.MustResource[WaveScheduler](g.World()).IsActive)
	assert.True(t, g.Over())
}

func TestPauseFreezesMotion(t *testing.T) {
	g := newTestGame(t)
	a := g.Actions()
	a.SetupCollisionGrid(64, 512, 512, 0, 0)
	a.SetupWaveScheduler(nil, nil)
	e := a.SpawnEnemy(Position{X: 100, Y: 100}, wave.Enemy1, nil)

	a.PauseGame()
	g.Step(step)
	assert.Equal(t, 100.0, ecs.MustGet[Position](g.World(), e).Y)

	a.PauseGame()
	g.Step(step)
	assert.Equal(t, 102.0, ecs.MustGet[Position](g.World(), e).Y)
}

func TestInstanceBinding(t *testing.T) {
	g := newTestGame(t)
	a := g.Actions()
	a.SetupCollisionGrid(64, 512, 512, 0, 0)
	e := a.SpawnEnemy(Position{X: 10, Y: 10}, wave.Enemy1, nil)

	s := &sprite{}
	require.True(t, g.BindInstance(e, s))
	g.Step(step)
	assert.Equal(t, 1, s.moved)
	assert.Equal(t, 12.0, s.y)

	g.UnbindInstance(e)
	g.Step(step)
	assert.Equal(t, 1, s.moved)

	bare := g.World().Spawn()
	assert.False(t, g.BindInstance(bare, s))
}

func TestUpdatePointerClampsAndInitializes(t *testing.T) {
	w := ecs.NewWorld()
	UpdatePointer(w, &fixedInput{x: -20, y: 900}, 320, 480, Offset{Y: -60})

	assert.Equal(t, Pointer{X: 0, Y: 480}, *ecs.MustResource[Pointer](w))
	assert.Equal(t, Offset{Y: -60}, *ecs.MustResource[Offset](w))

	UpdatePointer(w, nil, 320, 480, Offset{})
	assert.Equal(t, Pointer{X: 0, Y: 480}, *ecs.MustResource[Pointer](w), "nil input keeps the last pointer")
}

func TestAdvancePublishesDelta(t *testing.T) {
	g := newTestGame(t)
	g.Actions().SetupCollisionGrid(64, 512, 512, 0, 0)

	f := g.Advance(34 * time.Millisecond)
	assert.Equal(t, 2, f.Steps)
	assert.Equal(t, uint64(2), g.Steps())

	d := ecs.MustResource[Delta](g.World())
	assert.InDelta(t, f.SimTime, d.DeltaTime, 1e-9)
	assert.InDelta(t, f.FPS, d.FPS, 1e-9)
	assert.InDelta(t, 1.0, d.Dilation, 1e-9)
}

func TestSnapshot(t *testing.T) {
	g := newTestGame(t)
	a := g.Actions()
	a.SetupCollisionGrid(64, 512, 512, 0, 0)
	a.SetupWaveScheduler(nil, nil)
	a.LoadWaves(testWaves())
	a.SpawnPlayer(0, Position{X: 100, Y: 100}, Bounds{X: -14, Y: -14, Width: 28, Height: 28}, Constraint{Width: 512, Height: 512})
	a.SpawnEnemy(Position{X: 300, Y: 300}, wave.Enemy2, nil)
	a.SpawnLoot(Position{X: 200, Y: 200}, Bounds{Width: 4, Height: 4})
	g.Advance(17 * time.Millisecond)

	s := g.Snapshot()
	assert.Equal(t, Counts{Total: 3, Players: 1, Enemies: 1, Loot: 1}, s.Entities)
	require.NotNil(t, s.Waves)
	assert.Equal(t, 2, s.Waves.Total)
	require.NotNil(t, s.Grid)
	assert.Equal(t, 8, s.Grid.Cols)

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"cellSize":64`)
	assert.Contains(t, string(raw), `"players":1`)
}

func TestResetClearsWorld(t *testing.T) {
	g := newTestGame(t)
	g.Actions().SetupCollisionGrid(64, 512, 512, 0, 0)
	g.Actions().SpawnEnemy(Position{}, wave.Enemy1, nil)
	g.Step(step)

	g.Reset()
	assert.Equal(t, 0, g.World().Count())
	assert.False(t, ecs.HasResource[CollisionGrid](g.World()))
	assert.Equal(t, uint64(0), g.Steps())
}
