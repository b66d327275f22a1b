package sim

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hyperwave/internal/ecs"
	"github.com/vovakirdan/hyperwave/internal/rng"
	"github.com/vovakirdan/hyperwave/internal/scheduler"
)

// Options configures a Game.
type Options struct {
	ScreenWidth  float64
	ScreenHeight float64
	Offset       Offset // input to world correction
	Lives        int
	Layout       Layout
	Scheduler    scheduler.Config
	Seed         *uint32 // nil draws from the ambient source
	Logger       *log.Logger
}

// DefaultOptions returns options for a 320x480 field with three lives.
func DefaultOptions() Options {
	return Options{
		ScreenWidth:  320,
		ScreenHeight: 480,
		Lives:        3,
		Layout:       DefaultLayout(),
		Scheduler:    scheduler.DefaultConfig(),
	}
}

// Game owns a world and runs the systems over it in a fixed order.
type Game struct {
	opts    Options
	world   *ecs.World
	actions *Actions
	sched   *scheduler.Scheduler
	input   Input
	log     *log.Logger

	steps  uint64
	last   Outcome
	totals Outcome
	onStep []func(*Game)
}

// New creates a game with an empty world.
func New(opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Lives <= 0 {
		opts.Lives = 3
	}
	if opts.Layout == (Layout{}) {
		opts.Layout = DefaultLayout()
	}

	g := &Game{
		opts:  opts,
		world: ecs.NewWorld(),
		log:   opts.Logger,
	}
	g.actions = newActions(g.world, rng.New(opts.Seed), opts.Logger, opts.Layout, opts.Lives)
	g.sched = scheduler.New(opts.Scheduler, g.Step)
	return g
}

// World returns the game's world.
func (g *Game) World() *ecs.World { return g.world }

// Actions returns the boundary API.
func (g *Game) Actions() *Actions { return g.actions }

// Options returns the options the game was built with.
func (g *Game) Options() Options { return g.opts }

// Steps returns the number of simulation steps run.
func (g *Game) Steps() uint64 { return g.steps }

// Totals returns the collision outcomes accumulated since New or Reset.
func (g *Game) Totals() Outcome { return g.totals }

// SetInput sets the pointer source. A nil input leaves the pointer where
// it was last put.
func (g *Game) SetInput(in Input) { g.input = in }

// SetScreen updates the area the pointer is clamped to.
func (g *Game) SetScreen(w, h float64) {
	g.opts.ScreenWidth, g.opts.ScreenHeight = w, h
}

// OnStep registers fn to run after every step.
func (g *Game) OnStep(fn func(*Game)) {
	g.onStep = append(g.onStep, fn)
}

// Step runs every system once with the fixed delta dt in milliseconds.
// While paused only the pointer and renderables are updated.
func (g *Game) Step(dt float64) {
	w := g.world
	g.steps++

	UpdatePointer(w, g.input, g.opts.ScreenWidth, g.opts.ScreenHeight, g.opts.Offset)
	if gs, ok := ecs.GetResource[GameState](w); ok && gs.IsPaused {
		UpdateInstance(w)
		return
	}

	UpdatePlayer(w)
	UpdateWaveScheduler(w, g.actions, dt)
	UpdatePosition(w)
	UpdateVelocity(w)
	ApplyConstraints(w)
	UpdateCollisions(w)
	g.last = ResolveCollisions(w)
	g.totals.Collected += g.last.Collected
	g.totals.Hits += g.last.Hits
	if g.last.GameOver {
		g.totals.GameOver = true
		g.log.Info("game over", "score", g.Score(), "steps", g.steps)
	}
	UpdateInstance(w)
	PruneOutOfBounds(w)

	for _, fn := range g.onStep {
		fn(g)
	}
}

// Advance runs the steps elapsed host time pays for and publishes Delta.
func (g *Game) Advance(elapsed time.Duration) scheduler.Frame {
	return g.publish(g.sched.Advance(elapsed))
}

// Tick is Advance driven by wall-clock timestamps.
func (g *Game) Tick(now time.Time) scheduler.Frame {
	return g.publish(g.sched.Tick(now))
}

func (g *Game) publish(f scheduler.Frame) scheduler.Frame {
	ecs.SetResource(g.world, Delta{DeltaTime: f.SimTime, FPS: f.FPS, Dilation: f.Dilation})
	return f
}

// Reset clears the world and counters. Setup actions must be called again.
func (g *Game) Reset() {
	g.world.Reset()
	g.sched.Reset()
	g.steps = 0
	g.last = Outcome{}
	g.totals = Outcome{}
}

// Score returns the current score, or 0 before SetupWaveScheduler.
func (g *Game) Score() int {
	if gs, ok := ecs.GetResource[GameState](g.world); ok {
		return gs.Score
	}
	return 0
}

// Over reports whether a started run has ended.
func (g *Game) Over() bool {
	gs, ok := ecs.GetResource[GameState](g.world)
	return ok && !gs.IsPlaying && g.totals.GameOver
}

// Player returns the entity of the player with id.
func (g *Game) Player(id int) (ecs.Entity, bool) {
	for _, e := range ecs.Query(g.world, ecs.KindOf[Player]()) {
		if p, _ := ecs.Get[Player](g.world, e); p.ID == id {
			return e, true
		}
	}
	return 0, false
}

// BindInstance attaches a renderable to e. It returns false if e has no Instance.
func (g *Game) BindInstance(e ecs.Entity, r Renderable) bool {
	inst, ok := ecs.Get[Instance](g.world, e)
	if !ok {
		return false
	}
	inst.Ref = r
	return true
}

// UnbindInstance detaches e's renderable.
func (g *Game) UnbindInstance(e ecs.Entity) {
	if inst, ok := ecs.Get[Instance](g.world, e); ok {
		inst.Ref = nil
	}
}
