// Package play assembles a playable run: configuration, difficulty, the
// wave supply of a mode, and the renderables a terminal host draws.
package play

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hyperwave/internal/config"
	"github.com/vovakirdan/hyperwave/internal/ecs"
	"github.com/vovakirdan/hyperwave/internal/registry"
	"github.com/vovakirdan/hyperwave/internal/scheduler"
	"github.com/vovakirdan/hyperwave/internal/sim"
	"github.com/vovakirdan/hyperwave/internal/storage"
	"github.com/vovakirdan/hyperwave/internal/wave"
)

// PointerStep is how far one key press moves the pointer, in world units.
const PointerStep = 16.0

// Options configures a Session.
type Options struct {
	Config config.HyperwaveConfig
	Preset config.DifficultyPreset // empty keeps the config's difficulty
	Mode   string                  // registry mode ID, campaign by default
	Seed   *uint32
	Waves  []wave.Pattern // replaces the mode's first batch when set
	Logger *log.Logger
}

// Session is one run of the game.
type Session struct {
	cfg     config.HyperwaveConfig
	preset  config.DifficultyPreset
	mode    registry.Mode
	plan    registry.Plan
	preload []wave.Pattern
	layout  sim.Layout
	rows    int // rows of generated waves

	game    *sim.Game
	pointer *Pointer
	dm      *config.DifficultyManager
	log     *log.Logger

	sprites map[ecs.Entity]*Sprite
	spawned int // waves spawned by batches already replaced
	won     bool
}

// New builds a session and starts its waves.
func New(opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Mode == "" {
		opts.Mode = registry.Campaign
	}
	mode, err := registry.Create(opts.Mode)
	if err != nil {
		return nil, err
	}

	cfg := opts.Config
	if opts.Preset != "" {
		if _, ok := config.ParsePreset(string(opts.Preset)); !ok {
			return nil, fmt.Errorf("play: unknown difficulty %q", opts.Preset)
		}
		config.ApplyPreset(&cfg, opts.Preset)
	}
	if cfg.Screen.Width <= 0 || cfg.Screen.Height <= 0 {
		return nil, fmt.Errorf("play: invalid screen %gx%g", cfg.Screen.Width, cfg.Screen.Height)
	}

	logger := opts.Logger.WithPrefix("play")
	params := GenParams(cfg.Waves)

	s := &Session{
		cfg:     cfg,
		preset:  opts.Preset,
		mode:    mode,
		preload: opts.Waves,
		layout:  layoutFor(cfg.Screen.Width, params.Columns),
		rows:    params.Rows,
		dm:      config.NewDifficultyManager(cfg.Difficulty),
		log:     logger,
		sprites: make(map[ecs.Entity]*Sprite),
	}
	s.plan = registry.Plan{
		Gen:       wave.NewGenerator(params, logger),
		Count:     cfg.Waves.Count,
		LevelStep: params.LevelStep,
		Seed:      opts.Seed,
	}

	s.game = sim.New(sim.Options{
		ScreenWidth:  cfg.Screen.Width,
		ScreenHeight: cfg.Screen.Height,
		Lives:        cfg.Gameplay.Lives,
		Layout:       s.layout,
		Scheduler: scheduler.Config{
			TargetFPS:   cfg.Scheduler.TargetFPS,
			MinFPS:      cfg.Scheduler.MinFPS,
			MaxSteps:    cfg.Scheduler.MaxSteps,
			HistorySize: cfg.Scheduler.HistorySize,
			RelaxRate:   cfg.Scheduler.RelaxRate,
		},
		Seed:   opts.Seed,
		Logger: opts.Logger,
	})
	s.pointer = NewPointer(cfg.Player.StartX, cfg.Player.StartY, cfg.Screen.Width, cfg.Screen.Height, PointerStep)
	s.game.SetInput(s.pointer)
	s.game.OnStep(s.afterStep)

	s.setup()
	return s, nil
}

// GenParams overlays the configured grid size and level step on the
// generator defaults.
func GenParams(wc config.WavesConfig) wave.GenParams {
	params := wave.DefaultGenParams()
	if wc.Columns > 0 {
		params.Columns = wc.Columns
	}
	if wc.Rows > 0 {
		params.Rows = wc.Rows
	}
	if wc.LevelStep > 0 {
		params.LevelStep = wc.LevelStep
	}
	return params
}

// layoutFor centers columns across a field width units wide.
func layoutFor(width float64, columns int) sim.Layout {
	l := sim.DefaultLayout()
	if columns <= 0 {
		return l
	}
	l.ColumnWidth = width / float64(columns+2)
	l.StartX = (width - float64(columns-1)*l.ColumnWidth) / 2
	return l
}

func (s *Session) setup() {
	cfg := s.cfg
	a := s.game.Actions()

	s.plan.StartLevel = s.dm.WaveLevel(0, 0)
	waves := s.preload
	if len(waves) == 0 {
		waves = s.mode.Start(s.plan)
	}

	x, y, w, h := cfg.GridBounds(s.spawnClearance(waves))
	a.SetupCollisionGrid(cfg.Grid.CellSize, w, h, x, y)

	interval, scroll := cfg.Gameplay.WaveInterval, cfg.Gameplay.ScrollSpeed
	a.SetupWaveScheduler(&interval, &scroll)
	a.LoadWaves(waves)

	pw, ph := cfg.Player.Width, cfg.Player.Height
	a.SpawnPlayer(0,
		sim.Position{X: cfg.Player.StartX, Y: cfg.Player.StartY},
		sim.Bounds{X: -pw / 2, Y: -ph / 2, Width: pw, Height: ph},
		sim.Constraint{X: 0, Y: 0, Width: cfg.Screen.Width, Height: cfg.Screen.Height},
	)
	a.StartWaves(s.plan.StartLevel)
	s.bindSprites()

	s.log.Info("run started",
		"mode", s.mode.ID(),
		"difficulty", s.Difficulty(),
		"level", s.plan.StartLevel,
		"waves", len(waves),
	)
}

// spawnClearance is how far above the screen the tallest wave, generated or
// loaded, places an enemy's top edge, plus the grid margin.
func (s *Session) spawnClearance(waves []wave.Pattern) float64 {
	rows := s.rows
	for _, p := range waves {
		rows = max(rows, p.Rows())
	}
	return -(s.layout.Top(rows) + sim.EnemyBounds.Y) + s.cfg.Grid.Margin
}

// afterStep runs after every simulation step.
func (s *Session) afterStep(g *sim.Game) {
	s.bindSprites()
	if s.Finished() {
		return
	}

	a := g.Actions()
	if s.dm.IsEnabled() {
		a.SetScrollSpeed(s.dm.ScrollSpeed(s.cfg.Gameplay.ScrollSpeed, g.Score(), int(g.Steps())))
	}

	w := g.World()
	ws := ecs.MustResource[sim.WaveScheduler](w)
	gs := ecs.MustResource[sim.GameState](w)
	if ws.IsActive || !gs.IsPlaying || ws.Remaining() > 0 {
		return
	}

	spawned := s.spawned + len(ws.Waves)
	if next := s.mode.Refill(s.plan, spawned); len(next) > 0 {
		s.spawned = spawned
		a.LoadWaves(next)
		ws.IsActive = true
		s.log.Debug("waves refilled", "spawned", spawned, "next", len(next))
		return
	}

	if ecs.Len[sim.Enemy](w) == 0 {
		s.won = true
		gs.IsPlaying = false
		s.log.Info("all waves cleared", "score", gs.Score, "lives", gs.Lives)
	}
}

// bindSprites gives every unbound instance a sprite and forgets the
// sprites of destroyed entities.
func (s *Session) bindSprites() {
	w := s.game.World()
	for e := range s.sprites {
		if !w.Alive(e) {
			delete(s.sprites, e)
		}
	}
	ecs.Each1(w, func(e ecs.Entity, inst *sim.Instance) {
		if inst.Ref != nil {
			return
		}
		var sp *Sprite
		switch {
		case ecs.Has[sim.Player](w, e):
			sp = playerSprite()
		case ecs.Has[sim.Loot](w, e):
			sp = lootSprite()
		default:
			sp = enemySprite(wave.Enemy1)
			if en, ok := ecs.Get[sim.Enemy](w, e); ok {
				sp = enemySprite(en.Type)
			}
		}
		if pos, ok := ecs.Get[sim.Position](w, e); ok {
			sp.X, sp.Y = pos.X, pos.Y
		}
		inst.Ref = sp
		s.sprites[e] = sp
	})
}

// Game returns the underlying simulation.
func (s *Session) Game() *sim.Game { return s.game }

// Pointer returns the session's input.
func (s *Session) Pointer() *Pointer { return s.pointer }

// Config returns the effective configuration, preset included.
func (s *Session) Config() config.HyperwaveConfig { return s.cfg }

// Mode returns the mode ID.
func (s *Session) Mode() string { return s.mode.ID() }

// Difficulty returns the preset name, or "custom" without one.
func (s *Session) Difficulty() string {
	if s.preset == "" {
		return "custom"
	}
	return string(s.preset)
}

// Seed returns the run seed, nil for a random run.
func (s *Session) Seed() *uint32 { return s.plan.Seed }

// Sprites returns the live sprite count.
func (s *Session) Sprites() int { return len(s.sprites) }

// Advance runs the simulation for elapsed host time.
func (s *Session) Advance(elapsed time.Duration) scheduler.Frame {
	return s.game.Advance(elapsed)
}

// Tick runs the simulation up to wall-clock time now.
func (s *Session) Tick(now time.Time) scheduler.Frame {
	return s.game.Tick(now)
}

// DropLoot tosses a loot drop from the player. It does nothing while
// paused or once the run has finished.
func (s *Session) DropLoot() bool {
	if s.Paused() || s.Finished() {
		return false
	}
	w := s.game.World()
	e, ok := s.game.Player(0)
	if !ok {
		return false
	}
	pos := ecs.MustGet[sim.Position](w, e)
	size := s.cfg.Gameplay.LootSize
	// Spawned clear of the player's box so it is not collected on release.
	s.game.Actions().SpawnLoot(
		sim.Position{X: pos.X, Y: pos.Y - s.cfg.Player.Height/2 - size},
		sim.Bounds{X: -size / 2, Y: -size / 2, Width: size, Height: size},
	)
	return true
}

// Pause toggles pause.
func (s *Session) Pause() {
	if s.Finished() {
		return
	}
	s.game.Actions().PauseGame()
}

// Paused reports whether the run is paused.
func (s *Session) Paused() bool {
	gs, ok := ecs.GetResource[sim.GameState](s.game.World())
	return ok && gs.IsPaused
}

// Over reports whether the player ran out of lives.
func (s *Session) Over() bool { return s.game.Over() }

// Won reports whether every wave was spawned and cleared.
func (s *Session) Won() bool { return s.won }

// Finished reports whether the run has ended either way.
func (s *Session) Finished() bool { return s.won || s.game.Over() }

// Restart discards the run and starts a new one with the same settings.
func (s *Session) Restart() {
	s.game.Reset()
	clear(s.sprites)
	s.spawned = 0
	s.won = false
	s.pointer.Set(s.cfg.Player.StartX, s.cfg.Player.StartY)
	s.setup()
}

// WavesSpawned returns how many waves have spawned so far.
func (s *Session) WavesSpawned() int {
	ws, ok := ecs.GetResource[sim.WaveScheduler](s.game.World())
	if !ok {
		return s.spawned
	}
	return s.spawned + ws.CurrentWaveIndex
}

// Result returns the run as it would be stored.
func (s *Session) Result() storage.Run {
	r := storage.Run{
		Seed:         s.plan.Seed,
		Difficulty:   s.Difficulty(),
		Score:        s.game.Score(),
		WavesCleared: s.WavesSpawned(),
		Steps:        int(s.game.Steps()),
	}
	w := s.game.World()
	if gs, ok := ecs.GetResource[sim.GameState](w); ok {
		r.Lives = gs.Lives
	}
	if ws, ok := ecs.GetResource[sim.WaveScheduler](w); ok {
		r.Duration = time.Duration(ws.GameTime * float64(time.Millisecond))
	}
	return r
}
