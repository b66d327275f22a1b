// Package scheduler runs a simulation at a fixed timestep under a variable
// host frame rate.
//
// Every step receives the same nominal delta. What adapts is how much host
// time one step consumes: when the host is persistently slow the interval
// widens so the simulation runs slower instead of catching up in bursts,
// and it relaxes back once frames are fast again.
package scheduler

import (
	"math"
	"time"
)

// Config tunes the scheduler.
type Config struct {
	TargetFPS   float64 // nominal steps per second
	MinFPS      float64 // below this average rate the interval widens
	MaxSteps    int     // steps per Advance before dropping time
	HistorySize int     // frame intervals averaged
	RelaxRate   float64 // fraction of the gap closed per frame when near target
}

// DefaultConfig returns 60 steps/s with a 28 steps/s floor.
func DefaultConfig() Config {
	return Config{
		TargetFPS:   60,
		MinFPS:      28,
		MaxSteps:    5,
		HistorySize: 10,
		RelaxRate:   0.1,
	}
}

// StepFunc runs one simulation step of dt milliseconds.
type StepFunc func(dt float64)

// Frame reports what one Advance did.
type Frame struct {
	Elapsed  float64 // host ms since the previous frame
	Steps    int
	SimTime  float64 // simulated ms, Steps times the nominal delta
	FPS      float64 // from the averaged frame interval
	Dilation float64 // nominal interval over current interval, 1 at full speed
	Interval float64 // host ms consumed per step
}

// Scheduler accumulates host time and converts it into fixed steps.
// It is not safe for concurrent use.
type Scheduler struct {
	cfg  Config
	step StepFunc

	nominal float64 // ms per step at TargetFPS
	slow    float64 // ms per frame at MinFPS

	accumulator float64
	current     float64
	target      float64

	history []float64
	head    int
	filled  int

	last    time.Time
	started bool
}

// New creates a scheduler calling step. Zero config fields take defaults.
func New(cfg Config, step StepFunc) *Scheduler {
	def := DefaultConfig()
	if cfg.TargetFPS <= 0 {
		cfg.TargetFPS = def.TargetFPS
	}
	if cfg.MinFPS <= 0 || cfg.MinFPS > cfg.TargetFPS {
		cfg.MinFPS = math.Min(def.MinFPS, cfg.TargetFPS)
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = def.MaxSteps
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = def.HistorySize
	}
	if cfg.RelaxRate <= 0 || cfg.RelaxRate > 1 {
		cfg.RelaxRate = def.RelaxRate
	}

	nominal := 1000 / cfg.TargetFPS
	return &Scheduler{
		cfg:     cfg,
		step:    step,
		nominal: nominal,
		slow:    1000 / cfg.MinFPS,
		current: nominal,
		target:  nominal,
		history: make([]float64, cfg.HistorySize),
	}
}

// Config returns the effective configuration.
func (s *Scheduler) Config() Config {
	return s.cfg
}

// Nominal returns the fixed per-step delta in milliseconds.
func (s *Scheduler) Nominal() float64 {
	return s.nominal
}

// Interval returns the current host interval per step in milliseconds.
func (s *Scheduler) Interval() float64 {
	return s.current
}

// Tick advances by the wall time since the previous Tick. The first call
// only records the timestamp.
func (s *Scheduler) Tick(now time.Time) Frame {
	if !s.started {
		s.started = true
		s.last = now
		return Frame{FPS: s.cfg.TargetFPS, Dilation: s.nominal / s.current, Interval: s.current}
	}
	elapsed := now.Sub(s.last)
	s.last = now
	return s.Advance(elapsed)
}

// Advance feeds elapsed host time into the scheduler and runs the steps it
// pays for, at most MaxSteps.
func (s *Scheduler) Advance(elapsed time.Duration) Frame {
	e := max(float64(elapsed)/float64(time.Millisecond), 0)
	avg := s.record(e)

	if avg > s.slow {
		widened := math.Min(avg, 2*s.slow)
		s.current = widened
		s.target = widened
	} else {
		s.target = s.nominal
		s.relax()
	}

	s.accumulator += e
	steps := 0
	for s.accumulator >= s.current && steps < s.cfg.MaxSteps {
		if s.step != nil {
			s.step(s.nominal)
		}
		s.accumulator -= s.current
		steps++
	}
	if steps == s.cfg.MaxSteps {
		s.accumulator = math.Min(s.accumulator, 2*s.current)
	}

	fps := s.cfg.TargetFPS
	if avg > 0 {
		fps = 1000 / avg
	}
	return Frame{
		Elapsed:  e,
		Steps:    steps,
		SimTime:  float64(steps) * s.nominal,
		FPS:      fps,
		Dilation: s.nominal / s.current,
		Interval: s.current,
	}
}

// record pushes e into the ring and returns the average of what it holds.
func (s *Scheduler) record(e float64) float64 {
	s.history[s.head] = e
	s.head = (s.head + 1) % len(s.history)
	if s.filled < len(s.history) {
		s.filled++
	}

	sum := 0.0
	for i := 0; i < s.filled; i++ {
		sum += s.history[i]
	}
	return sum / float64(s.filled)
}

// relax moves the current interval toward target. The rate shrinks as the
// gap grows so recovery from a long stall is gradual.
func (s *Scheduler) relax() {
	diff := s.target - s.current
	if math.Abs(diff) < 1e-3 {
		s.current = s.target
		return
	}
	rate := s.cfg.RelaxRate / (1 + math.Abs(diff)/s.target)
	s.current += diff * rate
}

// Reset clears accumulated time and history.
func (s *Scheduler) Reset() {
	s.accumulator = 0
	s.current = s.nominal
	s.target = s.nominal
	clear(s.history)
	s.head = 0
	s.filled = 0
	s.started = false
}
