package registry

import (
	"github.com/vovakirdan/hyperwave/internal/rng"
	"github.com/vovakirdan/hyperwave/internal/wave"
)

// Built-in mode IDs.
const (
	Campaign = "campaign"
	Endless  = "endless"
)

func init() {
	Register(Campaign, func() Mode { return campaign{} })
	Register(Endless, func() Mode { return endless{} })
}

// campaign plays one fixed sequence and then stops.
type campaign struct{}

func (campaign) ID() string    { return Campaign }
func (campaign) Title() string { return "Campaign" }

func (campaign) Start(p Plan) []wave.Pattern {
	return p.Gen.Sequence(p.StartLevel, p.Count, p.Seed)
}

func (campaign) Refill(Plan, int) []wave.Pattern { return nil }

// endless keeps generating batches, continuing the level ramp of the
// previous batch.
type endless struct{}

func (endless) ID() string    { return Endless }
func (endless) Title() string { return "Endless" }

func (endless) Start(p Plan) []wave.Pattern {
	return p.Gen.Sequence(p.StartLevel, p.Count, p.Seed)
}

func (endless) Refill(p Plan, spawned int) []wave.Pattern {
	if p.Count <= 0 {
		return nil
	}
	step := p.Gen.Params().LevelStep
	level := wave.ClampLevel(p.StartLevel + spawned/step)

	var seed *uint32
	if p.Seed != nil {
		seed = rng.Seed(*p.Seed + uint32(spawned))
	}
	patterns := p.Gen.Sequence(level, p.Count, seed)
	for i := range patterns {
		patterns[i].ID = spawned + i
	}
	return patterns
}
