package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hyperwave/internal/rng"
	"github.com/vovakirdan/hyperwave/internal/wave"
)

func testPlan(seed *uint32) Plan {
	gen := wave.NewGenerator(wave.DefaultGenParams(), nil)
	return Plan{Gen: gen, StartLevel: 1, Count: 6, LevelStep: 5, Seed: seed}
}

func TestBuiltinModesListed(t *testing.T) {
	modes := List()
	require.Len(t, modes, 2)
	assert.Equal(t, ModeInfo{ID: Campaign, Title: "Campaign"}, modes[0])
	assert.Equal(t, ModeInfo{ID: Endless, Title: "Endless"}, modes[1])

	assert.True(t, Exists(Campaign))
	assert.False(t, Exists("arcade"))
}

func TestCreateUnknown(t *testing.T) {
	_, err := Create("nope")
	assert.ErrorContains(t, err, `unknown mode "nope"`)
}

func TestRegisterDuplicatePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register(Campaign, func() Mode { return campaign{} })
	})
}

func TestCampaignPlaysOneSequence(t *testing.T) {
	m, err := Create(Campaign)
	require.NoError(t, err)

	p := testPlan(rng.Seed(42))
	waves := m.Start(p)
	require.Len(t, waves, 6)
	assert.Equal(t, 1, waves[0].Difficulty)
	assert.Equal(t, 2, waves[5].Difficulty)

	assert.Equal(t, p.Gen.Sequence(1, 6, rng.Seed(42)), waves, "seeded start is reproducible")
	assert.Nil(t, m.Refill(p, 6))
}

func TestEndlessContinuesLevelRamp(t *testing.T) {
	m, err := Create(Endless)
	require.NoError(t, err)

	p := testPlan(rng.Seed(7))
	next := m.Refill(p, 12)
	require.Len(t, next, 6)
	assert.Equal(t, 12, next[0].ID)
	assert.Equal(t, 17, next[5].ID)
	assert.Equal(t, 3, next[0].Difficulty, "12 waves in at 5 per level")

	again := m.Refill(p, 12)
	assert.Equal(t, next, again)
}

func TestEndlessClampsLevel(t *testing.T) {
	m, _ := Create(Endless)
	next := m.Refill(testPlan(rng.Seed(1)), 500)
	require.NotEmpty(t, next)
	for _, p := range next {
		assert.LessOrEqual(t, p.Difficulty, wave.MaxLevel)
	}
}

func TestEndlessEmptyPlan(t *testing.T) {
	m, _ := Create(Endless)
	p := testPlan(nil)
	p.Count = 0
	assert.Nil(t, m.Refill(p, 3))
}
