package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := Parse(defaultHyperwaveYAML)
	require.NoError(t, err)
	assert.Equal(t, DefaultHyperwaveConfig(), cfg)
}

func TestLoadCustomPathOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hw.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gameplay:\n  lives: 7\nwaves:\n  count: 3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Gameplay.Lives)
	assert.Equal(t, 3, cfg.Waves.Count)
	assert.Equal(t, 2000.0, cfg.Gameplay.WaveInterval, "missing keys keep defaults")
	assert.Equal(t, 320.0, cfg.Screen.Width)
}

func TestLoadCustomPathErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("screen: [1, 2"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultHyperwaveConfig()
	cfg.Telemetry.Addr = ":9999"

	require.NoError(t, Write(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset  DifficultyPreset
		enabled bool
		initial float64
		lives   int
	}{
		{DifficultyEasy, true, 0.0, 5},
		{DifficultyNormal, true, 0.3, 3},
		{DifficultyHard, true, 0.7, 2},
		{DifficultyFixed, false, 0.0, 3},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultHyperwaveConfig()
			ApplyPreset(&cfg, tc.preset)
			assert.Equal(t, tc.enabled, cfg.Difficulty.Enabled)
			assert.Equal(t, tc.initial, cfg.Difficulty.InitialLevel)
			assert.Equal(t, tc.lives, cfg.Gameplay.Lives)
		})
	}
}

func TestParsePreset(t *testing.T) {
	p, ok := ParsePreset("hard")
	assert.True(t, ok)
	assert.Equal(t, DifficultyHard, p)

	_, ok = ParsePreset("nightmare")
	assert.False(t, ok)
}

func TestGridBoundsCoverSpawnArea(t *testing.T) {
	x, y, w, h := DefaultHyperwaveConfig().GridBounds(0)
	assert.Equal(t, -64.0, x)
	assert.Equal(t, -512.0, y)
	assert.Equal(t, 448.0, w)
	assert.Equal(t, 1056.0, h)
}

func TestGridBoundsGrowForTallWaves(t *testing.T) {
	cfg := DefaultHyperwaveConfig()
	_, y, _, h := cfg.GridBounds(700)
	assert.Equal(t, -700.0, y)
	assert.Equal(t, 1244.0, h)

	_, y, _, _ = cfg.GridBounds(100)
	assert.Equal(t, -512.0, y, "spawn height is the floor")
}

func TestDifficultyManagerLevel(t *testing.T) {
	cfg := DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:      ScalingConfig{SpeedMultiplier: 1.0},
	}
	d := NewDifficultyManager(cfg)

	assert.InDelta(t, 0.2, d.Level(0, 0), 1e-9)
	assert.InDelta(t, 0.6, d.Level(50, 0), 1e-9)
	assert.InDelta(t, 1.0, d.Level(500, 0), 1e-9)

	assert.Equal(t, 3, d.WaveLevel(0, 0))
	assert.Equal(t, 10, d.WaveLevel(100, 0))
	assert.InDelta(t, 2.0, d.ScrollSpeed(1, 100, 0), 1e-9)

	d.SetEnabled(false)
	assert.False(t, d.IsEnabled())
	assert.InDelta(t, 0.2, d.Level(100, 0), 1e-9)
}

func TestDifficultyManagerTimeProgression(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "time", MaxAt: 0},
	})
	assert.InDelta(t, 1.0, d.Level(0, 5), 1e-9, "max_at 0 does not divide by zero")

	d.SetInitialLevel(2)
	assert.InDelta(t, 1.0, d.Level(0, 0), 1e-9)
	assert.Equal(t, 10, d.WaveLevel(0, 0))
}
