package glimmer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3*time.Second, cfg.Dwell())
	assert.InDelta(t, 0.6, cfg.Fade(), 1e-12)

	states, err := cfg.States()
	require.NoError(t, err)
	require.Len(t, states, 3)
	assert.Equal(t, "tree", states[0].Name)
	assert.True(t, states[0].Volumetric())
	assert.Equal(t, "text1", states[1].Name)
	assert.False(t, states[1].Volumetric())
}

func TestLoadConfigYAML(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 800, cfg.ParticleCount)
	assert.Equal(t, 4*time.Second, cfg.Dwell())
	assert.True(t, cfg.ResetRotation)
	assert.True(t, cfg.Noise.Enabled)
	require.Len(t, cfg.Texts, 1)
	assert.Equal(t, []string{"SEASON'S", "GREETINGS"}, cfg.Texts[0].Lines)
	assert.Equal(t, 3.0, cfg.Palettes.Shape[0].Weight)

	// Unset fields keep their defaults.
	assert.Equal(t, DefaultConfig().Depth, cfg.Depth)
	assert.Equal(t, DefaultConfig().Tree, cfg.Tree)
}

func TestLoadConfigTOML(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.ParticleCount)
	assert.True(t, cfg.FrameIndependent)
	assert.True(t, cfg.Tree.Flat)
	assert.Equal(t, "year", cfg.Texts[0].Name)
	assert.Equal(t, 0.5, cfg.Wave.Amplitude)
	assert.Zero(t, cfg.Mobile.Breakpoint)

	states, err := cfg.States()
	require.NoError(t, err)
	assert.False(t, states[0].Volumetric(), "flat tree")
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("unknown extension", func(t *testing.T) {
		path := writeFile(t, "glimmer.json", "{}")
		_, err := LoadConfig(path)
		assert.ErrorIs(t, err, ErrUnknownConfigFormat)
	})
	t.Run("bad yaml", func(t *testing.T) {
		path := writeFile(t, "glimmer.yml", "particle_count: [")
		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
	t.Run("bad toml", func(t *testing.T) {
		path := writeFile(t, "glimmer.toml", "particle_count = ")
		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config")
	})
	t.Run("invalid values", func(t *testing.T) {
		path := writeFile(t, "glimmer.yaml", "particle_count: 0\ntrail: 2\n")
		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "particle_count")
		assert.Contains(t, err.Error(), "trail")
	})
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParticleSize = 0
	cfg.TransitionRate = 1.5
	cfg.Background = "navy"
	cfg.Palettes.Text = nil
	cfg.Texts = append(cfg.Texts, TextConfig{Name: "tree"})

	err := cfg.Validate()
	require.Error(t, err)
	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 5)
	for _, want := range []string{"particle_size", "transition_rate", `"navy"`, "palettes.text", `"tree" duplicates`} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestVariant(t *testing.T) {
	cfg := DefaultConfig()

	desktop := cfg.Variant(Size{W: 1920, H: 1080})
	assert.Equal(t, cfg, desktop)

	mobile := cfg.Variant(Size{W: 390, H: 844})
	assert.Equal(t, cfg.Mobile.ParticleCount, mobile.ParticleCount)
	assert.Equal(t, cfg.Mobile.ParticleSize, mobile.ParticleSize)
	assert.Equal(t, cfg.Mobile.Stride, mobile.Sampling.Stride)
	assert.InDelta(t, cfg.SizeJitter*cfg.Mobile.ParticleSize/cfg.ParticleSize, mobile.SizeJitter, 1e-12)

	cfg.Mobile.Breakpoint = 0
	assert.Equal(t, cfg, cfg.Variant(Size{W: 100, H: 100}), "disabled")
}

func TestStatesBadFontPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FontPath = filepath.Join(t.TempDir(), "missing.ttf")
	_, err := cfg.States()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read font")
}
