package glimmer

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownConfigFormat is returned by LoadConfig for file extensions other
// than .yaml, .yml and .toml.
var ErrUnknownConfigFormat = errors.New("glimmer: unknown config format")

// Config holds every tunable of the animation. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// Seed for all randomness. 0 picks a fresh seed per run.
	Seed uint64 `yaml:"seed" toml:"seed"`

	ParticleCount int     `yaml:"particle_count" toml:"particle_count"`
	ParticleSize  float64 `yaml:"particle_size" toml:"particle_size"`
	// SizeJitter adds up to this much to each particle's base size.
	SizeJitter float64 `yaml:"size_jitter" toml:"size_jitter"`

	// TransitionRate is the per-frame easing fraction.
	TransitionRate float64 `yaml:"transition_rate" toml:"transition_rate"`
	// FrameIndependent scales easing and rotation by elapsed time.
	FrameIndependent bool `yaml:"frame_independent" toml:"frame_independent"`
	// RotationRate is the angle in radians added per frame while the
	// volumetric state is active.
	RotationRate float64 `yaml:"rotation_rate" toml:"rotation_rate"`
	// ResetRotation zeroes the angle each time the volumetric state is entered.
	ResetRotation bool `yaml:"reset_rotation" toml:"reset_rotation"`
	// DwellMS is how long each state stays active, in milliseconds.
	DwellMS int `yaml:"dwell_ms" toml:"dwell_ms"`
	// Depth is the perspective depth constant in pixels.
	Depth float64 `yaml:"depth" toml:"depth"`

	// Trail is the alpha of the background overlay painted each frame.
	// 1 clears hard; smaller values leave motion trails.
	Trail      float64 `yaml:"trail" toml:"trail"`
	Background string  `yaml:"background" toml:"background"`
	// Glow is the halo radius relative to particle size. 0 disables it.
	Glow float64 `yaml:"glow" toml:"glow"`

	Sampling SamplingConfig `yaml:"sampling" toml:"sampling"`
	Tree     TreeConfig     `yaml:"tree" toml:"tree"`
	Texts    []TextConfig   `yaml:"texts" toml:"texts"`
	// FontPath is a TTF/OTF file for text states. Empty uses Go Regular.
	FontPath string `yaml:"font_path" toml:"font_path"`

	Palettes PaletteConfig `yaml:"palettes" toml:"palettes"`
	Wave     WaveConfig    `yaml:"wave" toml:"wave"`
	Noise    NoiseConfig   `yaml:"noise" toml:"noise"`
	Mobile   MobileConfig  `yaml:"mobile" toml:"mobile"`
}

// SamplingConfig controls the shape sampler.
type SamplingConfig struct {
	Resolution     int     `yaml:"resolution" toml:"resolution"`
	Stride         int     `yaml:"stride" toml:"stride"`
	AlphaThreshold int     `yaml:"alpha_threshold" toml:"alpha_threshold"`
	FillRatio      float64 `yaml:"fill_ratio" toml:"fill_ratio"`
	MinPoints      int     `yaml:"min_points" toml:"min_points"`
}

// TreeConfig describes the first state of the cycle.
type TreeConfig struct {
	Name string `yaml:"name" toml:"name"`
	// Flat uses the rasterized silhouette instead of the rotating 3D tree.
	Flat       bool    `yaml:"flat" toml:"flat"`
	Points     int     `yaml:"points" toml:"points"`
	Radius     float64 `yaml:"radius" toml:"radius"`
	Tiers      int     `yaml:"tiers" toml:"tiers"`
	TierDepth  float64 `yaml:"tier_depth" toml:"tier_depth"`
	Jitter     float64 `yaml:"jitter" toml:"jitter"`
	HeightBias float64 `yaml:"height_bias" toml:"height_bias"`
	Spiral     bool    `yaml:"spiral" toml:"spiral"`
	TrunkRatio float64 `yaml:"trunk_ratio" toml:"trunk_ratio"`
}

// TextConfig is one text state.
type TextConfig struct {
	Name  string   `yaml:"name" toml:"name"`
	Lines []string `yaml:"lines" toml:"lines"`
}

// PaletteConfig holds the colors particles take in volumetric and flat
// states.
type PaletteConfig struct {
	Shape []Swatch `yaml:"shape" toml:"shape"`
	Text  []Swatch `yaml:"text" toml:"text"`
	// FadeMS is the crossfade duration on a palette swap. 0 swaps instantly.
	FadeMS int `yaml:"fade_ms" toml:"fade_ms"`
}

// WaveConfig tunes the per-particle drift.
type WaveConfig struct {
	Amplitude float64 `yaml:"amplitude" toml:"amplitude"`
	Frequency float64 `yaml:"frequency" toml:"frequency"`
}

// NoiseConfig tunes the optional Perlin drift.
type NoiseConfig struct {
	Enabled   bool    `yaml:"enabled" toml:"enabled"`
	Amplitude float64 `yaml:"amplitude" toml:"amplitude"`
	Frequency float64 `yaml:"frequency" toml:"frequency"`
	Speed     float64 `yaml:"speed" toml:"speed"`
}

// MobileConfig overrides density settings for small viewports.
type MobileConfig struct {
	// Breakpoint is the smaller viewport side, in pixels, below which the
	// overrides apply. 0 disables the variant.
	Breakpoint    int     `yaml:"breakpoint" toml:"breakpoint"`
	ParticleCount int     `yaml:"particle_count" toml:"particle_count"`
	ParticleSize  float64 `yaml:"particle_size" toml:"particle_size"`
	Stride        int     `yaml:"stride" toml:"stride"`
}

// DefaultConfig returns the stock tuning: a rotating tree followed by two
// text states in a blue and violet palette.
func DefaultConfig() Config {
	return Config{
		ParticleCount:  1500,
		ParticleSize:   2.5,
		SizeJitter:     1.5,
		TransitionRate: 0.05,
		RotationRate:   0.01,
		DwellMS:        3000,
		Depth:          1000,
		Trail:          0.3,
		Background:     "#000000",
		Glow:           2,
		Sampling: SamplingConfig{
			Resolution:     DefaultResolution,
			Stride:         DefaultStride,
			AlphaThreshold: DefaultAlphaThreshold,
			FillRatio:      DefaultFillRatio,
			MinPoints:      DefaultMinPoints,
		},
		Tree: TreeConfig{
			Name:       "tree",
			Points:     1500,
			Radius:     0.38,
			Tiers:      5,
			TierDepth:  0.35,
			Jitter:     0.04,
			HeightBias: 2,
			Spiral:     true,
			TrunkRatio: 0.05,
		},
		Texts: []TextConfig{
			{Name: "text1", Lines: []string{"MERRY", "CHRISTMAS"}},
			{Name: "text2", Lines: []string{"HAPPY", "NEW YEAR"}},
		},
		Palettes: PaletteConfig{
			Shape: []Swatch{
				{Hex: "#4285f4"}, {Hex: "#9b72cb"}, {Hex: "#d96570"},
				{Hex: "#131314"}, {Hex: "#ffffff"},
			},
			Text: []Swatch{
				{Hex: "#4285f4", Weight: 6},
				{Hex: "#9b72cb", Weight: 2},
				{Hex: "#d96570", Weight: 1},
				{Hex: "#ffffff", Weight: 1},
			},
			FadeMS: 600,
		},
		Wave: WaveConfig{Amplitude: 1.2, Frequency: 2},
		Noise: NoiseConfig{
			Amplitude: 6,
			Frequency: 0.004,
			Speed:     0.3,
		},
		Mobile: MobileConfig{
			Breakpoint:    768,
			ParticleCount: 1000,
			ParticleSize:  1.6,
			Stride:        1,
		},
	}
}

// LoadConfig reads a YAML or TOML config file, chosen by extension, on top
// of DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("glimmer: read config: %w", err)
	}
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownConfigFormat, path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("glimmer: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("glimmer: config: "+format, args...))
		}
	}
	check(c.ParticleCount >= 1, "particle_count must be at least 1, got %d", c.ParticleCount)
	check(c.ParticleSize > 0, "particle_size must be positive, got %v", c.ParticleSize)
	check(c.SizeJitter >= 0, "size_jitter must not be negative, got %v", c.SizeJitter)
	check(c.TransitionRate > 0 && c.TransitionRate <= 1, "transition_rate must be in (0, 1], got %v", c.TransitionRate)
	check(c.DwellMS > 0, "dwell_ms must be positive, got %d", c.DwellMS)
	check(c.Depth > 0, "depth must be positive, got %v", c.Depth)
	check(c.Trail > 0 && c.Trail <= 1, "trail must be in (0, 1], got %v", c.Trail)
	check(c.Glow >= 0, "glow must not be negative, got %v", c.Glow)
	check(c.Sampling.Resolution >= 8, "sampling.resolution must be at least 8, got %d", c.Sampling.Resolution)
	check(c.Sampling.Stride >= 1, "sampling.stride must be at least 1, got %d", c.Sampling.Stride)
	check(c.Sampling.AlphaThreshold >= 0 && c.Sampling.AlphaThreshold < 255,
		"sampling.alpha_threshold must be in [0, 255), got %d", c.Sampling.AlphaThreshold)
	check(c.Sampling.FillRatio > 0 && c.Sampling.FillRatio <= 1, "sampling.fill_ratio must be in (0, 1], got %v", c.Sampling.FillRatio)
	check(c.Sampling.MinPoints >= 1, "sampling.min_points must be at least 1, got %d", c.Sampling.MinPoints)
	check(c.Tree.Name != "", "tree.name must not be empty")
	check(c.Tree.Flat || c.Tree.Points >= 1, "tree.points must be at least 1, got %d", c.Tree.Points)

	seen := map[string]bool{c.Tree.Name: true}
	for i, t := range c.Texts {
		check(t.Name != "", "texts[%d].name must not be empty", i)
		check(!seen[t.Name], "texts[%d].name %q duplicates another state", i, t.Name)
		seen[t.Name] = true
	}

	if _, err := parseHexColor(c.Background); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParsePalette(c.Palettes.Shape); err != nil {
		errs = append(errs, fmt.Errorf("glimmer: config: palettes.shape: %w", err))
	}
	if _, err := ParsePalette(c.Palettes.Text); err != nil {
		errs = append(errs, fmt.Errorf("glimmer: config: palettes.text: %w", err))
	}
	return errors.Join(errs...)
}

// Dwell returns DwellMS as a duration.
func (c Config) Dwell() time.Duration {
	return time.Duration(c.DwellMS) * time.Millisecond
}

// Fade returns the palette crossfade duration in seconds.
func (c Config) Fade() float64 {
	return float64(c.Palettes.FadeMS) / 1000
}

// Variant returns c adjusted for viewport. Viewports whose smaller side is
// under Mobile.Breakpoint get the mobile overrides.
func (c Config) Variant(viewport Size) Config {
	m := c.Mobile
	if m.Breakpoint <= 0 || min(viewport.W, viewport.H) >= m.Breakpoint {
		return c
	}
	if m.ParticleCount > 0 {
		c.ParticleCount = m.ParticleCount
	}
	if m.ParticleSize > 0 {
		c.SizeJitter *= m.ParticleSize / c.ParticleSize
		c.ParticleSize = m.ParticleSize
	}
	if m.Stride > 0 {
		c.Sampling.Stride = m.Stride
	}
	return c
}

// States builds the animation cycle: the tree followed by each text state in
// order.
func (c Config) States() ([]State, error) {
	var ttf []byte
	if c.FontPath != "" {
		data, err := os.ReadFile(c.FontPath)
		if err != nil {
			return nil, fmt.Errorf("glimmer: read font: %w", err)
		}
		ttf = data
	}

	states := make([]State, 0, len(c.Texts)+1)
	states = append(states, State{Name: c.Tree.Name, Shape: c.treeShape()})
	for _, t := range c.Texts {
		shape, err := NewTextShape(ttf, t.Lines...)
		if err != nil {
			return nil, err
		}
		states = append(states, State{Name: t.Name, Shape: shape})
	}
	return states, nil
}

func (c Config) treeShape() Shape {
	if c.Tree.Flat {
		return SilhouetteShape{}
	}
	return c.Tree.shape()
}

// shape returns the volumetric tree described by t, one unit tall.
func (t TreeConfig) shape() *TreeShape {
	return &TreeShape{
		Points:     t.Points,
		Height:     1,
		Radius:     t.Radius,
		Tiers:      t.Tiers,
		TierDepth:  t.TierDepth,
		Jitter:     t.Jitter,
		HeightBias: t.HeightBias,
		Spiral:     t.Spiral,
		TrunkRatio: t.TrunkRatio,
	}
}

// sampler returns a Sampler configured from c.Sampling.
func (c Config) sampler(rng *rand.Rand) *Sampler {
	s := NewSampler(rng)
	s.Resolution = c.Sampling.Resolution
	s.Stride = c.Sampling.Stride
	s.AlphaThreshold = uint8(c.Sampling.AlphaThreshold)
	s.FillRatio = c.Sampling.FillRatio
	s.MinPoints = c.Sampling.MinPoints
	return s
}
