// Package config provides configuration loading and access for the river visualization.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation and rendering configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Field      FieldConfig      `yaml:"field"`
	Simulation SimulationConfig `yaml:"simulation"`
	Wave       WaveConfig       `yaml:"wave"`
	Trail      TrailConfig      `yaml:"trail"`
	Measure    MeasureConfig    `yaml:"measure"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// FieldConfig holds the analytic vector field constants.
// These two values define the visual identity of the flow; everything else
// in the field formula is fixed.
type FieldConfig struct {
	Duration  float64 `yaml:"duration"`   // Seconds per full phase cycle
	BaseSpeed float64 `yaml:"base_speed"` // Downstream speed scale
}

// SimulationConfig holds particle simulation parameters.
type SimulationConfig struct {
	Mode            string  `yaml:"mode"`             // "continuous" or "pulsed"
	ParticleCount   int     `yaml:"particle_count"`   // Continuous mode population
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Initial global speed multiplier
}

// WaveConfig holds pulsed-mode wave emission parameters.
type WaveConfig struct {
	MaxGroups          int     `yaml:"max_groups"`
	ParticlesPerGroup  int     `yaml:"particles_per_group"`
	Interval           float64 `yaml:"interval"`            // Seconds between spawn attempts
	Speed              float64 `yaml:"speed"`               // Base horizontal wave speed
	UndulationStrength float64 `yaml:"undulation_strength"` // 0 = rigid wall, 1 = full field meander
	RandomizeWidth     bool    `yaml:"randomize_width"`
	WidthUpper         float64 `yaml:"width_upper"` // Upper bound for the per-group width multiplier
	RandomizeEdgeSpeed bool    `yaml:"randomize_edge_speed"`
}

// TrailConfig holds accumulation pipeline parameters.
type TrailConfig struct {
	Width             int     `yaml:"width"`
	Height            int     `yaml:"height"`
	DecayFactor       float32 `yaml:"decay_factor"`
	BlurPasses        int     `yaml:"blur_passes"`
	Gamma             float64 `yaml:"gamma"`
	NormalizeMode     string  `yaml:"normalize_mode"`     // "approx" or "percentile"
	NormalizeInterval int     `yaml:"normalize_interval"` // Frames between ceiling updates
	Percentile        float64 `yaml:"percentile"`         // Used in percentile mode
}

// MeasureConfig holds external speed measurement parameters.
type MeasureConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Interpreter string  `yaml:"interpreter"` // e.g. "python3"
	Script      string  `yaml:"script"`      // Path to the camera measurement script
	MinSpeed    float64 `yaml:"min_speed"`   // Readings below this are discarded
	SpeedScale  float64 `yaml:"speed_scale"` // Multiplier per measured m/s
	EaseSeconds float32 `yaml:"ease_seconds"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // Ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	PoolSize  int     // Wave.MaxGroups * Wave.ParticlesPerGroup
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the pipeline cannot recover from at runtime.
func (c *Config) validate() error {
	if c.Trail.Width <= 0 || c.Trail.Height <= 0 {
		return fmt.Errorf("trail resolution must be positive, got %dx%d", c.Trail.Width, c.Trail.Height)
	}
	if c.Wave.MaxGroups <= 0 || c.Wave.ParticlesPerGroup <= 0 {
		return fmt.Errorf("wave pool must be non-empty, got %d groups x %d particles",
			c.Wave.MaxGroups, c.Wave.ParticlesPerGroup)
	}
	switch c.Simulation.Mode {
	case "continuous", "pulsed":
	default:
		return fmt.Errorf("unknown simulation mode %q", c.Simulation.Mode)
	}
	switch c.Trail.NormalizeMode {
	case "approx", "percentile":
	default:
		return fmt.Errorf("unknown normalize mode %q", c.Trail.NormalizeMode)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.PoolSize = c.Wave.MaxGroups * c.Wave.ParticlesPerGroup
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
