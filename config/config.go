// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Arena     ArenaConfig     `yaml:"arena"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Brain     BrainConfig     `yaml:"brain"`
	Hunting   HuntingConfig   `yaml:"hunting"`
	Flies     FliesConfig     `yaml:"flies"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the graphical mode.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ArenaConfig holds the bounded 2D arena dimensions in world units.
type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PhysicsConfig holds timestep parameters.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"` // seconds per tick
}

// BrainConfig holds neural architecture parameters.
type BrainConfig struct {
	JuvenileMode     bool    `yaml:"juvenile_mode"`     // start in the juvenile developmental stage
	JuvenileDuration int     `yaml:"juvenile_duration"` // ticks until the juvenile->adult transition
	TectumColumns    int     `yaml:"tectum_columns"`    // direction-relay columns
	Astrocytes       int     `yaml:"astrocytes"`        // glial network population
	RetinaFields     int     `yaml:"retina_fields"`     // receptive fields per side (grid is N x N)
	FieldCellSize    float64 `yaml:"field_cell_size"`   // physical size covered by one neuromodulator grid cell
}

// HuntingConfig holds strike mechanics parameters.
// The training regime uses the stricter radius/probability so the agent
// cannot catch on nearly every strike while it is still learning.
type HuntingConfig struct {
	TrainingMode  bool    `yaml:"training_mode"`  // strict regime: small hit radius, low success probability
	InstinctMode  bool    `yaml:"instinct_mode"`  // preloaded-instinct regime: same strict strike parameters
	VisualRange   float64 `yaml:"visual_range"`   // fly detection distance
	TongueSpeed   float64 `yaml:"tongue_speed"`   // extension speed, units per second
	TongueLength  float64 `yaml:"tongue_length"`  // maximum extension
	CatchCooldown int     `yaml:"catch_cooldown"` // ticks between catches
}

// FliesConfig holds prey population parameters.
type FliesConfig struct {
	Count           int     `yaml:"count"`            // target fly population
	MaxSpeed        float64 `yaml:"max_speed"`        // wander velocity bound per axis
	RekickChance    float64 `yaml:"rekick_chance"`    // per-tick probability of a Brownian velocity re-kick
	RespawnInterval int     `yaml:"respawn_interval"` // ticks between respawn sweeps for caught flies
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FieldGridW int // neuromodulator grid width in cells
	FieldGridH int // neuromodulator grid height in cells
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate checks for construction-time misconfiguration. This is the only
// class of condition the simulation treats as fatal; everything inside the
// per-tick hot path clamps instead of failing.
func (c *Config) Validate() error {
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return fmt.Errorf("config: arena size must be positive, got %.1fx%.1f", c.Arena.Width, c.Arena.Height)
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.Physics.DT)
	}
	if c.Brain.TectumColumns <= 0 {
		return fmt.Errorf("config: tectum_columns must be positive, got %d", c.Brain.TectumColumns)
	}
	if c.Brain.Astrocytes < 0 {
		return fmt.Errorf("config: astrocytes must be non-negative, got %d", c.Brain.Astrocytes)
	}
	if c.Brain.RetinaFields <= 0 {
		return fmt.Errorf("config: retina_fields must be positive, got %d", c.Brain.RetinaFields)
	}
	if c.Brain.JuvenileDuration <= 0 {
		return fmt.Errorf("config: juvenile_duration must be positive, got %d", c.Brain.JuvenileDuration)
	}
	if c.Brain.FieldCellSize <= 0 {
		return fmt.Errorf("config: field_cell_size must be positive, got %g", c.Brain.FieldCellSize)
	}
	if c.Flies.Count < 0 {
		return fmt.Errorf("config: flies count must be non-negative, got %d", c.Flies.Count)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// Each neuromodulator grid cell covers a fixed physical area.
	c.Derived.FieldGridW = int(c.Arena.Width / c.Brain.FieldCellSize)
	if c.Derived.FieldGridW < 1 {
		c.Derived.FieldGridW = 1
	}
	c.Derived.FieldGridH = int(c.Arena.Height / c.Brain.FieldCellSize)
	if c.Derived.FieldGridH < 1 {
		c.Derived.FieldGridH = 1
	}
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
