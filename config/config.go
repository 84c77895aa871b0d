// Package config holds the YAML-backed configuration for an indicator
// instance: grid shape, animation timing, the state table, and the
// demo's render/audio settings. Values load in three layers: defaults,
// then an optional YAML file, then GLOWGRID_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/glowgrid/effect"
	"github.com/lixenwraith/glowgrid/pattern"
)

// Defaults
const (
	DefaultWidth    = 5
	DefaultHeight   = 7
	DefaultCycle    = 1800 * time.Millisecond
	DefaultInterval = 33 * time.Millisecond
	DefaultDebounce = 100 * time.Millisecond
	DefaultTheme    = "ember"
	DefaultGlyphs   = "blocks"
)

// Sentinel errors
var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Duration wraps time.Duration so YAML files and environment
// variables can carry "250ms" style strings
type Duration time.Duration

// Std returns the wrapped time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalYAML emits the duration as a string
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML accepts duration strings and bare nanosecond integers
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(v)
	default:
		return fmt.Errorf("parse duration: unsupported type %T", raw)
	}
	return nil
}

// UnmarshalText lets env overrides carry duration strings
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the full configuration for one indicator instance
type Config struct {
	Grid      GridConfig      `yaml:"grid"`
	Animation AnimationConfig `yaml:"animation"`
	Reactor   ReactorConfig   `yaml:"reactor"`
	Render    RenderConfig    `yaml:"render"`
	Audio     AudioConfig     `yaml:"audio"`

	// Seed feeds the randomized pattern and per-cell effect
	// decorrelation; zero derives one from the wall clock
	Seed uint64 `yaml:"seed" env:"GLOWGRID_SEED"`
}

// GridConfig shapes the cell space
type GridConfig struct {
	Width  int `yaml:"width" env:"GLOWGRID_GRID_WIDTH"`
	Height int `yaml:"height" env:"GLOWGRID_GRID_HEIGHT"`
}

// AnimationConfig times the frame loop
type AnimationConfig struct {
	// Cycle is one full pattern pass
	Cycle Duration `yaml:"cycle" env:"GLOWGRID_CYCLE"`

	// Interval between frames in loop mode
	Interval Duration `yaml:"interval" env:"GLOWGRID_INTERVAL"`

	// FrameBudget bounds one tick's compute time; zero disables
	// degradation
	FrameBudget Duration `yaml:"frame_budget" env:"GLOWGRID_FRAME_BUDGET"`

	// DegradeAfter / RecoverAfter are the over/under budget streaks
	// that drop and restore detail effects; zero uses engine defaults
	DegradeAfter int `yaml:"degrade_after" env:"GLOWGRID_DEGRADE_AFTER"`
	RecoverAfter int `yaml:"recover_after" env:"GLOWGRID_RECOVER_AFTER"`
}

// ReactorConfig holds the state table and its debounce window
type ReactorConfig struct {
	Debounce Duration                  `yaml:"debounce" env:"GLOWGRID_DEBOUNCE"`
	States   map[string]StateDirective `yaml:"states"`
}

// StateDirective pairs a pattern with effects for one app state
type StateDirective struct {
	Pattern string   `yaml:"pattern"`
	Effects []string `yaml:"effects"`
}

// RenderConfig selects the demo's look
type RenderConfig struct {
	Theme     string `yaml:"theme" env:"GLOWGRID_THEME"`
	Glyphs    string `yaml:"glyphs" env:"GLOWGRID_GLYPHS"`
	Border    bool   `yaml:"border" env:"GLOWGRID_BORDER"`
	CellWidth int    `yaml:"cell_width" env:"GLOWGRID_CELL_WIDTH"`
}

// AudioConfig toggles transition cues
type AudioConfig struct {
	Enabled bool    `yaml:"enabled" env:"GLOWGRID_AUDIO"`
	Volume  float64 `yaml:"volume" env:"GLOWGRID_AUDIO_VOLUME"`
}

// DefaultConfig returns the stock 5x7 indicator configuration
func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Animation: AnimationConfig{
			Cycle:    Duration(DefaultCycle),
			Interval: Duration(DefaultInterval),
		},
		Reactor: ReactorConfig{
			Debounce: Duration(DefaultDebounce),
			States: map[string]StateDirective{
				"default":    {Pattern: pattern.Wave, Effects: []string{effect.GlowPulse}},
				"idle":       {Pattern: pattern.Wave, Effects: []string{effect.GlowPulse}},
				"processing": {Pattern: pattern.Spiral, Effects: []string{effect.Pulsate}},
				"success":    {Pattern: pattern.Sequential, Effects: []string{effect.Pulsate}},
				"error":      {Pattern: pattern.Diamond, Effects: []string{effect.Blink}},
				"alert":      {Pattern: pattern.Row, Effects: []string{effect.Blink, effect.Flicker}},
			},
		},
		Render: RenderConfig{
			Theme:  DefaultTheme,
			Glyphs: DefaultGlyphs,
			Border: true,
		},
		Audio: AudioConfig{
			Volume: 0.6,
		},
	}
}

// Load reads a YAML file over the defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ParseEnv applies GLOWGRID_* environment overrides in place
func ParseEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadWithEnv layers defaults, an optional YAML file, and environment
// overrides. An empty path skips the file layer
func LoadWithEnv(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := ParseEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks everything the config can check without building
// components. Pattern, effect, and theme names are validated where
// they are resolved
func (c *Config) Validate() error {
	if c.Grid.Width < 1 || c.Grid.Height < 1 {
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidConfig, c.Grid.Width, c.Grid.Height)
	}
	if c.Animation.Cycle < 0 {
		return fmt.Errorf("%w: cycle %s", ErrInvalidConfig, c.Animation.Cycle)
	}
	if c.Animation.Interval < 0 {
		return fmt.Errorf("%w: interval %s", ErrInvalidConfig, c.Animation.Interval)
	}
	if c.Animation.FrameBudget < 0 {
		return fmt.Errorf("%w: frame budget %s", ErrInvalidConfig, c.Animation.FrameBudget)
	}
	if c.Reactor.Debounce < 0 {
		return fmt.Errorf("%w: debounce %s", ErrInvalidConfig, c.Reactor.Debounce)
	}
	if len(c.Reactor.States) == 0 {
		return fmt.Errorf("%w: empty state table", ErrInvalidConfig)
	}
	if _, ok := c.Reactor.States["default"]; !ok {
		return fmt.Errorf("%w: state table missing default entry", ErrInvalidConfig)
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio volume %v", ErrInvalidConfig, c.Audio.Volume)
	}
	return nil
}
