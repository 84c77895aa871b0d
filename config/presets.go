package config

import (
	"sort"
	"time"

	"github.com/lixenwraith/glowgrid/effect"
	"github.com/lixenwraith/glowgrid/pattern"
)

// Presets are complete configurations for common indicator shapes.
// Each starts from DefaultConfig and overrides what differs
var presets = map[string]func() *Config{
	// The stock 5x7 dot-matrix panel
	"panel": DefaultConfig,

	// Single row embedded in a status bar
	"statusbar": func() *Config {
		cfg := DefaultConfig()
		cfg.Grid = GridConfig{Width: 12, Height: 1}
		cfg.Animation.Cycle = Duration(1200 * time.Millisecond)
		cfg.Render.Border = false
		cfg.Render.CellWidth = 1
		cfg.Reactor.States["processing"] = StateDirective{
			Pattern: pattern.Sequential, Effects: []string{effect.Pulsate},
		}
		return cfg
	},

	// Tiny square badge
	"badge": func() *Config {
		cfg := DefaultConfig()
		cfg.Grid = GridConfig{Width: 3, Height: 3}
		cfg.Animation.Cycle = Duration(900 * time.Millisecond)
		return cfg
	},

	// Wide marquee strip
	"marquee": func() *Config {
		cfg := DefaultConfig()
		cfg.Grid = GridConfig{Width: 16, Height: 2}
		cfg.Animation.Cycle = Duration(2400 * time.Millisecond)
		cfg.Reactor.States["default"] = StateDirective{
			Pattern: pattern.Column, Effects: []string{effect.GlowPulse},
		}
		cfg.Reactor.States["idle"] = cfg.Reactor.States["default"]
		return cfg
	},
}

// Preset returns a named preset configuration, or nil if unknown.
// Each call builds a fresh config; mutating it never affects the next
// caller
func Preset(name string) *Config {
	build, ok := presets[name]
	if !ok {
		return nil
	}
	return build()
}

// PresetNames lists available presets sorted
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
