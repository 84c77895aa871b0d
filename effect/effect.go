// Package effect modulates the intensity of revealed cells. Effects
// are pure functions of (cell, age, elapsed); they hold no per-frame
// state, so a built effect or stack is shareable and safe to swap in
// place while an animation keeps running.
package effect

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Effect names accepted by Build
const (
	Blink     = "blink"
	Pulsate   = "pulsate"
	Flicker   = "flicker"
	GlowPulse = "glowpulse"
)

// Fidelity classes an effect for budget degradation. Detail effects
// are the first to be skipped when frames run over budget; Core
// effects always render
type Fidelity int

const (
	Core Fidelity = iota
	Detail
)

// Sentinel errors
var (
	ErrUnknownEffect = errors.New("unknown effect")
)

// ModulateFunc maps one on cell to an intensity multiplier in [0,1].
// Age is the cell's reveal freshness (1 just revealed, 0 settled),
// elapsed the session's pause-aware animation time
type ModulateFunc func(cell int, age float64, elapsed time.Duration) float64

// Effect is a named intensity modulator
type Effect struct {
	Name     string
	Fidelity Fidelity
	fn       ModulateFunc
}

// New wraps a modulate function as an Effect
func New(name string, fidelity Fidelity, fn ModulateFunc) *Effect {
	return &Effect{Name: name, Fidelity: fidelity, fn: fn}
}

// Modulate returns the effect's multiplier for one cell
func (e *Effect) Modulate(cell int, age float64, elapsed time.Duration) float64 {
	return e.fn(cell, age, elapsed)
}

type effectBuilder func(seed uint64) *Effect

var builders = map[string]effectBuilder{
	Blink:     func(uint64) *Effect { return newBlink() },
	Pulsate:   func(uint64) *Effect { return newPulsate() },
	Flicker:   newFlicker,
	GlowPulse: func(uint64) *Effect { return newGlowPulse() },
}

// Build resolves a single effect by name. The seed feeds the
// cell-decorrelated effects only
func Build(name string, seed uint64) (*Effect, error) {
	b, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
	return b(seed), nil
}

// Names returns the accepted effect names, sorted
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name is an accepted effect
func Known(name string) bool {
	_, ok := builders[name]
	return ok
}
