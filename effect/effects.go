package effect

import (
	"time"

	"github.com/lixenwraith/glowgrid/vmath"
)

const (
	// blink gates intensity with a square wave while a cell is still
	// fresh (age at or above the gate), then holds full intensity
	blinkPeriod  = 120 * time.Millisecond
	blinkFloor   = 0.25
	blinkAgeGate = 0.75

	// pulsate breathes between its floor and 1.0 for the lifetime of
	// an on cell
	pulsatePeriod = 1200 * time.Millisecond
	pulsateFloor  = 0.85

	// flicker jitters ±10% per quantum, decorrelated per cell
	flickerQuantum = 50 * time.Millisecond
	flickerDepth   = 0.1

	// glowpulse rides an oscillating bias from its base up to 1.0
	glowPeriod = 1600 * time.Millisecond
	glowBase   = 0.70
)

func newBlink() *Effect {
	return New(Blink, Core, func(_ int, age float64, elapsed time.Duration) float64 {
		if age < blinkAgeGate {
			return 1
		}
		phase := vmath.Frac(float64(elapsed) / float64(blinkPeriod))
		if phase < 0.5 {
			return 1
		}
		return blinkFloor
	})
}

func newPulsate() *Effect {
	return New(Pulsate, Core, func(_ int, _ float64, elapsed time.Duration) float64 {
		mid := (pulsateFloor + 1) / 2
		amp := (1 - pulsateFloor) / 2
		return mid + amp*vmath.SinTurns(float64(elapsed)/float64(pulsatePeriod))
	})
}

// newFlicker hashes (seed, cell, time quantum) so neighbouring cells
// and consecutive quanta jitter independently
func newFlicker(seed uint64) *Effect {
	return New(Flicker, Detail, func(cell int, _ float64, elapsed time.Duration) float64 {
		q := uint64(elapsed / flickerQuantum)
		u := vmath.HashedUnit(vmath.SplitMix64(seed+uint64(cell)) ^ q)
		return vmath.Clamp01(1 - flickerDepth + 2*flickerDepth*u)
	})
}

func newGlowPulse() *Effect {
	return New(GlowPulse, Core, func(_ int, _ float64, elapsed time.Duration) float64 {
		bias := (1 - glowBase) * vmath.Osc(float64(elapsed)/float64(glowPeriod))
		return vmath.Clamp01(glowBase + bias)
	})
}
