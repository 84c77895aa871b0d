package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// PausableClock provides animation time that freezes while the console
// is suspended. Resuming shifts the animation origin by the pause
// duration, so patterns continue where they froze instead of jumping
type PausableClock struct {
	mu sync.RWMutex

	realStartTime time.Time // When the clock was created (real time)
	animStartTime time.Time // Animation epoch (adjusted for pauses)

	isPaused        atomic.Bool
	pauseStartTime  time.Time     // When the current pause started (real time)
	totalPausedTime time.Duration // Cumulative pause duration

	real TimeProvider
}

// NewPausableClock creates a running clock on the given provider. A
// nil provider uses monotonic real time
func NewPausableClock(real TimeProvider) *PausableClock {
	if real == nil {
		real = NewMonotonicTimeProvider()
	}
	now := real.Now()
	return &PausableClock{
		realStartTime: now,
		animStartTime: now,
		real:          real,
	}
}

// Now returns the current animation time, frozen while paused
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.isPaused.Load() {
		// Frozen at the pause point
		return pc.animStartTime.Add(pc.pauseStartTime.Sub(pc.realStartTime) - pc.totalPausedTime)
	}

	realElapsed := pc.real.Now().Sub(pc.realStartTime)
	return pc.animStartTime.Add(realElapsed - pc.totalPausedTime)
}

// RealTime returns the provider's time, unaffected by pause
func (pc *PausableClock) RealTime() time.Time {
	return pc.real.Now()
}

// Pause freezes animation time
func (pc *PausableClock) Pause() {
	if pc.isPaused.CompareAndSwap(false, true) {
		pc.mu.Lock()
		defer pc.mu.Unlock()
		pc.pauseStartTime = pc.real.Now()
	}
}

// Resume continues animation time from where it froze
func (pc *PausableClock) Resume() {
	if pc.isPaused.CompareAndSwap(true, false) {
		pc.mu.Lock()
		defer pc.mu.Unlock()
		if !pc.pauseStartTime.IsZero() {
			pc.totalPausedTime += pc.real.Now().Sub(pc.pauseStartTime)
			pc.pauseStartTime = time.Time{}
		}
	}
}

// IsPaused returns the current pause state
func (pc *PausableClock) IsPaused() bool {
	return pc.isPaused.Load()
}

// TotalPaused returns cumulative pause time, including a pause still
// in progress
func (pc *PausableClock) TotalPaused() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	total := pc.totalPausedTime
	if pc.isPaused.Load() && !pc.pauseStartTime.IsZero() {
		total += pc.real.Now().Sub(pc.pauseStartTime)
	}
	return total
}
