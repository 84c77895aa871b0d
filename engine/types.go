// Package engine owns the running animation: one Session pairs a
// compiled pattern with an effect stack and turns timestamps into
// per-cell intensity frames; one Driver runs the frame loop around it.
// The session is single-owner mutable state, touched only by the frame
// loop; its generation counter is the cross-goroutine invalidation
// boundary.
package engine

import (
	"errors"

	"github.com/lixenwraith/glowgrid/pattern"
)

// Sentinel errors
var (
	ErrInvalidConfiguration = errors.New("invalid engine configuration")
)

// Diag receives fail-open diagnostics. A nil Diag is silent
type Diag func(format string, args ...any)

// State is the session lifecycle phase
type State int

const (
	Uninitialized State = iota // no directive applied yet, ticks yield blank frames
	Running                    // animating
	Transitioning              // inside a directive swap
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Transitioning:
		return "transitioning"
	}
	return "unknown"
}

// Frame is one tick's output. Intensity and Reveal alias session-owned
// buffers reused on the next Tick; holders needing the data past the
// frame must copy. Generation lets a late holder detect staleness
type Frame struct {
	Intensity  []float64
	Reveal     []pattern.Reveal
	Generation uint64
	Progress   float64
	Cycle      uint64
	OnCount    int
	Degraded   bool
}

// Renderer consumes finished frames, mapping intensities to an output
// surface
type Renderer interface {
	RenderFrame(f Frame)
}
