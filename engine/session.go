package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/glowgrid/effect"
	"github.com/lixenwraith/glowgrid/grid"
	"github.com/lixenwraith/glowgrid/pattern"
	"github.com/lixenwraith/glowgrid/status"
)

// Defaults for zero Option fields
const (
	DefaultCycle        = 1800 * time.Millisecond
	DefaultDegradeAfter = 5
	DefaultRecoverAfter = 30
)

// Options configures a Session
type Options struct {
	// CycleDuration is one full pattern pass. Zero uses DefaultCycle;
	// negative is invalid
	CycleDuration time.Duration

	// FrameBudget bounds one Tick's compute time. Zero disables
	// degradation; negative is invalid
	FrameBudget time.Duration

	// DegradeAfter is how many consecutive over-budget ticks drop
	// Detail effects; RecoverAfter how many under-budget ticks restore
	// them. Zero values use the defaults
	DegradeAfter int
	RecoverAfter int

	// Seed feeds the randomized pattern and cell-decorrelated effects
	Seed uint64

	// Timer measures tick cost; nil uses monotonic real time
	Timer TimeProvider

	// Diag receives fail-open diagnostics
	Diag Diag

	// Status receives session metrics; nil allocates a private registry
	Status *status.Registry
}

// Session owns one running pattern+effects pairing and its buffers.
// Single-owner: only the frame loop mutates it. The generation counter
// is atomic so teardown from another goroutine can invalidate frames
// still in flight
type Session struct {
	grid  *grid.Grid
	pat   *pattern.Pattern
	stack *effect.Stack

	cycle time.Duration
	start time.Time // animation origin, in the caller's clock
	state State

	generation atomic.Uint64

	seed  uint64
	diag  Diag
	timer TimeProvider

	// Reused per tick; aliased by the returned Frame
	reveal    []pattern.Reveal
	intensity []float64

	budget       time.Duration
	degradeAfter int
	recoverAfter int
	overStreak   int
	underStreak  int
	degraded     bool

	// Cached metric pointers
	statTicks    *atomic.Int64
	statFrameUs  *status.AtomicFloat
	statDegraded *atomic.Bool
	statGen      *atomic.Int64
	statSkipped  *atomic.Int64
}

// NewSession creates an uninitialized session for the grid. The first
// applied directive starts the animation
func NewSession(g *grid.Grid, opts Options) (*Session, error) {
	if opts.CycleDuration < 0 {
		return nil, fmt.Errorf("%w: cycle duration %v", ErrInvalidConfiguration, opts.CycleDuration)
	}
	if opts.FrameBudget < 0 {
		return nil, fmt.Errorf("%w: frame budget %v", ErrInvalidConfiguration, opts.FrameBudget)
	}
	if opts.CycleDuration == 0 {
		opts.CycleDuration = DefaultCycle
	}
	if opts.DegradeAfter <= 0 {
		opts.DegradeAfter = DefaultDegradeAfter
	}
	if opts.RecoverAfter <= 0 {
		opts.RecoverAfter = DefaultRecoverAfter
	}
	if opts.Timer == nil {
		opts.Timer = NewMonotonicTimeProvider()
	}
	if opts.Status == nil {
		opts.Status = status.NewRegistry()
	}

	s := &Session{
		grid:         g,
		stack:        effect.NewStack(),
		cycle:        opts.CycleDuration,
		state:        Uninitialized,
		seed:         opts.Seed,
		diag:         opts.Diag,
		timer:        opts.Timer,
		reveal:       make([]pattern.Reveal, g.N()),
		intensity:    make([]float64, g.N()),
		budget:       opts.FrameBudget,
		degradeAfter: opts.DegradeAfter,
		recoverAfter: opts.RecoverAfter,
		statTicks:    opts.Status.Ints.Get("session.ticks"),
		statFrameUs:  opts.Status.Floats.Get("session.frame_us"),
		statDegraded: opts.Status.Bools.Get("session.degraded"),
		statGen:      opts.Status.Ints.Get("session.generation"),
		statSkipped:  opts.Status.Ints.Get("session.effects_skipped"),
	}
	return s, nil
}

// Apply installs a directive. Re-applying the current pattern with new
// effects swaps the stack in place and keeps the animation origin and
// generation, so an effects-only change never restarts the cycle. A
// different pattern re-originates: generation bumps, progress restarts
// at now. Unknown pattern names are a configuration failure
func (s *Session) Apply(patternName string, effectNames []string, now time.Time) error {
	effectsOnly := s.state != Uninitialized && s.pat != nil && s.pat.Name() == patternName

	var pat *pattern.Pattern
	if !effectsOnly {
		p, err := pattern.Build(patternName, s.grid, s.seed)
		if err != nil {
			return fmt.Errorf("apply directive: %w", err)
		}
		pat = p
	}

	s.state = Transitioning
	stack, skipped := effect.BuildStack(effectNames, s.seed, effect.Diag(s.diag))
	s.stack = stack
	if skipped > 0 {
		s.statSkipped.Add(int64(skipped))
	}
	if !effectsOnly {
		s.pat = pat
		s.start = now
		s.statGen.Store(int64(s.generation.Add(1)))
	}
	s.state = Running
	return nil
}

// Tick produces the frame for the given instant. The animation loops:
// progress wraps each cycle and Cycle counts completed passes. Before
// the first directive the frame is blank. The returned buffers are
// reused on the next Tick
func (s *Session) Tick(now time.Time) Frame {
	gen := s.generation.Load()
	t0 := s.timer.Now()

	if s.state == Uninitialized {
		for i := range s.intensity {
			s.intensity[i] = 0
			s.reveal[i] = pattern.Reveal{}
		}
		s.statTicks.Add(1)
		return Frame{Intensity: s.intensity, Reveal: s.reveal, Generation: gen}
	}

	elapsed := now.Sub(s.start)
	if elapsed < 0 {
		elapsed = 0
	}
	cycleN := uint64(elapsed / s.cycle)
	progress := float64(elapsed%s.cycle) / float64(s.cycle)
	degraded := s.degraded

	s.pat.Reveal(progress, s.reveal)

	onCount := 0
	for i, r := range s.reveal {
		if !r.On {
			s.intensity[i] = 0
			continue
		}
		onCount++
		if degraded {
			s.intensity[i] = s.stack.ModulateCore(i, r.Age, elapsed)
		} else {
			s.intensity[i] = s.stack.Modulate(i, r.Age, elapsed)
		}
	}

	cost := s.timer.Now().Sub(t0)
	s.noteBudget(cost)
	s.statTicks.Add(1)
	s.statFrameUs.Set(float64(cost) / float64(time.Microsecond))

	return Frame{
		Intensity:  s.intensity,
		Reveal:     s.reveal,
		Generation: gen,
		Progress:   progress,
		Cycle:      cycleN,
		OnCount:    onCount,
		Degraded:   degraded,
	}
}

// noteBudget tracks over/under budget streaks and flips the degraded
// flag for the following frames. Only Detail effects are ever dropped;
// the pattern sweep always runs in full
func (s *Session) noteBudget(cost time.Duration) {
	if s.budget <= 0 {
		return
	}
	if cost > s.budget {
		s.overStreak++
		s.underStreak = 0
		if !s.degraded && s.overStreak >= s.degradeAfter && s.stack.HasDetail() {
			s.degraded = true
			s.statDegraded.Store(true)
			if s.diag != nil {
				s.diag("frame budget exceeded %d ticks running, dropping detail effects", s.overStreak)
			}
		}
	} else {
		s.underStreak++
		s.overStreak = 0
		if s.degraded && s.underStreak >= s.recoverAfter {
			s.degraded = false
			s.statDegraded.Store(false)
			if s.diag != nil {
				s.diag("frame budget recovered, restoring detail effects")
			}
		}
	}
}

// Invalidate bumps the generation so frames produced before the call
// report stale. Safe from any goroutine; used at teardown
func (s *Session) Invalidate() {
	s.statGen.Store(int64(s.generation.Add(1)))
}

// Stale reports whether a frame was produced before the most recent
// invalidation or pattern change
func (s *Session) Stale(f Frame) bool {
	return f.Generation != s.generation.Load()
}

// Generation returns the current generation counter
func (s *Session) Generation() uint64 {
	return s.generation.Load()
}

// State returns the lifecycle phase
func (s *Session) State() State {
	return s.state
}

// PatternName returns the running pattern's name, or "" before the
// first directive
func (s *Session) PatternName() string {
	if s.pat == nil {
		return ""
	}
	return s.pat.Name()
}

// EffectNames returns the active stack's effect names in evaluation
// order
func (s *Session) EffectNames() []string {
	return s.stack.Names()
}

// Grid returns the cell space the session animates
func (s *Session) Grid() *grid.Grid {
	return s.grid
}
