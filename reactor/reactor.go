// Package reactor turns discrete application states into animation
// directives. It owns the state→directive table, the debounce window,
// and the restart-vs-continue policy; it never touches the session
// directly, it only tells the frame loop what should be running. All
// methods are called from the frame loop goroutine only.
package reactor

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/glowgrid/effect"
	"github.com/lixenwraith/glowgrid/pattern"
	"github.com/lixenwraith/glowgrid/status"
)

// DefaultState is the mandatory fallback entry every table carries;
// unknown app states resolve to it
const DefaultState = "default"

// DefaultDebounce coalesces state changes arriving in rapid bursts
const DefaultDebounce = 100 * time.Millisecond

// Sentinel errors
var (
	ErrMissingDefault  = errors.New("state table missing default entry")
	ErrInvalidDebounce = errors.New("debounce window must not be negative")
)

// Diag receives fail-open diagnostics. A nil Diag is silent
type Diag func(format string, args ...any)

// Directive pairs a pattern with an effect stack for one app state
type Directive struct {
	Pattern string
	Effects []string
}

// Equal reports whether two directives resolve to the same pattern
// and the same effect stack in the same order
func (d Directive) Equal(o Directive) bool {
	if d.Pattern != o.Pattern || len(d.Effects) != len(o.Effects) {
		return false
	}
	for i := range d.Effects {
		if d.Effects[i] != o.Effects[i] {
			return false
		}
	}
	return true
}

// Table maps application states to directives. It must contain a
// DefaultState entry
type Table map[string]Directive

// Options configures a Reactor
type Options struct {
	// Debounce is the coalescing window. Zero uses DefaultDebounce;
	// negative is invalid
	Debounce time.Duration

	// Diag receives fail-open diagnostics
	Diag Diag

	// Status receives reactor metrics; nil allocates a private registry
	Status *status.Registry
}

// Reactor resolves observed states against its table and meters the
// resulting directives through a single pending slot
type Reactor struct {
	table    Table
	debounce time.Duration
	diag     Diag

	current    string    // last applied state label
	currentDir Directive // last applied directive
	applied    bool      // anything applied yet
	lastApply  time.Time

	// Single pending slot, newest observation wins
	pendingState string
	pendingDir   Directive
	pendingDue   time.Time
	hasPending   bool

	// Cached metric pointers
	statUnknownState  *atomic.Int64
	statUnknownEffect *atomic.Int64
	statApplied       *atomic.Int64
	statDebounced     *atomic.Int64
	statState         *status.AtomicString
}

// New validates the table and builds a reactor. Unknown pattern names
// anywhere in the table are a configuration failure; unknown effect
// names are pruned fail-open with a diagnostic so a typo in one effect
// never takes the indicator down
func New(table Table, opts Options) (*Reactor, error) {
	if opts.Debounce < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDebounce, opts.Debounce)
	}
	if opts.Debounce == 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Status == nil {
		opts.Status = status.NewRegistry()
	}
	if _, ok := table[DefaultState]; !ok {
		return nil, ErrMissingDefault
	}

	r := &Reactor{
		table:             make(Table, len(table)),
		debounce:          opts.Debounce,
		diag:              opts.Diag,
		statUnknownState:  opts.Status.Ints.Get("reactor.unknown_state"),
		statUnknownEffect: opts.Status.Ints.Get("reactor.unknown_effect"),
		statApplied:       opts.Status.Ints.Get("reactor.applied"),
		statDebounced:     opts.Status.Ints.Get("reactor.debounced"),
		statState:         opts.Status.Strings.Get("reactor.state"),
	}

	for state, dir := range table {
		if !pattern.Known(dir.Pattern) {
			return nil, fmt.Errorf("state %q: %w: %q", state, pattern.ErrUnknownPattern, dir.Pattern)
		}
		kept := make([]string, 0, len(dir.Effects))
		for _, name := range dir.Effects {
			if !effect.Known(name) {
				r.statUnknownEffect.Add(1)
				if r.diag != nil {
					r.diag("state %q: unknown effect %q pruned", state, name)
				}
				continue
			}
			kept = append(kept, name)
		}
		r.table[state] = Directive{Pattern: dir.Pattern, Effects: kept}
	}

	return r, nil
}

// Observe records an app state seen at the given instant. Within the
// debounce window of the last applied change the observation lands in
// the pending slot, replacing whatever waited there; otherwise it
// becomes due immediately. Nothing is applied here: Advance decides
func (r *Reactor) Observe(state string, at time.Time) {
	dir, ok := r.table[state]
	if !ok {
		r.statUnknownState.Add(1)
		if r.diag != nil {
			r.diag("unknown app state %q, using default directive", state)
		}
		dir = r.table[DefaultState]
	}

	due := at
	if r.applied {
		if earliest := r.lastApply.Add(r.debounce); due.Before(earliest) {
			r.statDebounced.Add(1)
			due = earliest
		}
	}

	r.pendingState = state
	r.pendingDir = dir
	r.pendingDue = due
	r.hasPending = true
}

// Advance applies a due pending state. Returns the directive to run
// and true when the frame loop must (re)configure the session; an
// identical resolved directive is dropped as a no-op. Called once per
// frame before the session tick
func (r *Reactor) Advance(now time.Time) (Directive, bool) {
	if !r.hasPending || now.Before(r.pendingDue) {
		return Directive{}, false
	}
	r.hasPending = false

	if r.applied && r.currentDir.Equal(r.pendingDir) {
		// Same pattern, same effects: nothing to do, and the running
		// animation must not restart
		return Directive{}, false
	}

	r.current = r.pendingState
	r.currentDir = r.pendingDir
	r.applied = true
	r.lastApply = now
	r.statApplied.Add(1)
	r.statState.Store(r.pendingState)

	return r.pendingDir, true
}

// Reset clears the pending slot and the applied history, used at
// teardown
func (r *Reactor) Reset() {
	r.hasPending = false
	r.applied = false
	r.current = ""
	r.currentDir = Directive{}
	r.statState.Store("")
}

// Current returns the last applied state label, or "" before the
// first application
func (r *Reactor) Current() string {
	return r.current
}

// CurrentDirective returns the last applied directive
func (r *Reactor) CurrentDirective() Directive {
	return r.currentDir
}

// Debounce returns the configured coalescing window
func (r *Reactor) Debounce() time.Duration {
	return r.debounce
}

// Pending reports whether a change is waiting for its due time
func (r *Reactor) Pending() bool {
	return r.hasPending
}
