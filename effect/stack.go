package effect

import (
	"time"

	"github.com/lixenwraith/glowgrid/vmath"
)

// Diag receives fail-open diagnostics. A nil Diag is silent
type Diag func(format string, args ...any)

// Stack composes effects by multiplying their multipliers, then
// clamping. Core effects are kept ahead of Detail effects so the
// degraded path is a prefix walk
type Stack struct {
	effects []*Effect
	core    int // effects[:core] are Core fidelity
}

// NewStack composes the given effects, Core first
func NewStack(effects ...*Effect) *Stack {
	s := &Stack{effects: make([]*Effect, 0, len(effects))}
	for _, e := range effects {
		if e.Fidelity == Core {
			s.effects = append(s.effects, e)
		}
	}
	s.core = len(s.effects)
	for _, e := range effects {
		if e.Fidelity != Core {
			s.effects = append(s.effects, e)
		}
	}
	return s
}

// BuildStack resolves names fail-open: unknown names are skipped with
// a diagnostic, never an error, and the skip count is returned for the
// caller's counters. Order within a fidelity class is preserved
func BuildStack(names []string, seed uint64, diag Diag) (*Stack, int) {
	resolved := make([]*Effect, 0, len(names))
	skipped := 0
	for _, name := range names {
		e, err := Build(name, seed)
		if err != nil {
			skipped++
			if diag != nil {
				diag("unknown effect %q skipped", name)
			}
			continue
		}
		resolved = append(resolved, e)
	}
	return NewStack(resolved...), skipped
}

// Modulate composes every effect for one cell
func (s *Stack) Modulate(cell int, age float64, elapsed time.Duration) float64 {
	v := 1.0
	for _, e := range s.effects {
		v *= e.fn(cell, age, elapsed)
	}
	return vmath.Clamp01(v)
}

// ModulateCore composes Core effects only, the degraded path under
// budget pressure
func (s *Stack) ModulateCore(cell int, age float64, elapsed time.Duration) float64 {
	v := 1.0
	for _, e := range s.effects[:s.core] {
		v *= e.fn(cell, age, elapsed)
	}
	return vmath.Clamp01(v)
}

// HasDetail reports whether the stack carries any Detail effects
func (s *Stack) HasDetail() bool { return s.core < len(s.effects) }

// Len returns the effect count
func (s *Stack) Len() int { return len(s.effects) }

// Names returns the composed effect names in evaluation order
func (s *Stack) Names() []string {
	names := make([]string, len(s.effects))
	for i, e := range s.effects {
		names[i] = e.Name
	}
	return names
}
