// Package pattern compiles named reveal orders for a grid. A compiled
// Pattern is a pure function of progress: it never reads the clock and
// never mutates itself, so one instance is shareable across frames and
// holders. All ordering work happens once in Build; Reveal is a single
// table sweep with no allocation.
package pattern

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lixenwraith/glowgrid/grid"
	"github.com/lixenwraith/glowgrid/vmath"
)

// Pattern names accepted by Build
const (
	Sequential = "sequential"
	Reverse    = "reverse"
	Column     = "column"
	Row        = "row"
	Diamond    = "diamond"
	Spiral     = "spiral"
	Wave       = "wave"
	Random     = "random"
)

const (
	// defaultWindow is the progress fraction over which a revealed
	// cell's age fades from 1 to 0
	defaultWindow = 0.35

	// waveWindow widens the fade for the wave pattern so the ripple
	// band stays visible across several rings
	waveWindow = 0.5

	// waveSpan caps the wave's leading-edge threshold below 1 so the
	// outermost cells still reveal and fully age within one cycle
	waveSpan = 0.85
)

// Sentinel errors
var (
	ErrUnknownPattern = errors.New("unknown pattern")
)

// Reveal is one cell's state at a progress sample. Age is 1 at the
// moment of reveal and decays to 0; off cells carry age 0
type Reveal struct {
	On  bool
	Age float64
}

// Pattern maps progress to per-cell reveal state for one grid. The
// threshold table decides when a cell turns on, the anchor table when
// its age starts decaying (anchor ≥ threshold for line patterns that
// flip a whole row or column at once), and the window table how long
// the decay runs. Windows never extend past progress 1, so a full
// cycle always ends with every cell on at age 0
type Pattern struct {
	name      string
	threshold []float64
	anchor    []float64
	window    []float64
}

// Build compiles the named pattern for a grid. The seed feeds the
// randomized order only; identical seed yields the identical
// permutation for a grid of the same size
func Build(name string, g *grid.Grid, seed uint64) (*Pattern, error) {
	b, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	return b(g, seed), nil
}

// Names returns the accepted pattern names, sorted
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name is an accepted pattern
func Known(name string) bool {
	_, ok := builders[name]
	return ok
}

// Name returns the pattern's registry name
func (p *Pattern) Name() string { return p.name }

// N returns the cell count the pattern was compiled for
func (p *Pattern) N() int { return len(p.threshold) }

// Reveal fills out with every cell's state at the given progress.
// len(out) must equal N(). Progress is clamped to [0,1]; the on-set
// grows monotonically with progress, and age is non-increasing once a
// cell is on
func (p *Pattern) Reveal(progress float64, out []Reveal) {
	pr := vmath.Clamp01(progress)
	for i, t := range p.threshold {
		if pr > t {
			out[i].On = true
			out[i].Age = vmath.Clamp01(1 - (pr-p.anchor[i])/p.window[i])
		} else {
			out[i].On = false
			out[i].Age = 0
		}
	}
}

// OnCount returns how many cells are on at the given progress without
// filling a buffer
func (p *Pattern) OnCount(progress float64) int {
	pr := vmath.Clamp01(progress)
	count := 0
	for _, t := range p.threshold {
		if pr > t {
			count++
		}
	}
	return count
}

type builder func(g *grid.Grid, seed uint64) *Pattern

var builders = map[string]builder{
	Sequential: buildSequential,
	Reverse:    buildReverse,
	Column:     buildColumn,
	Row:        buildRow,
	Diamond:    buildDiamond,
	Spiral:     buildSpiral,
	Wave:       buildWave,
	Random:     buildRandom,
}

// newPattern allocates the tables for n cells
func newPattern(name string, n int) *Pattern {
	return &Pattern{
		name:      name,
		threshold: make([]float64, n),
		anchor:    make([]float64, n),
		window:    make([]float64, n),
	}
}

// set installs cell i's threshold and anchor; the window is trimmed so
// age reaches exactly 0 at progress 1
func (p *Pattern) set(i int, threshold, anchor, window float64) {
	p.threshold[i] = threshold
	p.anchor[i] = anchor
	if rest := 1 - anchor; rest < window {
		window = rest
	}
	p.window[i] = window
}

// fromRanks builds a strict-order pattern: ranks[i] is cell i's
// position in the reveal order, thresholds are rank/N
func fromRanks(name string, ranks []int) *Pattern {
	n := len(ranks)
	p := newPattern(name, n)
	for i, r := range ranks {
		t := float64(r) / float64(n)
		p.set(i, t, t, defaultWindow)
	}
	return p
}
