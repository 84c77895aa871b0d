package pattern

import (
	"sort"

	"github.com/lixenwraith/glowgrid/grid"
	"github.com/lixenwraith/glowgrid/vmath"
)

// buildSequential reveals cells in raster order, top-left to
// bottom-right
func buildSequential(g *grid.Grid, _ uint64) *Pattern {
	ranks := make([]int, g.N())
	for i := range ranks {
		ranks[i] = i
	}
	return fromRanks(Sequential, ranks)
}

// buildReverse reveals cells in reverse raster order
func buildReverse(g *grid.Grid, _ uint64) *Pattern {
	n := g.N()
	ranks := make([]int, n)
	for i := range ranks {
		ranks[i] = n - 1 - i
	}
	return fromRanks(Reverse, ranks)
}

// buildColumn lights whole columns left to right. Cells in a column
// flip together; their age anchors stagger top to bottom across the
// column's progress slot so the freshness front sweeps downward
func buildColumn(g *grid.Grid, _ uint64) *Pattern {
	p := newPattern(Column, g.N())
	slot := 1.0 / float64(g.Width)
	for i := 0; i < g.N(); i++ {
		t := float64(g.ColOf(i)) / float64(g.Width)
		a := t + slot*float64(g.RowOf(i))/float64(g.Height)
		p.set(i, t, a, defaultWindow)
	}
	return p
}

// buildRow lights whole rows top to bottom; freshness sweeps left to
// right within each row
func buildRow(g *grid.Grid, _ uint64) *Pattern {
	p := newPattern(Row, g.N())
	slot := 1.0 / float64(g.Height)
	for i := 0; i < g.N(); i++ {
		t := float64(g.RowOf(i)) / float64(g.Height)
		a := t + slot*float64(g.ColOf(i))/float64(g.Width)
		p.set(i, t, a, defaultWindow)
	}
	return p
}

// buildDiamond reveals by ascending Manhattan distance from center, a
// diamond wavefront; equal distances tie-break by raster index
func buildDiamond(g *grid.Grid, _ uint64) *Pattern {
	n := g.N()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		da, db := g.ManhattanDistance(order[a]), g.ManhattanDistance(order[b])
		if da != db {
			return da < db
		}
		return order[a] < order[b]
	})
	ranks := make([]int, n)
	for k, cell := range order {
		ranks[cell] = k
	}
	return fromRanks(Diamond, ranks)
}

// buildSpiral follows the grid's outward clockwise spiral walk
func buildSpiral(g *grid.Grid, _ uint64) *Pattern {
	ranks := make([]int, g.N())
	for i := range ranks {
		ranks[i] = g.SpiralRank(i)
	}
	return fromRanks(Spiral, ranks)
}

// buildWave reveals by continuous Euclidean distance from center with
// a wide fade band, reading as an expanding ripple rather than a
// strict one-cell-at-a-time order
func buildWave(g *grid.Grid, _ uint64) *Pattern {
	p := newPattern(Wave, g.N())
	max := g.MaxCenterDistance()
	for i := 0; i < g.N(); i++ {
		t := 0.0
		if max > 0 {
			t = waveSpan * g.CenterDistance(i) / max
		}
		p.set(i, t, t, waveWindow)
	}
	return p
}

// buildRandom reveals in a seeded Fisher-Yates order drawn once here;
// the same seed replays the same order on a same-size grid
func buildRandom(g *grid.Grid, seed uint64) *Pattern {
	perm := vmath.NewFastRand(seed).Perm(g.N())
	ranks := make([]int, g.N())
	for k, cell := range perm {
		ranks[cell] = k
	}
	return fromRanks(Random, ranks)
}
