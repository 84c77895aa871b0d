// Package grid models the addressable cell space of the indicator: a
// rectangular W×H field of illuminable cells identified by raster index
// (index = y*Width + x). A Grid is immutable after construction; every
// geometric query is an O(1) lookup into tables built once in New, so
// pattern compilation and per-frame code never pay for sqrt or walks.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors
var (
	ErrInvalidDimensions = errors.New("grid dimensions must be positive")
)

// Grid is an immutable cell space. Shareable across sessions with the
// same dimensions
type Grid struct {
	Width  int
	Height int

	cx, cy float64 // geometric center, fractional on even dimensions

	centerDist []float64
	manhattan  []float64
	chebyshev  []float64
	spiralRank []int

	maxCenterDist float64
}

// New builds a grid and its query tables
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	g := &Grid{
		Width:  width,
		Height: height,
		cx:     float64(width-1) / 2,
		cy:     float64(height-1) / 2,
	}

	n := width * height
	g.centerDist = make([]float64, n)
	g.manhattan = make([]float64, n)
	g.chebyshev = make([]float64, n)
	for i := 0; i < n; i++ {
		dx := float64(i%width) - g.cx
		dy := float64(i/width) - g.cy
		g.centerDist[i] = math.Sqrt(dx*dx + dy*dy)
		g.manhattan[i] = math.Abs(dx) + math.Abs(dy)
		g.chebyshev[i] = math.Max(math.Abs(dx), math.Abs(dy))
		if g.centerDist[i] > g.maxCenterDist {
			g.maxCenterDist = g.centerDist[i]
		}
	}
	g.spiralRank = buildSpiral(width, height)

	return g, nil
}

// N returns the cell count
func (g *Grid) N() int { return g.Width * g.Height }

// Index maps (x, y) to the raster cell index. No bounds check; callers
// with untrusted coordinates use InBounds first
func (g *Grid) Index(x, y int) int { return y*g.Width + x }

// InBounds reports whether (x, y) lies on the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// ColOf returns the column of cell i
func (g *Grid) ColOf(i int) int { return i % g.Width }

// RowOf returns the row of cell i
func (g *Grid) RowOf(i int) int { return i / g.Width }

// Center returns the geometric center, fractional on even dimensions
func (g *Grid) Center() (float64, float64) { return g.cx, g.cy }

// CenterCell returns the cell nearest the geometric center, biased
// up-left on even dimensions
func (g *Grid) CenterCell() int {
	return g.Index((g.Width-1)/2, (g.Height-1)/2)
}

// CenterDistance returns the Euclidean distance of cell i from the
// geometric center
func (g *Grid) CenterDistance(i int) float64 { return g.centerDist[i] }

// ManhattanDistance returns |dx|+|dy| of cell i from the geometric
// center
func (g *Grid) ManhattanDistance(i int) float64 { return g.manhattan[i] }

// ChebyshevDistance returns max(|dx|,|dy|) of cell i from the
// geometric center
func (g *Grid) ChebyshevDistance(i int) float64 { return g.chebyshev[i] }

// SpiralRank returns cell i's position (0..N-1) on the outward
// clockwise spiral walk from the center cell
func (g *Grid) SpiralRank(i int) int { return g.spiralRank[i] }

// MaxCenterDistance returns the largest center distance on the grid
func (g *Grid) MaxCenterDistance() float64 { return g.maxCenterDist }

// buildSpiral ranks every cell along the square spiral that starts at
// the center cell and unwinds clockwise (E, S, W, N with screen-down
// Y, leg lengths 1,1,2,2,3,3...). Off-grid steps are walked but not
// ranked, so ranks stay dense in 0..N-1 on any aspect ratio
func buildSpiral(width, height int) []int {
	n := width * height
	rank := make([]int, n)

	x, y := (width-1)/2, (height-1)/2
	rank[y*width+x] = 0
	assigned := 1

	dirs := [4][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	leg := 0
	for length := 1; assigned < n; length++ {
		for rep := 0; rep < 2 && assigned < n; rep++ {
			d := dirs[leg%4]
			leg++
			for s := 0; s < length; s++ {
				x += d[0]
				y += d[1]
				if x >= 0 && x < width && y >= 0 && y < height {
					rank[y*width+x] = assigned
					assigned++
					if assigned == n {
						break
					}
				}
			}
		}
	}

	return rank
}
