// @lixen: #focus{render[cells,border]}
// @lixen: #interact{state[theme,glyphs]}
package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/glowgrid/engine"
	"github.com/lixenwraith/glowgrid/grid"
)

// DefaultCellWidth doubles each grid cell horizontally; terminal
// cells are roughly twice as tall as wide, so doubling keeps the
// indicator square-ish
const DefaultCellWidth = 2

// Compositor turns intensity frames into terminal cells. It owns a
// fixed placement on the surface and draws the whole grid every
// frame; cells are few enough that dirty tracking would cost more
// than it saves. Called from the frame loop goroutine only
type Compositor struct {
	surface Surface
	grid    *grid.Grid
	theme   *Theme
	glyphs  GlyphSet

	originX, originY int
	cellW            int
	border           bool
}

// CompositorOptions configures placement and look
type CompositorOptions struct {
	// Theme colors the cells; nil uses the default theme
	Theme *Theme

	// Glyphs maps intensity to runes; zero value uses the default set
	Glyphs GlyphSet

	// OriginX, OriginY place the grid's top-left corner on the surface
	OriginX, OriginY int

	// CellWidth is terminal columns per grid cell. Zero uses
	// DefaultCellWidth
	CellWidth int

	// Border draws a box around the grid
	Border bool
}

// NewCompositor creates a compositor for the grid on the surface
func NewCompositor(surface Surface, g *grid.Grid, opts CompositorOptions) *Compositor {
	if opts.Theme == nil {
		opts.Theme, _ = ThemeByName(DefaultTheme)
	}
	if opts.Glyphs.Name == "" {
		opts.Glyphs, _ = GlyphSetByName(DefaultGlyphs)
	}
	if opts.CellWidth <= 0 {
		opts.CellWidth = DefaultCellWidth
	}
	return &Compositor{
		surface: surface,
		grid:    g,
		theme:   opts.Theme,
		glyphs:  opts.Glyphs,
		originX: opts.OriginX,
		originY: opts.OriginY,
		cellW:   opts.CellWidth,
		border:  opts.Border,
	}
}

var _ engine.Renderer = (*Compositor)(nil)

// RenderFrame draws the frame and shows the surface
func (c *Compositor) RenderFrame(f engine.Frame) {
	for y := 0; y < c.grid.Height; y++ {
		sy := c.originY + y
		for x := 0; x < c.grid.Width; x++ {
			i := c.grid.Index(x, y)

			r := c.glyphs.Off
			style := c.theme.OffStyle()
			if i < len(f.Intensity) && f.Reveal[i].On && f.Intensity[i] > 0 {
				r = c.glyphs.ForIntensity(f.Intensity[i])
				style = c.theme.CellStyle(f.Intensity[i], f.Reveal[i].Age)
			}

			sx := c.originX + x*c.cellW
			for k := 0; k < c.cellW; k++ {
				c.surface.SetContent(sx+k, sy, r, nil, style)
			}
		}
	}
	if c.border {
		c.drawBorder()
	}
	c.surface.Show()
}

// Move repositions the grid's top-left corner
func (c *Compositor) Move(x, y int) {
	c.originX = x
	c.originY = y
}

// SetTheme swaps the color treatment; takes effect next frame
func (c *Compositor) SetTheme(t *Theme) {
	if t != nil {
		c.theme = t
	}
}

// SetGlyphs swaps the glyph ramp; takes effect next frame
func (c *Compositor) SetGlyphs(gs GlyphSet) {
	if gs.Name != "" {
		c.glyphs = gs
	}
}

// Theme returns the active theme
func (c *Compositor) Theme() *Theme {
	return c.theme
}

// Bounds returns the surface rectangle the compositor draws into,
// border included
func (c *Compositor) Bounds() (x, y, w, h int) {
	w = c.grid.Width * c.cellW
	h = c.grid.Height
	x, y = c.originX, c.originY
	if c.border {
		return x - 1, y - 1, w + 2, h + 2
	}
	return x, y, w, h
}

func (c *Compositor) drawBorder() {
	style := c.theme.OffStyle()
	w := c.grid.Width * c.cellW
	h := c.grid.Height
	left, top := c.originX-1, c.originY-1
	right, bottom := c.originX+w, c.originY+h

	for x := c.originX; x < right; x++ {
		c.surface.SetContent(x, top, tcell.RuneHLine, nil, style)
		c.surface.SetContent(x, bottom, tcell.RuneHLine, nil, style)
	}
	for y := c.originY; y < bottom; y++ {
		c.surface.SetContent(left, y, tcell.RuneVLine, nil, style)
		c.surface.SetContent(right, y, tcell.RuneVLine, nil, style)
	}
	c.surface.SetContent(left, top, tcell.RuneULCorner, nil, style)
	c.surface.SetContent(right, top, tcell.RuneURCorner, nil, style)
	c.surface.SetContent(left, bottom, tcell.RuneLLCorner, nil, style)
	c.surface.SetContent(right, bottom, tcell.RuneLRCorner, nil, style)
}
