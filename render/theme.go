package render

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// rampSteps quantizes intensity into precomputed colors; 64 steps is
// below what terminal color rendering can distinguish anyway
const rampSteps = 64

// hotBlend caps how far a fresh cell is pulled toward the highlight
// color at age 1.0
const hotBlend = 0.55

// Sentinel errors
var (
	ErrUnknownTheme    = errors.New("unknown theme")
	ErrUnknownGlyphSet = errors.New("unknown glyph set")
)

// Theme holds the color treatment for one indicator look: an off
// color for dark cells, a dim-to-lit ramp for intensity, and a hot
// highlight freshly lit cells are tinted toward. Ramps are blended in
// Luv space so the perceived brightness tracks intensity evenly
type Theme struct {
	name string

	off  colorful.Color
	hot  colorful.Color
	ramp [rampSteps]colorful.Color

	offStyle tcell.Style
	cellLUT  [rampSteps]tcell.Style // age-0 styles, the common case
}

// NewTheme builds a theme from its corner colors
func NewTheme(name string, off, dim, lit, hot colorful.Color) *Theme {
	t := &Theme{
		name: name,
		off:  off,
		hot:  hot,
	}
	for i := 0; i < rampSteps; i++ {
		frac := float64(i) / float64(rampSteps-1)
		t.ramp[i] = dim.BlendLuv(lit, frac).Clamped()
		t.cellLUT[i] = tcell.StyleDefault.Foreground(toTcell(t.ramp[i]))
	}
	t.offStyle = tcell.StyleDefault.Foreground(toTcell(off))
	return t
}

// Name returns the theme's registry name
func (t *Theme) Name() string {
	return t.name
}

// OffStyle is the style for unlit cells
func (t *Theme) OffStyle() tcell.Style {
	return t.offStyle
}

// CellStyle picks the style for a lit cell. Intensity selects along
// the ramp; age pulls the result toward the hot highlight so freshly
// lit cells read brighter than settled ones
func (t *Theme) CellStyle(intensity, age float64) tcell.Style {
	idx := rampIndex(intensity)
	if age <= 0 {
		return t.cellLUT[idx]
	}
	c := t.ramp[idx].BlendLuv(t.hot, age*hotBlend).Clamped()
	return tcell.StyleDefault.Foreground(toTcell(c))
}

// CellHex returns the lit-cell color as "#rrggbb" for string-based
// output paths
func (t *Theme) CellHex(intensity, age float64) string {
	idx := rampIndex(intensity)
	if age <= 0 {
		return t.ramp[idx].Hex()
	}
	return t.ramp[idx].BlendLuv(t.hot, age*hotBlend).Clamped().Hex()
}

// OffHex returns the unlit-cell color as "#rrggbb"
func (t *Theme) OffHex() string {
	return t.off.Hex()
}

func rampIndex(intensity float64) int {
	if intensity <= 0 {
		return 0
	}
	if intensity >= 1 {
		return rampSteps - 1
	}
	return int(intensity * float64(rampSteps-1))
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func hex(s string) colorful.Color {
	c, _ := colorful.Hex(s)
	return c
}

// Built-in themes
var themes = map[string]*Theme{
	"ember": NewTheme("ember",
		hex("#2b1d16"), hex("#7a2f0c"), hex("#ffb347"), hex("#fff3c4")),
	"jade": NewTheme("jade",
		hex("#13231a"), hex("#1e5c38"), hex("#58e898"), hex("#e8fff1")),
	"ice": NewTheme("ice",
		hex("#16202e"), hex("#1f4e79"), hex("#6fd6ff"), hex("#eaf9ff")),
	"mono": NewTheme("mono",
		hex("#1c1c1c"), hex("#4a4a4a"), hex("#fafafa"), hex("#ffffff")),
}

// DefaultTheme is used when no theme is configured
const DefaultTheme = "ember"

// ThemeByName resolves a built-in theme
func ThemeByName(name string) (*Theme, error) {
	t, ok := themes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return t, nil
}

// ThemeNames lists built-in themes sorted
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
