// Package render maps intensity frames onto terminal cells: a glyph
// ramp picks the rune, a theme picks the color, and a Compositor
// writes both through a Surface. tcell.Screen satisfies Surface, so
// the demo passes its screen straight in and tests pass a simulation
// screen.
package render

import (
	"github.com/gdamore/tcell/v2"
)

// Surface is the subset of tcell.Screen the compositor draws through
type Surface interface {
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	Size() (width, height int)
	Show()
}

var _ Surface = tcell.Screen(nil)
