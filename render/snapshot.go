package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lixenwraith/glowgrid/engine"
	"github.com/lixenwraith/glowgrid/grid"
)

// Snapshot renders a frame as an ANSI-styled string, one line per
// grid row, for output paths without a cell surface: the preview
// subcommand and debugging dumps
func Snapshot(f engine.Frame, g *grid.Grid, theme *Theme, glyphs GlyphSet) string {
	if theme == nil {
		theme, _ = ThemeByName(DefaultTheme)
	}
	if glyphs.Name == "" {
		glyphs, _ = GlyphSetByName(DefaultGlyphs)
	}

	offStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.OffHex()))

	var b strings.Builder
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			i := g.Index(x, y)

			if i >= len(f.Intensity) || !f.Reveal[i].On || f.Intensity[i] <= 0 {
				b.WriteString(offStyle.Render(doubled(glyphs.Off)))
				continue
			}

			r := glyphs.ForIntensity(f.Intensity[i])
			c := lipgloss.Color(theme.CellHex(f.Intensity[i], f.Reveal[i].Age))
			b.WriteString(lipgloss.NewStyle().Foreground(c).Render(doubled(r)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func doubled(r rune) string {
	return string([]rune{r, r})
}
