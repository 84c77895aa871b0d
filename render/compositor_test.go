package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/glowgrid/engine"
	"github.com/lixenwraith/glowgrid/grid"
	"github.com/lixenwraith/glowgrid/pattern"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func litFrame(g *grid.Grid, lit map[int]float64) engine.Frame {
	intensity := make([]float64, g.N())
	reveal := make([]pattern.Reveal, g.N())
	for i, v := range lit {
		intensity[i] = v
		reveal[i] = pattern.Reveal{On: true}
	}
	return engine.Frame{Intensity: intensity, Reveal: reveal, OnCount: len(lit)}
}

func TestCompositorDrawsLitAndOffCells(t *testing.T) {
	screen := newSimScreen(t, 40, 20)
	g, _ := grid.New(5, 7)

	c := NewCompositor(screen, g, CompositorOptions{OriginX: 2, OriginY: 1})
	c.RenderFrame(litFrame(g, map[int]float64{g.Index(0, 0): 1.0}))

	// Full-intensity cell renders the brightest glyph, doubled
	mainc, _, litStyle, _ := screen.GetContent(2, 1)
	if mainc != '█' {
		t.Errorf("Expected full block at lit cell, got %q", mainc)
	}
	mainc, _, _, _ = screen.GetContent(3, 1)
	if mainc != '█' {
		t.Errorf("Expected doubled block column, got %q", mainc)
	}

	// Neighbor cell stays off
	mainc, _, offStyle, _ := screen.GetContent(4, 1)
	if mainc != '·' {
		t.Errorf("Expected off glyph, got %q", mainc)
	}

	litFg, _, _ := litStyle.Decompose()
	offFg, _, _ := offStyle.Decompose()
	if litFg == offFg {
		t.Error("Expected lit and off cells to use different colors")
	}
}

func TestCompositorIntensitySelectsGlyph(t *testing.T) {
	screen := newSimScreen(t, 40, 20)
	g, _ := grid.New(5, 7)

	c := NewCompositor(screen, g, CompositorOptions{})
	c.RenderFrame(litFrame(g, map[int]float64{
		g.Index(0, 0): 0.1,
		g.Index(1, 0): 1.0,
	}))

	faint, _, _, _ := screen.GetContent(0, 0)
	full, _, _, _ := screen.GetContent(2, 0)
	if faint != '░' {
		t.Errorf("Expected faint glyph at low intensity, got %q", faint)
	}
	if full != '█' {
		t.Errorf("Expected full glyph at intensity 1.0, got %q", full)
	}
}

func TestCompositorBorder(t *testing.T) {
	screen := newSimScreen(t, 40, 20)
	g, _ := grid.New(5, 7)

	c := NewCompositor(screen, g, CompositorOptions{OriginX: 1, OriginY: 1, Border: true})
	c.RenderFrame(litFrame(g, nil))

	corners := []struct {
		x, y int
		want rune
	}{
		{0, 0, tcell.RuneULCorner},
		{11, 0, tcell.RuneURCorner},
		{0, 8, tcell.RuneLLCorner},
		{11, 8, tcell.RuneLRCorner},
	}
	for _, tc := range corners {
		mainc, _, _, _ := screen.GetContent(tc.x, tc.y)
		if mainc != tc.want {
			t.Errorf("Expected corner %q at (%d,%d), got %q", tc.want, tc.x, tc.y, mainc)
		}
	}

	x, y, w, h := c.Bounds()
	if x != 0 || y != 0 || w != 12 || h != 9 {
		t.Errorf("Expected bounds (0,0,12,9), got (%d,%d,%d,%d)", x, y, w, h)
	}
}

func TestCompositorMoveAndSwap(t *testing.T) {
	screen := newSimScreen(t, 40, 20)
	g, _ := grid.New(5, 7)

	c := NewCompositor(screen, g, CompositorOptions{})
	dots, _ := GlyphSetByName("dots")
	c.SetGlyphs(dots)
	c.Move(10, 5)
	c.RenderFrame(litFrame(g, map[int]float64{g.Index(0, 0): 1.0}))

	mainc, _, _, _ := screen.GetContent(10, 5)
	if mainc != '●' {
		t.Errorf("Expected dot glyph at moved origin, got %q", mainc)
	}
}

func TestSnapshotShape(t *testing.T) {
	g, _ := grid.New(5, 7)
	th, _ := ThemeByName("ember")
	gs, _ := GlyphSetByName("blocks")

	out := Snapshot(litFrame(g, map[int]float64{g.Index(2, 3): 1.0}), g, th, gs)

	if got := strings.Count(out, "\n"); got != g.Height {
		t.Errorf("Expected %d lines, got %d", g.Height, got)
	}
	if !strings.ContainsRune(out, '█') {
		t.Error("Expected lit glyph in snapshot")
	}
	if !strings.ContainsRune(out, '·') {
		t.Error("Expected off glyph in snapshot")
	}
}
