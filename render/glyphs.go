package render

import (
	"fmt"
	"sort"
)

// GlyphSet maps intensity to a rune. Off is the rune for dark cells;
// the ramp runs dim-to-bright for lit cells
type GlyphSet struct {
	Name string
	Off  rune
	ramp []rune
}

// ForIntensity picks the ramp rune for a lit cell
func (gs GlyphSet) ForIntensity(v float64) rune {
	if len(gs.ramp) == 0 {
		return gs.Off
	}
	if v <= 0 {
		return gs.ramp[0]
	}
	if v >= 1 {
		return gs.ramp[len(gs.ramp)-1]
	}
	return gs.ramp[int(v*float64(len(gs.ramp)))]
}

// Steps returns the ramp length
func (gs GlyphSet) Steps() int {
	return len(gs.ramp)
}

// Built-in glyph sets
var glyphSets = map[string]GlyphSet{
	"blocks": {Name: "blocks", Off: '·', ramp: []rune{'░', '▒', '▓', '█'}},
	"dots":   {Name: "dots", Off: ' ', ramp: []rune{'.', '•', '●'}},
	"solid":  {Name: "solid", Off: ' ', ramp: []rune{'█'}},
}

// DefaultGlyphs is used when no glyph set is configured
const DefaultGlyphs = "blocks"

// GlyphSetByName resolves a built-in glyph set
func GlyphSetByName(name string) (GlyphSet, error) {
	gs, ok := glyphSets[name]
	if !ok {
		return GlyphSet{}, fmt.Errorf("%w: %q", ErrUnknownGlyphSet, name)
	}
	return gs, nil
}

// GlyphSetNames lists built-in glyph sets sorted
func GlyphSetNames() []string {
	names := make([]string, 0, len(glyphSets))
	for name := range glyphSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
