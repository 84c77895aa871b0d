package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/glowgrid/effect"
	"github.com/lixenwraith/glowgrid/engine"
	"github.com/lixenwraith/glowgrid/grid"
	"github.com/lixenwraith/glowgrid/pattern"
	"github.com/lixenwraith/glowgrid/render"
	"github.com/spf13/cobra"
)

var (
	previewStops   int
	previewWidth   int
	previewHeight  int
	previewTheme   string
	previewGlyphs  string
	previewEffects []string
	previewSeed    uint64
)

var previewCmd = &cobra.Command{
	Use:   "preview [pattern]",
	Short: "print pattern frames as colored text",
	Long: `Preview prints reveal frames to stdout. With a pattern name it
steps through the cycle; without one it shows every pattern at the
half-cycle mark.`,
	Args: cobra.MaximumNArgs(1),
	RunE: previewPatterns,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().IntVar(&previewStops, "stops", 4, "frames per cycle")
	previewCmd.Flags().IntVar(&previewWidth, "width", 5, "grid width")
	previewCmd.Flags().IntVar(&previewHeight, "height", 7, "grid height")
	previewCmd.Flags().StringVar(&previewTheme, "theme", render.DefaultTheme, "color theme")
	previewCmd.Flags().StringVar(&previewGlyphs, "glyphs", render.DefaultGlyphs, "glyph set")
	previewCmd.Flags().StringSliceVar(&previewEffects, "effects", nil, "effect stack")
	previewCmd.Flags().Uint64Var(&previewSeed, "seed", 7, "animation seed")
}

func previewPatterns(cmd *cobra.Command, args []string) error {
	theme, err := render.ThemeByName(previewTheme)
	if err != nil {
		return err
	}
	glyphs, err := render.GlyphSetByName(previewGlyphs)
	if err != nil {
		return err
	}
	for _, name := range previewEffects {
		if !effect.Known(name) {
			return fmt.Errorf("unknown effect %q (available: %s)",
				name, strings.Join(effect.Names(), ", "))
		}
	}

	g, err := grid.New(previewWidth, previewHeight)
	if err != nil {
		return err
	}

	names := pattern.Names()
	if len(args) == 1 {
		if !pattern.Known(args[0]) {
			return fmt.Errorf("unknown pattern %q (available: %s)",
				args[0], strings.Join(pattern.Names(), ", "))
		}
		names = args[:1]
	}

	const cycle = time.Second
	base := time.Unix(0, 0)

	for _, name := range names {
		sess, err := engine.NewSession(g, engine.Options{
			CycleDuration: cycle,
			Seed:          previewSeed,
		})
		if err != nil {
			return err
		}
		if err := sess.Apply(name, previewEffects, base); err != nil {
			return err
		}

		if len(args) == 0 {
			frame := sess.Tick(base.Add(cycle / 2))
			fmt.Printf("%s  50%%  %d/%d cells\n", name, frame.OnCount, g.N())
			fmt.Println(render.Snapshot(frame, g, theme, glyphs))
			continue
		}

		for j := 1; j <= previewStops; j++ {
			elapsed := cycle * time.Duration(j) / time.Duration(previewStops)
			// Progress wraps at the cycle boundary; stop just short
			// so the last frame shows the full grid
			if j == previewStops {
				elapsed -= time.Millisecond
			}
			frame := sess.Tick(base.Add(elapsed))
			fmt.Printf("%s  %d%%  %d/%d cells\n",
				name, 100*j/previewStops, frame.OnCount, g.N())
			fmt.Println(render.Snapshot(frame, g, theme, glyphs))
		}
	}

	return nil
}
