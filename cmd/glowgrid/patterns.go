package main

import (
	"fmt"

	"github.com/lixenwraith/glowgrid/config"
	"github.com/lixenwraith/glowgrid/effect"
	"github.com/lixenwraith/glowgrid/pattern"
	"github.com/lixenwraith/glowgrid/render"
	"github.com/spf13/cobra"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "list patterns, effects, themes, glyph sets and presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("patterns:")
		for _, name := range pattern.Names() {
			fmt.Printf("  %s\n", name)
		}

		fmt.Println("\neffects:")
		for _, name := range effect.Names() {
			e, err := effect.Build(name, 0)
			if err != nil {
				return err
			}
			kind := "core"
			if e.Fidelity == effect.Detail {
				kind = "detail"
			}
			fmt.Printf("  %s (%s)\n", name, kind)
		}

		fmt.Println("\nthemes:")
		for _, name := range render.ThemeNames() {
			fmt.Printf("  %s\n", name)
		}

		fmt.Println("\nglyph sets:")
		for _, name := range render.GlyphSetNames() {
			fmt.Printf("  %s\n", name)
		}

		fmt.Println("\npresets:")
		for _, name := range config.PresetNames() {
			cfg := config.Preset(name)
			fmt.Printf("  %s (%dx%d)\n", name, cfg.Grid.Width, cfg.Grid.Height)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}
