package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "glowgrid",
	Short: "reactive status grid for the terminal",
	Long: `Glowgrid drives a small grid of illuminable cells as a reactive
status indicator. Application states map to reveal patterns and
intensity effects; run hosts the grid in the terminal, preview and
bench work headless.`,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
