package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/lixenwraith/glowgrid/engine"
	"github.com/lixenwraith/glowgrid/grid"
	"github.com/lixenwraith/glowgrid/pattern"
	"github.com/spf13/cobra"
)

var (
	benchTicks   int
	benchWidth   int
	benchHeight  int
	benchEffects []string
	benchSeed    uint64
)

var benchCmd = &cobra.Command{
	Use:   "bench [pattern]",
	Short: "measure per-tick frame cost",
	Long: `Bench drives sessions headless and reports tick latency
percentiles per pattern. With a single pattern it also plots the
raw series.`,
	Args: cobra.MaximumNArgs(1),
	RunE: benchPatterns,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().IntVar(&benchTicks, "ticks", 2000, "ticks per pattern")
	benchCmd.Flags().IntVar(&benchWidth, "width", 32, "grid width")
	benchCmd.Flags().IntVar(&benchHeight, "height", 16, "grid height")
	benchCmd.Flags().StringSliceVar(&benchEffects, "effects", []string{"pulsate", "flicker"}, "effect stack")
	benchCmd.Flags().Uint64Var(&benchSeed, "seed", 42, "animation seed")
}

func benchPatterns(cmd *cobra.Command, args []string) error {
	g, err := grid.New(benchWidth, benchHeight)
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

	fmt.Printf("benchmarking %dx%d grid, %d ticks, effects [%s]\n\n",
		benchWidth, benchHeight, benchTicks, strings.Join(benchEffects, ","))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PATTERN\tP50(µS)\tP95(µS)\tP99(µS)\tMAX(µS)")

	var series []float64
	for _, name := range names {
		costs, err := benchOne(g, name)
		if err != nil {
			return err
		}
		if len(names) == 1 {
			series = append(series, costs...)
		}

		sort.Float64s(costs)
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.1f\t%.1f\n",
			name,
			percentile(costs, 0.50),
			percentile(costs, 0.95),
			percentile(costs, 0.99),
			costs[len(costs)-1],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(series) > 0 {
		fmt.Println()
		graph := asciigraph.Plot(downsample(series, 100),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s tick cost (µs)", names[0])),
		)
		fmt.Println(graph)
	}

	return nil
}

// benchOne runs one session through benchTicks frames and returns the
// wall cost of each Tick in microseconds
func benchOne(g *grid.Grid, name string) ([]float64, error) {
	sess, err := engine.NewSession(g, engine.Options{
		CycleDuration: 1800 * time.Millisecond,
		Seed:          benchSeed,
	})
	if err != nil {
		return nil, err
	}

	base := time.Unix(0, 0)
	if err := sess.Apply(name, benchEffects, base); err != nil {
		return nil, err
	}

	const step = 16 * time.Millisecond
	costs := make([]float64, 0, benchTicks)
	now := base
	for i := 0; i < benchTicks; i++ {
		now = now.Add(step)
		t0 := time.Now()
		sess.Tick(now)
		costs = append(costs, float64(time.Since(t0).Nanoseconds())/1000.0)
	}
	return costs, nil
}

func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(q * float64(len(sorted)-1))
	return sorted[idx]
}

// downsample strides the series down to at most n points so the plot
// width stays readable
func downsample(series []float64, n int) []float64 {
	if len(series) <= n {
		return series
	}
	out := make([]float64, 0, n)
	stride := len(series) / n
	for i := 0; i < len(series); i += stride {
		out = append(out, series[i])
	}
	return out
}
