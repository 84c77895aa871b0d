package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/glowgrid"
	"github.com/lixenwraith/glowgrid/config"
	"github.com/lixenwraith/glowgrid/reactor"
	"github.com/lixenwraith/glowgrid/render"
	"github.com/lixenwraith/glowgrid/status"
	"github.com/spf13/cobra"
)

var (
	configFile string
	presetName string
	themeFlag  string
	glyphsFlag string
	widthFlag  int
	heightFlag int
	seedFlag   uint64
	audioFlag  bool
	debugFlag  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "host the indicator in the terminal",
	Long: `Run hosts the grid fullscreen. Digit keys report application
states, space pauses animation time, o toggles the metrics overlay,
t and g cycle themes and glyph sets, m mutes audio, q quits.`,
	RunE: runIndicator,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&presetName, "preset", "", "preset configuration")
	runCmd.Flags().StringVar(&themeFlag, "theme", "", "color theme override")
	runCmd.Flags().StringVar(&glyphsFlag, "glyphs", "", "glyph set override")
	runCmd.Flags().IntVar(&widthFlag, "width", 0, "grid width override")
	runCmd.Flags().IntVar(&heightFlag, "height", 0, "grid height override")
	runCmd.Flags().Uint64Var(&seedFlag, "seed", 0, "animation seed, 0 derives one from time")
	runCmd.Flags().BoolVar(&audioFlag, "audio", false, "enable audio cues")
	runCmd.Flags().BoolVar(&debugFlag, "debug", false, "log diagnostics to logs/glowgrid.log")
}

// resolveConfig layers file or preset under env and flag overrides
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	case presetName != "":
		cfg = config.Preset(presetName)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %s)",
				presetName, strings.Join(config.PresetNames(), ", "))
		}
	default:
		cfg = config.DefaultConfig()
	}

	if err := config.ParseEnv(cfg); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("width") {
		cfg.Grid.Width = widthFlag
	}
	if cmd.Flags().Changed("height") {
		cfg.Grid.Height = heightFlag
	}
	if cmd.Flags().Changed("theme") {
		cfg.Render.Theme = themeFlag
	}
	if cmd.Flags().Changed("glyphs") {
		cfg.Render.Glyphs = glyphsFlag
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seedFlag
	}
	if cmd.Flags().Changed("audio") {
		cfg.Audio.Enabled = audioFlag
	}
	return cfg, nil
}

func runIndicator(cmd *cobra.Command, args []string) error {
	logFile := setupLogging(debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	theme, err := render.ThemeByName(cfg.Render.Theme)
	if err != nil {
		return err
	}
	glyphs, err := render.GlyphSetByName(cfg.Render.Glyphs)
	if err != nil {
		return err
	}

	reg := status.NewRegistry()
	ind, err := glowgrid.New(cfg, glowgrid.Options{Diag: log.Printf, Status: reg})
	if err != nil {
		return err
	}
	defer ind.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	// Terminal must be restored even when a frame handler panics
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "glowgrid crashed: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	screen.HideCursor()
	screen.Clear()

	comp := render.NewCompositor(screen, ind.Grid(), render.CompositorOptions{
		Theme:     theme,
		Glyphs:    glyphs,
		CellWidth: cfg.Render.CellWidth,
		Border:    cfg.Render.Border,
	})

	states := make([]string, 0, len(cfg.Reactor.States))
	for name := range cfg.Reactor.States {
		states = append(states, name)
	}
	sort.Strings(states)

	ui := &runUI{
		screen: screen,
		comp:   comp,
		ind:    ind,
		reg:    reg,
		states: states,
		themes: render.ThemeNames(),
		glyphs: render.GlyphSetNames(),
		border: cfg.Render.Border,
	}
	ui.themeIdx = nameIndex(ui.themes, cfg.Render.Theme)
	ui.glyphIdx = nameIndex(ui.glyphs, cfg.Render.Glyphs)
	ui.center()

	interval := cfg.Animation.Interval.Std()
	if interval <= 0 {
		interval = config.DefaultInterval
	}

	ind.SetState(reactor.DefaultState)
	ui.loop(interval)
	return nil
}

type runUI struct {
	screen tcell.Screen
	comp   *render.Compositor
	ind    *glowgrid.Indicator
	reg    *status.Registry

	states []string
	themes []string
	glyphs []string

	themeIdx int
	glyphIdx int
	border   bool
	overlay  bool
	muted    bool
}

// loop is the single owner of the screen: frames tick here and input
// arrives over a channel, so no draw ever races another
func (u *runUI) loop(interval time.Duration) {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			frame := u.ind.Tick(u.ind.Clock().Now())
			u.comp.RenderFrame(frame)
			if u.overlay {
				u.drawOverlay()
				u.screen.Show()
			}
		case ev := <-events:
			switch tev := ev.(type) {
			case *tcell.EventResize:
				u.center()
				u.screen.Clear()
				u.screen.Sync()
			case *tcell.EventKey:
				if u.handleKey(tev) {
					return
				}
			}
		}
	}
}

// handleKey reports true when the UI should quit
func (u *runUI) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		r := ev.Rune()
		switch {
		case r == 'q':
			return true
		case r >= '1' && r <= '9':
			if idx := int(r - '1'); idx < len(u.states) {
				u.ind.SetState(u.states[idx])
			}
		case r == ' ':
			if u.ind.Clock().IsPaused() {
				u.ind.Resume()
			} else {
				u.ind.Suspend()
			}
		case r == 'm':
			u.muted = !u.muted
			u.ind.SetMuted(u.muted)
		case r == 'o':
			u.overlay = !u.overlay
			if !u.overlay {
				u.screen.Clear()
			}
		case r == 't':
			u.themeIdx = (u.themeIdx + 1) % len(u.themes)
			if t, err := render.ThemeByName(u.themes[u.themeIdx]); err == nil {
				u.comp.SetTheme(t)
			}
		case r == 'g':
			u.glyphIdx = (u.glyphIdx + 1) % len(u.glyphs)
			if gs, err := render.GlyphSetByName(u.glyphs[u.glyphIdx]); err == nil {
				u.comp.SetGlyphs(gs)
			}
		}
	}
	return false
}

// center repositions the grid in the middle of the terminal. The
// bounds corner sits one cell inside the origin when a border draws
func (u *runUI) center() {
	sw, sh := u.screen.Size()
	_, _, bw, bh := u.comp.Bounds()
	inset := 0
	if u.border {
		inset = 1
	}
	x := (sw-bw)/2 + inset
	y := (sh-bh)/2 + inset
	if x < inset {
		x = inset
	}
	if y < inset {
		y = inset
	}
	u.comp.Move(x, y)
}

func (u *runUI) drawOverlay() {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	hot := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	bx, by, bw, bh := u.comp.Bounds()

	// Metrics column to the right of the grid
	x := bx + bw + 2
	sess := u.ind.Session()
	drawText(u.screen, x, by, hot, fmt.Sprintf("%s  %s [%s]",
		u.ind.State(), sess.PatternName(), strings.Join(sess.EffectNames(), ",")))
	for i, e := range u.reg.Snapshot() {
		drawText(u.screen, x, by+1+i, style, fmt.Sprintf("%-24s %s", e.Key, e.Value))
	}

	// Key legend below the grid
	var legend strings.Builder
	for i, s := range u.states {
		if i > 0 {
			legend.WriteByte(' ')
		}
		fmt.Fprintf(&legend, "%d:%s", i+1, s)
	}
	drawText(u.screen, bx, by+bh+1, style, legend.String())
	drawText(u.screen, bx, by+bh+2, style, "space:pause m:mute t:theme g:glyphs o:overlay q:quit")
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	col := x
	for _, r := range text {
		s.SetContent(col, y, r, nil, style)
		col++
	}
}

func nameIndex(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return 0
}
