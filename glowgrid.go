// Package glowgrid drives a rectangular grid of illuminable cells as
// a reactive status indicator. The facade wires the full stack from
// one config: grid geometry, an animation session, a debouncing state
// reactor and a frame driver, with optional terminal rendering and
// audio cues. Hosts report state changes from any goroutine; frames
// come out host-driven through Tick or self-running through Start.
package glowgrid

import (
	"sync"
	"time"

	"github.com/lixenwraith/glowgrid/audio"
	"github.com/lixenwraith/glowgrid/config"
	"github.com/lixenwraith/glowgrid/engine"
	"github.com/lixenwraith/glowgrid/events"
	"github.com/lixenwraith/glowgrid/grid"
	"github.com/lixenwraith/glowgrid/reactor"
	"github.com/lixenwraith/glowgrid/status"
)

// Diag receives fail-open diagnostics from every layer. A nil Diag is
// silent
type Diag func(format string, args ...any)

// Options carries host-side wiring that does not belong in the config
// file
type Options struct {
	// Renderer receives finished frames; nil runs headless
	Renderer engine.Renderer

	// Diag receives diagnostics from the session, reactor and driver
	Diag Diag

	// Status collects metrics from all layers; nil allocates a
	// private registry
	Status *status.Registry
}

// Indicator is one running glowgrid instance
type Indicator struct {
	cfg     *config.Config
	grid    *grid.Grid
	session *engine.Session
	reactor *reactor.Reactor
	inbox   *events.Inbox
	driver  *engine.Driver
	status  *status.Registry
	player  *audio.Player

	closeOnce sync.Once
}

// New builds a stopped indicator from a config. A nil config uses the
// defaults. Audio failing to initialize is reported through Diag and
// the indicator runs silent
func New(cfg *config.Config, opts Options) (*Indicator, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg := opts.Status
	if reg == nil {
		reg = status.NewRegistry()
	}

	g, err := grid.New(cfg.Grid.Width, cfg.Grid.Height)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	session, err := engine.NewSession(g, engine.Options{
		CycleDuration: cfg.Animation.Cycle.Std(),
		FrameBudget:   cfg.Animation.FrameBudget.Std(),
		DegradeAfter:  cfg.Animation.DegradeAfter,
		RecoverAfter:  cfg.Animation.RecoverAfter,
		Seed:          seed,
		Diag:          engine.Diag(opts.Diag),
		Status:        reg,
	})
	if err != nil {
		return nil, err
	}

	table := make(reactor.Table, len(cfg.Reactor.States))
	for state, d := range cfg.Reactor.States {
		table[state] = reactor.Directive{Pattern: d.Pattern, Effects: d.Effects}
	}
	react, err := reactor.New(table, reactor.Options{
		Debounce: cfg.Reactor.Debounce.Std(),
		Diag:     reactor.Diag(opts.Diag),
		Status:   reg,
	})
	if err != nil {
		return nil, err
	}

	var player *audio.Player
	var onApply func(state string, dir reactor.Directive)
	if cfg.Audio.Enabled {
		player = audio.NewPlayer(cfg.Audio.Volume)
		if err := player.Initialize(); err != nil && opts.Diag != nil {
			opts.Diag("audio unavailable: %v", err)
		}
		onApply = func(state string, _ reactor.Directive) {
			player.PlayForState(state)
		}
	}

	interval := cfg.Animation.Interval.Std()
	if interval == 0 {
		interval = config.DefaultInterval
	}

	inbox := events.NewInbox()
	driver, err := engine.NewDriver(session, react, inbox, engine.DriverConfig{
		Interval: interval,
		Renderer: opts.Renderer,
		Diag:     engine.Diag(opts.Diag),
		OnApply:  onApply,
		Status:   reg,
	})
	if err != nil {
		return nil, err
	}

	return &Indicator{
		cfg:     cfg,
		grid:    g,
		session: session,
		reactor: react,
		inbox:   inbox,
		driver:  driver,
		status:  reg,
		player:  player,
	}, nil
}

// SetState reports an application state change. Callable from any
// goroutine; the change is stamped with frame time when the driver
// picks it up
func (ind *Indicator) SetState(state string) {
	ind.inbox.Push(events.StateChange{State: state})
}

// SetStateAt reports a state change with an explicit timestamp, which
// must share the driver clock's time base
func (ind *Indicator) SetStateAt(state string, at time.Time) {
	ind.inbox.Push(events.StateChange{State: state, At: at})
}

// Tick runs one host-driven frame at the given instant
func (ind *Indicator) Tick(now time.Time) engine.Frame {
	return ind.driver.Step(now)
}

// Start launches the self-running frame loop
func (ind *Indicator) Start() {
	ind.driver.Start()
}

// Suspend freezes animation time and pauses audio
func (ind *Indicator) Suspend() {
	ind.driver.Suspend()
	if ind.player != nil {
		ind.player.Suspend()
	}
}

// Resume continues animation where Suspend froze it
func (ind *Indicator) Resume() {
	ind.driver.Resume()
	if ind.player != nil {
		ind.player.Resume()
	}
}

// SetMuted silences or restores audio cues
func (ind *Indicator) SetMuted(muted bool) {
	if ind.player != nil {
		ind.player.SetMuted(muted)
	}
}

// Close stops the loop and tears the indicator down. Frames still held
// by the host read as stale afterward. Safe to call more than once
func (ind *Indicator) Close() {
	ind.closeOnce.Do(func() {
		ind.driver.Stop()
		ind.session.Invalidate()
		if ind.player != nil {
			ind.player.Close()
		}
	})
}

// State returns the reactor's current resolved state
func (ind *Indicator) State() string {
	return ind.reactor.Current()
}

// Grid returns the indicator's cell geometry
func (ind *Indicator) Grid() *grid.Grid {
	return ind.grid
}

// Session returns the animation session, for hosts inspecting the
// running pattern and effect stack
func (ind *Indicator) Session() *engine.Session {
	return ind.session
}

// Status returns the metrics registry shared by all layers
func (ind *Indicator) Status() *status.Registry {
	return ind.status
}

// Config returns the configuration in use
func (ind *Indicator) Config() *config.Config {
	return ind.cfg
}

// Clock returns the pausable animation clock driving frames
func (ind *Indicator) Clock() *engine.PausableClock {
	return ind.driver.Clock()
}
