package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/glowgrid/events"
	"github.com/lixenwraith/glowgrid/reactor"
	"github.com/lixenwraith/glowgrid/status"
)

// Driver runs the frame loop: drain the inbox, feed the reactor, tick
// the session, hand the frame to the renderer. One goroutine owns all
// mutable state; hosts talk to it through the inbox and the pausable
// clock only. Hosts that drive their own refresh skip Start and call
// Step directly
type Driver struct {
	session  *Session
	reactor  *reactor.Reactor
	inbox    *events.Inbox
	renderer Renderer
	clock    *PausableClock
	diag     Diag
	onApply  func(state string, dir reactor.Directive)

	interval         time.Duration
	nextTickDeadline time.Time

	drainBuf []events.StateChange

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	// Cached metric pointers
	statTicks   *atomic.Int64
	statStale   *atomic.Int64
	statDropped *atomic.Int64
}

// DriverConfig wires a Driver's collaborators
type DriverConfig struct {
	// Interval between frames for the self-running loop. Must be > 0
	Interval time.Duration

	// Renderer receives non-stale frames; nil runs headless
	Renderer Renderer

	// Clock supplies frame time; nil creates a running clock on
	// monotonic real time
	Clock *PausableClock

	// Diag receives fail-open diagnostics
	Diag Diag

	// OnApply is called from the frame loop after a directive is
	// applied, with the resolved app state. Used for transition cues
	OnApply func(state string, dir reactor.Directive)

	// Status receives loop metrics; nil allocates a private registry
	Status *status.Registry
}

// NewDriver creates a stopped driver around a session and reactor
func NewDriver(session *Session, react *reactor.Reactor, inbox *events.Inbox, cfg DriverConfig) (*Driver, error) {
	if cfg.Interval <= 0 {
		return nil, ErrInvalidConfiguration
	}
	if cfg.Clock == nil {
		cfg.Clock = NewPausableClock(nil)
	}
	if cfg.Status == nil {
		cfg.Status = status.NewRegistry()
	}

	return &Driver{
		session:     session,
		reactor:     react,
		inbox:       inbox,
		renderer:    cfg.Renderer,
		clock:       cfg.Clock,
		diag:        cfg.Diag,
		onApply:     cfg.OnApply,
		interval:    cfg.Interval,
		drainBuf:    make([]events.StateChange, 0, events.InboxSize),
		stopChan:    make(chan struct{}),
		statTicks:   cfg.Status.Ints.Get("engine.ticks"),
		statStale:   cfg.Status.Ints.Get("engine.stale_discarded"),
		statDropped: cfg.Status.Ints.Get("inbox.dropped"),
	}, nil
}

// Step runs one frame at the given instant: pending state changes
// flow through the reactor, a due directive is applied, the session
// ticks. Changes pushed without a timestamp are stamped with the frame
// time so debounce always measures in one time base
func (d *Driver) Step(now time.Time) Frame {
	d.drainBuf = d.inbox.Drain(d.drainBuf)
	for _, ev := range d.drainBuf {
		at := ev.At
		if at.IsZero() {
			at = now
		}
		d.reactor.Observe(ev.State, at)
	}

	if dir, ok := d.reactor.Advance(now); ok {
		if err := d.session.Apply(dir.Pattern, dir.Effects, now); err != nil {
			if d.diag != nil {
				d.diag("directive apply failed: %v", err)
			}
		} else if d.onApply != nil {
			d.onApply(d.reactor.Current(), dir)
		}
	}

	frame := d.session.Tick(now)
	d.statTicks.Add(1)
	d.statDropped.Store(int64(d.inbox.Dropped()))
	return frame
}

// Start begins the self-running frame loop
func (d *Driver) Start() {
	if d.running.CompareAndSwap(false, true) {
		d.wg.Add(1)
		go d.loop()
	}
}

// Stop halts the loop and waits for the current frame to finish
func (d *Driver) Stop() {
	d.stopOnce.Do(func() {
		if d.running.CompareAndSwap(true, false) {
			close(d.stopChan)
			d.wg.Wait()
		}
	})
}

// Suspend freezes animation time while the console is hidden
func (d *Driver) Suspend() { d.clock.Pause() }

// Resume continues animation where it froze
func (d *Driver) Resume() { d.clock.Resume() }

// Clock returns the loop's pausable clock
func (d *Driver) Clock() *PausableClock { return d.clock }

// Running reports whether the loop is active
func (d *Driver) Running() bool { return d.running.Load() }

// loop paces frames on the pausable clock with drift correction:
// deadlines advance by whole intervals, and after a stall longer than
// two intervals the schedule resyncs to now instead of burst-ticking
func (d *Driver) loop() {
	defer d.wg.Done()

	d.nextTickDeadline = d.clock.Now().Add(d.interval)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		select {
		case <-d.stopChan:
			return
		default:
		}

		var sleep time.Duration

		if d.clock.IsPaused() {
			// Longer naps while suspended to save CPU
			sleep = d.interval * 2
		} else {
			now := d.clock.Now()
			if !now.Before(d.nextTickDeadline) {
				frame := d.Step(now)
				if d.session.Stale(frame) {
					d.statStale.Add(1)
				} else if d.renderer != nil {
					d.renderer.RenderFrame(frame)
				}

				d.nextTickDeadline = d.nextTickDeadline.Add(d.interval)
				if now.Sub(d.nextTickDeadline) > d.interval*2 {
					d.nextTickDeadline = now.Add(d.interval)
				}

				sleep = d.nextTickDeadline.Sub(d.clock.Now())
				if sleep < 0 {
					sleep = 0
				}
			} else {
				sleep = d.nextTickDeadline.Sub(now)
			}
		}

		if sleep > 0 {
			timer.Reset(sleep)
			select {
			case <-timer.C:
			case <-d.stopChan:
				return
			}
		}
	}
}
