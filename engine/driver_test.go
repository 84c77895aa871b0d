package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/glowgrid/effect"
	"github.com/lixenwraith/glowgrid/events"
	"github.com/lixenwraith/glowgrid/grid"
	"github.com/lixenwraith/glowgrid/pattern"
	"github.com/lixenwraith/glowgrid/reactor"
	"github.com/lixenwraith/glowgrid/status"
)

type mockRenderer struct {
	mu     sync.Mutex
	frames int
	last   Frame
}

func (m *mockRenderer) RenderFrame(f Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames++
	m.last = f
}

func (m *mockRenderer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames
}

func newTestDriver(t *testing.T, cfg DriverConfig) (*Driver, *events.Inbox, *Session) {
	t.Helper()
	g, err := grid.New(5, 7)
	if err != nil {
		t.Fatalf("Failed to create grid: %v", err)
	}
	s, err := NewSession(g, Options{})
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	table := reactor.Table{
		"idle":               {Pattern: pattern.Wave},
		"processing":         {Pattern: pattern.Spiral, Effects: []string{effect.Pulsate}},
		"error":              {Pattern: pattern.Diamond, Effects: []string{effect.Blink}},
		reactor.DefaultState: {Pattern: pattern.Wave},
	}
	r, err := reactor.New(table, reactor.Options{})
	if err != nil {
		t.Fatalf("Failed to create reactor: %v", err)
	}
	in := events.NewInbox()
	if cfg.Interval == 0 {
		cfg.Interval = 16 * time.Millisecond
	}
	d, err := NewDriver(s, r, in, cfg)
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	return d, in, s
}

func TestNewDriverRejectsZeroInterval(t *testing.T) {
	g, _ := grid.New(5, 7)
	s, _ := NewSession(g, Options{})
	r, _ := reactor.New(reactor.Table{reactor.DefaultState: {Pattern: pattern.Wave}}, reactor.Options{})

	_, err := NewDriver(s, r, events.NewInbox(), DriverConfig{})
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration for zero interval, got %v", err)
	}
}

func TestStepAppliesPushedState(t *testing.T) {
	d, in, s := newTestDriver(t, DriverConfig{})
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	in.Push(events.StateChange{State: "processing"})
	f := d.Step(base)

	if s.PatternName() != pattern.Spiral {
		t.Errorf("Expected spiral applied, got %q", s.PatternName())
	}
	if f.Generation != 1 {
		t.Errorf("Expected generation 1 on first directive, got %d", f.Generation)
	}
}

func TestStepDebouncesAcrossFrames(t *testing.T) {
	d, in, s := newTestDriver(t, DriverConfig{})
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	in.Push(events.StateChange{State: "processing"})
	d.Step(base)

	// Zero-At change stamped with the frame time, 30ms after apply
	in.Push(events.StateChange{State: "error"})
	d.Step(base.Add(30 * time.Millisecond))
	if s.PatternName() != pattern.Spiral {
		t.Fatalf("Expected change held inside debounce window, got %q", s.PatternName())
	}

	d.Step(base.Add(100 * time.Millisecond))
	if s.PatternName() != pattern.Diamond {
		t.Errorf("Expected held change applied at window edge, got %q", s.PatternName())
	}
}

func TestRepeatedStateDoesNotRestartAnimation(t *testing.T) {
	d, in, s := newTestDriver(t, DriverConfig{})
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	in.Push(events.StateChange{State: "error"})
	d.Step(base)
	genBefore := s.Generation()

	// The same state lands again 30ms later
	in.Push(events.StateChange{State: "error"})
	d.Step(base.Add(30 * time.Millisecond))
	d.Step(base.Add(130 * time.Millisecond))

	if s.Generation() != genBefore {
		t.Errorf("Expected generation %d preserved, got %d", genBefore, s.Generation())
	}

	// Progress still measured from the original apply
	f := d.Step(base.Add(900 * time.Millisecond))
	if f.Progress != 0.5 {
		t.Errorf("Expected progress 0.5 from original origin, got %f", f.Progress)
	}
}

func TestStepHonorsExplicitTimestamp(t *testing.T) {
	d, in, s := newTestDriver(t, DriverConfig{})
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	in.Push(events.StateChange{State: "idle"})
	d.Step(base)

	// Carried timestamp pushes the due time past the frame instant
	in.Push(events.StateChange{State: "error", At: base.Add(200 * time.Millisecond)})
	d.Step(base.Add(150 * time.Millisecond))
	if s.PatternName() != pattern.Wave {
		t.Fatalf("Expected change not yet due, got %q", s.PatternName())
	}

	d.Step(base.Add(200 * time.Millisecond))
	if s.PatternName() != pattern.Diamond {
		t.Errorf("Expected change applied at its timestamp, got %q", s.PatternName())
	}
}

func TestStepRecordsInboxDrops(t *testing.T) {
	reg := status.NewRegistry()
	d, in, _ := newTestDriver(t, DriverConfig{Status: reg})
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < events.InboxSize+6; i++ {
		in.Push(events.StateChange{State: "idle"})
	}
	d.Step(base)

	if got := reg.Ints.Get("inbox.dropped").Load(); got != 6 {
		t.Errorf("Expected 6 dropped changes recorded, got %d", got)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	rend := &mockRenderer{}
	d, in, _ := newTestDriver(t, DriverConfig{Interval: 5 * time.Millisecond, Renderer: rend})

	in.Push(events.StateChange{State: "processing"})
	d.Start()
	if !d.Running() {
		t.Fatal("Expected driver running after Start")
	}

	time.Sleep(60 * time.Millisecond)
	d.Stop()
	if d.Running() {
		t.Error("Expected driver stopped after Stop")
	}
	if rend.count() == 0 {
		t.Error("Expected at least one rendered frame")
	}

	// Second Stop is a no-op
	d.Stop()
}

func TestOnApplyFiresPerApplication(t *testing.T) {
	g, _ := grid.New(5, 7)
	s, _ := NewSession(g, Options{})
	r, _ := reactor.New(reactor.Table{
		"error":              {Pattern: pattern.Diamond},
		reactor.DefaultState: {Pattern: pattern.Wave},
	}, reactor.Options{})
	in := events.NewInbox()

	var applied []string
	d, err := NewDriver(s, r, in, DriverConfig{
		Interval: 16 * time.Millisecond,
		OnApply:  func(state string, _ reactor.Directive) { applied = append(applied, state) },
	})
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	in.Push(events.StateChange{State: "error"})
	d.Step(base)

	// Identical state re-observed: dropped, no second callback
	in.Push(events.StateChange{State: "error"})
	d.Step(base.Add(30 * time.Millisecond))
	d.Step(base.Add(130 * time.Millisecond))

	if len(applied) != 1 || applied[0] != "error" {
		t.Errorf("Expected single apply callback for error, got %v", applied)
	}
}

func TestSuspendResumeControlClock(t *testing.T) {
	d, _, _ := newTestDriver(t, DriverConfig{})

	d.Suspend()
	if !d.Clock().IsPaused() {
		t.Error("Expected clock paused after Suspend")
	}
	d.Resume()
	if d.Clock().IsPaused() {
		t.Error("Expected clock running after Resume")
	}
}
