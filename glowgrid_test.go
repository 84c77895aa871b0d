package glowgrid

import (
	"errors"
	"testing"
	"time"

	"github.com/lixenwraith/glowgrid/config"
	"github.com/lixenwraith/glowgrid/status"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Seed = 99
	return cfg
}

func TestNewWithNilConfigUsesDefaults(t *testing.T) {
	ind, err := New(nil, Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer ind.Close()

	if got := ind.State(); got != "" {
		t.Errorf("Expected no applied state before the first report, got %q", got)
	}
	g := ind.Grid()
	if g.Width != config.DefaultWidth || g.Height != config.DefaultHeight {
		t.Errorf("Expected %dx%d grid, got %dx%d",
			config.DefaultWidth, config.DefaultHeight, g.Width, g.Height)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Grid.Width = 0

	if _, err := New(cfg, Options{}); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for zero width, got %v", err)
	}
}

func TestNewRejectsUnknownPatternInStates(t *testing.T) {
	cfg := testConfig()
	cfg.Reactor.States["broken"] = config.StateDirective{Pattern: "zigzag"}

	if _, err := New(cfg, Options{}); err == nil {
		t.Error("Expected error for unknown pattern in state table")
	}
}

func TestSetStateDrivesFrames(t *testing.T) {
	ind, err := New(testConfig(), Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer ind.Close()

	base := time.Unix(100, 0)

	// No state reported yet: blank frame, generation zero
	blank := ind.Tick(base)
	if blank.Generation != 0 || blank.OnCount != 0 {
		t.Errorf("Expected blank frame before any state, got gen %d count %d",
			blank.Generation, blank.OnCount)
	}

	ind.SetState("processing")

	// First reported state applies on the frame that drains it
	start := ind.Tick(base.Add(33 * time.Millisecond))
	if start.Generation != 1 {
		t.Errorf("Expected generation 1 after first apply, got %d", start.Generation)
	}
	if got := ind.State(); got != "processing" {
		t.Errorf("Expected state 'processing', got %q", got)
	}

	// Half a cycle in: exactly half the 35 thresholds are exceeded
	mid := ind.Tick(base.Add(33*time.Millisecond + 900*time.Millisecond))
	if mid.OnCount != 18 {
		t.Errorf("Expected 18 cells on at half cycle, got %d", mid.OnCount)
	}
	for i, v := range mid.Intensity {
		if !mid.Reveal[i].On {
			continue
		}
		if v < 0.85-1e-9 || v > 1.0 {
			t.Errorf("Expected pulsate intensity in [0.85, 1.0] at cell %d, got %f", i, v)
		}
	}
}

func TestSecondChangeWithinDebounceDefers(t *testing.T) {
	ind, err := New(testConfig(), Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer ind.Close()

	base := time.Unix(100, 0)

	ind.SetState("processing")
	ind.Tick(base)
	if got := ind.State(); got != "processing" {
		t.Fatalf("Expected 'processing' after first frame, got %q", got)
	}

	// Second change lands 30ms after the first apply: held until the
	// debounce window closes
	ind.SetState("error")
	ind.Tick(base.Add(30 * time.Millisecond))
	ind.Tick(base.Add(50 * time.Millisecond))
	if got := ind.State(); got != "processing" {
		t.Errorf("Expected 'processing' while debounce holds, got %q", got)
	}

	ind.Tick(base.Add(100 * time.Millisecond))
	if got := ind.State(); got != "error" {
		t.Errorf("Expected 'error' applied at debounce edge, got %q", got)
	}
}

func TestSetStateAtHonorsTimestamp(t *testing.T) {
	ind, err := New(testConfig(), Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer ind.Close()

	base := time.Unix(100, 0)

	ind.SetState("processing")
	ind.Tick(base)

	// Explicit future timestamp: not due before it arrives
	ind.SetStateAt("error", base.Add(200*time.Millisecond))

	ind.Tick(base.Add(150 * time.Millisecond))
	if got := ind.State(); got != "processing" {
		t.Errorf("Expected future-stamped change to wait, got %q", got)
	}

	ind.Tick(base.Add(200 * time.Millisecond))
	if got := ind.State(); got != "error" {
		t.Errorf("Expected 'error' at its timestamp, got %q", got)
	}
}

func TestCloseMakesHeldFramesStale(t *testing.T) {
	ind, err := New(testConfig(), Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	base := time.Unix(100, 0)
	ind.SetState("processing")
	frame := ind.Tick(base)

	ind.Close()

	if !ind.Session().Stale(frame) {
		t.Error("Expected frames held across Close to read as stale")
	}

	// Second Close is a no-op
	ind.Close()
}

func TestZeroIntervalFallsBackToDefault(t *testing.T) {
	cfg := testConfig()
	cfg.Animation.Interval = 0

	ind, err := New(cfg, Options{})
	if err != nil {
		t.Fatalf("Expected zero interval to be defaulted, got %v", err)
	}
	ind.Close()
}

func TestSharedStatusRegistryCollectsAllLayers(t *testing.T) {
	reg := status.NewRegistry()
	ind, err := New(testConfig(), Options{Status: reg})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer ind.Close()

	base := time.Unix(100, 0)
	ind.SetState("error")
	ind.Tick(base)
	ind.Tick(base.Add(33 * time.Millisecond))

	if got := reg.Ints.Get("engine.ticks").Load(); got != 2 {
		t.Errorf("Expected 2 driver ticks, got %d", got)
	}
	if got := reg.Ints.Get("session.ticks").Load(); got != 2 {
		t.Errorf("Expected 2 session ticks, got %d", got)
	}
	if got := reg.Ints.Get("reactor.applied").Load(); got != 1 {
		t.Errorf("Expected 1 applied directive, got %d", got)
	}
	if got := reg.Strings.Get("reactor.state").Load(); got != "error" {
		t.Errorf("Expected state gauge 'error', got %q", got)
	}
}

func TestSuspendFreezesAnimation(t *testing.T) {
	ind, err := New(testConfig(), Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer ind.Close()

	ind.Suspend()
	if !ind.Clock().IsPaused() {
		t.Error("Expected clock paused after Suspend")
	}
	ind.Resume()
	if ind.Clock().IsPaused() {
		t.Error("Expected clock running after Resume")
	}
}
