package reactor

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lixenwraith/glowgrid/effect"
	"github.com/lixenwraith/glowgrid/pattern"
	"github.com/lixenwraith/glowgrid/status"
)

func testTable() Table {
	return Table{
		"idle":       {Pattern: pattern.Wave, Effects: []string{effect.GlowPulse}},
		"processing": {Pattern: pattern.Spiral, Effects: []string{effect.Pulsate, effect.Flicker}},
		"error":      {Pattern: pattern.Diamond, Effects: []string{effect.Blink}},
		"success":    {Pattern: pattern.Sequential, Effects: []string{effect.Pulsate}},
		DefaultState: {Pattern: pattern.Wave, Effects: nil},
	}
}

func TestNewRequiresDefaultEntry(t *testing.T) {
	table := testTable()
	delete(table, DefaultState)
	_, err := New(table, Options{})
	if !errors.Is(err, ErrMissingDefault) {
		t.Errorf("Expected ErrMissingDefault, got %v", err)
	}
}

func TestNewRejectsUnknownPattern(t *testing.T) {
	table := testTable()
	table["error"] = Directive{Pattern: "zigzag"}
	_, err := New(table, Options{})
	if err == nil {
		t.Fatal("Expected error for unknown pattern in table")
	}
	if !errors.Is(err, pattern.ErrUnknownPattern) {
		t.Errorf("Expected wrapped ErrUnknownPattern, got %v", err)
	}
}

func TestNewRejectsNegativeDebounce(t *testing.T) {
	_, err := New(testTable(), Options{Debounce: -time.Millisecond})
	if !errors.Is(err, ErrInvalidDebounce) {
		t.Errorf("Expected ErrInvalidDebounce, got %v", err)
	}
}

func TestNewPrunesUnknownEffects(t *testing.T) {
	reg := status.NewRegistry()
	var msgs []string
	diag := func(format string, args ...any) {
		msgs = append(msgs, fmt.Sprintf(format, args...))
	}

	table := testTable()
	table["error"] = Directive{Pattern: pattern.Diamond, Effects: []string{effect.Blink, "sparkle"}}
	r, err := New(table, Options{Status: reg, Diag: diag})
	if err != nil {
		t.Fatalf("Expected pruning, not failure: %v", err)
	}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r.Observe("error", now)
	dir, ok := r.Advance(now)
	if !ok {
		t.Fatal("Expected directive to apply")
	}
	if len(dir.Effects) != 1 || dir.Effects[0] != effect.Blink {
		t.Errorf("Expected pruned effects [blink], got %v", dir.Effects)
	}
	if got := reg.Ints.Get("reactor.unknown_effect").Load(); got != 1 {
		t.Errorf("Expected unknown_effect counter 1, got %d", got)
	}
	if len(msgs) != 1 {
		t.Errorf("Expected 1 diagnostic, got %d: %v", len(msgs), msgs)
	}
}

func TestFirstObserveAppliesImmediately(t *testing.T) {
	r, _ := New(testTable(), Options{})
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	r.Observe("processing", now)
	dir, ok := r.Advance(now)
	if !ok {
		t.Fatal("Expected first state to apply without debounce")
	}
	if dir.Pattern != pattern.Spiral {
		t.Errorf("Expected spiral directive, got %q", dir.Pattern)
	}
	if r.Current() != "processing" {
		t.Errorf("Expected current state processing, got %q", r.Current())
	}
}

func TestUnknownStateUsesDefault(t *testing.T) {
	reg := status.NewRegistry()
	var msgs []string
	diag := func(format string, args ...any) {
		msgs = append(msgs, fmt.Sprintf(format, args...))
	}
	r, _ := New(testTable(), Options{Status: reg, Diag: diag})
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	r.Observe("rebooting", now)
	dir, ok := r.Advance(now)
	if !ok {
		t.Fatal("Expected default directive to apply")
	}
	if dir.Pattern != pattern.Wave {
		t.Errorf("Expected default wave directive, got %q", dir.Pattern)
	}
	if got := reg.Ints.Get("reactor.unknown_state").Load(); got != 1 {
		t.Errorf("Expected unknown_state counter 1, got %d", got)
	}
	if len(msgs) != 1 {
		t.Errorf("Expected 1 diagnostic, got %d", len(msgs))
	}
}

func TestDebounceDefersSecondChange(t *testing.T) {
	r, _ := New(testTable(), Options{Debounce: 100 * time.Millisecond})
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	r.Observe("idle", t0)
	if _, ok := r.Advance(t0); !ok {
		t.Fatal("Expected idle to apply")
	}

	// 30ms later: inside the window, must wait
	r.Observe("processing", t0.Add(30*time.Millisecond))
	if _, ok := r.Advance(t0.Add(33 * time.Millisecond)); ok {
		t.Error("Expected change to be held inside debounce window")
	}
	if !r.Pending() {
		t.Error("Expected a pending change")
	}

	// At the window edge it becomes due
	dir, ok := r.Advance(t0.Add(100 * time.Millisecond))
	if !ok {
		t.Fatal("Expected pending change to apply at window edge")
	}
	if dir.Pattern != pattern.Spiral {
		t.Errorf("Expected spiral, got %q", dir.Pattern)
	}
}

func TestPendingSlotNewestWins(t *testing.T) {
	r, _ := New(testTable(), Options{Debounce: 100 * time.Millisecond})
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	r.Observe("idle", t0)
	r.Advance(t0)

	r.Observe("processing", t0.Add(20*time.Millisecond))
	r.Observe("error", t0.Add(40*time.Millisecond))

	dir, ok := r.Advance(t0.Add(120 * time.Millisecond))
	if !ok {
		t.Fatal("Expected pending change to apply")
	}
	if dir.Pattern != pattern.Diamond {
		t.Errorf("Expected newest (error/diamond) to win, got %q", dir.Pattern)
	}
	// The overwritten change is gone
	if _, ok := r.Advance(t0.Add(300 * time.Millisecond)); ok {
		t.Error("Expected single pending slot, got a second application")
	}
}

func TestIdenticalDirectiveIsNoOp(t *testing.T) {
	reg := status.NewRegistry()
	r, _ := New(testTable(), Options{Debounce: 100 * time.Millisecond, Status: reg})
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	r.Observe("error", t0)
	if _, ok := r.Advance(t0); !ok {
		t.Fatal("Expected first error to apply")
	}

	// Same state again 30ms later: held, then dropped as identical
	r.Observe("error", t0.Add(30*time.Millisecond))
	if _, ok := r.Advance(t0.Add(150 * time.Millisecond)); ok {
		t.Error("Expected identical directive to be dropped")
	}
	if got := reg.Ints.Get("reactor.applied").Load(); got != 1 {
		t.Errorf("Expected exactly one application, got %d", got)
	}
}

func TestChangeAfterWindowAppliesPromptly(t *testing.T) {
	r, _ := New(testTable(), Options{Debounce: 100 * time.Millisecond})
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	r.Observe("idle", t0)
	r.Advance(t0)

	at := t0.Add(250 * time.Millisecond)
	r.Observe("success", at)
	dir, ok := r.Advance(at)
	if !ok {
		t.Fatal("Expected change outside window to apply on the same frame")
	}
	if dir.Pattern != pattern.Sequential {
		t.Errorf("Expected success directive, got %q", dir.Pattern)
	}
}

func TestResetClearsPendingAndHistory(t *testing.T) {
	r, _ := New(testTable(), Options{})
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	r.Observe("idle", t0)
	r.Advance(t0)
	r.Observe("error", t0.Add(10*time.Millisecond))
	r.Reset()

	if r.Pending() {
		t.Error("Expected pending slot cleared")
	}
	if r.Current() != "" {
		t.Errorf("Expected cleared state, got %q", r.Current())
	}
	if _, ok := r.Advance(t0.Add(time.Second)); ok {
		t.Error("Expected nothing to apply after reset")
	}
}

func TestDirectiveEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Directive
		want bool
	}{
		{"Identical", Directive{"wave", []string{"blink"}}, Directive{"wave", []string{"blink"}}, true},
		{"Nil vs empty effects", Directive{"wave", nil}, Directive{"wave", []string{}}, true},
		{"Different pattern", Directive{"wave", nil}, Directive{"spiral", nil}, false},
		{"Different effects", Directive{"wave", []string{"blink"}}, Directive{"wave", []string{"pulsate"}}, false},
		{"Different order", Directive{"wave", []string{"a", "b"}}, Directive{"wave", []string{"b", "a"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Expected Equal=%v for %v vs %v, got %v", tt.want, tt.a, tt.b, got)
			}
		})
	}
}

func TestStateGaugeTracksApplied(t *testing.T) {
	reg := status.NewRegistry()
	r, _ := New(testTable(), Options{Status: reg})
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	r.Observe("processing", t0)
	r.Advance(t0)
	if got := reg.Strings.Get("reactor.state").Load(); got != "processing" {
		t.Errorf("Expected state gauge processing, got %q", got)
	}
}
