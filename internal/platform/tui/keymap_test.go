package tui

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-zombies/internal/core"
)

func TestKeyMapMatchesDefaultBindings(t *testing.T) {
	got := DefaultKeyMap().Bindings()
	want := core.DefaultBindings()

	if len(got) != len(want) {
		t.Errorf("len = %d, want %d", len(got), len(want))
	}
	for k, a := range want {
		if got[k] != a {
			t.Errorf("key %q -> %v, want %v", k, got[k], a)
		}
	}
}

func TestIsHeld(t *testing.T) {
	tests := []struct {
		action core.Action
		held   bool
	}{
		{core.ActionForward, true},
		{core.ActionTurnLeft, true},
		{core.ActionFire, true},
		{core.ActionTogglePause, false},
		{core.ActionToggleNight, false},
		{core.ActionQuit, false},
		{core.ActionNone, false},
	}
	for _, tt := range tests {
		if got := isHeld(tt.action); got != tt.held {
			t.Errorf("isHeld(%v) = %v, want %v", tt.action, got, tt.held)
		}
	}
}

func TestHoldTrackerTap(t *testing.T) {
	h := newHoldTracker()
	t0 := time.Unix(100, 0)

	if !h.Press("w", t0) {
		t.Fatal("first press should emit a key-down")
	}
	if ev := h.Expire(t0.Add(holdInitial - time.Millisecond)); len(ev) != 0 {
		t.Errorf("released too early: %v", ev)
	}

	ev := h.Expire(t0.Add(holdInitial))
	if len(ev) != 1 || ev[0] != core.KeyUp("w") {
		t.Errorf("Expire = %v, want key-up w", ev)
	}
	if h.Held() != 0 {
		t.Errorf("Held = %d after release", h.Held())
	}
}

func TestHoldTrackerRepeat(t *testing.T) {
	h := newHoldTracker()
	t0 := time.Unix(100, 0)

	h.Press("d", t0)
	// Auto-repeat: no new key-downs, and the window shrinks.
	t1 := t0.Add(500 * time.Millisecond)
	if h.Press("d", t1) {
		t.Error("repeat should not emit a key-down")
	}
	if ev := h.Expire(t1.Add(holdRepeat / 2)); len(ev) != 0 {
		t.Errorf("released during repeat window: %v", ev)
	}
	if ev := h.Expire(t1.Add(holdRepeat)); len(ev) != 1 {
		t.Errorf("Expire = %v, want one release", ev)
	}

	// A fresh press after release starts over.
	if !h.Press("d", t1.Add(time.Second)) {
		t.Error("press after release should emit a key-down")
	}
}

func TestHoldTrackerReset(t *testing.T) {
	h := newHoldTracker()
	now := time.Unix(100, 0)
	h.Press("w", now)
	h.Press("a", now)
	h.Reset()
	if h.Held() != 0 {
		t.Errorf("Held = %d after Reset", h.Held())
	}
	if ev := h.Expire(now.Add(time.Hour)); len(ev) != 0 {
		t.Errorf("Expire after Reset = %v", ev)
	}
}
