package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"

	"github.com/vovakirdan/tui-zombies/internal/core"
)

// KeyMap defines the key bindings for play and the screens around it.
type KeyMap struct {
	Forward  key.Binding
	Backward key.Binding
	Left     key.Binding
	Right    key.Binding
	Fire     key.Binding
	Debug    key.Binding
	Pause    key.Binding
	Night    key.Binding
	Select   key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Fire, k.Pause, k.Night, k.Debug, k.Quit}
}

// FullHelp returns key bindings for the start screen.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Forward, k.Backward, k.Left, k.Right},
		{k.Fire, k.Pause, k.Night, k.Debug},
		{k.Select, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Forward: key.NewBinding(
			key.WithKeys("w", "up"),
			key.WithHelp("w/up", "forward"),
		),
		Backward: key.NewBinding(
			key.WithKeys("s", "down"),
			key.WithHelp("s/down", "back"),
		),
		Left: key.NewBinding(
			key.WithKeys("a", "left"),
			key.WithHelp("a/left", "turn left"),
		),
		Right: key.NewBinding(
			key.WithKeys("d", "right"),
			key.WithHelp("d/right", "turn right"),
		),
		Fire: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "fire"),
		),
		Debug: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hitboxes"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Night: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "night"),
		),
		Select: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "pick map"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// Bindings flattens the key map into the key -> action table the session
// consumes.
func (k KeyMap) Bindings() core.Bindings {
	b := core.Bindings{}
	add := func(kb key.Binding, a core.Action) {
		for _, name := range kb.Keys() {
			b[name] = a
		}
	}
	add(k.Forward, core.ActionForward)
	add(k.Backward, core.ActionBackward)
	add(k.Left, core.ActionTurnLeft)
	add(k.Right, core.ActionTurnRight)
	add(k.Fire, core.ActionFire)
	add(k.Debug, core.ActionToggleDebug)
	add(k.Pause, core.ActionTogglePause)
	add(k.Night, core.ActionToggleNight)
	add(k.Quit, core.ActionQuit)
	return b
}

// isHeld reports whether an action acts while its key is down, as opposed
// to toggles that act once per press.
func isHeld(a core.Action) bool {
	switch a {
	case core.ActionForward, core.ActionBackward, core.ActionTurnLeft, core.ActionTurnRight, core.ActionFire:
		return true
	}
	return false
}

// Terminals report key presses and auto-repeats but never releases, so held
// keys are released after a quiet period. The first window covers the
// terminal's initial repeat delay; once repeats arrive the window shrinks.
const (
	holdInitial = 550 * time.Millisecond
	holdRepeat  = 120 * time.Millisecond
)

type holdState struct {
	until     time.Time
	repeating bool
}

// holdTracker turns a stream of key presses into press/release pairs.
type holdTracker struct {
	initial time.Duration
	repeat  time.Duration
	keys    map[string]holdState
}

func newHoldTracker() *holdTracker {
	return &holdTracker{
		initial: holdInitial,
		repeat:  holdRepeat,
		keys:    make(map[string]holdState),
	}
}

// Press records a press of key at now. It reports whether the key was not
// already held, i.e. whether a key-down should be emitted.
func (h *holdTracker) Press(key string, now time.Time) bool {
	st, held := h.keys[key]
	if !held {
		h.keys[key] = holdState{until: now.Add(h.initial)}
		return true
	}
	st.repeating = true
	st.until = now.Add(h.repeat)
	h.keys[key] = st
	return false
}

// Expire releases every key whose window has passed and returns key-up
// events for them.
func (h *holdTracker) Expire(now time.Time) []core.Event {
	var out []core.Event
	for k, st := range h.keys {
		if !now.Before(st.until) {
			delete(h.keys, k)
			out = append(out, core.KeyUp(k))
		}
	}
	return out
}

// Reset forgets every held key.
func (h *holdTracker) Reset() {
	clear(h.keys)
}

// Held returns the number of keys currently held.
func (h *holdTracker) Held() int { return len(h.keys) }
