package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows the session to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone        Action = iota
	ActionForward            // W, Up arrow - accelerate along facing
	ActionBackward           // S, Down arrow - back off at half thrust
	ActionTurnLeft           // A, Left arrow - rotate counter-clockwise
	ActionTurnRight          // D, Right arrow - rotate clockwise
	ActionFire               // Space - shoot the active weapon
	ActionToggleDebug        // H - hit-box overlay
	ActionTogglePause        // P - freeze simulation
	ActionToggleNight        // N - fog overlay
	ActionQuit               // Esc, Ctrl+C - exit the process
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionForward:
		return "Forward"
	case ActionBackward:
		return "Backward"
	case ActionTurnLeft:
		return "TurnLeft"
	case ActionTurnRight:
		return "TurnRight"
	case ActionFire:
		return "Fire"
	case ActionToggleDebug:
		return "ToggleDebug"
	case ActionTogglePause:
		return "TogglePause"
	case ActionToggleNight:
		return "ToggleNight"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// EventType distinguishes raw input events.
type EventType int

const (
	EventKeyDown EventType = iota
	EventKeyUp
	EventQuit
)

// Event is a single raw input event as delivered by the input source.
// Key holds the key code in Bubble Tea notation ("a", "up", "esc", "1").
type Event struct {
	Type EventType
	Key  string
}

// KeyDown builds a key-down event.
func KeyDown(key string) Event {
	return Event{Type: EventKeyDown, Key: key}
}

// KeyUp builds a key-up event.
func KeyUp(key string) Event {
	return Event{Type: EventKeyUp, Key: key}
}

// QuitEvent builds a window/terminal close event.
func QuitEvent() Event {
	return Event{Type: EventQuit}
}

// Bindings maps key codes to actions. Bindings are content, not logic:
// the session only ever sees actions.
type Bindings map[string]Action

// DefaultBindings returns the standard keyboard layout.
func DefaultBindings() Bindings {
	return Bindings{
		"w":      ActionForward,
		"up":     ActionForward,
		"s":      ActionBackward,
		"down":   ActionBackward,
		"a":      ActionTurnLeft,
		"left":   ActionTurnLeft,
		"d":      ActionTurnRight,
		"right":  ActionTurnRight,
		" ":      ActionFire,
		"space":  ActionFire,
		"h":      ActionToggleDebug,
		"p":      ActionTogglePause,
		"n":      ActionToggleNight,
		"esc":    ActionQuit,
		"ctrl+c": ActionQuit,
	}
}

// Lookup returns the action bound to key, or ActionNone.
func (b Bindings) Lookup(key string) Action {
	if b == nil {
		return ActionNone
	}
	return b[key]
}

// InputState tracks which keys are currently held down and the action each
// one is bound to. An action stays held while any of its keys is down.
type InputState struct {
	keys map[string]Action
}

// NewInputState creates an empty input state.
func NewInputState() InputState {
	return InputState{
		keys: make(map[string]Action),
	}
}

// Press marks key, bound to a, as held.
func (s *InputState) Press(key string, a Action) {
	if s.keys == nil {
		s.keys = make(map[string]Action)
	}
	s.keys[key] = a
}

// Release marks key as no longer held.
func (s *InputState) Release(key string) {
	delete(s.keys, key)
}

// Held returns true if any key bound to the given action is held.
func (s InputState) Held(a Action) bool {
	for _, held := range s.keys {
		if held == a {
			return true
		}
	}
	return false
}

// Clear releases every key.
func (s *InputState) Clear() {
	clear(s.keys)
}
