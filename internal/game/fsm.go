package game

import "github.com/vovakirdan/tui-zombies/internal/core"

// State is a screen of the application flow.
type State int

const (
	StateStart State = iota
	StateMapSelect
	StatePlaying
	StateGameOver
	StateQuit
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateMapSelect:
		return "map-select"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game-over"
	case StateQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// EventKind classifies what the machine reacts to.
type EventKind int

const (
	EventAnyKey  EventKind = iota // a key that is neither a digit nor quit
	EventSelect                   // a digit key; Event.Map is its zero-based index
	EventEnded                    // the running session reached an outcome
	EventQuit                     // quit from anywhere
)

// Event is one queued machine input.
type Event struct {
	Kind    EventKind
	Map     int
	Outcome Outcome
}

// Transition records a state change and the event that caused it.
type Transition struct {
	From  State
	To    State
	Event Event
}

// transitions is the flow table. EventQuit is handled for every state
// before the table is consulted.
var transitions = map[State]map[EventKind]State{
	StateStart: {
		EventAnyKey: StateMapSelect,
		EventSelect: StateMapSelect,
	},
	StateMapSelect: {
		EventSelect: StatePlaying,
	},
	StatePlaying: {
		EventEnded: StateGameOver,
	},
	StateGameOver: {
		EventAnyKey: StateStart,
		EventSelect: StateStart,
	},
}

// GameOverDwell is how long the game over screen ignores keys, so a fire
// key still held from the last frame does not dismiss it.
const GameOverDwell = 0.75

// Machine is the screen flow: start, map select, playing, game over and
// back to start. Events are queued with Post and applied in order by Run.
type Machine struct {
	state    State
	queue    []Event
	maps     int
	selected int
	outcome  Outcome
	elapsed  float64 // seconds in the current state
}

// NewMachine creates a machine at the start screen offering maps maps.
func NewMachine(maps int) *Machine {
	return &Machine{state: StateStart, maps: maps, selected: -1}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Selected returns the index of the chosen map, or -1 before a selection.
func (m *Machine) Selected() int { return m.selected }

// Outcome returns the outcome of the last finished session.
func (m *Machine) Outcome() Outcome { return m.outcome }

// Post queues an event.
func (m *Machine) Post(ev Event) {
	m.queue = append(m.queue, ev)
}

// PostKey classifies a key press and queues it. Quit bindings quit, digits
// 1-9 select a map, anything else is a plain key.
func (m *Machine) PostKey(key string, b core.Bindings) {
	if b.Lookup(key) == core.ActionQuit {
		m.Post(Event{Kind: EventQuit})
		return
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		m.Post(Event{Kind: EventSelect, Map: int(key[0] - '1')})
		return
	}
	m.Post(Event{Kind: EventAnyKey})
}

// Tick advances the time spent in the current state.
func (m *Machine) Tick(dt float64) {
	m.elapsed += dt
}

// Run applies every queued event and returns the transitions taken.
// Events that have no transition from the current state are dropped.
func (m *Machine) Run() []Transition {
	var out []Transition
	for len(m.queue) > 0 {
		ev := m.queue[0]
		m.queue = m.queue[1:]
		if to, ok := m.next(ev); ok {
			out = append(out, Transition{From: m.state, To: to, Event: ev})
			m.enter(to, ev)
		}
	}
	return out
}

func (m *Machine) next(ev Event) (State, bool) {
	if m.state == StateQuit {
		return 0, false
	}
	if ev.Kind == EventQuit {
		return StateQuit, true
	}
	if ev.Kind == EventSelect && m.state == StateMapSelect && (ev.Map < 0 || ev.Map >= m.maps) {
		return 0, false
	}
	if m.state == StateGameOver && m.elapsed < GameOverDwell {
		return 0, false
	}
	to, ok := transitions[m.state][ev.Kind]
	return to, ok
}

func (m *Machine) enter(to State, ev Event) {
	switch to {
	case StatePlaying:
		m.selected = ev.Map
	case StateGameOver:
		m.outcome = ev.Outcome
	case StateStart:
		m.selected = -1
	}
	m.state = to
	m.elapsed = 0
}
