package game

import (
	"testing"

	"github.com/vovakirdan/tui-zombies/internal/core"
)

func TestMachineFlow(t *testing.T) {
	b := core.DefaultBindings()
	m := NewMachine(2)

	steps := []struct {
		name string
		do   func()
		want State
	}{
		{"any key leaves start", func() { m.PostKey("x", b) }, StateMapSelect},
		{"plain key does not pick a map", func() { m.PostKey("x", b) }, StateMapSelect},
		{"out of range digit is ignored", func() { m.PostKey("3", b) }, StateMapSelect},
		{"digit starts play", func() { m.PostKey("2", b) }, StatePlaying},
		{"keys are ignored while playing", func() { m.PostKey("x", b) }, StatePlaying},
		{"session end shows game over", func() { m.Post(Event{Kind: EventEnded, Outcome: OutcomeWin}) }, StateGameOver},
		{"keys right after game over are ignored", func() { m.PostKey("x", b) }, StateGameOver},
		{"key after dwell returns to start", func() { m.Tick(GameOverDwell); m.PostKey("x", b) }, StateStart},
	}
	for _, st := range steps {
		st.do()
		m.Run()
		if m.State() != st.want {
			t.Fatalf("%s: state = %v, want %v", st.name, m.State(), st.want)
		}
	}
}

func TestMachineRecordsSelectionAndOutcome(t *testing.T) {
	m := NewMachine(2)
	m.Post(Event{Kind: EventAnyKey})
	m.Post(Event{Kind: EventSelect, Map: 1})
	tr := m.Run()

	if len(tr) != 2 {
		t.Fatalf("transitions = %+v, want 2", tr)
	}
	if tr[1].From != StateMapSelect || tr[1].To != StatePlaying {
		t.Errorf("second transition = %+v", tr[1])
	}
	if m.Selected() != 1 {
		t.Errorf("selected = %d, want 1", m.Selected())
	}

	m.Post(Event{Kind: EventEnded, Outcome: OutcomeLoss})
	m.Run()
	if m.Outcome() != OutcomeLoss {
		t.Errorf("outcome = %v, want loss", m.Outcome())
	}

	m.Tick(GameOverDwell)
	m.Post(Event{Kind: EventAnyKey})
	m.Run()
	if m.Selected() != -1 {
		t.Errorf("selection not reset on return to start: %d", m.Selected())
	}
}

func TestMachineQuitFromAnyState(t *testing.T) {
	b := core.DefaultBindings()
	setups := map[State][]Event{
		StateStart:     nil,
		StateMapSelect: {{Kind: EventAnyKey}},
		StatePlaying:   {{Kind: EventAnyKey}, {Kind: EventSelect}},
		StateGameOver:  {{Kind: EventAnyKey}, {Kind: EventSelect}, {Kind: EventEnded}},
	}
	for state, events := range setups {
		for _, key := range []string{"esc", "ctrl+c"} {
			m := NewMachine(1)
			for _, ev := range events {
				m.Post(ev)
			}
			m.Run()
			if m.State() != state {
				t.Fatalf("setup reached %v, want %v", m.State(), state)
			}

			m.PostKey(key, b)
			m.Post(Event{Kind: EventAnyKey})
			m.Run()
			if m.State() != StateQuit {
				t.Errorf("%v + %s: state = %v, want quit", state, key, m.State())
			}
		}
	}
}

func TestMachineIgnoresUnknownEvents(t *testing.T) {
	m := NewMachine(1)
	m.Post(Event{Kind: EventEnded})
	if tr := m.Run(); len(tr) != 0 || m.State() != StateStart {
		t.Errorf("ended at start screen moved to %v", m.State())
	}
}
