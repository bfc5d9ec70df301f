package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-zombies/internal/assets"
	"github.com/vovakirdan/tui-zombies/internal/config"
	"github.com/vovakirdan/tui-zombies/internal/core"
	"github.com/vovakirdan/tui-zombies/internal/entity"
	"github.com/vovakirdan/tui-zombies/internal/game"
	"github.com/vovakirdan/tui-zombies/internal/registry"
	"github.com/vovakirdan/tui-zombies/internal/storage"
	"github.com/vovakirdan/tui-zombies/internal/tilemap"
)

// maxResults is how many results the start screen lists.
const maxResults = 5

// Options configures the terminal app.
type Options struct {
	Config   config.Config
	Runtime  core.RuntimeConfig
	Catalog  *registry.Catalog
	Store    *storage.Store  // nil: results are not kept
	Assets   assets.Provider // nil: built-in sprites
	Cues     entity.Cues     // nil: silent
	Logger   *log.Logger
	Player   string // recorded with each result
	StartMap string // map ID to start right away; empty shows the start screen
	Renderer *lipgloss.Renderer
}

// Model is the Bubble Tea model for the whole application flow. The screen
// flow lives in a game.Machine; the model feeds it keys and session
// outcomes and reacts to its transitions.
type Model struct {
	opts     Options
	logger   *log.Logger
	keys     KeyMap
	bindings core.Bindings
	help     help.Model

	machine *game.Machine
	session *game.Session
	mapID   string
	frame   game.FrameResult
	saved   bool // whether the running session's result has been stored

	pending []core.Event
	held    *holdTracker
	last    time.Time

	screen    *core.Screen
	presenter *Presenter
	painter   *Painter
	results   []storage.Result

	err      error
	quitting bool
}

// NewModel creates the application model.
func NewModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Catalog == nil {
		opts.Catalog = registry.New()
	}
	if opts.Cues == nil {
		opts.Cues = entity.NopCues{}
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = opts.Config.Display.FPS
	}
	if opts.Runtime.ScreenW <= 0 || opts.Runtime.ScreenH <= 0 {
		def := core.DefaultConfig()
		opts.Runtime.ScreenW, opts.Runtime.ScreenH = def.ScreenW, def.ScreenH
	}

	keys := DefaultKeyMap()
	h := help.New()
	h.Width = opts.Runtime.ScreenW

	m := Model{
		opts:      opts,
		logger:    opts.Logger,
		keys:      keys,
		bindings:  keys.Bindings(),
		help:      h,
		machine:   game.NewMachine(opts.Catalog.Len()),
		held:      newHoldTracker(),
		screen:    core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH),
		presenter: NewPresenter(),
		painter:   NewPainter(opts.Renderer),
	}
	m.loadResults()

	if opts.StartMap != "" {
		idx := -1
		for i, info := range opts.Catalog.List() {
			if info.ID == opts.StartMap {
				idx = i
				break
			}
		}
		if idx < 0 {
			m.err = errors.New("unknown map " + opts.StartMap)
			m.machine.Post(game.Event{Kind: game.EventQuit})
		} else {
			m.machine.Post(game.Event{Kind: game.EventAnyKey})
			m.machine.Post(game.Event{Kind: game.EventSelect, Map: idx})
		}
	}
	return m
}

// Init starts the tick loop. Queued machine events are applied on the
// first tick.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey routes keys to the session while playing and to the machine
// everywhere else.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	if m.machine.State() == game.StatePlaying && m.session != nil {
		if isHeld(m.bindings.Lookup(k)) {
			if m.held.Press(k, time.Now()) {
				m.pending = append(m.pending, core.KeyDown(k))
			}
		} else {
			m.pending = append(m.pending, core.KeyDown(k))
		}
		return m, nil
	}

	m.machine.PostKey(k, m.bindings)
	return m, m.advance()
}

// handleResize processes window resize events. A running session keeps its
// viewport; the presenter scales it to the new size.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.opts.Runtime.ScreenW = msg.Width
	m.opts.Runtime.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	m.help.Width = msg.Width
	return m, nil
}

// handleTick measures the frame time, steps the session and applies any
// resulting screen change.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := 1 / float64(m.opts.Runtime.TickRate)
	if !m.last.IsZero() {
		dt = now.Sub(m.last).Seconds()
	}
	m.last = now
	m.machine.Tick(dt)

	if m.machine.State() == game.StatePlaying && m.session != nil && m.session.Outcome() == game.OutcomeNone {
		events := append(m.pending, m.held.Expire(now)...)
		m.pending = nil
		m.frame = m.session.Frame(dt, events)

		switch {
		case m.frame.Quit:
			m.record("quit")
			m.machine.Post(game.Event{Kind: game.EventQuit})
		case m.frame.Outcome != game.OutcomeNone:
			m.record(m.frame.Outcome.String())
			m.machine.Post(game.Event{Kind: game.EventEnded, Outcome: m.frame.Outcome})
		}
	}

	if cmd := m.advance(); cmd != nil {
		return m, cmd
	}
	return m, tickCmd(m.opts.Runtime.TickRate)
}

// advance applies queued machine events and reacts to each transition.
func (m *Model) advance() tea.Cmd {
	for _, tr := range m.machine.Run() {
		m.logger.Debug("screen change", "from", tr.From, "to", tr.To)

		switch tr.To {
		case game.StatePlaying:
			if err := m.startSession(tr.Event.Map); err != nil {
				m.err = err
				m.quitting = true
				return tea.Quit
			}
		case game.StateGameOver:
			m.closeSession()
		case game.StateStart:
			m.loadResults()
		case game.StateQuit:
			if m.session != nil && m.session.Outcome() == game.OutcomeNone {
				m.record("quit")
			}
			m.closeSession()
			m.quitting = true
			return tea.Quit
		}
	}
	return nil
}

// startSession loads the selected map and builds a fresh session for it.
func (m *Model) startSession(index int) error {
	info, ok := m.opts.Catalog.At(index)
	if !ok {
		return errors.New("no map in slot " + string(rune('1'+index)))
	}

	tm, err := m.opts.Catalog.Load(info.ID, tilemap.WithObjectHook(func(err error) {
		m.logger.Warn("skipping map object", "err", err)
	}))
	if err != nil {
		m.logger.Error("map load failed", "map", info.ID, "err", err)
		return err
	}

	s, err := game.NewSession(tm, game.Options{
		Config:   m.opts.Config,
		Runtime:  m.opts.Runtime,
		Assets:   m.opts.Assets,
		Cues:     m.opts.Cues,
		Logger:   m.logger,
		Bindings: m.bindings,
	})
	if err != nil {
		m.logger.Error("session setup failed", "map", info.ID, "err", err)
		return err
	}

	m.session = s
	m.mapID = info.ID
	m.saved = false
	m.frame = game.FrameResult{}
	m.pending = nil
	m.held.Reset()
	return nil
}

// closeSession releases the running session. The last frame and stats stay
// available for the game over screen.
func (m *Model) closeSession() {
	if m.session != nil {
		m.session.Close()
	}
}

// record stores the running session's result once.
func (m *Model) record(outcome string) {
	if m.session == nil || m.saved {
		return
	}
	m.saved = true
	if m.opts.Store == nil {
		return
	}

	st := m.session.Stats()
	_, err := m.opts.Store.SaveResult(storage.Result{
		MapID:    m.mapID,
		Player:   m.opts.Player,
		Outcome:  outcome,
		Kills:    st.Kills,
		Pickups:  st.Pickups,
		Hits:     st.Hits,
		Health:   st.Health,
		Duration: st.Elapsed,
		Seed:     m.opts.Runtime.Seed,
	})
	if err != nil {
		m.logger.Warn("could not save result", "map", m.mapID, "err", err)
	}
}

func (m *Model) loadResults() {
	if m.opts.Store == nil {
		return
	}
	results, err := m.opts.Store.TopResults("", maxResults)
	if err != nil {
		m.logger.Warn("could not load results", "err", err)
		return
	}
	m.results = results
}

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.machine.State() {
	case game.StateStart:
		return m.startView()
	case game.StateMapSelect:
		return m.mapSelectView()
	case game.StatePlaying:
		m.presenter.Present(m.screen, m.frame.Image, m.frame.Labels)
		m.drawStatus()
		return m.painter.Render(m.screen)
	case game.StateGameOver:
		return m.gameOverView()
	}
	return ""
}

// State returns the current screen.
func (m Model) State() game.State { return m.machine.State() }

// Session returns the running or last finished session, if any.
func (m Model) Session() *game.Session { return m.session }

// Err returns the error that ended the program, if any.
func (m Model) Err() error { return m.err }

// Close releases the session. Safe to call more than once.
func (m Model) Close() {
	if m.session != nil {
		m.session.Close()
	}
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(opts Options) error {
	model := NewModel(opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
		if err == nil {
			err = fm.Err()
		}
	}
	return err
}
