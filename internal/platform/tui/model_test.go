package tui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-zombies/internal/config"
	"github.com/vovakirdan/tui-zombies/internal/core"
	"github.com/vovakirdan/tui-zombies/internal/game"
	"github.com/vovakirdan/tui-zombies/internal/registry"
	"github.com/vovakirdan/tui-zombies/internal/storage"
)

// gridMap builds a palette map of floor tiles with the given objects.
func gridMap(name string, cols, rows int, objects ...string) string {
	data := strings.TrimSuffix(strings.Repeat("1, ", cols*rows), ", ")
	body := fmt.Sprintf(`
name: %s
tile_size: 16
width: %d
height: %d
tilesets:
  - first_gid: 1
    palette: ["#404040"]
layers:
  - name: ground
    data: [%s]
objects:
`, name, cols, rows, data)
	for _, o := range objects {
		body += "  - " + o + "\n"
	}
	return body
}

type testApp struct {
	m     Model
	store *storage.Store
	now   time.Time
}

func newTestApp(t *testing.T, startMap string) *testApp {
	t.Helper()

	fsys := fstest.MapFS{
		// No zombies: the first frame wins.
		"empty.yaml": {Data: []byte(gridMap("Empty", 4, 4,
			"{name: player, x: 24, y: 24, width: 16, height: 16}"))},
		// A distant zombie keeps the session running.
		"horde.yaml": {Data: []byte(gridMap("Horde", 20, 20,
			"{name: player, x: 16, y: 16, width: 16, height: 16}",
			"{name: zombie, x: 280, y: 280, width: 16, height: 16}"))},
	}
	catalog := registry.New()
	if err := catalog.RegisterDir(fsys, true, func(file string, err error) {
		t.Fatalf("register %s: %v", file, err)
	}); err != nil {
		t.Fatal(err)
	}

	store, err := storage.Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m := NewModel(Options{
		Config:   config.DefaultConfig(),
		Runtime:  core.RuntimeConfig{ScreenW: 40, ScreenH: 13, TickRate: 60, Seed: 3},
		Catalog:  catalog,
		Store:    store,
		Logger:   log.New(io.Discard),
		Player:   "tester",
		StartMap: startMap,
		Renderer: lipgloss.NewRenderer(io.Discard),
	})
	return &testApp{m: m, store: store, now: time.Unix(1000, 0)}
}

func (a *testApp) send(msg tea.Msg) tea.Cmd {
	next, cmd := a.m.Update(msg)
	a.m = next.(Model)
	return cmd
}

func (a *testApp) key(k string) tea.Cmd {
	switch k {
	case "esc":
		return a.send(tea.KeyMsg{Type: tea.KeyEsc})
	case " ":
		return a.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	default:
		return a.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

func (a *testApp) tick(d time.Duration) tea.Cmd {
	a.now = a.now.Add(d)
	return a.send(TickMsg(a.now))
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModelFullFlow(t *testing.T) {
	a := newTestApp(t, "")

	if a.m.State() != game.StateStart {
		t.Fatalf("initial state = %v, want start", a.m.State())
	}
	if a.m.View() == "" {
		t.Error("start screen should render")
	}

	a.key("x")
	if a.m.State() != game.StateMapSelect {
		t.Fatalf("after any key: %v, want map-select", a.m.State())
	}

	a.key("9") // no ninth map
	if a.m.State() != game.StateMapSelect {
		t.Fatalf("out of range pick: %v, want map-select", a.m.State())
	}

	a.key("1")
	if a.m.State() != game.StatePlaying || a.m.Session() == nil {
		t.Fatalf("after pick: %v, want playing with a session", a.m.State())
	}

	a.tick(16 * time.Millisecond)
	if a.m.State() != game.StateGameOver {
		t.Fatalf("after first frame: %v, want game-over", a.m.State())
	}
	if a.m.View() == "" {
		t.Error("game over screen should render")
	}

	results, err := a.store.TopResults("empty", 10)
	if err != nil {
		t.Fatalf("TopResults: %v", err)
	}
	if len(results) != 1 || results[0].Outcome != "win" || results[0].Player != "tester" {
		t.Fatalf("results = %+v, want one win by tester", results)
	}

	// Keys are ignored until the game over dwell passes.
	a.key("x")
	if a.m.State() != game.StateGameOver {
		t.Fatalf("key during dwell: %v, want game-over", a.m.State())
	}
	a.tick(time.Second)
	a.key("x")
	if a.m.State() != game.StateStart {
		t.Fatalf("after dwell: %v, want start", a.m.State())
	}

	if cmd := a.key("esc"); !isQuit(cmd) {
		t.Error("esc on start screen should quit")
	}
	if a.m.State() != game.StateQuit || a.m.View() != "" {
		t.Errorf("state = %v, want quit with empty view", a.m.State())
	}
	if a.m.Err() != nil {
		t.Errorf("Err = %v", a.m.Err())
	}
}

func TestModelStartMap(t *testing.T) {
	a := newTestApp(t, "horde")

	// Queued events are applied on the first tick.
	a.tick(16 * time.Millisecond)
	if a.m.State() != game.StatePlaying {
		t.Fatalf("state = %v, want playing", a.m.State())
	}
	if a.m.Session().Map().ID() != "horde" {
		t.Errorf("map = %s, want horde", a.m.Session().Map().ID())
	}

	a.tick(16 * time.Millisecond)
	if out := a.m.View(); out == "" {
		t.Error("playing view should render")
	}
	if a.m.frame.Image == nil {
		t.Error("expected a composed frame")
	}
}

func TestModelUnknownStartMap(t *testing.T) {
	a := newTestApp(t, "nowhere")
	if cmd := a.tick(16 * time.Millisecond); !isQuit(cmd) {
		t.Error("unknown start map should quit")
	}
	if a.m.Err() == nil {
		t.Error("expected an error for an unknown map")
	}
}

func TestModelHeldKeysReachSession(t *testing.T) {
	a := newTestApp(t, "horde")
	a.tick(16 * time.Millisecond)

	start := a.m.Session().World().Player().Position()
	a.key("w")
	a.key("w") // auto-repeat
	if len(a.m.pending) != 1 {
		t.Fatalf("pending = %v, want a single key-down", a.m.pending)
	}
	for i := 0; i < 10; i++ {
		a.tick(16 * time.Millisecond)
	}
	if a.m.Session().World().Player().Position() == start {
		t.Error("holding forward should move the player")
	}

	// Toggles are delivered on every press.
	a.key("p")
	a.tick(16 * time.Millisecond)
	if !a.m.Session().Paused() {
		t.Error("p should pause")
	}
	a.key("p")
	a.tick(16 * time.Millisecond)
	if a.m.Session().Paused() {
		t.Error("second p should resume")
	}
}

func TestModelQuitDuringPlayRecordsResult(t *testing.T) {
	a := newTestApp(t, "horde")
	a.tick(16 * time.Millisecond)

	a.key("esc")
	if cmd := a.tick(16 * time.Millisecond); !isQuit(cmd) {
		t.Fatal("esc while playing should quit")
	}

	results, err := a.store.TopResults("horde", 10)
	if err != nil {
		t.Fatalf("TopResults: %v", err)
	}
	if len(results) != 1 || results[0].Outcome != "quit" {
		t.Errorf("results = %+v, want one quit", results)
	}
}

func TestModelResize(t *testing.T) {
	a := newTestApp(t, "horde")
	a.tick(16 * time.Millisecond)
	a.send(tea.WindowSizeMsg{Width: 60, Height: 20})

	if a.m.screen.Width() != 60 || a.m.screen.Height() != 20 {
		t.Errorf("screen = %dx%d, want 60x20", a.m.screen.Width(), a.m.screen.Height())
	}
	a.tick(16 * time.Millisecond)
	if a.m.View() == "" {
		t.Error("view after resize should render")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{1500 * time.Millisecond, "0:02"},
		{75 * time.Second, "1:15"},
		{10 * time.Minute, "10:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
