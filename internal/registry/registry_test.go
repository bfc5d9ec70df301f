package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

const smallMap = `
name: %s
tile_size: 4
width: 2
height: 2
tilesets:
  - first_gid: 1
    palette: ["#202020"]
layers:
  - name: ground
    data: [1, 1, 1, 1]
objects:
  - {name: player, x: 0, y: 0, width: 4, height: 4}
  - {name: zombie, x: 4, y: 4, width: 4, height: 4}
`

func mapFile(title string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(fmt.Sprintf(smallMap, title))}
}

func TestRegisterAndList(t *testing.T) {
	fsys := fstest.MapFS{
		"b.yaml":     mapFile("Bravo"),
		"a.yaml":     mapFile("Alpha"),
		"notes.txt":  {Data: []byte("ignored")},
		"broken.yml": {Data: []byte("layers: [unterminated")},
	}

	c := New()
	var failed []string
	if err := c.RegisterDir(fsys, false, func(file string, err error) {
		failed = append(failed, file)
	}); err != nil {
		t.Fatalf("RegisterDir: %v", err)
	}

	if len(failed) != 1 || failed[0] != "broken.yml" {
		t.Errorf("failed = %v, want [broken.yml]", failed)
	}

	list := c.List()
	if len(list) != 2 {
		t.Fatalf("Expected 2 maps, got %d", len(list))
	}
	if list[0].ID != "a" || list[0].Title != "Alpha" || list[1].ID != "b" {
		t.Errorf("list = %+v, want a/Alpha then b", list)
	}
	if list[0].Zombies != 1 {
		t.Errorf("Zombies = %d, want 1", list[0].Zombies)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	fsys := fstest.MapFS{"a.yaml": mapFile("Alpha")}

	c := New()
	if _, err := c.Register(fsys, "a.yaml", false); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := c.Register(fsys, "a.yaml", false); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestAtAndLoad(t *testing.T) {
	fsys := fstest.MapFS{"a.yaml": mapFile("Alpha")}
	c := New()
	c.Register(fsys, "a.yaml", false)

	tests := []struct {
		index int
		ok    bool
	}{
		{-1, false},
		{0, true},
		{1, false},
	}
	for _, tt := range tests {
		if _, ok := c.At(tt.index); ok != tt.ok {
			t.Errorf("At(%d) ok = %v, want %v", tt.index, ok, tt.ok)
		}
	}

	m, err := c.Load("a")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.PixelWidth() != 8 || m.PixelHeight() != 8 {
		t.Errorf("size = %dx%d, want 8x8", m.PixelWidth(), m.PixelHeight())
	}

	if _, err := c.Load("missing"); err == nil {
		t.Error("expected error for unknown map")
	}
	if !c.Exists("a") || c.Exists("missing") {
		t.Error("Exists mismatch")
	}
}

func TestDefaultCatalog(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "custom.yaml"), []byte(fmt.Sprintf(smallMap, "Custom")), 0o600); err != nil {
		t.Fatal(err)
	}
	// Same ID as a built-in map: skipped, built-ins keep their slots.
	if err := os.WriteFile(filepath.Join(dir, "level1.yaml"), []byte(fmt.Sprintf(smallMap, "Impostor")), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Default(dir, nil)
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	list := c.List()
	if len(list) != 3 {
		t.Fatalf("Expected 3 maps, got %+v", list)
	}
	if !list[0].Builtin || !list[1].Builtin || list[2].Builtin {
		t.Errorf("builtin flags = %v %v %v", list[0].Builtin, list[1].Builtin, list[2].Builtin)
	}
	if list[0].ID != "level1" || list[0].Title == "Impostor" {
		t.Errorf("first map = %+v, want built-in level1", list[0])
	}
	if list[2].ID != "custom" {
		t.Errorf("user map = %+v, want custom", list[2])
	}
	if c.Selectable() != 3 {
		t.Errorf("Selectable = %d, want 3", c.Selectable())
	}
}

func TestDefaultWithoutUserDir(t *testing.T) {
	c, err := Default(filepath.Join(t.TempDir(), "nope"), nil)
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want the 2 built-in maps", c.Len())
	}
}
