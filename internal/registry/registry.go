// Package registry provides the catalog of playable maps.
// Built-in maps are registered first, then maps found in the user's map
// directory, so the number keys on the map-select screen stay stable.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-zombies/internal/tilemap"
	"github.com/vovakirdan/tui-zombies/internal/tilemap/formats"
)

// MaxSelectable is the number of maps reachable from the number keys.
const MaxSelectable = 9

// MapInfo contains metadata about a registered map.
type MapInfo struct {
	ID      string
	Title   string
	Zombies int
	Builtin bool
}

type entry struct {
	info MapInfo
	fsys fs.FS
	file string
}

// Catalog is an ordered set of maps. It is safe for concurrent use, so the
// SSH server can share one catalog between sessions.
type Catalog struct {
	mu      sync.RWMutex
	entries []entry
	index   map[string]int
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{index: make(map[string]int)}
}

// Register adds the map stored at file inside fsys. The map is loaded once to
// validate it and read its title. Returns an error if the map cannot be
// loaded or its ID is already registered.
func (c *Catalog) Register(fsys fs.FS, file string, builtin bool) (MapInfo, error) {
	tm, err := tilemap.Load(fsys, file)
	if err != nil {
		return MapInfo{}, err
	}

	info := MapInfo{
		ID:      tm.ID(),
		Title:   tm.Name(),
		Zombies: tm.CountKind(tilemap.KindZombie),
		Builtin: builtin,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.index[info.ID]; exists {
		return MapInfo{}, fmt.Errorf("registry: map %q already registered", info.ID)
	}
	c.index[info.ID] = len(c.entries)
	c.entries = append(c.entries, entry{info: info, fsys: fsys, file: file})
	return info, nil
}

// RegisterDir registers every map file in the root of fsys, sorted by file
// name. Files that fail to load are reported through onError and skipped.
func (c *Catalog) RegisterDir(fsys fs.FS, builtin bool, onError func(file string, err error)) error {
	dirents, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("registry: cannot read map directory: %w", err)
	}

	var files []string
	for _, d := range dirents {
		if d.IsDir() || !isMapFile(d.Name()) {
			continue
		}
		files = append(files, d.Name())
	}
	sort.Strings(files)

	for _, f := range files {
		if _, err := c.Register(fsys, f, builtin); err != nil && onError != nil {
			onError(f, err)
		}
	}
	return nil
}

func isMapFile(name string) bool {
	return slices.Contains(formats.FormatExtensions(), strings.ToLower(path.Ext(name)))
}

// List returns information about all registered maps in selection order.
func (c *Catalog) List() []MapInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]MapInfo, len(c.entries))
	for i, e := range c.entries {
		result[i] = e.info
	}
	return result
}

// Len returns the number of registered maps.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Selectable returns how many maps can be picked with the number keys.
func (c *Catalog) Selectable() int {
	return min(c.Len(), MaxSelectable)
}

// At returns the map at zero-based selection index i.
func (c *Catalog) At(i int) (MapInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i < 0 || i >= len(c.entries) {
		return MapInfo{}, false
	}
	return c.entries[i].info, true
}

// Exists checks if a map with the given ID is registered.
func (c *Catalog) Exists(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.index[id]
	return ok
}

// Load composes a fresh copy of the map with the given ID.
// Returns an error if the map ID is not registered.
func (c *Catalog) Load(id string, opts ...tilemap.Option) (*tilemap.TileMap, error) {
	c.mu.RLock()
	i, ok := c.index[id]
	var e entry
	if ok {
		e = c.entries[i]
	}
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown map %q", id)
	}
	return tilemap.Load(e.fsys, e.file, opts...)
}

// Default builds the standard catalog: the built-in maps followed by any
// maps in userDir. A missing userDir is not an error.
func Default(userDir string, logger *log.Logger) (*Catalog, error) {
	c := New()
	if err := c.RegisterDir(tilemap.Builtin(), true, func(file string, err error) {
		if logger != nil {
			logger.Error("built-in map failed to load", "file", file, "err", err)
		}
	}); err != nil {
		return nil, err
	}

	if userDir == "" {
		return c, nil
	}
	if _, err := os.Stat(userDir); errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	err := c.RegisterDir(os.DirFS(userDir), false, func(file string, err error) {
		if logger != nil {
			logger.Warn("skipping map", "file", filepath.Join(userDir, file), "err", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
