// Package formats provides pluggable map file format parsers.
// Parsers only decode structure; painting and object typing live in tilemap.
package formats

import (
	"fmt"
	"strings"
)

// Map is a decoded map file, independent of its on-disk format.
type Map struct {
	ID         string
	Name       string
	TileWidth  int
	TileHeight int
	Cols       int
	Rows       int
	Tilesets   []Tileset
	Layers     []Layer
	Objects    []Object
}

// Tileset maps a contiguous gid range to tile visuals. Either Image or
// Palette is set.
type Tileset struct {
	FirstGID   uint32
	Name       string
	Image      string // path relative to the map file
	TileWidth  int
	TileHeight int
	Columns    int
	TileCount  int
	Margin     int
	Spacing    int
	Palette    []string // "#rrggbb" per local tile id
}

// Layer is a grid of gids in row-major order; gid 0 is empty.
type Layer struct {
	Name    string
	Visible bool
	GIDs    []uint32
}

// Object is an object-layer entry in pixel coordinates, anchored top-left.
type Object struct {
	Name   string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Tiled stores flip flags in the top bits of a gid.
const gidFlagMask = 0x1FFFFFFF

// MaxPixels caps the composed map image on each axis.
const MaxPixels = 1 << 14

// Validate checks the structural invariants shared by all formats.
func (m *Map) Validate() error {
	if m.TileWidth <= 0 || m.TileHeight <= 0 {
		return fmt.Errorf("tile size must be positive, got %dx%d", m.TileWidth, m.TileHeight)
	}
	if m.Cols <= 0 || m.Rows <= 0 {
		return fmt.Errorf("grid size must be positive, got %dx%d", m.Cols, m.Rows)
	}
	if int64(m.Cols)*int64(m.TileWidth) > MaxPixels || int64(m.Rows)*int64(m.TileHeight) > MaxPixels {
		return fmt.Errorf("map is %dx%d tiles of %dx%d px, larger than %d px per side",
			m.Cols, m.Rows, m.TileWidth, m.TileHeight, MaxPixels)
	}
	for _, l := range m.Layers {
		if len(l.GIDs) != m.Cols*m.Rows {
			return fmt.Errorf("layer %q has %d tiles, want %d", l.Name, len(l.GIDs), m.Cols*m.Rows)
		}
	}
	for i, ts := range m.Tilesets {
		if ts.FirstGID == 0 {
			return fmt.Errorf("tileset %d: firstgid must be at least 1", i)
		}
		if ts.Image == "" && len(ts.Palette) == 0 {
			return fmt.Errorf("tileset %d: needs an image or a palette", i)
		}
		if ts.Image != "" && ts.Columns <= 0 {
			return fmt.Errorf("tileset %d: image tileset needs columns", i)
		}
	}
	return nil
}

// Parse routes data to the parser registered for ext.
// resolve loads files referenced by the map (external tilesets); it may be nil.
func Parse(data []byte, ext string, resolve func(string) ([]byte, error)) (Map, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".tmx":
		return ParseTMX(data, resolve)
	default:
		return Map{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".tmx"}
}
