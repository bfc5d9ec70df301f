package formats

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLMap represents the YAML structure for a map file.
//
// Tile layers are given either as a flat gid list (data) or as text rows
// decoded through the legend. A legend entry may also place an object the
// size of one tile in every cell that uses its character.
type YAMLMap struct {
	ID         string                `yaml:"id"`
	Name       string                `yaml:"name"`
	TileSize   int                   `yaml:"tile_size,omitempty"`
	TileWidth  int                   `yaml:"tile_width,omitempty"`
	TileHeight int                   `yaml:"tile_height,omitempty"`
	Width      int                   `yaml:"width,omitempty"`
	Height     int                   `yaml:"height,omitempty"`
	Legend     map[string]YAMLLegend `yaml:"legend,omitempty"`
	Tilesets   []YAMLTileset         `yaml:"tilesets"`
	Layers     []YAMLLayer           `yaml:"layers"`
	Objects    []YAMLObject          `yaml:"objects,omitempty"`
}

// YAMLLegend describes what a character in a text row stands for.
type YAMLLegend struct {
	Tile   uint32 `yaml:"tile"`
	Object string `yaml:"object,omitempty"`
}

// YAMLTileset is either an image sliced into tiles or a color palette.
type YAMLTileset struct {
	FirstGID  uint32   `yaml:"first_gid"`
	Name      string   `yaml:"name,omitempty"`
	Image     string   `yaml:"image,omitempty"`
	Columns   int      `yaml:"columns,omitempty"`
	TileCount int      `yaml:"tile_count,omitempty"`
	Margin    int      `yaml:"margin,omitempty"`
	Spacing   int      `yaml:"spacing,omitempty"`
	Palette   []string `yaml:"palette,omitempty"`
}

// YAMLLayer is a single tile layer.
type YAMLLayer struct {
	Name    string   `yaml:"name"`
	Visible *bool    `yaml:"visible,omitempty"`
	Data    []uint32 `yaml:"data,omitempty"`
	Rows    []string `yaml:"rows,omitempty"`
}

// YAMLObject is an object placement in pixels, anchored top-left.
type YAMLObject struct {
	Name   string  `yaml:"name"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ParseYAML parses a YAML map file.
func ParseYAML(data []byte) (Map, error) {
	var ym YAMLMap
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return Map{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	m := Map{
		ID:         ym.ID,
		Name:       ym.Name,
		TileWidth:  firstPositive(ym.TileWidth, ym.TileSize),
		TileHeight: firstPositive(ym.TileHeight, ym.TileSize),
		Cols:       ym.Width,
		Rows:       ym.Height,
	}
	if m.Name == "" {
		m.Name = m.ID
	}

	// Grid size may come from the first text layer.
	if m.Cols == 0 || m.Rows == 0 {
		for _, l := range ym.Layers {
			if len(l.Rows) > 0 {
				m.Rows = len(l.Rows)
				m.Cols = len([]rune(l.Rows[0]))
				break
			}
		}
	}

	for _, ts := range ym.Tilesets {
		m.Tilesets = append(m.Tilesets, Tileset{
			FirstGID:   ts.FirstGID,
			Name:       ts.Name,
			Image:      ts.Image,
			TileWidth:  m.TileWidth,
			TileHeight: m.TileHeight,
			Columns:    ts.Columns,
			TileCount:  ts.TileCount,
			Margin:     ts.Margin,
			Spacing:    ts.Spacing,
			Palette:    ts.Palette,
		})
	}

	for _, o := range ym.Objects {
		m.Objects = append(m.Objects, Object(o))
	}

	for i, yl := range ym.Layers {
		layer := Layer{Name: yl.Name, Visible: yl.Visible == nil || *yl.Visible}
		if layer.Name == "" {
			layer.Name = fmt.Sprintf("layer%d", i)
		}

		switch {
		case len(yl.Rows) > 0:
			gids, objs, err := decodeRows(yl.Rows, ym.Legend, m.Cols, m.TileWidth, m.TileHeight)
			if err != nil {
				return Map{}, fmt.Errorf("layer %q: %w", layer.Name, err)
			}
			layer.GIDs = gids
			m.Objects = append(m.Objects, objs...)
		default:
			layer.GIDs = make([]uint32, len(yl.Data))
			for j, gid := range yl.Data {
				layer.GIDs[j] = gid & gidFlagMask
			}
		}
		m.Layers = append(m.Layers, layer)
	}

	if err := m.Validate(); err != nil {
		return Map{}, err
	}
	return m, nil
}

// decodeRows turns text rows into gids and legend objects.
func decodeRows(rows []string, legend map[string]YAMLLegend, cols, tw, th int) ([]uint32, []Object, error) {
	gids := make([]uint32, 0, len(rows)*cols)
	var objs []Object

	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != cols {
			return nil, nil, fmt.Errorf("row %d has %d cells, want %d", y, len(runes), cols)
		}
		for x, r := range runes {
			if r == ' ' || r == '.' {
				if _, ok := legend[string(r)]; !ok {
					gids = append(gids, 0)
					continue
				}
			}
			entry, ok := legend[string(r)]
			if !ok {
				return nil, nil, fmt.Errorf("row %d col %d: character %q not in legend", y, x, r)
			}
			gids = append(gids, entry.Tile)
			if entry.Object != "" {
				objs = append(objs, Object{
					Name:   entry.Object,
					X:      float64(x * tw),
					Y:      float64(y * th),
					Width:  float64(tw),
					Height: float64(th),
				})
			}
		}
	}
	return gids, objs, nil
}

func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
