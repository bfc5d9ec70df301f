// Package tilemap loads map files into a composed background image and an
// ordered list of object placements. A TileMap is immutable after Load.
package tilemap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"path"
	"strings"

	_ "image/png" // tileset images

	xdraw "golang.org/x/image/draw"

	"github.com/vovakirdan/tui-zombies/internal/core"
	"github.com/vovakirdan/tui-zombies/internal/tilemap/formats"
)

// Kind identifies what an object placement spawns.
type Kind int

const (
	KindPlayer Kind = iota
	KindZombie
	KindWall
	KindHealth
	KindShotgun
)

var kindNames = map[string]Kind{
	"player":  KindPlayer,
	"zombie":  KindZombie,
	"wall":    KindWall,
	"health":  KindHealth,
	"shotgun": KindShotgun,
}

// ParseKind maps an object name to its kind.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindNames[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// String returns the object name for the kind.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindZombie:
		return "zombie"
	case KindWall:
		return "wall"
	case KindHealth:
		return "health"
	case KindShotgun:
		return "shotgun"
	default:
		return "unknown"
	}
}

// Object is a typed placement. Pos is the center of the object's rectangle.
type Object struct {
	Kind Kind
	Name string
	Pos  core.Vec2
	Size core.Vec2
}

// Rect returns the object's rectangle in world pixels.
func (o Object) Rect() core.Rect {
	return core.RectFromCenter(o.Pos, o.Size.X, o.Size.Y)
}

// ResourceLoadError reports a missing or malformed map or tileset.
type ResourceLoadError struct {
	Path string
	Err  error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("tilemap: cannot load %s: %v", e.Path, e.Err)
}

func (e *ResourceLoadError) Unwrap() error {
	return e.Err
}

// InvalidMapObjectError reports an object entry with an unrecognized name.
// Such entries are skipped.
type InvalidMapObjectError struct {
	Map   string
	Name  string
	Index int
}

func (e *InvalidMapObjectError) Error() string {
	return fmt.Sprintf("tilemap: %s: object %d has unknown name %q", e.Map, e.Index, e.Name)
}

// ImageLoader loads a tileset image by path.
type ImageLoader func(name string) (image.Image, error)

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	images   ImageLoader
	onObject func(error)
}

// WithImageLoader routes tileset image loads through fn instead of decoding
// them from the map's filesystem.
func WithImageLoader(fn ImageLoader) Option {
	return func(o *loadOptions) {
		o.images = fn
	}
}

// WithObjectHook receives an *InvalidMapObjectError for every skipped object.
func WithObjectHook(fn func(error)) Option {
	return func(o *loadOptions) {
		o.onObject = fn
	}
}

// TileMap is a loaded, composed map.
type TileMap struct {
	id         string
	name       string
	tileWidth  int
	tileHeight int
	cols       int
	rows       int
	background *image.RGBA
	objects    []Object
}

// ID returns the map identifier.
func (m *TileMap) ID() string { return m.id }

// Name returns the display name.
func (m *TileMap) Name() string { return m.name }

// PixelWidth returns the map width in pixels.
func (m *TileMap) PixelWidth() int { return m.cols * m.tileWidth }

// PixelHeight returns the map height in pixels.
func (m *TileMap) PixelHeight() int { return m.rows * m.tileHeight }

// TileSize returns the tile dimensions in pixels.
func (m *TileMap) TileSize() (int, int) { return m.tileWidth, m.tileHeight }

// Grid returns the map dimensions in tiles.
func (m *TileMap) Grid() (int, int) { return m.cols, m.rows }

// Background returns the composed background. It is shared and must not be
// modified; callers that draw decals onto it take a copy first.
func (m *TileMap) Background() *image.RGBA { return m.background }

// Objects returns the placements in file order.
func (m *TileMap) Objects() []Object {
	out := make([]Object, len(m.objects))
	copy(out, m.objects)
	return out
}

// CountKind returns the number of placements of the given kind.
func (m *TileMap) CountKind(k Kind) int {
	n := 0
	for _, o := range m.objects {
		if o.Kind == k {
			n++
		}
	}
	return n
}

// Load reads and composes the map at name inside fsys.
// Tileset images and external tilesets are resolved relative to the map file.
func Load(fsys fs.FS, name string, opts ...Option) (*TileMap, error) {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, &ResourceLoadError{Path: name, Err: err}
	}

	dir := path.Dir(name)
	resolve := func(rel string) ([]byte, error) {
		return fs.ReadFile(fsys, path.Join(dir, rel))
	}
	parsed, err := formats.Parse(data, path.Ext(name), resolve)
	if err != nil {
		return nil, &ResourceLoadError{Path: name, Err: err}
	}
	if parsed.ID == "" {
		parsed.ID = strings.TrimSuffix(path.Base(name), path.Ext(name))
	}
	if parsed.Name == "" {
		parsed.Name = parsed.ID
	}

	images := o.images
	if images == nil {
		images = func(rel string) (image.Image, error) {
			f, err := fsys.Open(rel)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			img, _, err := image.Decode(f)
			return img, err
		}
	}
	relImages := func(rel string) (image.Image, error) {
		return images(path.Join(dir, rel))
	}

	return compose(parsed, relImages, o.onObject)
}

// FromFormat composes an already parsed map. Image tilesets are loaded
// through images, which may be nil for palette-only maps.
func FromFormat(parsed formats.Map, images ImageLoader, onObject func(error)) (*TileMap, error) {
	if images == nil {
		images = func(name string) (image.Image, error) {
			return nil, fmt.Errorf("no image loader for %s", name)
		}
	}
	return compose(parsed, images, onObject)
}

func compose(parsed formats.Map, images ImageLoader, onObject func(error)) (*TileMap, error) {
	if err := parsed.Validate(); err != nil {
		return nil, &ResourceLoadError{Path: parsed.ID, Err: err}
	}

	tiles, err := buildTileSource(parsed, images)
	if err != nil {
		return nil, &ResourceLoadError{Path: parsed.ID, Err: err}
	}

	m := &TileMap{
		id:         parsed.ID,
		name:       parsed.Name,
		tileWidth:  parsed.TileWidth,
		tileHeight: parsed.TileHeight,
		cols:       parsed.Cols,
		rows:       parsed.Rows,
	}
	m.background = m.paint(parsed.Layers, tiles)

	for i, raw := range parsed.Objects {
		kind, ok := ParseKind(raw.Name)
		if !ok {
			if onObject != nil {
				onObject(&InvalidMapObjectError{Map: parsed.ID, Name: raw.Name, Index: i})
			}
			continue
		}
		m.objects = append(m.objects, Object{
			Kind: kind,
			Name: raw.Name,
			Pos:  core.V(raw.X+raw.Width/2, raw.Y+raw.Height/2),
			Size: core.V(raw.Width, raw.Height),
		})
	}

	return m, nil
}

// paint draws every visible layer in order onto an opaque black canvas.
func (m *TileMap) paint(layers []formats.Layer, tiles *tileSource) *image.RGBA {
	bg := image.NewRGBA(image.Rect(0, 0, m.PixelWidth(), m.PixelHeight()))
	xdraw.Draw(bg, bg.Bounds(), image.NewUniform(color.RGBA{A: 255}), image.Point{}, xdraw.Src)

	for _, layer := range layers {
		if !layer.Visible {
			continue
		}
		for i, gid := range layer.GIDs {
			if gid == 0 {
				continue
			}
			tile := tiles.lookup(gid)
			if tile == nil {
				continue
			}
			x := (i % m.cols) * m.tileWidth
			y := (i / m.cols) * m.tileHeight
			dst := image.Rect(x, y, x+m.tileWidth, y+m.tileHeight)
			xdraw.Draw(bg, dst, tile, tile.Bounds().Min, xdraw.Over)
		}
	}
	return bg
}

// tileSource resolves gids to tile images already sized to the map grid.
type tileSource struct {
	tiles map[uint32]image.Image
}

func (s *tileSource) lookup(gid uint32) image.Image {
	return s.tiles[gid]
}

func buildTileSource(parsed formats.Map, images ImageLoader) (*tileSource, error) {
	src := &tileSource{tiles: make(map[uint32]image.Image)}
	tw, th := parsed.TileWidth, parsed.TileHeight

	for _, ts := range parsed.Tilesets {
		if len(ts.Palette) > 0 {
			for i, hex := range ts.Palette {
				c, ok := core.ParseHex(hex)
				if !ok {
					return nil, fmt.Errorf("tileset %q: bad palette color %q", ts.Name, hex)
				}
				src.tiles[ts.FirstGID+uint32(i)] = solidTile(c, tw, th)
			}
			continue
		}

		img, err := images(ts.Image)
		if err != nil {
			return nil, fmt.Errorf("tileset %q: %w", ts.Name, err)
		}
		if err := sliceTileset(src, ts, img, tw, th); err != nil {
			return nil, err
		}
	}

	return src, nil
}

func sliceTileset(src *tileSource, ts formats.Tileset, img image.Image, tw, th int) error {
	stw, sth := ts.TileWidth, ts.TileHeight
	if stw <= 0 {
		stw = tw
	}
	if sth <= 0 {
		sth = th
	}

	b := img.Bounds()
	count := ts.TileCount
	if count <= 0 {
		rows := (b.Dy() - 2*ts.Margin + ts.Spacing) / (sth + ts.Spacing)
		count = rows * ts.Columns
	}
	if count <= 0 {
		return fmt.Errorf("tileset %q: image %dx%d holds no tiles", ts.Name, b.Dx(), b.Dy())
	}

	for i := 0; i < count; i++ {
		col, row := i%ts.Columns, i/ts.Columns
		x := b.Min.X + ts.Margin + col*(stw+ts.Spacing)
		y := b.Min.Y + ts.Margin + row*(sth+ts.Spacing)
		r := image.Rect(x, y, x+stw, y+sth)
		if !r.In(b) {
			return fmt.Errorf("tileset %q: tile %d outside image", ts.Name, i)
		}

		// Copy the tile out at map tile size so painting is a straight blit.
		tile := image.NewRGBA(image.Rect(0, 0, tw, th))
		if stw == tw && sth == th {
			xdraw.Draw(tile, tile.Bounds(), img, r.Min, xdraw.Src)
		} else {
			xdraw.NearestNeighbor.Scale(tile, tile.Bounds(), img, r, xdraw.Src, nil)
		}
		src.tiles[ts.FirstGID+uint32(i)] = tile
	}
	return nil
}

func solidTile(c color.RGBA, w, h int) image.Image {
	tile := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(tile, tile.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
	return tile
}

// IsResourceLoad reports whether err is or wraps a ResourceLoadError.
func IsResourceLoad(err error) bool {
	var rle *ResourceLoadError
	return errors.As(err, &rle)
}
