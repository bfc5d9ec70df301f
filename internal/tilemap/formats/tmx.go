package formats

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// TMXMap is the subset of the Tiled XML map format the game reads.
type TMXMap struct {
	XMLName      xml.Name         `xml:"map"`
	Orientation  string           `xml:"orientation,attr"`
	Width        int              `xml:"width,attr"`
	Height       int              `xml:"height,attr"`
	TileWidth    int              `xml:"tilewidth,attr"`
	TileHeight   int              `xml:"tileheight,attr"`
	Properties   []TMXProperty    `xml:"properties>property"`
	Tilesets     []TMXTileset     `xml:"tileset"`
	Layers       []TMXLayer       `xml:"layer"`
	ObjectGroups []TMXObjectGroup `xml:"objectgroup"`
}

// TMXProperty is a custom key/value property.
type TMXProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// TMXTileset is an embedded or external tileset reference.
type TMXTileset struct {
	FirstGID   uint32   `xml:"firstgid,attr"`
	Source     string   `xml:"source,attr"`
	Name       string   `xml:"name,attr"`
	TileWidth  int      `xml:"tilewidth,attr"`
	TileHeight int      `xml:"tileheight,attr"`
	TileCount  int      `xml:"tilecount,attr"`
	Columns    int      `xml:"columns,attr"`
	Margin     int      `xml:"margin,attr"`
	Spacing    int      `xml:"spacing,attr"`
	Image      TMXImage `xml:"image"`
}

// TMXImage references the tileset's source image.
type TMXImage struct {
	Source string `xml:"source,attr"`
	Width  int    `xml:"width,attr"`
	Height int    `xml:"height,attr"`
}

// TMXLayer is a tile layer.
type TMXLayer struct {
	Name    string  `xml:"name,attr"`
	Width   int     `xml:"width,attr"`
	Height  int     `xml:"height,attr"`
	Visible *int    `xml:"visible,attr"`
	Data    TMXData `xml:"data"`
}

// TMXData holds layer tiles as CSV, base64 or child elements.
type TMXData struct {
	Encoding    string    `xml:"encoding,attr"`
	Compression string    `xml:"compression,attr"`
	Inner       string    `xml:",chardata"`
	Tiles       []TMXTile `xml:"tile"`
}

// TMXTile is a single tile in XML-encoded data.
type TMXTile struct {
	GID uint32 `xml:"gid,attr"`
}

// TMXObjectGroup is an object layer.
type TMXObjectGroup struct {
	Name    string      `xml:"name,attr"`
	Visible *int        `xml:"visible,attr"`
	Objects []TMXObject `xml:"object"`
}

// TMXObject is a placed object.
type TMXObject struct {
	ID     int     `xml:"id,attr"`
	Name   string  `xml:"name,attr"`
	Type   string  `xml:"type,attr"`
	Class  string  `xml:"class,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

// ParseTMX parses a Tiled .tmx map. External tilesets (.tsx) are read
// through resolve relative to the map file.
func ParseTMX(data []byte, resolve func(string) ([]byte, error)) (Map, error) {
	var tm TMXMap
	if err := xml.Unmarshal(data, &tm); err != nil {
		return Map{}, fmt.Errorf("tmx unmarshal: %w", err)
	}
	if tm.Orientation != "" && tm.Orientation != "orthogonal" {
		return Map{}, fmt.Errorf("unsupported orientation %q", tm.Orientation)
	}

	m := Map{
		TileWidth:  tm.TileWidth,
		TileHeight: tm.TileHeight,
		Cols:       tm.Width,
		Rows:       tm.Height,
	}
	for _, p := range tm.Properties {
		switch p.Name {
		case "id":
			m.ID = p.Value
		case "name":
			m.Name = p.Value
		}
	}

	for _, ts := range tm.Tilesets {
		if ts.Source != "" {
			ext, err := loadExternalTileset(ts, resolve)
			if err != nil {
				return Map{}, err
			}
			ts = ext
		}
		tw, th := ts.TileWidth, ts.TileHeight
		if tw == 0 {
			tw = tm.TileWidth
		}
		if th == 0 {
			th = tm.TileHeight
		}
		columns := ts.Columns
		if columns == 0 && ts.Image.Width > 0 && tw > 0 {
			columns = (ts.Image.Width - 2*ts.Margin + ts.Spacing) / (tw + ts.Spacing)
		}
		m.Tilesets = append(m.Tilesets, Tileset{
			FirstGID:   ts.FirstGID,
			Name:       ts.Name,
			Image:      ts.Image.Source,
			TileWidth:  tw,
			TileHeight: th,
			Columns:    columns,
			TileCount:  ts.TileCount,
			Margin:     ts.Margin,
			Spacing:    ts.Spacing,
		})
	}

	for _, tl := range tm.Layers {
		gids, err := decodeTMXData(tl.Data, tm.Width*tm.Height)
		if err != nil {
			return Map{}, fmt.Errorf("layer %q: %w", tl.Name, err)
		}
		m.Layers = append(m.Layers, Layer{
			Name:    tl.Name,
			Visible: tl.Visible == nil || *tl.Visible != 0,
			GIDs:    gids,
		})
	}

	for _, og := range tm.ObjectGroups {
		if og.Visible != nil && *og.Visible == 0 {
			continue
		}
		for _, o := range og.Objects {
			m.Objects = append(m.Objects, Object{
				Name:   o.Name,
				X:      o.X,
				Y:      o.Y,
				Width:  o.Width,
				Height: o.Height,
			})
		}
	}

	if err := m.Validate(); err != nil {
		return Map{}, err
	}
	return m, nil
}

func loadExternalTileset(ref TMXTileset, resolve func(string) ([]byte, error)) (TMXTileset, error) {
	if resolve == nil {
		return TMXTileset{}, fmt.Errorf("external tileset %q: no resolver", ref.Source)
	}
	data, err := resolve(ref.Source)
	if err != nil {
		return TMXTileset{}, fmt.Errorf("external tileset %q: %w", ref.Source, err)
	}

	var ts TMXTileset
	if err := xml.Unmarshal(data, &ts); err != nil {
		return TMXTileset{}, fmt.Errorf("external tileset %q: %w", ref.Source, err)
	}
	ts.FirstGID = ref.FirstGID
	// Image paths inside a .tsx are relative to the .tsx itself.
	if ts.Image.Source != "" {
		ts.Image.Source = path.Join(path.Dir(ref.Source), ts.Image.Source)
	}
	return ts, nil
}

func decodeTMXData(d TMXData, want int) ([]uint32, error) {
	var gids []uint32

	switch d.Encoding {
	case "csv":
		for _, field := range strings.Split(d.Inner, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.ParseUint(field, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("csv gid %q: %w", field, err)
			}
			gids = append(gids, uint32(v))
		}
	case "base64":
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(d.Inner))
		if err != nil {
			return nil, fmt.Errorf("base64: %w", err)
		}
		raw, err = decompress(raw, d.Compression)
		if err != nil {
			return nil, err
		}
		if len(raw)%4 != 0 {
			return nil, fmt.Errorf("base64 payload is %d bytes, not a multiple of 4", len(raw))
		}
		for i := 0; i < len(raw); i += 4 {
			gids = append(gids, binary.LittleEndian.Uint32(raw[i:]))
		}
	case "":
		for _, t := range d.Tiles {
			gids = append(gids, t.GID)
		}
	default:
		return nil, fmt.Errorf("unsupported encoding %q", d.Encoding)
	}

	if len(gids) != want {
		return nil, fmt.Errorf("got %d tiles, want %d", len(gids), want)
	}
	for i := range gids {
		gids[i] &= gidFlagMask
	}
	return gids, nil
}

func decompress(raw []byte, compression string) ([]byte, error) {
	var r io.ReadCloser
	var err error

	switch compression {
	case "":
		return raw, nil
	case "zlib":
		r, err = zlib.NewReader(bytes.NewReader(raw))
	case "gzip":
		r, err = gzip.NewReader(bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("unsupported compression %q", compression)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", compression, err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", compression, err)
	}
	return out, nil
}
