package tui

import (
	"image"
	"image/color"
	"unicode/utf8"

	xdraw "golang.org/x/image/draw"

	"github.com/vovakirdan/tui-zombies/internal/core"
	"github.com/vovakirdan/tui-zombies/internal/render"
)

// halfBlock shows the upper pixel in the foreground color and the lower
// pixel in the background color.
const halfBlock = '▀'

// Presenter rasterizes composed frames into half-block cells. The bottom
// row of the screen is left for the status line.
type Presenter struct {
	scratch *image.RGBA
}

// NewPresenter creates a presenter.
func NewPresenter() *Presenter {
	return &Presenter{}
}

// Present draws img scaled to fit dst above the status row, then the labels.
// Label positions are in img pixels.
func (p *Presenter) Present(dst *core.Screen, img *image.RGBA, labels []render.Label) {
	dst.Clear()
	cols, rows := dst.Width(), dst.Height()-1
	if img == nil || cols <= 0 || rows <= 0 {
		return
	}

	pw, ph := cols, rows*2
	if p.scratch == nil || p.scratch.Bounds().Dx() != pw || p.scratch.Bounds().Dy() != ph {
		p.scratch = image.NewRGBA(image.Rect(0, 0, pw, ph))
	}
	xdraw.BiLinear.Scale(p.scratch, p.scratch.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			dst.SetCell(x, y, core.Cell{
				Rune: halfBlock,
				FG:   opaque(p.scratch.RGBAAt(x, 2*y)),
				BG:   opaque(p.scratch.RGBAAt(x, 2*y+1)),
			})
		}
	}

	b := img.Bounds()
	for _, l := range labels {
		col := (l.X - b.Min.X) * cols / max(b.Dx(), 1)
		row := (l.Y - b.Min.Y) * rows / max(b.Dy(), 1)
		n := utf8.RuneCountInString(l.Text)
		switch l.Align {
		case render.AlignCenter:
			col -= n / 2
		case render.AlignRight:
			col -= n
		}
		dst.DrawText(col, row, l.Text, l.Color)
	}
}

// opaque drops alpha so a pixel always paints its cell.
func opaque(c color.RGBA) color.RGBA {
	c.A = 255
	return c
}
