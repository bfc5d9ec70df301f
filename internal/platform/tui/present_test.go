package tui

import (
	"image"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"

	"github.com/vovakirdan/tui-zombies/internal/core"
	"github.com/vovakirdan/tui-zombies/internal/render"
)

func twoTone(w, h int, top, bottom color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(img, image.Rect(0, 0, w, h/2), image.NewUniform(top), image.Point{}, xdraw.Src)
	xdraw.Draw(img, image.Rect(0, h/2, w, h), image.NewUniform(bottom), image.Point{}, xdraw.Src)
	return img
}

func TestPresentHalfBlocks(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}

	// 2 columns and 1 frame row plus the status row: 2x2 half-block pixels,
	// the same size as the frame.
	dst := core.NewScreen(2, 2)
	NewPresenter().Present(dst, twoTone(2, 2, red, blue), nil)

	for x := 0; x < 2; x++ {
		c := dst.GetCell(x, 0)
		if c.Rune != halfBlock {
			t.Errorf("cell %d rune = %q, want half block", x, c.Rune)
		}
		if c.FG != red || c.BG != blue {
			t.Errorf("cell %d = fg %v bg %v, want red over blue", x, c.FG, c.BG)
		}
	}
	if status := dst.GetCell(0, 1); status.Rune != ' ' || status.BG.A != 0 {
		t.Errorf("status row should stay blank, got %+v", status)
	}
}

func TestPresentLabels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	dst := core.NewScreen(10, 6) // 5 frame rows

	labels := []render.Label{
		{X: 0, Y: 0, Text: "HP", Color: core.ColorWhite, Align: render.AlignLeft},
		{X: 20, Y: 16, Text: "mid", Color: core.ColorRed, Align: render.AlignCenter},
		{X: 40, Y: 32, Text: "end", Color: core.ColorWhite, Align: render.AlignRight},
	}
	NewPresenter().Present(dst, img, labels)

	tests := []struct {
		row  int
		want string
	}{
		{0, "HP"},
		{2, "    mid"},
		{4, "       end"},
	}
	for _, tt := range tests {
		got := strings.ReplaceAll(dst.Row(tt.row), string(halfBlock), " ")
		got = strings.TrimRight(got, " ")
		if got != tt.want {
			t.Errorf("row %d = %q, want %q", tt.row, got, tt.want)
		}
	}
	if c := dst.GetCell(5, 2); c.FG != core.ColorRed {
		t.Errorf("label color = %v, want red", c.FG)
	}
}

func TestPresentNilFrame(t *testing.T) {
	dst := core.NewScreen(4, 3)
	dst.DrawText(0, 0, "old", core.ColorWhite)
	NewPresenter().Present(dst, nil, nil)
	if got := dst.Row(0); got != "    " {
		t.Errorf("row 0 = %q, want cleared", got)
	}
}

func TestPainterPlainProfile(t *testing.T) {
	// A renderer on a non-terminal writer has no color profile, so only the
	// runes remain.
	p := NewPainter(lipgloss.NewRenderer(io.Discard))

	s := core.NewScreen(4, 2)
	s.SetCell(0, 0, core.Cell{Rune: halfBlock, FG: core.ColorRed, BG: core.ColorGreen})
	s.SetCell(1, 0, core.Cell{Rune: halfBlock, FG: core.ColorRed, BG: core.ColorGreen})
	s.DrawText(0, 1, "ok", core.ColorWhite)

	want := string(halfBlock) + string(halfBlock) + "  \nok  "
	if got := p.Render(s); got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestHexColor(t *testing.T) {
	if got := hexColor(color.RGBA{255, 16, 0, 255}); got != lipgloss.Color("#ff1000") {
		t.Errorf("hexColor = %q", got)
	}
}
