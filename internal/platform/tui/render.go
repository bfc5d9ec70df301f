package tui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-zombies/internal/core"
)

// maxCachedStyles bounds the style cache; truecolor frames can produce many
// distinct color pairs.
const maxCachedStyles = 4096

type colorPair struct {
	fg, bg color.RGBA
}

// Painter converts a Screen buffer to a styled string for display. Styles
// come from one lipgloss renderer, so SSH sessions get their own client's
// color profile.
type Painter struct {
	renderer *lipgloss.Renderer
	styles   map[colorPair]lipgloss.Style
}

// NewPainter creates a painter for r. A nil renderer means the default one.
func NewPainter(r *lipgloss.Renderer) *Painter {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Painter{renderer: r, styles: make(map[colorPair]lipgloss.Style)}
}

// Renderer returns the lipgloss renderer styles are built from.
func (p *Painter) Renderer() *lipgloss.Renderer { return p.renderer }

func (p *Painter) style(k colorPair) lipgloss.Style {
	if st, ok := p.styles[k]; ok {
		return st
	}
	if len(p.styles) >= maxCachedStyles {
		clear(p.styles)
	}
	st := p.renderer.NewStyle()
	if k.fg.A != 0 {
		st = st.Foreground(hexColor(k.fg))
	}
	if k.bg.A != 0 {
		st = st.Background(hexColor(k.bg))
	}
	p.styles[k] = st
	return st
}

// Render groups adjacent cells with the same colors to minimize ANSI
// escape sequences.
func (p *Painter) Render(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*8 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			k := colorPair{cell.FG, cell.BG}

			run.Reset()
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.FG != k.fg || cell.BG != k.bg {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if k == (colorPair{}) {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(p.style(k).Render(run.String()))
		}
	}
	return sb.String()
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
