package game

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/vovakirdan/tui-zombies/internal/core"
	"github.com/vovakirdan/tui-zombies/internal/entity"
	"github.com/vovakirdan/tui-zombies/internal/render"
)

var (
	colorDebug  = color.RGBA{0, 255, 255, 255}
	colorHUD    = color.RGBA{255, 255, 255, 255}
	colorPaused = color.RGBA{255, 0, 0, 255}
	colorBarBG  = color.RGBA{40, 40, 40, 255}
)

// pauseDim is the alpha of the black layer over a paused scene.
const pauseDim = 180

// compose draws the map, entities, overlays and HUD into s.frame and
// returns the text labels to lay over it.
func (s *Session) compose() []render.Label {
	f := s.frame
	render.FillRect(f, f.Bounds(), color.RGBA{A: 255})

	off := s.cam.Offset()
	render.BlitAt(f, s.ground, image.Pt(int(off.X), int(off.Y)))

	scale := s.runtime.PixelScale
	for _, e := range s.world.Drawables() {
		r := s.cam.Apply(e)
		if sp := e.Sprite(); sp.Name != "" {
			if img, ok := s.sprites.Get(sp.Name, int(r.W), int(r.H), sp.Rotation, sp.Flash); ok {
				render.Blit(f, img, point(r.Center()))
			}
		}
		if m, ok := e.(*entity.Mob); ok {
			s.drawMobHealth(m, r)
		}
		if c, ok := e.(entity.Collidable); ok && s.debug {
			render.StrokeRect(f, s.cam.ApplyRect(c.HitRect()).ToImage(), scale, colorDebug)
		}
	}

	p := s.world.Player()
	if s.night && p != nil {
		light := point(s.cam.Apply(p).Center())
		s.fog.Apply(f, light, s.cfg.Lighting.NightRGBA())
	}

	labels := s.hud(p)

	if s.paused {
		render.Dim(f, pauseDim)
		labels = append(labels, render.Label{
			X:     f.Bounds().Dx() / 2,
			Y:     f.Bounds().Dy() / 2,
			Text:  "Paused",
			Color: colorPaused,
			Align: render.AlignCenter,
		})
	}
	return labels
}

// drawMobHealth draws a thin bar above mobs that have taken damage.
func (s *Session) drawMobHealth(m *entity.Mob, r core.Rect) {
	pct := m.HealthPct()
	if pct >= 1 {
		return
	}
	scale := s.runtime.PixelScale
	bar := image.Rect(int(r.Left()), int(r.Top())-scale, int(r.Right()), int(r.Top()))
	render.HealthBar(s.frame, bar, pct, 0)
}

// hud draws the player health bar top left and returns the HUD labels.
func (s *Session) hud(p *entity.Player) []render.Label {
	scale := s.runtime.PixelScale
	w := s.frame.Bounds().Dx()

	var labels []render.Label
	if p != nil {
		bar := image.Rect(scale, scale, 27*scale, 5*scale)
		render.FillRect(s.frame, bar, colorBarBG)
		render.HealthBar(s.frame, bar, p.HealthPct(), scale)
		labels = append(labels, render.Label{
			X:     29 * scale,
			Y:     2 * scale,
			Text:  strings.ToUpper(p.Weapon()),
			Color: colorHUD,
		})
	}
	labels = append(labels, render.Label{
		X:     w - scale,
		Y:     0,
		Text:  fmt.Sprintf("Zombies: %d", s.world.MobCount()),
		Color: colorHUD,
		Align: render.AlignRight,
	})
	return labels
}

func point(v core.Vec2) image.Point {
	return image.Pt(int(v.X), int(v.Y))
}
