// Package render composes world-pixel frames: sprite blits, rectangles, the
// night overlay and text labels. It knows nothing about the terminal.
package render

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// rotationSteps is how many distinct angles a sprite is cached at.
const rotationSteps = 72

type spriteKey struct {
	name  string
	w, h  int
	step  int
	flash bool
}

// Sprites scales and rotates base images on demand and caches the results.
// It is not safe for concurrent use; each session owns one.
type Sprites struct {
	base  map[string]image.Image
	cache map[spriteKey]*image.RGBA
}

// NewSprites wraps already loaded images keyed by logical name.
func NewSprites(images map[string]image.Image) *Sprites {
	return &Sprites{
		base:  images,
		cache: make(map[spriteKey]*image.RGBA),
	}
}

// Get returns name scaled to w x h and rotated by rot radians around its
// center. Rotated sprites are drawn onto a square canvas large enough for
// any angle, so callers must center the result rather than anchor it.
// The second result is false when no base image exists.
func (s *Sprites) Get(name string, w, h int, rot float64, flash bool) (*image.RGBA, bool) {
	src, ok := s.base[name]
	if !ok || w <= 0 || h <= 0 {
		return nil, false
	}
	key := spriteKey{name: name, w: w, h: h, step: angleStep(rot), flash: flash}
	if img, ok := s.cache[key]; ok {
		return img, true
	}

	img := transform(src, w, h, float64(key.step)*2*math.Pi/rotationSteps)
	if flash {
		flashTint(img)
	}
	s.cache[key] = img
	return img, true
}

func angleStep(rot float64) int {
	step := int(math.Round(rot / (2 * math.Pi) * rotationSteps))
	step %= rotationSteps
	if step < 0 {
		step += rotationSteps
	}
	return step
}

// transform scales src to w x h and rotates it by rot. Y grows downwards,
// so a positive angle turns clockwise on screen, matching core.Heading.
func transform(src image.Image, w, h int, rot float64) *image.RGBA {
	sb := src.Bounds()
	if rot == 0 {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.BiLinear.Scale(dst, dst.Bounds(), src, sb, xdraw.Over, nil)
		return dst
	}

	side := int(math.Ceil(math.Hypot(float64(w), float64(h))))
	dst := image.NewRGBA(image.Rect(0, 0, side, side))

	kx := float64(w) / float64(sb.Dx())
	ky := float64(h) / float64(sb.Dy())
	sin, cos := math.Sincos(rot)
	scx := float64(sb.Min.X) + float64(sb.Dx())/2
	scy := float64(sb.Min.Y) + float64(sb.Dy())/2
	dc := float64(side) / 2

	a, b := cos*kx, -sin*ky
	d, e := sin*kx, cos*ky
	m := f64.Aff3{
		a, b, dc - (a*scx + b*scy),
		d, e, dc - (d*scx + e*scy),
	}
	xdraw.BiLinear.Transform(dst, m, src, sb, xdraw.Over, nil)
	return dst
}

// flashTint pushes every visible pixel halfway towards white.
func flashTint(img *image.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		a := img.Pix[i+3]
		if a == 0 {
			continue
		}
		for c := 0; c < 3; c++ {
			// Premultiplied, so white at this alpha is a.
			img.Pix[i+c] = uint8((uint16(img.Pix[i+c]) + uint16(a)) / 2)
		}
	}
}
