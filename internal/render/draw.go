package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Blit draws src centered on c with alpha compositing.
func Blit(dst *image.RGBA, src image.Image, c image.Point) {
	b := src.Bounds()
	r := image.Rect(0, 0, b.Dx(), b.Dy()).Add(c.Sub(image.Pt(b.Dx()/2, b.Dy()/2)))
	xdraw.Draw(dst, r, src, b.Min, xdraw.Over)
}

// BlitAt draws src with its top-left corner at p.
func BlitAt(dst *image.RGBA, src image.Image, p image.Point) {
	b := src.Bounds()
	xdraw.Draw(dst, image.Rectangle{Min: p, Max: p.Add(b.Size())}, src, b.Min, xdraw.Over)
}

// FillRect fills r with c, blending when c is translucent.
func FillRect(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	op := xdraw.Over
	if c.A == 255 {
		op = xdraw.Src
	}
	xdraw.Draw(dst, r, image.NewUniform(c), image.Point{}, op)
}

// StrokeRect outlines r with lines of the given thickness drawn inside it.
func StrokeRect(dst *image.RGBA, r image.Rectangle, thickness int, c color.RGBA) {
	if thickness <= 0 || r.Empty() {
		return
	}
	t := min(thickness, r.Dx(), r.Dy())
	FillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), c)
	FillRect(dst, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), c)
	FillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), c)
	FillRect(dst, image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// Dim darkens the whole image with black at the given alpha.
func Dim(dst *image.RGBA, alpha uint8) {
	FillRect(dst, dst.Bounds(), color.RGBA{A: alpha})
}

// Multiply multiplies every color channel of dst by the matching channel of
// overlay, treating both as opaque. Both images must share bounds.
func Multiply(dst, overlay *image.RGBA) {
	if dst.Bounds() != overlay.Bounds() {
		return
	}
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		di := dst.PixOffset(b.Min.X, y)
		oi := overlay.PixOffset(b.Min.X, y)
		for x := 0; x < b.Dx(); x++ {
			for c := 0; c < 3; c++ {
				dst.Pix[di+c] = uint8(uint16(dst.Pix[di+c]) * uint16(overlay.Pix[oi+c]) / 255)
			}
			di += 4
			oi += 4
		}
	}
}

// Health bar colors.
var (
	HealthGood = color.RGBA{0, 200, 0, 255}
	HealthWarn = color.RGBA{230, 200, 0, 255}
	HealthLow  = color.RGBA{220, 30, 30, 255}
)

// HealthColor picks the bar color: green above 60%, yellow above 30%,
// red otherwise.
func HealthColor(pct float64) color.RGBA {
	switch {
	case pct > 0.6:
		return HealthGood
	case pct > 0.3:
		return HealthWarn
	default:
		return HealthLow
	}
}

// HealthBar draws a bar of the given outer rectangle filled to pct.
// A non-zero border draws a white outline of that thickness.
func HealthBar(dst *image.RGBA, r image.Rectangle, pct float64, border int) {
	pct = max(0, min(1, pct))
	fill := r
	fill.Max.X = r.Min.X + int(float64(r.Dx())*pct)
	if !fill.Empty() {
		FillRect(dst, fill, HealthColor(pct))
	}
	if border > 0 {
		StrokeRect(dst, r, border, color.RGBA{255, 255, 255, 255})
	}
}

// Clone returns a copy of img that can be drawn on without touching img.
func Clone(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	xdraw.Draw(out, out.Bounds(), img, img.Bounds().Min, xdraw.Src)
	return out
}
