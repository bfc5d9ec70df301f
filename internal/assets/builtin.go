package assets

import (
	"image"
	"image/color"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Builtin draws every sprite procedurally and has no sound files, so the
// audio layer synthesizes its cues.
type Builtin struct{}

// LoadImage implements Provider.
func (Builtin) LoadImage(name string) (image.Image, error) {
	switch name {
	case "player":
		return character(color.RGBA{70, 110, 170, 255}, color.RGBA{50, 50, 50, 255}), nil
	case "zombie":
		return character(color.RGBA{80, 140, 60, 255}, color.RGBA{60, 100, 45, 255}), nil
	case "bullet":
		return disc(4, color.RGBA{255, 220, 90, 255}), nil
	case "health":
		return healthPack(), nil
	case "shotgun":
		return shotgun(), nil
	case "pistol":
		return pistol(), nil
	case "muzzle_flash":
		return flash(), nil
	case "splat":
		return splat(), nil
	case LightMask:
		return lightMask(128), nil
	default:
		return nil, &LoadError{Name: name, Err: ErrNotFound}
	}
}

// OpenSound implements Provider; built-in cues are synthesized instead.
func (Builtin) OpenSound(name string) (io.ReadCloser, error) {
	return nil, &LoadError{Name: name, Err: ErrNotFound}
}

func newCanvas(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	xdraw.Draw(img, r, image.NewUniform(c), image.Point{}, xdraw.Over)
}

func fillCircle(img *image.RGBA, cx, cy, radius float64, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// character is a 16x16 top-down figure facing +X: shoulders, head and arms
// (or a barrel) reaching forward.
func character(body, arms color.RGBA) *image.RGBA {
	img := newCanvas(16, 16)
	fillCircle(img, 7, 8, 6, body)
	fillRect(img, image.Rect(8, 3, 15, 5), arms)
	fillRect(img, image.Rect(8, 11, 16, 13), arms)
	fillCircle(img, 7, 8, 3, shade(body, 0.7))
	return img
}

func disc(size int, c color.RGBA) *image.RGBA {
	img := newCanvas(size, size)
	fillCircle(img, float64(size)/2, float64(size)/2, float64(size)/2, c)
	return img
}

func healthPack() *image.RGBA {
	img := newCanvas(10, 10)
	fillRect(img, img.Bounds(), color.RGBA{230, 230, 230, 255})
	red := color.RGBA{200, 30, 30, 255}
	fillRect(img, image.Rect(4, 1, 6, 9), red)
	fillRect(img, image.Rect(1, 4, 9, 6), red)
	return img
}

func shotgun() *image.RGBA {
	img := newCanvas(12, 6)
	fillRect(img, image.Rect(0, 2, 5, 5), color.RGBA{110, 70, 35, 255})
	fillRect(img, image.Rect(4, 1, 12, 3), color.RGBA{120, 120, 130, 255})
	fillRect(img, image.Rect(4, 3, 11, 4), color.RGBA{90, 90, 100, 255})
	return img
}

func pistol() *image.RGBA {
	img := newCanvas(8, 6)
	fillRect(img, image.Rect(0, 1, 8, 3), color.RGBA{120, 120, 130, 255})
	fillRect(img, image.Rect(1, 3, 3, 6), color.RGBA{60, 60, 60, 255})
	return img
}

func flash() *image.RGBA {
	img := newCanvas(12, 12)
	fillCircle(img, 6, 6, 6, color.RGBA{255, 140, 0, 200})
	fillCircle(img, 6, 6, 3.5, color.RGBA{255, 230, 120, 255})
	return img
}

// splat is an irregular blood decal. Lobes are placed deterministically.
func splat() *image.RGBA {
	img := newCanvas(16, 16)
	red := color.RGBA{120, 10, 10, 220}
	fillCircle(img, 8, 8, 4.5, red)
	for i := 0; i < 7; i++ {
		a := float64(i) * 2 * math.Pi / 7
		r := 4.0 + float64((i*5)%3)
		fillCircle(img, 8+math.Cos(a)*r, 8+math.Sin(a)*r, 1.5+float64(i%2), red)
	}
	return img
}

// lightMask is white light whose alpha fades to zero at the rim, so it blends
// into whatever tint it is drawn over.
func lightMask(size int) *image.RGBA {
	img := newCanvas(size, size)
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c) / c
			v := uint8(0)
			if d < 1 {
				// Smooth falloff, full brightness near the center.
				v = uint8(255 * (1 - d*d*(3-2*d)))
			}
			img.SetRGBA(x, y, color.RGBA{v, v, v, v}) // premultiplied white
		}
	}
	return img
}

func shade(c color.RGBA, k float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * k),
		G: uint8(float64(c.G) * k),
		B: uint8(float64(c.B) * k),
		A: c.A,
	}
}
