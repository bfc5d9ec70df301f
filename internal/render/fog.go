package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Fog darkens a scene everywhere except around a light source.
//
// The overlay is filled with the night tint, the light mask is drawn over it
// centered on the light, and the overlay is then multiplied onto the scene.
type Fog struct {
	overlay *image.RGBA
	mask    *image.RGBA
}

// NewFog prepares an overlay the size of the viewport with mask scaled to
// a square of the given diameter.
func NewFog(viewW, viewH int, mask image.Image, diameter int) *Fog {
	f := &Fog{overlay: image.NewRGBA(image.Rect(0, 0, viewW, viewH))}
	if mask != nil && diameter > 0 {
		f.mask = image.NewRGBA(image.Rect(0, 0, diameter, diameter))
		xdraw.BiLinear.Scale(f.mask, f.mask.Bounds(), mask, mask.Bounds(), xdraw.Src, nil)
	}
	return f
}

// Apply composites the fog onto scene with the light centered on light.
// scene must be the size of the viewport.
func (f *Fog) Apply(scene *image.RGBA, light image.Point, night color.RGBA) {
	night.A = 255
	FillRect(f.overlay, f.overlay.Bounds(), night)
	if f.mask != nil {
		Blit(f.overlay, f.mask, light)
	}
	Multiply(scene, f.overlay)
}
