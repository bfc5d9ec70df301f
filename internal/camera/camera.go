// Package camera keeps a target centered in the viewport while never showing
// anything past the map edges.
package camera

import "github.com/vovakirdan/tui-zombies/internal/core"

// Drawable is anything with a draw rectangle in world pixels.
type Drawable interface {
	DrawRect() core.Rect
}

// Camera holds the current view offset. The offset is added to world
// coordinates to get screen coordinates.
type Camera struct {
	mapW, mapH   float64
	viewW, viewH float64
	offset       core.Vec2
}

// New creates a camera for a map of mapW x mapH pixels seen through a
// viewW x viewH viewport.
func New(mapW, mapH, viewW, viewH int) *Camera {
	return &Camera{
		mapW:  float64(mapW),
		mapH:  float64(mapH),
		viewW: float64(viewW),
		viewH: float64(viewH),
	}
}

// Update recenters the view on target and clamps it to the map.
func (c *Camera) Update(target core.Vec2) {
	x := -target.X + float64(int(c.viewW/2))
	y := -target.Y + float64(int(c.viewH/2))
	c.offset = core.V(clampAxis(x, c.mapW, c.viewW), clampAxis(y, c.mapH, c.viewH))
}

// clampAxis applies min then max so a map narrower than the view pins the
// offset to 0 instead of inverting the bounds.
func clampAxis(v, mapSize, viewSize float64) float64 {
	lower := min(0, -(mapSize - viewSize))
	v = min(0, v)
	return max(lower, v)
}

// Apply returns d's draw rectangle in screen coordinates.
func (c *Camera) Apply(d Drawable) core.Rect {
	return c.ApplyRect(d.DrawRect())
}

// ApplyRect translates an arbitrary world rectangle into screen coordinates.
func (c *Camera) ApplyRect(r core.Rect) core.Rect {
	return r.Move(c.offset)
}

// ApplyPoint translates a world point into screen coordinates.
func (c *Camera) ApplyPoint(p core.Vec2) core.Vec2 {
	return p.Add(c.offset)
}

// Offset returns the current view offset.
func (c *Camera) Offset() core.Vec2 {
	return c.offset
}

// Viewport returns the viewport size in pixels.
func (c *Camera) Viewport() (int, int) {
	return int(c.viewW), int(c.viewH)
}

// Visible returns the world rectangle currently on screen.
func (c *Camera) Visible() core.Rect {
	return core.NewRect(-c.offset.X, -c.offset.Y, c.viewW, c.viewH)
}
