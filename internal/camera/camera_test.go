package camera

import (
	"testing"

	"github.com/vovakirdan/tui-zombies/internal/core"
)

type box struct{ r core.Rect }

func (b box) DrawRect() core.Rect { return b.r }

func TestUpdateCentersTarget(t *testing.T) {
	c := New(1000, 1000, 200, 100)
	c.Update(core.V(500, 500))

	want := core.V(-400, -450)
	if c.Offset() != want {
		t.Errorf("offset = %+v, want %+v", c.Offset(), want)
	}
	center := c.ApplyPoint(core.V(500, 500))
	if center != core.V(100, 50) {
		t.Errorf("target on screen = %+v, want viewport center", center)
	}
}

func TestUpdateClampsToEdges(t *testing.T) {
	tests := []struct {
		name   string
		target core.Vec2
		want   core.Vec2
	}{
		{"top-left corner", core.V(0, 0), core.V(0, 0)},
		{"bottom-right corner", core.V(1000, 1000), core.V(-800, -900)},
		{"left edge", core.V(10, 500), core.V(0, -450)},
		{"beyond map", core.V(5000, -5000), core.V(-800, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(1000, 1000, 200, 100)
			c.Update(tt.target)
			if c.Offset() != tt.want {
				t.Errorf("offset = %+v, want %+v", c.Offset(), tt.want)
			}
		})
	}
}

func TestViewportNeverLeavesMap(t *testing.T) {
	c := New(640, 480, 320, 184)
	for x := -100.0; x <= 740; x += 37 {
		for y := -100.0; y <= 580; y += 41 {
			c.Update(core.V(x, y))
			v := c.Visible()
			if v.Left() < 0 || v.Top() < 0 || v.Right() > 640 || v.Bottom() > 480 {
				t.Fatalf("target (%v,%v): visible %+v escapes map", x, y, v)
			}
		}
	}
}

func TestSmallMapPinsOffsetToZero(t *testing.T) {
	// Narrower and shorter than the viewport.
	c := New(100, 50, 320, 184)
	for _, target := range []core.Vec2{core.V(0, 0), core.V(50, 25), core.V(100, 50), core.V(-20, 300)} {
		c.Update(target)
		if c.Offset() != (core.Vec2{}) {
			t.Errorf("target %+v: offset = %+v, want zero", target, c.Offset())
		}
	}

	// Only one axis smaller: the other still scrolls.
	c = New(100, 1000, 320, 184)
	c.Update(core.V(50, 950))
	if c.Offset().X != 0 {
		t.Errorf("x offset = %v, want 0", c.Offset().X)
	}
	if c.Offset().Y != -816 {
		t.Errorf("y offset = %v, want -816", c.Offset().Y)
	}
}

func TestUpdateIdempotent(t *testing.T) {
	c := New(1000, 800, 320, 184)
	target := core.V(437.5, 211.25)
	c.Update(target)
	once := c.Offset()
	c.Update(target)
	if c.Offset() != once {
		t.Errorf("second update = %+v, first = %+v", c.Offset(), once)
	}
}

func TestApplyTranslatesRects(t *testing.T) {
	c := New(1000, 1000, 200, 100)
	c.Update(core.V(500, 500))

	r := c.Apply(box{core.NewRect(490, 495, 20, 10)})
	if r != core.NewRect(90, 45, 20, 10) {
		t.Errorf("Apply = %+v", r)
	}
	if got := c.ApplyRect(core.NewRect(400, 450, 5, 5)); got != core.NewRect(0, 0, 5, 5) {
		t.Errorf("ApplyRect = %+v", got)
	}
}
