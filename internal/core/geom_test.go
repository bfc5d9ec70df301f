package core

import (
	"image"
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{
			name:     "overlapping rects",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(5, 5, 10, 10),
			expected: true,
		},
		{
			name:     "non-overlapping horizontal",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(15, 0, 10, 10),
			expected: false,
		},
		{
			name:     "non-overlapping vertical",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(0, 15, 10, 10),
			expected: false,
		},
		{
			name:     "adjacent horizontal (no overlap)",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(10, 0, 10, 10),
			expected: false,
		},
		{
			name:     "adjacent vertical (no overlap)",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(0, 10, 10, 10),
			expected: false,
		},
		{
			name:     "contained rect",
			a:        NewRect(0, 0, 20, 20),
			b:        NewRect(5, 5, 5, 5),
			expected: true,
		},
		{
			name:     "sub-pixel overlap",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(9.5, 9.5, 10, 10),
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := tc.a.Intersects(tc.b)
			if result != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", result, tc.expected)
			}
			// Also test symmetry
			resultReverse := tc.b.Intersects(tc.a)
			if resultReverse != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", resultReverse, tc.expected)
			}
		})
	}
}

func TestRectFromCenter(t *testing.T) {
	r := RectFromCenter(V(100, 110), 12, 12)

	if r.X != 94 || r.Y != 104 {
		t.Errorf("RectFromCenter top-left = (%v, %v), expected (94, 104)", r.X, r.Y)
	}
	if c := r.Center(); c != V(100, 110) {
		t.Errorf("Center() = %v, expected (100, 110)", c)
	}
	if r.Right() != 106 || r.Bottom() != 116 {
		t.Errorf("Right/Bottom = %v/%v, expected 106/116", r.Right(), r.Bottom())
	}
}

func TestRectMoveAndContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15).Move(V(-10, 5))

	if r.X != 0 || r.Y != 15 {
		t.Errorf("Move() = (%v, %v), expected (0, 15)", r.X, r.Y)
	}

	tests := []struct {
		name     string
		p        Vec2
		expected bool
	}{
		{"inside", V(5, 20), true},
		{"top-left corner", V(0, 15), true},
		{"bottom-right edge (exclusive)", V(20, 30), false},
		{"outside left", V(-1, 20), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.p); got != tc.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tc.p, got, tc.expected)
			}
		})
	}
}

func TestRectToImage(t *testing.T) {
	got := NewRect(1.4, 2.6, 10, 10).ToImage()
	want := image.Rect(1, 3, 11, 13)
	if got != want {
		t.Errorf("ToImage() = %v, expected %v", got, want)
	}
}

func TestVecArithmetic(t *testing.T) {
	v := V(3, 4)

	if v.Len() != 5 {
		t.Errorf("Len() = %v, expected 5", v.Len())
	}
	if got := v.Add(V(1, 1)); got != V(4, 5) {
		t.Errorf("Add() = %v", got)
	}
	if got := v.Sub(V(1, 1)); got != V(2, 3) {
		t.Errorf("Sub() = %v", got)
	}
	if got := v.Scale(2); got != V(6, 8) {
		t.Errorf("Scale() = %v", got)
	}

	n := v.Normalize()
	if !near(n.X, 0.6) || !near(n.Y, 0.8) {
		t.Errorf("Normalize() = %v, expected (0.6, 0.8)", n)
	}
	if z := (Vec2{}).Normalize(); !z.IsZero() {
		t.Error("Normalize() of zero vector should stay zero")
	}
}

func TestVecRotateAndHeading(t *testing.T) {
	r := V(1, 0).Rotate(math.Pi / 2)
	if !near(r.X, 0) || !near(r.Y, 1) {
		t.Errorf("Rotate(pi/2) = %v, expected (0, 1)", r)
	}

	h := Heading(-math.Pi / 2)
	if !near(h.X, 0) || !near(h.Y, -1) {
		t.Errorf("Heading(-pi/2) = %v, expected (0, -1)", h)
	}

	if a := V(0, -1).Angle(); !near(a, -math.Pi/2) {
		t.Errorf("Angle() = %v, expected -pi/2", a)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestAbs(t *testing.T) {
	if Abs(5) != 5 {
		t.Error("Abs(5) should be 5")
	}
	if Abs(-5) != 5 {
		t.Error("Abs(-5) should be 5")
	}
}

func TestInputStateAndBindings(t *testing.T) {
	b := DefaultBindings()
	if b.Lookup("w") != ActionForward {
		t.Errorf("Lookup(w) = %v, expected Forward", b.Lookup("w"))
	}
	if b.Lookup("z") != ActionNone {
		t.Errorf("Lookup(z) = %v, expected None", b.Lookup("z"))
	}

	s := NewInputState()
	s.Press("space", ActionFire)
	if !s.Held(ActionFire) {
		t.Error("Fire should be held after Press")
	}
	s.Release("space")
	if s.Held(ActionFire) {
		t.Error("Fire should not be held after Release")
	}
	s.Press("w", ActionForward)
	s.Clear()
	if s.Held(ActionForward) {
		t.Error("Clear should release all actions")
	}
}

func TestInputStateKeysShareAction(t *testing.T) {
	tests := []struct {
		name    string
		release []string
		held    bool
	}{
		{"one of two keys released", []string{"w"}, true},
		{"other key released", []string{"up"}, true},
		{"both released", []string{"w", "up"}, false},
		{"unrelated key released", []string{"s"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewInputState()
			s.Press("w", ActionForward)
			s.Press("up", ActionForward)
			for _, k := range tt.release {
				s.Release(k)
			}
			if got := s.Held(ActionForward); got != tt.held {
				t.Errorf("Held(Forward) = %v, want %v", got, tt.held)
			}
		})
	}
}
