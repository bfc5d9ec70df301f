package render

import "image/color"

// Align anchors a label relative to its position.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Label is text laid over a frame by the presenter. X and Y are viewport
// pixels; the presenter maps them to character cells.
type Label struct {
	X, Y  int
	Text  string
	Color color.RGBA
	Align Align
}
