package core

import "image/color"

// Palette colors shared by the HUD, overlays and built-in sprites.
var (
	ColorWhite     = color.RGBA{255, 255, 255, 255}
	ColorBlack     = color.RGBA{0, 0, 0, 255}
	ColorDarkGrey  = color.RGBA{40, 40, 40, 255}
	ColorLightGrey = color.RGBA{100, 100, 100, 255}
	ColorGreen     = color.RGBA{0, 255, 0, 255}
	ColorRed       = color.RGBA{255, 0, 0, 255}
	ColorYellow    = color.RGBA{255, 255, 0, 255}
	ColorCyan      = color.RGBA{0, 255, 255, 255}
)

// ParseHex parses "#rrggbb" or "#rrggbbaa" into an RGBA color.
func ParseHex(s string) (color.RGBA, bool) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, false
	}

	var b [4]uint8
	b[3] = 255
	for i := 0; i < len(s)/2; i++ {
		hi, ok1 := hexNibble(s[2*i])
		lo, ok2 := hexNibble(s[2*i+1])
		if !ok1 || !ok2 {
			return color.RGBA{}, false
		}
		b[i] = hi<<4 | lo
	}
	return color.RGBA{R: b[0], G: b[1], B: b[2], A: b[3]}, true
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
