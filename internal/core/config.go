package core

// RuntimeConfig contains configuration passed to a session at initialization.
// Sessions use this to size the viewport and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW    int   // Terminal width in characters
	ScreenH    int   // Terminal height in characters
	TickRate   int   // Frames per second targeted by the platform loop (default 60)
	Seed       int64 // RNG seed for deterministic gameplay
	PixelScale int   // World pixels per half-block pixel
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:    80,
		ScreenH:    24,
		TickRate:   60,
		Seed:       0, // 0 means use current time in platform layer
		PixelScale: 4,
	}
}

// ViewportSize returns the viewport size in world pixels.
// Each terminal cell shows two stacked half-block pixels, and the bottom row
// is reserved for the status line.
func (c RuntimeConfig) ViewportSize() (w, h int) {
	scale := c.PixelScale
	if scale <= 0 {
		scale = 1
	}
	rows := c.ScreenH - 1
	if rows < 1 {
		rows = 1
	}
	return c.ScreenW * scale, rows * 2 * scale
}
