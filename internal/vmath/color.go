package vmath

import (
	"image/color"
	"math"
)

// RGBA is a linear tint with each channel in [0,1].
type RGBA struct {
	R, G, B, A float64
}

var (
	White  = RGBA{1, 1, 1, 1}
	Orange = RGBA{1, 0.5, 0, 1}
	Red    = RGBA{1, 0, 0, 1}
	Yellow = RGBA{1, 1, 0, 1}
)

// RGBA8 builds a tint from 0..255 channel values.
func RGBA8(r, g, b, a uint8) RGBA {
	return RGBA{float64(r) / 255, float64(g) / 255, float64(b) / 255, float64(a) / 255}
}

// Color converts to a non-premultiplied colour for rendering. Channels are
// clamped into range first.
func (c RGBA) Color() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

// WithAlpha returns c with A replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

func (c RGBA) Array() [4]float64 {
	return [4]float64{c.R, c.G, c.B, c.A}
}

func RGBAFromArray(a [4]float64) RGBA {
	return RGBA{a[0], a[1], a[2], a[3]}
}

func to8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
