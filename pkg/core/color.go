package core

import (
	"fmt"
	"image/color"
	"math"
)

// ColorScale maps a [0,1] channel onto [0,255] via floor(ColorScale * c)
const ColorScale = 255.99

// MaxChannel is the largest channel value written to an image
const MaxChannel = 255

// Color is an 8-bit-per-channel RGB triple
type Color struct {
	R, G, B int
}

// ToColor converts a [0,1] float colour to integer channels.
// Channels are clamped to [0,1] first so the result always lies in [0, MaxChannel].
func ToColor(v Vec3, scale float64) Color {
	v = v.Clamp(0.0, 1.0)
	return Color{
		R: toChannel(v.X, scale),
		G: toChannel(v.Y, scale),
		B: toChannel(v.Z, scale),
	}
}

func toChannel(c, scale float64) int {
	return min(MaxChannel, int(math.Floor(scale*c)))
}

// ToRGBA returns the colour as an opaque color.RGBA
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(c.R),
		G: uint8(c.G),
		B: uint8(c.B),
		A: 255,
	}
}

// String formats the colour as a PPM pixel line body: "r g b"
func (c Color) String() string {
	return fmt.Sprintf("%d %d %d", c.R, c.G, c.B)
}
