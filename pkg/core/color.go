package core

import (
	"fmt"
	"image/color"
	"math"
)

// intensity is the range linear channels are clamped to before quantization
var intensity = Interval{Min: 0.0, Max: 0.999}

// Color is a linear RGB triple
type Color struct {
	R, G, B float64
}

var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
)

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Add returns the channel-wise sum of two colors
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Subtract returns the channel-wise difference of two colors
func (c Color) Subtract(other Color) Color {
	return Color{c.R - other.R, c.G - other.G, c.B - other.B}
}

// Multiply returns the color scaled by a scalar
func (c Color) Multiply(scalar float64) Color {
	return Color{c.R * scalar, c.G * scalar, c.B * scalar}
}

// Divide returns the color divided by a scalar
func (c Color) Divide(scalar float64) Color {
	return Color{c.R / scalar, c.G / scalar, c.B / scalar}
}

// MultiplyColor returns the channel-wise product of two colors (attenuation)
func (c Color) MultiplyColor(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Lerp blends linearly from c (t=0) to other (t=1)
func (c Color) Lerp(other Color, t float64) Color {
	return c.Multiply(1.0 - t).Add(other.Multiply(t))
}

// Luminance returns the Rec. 709 relative luminance of the color
func (c Color) Luminance() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// LinearToGamma applies gamma 2 encoding to a linear channel value
func LinearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// encodeChannel maps a linear channel to a display byte
func encodeChannel(linear float64) uint8 {
	return uint8(math.Floor(256 * intensity.Clamp(LinearToGamma(linear))))
}

// ToRGB8 gamma-encodes and clamps the color into 8-bit channels
func (c Color) ToRGB8() (r, g, b uint8) {
	return encodeChannel(c.R), encodeChannel(c.G), encodeChannel(c.B)
}

// ToRGBA converts the color to an opaque image/color value
func (c Color) ToRGBA() color.RGBA {
	r, g, b := c.ToRGB8()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func (c Color) String() string {
	return fmt.Sprintf("Color(%g, %g, %g)", c.R, c.G, c.B)
}
