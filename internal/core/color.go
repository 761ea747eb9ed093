package core

import (
	"fmt"
	"image/color"
)

// Color represents a true-color value for a screen cell.
// The zero value is the terminal's default color.
type Color struct {
	R, G, B uint8
	Set     bool // false means "use terminal default"
}

// RGB constructs an explicit color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Set: true}
}

// Predefined colors for overlay text.
var (
	ColorDefault = Color{}
	ColorRed     = RGB(0xe0, 0x30, 0x30)
	ColorGreen   = RGB(0x30, 0xc0, 0x30)
	ColorWhite   = RGB(0xf0, 0xf0, 0xf0)
)

// FromColor converts any image/color value. Pixels with alpha below half
// are treated as transparent and map to ColorDefault.
func FromColor(c color.Color) Color {
	if c == nil {
		return ColorDefault
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A < 0x80 {
		return ColorDefault
	}
	return RGB(n.R, n.G, n.B)
}

// Hex returns the color as a "#rrggbb" string, or "" for the default color.
func (c Color) Hex() string {
	if !c.Set {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGBA implements color.Color. The default color is opaque white.
func (c Color) RGBA() (r, g, b, a uint32) {
	if !c.Set {
		return 0xffff, 0xffff, 0xffff, 0xffff
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}
