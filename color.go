// Package purfectcast turns recorded terminal sessions into rasterized frames.
//
// This package contains:
//   - Color types and the terminal theme
//   - Cells, pens and frame snapshots
//   - The session (asciicast) parser
//   - Timeline construction, cut windows and frame selection
//   - The compositor that draws a frame into an RGBA pixel buffer
//
// The terminal-state engine and the glyph rasterizer are consumed through the
// Engine and Rasterizer interfaces. Implementations live in the vt and glyph
// packages.
package purfectcast

import "strconv"

// ColorType indicates how a color was specified
type ColorType uint8

const (
	ColorDefault ColorType = iota // Use theme default fg/bg (SGR 39/49)
	ColorIndexed                  // 256-color palette index (0-255)
	ColorRGB                      // 24-bit RGB
)

// Color represents a pen color with its original specification preserved.
type Color struct {
	Type    ColorType
	Index   uint8 // For ColorIndexed
	R, G, B uint8 // For ColorRGB
}

// DefaultColor is the absent color; it resolves to the theme's default.
var DefaultColor = Color{Type: ColorDefault}

// IndexedColor creates a palette color (index 0-255)
func IndexedColor(index uint8) Color {
	return Color{Type: ColorIndexed, Index: index}
}

// TrueColor creates a 24-bit true color
func TrueColor(r, g, b uint8) Color {
	return Color{Type: ColorRGB, R: r, G: g, B: b}
}

// IsDefault returns true if the color is absent
func (c Color) IsDefault() bool {
	return c.Type == ColorDefault
}

// SGRCode returns the SGR parameter(s) selecting this color (foreground if isFg)
func (c Color) SGRCode(isFg bool) string {
	switch c.Type {
	case ColorIndexed:
		idx := int(c.Index)
		switch {
		case idx < 8:
			// Normal colors: 30-37 or 40-47
			if isFg {
				return strconv.Itoa(30 + idx)
			}
			return strconv.Itoa(40 + idx)
		case idx < 16:
			// Bright colors: 90-97 or 100-107
			if isFg {
				return strconv.Itoa(90 + idx - 8)
			}
			return strconv.Itoa(100 + idx - 8)
		}
		if isFg {
			return "38;5;" + strconv.Itoa(idx)
		}
		return "48;5;" + strconv.Itoa(idx)
	case ColorRGB:
		rgb := strconv.Itoa(int(c.R)) + ";" + strconv.Itoa(int(c.G)) + ";" + strconv.Itoa(int(c.B))
		if isFg {
			return "38;2;" + rgb
		}
		return "48;2;" + rgb
	}
	if isFg {
		return "39"
	}
	return "49"
}

// RGB holds the red, green and blue components of a resolved color
type RGB struct {
	R, G, B uint8
}

// Pack returns the color as a packed 32-bit pixel with the given alpha.
// Channel order is R in the low byte, then G, B and A in the high byte.
func (c RGB) Pack(alpha uint8) uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(alpha)<<24
}

// Theme is the terminal color scheme used to resolve pen colors.
type Theme struct {
	Background RGB
	Foreground RGB
	Palette    [16]RGB // ANSI colors 0-15
}

// DefaultTheme returns the built-in dark theme.
func DefaultTheme() Theme {
	return Theme{
		Background: RGB{0x12, 0x13, 0x14},
		Foreground: RGB{0xcc, 0xcc, 0xcc},
		Palette: [16]RGB{
			{0x00, 0x00, 0x00},
			{0xdd, 0x3c, 0x69},
			{0x4e, 0xbf, 0x22},
			{0xdd, 0xaf, 0x3c},
			{0x26, 0xb0, 0xd7},
			{0xb9, 0x54, 0xe1},
			{0x54, 0xe1, 0xb9},
			{0xd9, 0xd9, 0xd9},
			// Bright variants (8-15)
			{0x4d, 0x4d, 0x4d},
			{0xdd, 0x3c, 0x69},
			{0x4e, 0xbf, 0x22},
			{0xdd, 0xaf, 0x3c},
			{0x26, 0xb0, 0xd7},
			{0xb9, 0x54, 0xe1},
			{0x54, 0xe1, 0xb9},
			{0xff, 0xff, 0xff},
		},
	}
}

// IndexedRGB resolves a 256-color palette index.
// 0-15 come from the theme palette, 16-231 from the 6x6x6 color cube and
// 232-255 from the grayscale ramp.
func (t Theme) IndexedRGB(index uint8) RGB {
	switch {
	case index < 16:
		return t.Palette[index]
	case index < 232:
		n := index - 16
		return RGB{
			R: cubeLevel((n / 36) % 6),
			G: cubeLevel((n / 6) % 6),
			B: cubeLevel(n % 6),
		}
	default:
		v := 8 + 10*(index-232)
		return RGB{v, v, v}
	}
}

// cubeLevel maps a color cube component (0-5) to 0, 95, 135, 175, 215, 255
func cubeLevel(c uint8) uint8 {
	if c == 0 {
		return 0
	}
	return c*40 + 55
}

// Resolve resolves a pen color to RGB. Default colors resolve to the theme's
// foreground (if isFg) or background.
func (t Theme) Resolve(c Color, isFg bool) RGB {
	switch c.Type {
	case ColorIndexed:
		return t.IndexedRGB(c.Index)
	case ColorRGB:
		return RGB{c.R, c.G, c.B}
	}
	if isFg {
		return t.Foreground
	}
	return t.Background
}
