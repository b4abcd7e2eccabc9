package guitex

import "image/color"

// Color32 is a single texel: 8-bit red, green, blue and alpha, in that
// order in memory. It matches gputypes.TextureFormatRGBA8Unorm.
type Color32 struct {
	R, G, B, A uint8
}

// Predefined colors.
var (
	Transparent = Color32{}
	Black       = Color32{A: 255}
	White       = Color32{R: 255, G: 255, B: 255, A: 255}
)

// RGBA creates a Color32 from its components.
func RGBA(r, g, b, a uint8) Color32 {
	return Color32{R: r, G: g, B: b, A: a}
}

// Gray creates an opaque gray Color32.
func Gray(v uint8) Color32 {
	return Color32{R: v, G: v, B: v, A: 255}
}

// RGBA implements color.Color.
// Color32 values are treated as alpha-premultiplied.
func (c Color32) RGBA() (r, g, b, a uint32) {
	return color.RGBA(c).RGBA()
}

// FromColor converts a standard color.Color to Color32.
func FromColor(c color.Color) Color32 {
	r, g, b, a := c.RGBA()
	return Color32{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

// Hex parses a hex color string.
// Supports "RGB", "RGBA", "RRGGBB" and "RRGGBBAA", with or without a
// leading '#'. It returns false for any other input.
func Hex(hex string) (Color32, bool) {
	if hex != "" && hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b uint32
	a := uint32(255)
	ok := true

	switch len(hex) {
	case 3: // RGB
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4: // RGBA
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) &&
			parseHex(hex[2:3], &b) && parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6: // RRGGBB
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b)
	case 8: // RRGGBBAA
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) &&
			parseHex(hex[4:6], &b) && parseHex(hex[6:8], &a)
	default:
		return Color32{}, false
	}
	if !ok {
		return Color32{}, false
	}

	return Color32{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}, true
}

// parseHex is a helper for hex parsing.
func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}
