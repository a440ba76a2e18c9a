package vobsub

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is one palette color.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Palette is the 16-color table a DVD subtitle track draws from.
type Palette [16]RGB

// DefaultPalette is used when an .idx file carries no palette line: black,
// off-white, two greys, then six saturated primaries/secondaries each
// followed by its dim variant.
var DefaultPalette = Palette{
	{0x00, 0x00, 0x00},
	{0xf0, 0xf0, 0xf0},
	{0xcc, 0xcc, 0xcc},
	{0x99, 0x99, 0x99},
	{0x33, 0x33, 0xfa},
	{0x11, 0x11, 0xbb},
	{0xfa, 0x33, 0x33},
	{0xbb, 0x11, 0x11},
	{0x33, 0xfa, 0x33},
	{0x11, 0xbb, 0x11},
	{0xfa, 0xfa, 0x33},
	{0xbb, 0xbb, 0x11},
	{0xfa, 0x33, 0xfa},
	{0xbb, 0x11, 0xbb},
	{0x33, 0xfa, 0xfa},
	{0x11, 0xbb, 0xbb},
}

// ParsePalette reads the value of an .idx "palette:" line: 16 six-digit
// hex RGB triples separated by ", ".
func ParsePalette(s string) (Palette, error) {
	parts := strings.Split(s, ", ")
	if len(parts) != 16 {
		return Palette{}, &PaletteSizeError{N: len(parts)}
	}
	var p Palette
	for i, part := range parts {
		if len(part) != 6 {
			return Palette{}, fmt.Errorf("palette entry %d: %q is not a 6-digit hex color", i, part)
		}
		v, err := strconv.ParseUint(part, 16, 32)
		if err != nil {
			return Palette{}, fmt.Errorf("palette entry %d: %w", i, err)
		}
		p[i] = RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
	}
	return p, nil
}

// String renders the palette in the canonical .idx form, so a parsed
// palette formats back to the byte sequence it came from.
func (p Palette) String() string {
	parts := make([]string, len(p))
	for i, c := range p {
		parts[i] = fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
	}
	return strings.Join(parts, ", ")
}

// Luminance derives a 16-entry grayscale palette using BT.601 weights.
func (p Palette) Luminance() [16]uint8 {
	var out [16]uint8
	for i, c := range p {
		out[i] = uint8((299*uint32(c.R) + 587*uint32(c.G) + 114*uint32(c.B) + 500) / 1000)
	}
	return out
}
