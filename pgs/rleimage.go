package pgs

import (
	"image"
	"image/color"
	"math"
)

// RleImage is a subtitle image kept in its PGS RLE encoding. Pixels are
// produced lazily by iteration; the image is never materialized unless an
// adapter asks for it. The palette is carried along because later palette
// definitions in the stream would otherwise overwrite it.
type RleImage struct {
	width   uint16
	height  uint16
	palette *Palette
	raw     []byte
}

// NewRleImage builds an RleImage from reassembled object data and the
// palette in effect.
func NewRleImage(width, height uint16, palette *Palette, raw []byte) *RleImage {
	return &RleImage{width: width, height: height, palette: palette, raw: raw}
}

// Width returns the declared image width in pixels.
func (img *RleImage) Width() int {
	return int(img.width)
}

// Height returns the declared image height in pixels.
func (img *RleImage) Height() int {
	return int(img.height)
}

// Palette returns the palette the image's color ids refer to.
func (img *RleImage) Palette() *Palette {
	return img.palette
}

// Raw returns the RLE byte stream.
func (img *RleImage) Raw() []byte {
	return img.raw
}

// Pixels returns an iterator over the image's palette ids.
func (img *RleImage) Pixels() *PixelIterator {
	return &PixelIterator{img: img}
}

// PixelIterator walks the RLE byte stream and yields one palette id per
// pixel. End-of-line markers are treated as no-ops: well-formed objects
// emit exactly Len() pixels and consumers index row-major by the declared
// width, so padding never has to be synthesized.
type PixelIterator struct {
	img       *RleImage
	pos       int
	current   uint8
	remaining int
}

// Len returns the number of pixels a well-formed object yields.
func (it *PixelIterator) Len() int {
	return it.img.Width() * it.img.Height()
}

// Next returns the next pixel's palette id. It reports false at the end of
// the RLE data.
func (it *PixelIterator) Next() (uint8, bool) {
	if it.remaining > 0 {
		it.remaining--
		return it.current, true
	}
	raw := it.img.raw
	for {
		if it.pos >= len(raw) {
			return 0, false
		}
		b0 := raw[it.pos]
		it.pos++
		if b0 != 0 {
			// A bare nonzero byte is a run of one pixel of that color.
			it.current = b0
			return b0, true
		}

		if it.pos >= len(raw) {
			return 0, false
		}
		b1 := raw[it.pos]
		it.pos++
		if b1 == 0 {
			// End of line: nothing to emit, keep reading.
			continue
		}

		count := int(b1 & 0x3F)
		if b1&0x40 != 0 {
			if it.pos >= len(raw) {
				return 0, false
			}
			count = count<<8 | int(raw[it.pos])
			it.pos++
		}
		var clr uint8
		if b1&0x80 != 0 {
			if it.pos >= len(raw) {
				return 0, false
			}
			clr = raw[it.pos]
			it.pos++
		}
		if count == 0 {
			continue
		}
		it.current = clr
		it.remaining = count - 1
		return clr, true
	}
}

// OcrOptions control grayscale rendering for OCR input.
type OcrOptions struct {
	// Border is the number of background pixels added on every side.
	Border int
	// AlphaThreshold and LumaThreshold are the minimum alpha and
	// luminance for a pixel to count as text.
	AlphaThreshold uint8
	LumaThreshold  uint8
	// Text and Background are the two output levels.
	Text       color.Gray
	Background color.Gray
}

// DefaultOcrOptions renders black text on a white background with a 5
// pixel border.
func DefaultOcrOptions() OcrOptions {
	return OcrOptions{
		Border:         5,
		AlphaThreshold: 1,
		LumaThreshold:  1,
		Text:           color.Gray{Y: 0},
		Background:     color.Gray{Y: 255},
	}
}

// OcrImage renders the image as two-level grayscale for OCR. Pixels whose
// palette entry clears both thresholds become text; palette holes and
// everything else become background.
func (img *RleImage) OcrImage(opt OcrOptions) *image.Gray {
	w, h := img.Width(), img.Height()
	out := image.NewGray(image.Rect(0, 0, w+2*opt.Border, h+2*opt.Border))
	for i := range out.Pix {
		out.Pix[i] = opt.Background.Y
	}
	if w == 0 || h == 0 {
		return out
	}
	it := img.Pixels()
	for i := 0; i < w*h; i++ {
		id, ok := it.Next()
		if !ok {
			break
		}
		entry, found := img.palette.Get(id)
		if found && entry.Alpha >= opt.AlphaThreshold && entry.Y >= opt.LumaThreshold {
			out.SetGray(i%w+opt.Border, i/w+opt.Border, opt.Text)
		}
	}
	return out
}

// ToImage decodes the image to NRGBA, converting palette entries from
// studio-range (Y 16-235) BT.601 YCrCb. Palette holes render fully
// transparent.
func (img *RleImage) ToImage() *image.NRGBA {
	w, h := img.Width(), img.Height()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}
	clamp := func(v float64) uint8 {
		return uint8(math.Max(0, math.Min(255, math.Round(v))))
	}
	it := img.Pixels()
	for i := 0; i < w*h; i++ {
		id, ok := it.Next()
		if !ok {
			break
		}
		entry, found := img.palette.Get(id)
		if !found {
			continue
		}
		y := 1.164 * (float64(entry.Y) - 16)
		cr, cb := float64(entry.Cr)-128, float64(entry.Cb)-128
		r := clamp(y + 1.596*cr)
		g := clamp(y - 0.813*cr - 0.392*cb)
		b := clamp(y + 2.017*cb)
		out.SetNRGBA(i%w, i/w, color.NRGBA{R: r, G: g, B: b, A: entry.Alpha})
	}
	return out
}
