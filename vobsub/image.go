package vobsub

import (
	"image"
	"image/color"

	"github.com/s0up4200/go-bdsub/content"
)

// IndexedImage is a decoded subpicture: 2-bit pixels in row-major order,
// one byte each, plus the quads mapping pixel values into the track
// palette and the 4-bit alpha channel.
//
// The quads are already in pixel order: pixel value v looks up Palette()[v]
// and Alpha()[v] directly.
type IndexedImage struct {
	area    content.Area
	palette [4]uint8
	alpha   [4]uint8
	pixels  []byte
}

// Area returns where on screen the image sits.
func (img *IndexedImage) Area() content.Area {
	return img.area
}

// Width returns the image width in pixels.
func (img *IndexedImage) Width() int {
	return int(img.area.Width())
}

// Height returns the image height in pixels.
func (img *IndexedImage) Height() int {
	return int(img.area.Height())
}

// Palette returns the four track-palette indices, one per pixel value.
func (img *IndexedImage) Palette() [4]uint8 {
	return img.palette
}

// Alpha returns the four alpha nibbles (0 transparent, 15 opaque), one per
// pixel value.
func (img *IndexedImage) Alpha() [4]uint8 {
	return img.alpha
}

// Pixels returns the raw 2-bit pixel values, Width()*Height() bytes in
// row-major order.
func (img *IndexedImage) Pixels() []byte {
	return img.pixels
}

// ToImage renders the subpicture against the track palette. The 4-bit
// alpha nibbles widen to 8 bits by repetition, so 0xF maps to 0xFF.
func (img *IndexedImage) ToImage(pal Palette) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width(), img.Height()))
	w := img.Width()
	for i, px := range img.pixels {
		c := pal[img.palette[px]&0xF]
		a := img.alpha[px]
		out.SetNRGBA(i%w, i/w, color.NRGBA{R: c.R, G: c.G, B: c.B, A: a<<4 | a})
	}
	return out
}

// OcrOptions control grayscale rendering for OCR input.
type OcrOptions struct {
	// Border is the number of background pixels added on every side.
	Border int
	// AlphaThreshold is the minimum alpha nibble for a pixel to count as
	// text.
	AlphaThreshold uint8
	// Text and Background are the two output levels.
	Text       color.Gray
	Background color.Gray
}

// DefaultOcrOptions renders black text on a white background with a 5
// pixel border, which is what OCR engines tend to like.
func DefaultOcrOptions() OcrOptions {
	return OcrOptions{
		Border:         5,
		AlphaThreshold: 1,
		Text:           color.Gray{Y: 0},
		Background:     color.Gray{Y: 255},
	}
}

// OcrImage renders the subpicture as a two-level grayscale image: every
// sufficiently opaque pixel becomes text-colored, everything else
// background.
func (img *IndexedImage) OcrImage(opt OcrOptions) *image.Gray {
	w, h := img.Width(), img.Height()
	out := image.NewGray(image.Rect(0, 0, w+2*opt.Border, h+2*opt.Border))
	for i := range out.Pix {
		out.Pix[i] = opt.Background.Y
	}
	for i, px := range img.pixels {
		if img.alpha[px] >= opt.AlphaThreshold {
			out.SetGray(i%w+opt.Border, i/w+opt.Border, opt.Text)
		}
	}
	return out
}
