package vobsub

import (
	"github.com/s0up4200/go-bdsub/content"
	"github.com/s0up4200/go-bdsub/internal/buffer"
)

// VobSub pixel data is run-length encoded two bits per pixel, split into
// two interlaced streams: even scan lines come from the first, odd lines
// from the second. Run counts use a variable-width code — leading zero bits
// select wider counts, and fourteen zero bits mean "fill to end of line".

// readRun reads one run-length code: the count and the 2-bit pixel value.
// A zero count means fill to the end of the line.
func readRun(br *buffer.BitReader) (count int, value uint8, err error) {
	v, ok := br.ReadBits(2)
	if !ok {
		return 0, 0, ErrScanLineData
	}
	if v == 0 {
		v, ok = br.ReadBits(2)
		if !ok {
			return 0, 0, ErrScanLineData
		}
		if v == 0 {
			v, ok = br.ReadBits(2)
			if !ok {
				return 0, 0, ErrScanLineData
			}
			if v == 0 {
				// Fourteen leading zeros (the 8-bit count read below being
				// zero too) is the end-of-line code.
				v, ok = br.ReadBits(8)
				if !ok {
					return 0, 0, ErrScanLineData
				}
			} else {
				w, ok := br.ReadBits(4)
				if !ok {
					return 0, 0, ErrScanLineData
				}
				v = v<<4 | w
			}
		} else {
			w, ok := br.ReadBits(2)
			if !ok {
				return 0, 0, ErrScanLineData
			}
			v = v<<2 | w
		}
	}
	px, ok := br.ReadBits(2)
	if !ok {
		return 0, 0, ErrScanLineData
	}
	return int(v), uint8(px), nil
}

// scanLine decodes one scan line into out and leaves the cursor on the
// next byte boundary.
func scanLine(br *buffer.BitReader, out []byte) error {
	width := len(out)
	x := 0
	for x < width {
		count, value, err := readRun(br)
		if err != nil {
			return err
		}
		if count == 0 {
			count = width - x
		}
		if x+count > width {
			return &ScanLineLengthError{X: x + count, Width: width}
		}
		for i := x; i < x+count; i++ {
			out[i] = value
		}
		x += count
	}
	br.AlignByte()
	return nil
}

// decompress decodes the two interlaced RLE streams into a row-major
// buffer of one 2-bit pixel per byte.
func decompress(size content.Size, data0, data1 []byte) ([]byte, error) {
	out := make([]byte, size.W*size.H)
	if err := decompressInto(out, size, data0, data1); err != nil {
		return nil, err
	}
	return out, nil
}

func decompressInto(out []byte, size content.Size, data0, data1 []byte) error {
	if len(out) < size.W*size.H {
		return &OutputSizeError{DataSize: size.W * size.H, OutputSize: len(out)}
	}
	readers := [2]*buffer.BitReader{
		buffer.NewBitReader(data0),
		buffer.NewBitReader(data1),
	}
	for y := 0; y < size.H; y++ {
		br := readers[y%2]
		if err := scanLine(br, out[y*size.W:(y+1)*size.W]); err != nil {
			return err
		}
	}
	return nil
}
