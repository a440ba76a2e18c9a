// Package vobsub reads DVD subtitles in VobSub format: a textual .idx file
// describing the stream, and a .sub file holding an MPEG-2 Program Stream
// of subpicture packets.
//
// Decoding yields palettized 2-bit images positioned on screen together
// with their display times. The package does not render or OCR; the image
// adapters produce plain image.NRGBA / image.Gray values for callers that
// do.
package vobsub

import (
	"errors"
	"fmt"
)

// Errors shared by the .idx and .sub parsing paths.
var (
	// ErrBufferTooSmallForU16 reports a buffer ending inside a 16-bit size
	// field.
	ErrBufferTooSmallForU16 = errors.New("unexpected end of buffer while parsing 16-bit size")

	// ErrUnexpectedEndOfSubtitleData reports a subpicture buffer too small
	// to parse at all.
	ErrUnexpectedEndOfSubtitleData = errors.New("unexpected end of subtitle data")

	// ErrPacketTooShort reports a first PES payload too small to carry the
	// subpicture size field.
	ErrPacketTooShort = errors.New("packet is too short")

	// ErrIncompleteControlPacket reports a control sequence running past
	// the end of the subpicture buffer.
	ErrIncompleteControlPacket = errors.New("incomplete control packet")

	// ErrMissingTimingForSubtitle reports a subtitle whose first PES packet
	// carries no PTS.
	ErrMissingTimingForSubtitle = errors.New("found subtitle without timing info")

	// ErrControlOffsetWentBackwards reports a control sequence whose next
	// link points before itself.
	ErrControlOffsetWentBackwards = errors.New("control offset went backwards")

	// ErrScanLineData reports RLE data ending in the middle of a run code.
	ErrScanLineData = errors.New("parsing scan line failed: unexpected end of data")
)

// Control interpretation can finish without having seen every command a
// subtitle requires; each absence is its own error.
var (
	ErrMissingStartTime    = errors.New("no start time")
	ErrMissingArea         = errors.New("no area coordinates")
	ErrMissingPalette      = errors.New("no palette")
	ErrMissingAlphaPalette = errors.New("no alpha palette")
	ErrMissingRleOffset    = errors.New("no RLE offsets")
)

// MissingKeyError reports a required key absent from an .idx file.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("could not find required key %q", e.Key)
}

// PaletteSizeError reports an .idx palette with a number of entries other
// than 16.
type PaletteSizeError struct {
	N int
}

func (e *PaletteSizeError) Error() string {
	return fmt.Sprintf("palette must have 16 entries, found %d", e.N)
}

// ControlOffsetError reports a control sequence offset pointing past the
// end of the subpicture packet.
type ControlOffsetError struct {
	Offset int
	Packet int
}

func (e *ControlOffsetError) Error() string {
	return fmt.Sprintf("control offset is %#x, but packet is only %#x bytes", e.Offset, e.Packet)
}

// ScanLineOffsetsError reports RLE stream offsets that do not describe two
// ordered streams inside the pixel data region.
type ScanLineOffsetsError struct {
	Start0 int
	Start1 int
	End    int
}

func (e *ScanLineOffsetsError) Error() string {
	return fmt.Sprintf("invalid scan line offsets: start 0 %d, start 1 %d, end %d", e.Start0, e.Start1, e.End)
}

// ScanLineLengthError reports a decoded run overrunning the target line.
type ScanLineLengthError struct {
	X     int
	Width int
}

func (e *ScanLineLengthError) Error() string {
	return fmt.Sprintf("scan line is longer than image width: [%d,%d]", e.X, e.Width)
}

// OutputSizeError reports a pixel output buffer smaller than the decoded
// image needs.
type OutputSizeError struct {
	DataSize   int
	OutputSize int
}

func (e *OutputSizeError) Error() string {
	return fmt.Sprintf("output (size %d) is too small for scan line data (size %d)", e.OutputSize, e.DataSize)
}
