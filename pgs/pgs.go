// Package pgs reads Blu-ray Presentation Graphic Stream subtitles (.sup
// files): a sequence of segments (PCS, WDS, PDS, ODS, END) that compose
// palettized RLE images with display times.
//
// Two parsers share the segment machinery. SupParser decodes times and
// images; TimesParser only collects time spans, which is all that subtitle
// spotting or duration probing needs.
package pgs

import (
	"errors"
	"fmt"
)

var (
	// ErrSegmentPGMissing reports a segment header without the PG magic.
	ErrSegmentPGMissing = errors.New("segment does not start with PG magic")

	// ErrSegmentFailReadHeader reports an IO failure (including EOF inside
	// a header) while reading a segment header.
	ErrSegmentFailReadHeader = errors.New("failed to read segment header")

	// ErrMissingPalette reports an object completed before any palette
	// definition arrived.
	ErrMissingPalette = errors.New("no palette defined for object")

	// ErrMissingImage reports a display set closing without an object and
	// without a palette to attach to an empty one.
	ErrMissingImage = errors.New("no image defined for subtitle")
)

// SegmentTypeError reports an unknown segment type code.
type SegmentTypeError struct {
	Value byte
}

func (e *SegmentTypeError) Error() string {
	return fmt.Sprintf("segment type code %#02x is not valid", e.Value)
}

// SegmentSkipError reports a failure consuming a skipped segment's body.
type SegmentSkipError struct {
	Type SegmentType
	Err  error
}

func (e *SegmentSkipError) Error() string {
	return fmt.Sprintf("skipping %s segment: %v", e.Type, e.Err)
}

func (e *SegmentSkipError) Unwrap() error {
	return e.Err
}

// FailedReadBufferError reports a segment body ending before its declared
// size.
type FailedReadBufferError struct {
	Size int
	Err  error
}

func (e *FailedReadBufferError) Error() string {
	return fmt.Sprintf("failed to read buffer of %d bytes: %v", e.Size, e.Err)
}

func (e *FailedReadBufferError) Unwrap() error {
	return e.Err
}

// PaletteBodyError reports a palette definition body whose size is not
// 2+5n.
type PaletteBodyError struct {
	Size int
}

func (e *PaletteBodyError) Error() string {
	return fmt.Sprintf("palette definition body of %d bytes is not 2+5n", e.Size)
}

// LastInSequenceFlagError reports an invalid last-in-sequence flag byte.
type LastInSequenceFlagError struct {
	Value byte
}

func (e *LastInSequenceFlagError) Error() string {
	return fmt.Sprintf("last-in-sequence flag %#02x is not a valid value", e.Value)
}

// FragmentOrderError reports an object fragment that does not fit the
// assembler's state: a continuation without a first fragment, or a first
// fragment while another object is still open.
type FragmentOrderError struct {
	Flag LastInSequenceFlag
}

func (e *FragmentOrderError) Error() string {
	return fmt.Sprintf("%s fragment not managed in this state", e.Flag)
}

// OdsLengthError reports an object data length inconsistent with the
// carrying segment's size.
type OdsLengthError struct {
	DataLength  int
	SegmentSize int
}

func (e *OdsLengthError) Error() string {
	return fmt.Sprintf("object data length %d inconsistent with segment size %d", e.DataLength, e.SegmentSize)
}
