package pgs

import (
	"bufio"
	"io"

	"github.com/s0up4200/go-bdsub/internal/util"
)

// segmentMagic opens every segment header.
var segmentMagic = [2]byte{0x50, 0x47} // "PG"

// SegmentType identifies what a segment carries.
type SegmentType byte

const (
	SegmentPDS SegmentType = 0x14 // Palette Definition Segment
	SegmentODS SegmentType = 0x15 // Object Definition Segment
	SegmentPCS SegmentType = 0x16 // Presentation Composition Segment
	SegmentWDS SegmentType = 0x17 // Window Definition Segment
	SegmentEND SegmentType = 0x80 // End of Display Set
)

func (t SegmentType) String() string {
	switch t {
	case SegmentPDS:
		return "PDS"
	case SegmentODS:
		return "ODS"
	case SegmentPCS:
		return "PCS"
	case SegmentWDS:
		return "WDS"
	case SegmentEND:
		return "END"
	}
	return "unknown"
}

// segmentHeaderLen is magic + PTS + DTS + type + size.
const segmentHeaderLen = 2 + 4 + 4 + 1 + 2

// SegmentHeader is the fixed 13-byte header in front of every segment.
type SegmentHeader struct {
	// PTS is the presentation time in 90 kHz units.
	PTS uint32
	// DTS is carried in the stream but unused by every known player.
	DTS  uint32
	Type SegmentType
	Size uint16
}

// PresentationTimeMs returns the presentation time in milliseconds.
func (h *SegmentHeader) PresentationTimeMs() int64 {
	return int64(h.PTS / 90)
}

// readSegmentHeader reads one segment header. A clean EOF at the header
// boundary returns io.EOF to signal the end of the stream; EOF inside a
// header is ErrSegmentFailReadHeader like any other IO failure.
func readSegmentHeader(r io.Reader) (*SegmentHeader, error) {
	buf := make([]byte, segmentHeaderLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, ErrSegmentFailReadHeader
	}
	if buf[0] != segmentMagic[0] || buf[1] != segmentMagic[1] {
		return nil, ErrSegmentPGMissing
	}
	pos := 2
	pts, _ := util.ReadUint32(buf, &pos)
	dts, _ := util.ReadUint32(buf, &pos)
	typeCode, _ := util.ReadByte(buf, &pos)
	size, _ := util.ReadUint16(buf, &pos)

	switch SegmentType(typeCode) {
	case SegmentPDS, SegmentODS, SegmentPCS, SegmentWDS, SegmentEND:
	default:
		return nil, &SegmentTypeError{Value: typeCode}
	}
	return &SegmentHeader{
		PTS:  pts,
		DTS:  dts,
		Type: SegmentType(typeCode),
		Size: size,
	}, nil
}

// skipSegment consumes exactly the segment's body without keeping it.
func skipSegment(br *bufio.Reader, h *SegmentHeader) error {
	if _, err := br.Discard(int(h.Size)); err != nil {
		return &SegmentSkipError{Type: h.Type, Err: err}
	}
	return nil
}

// readSegmentBody reads the segment's body into a fresh buffer.
func readSegmentBody(br *bufio.Reader, h *SegmentHeader) ([]byte, error) {
	body := make([]byte, int(h.Size))
	if _, err := io.ReadFull(br, body); err != nil {
		return nil, &FailedReadBufferError{Size: int(h.Size), Err: err}
	}
	return body, nil
}
