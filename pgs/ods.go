package pgs

import (
	"io"

	"github.com/s0up4200/go-bdsub/internal/util"
)

// LastInSequenceFlag marks how an object definition segment fragments:
// objects larger than one segment arrive as First followed by Last.
type LastInSequenceFlag byte

const (
	FlagLast         LastInSequenceFlag = 0x40
	FlagFirst        LastInSequenceFlag = 0x80
	FlagFirstAndLast LastInSequenceFlag = 0xC0
)

func (f LastInSequenceFlag) String() string {
	switch f {
	case FlagLast:
		return "last-in-sequence"
	case FlagFirst:
		return "first-in-sequence"
	case FlagFirstAndLast:
		return "first-and-last-in-sequence"
	}
	return "invalid-sequence-flag"
}

// object is a fully reassembled object definition: the RLE image payload
// and its declared dimensions.
type object struct {
	width  uint16
	height uint16
	data   []byte
}

// partialObject holds a First fragment while its Last half is still in
// flight.
type partialObject struct {
	width    uint16
	height   uint16
	data     []byte
	expected int
}

// readObjectSegment consumes one ODS body and advances the assembler:
// either a complete object comes out, or a partial one to carry into the
// next segment. prev is the pending partial from the previous ODS, nil
// when none is open.
func readObjectSegment(body []byte, prev *partialObject) (*object, *partialObject, error) {
	pos := 0
	// Object id (2 bytes) and version are not useful for decoding.
	if _, ok := util.ReadSlice(body, &pos, 3); !ok {
		return nil, nil, &FailedReadBufferError{Size: len(body), Err: io.ErrUnexpectedEOF}
	}
	flagByte, ok := util.ReadByte(body, &pos)
	if !ok {
		return nil, nil, &FailedReadBufferError{Size: len(body), Err: io.ErrUnexpectedEOF}
	}
	flag := LastInSequenceFlag(flagByte)
	switch flag {
	case FlagLast, FlagFirst, FlagFirstAndLast:
	default:
		return nil, nil, &LastInSequenceFlagError{Value: flagByte}
	}

	if flag == FlagLast {
		if prev == nil {
			return nil, nil, &FragmentOrderError{Flag: flag}
		}
		// Everything after the 4 header bytes continues the object.
		prev.data = append(prev.data, body[pos:]...)
		return &object{width: prev.width, height: prev.height, data: prev.data}, nil, nil
	}

	// First or FirstAndLast: a fresh object while one is open is an
	// ordering violation.
	if prev != nil {
		return nil, nil, &FragmentOrderError{Flag: flag}
	}

	dataLength, ok := util.ReadUint24(body, &pos)
	if !ok {
		return nil, nil, &FailedReadBufferError{Size: len(body), Err: io.ErrUnexpectedEOF}
	}
	width, ok := util.ReadUint16(body, &pos)
	if !ok {
		return nil, nil, &FailedReadBufferError{Size: len(body), Err: io.ErrUnexpectedEOF}
	}
	height, ok := util.ReadUint16(body, &pos)
	if !ok {
		return nil, nil, &FailedReadBufferError{Size: len(body), Err: io.ErrUnexpectedEOF}
	}
	// The declared object data length includes the width and height bytes
	// just read.
	payloadLength := int(dataLength) - 4
	if payloadLength < 0 {
		return nil, nil, &OdsLengthError{DataLength: int(dataLength), SegmentSize: len(body)}
	}

	if flag == FlagFirstAndLast {
		if len(body) != 11+payloadLength {
			return nil, nil, &OdsLengthError{DataLength: int(dataLength), SegmentSize: len(body)}
		}
		return &object{width: width, height: height, data: body[pos:]}, nil, nil
	}

	// First of several: keep what this segment carries and wait for the
	// rest.
	data := make([]byte, 0, payloadLength)
	data = append(data, body[pos:]...)
	return nil, &partialObject{
		width:    width,
		height:   height,
		data:     data,
		expected: payloadLength,
	}, nil
}
