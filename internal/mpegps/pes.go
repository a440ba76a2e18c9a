package mpegps

import (
	"errors"
	"fmt"

	"github.com/s0up4200/go-bdsub/internal/buffer"
)

// Parse errors fall into two classes with different recovery behavior:
// framing errors resynchronize on the next start code, truncation ends the
// stream.
var (
	errTruncated = errors.New("unexpected end of stream data")
	errFraming   = errors.New("bytes do not form a valid packet")
)

func expectMarker(br *buffer.BitReader) error {
	bit, ok := br.ReadBit()
	if !ok {
		return errTruncated
	}
	if bit != 1 {
		return errFraming
	}
	return nil
}

// PackHeader is a parsed MPEG-2 Program Stream pack header.
type PackHeader struct {
	// SCR is the System Clock Reference with its extension.
	SCR Clock
	// BitRate is the program mux rate in units of 50 bytes per second.
	BitRate uint32
}

func (h PackHeader) String() string {
	return fmt.Sprintf("[PS pack @ %s, %d kbps]", h.SCR, h.BitRate*50*8/1024)
}

// parsePackHeader parses a pack header starting at the 00 00 01 BA start
// code and returns the number of bytes consumed, stuffing included.
func parsePackHeader(data []byte) (PackHeader, int, error) {
	if len(data) < 14 {
		return PackHeader{}, 0, errTruncated
	}
	br := buffer.NewBitReader(data[4:14])

	// MPEG-2 version tag.
	if v, ok := br.ReadBits(2); !ok || v != 0b01 {
		return PackHeader{}, 0, errFraming
	}
	scr, err := parseClockAndExt(br)
	if err != nil {
		return PackHeader{}, 0, err
	}
	bitRate, _ := br.ReadBits(22)
	if v, ok := br.ReadBits(2); !ok || v != 0b11 {
		return PackHeader{}, 0, errFraming
	}
	// Reserved bits.
	br.SkipBits(5)
	stuffing, ok := br.ReadBits(3)
	if !ok {
		return PackHeader{}, 0, errTruncated
	}
	consumed := 14 + int(stuffing)
	if consumed > len(data) {
		return PackHeader{}, 0, errTruncated
	}
	return PackHeader{SCR: scr, BitRate: uint32(bitRate)}, consumed, nil
}

// Packet is a parsed Packetized Elementary Stream packet carrying DVD
// subpicture data.
type Packet struct {
	ScramblingControl byte
	Priority          bool
	DataAligned       bool
	Copyright         bool
	Original          bool

	// PTS and DTS are nil when the header carries no timestamp.
	PTS *Clock
	DTS *Clock

	// SubstreamID identifies the logical subpicture channel (0x20..0x3F
	// for DVD subpictures).
	SubstreamID byte

	// Data is the packet payload after the substream id.
	Data []byte
}

// parsePesPacket parses a private-stream-1 PES packet starting at the
// 00 00 01 BD start code and returns the number of bytes consumed.
func parsePesPacket(data []byte) (*Packet, int, error) {
	if len(data) < 6 {
		return nil, 0, errTruncated
	}
	if data[0] != 0x00 || data[1] != 0x00 || data[2] != 0x01 || data[3] != 0xBD {
		return nil, 0, errFraming
	}
	length := int(data[4])<<8 | int(data[5])
	if 6+length > len(data) {
		return nil, 0, errTruncated
	}
	region := data[6 : 6+length]
	br := buffer.NewBitReader(region)

	var pkt Packet
	var ok bool
	if v, vok := br.ReadBits(2); !vok || v != 0b10 {
		return nil, 0, errFraming
	}
	sc, _ := br.ReadBits(2)
	pkt.ScramblingControl = byte(sc)
	pkt.Priority, _ = br.ReadFlag()
	pkt.DataAligned, _ = br.ReadFlag()
	pkt.Copyright, _ = br.ReadFlag()
	if pkt.Original, ok = br.ReadFlag(); !ok {
		return nil, 0, errFraming
	}

	ptsDts, ok := br.ReadBits(2)
	if !ok {
		return nil, 0, errFraming
	}
	if ptsDts == 0b01 {
		return nil, 0, errFraming
	}
	// The six remaining flag bits (ESCR, ES rate, DSM trick mode,
	// additional copy info, CRC, extension) delimit fields we never need
	// for subpictures.
	if !br.SkipBits(6) {
		return nil, 0, errFraming
	}
	headerDataLen, ok := br.ReadByteValue()
	if !ok {
		return nil, 0, errFraming
	}
	headerEnd := br.Position() + int(headerDataLen)
	if headerEnd > len(region) {
		return nil, 0, errFraming
	}

	// The region is length-delimited: running out of bits inside it is a
	// framing problem to resynchronize past, not a truncated buffer.
	switch ptsDts {
	case 0b10:
		pts, err := parseTimestamp(br, 0b0010, 0b0011)
		if err != nil {
			return nil, 0, errFraming
		}
		pkt.PTS = &pts
	case 0b11:
		pts, err := parseTimestamp(br, 0b0010, 0b0011)
		if err != nil {
			return nil, 0, errFraming
		}
		dts, err := parseTimestamp(br, 0b0001, 0b0010)
		if err != nil {
			return nil, 0, errFraming
		}
		pkt.PTS = &pts
		pkt.DTS = &dts
	}
	if br.Position() > headerEnd {
		return nil, 0, errFraming
	}

	pos := headerEnd
	if pos >= len(region) {
		return nil, 0, errFraming
	}
	pkt.SubstreamID = region[pos]
	pkt.Data = region[pos+1:]
	return &pkt, 6 + length, nil
}

// parseTimestamp reads a 4-bit tag, a 33-bit clock and its marker bits.
// Encoders disagree on the exact tag nibble, so two values are accepted.
func parseTimestamp(br *buffer.BitReader, tagA, tagB uint64) (Clock, error) {
	tag, ok := br.ReadBits(4)
	if !ok {
		return Clock{}, errTruncated
	}
	if tag != tagA && tag != tagB {
		return Clock{}, errFraming
	}
	return parseClock(br)
}
