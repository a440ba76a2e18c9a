package vobsub

import (
	"github.com/rs/zerolog/log"

	"github.com/s0up4200/go-bdsub/content"
	"github.com/s0up4200/go-bdsub/internal/util"
)

// Control sequence opcodes. Each command's payload length is fixed; 0xFF
// terminates the command list of a sequence.
const (
	cmdForce       = 0x00
	cmdStartDate   = 0x01
	cmdStopDate    = 0x02
	cmdPalette     = 0x03
	cmdAlpha       = 0x04
	cmdCoordinates = 0x05
	cmdRleOffsets  = 0x06
	cmdEnd         = 0xFF
)

// controlCommand is one parsed command in a control sequence. op selects
// which payload field is meaningful.
type controlCommand struct {
	op      byte
	nibbles [4]uint8           // cmdPalette, cmdAlpha
	coords  content.AreaValues // cmdCoordinates
	offsets [2]uint16          // cmdRleOffsets
	raw     []byte             // anything unsupported
}

// controlSequence is one node in the linked list of control sequences
// inside a subpicture packet.
type controlSequence struct {
	// date is expressed in 1/100ths of a second after the packet's PTS.
	date uint16
	// next is the offset of the next sequence; a sequence pointing at
	// itself is the last one.
	next     uint16
	commands []controlCommand
}

// parseControlSequence parses one control sequence from the start of data.
func parseControlSequence(data []byte) (*controlSequence, error) {
	pos := 0
	date, ok := util.ReadUint16(data, &pos)
	if !ok {
		return nil, ErrIncompleteControlPacket
	}
	next, ok := util.ReadUint16(data, &pos)
	if !ok {
		return nil, ErrIncompleteControlPacket
	}

	seq := &controlSequence{date: date, next: next}
	for {
		op, ok := util.ReadByte(data, &pos)
		if !ok {
			return nil, ErrIncompleteControlPacket
		}
		if op == cmdEnd {
			return seq, nil
		}
		cmd := controlCommand{op: op}
		switch op {
		case cmdForce, cmdStartDate, cmdStopDate:
			// No payload.
		case cmdPalette, cmdAlpha:
			b, ok := util.ReadSlice(data, &pos, 2)
			if !ok {
				return nil, ErrIncompleteControlPacket
			}
			cmd.nibbles = [4]uint8{b[0] >> 4, b[0] & 0xF, b[1] >> 4, b[1] & 0xF}
		case cmdCoordinates:
			b, ok := util.ReadSlice(data, &pos, 6)
			if !ok {
				return nil, ErrIncompleteControlPacket
			}
			cmd.coords = content.AreaValues{
				X1: uint16(b[0])<<4 | uint16(b[1])>>4,
				X2: uint16(b[1]&0xF)<<8 | uint16(b[2]),
				Y1: uint16(b[3])<<4 | uint16(b[4])>>4,
				Y2: uint16(b[4]&0xF)<<8 | uint16(b[5]),
			}
		case cmdRleOffsets:
			b, ok := util.ReadSlice(data, &pos, 4)
			if !ok {
				return nil, ErrIncompleteControlPacket
			}
			cmd.offsets = [2]uint16{
				uint16(b[0])<<8 | uint16(b[1]),
				uint16(b[2])<<8 | uint16(b[3]),
			}
		default:
			// Unknown opcode: consume up to (but not including) the next
			// 0xFF so the terminator still closes the sequence. Recovery,
			// not correctness.
			start := pos
			for pos < len(data) && data[pos] != cmdEnd {
				pos++
			}
			if pos >= len(data) {
				return nil, ErrIncompleteControlPacket
			}
			cmd.raw = data[start:pos]
			log.Warn().Uint8("opcode", op).Hex("payload", cmd.raw).
				Msg("unsupported control command")
		}
		seq.commands = append(seq.commands, cmd)
	}
}

// rawSubtitle is the output of control interpretation plus RLE decoding,
// before end-time back-fill.
type rawSubtitle struct {
	start  float64 // seconds
	end    float64 // seconds, meaningful only when hasEnd
	hasEnd bool
	forced bool
	image  *IndexedImage
}

// parseSubtitle interprets a complete subpicture packet. baseTime is the
// PTS of the packet's first PES packet, in seconds.
func parseSubtitle(raw []byte, baseTime float64) (*rawSubtitle, error) {
	if len(raw) < 2 {
		return nil, ErrUnexpectedEndOfSubtitleData
	}
	pos := 2
	initialControlOffset, ok := util.ReadUint16(raw, &pos)
	if !ok {
		return nil, ErrBufferTooSmallForU16
	}

	var (
		startTime, endTime float64
		hasStart, hasEnd   bool
		force              bool
		area               content.Area
		hasArea            bool
		palette, alpha     [4]uint8
		hasPalette         bool
		hasAlpha           bool
		rleOffsets         [2]uint16
		hasRleOffsets      bool
	)

	// Walk the linked list of control sequences. Offsets are strictly
	// non-decreasing; the terminal sequence points at itself.
	controlOffset := int(initialControlOffset)
	for {
		if controlOffset >= len(raw) {
			return nil, &ControlOffsetError{Offset: controlOffset, Packet: len(raw)}
		}
		seq, err := parseControlSequence(raw[controlOffset:])
		if err != nil {
			return nil, err
		}

		seqTime := baseTime + float64(seq.date)/100.0
		for _, cmd := range seq.commands {
			switch cmd.op {
			case cmdForce:
				force = true
			case cmdStartDate:
				if !hasStart {
					startTime = seqTime
					hasStart = true
				}
			case cmdStopDate:
				if !hasEnd {
					endTime = seqTime
					hasEnd = true
				}
			case cmdPalette:
				if !hasPalette {
					palette = cmd.nibbles
					hasPalette = true
				}
			case cmdAlpha:
				if !hasAlpha {
					alpha = cmd.nibbles
					hasAlpha = true
				}
			case cmdCoordinates:
				if !hasArea {
					a, err := content.NewArea(cmd.coords)
					if err != nil {
						return nil, err
					}
					area = a
					hasArea = true
				}
			case cmdRleOffsets:
				rleOffsets = cmd.offsets
				hasRleOffsets = true
			}
		}

		next := int(seq.next)
		if next < controlOffset {
			return nil, ErrControlOffsetWentBackwards
		}
		if next == controlOffset {
			// Points back at itself: this was the last sequence.
			break
		}
		controlOffset = next
	}

	switch {
	case !hasStart:
		return nil, ErrMissingStartTime
	case !hasArea:
		return nil, ErrMissingArea
	case !hasPalette:
		return nil, ErrMissingPalette
	case !hasAlpha:
		return nil, ErrMissingAlphaPalette
	case !hasRleOffsets:
		return nil, ErrMissingRleOffset
	}

	// The RLE streams live before the control area.
	end := int(initialControlOffset) + 2
	start0, start1 := int(rleOffsets[0]), int(rleOffsets[1])
	if start0 > start1 || start1 > end || end > len(raw) {
		return nil, &ScanLineOffsetsError{Start0: start0, Start1: start1, End: end}
	}
	size := area.Size()
	pixels, err := decompress(size, raw[start0:end], raw[start1:end])
	if err != nil {
		return nil, err
	}

	// Encoders emit the palette and alpha quads reversed relative to raw
	// 2-bit pixel values. Reverse them here, once, so that pixel value v
	// indexes palette[v] and alpha[v] directly.
	img := &IndexedImage{
		area:    area,
		palette: reverseQuad(palette),
		alpha:   reverseQuad(alpha),
		pixels:  pixels,
	}
	sub := &rawSubtitle{
		start:  startTime,
		end:    endTime,
		hasEnd: hasEnd,
		forced: force,
		image:  img,
	}
	return sub, nil
}

func reverseQuad(q [4]uint8) [4]uint8 {
	return [4]uint8{q[3], q[2], q[1], q[0]}
}
