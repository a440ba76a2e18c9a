// Package mpegps demultiplexes the MPEG-2 Program Stream wrapping of a
// VobSub .sub file: PS pack headers, each followed by one private-stream-1
// PES packet carrying a slice of subpicture data.
//
// DVD program streams routinely interleave padding packets, navigation
// packets and other PES types whose framing this package does not model.
// The demuxer therefore resynchronizes: anything after a start code that
// does not parse is logged and skipped, and scanning resumes at the next
// start code.
package mpegps

import (
	"bytes"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
)

// psStartCode opens every PS pack header.
var psStartCode = []byte{0x00, 0x00, 0x01, 0xBA}

// PesPacket is one PES packet together with the pack header preceding it.
type PesPacket struct {
	PS  PackHeader
	Pes Packet
}

// Demuxer iterates over the PES packets of an in-memory program stream.
// It is strictly sequential and not safe for concurrent use.
type Demuxer struct {
	data []byte
	pos  int
	done bool
}

// NewDemuxer returns a demuxer over buf. The demuxer borrows buf; packet
// payloads alias it.
func NewDemuxer(buf []byte) *Demuxer {
	return &Demuxer{data: buf}
}

// Next returns the next parseable PES packet in source order. It returns
// io.EOF once the buffer holds no further start code, and a wrapped
// truncation error (terminating the stream) when a packet runs past the end
// of the buffer.
func (d *Demuxer) Next() (*PesPacket, error) {
	for !d.done {
		idx := bytes.Index(d.data[d.pos:], psStartCode)
		if idx < 0 {
			d.pos = len(d.data)
			d.done = true
			return nil, io.EOF
		}
		d.pos += idx

		pkt, consumed, err := d.parseAt(d.pos)
		switch {
		case err == nil:
			d.pos += consumed
			return pkt, nil
		case err == errTruncated:
			d.done = true
			return nil, fmt.Errorf("pes packet at offset %#x: %w", d.pos, io.ErrUnexpectedEOF)
		default:
			// Looked like a packet but was not parseable. Skip the start
			// code and keep scanning.
			log.Debug().Int("offset", d.pos).Msg("skipping unparseable PS framing")
			d.pos += len(psStartCode)
		}
	}
	return nil, io.EOF
}

// parseAt parses one pack header plus its PES packet at offset pos.
func (d *Demuxer) parseAt(pos int) (*PesPacket, int, error) {
	ps, n, err := parsePackHeader(d.data[pos:])
	if err != nil {
		return nil, 0, err
	}
	pes, m, err := parsePesPacket(d.data[pos+n:])
	if err != nil {
		return nil, 0, err
	}
	return &PesPacket{PS: ps, Pes: *pes}, n + m, nil
}
