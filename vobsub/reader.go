package vobsub

import (
	"io"

	"github.com/rs/zerolog/log"

	"github.com/s0up4200/go-bdsub/internal/mpegps"
	"github.com/s0up4200/go-bdsub/timecode"
)

// defaultSubtitleLength caps back-filled display times when a subtitle
// carries no stop command, in milliseconds.
const defaultSubtitleLength = 5000

// Subtitle is one decoded VobSub subtitle.
type Subtitle struct {
	Times timecode.TimeSpan
	// Forced marks subtitles displayed even when the user's subtitle
	// track is off.
	Forced bool
	Image  *IndexedImage
}

// SubtitleReader iterates over the subtitles of a .sub stream in source
// order. Subtitles missing a stop time get one back-filled from a
// one-subtitle lookahead, so emission lags the underlying stream by one.
type SubtitleReader struct {
	demux    *mpegps.Demuxer
	buffered *rawSubtitle
	primed   bool
}

// NewSubtitleReader returns a reader over the raw contents of a .sub file.
// The reader borrows buf for its lifetime.
func NewSubtitleReader(buf []byte) *SubtitleReader {
	return &SubtitleReader{demux: mpegps.NewDemuxer(buf)}
}

// Next returns the next subtitle. It returns io.EOF at the end of the
// stream. On a parse error the buffered subtitle is retained and the error
// surfaces immediately; for VobSub, corruption of length fields usually
// means the remainder of the stream is undecodable.
func (r *SubtitleReader) Next() (Subtitle, error) {
	if !r.primed {
		sub, err := r.parseNext()
		if err != nil {
			return Subtitle{}, err
		}
		r.buffered = sub
		r.primed = true
	}
	if r.buffered == nil {
		return Subtitle{}, io.EOF
	}

	next, err := r.parseNext()
	if err != nil && err != io.EOF {
		return Subtitle{}, err
	}

	cur := r.buffered
	if err == io.EOF {
		r.buffered = nil
	} else {
		r.buffered = next
	}

	start := timecode.FromSecs(cur.start)
	end := timecode.FromSecs(cur.end)
	if !cur.hasEnd {
		end = start.Add(defaultSubtitleLength)
		if next != nil {
			if capped := timecode.FromSecs(next.start).Add(-1); capped < end {
				end = capped
			}
		}
	}
	return Subtitle{
		Times:  timecode.NewTimeSpan(start, end),
		Forced: cur.forced,
		Image:  cur.image,
	}, nil
}

// parseNext assembles and decodes one subtitle from the PES stream.
func (r *SubtitleReader) parseNext() (*rawSubtitle, error) {
	baseTime, packet, err := r.nextSubPacket()
	if err != nil {
		return nil, err
	}
	return parseSubtitle(packet, baseTime)
}

// nextSubPacket concatenates PES payloads of one substream until the
// declared subpicture length is reached.
func (r *SubtitleReader) nextSubPacket() (float64, []byte, error) {
	first, err := r.demux.Next()
	if err != nil {
		return 0, nil, err
	}
	if first.Pes.PTS == nil {
		return 0, nil, ErrMissingTimingForSubtitle
	}
	baseTime := first.Pes.PTS.Seconds()
	substreamID := first.Pes.SubstreamID

	if len(first.Pes.Data) < 2 {
		return 0, nil, ErrPacketTooShort
	}
	wanted := int(first.Pes.Data[0])<<8 | int(first.Pes.Data[1])
	packet := make([]byte, 0, wanted)
	packet = append(packet, first.Pes.Data...)

	for len(packet) < wanted {
		next, err := r.demux.Next()
		if err != nil {
			return 0, nil, err
		}
		// Mostly paranoia: a .sub file carries a single subtitle track,
		// but skip foreign substreams if they do appear.
		if next.Pes.SubstreamID != substreamID {
			log.Warn().
				Uint8("got", next.Pes.SubstreamID).
				Uint8("want", substreamID).
				Msg("found subtitle for a different substream")
			continue
		}
		packet = append(packet, next.Pes.Data...)
	}

	if len(packet) > wanted {
		log.Warn().
			Int("got", len(packet)).
			Int("want", wanted).
			Msg("subtitle packet has excess data, truncating")
		packet = packet[:wanted]
	}
	return baseTime, packet, nil
}
