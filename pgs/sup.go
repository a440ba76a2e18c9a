package pgs

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/s0up4200/go-bdsub/timecode"
)

// Subtitle is one decoded PGS subtitle: its display times and the RLE
// image composed for it. Display sets that clear the screen without
// defining a new object carry an empty 0x0 image.
type Subtitle struct {
	Times timecode.TimeSpan
	Image *RleImage
}

// SupParser iterates over the subtitles of a .sup stream, decoding times
// and images.
type SupParser struct {
	br *bufio.Reader
	f  *os.File
}

// NewSupParser returns a parser reading from r.
func NewSupParser(r io.Reader) *SupParser {
	return &SupParser{br: bufio.NewReader(r)}
}

// OpenSup opens a .sup file for parsing. Close releases the file.
func OpenSup(path string) (*SupParser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q", path)
	}
	p := NewSupParser(f)
	p.f = f
	return p, nil
}

// Close releases the underlying file, if the parser owns one.
func (p *SupParser) Close() error {
	if p.f == nil {
		return nil
	}
	return p.f.Close()
}

// Next returns the next subtitle, or io.EOF at a clean end of stream.
// After a non-EOF error the parser stays usable: the next call resumes at
// the following segment, so one corrupt display set does not end
// iteration.
func (p *SupParser) Next() (*Subtitle, error) {
	var (
		startTime *timecode.TimePoint
		palette   *Palette
		image     *RleImage
		prevOds   *partialObject
	)

	for {
		header, err := readSegmentHeader(p.br)
		if err != nil {
			return nil, err
		}
		switch header.Type {
		case SegmentPDS:
			body, err := readSegmentBody(p.br, header)
			if err != nil {
				return nil, err
			}
			// The last palette before the closing END wins.
			if palette, err = parsePalette(body); err != nil {
				return nil, err
			}

		case SegmentODS:
			body, err := readSegmentBody(p.br, header)
			if err != nil {
				return nil, err
			}
			complete, pending, err := readObjectSegment(body, prevOds)
			if err != nil {
				return nil, err
			}
			prevOds = pending
			if complete != nil {
				if palette == nil {
					return nil, ErrMissingPalette
				}
				image = NewRleImage(complete.width, complete.height, palette, complete.data)
				palette = nil
			}

		case SegmentEND:
			t := timecode.FromMsecs(header.PresentationTimeMs())
			if startTime == nil {
				startTime = &t
				continue
			}
			if image == nil {
				if palette == nil {
					return nil, ErrMissingImage
				}
				// A display set that clears the screen: keep the timing
				// with an empty image.
				image = NewRleImage(0, 0, palette, nil)
			}
			return &Subtitle{
				Times: timecode.NewTimeSpan(*startTime, t),
				Image: image,
			}, nil

		default:
			if err := skipSegment(p.br, header); err != nil {
				return nil, err
			}
		}
	}
}

// TimesParser iterates over the subtitles of a .sup stream keeping only
// their time spans. Segment payloads are skipped wholesale.
type TimesParser struct {
	br *bufio.Reader
	f  *os.File
}

// NewTimesParser returns a times-only parser reading from r.
func NewTimesParser(r io.Reader) *TimesParser {
	return &TimesParser{br: bufio.NewReader(r)}
}

// OpenSupTimes opens a .sup file for times-only parsing.
func OpenSupTimes(path string) (*TimesParser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q", path)
	}
	p := NewTimesParser(f)
	p.f = f
	return p, nil
}

// Close releases the underlying file, if the parser owns one.
func (p *TimesParser) Close() error {
	if p.f == nil {
		return nil
	}
	return p.f.Close()
}

// Next returns the next subtitle's time span: the first END of a pair
// opens it, the second closes it. It returns io.EOF at a clean end of
// stream.
func (p *TimesParser) Next() (timecode.TimeSpan, error) {
	var startTime *timecode.TimePoint

	for {
		header, err := readSegmentHeader(p.br)
		if err != nil {
			return timecode.TimeSpan{}, err
		}
		if header.Type != SegmentEND {
			if err := skipSegment(p.br, header); err != nil {
				return timecode.TimeSpan{}, err
			}
			continue
		}
		t := timecode.FromMsecs(header.PresentationTimeMs())
		if startTime == nil {
			startTime = &t
			continue
		}
		return timecode.NewTimeSpan(*startTime, t), nil
	}
}

// IsSupFile reports whether path starts with the PG segment magic.
func IsSupFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, errors.Wrapf(err, "opening %q", path)
	}
	defer f.Close()

	buf := make([]byte, 2)
	if _, err := io.ReadFull(f, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, errors.Wrapf(err, "reading %q", path)
	}
	return bytes.Equal(buf, segmentMagic[:]), nil
}
