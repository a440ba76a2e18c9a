package vobsub

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var keyValueRe = regexp.MustCompile(`^([A-Za-z/ ]+): (.*)$`)

const paletteKey = "palette"

// Index is a parsed .idx file together with the raw contents of its
// sibling .sub file.
type Index struct {
	palette Palette
	lang    string
	subData []byte
}

// OpenIndex reads an .idx file and the .sub file sharing its basename.
func OpenIndex(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q", path)
	}
	defer f.Close()

	idx, err := ReadIndex(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", path)
	}

	subPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".sub"
	idx.subData, err = os.ReadFile(subPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", subPath)
	}
	return idx, nil
}

// NewIndex builds an Index from an already-loaded palette and .sub
// contents, for callers that source them elsewhere (e.g. Matroska tracks
// re-wrapped as VobSub).
func NewIndex(palette Palette, subData []byte) *Index {
	return &Index{palette: palette, subData: subData}
}

// ReadIndex parses .idx key/value lines. A missing palette line falls back
// to DefaultPalette; a malformed one is an error.
func ReadIndex(r io.Reader) (*Index, error) {
	idx, seenPalette, err := scanIndex(r)
	if err != nil {
		return nil, err
	}
	if !seenPalette {
		log.Debug().Msg("idx file has no palette, using the default")
	}
	return idx, nil
}

// ReadPalette reads only the palette from .idx content. Unlike ReadIndex
// it does not fall back: a missing palette line is a MissingKeyError.
func ReadPalette(r io.Reader) (Palette, error) {
	idx, seenPalette, err := scanIndex(r)
	if err != nil {
		return Palette{}, err
	}
	if !seenPalette {
		return Palette{}, &MissingKeyError{Key: paletteKey}
	}
	return idx.palette, nil
}

func scanIndex(r io.Reader) (*Index, bool, error) {
	idx := &Index{palette: DefaultPalette}
	seenPalette := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		m := keyValueRe.FindStringSubmatch(strings.TrimRight(scanner.Text(), "\r\n"))
		if m == nil {
			continue
		}
		key, val := m[1], m[2]
		switch key {
		case paletteKey:
			p, err := ParsePalette(val)
			if err != nil {
				return nil, false, err
			}
			idx.palette = p
			seenPalette = true
		case "id":
			// "id: en, index: 0" — the language code is the part before
			// the comma.
			if i := strings.IndexByte(val, ','); i >= 0 {
				idx.lang = strings.TrimSpace(val[:i])
			} else {
				idx.lang = strings.TrimSpace(val)
			}
		default:
			log.Trace().Str("key", key).Msg("unimplemented idx key")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, false, err
	}
	return idx, seenPalette, nil
}

// Palette returns the subtitle track's 16-color palette.
func (idx *Index) Palette() Palette {
	return idx.palette
}

// Lang returns the ISO language code from the "id:" line, or "" when the
// file has none.
func (idx *Index) Lang() string {
	return idx.lang
}

// Subtitles returns a lazy, forward-only reader over the subtitles in the
// .sub data.
func (idx *Index) Subtitles() *SubtitleReader {
	return NewSubtitleReader(idx.subData)
}
