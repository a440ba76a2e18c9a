package vobsub

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
)

// hasMagic reports whether the file at path starts with magic.
func hasMagic(path string, magic []byte) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, errors.Wrapf(err, "opening %q", path)
	}
	defer f.Close()

	buf := make([]byte, len(magic))
	if _, err := io.ReadFull(f, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, errors.Wrapf(err, "reading %q", path)
	}
	return bytes.Equal(buf, magic), nil
}

// IsIdxFile reports whether path looks like a VobSub .idx file.
func IsIdxFile(path string) (bool, error) {
	return hasMagic(path, []byte("# VobSub index file"))
}

// IsSubFile reports whether path looks like a VobSub .sub file. This may
// return false positives for other MPEG-2 program streams.
func IsSubFile(path string) (bool, error) {
	return hasMagic(path, []byte{0x00, 0x00, 0x01, 0xBA})
}
