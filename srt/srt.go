// Package srt writes subtitle timing in SubRip format.
package srt

import (
	"fmt"
	"io"

	"github.com/s0up4200/go-bdsub/timecode"
)

// Entry is one SubRip cue.
type Entry struct {
	Times timecode.TimeSpan
	Text  string
}

// Write renders entries as a SubRip document. Cue numbers start at 1.
func Write(w io.Writer, entries []Entry) error {
	for i, e := range entries {
		if err := WriteEntry(w, i+1, e.Times, e.Text); err != nil {
			return err
		}
	}
	return nil
}

// WriteEntry writes a single numbered cue.
func WriteEntry(w io.Writer, num int, times timecode.TimeSpan, text string) error {
	_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
		num, times.Start.Format(','), times.End.Format(','), text)
	return err
}
