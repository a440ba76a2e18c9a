// Package webvtt writes subtitle timing in WebVTT format.
package webvtt

import (
	"fmt"
	"io"

	"github.com/s0up4200/go-bdsub/timecode"
)

// WriteHeader writes the mandatory WEBVTT file header.
func WriteHeader(w io.Writer) error {
	_, err := io.WriteString(w, "WEBVTT\n\n")
	return err
}

// WriteCue writes one cue. WebVTT uses '.' before the milliseconds where
// SubRip uses ','.
func WriteCue(w io.Writer, times timecode.TimeSpan, text string) error {
	_, err := fmt.Fprintf(w, "%s --> %s\n%s\n\n",
		times.Start.Format('.'), times.End.Format('.'), text)
	return err
}
