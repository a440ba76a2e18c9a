package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/s0up4200/go-bdsub/pgs"
	"github.com/s0up4200/go-bdsub/srt"
	"github.com/s0up4200/go-bdsub/timecode"
	"github.com/s0up4200/go-bdsub/vobsub"
	"github.com/s0up4200/go-bdsub/webvtt"
)

var (
	timesFormat string
	timesOutput string
)

var timesCmd = &cobra.Command{
	Use:   "times <file>",
	Short: "Extract subtitle timing as an empty SubRip or WebVTT skeleton",
	Long: `times decodes a .idx or .sup file and writes one cue per subtitle
with its display times and empty text, ready for transcription or OCR
tooling to fill in.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spans, decodeErrs, err := collectSpans(args[0])
		if err != nil {
			return err
		}
		if decodeErrs > 0 {
			log.Warn().Int("count", decodeErrs).Msg("some subtitles failed to decode")
		}

		out := os.Stdout
		if timesOutput != "" {
			f, err := os.Create(timesOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		return writeSpans(out, timesFormat, spans)
	},
}

func init() {
	timesCmd.Flags().StringVarP(&timesFormat, "format", "f", "srt", "output format: srt or vtt")
	timesCmd.Flags().StringVarP(&timesOutput, "output", "o", "", "output file (default stdout)")
}

// collectSpans decodes every subtitle's time span from an .idx or .sup
// file. Decode errors on individual subtitles are counted, not fatal.
func collectSpans(path string) ([]timecode.TimeSpan, int, error) {
	kind, err := detectFileKind(path)
	if err != nil {
		return nil, 0, err
	}
	var spans []timecode.TimeSpan
	decodeErrs := 0

	switch kind {
	case "idx":
		idx, err := vobsub.OpenIndex(path)
		if err != nil {
			return nil, 0, err
		}
		r := idx.Subtitles()
		for {
			sub, err := r.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				decodeErrs++
				break
			}
			spans = append(spans, sub.Times)
		}
	case "sup":
		p, err := pgs.OpenSupTimes(path)
		if err != nil {
			return nil, 0, err
		}
		defer p.Close()
		for {
			span, err := p.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				decodeErrs++
				continue
			}
			spans = append(spans, span)
		}
	default:
		return nil, 0, fmt.Errorf("%s: expected a .idx or .sup file", path)
	}
	return spans, decodeErrs, nil
}

func writeSpans(w io.Writer, format string, spans []timecode.TimeSpan) error {
	switch format {
	case "srt":
		entries := make([]srt.Entry, len(spans))
		for i, s := range spans {
			entries[i] = srt.Entry{Times: s}
		}
		return srt.Write(w, entries)
	case "vtt":
		if err := webvtt.WriteHeader(w); err != nil {
			return err
		}
		for _, s := range spans {
			if err := webvtt.WriteCue(w, s, ""); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}
