package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/s0up4200/go-bdsub/pgs"
	"github.com/s0up4200/go-bdsub/vobsub"
)

var probeCmd = &cobra.Command{
	Use:   "probe <file>...",
	Short: "Identify subtitle files and summarize their contents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reports := make([]probeReport, 0, len(args))
		for _, path := range args {
			reports = append(reports, probeFile(path))
		}
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	},
}

type probeReport struct {
	Path      string `json:"path"`
	Kind      string `json:"kind"`
	Lang      string `json:"lang,omitempty"`
	Subtitles int    `json:"subtitles,omitempty"`
	Errors    int    `json:"errors,omitempty"`
	FirstMs   int64  `json:"first_ms,omitempty"`
	LastMs    int64  `json:"last_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

// detectFileKind sniffs the file's magic.
func detectFileKind(path string) (string, error) {
	if ok, err := vobsub.IsIdxFile(path); err != nil {
		return "", err
	} else if ok {
		return "idx", nil
	}
	if ok, err := vobsub.IsSubFile(path); err != nil {
		return "", err
	} else if ok {
		return "sub", nil
	}
	if ok, err := pgs.IsSupFile(path); err != nil {
		return "", err
	} else if ok {
		return "sup", nil
	}
	return "unknown", nil
}

func probeFile(path string) probeReport {
	report := probeReport{Path: path}
	kind, err := detectFileKind(path)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Kind = kind

	switch kind {
	case "idx":
		idx, err := vobsub.OpenIndex(path)
		if err != nil {
			report.Error = err.Error()
			return report
		}
		report.Lang = idx.Lang()
		r := idx.Subtitles()
		for {
			sub, err := r.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				// For VobSub, corrupt length fields usually sink the
				// remainder of the stream.
				report.Errors++
				break
			}
			if report.Subtitles == 0 {
				report.FirstMs = sub.Times.Start.Msecs()
			}
			report.Subtitles++
			report.LastMs = sub.Times.End.Msecs()
		}
	case "sup":
		p, err := pgs.OpenSupTimes(path)
		if err != nil {
			report.Error = err.Error()
			return report
		}
		defer p.Close()
		for {
			span, err := p.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				report.Errors++
				continue
			}
			if report.Subtitles == 0 {
				report.FirstMs = span.Start.Msecs()
			}
			report.Subtitles++
			report.LastMs = span.End.Msecs()
		}
	case "sub":
		report.Error = "probe the .idx file of this pair instead"
	default:
		report.Error = fmt.Sprintf("%s is not a recognized subtitle file", path)
	}
	return report
}
