package main

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/s0up4200/go-bdsub/pgs"
	"github.com/s0up4200/go-bdsub/vobsub"
)

var dumpDir string

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Decode subtitle images to PNG files plus a JSON manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(dumpDir, 0o755); err != nil {
			return err
		}
		entries, err := dumpImages(args[0], dumpDir)
		if err != nil {
			return err
		}
		manifest, err := os.Create(filepath.Join(dumpDir, "manifest.json"))
		if err != nil {
			return err
		}
		defer manifest.Close()
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(manifest)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	},
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpDir, "out", "o", "subtitles", "output directory")
}

type dumpEntry struct {
	File    string `json:"file,omitempty"`
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
	X       int    `json:"x,omitempty"`
	Y       int    `json:"y,omitempty"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Forced  bool   `json:"forced,omitempty"`
	Error   string `json:"error,omitempty"`
}

func dumpImages(path, dir string) ([]dumpEntry, error) {
	kind, err := detectFileKind(path)
	if err != nil {
		return nil, err
	}
	var entries []dumpEntry

	switch kind {
	case "idx":
		idx, err := vobsub.OpenIndex(path)
		if err != nil {
			return nil, err
		}
		palette := idx.Palette()
		r := idx.Subtitles()
		for {
			sub, err := r.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				entries = append(entries, dumpEntry{Error: err.Error()})
				break
			}
			entry := dumpEntry{
				StartMs: sub.Times.Start.Msecs(),
				EndMs:   sub.Times.End.Msecs(),
				X:       int(sub.Image.Area().Left()),
				Y:       int(sub.Image.Area().Top()),
				Width:   sub.Image.Width(),
				Height:  sub.Image.Height(),
				Forced:  sub.Forced,
			}
			entry.File, err = writePng(dir, len(entries), sub.Image.ToImage(palette))
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	case "sup":
		p, err := pgs.OpenSup(path)
		if err != nil {
			return nil, err
		}
		defer p.Close()
		for {
			sub, err := p.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				entries = append(entries, dumpEntry{Error: err.Error()})
				continue
			}
			entry := dumpEntry{
				StartMs: sub.Times.Start.Msecs(),
				EndMs:   sub.Times.End.Msecs(),
				Width:   sub.Image.Width(),
				Height:  sub.Image.Height(),
			}
			if sub.Image.Width() > 0 && sub.Image.Height() > 0 {
				entry.File, err = writePng(dir, len(entries), sub.Image.ToImage())
				if err != nil {
					return nil, err
				}
			}
			entries = append(entries, entry)
		}
	default:
		return nil, fmt.Errorf("%s: expected a .idx or .sup file", path)
	}
	return entries, nil
}

func writePng(dir string, index int, img image.Image) (string, error) {
	name := fmt.Sprintf("%06d.png", index)
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", err
	}
	return name, nil
}
