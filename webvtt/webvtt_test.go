package webvtt

import (
	"strings"
	"testing"

	"github.com/s0up4200/go-bdsub/timecode"
)

func TestWriteCue(t *testing.T) {
	var sb strings.Builder
	if err := WriteHeader(&sb); err != nil {
		t.Fatal(err)
	}
	span := timecode.NewTimeSpan(timecode.FromMsecs(61000), timecode.FromMsecs(62500))
	if err := WriteCue(&sb, span, "hello"); err != nil {
		t.Fatal(err)
	}
	want := "WEBVTT\n\n00:01:01.000 --> 00:01:02.500\nhello\n\n"
	if sb.String() != want {
		t.Errorf("got %q, want %q", sb.String(), want)
	}
}
