package vobsub

import (
	"encoding/hex"
	"errors"
	"io"
	"testing"

	"github.com/s0up4200/go-bdsub/timecode"
)

// psPack is a pack header with SCR base 90000 and mux rate 1234; the
// demuxer only needs it to frame the PES packet that follows.
func psPack(t *testing.T) []byte {
	t.Helper()
	b, err := hex.DecodeString("000001ba440016fc840100134bf8")
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func ptsBytes(base uint64) []byte {
	return []byte{
		0x20 | byte((base>>29)&0x0E) | 1,
		byte(base >> 22),
		byte(base>>14)&0xFE | 1,
		byte(base >> 7),
		byte(base<<1)&0xFE | 1,
	}
}

// pesPacket wraps payload into a private-stream-1 PES packet. pts of 0
// omits the timestamp entirely.
func pesPacket(substream byte, payload []byte, pts uint64) []byte {
	var header []byte
	if pts > 0 {
		header = append([]byte{0x81, 0x80, 0x05}, ptsBytes(pts)...)
	} else {
		header = []byte{0x81, 0x00, 0x00}
	}
	body := append(header, substream)
	body = append(body, payload...)
	out := []byte{0x00, 0x00, 0x01, 0xBD, byte(len(body) >> 8), byte(len(body))}
	return append(out, body...)
}

// wrapSubpicture splits a subpicture packet across PES packets of at most
// chunk bytes, each preceded by a pack header.
func wrapSubpicture(t *testing.T, raw []byte, pts uint64, chunk int) []byte {
	t.Helper()
	var out []byte
	for start := 0; start < len(raw); start += chunk {
		end := min(start+chunk, len(raw))
		packetPts := uint64(0)
		if start == 0 {
			packetPts = pts
		}
		out = append(out, psPack(t)...)
		out = append(out, pesPacket(0x20, raw[start:end], packetPts)...)
	}
	return out
}

func TestSubtitleReader_SingleSubtitle(t *testing.T) {
	sub := buildTestSubpicture(t, testSubpictureOpts{})
	stream := wrapSubpicture(t, sub, 90000, len(sub))

	r := NewSubtitleReader(stream)
	got, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.Times.Start != timecode.FromMsecs(1000) {
		t.Errorf("start = %v, want 1s", got.Times.Start)
	}
	// No stop date and no following subtitle: start + 5s.
	if got.Times.End != timecode.FromMsecs(6000) {
		t.Errorf("end = %v, want 6s", got.Times.End)
	}
	if got.Image == nil || len(got.Image.Pixels()) != 8 {
		t.Fatalf("image = %+v", got.Image)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

func TestSubtitleReader_AssemblesAcrossPesPackets(t *testing.T) {
	sub := buildTestSubpicture(t, testSubpictureOpts{})
	// Deliver the subpicture in 7-byte slices.
	stream := wrapSubpicture(t, sub, 90000, 7)

	r := NewSubtitleReader(stream)
	got, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.Image.Width() != 4 || got.Image.Height() != 2 {
		t.Errorf("image is %dx%d, want 4x2", got.Image.Width(), got.Image.Height())
	}
}

func TestSubtitleReader_BackfillFromNextSubtitle(t *testing.T) {
	subA := buildTestSubpicture(t, testSubpictureOpts{})
	subB := buildTestSubpicture(t, testSubpictureOpts{withStop: true, stopDate: 100})

	var stream []byte
	stream = append(stream, wrapSubpicture(t, subA, 90000, len(subA))...)  // starts at 1s
	stream = append(stream, wrapSubpicture(t, subB, 270000, len(subB))...) // starts at 3s

	r := NewSubtitleReader(stream)
	first, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	// min(next.start - 1ms, start + 5s) = 2.999s.
	if first.Times.End != timecode.FromMsecs(2999) {
		t.Errorf("first end = %v, want 2.999s", first.Times.End)
	}
	if first.Times.Start >= first.Times.End {
		t.Error("backfilled end must stay after start")
	}

	second, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if second.Times.Start != timecode.FromMsecs(3000) {
		t.Errorf("second start = %v, want 3s", second.Times.Start)
	}
	// Explicit stop date: PTS + 100/100 s.
	if second.Times.End != timecode.FromMsecs(4000) {
		t.Errorf("second end = %v, want 4s", second.Times.End)
	}
}

func TestSubtitleReader_BackfillCapsAtFiveSeconds(t *testing.T) {
	subA := buildTestSubpicture(t, testSubpictureOpts{})
	subB := buildTestSubpicture(t, testSubpictureOpts{withStop: true})

	var stream []byte
	stream = append(stream, wrapSubpicture(t, subA, 90000, len(subA))...)   // 1s
	stream = append(stream, wrapSubpicture(t, subB, 900000, len(subB))...) // 10s

	r := NewSubtitleReader(stream)
	first, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if first.Times.End != timecode.FromMsecs(6000) {
		t.Errorf("first end = %v, want 6s", first.Times.End)
	}
}

func TestSubtitleReader_MissingTiming(t *testing.T) {
	sub := buildTestSubpicture(t, testSubpictureOpts{})
	var stream []byte
	stream = append(stream, psPack(t)...)
	stream = append(stream, pesPacket(0x20, sub, 0)...) // no PTS

	r := NewSubtitleReader(stream)
	if _, err := r.Next(); !errors.Is(err, ErrMissingTimingForSubtitle) {
		t.Errorf("err = %v, want ErrMissingTimingForSubtitle", err)
	}
}

func TestSubtitleReader_PacketTooShort(t *testing.T) {
	var stream []byte
	stream = append(stream, psPack(t)...)
	stream = append(stream, pesPacket(0x20, []byte{0x00}, 90000)...)

	r := NewSubtitleReader(stream)
	if _, err := r.Next(); !errors.Is(err, ErrPacketTooShort) {
		t.Errorf("err = %v, want ErrPacketTooShort", err)
	}
}

func TestSubtitleReader_SkipsForeignSubstream(t *testing.T) {
	sub := buildTestSubpicture(t, testSubpictureOpts{})
	split := len(sub) / 2

	var stream []byte
	stream = append(stream, psPack(t)...)
	stream = append(stream, pesPacket(0x20, sub[:split], 90000)...)
	// An interloper from another substream in the middle.
	stream = append(stream, psPack(t)...)
	stream = append(stream, pesPacket(0x21, []byte{0xAA, 0xBB, 0xCC}, 0)...)
	stream = append(stream, psPack(t)...)
	stream = append(stream, pesPacket(0x20, sub[split:], 0)...)

	r := NewSubtitleReader(stream)
	got, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got.Image.Width() != 4 {
		t.Errorf("image width = %d, want 4", got.Image.Width())
	}
}
