package mpegps

import (
	"fmt"

	"github.com/s0up4200/go-bdsub/internal/buffer"
)

// Clock is the 90 kHz, 33-bit System Time Clock plus the 9-bit extension
// counting 1/300ths of a tick. The extension lives in the low 9 bits of the
// packed value.
type Clock struct {
	value uint64
}

// ClockBase builds a Clock from a 33-bit STC value.
func ClockBase(stc uint64) Clock {
	return Clock{value: stc << 9}
}

// WithExt returns the clock with the 9-bit extension set.
func (c Clock) WithExt(ext uint16) Clock {
	return Clock{value: c.value&^uint64(0x1FF) | uint64(ext&0x1FF)}
}

// Base returns the 33-bit STC value.
func (c Clock) Base() uint64 {
	return c.value >> 9
}

// Ext returns the 9-bit extension.
func (c Clock) Ext() uint16 {
	return uint16(c.value & 0x1FF)
}

// Seconds converts the clock to seconds.
func (c Clock) Seconds() float64 {
	base := float64(c.value >> 9)
	ext := float64(c.value & 0x1FF)
	return (base + ext/300.0) / 90000.0
}

func (c Clock) String() string {
	s := c.Seconds()
	h := int(s / 3600)
	s -= float64(h) * 3600
	m := int(s / 60)
	s -= float64(m) * 60
	return fmt.Sprintf("%d:%02d:%06.3f", h, m, s)
}

// parseClock reads a 33-bit clock interleaved with 3 marker bits,
// consuming 36 bits.
func parseClock(br *buffer.BitReader) (Clock, error) {
	hi, ok := br.ReadBits(3)
	if !ok {
		return Clock{}, errTruncated
	}
	if err := expectMarker(br); err != nil {
		return Clock{}, err
	}
	mid, ok := br.ReadBits(15)
	if !ok {
		return Clock{}, errTruncated
	}
	if err := expectMarker(br); err != nil {
		return Clock{}, err
	}
	lo, ok := br.ReadBits(15)
	if !ok {
		return Clock{}, errTruncated
	}
	if err := expectMarker(br); err != nil {
		return Clock{}, err
	}
	return ClockBase(hi<<30 | mid<<15 | lo), nil
}

// parseClockAndExt reads a 33-bit clock, its 9-bit extension and 4 marker
// bits, consuming 46 bits.
func parseClockAndExt(br *buffer.BitReader) (Clock, error) {
	clock, err := parseClock(br)
	if err != nil {
		return Clock{}, err
	}
	ext, ok := br.ReadBits(9)
	if !ok {
		return Clock{}, errTruncated
	}
	if err := expectMarker(br); err != nil {
		return Clock{}, err
	}
	return clock.WithExt(uint16(ext)), nil
}
