// Package timecode models subtitle timing as millisecond offsets from an
// arbitrary origin.
package timecode

import (
	"fmt"
	"strings"
)

// TimePoint is a signed time offset in milliseconds.
type TimePoint int64

// FromMsecs builds a TimePoint from milliseconds.
func FromMsecs(ms int64) TimePoint {
	return TimePoint(ms)
}

// FromSecs builds a TimePoint from seconds, truncating to milliseconds.
func FromSecs(s float64) TimePoint {
	return TimePoint(int64(s * 1000.0))
}

// Msecs returns the offset in milliseconds.
func (t TimePoint) Msecs() int64 {
	return int64(t)
}

// Secs returns the offset in seconds.
func (t TimePoint) Secs() float64 {
	return float64(t) / 1000.0
}

// Neg returns the negated time point.
func (t TimePoint) Neg() TimePoint {
	return -t
}

// Add returns the time point shifted by ms milliseconds.
func (t TimePoint) Add(ms int64) TimePoint {
	return t + TimePoint(ms)
}

// Format renders the time point as [-]HH:MM:SS<sep>mmm. The separator is
// the one detail subtitle formats disagree on: SubRip uses ',', WebVTT '.',
// the VobSub index ':'.
func (t TimePoint) Format(sep byte) string {
	var sb strings.Builder
	v := int64(t)
	if v < 0 {
		sb.WriteByte('-')
		v = -v
	}
	msecs := v % 1000
	secs := v / 1000 % 60
	mins := v / (60 * 1000) % 60
	hours := v / (60 * 60 * 1000)
	fmt.Fprintf(&sb, "%02d:%02d:%02d%c%03d", hours, mins, secs, sep, msecs)
	return sb.String()
}

func (t TimePoint) String() string {
	return t.Format(',')
}

// TimeSpan is the start and end of one subtitle. Producers emit
// start <= end when both are known, but corrupt inputs may violate that
// and consumers have to tolerate it.
type TimeSpan struct {
	Start TimePoint
	End   TimePoint
}

// NewTimeSpan builds a TimeSpan from a start and an end.
func NewTimeSpan(start, end TimePoint) TimeSpan {
	return TimeSpan{Start: start, End: end}
}

func (s TimeSpan) String() string {
	return fmt.Sprintf("%s --> %s", s.Start, s.End)
}
