package timecode

import "testing"

func TestTimePoint_Format(t *testing.T) {
	tests := []struct {
		name string
		ms   int64
		sep  byte
		want string
	}{
		{"zero", 0, ',', "00:00:00,000"},
		{"millis only", 42, ',', "00:00:00,042"},
		{"full fields", 3*3600*1000 + 25*60*1000 + 17*1000 + 903, ',', "03:25:17,903"},
		{"vtt separator", 1500, '.', "00:00:01.500"},
		{"index separator", 61000, ':', "00:01:01:000"},
		{"negative", -1250, ',', "-00:00:01,250"},
		{"hours past two digits", 100 * 3600 * 1000, ',', "100:00:00,000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromMsecs(tt.ms).Format(tt.sep); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.sep, got, tt.want)
			}
		})
	}
}

func TestTimePoint_RoundTrip(t *testing.T) {
	for _, ms := range []int64{0, 1, -1, 999, 123456789, -123456789, 1 << 53, -(1 << 53)} {
		if got := FromMsecs(ms).Msecs(); got != ms {
			t.Errorf("FromMsecs(%d).Msecs() = %d", ms, got)
		}
	}
}

func TestTimePoint_FromSecs(t *testing.T) {
	tests := []struct {
		secs float64
		want int64
	}{
		{0, 0},
		{1.5, 1500},
		{49.4, 49400},
		{0.0009, 0}, // truncates
	}
	for _, tt := range tests {
		if got := FromSecs(tt.secs).Msecs(); got != tt.want {
			t.Errorf("FromSecs(%v).Msecs() = %d, want %d", tt.secs, got, tt.want)
		}
	}
	// Seconds survive to within a millisecond.
	s := 1234.567
	diff := FromSecs(s).Secs() - s
	if diff < -0.001 || diff > 0.001 {
		t.Errorf("FromSecs(%v).Secs() off by %v", s, diff)
	}
}

func TestTimePoint_Neg(t *testing.T) {
	if FromMsecs(1500).Neg() != FromMsecs(-1500) {
		t.Error("Neg() should flip sign")
	}
}

func TestTimeSpan_String(t *testing.T) {
	span := NewTimeSpan(FromMsecs(1000), FromMsecs(2500))
	want := "00:00:01,000 --> 00:00:02,500"
	if got := span.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
