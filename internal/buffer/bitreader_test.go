package buffer

import (
	"bytes"
	"testing"
)

func TestBitReader_ReadBits(t *testing.T) {
	// Test data: 0b11010010 0b01101110
	data := []byte{0xD2, 0x6E}
	br := NewBitReader(data)

	tests := []struct {
		name     string
		bits     int
		expected uint64
	}{
		{"Read 3 bits", 3, 0b110},
		{"Read 5 bits", 5, 0b10010},
		{"Read 4 bits", 4, 0b0110},
		{"Read 4 bits", 4, 0b1110},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := br.ReadBits(tt.bits)
			if !ok {
				t.Fatalf("ReadBits(%d) failed", tt.bits)
			}
			if got != tt.expected {
				t.Errorf("ReadBits(%d) = %b, want %b", tt.bits, got, tt.expected)
			}
		})
	}
}

func TestBitReader_ReadBitsAcrossBytes(t *testing.T) {
	br := NewBitReader([]byte{0x01, 0xFF, 0x80})
	got, ok := br.ReadBits(24)
	if !ok {
		t.Fatal("ReadBits(24) failed")
	}
	if got != 0x01FF80 {
		t.Errorf("ReadBits(24) = %x, want 01ff80", got)
	}
	if _, ok := br.ReadBit(); ok {
		t.Error("ReadBit() after exhaustion should fail")
	}
}

func TestBitReader_ReadBytesUnaligned(t *testing.T) {
	// Reading bytes after a 4-bit offset shifts every byte by a nibble.
	br := NewBitReader([]byte{0x1A, 0xBC, 0xDE})
	if !br.SkipBits(4) {
		t.Fatal("SkipBits(4) failed")
	}
	got, ok := br.ReadBytes(2)
	if !ok {
		t.Fatal("ReadBytes(2) failed")
	}
	if !bytes.Equal(got, []byte{0xAB, 0xCD}) {
		t.Errorf("ReadBytes(2) = %x, want abcd", got)
	}
}

func TestBitReader_ReadUInt16(t *testing.T) {
	br := NewBitReader([]byte{0x12, 0x34})
	got, ok := br.ReadUInt16()
	if !ok {
		t.Fatalf("ReadUInt16() failed")
	}
	if got != 0x1234 {
		t.Errorf("ReadUInt16() = %x, want 1234", got)
	}
}

func TestBitReader_ExpectBits(t *testing.T) {
	br := NewBitReader([]byte{0b0100_0001})
	if !br.ExpectBits(2, 0b01) {
		t.Error("ExpectBits(2, 01) = false, want true")
	}
	if br.ExpectBits(2, 0b11) {
		t.Error("ExpectBits(2, 11) = true, want false")
	}
}

func TestBitReader_AlignByte(t *testing.T) {
	br := NewBitReader([]byte{0xFF, 0x42})
	br.ReadBits(3)
	br.AlignByte()
	if br.Position() != 1 {
		t.Fatalf("Position() = %d, want 1", br.Position())
	}
	b, ok := br.ReadByteValue()
	if !ok || b != 0x42 {
		t.Errorf("ReadByteValue() = %x, %v, want 42, true", b, ok)
	}
	// Aligning on a boundary is a no-op.
	br.AlignByte()
	if br.Position() != 2 {
		t.Errorf("Position() = %d, want 2", br.Position())
	}
}

func TestBitReader_Position(t *testing.T) {
	br := NewBitReader([]byte{0x00, 0x00, 0x00})
	if br.Position() != 0 {
		t.Fatalf("Position() = %d, want 0", br.Position())
	}
	br.ReadBits(2)
	// A partially consumed byte counts as consumed.
	if br.Position() != 1 {
		t.Errorf("Position() = %d, want 1", br.Position())
	}
	br.ReadBits(6)
	if br.Position() != 1 {
		t.Errorf("Position() = %d, want 1", br.Position())
	}
}

func TestBitReader_SetBitPosition(t *testing.T) {
	br := NewBitReader([]byte{0xAA})
	if !br.SetBitPosition(4) {
		t.Fatal("SetBitPosition(4) failed")
	}
	got, _ := br.ReadBits(4)
	if got != 0xA {
		t.Errorf("ReadBits(4) = %x, want a", got)
	}
	if br.SetBitPosition(9) {
		t.Error("SetBitPosition(9) out of range should fail")
	}
}
