package pgs

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// odsFirstBody builds a First or FirstAndLast ODS body. payload is the
// part of the object data carried by this segment; total is the full
// object payload size (excluding width and height).
func odsFirstBody(flag LastInSequenceFlag, width, height uint16, total int, payload []byte) []byte {
	dataLength := total + 4 // declared length includes width and height
	body := []byte{
		0x00, 0x01, // object id
		0x00, // version
		byte(flag),
		byte(dataLength >> 16), byte(dataLength >> 8), byte(dataLength),
		byte(width >> 8), byte(width),
		byte(height >> 8), byte(height),
	}
	return append(body, payload...)
}

// odsLastBody builds a Last ODS body continuing an open object.
func odsLastBody(payload []byte) []byte {
	body := []byte{0x00, 0x01, 0x00, byte(FlagLast)}
	return append(body, payload...)
}

func TestReadObjectSegment_FirstAndLast(t *testing.T) {
	payload := []byte{0x05, 0x05, 0x00, 0x00}
	body := odsFirstBody(FlagFirstAndLast, 2, 2, len(payload), payload)

	complete, pending, err := readObjectSegment(body, nil)
	if err != nil {
		t.Fatalf("readObjectSegment: %v", err)
	}
	if pending != nil {
		t.Fatal("FirstAndLast should not leave a pending object")
	}
	if complete.width != 2 || complete.height != 2 {
		t.Errorf("size = %dx%d", complete.width, complete.height)
	}
	if diff := cmp.Diff(payload, complete.data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestReadObjectSegment_FirstThenLast(t *testing.T) {
	full := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	body1 := odsFirstBody(FlagFirst, 3, 2, len(full), full[:2])
	body2 := odsLastBody(full[2:])

	complete, pending, err := readObjectSegment(body1, nil)
	if err != nil {
		t.Fatalf("first fragment: %v", err)
	}
	if complete != nil {
		t.Fatal("First alone should not complete")
	}
	if pending == nil || pending.expected != len(full) {
		t.Fatalf("pending = %+v", pending)
	}

	complete, pending, err = readObjectSegment(body2, pending)
	if err != nil {
		t.Fatalf("last fragment: %v", err)
	}
	if pending != nil {
		t.Fatal("Last should close the pending object")
	}
	if complete.width != 3 || complete.height != 2 {
		t.Errorf("size = %dx%d", complete.width, complete.height)
	}
	if diff := cmp.Diff(full, complete.data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestReadObjectSegment_SizeMismatch(t *testing.T) {
	// FirstAndLast requires segment size == 11 + payload length exactly.
	payload := []byte{0x01, 0x02, 0x03}
	body := odsFirstBody(FlagFirstAndLast, 1, 3, len(payload)+1, payload)

	_, _, err := readObjectSegment(body, nil)
	var lenErr *OdsLengthError
	if !errors.As(err, &lenErr) {
		t.Fatalf("err = %v, want OdsLengthError", err)
	}
}

func TestReadObjectSegment_OrderViolations(t *testing.T) {
	open := &partialObject{expected: 10}

	// Last without a first fragment.
	if _, _, err := readObjectSegment(odsLastBody([]byte{1}), nil); err == nil {
		t.Error("Last with no pending object should fail")
	} else {
		var orderErr *FragmentOrderError
		if !errors.As(err, &orderErr) || orderErr.Flag != FlagLast {
			t.Errorf("err = %v", err)
		}
	}

	// First while another object is open.
	body := odsFirstBody(FlagFirst, 1, 1, 8, []byte{1})
	if _, _, err := readObjectSegment(body, open); err == nil {
		t.Error("First with a pending object should fail")
	}

	// FirstAndLast while another object is open.
	body = odsFirstBody(FlagFirstAndLast, 1, 1, 1, []byte{1})
	if _, _, err := readObjectSegment(body, open); err == nil {
		t.Error("FirstAndLast with a pending object should fail")
	}
}

func TestReadObjectSegment_InvalidFlag(t *testing.T) {
	body := []byte{0x00, 0x01, 0x00, 0x20, 0x00, 0x00, 0x05, 0x00, 0x01, 0x00, 0x01, 0xAA}
	_, _, err := readObjectSegment(body, nil)
	var flagErr *LastInSequenceFlagError
	if !errors.As(err, &flagErr) {
		t.Fatalf("err = %v, want LastInSequenceFlagError", err)
	}
	if flagErr.Value != 0x20 {
		t.Errorf("Value = %#x, want 0x20", flagErr.Value)
	}
}

func TestReadObjectSegment_TruncatedBody(t *testing.T) {
	for _, body := range [][]byte{
		{},
		{0x00, 0x01},
		{0x00, 0x01, 0x00},
		{0x00, 0x01, 0x00, byte(FlagFirst), 0x00},
		{0x00, 0x01, 0x00, byte(FlagFirst), 0x00, 0x00, 0x08, 0x00},
	} {
		_, _, err := readObjectSegment(body, nil)
		var bufErr *FailedReadBufferError
		if !errors.As(err, &bufErr) {
			t.Errorf("readObjectSegment(%d bytes) err = %v, want FailedReadBufferError", len(body), err)
		}
	}
}
