package binary

import (
	"errors"
	"io"
	"testing"
)

func TestReaderReadByte(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	r := NewReader(data)

	for i, want := range data {
		if r.Position() != i {
			t.Errorf("position before read %d: got %d, want %d", i, r.Position(), i)
		}
		b, err := r.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte %d: %v", i, err)
		}
		if b != want {
			t.Errorf("ReadByte %d: got 0x%02x, want 0x%02x", i, b, want)
		}
	}

	if _, err := r.ReadByte(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected ErrUnexpectedEOF, got %v", err)
	}
}

func TestReaderSubKeepsAbsolutePosition(t *testing.T) {
	r := NewReader([]byte{0xAA, 0xBB, 0x01, 0x02, 0x03})
	if _, err := r.ReadBytes(2); err != nil {
		t.Fatal(err)
	}
	sub, err := r.Sub(3)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if sub.Position() != 2 {
		t.Errorf("sub position: got %d, want 2", sub.Position())
	}
	if _, err := sub.ReadByte(); err != nil {
		t.Fatal(err)
	}
	if sub.Position() != 3 {
		t.Errorf("sub position after read: got %d, want 3", sub.Position())
	}
	if r.Len() != 0 {
		t.Errorf("parent not advanced, %d bytes left", r.Len())
	}
	if _, err := r.Sub(1); err == nil {
		t.Error("expected error carving past the end")
	}
}

func TestReaderLEB128(t *testing.T) {
	unsigned := []struct {
		encoded []byte
		value   uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, 0xFFFFFFFF},
	}
	for _, tt := range unsigned {
		got, err := NewReader(tt.encoded).ReadU32()
		if err != nil {
			t.Fatalf("ReadU32(%x): %v", tt.encoded, err)
		}
		if got != tt.value {
			t.Errorf("ReadU32(%x) = %d, want %d", tt.encoded, got, tt.value)
		}
		w := NewWriter()
		w.WriteU32(tt.value)
		if string(w.Bytes()) != string(tt.encoded) {
			t.Errorf("WriteU32(%d) = %x, want %x", tt.value, w.Bytes(), tt.encoded)
		}
	}

	signed := []struct {
		encoded []byte
		value   int64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7f}, -1},
		{[]byte{0x40}, -64},
		{[]byte{0xc0, 0x00}, 64},
		{[]byte{0x80, 0x7f}, -128},
	}
	for _, tt := range signed {
		got, err := NewReader(tt.encoded).ReadS64()
		if err != nil {
			t.Fatalf("ReadS64(%x): %v", tt.encoded, err)
		}
		if got != tt.value {
			t.Errorf("ReadS64(%x) = %d, want %d", tt.encoded, got, tt.value)
		}
		w := NewWriter()
		w.WriteS64(tt.value)
		if string(w.Bytes()) != string(tt.encoded) {
			t.Errorf("WriteS64(%d) = %x, want %x", tt.value, w.Bytes(), tt.encoded)
		}
	}
}

func TestReaderOverflow(t *testing.T) {
	_, err := NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}).ReadU32()
	if !errors.Is(err, ErrOverflow) {
		t.Errorf("expected ErrOverflow, got %v", err)
	}
}

func TestReaderFloats(t *testing.T) {
	w := NewWriter()
	w.WriteF32(1.5)
	w.WriteF64(-2.25)
	r := NewReader(w.Bytes())

	f32, err := r.ReadF32()
	if err != nil || f32 != 1.5 {
		t.Errorf("ReadF32 = %v, %v", f32, err)
	}
	f64, err := r.ReadF64()
	if err != nil || f64 != -2.25 {
		t.Errorf("ReadF64 = %v, %v", f64, err)
	}
}

func TestReaderReadNameRejectsInvalidUTF8(t *testing.T) {
	if _, err := NewReader([]byte{0x02, 0xff, 0xfe}).ReadName(); err == nil {
		t.Error("expected error for invalid UTF-8")
	}
	name, err := NewReader([]byte{0x03, 'a', 'd', 'd'}).ReadName()
	if err != nil || name != "add" {
		t.Errorf("ReadName = %q, %v", name, err)
	}
}

func TestParseErrorUnwrap(t *testing.T) {
	r := NewReader([]byte{0x01})
	_, _ = r.ReadByte()
	err := r.WrapError("code", io.ErrUnexpectedEOF)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Position != 1 || pe.Section != "code" {
		t.Errorf("unexpected ParseError %+v", pe)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("ParseError should unwrap to its cause")
	}
}

func TestReaderMarkSince(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04})
	if _, err := r.ReadByte(); err != nil {
		t.Fatal(err)
	}
	mark := r.Mark()
	if _, err := r.ReadBytes(2); err != nil {
		t.Fatal(err)
	}
	got := r.Since(mark)
	if len(got) != 2 || got[0] != 0x02 || got[1] != 0x03 {
		t.Errorf("Since = %v, want [2 3]", got)
	}
}
