package port

import (
	"bytes"
	"errors"
	"testing"
)

func TestPutUintAndUint(t *testing.T) {
	tests := []struct {
		name   string
		value  uint64
		length int
		order  Endianness
		want   []byte
	}{
		{"1 byte", 0xAB, 1, LittleEndian, []byte{0xAB}},
		{"2 bytes LE", 0x1234, 2, LittleEndian, []byte{0x34, 0x12}},
		{"2 bytes BE", 0x1234, 2, BigEndian, []byte{0x12, 0x34}},
		{"3 bytes LE", 0x123456, 3, LittleEndian, []byte{0x56, 0x34, 0x12}},
		{"4 bytes BE", 0xDEADBEEF, 4, BigEndian, []byte{0xDE, 0xAD, 0xBE, 0xEF}},
		{"8 bytes LE", 0x0102030405060708, 8, LittleEndian, []byte{8, 7, 6, 5, 4, 3, 2, 1}},
		{"truncates high bytes", 0x1FF, 1, LittleEndian, []byte{0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PutUint(tt.value, tt.length, tt.order)
			if err != nil {
				t.Fatalf("PutUint failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("PutUint = % x, want % x", got, tt.want)
			}

			back, err := Uint(got, tt.order)
			if err != nil {
				t.Fatalf("Uint failed: %v", err)
			}
			mask := uint64(1)<<(8*uint(tt.length)) - 1
			if tt.length == 8 {
				mask = ^uint64(0)
			}
			if back != tt.value&mask {
				t.Errorf("Uint = 0x%x, want 0x%x", back, tt.value&mask)
			}
		})
	}
}

func TestIntSignExtension(t *testing.T) {
	v, err := Int([]byte{0xFF, 0xFF}, LittleEndian)
	if err != nil {
		t.Fatalf("Int failed: %v", err)
	}
	if v != -1 {
		t.Errorf("Int = %d, want -1", v)
	}

	v, err = Int([]byte{0x80, 0x00}, BigEndian)
	if err != nil {
		t.Fatalf("Int failed: %v", err)
	}
	if v != -32768 {
		t.Errorf("Int = %d, want -32768", v)
	}

	if got := SignExtend(0x7, 3); got != -1 {
		t.Errorf("SignExtend(0x7, 3) = %d, want -1", got)
	}
	if got := SignExtend(0x3, 3); got != 3 {
		t.Errorf("SignExtend(0x3, 3) = %d, want 3", got)
	}
}

func TestCodecRejectsBadLength(t *testing.T) {
	if _, err := PutUint(1, 9, LittleEndian); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("PutUint(len 9) error = %v, want ErrInvalidRange", err)
	}
	if _, err := Uint(nil, LittleEndian); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Uint(nil) error = %v, want ErrInvalidRange", err)
	}
}
