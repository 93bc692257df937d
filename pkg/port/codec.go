package port

import (
	"encoding/binary"
	"fmt"
)

// Endianness is the byte order of a register.
type Endianness uint8

const (
	// LittleEndian stores the least significant byte at the lowest address.
	LittleEndian Endianness = iota
	// BigEndian stores the most significant byte at the lowest address.
	BigEndian
)

// String returns the byte order name.
func (e Endianness) String() string {
	if e == BigEndian {
		return "BigEndian"
	}
	return "LittleEndian"
}

// ByteOrder returns the encoding/binary byte order.
func (e Endianness) ByteOrder() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Uint decodes an unsigned integer of len(b) bytes (1..8).
func Uint(b []byte, order Endianness) (uint64, error) {
	if len(b) == 0 || len(b) > 8 {
		return 0, fmt.Errorf("%w: integer length %d", ErrInvalidRange, len(b))
	}
	var v uint64
	if order == BigEndian {
		for _, c := range b {
			v = v<<8 | uint64(c)
		}
		return v, nil
	}
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

// Int decodes a two's-complement integer of len(b) bytes (1..8).
func Int(b []byte, order Endianness) (int64, error) {
	u, err := Uint(b, order)
	if err != nil {
		return 0, err
	}
	return SignExtend(u, uint(len(b)*8)), nil
}

// PutUint encodes the low length bytes of v.
func PutUint(v uint64, length int, order Endianness) ([]byte, error) {
	if length <= 0 || length > 8 {
		return nil, fmt.Errorf("%w: integer length %d", ErrInvalidRange, length)
	}
	b := make([]byte, length)
	for i := 0; i < length; i++ {
		c := byte(v >> (8 * uint(i)))
		if order == BigEndian {
			b[length-1-i] = c
		} else {
			b[i] = c
		}
	}
	return b, nil
}

// SignExtend interprets the low bits of v as a two's-complement number.
func SignExtend(v uint64, bits uint) int64 {
	if bits == 0 || bits >= 64 {
		return int64(v)
	}
	shift := 64 - bits
	return int64(v<<shift) >> shift
}
