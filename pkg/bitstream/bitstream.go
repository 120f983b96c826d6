// Package bitstream converts text payloads to and from terminated bit sequences.
package bitstream

import (
	"errors"
	"unicode/utf8"
)

// Terminator is appended to every payload so extraction can find its end
const Terminator = "####"

var (
	// ErrNoValidData means the recovered bits cannot be grouped into whole bytes
	ErrNoValidData = errors.New("no valid data found")
	// ErrUndecodableBinary means bytes were recovered but they are not valid text
	ErrUndecodableBinary = errors.New("binary data found but not decodable as text")
)

// Bitstream is an ordered sequence of bits, one 0/1 value per element
type Bitstream []uint8

// Encode appends the terminator to text and emits every byte MSB first
func Encode(text string) Bitstream {
	return FromBytes(append([]byte(text), Terminator...))
}

// FromBytes emits every byte of data as 8 bits, MSB first
func FromBytes(data []byte) Bitstream {
	bits := make(Bitstream, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, (b>>uint(i))&1)
		}
	}
	return bits
}

// TerminatorBits returns the 32-bit pattern of the terminator sentinel
func TerminatorBits() Bitstream {
	return FromBytes([]byte(Terminator))
}

// Bytes packs the bits into bytes; the length must be a multiple of 8
func (b Bitstream) Bytes() ([]byte, error) {
	if len(b)%8 != 0 {
		return nil, ErrNoValidData
	}

	out := make([]byte, 0, len(b)/8)
	for i := 0; i < len(b); i += 8 {
		var current byte
		for _, bit := range b[i : i+8] {
			current = current<<1 | bit&1
		}
		out = append(out, current)
	}
	return out, nil
}

// Truncate drops any trailing bits that do not form a whole byte
func (b Bitstream) Truncate() Bitstream {
	return b[:len(b)-len(b)%8]
}

// IndexFrom returns the first index >= from where pattern starts, or -1
func (b Bitstream) IndexFrom(pattern Bitstream, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(pattern) <= len(b); i++ {
		if b.matchAt(pattern, i) {
			return i
		}
	}
	return -1
}

func (b Bitstream) matchAt(pattern Bitstream, at int) bool {
	for j, bit := range pattern {
		if b[at+j] != bit {
			return false
		}
	}
	return true
}

// Decode groups the bits into bytes and decodes them as UTF-8 text
func Decode(bits Bitstream) (string, error) {
	data, err := bits.Bytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrUndecodableBinary
	}
	return string(data), nil
}
