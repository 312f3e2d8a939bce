// Package bitutil provides an MSB-first bit reader over codeword bytes.
package bitutil

import "github.com/pkg/errors"

// ErrBitCount is returned when more bits are requested than remain, or when
// the request is outside 1..32.
var ErrBitCount = errors.New("bitsource: invalid number of bits")

// BitSource reads bits from a byte sequence where the number of bits read
// is not necessarily a multiple of 8. Bits are read from the first byte
// first, most significant bit first.
type BitSource struct {
	bytes      []byte
	byteOffset int
	bitOffset  int
}

// NewBitSource creates a BitSource positioned at the first bit of bytes.
func NewBitSource(bytes []byte) *BitSource {
	return &BitSource{bytes: bytes}
}

// NewBitSourceAt creates a BitSource positioned at the first bit of
// bytes[byteOffset].
func NewBitSourceAt(bytes []byte, byteOffset int) *BitSource {
	return &BitSource{bytes: bytes, byteOffset: byteOffset}
}

// BitOffset returns the index of the next bit within the current byte.
func (bs *BitSource) BitOffset() int {
	return bs.bitOffset
}

// ByteOffset returns the index of the byte holding the next bit.
func (bs *BitSource) ByteOffset() int {
	return bs.byteOffset
}

// ReadBits reads numBits bits and returns them as the least-significant bits
// of an int.
func (bs *BitSource) ReadBits(numBits int) (int, error) {
	if numBits < 1 || numBits > 32 || numBits > bs.Available() {
		return 0, errors.Wrapf(ErrBitCount, "read %d of %d available", numBits, bs.Available())
	}

	result := 0
	for numBits > 0 {
		bitsLeft := 8 - bs.bitOffset
		take := numBits
		if take > bitsLeft {
			take = bitsLeft
		}
		shift := bitsLeft - take
		chunk := (int(bs.bytes[bs.byteOffset]) >> uint(shift)) & (1<<uint(take) - 1)
		result = result<<uint(take) | chunk

		numBits -= take
		bs.bitOffset += take
		if bs.bitOffset == 8 {
			bs.bitOffset = 0
			bs.byteOffset++
		}
	}
	return result, nil
}

// AlignToByte discards the unread bits of a partially read byte.
func (bs *BitSource) AlignToByte() {
	if bs.bitOffset != 0 {
		bs.bitOffset = 0
		bs.byteOffset++
	}
}

// Available returns the number of bits that can still be read.
func (bs *BitSource) Available() int {
	return 8*(len(bs.bytes)-bs.byteOffset) - bs.bitOffset
}
