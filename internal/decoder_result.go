// Package internal provides types shared by the codeword decoders.
package internal

import (
	"strings"
	"unicode"
)

// DecoderResult is the element string recovered from the codewords of one
// symbol.
type DecoderResult struct {
	RawBytes []byte
	// Text is the element string. FNC1 characters after the first position
	// appear as GS (0x1D).
	Text string
	// ByteSegments holds the bytes of every Base 256 run.
	ByteSegments [][]byte
	// SymbologyModifier is the digit of the symbology identifier, for
	// example 1 for "]C1" or 2 for "]d2". Zero when no FNC1 led the data.
	SymbologyModifier              int
	StructuredAppendParity         int
	StructuredAppendSequenceNumber int
}

// NewDecoderResult creates a DecoderResult without structured append info.
func NewDecoderResult(rawBytes []byte, text string, byteSegments [][]byte, symbologyModifier int) *DecoderResult {
	return NewDecoderResultFull(rawBytes, text, byteSegments, -1, -1, symbologyModifier)
}

// NewDecoderResultFull creates a DecoderResult with structured append info.
func NewDecoderResultFull(rawBytes []byte, text string, byteSegments [][]byte,
	saSequence, saParity, symbologyModifier int) *DecoderResult {
	return &DecoderResult{
		RawBytes:                       rawBytes,
		Text:                           text,
		ByteSegments:                   byteSegments,
		StructuredAppendParity:         saParity,
		StructuredAppendSequenceNumber: saSequence,
		SymbologyModifier:              symbologyModifier,
	}
}

// HasStructuredAppend returns true if this result has structured append info.
func (d *DecoderResult) HasStructuredAppend() bool {
	return d.StructuredAppendParity >= 0 && d.StructuredAppendSequenceNumber >= 0
}

// GS is the group separator that stands for FNC1 inside an element string.
const GS = 0x1D

// SanitizeElementString removes control characters other than GS (C0, DEL
// and the C1 range U+0080 to U+009F) from s and returns the cleaned string and the number of bytes removed.
func SanitizeElementString(s string) (string, int) {
	dropped := 0
	clean := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != GS {
			dropped++
			return -1
		}
		return r
	}, s)
	return clean, dropped
}
