// Package oned decodes the symbol characters of GS1-128 (Code 128) symbols.
package oned

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	gs1reader "github.com/wco1971/GS1CodeSymbolReader"
	"github.com/wco1971/GS1CodeSymbolReader/internal"
)

// Code128 symbol character values
const (
	code128Shift  = 98
	code128CodeC  = 99
	code128CodeB  = 100
	code128CodeA  = 101
	code128FNC1   = 102
	code128FNC2   = 97
	code128FNC3   = 96
	code128FNC4A  = 101
	code128FNC4B  = 100
	code128StartA = 103
	code128StartB = 104
	code128StartC = 105
	code128Stop   = 106
)

// Code128Decoder decodes Code 128 symbol character values into an element
// string. FNC1 in first position sets the symbology modifier; any later FNC1
// becomes a GS.
type Code128Decoder struct {
	verifyChecksum bool
	log            logrus.FieldLogger
}

// NewCode128Decoder creates a decoder configured by opts.
func NewCode128Decoder(opts *gs1reader.DecodeOptions) *Code128Decoder {
	d := &Code128Decoder{log: internal.Logger(nil)}
	if opts != nil {
		d.verifyChecksum = opts.VerifyChecksum
		d.log = internal.Logger(opts.Logger)
	}
	return d
}

// DecodeCodewords decodes codewords, which start with a start character and
// end with the check and stop characters. Those last two are never decoded
// as data.
func (d *Code128Decoder) DecodeCodewords(codewords []byte) (*internal.DecoderResult, error) {
	if len(codewords) == 0 {
		return nil, errors.Wrap(gs1reader.ErrDecoderTableMiss, "code128: no start character")
	}
	startCode := int(codewords[0])

	var codeSet int
	switch startCode {
	case code128StartA:
		codeSet = code128CodeA
	case code128StartB:
		codeSet = code128CodeB
	case code128StartC:
		codeSet = code128CodeC
	default:
		return nil, errors.Wrapf(gs1reader.ErrDecoderTableMiss, "code128: %d is not a start character", startCode)
	}

	end := len(codewords) - 2
	if d.verifyChecksum && end > 0 {
		if err := checkCode128Checksum(codewords); err != nil {
			return nil, err
		}
	}

	symbologyModifier := 0
	isNextShifted := false
	upperMode := false
	shiftUpperMode := false
	var result strings.Builder

	partial := func(i, code int) (*internal.DecoderResult, error) {
		return internal.NewDecoderResult(codewords, result.String(), nil, symbologyModifier),
			errors.Wrapf(gs1reader.ErrDecoderTableMiss, "code128: value %d at position %d", code, i)
	}

	writeChar := func(ch byte) {
		if shiftUpperMode == upperMode {
			result.WriteByte(ch)
		} else {
			result.WriteRune(rune(ch) + 128)
		}
		shiftUpperMode = false
	}

	fnc1 := func() {
		switch result.Len() {
		case 0:
			symbologyModifier = 1
		case 1:
			symbologyModifier = 2
			result.WriteByte(internal.GS)
		default:
			result.WriteByte(internal.GS)
		}
	}

	fnc4 := func() {
		switch {
		case !upperMode && shiftUpperMode:
			upperMode = true
			shiftUpperMode = false
		case upperMode && shiftUpperMode:
			upperMode = false
			shiftUpperMode = false
		default:
			shiftUpperMode = true
		}
	}

	for i := 1; i < end; i++ {
		unshift := isNextShifted
		isNextShifted = false
		code := int(codewords[i])

		switch code {
		case code128StartA, code128StartB, code128StartC, code128Stop:
			return partial(i, code)
		}
		if code > code128Stop {
			return partial(i, code)
		}

		switch codeSet {
		case code128CodeA:
			if code < 64 {
				writeChar(byte(' ' + code))
			} else if code < 96 {
				writeChar(byte(code - 64))
			} else {
				switch code {
				case code128FNC1:
					fnc1()
				case code128FNC2:
					symbologyModifier = 4
				case code128FNC3:
					// reader initialisation, carries no data
				case code128FNC4A:
					fnc4()
				case code128Shift:
					isNextShifted = true
					codeSet = code128CodeB
				case code128CodeB:
					codeSet = code128CodeB
				case code128CodeC:
					codeSet = code128CodeC
				}
			}
		case code128CodeB:
			if code < 96 {
				writeChar(byte(' ' + code))
			} else {
				switch code {
				case code128FNC1:
					fnc1()
				case code128FNC2:
					symbologyModifier = 4
				case code128FNC3:
				case code128FNC4B:
					fnc4()
				case code128Shift:
					isNextShifted = true
					codeSet = code128CodeA
				case code128CodeA:
					codeSet = code128CodeA
				case code128CodeC:
					codeSet = code128CodeC
				}
			}
		case code128CodeC:
			if code < 100 {
				result.WriteByte(byte('0' + code/10))
				result.WriteByte(byte('0' + code%10))
			} else {
				switch code {
				case code128FNC1:
					fnc1()
				case code128CodeA:
					codeSet = code128CodeA
				case code128CodeB:
					codeSet = code128CodeB
				default:
					return partial(i, code)
				}
			}
		}

		if unshift {
			if codeSet == code128CodeA {
				codeSet = code128CodeB
			} else {
				codeSet = code128CodeA
			}
		}
	}

	d.log.WithFields(logrus.Fields{"codewords": len(codewords), "text": result.String()}).Debug("code128 decoded")
	return internal.NewDecoderResult(codewords, result.String(), nil, symbologyModifier), nil
}

// checkCode128Checksum verifies the mod-103 check character, which is the
// second to last codeword.
func checkCode128Checksum(codewords []byte) error {
	checkPos := len(codewords) - 2
	total := int(codewords[0])
	for i := 1; i < checkPos; i++ {
		total += i * int(codewords[i])
	}
	if total%103 != int(codewords[checkPos]) {
		return errors.Wrapf(gs1reader.ErrChecksum, "code128: check character %d, computed %d",
			codewords[checkPos], total%103)
	}
	return nil
}
