package gs1reader

import (
	"github.com/pkg/errors"

	"github.com/wco1971/GS1CodeSymbolReader/ai"
)

var (
	// ErrUnrecognizedSymbol is returned when a symbol cannot be classified as a
	// GS1 data carrier.
	ErrUnrecognizedSymbol = errors.New("symbol is not a GS1 data carrier")

	// ErrMalformedElementString is returned when no Application Identifier can
	// be matched at the current position of an element string.
	ErrMalformedElementString = ai.ErrMalformedElementString

	// ErrFieldFormat is returned when an AI field value does not fit the
	// formatter for its AI.
	ErrFieldFormat = ai.ErrFieldFormat

	// ErrDecoderTableMiss is returned when a codeword has no entry in the
	// lookup table of the active code set or encodation mode.
	ErrDecoderTableMiss = errors.New("codeword not in decoder table")

	// ErrChecksum is returned when a Code 128 symbol check character does not match.
	ErrChecksum = errors.New("checksum error")

	// ErrNoPayload is returned when an observation carries neither codewords
	// nor payload text.
	ErrNoPayload = errors.New("observation has no payload")
)
