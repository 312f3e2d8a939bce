package gs1reader

import (
	"github.com/sirupsen/logrus"

	"github.com/wco1971/GS1CodeSymbolReader/ai"
	"github.com/wco1971/GS1CodeSymbolReader/internal"
)

// DecodeOptions configures decoding. The zero value is ready to use.
type DecodeOptions struct {
	// Logger receives decode tracing. Nil discards it.
	Logger logrus.FieldLogger

	// Table replaces the built-in AI table.
	Table *ai.Table

	// VerifyChecksum checks the Code 128 mod-103 check character.
	VerifyChecksum bool

	// Base256Unrandomize applies the 255-state de-obfuscation to DataMatrix
	// Base 256 codewords. By default they are passed through unchanged.
	Base256Unrandomize bool

	// ForceHeuristic ignores Observation.GS1Hint and classifies as if the
	// platform had not reported it.
	ForceHeuristic bool
}

func (o *DecodeOptions) table() *ai.Table {
	if o == nil || o.Table == nil {
		return ai.DefaultTable()
	}
	return o.Table
}

func (o *DecodeOptions) logger() logrus.FieldLogger {
	if o == nil {
		return internal.Logger(nil)
	}
	return internal.Logger(o.Logger)
}

// CodewordDecoder turns the codewords of one symbol into an element string.
// Implementations hold no state between calls.
type CodewordDecoder interface {
	DecodeCodewords(codewords []byte) (*internal.DecoderResult, error)
}
