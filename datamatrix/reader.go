// Package datamatrix decodes the data codewords of GS1 DataMatrix (ECC 200)
// symbols.
package datamatrix

import (
	gs1reader "github.com/wco1971/GS1CodeSymbolReader"
	"github.com/wco1971/GS1CodeSymbolReader/datamatrix/decoder"
	"github.com/wco1971/GS1CodeSymbolReader/internal"
)

// Reader decodes Data Matrix data codewords. Error correction codewords must
// already be removed.
type Reader struct {
	opts decoder.Options
}

// NewReader creates a Reader configured by opts.
func NewReader(opts *gs1reader.DecodeOptions) *Reader {
	r := &Reader{}
	if opts != nil {
		r.opts.Base256Unrandomize = opts.Base256Unrandomize
		r.opts.Logger = opts.Logger
	}
	return r
}

// DecodeCodewords decodes the data codewords of one symbol.
func (r *Reader) DecodeCodewords(codewords []byte) (*internal.DecoderResult, error) {
	return decoder.DecodeBitStream(codewords, r.opts)
}
