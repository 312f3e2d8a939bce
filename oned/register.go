package oned

import gs1reader "github.com/wco1971/GS1CodeSymbolReader"

func init() {
	gs1reader.RegisterDecoder(gs1reader.SymbologyCode128, func(opts *gs1reader.DecodeOptions) gs1reader.CodewordDecoder {
		return NewCode128Decoder(opts)
	})
}
