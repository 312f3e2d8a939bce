package datamatrix

import gs1reader "github.com/wco1971/GS1CodeSymbolReader"

func init() {
	gs1reader.RegisterDecoder(gs1reader.SymbologyDataMatrix, func(opts *gs1reader.DecodeOptions) gs1reader.CodewordDecoder {
		return NewReader(opts)
	})
}
