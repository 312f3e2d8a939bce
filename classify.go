package gs1reader

import "strings"

const (
	// codeFNC1 is the Code 128 FNC1 symbol character. Directly after the
	// start character it marks a GS1-128 symbol.
	codeFNC1 = 0x66
	// dataMatrixFNC1 is the DataMatrix ASCII FNC1 codeword. As the first
	// codeword it marks a GS1 DataMatrix symbol.
	dataMatrixFNC1 = 0xE8
)

// Classify decides whether obs is a GS1 data carrier. The second result is
// true when the platform gave no GS1 flag and the decision was made from the
// codewords or the debug description instead.
func Classify(obs *Observation) (SymbolClass, bool) {
	return classify(obs, false)
}

func classify(obs *Observation, forceHeuristic bool) (SymbolClass, bool) {
	if obs.Symbology == SymbologyGS1DataBarLimited {
		return ClassGS1DataBarLimited, false
	}
	class := gs1Class(obs.Symbology)
	if class == ClassNotGS1 {
		return ClassNotGS1, obs.GS1Hint == nil || forceHeuristic
	}

	if obs.GS1Hint != nil && !forceHeuristic {
		if *obs.GS1Hint {
			return class, false
		}
		return ClassNotGS1, false
	}

	if len(obs.Codewords) > 0 {
		if hasFNC1Prefix(obs.Symbology, obs.Codewords) {
			return class, true
		}
		return ClassNotGS1, true
	}
	if descriptionHasFNC1(obs.Symbology, obs.Description) {
		return class, true
	}
	return ClassNotGS1, true
}

func gs1Class(s Symbology) SymbolClass {
	switch s {
	case SymbologyCode128:
		return ClassGS1128
	case SymbologyDataMatrix:
		return ClassGS1DataMatrix
	}
	return ClassNotGS1
}

func hasFNC1Prefix(s Symbology, codewords []byte) bool {
	switch s {
	case SymbologyCode128:
		return len(codewords) > 1 && codewords[1] == codeFNC1
	case SymbologyDataMatrix:
		return codewords[0] == dataMatrixFNC1
	}
	return false
}

// descriptionHasFNC1 looks for the FNC1 signature in a platform debug
// description that embeds the symbol bytes as "bytes = 0x6866...". The dump
// may be split by whitespace and is terminated by "}".
func descriptionHasFNC1(s Symbology, desc string) bool {
	const marker = "bytes = "
	i := strings.Index(desc, marker)
	if i < 0 {
		return false
	}
	dump := desc[i+len(marker):]
	if j := strings.IndexByte(dump, '}'); j >= 0 {
		dump = dump[:j]
	}
	dump = strings.ToLower(strings.Join(strings.Fields(dump), ""))
	x := strings.IndexByte(dump, 'x')
	if x < 0 {
		return false
	}
	digits := dump[x+1:]

	switch s {
	case SymbologyCode128:
		return len(digits) >= 4 && digits[2:4] == "66"
	case SymbologyDataMatrix:
		return len(digits) >= 2 && digits[0:2] == "e8"
	}
	return false
}
