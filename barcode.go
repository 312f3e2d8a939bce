// Package gs1reader decodes GS1 data carriers (GS1-128, GS1 DataMatrix and
// GS1 DataBar Limited) into Application Identifier records.
package gs1reader

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/wco1971/GS1CodeSymbolReader/ai"
)

// Symbology is the barcode symbology reported by the detector.
type Symbology int

const (
	SymbologyOther Symbology = iota
	SymbologyCode128
	SymbologyDataMatrix
	SymbologyGS1DataBarLimited
)

// String returns the name of the symbology.
func (s Symbology) String() string {
	switch s {
	case SymbologyCode128:
		return "CODE_128"
	case SymbologyDataMatrix:
		return "DATA_MATRIX"
	case SymbologyGS1DataBarLimited:
		return "GS1_DATABAR_LIMITED"
	default:
		return "OTHER"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Symbology) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSymbology accepts the String form or a short lower-case name such as
// "code128", "datamatrix" or "databar-limited".
func ParseSymbology(name string) (Symbology, error) {
	n := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(name))
	switch n {
	case "code128", "gs1128":
		return SymbologyCode128, nil
	case "datamatrix", "dm", "gs1datamatrix":
		return SymbologyDataMatrix, nil
	case "gs1databarlimited", "databarlimited", "rsslimited":
		return SymbologyGS1DataBarLimited, nil
	case "other":
		return SymbologyOther, nil
	}
	return SymbologyOther, errors.Errorf("unknown symbology %q", name)
}

// SymbolClass is the outcome of classifying an observation.
type SymbolClass int

const (
	ClassNotGS1 SymbolClass = iota
	ClassGS1128
	ClassGS1DataMatrix
	ClassGS1DataBarLimited
)

// String returns the display name of the class.
func (c SymbolClass) String() string {
	switch c {
	case ClassGS1128:
		return "GS1-128"
	case ClassGS1DataMatrix:
		return "GS1 DataMatrix"
	case ClassGS1DataBarLimited:
		return "GS1 DataBar Limited"
	default:
		return "Not GS1"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c SymbolClass) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// IsGS1 reports whether the class is one of the GS1 data carriers.
func (c SymbolClass) IsGS1() bool {
	return c != ClassNotGS1
}

// Observation is one detected symbol as delivered by the capture layer.
type Observation struct {
	Symbology Symbology
	// PayloadText is the string the platform decoded, if any.
	PayloadText string
	// Codewords are the raw symbol characters, including the Code 128 start,
	// check and stop characters.
	Codewords []byte
	// GS1Hint is the platform's GS1 / FNC1 flag. Nil when the platform does
	// not report one.
	GS1Hint *bool
	// Description is the platform's debug description of the symbol. It is
	// only consulted when GS1Hint and Codewords are both missing.
	Description string
}

// Bool returns a pointer to v, for Observation.GS1Hint.
func Bool(v bool) *bool {
	return &v
}

// Result is the decoded form of one Observation.
type Result struct {
	Symbology Symbology   `json:"symbology"`
	Class     SymbolClass `json:"class"`
	// Records are in scan order.
	Records []ai.Record `json:"records"`
	// PrimaryProductCode is the field of the first 00, 01, 02 or 03 AI.
	PrimaryProductCode string `json:"primaryProductCode,omitempty"`
	// IsAIConformant is false when no AI matched, or when the symbol could
	// only be partially decoded.
	IsAIConformant bool `json:"isAIConformant"`
	// ElementString is the text handed to the element string parser.
	ElementString string `json:"elementString,omitempty"`
	// PayloadText is the platform's own string for the symbol.
	PayloadText string `json:"payloadText,omitempty"`
	// SymbologyIdentifier is "]C1", "]d2" and so on when the decoder saw an
	// FNC1 in first position.
	SymbologyIdentifier string `json:"symbologyIdentifier,omitempty"`
	// UsedHeuristic is true when the platform gave no GS1 flag.
	UsedHeuristic bool `json:"usedHeuristic"`
}

// SymbolName is the label shown above the records.
func (r *Result) SymbolName() string {
	return r.Class.String()
}

// HRI renders the records as "(01)...(10)...".
func (r *Result) HRI() string {
	return ai.HRI(r.Records)
}

// LookupKey returns the primary product code when it is a 14 digit GTIN.
func (r *Result) LookupKey() (string, bool) {
	if len(r.PrimaryProductCode) != 14 {
		return "", false
	}
	return r.PrimaryProductCode, true
}

// PrimaryProductCodeValid reports whether the primary product code carries a
// correct GS1 check digit.
func (r *Result) PrimaryProductCodeValid() bool {
	return ai.ValidCheckDigit(r.PrimaryProductCode)
}

func symbologyIdentifier(s Symbology, modifier int) string {
	if modifier <= 0 {
		return ""
	}
	switch s {
	case SymbologyCode128:
		return "]C" + strconv.Itoa(modifier)
	case SymbologyDataMatrix:
		return "]d" + strconv.Itoa(modifier)
	}
	return ""
}
