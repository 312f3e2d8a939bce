package gs1reader

import (
	"encoding/hex"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/wco1971/GS1CodeSymbolReader/ai"
	"github.com/wco1971/GS1CodeSymbolReader/internal"
)

// decoderFactory creates a CodewordDecoder. Symbology packages register one
// from an init() function.
type decoderFactory func(opts *DecodeOptions) CodewordDecoder

var decoderFactories = map[Symbology]decoderFactory{}

// RegisterDecoder registers a codeword decoder factory for the given
// symbology. This should be called from an init() function.
func RegisterDecoder(s Symbology, factory decoderFactory) {
	decoderFactories[s] = factory
}

// Decode classifies obs and turns it into AI records. Codewords are decoded by
// the decoder registered for the symbology; without codewords the payload
// text is parsed directly.
//
// A symbol that is not a GS1 carrier gives a Result of class ClassNotGS1 and
// no error. When a codeword is missing from a decoder table the partial
// Result is returned together with an error wrapping ErrDecoderTableMiss.
func Decode(obs *Observation, opts *DecodeOptions) (*Result, error) {
	if obs == nil || (len(obs.Codewords) == 0 && obs.PayloadText == "") {
		return nil, ErrNoPayload
	}
	if opts == nil {
		opts = &DecodeOptions{}
	}
	log := opts.logger().WithField("symbology", obs.Symbology)

	class, heuristic := classify(obs, opts.ForceHeuristic)
	log = log.WithFields(logrus.Fields{"class": class, "heuristic": heuristic})
	res := &Result{
		Symbology:     obs.Symbology,
		Class:         class,
		PayloadText:   obs.PayloadText,
		UsedHeuristic: heuristic,
	}
	if !class.IsGS1() {
		log.Debug("not a GS1 data carrier")
		return res, nil
	}

	parser := ai.NewParser(opts.table(), log)

	if len(obs.Codewords) == 0 || class == ClassGS1DataBarLimited {
		res.ElementString = obs.PayloadText
		parse := parser.Parse
		if class == ClassGS1DataBarLimited || heuristic {
			parse = parser.ParseFixed
		}
		res.fill(log, parse, obs.PayloadText)
		return res, nil
	}

	factory, ok := decoderFactories[obs.Symbology]
	if !ok {
		return res, errors.Wrapf(ErrUnrecognizedSymbol, "no decoder registered for %s", obs.Symbology)
	}
	log.WithField("codewords", hex.EncodeToString(obs.Codewords)).Debug("decoding codewords")

	dr, err := factory(opts).DecodeCodewords(obs.Codewords)
	if err != nil && !errors.Is(err, ErrDecoderTableMiss) {
		return res, err
	}
	if dr == nil {
		return res, err
	}

	text, dropped := internal.SanitizeElementString(dr.Text)
	if dropped > 0 {
		log.WithField("dropped", dropped).Warn("control characters removed from element string")
	}
	res.ElementString = text
	res.SymbologyIdentifier = symbologyIdentifier(obs.Symbology, dr.SymbologyModifier)

	if text == "" && err == nil {
		raw := hex.EncodeToString(obs.Codewords)
		log.WithField("codewords", raw).Warn("no data decoded from codewords")
		res.Records = []ai.Record{{Title: "Undecodable " + class.String() + " codewords", Raw: raw, Value: raw}}
		return res, nil
	}

	log.WithField("elementString", text).Debug("element string decoded")
	res.fill(log, parser.Parse, text)
	if err != nil {
		log.WithError(err).Warn("partial decode")
		res.IsAIConformant = false
	}
	return res, err
}

func (r *Result) fill(log logrus.FieldLogger, parse func(string) (*ai.Parsed, error), s string) {
	p, err := parse(s)
	if err != nil {
		log.WithError(err).Debug("element string not fully parsed")
	}
	for _, ferr := range p.FieldErrors {
		log.WithError(ferr).Debug("record dropped")
	}
	r.Records = p.Records
	r.PrimaryProductCode = p.PrimaryProductCode
	r.IsAIConformant = p.Conformant
}
