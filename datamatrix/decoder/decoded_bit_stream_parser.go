// Package decoder turns DataMatrix data codewords into an element string.
package decoder

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	gs1reader "github.com/wco1971/GS1CodeSymbolReader"
	"github.com/wco1971/GS1CodeSymbolReader/bitutil"
	"github.com/wco1971/GS1CodeSymbolReader/charset"
	"github.com/wco1971/GS1CodeSymbolReader/internal"
)

// Data Matrix encodation modes
const (
	modeASCII   = iota // default start mode
	modeC40            // C40 encoding
	modeText           // Text encoding
	modeX12            // ANSI X12 encoding
	modeEDIFACT        // EDIFACT encoding
	modeBase256        // Base 256 encoding
	modePad            // padding reached, stop
)

var modeNames = [...]string{"ASCII", "C40", "TEXT", "X12", "EDIFACT", "BASE256", "PAD"}

// ASCII mode codewords
const (
	asciiPad           = 129
	asciiLatchC40      = 230
	asciiLatchBase256  = 231
	asciiFNC1          = 232
	asciiStructuredApp = 233
	asciiReaderProg    = 234
	asciiUpperShift    = 235
	asciiMacro05       = 236
	asciiMacro06       = 237
	asciiLatchX12      = 238
	asciiLatchText     = 239
	asciiLatchEDIFACT  = 240
	asciiECI           = 241
	unlatch            = 254
	edifactUnlatch     = 0x1F
)

const (
	macro05Header  = "[)>\x1E05\x1D"
	macro06Header  = "[)>\x1E06\x1D"
	macroTrailer   = "\x1E\x04"
	gs1Modifier    = 2
	macroModifier  = 5
	upperShiftBase = 128
)

// C40 and Text shift 2 set. 27 is FNC1 and 30 is Upper Shift; 28 and 29
// are reserved.
var c40TextShift2 = [27]byte{
	'!', '"', '#', '$', '%', '&', '\'', '(', ')', '*', '+', ',', '-', '.', '/',
	':', ';', '<', '=', '>', '?', '@', '[', '\\', ']', '^', '_',
}

// Text shift 3 set
var textShift3 = [32]byte{
	'`', 'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O',
	'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z', '{', '|', '}', '~', 127,
}

// Options configures DecodeBitStream.
type Options struct {
	// Base256Unrandomize removes the 255-state pseudo-random mask from Base
	// 256 codewords. Without it the codewords are taken as they are.
	Base256Unrandomize bool
	Logger             logrus.FieldLogger
}

// output collects decoded bytes. Bytes are held per ECI segment and turned
// into UTF-8 when the character set changes or decoding ends.
type output struct {
	text    strings.Builder
	pending []byte
	eci     *charset.ECI
	log     logrus.FieldLogger
}

func (o *output) writeByte(b byte) {
	o.pending = append(o.pending, b)
}

func (o *output) writeString(s string) {
	o.pending = append(o.pending, s...)
}

func (o *output) setECI(eci *charset.ECI) {
	o.flush()
	o.eci = eci
}

func (o *output) flush() {
	if len(o.pending) == 0 {
		return
	}
	s, err := charset.Decode(o.pending, o.eci)
	if err != nil {
		o.log.WithError(err).Warn("undecodable bytes replaced")
	}
	o.text.WriteString(s)
	o.pending = o.pending[:0]
}

func (o *output) String() string {
	o.flush()
	return o.text.String()
}

// parser holds the state of one DecodeBitStream call.
type parser struct {
	opts              Options
	log               logrus.FieldLogger
	bytes             []byte
	pos               int
	out               output
	byteSegments      [][]byte
	symbologyModifier int
	firstFNC1Position int
	trailer           string
	saSequence        int
	saParity          int
}

// DecodeBitStream decodes the data codewords of a Data Matrix symbol. The
// first codeword is read in ASCII mode. An FNC1 as the first data codeword
// marks a GS1 symbol and sets the symbology modifier to 2; any later FNC1
// becomes a GS. Decoding stops at the first pad codeword.
//
// A codeword without meaning in the active mode returns a partial result
// together with an error wrapping gs1reader.ErrDecoderTableMiss.
func DecodeBitStream(bytes []byte, opts Options) (*internal.DecoderResult, error) {
	log := internal.Logger(opts.Logger)
	p := &parser{
		opts:       opts,
		log:        log,
		bytes:      bytes,
		out:        output{eci: charset.Default, log: log},
		saSequence: -1,
		saParity:   -1,
	}

	mode := modeASCII
	var err error
	for p.pos < len(bytes) && mode != modePad && err == nil {
		next := mode
		switch mode {
		case modeASCII:
			next, err = p.decodeASCII()
		case modeC40:
			next, err = p.decodeC40Text(false)
		case modeText:
			next, err = p.decodeC40Text(true)
		case modeX12:
			next, err = p.decodeAnsiX12()
		case modeEDIFACT:
			next, err = p.decodeEdifact()
		case modeBase256:
			next, err = p.decodeBase256()
		}
		if next != mode {
			log.WithFields(logrus.Fields{"from": modeNames[mode], "to": modeNames[next], "pos": p.pos}).Debug("mode change")
		}
		mode = next
	}

	if err == nil {
		p.out.writeString(p.trailer)
	}
	result := internal.NewDecoderResultFull(bytes, p.out.String(), p.byteSegments,
		p.saSequence, p.saParity, p.symbologyModifier)
	return result, err
}

func (p *parser) miss(mode int, value int) error {
	return errors.Wrapf(gs1reader.ErrDecoderTableMiss, "datamatrix: %s value %d at codeword %d",
		modeNames[mode], value, p.pos)
}

// decodeASCII processes codewords in ASCII mode until a latch is hit or the
// data runs out.
func (p *parser) decodeASCII() (int, error) {
	for p.pos < len(p.bytes) {
		b := int(p.bytes[p.pos])
		p.pos++

		switch {
		case b == 0:
			return modeASCII, p.miss(modeASCII, b)
		case b <= 128:
			p.out.writeByte(byte(b - 1))
		case b == asciiPad:
			return modePad, nil
		case b <= 229:
			// 130 encodes "00", 229 encodes "99"
			pair := b - 130
			p.out.writeByte(byte('0' + pair/10))
			p.out.writeByte(byte('0' + pair%10))
		case b == asciiLatchC40:
			return modeC40, nil
		case b == asciiLatchBase256:
			return modeBase256, nil
		case b == asciiFNC1:
			if p.pos-1 == p.firstFNC1Position {
				p.symbologyModifier = gs1Modifier
			} else {
				p.out.writeByte(internal.GS)
			}
		case b == asciiStructuredApp:
			if p.pos != 1 || p.pos+3 > len(p.bytes) {
				return modeASCII, p.miss(modeASCII, b)
			}
			p.saSequence = int(p.bytes[p.pos])
			p.saParity = int(p.bytes[p.pos+1])<<8 | int(p.bytes[p.pos+2])
			p.pos += 3
			p.firstFNC1Position = p.pos
		case b == asciiReaderProg:
			// reader programming carries no data
		case b == asciiUpperShift:
			if p.pos >= len(p.bytes) {
				return modeASCII, p.miss(modeASCII, b)
			}
			shifted := int(p.bytes[p.pos])
			p.pos++
			// only ASCII data codewords 1..128 can be shifted
			if shifted == 0 || shifted > 128 {
				return modeASCII, p.miss(modeASCII, shifted)
			}
			p.out.writeByte(byte(shifted - 1 + upperShiftBase))
		case b == asciiMacro05, b == asciiMacro06:
			if p.pos != 1 {
				return modeASCII, p.miss(modeASCII, b)
			}
			if b == asciiMacro05 {
				p.out.writeString(macro05Header)
			} else {
				p.out.writeString(macro06Header)
			}
			p.trailer = macroTrailer
			p.symbologyModifier = macroModifier
		case b == asciiLatchX12:
			return modeX12, nil
		case b == asciiLatchText:
			return modeText, nil
		case b == asciiLatchEDIFACT:
			return modeEDIFACT, nil
		case b == asciiECI:
			if err := p.readECI(); err != nil {
				return modeASCII, err
			}
		case b == unlatch:
			// already in ASCII
		default:
			return modeASCII, p.miss(modeASCII, b)
		}
	}
	return modeASCII, nil
}

// readECI reads the one to three codeword ECI designator that follows the
// ECI codeword and switches the character set.
func (p *parser) readECI() error {
	next := func() (int, error) {
		if p.pos >= len(p.bytes) {
			return 0, p.miss(modeASCII, asciiECI)
		}
		v := int(p.bytes[p.pos])
		p.pos++
		return v, nil
	}
	c1, err := next()
	if err != nil {
		return err
	}
	var value int
	switch {
	case c1 <= 127:
		value = c1 - 1
	case c1 <= 191:
		c2, err := next()
		if err != nil {
			return err
		}
		value = (c1-128)*254 + 127 + c2 - 1
	default:
		c2, err := next()
		if err != nil {
			return err
		}
		c3, err := next()
		if err != nil {
			return err
		}
		value = (c1-192)*64516 + 16383 + (c2-1)*254 + c3 - 1
	}
	eci, err := charset.GetECIByValue(value)
	if err != nil {
		return errors.Wrapf(gs1reader.ErrDecoderTableMiss, "datamatrix: %v", err)
	}
	p.log.WithField("eci", eci.Name).Debug("character set changed")
	p.out.setECI(eci)
	return nil
}

// decodeTriplet splits a C40, Text or X12 codeword pair into its three
// base-40 values.
func decodeTriplet(c1, c2 int) [3]int {
	v := (c1<<8 | c2) - 1
	return [3]int{v / 1600, (v / 40) % 40, v % 40}
}

// decodeC40Text decodes C40 or Text mode codeword pairs. The basic set holds
// space, digits and upper case letters in C40 or lower case letters in Text;
// values 0 to 2 select a shift set for the next value only.
func (p *parser) decodeC40Text(textMode bool) (int, error) {
	mode := modeC40
	if textMode {
		mode = modeText
	}
	shift := 0
	upperShift := false

	emit := func(ch byte) {
		if upperShift {
			p.out.writeByte(ch + upperShiftBase)
			upperShift = false
		} else {
			p.out.writeByte(ch)
		}
	}

	for p.pos < len(p.bytes)-1 {
		c1 := int(p.bytes[p.pos])
		if c1 == unlatch {
			p.pos++
			return modeASCII, nil
		}
		c2 := int(p.bytes[p.pos+1])
		p.pos += 2

		for _, cVal := range decodeTriplet(c1, c2) {
			switch shift {
			case 0:
				switch {
				case cVal < 3:
					shift = cVal + 1
				case cVal == 3:
					emit(' ')
				case cVal <= 13:
					emit(byte('0' + cVal - 4))
				case textMode:
					emit(byte('a' + cVal - 14))
				default:
					emit(byte('A' + cVal - 14))
				}

			case 1:
				// ASCII 0-31
				if cVal >= 32 {
					return mode, p.miss(mode, cVal)
				}
				emit(byte(cVal))
				shift = 0

			case 2:
				switch {
				case cVal < 27:
					emit(c40TextShift2[cVal])
				case cVal == 27:
					emit(internal.GS)
				case cVal == 30:
					upperShift = true
				default:
					return mode, p.miss(mode, cVal)
				}
				shift = 0

			case 3:
				if cVal >= 32 {
					return mode, p.miss(mode, cVal)
				}
				if textMode {
					emit(textShift3[cVal])
				} else {
					emit(byte(cVal + 96))
				}
				shift = 0
			}
		}
	}

	// A single codeword left after the last pair is ASCII.
	return modeASCII, nil
}

// decodeAnsiX12 decodes ANSI X12 codeword pairs. The set holds CR, '*',
// '>', space, digits and upper case letters.
func (p *parser) decodeAnsiX12() (int, error) {
	for p.pos < len(p.bytes)-1 {
		c1 := int(p.bytes[p.pos])
		if c1 == unlatch {
			p.pos++
			return modeASCII, nil
		}
		c2 := int(p.bytes[p.pos+1])
		p.pos += 2

		for _, cVal := range decodeTriplet(c1, c2) {
			switch {
			case cVal == 0:
				p.out.writeByte('\r')
			case cVal == 1:
				p.out.writeByte('*')
			case cVal == 2:
				p.out.writeByte('>')
			case cVal == 3:
				p.out.writeByte(' ')
			case cVal <= 13:
				p.out.writeByte(byte('0' + cVal - 4))
			default:
				p.out.writeByte(byte('A' + cVal - 14))
			}
		}
	}
	return modeASCII, nil
}

// decodeEdifact decodes EDIFACT data, four 6-bit values packed into every
// three codewords. The unlatch value returns to ASCII at the next codeword
// boundary, so an unlatch in the first or second value consumes one or two
// codewords rather than three.
func (p *parser) decodeEdifact() (int, error) {
	bits := bitutil.NewBitSourceAt(p.bytes, p.pos)
	defer func() { p.pos = bits.ByteOffset() }()

	for bits.Available() > 16 {
		for i := 0; i < 4; i++ {
			g, err := bits.ReadBits(6)
			if err != nil {
				// fewer than four values left, the rest is ASCII
				bits.AlignToByte()
				return modeASCII, nil
			}
			if g == edifactUnlatch {
				bits.AlignToByte()
				return modeASCII, nil
			}
			if g&0x20 == 0 {
				g |= 0x40
			}
			p.out.writeByte(byte(g))
		}
	}
	return modeASCII, nil
}

// decodeBase256 decodes a Base 256 run. The first codeword is the length:
// 0 means the rest of the symbol, 1 to 249 the number of data codewords, and
// 250 to 255 the high part of a two codeword length.
func (p *parser) decodeBase256() (int, error) {
	read := func() int {
		v := int(p.bytes[p.pos])
		if p.opts.Base256Unrandomize {
			v = unRandomize255State(v, p.pos+1)
		}
		p.pos++
		return v
	}

	d1 := read()
	var count int
	switch {
	case d1 == 0:
		count = len(p.bytes) - p.pos
	case d1 < 250:
		count = d1
	default:
		if p.pos >= len(p.bytes) {
			return modeBase256, p.miss(modeBase256, d1)
		}
		count = 250*(d1-249) + read()
	}

	if p.pos+count > len(p.bytes) {
		return modeBase256, errors.Wrapf(gs1reader.ErrDecoderTableMiss,
			"datamatrix: base256 run of %d exceeds %d remaining codewords", count, len(p.bytes)-p.pos)
	}

	segment := make([]byte, count)
	for i := range segment {
		segment[i] = byte(read())
	}
	p.byteSegments = append(p.byteSegments, segment)
	for _, b := range segment {
		p.out.writeByte(b)
	}
	return modeASCII, nil
}

// unRandomize255State removes the 255-state pseudo-random masking used in
// Base 256 mode. codewordPosition is the 1-based position of the codeword
// in the data stream.
func unRandomize255State(randomizedBase256Codeword, codewordPosition int) int {
	pseudoRandomNumber := ((149 * codewordPosition) % 255) + 1
	tempVariable := randomizedBase256Codeword - pseudoRandomNumber
	if tempVariable >= 0 {
		return tempVariable
	}
	return tempVariable + 256
}
