package ai

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/wco1971/GS1CodeSymbolReader/internal"
)

// GS is the group separator that stands for FNC1 inside an element string.
const GS = '\x1d'

// UnparsedTitle is the title of the record holding text no AI matched.
const UnparsedTitle = "Unparsed data"

// ErrMalformedElementString is returned when no Application Identifier can be
// matched at the current position of an element string.
var ErrMalformedElementString = errors.New("malformed element string")

// Record is one Application Identifier and its field. A record with an empty
// AI holds the unparsed remainder of an element string.
type Record struct {
	AI    string `json:"ai"`
	Title string `json:"title"`
	Raw   string `json:"raw"`
	Value string `json:"value"`
}

// Unparsed reports whether the record holds text that matched no AI.
func (r Record) Unparsed() bool {
	return r.AI == ""
}

// Parsed is the outcome of tokenizing one element string.
type Parsed struct {
	// Records are in scan order.
	Records []Record
	// PrimaryProductCode is the field of the first 00, 01, 02 or 03 AI.
	PrimaryProductCode string
	// Conformant is false when no AI matched a non-empty element string.
	Conformant bool
	// Matched counts the AIs recognized, including those whose record was
	// dropped by a formatter.
	Matched int
	// FieldErrors holds one error wrapping ErrFieldFormat per dropped record.
	FieldErrors []error
}

// Parser tokenizes GS1 element strings against an AI table. A Parser holds
// no per-call state and may be shared between goroutines.
type Parser struct {
	table *Table
	log   logrus.FieldLogger
}

// NewParser returns a parser over table, or over DefaultTable when table is nil.
func NewParser(table *Table, log logrus.FieldLogger) *Parser {
	if table == nil {
		table = DefaultTable()
	}
	return &Parser{table: table, log: internal.Logger(log)}
}

// Parse tokenizes s greedily. Each AI is found with Table.Match, fixed fields
// take exactly their declared length and variable fields run up to the next
// GS or the end of s. When text remains that no AI matches, it is returned as
// a final unparsed record together with an error wrapping
// ErrMalformedElementString; the Parsed value is complete either way.
func (p *Parser) Parse(s string) (*Parsed, error) {
	return p.parse(s, p.table.Match)
}

// ParseFixed is the restricted form of Parse used when the text carries no
// separators: only fixed-length AIs that never need a GS are recognized, and
// parsing stops at the first position where none matches.
func (p *Parser) ParseFixed(s string) (*Parsed, error) {
	return p.parse(s, p.table.MatchPredefined)
}

func (p *Parser) parse(s string, match func(string) (*Entry, bool)) (*Parsed, error) {
	s = trimPrefix(s)
	out := &Parsed{}
	var err error

	pos := 0
	for pos < len(s) {
		if s[pos] == GS {
			pos++
			continue
		}
		e, ok := match(s[pos:])
		if !ok {
			err = p.unparsed(out, s, pos)
			break
		}
		start := pos + len(e.Code)

		var raw string
		if e.Variable {
			end := strings.IndexByte(s[start:], GS)
			if end < 0 {
				end = len(s)
			} else {
				end += start
			}
			raw = s[start:end]
			pos = end + 1
			if len(raw) > e.Length {
				out.Matched++
				p.log.WithFields(logrus.Fields{"ai": e.Code, "length": len(raw), "max": e.Length}).
					Warn("variable field exceeds maximum length, dropped")
				out.FieldErrors = append(out.FieldErrors,
					errors.Wrapf(ErrFieldFormat, "ai %s: field length %d exceeds %d", e.Code, len(raw), e.Length))
				continue
			}
		} else {
			end := start + e.Length
			if end > len(s) {
				err = p.unparsed(out, s, pos)
				break
			}
			raw = s[start:end]
			pos = end
		}

		out.Matched++
		p.add(out, e, raw)
	}

	out.Conformant = out.Matched > 0 || len(s) == 0
	return out, err
}

func (p *Parser) add(out *Parsed, e *Entry, raw string) {
	value, err := Format(e, raw)
	if err != nil {
		p.log.WithError(err).WithField("ai", e.Code).Warn("field dropped")
		out.FieldErrors = append(out.FieldErrors, err)
		return
	}
	p.log.WithFields(logrus.Fields{"ai": e.Code, "raw": raw}).Debug("ai matched")
	out.Records = append(out.Records, Record{AI: e.Code, Title: e.Title, Raw: raw, Value: value})
	if out.PrimaryProductCode == "" && isPrimaryProductAI(e.Code) {
		out.PrimaryProductCode = raw
	}
}

func (p *Parser) unparsed(out *Parsed, s string, pos int) error {
	rest := s[pos:]
	out.Records = append(out.Records, Record{Title: UnparsedTitle, Raw: rest, Value: rest})
	p.log.WithFields(logrus.Fields{"offset": pos, "remainder": rest}).Debug("no ai matched")
	return errors.Wrapf(ErrMalformedElementString, "no ai at offset %d", pos)
}

func isPrimaryProductAI(code string) bool {
	switch code {
	case "00", "01", "02", "03":
		return true
	}
	return false
}

// trimPrefix drops a symbology identifier such as "]C1" or "]d2" and the
// FNC1 that flags a GS1 symbol. Anything else starting with ']' is data.
func trimPrefix(s string) string {
	if hasSymbologyIdentifier(s) {
		s = s[3:]
	}
	return strings.TrimLeft(s, string(rune(GS)))
}

// hasSymbologyIdentifier reports whether s starts with "]C", "]d", "]e" or
// "]Q" followed by a modifier digit.
func hasSymbologyIdentifier(s string) bool {
	if len(s) < 3 || s[0] != ']' || s[2] < '0' || s[2] > '9' {
		return false
	}
	switch s[1] {
	case 'C', 'd', 'e', 'Q':
		return true
	}
	return false
}

// HRI renders records in human readable interpretation form, "(01)...(10)...".
// Unparsed text is appended as is.
func HRI(records []Record) string {
	var b strings.Builder
	for _, r := range records {
		if r.Unparsed() {
			b.WriteString(r.Raw)
			continue
		}
		b.WriteByte('(')
		b.WriteString(r.AI)
		b.WriteByte(')')
		b.WriteString(r.Raw)
	}
	return b.String()
}
