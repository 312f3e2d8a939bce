// Package ai holds the GS1 Application Identifier table, the element string
// parser that tokenizes GS1 data against it, and the per-AI field formatters.
package ai

import (
	"bytes"
	_ "embed"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed table.yaml
var defaultTableYAML []byte

// Entry describes one Application Identifier.
type Entry struct {
	// Code is the 2 to 4 digit AI.
	Code string
	// Title is the GS1 data title shown next to the value.
	Title string
	// Variable is true for fields terminated by a group separator.
	Variable bool
	// Length is the field length of a fixed AI, or the maximum field length of
	// a variable AI. It excludes the AI itself.
	Length int
	// FNC1 marks a fixed-length AI that is still followed by a separator.
	FNC1 bool
	// Format selects the formatter for the raw field value.
	Format Formatter
	// Decimals is the number of implied decimal places for decimal and
	// currency formats.
	Decimals int
	// Phrases maps raw values to display text for the enum format.
	Phrases map[string]string
	// Unit is appended to the formatted value when set.
	Unit string
}

// Predefined reports whether the AI has a fixed length and never needs a
// separator, so it can be parsed from text that carries no separators at all.
func (e *Entry) Predefined() bool {
	return !e.Variable && !e.FNC1
}

// Table is an immutable AI lookup table split by code length and length class.
type Table struct {
	fixed    [5]map[string]*Entry
	variable [5]map[string]*Entry
	count    int
}

// NewTable builds a Table from entries. Codes must be 2 to 4 digits long and
// unique within their length class.
func NewTable(entries []Entry) (*Table, error) {
	t := newEmptyTable()
	for i := range entries {
		if err := t.add(entries[i]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func newEmptyTable() *Table {
	t := &Table{}
	for n := 2; n <= 4; n++ {
		t.fixed[n] = make(map[string]*Entry)
		t.variable[n] = make(map[string]*Entry)
	}
	return t
}

func (t *Table) add(e Entry) error {
	n := len(e.Code)
	if n < 2 || n > 4 || !isDigits(e.Code) {
		return errors.Errorf("ai: code %q must be 2 to 4 digits", e.Code)
	}
	if e.Length <= 0 {
		return errors.Errorf("ai: code %s: length must be positive, got %d", e.Code, e.Length)
	}
	class := t.fixed[n]
	if e.Variable {
		class = t.variable[n]
	}
	if _, dup := class[e.Code]; dup {
		return errors.Errorf("ai: duplicate code %s", e.Code)
	}
	entry := e
	class[e.Code] = &entry
	t.count++
	return nil
}

// Len returns the number of AIs in the table.
func (t *Table) Len() int {
	return t.count
}

// Lookup returns the entry for an exact AI code. Fixed entries win over
// variable ones when a code is defined in both classes.
func (t *Table) Lookup(code string) (*Entry, bool) {
	n := len(code)
	if n < 2 || n > 4 {
		return nil, false
	}
	if e, ok := t.fixed[n][code]; ok {
		return e, true
	}
	e, ok := t.variable[n][code]
	return e, ok
}

// Match finds the AI at the start of s. Candidates are tried by code length
// first (2, 3, then 4 digits) and, within one length, fixed before variable.
// The first hit wins even if a longer code would also match.
func (t *Table) Match(s string) (*Entry, bool) {
	for n := 2; n <= 4 && n <= len(s); n++ {
		code := s[:n]
		if e, ok := t.fixed[n][code]; ok {
			return e, true
		}
		if e, ok := t.variable[n][code]; ok {
			return e, true
		}
	}
	return nil, false
}

// MatchPredefined is like Match but only considers fixed-length AIs that do
// not require a separator.
func (t *Table) MatchPredefined(s string) (*Entry, bool) {
	for n := 2; n <= 4 && n <= len(s); n++ {
		if e, ok := t.fixed[n][s[:n]]; ok && e.Predefined() {
			return e, true
		}
	}
	return nil, false
}

// Entries returns a copy of every entry ordered by code.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, t.count)
	for n := 2; n <= 4; n++ {
		for _, e := range t.fixed[n] {
			out = append(out, *e)
		}
		for _, e := range t.variable[n] {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Merge returns a new table holding the entries of t overlaid by those of
// other. An entry in other replaces any entry of t with the same code.
func (t *Table) Merge(other *Table) *Table {
	merged := newEmptyTable()
	for _, e := range t.Entries() {
		if _, ok := other.Lookup(e.Code); ok {
			continue
		}
		_ = merged.add(e)
	}
	for _, e := range other.Entries() {
		_ = merged.add(e)
	}
	return merged
}

var defaultTable *Table

func init() {
	t, err := LoadTable(bytes.NewReader(defaultTableYAML))
	if err != nil {
		panic(errors.Wrap(err, "ai: embedded table"))
	}
	defaultTable = t
}

// DefaultTable returns the built-in GS1 AI table.
func DefaultTable() *Table {
	return defaultTable
}

// entryYAML is the on-disk form of an Entry. A code ending in "n" describes a
// family of ten codes whose last digit ranges over N.
type entryYAML struct {
	AI       string            `yaml:"ai"`
	Title    string            `yaml:"title"`
	Length   int               `yaml:"length"`
	Variable bool              `yaml:"variable"`
	FNC1     bool              `yaml:"fnc1"`
	Format   string            `yaml:"format"`
	N        []int             `yaml:"n"`
	Phrases  map[string]string `yaml:"phrases"`
	Unit     string            `yaml:"unit"`
}

// LoadTable parses a YAML AI table.
func LoadTable(r io.Reader) (*Table, error) {
	var raw []entryYAML
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "ai: decode table")
	}

	var entries []Entry
	for _, y := range raw {
		expanded, err := y.expand()
		if err != nil {
			return nil, err
		}
		entries = append(entries, expanded...)
	}
	return NewTable(entries)
}

func (y entryYAML) expand() ([]Entry, error) {
	format, err := ParseFormatter(y.Format)
	if err != nil {
		return nil, errors.Wrapf(err, "ai: code %s", y.AI)
	}
	base := Entry{
		Code:     y.AI,
		Title:    y.Title,
		Variable: y.Variable,
		Length:   y.Length,
		FNC1:     y.FNC1,
		Format:   format,
		Phrases:  y.Phrases,
		Unit:     y.Unit,
	}
	if !strings.HasSuffix(y.AI, "n") {
		if len(y.N) != 0 {
			return nil, errors.Errorf("ai: code %s: n range given for a single code", y.AI)
		}
		return []Entry{base}, nil
	}

	lo, hi := 0, 9
	switch len(y.N) {
	case 0:
	case 2:
		lo, hi = y.N[0], y.N[1]
	default:
		return nil, errors.Errorf("ai: code %s: n must be [low, high]", y.AI)
	}
	if lo < 0 || hi > 9 || lo > hi {
		return nil, errors.Errorf("ai: code %s: bad n range [%d, %d]", y.AI, lo, hi)
	}

	prefix := strings.TrimSuffix(y.AI, "n")
	var out []Entry
	for d := lo; d <= hi; d++ {
		e := base
		digit := strconv.Itoa(d)
		e.Code = prefix + digit
		e.Title = strings.ReplaceAll(y.Title, "{n}", digit)
		if format == FormatDecimal || format == FormatCurrency {
			e.Decimals = d
		}
		out = append(out, e)
	}
	return out, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
