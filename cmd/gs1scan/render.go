package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	gs1reader "github.com/wco1971/GS1CodeSymbolReader"
	"github.com/wco1971/GS1CodeSymbolReader/ai"
)

var payloadEscapes = strings.NewReplacer(`\x1d`, "\x1d", `\x1D`, "\x1d", "<GS>", "\x1d", "@", "\x1d")

func unescapePayload(s string) string {
	return payloadEscapes.Replace(s)
}

func parseHint(s string) (*bool, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil, errors.Wrapf(err, "gs1 flag %q", s)
	}
	return gs1reader.Bool(v), nil
}

// parseCodewords accepts "e8 83 8e", "0xE8,0x83" or "0xe8838e".
func parseCodewords(dump string) ([]byte, error) {
	var b strings.Builder
	for _, f := range strings.FieldsFunc(dump, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	}) {
		f = strings.TrimPrefix(strings.TrimPrefix(f, "0x"), "0X")
		if len(f)%2 == 1 {
			f = "0" + f
		}
		b.WriteString(f)
	}
	if b.Len() == 0 {
		return nil, errors.New("empty codeword dump")
	}
	cw, err := hex.DecodeString(b.String())
	if err != nil {
		return nil, errors.Wrap(err, "codeword dump")
	}
	return cw, nil
}

func printResult(w io.Writer, res *gs1reader.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	fmt.Fprintf(w, "[%s]", res.SymbolName())
	if res.SymbologyIdentifier != "" {
		fmt.Fprintf(w, " %s", res.SymbologyIdentifier)
	}
	if res.UsedHeuristic {
		fmt.Fprint(w, " (heuristic)")
	}
	if res.Class.IsGS1() && !res.IsAIConformant {
		fmt.Fprint(w, " (not AI conformant)")
	}
	fmt.Fprintln(w)
	if !res.Class.IsGS1() {
		fmt.Fprintf(w, "  %s\n", res.PayloadText)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range res.Records {
		code := r.AI
		if r.Unparsed() {
			code = "--"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", code, r.Title, r.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if key, ok := res.LookupKey(); ok {
		check := "valid"
		if !res.PrimaryProductCodeValid() {
			check = "bad check digit"
		}
		fmt.Fprintf(w, "  lookup key %s (%s)\n", key, check)
	}
	return nil
}

type tableRow struct {
	AI       string `json:"ai"`
	Title    string `json:"title"`
	Length   int    `json:"length"`
	Variable bool   `json:"variable"`
	FNC1     bool   `json:"fnc1"`
	Format   string `json:"format"`
	Unit     string `json:"unit,omitempty"`
}

func printTable(w io.Writer, table *ai.Table, code string, asJSON bool) error {
	if table == nil {
		table = ai.DefaultTable()
	}
	var entries []ai.Entry
	if code != "" {
		e, ok := table.Lookup(code)
		if !ok {
			return errors.Errorf("no application identifier %q", code)
		}
		entries = []ai.Entry{*e}
	} else {
		entries = table.Entries()
	}

	rows := make([]tableRow, len(entries))
	for i, e := range entries {
		rows[i] = tableRow{e.Code, e.Title, e.Length, e.Variable, e.FNC1, e.Format.String(), e.Unit}
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "AI\tTITLE\tLENGTH\tFORMAT")
	for _, r := range rows {
		length := strconv.Itoa(r.Length)
		if r.Variable {
			length = "<=" + length
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.AI, r.Title, length, r.Format)
	}
	return tw.Flush()
}
