package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	gs1reader "github.com/wco1971/GS1CodeSymbolReader"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

func TestCodewords(t *testing.T) {
	out, err := run(t, "", "codewords", "--symbology", "datamatrix",
		"e8 83 8e a4 ba d0 dc 8e a1 a1 85 82 8e b4 97 59 5a 81")
	require.NoError(t, err)
	require.Contains(t, out, "[GS1 DataMatrix] ]d2 (heuristic)")
	require.Contains(t, out, "NET WEIGHT (kg)")
	require.Contains(t, out, "lookup key 12345678901231 (valid)")
}

func TestCodewordsJSON(t *testing.T) {
	out, err := run(t, "", "codewords", "-s", "code128", "--gs1=true", "--json",
		"0x69,0x66,0x01,0x0c,0x22,0x38,0x4e,0x5a,0x0c,0x1f,0x0a,0x64,0x21,0x22,0x66,0x63,0x11,0x18,0x01,0x1f,0x1d,0x6a")
	require.NoError(t, err)

	var res struct {
		Class          string `json:"class"`
		IsAIConformant bool   `json:"isAIConformant"`
		Records        []struct {
			AI    string `json:"ai"`
			Value string `json:"value"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, "GS1-128", res.Class)
	require.True(t, res.IsAIConformant)
	require.Len(t, res.Records, 3)
	require.Equal(t, "2024-01-31", res.Records[2].Value)
}

func TestCodewordsInteractive(t *testing.T) {
	out, err := run(t, "e8 83 8e a4 ba d0 dc 8e a1\n\nzz\n", "codewords")
	require.NoError(t, err)
	require.Contains(t, out, "[GS1 DataMatrix]")
	require.Equal(t, 4, strings.Count(out, "> "))
}

func TestCodewordsTableMiss(t *testing.T) {
	out, err := run(t, "", "codewords", "e8 83 00")
	require.True(t, errors.Is(err, gs1reader.ErrDecoderTableMiss))
	require.Contains(t, out, "(not AI conformant)")
}

func TestText(t *testing.T) {
	out, err := run(t, "", "text", "-s", "code128", `0112345678901231`+`10ABC<GS>`+`17240131`)
	require.NoError(t, err)
	require.Contains(t, out, "[GS1-128]")
	require.Contains(t, out, "BATCH/LOT")
	require.Contains(t, out, "2024-01-31")
}

func TestTextDataBarLimited(t *testing.T) {
	out, err := run(t, "", "text", "0112345678901231")
	require.NoError(t, err)
	require.Contains(t, out, "[GS1 DataBar Limited]")
}

func TestUnescapePayload(t *testing.T) {
	want := "10A\x1d21B"
	for _, in := range []string{`10A\x1d21B`, `10A<GS>21B`, `10A@21B`, want} {
		require.Equal(t, want, unescapePayload(in))
	}
}

func TestParseCodewords(t *testing.T) {
	for _, in := range []string{"e8 83 8e", "0xE8,0x83,0x8E", "0xe8838e", "E8\t83\n8e"} {
		cw, err := parseCodewords(in)
		require.NoError(t, err, in)
		require.Equal(t, []byte{0xE8, 0x83, 0x8E}, cw, in)
	}
	_, err := parseCodewords(" , ")
	require.Error(t, err)
	_, err = parseCodewords("gg")
	require.Error(t, err)
}

func TestTable(t *testing.T) {
	out, err := run(t, "", "table", "17")
	require.NoError(t, err)
	require.Contains(t, out, "USE BY or EXPIRY")
	require.Contains(t, out, "date")

	_, err = run(t, "", "table", "99999")
	require.Error(t, err)

	out, err = run(t, "", "table", "--json")
	require.NoError(t, err)
	var rows []tableRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Greater(t, len(rows), 300)
}

func TestConfig(t *testing.T) {
	dir := t.TempDir()
	tablePath := filepath.Join(dir, "extra.yaml")
	require.NoError(t, os.WriteFile(tablePath, []byte(`- {ai: "10", title: "LOT", length: 4}`), 0o600))
	cfgPath := filepath.Join(dir, "gs1scan.yaml")
	cfg := "logLevel: error\nverifyChecksum: true\ntable: " + tablePath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	out, err := run(t, "", "--config", cfgPath, "text", "-s", "datamatrix", "10ABCD17240131")
	require.NoError(t, err)
	require.Contains(t, out, "LOT")

	_, err = run(t, "", "--config", cfgPath, "codewords", "-s", "code128", "--gs1=true", "68 66 21 22 40 6a")
	require.True(t, errors.Is(err, gs1reader.ErrChecksum))
}

func TestConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("verbose: yes\n"), 0o600))
	_, err := run(t, "", "--config", path, "table")
	require.Error(t, err)
}
