package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()
	require.Greater(t, table.Len(), 300)

	tests := []struct {
		code     string
		variable bool
		length   int
		decimals int
	}{
		{"00", false, 18, 0},
		{"01", false, 14, 0},
		{"10", true, 20, 0},
		{"17", false, 6, 0},
		{"3102", false, 6, 2},
		{"3925", true, 15, 5},
		{"4309", false, 20, 0},
		{"8200", true, 70, 0},
	}
	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			e, ok := table.Lookup(tc.code)
			require.True(t, ok)
			require.Equal(t, tc.variable, e.Variable)
			require.Equal(t, tc.length, e.Length)
			require.Equal(t, tc.decimals, e.Decimals)
		})
	}

	e, ok := table.Lookup("7035")
	require.True(t, ok)
	require.Equal(t, "PROCESSOR # 5", e.Title)

	_, ok = table.Lookup("3107")
	require.False(t, ok)
}

func TestNewTableRejects(t *testing.T) {
	tests := map[string][]Entry{
		"short code":  {{Code: "1", Length: 2}},
		"long code":   {{Code: "12345", Length: 2}},
		"non digit":   {{Code: "1A", Length: 2}},
		"zero length": {{Code: "12", Length: 0}},
		"duplicate":   {{Code: "12", Length: 2}, {Code: "12", Length: 3}},
	}
	for name, entries := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewTable(entries)
			require.Error(t, err)
		})
	}
}

func TestLoadTable(t *testing.T) {
	doc := `
- {ai: "99", title: "MY INTERNAL", length: 10, variable: true}
- {ai: "95n", title: "WEIGHT {n}", length: 6, format: decimal, n: [1, 2]}
`
	table, err := LoadTable(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	e, ok := table.Lookup("952")
	require.True(t, ok)
	require.Equal(t, "WEIGHT 2", e.Title)
	require.Equal(t, 2, e.Decimals)
	require.Equal(t, FormatDecimal, e.Format)
}

func TestLoadTableRejects(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown field":  `- {ai: "99", length: 10, colour: red}`,
		"unknown format": `- {ai: "99", length: 10, format: roman}`,
		"bad range":      `- {ai: "9n", length: 10, n: [3, 1]}`,
		"range on code":  `- {ai: "99", length: 10, n: [0, 1]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := LoadTable(strings.NewReader(doc))
			require.Error(t, err)
		})
	}
}

func TestMerge(t *testing.T) {
	custom, err := LoadTable(strings.NewReader(`- {ai: "10", title: "LOT", length: 8}`))
	require.NoError(t, err)

	merged := DefaultTable().Merge(custom)
	require.Equal(t, DefaultTable().Len(), merged.Len())

	e, ok := merged.Lookup("10")
	require.True(t, ok)
	require.False(t, e.Variable)
	require.Equal(t, 8, e.Length)

	orig, _ := DefaultTable().Lookup("10")
	require.True(t, orig.Variable)
}

func TestCheckDigit(t *testing.T) {
	for _, s := range []string{"12345678901231", "09506000134352", "4006381333931", "106141412345678908"} {
		require.True(t, ValidCheckDigit(s), s)
	}
	for _, s := range []string{"12345678901232", "", "7", "1234567890123A"} {
		require.False(t, ValidCheckDigit(s), s)
	}
	require.Equal(t, -1, CheckDigit("12X"))
}
