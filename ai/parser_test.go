package ai

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const gs = "\x1d"

func parse(t *testing.T, s string) (*Parsed, error) {
	t.Helper()
	return NewParser(nil, nil).Parse(s)
}

func TestParsePrefersShortestCode(t *testing.T) {
	table, err := NewTable([]Entry{
		{Code: "12", Title: "TWO", Length: 4},
		{Code: "123", Title: "THREE", Length: 2},
	})
	require.NoError(t, err)

	got, err := NewParser(table, nil).Parse("123456")
	require.NoError(t, err)
	require.Equal(t, []Record{{AI: "12", Title: "TWO", Raw: "3456", Value: "3456"}}, got.Records)
}

func TestParseFixedLengthConsumesExactly(t *testing.T) {
	for _, tail := range []string{"", "10ABC", "17240131", gs + "10X"} {
		t.Run(tail, func(t *testing.T) {
			got, err := parse(t, "0112345678901231"+tail)
			require.NoError(t, err)
			require.Equal(t, "01", got.Records[0].AI)
			require.Equal(t, "12345678901231", got.Records[0].Raw)
			require.Equal(t, "12345678901231", got.PrimaryProductCode)
			require.True(t, got.Conformant)
		})
	}
}

func TestParseVariableStopsAtSeparator(t *testing.T) {
	got, err := parse(t, "10ABC"+gs+"17240131")
	require.NoError(t, err)
	require.Equal(t, []Record{
		{AI: "10", Title: "BATCH/LOT", Raw: "ABC", Value: "ABC"},
		{AI: "17", Title: "USE BY or EXPIRY", Raw: "240131", Value: "2024-01-31"},
	}, got.Records)
}

func TestParseVariableRunsToEnd(t *testing.T) {
	got, err := parse(t, "011234567890123121SERIAL42")
	require.NoError(t, err)
	require.Len(t, got.Records, 2)
	require.Equal(t, "SERIAL42", got.Records[1].Raw)
}

func TestParseOverlongVariableDropped(t *testing.T) {
	got, err := parse(t, "10"+strings.Repeat("A", 21)+gs+"17240131")
	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	require.Equal(t, "17", got.Records[0].AI)
	require.Equal(t, 2, got.Matched)
	require.Len(t, got.FieldErrors, 1)
	require.True(t, errors.Is(got.FieldErrors[0], ErrFieldFormat))
}

func TestParseFieldFormatErrorSkipsRecord(t *testing.T) {
	got, err := parse(t, "11AB0101"+"10X")
	require.NoError(t, err)
	require.Len(t, got.Records, 1)
	require.Equal(t, "10", got.Records[0].AI)
	require.True(t, got.Conformant)
	require.Len(t, got.FieldErrors, 1)
}

func TestParseNonConformant(t *testing.T) {
	for _, in := range []string{"ABCDEF", "]XYZ", "]C", "]dX1"} {
		t.Run(in, func(t *testing.T) {
			got, err := parse(t, in)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrMalformedElementString))
			require.False(t, got.Conformant)
			require.Equal(t, []Record{{Title: UnparsedTitle, Raw: in, Value: in}}, got.Records)
			require.True(t, got.Records[0].Unparsed())
		})
	}
}

func TestParseTrailingGarbage(t *testing.T) {
	got, err := parse(t, "0112345678901231"+"XYZ")
	require.True(t, errors.Is(err, ErrMalformedElementString))
	require.True(t, got.Conformant)
	require.Len(t, got.Records, 2)
	require.Equal(t, "XYZ", got.Records[1].Raw)
}

func TestParseTruncatedFixedField(t *testing.T) {
	got, err := parse(t, "01123")
	require.Error(t, err)
	require.False(t, got.Conformant)
	require.Equal(t, 0, got.Matched)
	require.Equal(t, "01123", got.Records[0].Raw)
}

func TestParsePrefixAndSeparators(t *testing.T) {
	for _, prefix := range []string{"]C1", "]d2", "]e0", "]Q3", gs, "]C1" + gs, ""} {
		got, err := parse(t, prefix+"0112345678901231")
		require.NoError(t, err)
		require.Len(t, got.Records, 1)
		require.Equal(t, "01", got.Records[0].AI)
	}
}

func TestParseFixedFollowedBySeparator(t *testing.T) {
	got, err := parse(t, "40212345678901234567"+gs+"10X")
	require.NoError(t, err)
	require.Len(t, got.Records, 2)
	require.Equal(t, "402", got.Records[0].AI)
	require.Equal(t, "12345678901234567", got.Records[0].Raw)
	require.Equal(t, "X", got.Records[1].Raw)
}

func TestParseDecimal(t *testing.T) {
	got, err := parse(t, "3102012345")
	require.NoError(t, err)
	require.Equal(t, "3102", got.Records[0].AI)
	require.Equal(t, "123.45", got.Records[0].Value)
}

func TestParsePrimaryProductCode(t *testing.T) {
	got, err := parse(t, "0212345678901231"+"3712"+gs+"0109506000134352")
	require.NoError(t, err)
	require.Len(t, got.Records, 3)
	require.Equal(t, "12345678901231", got.PrimaryProductCode)
}

func TestParseEmpty(t *testing.T) {
	got, err := parse(t, "")
	require.NoError(t, err)
	require.Empty(t, got.Records)
	require.True(t, got.Conformant)
}

func TestParseFixedOnly(t *testing.T) {
	got, err := NewParser(nil, nil).ParseFixed("0112345678901231" + "17240131" + "10ABC")
	require.True(t, errors.Is(err, ErrMalformedElementString))
	require.Equal(t, 2, got.Matched)
	require.True(t, got.Conformant)
	require.Len(t, got.Records, 3)
	require.Equal(t, "10ABC", got.Records[2].Raw)
	require.True(t, got.Records[2].Unparsed())
}

func TestParseFixedSkipsFNC1Entries(t *testing.T) {
	got, _ := NewParser(nil, nil).ParseFixed("40212345678901234567")
	require.False(t, got.Conformant)
	require.Len(t, got.Records, 1)
	require.True(t, got.Records[0].Unparsed())
}

func TestHRI(t *testing.T) {
	got, _ := parse(t, "0112345678901231"+"10ABC"+gs+"17240131")
	require.Equal(t, "(01)12345678901231(10)ABC(17)240131", HRI(got.Records))
}
