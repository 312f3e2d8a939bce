package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeElementString(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		dropped int
	}{
		{"0112345678901231", "0112345678901231", 0},
		{"10AB\x1d17240131", "10AB\x1d17240131", 0},
		{"10A\x00B\x19\x7f", "10AB", 3},
		{"\r\n", "", 2},
		{"café", "café", 0},
		{"10A\u0085B", "10AB", 1},
		{"\u0080\u009f\u00a0", "\u00a0", 2},
	}
	for _, tc := range tests {
		got, dropped := SanitizeElementString(tc.in)
		require.Equal(t, tc.want, got)
		require.Equal(t, tc.dropped, dropped)
	}
}

func TestDecoderResultStructuredAppend(t *testing.T) {
	require.False(t, NewDecoderResult(nil, "x", nil, 0).HasStructuredAppend())
	require.True(t, NewDecoderResultFull(nil, "x", nil, 2, 17, 0).HasStructuredAppend())
}

func TestLoggerNil(t *testing.T) {
	log := Logger(nil)
	require.NotNil(t, log)
	log.WithField("k", "v").Warn("discarded")
}
