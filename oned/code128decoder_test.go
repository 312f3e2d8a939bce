package oned

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	gs1reader "github.com/wco1971/GS1CodeSymbolReader"
)

func TestCode128Decode(t *testing.T) {
	tests := []struct {
		name      string
		codewords []byte
		want      string
		modifier  int
	}{
		{
			name:      "shift A to B for one character",
			codewords: []byte{code128StartA, 56, code128Shift, 89, 93, 67, code128Stop},
			want:      "Xy\x1d",
		},
		{
			name:      "GS1 code set C",
			codewords: []byte{code128StartC, code128FNC1, 1, 12, 34, 56, 78, 90, 12, 31, 74, code128Stop},
			want:      "0112345678901231",
			modifier:  1,
		},
		{
			name: "code set switches and FNC1 separator",
			codewords: []byte{code128StartC, code128FNC1, 10, code128CodeB, 33, 34, code128FNC1,
				code128CodeC, 17, 24, 1, 31, 56, code128Stop},
			want:     "10AB\x1d17240131",
			modifier: 1,
		},
		{
			name:      "code set A control characters pass through",
			codewords: []byte{code128StartA, 33, 65, 34, 59, code128Stop},
			want:      "A\x01B",
		},
		{
			name:      "FNC4 shifts to upper half",
			codewords: []byte{code128StartB, code128FNC4B, 33, 64, code128Stop},
			want:      "Á",
		},
		{
			name:      "start character only",
			codewords: []byte{code128StartC, 2, code128Stop},
			want:      "",
		},
	}
	d := NewCode128Decoder(&gs1reader.DecodeOptions{VerifyChecksum: true})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := d.DecodeCodewords(tc.codewords)
			require.NoError(t, err)
			require.Equal(t, tc.want, got.Text)
			require.Equal(t, tc.modifier, got.SymbologyModifier)
		})
	}
}

func TestCode128StopsBeforeCheckCharacter(t *testing.T) {
	// Without the check and stop characters the last two data codewords are
	// taken for them.
	got, err := NewCode128Decoder(nil).DecodeCodewords([]byte{code128StartA, 56, code128Shift, 89})
	require.NoError(t, err)
	require.Equal(t, "X", got.Text)
}

func TestCode128Checksum(t *testing.T) {
	codewords := []byte{code128StartB, code128FNC1, 33, 34, 64, code128Stop}

	_, err := NewCode128Decoder(&gs1reader.DecodeOptions{VerifyChecksum: true}).DecodeCodewords(codewords)
	require.True(t, errors.Is(err, gs1reader.ErrChecksum))

	got, err := NewCode128Decoder(nil).DecodeCodewords(codewords)
	require.NoError(t, err)
	require.Equal(t, "AB", got.Text)

	codewords[4] = 65
	_, err = NewCode128Decoder(&gs1reader.DecodeOptions{VerifyChecksum: true}).DecodeCodewords(codewords)
	require.NoError(t, err)
}

func TestCode128TableMiss(t *testing.T) {
	got, err := NewCode128Decoder(nil).DecodeCodewords([]byte{code128StartB, 33, code128StartC, 12, 38, code128Stop})
	require.True(t, errors.Is(err, gs1reader.ErrDecoderTableMiss))
	require.Equal(t, "A", got.Text)

	_, err = NewCode128Decoder(nil).DecodeCodewords([]byte{0x10, 33, 34, code128Stop})
	require.True(t, errors.Is(err, gs1reader.ErrDecoderTableMiss))

	got, err = NewCode128Decoder(nil).DecodeCodewords([]byte{code128StartB, 33, 200, 1, code128Stop})
	require.True(t, errors.Is(err, gs1reader.ErrDecoderTableMiss))
	require.Equal(t, "A", got.Text)
}
