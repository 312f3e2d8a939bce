package bitutil

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestBitSourceReadBits(t *testing.T) {
	bs := NewBitSource([]byte{0x01, 0x02, 0x03, 0x04, 0x05})
	require.Equal(t, 40, bs.Available())

	reads := []struct{ n, want int }{
		{1, 0}, {6, 0}, {2, 2}, {3, 0}, {5, 4}, {7, 3}, {16, 0x405},
	}
	for _, r := range reads {
		got, err := bs.ReadBits(r.n)
		require.NoError(t, err)
		require.Equal(t, r.want, got)
	}
	require.Equal(t, 0, bs.Available())

	_, err := bs.ReadBits(1)
	require.True(t, errors.Is(err, ErrBitCount))
}

func TestBitSourceSixBitGroups(t *testing.T) {
	// 0b010000_010001_010010_010011 packs the EDIFACT values 16..19.
	bs := NewBitSource([]byte{0x41, 0x14, 0x93})
	for want := 16; want <= 19; want++ {
		got, err := bs.ReadBits(6)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestBitSourceAlign(t *testing.T) {
	bs := NewBitSourceAt([]byte{0xFF, 0xF0, 0xAB}, 1)
	v, err := bs.ReadBits(4)
	require.NoError(t, err)
	require.Equal(t, 0xF, v)
	require.Equal(t, 1, bs.ByteOffset())
	require.Equal(t, 4, bs.BitOffset())

	bs.AlignToByte()
	require.Equal(t, 2, bs.ByteOffset())
	require.Equal(t, 0, bs.BitOffset())
	bs.AlignToByte()
	require.Equal(t, 2, bs.ByteOffset())

	v, err = bs.ReadBits(8)
	require.NoError(t, err)
	require.Equal(t, 0xAB, v)
}

func TestBitSourceRejectsCounts(t *testing.T) {
	bs := NewBitSource(make([]byte, 8))
	for _, n := range []int{0, -1, 33} {
		_, err := bs.ReadBits(n)
		require.Error(t, err)
	}
}
