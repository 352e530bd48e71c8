package xmed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{"0x1f", 31, true},
		{"1F", 31, true},
		{"ff", 255, true},
		{"", 0, false},
		{"0x", 0, false},
		{"-3", 0, false},
		{"12z", 0, false},
	}
	for _, tt := range tests {
		n, ok := parseLength(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, n, tt.in)
	}
}

func TestSplitTextBlocks(t *testing.T) {
	got := splitTextBlocks([]byte("3,abc\x002,de\x031,f"))
	require.Len(t, got, 3)
	assert.Equal(t, "abc", string(got[0]))
	assert.Equal(t, "de", string(got[1]))
	assert.Equal(t, "f", string(got[2]))

	// A bad later block ends the list without dropping earlier ones.
	got = splitTextBlocks([]byte("3,abc\x0099,de"))
	require.Len(t, got, 1)

	assert.Empty(t, splitTextBlocks([]byte("abc")))
	assert.Empty(t, splitTextBlocks([]byte("12345678901,x")))
}

func TestReadDirectoryFirstKeyWins(t *testing.T) {
	b := make([]byte, directoryOffset)
	b = append(b, "0002"+"00000000"+"00000004"+","+"0002"+"00000004"+"00000004"+"\x00"...)
	dir, err := readDirectory(b)
	require.NoError(t, err)
	assert.Equal(t, region{Offset: 0, Length: 4, Token: directoryOffset}, dir[keyText])
}

func TestDirectoryTrailer(t *testing.T) {
	b := make([]byte, directoryOffset)
	b = append(b, "0003"+"00000000"+"00000002"+","+"0002"+"00000000"+"00000005"+"\x00"+"5,Hallo\x00"...)
	dir, err := readDirectory(b)
	require.NoError(t, err)
	assert.True(t, dir[keyText].Last)
	assert.False(t, dir[keyFonts].Last)

	tail, ok := dir.trailer(b, keyText)
	require.True(t, ok)
	assert.Equal(t, "5,Hallo\x00", string(tail))
	_, ok = dir.trailer(b, keyFonts)
	assert.False(t, ok)
	_, ok = dir.trailer(b, keyStyles)
	assert.False(t, ok)
}

func TestDecimalFields(t *testing.T) {
	assert.Equal(t, [5]int{1, 23, 456, 7890, 0}, decimalFields([]byte("00010023045678900000")))
}
