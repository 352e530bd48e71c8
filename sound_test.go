package rifx

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/logicossoftware/go-rifx/rifxtest"
)

func TestSniffSoundFormat(t *testing.T) {
	tests := []struct {
		in   []byte
		want SoundFormat
	}{
		{rifxtest.Sound("mp3"), SoundMP3},
		{[]byte{0xFF, 0xFB, 0x90, 0x00}, SoundMP3},
		{[]byte{0xFF, 0x1B}, SoundUnknown},
		{rifxtest.Sound("wav"), SoundWAV},
		{[]byte("FFIR...."), SoundWAV},
		{[]byte("RIFX...."), SoundWAV},
		{rifxtest.Sound("aiff"), SoundAIFF},
		{rifxtest.Sound("aifc"), SoundAIFC},
		{[]byte("FORM\x00\x00\x00\x08ILBM"), SoundUnknown},
		{[]byte("FORM"), SoundUnknown},
		{rifxtest.Sound("ogg"), SoundOgg},
		{rifxtest.Sound("flac"), SoundFLAC},
		{rifxtest.Sound("au"), SoundAU},
		{rifxtest.Sound("midi"), SoundMIDI},
		{rifxtest.Sound("mp4"), SoundMP4},
		{rifxtest.Sound("caf"), SoundCAF},
		{[]byte("CAFF"), SoundCAF},
		{nil, SoundUnknown},
		{[]byte{0x00, 0x01, 0x02}, SoundUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SniffSoundFormat(tt.in), "%q", tt.in)
	}
	assert.Equal(t, "m4a", SoundMP4.Extension())
	assert.Equal(t, "bin", SoundUnknown.Extension())
	assert.Equal(t, "wav", SoundWAV.Extension())
	assert.Equal(t, "unknown", SoundFormat(200).String())
}

func TestSoundTags(t *testing.T) {
	assert.Equal(t, []Tag{TagEdiM, TagSndS, TagSNDUpper, TagSNDLower}, soundTags)
	assert.True(t, tagIn(TagSNDLower, soundTags))
	assert.False(t, tagIn(TagSTXT, soundTags))
}
