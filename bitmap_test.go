package rifx

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/logicossoftware/go-rifx/rifxtest"
)

func TestDetectBitmapFormat(t *testing.T) {
	tests := []struct {
		tag  string
		in   []byte
		want BitmapFormat
	}{
		{"BITD", rifxtest.Bitmap("png"), BitmapBITD},
		{"DIB ", nil, BitmapDIB},
		{"PICT", nil, BitmapPICT},
		{"ALFA", nil, BitmapAlphaMask},
		{"Thum", nil, BitmapThumbnail},
		{"ediM", rifxtest.Bitmap("png"), BitmapPNG},
		{"ediM", rifxtest.Bitmap("jpeg"), BitmapJPEG},
		{"ediM", rifxtest.Bitmap("gif"), BitmapGIF},
		{"ediM", []byte("GIF87a"), BitmapGIF},
		{"ediM", []byte("GIF88a"), BitmapUnknown},
		{"ediM", rifxtest.Bitmap("bmp"), BitmapBMP},
		{"ediM", rifxtest.Bitmap("dib"), BitmapDIB},
		{"ediM", rifxtest.Bitmap("tiff"), BitmapTIFF},
		{"ediM", []byte("MM\x00\x2a"), BitmapTIFF},
		{"ediM", rifxtest.Sound("mp3"), BitmapUnknown},
		{"ediM", nil, BitmapUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectBitmapFormat(TagOf(tt.tag), tt.in), "%s %q", tt.tag, tt.in)
	}
	assert.Equal(t, "jpg", BitmapJPEG.Extension())
	assert.Equal(t, "bin", BitmapBITD.Extension())
	assert.Equal(t, "unknown", BitmapFormat(99).String())
}

func TestKeepBitmap(t *testing.T) {
	assert.True(t, keepBitmap(TagBITD, BitmapUnknown))
	assert.False(t, keepBitmap(TagEdiM, BitmapUnknown), "ediM without an image signature")
	assert.False(t, keepBitmap(TagOf("PNG "), BitmapUnknown))
	assert.True(t, keepBitmap(TagEdiM, BitmapDIB))
	assert.False(t, keepBitmap(TagOf("BMP "), BitmapDIB))
	assert.True(t, keepBitmap(TagOf("JPEG"), BitmapJPEG))

	assert.True(t, bitmapCandidate(TagOf("jpg ")))
	assert.True(t, bitmapCandidate(TagThum))
	assert.False(t, bitmapCandidate(TagSndS))
}
