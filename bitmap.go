package rifx

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"strings"
)

type BitmapFormat uint8

const (
	BitmapUnknown BitmapFormat = iota
	BitmapBITD
	BitmapDIB
	BitmapPICT
	BitmapAlphaMask
	BitmapThumbnail
	BitmapPNG
	BitmapJPEG
	BitmapGIF
	BitmapBMP
	BitmapTIFF
)

var bitmapFormatNames = [...]string{"unknown", "bitd", "dib", "pict", "alpha", "thumbnail", "png", "jpeg", "gif", "bmp", "tiff"}

func (f BitmapFormat) String() string {
	if int(f) < len(bitmapFormatNames) {
		return bitmapFormatNames[f]
	}
	return "unknown"
}

// Extension is the usual file extension for the format, without the dot.
// Director-internal formats get "bin".
func (f BitmapFormat) Extension() string {
	switch f {
	case BitmapPNG, BitmapGIF, BitmapBMP:
		return f.String()
	case BitmapJPEG:
		return "jpg"
	case BitmapTIFF:
		return "tif"
	case BitmapDIB:
		return "dib"
	case BitmapPICT:
		return "pct"
	}
	return "bin"
}

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}

// DetectBitmapFormat classifies a bitmap payload. Director tags decide first,
// then file signatures.
func DetectBitmapFormat(tag Tag, b []byte) BitmapFormat {
	switch tag {
	case TagBITD:
		return BitmapBITD
	case TagDIB:
		return BitmapDIB
	case TagPICT:
		return BitmapPICT
	case TagALFA:
		return BitmapAlphaMask
	case TagThum:
		return BitmapThumbnail
	}
	switch {
	case bytes.HasPrefix(b, pngMagic):
		return BitmapPNG
	case len(b) >= 3 && b[0] == 0xFF && b[1] == 0xD8 && b[2] == 0xFF:
		return BitmapJPEG
	case bytes.HasPrefix(b, []byte("GIF87a")), bytes.HasPrefix(b, []byte("GIF89a")):
		return BitmapGIF
	case bytes.HasPrefix(b, []byte("BM")):
		return BitmapBMP
	case isDIBHeader(b):
		return BitmapDIB
	case bytes.HasPrefix(b, []byte("MM\x00\x2a")), bytes.HasPrefix(b, []byte("II\x2a\x00")):
		return BitmapTIFF
	}
	return BitmapUnknown
}

// isDIBHeader matches the BITMAPINFOHEADER family by its size field.
func isDIBHeader(b []byte) bool {
	if len(b) < 4 {
		return false
	}
	switch binary.LittleEndian.Uint32(b) {
	case 12, 40, 64, 108, 124:
		return true
	}
	return false
}

// Bitmap is an image payload. CastMemberID is -1 for bitmaps no cast member
// owns.
type Bitmap struct {
	ResourceID   int
	CastMemberID int
	Tag          Tag
	Format       BitmapFormat
	Bytes        []byte
}

// bitmapTags in order of preference when a cast member owns several.
var bitmapTags = []Tag{TagEdiM, TagBITD, TagDIB, TagPICT, TagALFA, TagThum}

var bitmapTagPrefixes = []string{"PNG", "JPG", "JPEG", "JFIF", "GIF", "BMP", "TIF"}

// bitmapCandidate reports tags worth loading to look for an image.
func bitmapCandidate(t Tag) bool {
	if tagIn(t, bitmapTags) {
		return true
	}
	s := strings.ToUpper(t.String())
	for _, p := range bitmapTagPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// keepBitmap rejects payloads whose detected format contradicts their tag,
// such as an ediM holding audio or a DIB signature inside a BITD.
func keepBitmap(t Tag, f BitmapFormat) bool {
	switch f {
	case BitmapUnknown:
		return t != TagEdiM && tagIn(t, bitmapTags)
	case BitmapDIB:
		return t == TagDIB || t == TagEdiM
	case BitmapPICT:
		return t == TagPICT || t == TagEdiM
	case BitmapAlphaMask:
		return t == TagALFA
	case BitmapThumbnail:
		return t == TagThum
	}
	return true
}

// ReadBitmaps returns one bitmap per owning parent, taking the first child in
// tag preference order that holds an image, then image-like children with
// other tags. Image resources no parent claimed follow in map order.
func (a *Archive) ReadBitmaps() []Bitmap {
	var out []Bitmap
	p := &childPicker{
		a:    a,
		tags: bitmapTags,
		done: map[int]bool{},
		accept: func(e ResourceEntry, b []byte) bool {
			return keepBitmap(e.Tag, DetectBitmapFormat(e.Tag, b))
		},
		extra: func(e ResourceEntry) bool { return bitmapCandidate(e.Tag) },
	}
	for _, pid := range a.resources.ParentIDs() {
		if e, b, ok := p.pick(pid); ok {
			out = append(out, newBitmap(e, pid, b))
		}
	}
	for _, e := range a.resources.entries {
		if !bitmapCandidate(e.Tag) {
			continue
		}
		if got, b, ok := p.try(e.ID); ok {
			out = append(out, newBitmap(got, -1, b))
		}
	}
	a.log.Debug("bitmaps read", slog.Int("count", len(out)))
	return out
}

func newBitmap(e ResourceEntry, owner int, b []byte) Bitmap {
	return Bitmap{ResourceID: e.ID, CastMemberID: owner, Tag: e.Tag, Format: DetectBitmapFormat(e.Tag, b), Bytes: b}
}
