package rifx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logicossoftware/go-rifx"
	"github.com/logicossoftware/go-rifx/rifxtest"
)

const (
	castBitmap = 1
	castShape  = 8
)

// media builds bitmap, script and shape members into either archive kind:
//
//	member "photo" owns an ediM holding audio and a BITD
//	member "logo" owns a "PNG " resource
//	member "behave" is a script member naming lscr
//	member "button" owns lscrLinked through KEY* only
//	member "box" is a shape, "oldBox" a shape in the oldest layout
//	loose "JPEG" and "Thum" resources, a loose ediM with audio, an empty Lscr
type media struct {
	raw                         []byte
	photo, logo, behave, button int
	box, oldBox                 int
	photoBITD, logoPNG          int
	looseJPEG, looseThum        int
	lscr, lscrLinked, emptyLscr int
	bitd                        []byte
}

func buildMedia(w rifxtest.ResourceWriter, le bool, finish func() []byte) media {
	var m media
	m.bitd = []byte{0x00, 0x01, 0x02, 0x03, 0x04}
	m.lscr = w.Add("Lscr", []byte("bytecode one"))
	m.lscrLinked = w.Add("Lscr", []byte("bytecode two"))
	m.emptyLscr = w.Add("Lscr", nil)

	m.photo = w.Add("CASt", rifxtest.CastMember(castBitmap, "photo"))
	m.logo = w.Add("CASt", rifxtest.CastMember(castBitmap, "logo"))
	m.behave = w.Add("CASt", rifxtest.ScriptMember(m.lscr, uint16(rifx.ScriptMovie), "behave"))
	m.button = w.Add("CASt", rifxtest.CastMember(castButton, "button"))
	m.box = w.Add("CASt", rifxtest.ShapeMember(rifxtest.ShapeRecord()))
	m.oldBox = w.Add("CASt", append([]byte{18, castShape}, rifxtest.ShapeRecord()...))

	photoEdiM := w.Add("ediM", rifxtest.Sound("mp3"))
	m.photoBITD = w.Add("BITD", m.bitd)
	m.logoPNG = w.Add("PNG ", rifxtest.Bitmap("png"))
	m.looseJPEG = w.Add("JPEG", rifxtest.Bitmap("jpeg"))
	m.looseThum = w.Add("Thum", []byte{0xAA, 0xBB})
	w.Add("ediM", rifxtest.Sound("wav"))

	w.Add("KEY*", rifxtest.KeyTable(le,
		rifxtest.KeyLink{Child: photoEdiM, Parent: m.photo, Tag: "ediM"},
		rifxtest.KeyLink{Child: m.photoBITD, Parent: m.photo, Tag: "BITD"},
		rifxtest.KeyLink{Child: m.logoPNG, Parent: m.logo, Tag: "PNG "},
		rifxtest.KeyLink{Child: m.lscrLinked, Parent: m.button, Tag: "Lscr"},
	))
	m.raw = finish()
	return m
}

func mediaMovies(t *testing.T) map[string]media {
	t.Helper()
	out := map[string]media{}
	for _, le := range []bool{false, true} {
		c := rifxtest.NewClassic()
		c.LittleEndian = le
		ab := rifxtest.NewAfterburner()
		ab.LittleEndian = le
		suffix := ""
		if le {
			suffix = " xfir"
		}
		out["classic"+suffix] = buildMedia(c, le, c.Bytes)
		out["afterburner"+suffix] = buildMedia(ab, le, ab.Bytes)
	}
	return out
}

func TestReadBitmaps(t *testing.T) {
	for name, m := range mediaMovies(t) {
		t.Run(name, func(t *testing.T) {
			a, err := rifx.OpenBytes(m.raw)
			require.NoError(t, err)

			bitmaps := a.ReadBitmaps()
			require.Len(t, bitmaps, 4)

			assert.Equal(t, m.photoBITD, bitmaps[0].ResourceID, "audio ediM gives way to BITD")
			assert.Equal(t, m.photo, bitmaps[0].CastMemberID)
			assert.Equal(t, rifx.BitmapBITD, bitmaps[0].Format)
			assert.Equal(t, m.bitd, bitmaps[0].Bytes)

			assert.Equal(t, m.logoPNG, bitmaps[1].ResourceID)
			assert.Equal(t, m.logo, bitmaps[1].CastMemberID)
			assert.Equal(t, rifx.BitmapPNG, bitmaps[1].Format)

			assert.Equal(t, m.looseJPEG, bitmaps[2].ResourceID)
			assert.Equal(t, -1, bitmaps[2].CastMemberID)
			assert.Equal(t, rifx.BitmapJPEG, bitmaps[2].Format)

			assert.Equal(t, m.looseThum, bitmaps[3].ResourceID)
			assert.Equal(t, rifx.BitmapThumbnail, bitmaps[3].Format)
		})
	}
}

func TestReadScripts(t *testing.T) {
	for name, m := range mediaMovies(t) {
		t.Run(name, func(t *testing.T) {
			a, err := rifx.OpenBytes(m.raw)
			require.NoError(t, err)

			scripts := a.ReadScripts()
			require.Len(t, scripts, 2)

			assert.Equal(t, m.lscr, scripts[0].ResourceID)
			assert.Equal(t, m.behave, scripts[0].CastMemberID)
			assert.Equal(t, rifx.ScriptMovie, scripts[0].Kind)
			assert.Equal(t, "behave", scripts[0].Name)
			assert.Equal(t, []byte("bytecode one"), scripts[0].Bytes)

			assert.Equal(t, m.lscrLinked, scripts[1].ResourceID)
			assert.Equal(t, m.button, scripts[1].CastMemberID, "owner from KEY*")
			assert.Equal(t, rifx.ScriptUnknown, scripts[1].Kind)
		})
	}
}

func TestReadShapes(t *testing.T) {
	for name, m := range mediaMovies(t) {
		t.Run(name, func(t *testing.T) {
			a, err := rifx.OpenBytes(m.raw)
			require.NoError(t, err)

			shapes := a.ReadShapes()
			require.Len(t, shapes, 2)
			assert.Equal(t, m.box, shapes[0].ResourceID)
			assert.Equal(t, rifx.ShapeUnsignedColors, shapes[0].Format)
			assert.Equal(t, rifxtest.ShapeRecord(), shapes[0].Bytes)
			assert.Equal(t, m.oldBox, shapes[1].ResourceID)
			assert.Equal(t, rifx.ShapeSignedColors, shapes[1].Format)
		})
	}
}
