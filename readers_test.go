package rifx_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/logicossoftware/go-rifx"
	"github.com/logicossoftware/go-rifx/rifxtest"
)

const (
	castField  = 3
	castSound  = 6
	castButton = 7
)

// movie builds the same cast into either archive kind:
//
//	member "greeting" (field) owns an STXT and an XMED
//	member "label" (field) owns an STXT
//	member "click" (sound) owns an sndS and an ediM
//	member "button" owns nothing
//	one loose STXT, one loose XMED and one loose "snd " resource
type movie struct {
	raw                              []byte
	greeting, label, click, button   int
	greetingStxt, greetingXmed       int
	labelStxt, looseStxt, looseXmed  int
	clickSndS, clickEdiM, looseSnd   int
	greetingXmedBytes, looseXmedData []byte
}

func buildMovie(w rifxtest.ResourceWriter, le bool, finish func() []byte) movie {
	var m movie
	m.greeting = w.Add("CASt", rifxtest.CastMember(castField, "greeting"))
	m.label = w.Add("CASt", rifxtest.CastMember(castField, "label"))
	m.click = w.Add("CASt", rifxtest.CastMember(castSound, "click"))
	m.button = w.Add("CASt", rifxtest.CastMember(castButton, "button"))
	w.Add("CAS*", rifxtest.CastList(m.greeting, 0, m.label, m.click, m.button))

	m.greetingStxt, _ = rifxtest.WriteStxt(w, "old greeting")
	m.greetingXmed, m.greetingXmedBytes = rifxtest.WriteXmed(w, rifxtest.Xmed{FontSize: 12, Blocks: []string{"Hello\rWorld"}})
	m.labelStxt, _ = rifxtest.WriteStxt(w, "Label")
	m.looseStxt, _ = rifxtest.WriteStxt(w, "loose")
	m.looseXmed, m.looseXmedData = rifxtest.WriteXmed(w, rifxtest.Xmed{Blocks: []string{"styled"}})

	m.clickSndS = w.Add("sndS", rifxtest.Sound("aiff"))
	m.clickEdiM = w.Add("ediM", rifxtest.Sound("mp3"))
	m.looseSnd = w.Add("snd ", rifxtest.Sound("wav"))
	w.Add("snd ", nil)

	w.Add("KEY*", rifxtest.KeyTable(le,
		rifxtest.KeyLink{Child: m.greetingStxt, Parent: m.greeting, Tag: "STXT"},
		rifxtest.KeyLink{Child: m.greetingXmed, Parent: m.greeting, Tag: "XMED"},
		rifxtest.KeyLink{Child: m.labelStxt, Parent: m.label, Tag: "STXT"},
		rifxtest.KeyLink{Child: m.clickSndS, Parent: m.click, Tag: "sndS"},
		rifxtest.KeyLink{Child: m.clickEdiM, Parent: m.click, Tag: "ediM"},
	))
	m.raw = finish()
	return m
}

func movies(t *testing.T) map[string]movie {
	t.Helper()
	out := map[string]movie{}
	for _, le := range []bool{false, true} {
		c := rifxtest.NewClassic()
		c.LittleEndian = le
		ab := rifxtest.NewAfterburner()
		ab.LittleEndian = le
		suffix := ""
		if le {
			suffix = " xfir"
		}
		out["classic"+suffix] = buildMovie(c, le, c.Bytes)
		out["afterburner"+suffix] = buildMovie(ab, le, ab.Bytes)
	}
	return out
}

func TestReadTexts(t *testing.T) {
	for name, m := range movies(t) {
		t.Run(name, func(t *testing.T) {
			a, err := rifx.OpenBytes(m.raw)
			require.NoError(t, err)

			texts := a.ReadTexts()
			require.Len(t, texts, 2)
			assert.Equal(t, m.looseStxt, texts[0].ResourceID)
			assert.Equal(t, rifx.TextStxt, texts[0].Format)
			assert.Equal(t, rifxtest.Stxt("loose"), texts[0].Bytes)
			assert.Equal(t, m.looseXmed, texts[1].ResourceID)
			assert.Equal(t, rifx.TextXmed, texts[1].Format)
			assert.Equal(t, m.looseXmedData, texts[1].Bytes)

			doc, err := texts[0].Document()
			require.NoError(t, err)
			assert.Equal(t, "loose", doc.Text)
			doc, err = texts[1].Document()
			require.NoError(t, err)
			assert.Equal(t, "styled", doc.Text)
		})
	}
}

func TestReadFields(t *testing.T) {
	for name, m := range movies(t) {
		t.Run(name, func(t *testing.T) {
			a, err := rifx.OpenBytes(m.raw)
			require.NoError(t, err)

			fields := a.ReadFields()
			require.Len(t, fields, 2)

			g := fields[0]
			assert.Equal(t, m.greeting, g.CastMemberID)
			assert.Equal(t, "greeting", g.Name)
			assert.Equal(t, m.greetingXmed, g.ResourceID, "XMED preferred over STXT")
			assert.Equal(t, rifx.TextXmed, g.Format)
			assert.Equal(t, m.greetingXmedBytes, g.Bytes)
			doc, err := g.Document()
			require.NoError(t, err)
			assert.Equal(t, []string{"Hello", "World"}, doc.Paragraphs())

			l := fields[1]
			assert.Equal(t, m.label, l.CastMemberID)
			assert.Equal(t, "label", l.Name)
			assert.Equal(t, m.labelStxt, l.ResourceID)
			assert.Equal(t, rifx.TextStxt, l.Format)
		})
	}
}

func TestReadSounds(t *testing.T) {
	for name, m := range movies(t) {
		t.Run(name, func(t *testing.T) {
			a, err := rifx.OpenBytes(m.raw)
			require.NoError(t, err)

			sounds := a.ReadSounds()
			require.Len(t, sounds, 3)

			assert.Equal(t, m.clickEdiM, sounds[0].ResourceID, "ediM preferred")
			assert.Equal(t, m.click, sounds[0].CastMemberID)
			assert.Equal(t, rifx.SoundMP3, sounds[0].Format)

			assert.Equal(t, m.clickSndS, sounds[1].ResourceID, "unclaimed sndS is standalone")
			assert.Equal(t, -1, sounds[1].CastMemberID)
			assert.Equal(t, rifx.SoundAIFF, sounds[1].Format)

			assert.Equal(t, m.looseSnd, sounds[2].ResourceID)
			assert.Equal(t, rifx.TagSNDLower, sounds[2].Tag)
			assert.Equal(t, rifx.SoundWAV, sounds[2].Format)
		})
	}
}

func TestReadSoundsSkipsEmptyPreferredChild(t *testing.T) {
	for _, le := range []bool{false, true} {
		b := rifxtest.NewAfterburner()
		b.LittleEndian = le
		click := b.Add("CASt", rifxtest.CastMember(castSound, "click"))
		edim := b.AddStored("ediM", nil)
		snds := b.Add("sndS", rifxtest.Sound("aiff"))
		b.Add("KEY*", rifxtest.KeyTable(le,
			rifxtest.KeyLink{Child: edim, Parent: click, Tag: "ediM"},
			rifxtest.KeyLink{Child: snds, Parent: click, Tag: "sndS"},
		))

		a, err := rifx.OpenBytes(b.Bytes())
		require.NoError(t, err)
		sounds := a.ReadSounds()
		require.Len(t, sounds, 1)
		assert.Equal(t, snds, sounds[0].ResourceID)
		assert.Equal(t, click, sounds[0].CastMemberID, "owner kept when the ediM child is empty")
		assert.Equal(t, rifx.SoundAIFF, sounds[0].Format)
	}
}

func TestCastLibraries(t *testing.T) {
	for name, m := range movies(t) {
		t.Run(name, func(t *testing.T) {
			a, err := rifx.OpenBytes(m.raw)
			require.NoError(t, err)

			libs := a.CastLibraries()
			require.Len(t, libs, 1)
			members := libs[0].Members
			require.Len(t, members, 4)
			assert.Equal(t, rifx.CastMember{Slot: 0, ResourceID: m.greeting, Type: rifx.CastField, Name: "greeting"}, members[0])
			assert.Equal(t, 2, members[1].Slot, "empty slot skipped")
			assert.Equal(t, rifx.CastSound, members[2].Type)
			assert.Equal(t, "button", members[3].Name)
			assert.Equal(t, "button", members[3].Type.String())
		})
	}
}

func TestKeyTableLinks(t *testing.T) {
	m := movies(t)["classic"]
	a, err := rifx.OpenBytes(m.raw)
	require.NoError(t, err)

	l, ok := a.Resources().Parent(m.greetingXmed)
	require.True(t, ok)
	assert.Equal(t, m.greeting, l.ParentID)
	assert.Equal(t, rifx.TagXMED, l.Tag)
	assert.Len(t, a.Resources().Children(m.click), 2)
	assert.Equal(t, []int{m.greeting, m.label, m.click}, a.Resources().ParentIDs())
}

func TestReadResources(t *testing.T) {
	m := movies(t)["afterburner"]
	a, err := rifx.OpenBytes(m.raw)
	require.NoError(t, err)

	byID := map[int]rifx.Resource{}
	for _, r := range a.ReadResources() {
		byID[r.Entry.ID] = r
	}
	r, ok := byID[m.looseSnd]
	require.True(t, ok)
	assert.Equal(t, fmt.Sprintf("snd__%04d.bin", m.looseSnd), r.Name)
	assert.Equal(t, rifxtest.Sound("wav"), r.Bytes)
	assert.NotZero(t, r.Checksum)
	_, ok = byID[2]
	assert.False(t, ok, "inline container is not exported")

	report := a.Scan()
	assert.Equal(t, len(byID), report.Decoded)
	assert.Empty(t, report.Failed)
}

func TestTextEncodingOption(t *testing.T) {
	b := rifxtest.NewClassic()
	member := b.Add("CASt", rifxtest.CastMember(castField, "caf\x8e"))
	text, _ := rifxtest.WriteStxt(b, "na\x95ve")
	b.Add("KEY*", rifxtest.KeyTable(false, rifxtest.KeyLink{Child: text, Parent: member, Tag: "STXT"}))

	a, err := rifx.OpenBytes(b.Bytes(), rifx.WithTextEncoding(charmap.Macintosh))
	require.NoError(t, err)
	fields := a.ReadFields()
	require.Len(t, fields, 1)
	assert.Equal(t, "café", fields[0].Name)
	doc, err := fields[0].Document()
	require.NoError(t, err)
	assert.Equal(t, "naïve", doc.Text)
}

func TestTextDocumentErrors(t *testing.T) {
	_, err := rifx.Text{ResourceID: 7, Format: rifx.TextXmed, Bytes: []byte("nope")}.Document()
	require.ErrorIs(t, err, rifx.ErrFormatMismatch)

	_, err = rifx.Text{Format: rifx.TextStxt, Bytes: []byte{0, 0}}.Document()
	require.ErrorIs(t, err, rifx.ErrInvalidPayload)

	_, err = rifx.Text{Format: rifx.TextUnknown}.Document()
	require.ErrorIs(t, err, rifx.ErrFormatMismatch)
}
