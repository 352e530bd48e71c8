package rifx_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logicossoftware/go-rifx"
	"github.com/logicossoftware/go-rifx/rifxtest"
)

func TestClassicOpen(t *testing.T) {
	for _, le := range []bool{false, true} {
		b := rifxtest.NewClassic()
		b.LittleEndian = le
		b.MapVersion = 1
		odd := []byte("odd")
		oddID := b.Add("BITD", odd)
		free := b.AddFree()
		evenID := b.Add("CLUT", []byte("even"))

		a, err := rifx.OpenBytes(b.Bytes())
		require.NoError(t, err, "little-endian=%t", le)

		f := a.Format()
		assert.False(t, f.Afterburner)
		assert.Equal(t, le, f.LittleEndian)
		assert.Equal(t, rifx.TagMV93, f.Codec)
		assert.Equal(t, uint32(1), f.MapVersion)
		assert.Equal(t, uint32(0x4C1), f.ArchiveVersion)
		assert.Equal(t, 0, a.Compressions().Len())
		_, ok := a.AfterburnerState()
		assert.False(t, ok)

		require.Equal(t, 6, a.Resources().Len())
		for i, tag := range []rifx.Tag{rifx.TagRIFX, rifx.TagImap, rifx.TagMmap} {
			e, ok := a.Lookup(i)
			require.True(t, ok)
			assert.Equal(t, tag, e.Tag)
		}

		got, err := a.Load(oddID)
		require.NoError(t, err)
		assert.Equal(t, odd, got)
		got, err = a.Load(evenID)
		require.NoError(t, err)
		assert.Equal(t, []byte("even"), got)

		e, ok := a.Lookup(free)
		require.True(t, ok)
		assert.True(t, e.Free())
		got, err = a.Load(free)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestClassicWithProjectorPrefix(t *testing.T) {
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		b := rifxtest.NewClassic()
		prefix := append([]byte("PJ95"), make([]byte, 60)...)
		order.PutUint32(prefix[4:], uint32(len(prefix)))
		b.Prefix = prefix
		id := b.Add("STXT", rifxtest.Stxt("projector"))

		a, err := rifx.OpenBytes(b.Bytes())
		require.NoError(t, err)
		assert.Equal(t, int64(len(prefix)), a.Format().RifxOffset)
		got, err := a.Load(id)
		require.NoError(t, err)
		assert.Equal(t, rifxtest.Stxt("projector"), got)
	}
}

func TestClassicScanForMagic(t *testing.T) {
	b := rifxtest.NewAfterburner()
	b.Prefix = bytes.Repeat([]byte{0x90}, 1000)
	id := b.Add("STXT", rifxtest.Stxt("found"))

	a, err := rifx.OpenBytes(b.Bytes())
	require.NoError(t, err)
	assert.Equal(t, int64(1000), a.Format().RifxOffset)
	got, err := a.Load(id)
	require.NoError(t, err)
	assert.Equal(t, rifxtest.Stxt("found"), got)
}

func TestLocateFailures(t *testing.T) {
	_, err := rifx.OpenBytes([]byte("RI"))
	require.ErrorIs(t, err, rifx.ErrInvalidHeader)

	_, err = rifx.OpenBytes(bytes.Repeat([]byte("nothing here "), 100))
	require.ErrorIs(t, err, rifx.ErrInvalidHeader)

	bad := append([]byte("PJ00"), 0xff, 0xff, 0xff, 0x7f)
	bad = append(bad, []byte("RIFX")...)
	_, err = rifx.OpenBytes(bad)
	require.ErrorIs(t, err, rifx.ErrInvalidHeader)
}

func TestClassicBrokenMap(t *testing.T) {
	raw := rifxtest.NewClassic().Bytes()
	i := bytes.Index(raw, []byte("mmap"))
	require.Positive(t, i)
	broken := append([]byte(nil), raw...)
	copy(broken[i:], "pamm")
	_, err := rifx.OpenBytes(broken)
	require.ErrorIs(t, err, rifx.ErrFormatMismatch)

	// Entry size below the minimum record length.
	broken = append([]byte(nil), raw...)
	binary.BigEndian.PutUint16(broken[i+8+2:], 12)
	_, err = rifx.OpenBytes(broken)
	require.ErrorIs(t, err, rifx.ErrInvalidMap)

	// More entries than the body holds.
	broken = append([]byte(nil), raw...)
	binary.BigEndian.PutUint32(broken[i+8+4:], 50)
	_, err = rifx.OpenBytes(broken)
	require.ErrorIs(t, err, rifx.ErrInvalidMap)

	_, err = rifx.OpenBytes(raw, rifx.WithReadLimits(rifx.Limits{MaxResources: 2}))
	require.ErrorIs(t, err, rifx.ErrLimitExceeded)
}

func TestMissingIDOnBothKinds(t *testing.T) {
	classic := rifxtest.NewClassic()
	classic.Add("STXT", rifxtest.Stxt("a"))
	ab := rifxtest.NewAfterburner()
	ab.Add("STXT", rifxtest.Stxt("a"))

	for name, raw := range map[string][]byte{"classic": classic.Bytes(), "afterburner": ab.Bytes()} {
		t.Run(name, func(t *testing.T) {
			a, err := rifx.OpenBytes(raw)
			require.NoError(t, err)

			_, ok := a.Lookup(9999)
			assert.False(t, ok)
			got, err := a.Load(9999)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
			_, err = a.Entry(9999)
			require.ErrorIs(t, err, rifx.ErrNotFound)
		})
	}
}

func TestPayloadCache(t *testing.T) {
	b := rifxtest.NewAfterburner()
	id := b.Add("STXT", rifxtest.Stxt("cached"))
	a, err := rifx.OpenBytes(b.Bytes(), rifx.WithPayloadCache(4))
	require.NoError(t, err)

	first, err := a.Load(id)
	require.NoError(t, err)
	first[0] ^= 0xff
	second, err := a.Load(id)
	require.NoError(t, err)
	assert.Equal(t, rifxtest.Stxt("cached"), second, "cached payloads are copied out")
}
