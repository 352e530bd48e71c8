package rifx

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logicossoftware/go-rifx/rifxtest"
)

func latin1(b []byte) string { return string(b) }

func TestParseCastMember(t *testing.T) {
	m, err := parseCastMember(12, rifxtest.CastMember(uint32(CastField), "title"), latin1)
	require.NoError(t, err)
	assert.Equal(t, CastMember{Slot: -1, ResourceID: 12, Type: CastField, Name: "title"}, m)

	_, err = parseCastMember(1, []byte{0, 0, 0}, latin1)
	require.ErrorIs(t, err, ErrInvalidPayload)

	// No info block at all.
	b := binary.BigEndian.AppendUint32(nil, uint32(CastBitmap))
	b = append(b, make([]byte, 8)...)
	m, err = parseCastMember(2, b, latin1)
	require.NoError(t, err)
	assert.Equal(t, CastBitmap, m.Type)
	assert.Empty(t, m.Name)
}

func TestMemberNameFallsBackToScan(t *testing.T) {
	// Too short for a list header: first printable pascal string wins.
	assert.Equal(t, "abc", memberName([]byte{0x01, 0x03, 'a', 'b', 'c'}, latin1))

	// Count of one means there is no name item.
	info := binary.BigEndian.AppendUint32(nil, 0)
	info = binary.BigEndian.AppendUint16(info, 1)
	info = binary.BigEndian.AppendUint32(info, 5)
	info = binary.BigEndian.AppendUint32(info, 0)
	info = append(info, 4, 'n', 'a', 'm', 'e')
	assert.Equal(t, "name", memberName(info, latin1))

	assert.Empty(t, scanPascalString([]byte{0x05, 'a', 'b'}, latin1))
	assert.Empty(t, scanPascalString([]byte{0x02, 0x01, 0x02}, latin1))
}

func TestCastMemberTypeString(t *testing.T) {
	assert.Equal(t, "field", CastField.String())
	assert.Equal(t, "digitalVideo", CastDigitalVideo.String())
	assert.Equal(t, "type(99)", CastMemberType(99).String())
}
