package rifxtest

import (
	"bytes"
	"encoding/binary"

	"github.com/klauspost/compress/zlib"
)

// AppendVarint appends v as a big-endian base-128 varint.
func AppendVarint(b []byte, v uint32) []byte {
	var tmp [5]byte
	i := len(tmp) - 1
	tmp[i] = byte(v & 0x7f)
	for v >>= 7; v != 0; v >>= 7 {
		i--
		tmp[i] = byte(v&0x7f) | 0x80
	}
	return append(b, tmp[i:]...)
}

func Varint(v uint32) []byte { return AppendVarint(nil, v) }

// Deflate zlib-compresses b.
func Deflate(b []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, _ = zw.Write(b)
	_ = zw.Close()
	return buf.Bytes()
}

func byteOrder(littleEndian bool) binary.AppendByteOrder {
	if littleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// appendTag writes a four-character tag as a container of the given byte
// order stores it.
func appendTag(b []byte, tag string, littleEndian bool) []byte {
	t := []byte(tag + "    ")[:4]
	if littleEndian {
		t[0], t[1], t[2], t[3] = t[3], t[2], t[1], t[0]
	}
	return append(b, t...)
}

func appendU16(b []byte, order binary.AppendByteOrder, v uint16) []byte {
	return order.AppendUint16(b, v)
}

func appendU32(b []byte, order binary.AppendByteOrder, v uint32) []byte {
	return order.AppendUint32(b, v)
}
