package rifxtest

import (
	"encoding/binary"
	"fmt"
)

// ResourceWriter is implemented by both archive builders.
type ResourceWriter interface {
	Add(tag string, data []byte) int
}

// Stxt builds an STXT payload around raw single-byte text.
func Stxt(text string) []byte {
	format := []byte{0, 0}
	b := binary.BigEndian.AppendUint32(nil, 12)
	b = binary.BigEndian.AppendUint32(b, uint32(len(text)))
	b = binary.BigEndian.AppendUint32(b, uint32(len(format)))
	b = append(b, text...)
	return append(b, format...)
}

// WriteStxt adds an STXT resource and returns its id and payload.
func WriteStxt(w ResourceWriter, text string) (int, []byte) {
	p := Stxt(text)
	return w.Add("STXT", p), p
}

// WriteXmed adds an XMED resource and returns its id and payload.
func WriteXmed(w ResourceWriter, x Xmed) (int, []byte) {
	p := x.Bytes()
	return w.Add("XMED", p), p
}

// CastMember builds a CASt payload whose info list carries name as its
// second item.
func CastMember(memberType uint32, name string) []byte {
	return CastMemberData(memberType, nameInfo(name), nil)
}

func nameInfo(name string) []byte {
	if len(name) > 255 {
		name = name[:255]
	}
	items := append([]byte{byte(len(name))}, name...)
	info := binary.BigEndian.AppendUint32(nil, 0)
	info = binary.BigEndian.AppendUint16(info, 2)
	info = binary.BigEndian.AppendUint32(info, uint32(len(items)))
	info = binary.BigEndian.AppendUint32(info, 0)
	info = binary.BigEndian.AppendUint32(info, 0)
	return append(info, items...)
}

// CastMemberData builds a CASt payload from raw info and member-specific
// bytes.
func CastMemberData(memberType uint32, info, specific []byte) []byte {
	b := binary.BigEndian.AppendUint32(nil, memberType)
	b = binary.BigEndian.AppendUint32(b, uint32(len(info)))
	b = binary.BigEndian.AppendUint32(b, uint32(len(specific)))
	b = append(b, info...)
	return append(b, specific...)
}

// ScriptMember builds a script CASt whose info block names the Lscr resource
// at offset 8 and whose specific data holds the script kind.
func ScriptMember(scriptID int, kind uint16, name string) []byte {
	info := make([]byte, 20)
	binary.BigEndian.PutUint32(info[8:], uint32(scriptID))
	binary.BigEndian.PutUint32(info[16:], 1)
	info = append(info, byte(len(name)))
	info = append(info, name...)
	return CastMemberData(11, info, binary.BigEndian.AppendUint16(nil, kind))
}

// ShapeRecord is a 17-byte QuickDraw shape record with recognisable bytes.
func ShapeRecord() []byte {
	r := make([]byte, 17)
	for i := range r {
		r[i] = byte(0x10 + i)
	}
	return r
}

// ShapeMember builds a shape CASt with record as its specific data.
func ShapeMember(record []byte) []byte {
	return CastMemberData(8, nil, record)
}

// Bitmap returns a minimal payload starting with the signature of format:
// "png", "jpeg", "gif", "bmp", "tiff" or "dib".
func Bitmap(format string) []byte {
	pad := make([]byte, 16)
	switch format {
	case "png":
		return append([]byte("\x89PNG\r\n\x1a\n"), pad...)
	case "jpeg":
		return append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, pad...)
	case "gif":
		return append([]byte("GIF89a"), pad...)
	case "bmp":
		return append([]byte("BM"), pad...)
	case "tiff":
		return append([]byte("II\x2a\x00"), pad...)
	case "dib":
		return append([]byte{0x28, 0x00, 0x00, 0x00}, pad...)
	}
	panic(fmt.Sprintf("rifxtest: unknown bitmap format %q", format))
}

// CastList builds a CAS* payload. Zero ids mark empty slots.
func CastList(ids ...int) []byte {
	var b []byte
	for _, id := range ids {
		b = binary.BigEndian.AppendUint32(b, uint32(id))
	}
	return b
}

type KeyLink struct {
	Child  int
	Parent int
	Tag    string
}

// KeyTable builds a KEY* payload in the container's byte order.
func KeyTable(littleEndian bool, links ...KeyLink) []byte {
	order := byteOrder(littleEndian)
	b := appendU16(nil, order, 12)
	b = appendU16(b, order, 12)
	b = appendU32(b, order, uint32(len(links)))
	b = appendU32(b, order, uint32(len(links)))
	for _, l := range links {
		b = appendU32(b, order, uint32(l.Child))
		b = appendU32(b, order, uint32(l.Parent))
		b = appendTag(b, l.Tag, littleEndian)
	}
	return b
}

// Sound returns a minimal payload starting with the signature of format:
// "mp3", "wav", "aiff", "aifc", "ogg", "flac", "au", "midi", "mp4" or "caf".
func Sound(format string) []byte {
	pad := make([]byte, 16)
	switch format {
	case "mp3":
		return append([]byte("ID3\x03\x00"), pad...)
	case "wav":
		return append([]byte("RIFF\x24\x00\x00\x00WAVE"), pad...)
	case "aiff":
		return append([]byte("FORM\x00\x00\x00\x20AIFF"), pad...)
	case "aifc":
		return append([]byte("FORM\x00\x00\x00\x20AIFC"), pad...)
	case "ogg":
		return append([]byte("OggS"), pad...)
	case "flac":
		return append([]byte("fLaC"), pad...)
	case "au":
		return append([]byte(".snd"), pad...)
	case "midi":
		return append([]byte("MThd\x00\x00\x00\x06"), pad...)
	case "mp4":
		return append([]byte("\x00\x00\x00\x18ftypM4A "), pad...)
	case "caf":
		return append([]byte("caff\x00\x01"), pad...)
	}
	panic(fmt.Sprintf("rifxtest: unknown sound format %q", format))
}
