package rifx

import "encoding/binary"

// Tag is a four-character chunk identifier in reading order ("RIFX", "XMED").
// Little-endian containers store tags byte-reversed; the cursor undoes that.
type Tag [4]byte

// TagOf builds a Tag from the first four bytes of s, padding with spaces.
func TagOf(s string) Tag {
	t := Tag{' ', ' ', ' ', ' '}
	copy(t[:], s)
	return t
}

func (t Tag) String() string { return string(t[:]) }

func (t Tag) reversed() Tag { return Tag{t[3], t[2], t[1], t[0]} }

// fileTag converts four raw bytes as stored in a container of the given byte
// order to a Tag.
func fileTag(raw [4]byte, order binary.ByteOrder) Tag {
	t := Tag(raw)
	if order == binary.LittleEndian {
		return t.reversed()
	}
	return t
}

var (
	TagRIFX = TagOf("RIFX")
	TagXFIR = TagOf("XFIR")

	TagFGDM = TagOf("FGDM")
	TagFGDC = TagOf("FGDC")
	TagMV93 = TagOf("MV93")
	TagMC95 = TagOf("MC95")
	TagAPPL = TagOf("APPL")

	TagFver = TagOf("Fver")
	TagFcdr = TagOf("Fcdr")
	TagABMP = TagOf("ABMP")
	TagFGEI = TagOf("FGEI")
	TagILS  = TagOf("ILS ")

	TagImap = TagOf("imap")
	TagMmap = TagOf("mmap")
	TagFree = TagOf("free")
	TagJunk = TagOf("junk")

	TagKeyTable = TagOf("KEY*")
	TagCastList = TagOf("CAS*")
	TagCastMem  = TagOf("CASt")

	TagSTXT = TagOf("STXT")
	TagXMED = TagOf("XMED")

	TagLscr = TagOf("Lscr")

	TagBITD = TagOf("BITD")
	TagDIB  = TagOf("DIB ")
	TagPICT = TagOf("PICT")
	TagALFA = TagOf("ALFA")
	TagThum = TagOf("Thum")

	TagEdiM     = TagOf("ediM")
	TagSndS     = TagOf("sndS")
	TagSNDUpper = TagOf("SND ")
	TagSNDLower = TagOf("snd ")
)

// isContainerTag reports tags that describe the container itself rather
// than a resource payload.
func isContainerTag(t Tag) bool {
	switch t {
	case TagRIFX, TagXFIR, TagImap, TagMmap, TagILS:
		return true
	}
	return false
}
