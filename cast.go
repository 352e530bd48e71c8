package rifx

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"sort"

	"github.com/go-restruct/restruct"
)

type CastMemberType uint32

const (
	CastNull CastMemberType = iota
	CastBitmap
	CastFilmLoop
	CastField
	CastPalette
	CastPicture
	CastSound
	CastButton
	CastShape
	CastMovie
	CastDigitalVideo
	CastScript
	CastText
)

var castTypeNames = [...]string{
	"null", "bitmap", "filmLoop", "field", "palette", "picture", "sound",
	"button", "shape", "movie", "digitalVideo", "script", "text",
}

func (t CastMemberType) String() string {
	if int(t) < len(castTypeNames) {
		return castTypeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint32(t))
}

// CastMember is a decoded CASt header. Slot is the member's position in its
// cast library, or -1 for members no CAS* list refers to.
type CastMember struct {
	Slot       int
	ResourceID int
	Type       CastMemberType
	Name       string
}

type CastLibrary struct {
	ResourceID int
	ParentID   int
	Members    []CastMember
}

const castHeaderLen = 12

// castHeader starts every CASt payload and is always big-endian.
type castHeader struct {
	Type        uint32
	InfoLen     uint32
	SpecificLen uint32
}

// infoListHeader precedes the offset table of a CASt info block.
type infoListHeader struct {
	DataOffset uint32
	Count      uint16
	ItemsLen   uint32
}

const infoListHeaderLen = 10

// splitCastMember separates a CASt payload into its header, info block and
// member-specific data. Declared lengths are clamped to the payload.
func splitCastMember(b []byte) (castHeader, []byte, []byte, error) {
	var h castHeader
	if len(b) < castHeaderLen {
		return h, nil, nil, fmt.Errorf("%w: CASt payload is %d bytes", ErrInvalidPayload, len(b))
	}
	if err := restruct.Unpack(b[:castHeaderLen], binary.BigEndian, &h); err != nil {
		return h, nil, nil, fmt.Errorf("%w: CASt header: %v", ErrInvalidPayload, err)
	}
	rest := b[castHeaderLen:]
	info := rest[:min(uint64(h.InfoLen), uint64(len(rest)))]
	rest = rest[len(info):]
	specific := rest[:min(uint64(h.SpecificLen), uint64(len(rest)))]
	return h, info, specific, nil
}

func parseCastMember(id int, b []byte, decode func([]byte) string) (CastMember, error) {
	h, info, _, err := splitCastMember(b)
	if err != nil {
		return CastMember{}, err
	}
	return CastMember{Slot: -1, ResourceID: id, Type: CastMemberType(h.Type), Name: memberName(info, decode)}, nil
}

// memberName reads the second item of the info list as a pascal string.
// Short or inconsistent lists fall back to the first printable pascal
// string in the block.
func memberName(info []byte, decode func([]byte) string) string {
	if len(info) < infoListHeaderLen {
		return scanPascalString(info, decode)
	}
	var h infoListHeader
	if err := restruct.Unpack(info[:infoListHeaderLen], binary.BigEndian, &h); err != nil || h.Count < 2 {
		return scanPascalString(info, decode)
	}
	tableEnd := infoListHeaderLen + 4*int(h.Count)
	if tableEnd > len(info) {
		return scanPascalString(info, decode)
	}
	offsets := make([]uint32, h.Count)
	for i := range offsets {
		offsets[i] = binary.BigEndian.Uint32(info[infoListHeaderLen+4*i:])
	}
	items := info[tableEnd:]
	items = items[:min(uint64(h.ItemsLen), uint64(len(items)))]
	start := uint64(offsets[1])
	end := uint64(len(items))
	if h.Count > 2 && uint64(offsets[2]) <= end {
		end = uint64(offsets[2])
	}
	if start >= end {
		return scanPascalString(info, decode)
	}
	item := items[start:end]
	n := int(item[0])
	if n == 0 || 1+n > len(item) {
		return scanPascalString(info, decode)
	}
	return decode(item[1 : 1+n])
}

func printable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c == 0x7f {
			return false
		}
	}
	return true
}

func scanPascalString(b []byte, decode func([]byte) string) string {
	for i := 0; i < len(b); i++ {
		n := int(b[i])
		if n == 0 || i+1+n > len(b) {
			continue
		}
		if s := b[i+1 : i+1+n]; printable(s) {
			return decode(s)
		}
	}
	return ""
}

func (a *Archive) decodeName(b []byte) string {
	s, err := a.cfg.encoding.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// castMembers decodes every CASt resource, keyed by resource id.
func (a *Archive) castMembers() map[int]CastMember {
	out := map[int]CastMember{}
	for _, e := range a.resources.ByTag(TagCastMem) {
		b := a.loadQuiet(e)
		if len(b) == 0 {
			continue
		}
		m, err := parseCastMember(e.ID, b, a.decodeName)
		if err != nil {
			a.log.Warn("cast member skipped", slog.Int("id", e.ID), slog.Any("err", err))
			continue
		}
		out[e.ID] = m
	}
	return out
}

// CastLibraries reads every CAS* list. Empty slots are skipped; ids that do
// not name a readable CASt are logged and left out.
func (a *Archive) CastLibraries() []CastLibrary {
	members := a.castMembers()
	var libs []CastLibrary
	for _, e := range a.resources.ByTag(TagCastList) {
		b := a.loadQuiet(e)
		lib := CastLibrary{ResourceID: e.ID, ParentID: -1}
		if l, ok := a.resources.Parent(e.ID); ok {
			lib.ParentID = l.ParentID
		}
		for slot := 0; slot+4 <= len(b); slot += 4 {
			id := int(binary.BigEndian.Uint32(b[slot:]))
			if id == 0 {
				continue
			}
			m, ok := members[id]
			if !ok {
				a.log.Debug("cast slot names no member", slog.Int("list", e.ID), slog.Int("id", id))
				continue
			}
			m.Slot = slot / 4
			lib.Members = append(lib.Members, m)
		}
		libs = append(libs, lib)
	}
	return libs
}

func sortedInts(ids []int) []int {
	out := append([]int(nil), ids...)
	sort.Ints(out)
	return out
}
