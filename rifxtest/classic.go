package rifxtest

const (
	classicImapOffset = 12
	classicMmapOffset = 36
	classicFirstID    = 3
)

type classicResource struct {
	tag  string
	data []byte
	free bool
}

// ClassicBuilder writes an uncompressed movie: RIFX header, imap, mmap and
// one chunk per resource. Map slots 0 to 2 describe the container itself,
// so the first added resource gets id 3.
type ClassicBuilder struct {
	LittleEndian   bool
	Codec          string
	MapVersion     uint32
	ArchiveVersion uint32
	// Prefix is written before the container, as a projector stub would be.
	Prefix []byte

	res []classicResource
}

func NewClassic() *ClassicBuilder {
	return &ClassicBuilder{Codec: "MV93", MapVersion: 0, ArchiveVersion: 0x4C1}
}

// Add appends a resource chunk and returns its id.
func (b *ClassicBuilder) Add(tag string, data []byte) int {
	b.res = append(b.res, classicResource{tag: tag, data: data})
	return classicFirstID + len(b.res) - 1
}

// AddFree appends an unused map slot.
func (b *ClassicBuilder) AddFree() int {
	b.res = append(b.res, classicResource{tag: "free", free: true})
	return classicFirstID + len(b.res) - 1
}

// Bytes returns the finished archive.
func (b *ClassicBuilder) Bytes() []byte {
	order := byteOrder(b.LittleEndian)
	le := b.LittleEndian
	total := classicFirstID + len(b.res)

	const headerSize, entrySize = 24, 20
	mmapBodyLen := headerSize + total*entrySize
	dataStart := classicMmapOffset + 8 + mmapBodyLen

	type slot struct {
		tag          string
		size, offset uint32
	}
	slots := make([]slot, 0, total)
	var body []byte
	off := dataStart
	for _, r := range b.res {
		if r.free {
			slots = append(slots, slot{tag: "free"})
			continue
		}
		slots = append(slots, slot{tag: r.tag, size: uint32(len(r.data)), offset: uint32(off)})
		chunk := appendTag(nil, r.tag, le)
		chunk = appendU32(chunk, order, uint32(len(r.data)))
		chunk = append(chunk, r.data...)
		if len(chunk)%2 == 1 {
			chunk = append(chunk, 0)
		}
		body = append(body, chunk...)
		off += len(chunk)
	}
	end := off

	// appendTag byte-reverses tags for little-endian files, so "RIFX"
	// comes out as XFIR there.
	magic := "RIFX"
	out := append([]byte(nil), b.Prefix...)
	rifx := appendTag(nil, magic, le)
	rifx = appendU32(rifx, order, uint32(end-8))
	rifx = appendTag(rifx, b.Codec, le)

	rifx = appendTag(rifx, "imap", le)
	rifx = appendU32(rifx, order, 16)
	rifx = appendU32(rifx, order, 1)
	rifx = appendU32(rifx, order, classicMmapOffset)
	rifx = appendU32(rifx, order, b.MapVersion)
	rifx = appendU32(rifx, order, b.ArchiveVersion)

	rifx = appendTag(rifx, "mmap", le)
	rifx = appendU32(rifx, order, uint32(mmapBodyLen))
	rifx = appendU16(rifx, order, headerSize)
	rifx = appendU16(rifx, order, entrySize)
	rifx = appendU32(rifx, order, uint32(total))
	rifx = appendU32(rifx, order, uint32(total))
	rifx = appendU32(rifx, order, 0xFFFFFFFF)
	rifx = appendU32(rifx, order, 0xFFFFFFFF)
	rifx = appendU32(rifx, order, 0)

	head := []slot{
		{tag: magic, size: uint32(end - 8), offset: 0},
		{tag: "imap", size: 16, offset: classicImapOffset},
		{tag: "mmap", size: uint32(mmapBodyLen), offset: classicMmapOffset},
	}
	for _, s := range append(head, slots...) {
		rifx = appendTag(rifx, s.tag, le)
		rifx = appendU32(rifx, order, s.size)
		rifx = appendU32(rifx, order, s.offset)
		rifx = appendU16(rifx, order, 0)
		rifx = appendU16(rifx, order, 0)
		rifx = appendU32(rifx, order, 0xFFFFFFFF)
	}
	rifx = append(rifx, body...)
	return append(out, rifx...)
}
