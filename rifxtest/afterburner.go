package rifxtest

import "sort"

const inlineContainerID = 2

// Descriptor is one Fcdr compression entry. ID is in canonical GUID order.
type Descriptor struct {
	ID   [16]byte
	Name string
}

var (
	ZlibDescriptor = Descriptor{
		ID:   [16]byte{0xAC, 0x99, 0xE9, 0x04, 0x00, 0x70, 0x0B, 0x36, 0x00, 0x00, 0x08, 0x00, 0x07, 0x37, 0x7A, 0x34},
		Name: "zlib",
	}
	NullDescriptor = Descriptor{
		ID:   [16]byte{0xAC, 0x99, 0x98, 0x2E, 0x00, 0x5D, 0x0D, 0x50, 0x00, 0x00, 0x08, 0x00, 0x07, 0x37, 0x7A, 0x34},
		Name: "none",
	}
)

// Entry is a raw ABMP record. Entries added with AddEntry carry no data;
// they exist to describe broken or out-of-range resources.
type Entry struct {
	Tag              string
	Offset           int32
	CompressedSize   uint32
	UncompressedSize uint32
	Codec            int
}

type abResource struct {
	id     int
	tag    string
	data   []byte
	codec  int
	inline bool
	raw    *Entry
}

type inlineRecord struct {
	id   int
	data []byte
}

// AfterburnerBuilder writes a compressed movie: Fver, a zlib Fcdr, ABMP and
// FGEI. Id 2 is the inline segment container; added resources start at 3.
type AfterburnerBuilder struct {
	LittleEndian    bool
	Codec           string
	Version         uint32
	ImapVersion     uint32
	DirectorVersion uint32
	VersionString   string
	Descriptors     []Descriptor
	// RawMap stores ABMP uncompressed (mode 0).
	RawMap bool
	// OmitInlineContainer leaves id 2 out of ABMP.
	OmitInlineContainer bool
	Prefix              []byte

	next  int
	res   []abResource
	extra []inlineRecord
}

func NewAfterburner() *AfterburnerBuilder {
	return &AfterburnerBuilder{
		Codec:           "FGDM",
		Version:         0x501,
		ImapVersion:     0x4C1,
		DirectorVersion: 0x73B,
		VersionString:   "11.5.0r593",
		Descriptors:     []Descriptor{ZlibDescriptor, NullDescriptor},
		next:            inlineContainerID + 1,
	}
}

func (b *AfterburnerBuilder) zlibIndex() int {
	for i, d := range b.Descriptors {
		if d.ID == ZlibDescriptor.ID {
			return i
		}
	}
	return -1
}

func (b *AfterburnerBuilder) put(r abResource) int {
	r.id = b.next
	b.next++
	b.res = append(b.res, r)
	return r.id
}

// Add appends a zlib-compressed body resource and returns its id.
func (b *AfterburnerBuilder) Add(tag string, data []byte) int {
	return b.put(abResource{tag: tag, data: data, codec: b.zlibIndex()})
}

// AddStored appends a body resource with compression index -1.
func (b *AfterburnerBuilder) AddStored(tag string, data []byte) int {
	return b.put(abResource{tag: tag, data: data, codec: -1})
}

// AddWithCodec appends a body resource that names descriptor codec. The
// bytes are only compressed when that descriptor is zlib.
func (b *AfterburnerBuilder) AddWithCodec(tag string, data []byte, codec int) int {
	return b.put(abResource{tag: tag, data: data, codec: codec})
}

// AddInline appends a zlib-compressed resource stored in the inline segment
// container. Empty data is stored as a zero-length segment.
func (b *AfterburnerBuilder) AddInline(tag string, data []byte) int {
	return b.put(abResource{tag: tag, data: data, codec: b.zlibIndex(), inline: true})
}

// AddEntry appends a map record with no data behind it.
func (b *AfterburnerBuilder) AddEntry(e Entry) int {
	return b.put(abResource{tag: e.Tag, raw: &e})
}

// AppendInlineRecord appends a raw record to the inline segment container
// after the real ones.
func (b *AfterburnerBuilder) AppendInlineRecord(id int, data []byte) {
	b.extra = append(b.extra, inlineRecord{id: id, data: data})
}

func (b *AfterburnerBuilder) stored(r abResource) []byte {
	if len(r.data) == 0 {
		return nil
	}
	if r.codec >= 0 && r.codec < len(b.Descriptors) && b.Descriptors[r.codec].ID == ZlibDescriptor.ID {
		return Deflate(r.data)
	}
	return r.data
}

func (b *AfterburnerBuilder) chunk(out []byte, tag string, body []byte) []byte {
	out = appendTag(out, tag, b.LittleEndian)
	out = AppendVarint(out, uint32(len(body)))
	return append(out, body...)
}

func (b *AfterburnerBuilder) fver() []byte {
	body := AppendVarint(nil, b.Version)
	if b.Version >= 0x401 {
		body = AppendVarint(body, b.ImapVersion)
		body = AppendVarint(body, b.DirectorVersion)
	}
	if b.Version >= 0x501 {
		body = append(body, byte(len(b.VersionString)))
		body = append(body, b.VersionString...)
	}
	return body
}

func (b *AfterburnerBuilder) fcdr() []byte {
	order := byteOrder(b.LittleEndian)
	plain := appendU16(nil, order, uint16(len(b.Descriptors)))
	for _, d := range b.Descriptors {
		id := d.ID
		if b.LittleEndian {
			id[0], id[1], id[2], id[3] = id[3], id[2], id[1], id[0]
			id[4], id[5] = id[5], id[4]
			id[6], id[7] = id[7], id[6]
		}
		plain = append(plain, id[:]...)
	}
	for _, d := range b.Descriptors {
		plain = append(plain, d.Name...)
		plain = append(plain, 0)
	}
	return Deflate(plain)
}

type abRecord struct {
	id                     int
	offset                 int32
	compressed, uncompress uint32
	codec                  int
	tag                    string
}

func (b *AfterburnerBuilder) abmp(records []abRecord) []byte {
	var m []byte
	m = AppendVarint(m, 0)
	m = AppendVarint(m, 0)
	m = AppendVarint(m, uint32(len(records)))
	for _, r := range records {
		m = AppendVarint(m, uint32(r.id))
		m = AppendVarint(m, uint32(r.offset))
		m = AppendVarint(m, r.compressed)
		m = AppendVarint(m, r.uncompress)
		m = AppendVarint(m, uint32(int32(r.codec)))
		m = appendTag(m, r.tag, b.LittleEndian)
	}
	if b.RawMap {
		body := AppendVarint(nil, 0)
		body = AppendVarint(body, uint32(len(m)))
		return append(body, m...)
	}
	body := AppendVarint(nil, 1)
	body = AppendVarint(body, uint32(len(m)))
	return append(body, Deflate(m)...)
}

// Bytes returns the finished archive.
func (b *AfterburnerBuilder) Bytes() []byte {
	var ils []byte
	var bodies []byte
	var records []abRecord

	// Inline segments are addressed from the container, so the container
	// is built before body offsets are known.
	inline := make([]abResource, 0)
	for _, r := range b.res {
		if r.inline {
			inline = append(inline, r)
		}
	}
	sort.SliceStable(inline, func(i, j int) bool { return inline[i].id < inline[j].id })
	for _, r := range inline {
		s := b.stored(r)
		ils = AppendVarint(ils, uint32(r.id))
		ils = append(ils, s...)
		records = append(records, abRecord{id: r.id, offset: -1, compressed: uint32(len(s)), uncompress: uint32(len(r.data)), codec: r.codec, tag: r.tag})
	}
	for _, x := range b.extra {
		ils = AppendVarint(ils, uint32(x.id))
		ils = append(ils, x.data...)
	}

	// The container is always zlib data, whatever its codec index says.
	var ilsStored []byte
	ilsCodec := b.zlibIndex()
	if len(ils) > 0 {
		ilsStored = Deflate(ils)
	}
	head := []abRecord{}
	if !b.OmitInlineContainer {
		head = append(head, abRecord{id: inlineContainerID, offset: 0, compressed: uint32(len(ilsStored)), uncompress: uint32(len(ils)), codec: ilsCodec, tag: "ILS "})
	}

	off := len(ilsStored)
	for _, r := range b.res {
		switch {
		case r.raw != nil:
			records = append(records, abRecord{id: r.id, offset: r.raw.Offset, compressed: r.raw.CompressedSize, uncompress: r.raw.UncompressedSize, codec: r.raw.Codec, tag: r.tag})
		case r.inline:
		default:
			s := b.stored(r)
			records = append(records, abRecord{id: r.id, offset: int32(off), compressed: uint32(len(s)), uncompress: uint32(len(r.data)), codec: r.codec, tag: r.tag})
			bodies = append(bodies, s...)
			off += len(s)
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].id < records[j].id })
	records = append(head, records...)

	var payload []byte
	payload = b.chunk(payload, "Fver", b.fver())
	payload = b.chunk(payload, "Fcdr", b.fcdr())
	payload = b.chunk(payload, "ABMP", b.abmp(records))
	payload = appendTag(payload, "FGEI", b.LittleEndian)
	payload = AppendVarint(payload, 0)
	payload = append(payload, ilsStored...)
	payload = append(payload, bodies...)

	order := byteOrder(b.LittleEndian)
	out := append([]byte(nil), b.Prefix...)
	out = appendTag(out, "RIFX", b.LittleEndian)
	out = appendU32(out, order, uint32(4+len(payload)))
	out = appendTag(out, b.Codec, b.LittleEndian)
	return append(out, payload...)
}
