package rifx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// Function variables for testing injection.
var (
	newZlibReader = func(r io.Reader) (io.ReadCloser, error) { return zlib.NewReader(r) }
	readAll       = io.ReadAll
)

type CompressionKind uint8

const (
	CompressionUnknown CompressionKind = iota
	CompressionZlib
	CompressionStore
)

func (k CompressionKind) String() string {
	switch k {
	case CompressionZlib:
		return "zlib"
	case CompressionStore:
		return "store"
	default:
		return "unknown"
	}
}

// CompressionID is a codec identifier in canonical GUID byte order: the
// first three groups big-endian regardless of the container byte order.
type CompressionID [16]byte

func (id CompressionID) String() string {
	return fmt.Sprintf("%X-%X-%X-%X-%X", id[0:4], id[4:6], id[6:8], id[8:10], id[10:16])
}

var (
	ZlibCompressionID    = CompressionID{0xAC, 0x99, 0xE9, 0x04, 0x00, 0x70, 0x0B, 0x36, 0x00, 0x00, 0x08, 0x00, 0x07, 0x37, 0x7A, 0x34}
	NullCompressionID    = CompressionID{0xAC, 0x99, 0x98, 0x2E, 0x00, 0x5D, 0x0D, 0x50, 0x00, 0x00, 0x08, 0x00, 0x07, 0x37, 0x7A, 0x34}
	SoundCompressionID   = CompressionID{0x72, 0x04, 0xA8, 0x89, 0xAF, 0xD0, 0x11, 0xCF, 0xA2, 0x22, 0x00, 0xA0, 0x24, 0x53, 0x44, 0x4C}
	FontMapCompressionID = CompressionID{0x8A, 0x46, 0x79, 0xA1, 0x37, 0x20, 0x11, 0xD0, 0x92, 0x23, 0x00, 0xA0, 0xC9, 0x08, 0x68, 0xB1}
)

// readCompressionID reads 16 bytes and swaps the u32/u16/u16 groups of
// little-endian containers into canonical order.
func readCompressionID(c *cursor) (CompressionID, error) {
	b, err := c.Read(16)
	if err != nil {
		return CompressionID{}, err
	}
	id := CompressionID(b)
	if c.order == binary.LittleEndian {
		id[0], id[1], id[2], id[3] = id[3], id[2], id[1], id[0]
		id[4], id[5] = id[5], id[4]
		id[6], id[7] = id[7], id[6]
	}
	return id, nil
}

// resolveCompressionKind maps a descriptor to a codec. Known ids win; the
// name is only consulted for ids this package has never seen.
func resolveCompressionKind(id CompressionID, name string) CompressionKind {
	switch id {
	case ZlibCompressionID:
		return CompressionZlib
	case NullCompressionID:
		return CompressionStore
	case SoundCompressionID, FontMapCompressionID:
		return CompressionUnknown
	}
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.Contains(n, "zlib"):
		return CompressionZlib
	case n == "none", n == "store", n == "null":
		return CompressionStore
	}
	return CompressionUnknown
}

type CompressionDescriptor struct {
	Index int
	ID    CompressionID
	Name  string
	Kind  CompressionKind
}

// CompressionTable lists the codecs declared by an Afterburner archive.
// Resource entries refer to them by position. It is immutable after Open.
type CompressionTable struct {
	descriptors []CompressionDescriptor
}

func newCompressionTable(ids []CompressionID, names []string) *CompressionTable {
	t := &CompressionTable{descriptors: make([]CompressionDescriptor, len(ids))}
	for i, id := range ids {
		var name string
		if i < len(names) {
			name = names[i]
		}
		t.descriptors[i] = CompressionDescriptor{Index: i, ID: id, Name: name, Kind: resolveCompressionKind(id, name)}
	}
	return t
}

// Get returns the descriptor at index. A miss is not an error.
func (t *CompressionTable) Get(index int) (CompressionDescriptor, bool) {
	if t == nil || index < 0 || index >= len(t.descriptors) {
		return CompressionDescriptor{}, false
	}
	return t.descriptors[index], true
}

func (t *CompressionTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.descriptors)
}

func (t *CompressionTable) All() []CompressionDescriptor {
	if t == nil {
		return nil
	}
	return append([]CompressionDescriptor(nil), t.descriptors...)
}

// inflate decompresses a zlib stream, refusing to produce more than maxOut bytes.
func inflate(in []byte, maxOut uint32) ([]byte, error) {
	zr, err := newZlibReader(bytes.NewReader(in))
	if err != nil {
		return nil, fmt.Errorf("%w: zlib: %v", ErrInvalidPayload, err)
	}
	defer zr.Close()
	out, err := readAll(io.LimitReader(zr, int64(maxOut)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: zlib: %v", ErrInvalidPayload, err)
	}
	if uint64(len(out)) > uint64(maxOut) {
		return nil, fmt.Errorf("%w: zlib expanded beyond %d bytes", ErrInvalidPayload, maxOut)
	}
	return out, nil
}

// inflateExact decompresses a zlib stream that must expand to exactly size bytes.
func inflateExact(in []byte, size uint32) ([]byte, error) {
	out, err := inflate(in, size)
	if err != nil {
		return nil, err
	}
	if uint32(len(out)) != size {
		return nil, fmt.Errorf("%w: zlib produced %d bytes, expected %d", ErrInvalidPayload, len(out), size)
	}
	return out, nil
}
