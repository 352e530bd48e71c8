package rifx

import (
	"fmt"
	"log/slog"

	"github.com/go-restruct/restruct"
)

const (
	imapBodyLen        = 16
	mmapBaseHeaderLen  = 12
	mmapFullHeaderLen  = 24
	mmapMinEntryLength = 20
)

type imapBody struct {
	MapCount       uint32
	MmapOffset     uint32
	MapVersion     uint32
	ArchiveVersion uint32
}

type mmapHeader struct {
	HeaderSize uint16
	EntrySize  uint16
	Total      uint32
	Used       uint32
	FreeHead   int32
	FreeTerm   int32
	FreeCount  uint32
}

type mmapRecord struct {
	Tag      [4]byte
	Size     uint32
	Offset   uint32
	Flags    uint16
	Attrs    uint16
	NextFree int32
}

type classicMap struct {
	imap imapBody
	mmap mmapHeader
}

// padTo returns b extended with zeros to at least n bytes so that optional
// trailing fields decode as zero.
func padTo(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	return append(append([]byte(nil), b...), make([]byte, n-len(b))...)
}

// readClassicMap reads the imap chunk at the start of the payload and the
// mmap it points to. Each mmap slot becomes one entry whose id is its index.
func readClassicMap(c *cursor, block dataBlock, table *ResourceTable, limits Limits, log *slog.Logger) (*classicMap, error) {
	var m classicMap

	c.SetPos(block.PayloadStart)
	h, err := readClassicChunkHeader(c)
	if err != nil {
		return nil, fmt.Errorf("%w: imap header: %v", ErrInvalidMap, err)
	}
	if err := ensureTag(h, TagImap); err != nil {
		return nil, err
	}
	body, err := chunkBody(c, h, limits.MaxChunkLen)
	if err != nil {
		return nil, fmt.Errorf("%w: imap body: %v", ErrInvalidMap, err)
	}
	if len(body) < 8 {
		return nil, fmt.Errorf("%w: imap body is %d bytes", ErrInvalidMap, len(body))
	}
	if err := restruct.Unpack(padTo(body, imapBodyLen), c.order, &m.imap); err != nil {
		return nil, fmt.Errorf("%w: imap: %v", ErrInvalidMap, err)
	}

	c.SetPos(block.Offset + int64(m.imap.MmapOffset))
	h, err = readClassicChunkHeader(c)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap header: %v", ErrInvalidMap, err)
	}
	if err := ensureTag(h, TagMmap); err != nil {
		return nil, err
	}
	body, err = chunkBody(c, h, limits.MaxChunkLen)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap body: %v", ErrInvalidMap, err)
	}
	if len(body) < mmapBaseHeaderLen {
		return nil, fmt.Errorf("%w: mmap body is %d bytes", ErrInvalidMap, len(body))
	}
	if err := restruct.Unpack(padTo(body, mmapFullHeaderLen), c.order, &m.mmap); err != nil {
		return nil, fmt.Errorf("%w: mmap: %v", ErrInvalidMap, err)
	}
	mh := &m.mmap
	if mh.HeaderSize < mmapBaseHeaderLen {
		return nil, fmt.Errorf("%w: mmap header size %d", ErrInvalidMap, mh.HeaderSize)
	}
	if mh.HeaderSize < mmapFullHeaderLen {
		// Free-list fields the header does not cover are not present.
		mh.FreeHead, mh.FreeTerm, mh.FreeCount = 0, 0, 0
	}
	if mh.EntrySize < mmapMinEntryLength {
		return nil, fmt.Errorf("%w: mmap entry size %d", ErrInvalidMap, mh.EntrySize)
	}
	if uint64(mh.Total) > uint64(limits.MaxResources) {
		return nil, fmt.Errorf("%w: %d mmap entries", ErrLimitExceeded, mh.Total)
	}

	free := 0
	for i := 0; i < int(mh.Total); i++ {
		start := int(mh.HeaderSize) + i*int(mh.EntrySize)
		end := start + mmapMinEntryLength
		if end > len(body) {
			return nil, fmt.Errorf("%w: mmap entry %d truncated", ErrInvalidMap, i)
		}
		var rec mmapRecord
		if err := restruct.Unpack(body[start:end], c.order, &rec); err != nil {
			return nil, fmt.Errorf("%w: mmap entry %d: %v", ErrInvalidMap, i, err)
		}
		e := ResourceEntry{
			ID:               i,
			Tag:              fileTag(rec.Tag, c.order),
			Offset:           block.Offset + int64(rec.Offset),
			CompressedSize:   rec.Size,
			UncompressedSize: rec.Size,
			CompressionIndex: NoCompression,
			Storage:          StorageClassic,
			Flags:            rec.Flags,
		}
		if e.Free() {
			free++
		}
		if err := table.add(e); err != nil {
			return nil, err
		}
	}
	log.Debug("classic map read",
		slog.Int("entries", int(mh.Total)), slog.Int("free", free),
		slog.Uint64("mapVersion", uint64(m.imap.MapVersion)))
	return &m, nil
}
