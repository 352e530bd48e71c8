package rifx

import (
	"fmt"
	"log/slog"
)

// fverInfo is the decoded Fver chunk.
type fverInfo struct {
	Version         uint32
	ImapVersion     uint32
	DirectorVersion uint32
	VersionString   string
}

// versionedRead is one conditional field group of a versioned header.
type versionedRead struct {
	minVersion uint32
	read       func(c *cursor, v *fverInfo) error
}

var fverReads = []versionedRead{
	{minVersion: 0x401, read: func(c *cursor, v *fverInfo) (err error) {
		if v.ImapVersion, err = c.ReadVarint(); err != nil {
			return err
		}
		v.DirectorVersion, err = c.ReadVarint()
		return err
	}},
	{minVersion: 0x501, read: func(c *cursor, v *fverInfo) error {
		n, err := c.ReadU8()
		if err != nil {
			return err
		}
		b, err := c.Read(int(n))
		if err != nil {
			return err
		}
		v.VersionString = string(b)
		return nil
	}},
}

type afterburnerMap struct {
	fver         fverInfo
	compressions *CompressionTable
	state        AfterburnerState
}

// afterburnerDecoder walks Fver, Fcdr, ABMP and FGEI in that order and fills
// the resource table. Any tag mismatch aborts the walk.
type afterburnerDecoder struct {
	c      *cursor
	limits Limits
	log    *slog.Logger
	table  *ResourceTable
	out    afterburnerMap
}

func readAfterburnerMap(c *cursor, start int64, table *ResourceTable, limits Limits, log *slog.Logger) (*afterburnerMap, error) {
	d := &afterburnerDecoder{c: c, limits: limits, log: log, table: table}
	c.SetPos(start)
	steps := []struct {
		tag  Tag
		read func(ChunkHeader) error
	}{
		{TagFver, d.readFver},
		{TagFcdr, d.readFcdr},
		{TagABMP, d.readABMP},
		{TagFGEI, d.readFGEI},
	}
	for _, step := range steps {
		h, err := readChunkHeader(c)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s header: %v", ErrInvalidMap, step.tag, err)
		}
		if err := ensureTag(h, step.tag); err != nil {
			return nil, err
		}
		if err := step.read(h); err != nil {
			return nil, err
		}
	}
	return &d.out, nil
}

// body returns h's body as an in-memory cursor so field reads cannot run
// into the next chunk.
func (d *afterburnerDecoder) body(h ChunkHeader) (*cursor, error) {
	b, err := chunkBody(d.c, h, d.limits.MaxChunkLen)
	if err != nil {
		return nil, err
	}
	return newMemCursor(b, d.c.order), nil
}

func (d *afterburnerDecoder) readFver(h ChunkHeader) error {
	c, err := d.body(h)
	if err != nil {
		return err
	}
	v := &d.out.fver
	if v.Version, err = c.ReadVarint(); err != nil {
		return fmt.Errorf("%w: Fver version: %v", ErrInvalidMap, err)
	}
	for _, r := range fverReads {
		if v.Version < r.minVersion {
			break
		}
		if err := r.read(c, v); err != nil {
			return fmt.Errorf("%w: Fver fields for version %#x: %v", ErrInvalidMap, r.minVersion, err)
		}
	}
	if c.Remaining() > 0 {
		d.log.Debug("skipping trailing Fver bytes", slog.Int64("bytes", c.Remaining()))
	}
	return nil
}

func (d *afterburnerDecoder) readFcdr(h ChunkHeader) error {
	raw, err := chunkBody(d.c, h, d.limits.MaxChunkLen)
	if err != nil {
		return err
	}
	plain, err := inflate(raw, d.limits.MaxInflatedLen)
	if err != nil {
		return fmt.Errorf("Fcdr: %w", err)
	}
	c := newMemCursor(plain, d.c.order)
	count, err := c.ReadU16()
	if err != nil {
		return fmt.Errorf("%w: Fcdr count: %v", ErrInvalidMap, err)
	}
	if int(count) > d.limits.MaxCompressions {
		return fmt.Errorf("%w: %d compression descriptors", ErrLimitExceeded, count)
	}
	ids := make([]CompressionID, count)
	for i := range ids {
		if ids[i], err = readCompressionID(c); err != nil {
			return fmt.Errorf("%w: Fcdr id %d: %v", ErrInvalidMap, i, err)
		}
	}
	names := make([]string, count)
	for i := range names {
		if names[i], err = c.ReadCString(); err != nil {
			return fmt.Errorf("%w: Fcdr name %d: %v", ErrInvalidMap, i, err)
		}
	}
	d.out.compressions = newCompressionTable(ids, names)
	return nil
}

func (d *afterburnerDecoder) readABMP(h ChunkHeader) error {
	c, err := d.body(h)
	if err != nil {
		return err
	}
	mode, err := c.ReadVarint()
	if err != nil {
		return fmt.Errorf("%w: ABMP mode: %v", ErrInvalidMap, err)
	}
	expected, err := c.ReadVarint()
	if err != nil {
		return fmt.Errorf("%w: ABMP size: %v", ErrInvalidMap, err)
	}
	payload, err := c.ReadAtMost(c.Remaining())
	if err != nil {
		return err
	}
	if mode != 0 {
		if expected > d.limits.MaxInflatedLen {
			return fmt.Errorf("%w: ABMP expands to %d bytes", ErrLimitExceeded, expected)
		}
		if payload, err = inflateExact(payload, expected); err != nil {
			return fmt.Errorf("ABMP: %w", err)
		}
	}
	return d.readResourceMap(newMemCursor(payload, d.c.order))
}

func (d *afterburnerDecoder) readResourceMap(c *cursor) error {
	for i := 0; i < 2; i++ {
		if _, err := c.ReadVarint(); err != nil {
			return fmt.Errorf("%w: ABMP preamble: %v", ErrInvalidMap, err)
		}
	}
	count, err := c.ReadVarint()
	if err != nil {
		return fmt.Errorf("%w: ABMP count: %v", ErrInvalidMap, err)
	}
	if uint64(count) > uint64(d.limits.MaxResources) {
		return fmt.Errorf("%w: %d resources", ErrLimitExceeded, count)
	}
	for i := uint32(0); i < count; i++ {
		var f [5]uint32
		for j := range f {
			if f[j], err = c.ReadVarint(); err != nil {
				return fmt.Errorf("%w: ABMP record %d: %v", ErrInvalidMap, i, err)
			}
		}
		tag, err := c.ReadTag()
		if err != nil {
			return fmt.Errorf("%w: ABMP record %d tag: %v", ErrInvalidMap, i, err)
		}
		e := ResourceEntry{
			ID:               int(f[0]),
			Tag:              tag,
			Offset:           int64(int32(f[1])),
			CompressedSize:   f[2],
			UncompressedSize: f[3],
			CompressionIndex: int(int32(f[4])),
			Storage:          StorageAfterburner,
		}
		if err := d.table.add(e); err != nil {
			return err
		}
	}
	return nil
}

func (d *afterburnerDecoder) readFGEI(h ChunkHeader) error {
	d.out.state = AfterburnerState{BodyOffset: h.BodyStart}
	return consume(d.c, h, func() error {
		ils, ok := d.table.Lookup(inlineContainerID)
		if !ok {
			return fmt.Errorf("%w: inline segment container (id %d) missing", ErrInvalidMap, inlineContainerID)
		}
		if ils.CompressedSize == 0 {
			d.table.setInline(inlineContainerID, []byte{})
			return nil
		}
		raw, err := d.c.Read(int(ils.CompressedSize))
		if err != nil {
			return fmt.Errorf("%w: inline segment container truncated: %v", ErrInvalidMap, err)
		}
		// The container is inflated regardless of its compression index.
		if ils.UncompressedSize > d.limits.MaxInflatedLen {
			return fmt.Errorf("%w: inline segment container expands to %d bytes", ErrLimitExceeded, ils.UncompressedSize)
		}
		data, err := inflate(raw, ils.UncompressedSize)
		if err != nil {
			return fmt.Errorf("inline segment container: %w", err)
		}
		d.readInlineSegments(newMemCursor(data, d.c.order))
		return nil
	})
}

// readInlineSegments walks (varint id, bytes) records. An unknown id or an
// overrun ends the walk; later records are not trusted.
func (d *afterburnerDecoder) readInlineSegments(c *cursor) {
	for n := 0; c.Remaining() > 0; n++ {
		if n >= d.limits.MaxInlineSegments {
			d.log.Warn("inline segment limit reached", slog.Int("limit", d.limits.MaxInlineSegments))
			return
		}
		at := c.Tell()
		id, err := c.ReadVarint()
		if err != nil {
			d.log.Warn("inline segment id unreadable", slog.Int64("offset", at), slog.Any("err", err))
			return
		}
		e, ok := d.table.Lookup(int(id))
		if !ok {
			d.log.Warn("inline segment for unknown resource, stopping", slog.Uint64("id", uint64(id)), slog.Int64("offset", at))
			return
		}
		b, err := c.Read(int(e.CompressedSize))
		if err != nil {
			d.log.Warn("inline segment overruns container, stopping", slog.Int("id", e.ID), slog.Uint64("size", uint64(e.CompressedSize)))
			return
		}
		d.table.setInline(e.ID, b)
	}
}
