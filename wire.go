package rifx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// maxVarintLen is the longest varint that still fits in 32 bits.
const maxVarintLen = 5

// cursor is a positioned reader over an io.ReaderAt. Integers and tags are
// read in the container's byte order; varints are byte-order independent.
type cursor struct {
	r     io.ReaderAt
	size  int64
	pos   int64
	order binary.ByteOrder
}

func newCursor(r io.ReaderAt, size int64, order binary.ByteOrder) *cursor {
	return &cursor{r: r, size: size, order: order}
}

func newMemCursor(b []byte, order binary.ByteOrder) *cursor {
	return newCursor(bytes.NewReader(b), int64(len(b)), order)
}

func (c *cursor) Tell() int64      { return c.pos }
func (c *cursor) SetPos(off int64) { c.pos = off }
func (c *cursor) Skip(n int64)     { c.pos += n }
func (c *cursor) Len() int64       { return c.size }
func (c *cursor) Remaining() int64 { return max(c.size-c.pos, 0) }

// Read returns exactly n bytes from the current position.
func (c *cursor) Read(n int) ([]byte, error) {
	if n < 0 || c.pos < 0 || int64(n) > c.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	buf := make([]byte, n)
	if _, err := c.r.ReadAt(buf, c.pos); err != nil && err != io.EOF {
		return nil, err
	}
	c.pos += int64(n)
	return buf, nil
}

// ReadAtMost reads up to n bytes, stopping at the end of the stream.
func (c *cursor) ReadAtMost(n int64) ([]byte, error) {
	return c.Read(int(min(n, c.Remaining())))
}

func (c *cursor) ReadU8() (uint8, error) {
	b, err := c.Read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) ReadU16() (uint16, error) {
	b, err := c.Read(2)
	if err != nil {
		return 0, err
	}
	return c.order.Uint16(b), nil
}

func (c *cursor) ReadU32() (uint32, error) {
	b, err := c.Read(4)
	if err != nil {
		return 0, err
	}
	return c.order.Uint32(b), nil
}

func (c *cursor) ReadTag() (Tag, error) {
	b, err := c.Read(4)
	if err != nil {
		return Tag{}, err
	}
	return fileTag([4]byte(b), c.order), nil
}

// ReadVarint decodes a big-endian base-128 integer: seven value bits per
// byte, high bit set on every byte but the last.
func (c *cursor) ReadVarint() (uint32, error) {
	var v uint32
	for i := 0; i < maxVarintLen; i++ {
		b, err := c.ReadU8()
		if err != nil {
			return 0, err
		}
		if v>>25 != 0 {
			return 0, fmt.Errorf("%w: value overflows 32 bits at offset %d", ErrInvalidVarint, c.pos)
		}
		v = v<<7 | uint32(b&0x7f)
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: longer than %d bytes at offset %d", ErrInvalidVarint, maxVarintLen, c.pos)
}

// ReadCString reads bytes up to and excluding a NUL terminator. A missing
// terminator at the end of the stream is tolerated.
func (c *cursor) ReadCString() (string, error) {
	var out []byte
	for c.Remaining() > 0 {
		b, err := c.ReadU8()
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
		out = append(out, b)
	}
	return string(out), nil
}

// ChunkHeader locates one chunk body within the container.
type ChunkHeader struct {
	Tag       Tag
	Length    uint32
	BodyStart int64
}

// End is the absolute offset just past the chunk body.
func (h ChunkHeader) End() int64 { return h.BodyStart + int64(h.Length) }

// readChunkHeader reads Afterburner framing: a tag and a varint length.
func readChunkHeader(c *cursor) (ChunkHeader, error) {
	tag, err := c.ReadTag()
	if err != nil {
		return ChunkHeader{}, err
	}
	n, err := c.ReadVarint()
	if err != nil {
		return ChunkHeader{}, err
	}
	return ChunkHeader{Tag: tag, Length: n, BodyStart: c.Tell()}, nil
}

// readClassicChunkHeader reads classic framing: a tag and a fixed u32 length.
func readClassicChunkHeader(c *cursor) (ChunkHeader, error) {
	tag, err := c.ReadTag()
	if err != nil {
		return ChunkHeader{}, err
	}
	n, err := c.ReadU32()
	if err != nil {
		return ChunkHeader{}, err
	}
	return ChunkHeader{Tag: tag, Length: n, BodyStart: c.Tell()}, nil
}

func ensureTag(h ChunkHeader, expected Tag) error {
	if h.Tag != expected {
		return &FormatMismatchError{Expected: expected, Actual: h.Tag, Offset: h.BodyStart}
	}
	return nil
}

// consume runs fn over the chunk body and leaves c at h.End() on every path.
func consume(c *cursor, h ChunkHeader, fn func() error) error {
	defer c.SetPos(h.End())
	c.SetPos(h.BodyStart)
	return fn()
}

// chunkBody returns the whole body of h, bounded by maxLen.
func chunkBody(c *cursor, h ChunkHeader, maxLen uint32) ([]byte, error) {
	if h.Length > maxLen {
		return nil, fmt.Errorf("%w: %s chunk length %d", ErrLimitExceeded, h.Tag, h.Length)
	}
	var body []byte
	err := consume(c, h, func() error {
		var err error
		body, err = c.Read(int(h.Length))
		return err
	})
	return body, err
}
