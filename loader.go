package rifx

import (
	"fmt"
	"log/slog"
)

// PayloadLoader resolves a resource entry to its decoded bytes. Missing or
// out-of-range data yields an empty slice and a nil error.
type PayloadLoader interface {
	Load(e ResourceEntry) ([]byte, error)
}

// payloadCodec is the step shared by both loaders: it applies the entry's
// compression descriptor to the stored bytes.
type payloadCodec struct {
	compressions *CompressionTable
	limits       Limits
	log          *slog.Logger
}

func (p payloadCodec) decode(e ResourceEntry, raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return []byte{}, nil
	}
	if e.CompressionIndex < 0 {
		return raw, nil
	}
	desc, ok := p.compressions.Get(e.CompressionIndex)
	if !ok {
		p.log.Debug("compression index out of range, passing through",
			slog.Int("id", e.ID), slog.Int("index", e.CompressionIndex))
		return raw, nil
	}
	switch desc.Kind {
	case CompressionZlib:
		if e.UncompressedSize > p.limits.MaxInflatedLen {
			return nil, fmt.Errorf("%w: resource %d expands to %d bytes", ErrLimitExceeded, e.ID, e.UncompressedSize)
		}
		out, err := inflate(raw, e.UncompressedSize)
		if err != nil {
			return nil, fmt.Errorf("resource %d: %w", e.ID, err)
		}
		return out, nil
	case CompressionStore:
		return raw, nil
	default:
		p.log.Debug("unsupported codec, passing through",
			slog.Int("id", e.ID), slog.String("codec", desc.Name), slog.String("guid", desc.ID.String()))
		return raw, nil
	}
}

// readClamped reads up to n bytes at off, stopping at the end of the stream.
// The cursor position is restored before returning.
func readClamped(c *cursor, off int64, n uint32) ([]byte, error) {
	defer c.SetPos(c.Tell())
	if off < 0 || off > c.Len() {
		return []byte{}, nil
	}
	c.SetPos(off)
	return c.ReadAtMost(int64(n))
}

// classicLoader reads payloads in place: the entry offset points at the
// resource's own chunk header, which is skipped.
type classicLoader struct {
	c      *cursor
	codec  payloadCodec
	limits Limits
}

func (l *classicLoader) Load(e ResourceEntry) ([]byte, error) {
	if e.CompressedSize > l.limits.MaxPayloadLen {
		return nil, fmt.Errorf("%w: resource %d stores %d bytes", ErrLimitExceeded, e.ID, e.CompressedSize)
	}
	if e.Offset < 0 {
		return []byte{}, nil
	}
	raw, err := readClamped(l.c, e.Offset+8, e.CompressedSize)
	if err != nil {
		return nil, err
	}
	return l.codec.decode(e, raw)
}

// afterburnerLoader reads payloads relative to the FGEI body, or from the
// inline segment table.
type afterburnerLoader struct {
	c      *cursor
	table  *ResourceTable
	state  AfterburnerState
	codec  payloadCodec
	limits Limits
}

func (l *afterburnerLoader) Load(e ResourceEntry) ([]byte, error) {
	if e.Inline() {
		seg, ok := l.table.InlineSegment(e.ID)
		if !ok {
			l.codec.log.Debug("inline segment missing", slog.Int("id", e.ID))
			return []byte{}, nil
		}
		return l.codec.decode(e, append([]byte{}, seg...))
	}
	if e.Offset < 0 {
		return []byte{}, nil
	}
	if e.CompressedSize > l.limits.MaxPayloadLen {
		return nil, fmt.Errorf("%w: resource %d stores %d bytes", ErrLimitExceeded, e.ID, e.CompressedSize)
	}
	raw, err := readClamped(l.c, l.state.BodyOffset+e.Offset, e.CompressedSize)
	if err != nil {
		return nil, err
	}
	return l.codec.decode(e, raw)
}
