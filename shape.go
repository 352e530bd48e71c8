package rifx

import (
	"encoding/binary"
	"log/slog"
)

// ShapeFormat tells how the color bytes of a shape record are to be read.
type ShapeFormat uint8

const (
	ShapeUnknown ShapeFormat = iota
	ShapeUnsignedColors
	ShapeSignedColors
)

func (f ShapeFormat) String() string {
	switch f {
	case ShapeUnsignedColors:
		return "unsigned-colors"
	case ShapeSignedColors:
		return "signed-colors"
	}
	return "unknown"
}

// Shape is the QuickDraw record of a shape cast member. ResourceID is the
// CASt resource it was read from.
type Shape struct {
	ResourceID int
	Format     ShapeFormat
	Bytes      []byte
}

const (
	shapeRecordLen       = 17
	transitionalShapeLen = 7
)

// shapeRecord locates the shape record inside a CASt payload. Three layouts
// exist: the current one with a 12-byte header, a 7-byte header with a u16
// data size, and the oldest one with a one-byte entry size.
func shapeRecord(b []byte) ([]byte, ShapeFormat, bool) {
	if rec, ok := modernShape(b); ok {
		return rec, ShapeUnsignedColors, true
	}
	if rec, ok := transitionalShape(b); ok {
		return rec, ShapeUnsignedColors, true
	}
	if rec, ok := vintageShape(b); ok {
		return rec, ShapeSignedColors, true
	}
	return nil, ShapeUnknown, false
}

func modernShape(b []byte) ([]byte, bool) {
	h, info, specific, err := splitCastMember(b)
	if err != nil || CastMemberType(h.Type) != CastShape || uint64(h.InfoLen) > uint64(len(info)) {
		return nil, false
	}
	if len(specific) < shapeRecordLen {
		return nil, false
	}
	return specific, true
}

func transitionalShape(b []byte) ([]byte, bool) {
	if len(b) < transitionalShapeLen || b[6] != byte(CastShape) {
		return nil, false
	}
	dataSize := int(binary.BigEndian.Uint16(b))
	infoLen := uint64(binary.BigEndian.Uint32(b[2:]))
	if infoLen > uint64(len(b)-transitionalShapeLen) {
		return nil, false
	}
	area := len(b) - transitionalShapeLen - int(infoLen)
	n := min(max(dataSize-1, 0), area)
	if n < shapeRecordLen {
		return nil, false
	}
	// The record sits at the end of the declared data area.
	dataStart := transitionalShapeLen + area - n
	start := dataStart + n - shapeRecordLen
	return b[start : start+shapeRecordLen], true
}

func vintageShape(b []byte) ([]byte, bool) {
	if len(b) < 2 || b[0] < 2 || b[1] != byte(CastShape) {
		return nil, false
	}
	n := min(int(b[0])-1, len(b)-2)
	if n < shapeRecordLen {
		return nil, false
	}
	start := 2 + n - shapeRecordLen
	return b[start : start+shapeRecordLen], true
}

// ReadShapes returns the shape record of every shape cast member, in map
// order.
func (a *Archive) ReadShapes() []Shape {
	var out []Shape
	for _, e := range a.resources.ByTag(TagCastMem) {
		b := a.loadQuiet(e)
		if len(b) == 0 {
			continue
		}
		rec, f, ok := shapeRecord(b)
		if !ok {
			continue
		}
		out = append(out, Shape{ResourceID: e.ID, Format: f, Bytes: append([]byte(nil), rec...)})
	}
	a.log.Debug("shapes read", slog.Int("count", len(out)))
	return out
}
