package rifx

import (
	"encoding/binary"
	"fmt"

	"github.com/go-restruct/restruct"
)

const containerHeaderLen = 12

// containerHeader follows the RIFX/XFIR magic.
type containerHeader struct {
	Size  uint32
	Codec [4]byte
}

// dataBlock is the top-level container boundary.
type dataBlock struct {
	Offset       int64
	Order        binary.ByteOrder
	Codec        Tag
	Size         uint32
	PayloadStart int64
	PayloadEnd   int64
}

func (b dataBlock) afterburner() bool {
	return b.Codec == TagFGDM || b.Codec == TagFGDC
}

func readDataBlock(c *cursor, offset int64) (dataBlock, error) {
	c.SetPos(offset)
	raw, err := c.Read(containerHeaderLen)
	if err != nil {
		return dataBlock{}, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	var order binary.ByteOrder
	switch Tag([4]byte(raw[:4])) {
	case TagRIFX:
		order = binary.BigEndian
	case TagXFIR:
		order = binary.LittleEndian
	default:
		return dataBlock{}, fmt.Errorf("%w: magic %q", ErrInvalidHeader, raw[:4])
	}
	var h containerHeader
	if err := restruct.Unpack(raw[4:], order, &h); err != nil {
		return dataBlock{}, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	b := dataBlock{
		Offset:       offset,
		Order:        order,
		Codec:        fileTag(h.Codec, order),
		Size:         h.Size,
		PayloadStart: offset + containerHeaderLen,
		PayloadEnd:   min(offset+8+int64(h.Size), c.Len()),
	}
	c.order = order
	return b, nil
}
