package rifx

import (
	"encoding/binary"
	"fmt"

	"github.com/go-restruct/restruct"
)

const (
	keyHeaderLen    = 12
	keyMinRecordLen = 12
)

type keyTableHeader struct {
	EntrySize  uint16
	EntrySize2 uint16
	Total      uint32
	Used       uint32
}

type keyRecord struct {
	ChildID  uint32
	ParentID uint32
	Tag      [4]byte
}

// parseKeyTable decodes a KEY* payload into ownership links. Records past
// the end of the payload are dropped rather than reported.
func parseKeyTable(b []byte, order binary.ByteOrder) ([]KeyLink, error) {
	if len(b) < keyHeaderLen {
		return nil, fmt.Errorf("%w: KEY* payload is %d bytes", ErrInvalidPayload, len(b))
	}
	var h keyTableHeader
	if err := restruct.Unpack(b[:keyHeaderLen], order, &h); err != nil {
		return nil, fmt.Errorf("%w: KEY* header: %v", ErrInvalidPayload, err)
	}
	stride := int(h.EntrySize)
	if stride < keyMinRecordLen {
		stride = keyMinRecordLen
	}
	count := min(int(h.Used), (len(b)-keyHeaderLen)/stride)
	links := make([]KeyLink, 0, count)
	for i := 0; i < count; i++ {
		start := keyHeaderLen + i*stride
		var rec keyRecord
		if err := restruct.Unpack(b[start:start+keyMinRecordLen], order, &rec); err != nil {
			return nil, fmt.Errorf("%w: KEY* record %d: %v", ErrInvalidPayload, i, err)
		}
		links = append(links, KeyLink{
			ChildID:  int(rec.ChildID),
			ParentID: int(rec.ParentID),
			Tag:      fileTag(rec.Tag, order),
		})
	}
	return links, nil
}
