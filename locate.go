package rifx

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

var projectorMarkers = []Tag{TagOf("PJ93"), TagOf("PJ95"), TagOf("PJ00"), TagOf("PJ01")}

func isContainerMagic(b []byte) bool {
	if len(b) < 4 {
		return false
	}
	t := Tag([4]byte(b))
	return t == TagRIFX || t == TagXFIR
}

// locateRifx finds the container header. Projector executables start with a
// marker followed by the movie offset; anything else is scanned for the
// first RIFX or XFIR.
func locateRifx(r io.ReaderAt, size int64) (int64, error) {
	var head [8]byte
	n, _ := r.ReadAt(head[:], 0)
	if n < 4 {
		return 0, fmt.Errorf("%w: stream too small for a container header", ErrInvalidHeader)
	}
	if isContainerMagic(head[:4]) {
		return 0, nil
	}
	marker := Tag([4]byte(head[:4]))
	for _, m := range projectorMarkers {
		if marker != m {
			continue
		}
		if n < 8 {
			return 0, fmt.Errorf("%w: projector header truncated", ErrInvalidHeader)
		}
		for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
			off := int64(order.Uint32(head[4:8]))
			if validContainerOffset(r, size, off) {
				return off, nil
			}
		}
		return 0, fmt.Errorf("%w: projector header has no valid movie offset", ErrInvalidHeader)
	}
	if off, ok := scanForMagic(r, size); ok {
		return off, nil
	}
	return 0, fmt.Errorf("%w: no RIFX or XFIR magic found", ErrInvalidHeader)
}

func validContainerOffset(r io.ReaderAt, size, off int64) bool {
	if off >= size {
		return false
	}
	var b [4]byte
	if n, _ := r.ReadAt(b[:], off); n < 4 {
		return false
	}
	return isContainerMagic(b[:])
}

func scanForMagic(r io.ReaderAt, size int64) (int64, bool) {
	br := bufio.NewReaderSize(io.NewSectionReader(r, 0, size), 64<<10)
	var window [4]byte
	for i := int64(0); ; i++ {
		b, err := br.ReadByte()
		if err != nil {
			return 0, false
		}
		window[0], window[1], window[2], window[3] = window[1], window[2], window[3], b
		if i >= 3 && isContainerMagic(window[:]) {
			return i - 3, true
		}
	}
}
