package rifx

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding"
)

const stxtHeaderLen = 12

// Stxt is a decoded plain text resource.
type Stxt struct {
	Text       string
	Formatting []byte
}

// DecodeStxt decodes an STXT payload: big-endian header length, text length
// and formatting length, then the text at the header length. Lengths that
// run past the payload are clamped.
func DecodeStxt(b []byte, enc encoding.Encoding) (Stxt, error) {
	if len(b) < stxtHeaderLen {
		return Stxt{}, fmt.Errorf("%w: STXT payload is %d bytes", ErrInvalidPayload, len(b))
	}
	headerLen := binary.BigEndian.Uint32(b[0:4])
	textLen := binary.BigEndian.Uint32(b[4:8])
	formatLen := binary.BigEndian.Uint32(b[8:12])
	if headerLen < stxtHeaderLen || uint64(headerLen) > uint64(len(b)) {
		return Stxt{}, fmt.Errorf("%w: STXT header length %d", ErrInvalidPayload, headerLen)
	}
	rest := b[headerLen:]
	text := rest[:min(uint64(textLen), uint64(len(rest)))]
	rest = rest[len(text):]
	format := rest[:min(uint64(formatLen), uint64(len(rest)))]

	s, err := enc.NewDecoder().Bytes(text)
	if err != nil {
		return Stxt{}, fmt.Errorf("%w: STXT text: %v", ErrInvalidPayload, err)
	}
	return Stxt{Text: string(s), Formatting: append([]byte(nil), format...)}, nil
}
