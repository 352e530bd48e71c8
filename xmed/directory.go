package xmed

import (
	"fmt"
	"strconv"
)

const (
	directoryOffset = 0x50
	tokenLen        = 20
)

const (
	keyText   = "0002"
	keyFonts  = "0003"
	keyRunMap = "0004"
	keyStyles = "0008"
)

type region struct {
	Offset int
	Length int
	// Token is where the directory token for this region starts.
	Token int
	// Last reports whether the token ends the directory.
	Last bool
}

// directory maps four-digit keys to regions of the buffer. The first token
// for a key wins.
type directory map[string]region

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func isDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(b) > 0
}

// readDirectory parses key(4) offset(8) length(8) hex tokens starting at
// 0x50. Tokens are separated by ',' and the list ends with NUL.
func readDirectory(b []byte) (directory, error) {
	dir := directory{}
	pos := directoryOffset
	for {
		if pos >= len(b) {
			return nil, fmt.Errorf("%w: directory not terminated", ErrFormatMismatch)
		}
		if b[pos] == 0 {
			return dir, nil
		}
		if pos+tokenLen > len(b) {
			return nil, fmt.Errorf("%w: directory token at %#x truncated", ErrFormatMismatch, pos)
		}
		tok := b[pos : pos+tokenLen]
		for _, c := range tok {
			if !isHex(c) {
				return nil, fmt.Errorf("%w: directory token %q at %#x", ErrFormatMismatch, tok, pos)
			}
		}
		off, _ := strconv.ParseUint(string(tok[4:12]), 16, 32)
		n, _ := strconv.ParseUint(string(tok[12:20]), 16, 32)
		if off+n > uint64(len(b)) {
			return nil, fmt.Errorf("%w: region %s (%#x+%d) outside buffer", ErrFormatMismatch, tok[:4], off, n)
		}
		if pos+tokenLen >= len(b) {
			return nil, fmt.Errorf("%w: directory not terminated", ErrFormatMismatch)
		}
		key := string(tok[:4])
		if _, seen := dir[key]; !seen {
			dir[key] = region{Offset: int(off), Length: int(n), Token: pos, Last: b[pos+tokenLen] == 0}
		}
		pos += tokenLen
		switch sep := b[pos]; sep {
		case 0:
			return dir, nil
		case ',':
			pos++
		default:
			return nil, fmt.Errorf("%w: directory separator %#02x at %#x", ErrFormatMismatch, sep, pos)
		}
	}
}

// trailer returns the bytes following the NUL that ends the directory when
// key holds the last token. Some writers put the text block there and leave
// the token's offset pointing elsewhere.
func (d directory) trailer(b []byte, key string) ([]byte, bool) {
	r, ok := d[key]
	if !ok || !r.Last {
		return nil, false
	}
	return b[r.Token+tokenLen+1:], true
}

func (d directory) bytes(b []byte, key string) ([]byte, bool) {
	r, ok := d[key]
	if !ok {
		return nil, false
	}
	return b[r.Offset : r.Offset+r.Length], true
}
