package xmed

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-restruct/restruct"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

var ErrFormatMismatch = errors.New("xmed: format mismatch")

// Magic is the first four bytes of an XMED buffer.
var Magic = [4]byte{'D', 'E', 'M', 'X'}

const headerLen = 0x50

const (
	flagBold        = 0x01
	flagItalic      = 0x02
	flagUnderline   = 0x04
	flagStrikeout   = 0x08
	flagSubscript   = 0x10
	flagSuperscript = 0x20
	flagTabbed      = 0x40
	flagEditable    = 0x80

	alignMask    = 0x03
	alignWrapOff = 0x08
	alignHasTabs = 0x10
)

// fixedHeader mirrors the first 0x50 bytes, little-endian.
type fixedHeader struct {
	Magic       [4]byte
	Reserved0   [20]byte
	Width       uint32
	StyleFlags  uint8
	AlignFlags  uint8
	Reserved1   [30]byte
	LineSpacing uint16
	Reserved2   [2]byte
	FontSize    uint16
	Reserved3   [10]byte
	TextLength  uint32
}

type Option func(*Reader)

// WithEncoding sets the single-byte code page for text and font names.
// The default is ISO 8859-1.
func WithEncoding(enc encoding.Encoding) Option {
	return func(r *Reader) { r.enc = enc }
}

type Reader struct {
	enc encoding.Encoding
}

func NewReader(opts ...Option) *Reader {
	r := &Reader{enc: charmap.ISO8859_1}
	for _, opt := range opts {
		opt(r)
	}
	if r.enc == nil {
		r.enc = charmap.ISO8859_1
	}
	return r
}

// Read decodes b with the default options.
func Read(b []byte) (*Document, error) {
	return NewReader().Read(b)
}

// Read decodes one XMED buffer. A buffer that is not XMED (short header,
// wrong magic, unparseable directory) fails with ErrFormatMismatch. A valid
// directory without a usable text region gives an empty Document and a nil
// error.
func (r *Reader) Read(b []byte) (*Document, error) {
	h, err := readHeader(b)
	if err != nil {
		return nil, err
	}
	dir, err := readDirectory(b)
	if err != nil {
		return nil, err
	}
	doc := &Document{Header: h}
	if region, ok := dir.bytes(b, keyFonts); ok {
		doc.Fonts = r.readFonts(region)
	}
	doc.Styles = []Style{baseStyle(h, doc.Fonts)}
	if region, ok := dir.bytes(b, keyStyles); ok {
		doc.Styles = append(doc.Styles, r.readStyles(region, h, doc.Fonts)...)
	}

	region, ok := dir.bytes(b, keyText)
	if !ok {
		return doc, nil
	}
	blocks := splitTextBlocks(region)
	if len(blocks) == 0 {
		if tail, ok := dir.trailer(b, keyText); ok {
			blocks = splitTextBlocks(tail)
		}
	}
	if len(blocks) == 0 {
		return doc, nil
	}
	var text []rune
	for _, blk := range blocks {
		s, err := r.enc.NewDecoder().Bytes(blk)
		if err != nil {
			break
		}
		seg := []rune(string(s))
		doc.Segments = append(doc.Segments, Segment{Start: len(text), Length: len(seg), Text: string(seg)})
		text = append(text, seg...)
	}
	doc.Text = string(text)

	var raw []MapEntry
	if region, ok := dir.bytes(b, keyRunMap); ok {
		raw = readRunMap(region)
	}
	doc.MapEntries = normalizeMap(raw, len(text), len(doc.Styles))
	doc.Runs = buildRuns(text, doc.MapEntries, doc.Styles)
	return doc, nil
}

func readHeader(b []byte) (Header, error) {
	if len(b) < headerLen {
		return Header{}, fmt.Errorf("%w: %d bytes is shorter than the header", ErrFormatMismatch, len(b))
	}
	var fh fixedHeader
	if err := restruct.Unpack(b[:headerLen], binary.LittleEndian, &fh); err != nil {
		return Header{}, fmt.Errorf("%w: header: %v", ErrFormatMismatch, err)
	}
	if fh.Magic != Magic {
		return Header{}, fmt.Errorf("%w: magic %q", ErrFormatMismatch, fh.Magic[:])
	}
	return Header{
		Width:       fh.Width,
		StyleFlags:  fh.StyleFlags,
		AlignFlags:  fh.AlignFlags,
		LineSpacing: fh.LineSpacing,
		FontSize:    fh.FontSize,
		TextLength:  fh.TextLength,
		Editable:    fh.StyleFlags&flagEditable != 0,
		WrapOff:     fh.AlignFlags&alignWrapOff != 0,
	}, nil
}

func applyFlags(s *Style, flags, align byte) {
	s.Bold = flags&flagBold != 0
	s.Italic = flags&flagItalic != 0
	s.Underline = flags&flagUnderline != 0
	s.Strikeout = flags&flagStrikeout != 0
	s.Subscript = flags&flagSubscript != 0
	s.Superscript = flags&flagSuperscript != 0
	s.HasTabs = flags&flagTabbed != 0 || align&alignHasTabs != 0
	s.Alignment = Alignment(align & alignMask)
}

func baseStyle(h Header, fonts []Font) Style {
	s := Style{FontSize: h.FontSize}
	if len(fonts) > 0 {
		s.FontName = fonts[0].Name
	}
	applyFlags(&s, h.StyleFlags, h.AlignFlags)
	return s
}

// readFonts reads "40," + color + name + NUL records. NUL padding between
// records is skipped; anything else ends the table.
func (r *Reader) readFonts(b []byte) []Font {
	var fonts []Font
	for i := 0; i < len(b); {
		if b[i] == 0 {
			i++
			continue
		}
		if !bytes.HasPrefix(b[i:], []byte("40,")) || i+4 > len(b) {
			break
		}
		color := b[i+3]
		name := b[i+4:]
		if n := bytes.IndexByte(name, 0); n >= 0 {
			name = name[:n]
		}
		fonts = append(fonts, Font{Name: r.decodeString(name), Color: color})
		i += 4 + len(name) + 1
	}
	return fonts
}

// readStyles reads descriptors: flags, alignment, then styleID(4)
// fontIndex(4) fontSize(4) colorIndex(4) reserved(4) as decimal, then NUL.
func (r *Reader) readStyles(b []byte, h Header, fonts []Font) []Style {
	const recLen = 2 + tokenLen + 1
	var styles []Style
	for i := 0; i+recLen <= len(b); i += recLen {
		digits := b[i+2 : i+2+tokenLen]
		if !isDigits(digits) || b[i+2+tokenLen] != 0 {
			break
		}
		f := decimalFields(digits)
		s := Style{FontSize: uint16(f[2]), ColorIndex: f[3]}
		if s.FontSize == 0 {
			s.FontSize = h.FontSize
		}
		if f[1] < len(fonts) {
			s.FontName = fonts[f[1]].Name
		} else if len(fonts) > 0 {
			s.FontName = fonts[0].Name
		}
		applyFlags(&s, b[i], b[i+1])
		styles = append(styles, s)
	}
	return styles
}

// readRunMap reads f1(4) f2(4) length(4) f4(4) styleIndex(4) decimal
// entries, each followed by NUL.
func readRunMap(b []byte) []MapEntry {
	var out []MapEntry
	for i := 0; i+tokenLen <= len(b); {
		digits := b[i : i+tokenLen]
		if !isDigits(digits) {
			break
		}
		f := decimalFields(digits)
		out = append(out, MapEntry{TextLength: f[2], StyleIndex: f[4]})
		i += tokenLen
		if i < len(b) && b[i] == 0 {
			i++
		}
	}
	return out
}

// decimalFields splits 20 digits into five four-digit numbers.
func decimalFields(d []byte) [5]int {
	var f [5]int
	for k := range f {
		n, _ := strconv.Atoi(string(d[k*4 : k*4+4]))
		f[k] = n
	}
	return f
}

// splitTextBlocks returns the payload of every "<len>,<bytes>" block. An
// invalid first block yields nothing; an invalid later block ends the list.
func splitTextBlocks(b []byte) [][]byte {
	var blocks [][]byte
	for i := 0; i < len(b); {
		if b[i] == 0 {
			break
		}
		comma := bytes.IndexByte(b[i:], ',')
		if comma <= 0 || comma > 10 {
			break
		}
		n, ok := parseLength(string(b[i : i+comma]))
		start := i + comma + 1
		if !ok || start+n > len(b) {
			break
		}
		blocks = append(blocks, b[start:start+n])
		i = start + n
		if i < len(b) && (b[i] == 0x00 || b[i] == 0x03) {
			i++
		}
	}
	return blocks
}

// parseLength reads a block length: hex when prefixed 0x or when it holds a
// hex letter, decimal otherwise.
func parseLength(s string) (int, bool) {
	base := 10
	if t, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		s, base = t, 16
	} else if strings.ContainsAny(strings.ToLower(s), "abcdef") {
		base = 16
	}
	n, err := strconv.ParseUint(s, base, 31)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func (r *Reader) decodeString(b []byte) string {
	s, err := r.enc.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}
