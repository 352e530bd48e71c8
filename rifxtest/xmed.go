package rifxtest

import (
	"encoding/binary"
	"fmt"
)

type XmedFont struct {
	Name  string
	Color byte
}

type XmedStyle struct {
	Flags      byte
	Align      byte
	FontIndex  int
	FontSize   int
	ColorIndex int
}

type XmedMapEntry struct {
	Length     int
	StyleIndex int
}

// Xmed describes an XMED buffer. Blocks are raw single-byte strings; a nil
// Blocks slice omits the text region entirely.
type Xmed struct {
	Width       uint32
	StyleFlags  byte
	AlignFlags  byte
	LineSpacing uint16
	FontSize    uint16
	Blocks      []string
	HexLengths  bool
	Fonts       []XmedFont
	Styles      []XmedStyle
	Map         []XmedMapEntry
}

// Bytes lays out the header, the hex directory at 0x50 and the regions it
// points to.
func (x Xmed) Bytes() []byte {
	type region struct {
		key  string
		data []byte
	}
	var regions []region

	if x.Blocks != nil {
		var text []byte
		for _, blk := range x.Blocks {
			if x.HexLengths {
				text = append(text, fmt.Sprintf("0x%x,", len(blk))...)
			} else {
				text = append(text, fmt.Sprintf("%d,", len(blk))...)
			}
			text = append(text, blk...)
			text = append(text, 0)
		}
		regions = append(regions, region{"0002", text})
	}
	if len(x.Fonts) > 0 {
		var fonts []byte
		for _, f := range x.Fonts {
			fonts = append(fonts, '4', '0', ',', f.Color)
			fonts = append(fonts, f.Name...)
			fonts = append(fonts, 0)
		}
		regions = append(regions, region{"0003", fonts})
	}
	if len(x.Map) > 0 {
		var m []byte
		for _, e := range x.Map {
			m = append(m, fmt.Sprintf("%04d%04d%04d%04d%04d", 0, 0, e.Length, 0, e.StyleIndex)...)
			m = append(m, 0)
		}
		regions = append(regions, region{"0004", m})
	}
	if len(x.Styles) > 0 {
		var s []byte
		for i, st := range x.Styles {
			s = append(s, st.Flags, st.Align)
			s = append(s, fmt.Sprintf("%04d%04d%04d%04d%04d", i+1, st.FontIndex, st.FontSize, st.ColorIndex, 0)...)
			s = append(s, 0)
		}
		regions = append(regions, region{"0008", s})
	}

	textLen := 0
	for _, blk := range x.Blocks {
		textLen += len(blk)
	}
	b := make([]byte, 0x50)
	copy(b, "DEMX")
	binary.LittleEndian.PutUint32(b[0x18:], x.Width)
	b[0x1C] = x.StyleFlags
	b[0x1D] = x.AlignFlags
	binary.LittleEndian.PutUint16(b[0x3C:], x.LineSpacing)
	binary.LittleEndian.PutUint16(b[0x40:], x.FontSize)
	binary.LittleEndian.PutUint32(b[0x4C:], uint32(textLen))

	off := 0x50 + len(regions)*21
	for i, r := range regions {
		b = append(b, fmt.Sprintf("%s%08x%08x", r.key, off, len(r.data))...)
		if i == len(regions)-1 {
			b = append(b, 0)
		} else {
			b = append(b, ',')
		}
		off += len(r.data)
	}
	if len(regions) == 0 {
		b = append(b, 0)
	}
	for _, r := range regions {
		b = append(b, r.data...)
	}
	return b
}
func XmedBuffer(x Xmed) []byte { return x.Bytes() }
