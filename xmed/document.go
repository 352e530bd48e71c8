package xmed

type Alignment uint8

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "left"
	}
}

// Header is the fixed block at the start of every XMED buffer.
type Header struct {
	Width       uint32
	StyleFlags  byte
	AlignFlags  byte
	LineSpacing uint16
	FontSize    uint16
	TextLength  uint32 // hint only; the text region is authoritative
	Editable    bool
	WrapOff     bool
}

type Style struct {
	FontName    string
	FontSize    uint16
	Bold        bool
	Italic      bool
	Underline   bool
	Strikeout   bool
	Subscript   bool
	Superscript bool
	HasTabs     bool
	ColorIndex  int
	Alignment   Alignment
}

type Font struct {
	Name  string
	Color byte
}

// MapEntry assigns Styles[StyleIndex] to the next TextLength characters.
type MapEntry struct {
	TextLength int
	StyleIndex int
}

// Run is a maximal span sharing one style that does not continue past a
// carriage return. Start and Length count characters, not bytes.
type Run struct {
	Start      int
	Length     int
	Text       string
	FontName   string
	FontSize   uint16
	StyleIndex int
	Style      Style
}

// Segment is one text block as stored in the source buffer.
type Segment struct {
	Start  int
	Length int
	Text   string
}

// Document is the result of decoding one XMED buffer. Styles[0] is the
// base style from the header; descriptors follow in declaration order.
type Document struct {
	Header     Header
	Text       string
	Runs       []Run
	Styles     []Style
	MapEntries []MapEntry
	Segments   []Segment
	Fonts      []Font
}

// Paragraphs splits Text on carriage returns. A trailing separator does not
// produce an empty final paragraph.
func (d *Document) Paragraphs() []string {
	if d.Text == "" {
		return nil
	}
	var out []string
	start := 0
	for i, r := range d.Text {
		if r == '\r' {
			out = append(out, d.Text[start:i])
			start = i + 1
		}
	}
	if start < len(d.Text) {
		out = append(out, d.Text[start:])
	}
	return out
}
