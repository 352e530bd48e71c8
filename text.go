package rifx

import (
	"fmt"
	"log/slog"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/logicossoftware/go-rifx/xmed"
)

type TextFormat uint8

const (
	TextUnknown TextFormat = iota
	TextStxt
	TextXmed
)

func (f TextFormat) String() string {
	switch f {
	case TextStxt:
		return "stxt"
	case TextXmed:
		return "xmed"
	default:
		return "unknown"
	}
}

func textFormatOf(tag Tag) TextFormat {
	switch tag {
	case TagSTXT:
		return TextStxt
	case TagXMED:
		return TextXmed
	}
	return TextUnknown
}

// Text is the raw payload of an STXT or XMED resource.
type Text struct {
	ResourceID int
	Format     TextFormat
	Bytes      []byte

	enc encoding.Encoding
}

// Field is a text resource owned by a field cast member.
type Field struct {
	Text
	CastMemberID int
	Name         string
}

// Document decodes the text into the styled model. STXT payloads become a
// single unstyled run per paragraph.
func (t Text) Document() (*xmed.Document, error) {
	enc := t.enc
	if enc == nil {
		enc = charmap.ISO8859_1
	}
	switch t.Format {
	case TextXmed:
		doc, err := xmed.NewReader(xmed.WithEncoding(enc)).Read(t.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: resource %d: %w", ErrFormatMismatch, t.ResourceID, err)
		}
		return doc, nil
	case TextStxt:
		s, err := DecodeStxt(t.Bytes, enc)
		if err != nil {
			return nil, fmt.Errorf("resource %d: %w", t.ResourceID, err)
		}
		return xmed.FromPlain(s.Text), nil
	}
	return nil, fmt.Errorf("%w: resource %d is not a text resource", ErrFormatMismatch, t.ResourceID)
}

// fieldMember returns the field cast member that owns resource id.
func (a *Archive) fieldMember(id int, members map[int]CastMember) (CastMember, bool) {
	l, ok := a.resources.Parent(id)
	if !ok {
		return CastMember{}, false
	}
	m, ok := members[l.ParentID]
	if !ok || m.Type != CastField {
		return CastMember{}, false
	}
	return m, true
}

func (a *Archive) isText(e ResourceEntry) bool {
	return e.Tag == TagSTXT || e.Tag == TagXMED
}

// ReadTexts returns every STXT and XMED resource that does not belong to a
// field cast member, in map order. Resources that fail to load are skipped.
func (a *Archive) ReadTexts() []Text {
	members := a.castMembers()
	var out []Text
	for _, e := range a.resources.entries {
		if !a.isText(e) {
			continue
		}
		if _, ok := a.fieldMember(e.ID, members); ok {
			continue
		}
		b := a.loadQuiet(e)
		if b == nil {
			continue
		}
		out = append(out, Text{ResourceID: e.ID, Format: textFormatOf(e.Tag), Bytes: b, enc: a.cfg.encoding})
	}
	return out
}

// ReadFields returns one text per field cast member, ordered by member id.
// When a member owns both an XMED and an STXT child the XMED wins.
func (a *Archive) ReadFields() []Field {
	members := a.castMembers()
	chosen := map[int]ResourceEntry{}
	var order []int
	for _, e := range a.resources.entries {
		if !a.isText(e) {
			continue
		}
		m, ok := a.fieldMember(e.ID, members)
		if !ok {
			continue
		}
		prev, seen := chosen[m.ResourceID]
		if !seen {
			order = append(order, m.ResourceID)
		}
		if !seen || prev.Tag != TagXMED && e.Tag == TagXMED {
			chosen[m.ResourceID] = e
		}
	}

	var out []Field
	for _, mid := range sortedInts(order) {
		e := chosen[mid]
		b := a.loadQuiet(e)
		if b == nil {
			continue
		}
		out = append(out, Field{
			Text:         Text{ResourceID: e.ID, Format: textFormatOf(e.Tag), Bytes: b, enc: a.cfg.encoding},
			CastMemberID: mid,
			Name:         members[mid].Name,
		})
	}
	a.log.Debug("fields read", slog.Int("count", len(out)))
	return out
}
