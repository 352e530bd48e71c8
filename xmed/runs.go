package xmed

// normalizeMap makes the entries cover exactly textLen characters: overlong
// entries are clamped, a short map is extended through its last entry, an
// empty one gets a single base-style entry. Style indexes outside styles
// fall back to the base style.
func normalizeMap(entries []MapEntry, textLen, styles int) []MapEntry {
	out := make([]MapEntry, 0, len(entries)+1)
	remaining := textLen
	for _, e := range entries {
		if remaining == 0 {
			break
		}
		n := min(max(e.TextLength, 0), remaining)
		if n == 0 {
			continue
		}
		idx := e.StyleIndex
		if idx < 0 || idx >= styles {
			idx = 0
		}
		out = append(out, MapEntry{TextLength: n, StyleIndex: idx})
		remaining -= n
	}
	if remaining > 0 {
		if len(out) > 0 {
			out[len(out)-1].TextLength += remaining
		} else {
			out = append(out, MapEntry{TextLength: remaining})
		}
	}
	return out
}

// buildRuns cuts text into runs. A run ends where the map switches to a
// different style and right after every carriage return, so a '\r' is only
// ever the last character of a run.
func buildRuns(text []rune, entries []MapEntry, styles []Style) []Run {
	var runs []Run
	start, pos, cur := 0, 0, -1
	flush := func() {
		if pos > start {
			s := styles[cur]
			runs = append(runs, Run{
				Start:      start,
				Length:     pos - start,
				Text:       string(text[start:pos]),
				FontName:   s.FontName,
				FontSize:   s.FontSize,
				StyleIndex: cur,
				Style:      s,
			})
		}
		start = pos
	}
	for _, e := range entries {
		if e.StyleIndex != cur {
			flush()
			cur = e.StyleIndex
		}
		for k := 0; k < e.TextLength && pos < len(text); k++ {
			pos++
			if text[pos-1] == '\r' {
				flush()
			}
		}
	}
	flush()
	return runs
}

// FromPlain wraps unstyled text, such as a decoded STXT resource, in a
// Document with a single default style.
func FromPlain(text string) *Document {
	runes := []rune(text)
	doc := &Document{Text: text, Styles: []Style{{}}}
	if len(runes) == 0 {
		return doc
	}
	doc.Segments = []Segment{{Start: 0, Length: len(runes), Text: text}}
	doc.MapEntries = normalizeMap(nil, len(runes), 1)
	doc.Runs = buildRuns(runes, doc.MapEntries, doc.Styles)
	return doc
}
