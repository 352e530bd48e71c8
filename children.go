package rifx

// childPicker selects at most one payload per owning resource for a domain
// reader. Children are tried in tag preference order and each candidate is
// loaded before it is chosen, so an empty or rejected child gives way to the
// next one. Chosen ids are recorded in done and never offered again.
type childPicker struct {
	a      *Archive
	tags   []Tag
	done   map[int]bool
	accept func(e ResourceEntry, b []byte) bool
	// extra admits children outside tags; they are tried last, in KEY* order.
	extra func(ResourceEntry) bool
}

func (p *childPicker) try(id int) (ResourceEntry, []byte, bool) {
	if p.done[id] {
		return ResourceEntry{}, nil, false
	}
	e, ok := p.a.resources.Lookup(id)
	if !ok {
		return ResourceEntry{}, nil, false
	}
	b := p.a.loadQuiet(e)
	if len(b) == 0 {
		return ResourceEntry{}, nil, false
	}
	if p.accept != nil && !p.accept(e, b) {
		return ResourceEntry{}, nil, false
	}
	p.done[id] = true
	return e, b, true
}

func (p *childPicker) pick(parentID int) (ResourceEntry, []byte, bool) {
	links := p.a.resources.Children(parentID)
	for _, tag := range p.tags {
		for _, l := range links {
			if l.Tag != tag {
				continue
			}
			if e, b, ok := p.try(l.ChildID); ok {
				return e, b, true
			}
		}
	}
	if p.extra == nil {
		return ResourceEntry{}, nil, false
	}
	for _, l := range links {
		if tagIn(l.Tag, p.tags) {
			continue
		}
		e, ok := p.a.resources.Lookup(l.ChildID)
		if !ok || !p.extra(e) {
			continue
		}
		if e, b, ok := p.try(l.ChildID); ok {
			return e, b, true
		}
	}
	return ResourceEntry{}, nil, false
}

func tagIn(t Tag, tags []Tag) bool {
	for _, s := range tags {
		if s == t {
			return true
		}
	}
	return false
}
