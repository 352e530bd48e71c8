package rifx

import (
	"fmt"
	"sort"
)

// StorageKind selects the payload loader for a resource entry.
type StorageKind uint8

const (
	StorageClassic StorageKind = iota
	StorageAfterburner
)

func (k StorageKind) String() string {
	if k == StorageAfterburner {
		return "afterburner"
	}
	return "classic"
}

// InlineOffset marks an Afterburner entry whose bytes live in the inline
// segment table instead of the body.
const InlineOffset int64 = -1

// inlineContainerID is the resource holding every inline segment.
const inlineContainerID = 2

// NoCompression is the CompressionIndex of entries stored as-is.
const NoCompression = -1

// ResourceEntry describes where one resource's bytes live. Classic offsets
// are absolute and point at the resource's own chunk header; Afterburner
// offsets are relative to the FGEI body.
type ResourceEntry struct {
	ID               int
	Tag              Tag
	Offset           int64
	CompressedSize   uint32
	UncompressedSize uint32
	CompressionIndex int
	Storage          StorageKind
	Flags            uint16
}

func (e ResourceEntry) Inline() bool {
	return e.Storage == StorageAfterburner && e.Offset == InlineOffset
}

// Free reports mmap slots that hold no resource.
func (e ResourceEntry) Free() bool {
	return e.Tag == TagFree || e.Tag == TagJunk
}

// KeyLink is one KEY* relationship: ParentID (usually a CASt) owns ChildID.
type KeyLink struct {
	ChildID  int
	ParentID int
	Tag      Tag
}

type InlineSegment struct {
	ResourceID int
	Bytes      []byte
}

// AfterburnerState holds the absolute offset resource bodies are relative to.
type AfterburnerState struct {
	BodyOffset int64
}

// ResourceTable maps resource ids to entries and records KEY* ownership.
// It is built once by Open and read-only afterwards.
type ResourceTable struct {
	entries  []ResourceEntry
	byID     map[int]int
	children map[int][]KeyLink
	parent   map[int]KeyLink
	inline   map[int][]byte
}

func newResourceTable() *ResourceTable {
	return &ResourceTable{
		byID:     make(map[int]int),
		children: make(map[int][]KeyLink),
		parent:   make(map[int]KeyLink),
		inline:   make(map[int][]byte),
	}
}

func (t *ResourceTable) add(e ResourceEntry) error {
	if _, dup := t.byID[e.ID]; dup {
		return fmt.Errorf("%w: duplicate resource id %d", ErrInvalidMap, e.ID)
	}
	t.byID[e.ID] = len(t.entries)
	t.entries = append(t.entries, e)
	return nil
}

// Lookup returns the entry for id. A miss is a normal outcome.
func (t *ResourceTable) Lookup(id int) (ResourceEntry, bool) {
	i, ok := t.byID[id]
	if !ok {
		return ResourceEntry{}, false
	}
	return t.entries[i], true
}

func (t *ResourceTable) Len() int { return len(t.entries) }

// Entries returns all entries in map order.
func (t *ResourceTable) Entries() []ResourceEntry {
	return append([]ResourceEntry(nil), t.entries...)
}

func (t *ResourceTable) ByTag(tag Tag) []ResourceEntry {
	var out []ResourceEntry
	for _, e := range t.entries {
		if e.Tag == tag {
			out = append(out, e)
		}
	}
	return out
}

func (t *ResourceTable) first(tag Tag) (ResourceEntry, bool) {
	for _, e := range t.entries {
		if e.Tag == tag {
			return e, true
		}
	}
	return ResourceEntry{}, false
}

// link records l. A child keeps the first parent it was linked to.
func (t *ResourceTable) link(l KeyLink) {
	t.children[l.ParentID] = append(t.children[l.ParentID], l)
	if _, ok := t.parent[l.ChildID]; !ok {
		t.parent[l.ChildID] = l
	}
}

func (t *ResourceTable) Children(parentID int) []KeyLink {
	return append([]KeyLink(nil), t.children[parentID]...)
}

func (t *ResourceTable) Parent(childID int) (KeyLink, bool) {
	l, ok := t.parent[childID]
	return l, ok
}

// ParentIDs returns every resource id that owns at least one child, ascending.
func (t *ResourceTable) ParentIDs() []int {
	ids := make([]int, 0, len(t.children))
	for id := range t.children {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (t *ResourceTable) setInline(id int, b []byte) {
	t.inline[id] = b
}

func (t *ResourceTable) InlineSegment(id int) ([]byte, bool) {
	b, ok := t.inline[id]
	return b, ok
}

// InlineSegments returns the inline segment table ordered by resource id.
func (t *ResourceTable) InlineSegments() []InlineSegment {
	out := make([]InlineSegment, 0, len(t.inline))
	for id, b := range t.inline {
		out = append(out, InlineSegment{ResourceID: id, Bytes: b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ResourceID < out[j].ResourceID })
	return out
}
