package rifx

import (
	"encoding/binary"
	"log/slog"
)

// ScriptKind is the script type a script cast member declares.
type ScriptKind uint16

const (
	ScriptUnknown  ScriptKind = 0
	ScriptBehavior ScriptKind = 1
	ScriptMovie    ScriptKind = 3
	ScriptParent   ScriptKind = 7
)

func (k ScriptKind) String() string {
	switch k {
	case ScriptBehavior:
		return "behavior"
	case ScriptMovie:
		return "movie"
	case ScriptParent:
		return "parent"
	}
	return "unknown"
}

// scriptKindOf reads the selector word at the start of a script member's
// specific data.
func scriptKindOf(specific []byte) ScriptKind {
	var v uint16
	switch {
	case len(specific) >= 2:
		v = binary.BigEndian.Uint16(specific)
	case len(specific) == 1:
		v = uint16(specific[0])
	default:
		return ScriptUnknown
	}
	switch k := ScriptKind(v); k {
	case ScriptBehavior, ScriptMovie, ScriptParent:
		return k
	}
	return ScriptUnknown
}

// Script is a compiled Lscr payload. CastMemberID is -1 when no script cast
// member refers to it.
type Script struct {
	ResourceID   int
	CastMemberID int
	Kind         ScriptKind
	Name         string
	Bytes        []byte
}

type scriptOwner struct {
	memberID int
	kind     ScriptKind
	name     string
}

const scriptIDOffset = 8

// scriptResourceID reads the Lscr id from a script member's info block. It is
// big-endian in every file seen so far; little-endian is tried when the
// big-endian value names no resource.
func (a *Archive) scriptResourceID(info []byte) int {
	if len(info) < scriptIDOffset+4 {
		return 0
	}
	for _, order := range []binary.ByteOrder{binary.BigEndian, binary.LittleEndian} {
		id := int(int32(order.Uint32(info[scriptIDOffset:])))
		if id == 0 {
			continue
		}
		if _, ok := a.resources.Lookup(id); ok {
			return id
		}
	}
	return 0
}

// scriptOwners maps Lscr ids to the first script cast member naming them.
func (a *Archive) scriptOwners() map[int]scriptOwner {
	out := map[int]scriptOwner{}
	for _, e := range a.resources.ByTag(TagCastMem) {
		b := a.loadQuiet(e)
		if len(b) == 0 {
			continue
		}
		h, info, specific, err := splitCastMember(b)
		if err != nil || CastMemberType(h.Type) != CastScript {
			continue
		}
		id := a.scriptResourceID(info)
		if id == 0 {
			continue
		}
		if _, seen := out[id]; !seen {
			out[id] = scriptOwner{memberID: e.ID, kind: scriptKindOf(specific), name: memberName(info, a.decodeName)}
		}
	}
	return out
}

// ReadScripts returns every non-empty Lscr resource in map order, typed and
// named from the script cast member whose info block refers to it. Scripts
// without such a member fall back to their KEY* parent for ownership.
func (a *Archive) ReadScripts() []Script {
	owners := a.scriptOwners()
	var out []Script
	for _, e := range a.resources.ByTag(TagLscr) {
		b := a.loadQuiet(e)
		if len(b) == 0 {
			continue
		}
		s := Script{ResourceID: e.ID, CastMemberID: -1, Bytes: b}
		if o, ok := owners[e.ID]; ok {
			s.CastMemberID, s.Kind, s.Name = o.memberID, o.kind, o.name
		} else if l, ok := a.resources.Parent(e.ID); ok {
			s.CastMemberID = l.ParentID
		}
		out = append(out, s)
	}
	a.log.Debug("scripts read", slog.Int("count", len(out)))
	return out
}
