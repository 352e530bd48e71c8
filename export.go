package rifx

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Resource is one exported payload.
type Resource struct {
	Entry    ResourceEntry
	Name     string
	Bytes    []byte
	Checksum uint64 // xxhash64 of Bytes
}

// exportable reports entries that carry a real resource payload.
func exportable(e ResourceEntry) bool {
	return !e.Free() && !isContainerTag(e.Tag) && e.UncompressedSize > 0
}

// ResourceFileName names an exported resource TAG_0000.bin. Characters that
// are unsafe in file names become underscores.
func ResourceFileName(e ResourceEntry) string {
	tag := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, e.Tag.String())
	return fmt.Sprintf("%s_%04d.bin", tag, e.ID)
}

// ReadResources loads every exportable resource. Resources that fail to
// decode or decode to nothing are left out.
func (a *Archive) ReadResources() []Resource {
	var out []Resource
	for _, e := range a.resources.entries {
		if !exportable(e) {
			continue
		}
		b := a.loadQuiet(e)
		if len(b) == 0 {
			continue
		}
		out = append(out, Resource{Entry: e, Name: ResourceFileName(e), Bytes: b, Checksum: xxhash.Sum64(b)})
	}
	return out
}
