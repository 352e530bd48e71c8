package rifx

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
)

// Format describes the container a movie or cast archive was read from.
type Format struct {
	RifxOffset      int64
	LittleEndian    bool
	Codec           Tag
	Afterburner     bool
	Version         uint32 // Fver version, Afterburner only
	VersionString   string
	ImapVersion     uint32
	DirectorVersion uint32
	MapVersion      uint32 // imap, classic only
	ArchiveVersion  uint32
}

// Archive is an opened container. Resource tables are fixed after Open.
// Loads move a shared read position, so an Archive must not be used from
// several goroutines at once.
type Archive struct {
	cfg          readConfig
	log          *slog.Logger
	c            *cursor
	block        dataBlock
	format       Format
	resources    *ResourceTable
	compressions *CompressionTable
	state        *AfterburnerState
	loaders      map[StorageKind]PayloadLoader
	cache        *payloadCache
}

// Open reads the container header and resource map from r.
//
// The header is located first (projector offset or a scan for RIFX/XFIR).
// Afterburner archives (codec FGDM or FGDC) are then decoded through their
// Fver, Fcdr, ABMP and FGEI chunks; classic archives through imap and mmap.
// Finally the first KEY* resource, if any, supplies ownership links.
//
// Open fails with ErrFormatMismatch when a control chunk has the wrong tag,
// ErrInvalidHeader when no container header is found, ErrInvalidMap for a
// malformed map and ErrLimitExceeded when a configured limit is hit.
// Individual resources are not loaded until asked for.
func Open(r io.ReaderAt, size int64, opts ...ReadOption) (*Archive, error) {
	cfg := newReadConfig(opts)
	log := cfg.logger

	off, err := locateRifx(r, size)
	if err != nil {
		return nil, err
	}
	c := newCursor(r, size, binary.BigEndian)
	block, err := readDataBlock(c, off)
	if err != nil {
		return nil, err
	}
	cache, err := newPayloadCache(cfg.cacheSize)
	if err != nil {
		return nil, err
	}
	a := &Archive{
		cfg:       cfg,
		log:       log,
		c:         c,
		block:     block,
		resources: newResourceTable(),
		cache:     cache,
		format: Format{
			RifxOffset:   off,
			LittleEndian: block.Order == binary.LittleEndian,
			Codec:        block.Codec,
			Afterburner:  block.afterburner(),
		},
	}

	if block.afterburner() {
		m, err := readAfterburnerMap(c, block.PayloadStart, a.resources, cfg.limits, log)
		if err != nil {
			return nil, err
		}
		a.compressions = m.compressions
		a.state = &m.state
		a.format.Version = m.fver.Version
		a.format.VersionString = m.fver.VersionString
		a.format.ImapVersion = m.fver.ImapVersion
		a.format.DirectorVersion = m.fver.DirectorVersion
	} else {
		m, err := readClassicMap(c, block, a.resources, cfg.limits, log)
		if err != nil {
			return nil, err
		}
		a.compressions = newCompressionTable(nil, nil)
		a.format.MapVersion = m.imap.MapVersion
		a.format.ArchiveVersion = m.imap.ArchiveVersion
	}

	codec := payloadCodec{compressions: a.compressions, limits: cfg.limits, log: log}
	a.loaders = map[StorageKind]PayloadLoader{
		StorageClassic: &classicLoader{c: c, codec: codec, limits: cfg.limits},
	}
	if a.state != nil {
		a.loaders[StorageAfterburner] = &afterburnerLoader{c: c, table: a.resources, state: *a.state, codec: codec, limits: cfg.limits}
	}

	a.readKeyTable()
	log.Debug("archive opened",
		slog.String("codec", block.Codec.String()),
		slog.Bool("afterburner", a.format.Afterburner),
		slog.Int("resources", a.resources.Len()))
	return a, nil
}

// OpenBytes is Open over an in-memory archive.
func OpenBytes(b []byte, opts ...ReadOption) (*Archive, error) {
	return Open(bytes.NewReader(b), int64(len(b)), opts...)
}

func (a *Archive) readKeyTable() {
	e, ok := a.resources.first(TagKeyTable)
	if !ok {
		return
	}
	b, err := a.LoadEntry(e)
	if err != nil {
		a.log.Warn("KEY* table unreadable", slog.Int("id", e.ID), slog.Any("err", err))
		return
	}
	links, err := parseKeyTable(b, a.block.Order)
	if err != nil {
		a.log.Warn("KEY* table malformed", slog.Int("id", e.ID), slog.Any("err", err))
		return
	}
	for _, l := range links {
		a.resources.link(l)
	}
}

func (a *Archive) Format() Format                     { return a.format }
func (a *Archive) Resources() *ResourceTable          { return a.resources }
func (a *Archive) Compressions() *CompressionTable    { return a.compressions }
func (a *Archive) Lookup(id int) (ResourceEntry, bool) { return a.resources.Lookup(id) }

// Entry is Lookup for callers that treat a missing id as an error.
func (a *Archive) Entry(id int) (ResourceEntry, error) {
	e, ok := a.resources.Lookup(id)
	if !ok {
		return ResourceEntry{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return e, nil
}

// AfterburnerState reports the body origin of an Afterburner archive.
func (a *Archive) AfterburnerState() (AfterburnerState, bool) {
	if a.state == nil {
		return AfterburnerState{}, false
	}
	return *a.state, true
}

// Load returns the decoded payload of resource id. An id that is not in the
// table yields an empty slice and a nil error.
func (a *Archive) Load(id int) ([]byte, error) {
	e, ok := a.resources.Lookup(id)
	if !ok {
		a.log.Debug("resource not found", slog.Int("id", id))
		return []byte{}, nil
	}
	return a.LoadEntry(e)
}

// LoadEntry returns the decoded payload of e using the loader for its
// storage kind.
func (a *Archive) LoadEntry(e ResourceEntry) ([]byte, error) {
	if b, ok := a.cache.get(e.ID); ok {
		return b, nil
	}
	l, ok := a.loaders[e.Storage]
	if !ok {
		a.log.Debug("no loader for storage kind", slog.Int("id", e.ID), slog.String("storage", e.Storage.String()))
		return []byte{}, nil
	}
	b, err := l.Load(e)
	if err != nil {
		return nil, err
	}
	a.cache.add(e.ID, b)
	return b, nil
}

// loadQuiet loads e for a domain reader. Failures are logged and reported
// as an empty payload so one bad resource does not stop the walk.
func (a *Archive) loadQuiet(e ResourceEntry) []byte {
	b, err := a.LoadEntry(e)
	if err != nil {
		a.log.Warn("resource skipped", slog.Int("id", e.ID), slog.String("tag", e.Tag.String()), slog.Any("err", err))
		return nil
	}
	return b
}

// ResourceError is a resource that could not be decoded during Scan.
type ResourceError struct {
	Entry ResourceEntry
	Err   error
}

func (e ResourceError) Error() string {
	return fmt.Sprintf("resource %d (%s): %v", e.Entry.ID, e.Entry.Tag, e.Err)
}

func (e ResourceError) Unwrap() error { return e.Err }

type ScanReport struct {
	Total   int
	Decoded int
	Empty   int
	Failed  []ResourceError
}

func (r ScanReport) String() string {
	return fmt.Sprintf("%d of %d resources decoded", r.Decoded, r.Total)
}

// Scan loads every exportable resource and counts the outcomes.
func (a *Archive) Scan() ScanReport {
	var r ScanReport
	for _, e := range a.resources.entries {
		if !exportable(e) {
			continue
		}
		r.Total++
		b, err := a.LoadEntry(e)
		switch {
		case err != nil:
			r.Failed = append(r.Failed, ResourceError{Entry: e, Err: err})
		case len(b) == 0:
			r.Empty++
		default:
			r.Decoded++
		}
	}
	return r
}
