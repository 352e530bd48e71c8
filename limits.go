package rifx

type Limits struct {
	MaxChunkLen       uint32 // control chunk body as stored
	MaxInflatedLen    uint32 // any single zlib output buffer
	MaxPayloadLen     uint32 // one resource payload as stored
	MaxResources      int
	MaxCompressions   int
	MaxInlineSegments int
}

func defaultLimits() Limits {
	return Limits{
		MaxChunkLen:       64 << 20,  // 64 MiB
		MaxInflatedLen:    256 << 20, // 256 MiB
		MaxPayloadLen:     512 << 20, // 512 MiB
		MaxResources:      1 << 20,
		MaxCompressions:   256,
		MaxInlineSegments: 1 << 16,
	}
}

// DefaultLimits returns the limits applied when no WithReadLimits option is given.
func DefaultLimits() Limits { return defaultLimits() }

func (l Limits) withDefaults() Limits {
	d := defaultLimits()
	if l.MaxChunkLen == 0 {
		l.MaxChunkLen = d.MaxChunkLen
	}
	if l.MaxInflatedLen == 0 {
		l.MaxInflatedLen = d.MaxInflatedLen
	}
	if l.MaxPayloadLen == 0 {
		l.MaxPayloadLen = d.MaxPayloadLen
	}
	if l.MaxResources == 0 {
		l.MaxResources = d.MaxResources
	}
	if l.MaxCompressions == 0 {
		l.MaxCompressions = d.MaxCompressions
	}
	if l.MaxInlineSegments == 0 {
		l.MaxInlineSegments = d.MaxInlineSegments
	}
	return l
}
