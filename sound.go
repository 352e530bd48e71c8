package rifx

import (
	"bytes"
	"log/slog"
)

type SoundFormat uint8

const (
	SoundUnknown SoundFormat = iota
	SoundMP3
	SoundWAV
	SoundAIFF
	SoundAIFC
	SoundOgg
	SoundFLAC
	SoundAU
	SoundMIDI
	SoundMP4
	SoundCAF
)

var soundFormatNames = [...]string{"unknown", "mp3", "wav", "aiff", "aifc", "ogg", "flac", "au", "midi", "mp4", "caf"}

func (f SoundFormat) String() string {
	if int(f) < len(soundFormatNames) {
		return soundFormatNames[f]
	}
	return "unknown"
}

// Extension is the usual file extension for the format, without the dot.
func (f SoundFormat) Extension() string {
	switch f {
	case SoundUnknown:
		return "bin"
	case SoundAIFC:
		return "aifc"
	case SoundMP4:
		return "m4a"
	case SoundMIDI:
		return "mid"
	}
	return f.String()
}

// SniffSoundFormat classifies an audio payload by its leading bytes.
func SniffSoundFormat(b []byte) SoundFormat {
	switch {
	case bytes.HasPrefix(b, []byte("ID3")):
		return SoundMP3
	case len(b) >= 2 && b[0] == 0xFF && b[1]&0xE0 == 0xE0:
		return SoundMP3
	case bytes.HasPrefix(b, []byte("RIFF")), bytes.HasPrefix(b, []byte("FFIR")), bytes.HasPrefix(b, []byte("RIFX")):
		return SoundWAV
	case bytes.HasPrefix(b, []byte("FORM")) && len(b) >= 12:
		switch string(b[8:12]) {
		case "AIFF":
			return SoundAIFF
		case "AIFC":
			return SoundAIFC
		}
	case bytes.HasPrefix(b, []byte("OggS")):
		return SoundOgg
	case bytes.HasPrefix(b, []byte("fLaC")):
		return SoundFLAC
	case bytes.HasPrefix(b, []byte(".snd")):
		return SoundAU
	case bytes.HasPrefix(b, []byte("MThd")):
		return SoundMIDI
	case len(b) >= 8 && string(b[4:8]) == "ftyp":
		return SoundMP4
	case bytes.HasPrefix(b, []byte("caff")), bytes.HasPrefix(b, []byte("CAFF")):
		return SoundCAF
	}
	return SoundUnknown
}

// Sound is an audio payload. CastMemberID is -1 for sounds no cast member
// owns.
type Sound struct {
	ResourceID   int
	CastMemberID int
	Tag          Tag
	Format       SoundFormat
	Bytes        []byte
}

// soundTags in order of preference when a cast member owns several.
var soundTags = []Tag{TagEdiM, TagSndS, TagSNDUpper, TagSNDLower}

// ReadSounds returns one sound per owning parent, taking the first child in
// tag preference order whose payload is not empty, followed by sound
// resources no parent claimed. Empty and unreadable payloads are skipped.
func (a *Archive) ReadSounds() []Sound {
	var out []Sound
	p := &childPicker{a: a, tags: soundTags, done: map[int]bool{}}
	for _, pid := range a.resources.ParentIDs() {
		e, b, ok := p.pick(pid)
		if !ok {
			continue
		}
		out = append(out, newSound(e, pid, b))
	}
	for _, tag := range soundTags {
		for _, e := range a.resources.ByTag(tag) {
			if p.done[e.ID] {
				continue
			}
			p.done[e.ID] = true
			if b := a.loadQuiet(e); len(b) > 0 {
				out = append(out, newSound(e, -1, b))
			}
		}
	}
	a.log.Debug("sounds read", slog.Int("count", len(out)))
	return out
}

func newSound(e ResourceEntry, owner int, b []byte) Sound {
	return Sound{ResourceID: e.ID, CastMemberID: owner, Tag: e.Tag, Format: SniffSoundFormat(b), Bytes: b}
}
