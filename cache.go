package rifx

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// payloadCache keeps decoded payloads by resource id. A nil cache is valid
// and never hits.
type payloadCache struct {
	entries *lru.Cache[int, []byte]
}

func newPayloadCache(size int) (*payloadCache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[int, []byte](size)
	if err != nil {
		return nil, err
	}
	return &payloadCache{entries: c}, nil
}

func (p *payloadCache) get(id int) ([]byte, bool) {
	if p == nil {
		return nil, false
	}
	b, ok := p.entries.Get(id)
	if !ok {
		return nil, false
	}
	return append([]byte{}, b...), true
}

func (p *payloadCache) add(id int, b []byte) {
	if p == nil {
		return
	}
	p.entries.Add(id, append([]byte{}, b...))
}

func (p *payloadCache) len() int {
	if p == nil {
		return 0
	}
	return p.entries.Len()
}
