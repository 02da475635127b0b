package store

import (
	"fmt"
	"sync"
	"time"
)

// idGenerator issues timestamp-derived ids (e.g. "p1718000000000"). The
// persisted seed uses short ids like "p1"; generated ids only need to be
// unique and stable, and the millisecond clock is bumped monotonically so
// rapid successive creates never collide.
type idGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func newIDGenerator() *idGenerator {
	return &idGenerator{now: time.Now}
}

func (g *idGenerator) next(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("%s%d", prefix, ms)
}
