package orders

import (
	"strconv"
	"sync"
	"time"
)

const orderNumberPrefix = "ORD"

// NumberGenerator issues ORD<unix-millis> numbers. Two calls within the same
// millisecond get consecutive values, so numbers never repeat in a process.
type NumberGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewNumberGenerator(now func() time.Time) *NumberGenerator {
	if now == nil {
		now = time.Now
	}
	return &NumberGenerator{now: now}
}

func (g *NumberGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms

	return orderNumberPrefix + strconv.FormatInt(ms, 10)
}
