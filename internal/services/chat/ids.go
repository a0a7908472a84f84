package chat

import (
	"strconv"
	"sync/atomic"
	"time"
)

const conversationIDPrefix = "conv_"

// idGenerator hands out conv_<unix millis> ids. Two calls within the same
// millisecond get consecutive numbers so ids never repeat in a process.
type idGenerator struct {
	last atomic.Int64
	now  func() time.Time
}

func newIDGenerator(now func() time.Time) *idGenerator {
	return &idGenerator{now: now}
}

func (g *idGenerator) Next() string {
	for {
		last := g.last.Load()
		next := g.now().UnixMilli()
		if next <= last {
			next = last + 1
		}
		if g.last.CompareAndSwap(last, next) {
			return conversationIDPrefix + strconv.FormatInt(next, 10)
		}
	}
}
