// Package seq issues monotonically increasing unique identifiers.
// Each entity type (users, posts, notifications) owns its own Counter.
package seq

import "sync/atomic"

// Counter hands out int64 ids starting at 1. The zero value is ready to use.
type Counter struct {
	n atomic.Int64
}

// Next returns the next id. Safe for concurrent use.
func (c *Counter) Next() int64 {
	return c.n.Add(1)
}

// Current returns the last id handed out, 0 if none.
func (c *Counter) Current() int64 {
	return c.n.Load()
}
