package server

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// reportCache keeps rendered HTML reports by audit id. Audits never change
// once stored, so entries are only evicted for size.
type reportCache struct {
	mu  sync.Mutex
	lru *lru.Cache
}

// newReportCache returns nil for size <= 0; a nil cache never hits.
func newReportCache(size int) *reportCache {
	if size <= 0 {
		return nil
	}
	return &reportCache{lru: lru.New(size)}
}

func (c *reportCache) get(id string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(id)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (c *reportCache) add(id string, page []byte) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(id, page)
}

func (c *reportCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
