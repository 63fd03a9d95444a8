package cache

import (
	"context"

	"seqtree/internal/runutil"
)

// Memory is a bounded in-process DistanceCache, used by the server when no
// cache file is configured.
type Memory struct {
	lru *runutil.LRU[string, int]
}

func NewMemory(capacity int) *Memory {
	return &Memory{lru: runutil.NewLRU[string, int](capacity)}
}

func (c *Memory) Get(_ context.Context, key string) (int, bool, error) {
	d, ok := c.lru.Get(key)
	return d, ok, nil
}

func (c *Memory) Put(_ context.Context, key string, d int) error {
	c.lru.Put(key, d)
	return nil
}
