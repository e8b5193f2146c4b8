package entryindex

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// chainCacheSize is the bound on the number of chains the cache
// remembers a visited position for (spec.md §4.5: "a bounded (20-entry)
// LRU").
const chainCacheSize = 20

// position is the last landing point recorded for one chain: the array
// it landed in, the global index of that array's first item, and the
// index within the array of the item last matched. Used to warm-start
// the next bisection on the same chain instead of starting from First.
type position struct {
	arrayOffset uint64
	firstItem   uint64
	lastIndex   int
}

// ChainCache memoizes the last-visited position per chain, keyed by the
// chain's first-array offset. Shared across every chain (global and
// per-Data) in one open file.
type ChainCache struct {
	lru *lru.Cache[uint64, position]
}

// NewChainCache builds a ChainCache bounded at the spec's 20 entries.
func NewChainCache() *ChainCache {
	c, _ := lru.New[uint64, position](chainCacheSize)
	return &ChainCache{lru: c}
}

func (c *ChainCache) get(chainFirst uint64) (position, bool) {
	return c.lru.Get(chainFirst)
}

func (c *ChainCache) set(chainFirst uint64, p position) {
	c.lru.Add(chainFirst, p)
}
