package analysis

import (
	"sync"

	"github.com/floatdrop/lru"

	"github.com/mrz1836/sboxforge/internal/metrics"
	"github.com/mrz1836/sboxforge/internal/sbox"
)

// DefaultCacheSize is the number of scores a Cache keeps by default.
const DefaultCacheSize = 4096

type cacheKey struct {
	box  sbox.SBox
	opts Options
}

// Cache memoizes scores. Boxes that differ only by an output constant have
// the same score, so entries are keyed by the normalized table. Distinct
// affine constants over the same polynomial and multiplier therefore share
// one evaluation.
type Cache struct {
	mu  sync.Mutex
	lru *lru.LRU[cacheKey, Score]
}

// NewCache returns a cache holding at most size scores. A size below 1 uses
// DefaultCacheSize.
func NewCache(size int) *Cache {
	if size < 1 {
		size = DefaultCacheSize
	}
	return &Cache{lru: lru.New[cacheKey, Score](size)}
}

// Evaluate returns the cached score of s or computes and stores it.
// Concurrent misses on the same key may both compute; the results are equal.
func (c *Cache) Evaluate(s sbox.SBox, opts Options) (Score, error) {
	key := cacheKey{box: s.Normalize(), opts: opts}

	c.mu.Lock()
	if hit := c.lru.Get(key); hit != nil {
		score := *hit
		c.mu.Unlock()
		metrics.Global.RecordCacheHit()
		return score, nil
	}
	c.mu.Unlock()
	metrics.Global.RecordCacheMiss()

	score, err := Evaluate(s, opts)
	if err != nil {
		return Score{}, err
	}

	c.mu.Lock()
	c.lru.Set(key, score)
	c.mu.Unlock()
	return score, nil
}

// Len returns the number of cached scores.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
