// Package metrics provides process-wide counters for the search and cipher.
// All counters are atomic, so workers record without locking.
package metrics

import (
	"sync/atomic"
	"time"
)

// Metrics holds application metrics using atomic counters.
type Metrics struct {
	// Search metrics
	candidatesEvaluated atomic.Int64
	candidatesRejected  atomic.Int64
	evalNanos           atomic.Int64

	// Score cache metrics
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64

	// Cipher metrics
	blocksEncrypted atomic.Int64
	blocksDecrypted atomic.Int64
}

// Global is the process-wide metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = &Metrics{}

// RecordEvaluation records one scored candidate and how long scoring took.
func (m *Metrics) RecordEvaluation(duration time.Duration) {
	m.candidatesEvaluated.Add(1)
	m.evalNanos.Add(duration.Nanoseconds())
}

// RecordRejection records a candidate discarded as non-bijective.
func (m *Metrics) RecordRejection() {
	m.candidatesRejected.Add(1)
}

// RecordCacheHit records a score cache hit.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordCacheMiss records a score cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.cacheMisses.Add(1)
}

// RecordBlocksEncrypted adds n to the encrypted block count.
func (m *Metrics) RecordBlocksEncrypted(n int64) {
	m.blocksEncrypted.Add(n)
}

// RecordBlocksDecrypted adds n to the decrypted block count.
func (m *Metrics) RecordBlocksDecrypted(n int64) {
	m.blocksDecrypted.Add(n)
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	CandidatesEvaluated int64 `json:"candidates_evaluated"`
	CandidatesRejected  int64 `json:"candidates_rejected"`
	EvalNanos           int64 `json:"eval_nanos"`
	CacheHits           int64 `json:"cache_hits"`
	CacheMisses         int64 `json:"cache_misses"`
	BlocksEncrypted     int64 `json:"blocks_encrypted"`
	BlocksDecrypted     int64 `json:"blocks_decrypted"`
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		CandidatesEvaluated: m.candidatesEvaluated.Load(),
		CandidatesRejected:  m.candidatesRejected.Load(),
		EvalNanos:           m.evalNanos.Load(),
		CacheHits:           m.cacheHits.Load(),
		CacheMisses:         m.cacheMisses.Load(),
		BlocksEncrypted:     m.blocksEncrypted.Load(),
		BlocksDecrypted:     m.blocksDecrypted.Load(),
	}
}

// EvaluationAvgMs returns the mean scoring time in milliseconds, or 0 before
// the first evaluation.
func (m *Metrics) EvaluationAvgMs() float64 {
	n := m.candidatesEvaluated.Load()
	if n == 0 {
		return 0
	}
	return float64(m.evalNanos.Load()) / float64(n) / 1e6
}

// CacheHitRate returns the cache hit rate as a percentage (0-100).
// Returns 0 if no cache operations have occurred.
func (m *Metrics) CacheHitRate() float64 {
	hits := m.cacheHits.Load()
	total := hits + m.cacheMisses.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// Reset resets all metrics to zero.
func (m *Metrics) Reset() {
	m.candidatesEvaluated.Store(0)
	m.candidatesRejected.Store(0)
	m.evalNanos.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.blocksEncrypted.Store(0)
	m.blocksDecrypted.Store(0)
}
