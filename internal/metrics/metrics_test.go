package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_RecordEvaluation(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	assert.InDelta(t, 0.0, m.EvaluationAvgMs(), 0.001)

	m.RecordEvaluation(10 * time.Millisecond)
	m.RecordEvaluation(30 * time.Millisecond)
	m.RecordRejection()

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.CandidatesEvaluated)
	assert.Equal(t, int64(1), snap.CandidatesRejected)
	assert.InDelta(t, 20.0, m.EvaluationAvgMs(), 0.5)
}

func TestMetrics_CacheHitRate(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	assert.InDelta(t, 0.0, m.CacheHitRate(), 0.001)

	// 3 hits, 1 miss = 75%
	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheHit()
	m.RecordCacheMiss()

	assert.InDelta(t, 75.0, m.CacheHitRate(), 0.001)
}

func TestMetrics_Blocks(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	m.RecordBlocksEncrypted(4)
	m.RecordBlocksEncrypted(1)
	m.RecordBlocksDecrypted(3)

	snap := m.Snapshot()
	assert.Equal(t, int64(5), snap.BlocksEncrypted)
	assert.Equal(t, int64(3), snap.BlocksDecrypted)
}

func TestMetrics_ConcurrentRecording(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.RecordEvaluation(time.Microsecond)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(8000), m.Snapshot().CandidatesEvaluated)
}

func TestMetrics_Reset(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	m.RecordEvaluation(time.Millisecond)
	m.RecordCacheHit()
	m.RecordBlocksEncrypted(2)

	m.Reset()

	assert.Equal(t, Snapshot{}, m.Snapshot())
}

func TestGlobal(t *testing.T) {
	assert.NotNil(t, Global)
}
