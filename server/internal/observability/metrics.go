package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics aggregates counters for concierge requests. It is intentionally
// in-process; the /metrics handler serializes a snapshot.
type Metrics struct {
	requestTotal  atomic.Int64
	requestFailed atomic.Int64
	cacheHits     atomic.Int64
	streamChunks  atomic.Int64

	mu           sync.Mutex
	intentCounts map[string]int64
	durations    []time.Duration
	maxDurations int
}

// NewMetrics creates a metrics collector keeping the last maxDurations
// request durations for percentile snapshots.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = 1000
	}
	return &Metrics{
		intentCounts: make(map[string]int64),
		durations:    make([]time.Duration, 0, maxDurations),
		maxDurations: maxDurations,
	}
}

var globalMetrics = NewMetrics(1000)

// GlobalMetrics returns the process-wide metrics instance.
func GlobalMetrics() *Metrics {
	return globalMetrics
}

// RecordRequest records a request with its classified intent.
func (m *Metrics) RecordRequest(intent string) {
	m.requestTotal.Add(1)
	m.mu.Lock()
	m.intentCounts[intent]++
	m.mu.Unlock()
}

// RecordFailure records a failed request.
func (m *Metrics) RecordFailure() {
	m.requestFailed.Add(1)
}

// RecordCacheHit records a response served from the response cache.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordStreamChunk records one streamed response chunk.
func (m *Metrics) RecordStreamChunk() {
	m.streamChunks.Add(1)
}

// RecordDuration records a completed request duration.
func (m *Metrics) RecordDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.durations) >= m.maxDurations {
		m.durations = m.durations[1:]
	}
	m.durations = append(m.durations, d)
}

// Snapshot is a point-in-time view of the collected metrics.
type Snapshot struct {
	RequestTotal  int64            `json:"requestTotal"`
	RequestFailed int64            `json:"requestFailed"`
	CacheHits     int64            `json:"cacheHits"`
	StreamChunks  int64            `json:"streamChunks"`
	IntentCounts  map[string]int64 `json:"intentCounts"`
	AvgDurationMs int64            `json:"avgDurationMs"`
}

// SnapshotNow returns the current counters.
func (m *Metrics) SnapshotNow() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	intents := make(map[string]int64, len(m.intentCounts))
	for k, v := range m.intentCounts {
		intents[k] = v
	}
	var avg int64
	if len(m.durations) > 0 {
		var total time.Duration
		for _, d := range m.durations {
			total += d
		}
		avg = (total / time.Duration(len(m.durations))).Milliseconds()
	}
	return Snapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		CacheHits:     m.cacheHits.Load(),
		StreamChunks:  m.streamChunks.Load(),
		IntentCounts:  intents,
		AvgDurationMs: avg,
	}
}
