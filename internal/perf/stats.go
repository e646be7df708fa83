package perf

// Stats is a point-in-time snapshot of the gate's counters. The counters
// are monotonically increasing and never persisted.
type Stats struct {
	CacheHits      uint64
	CacheMisses    uint64
	Throttled      uint64
	PooledBatches  uint64
	PooledMessages uint64
}

// HitRate returns the dedup cache hit rate in [0, 1].
func (s Stats) HitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// AvgBatchSize returns the mean number of messages per pool flush.
func (s Stats) AvgBatchSize() float64 {
	if s.PooledBatches == 0 {
		return 0
	}
	return float64(s.PooledMessages) / float64(s.PooledBatches)
}

// Stats returns a snapshot of the gate's counters.
func (g *Gate) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Stats{
		CacheHits:      g.stats.cacheHits,
		CacheMisses:    g.stats.cacheMisses,
		Throttled:      g.stats.throttled,
		PooledBatches:  g.stats.pooledBatches,
		PooledMessages: g.stats.pooledMessages,
	}
}
