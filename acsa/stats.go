package acsa

import "sync"

// AgentStats is an immutable snapshot of a provider's running totals.
// Invariant: SuccessfulCalls + FailedCalls = TotalCalls.
type AgentStats struct {
	TotalCalls      uint64
	SuccessfulCalls uint64
	FailedCalls     uint64
	TotalTokens     uint64
	TotalCost       float64
	TotalLatencyMS  uint64
}

// AverageLatencyMS returns 0 when no calls have completed.
func (s AgentStats) AverageLatencyMS() float64 {
	if s.TotalCalls == 0 {
		return 0
	}
	return float64(s.TotalLatencyMS) / float64(s.TotalCalls)
}

// StatsCounter is the mutable, mutex-guarded counter a Provider embeds.
// Mutations are serialized; Snapshot returns a plain AgentStats value safe
// to hand to a caller without further synchronization.
type StatsCounter struct {
	mu    sync.Mutex
	stats AgentStats
}

// RecordSuccess increments the success counters. tokens/cost/latencyMS come
// from the AgentResponse the caller just produced.
func (c *StatsCounter) RecordSuccess(tokens uint32, cost float64, latencyMS uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.TotalCalls++
	c.stats.SuccessfulCalls++
	c.stats.TotalTokens += uint64(tokens)
	c.stats.TotalCost += cost
	c.stats.TotalLatencyMS += latencyMS
}

// RecordFailure increments the failure counters. A failed call contributes
// latency (time was spent) but never tokens or cost.
func (c *StatsCounter) RecordFailure(latencyMS uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.TotalCalls++
	c.stats.FailedCalls++
	c.stats.TotalLatencyMS += latencyMS
}

// Snapshot returns a copy of the current counters.
func (c *StatsCounter) Snapshot() AgentStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Reset zeroes the counters, implementing Provider.ResetStats.
func (c *StatsCounter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = AgentStats{}
}
