package acsa

// RouterStats aggregates the four role providers' running stats alongside
// execution-log counters. A typed struct in place of the untyped JSON
// object the original router assembled on every call.
type RouterStats struct {
	Planner   AgentStats
	Validator AgentStats
	Auditor   AgentStats
	Executor  AgentStats

	TotalExecutions      int
	SuccessfulExecutions int
}

// Stats snapshots every provider's counters and this Router's retained
// execution logs into one RouterStats value.
func (r *Router) Stats() RouterStats {
	r.logsMu.Lock()
	total := len(r.logs)
	successful := 0
	for _, l := range r.logs {
		if l.Success {
			successful++
		}
	}
	r.logsMu.Unlock()

	return RouterStats{
		Planner:              r.planner.Stats(),
		Validator:            r.validator.Stats(),
		Auditor:              r.auditor.Stats(),
		Executor:             r.executor.Stats(),
		TotalExecutions:      total,
		SuccessfulExecutions: successful,
	}
}
