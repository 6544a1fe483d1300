package scheduler

import "go.trai.ch/quick/internal/core/domain"

// Universe exposes universe to tests.
var Universe = universe

// Statuses returns a copy of the state of every entry.
func (s *Scheduler) Statuses() map[domain.ClosureEntry]domain.BuildState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[domain.ClosureEntry]domain.BuildState, len(s.status))
	for k, v := range s.status {
		out[k] = v
	}
	return out
}
