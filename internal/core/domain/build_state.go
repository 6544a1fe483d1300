package domain

import "strings"

// BuildState is the lifecycle state of one closure entry during a scheduling run.
type BuildState string

const (
	// StatePending indicates the entry still waits for some of its dependencies.
	StatePending BuildState = "pending"
	// StateReady indicates every dependency of the entry is built.
	StateReady BuildState = "ready"
	// StateBuilding indicates the entry is being built or looked up in the cache.
	StateBuilding BuildState = "building"
	// StateBuilt indicates the entry's archive is in the cache.
	StateBuilt BuildState = "built"
	// StateFailed indicates the entry could not be built.
	StateFailed BuildState = "failed"
)

// IsTerminal reports whether no further transition can happen from s.
func (s BuildState) IsTerminal() bool {
	return s == StateBuilt || s == StateFailed
}

// CanTransition reports whether moving from s to next is a legal step of the state machine:
// Pending -> Ready -> Building -> Built | Failed.
func (s BuildState) CanTransition(next BuildState) bool {
	switch s {
	case StatePending:
		return next == StateReady
	case StateReady:
		return next == StateBuilding
	case StateBuilding:
		return next == StateBuilt || next == StateFailed
	default:
		return false
	}
}

// NormalizeBuildState converts a string to a BuildState, defaulting to pending if unknown.
func NormalizeBuildState(s string) BuildState {
	switch BuildState(strings.ToLower(s)) {
	case StateReady:
		return StateReady
	case StateBuilding:
		return StateBuilding
	case StateBuilt:
		return StateBuilt
	case StateFailed:
		return StateFailed
	default:
		return StatePending
	}
}
