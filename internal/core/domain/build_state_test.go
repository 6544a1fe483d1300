package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/quick/internal/core/domain"
)

func TestBuildState_IsTerminal(t *testing.T) {
	tests := []struct {
		state      domain.BuildState
		isTerminal bool
	}{
		{domain.StatePending, false},
		{domain.StateReady, false},
		{domain.StateBuilding, false},
		{domain.StateBuilt, true},
		{domain.StateFailed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.isTerminal, tt.state.IsTerminal())
		})
	}
}

func TestBuildState_CanTransition(t *testing.T) {
	assert.True(t, domain.StatePending.CanTransition(domain.StateReady))
	assert.True(t, domain.StateReady.CanTransition(domain.StateBuilding))
	assert.True(t, domain.StateBuilding.CanTransition(domain.StateBuilt))
	assert.True(t, domain.StateBuilding.CanTransition(domain.StateFailed))

	assert.False(t, domain.StatePending.CanTransition(domain.StateBuilding))
	assert.False(t, domain.StateBuilt.CanTransition(domain.StatePending))
	assert.False(t, domain.StateFailed.CanTransition(domain.StateReady))
}

func TestNormalizeBuildState(t *testing.T) {
	tests := []struct {
		input    string
		expected domain.BuildState
	}{
		{"pending", domain.StatePending},
		{"READY", domain.StateReady},
		{"Building", domain.StateBuilding},
		{"built", domain.StateBuilt},
		{"failed", domain.StateFailed},
		{"unknown", domain.StatePending},
		{"", domain.StatePending},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.NormalizeBuildState(tt.input))
		})
	}
}
