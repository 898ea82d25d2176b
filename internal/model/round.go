package model

import "github.com/google/uuid"

// RoundState captures everything produced during one round of the
// convergence loop. Exactly one RoundState in a run has Phase =
// PhaseArchitect: the first.
type RoundState struct {
	ID              string
	Number          int
	Phase           Phase
	Plan            *Plan
	Evaluation      *BlindEvaluation
	Stability       *StabilityMetrics
	LockedStructure *LockedStructure
}

// NewRoundState builds a RoundState with a freshly assigned ID.
func NewRoundState(number int, phase Phase) *RoundState {
	return &RoundState{
		ID:     uuid.NewString(),
		Number: number,
		Phase:  phase,
	}
}

// Clone returns a deep-enough copy of r suitable for archiving into
// roundHistory: the Plan, Evaluation, and Stability pointers are preserved
// (they are never mutated after creation — spec §3 Lifecycle), but the
// RoundState struct itself is copied so a later round's bookkeeping cannot
// retroactively change an archived entry.
func (r *RoundState) Clone() *RoundState {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

// OrchestratorState is the live state of one Orchestrator run.
type OrchestratorState struct {
	Goal         string
	Context      string
	CurrentRound *RoundState
	RoundHistory []*RoundState
	IsRunning    bool
	LastResult   *ExecutionResult
}

// ExecutionResult is the terminal output of Orchestrator.Execute.
type ExecutionResult struct {
	Success           bool
	Output            string
	Round             int
	Stability         float64
	Terminated        bool
	TerminationReason TerminationReason
}
