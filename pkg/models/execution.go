package models

import "time"

// ExecutionStatus represents the lifecycle state of a task execution.
type ExecutionStatus string

const (
	// ExecutionRunning means the execution is progressing through phases.
	ExecutionRunning ExecutionStatus = "running"
	// ExecutionBlocked means the execution is waiting on the resource
	// lock. Blocked is recoverable: the next advance attempt retries.
	ExecutionBlocked ExecutionStatus = "blocked"
	// ExecutionCompleted means every phase finished.
	ExecutionCompleted ExecutionStatus = "completed"
	// ExecutionAborted means the execution was terminated with a reason.
	ExecutionAborted ExecutionStatus = "aborted"
)

// Valid returns true if the status is a known value.
func (s ExecutionStatus) Valid() bool {
	switch s {
	case ExecutionRunning, ExecutionBlocked, ExecutionCompleted, ExecutionAborted:
		return true
	default:
		return false
	}
}

// Terminal returns true for states with no further transitions.
func (s ExecutionStatus) Terminal() bool {
	return s == ExecutionCompleted || s == ExecutionAborted
}

// TaskExecution is the live state for one task working through its
// workflow tier. It is owned exclusively by the scheduler driving it;
// no state is shared between executions except the resource lock.
type TaskExecution struct {
	// ID is the unique identifier for this execution.
	ID string `json:"id"`
	// Signal is the immutable input the task was classified from.
	Signal TaskSignal `json:"signal"`
	// Score is the derived complexity score.
	Score ComplexityScore `json:"score"`
	// Tier is the selected workflow configuration.
	Tier WorkflowTier `json:"tier"`
	// CurrentPhaseIndex is the index of the next phase to execute.
	CurrentPhaseIndex int `json:"current_phase_index"`
	// Status is the lifecycle state.
	Status ExecutionStatus `json:"status"`
	// Reason carries the human-readable abort reason, if aborted, or
	// what a blocked execution is waiting on.
	Reason string `json:"reason,omitempty"`
	// Handoffs is the append-only record log, one entry per executed or
	// skipped phase.
	Handoffs []HandoffRecord `json:"handoffs"`
	// CreatedAt is when the execution was created.
	CreatedAt time.Time `json:"created_at"`
	// CompletedAt is when the execution reached a terminal state.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CurrentPhase returns the phase the execution is positioned at, or
// false when all phases are done.
func (e *TaskExecution) CurrentPhase() (PhaseSpec, bool) {
	if e.CurrentPhaseIndex < 0 || e.CurrentPhaseIndex >= len(e.Tier.Phases) {
		return PhaseSpec{}, false
	}
	return e.Tier.Phases[e.CurrentPhaseIndex], true
}

// ExecutedPhases returns how many phases produced a real (non-marker)
// handoff record.
func (e *TaskExecution) ExecutedPhases() int {
	n := 0
	for _, h := range e.Handoffs {
		if !h.Skipped {
			n++
		}
	}
	return n
}
