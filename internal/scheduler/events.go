// Package scheduler drives task executions through their workflow
// tiers: phase by phase, gating on handoff records, fanning out
// parallel roles, and guarding driver phases with the resource lock.
package scheduler

import (
	"time"

	"github.com/AndVl1/cadence/pkg/models"
)

// EventType represents the type of scheduler event.
type EventType string

const (
	// EventPhaseStarted indicates a phase began dispatching roles.
	EventPhaseStarted EventType = "phase_started"
	// EventPhaseCompleted indicates a phase produced a handoff record
	// and the execution advanced past it.
	EventPhaseCompleted EventType = "phase_completed"
	// EventPhaseSkipped indicates a phase was skipped and a marker
	// record was written.
	EventPhaseSkipped EventType = "phase_skipped"
	// EventPhaseFailed indicates a phase produced unsatisfied mandatory
	// checklist items.
	EventPhaseFailed EventType = "phase_failed"
	// EventExecutionBlocked indicates the execution cannot proceed and
	// is waiting on something recoverable.
	EventExecutionBlocked EventType = "execution_blocked"
	// EventExecutionCompleted indicates all phases are done.
	EventExecutionCompleted EventType = "execution_completed"
	// EventExecutionAborted indicates the execution was aborted.
	EventExecutionAborted EventType = "execution_aborted"
	// EventLockAcquired indicates the driver lock was acquired.
	EventLockAcquired EventType = "lock_acquired"
	// EventLockReleased indicates the driver lock was released.
	EventLockReleased EventType = "lock_released"
)

// Event represents an event emitted by the scheduler. Events are used
// by the CLI to report progress and by tests to observe ordering.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// ExecutionID is the id of the related execution.
	ExecutionID string
	// Phase is the name of the related phase, if applicable.
	Phase string
	// Role is the related role, if applicable.
	Role models.RoleID
	// Message provides additional context about the event.
	Message string
	// Err contains error details for failure events.
	Err error
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// emit sends an event without blocking. If the channel is full the
// event is dropped; events are advisory, state lives in the execution.
func (s *Scheduler) emit(ev Event) {
	ev.Timestamp = s.now()
	select {
	case s.events <- ev:
	default:
		debugLog("event channel full, dropped %s for %s", ev.Type, ev.ExecutionID)
	}
}
