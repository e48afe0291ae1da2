package state

import (
	"fmt"
	"time"

	"github.com/AndVl1/cadence/pkg/models"
)

// InterruptedExecution describes a non-terminal execution found on
// startup, e.g. after the orchestrator process died mid-task.
type InterruptedExecution struct {
	ExecutionID  string
	TierID       models.TierID
	PhaseIndex   int
	Status       models.ExecutionStatus
	StartedAt    time.Time
	LastActivity time.Time
	Handoffs     int
}

// RecoveryManager handles detection of interrupted executions so they
// can be resumed rather than lost.
type RecoveryManager struct {
	db *DB
}

// NewRecoveryManager creates a RecoveryManager with the given database.
func NewRecoveryManager(db *DB) *RecoveryManager {
	return &RecoveryManager{db: db}
}

// CheckForInterrupted returns every execution still in a non-terminal
// state. The handoff log tells the caller exactly where each one
// stopped; re-derivation of history is always possible because skipped
// phases left markers too.
func (rm *RecoveryManager) CheckForInterrupted() ([]InterruptedExecution, error) {
	executions, err := rm.db.ListExecutions(nil)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}

	var out []InterruptedExecution
	for _, e := range executions {
		if e.Status.Terminal() {
			continue
		}

		records, err := rm.db.ListHandoffs(e.ID)
		if err != nil {
			return nil, fmt.Errorf("list handoffs for %s: %w", e.ID, err)
		}

		lastActivity := e.CreatedAt
		for _, rec := range records {
			if rec.RecordedAt.After(lastActivity) {
				lastActivity = rec.RecordedAt
			}
		}

		out = append(out, InterruptedExecution{
			ExecutionID:  e.ID,
			TierID:       e.TierID,
			PhaseIndex:   e.PhaseIndex,
			Status:       e.Status,
			StartedAt:    e.CreatedAt,
			LastActivity: lastActivity,
			Handoffs:     len(records),
		})
	}
	return out, nil
}
