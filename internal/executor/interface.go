// Package executor defines the boundary to Role Executors: external
// actors (human or automated) that perform the work of one phase and
// report a structured outcome. The core treats them as opaque,
// possibly slow, possibly failing calls.
package executor

import (
	"context"

	"github.com/AndVl1/cadence/pkg/models"
)

// Request is everything a Role Executor receives for one dispatch.
type Request struct {
	// TaskID identifies the execution the phase belongs to.
	TaskID string `json:"task_id"`
	// Phase is the name of the phase being executed.
	Phase string `json:"phase"`
	// Role is the role the executor should perform.
	Role models.RoleID `json:"role"`
	// LockToken proves the task currently holds the driver lock. Empty
	// for phases that do not touch the guarded tool surface.
	LockToken string `json:"lock_token,omitempty"`
	// Handoffs is the full prior history so the executor sees a
	// consistent, complete view of earlier decisions.
	Handoffs []models.HandoffRecord `json:"handoffs"`
}

// RoleExecutor performs the work of one (phase, role) dispatch.
// Implementations must honor ctx cancellation: abort is cooperative
// and signals in-flight executors to stop.
type RoleExecutor interface {
	Execute(ctx context.Context, req Request) (*models.PhaseOutcome, error)
}
