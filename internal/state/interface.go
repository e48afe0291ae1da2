package state

import (
	"io"

	"github.com/AndVl1/cadence/pkg/models"
)

// ExecutionStore handles execution-related persistence operations.
type ExecutionStore interface {
	CreateExecution(e *Execution) error
	GetExecution(id string) (*Execution, error)
	UpdateExecution(e *Execution) error
	ListExecutions(status *models.ExecutionStatus) ([]Execution, error)
}

// HandoffStore handles handoff-record persistence operations. Records
// are append-only; there is deliberately no update or delete.
type HandoffStore interface {
	AppendHandoff(executionID string, rec models.HandoffRecord) error
	ListHandoffs(executionID string) ([]models.HandoffRecord, error)
	CountHandoffs(executionID string) (int, error)
}

// Migrator handles database schema migrations. Separating this allows
// clients to depend only on migration functionality.
type Migrator interface {
	// Migrate applies all pending schema migrations.
	Migrate() error
}

// Store defines the interface for state persistence. It lets the
// scheduler work with any backend without depending on the concrete
// SQLite implementation.
type Store interface {
	io.Closer
	Migrator
	ExecutionStore
	HandoffStore
}

// Compile-time verification that DB implements all interfaces.
var (
	_ Store          = (*DB)(nil)
	_ Migrator       = (*DB)(nil)
	_ ExecutionStore = (*DB)(nil)
	_ HandoffStore   = (*DB)(nil)
)
