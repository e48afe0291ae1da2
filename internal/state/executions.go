package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AndVl1/cadence/pkg/models"
)

// ErrNotFound is returned when a requested execution does not exist.
var ErrNotFound = errors.New("execution not found")

// Execution is the persisted form of a task execution. The workflow
// tier is stored by id only: phase tables are static configuration and
// are rebuilt from the tier table on load.
type Execution struct {
	ID          string                 `json:"id"`
	Signal      models.TaskSignal      `json:"signal"`
	Score       models.ComplexityScore `json:"score"`
	TierID      models.TierID          `json:"tier_id"`
	PhaseIndex  int                    `json:"phase_index"`
	Status      models.ExecutionStatus `json:"status"`
	Reason      string                 `json:"reason,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
}

// CreateExecution inserts a new execution record.
func (db *DB) CreateExecution(e *Execution) error {
	signalJSON, err := json.Marshal(e.Signal)
	if err != nil {
		return fmt.Errorf("encode signal: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO executions (id, signal, score, band, tier, phase_index, status, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, string(signalJSON), e.Score.Score, string(e.Score.Band), string(e.TierID),
		e.PhaseIndex, string(e.Status), e.Reason, formatTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert execution: %w", err)
	}
	return nil
}

// GetExecution fetches one execution by id.
func (db *DB) GetExecution(id string) (*Execution, error) {
	row := db.QueryRow(`
		SELECT id, signal, score, band, tier, phase_index, status, reason, created_at, completed_at
		FROM executions WHERE id = ?
	`, id)

	e, err := scanExecution(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

// UpdateExecution persists the mutable fields of an execution.
func (db *DB) UpdateExecution(e *Execution) error {
	var completedAt any
	if e.CompletedAt != nil {
		completedAt = formatTime(*e.CompletedAt)
	}

	res, err := db.Exec(`
		UPDATE executions SET phase_index = ?, status = ?, reason = ?, completed_at = ?
		WHERE id = ?
	`, e.PhaseIndex, string(e.Status), e.Reason, completedAt, e.ID)
	if err != nil {
		return fmt.Errorf("update execution: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListExecutions returns executions, optionally filtered by status.
// A nil filter returns everything, newest first.
func (db *DB) ListExecutions(status *models.ExecutionStatus) ([]Execution, error) {
	query := `
		SELECT id, signal, score, band, tier, phase_index, status, reason, created_at, completed_at
		FROM executions
	`
	var args []any
	if status != nil {
		query += " WHERE status = ?"
		args = append(args, string(*status))
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()

	var out []Execution
	for rows.Next() {
		e, err := scanExecution(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// scanExecution builds an Execution from a row scanner.
func scanExecution(scan func(dest ...any) error) (*Execution, error) {
	var (
		e           Execution
		signalJSON  string
		band        string
		tier        string
		status      string
		reason      sql.NullString
		createdAt   string
		completedAt sql.NullString
	)
	if err := scan(&e.ID, &signalJSON, &e.Score.Score, &band, &tier,
		&e.PhaseIndex, &status, &reason, &createdAt, &completedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(signalJSON), &e.Signal); err != nil {
		return nil, fmt.Errorf("decode signal: %w", err)
	}
	e.Score.Band = models.Band(band)
	e.TierID = models.TierID(tier)
	e.Status = models.ExecutionStatus(status)
	e.Reason = reason.String

	created, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	e.CreatedAt = created
	e.CompletedAt = parseNullableTime(completedAt)

	return &e, nil
}
