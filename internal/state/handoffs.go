package state

import (
	"encoding/json"
	"fmt"

	"github.com/AndVl1/cadence/pkg/models"
)

// AppendHandoff durably records one handoff record for an execution.
// The full record is stored as JSON so later phases can read contract
// artifacts back verbatim; the indexed columns exist for querying only.
func (db *DB) AppendHandoff(executionID string, rec models.HandoffRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode handoff record: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO handoffs (execution_id, from_phase, skipped, record, recorded_at)
		VALUES (?, ?, ?, ?, ?)
	`, executionID, rec.FromPhase, boolToInt(rec.Skipped), string(payload), formatTime(rec.RecordedAt))
	if err != nil {
		return fmt.Errorf("insert handoff: %w", err)
	}
	return nil
}

// ListHandoffs returns an execution's handoff records in append order.
func (db *DB) ListHandoffs(executionID string) ([]models.HandoffRecord, error) {
	rows, err := db.Query(`
		SELECT record FROM handoffs WHERE execution_id = ? ORDER BY id ASC
	`, executionID)
	if err != nil {
		return nil, fmt.Errorf("list handoffs: %w", err)
	}
	defer rows.Close()

	var out []models.HandoffRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var rec models.HandoffRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("decode handoff record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountHandoffs returns the number of records for an execution, skip
// markers included.
func (db *DB) CountHandoffs(executionID string) (int, error) {
	var n int
	row := db.QueryRow(`SELECT COUNT(*) FROM handoffs WHERE execution_id = ?`, executionID)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count handoffs: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
