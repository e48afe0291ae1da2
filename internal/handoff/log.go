// Package handoff maintains the append-only per-task record log that
// carries context across phase boundaries.
package handoff

import (
	"fmt"
	"sync"
	"time"

	"github.com/AndVl1/cadence/pkg/models"
)

// Log is the append-only handoff history for one task execution.
// Records are never edited after appending; a correction is a new
// record for the same phase. This keeps the full audit trail and lets
// the scheduler re-derive "may phase N+1 start" from the list alone.
type Log struct {
	mu      sync.RWMutex
	records []models.HandoffRecord
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// FromRecords rebuilds a log from previously persisted records, e.g.
// when resuming an interrupted execution.
func FromRecords(records []models.HandoffRecord) *Log {
	return &Log{records: append([]models.HandoffRecord{}, records...)}
}

// Append adds a completed-phase record to the log.
func (l *Log) Append(rec models.HandoffRecord) models.HandoffRecord {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	return rec
}

// MarkSkipped appends a PhaseSkipped marker so history re-derivation
// always sees every phase, executed or not.
func (l *Log) MarkSkipped(phase, reason string) models.HandoffRecord {
	return l.Append(models.HandoffRecord{
		FromPhase:  phase,
		Skipped:    true,
		SkipReason: reason,
		Summary:    fmt.Sprintf("phase %s skipped: %s", phase, reason),
	})
}

// Records returns a copy of the full history in append order.
func (l *Log) Records() []models.HandoffRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.HandoffRecord{}, l.records...)
}

// Len returns the number of records, skip markers included.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Latest returns the most recent record for the named phase. Re-runs
// append new records, so the latest one reflects the current state of
// that phase.
func (l *Log) Latest(phase string) (models.HandoffRecord, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i := len(l.records) - 1; i >= 0; i-- {
		if l.records[i].FromPhase == phase {
			return l.records[i], true
		}
	}
	return models.HandoffRecord{}, false
}

// CanStart reports whether the phase at index idx of the tier may
// begin: every earlier phase must have a record (real or skip marker),
// and the latest record of the immediately preceding executed phase
// must have no unsatisfied mandatory checklist items.
func (l *Log) CanStart(tier models.WorkflowTier, idx int) error {
	if idx == 0 {
		return nil
	}
	if idx < 0 || idx > len(tier.Phases) {
		return fmt.Errorf("phase index %d out of range for tier %s", idx, tier.ID)
	}

	for i := 0; i < idx; i++ {
		phase := tier.Phases[i].Name
		rec, ok := l.Latest(phase)
		if !ok {
			return fmt.Errorf("phase %s has no handoff record", phase)
		}
		if rec.Skipped {
			continue
		}
		if rec.HasUnsatisfiedMandatory() {
			items := rec.UnsatisfiedMandatory()
			return fmt.Errorf("phase %s has %d unsatisfied mandatory checklist item(s), first: %q",
				phase, len(items), items[0].Item)
		}
	}
	return nil
}
