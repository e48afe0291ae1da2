package models

import (
	"encoding/json"
	"time"
)

// ChangeKind categorizes how a file was touched.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeDeleted  ChangeKind = "deleted"
)

// Valid returns true if the change kind is a known value.
func (c ChangeKind) Valid() bool {
	switch c {
	case ChangeAdded, ChangeModified, ChangeDeleted:
		return true
	default:
		return false
	}
}

// FileChange records one touched file and how it changed.
type FileChange struct {
	Path string     `json:"path"`
	Kind ChangeKind `json:"kind"`
}

// ChecklistItem is one verification item reported at a phase boundary.
// Mandatory items gate advancement to the next phase.
type ChecklistItem struct {
	// Item describes what was checked.
	Item string `json:"item"`
	// Mandatory items must be satisfied before the next phase may start.
	Mandatory bool `json:"mandatory"`
	// Satisfied reports whether the check passed.
	Satisfied bool `json:"satisfied"`
}

// Metrics aggregates the quantitative outputs of a phase.
type Metrics struct {
	FilesChanged      int `json:"files_changed"`
	LinesAdded        int `json:"lines_added"`
	LinesRemoved      int `json:"lines_removed"`
	ConfidencePercent int `json:"confidence_percent"`
	ElapsedMinutes    int `json:"elapsed_minutes"`
}

// Add merges other into m, summing counts. Confidence takes the lower
// of the two non-zero values so a merged record never overstates it.
func (m *Metrics) Add(other Metrics) {
	m.FilesChanged += other.FilesChanged
	m.LinesAdded += other.LinesAdded
	m.LinesRemoved += other.LinesRemoved
	m.ElapsedMinutes += other.ElapsedMinutes
	if m.ConfidencePercent == 0 || (other.ConfidencePercent > 0 && other.ConfidencePercent < m.ConfidencePercent) {
		m.ConfidencePercent = other.ConfidencePercent
	}
}

// HandoffRecord is the unit of cross-phase information transfer. It is
// immutable once appended to an execution's log; corrections are new
// records, never edits, which preserves the audit trail.
type HandoffRecord struct {
	// FromPhase is the phase that produced this record.
	FromPhase string `json:"from_phase"`
	// ToPhase is the phase this record hands context to.
	ToPhase string `json:"to_phase,omitempty"`
	// Skipped marks a PhaseSkipped marker entry rather than real output.
	Skipped bool `json:"skipped,omitempty"`
	// SkipReason explains why the phase was skipped.
	SkipReason string `json:"skip_reason,omitempty"`
	// Summary is the free-form description of what the phase produced.
	Summary string `json:"summary"`
	// FilesTouched lists every file the phase changed.
	FilesTouched []FileChange `json:"files_touched,omitempty"`
	// KeyDecisions lists decisions later phases must not re-litigate.
	KeyDecisions []string `json:"key_decisions,omitempty"`
	// ContractArtifacts carries structured payloads (API shapes and the
	// like) verbatim for later phases.
	ContractArtifacts map[string]json.RawMessage `json:"contract_artifacts,omitempty"`
	// OpenEdgeCases lists edge cases left for later phases.
	OpenEdgeCases []string `json:"open_edge_cases,omitempty"`
	// Metrics aggregates the phase's quantitative output.
	Metrics Metrics `json:"metrics"`
	// VerificationChecklist gates advancement: every mandatory item must
	// be satisfied before the next phase may start.
	VerificationChecklist []ChecklistItem `json:"verification_checklist,omitempty"`
	// RecordedAt is when the record was appended.
	RecordedAt time.Time `json:"recorded_at"`
}

// HasUnsatisfiedMandatory returns true if any mandatory checklist item
// is unsatisfied. Such a record blocks phase advancement.
func (h HandoffRecord) HasUnsatisfiedMandatory() bool {
	for _, item := range h.VerificationChecklist {
		if item.Mandatory && !item.Satisfied {
			return true
		}
	}
	return false
}

// UnsatisfiedMandatory returns the mandatory items that did not pass.
func (h HandoffRecord) UnsatisfiedMandatory() []ChecklistItem {
	var out []ChecklistItem
	for _, item := range h.VerificationChecklist {
		if item.Mandatory && !item.Satisfied {
			out = append(out, item)
		}
	}
	return out
}

// PhaseOutcome is what a Role Executor reports for one (phase, role)
// dispatch. The scheduler treats executors as opaque, possibly slow,
// possibly failing external calls.
type PhaseOutcome struct {
	// Summary describes what the role did.
	Summary string `json:"summary"`
	// FilesTouched lists files the role changed.
	FilesTouched []FileChange `json:"files_touched,omitempty"`
	// Decisions lists decisions the role made.
	Decisions []string `json:"decisions,omitempty"`
	// ContractArtifacts carries structured payloads for later phases.
	ContractArtifacts map[string]json.RawMessage `json:"contract_artifacts,omitempty"`
	// OpenEdgeCases lists edge cases the role left open.
	OpenEdgeCases []string `json:"open_edge_cases,omitempty"`
	// ChecklistResults reports the role's verification items.
	ChecklistResults []ChecklistItem `json:"checklist_results,omitempty"`
	// Metrics is the role's quantitative output.
	Metrics Metrics `json:"metrics"`
	// Success is false when the role failed to complete its work.
	Success bool `json:"success"`
}
