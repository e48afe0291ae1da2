package handoff

import (
	"testing"

	"github.com/AndVl1/cadence/pkg/models"
)

func threePhaseTier() models.WorkflowTier {
	return models.WorkflowTier{
		ID: models.TierLightweight3,
		Phases: []models.PhaseSpec{
			{Name: "scope", Mode: models.ModeSequential},
			{Name: "implement", Mode: models.ModeSequential},
			{Name: "verify", Mode: models.ModeSequential},
		},
	}
}

func TestLogAppendOnly(t *testing.T) {
	log := NewLog()

	log.Append(models.HandoffRecord{FromPhase: "scope", Summary: "scoped"})
	log.Append(models.HandoffRecord{FromPhase: "implement", Summary: "implemented"})

	if log.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", log.Len())
	}

	records := log.Records()
	records[0].Summary = "mutated"
	if got := log.Records()[0].Summary; got != "scoped" {
		t.Errorf("Records() must return a copy, log saw %q", got)
	}
}

func TestLogLatestPrefersNewest(t *testing.T) {
	log := NewLog()
	log.Append(models.HandoffRecord{
		FromPhase: "implement",
		VerificationChecklist: []models.ChecklistItem{
			{Item: "tests pass", Mandatory: true, Satisfied: false},
		},
	})
	// Correction after a re-run: a new record, never an edit.
	log.Append(models.HandoffRecord{
		FromPhase: "implement",
		VerificationChecklist: []models.ChecklistItem{
			{Item: "tests pass", Mandatory: true, Satisfied: true},
		},
	})

	rec, ok := log.Latest("implement")
	if !ok {
		t.Fatal("Latest() found no record")
	}
	if rec.HasUnsatisfiedMandatory() {
		t.Error("Latest() should return the corrected record")
	}
	if log.Len() != 2 {
		t.Errorf("correction must append, not edit: Len() = %d", log.Len())
	}
}

func TestCanStartRequiresPriorRecords(t *testing.T) {
	tier := threePhaseTier()
	log := NewLog()

	if err := log.CanStart(tier, 0); err != nil {
		t.Errorf("first phase should always be allowed: %v", err)
	}
	if err := log.CanStart(tier, 1); err == nil {
		t.Error("second phase must wait for the scope record")
	}

	log.Append(models.HandoffRecord{FromPhase: "scope", Summary: "scoped"})
	if err := log.CanStart(tier, 1); err != nil {
		t.Errorf("second phase should start after scope completed: %v", err)
	}
}

func TestCanStartBlocksOnMandatoryItems(t *testing.T) {
	tier := threePhaseTier()
	log := NewLog()
	log.Append(models.HandoffRecord{FromPhase: "scope", Summary: "scoped"})
	log.Append(models.HandoffRecord{
		FromPhase: "implement",
		VerificationChecklist: []models.ChecklistItem{
			{Item: "build passes", Mandatory: true, Satisfied: false},
		},
	})

	if err := log.CanStart(tier, 2); err == nil {
		t.Error("verify must not start while implement has a failed mandatory item")
	}

	log.Append(models.HandoffRecord{
		FromPhase: "implement",
		VerificationChecklist: []models.ChecklistItem{
			{Item: "build passes", Mandatory: true, Satisfied: true},
		},
	})
	if err := log.CanStart(tier, 2); err != nil {
		t.Errorf("verify should start after the correcting record: %v", err)
	}
}

func TestCanStartAcceptsSkipMarkers(t *testing.T) {
	tier := threePhaseTier()
	log := NewLog()
	log.Append(models.HandoffRecord{FromPhase: "scope", Summary: "scoped"})
	log.MarkSkipped("implement", "nothing to implement")

	if err := log.CanStart(tier, 2); err != nil {
		t.Errorf("a skip marker satisfies the history requirement: %v", err)
	}
}

func TestFromRecordsRebuildsHistory(t *testing.T) {
	original := NewLog()
	original.Append(models.HandoffRecord{FromPhase: "scope", Summary: "scoped"})
	original.MarkSkipped("implement", "docs only")

	rebuilt := FromRecords(original.Records())
	if rebuilt.Len() != original.Len() {
		t.Fatalf("rebuilt Len() = %d, want %d", rebuilt.Len(), original.Len())
	}
	if _, ok := rebuilt.Latest("implement"); !ok {
		t.Error("rebuilt log lost the skip marker")
	}
}

func TestMarkSkippedSetsMarkerFields(t *testing.T) {
	log := NewLog()
	rec := log.MarkSkipped("design", "single module")

	if !rec.Skipped {
		t.Error("marker must be flagged as skipped")
	}
	if rec.SkipReason != "single module" {
		t.Errorf("SkipReason = %q", rec.SkipReason)
	}
	if rec.RecordedAt.IsZero() {
		t.Error("marker must carry a timestamp")
	}
}
