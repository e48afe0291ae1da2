package workflow

import (
	"testing"

	"github.com/AndVl1/cadence/internal/classify"
	"github.com/AndVl1/cadence/pkg/models"
)

// End-to-end signal → band → tier checks for the cases the system is
// designed around.
func TestSignalToTierPipeline(t *testing.T) {
	tests := []struct {
		name     string
		signal   models.TaskSignal
		wantBand models.Band
		wantTier models.TierID
	}{
		{
			name: "small bug fix stays lightweight",
			signal: models.TaskSignal{
				FilesAffected: 1, LinesAffected: 10, ModulesAffected: 1,
				TaskType: models.TaskBugFix, Familiarity: 8, EstimatedMinutes: 15,
			},
			wantBand: models.BandTrivial,
			wantTier: models.TierLightweight3,
		},
		{
			name: "breaking change promotes the same fix one band",
			signal: models.TaskSignal{
				FilesAffected: 1, LinesAffected: 10, ModulesAffected: 1,
				TaskType: models.TaskBugFix, BreakingChange: true,
				Familiarity: 8, EstimatedMinutes: 15,
			},
			wantBand: models.BandSimple,
			wantTier: models.TierStandard5,
		},
		{
			name: "wide feature goes complex",
			signal: models.TaskSignal{
				FilesAffected: 20, LinesAffected: 900, ModulesAffected: 4,
				TaskType: models.TaskFeature, Familiarity: 5, EstimatedMinutes: 480,
			},
			wantBand: models.BandComplex,
			wantTier: models.TierFull7,
		},
		{
			// A trivial-looking hotfix still gets the full diagnostic
			// flow: type override beats score.
			name: "hotfix overrides a trivial-looking signal",
			signal: models.TaskSignal{
				FilesAffected: 1, LinesAffected: 5, ModulesAffected: 1,
				TaskType: models.TaskHotfix, Familiarity: 9, EstimatedMinutes: 10,
			},
			wantBand: models.BandSimple,
			wantTier: models.TierExtended8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := classify.Classify(tt.signal)
			if err != nil {
				t.Fatalf("classify: %v", err)
			}
			if score.Band != tt.wantBand {
				t.Errorf("band = %s, want %s", score.Band, tt.wantBand)
			}
			tier := Select(score, tt.signal.TaskType)
			if tier.ID != tt.wantTier {
				t.Errorf("tier = %s, want %s", tier.ID, tt.wantTier)
			}
		})
	}
}
