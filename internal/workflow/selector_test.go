package workflow

import (
	"testing"

	"github.com/AndVl1/cadence/pkg/models"
)

func TestSelectDecisionTable(t *testing.T) {
	tests := []struct {
		name     string
		band     models.Band
		taskType models.TaskType
		want     models.TierID
	}{
		{"trivial maps to lightweight", models.BandTrivial, models.TaskBugFix, models.TierLightweight3},
		{"simple maps to standard", models.BandSimple, models.TaskFeature, models.TierStandard5},
		{"medium maps to full", models.BandMedium, models.TaskFeature, models.TierFull7},
		{"complex maps to full", models.BandComplex, models.TaskFeature, models.TierFull7},
		{"hotfix overrides trivial score", models.BandTrivial, models.TaskHotfix, models.TierExtended8},
		{"hotfix overrides complex score", models.BandComplex, models.TaskHotfix, models.TierExtended8},
	}

	selector := NewSelector()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selector.Select(models.ComplexityScore{Band: tt.band}, tt.taskType)
			if got.ID != tt.want {
				t.Errorf("Select(%s, %s) = %s, want %s", tt.band, tt.taskType, got.ID, tt.want)
			}
		})
	}
}

func TestSelectComplexWidensRoles(t *testing.T) {
	selector := NewSelector()

	medium := selector.Select(models.ComplexityScore{Band: models.BandMedium}, models.TaskFeature)
	complexTier := selector.Select(models.ComplexityScore{Band: models.BandComplex}, models.TaskFeature)

	if medium.PhaseCount() != complexTier.PhaseCount() {
		t.Errorf("COMPLEX should keep the phase count: %d vs %d", medium.PhaseCount(), complexTier.PhaseCount())
	}
	if medium.HasRole(models.RoleIntegrator) {
		t.Error("MEDIUM tier should not include the integrator")
	}
	if !complexTier.HasRole(models.RoleIntegrator) {
		t.Error("COMPLEX tier should widen the role set with the integrator")
	}
}

func TestSelectDeterministic(t *testing.T) {
	selector := NewSelector()
	score := models.ComplexityScore{Score: 42, Band: models.BandMedium}

	first := selector.Select(score, models.TaskFeature)
	for i := 0; i < 5; i++ {
		if got := selector.Select(score, models.TaskFeature); got.ID != first.ID {
			t.Fatalf("Select() not deterministic: %s vs %s", got.ID, first.ID)
		}
	}
}

func TestTierShapes(t *testing.T) {
	tests := []struct {
		id     models.TierID
		phases int
	}{
		{models.TierLightweight3, 3},
		{models.TierStandard5, 5},
		{models.TierFull7, 7},
		{models.TierExtended8, 8},
	}

	tiers := Tiers()
	for _, tt := range tests {
		tier, ok := tiers[tt.id]
		if !ok {
			t.Fatalf("tier %s missing from table", tt.id)
		}
		if tier.PhaseCount() != tt.phases {
			t.Errorf("%s has %d phases, want %d", tt.id, tier.PhaseCount(), tt.phases)
		}
	}
}

func TestExtendedTierDiagnosesBeforeImplement(t *testing.T) {
	tier := Tiers()[models.TierExtended8]

	diagnoseIdx, implementIdx := -1, -1
	for i, p := range tier.Phases {
		switch p.Name {
		case PhaseDiagnose:
			diagnoseIdx = i
		case PhaseImplement:
			implementIdx = i
		}
	}

	if diagnoseIdx == -1 {
		t.Fatal("EXTENDED_8 must contain a diagnose phase")
	}
	if implementIdx == -1 {
		t.Fatal("EXTENDED_8 must contain an implement phase")
	}
	if diagnoseIdx != implementIdx-1 {
		t.Errorf("diagnose at %d must come directly before implement at %d", diagnoseIdx, implementIdx)
	}
	if !tier.HasRole(models.RoleDiagnostician) {
		t.Error("EXTENDED_8 must include the diagnostician role")
	}
}

func TestDriverPhasesAreMarked(t *testing.T) {
	for id, tier := range Tiers() {
		for _, p := range tier.Phases {
			if p.Name == PhaseUIVerify && !p.RequiresDriver {
				t.Errorf("%s: %s must require the driver lock", id, p.Name)
			}
			if p.Name != PhaseUIVerify && p.RequiresDriver {
				t.Errorf("%s: %s must not require the driver lock", id, p.Name)
			}
		}
	}
}

func TestSkipPredicates(t *testing.T) {
	refactor := models.TaskSignal{TaskType: models.TaskRefactor, ModulesAffected: 1, Familiarity: 5}
	feature := models.TaskSignal{TaskType: models.TaskFeature, ModulesAffected: 3, Familiarity: 5}
	score := models.ComplexityScore{Band: models.BandMedium}

	if !skipUIVerifyWhenNoSurface(refactor, score) {
		t.Error("refactors should skip UI verification")
	}
	if skipUIVerifyWhenNoSurface(feature, score) {
		t.Error("features should not skip UI verification")
	}
	if !skipContractWhenSingleModule(refactor, score) {
		t.Error("single-module work should skip the contract phase")
	}
	if skipContractWhenSingleModule(feature, score) {
		t.Error("cross-module work should keep the contract phase")
	}
}
