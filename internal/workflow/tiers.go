// Package workflow maps complexity scores to workflow tiers.
package workflow

import "github.com/AndVl1/cadence/pkg/models"

// Phase names shared across tiers.
const (
	PhaseScope        = "scope"
	PhaseDesign       = "design"
	PhaseArchitecture = "architecture"
	PhaseContract     = "contract"
	PhaseDiagnose     = "diagnose"
	PhaseImplement    = "implement"
	PhaseVerify       = "verify"
	PhaseUIVerify     = "ui_verify"
	PhaseReview       = "review"
)

// skipDesignWhenContained skips the design phase for single-module work
// the implementer already knows well.
func skipDesignWhenContained(s models.TaskSignal, _ models.ComplexityScore) bool {
	return s.ModulesAffected <= 1 && s.Familiarity >= 7
}

// skipContractWhenSingleModule skips contract definition when there is
// no cross-module boundary to agree on.
func skipContractWhenSingleModule(s models.TaskSignal, _ models.ComplexityScore) bool {
	return s.ModulesAffected < 2
}

// skipUIVerifyWhenNoSurface skips driver-guarded UI verification for
// task types that do not change observable behavior.
func skipUIVerifyWhenNoSurface(s models.TaskSignal, _ models.ComplexityScore) bool {
	return s.TaskType == models.TaskRefactor || s.TaskType == models.TaskInvestigation
}

// skipReviewWhenFamiliarAndSimple skips the dedicated review phase when
// the implementer knows the area and the work stayed simple.
func skipReviewWhenFamiliarAndSimple(s models.TaskSignal, score models.ComplexityScore) bool {
	return s.Familiarity >= 8 && !score.Band.AtLeast(models.BandMedium)
}

// lightweight3 is the minimal flow: scope, implement, verify.
func lightweight3() models.WorkflowTier {
	return models.WorkflowTier{
		ID: models.TierLightweight3,
		Phases: []models.PhaseSpec{
			{Name: PhaseScope, Mode: models.ModeSequential, RequiredRoles: []models.RoleID{models.RoleImplementer}},
			{Name: PhaseImplement, Mode: models.ModeSequential, RequiredRoles: []models.RoleID{models.RoleImplementer}},
			{Name: PhaseVerify, Mode: models.ModeSequential, RequiredRoles: []models.RoleID{models.RoleVerifier}},
		},
		DefaultRoles: []models.RoleID{models.RoleImplementer, models.RoleVerifier},
	}
}

// standard5 adds a design step and splits implementation across the
// backend/frontend pair.
func standard5() models.WorkflowTier {
	return models.WorkflowTier{
		ID: models.TierStandard5,
		Phases: []models.PhaseSpec{
			{Name: PhaseScope, Mode: models.ModeSequential, RequiredRoles: []models.RoleID{models.RoleImplementerBackend}},
			{Name: PhaseDesign, Mode: models.ModeSequential, RequiredRoles: []models.RoleID{models.RoleImplementerBackend}, SkipIf: skipDesignWhenContained},
			{Name: PhaseImplement, Mode: models.ModeParallel, RequiredRoles: []models.RoleID{models.RoleImplementerBackend, models.RoleImplementerFrontend}},
			{Name: PhaseVerify, Mode: models.ModeSequential, RequiredRoles: []models.RoleID{models.RoleVerifier}},
			{Name: PhaseUIVerify, Mode: models.ModeSequential, RequiredRoles: []models.RoleID{models.RoleVerifier}, Optional: true, RequiresDriver: true, SkipIf: skipUIVerifyWhenNoSurface},
		},
		DefaultRoles: []models.RoleID{models.RoleImplementerBackend, models.RoleImplementerFrontend, models.RoleVerifier},
	}
}

// full7 is the complete flow with architecture, cross-module contract
// agreement, and a dedicated review.
func full7() models.WorkflowTier {
	return models.WorkflowTier{
		ID: models.TierFull7,
		Phases: []models.PhaseSpec{
			{Name: PhaseScope, Mode: models.ModeSequential, RequiredRoles: []models.RoleID{models.RoleArchitect}},
			{Name: PhaseArchitecture, Mode: models.ModeSequential, RequiredRoles: []models.RoleID{models.RoleArchitect}},
			{Name: PhaseContract, Mode: models.ModeParallel, RequiredRoles: []models.RoleID{models.RoleImplementerBackend, models.RoleImplementerFrontend}, SkipIf: skipContractWhenSingleModule},
			{Name: PhaseImplement, Mode: models.ModeParallel, RequiredRoles: []models.RoleID{models.RoleImplementerBackend, models.RoleImplementerFrontend}},
			{Name: PhaseVerify, Mode: models.ModeSequential, RequiredRoles: []models.RoleID{models.RoleVerifier}},
			{Name: PhaseUIVerify, Mode: models.ModeSequential, RequiredRoles: []models.RoleID{models.RoleVerifier}, Optional: true, RequiresDriver: true, SkipIf: skipUIVerifyWhenNoSurface},
			{Name: PhaseReview, Mode: models.ModeSequential, RequiredRoles: []models.RoleID{models.RoleReviewer}, SkipIf: skipReviewWhenFamiliarAndSimple},
		},
		DefaultRoles: []models.RoleID{
			models.RoleArchitect,
			models.RoleImplementerBackend,
			models.RoleImplementerFrontend,
			models.RoleVerifier,
			models.RoleReviewer,
		},
	}
}

// extended8 is full7 with a diagnostics phase inserted before
// implementation. Production hotfixes always take this path.
func extended8() models.WorkflowTier {
	full := full7()
	tier := models.WorkflowTier{
		ID:           models.TierExtended8,
		DefaultRoles: append(append([]models.RoleID{}, full.DefaultRoles...), models.RoleDiagnostician),
	}
	for _, p := range full.Phases {
		if p.Name == PhaseImplement {
			tier.Phases = append(tier.Phases, models.PhaseSpec{
				Name:          PhaseDiagnose,
				Mode:          models.ModeSequential,
				RequiredRoles: []models.RoleID{models.RoleDiagnostician},
			})
		}
		tier.Phases = append(tier.Phases, p)
	}
	return tier
}

// Tiers returns the full static tier table, keyed by id. The table is
// built once at process start and treated as read-only.
func Tiers() map[models.TierID]models.WorkflowTier {
	return map[models.TierID]models.WorkflowTier{
		models.TierLightweight3: lightweight3(),
		models.TierStandard5:    standard5(),
		models.TierFull7:        full7(),
		models.TierExtended8:    extended8(),
	}
}
