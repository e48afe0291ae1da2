package workflow

import "github.com/AndVl1/cadence/pkg/models"

// Selector maps a complexity score and task type to a workflow tier.
type Selector struct {
	tiers map[models.TierID]models.WorkflowTier
}

// NewSelector creates a Selector over the built-in tier table.
func NewSelector() *Selector {
	return &Selector{tiers: Tiers()}
}

// Select resolves the workflow tier for a classified task. It is a
// pure first-match decision table: the same inputs always produce the
// same tier.
//
//	HOTFIX        -> EXTENDED_8 (type override beats score)
//	band TRIVIAL  -> LIGHTWEIGHT_3
//	band SIMPLE   -> STANDARD_5
//	band MEDIUM   -> FULL_7
//	band COMPLEX  -> FULL_7 with a widened role set
func (s *Selector) Select(score models.ComplexityScore, taskType models.TaskType) models.WorkflowTier {
	if taskType == models.TaskHotfix {
		return s.tiers[models.TierExtended8]
	}

	switch score.Band {
	case models.BandTrivial:
		return s.tiers[models.TierLightweight3]
	case models.BandSimple:
		return s.tiers[models.TierStandard5]
	case models.BandComplex:
		return widenRoles(s.tiers[models.TierFull7])
	default:
		return s.tiers[models.TierFull7]
	}
}

// widenRoles returns a copy of the tier with the integrator added to
// the default role set. COMPLEX work keeps the same phase count but
// gets more hands.
func widenRoles(tier models.WorkflowTier) models.WorkflowTier {
	widened := tier
	widened.DefaultRoles = append(append([]models.RoleID{}, tier.DefaultRoles...), models.RoleIntegrator)
	return widened
}

// Select is a convenience wrapper over a default Selector.
func Select(score models.ComplexityScore, taskType models.TaskType) models.WorkflowTier {
	return NewSelector().Select(score, taskType)
}
