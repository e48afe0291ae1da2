package models

// TierID identifies a workflow tier configuration.
type TierID string

const (
	// TierLightweight3 is the three-phase flow for trivial tasks.
	TierLightweight3 TierID = "LIGHTWEIGHT_3"
	// TierStandard5 is the five-phase flow for simple tasks.
	TierStandard5 TierID = "STANDARD_5"
	// TierFull7 is the seven-phase flow for medium and complex tasks.
	TierFull7 TierID = "FULL_7"
	// TierExtended8 adds a diagnostics phase; all hotfixes land here.
	TierExtended8 TierID = "EXTENDED_8"
)

// Valid returns true if the tier id is a known value.
func (t TierID) Valid() bool {
	switch t {
	case TierLightweight3, TierStandard5, TierFull7, TierExtended8:
		return true
	default:
		return false
	}
}

// RoleID identifies a collaborating role dispatched to a Role Executor.
type RoleID string

const (
	RoleImplementer         RoleID = "implementer"
	RoleImplementerBackend  RoleID = "implementer-backend"
	RoleImplementerFrontend RoleID = "implementer-frontend"
	RoleVerifier            RoleID = "verifier"
	RoleReviewer            RoleID = "reviewer"
	RoleArchitect           RoleID = "architect"
	RoleDiagnostician       RoleID = "diagnostician"
	RoleIntegrator          RoleID = "integrator"
)

// PhaseMode controls whether a phase's roles run one at a time or fan out.
type PhaseMode string

const (
	// ModeSequential runs the phase's roles one after another.
	ModeSequential PhaseMode = "sequential"
	// ModeParallel dispatches all required roles concurrently and joins.
	ModeParallel PhaseMode = "parallel"
)

// SkipPredicate decides whether a phase adds no value for a given task
// and should be skipped. Predicates are pure functions over the
// immutable signal and derived score.
type SkipPredicate func(TaskSignal, ComplexityScore) bool

// PhaseSpec describes one ordered step of a workflow tier.
type PhaseSpec struct {
	// Name identifies the phase (scope, implement, verify, ...).
	Name string `json:"name"`
	// Mode is sequential or parallel.
	Mode PhaseMode `json:"mode"`
	// RequiredRoles are the roles that must report an outcome for this phase.
	RequiredRoles []RoleID `json:"required_roles"`
	// Optional marks phases that may be skipped without blocking the tier.
	Optional bool `json:"optional,omitempty"`
	// RequiresDriver marks phases that drive the exclusive UI-automation
	// surface and therefore must hold the resource lock.
	RequiresDriver bool `json:"requires_driver,omitempty"`
	// SkipIf, when non-nil and true for the task, skips the phase.
	SkipIf SkipPredicate `json:"-"`
}

// WorkflowTier is a named, static workflow configuration. Tiers are
// loaded once at process start and read-only thereafter.
type WorkflowTier struct {
	// ID is the tier identifier.
	ID TierID `json:"id"`
	// Phases is the ordered phase sequence.
	Phases []PhaseSpec `json:"phases"`
	// DefaultRoles is the role set dispatched for this tier.
	DefaultRoles []RoleID `json:"default_roles"`
}

// PhaseCount returns the number of phases in the tier.
func (w WorkflowTier) PhaseCount() int {
	return len(w.Phases)
}

// HasRole returns true if the tier's default role set contains id.
func (w WorkflowTier) HasRole(id RoleID) bool {
	for _, r := range w.DefaultRoles {
		if r == id {
			return true
		}
	}
	return false
}
