package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AndVl1/cadence/internal/classify"
	"github.com/AndVl1/cadence/internal/executor"
	"github.com/AndVl1/cadence/internal/handoff"
	"github.com/AndVl1/cadence/internal/reslock"
	"github.com/AndVl1/cadence/internal/state"
	"github.com/AndVl1/cadence/internal/workflow"
	"github.com/AndVl1/cadence/pkg/models"
)

const (
	// defaultPhaseTimeout bounds one phase dispatch including all
	// parallel roles.
	defaultPhaseTimeout = 30 * time.Minute
	// defaultLockWait bounds how long a driver phase waits for the
	// exclusive tool surface before the execution goes BLOCKED.
	defaultLockWait = 2 * time.Minute
	// eventBuffer is the capacity of the event channel.
	eventBuffer = 64
)

// ErrTerminal is returned when Advance or Abort is called on an
// execution that already completed or was aborted.
var ErrTerminal = errors.New("execution is in a terminal state")

// Scheduler owns the phase state machine for task executions. One
// scheduler may drive many executions; the single shared resource is
// the driver lock.
type Scheduler struct {
	execs  executor.RoleExecutor
	lock   *reslock.Lock
	store  state.Store
	logger *DebugLogger
	events chan Event

	phaseTimeout time.Duration
	lockWait     time.Duration
	now          func() time.Time

	// cancels allows Abort to cooperatively cancel an in-flight
	// Advance for the same execution. The execution itself is owned by
	// whichever goroutine runs Advance, so Abort never mutates it
	// while one is in flight; it parks the reason here instead.
	cancelsMu    sync.Mutex
	cancels      map[string]context.CancelFunc
	abortReasons map[string]string
}

// Option configures a Scheduler. Use With* functions to create Options.
type Option func(*Scheduler)

// WithStore enables persistence of executions and handoff records.
func WithStore(st state.Store) Option {
	return func(s *Scheduler) { s.store = st }
}

// WithPhaseTimeout bounds the wall-clock time of a single phase.
func WithPhaseTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.phaseTimeout = d }
}

// WithLockWait bounds how long driver phases wait for the lock.
func WithLockWait(d time.Duration) Option {
	return func(s *Scheduler) { s.lockWait = d }
}

// WithLogger sets the debug logger.
func WithLogger(l *DebugLogger) Option {
	return func(s *Scheduler) {
		s.logger = l
		setPackageLogger(l)
	}
}

// New creates a Scheduler that dispatches phase work to execs and
// guards driver phases with lock.
func New(execs executor.RoleExecutor, lock *reslock.Lock, opts ...Option) *Scheduler {
	s := &Scheduler{
		execs:        execs,
		lock:         lock,
		logger:       NopLogger(),
		events:       make(chan Event, eventBuffer),
		phaseTimeout: defaultPhaseTimeout,
		lockWait:     defaultLockWait,
		now:          time.Now,
		cancels:      make(map[string]context.CancelFunc),
		abortReasons: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Events returns the channel of scheduler events. The channel is
// buffered and never closed; events may be dropped under backpressure.
func (s *Scheduler) Events() <-chan Event {
	return s.events
}

// Intake classifies a task signal, selects its workflow tier and
// creates a new execution positioned at the first phase. The execution
// is persisted when a store is configured.
func (s *Scheduler) Intake(signal models.TaskSignal) (*models.TaskExecution, error) {
	score, err := classify.Classify(signal)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	tier := workflow.Select(score, signal.TaskType)

	e := &models.TaskExecution{
		ID:        uuid.NewString(),
		Signal:    signal,
		Score:     score,
		Tier:      tier,
		Status:    models.ExecutionRunning,
		CreatedAt: s.now().UTC(),
	}

	if s.store != nil {
		if err := s.store.CreateExecution(executionRow(e)); err != nil {
			return nil, fmt.Errorf("persist execution: %w", err)
		}
	}
	s.logger.Log("intake %s: band=%s tier=%s phases=%d", e.ID, score.Band, tier.ID, tier.PhaseCount())
	return e, nil
}

// Advance drives the execution forward until it completes, blocks or
// fails to persist. A BLOCKED execution may be passed back in to retry
// the phase it stopped at. ctx cancellation aborts in-flight phase
// work cooperatively.
func (s *Scheduler) Advance(ctx context.Context, e *models.TaskExecution) error {
	if e.Status.Terminal() {
		return fmt.Errorf("%w: %s is %s", ErrTerminal, e.ID, e.Status)
	}
	if e.Status == models.ExecutionBlocked {
		e.Status = models.ExecutionRunning
		e.Reason = ""
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.registerCancel(e.ID, cancel)
	defer s.unregisterCancel(e.ID)

	hlog := handoff.FromRecords(e.Handoffs)

	for {
		if err := ctx.Err(); err != nil {
			return s.abortLocked(e, "context cancelled")
		}

		phase, ok := e.CurrentPhase()
		if !ok {
			return s.complete(e)
		}

		if phase.SkipIf != nil && phase.SkipIf(e.Signal, e.Score) {
			rec := hlog.MarkSkipped(phase.Name, skipReason(phase, e.Signal, e.Score))
			if err := s.persistRecord(e, hlog, rec); err != nil {
				return err
			}
			e.CurrentPhaseIndex++
			if err := s.persistExecution(e); err != nil {
				return err
			}
			s.emit(Event{Type: EventPhaseSkipped, ExecutionID: e.ID, Phase: phase.Name, Message: rec.SkipReason})
			s.logger.Log("%s: skipped %s (%s)", e.ID, phase.Name, rec.SkipReason)
			continue
		}

		if err := hlog.CanStart(e.Tier, e.CurrentPhaseIndex); err != nil {
			return s.block(e, fmt.Sprintf("cannot start %s: %v", phase.Name, err))
		}

		var lockToken string
		if phase.RequiresDriver {
			token, err := s.lock.AcquireWait(ctx, e.ID, s.lockWait)
			if errors.Is(err, reslock.ErrHeld) {
				return s.block(e, fmt.Sprintf("waiting for driver lock before %s", phase.Name))
			}
			if err != nil {
				if ctx.Err() != nil {
					return s.abortLocked(e, "context cancelled")
				}
				return fmt.Errorf("acquire driver lock: %w", err)
			}
			lockToken = token
			s.emit(Event{Type: EventLockAcquired, ExecutionID: e.ID, Phase: phase.Name})
		}

		s.emit(Event{Type: EventPhaseStarted, ExecutionID: e.ID, Phase: phase.Name})
		s.logger.Log("%s: starting %s (%s, %d role(s))", e.ID, phase.Name, phase.Mode, len(phase.RequiredRoles))

		rec := s.runPhase(ctx, e, phase, lockToken, hlog.Records())
		rec = hlog.Append(rec)

		if phase.RequiresDriver {
			if err := s.lock.Release(e.ID); err != nil {
				s.logger.Log("%s: release driver lock: %v", e.ID, err)
			}
			s.emit(Event{Type: EventLockReleased, ExecutionID: e.ID, Phase: phase.Name})
		}

		if err := s.persistRecord(e, hlog, rec); err != nil {
			return err
		}

		if ctx.Err() != nil {
			return s.abortLocked(e, "context cancelled")
		}

		if rec.HasUnsatisfiedMandatory() {
			items := rec.UnsatisfiedMandatory()
			s.emit(Event{Type: EventPhaseFailed, ExecutionID: e.ID, Phase: phase.Name,
				Message: items[0].Item})
			return s.block(e, fmt.Sprintf("phase %s left %d unsatisfied mandatory item(s)",
				phase.Name, len(items)))
		}

		e.CurrentPhaseIndex++
		if err := s.persistExecution(e); err != nil {
			return err
		}
		s.emit(Event{Type: EventPhaseCompleted, ExecutionID: e.ID, Phase: phase.Name})
	}
}

// Abort moves the execution to ABORTED with the given reason and
// releases the driver lock unconditionally. Remaining phases are never
// dispatched. When an Advance is in flight for the execution, abort is
// cooperative: the phase context is cancelled and the in-flight call
// applies the terminal transition once its executors return.
func (s *Scheduler) Abort(ctx context.Context, e *models.TaskExecution, reason string) error {
	if e.Status.Terminal() {
		return fmt.Errorf("%w: %s is %s", ErrTerminal, e.ID, e.Status)
	}

	s.cancelsMu.Lock()
	cancel, inflight := s.cancels[e.ID]
	if inflight {
		s.abortReasons[e.ID] = reason
		cancel()
	}
	s.cancelsMu.Unlock()

	if inflight {
		return nil
	}
	return s.abort(e, reason)
}

func (s *Scheduler) abort(e *models.TaskExecution, reason string) error {
	if err := s.lock.Release(e.ID); err != nil {
		s.logger.Log("%s: release driver lock on abort: %v", e.ID, err)
	}

	now := s.now().UTC()
	e.Status = models.ExecutionAborted
	e.Reason = reason
	e.CompletedAt = &now
	if err := s.persistExecution(e); err != nil {
		return err
	}

	s.emit(Event{Type: EventExecutionAborted, ExecutionID: e.ID, Message: reason})
	s.logger.Log("%s: aborted (%s)", e.ID, reason)
	return nil
}

// abortLocked applies an abort from inside Advance after its context
// was cancelled, preferring the reason a concurrent Abort parked.
func (s *Scheduler) abortLocked(e *models.TaskExecution, fallback string) error {
	s.cancelsMu.Lock()
	reason, ok := s.abortReasons[e.ID]
	delete(s.abortReasons, e.ID)
	s.cancelsMu.Unlock()
	if !ok {
		reason = fallback
	}

	if e.Status.Terminal() {
		return nil
	}
	return s.abort(e, reason)
}

func (s *Scheduler) complete(e *models.TaskExecution) error {
	now := s.now().UTC()
	e.Status = models.ExecutionCompleted
	e.Reason = ""
	e.CompletedAt = &now
	if err := s.persistExecution(e); err != nil {
		return err
	}
	s.emit(Event{Type: EventExecutionCompleted, ExecutionID: e.ID})
	s.logger.Log("%s: completed after %d executed phase(s)", e.ID, e.ExecutedPhases())
	return nil
}

func (s *Scheduler) block(e *models.TaskExecution, reason string) error {
	e.Status = models.ExecutionBlocked
	e.Reason = reason
	if err := s.persistExecution(e); err != nil {
		return err
	}
	s.emit(Event{Type: EventExecutionBlocked, ExecutionID: e.ID, Message: reason})
	s.logger.Log("%s: blocked (%s)", e.ID, reason)
	return nil
}

// roleResult is one role's contribution to a phase.
type roleResult struct {
	role    models.RoleID
	outcome *models.PhaseOutcome
	err     error
}

// runPhase dispatches every required role of the phase and merges
// their outcomes into a single handoff record. Executor failures are
// absorbed into the record as unsatisfied mandatory checklist items,
// never surfaced as scheduler errors.
func (s *Scheduler) runPhase(ctx context.Context, e *models.TaskExecution, phase models.PhaseSpec,
	lockToken string, history []models.HandoffRecord) models.HandoffRecord {

	phaseCtx, cancel := context.WithTimeout(ctx, s.phaseTimeout)
	defer cancel()

	roles := phase.RequiredRoles
	if len(roles) == 0 {
		roles = e.Tier.DefaultRoles
	}

	results := make([]roleResult, len(roles))
	if phase.Mode == models.ModeParallel {
		var wg sync.WaitGroup
		for i, role := range roles {
			wg.Add(1)
			go func(i int, role models.RoleID) {
				defer wg.Done()
				results[i] = s.dispatch(phaseCtx, e, phase, role, lockToken, history)
			}(i, role)
		}
		wg.Wait()
	} else {
		for i, role := range roles {
			results[i] = s.dispatch(phaseCtx, e, phase, role, lockToken, history)
			if results[i].err != nil || (results[i].outcome != nil && !results[i].outcome.Success) {
				// A failed role makes the phase fail regardless, no
				// point dispatching the rest sequentially.
				results = results[:i+1]
				break
			}
		}
	}

	return mergeResults(e, phase, results)
}

func (s *Scheduler) dispatch(ctx context.Context, e *models.TaskExecution, phase models.PhaseSpec,
	role models.RoleID, lockToken string, history []models.HandoffRecord) roleResult {

	outcome, err := s.execs.Execute(ctx, executor.Request{
		TaskID:    e.ID,
		Phase:     phase.Name,
		Role:      role,
		LockToken: lockToken,
		Handoffs:  history,
	})
	if err != nil {
		s.logger.Log("%s: role %s failed in %s: %v", e.ID, role, phase.Name, err)
	}
	return roleResult{role: role, outcome: outcome, err: err}
}

// mergeResults folds per-role outcomes into one handoff record:
// summaries concatenated, file lists and decisions appended, metrics
// summed, checklists unioned. A role that errored or reported failure
// contributes an unsatisfied mandatory item so CanStart gates the next
// phase.
func mergeResults(e *models.TaskExecution, phase models.PhaseSpec, results []roleResult) models.HandoffRecord {
	rec := models.HandoffRecord{
		FromPhase: phase.Name,
		ToPhase:   nextPhaseName(e.Tier, e.CurrentPhaseIndex),
	}

	var summaries []string
	for _, r := range results {
		if r.err != nil {
			summaries = append(summaries, fmt.Sprintf("%s: dispatch failed: %v", r.role, r.err))
			rec.VerificationChecklist = append(rec.VerificationChecklist, models.ChecklistItem{
				Item:      fmt.Sprintf("role %s completed phase %s", r.role, phase.Name),
				Mandatory: true,
				Satisfied: false,
			})
			continue
		}
		o := r.outcome
		summaries = append(summaries, fmt.Sprintf("%s: %s", r.role, o.Summary))
		rec.FilesTouched = append(rec.FilesTouched, o.FilesTouched...)
		rec.KeyDecisions = append(rec.KeyDecisions, o.Decisions...)
		rec.OpenEdgeCases = append(rec.OpenEdgeCases, o.OpenEdgeCases...)
		rec.VerificationChecklist = append(rec.VerificationChecklist, o.ChecklistResults...)
		rec.Metrics.Add(o.Metrics)
		for k, v := range o.ContractArtifacts {
			if rec.ContractArtifacts == nil {
				rec.ContractArtifacts = make(map[string]json.RawMessage)
			}
			rec.ContractArtifacts[k] = v
		}
		if !o.Success {
			rec.VerificationChecklist = append(rec.VerificationChecklist, models.ChecklistItem{
				Item:      fmt.Sprintf("role %s completed phase %s", r.role, phase.Name),
				Mandatory: true,
				Satisfied: false,
			})
		}
	}
	rec.Summary = strings.Join(summaries, "\n")
	return rec
}

// nextPhaseName returns the name of the phase after idx, or empty for
// the last phase.
func nextPhaseName(tier models.WorkflowTier, idx int) string {
	if idx+1 < len(tier.Phases) {
		return tier.Phases[idx+1].Name
	}
	return ""
}

// skipReason names which property of the task made the phase
// unnecessary.
func skipReason(phase models.PhaseSpec, s models.TaskSignal, score models.ComplexityScore) string {
	return fmt.Sprintf("%s adds no value for this task (type=%s modules=%d familiarity=%d band=%s)",
		phase.Name, s.TaskType, s.ModulesAffected, s.Familiarity, score.Band)
}

func (s *Scheduler) registerCancel(id string, cancel context.CancelFunc) {
	s.cancelsMu.Lock()
	defer s.cancelsMu.Unlock()
	s.cancels[id] = cancel
}

func (s *Scheduler) unregisterCancel(id string) {
	s.cancelsMu.Lock()
	defer s.cancelsMu.Unlock()
	delete(s.cancels, id)
}

// persistRecord keeps the execution's in-memory log and the store in
// sync after any append.
func (s *Scheduler) persistRecord(e *models.TaskExecution, hlog *handoff.Log, rec models.HandoffRecord) error {
	e.Handoffs = hlog.Records()
	if s.store == nil {
		return nil
	}
	if err := s.store.AppendHandoff(e.ID, rec); err != nil {
		return fmt.Errorf("persist handoff: %w", err)
	}
	return nil
}

func (s *Scheduler) persistExecution(e *models.TaskExecution) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.UpdateExecution(executionRow(e)); err != nil {
		return fmt.Errorf("persist execution: %w", err)
	}
	return nil
}

// executionRow maps the live execution to its persisted form. The
// tier is stored by id only; phase tables are static configuration.
func executionRow(e *models.TaskExecution) *state.Execution {
	return &state.Execution{
		ID:          e.ID,
		Signal:      e.Signal,
		Score:       e.Score,
		TierID:      e.Tier.ID,
		PhaseIndex:  e.CurrentPhaseIndex,
		Status:      e.Status,
		Reason:      e.Reason,
		CreatedAt:   e.CreatedAt,
		CompletedAt: e.CompletedAt,
	}
}

// Load rebuilds a live execution from its persisted row and handoff
// history. Phase tables come from the static tier configuration.
func Load(st state.Store, id string) (*models.TaskExecution, error) {
	row, err := st.GetExecution(id)
	if err != nil {
		return nil, err
	}
	tier, ok := workflow.Tiers()[row.TierID]
	if !ok {
		return nil, fmt.Errorf("unknown tier %s for execution %s", row.TierID, id)
	}
	records, err := st.ListHandoffs(id)
	if err != nil {
		return nil, fmt.Errorf("load handoffs: %w", err)
	}
	return &models.TaskExecution{
		ID:                row.ID,
		Signal:            row.Signal,
		Score:             row.Score,
		Tier:              tier,
		CurrentPhaseIndex: row.PhaseIndex,
		Status:            row.Status,
		Reason:            row.Reason,
		Handoffs:          records,
		CreatedAt:         row.CreatedAt,
		CompletedAt:       row.CompletedAt,
	}, nil
}
