// Package models defines the core domain types for cadence.
package models

import "fmt"

// TaskType categorizes the kind of development task being orchestrated.
type TaskType string

const (
	// TaskBugFix is a defect fix in existing behavior.
	TaskBugFix TaskType = "bug_fix"
	// TaskFeature is new user-facing functionality.
	TaskFeature TaskType = "feature"
	// TaskRefactor is a behavior-preserving restructuring.
	TaskRefactor TaskType = "refactor"
	// TaskInvestigation is exploratory work with no planned change.
	TaskInvestigation TaskType = "investigation"
	// TaskHotfix is an urgent production fix.
	TaskHotfix TaskType = "hotfix"
)

// Valid returns true if the task type is a known value.
func (t TaskType) Valid() bool {
	switch t {
	case TaskBugFix, TaskFeature, TaskRefactor, TaskInvestigation, TaskHotfix:
		return true
	default:
		return false
	}
}

// TaskSignal is the structured input describing one incoming task.
// It is produced by an external analyzer (diff counts, module touch
// counts); cadence never inspects repositories itself. A signal is
// created once per task and never mutated.
type TaskSignal struct {
	// FilesAffected is the number of files the task is expected to touch.
	FilesAffected int `json:"files_affected"`
	// LinesAffected is the expected total changed line count.
	LinesAffected int `json:"lines_affected"`
	// ModulesAffected is the number of distinct modules touched.
	ModulesAffected int `json:"modules_affected"`
	// TaskType is the category of the task.
	TaskType TaskType `json:"task_type"`
	// BreakingChange indicates the task changes a published contract.
	BreakingChange bool `json:"breaking_change"`
	// Familiarity rates the implementer's familiarity with the area, 1-10.
	Familiarity int `json:"familiarity"`
	// EstimatedMinutes is the rough effort estimate.
	EstimatedMinutes int `json:"estimated_minutes"`
}

// Validate checks the signal for malformed values. Classification
// rejects invalid signals up front rather than producing a score.
func (s TaskSignal) Validate() error {
	if s.FilesAffected < 0 {
		return fmt.Errorf("files_affected must be non-negative, got %d", s.FilesAffected)
	}
	if s.LinesAffected < 0 {
		return fmt.Errorf("lines_affected must be non-negative, got %d", s.LinesAffected)
	}
	if s.ModulesAffected < 0 {
		return fmt.Errorf("modules_affected must be non-negative, got %d", s.ModulesAffected)
	}
	if !s.TaskType.Valid() {
		return fmt.Errorf("unknown task type %q", s.TaskType)
	}
	if s.Familiarity < 1 || s.Familiarity > 10 {
		return fmt.Errorf("familiarity must be in 1..10, got %d", s.Familiarity)
	}
	if s.EstimatedMinutes < 0 {
		return fmt.Errorf("estimated_minutes must be non-negative, got %d", s.EstimatedMinutes)
	}
	return nil
}
