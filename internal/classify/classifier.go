// Package classify turns raw task signals into a complexity score.
package classify

import (
	"fmt"

	"github.com/AndVl1/cadence/pkg/models"
)

// Weights for the numeric score. FilesAffected dominates because file
// count is the primary band discriminator; the rest are modifiers.
const (
	weightFiles   = 5
	weightModules = 3
	linesPerPoint = 25
	minsPerPoint  = 30
)

// File-count gates for the bands.
const (
	trivialMaxFiles = 2
	simpleMaxFiles  = 5
	mediumMaxFiles  = 15
)

// trivialLineCeiling is the line count above which a two-file bug fix
// is no longer trivial.
const trivialLineCeiling = 50

// lowFamiliarityCeiling marks familiarity low enough that a
// cross-module change is treated as riskier than file count suggests.
const lowFamiliarityCeiling = 4

// Classify derives a ComplexityScore from a TaskSignal. It is pure and
// deterministic: the same signal always yields the same score. A
// malformed signal is rejected up front and produces no score.
func Classify(signal models.TaskSignal) (models.ComplexityScore, error) {
	if err := signal.Validate(); err != nil {
		return models.ComplexityScore{}, fmt.Errorf("invalid task signal: %w", err)
	}

	band := baseBand(signal)

	// A breaking change always promotes the computed band one step,
	// capped at COMPLEX. Ambiguity resolves toward more process, never
	// less: over-scoping a simple task costs minutes, under-scoping a
	// risky one costs a missed review phase.
	if signal.BreakingChange {
		band = band.Promote()
	}

	return models.ComplexityScore{
		Score: numericScore(signal),
		Band:  band,
	}, nil
}

// baseBand applies the file-count gates and secondary modifiers,
// ignoring the breaking-change promotion.
func baseBand(s models.TaskSignal) models.Band {
	switch {
	case s.FilesAffected <= trivialMaxFiles && s.TaskType == models.TaskBugFix:
		if s.LinesAffected > trivialLineCeiling {
			return models.BandSimple
		}
		return models.BandTrivial
	case s.FilesAffected <= simpleMaxFiles:
		// Low familiarity with a cross-module change is riskier than the
		// raw file count suggests.
		if s.ModulesAffected >= 2 && s.Familiarity <= lowFamiliarityCeiling {
			return models.BandMedium
		}
		return models.BandSimple
	case s.FilesAffected <= mediumMaxFiles:
		return models.BandMedium
	default:
		return models.BandComplex
	}
}

// numericScore is the weighted combination of the count fields. It is
// informational: banding is decided by the gates above, not by this
// number.
func numericScore(s models.TaskSignal) int {
	score := s.FilesAffected*weightFiles +
		s.ModulesAffected*weightModules +
		s.LinesAffected/linesPerPoint +
		s.EstimatedMinutes/minsPerPoint
	if s.BreakingChange {
		score += weightFiles * 2
	}
	return score
}
