package classify

import (
	"testing"

	"github.com/AndVl1/cadence/pkg/models"
)

func signal(files, lines, modules int, taskType models.TaskType, breaking bool, familiarity, minutes int) models.TaskSignal {
	return models.TaskSignal{
		FilesAffected:    files,
		LinesAffected:    lines,
		ModulesAffected:  modules,
		TaskType:         taskType,
		BreakingChange:   breaking,
		Familiarity:      familiarity,
		EstimatedMinutes: minutes,
	}
}

func TestClassifyBands(t *testing.T) {
	tests := []struct {
		name string
		in   models.TaskSignal
		want models.Band
	}{
		{"small bug fix is trivial", signal(1, 10, 1, models.TaskBugFix, false, 8, 15), models.BandTrivial},
		{"two-file bug fix is trivial", signal(2, 30, 1, models.TaskBugFix, false, 5, 30), models.BandTrivial},
		{"long bug fix is at least simple", signal(2, 80, 1, models.TaskBugFix, false, 8, 30), models.BandSimple},
		{"small feature is simple", signal(2, 20, 1, models.TaskFeature, false, 8, 30), models.BandSimple},
		{"five files is simple", signal(5, 100, 1, models.TaskFeature, false, 7, 60), models.BandSimple},
		{"cross-module low familiarity promotes to medium", signal(4, 100, 2, models.TaskFeature, false, 3, 60), models.BandMedium},
		{"cross-module high familiarity stays simple", signal(4, 100, 2, models.TaskFeature, false, 8, 60), models.BandSimple},
		{"fifteen files is medium", signal(15, 400, 3, models.TaskFeature, false, 6, 120), models.BandMedium},
		{"twenty files is complex", signal(20, 800, 4, models.TaskFeature, false, 6, 240), models.BandComplex},
		{"refactor never takes the trivial gate", signal(1, 5, 1, models.TaskRefactor, false, 9, 10), models.BandSimple},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.in)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got.Band != tt.want {
				t.Errorf("Classify() band = %s, want %s", got.Band, tt.want)
			}
		})
	}
}

func TestClassifyBreakingChangePromotesOneStep(t *testing.T) {
	tests := []struct {
		name string
		in   models.TaskSignal
		want models.Band
	}{
		{"trivial promotes to simple", signal(1, 10, 1, models.TaskBugFix, true, 8, 15), models.BandSimple},
		{"simple promotes to medium", signal(4, 100, 1, models.TaskFeature, true, 8, 60), models.BandMedium},
		{"medium promotes to complex", signal(10, 300, 2, models.TaskFeature, true, 6, 120), models.BandComplex},
		{"complex stays complex", signal(30, 1000, 5, models.TaskFeature, true, 4, 300), models.BandComplex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.in)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got.Band != tt.want {
				t.Errorf("Classify() band = %s, want %s", got.Band, tt.want)
			}
		})
	}
}

// Promotion is monotone: flipping breaking_change on can never lower
// the band.
func TestClassifyMonotonicPromotion(t *testing.T) {
	signals := []models.TaskSignal{
		signal(1, 10, 1, models.TaskBugFix, false, 8, 15),
		signal(3, 60, 2, models.TaskFeature, false, 4, 45),
		signal(8, 200, 2, models.TaskRefactor, false, 6, 90),
		signal(25, 900, 4, models.TaskFeature, false, 5, 240),
	}

	for _, base := range signals {
		plain, err := Classify(base)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}

		broken := base
		broken.BreakingChange = true
		promoted, err := Classify(broken)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}

		if !promoted.Band.AtLeast(plain.Band) {
			t.Errorf("breaking change lowered band: %s -> %s for %+v", plain.Band, promoted.Band, base)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	s := signal(7, 220, 2, models.TaskFeature, true, 5, 120)
	first, err := Classify(s)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Classify(s)
		if err != nil {
			t.Fatalf("Classify() error = %v", err)
		}
		if again != first {
			t.Fatalf("Classify() not deterministic: %+v vs %+v", again, first)
		}
	}
}

func TestClassifyRejectsMalformedSignal(t *testing.T) {
	bad := signal(-1, 10, 1, models.TaskBugFix, false, 8, 15)
	if _, err := Classify(bad); err == nil {
		t.Error("Classify() should reject negative file counts")
	}

	unknown := signal(1, 10, 1, "mystery", false, 8, 15)
	if _, err := Classify(unknown); err == nil {
		t.Error("Classify() should reject unknown task types")
	}
}
