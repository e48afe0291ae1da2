package models

import "testing"

func validSignal() TaskSignal {
	return TaskSignal{
		FilesAffected:    3,
		LinesAffected:    40,
		ModulesAffected:  1,
		TaskType:         TaskFeature,
		Familiarity:      7,
		EstimatedMinutes: 60,
	}
}

func TestTaskSignalValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TaskSignal)
		wantErr bool
	}{
		{"valid", func(s *TaskSignal) {}, false},
		{"negative files", func(s *TaskSignal) { s.FilesAffected = -1 }, true},
		{"negative lines", func(s *TaskSignal) { s.LinesAffected = -10 }, true},
		{"negative modules", func(s *TaskSignal) { s.ModulesAffected = -2 }, true},
		{"unknown task type", func(s *TaskSignal) { s.TaskType = "chore" }, true},
		{"familiarity too low", func(s *TaskSignal) { s.Familiarity = 0 }, true},
		{"familiarity too high", func(s *TaskSignal) { s.Familiarity = 11 }, true},
		{"negative estimate", func(s *TaskSignal) { s.EstimatedMinutes = -5 }, true},
		{"zero counts are fine", func(s *TaskSignal) {
			s.FilesAffected = 0
			s.LinesAffected = 0
			s.ModulesAffected = 0
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSignal()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTaskTypeValid(t *testing.T) {
	for _, tt := range []TaskType{TaskBugFix, TaskFeature, TaskRefactor, TaskInvestigation, TaskHotfix} {
		if !tt.Valid() {
			t.Errorf("TaskType(%q).Valid() = false, want true", tt)
		}
	}
	if TaskType("HOTFIX").Valid() {
		t.Error("uppercase task type should not be valid")
	}
}

func TestBandPromote(t *testing.T) {
	tests := []struct {
		in   Band
		want Band
	}{
		{BandTrivial, BandSimple},
		{BandSimple, BandMedium},
		{BandMedium, BandComplex},
		{BandComplex, BandComplex},
	}
	for _, tt := range tests {
		if got := tt.in.Promote(); got != tt.want {
			t.Errorf("Promote(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestBandAtLeast(t *testing.T) {
	if !BandMedium.AtLeast(BandSimple) {
		t.Error("MEDIUM should be at least SIMPLE")
	}
	if BandTrivial.AtLeast(BandSimple) {
		t.Error("TRIVIAL should not be at least SIMPLE")
	}
	if !BandComplex.AtLeast(BandComplex) {
		t.Error("a band should be at least itself")
	}
}
