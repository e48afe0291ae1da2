package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AndVl1/cadence/pkg/models"
)

// signalFlags collects the task signal from command-line flags or a
// JSON file. The same set is shared by classify and run.
type signalFlags struct {
	file        string
	files       int
	lines       int
	modules     int
	taskType    string
	breaking    bool
	familiarity int
	minutes     int
}

func (sf *signalFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sf.file, "signal", "", "Path to a JSON task signal (overrides other flags)")
	cmd.Flags().IntVar(&sf.files, "files", 1, "Number of files affected")
	cmd.Flags().IntVar(&sf.lines, "lines", 0, "Estimated lines affected")
	cmd.Flags().IntVar(&sf.modules, "modules", 1, "Number of modules affected")
	cmd.Flags().StringVar(&sf.taskType, "type", string(models.TaskFeature), "Task type: bug_fix, feature, refactor, investigation, hotfix")
	cmd.Flags().BoolVar(&sf.breaking, "breaking", false, "Change breaks an existing API contract")
	cmd.Flags().IntVar(&sf.familiarity, "familiarity", 5, "Team familiarity with the area, 1-10")
	cmd.Flags().IntVar(&sf.minutes, "minutes", 60, "Estimated effort in minutes")
}

func (sf *signalFlags) signal() (models.TaskSignal, error) {
	if sf.file != "" {
		data, err := os.ReadFile(sf.file)
		if err != nil {
			return models.TaskSignal{}, fmt.Errorf("read signal file: %w", err)
		}
		var s models.TaskSignal
		if err := json.Unmarshal(data, &s); err != nil {
			return models.TaskSignal{}, fmt.Errorf("decode signal file: %w", err)
		}
		return s, s.Validate()
	}

	s := models.TaskSignal{
		FilesAffected:    sf.files,
		LinesAffected:    sf.lines,
		ModulesAffected:  sf.modules,
		TaskType:         models.TaskType(sf.taskType),
		BreakingChange:   sf.breaking,
		Familiarity:      sf.familiarity,
		EstimatedMinutes: sf.minutes,
	}
	return s, s.Validate()
}
