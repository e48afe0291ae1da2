package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AndVl1/cadence/internal/classify"
	"github.com/AndVl1/cadence/internal/ui"
	"github.com/AndVl1/cadence/internal/workflow"
	"github.com/AndVl1/cadence/pkg/models"
)

var classifyFlags signalFlags

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a task signal and show the selected tier",
	Long: `Classify a task from its quantifiable signals and print the
complexity band, weighted score and the workflow tier that would run.

Classification is deterministic: the same signal always produces the
same band and tier. Nothing is executed or persisted.

Examples:
  cadence classify --files 1 --lines 10 --type bug_fix --familiarity 9
  cadence classify --signal task.json`,
	RunE: runClassify,
}

func init() {
	classifyFlags.register(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	signal, err := classifyFlags.signal()
	if err != nil {
		return err
	}

	score, err := classify.Classify(signal)
	if err != nil {
		return err
	}
	tier := workflow.Select(score, signal.TaskType)

	fmt.Printf("band:  %s\n", ui.BandStyle(string(score.Band)).Render(string(score.Band)))
	fmt.Printf("score: %d\n", score.Score)
	fmt.Printf("tier:  %s (%d phases)\n", tier.ID, tier.PhaseCount())
	for _, p := range tier.Phases {
		mode := ""
		if p.Mode == models.ModeParallel {
			mode = "  [parallel]"
		}
		if p.RequiresDriver {
			mode += "  [driver]"
		}
		skipped := ""
		if p.SkipIf != nil && p.SkipIf(signal, score) {
			skipped = ui.StyleSubtle.Render("  (will skip)")
		}
		fmt.Printf("  - %s%s%s\n", p.Name, mode, skipped)
	}
	return nil
}
