package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AndVl1/cadence/internal/config"
	"github.com/AndVl1/cadence/internal/ui"
	"github.com/AndVl1/cadence/pkg/models"
)

var runFlags signalFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Classify a task and execute its workflow",
	Long: `Intake a task signal, select a workflow tier and drive the phases
to a terminal or blocked state.

Each phase dispatches its roles to the commands configured under
executor.roles in .cadence.yaml. A blocked execution (failed mandatory
checks, busy driver lock) can be continued later with 'cadence resume'.

Examples:
  cadence run --files 4 --lines 200 --modules 2 --type feature
  cadence run --signal task.json`,
	RunE: runRun,
}

func init() {
	runFlags.register(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	signalInput, err := runFlags.signal()
	if err != nil {
		return err
	}

	root, err := projectRoot()
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	db, err := openStore(root)
	if err != nil {
		return err
	}
	defer db.Close()

	s := buildScheduler(root, cfg, db)

	e, err := s.Intake(signalInput)
	if err != nil {
		return err
	}
	fmt.Printf("execution %s: band=%s tier=%s\n\n",
		ui.StyleTitle.Render(e.ID), e.Score.Band, e.Tier.ID)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go printEvents(s, done)

	err = s.Advance(ctx, e)
	close(done)
	if err != nil {
		return err
	}

	switch e.Status {
	case models.ExecutionCompleted:
		fmt.Printf("\n%s %d phase(s) executed, %d skipped\n",
			ui.StyleSuccess.Render("done:"), e.ExecutedPhases(), len(e.Handoffs)-e.ExecutedPhases())
	case models.ExecutionBlocked:
		fmt.Printf("\n%s %s\n", ui.StyleWarning.Render("blocked:"), e.Reason)
		fmt.Printf("continue with: cadence resume --id %s\n", e.ID)
	case models.ExecutionAborted:
		fmt.Printf("\n%s %s\n", ui.StyleError.Render("aborted:"), e.Reason)
	}
	return nil
}
