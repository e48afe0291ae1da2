package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AndVl1/cadence/internal/config"
	"github.com/AndVl1/cadence/internal/scheduler"
	"github.com/AndVl1/cadence/internal/state"
	"github.com/AndVl1/cadence/internal/ui"
	"github.com/AndVl1/cadence/pkg/models"
)

var resumeID string

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Continue interrupted executions",
	Long: `Find executions the process left in a non-terminal state and
continue them from the phase they stopped at.

Without --id, lists every interrupted execution. With --id, reloads
that execution from the state database, rebuilds its workflow from the
static tier table and advances it.`,
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().StringVar(&resumeID, "id", "", "Execution id to resume")
}

func runResume(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	db, err := openStore(root)
	if err != nil {
		return err
	}
	defer db.Close()

	if resumeID == "" {
		return listInterrupted(db)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	s := buildScheduler(root, cfg, db)

	e, err := scheduler.Load(db, resumeID)
	if err != nil {
		return err
	}
	if e.Status.Terminal() {
		return fmt.Errorf("execution %s already %s", e.ID, e.Status)
	}

	fmt.Printf("resuming %s at phase %d/%d\n\n", e.ID, e.CurrentPhaseIndex+1, e.Tier.PhaseCount())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan struct{})
	go printEvents(s, done)

	err = s.Advance(ctx, e)
	close(done)
	if err != nil {
		return err
	}

	if e.Status == models.ExecutionBlocked {
		fmt.Printf("\n%s %s\n", ui.StyleWarning.Render("still blocked:"), e.Reason)
	}
	return nil
}

func listInterrupted(db *state.DB) error {
	interrupted, err := state.NewRecoveryManager(db).CheckForInterrupted()
	if err != nil {
		return err
	}
	if len(interrupted) == 0 {
		fmt.Println("Nothing to resume.")
		return nil
	}

	fmt.Println(ui.StyleHeader.Render("Interrupted executions"))
	for _, in := range interrupted {
		fmt.Printf("  %s  %s  tier=%s phase=%d handoffs=%d last activity %s\n",
			in.ExecutionID,
			ui.StatusStyle(string(in.Status)).Render(string(in.Status)),
			in.TierID, in.PhaseIndex, in.Handoffs,
			in.LastActivity.Format("2006-01-02 15:04"))
	}
	fmt.Println("\nresume one with: cadence resume --id <id>")
	return nil
}
