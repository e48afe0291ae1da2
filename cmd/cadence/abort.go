package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AndVl1/cadence/internal/config"
	"github.com/AndVl1/cadence/internal/scheduler"
	"github.com/AndVl1/cadence/internal/ui"
)

var abortReason string

var abortCmd = &cobra.Command{
	Use:   "abort <execution-id>",
	Short: "Abort an execution",
	Long: `Move an execution to the ABORTED state with a recorded reason.

Remaining phases are not dispatched and the driver lock is released if
the execution holds it. Aborted executions cannot be resumed.`,
	Args: cobra.ExactArgs(1),
	RunE: runAbort,
}

func init() {
	abortCmd.Flags().StringVar(&abortReason, "reason", "aborted by operator", "Why the execution is being aborted")
}

func runAbort(cmd *cobra.Command, args []string) error {
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

	e, err := scheduler.Load(db, args[0])
	if err != nil {
		return err
	}

	s := buildScheduler(root, cfg, db)
	if err := s.Abort(cmd.Context(), e, abortReason); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", ui.StyleError.Render("aborted"), e.ID)
	return nil
}
