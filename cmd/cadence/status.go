package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/AndVl1/cadence/internal/reslock"
	"github.com/AndVl1/cadence/internal/state"
	"github.com/AndVl1/cadence/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show executions and driver lock state",
	Long: `Display the state of the project's task executions.

Shows every execution in the state database with its complexity band,
tier, phase position and lifecycle status, followed by the driver lock
holder if the lock is taken.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		fmt.Println("No project state. Run 'cadence init' to set up.")
		return nil
	}

	dbPath := state.ProjectDBPath(root)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No executions yet. Run 'cadence run' to start one.")
		return nil
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	executions, err := db.ListExecutions(nil)
	if err != nil {
		return fmt.Errorf("list executions: %w", err)
	}
	if len(executions) == 0 {
		fmt.Println("No executions yet. Run 'cadence run' to start one.")
		return nil
	}

	fmt.Println(ui.StyleHeader.Render("Executions"))
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		ui.StyleCell.Width(38).Render("ID"),
		ui.StyleCell.Width(9).Render("BAND"),
		ui.StyleCell.Width(14).Render("TIER"),
		ui.StyleCell.Width(7).Render("PHASE"),
		ui.StyleCell.Width(11).Render("STATUS"),
		"CREATED",
	)
	fmt.Println(ui.StyleSubtle.Render(header))

	for _, e := range executions {
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			ui.StyleCell.Width(38).Render(e.ID),
			ui.StyleCell.Width(9).Render(ui.BandStyle(string(e.Score.Band)).Render(string(e.Score.Band))),
			ui.StyleCell.Width(14).Render(string(e.TierID)),
			ui.StyleCell.Width(7).Render(fmt.Sprintf("%d", e.PhaseIndex)),
			ui.StyleCell.Width(11).Render(ui.StatusStyle(string(e.Status)).Render(string(e.Status))),
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
		fmt.Println(row)
		if e.Reason != "" {
			fmt.Println(ui.StyleSubtle.Render("    " + e.Reason))
		}
	}

	lock := reslock.New(lockPath(root))
	holder, err := lock.Holder()
	if err != nil {
		return fmt.Errorf("read driver lock: %w", err)
	}

	fmt.Println()
	fmt.Println(ui.StyleHeader.Render("Driver lock"))
	if holder == "" {
		fmt.Println(ui.StyleSubtle.Render("  free"))
		return nil
	}
	stale, _ := lock.IsStale()
	if stale {
		fmt.Printf("  held by %s %s\n", holder, ui.StyleWarning.Render("(stale, will be reclaimed)"))
	} else {
		fmt.Printf("  held by %s\n", holder)
	}
	return nil
}
