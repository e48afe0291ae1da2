package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Task orchestration core",
	Long: `Cadence turns a structured description of a development task into a
phased workflow and drives it to completion.

It classifies the task's complexity from quantifiable signals, selects a
workflow tier (3 to 8 phases), then schedules the phases one by one:
dispatching work to role executors, carrying context between phases as
immutable handoff records, and guarding the exclusive UI-automation
surface with a cross-process lock.

Typical flow:
  cadence init                 # set up .cadence/ in the project
  cadence classify --files 4 --lines 200 --modules 2 --type feature
  cadence run --files 4 ...    # classify, select a tier and execute
  cadence status               # see executions and lock state
  cadence resume               # continue interrupted executions`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(abortCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
