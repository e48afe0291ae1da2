package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AndVl1/cadence/internal/config"
	"github.com/AndVl1/cadence/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show effective configuration",
	Long: `Print the effective configuration after merging defaults, the user
config (~/.config/cadence/config.yaml), the project config
(.cadence.yaml) and CADENCE_* environment variables.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		if project := config.GetProjectConfigPath(); project != "" {
			fmt.Println(ui.StyleSubtle.Render("# project config: " + project))
		}
		fmt.Println(ui.StyleSubtle.Render("# user config: " + config.GetUserConfigPath()))
		fmt.Println()

		out, err := yaml.Marshal(map[string]any{
			"executor": map[string]any{
				"work_dir": cfg.Executor.WorkDir,
				"roles":    cfg.Executor.Roles,
			},
			"timeouts": map[string]string{
				"phase":     cfg.Timeouts.Phase.String(),
				"role":      cfg.Timeouts.Role.String(),
				"lock_wait": cfg.Timeouts.LockWait.String(),
			},
			"lock":    map[string]string{"stale_after": cfg.Lock.StaleAfter.String()},
			"logging": map[string]bool{"debug": cfg.Logging.Debug},
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering config: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(string(out))
	},
}
