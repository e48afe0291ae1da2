package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AndVl1/cadence/internal/state"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a Cadence project",
	Long: `Initialize a directory for use with Cadence.

This command sets up everything needed to run Cadence:
  - Creates the .cadence directory structure (state, logs, lock)
  - Creates a .cadence.yaml config template if none exists
  - Adds .cadence/ to .gitignore when a repository is present

The directory argument is optional and defaults to the current directory.

Examples:
  cadence init              # Initialize current directory
  cadence init ./myproject  # Initialize specific directory
  cadence init --force      # Reinitialize even if already set up`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Reinitialize even if already set up")
}

const configTemplate = `# Cadence project configuration.
# Role commands receive the dispatch request as JSON on stdin and must
# print a JSON phase outcome on stdout.
executor:
  work_dir: ""
  roles:
    implementer: ""
    implementer-backend: ""
    implementer-frontend: ""
    verifier: ""
    reviewer: ""
    architect: ""
    diagnostician: ""
    integrator: ""

timeouts:
  phase: 30m
  role: 20m
  lock_wait: 2m

lock:
  stale_after: 30m

logging:
  debug: false
`

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("resolving absolute path: %w", err)
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", absPath, err)
	}

	fmt.Printf("Initializing Cadence in %s...\n\n", absPath)

	cadenceDir := filepath.Join(absPath, ".cadence")
	if _, err := os.Stat(cadenceDir); err == nil && !initForce {
		fmt.Println("Directory already initialized. Use --force to reinitialize.")
		return nil
	}

	for _, sub := range []string{"", "logs"} {
		dir := filepath.Join(cadenceDir, sub)
		if err := os.MkdirAll(dir, 0755); err != nil {
			printStatus("✗", fmt.Sprintf("Could not create %s", dir), color.FgRed)
			return err
		}
	}
	printStatus("✓", ".cadence directory created", color.FgGreen)

	db, err := state.OpenProject(absPath)
	if err != nil {
		printStatus("✗", "Could not create state database", color.FgRed)
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		printStatus("✗", "Could not migrate state database", color.FgRed)
		return err
	}
	printStatus("✓", "State database ready", color.FgGreen)

	configPath := filepath.Join(absPath, ".cadence.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) || initForce {
		if err := os.WriteFile(configPath, []byte(configTemplate), 0644); err != nil {
			printStatus("✗", "Could not write config template", color.FgRed)
			return err
		}
		printStatus("✓", ".cadence.yaml template written", color.FgGreen)
	} else {
		printStatus("-", ".cadence.yaml already exists, left untouched", color.FgYellow)
	}

	if err := addGitignoreEntry(absPath); err == nil {
		printStatus("✓", ".cadence/ added to .gitignore", color.FgGreen)
	}

	fmt.Println("\nNext: fill in role commands in .cadence.yaml, then run 'cadence run'.")
	return nil
}

// addGitignoreEntry appends .cadence/ to the repo's .gitignore when one
// exists and the entry is missing.
func addGitignoreEntry(dir string) error {
	if _, err := os.Stat(filepath.Join(dir, ".git")); err != nil {
		return err
	}
	path := filepath.Join(dir, ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == ".cadence/" {
			return nil
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		fmt.Fprintln(f)
	}
	_, err = fmt.Fprintln(f, ".cadence/")
	return err
}

// printStatus prints a colored status symbol followed by a message.
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
