package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AndVl1/cadence/internal/config"
	"github.com/AndVl1/cadence/internal/executor"
	"github.com/AndVl1/cadence/internal/reslock"
	"github.com/AndVl1/cadence/internal/scheduler"
	"github.com/AndVl1/cadence/internal/state"
	"github.com/AndVl1/cadence/internal/ui"
)

// projectRoot returns the directory holding .cadence, or an error
// telling the user to run init.
func projectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for dir := cwd; ; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, ".cadence")); err == nil {
			return dir, nil
		}
		if filepath.Dir(dir) == dir {
			break
		}
	}
	return "", fmt.Errorf("no .cadence directory found; run 'cadence init' first")
}

func lockPath(root string) string {
	return filepath.Join(root, ".cadence", "driver.lock")
}

// openStore opens the project state database and migrates it.
func openStore(root string) (*state.DB, error) {
	db, err := state.OpenProject(root)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate state database: %w", err)
	}
	return db, nil
}

// buildScheduler wires config, store, lock and local role executors
// into a ready scheduler.
func buildScheduler(root string, cfg *config.Config, db *state.DB) *scheduler.Scheduler {
	workDir := cfg.Executor.WorkDir
	if workDir == "" {
		workDir = root
	}
	execs := executor.NewLocal(executor.NewRunner(), workDir, cfg.RoleCommands(), cfg.Timeouts.Role)
	lock := reslock.New(lockPath(root), reslock.WithStaleAfter(cfg.Lock.StaleAfter))

	opts := []scheduler.Option{
		scheduler.WithStore(db),
		scheduler.WithPhaseTimeout(cfg.Timeouts.Phase),
		scheduler.WithLockWait(cfg.Timeouts.LockWait),
	}
	if cfg.Logging.Debug {
		opts = append(opts, scheduler.WithLogger(scheduler.NewDebugLoggerForProject(root)))
	}
	return scheduler.New(execs, lock, opts...)
}

// printEvents renders scheduler events until the channel goes quiet.
// It is meant to run on its own goroutine while Advance executes.
func printEvents(s *scheduler.Scheduler, done <-chan struct{}) {
	for {
		select {
		case ev := <-s.Events():
			renderEvent(ev)
		case <-done:
			// Drain whatever is left.
			for {
				select {
				case ev := <-s.Events():
					renderEvent(ev)
				default:
					return
				}
			}
		}
	}
}

func renderEvent(ev scheduler.Event) {
	switch ev.Type {
	case scheduler.EventPhaseStarted:
		fmt.Printf("%s %s\n", ui.StylePrimary.Render("▶"), ev.Phase)
	case scheduler.EventPhaseCompleted:
		fmt.Printf("%s %s\n", ui.StyleSuccess.Render("✓"), ev.Phase)
	case scheduler.EventPhaseSkipped:
		fmt.Printf("%s %s %s\n", ui.StyleSubtle.Render("↷"), ev.Phase, ui.StyleSubtle.Render("("+ev.Message+")"))
	case scheduler.EventPhaseFailed:
		fmt.Printf("%s %s: %s\n", ui.StyleError.Render("✗"), ev.Phase, ev.Message)
	case scheduler.EventExecutionBlocked:
		fmt.Printf("%s blocked: %s\n", ui.StyleWarning.Render("⏸"), ev.Message)
	case scheduler.EventExecutionCompleted:
		fmt.Printf("%s execution completed\n", ui.StyleSuccess.Render("✓"))
	case scheduler.EventExecutionAborted:
		fmt.Printf("%s aborted: %s\n", ui.StyleError.Render("✗"), ev.Message)
	}
}
