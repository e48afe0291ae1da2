package executor

import (
	"bytes"
	"context"
	"os/exec"
)

// CommandRunner abstracts external command execution so executors can
// be mocked in tests.
type CommandRunner interface {
	// Run executes a command with input on stdin and returns stdout.
	// Stderr is returned separately for diagnostics.
	Run(ctx context.Context, workDir string, input []byte, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

// NewRunner creates a new ExecRunner.
func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes a command with the given stdin payload.
func (r *ExecRunner) Run(ctx context.Context, workDir string, input []byte, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if workDir != "" {
		cmd.Dir = workDir
	}
	if len(input) > 0 {
		cmd.Stdin = bytes.NewReader(input)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Verify ExecRunner implements CommandRunner at compile time.
var _ CommandRunner = (*ExecRunner)(nil)
