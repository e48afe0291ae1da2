package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/AndVl1/cadence/pkg/models"
)

// Local dispatches phase work to per-role commands. The request is fed
// to the command as JSON on stdin; the command reports a PhaseOutcome
// as JSON on stdout. Anything else — a non-zero exit, bad JSON, a
// timeout — surfaces as a failed outcome or an error, never a crash.
type Local struct {
	runner  CommandRunner
	workDir string
	// commands maps a role to its shell command line.
	commands map[models.RoleID]string
	// timeout bounds a single dispatch.
	timeout time.Duration
}

// NewLocal creates a Local executor. An empty timeout disables the
// per-dispatch bound (the scheduler still bounds the whole phase).
func NewLocal(runner CommandRunner, workDir string, commands map[models.RoleID]string, timeout time.Duration) *Local {
	return &Local{
		runner:   runner,
		workDir:  workDir,
		commands: commands,
		timeout:  timeout,
	}
}

// Execute runs the role's configured command and parses its outcome.
func (l *Local) Execute(ctx context.Context, req Request) (*models.PhaseOutcome, error) {
	command, ok := l.commands[req.Role]
	if !ok {
		return nil, fmt.Errorf("no command configured for role %s", req.Role)
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	input, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode executor request: %w", err)
	}

	stdout, stderr, err := l.runner.Run(ctx, l.workDir, input, "sh", "-c", command)
	if err != nil {
		// The command failing is a role failure, not a transport error:
		// report it as an unsuccessful outcome so the scheduler absorbs
		// it into the handoff checklist.
		return &models.PhaseOutcome{
			Summary: fmt.Sprintf("role %s command failed: %v: %s", req.Role, err, firstLine(stderr)),
			Success: false,
		}, nil
	}

	var outcome models.PhaseOutcome
	if err := json.Unmarshal(stdout, &outcome); err != nil {
		return nil, fmt.Errorf("decode outcome from role %s: %w", req.Role, err)
	}
	return &outcome, nil
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Verify Local implements RoleExecutor at compile time.
var _ RoleExecutor = (*Local)(nil)
