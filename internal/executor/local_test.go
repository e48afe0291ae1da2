package executor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/AndVl1/cadence/pkg/models"
)

// fakeRunner records the invocation and plays back canned output.
type fakeRunner struct {
	lastInput []byte
	lastArgs  []string
	stdout    []byte
	stderr    []byte
	err       error
}

func (f *fakeRunner) Run(ctx context.Context, workDir string, input []byte, name string, args ...string) ([]byte, []byte, error) {
	f.lastInput = input
	f.lastArgs = append([]string{name}, args...)
	return f.stdout, f.stderr, f.err
}

func testCommands() map[models.RoleID]string {
	return map[models.RoleID]string{
		models.RoleImplementer: "role-implementer",
		models.RoleVerifier:    "role-verifier",
	}
}

func TestLocalExecuteParsesOutcome(t *testing.T) {
	want := models.PhaseOutcome{
		Summary:   "implemented the thing",
		Decisions: []string{"kept the old API"},
		ChecklistResults: []models.ChecklistItem{
			{Item: "tests pass", Mandatory: true, Satisfied: true},
		},
		Metrics: models.Metrics{FilesChanged: 2, LinesAdded: 40},
		Success: true,
	}
	payload, _ := json.Marshal(want)
	runner := &fakeRunner{stdout: payload}

	local := NewLocal(runner, "", testCommands(), time.Minute)
	got, err := local.Execute(context.Background(), Request{
		TaskID: "task-1",
		Phase:  "implement",
		Role:   models.RoleImplementer,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got.Summary != want.Summary || !got.Success {
		t.Errorf("Execute() = %+v, want %+v", got, want)
	}
	if got.Metrics.FilesChanged != 2 {
		t.Errorf("metrics not carried through: %+v", got.Metrics)
	}
}

func TestLocalExecuteFeedsRequestOnStdin(t *testing.T) {
	payload, _ := json.Marshal(models.PhaseOutcome{Success: true})
	runner := &fakeRunner{stdout: payload}
	local := NewLocal(runner, "", testCommands(), 0)

	req := Request{
		TaskID:    "task-1",
		Phase:     "ui_verify",
		Role:      models.RoleVerifier,
		LockToken: "tok-123",
		Handoffs:  []models.HandoffRecord{{FromPhase: "implement", Summary: "done"}},
	}
	if _, err := local.Execute(context.Background(), req); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var sent Request
	if err := json.Unmarshal(runner.lastInput, &sent); err != nil {
		t.Fatalf("stdin payload is not valid JSON: %v", err)
	}
	if sent.LockToken != "tok-123" {
		t.Errorf("lock token not forwarded: %q", sent.LockToken)
	}
	if len(sent.Handoffs) != 1 || sent.Handoffs[0].FromPhase != "implement" {
		t.Errorf("handoff history not forwarded: %+v", sent.Handoffs)
	}
}

func TestLocalExecuteCommandFailureIsOutcome(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1"), stderr: []byte("boom\nmore context")}
	local := NewLocal(runner, "", testCommands(), 0)

	got, err := local.Execute(context.Background(), Request{Role: models.RoleImplementer, Phase: "implement"})
	if err != nil {
		t.Fatalf("command failure must not be a transport error, got %v", err)
	}
	if got.Success {
		t.Error("failed command must produce an unsuccessful outcome")
	}
}

func TestLocalExecuteBadJSONIsError(t *testing.T) {
	runner := &fakeRunner{stdout: []byte("not json")}
	local := NewLocal(runner, "", testCommands(), 0)

	if _, err := local.Execute(context.Background(), Request{Role: models.RoleImplementer}); err == nil {
		t.Error("garbage stdout should be an error")
	}
}

func TestLocalExecuteUnknownRole(t *testing.T) {
	local := NewLocal(&fakeRunner{}, "", testCommands(), 0)
	if _, err := local.Execute(context.Background(), Request{Role: models.RoleDiagnostician}); err == nil {
		t.Error("unconfigured role should be an error")
	}
}
