package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AndVl1/cadence/pkg/models"
)

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
executor:
  work_dir: /srv/project
  roles:
    implementer: "bin/implement.sh"
    verifier: "bin/verify.sh"
timeouts:
  phase: 10m
  lock_wait: 45s
lock:
  stale_after: 1h
logging:
  debug: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Executor.WorkDir != "/srv/project" {
		t.Errorf("work_dir = %q", cfg.Executor.WorkDir)
	}
	if cfg.Timeouts.Phase != 10*time.Minute {
		t.Errorf("phase timeout = %v, want 10m", cfg.Timeouts.Phase)
	}
	if cfg.Timeouts.LockWait != 45*time.Second {
		t.Errorf("lock_wait = %v, want 45s", cfg.Timeouts.LockWait)
	}
	if cfg.Lock.StaleAfter != time.Hour {
		t.Errorf("stale_after = %v, want 1h", cfg.Lock.StaleAfter)
	}
	if !cfg.Logging.Debug {
		t.Error("debug not set")
	}

	roles := cfg.RoleCommands()
	if roles[models.RoleImplementer] != "bin/implement.sh" {
		t.Errorf("implementer command = %q", roles[models.RoleImplementer])
	}
	if roles[models.RoleVerifier] != "bin/verify.sh" {
		t.Errorf("verifier command = %q", roles[models.RoleVerifier])
	}
}

func TestLoadFromPathAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  debug: false\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Timeouts.Phase != 30*time.Minute {
		t.Errorf("default phase timeout = %v, want 30m", cfg.Timeouts.Phase)
	}
	if cfg.Timeouts.LockWait != 2*time.Minute {
		t.Errorf("default lock_wait = %v, want 2m", cfg.Timeouts.LockWait)
	}
	if cfg.Lock.StaleAfter != 30*time.Minute {
		t.Errorf("default stale_after = %v, want 30m", cfg.Lock.StaleAfter)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestDefaultMatchesSetDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Timeouts.Phase != 30*time.Minute || cfg.Lock.StaleAfter != 30*time.Minute {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Executor.Roles == nil {
		t.Error("roles map should be initialized")
	}
}
