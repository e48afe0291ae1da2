// Package reslock provides the single-holder mutex guarding the
// external UI-automation tool surface. The lock is a durable marker
// file so it survives orchestrator restarts; a staleness timeout lets
// it self-heal if a holder crashes without releasing.
package reslock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// DefaultStaleAfter is the crash-recovery timeout: a marker older than
// this is reclaimable even though its holder never released it.
const DefaultStaleAfter = 30 * time.Minute

// pollInterval bounds how long a waiter can miss a release when the
// filesystem watcher is unavailable.
const pollInterval = 500 * time.Millisecond

// ErrHeld is returned by Acquire when another holder owns the lock and
// the marker is not stale.
var ErrHeld = errors.New("driver lock held by another execution")

// errCorrupt marks a marker file that exists but does not decode, e.g.
// a holder that died between creating the file and writing it. Corrupt
// markers identify no holder and are reclaimable like stale ones.
var errCorrupt = errors.New("corrupt lock marker")

// marker is the on-disk representation of the lock.
type marker struct {
	// HolderID is the task execution id that owns the lock.
	HolderID string `json:"holder_id"`
	// Token proves holdership to role executors.
	Token string `json:"token"`
	// AcquiredAt is when the holder took the lock.
	AcquiredAt time.Time `json:"acquired_at"`
	// StaleAfter is the reclaim timeout recorded with the marker so a
	// different process uses the holder's own deadline.
	StaleAfter time.Duration `json:"stale_after"`
}

func (m marker) stale(now time.Time) bool {
	return now.Sub(m.AcquiredAt) > m.StaleAfter
}

// Lock is the process handle to the marker-file mutex. Multiple
// executions in one or many processes may race Acquire; the
// link-into-place create keeps at most one winner.
type Lock struct {
	path       string
	staleAfter time.Duration

	// logf receives anomaly notices such as stale-lock reclaims.
	logf func(format string, args ...any)

	// now is swappable for staleness tests.
	now func() time.Time
}

// Option configures a Lock.
type Option func(*Lock)

// WithStaleAfter overrides the staleness timeout.
func WithStaleAfter(d time.Duration) Option {
	return func(l *Lock) { l.staleAfter = d }
}

// WithLogger routes anomaly notices to the given function.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(l *Lock) { l.logf = logf }
}

// withClock overrides the time source in tests.
func withClock(now func() time.Time) Option {
	return func(l *Lock) { l.now = now }
}

// New creates a Lock over the marker file at path.
func New(path string, opts ...Option) *Lock {
	l := &Lock{
		path:       path,
		staleAfter: DefaultStaleAfter,
		logf:       func(string, ...any) {},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire attempts to take the lock for holderID. It fails fast with
// ErrHeld when a fresh foreign marker exists; a stale marker is
// reclaimed and logged as an anomaly. On success it returns the token
// the holder passes to role executors as proof of holdership.
func (l *Lock) Acquire(holderID string) (string, error) {
	if holderID == "" {
		return "", errors.New("holder id must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return "", fmt.Errorf("create lock directory: %w", err)
	}

	current, err := l.read()
	switch {
	case err == nil:
		if current.HolderID == holderID {
			// Re-acquire by the same holder keeps the existing marker.
			return current.Token, nil
		}
		if !current.stale(l.now()) {
			return "", fmt.Errorf("%w (holder %s since %s)", ErrHeld,
				current.HolderID, current.AcquiredAt.Format(time.RFC3339))
		}
		// Crash recovery: the holder exceeded its own deadline. Not an
		// error condition, but worth a trace.
		l.logf("[reslock] reclaiming stale lock from %s (held since %s)",
			current.HolderID, current.AcquiredAt.Format(time.RFC3339))
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("remove stale lock: %w", err)
		}
	case errors.Is(err, errCorrupt):
		// A marker that never finished writing holds nothing; leaving it
		// would deadlock the lock forever.
		l.logf("[reslock] reclaiming corrupt lock marker: %v", err)
		if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
			return "", fmt.Errorf("remove corrupt lock: %w", err)
		}
	case !os.IsNotExist(err):
		return "", fmt.Errorf("read lock marker: %w", err)
	}

	return l.create(holderID)
}

// create writes a fresh marker. The marker is fully written to a
// private temp file first and linked into place, so the path either
// holds a complete marker or nothing; os.Link fails when the path
// already exists, which keeps at most one winner among concurrent
// acquirers.
func (l *Lock) create(holderID string) (string, error) {
	m := marker{
		HolderID:   holderID,
		Token:      uuid.New().String(),
		AcquiredAt: l.now(),
		StaleAfter: l.staleAfter,
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("encode lock marker: %w", err)
	}

	tmp := l.path + "." + m.Token + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write lock marker: %w", err)
	}
	defer os.Remove(tmp)

	if err := os.Link(tmp, l.path); err != nil {
		if os.IsExist(err) {
			return "", ErrHeld
		}
		return "", fmt.Errorf("create lock marker: %w", err)
	}
	return m.Token, nil
}

// AcquireWait attempts to take the lock, waiting up to timeout for the
// current holder to release. The wait is bounded; on expiry it returns
// ErrHeld so the caller can move the execution to BLOCKED and retry
// later. A filesystem watcher wakes the waiter promptly on release,
// with polling as the fallback.
func (l *Lock) AcquireWait(ctx context.Context, holderID string, timeout time.Duration) (string, error) {
	token, err := l.Acquire(holderID)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, ErrHeld) {
		return "", err
	}

	deadline := l.now().Add(timeout)

	watcher, werr := fsnotify.NewWatcher()
	if werr == nil {
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(l.path)); err != nil {
			watcher.Close()
			watcher = nil
		}
	} else {
		watcher = nil
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	// One timer covers the whole wait; the loop only wakes on ticks and
	// watcher events, so re-arming per iteration would just churn timers.
	expire := time.NewTimer(deadline.Sub(l.now()))
	defer expire.Stop()

	for {
		if deadline.Sub(l.now()) <= 0 {
			return "", ErrHeld
		}

		var events chan fsnotify.Event
		if watcher != nil {
			events = watcher.Events
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-expire.C:
			return "", ErrHeld
		case <-ticker.C:
		case ev := <-events:
			if ev.Name != l.path || !ev.Has(fsnotify.Remove) {
				continue
			}
		}

		token, err := l.Acquire(holderID)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, ErrHeld) {
			return "", err
		}
	}
}

// Release drops the lock if holderID owns it. Releasing a lock you do
// not hold, or one already released, is a no-op: cleanup code runs on
// every exit path and must never itself fail.
func (l *Lock) Release(holderID string) error {
	current, err := l.read()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		if errors.Is(err, errCorrupt) {
			// An unreadable marker cannot name us as holder; leave it for
			// the next Acquire to reclaim.
			l.logf("[reslock] release skipped corrupt lock marker: %v", err)
			return nil
		}
		return fmt.Errorf("read lock marker: %w", err)
	}
	if current.HolderID != holderID {
		return nil
	}
	if current.stale(l.now()) {
		// Our own marker went stale, so another acquirer may have already
		// reclaimed it between this read and a remove. Only the staleness
		// path deletes stale markers.
		l.logf("[reslock] release by %s skipped a stale marker", holderID)
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock marker: %w", err)
	}
	return nil
}

// Holder returns the current holder id, or empty when unheld. A stale
// marker still reports its holder; staleness is the acquirer's concern.
// A corrupt marker names no holder and reads as unheld.
func (l *Lock) Holder() (string, error) {
	current, err := l.read()
	if err != nil {
		if os.IsNotExist(err) || errors.Is(err, errCorrupt) {
			return "", nil
		}
		return "", fmt.Errorf("read lock marker: %w", err)
	}
	return current.HolderID, nil
}

// IsStale reports whether the current marker has exceeded its reclaim
// deadline. An unheld lock is not stale.
func (l *Lock) IsStale() (bool, error) {
	current, err := l.read()
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		if errors.Is(err, errCorrupt) {
			// Reclaimable straight away, same as an expired marker.
			return true, nil
		}
		return false, fmt.Errorf("read lock marker: %w", err)
	}
	return current.stale(l.now()), nil
}

func (l *Lock) read() (marker, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return marker{}, err
	}
	var m marker
	if err := json.Unmarshal(data, &m); err != nil {
		return marker{}, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	return m, nil
}
