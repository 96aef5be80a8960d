package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a previously acquired run lock.
type UnlockFunc func(ctx context.Context) error

// RunLocker serializes access to a run across processes. Hosts that back
// runs with a shared store take the lock around each step so two instances
// never advance the same simulation concurrently.
type RunLocker interface {
	// Lock acquires the lock for a run, blocking until acquired or the
	// context expires. ttl bounds how long a crashed holder can wedge
	// the run.
	Lock(ctx context.Context, runID string, ttl time.Duration) (UnlockFunc, error)
}
