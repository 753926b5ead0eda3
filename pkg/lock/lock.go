// Package lock provides keyed mutual exclusion with bounded waits. A key
// names one independent critical section, e.g. a (court, date) pair.
package lock

import (
	"context"
	"errors"
)

// ErrTimeout is returned when the lock could not be acquired before the
// configured wait elapsed.
var ErrTimeout = errors.New("lock acquire timeout")

// Release gives the lock back. Calling it more than once is safe.
type Release func()

type Locker interface {
	Acquire(ctx context.Context, key string) (Release, error)
}
