package lock

import (
	"context"
	"sync"
	"time"
)

// KeyedMutex is an in-process Locker. Each key gets its own single-slot
// semaphore, so unrelated keys never wait on each other. Entries are dropped
// once nobody holds or waits for them.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*keyEntry
	timeout time.Duration
}

type keyEntry struct {
	sem  chan struct{}
	refs int
}

// NewKeyedMutex returns a KeyedMutex whose Acquire waits at most timeout.
// A zero timeout waits until ctx is done.
func NewKeyedMutex(timeout time.Duration) *KeyedMutex {
	return &KeyedMutex{
		entries: make(map[string]*keyEntry),
		timeout: timeout,
	}
}

func (k *KeyedMutex) Acquire(ctx context.Context, key string) (Release, error) {
	e := k.ref(key)

	var expired <-chan time.Time
	if k.timeout > 0 {
		timer := time.NewTimer(k.timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case e.sem <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.sem
				k.unref(key, e)
			})
		}, nil
	case <-expired:
		k.unref(key, e)
		return nil, ErrTimeout
	case <-ctx.Done():
		k.unref(key, e)
		return nil, ctx.Err()
	}
}

func (k *KeyedMutex) ref(key string) *keyEntry {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.entries[key]
	if !ok {
		e = &keyEntry{sem: make(chan struct{}, 1)}
		k.entries[key] = e
	}
	e.refs++
	return e
}

func (k *KeyedMutex) unref(key string, e *keyEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
}

// size reports how many keys are currently tracked.
func (k *KeyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
