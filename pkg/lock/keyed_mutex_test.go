package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex(time.Second)

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := km.Acquire(context.Background(), "court-1|2025-01-01")
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Fatalf("expected at most one holder, saw %d", maxInside)
	}
	if km.size() != 0 {
		t.Fatalf("expected entries to be dropped, %d left", km.size())
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex(50 * time.Millisecond)

	release, err := km.Acquire(context.Background(), "a")
	if err != nil {
		t.Fatalf("acquire a: %v", err)
	}
	defer release()

	other, err := km.Acquire(context.Background(), "b")
	if err != nil {
		t.Fatalf("acquire b while a is held: %v", err)
	}
	other()
}

func TestKeyedMutexTimeout(t *testing.T) {
	km := NewKeyedMutex(20 * time.Millisecond)

	release, err := km.Acquire(context.Background(), "k")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}

	if _, err := km.Acquire(context.Background(), "k"); !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}

	release()
	release() // second call is a no-op

	again, err := km.Acquire(context.Background(), "k")
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	again()
}

func TestKeyedMutexContextCancel(t *testing.T) {
	km := NewKeyedMutex(0)

	release, err := km.Acquire(context.Background(), "k")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := km.Acquire(ctx, "k"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
