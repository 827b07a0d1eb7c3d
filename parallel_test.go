// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shared_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/shared"
)

// parallelReadWrite doubles the value from 1 to 1024 through the
// writer handle while a reader goroutine polls until it observes the
// final value. The reader terminating proves it saw the last write and
// never a torn one (any torn read would either never reach 1024 or
// trip the guard below).
func parallelReadWrite(t *testing.T, s *shared.Shared[int]) {
	t.Helper()
	rl := s.GetReadLock()
	done := make(chan int, 1)

	go func() {
		for {
			g := rl.Lock()
			v := *g.Get()
			g.Unlock()
			if v >= 1024 {
				done <- v
				return
			}
		}
	}()

	for i := 0; i < 10; i++ {
		v := *s.Get()
		g := s.Lock()
		*g.Get() += v
		g.Unlock()
	}

	select {
	case v := <-done:
		if v != 1024 {
			t.Fatalf("reader observed %d, want 1024", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reader never observed the final value")
	}
	rl.Release()
}

func TestParallelReadWrite(t *testing.T) {
	parallelReadWrite(t, shared.New(1))
}

func TestParallelReadWriteCooperative(t *testing.T) {
	parallelReadWrite(t, shared.NewCooperative(1))
}

func TestParallelReadWriteLite(t *testing.T) {
	parallelReadWrite(t, shared.NewLite(1))
}

// writeBlocksOnReader asserts the ordering contract: a write
// acquisition does not return while a read guard from a sibling handle
// is held, and is granted once that guard is dropped.
func writeBlocksOnReader(t *testing.T, s *shared.Shared[int]) {
	t.Helper()
	rl := s.GetReadLock()
	rg := rl.Lock()

	acquired := make(chan struct{})
	go func() {
		g := s.Lock()
		g.Unlock()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("write acquired while a read guard was held")
	case <-time.After(50 * time.Millisecond):
	}

	rg.Unlock()

	select {
	case <-acquired:
	case <-time.After(5 * time.Second):
		t.Fatal("write not granted after the read guard was dropped")
	}
	rl.Release()
}

func TestWriteBlocksOnReader(t *testing.T) {
	writeBlocksOnReader(t, shared.New(0))
}

func TestWriteBlocksOnReaderCooperative(t *testing.T) {
	writeBlocksOnReader(t, shared.NewCooperative(0))
}

func TestWriteBlocksOnReaderLite(t *testing.T) {
	writeBlocksOnReader(t, shared.NewLite(0))
}

func TestCooperativeLockCancel(t *testing.T) {
	s := shared.NewCooperative(0)
	rl := s.GetReadLock()
	rg := rl.Lock()

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.LockContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("LockContext error = %v, want DeadlineExceeded", err)
	}

	// The cancelled waiter released its queue position: the lock is
	// still grantable once the reader leaves.
	rg.Unlock()
	g, err := s.LockContext(t.Context())
	if err != nil {
		t.Fatalf("LockContext error = %v, want nil", err)
	}
	g.Unlock()
	rl.Release()
}

func TestCooperativeReadLockCancel(t *testing.T) {
	s := shared.NewCooperative(0)
	rl := s.GetReadLock()
	wg := s.Lock()

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	if _, err := rl.LockContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("LockContext error = %v, want DeadlineExceeded", err)
	}
	if _, err := rl.LockOwnedContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("LockOwnedContext error = %v, want DeadlineExceeded", err)
	}

	wg.Unlock()
	g, err := rl.LockContext(t.Context())
	if err != nil {
		t.Fatalf("LockContext error = %v, want nil", err)
	}
	g.Unlock()

	// The cancelled owned acquisition must not have leaked its strong
	// reference.
	if n := s.ReadCount(); n != 1 {
		t.Fatalf("ReadCount = %d, want 1", n)
	}
	rl.Release()
}
