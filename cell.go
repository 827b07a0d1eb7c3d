// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shared

import (
	"context"
	"sync"

	"code.hybscloud.com/atomix"
	"golang.org/x/sync/semaphore"
)

// rwLock is the lock capability a Cell is parameterized over.
// Acquisition takes a context so that the cooperative flavor can be
// cancelled while queued; the blocking flavor checks the context once
// and then suspends the goroutine uncancellably.
type rwLock interface {
	lock(ctx context.Context) error
	unlock()
	rlock(ctx context.Context) error
	runlock()
	tryLock() bool
	tryRLock() bool
}

// mutexLock is the blocking lock flavor, backed by sync.RWMutex.
// A queued acquisition cannot be aborted, so the context is only
// consulted before waiting begins.
type mutexLock struct {
	mu sync.RWMutex
}

func (l *mutexLock) lock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	return nil
}

func (l *mutexLock) unlock() { l.mu.Unlock() }

func (l *mutexLock) rlock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.RLock()
	return nil
}

func (l *mutexLock) runlock() { l.mu.RUnlock() }

func (l *mutexLock) tryLock() bool  { return l.mu.TryLock() }
func (l *mutexLock) tryRLock() bool { return l.mu.TryRLock() }

// maxReaders bounds concurrent read acquisitions of a semaLock.
// A writer acquires the full weight, excluding all readers.
const maxReaders = 1 << 30

// semaLock is the cooperative lock flavor, backed by a weighted
// semaphore. Acquisition suspends only the calling goroutine and honors
// context cancellation; a cancelled waiter releases its queue position
// (the semaphore's cancellation-safety guarantee).
type semaLock struct {
	sem *semaphore.Weighted
}

func newSemaLock() *semaLock {
	return &semaLock{sem: semaphore.NewWeighted(maxReaders)}
}

func (l *semaLock) lock(ctx context.Context) error {
	return l.sem.Acquire(ctx, maxReaders)
}

func (l *semaLock) unlock() { l.sem.Release(maxReaders) }

func (l *semaLock) rlock(ctx context.Context) error {
	return l.sem.Acquire(ctx, 1)
}

func (l *semaLock) runlock() { l.sem.Release(1) }

func (l *semaLock) tryLock() bool  { return l.sem.TryAcquire(maxReaders) }
func (l *semaLock) tryRLock() bool { return l.sem.TryAcquire(1) }

// Cell is the reference-counted, lock-guarded allocation underlying one
// logical resource. It is the raw representation behind [Shared] and
// [ReadLock]; use the handle types unless you are crossing an API
// boundary via [Shared.IntoInner], [TryFromInner], [FromInner] or
// [ReadLock.TryIntoInner].
//
// A Cell embodies one strong reference from the moment it is created.
// The value is dropped (zeroed, releasing what it references to the
// garbage collector) when the strong count reaches zero; weak handles
// then fail to upgrade.
type Cell[T any] struct {
	lock      rwLock
	strong    atomix.Uint32
	weak      atomix.Uint32
	poison    atomix.Uint32
	hasWeak   bool
	hasPoison bool
	serial    Serial
	value     T
}

// NewCell allocates a blocking-flavor cell: acquisition suspends the
// calling goroutine, lock poisoning is tracked, weak references are
// supported. Strong count starts at 1, weak count at 0.
func NewCell[T any](value T) *Cell[T] {
	c := &Cell[T]{
		lock:      new(mutexLock),
		hasWeak:   true,
		hasPoison: true,
		serial:    nextSerial(),
		value:     value,
	}
	c.strong.Add(1)
	return c
}

// NewCooperativeCell allocates a cooperative-flavor cell: acquisition
// honors context cancellation while queued. There is no poisoning
// concept in this flavor. Weak references are supported.
func NewCooperativeCell[T any](value T) *Cell[T] {
	c := &Cell[T]{
		lock:    newSemaLock(),
		hasWeak: true,
		serial:  nextSerial(),
		value:   value,
	}
	c.strong.Add(1)
	return c
}

// NewLiteCell allocates a lite-flavor cell: blocking acquisition with
// the cheaper counting configuration that carries no weak-reference
// machinery and no poison flag. [ReadLock.Downgrade] panics on handles
// backed by a lite cell.
func NewLiteCell[T any](value T) *Cell[T] {
	c := &Cell[T]{
		lock:   new(mutexLock),
		serial: nextSerial(),
		value:  value,
	}
	c.strong.Add(1)
	return c
}

// Serial returns the serial number assigned to this cell.
func (c *Cell[T]) Serial() Serial {
	return c.serial
}

// unique reports whether this cell has exactly one strong reference and
// no weak references. The counts are read as an instantaneous snapshot:
// a concurrent clone between the snapshot and the caller's completion
// can make the result stale. Conversions built on unique are therefore
// only reliable when the caller can rule out concurrent cloning.
func (c *Cell[T]) unique() bool {
	return c.strong.Load() == 1 && c.weak.Load() == 0
}

// incStrong adds a strong reference.
func (c *Cell[T]) incStrong() {
	c.strong.Add(1)
}

// decStrong drops a strong reference. The last strong reference drops
// the value itself so that weak handles cannot resurrect it and the
// garbage collector can reclaim what it references.
func (c *Cell[T]) decStrong() {
	if c.strong.Add(^uint32(0)) == 0 {
		var zero T
		c.value = zero
	}
}

// tryIncStrong adds a strong reference unless the strong count has
// already reached zero. This is the weak-upgrade path: increment must
// not resurrect a dropped value, so it loops on compare-and-swap.
func (c *Cell[T]) tryIncStrong() bool {
	for {
		n := c.strong.Load()
		if n == 0 {
			return false
		}
		if c.strong.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

// poisoned reports whether a scoped mutation panicked while holding
// write access. Always false on flavors without poisoning.
func (c *Cell[T]) poisoned() bool {
	return c.hasPoison && c.poison.Load() != 0
}

// setPoison marks the cell poisoned. No-op on flavors without
// poisoning: a panic there propagates without leaving a mark.
func (c *Cell[T]) setPoison() {
	if c.hasPoison {
		c.poison.CompareAndSwap(0, 1)
	}
}

// clearPoison removes the poison mark.
func (c *Cell[T]) clearPoison() {
	c.poison.CompareAndSwap(1, 0)
}
