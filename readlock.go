// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shared

import (
	"context"

	"code.hybscloud.com/iox"
)

// ReadLock is a cloneable read-only handle for a resource possibly
// shared with up to one [Shared] and many sibling ReadLocks and
// [WeakLock]s. Each ReadLock owns one strong reference.
type ReadLock[T any] struct {
	cell *Cell[T]
}

// FromInner wraps a raw cell into a ReadLock without going through a
// [Shared]. Use this to expose a value writable only from inside one
// package while outside users obtain reusable read access. The
// ReadLock takes over the cell's strong reference.
func FromInner[T any](c *Cell[T]) *ReadLock[T] {
	return &ReadLock[T]{cell: c}
}

// c returns the backing cell, panicking if the handle was released or
// consumed by a conversion.
func (l *ReadLock[T]) c() *Cell[T] {
	if l.cell == nil {
		panic(panicReleased)
	}
	return l.cell
}

// Lock acquires shared read access, suspending the calling goroutine
// while a writer holds the lock. Multiple readers may hold the lock
// concurrently. Panics if the cell is poisoned.
func (l *ReadLock[T]) Lock() *ReadGuard[T] {
	g, err := l.LockContext(context.Background())
	if err != nil {
		if g != nil {
			g.Unlock()
		}
		panic(panicPoisoned)
	}
	return g
}

// LockContext acquires shared read access, honoring ctx cancellation
// while queued on cooperative-flavor cells. On a poisoned cell the
// returned guard is valid for recovery; the error is [ErrPoisoned].
func (l *ReadLock[T]) LockContext(ctx context.Context) (*ReadGuard[T], error) {
	c := l.c()
	if err := c.lock.rlock(ctx); err != nil {
		return nil, err
	}
	g := &ReadGuard[T]{cell: c, v: &c.value}
	if c.poisoned() {
		return g, ErrPoisoned
	}
	return g, nil
}

// TryLock attempts shared read access without suspending. Returns
// iox.ErrWouldBlock if a writer currently holds or awaits the lock.
// On a poisoned cell the returned guard is valid for recovery; the
// error is [ErrPoisoned].
func (l *ReadLock[T]) TryLock() (*ReadGuard[T], error) {
	c := l.c()
	if !c.lock.tryRLock() {
		return nil, iox.ErrWouldBlock
	}
	g := &ReadGuard[T]{cell: c, v: &c.value}
	if c.poisoned() {
		return g, ErrPoisoned
	}
	return g, nil
}

// LockOwned acquires shared read access with a guard that owns its own
// strong reference instead of borrowing this handle. The guard stays
// valid after the handle is released. Panics if the cell is poisoned.
func (l *ReadLock[T]) LockOwned() *OwnedReadGuard[T] {
	g, err := l.LockOwnedContext(context.Background())
	if err != nil {
		g.Unlock()
		panic(panicPoisoned)
	}
	return g
}

// LockOwnedContext is [LockOwned] with ctx cancellation while queued on
// cooperative-flavor cells.
func (l *ReadLock[T]) LockOwnedContext(ctx context.Context) (*OwnedReadGuard[T], error) {
	c := l.c()
	c.incStrong()
	if err := c.lock.rlock(ctx); err != nil {
		c.decStrong()
		return nil, err
	}
	g := &OwnedReadGuard[T]{cell: c, v: &c.value}
	if c.poisoned() {
		return g, ErrPoisoned
	}
	return g, nil
}

// Clone mints a sibling ReadLock. Increments the strong count; no
// failure mode.
func (l *ReadLock[T]) Clone() *ReadLock[T] {
	c := l.c()
	c.incStrong()
	return &ReadLock[T]{cell: c}
}

// Downgrade mints a [WeakLock] observing the same cell without keeping
// it alive. Panics on lite-flavor cells, which carry no weak-reference
// machinery.
func (l *ReadLock[T]) Downgrade() *WeakLock[T] {
	c := l.c()
	if !c.hasWeak {
		panic(panicNoWeak)
	}
	c.weak.Add(1)
	return &WeakLock[T]{cell: c}
}

// TryUpgrade attempts to convert this ReadLock into a [Shared].
//
// This succeeds only if this is the sole strong reference and no weak
// references exist; otherwise a second Shared could come to exist for
// the same cell. On success the handle is consumed, its strong
// reference transferred to the returned Shared. On failure the handle
// is untouched.
//
// The uniqueness check is the same count snapshot as [TryFromInner],
// with the same documented concurrent-clone hazard.
func (l *ReadLock[T]) TryUpgrade() (*Shared[T], bool) {
	c := l.c()
	if !c.unique() {
		return nil, false
	}
	l.cell = nil
	return &Shared[T]{cell: c}, true
}

// TryIntoInner attempts to turn this ReadLock into its raw cell,
// subject to the same uniqueness check as [TryUpgrade]. On success the
// handle is consumed and the cell carries the strong reference.
func (l *ReadLock[T]) TryIntoInner() (*Cell[T], bool) {
	c := l.c()
	if !c.unique() {
		return nil, false
	}
	l.cell = nil
	return c, true
}

// Serial returns the serial number of the backing cell.
func (l *ReadLock[T]) Serial() Serial {
	return l.c().serial
}

// Release drops the handle's strong reference and invalidates the
// handle. Must be called exactly once, and only if the handle was not
// consumed by a successful conversion.
func (l *ReadLock[T]) Release() {
	c := l.c()
	l.cell = nil
	c.decStrong()
}
