// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shared

import "context"

// Shared is the exclusive-writer handle for a resource possibly shared
// with [ReadLock]s and [WeakLock]s, but no other Shared.
//
// At most one Shared exists per cell at any time. The constructors
// establish this, and the conversion points that could break it
// ([TryFromInner], [ReadLock.TryUpgrade]) re-check it with a reference
// count snapshot before producing a new Shared.
//
// The write side is single-owner: Lock, Update, Get and the conversion
// methods must not be called concurrently from multiple goroutines on
// the same Shared. Guards and sibling read handles are free to be used
// from other goroutines.
type Shared[T any] struct {
	cell *Cell[T]
}

// New creates a Shared backed by a blocking-flavor cell (see [NewCell]).
func New[T any](value T) *Shared[T] {
	return &Shared[T]{cell: NewCell(value)}
}

// NewCooperative creates a Shared backed by a cooperative-flavor cell
// (see [NewCooperativeCell]).
func NewCooperative[T any](value T) *Shared[T] {
	return &Shared[T]{cell: NewCooperativeCell(value)}
}

// NewLite creates a Shared backed by a lite-flavor cell
// (see [NewLiteCell]).
func NewLite[T any](value T) *Shared[T] {
	return &Shared[T]{cell: NewLiteCell(value)}
}

// c returns the backing cell, panicking if the handle was released or
// consumed by a conversion.
func (s *Shared[T]) c() *Cell[T] {
	if s.cell == nil {
		panic(panicReleased)
	}
	return s.cell
}

// Get returns a pointer to the inner value for reading.
//
// The pointer is re-derived on every call rather than cached: the read
// lock is taken, the address of the value recorded, and the lock
// released before returning. That is sound because this handle is the
// only possible writer and it is here, not in Lock.
//
// Get panics if the cell is poisoned.
func (s *Shared[T]) Get() *T {
	v, err := s.TryGet()
	if err != nil {
		panic(panicPoisoned)
	}
	return v
}

// TryGet is the fallible counterpart of [Get]. On a poisoned cell it
// returns the still-valid pointer together with [ErrPoisoned], so the
// caller can inspect or recover the value.
func (s *Shared[T]) TryGet() (*T, error) {
	c := s.c()
	_ = c.lock.rlock(context.Background())
	v := &c.value
	c.lock.runlock()
	if c.poisoned() {
		return v, ErrPoisoned
	}
	return v, nil
}

// Lock acquires exclusive write access, suspending the calling
// goroutine until no readers or writer hold the lock. Panics if the
// cell is poisoned.
func (s *Shared[T]) Lock() *WriteGuard[T] {
	g, err := s.LockContext(context.Background())
	if err != nil {
		if g != nil {
			g.Unlock()
		}
		panic(panicPoisoned)
	}
	return g
}

// LockContext acquires exclusive write access, honoring ctx
// cancellation while queued on cooperative-flavor cells (blocking
// cells check ctx once and then wait uncancellably).
//
// On a poisoned cell the returned guard is valid and usable for
// recovery; the error is [ErrPoisoned].
func (s *Shared[T]) LockContext(ctx context.Context) (*WriteGuard[T], error) {
	c := s.c()
	if err := c.lock.lock(ctx); err != nil {
		return nil, err
	}
	g := &WriteGuard[T]{cell: c, v: &c.value}
	if c.poisoned() {
		return g, ErrPoisoned
	}
	return g, nil
}

// Update runs fn with exclusive write access to the inner value.
//
// Update is the poisoning enforcement point: if fn panics, the cell is
// marked poisoned before the panic propagates (on flavors that track
// poisoning). Panics immediately if the cell is already poisoned.
func (s *Shared[T]) Update(fn func(*T)) {
	c := s.c()
	_ = c.lock.lock(context.Background())
	if c.poisoned() {
		c.lock.unlock()
		panic(panicPoisoned)
	}
	done := false
	defer func() {
		if !done {
			c.setPoison()
		}
		c.lock.unlock()
	}()
	fn(&c.value)
	done = true
}

// ClearPoison removes the poison mark, declaring the current value
// coherent again. Typically called after recovering via [TryGet] or the
// guard returned alongside [ErrPoisoned].
func (s *Shared[T]) ClearPoison() {
	s.c().clearPoison()
}

// GetReadLock mints a [ReadLock] for accessing the same resource
// read-only from elsewhere. Increments the strong count.
func (s *Shared[T]) GetReadLock() *ReadLock[T] {
	c := s.c()
	c.incStrong()
	return &ReadLock[T]{cell: c}
}

// Unwrap returns the inner value if this Shared holds the only strong
// reference, consuming the handle. Outstanding weak references do not
// prevent unwrapping; outstanding [ReadLock]s do, in which case the
// handle is returned untouched and ok is false.
//
// The success path is a single compare-and-swap of the strong count
// from 1 to 0, so a weak upgrade cannot slip in between the check and
// the take.
//
// Unwrap panics if the cell is poisoned, matching [Get]'s policy. The
// check happens before any counter is touched, so after recovering
// from the panic the handle is intact and usable (for example to call
// [Shared.ClearPoison] and retry).
func (s *Shared[T]) Unwrap() (value T, ok bool) {
	c := s.c()
	if c.poisoned() {
		panic(panicPoisoned)
	}
	if !c.strong.CompareAndSwap(1, 0) {
		return value, false
	}
	value = c.value
	var zero T
	c.value = zero
	s.cell = nil
	return value, true
}

// IntoInner releases the Shared wrapper, returning the raw cell. The
// cell is no longer guarded by the exclusivity invariant; the caller
// assumes responsibility for it. The handle is consumed.
func (s *Shared[T]) IntoInner() *Cell[T] {
	c := s.c()
	s.cell = nil
	return c
}

// TryFromInner attempts to wrap a raw cell back into a Shared.
//
// This succeeds only if the cell has exactly one strong reference and
// no weak references at the instant of the check; otherwise nil and
// false are returned and the cell is untouched. On success the cell
// must not be used directly anymore: the Shared now carries its one
// strong reference.
//
// The check is a count snapshot; see [Cell] for the concurrent-clone
// hazard it deliberately does not close.
func TryFromInner[T any](c *Cell[T]) (*Shared[T], bool) {
	if !c.unique() {
		return nil, false
	}
	return &Shared[T]{cell: c}, true
}

// ReadCount returns the number of associated [ReadLock]s. The count is
// a racy snapshot under concurrent cloning, not a guarantee.
func (s *Shared[T]) ReadCount() int {
	return int(s.c().strong.Load()) - 1
}

// WeakCount returns the number of associated [WeakLock]s. The count is
// a racy snapshot under concurrent cloning, not a guarantee.
func (s *Shared[T]) WeakCount() int {
	return int(s.c().weak.Load())
}

// Serial returns the serial number of the backing cell.
func (s *Shared[T]) Serial() Serial {
	return s.c().serial
}

// Release drops the handle's strong reference and invalidates the
// handle. Must be called exactly once, and only if the handle was not
// already consumed by [Unwrap], [IntoInner] or a successful conversion.
func (s *Shared[T]) Release() {
	c := s.c()
	s.cell = nil
	c.decStrong()
}
