// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shared

// ReadGuard is a scoped read-access token. Access is granted on
// construction and released exactly once, by Unlock. The guard borrows
// its [ReadLock]: the handle must outlive the guard.
//
// Guards are not cloneable and carry no state beyond what releases the
// correct lock mode.
type ReadGuard[T any] struct {
	cell *Cell[T]
	v    *T
}

// Get returns a pointer to the inner value. The caller must not write
// through it. The pointer is invalidated by Unlock.
func (g *ReadGuard[T]) Get() *T {
	if g.v == nil {
		panic(panicGuardReleased)
	}
	return g.v
}

// Unlock releases the read access. Must be called exactly once.
func (g *ReadGuard[T]) Unlock() {
	if g.cell == nil {
		panic(panicGuardReleased)
	}
	c := g.cell
	g.v = nil
	g.cell = nil
	c.lock.runlock()
}

// OwnedReadGuard is a [ReadGuard] that owns a strong reference of its
// own instead of borrowing the originating handle, so it stays valid
// after that handle is released.
type OwnedReadGuard[T any] struct {
	cell *Cell[T]
	v    *T
}

// Get returns a pointer to the inner value. The caller must not write
// through it. The pointer is invalidated by Unlock.
func (g *OwnedReadGuard[T]) Get() *T {
	if g.v == nil {
		panic(panicGuardReleased)
	}
	return g.v
}

// Unlock releases the read access and drops the guard's strong
// reference. Must be called exactly once.
func (g *OwnedReadGuard[T]) Unlock() {
	if g.cell == nil {
		panic(panicGuardReleased)
	}
	c := g.cell
	g.v = nil
	g.cell = nil
	c.lock.runlock()
	c.decStrong()
}

// WriteGuard is a scoped write-access token granting read-and-write
// access to the inner value. It is mutually exclusive with all read and
// write guards on the same cell. The guard borrows its [Shared].
//
// An explicit Unlock during a panic does not poison the cell; poisoning
// is recorded by [Shared.Update].
type WriteGuard[T any] struct {
	cell *Cell[T]
	v    *T
}

// Get returns a pointer to the inner value, valid for reading and
// writing. The pointer is invalidated by Unlock.
func (g *WriteGuard[T]) Get() *T {
	if g.v == nil {
		panic(panicGuardReleased)
	}
	return g.v
}

// Unlock releases the write access. Must be called exactly once.
func (g *WriteGuard[T]) Unlock() {
	if g.cell == nil {
		panic(panicGuardReleased)
	}
	c := g.cell
	g.v = nil
	g.cell = nil
	c.lock.unlock()
}
