// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shared

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// lockDispatcher is the structural interface for lock acquisition
// operations. DispatchLock is non-blocking: it returns
// iox.ErrWouldBlock at the contention boundary when the lock cannot be
// granted immediately.
type lockDispatcher interface {
	DispatchLock() (kont.Resumed, error)
}

// Acquire is the effect operation for acquiring shared read access.
// Perform(Acquire[T]{From: l}) resumes with a *ReadGuard[T].
type Acquire[T any] struct {
	kont.Phantom[*ReadGuard[T]]
	From *ReadLock[T]
}

// DispatchLock handles Acquire against the handle's cell.
// Non-blocking: returns iox.ErrWouldBlock while a writer holds or
// awaits the lock. Panics if the cell is poisoned.
func (a Acquire[T]) DispatchLock() (kont.Resumed, error) {
	c := a.From.c()
	if !c.lock.tryRLock() {
		return nil, iox.ErrWouldBlock
	}
	if c.poisoned() {
		c.lock.runlock()
		panic(panicPoisoned)
	}
	return &ReadGuard[T]{cell: c, v: &c.value}, nil
}

// AcquireWrite is the effect operation for acquiring exclusive write
// access. Perform(AcquireWrite[T]{From: s}) resumes with a
// *WriteGuard[T]. The single-owner discipline of [Shared.Lock] applies
// to the protocol performing the effect.
type AcquireWrite[T any] struct {
	kont.Phantom[*WriteGuard[T]]
	From *Shared[T]
}

// DispatchLock handles AcquireWrite against the handle's cell.
// Non-blocking: returns iox.ErrWouldBlock while any reader or writer
// holds the lock. Panics if the cell is poisoned.
func (a AcquireWrite[T]) DispatchLock() (kont.Resumed, error) {
	c := a.From.c()
	if !c.lock.tryLock() {
		return nil, iox.ErrWouldBlock
	}
	if c.poisoned() {
		c.lock.unlock()
		panic(panicPoisoned)
	}
	return &WriteGuard[T]{cell: c, v: &c.value}, nil
}
