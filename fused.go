// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shared

import (
	"code.hybscloud.com/kont"
)

// AcquireBind acquires read access on l and passes the guard to f.
// Fuses Perform(Acquire[T]{From: l}) + Bind. The guard must be
// unlocked by the continuation.
func AcquireBind[T, B any](l *ReadLock[T], f func(*ReadGuard[T]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Acquire[T]{From: l}), f)
}

// AcquireWriteBind acquires write access on s and passes the guard to
// f. Fuses Perform(AcquireWrite[T]{From: s}) + Bind. The guard must be
// unlocked by the continuation.
func AcquireWriteBind[T, B any](s *Shared[T], f func(*WriteGuard[T]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(AcquireWrite[T]{From: s}), f)
}

// WithRead acquires read access on l, applies f to the inner value,
// and releases the guard before resuming with f's result.
func WithRead[T, B any](l *ReadLock[T], f func(*T) B) kont.Eff[B] {
	return AcquireBind(l, func(g *ReadGuard[T]) kont.Eff[B] {
		b := f(g.Get())
		g.Unlock()
		return kont.Pure(b)
	})
}

// WithWrite acquires write access on s, applies f to the inner value,
// and releases the guard before resuming with f's result.
func WithWrite[T, B any](s *Shared[T], f func(*T) B) kont.Eff[B] {
	return AcquireWriteBind(s, func(g *WriteGuard[T]) kont.Eff[B] {
		b := f(g.Get())
		g.Unlock()
		return kont.Pure(b)
	})
}
