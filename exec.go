// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shared

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// lockHandler implements kont.Handler for lock effects.
// Waits on iox.ErrWouldBlock, converting non-blocking dispatch into
// blocking evaluation for Exec/ExecExpr.
type lockHandler[R any] struct{}

// Dispatch implements kont.Handler via structural interface assertion.
// Waits past the iox.ErrWouldBlock boundary with adaptive backoff.
func (lockHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	lop, ok := op.(lockDispatcher)
	if !ok {
		panic("shared: unhandled effect in lockHandler")
	}
	return dispatchWait(lop), true
}

// dispatchWait retries DispatchLock until the lock is granted, backing
// off on iox.ErrWouldBlock with iox.Backoff.
func dispatchWait(lop lockDispatcher) kont.Resumed {
	var bo iox.Backoff
	for {
		v, err := lop.DispatchLock()
		if err == nil {
			return v
		}
		bo.Wait()
	}
}

// Exec runs a Cont-world lock protocol to completion.
// Blocks on iox.ErrWouldBlock via adaptive backoff (iox.Backoff),
// without spawning goroutines or creating channels.
func Exec[R any](protocol kont.Eff[R]) R {
	return kont.Handle(protocol, lockHandler[R]{})
}

// ExecExpr runs an Expr-world lock protocol to completion.
// Blocks on iox.ErrWouldBlock via adaptive backoff (iox.Backoff),
// without spawning goroutines or creating channels.
func ExecExpr[R any](protocol kont.Expr[R]) R {
	return kont.HandleExpr(protocol, lockHandler[R]{})
}
