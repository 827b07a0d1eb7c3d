// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shared

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a lock protocol until the first effect suspension.
// Returns (result, nil) on completion, or (zero, suspension) if
// pending.
func Step[R any](protocol kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(protocol)
}

// Advance dispatches the suspended lock operation. DispatchLock is
// non-blocking: it returns iox.ErrWouldBlock when the lock cannot be
// granted immediately (the contention boundary).
//
// On success (nil error), the suspension is consumed and the protocol
// advances to the next effect or completion.
// On iox.ErrWouldBlock, the suspension is unconsumed and may be
// retried after the current holders release the lock.
func Advance[R any](susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	lop, ok := susp.Op().(lockDispatcher)
	if !ok {
		panic("shared: unhandled effect in Advance")
	}
	v, err := lop.DispatchLock()
	if err != nil {
		var zero R
		return zero, susp, err
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
