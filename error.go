// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shared

import "errors"

// ErrPoisoned reports that a scoped mutation panicked while holding
// write access to the cell, leaving the value in a possibly incoherent
// state. Only blocking-flavor cells track poisoning.
//
// The ergonomic accessors ([Shared.Get], [Shared.Lock], [ReadLock.Lock])
// panic on a poisoned cell. The fallible counterparts ([Shared.TryGet],
// [Shared.LockContext], [ReadLock.LockContext], [ReadLock.TryLock])
// return ErrPoisoned together with still-valid access, so a caller who
// judges the partial state acceptable can recover the value.
// [Shared.ClearPoison] removes the mark after recovery.
var ErrPoisoned = errors.New("shared: lock poisoned")

// Panic messages for handle and guard misuse. Handles and guards are
// affine: Release and Unlock must be called exactly once, and a
// released handle must not be used again.
const (
	panicPoisoned      = "shared: lock poisoned"
	panicReleased      = "shared: use of released handle"
	panicGuardReleased = "shared: use of unlocked guard"
	panicNoWeak        = "shared: cell flavor does not support weak references"
)
