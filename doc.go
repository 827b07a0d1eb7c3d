// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package shared provides reference-counted handle types enforcing a
// single-writer / many-readers discipline over one shared resource.
//
// A resource is born inside a [Shared], the sole handle permitted to
// mutate it. Any number of [ReadLock]s may coexist with it, and
// [WeakLock]s observe the resource's lifetime without extending it.
// The exclusivity invariant — at most one Shared per backing [Cell] at
// any time — is enforced at every conversion by an atomic
// reference-count snapshot rather than a global coordinator.
//
// # Architecture
//
//   - Backing cell: [Cell] wraps the value with a read-write lock
//     capability and strong/weak counters via [code.hybscloud.com/atomix].
//   - Flavors: blocking ([NewCell], poisoning-aware), cooperative
//     ([NewCooperativeCell], context-cancellable while queued), and lite
//     ([NewLiteCell], no weak references). One contract, three lock
//     configurations.
//   - Guards: [ReadGuard], [OwnedReadGuard], [WriteGuard] release their
//     lock mode exactly once, on Unlock.
//   - Non-blocking: [ReadLock.TryLock] and effect dispatch return
//     [code.hybscloud.com/iox.ErrWouldBlock] on contention.
//
// # Handles
//
//   - [Shared]: [Shared.Get], [Shared.Lock], [Shared.Update],
//     [Shared.GetReadLock], [Shared.Unwrap], [Shared.IntoInner],
//     [TryFromInner]. Counts: [Shared.ReadCount], [Shared.WeakCount].
//   - [ReadLock]: [ReadLock.Lock], [ReadLock.LockOwned],
//     [ReadLock.TryLock], [ReadLock.Clone], [ReadLock.Downgrade],
//     [ReadLock.TryUpgrade], [FromInner], [ReadLock.TryIntoInner].
//   - [WeakLock]: [WeakLock.Upgrade], [WeakLock.Clone].
//
// Handles are affine: Release must be called exactly once, and a
// released or conversion-consumed handle panics on further use. Delayed
// reclamation is the garbage collector's job; the counts exist for the
// uniqueness checks and for dropping the value eagerly.
//
// # Conversions and the exclusivity invariant
//
// Downgrading ([Shared.GetReadLock], [ReadLock.Downgrade]) is always
// permitted. Upgrading ([ReadLock.TryUpgrade], [TryFromInner],
// [ReadLock.TryIntoInner]) succeeds only on a snapshot of exactly one
// strong and zero weak references. The snapshot is deliberately racy
// under concurrent cloning: correctness is guaranteed only when the
// caller can rule out a clone in flight, typically because it holds the
// last surviving handle. Tightening this would change the documented
// semantics.
//
// # Integration
//
//   - Effects: [Acquire] and [AcquireWrite] expose acquisition as
//     operations on [code.hybscloud.com/kont]; [AcquireBind],
//     [AcquireWriteBind], [WithRead], [WithWrite] are fused constructors.
//   - Stepping: [Step] and [Advance] evaluate lock protocols one effect
//     at a time, making them easy to integrate with a proactor loop.
//   - Blocking: [Exec] and [ExecExpr] wait past contention boundaries
//     using adaptive backoff.
//
// # Example
//
//	s := shared.New(1)
//	rl := s.GetReadLock()
//	go func() {
//		for {
//			g := rl.Lock()
//			v := *g.Get()
//			g.Unlock()
//			if v >= 1024 {
//				return
//			}
//		}
//	}()
//	for i := 0; i < 10; i++ {
//		g := s.Lock()
//		*g.Get() += *g.Get()
//		g.Unlock()
//	}
package shared
