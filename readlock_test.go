// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shared_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/shared"
)

func TestReadLockRead(t *testing.T) {
	s := shared.New(8)
	rl := s.GetReadLock()

	g := rl.Lock()
	if got := *g.Get(); got != 8 {
		t.Fatalf("read = %d, want 8", got)
	}
	// Multiple readers may hold the lock concurrently.
	g2 := rl.Lock()
	if got := *g2.Get(); got != 8 {
		t.Fatalf("second read = %d, want 8", got)
	}
	g2.Unlock()
	g.Unlock()
	rl.Release()
}

func TestTryLockWouldBlock(t *testing.T) {
	s := shared.New(0)
	rl := s.GetReadLock()

	wg := s.Lock()
	if _, err := rl.TryLock(); !errors.Is(err, iox.ErrWouldBlock) {
		t.Fatalf("TryLock error = %v, want ErrWouldBlock", err)
	}
	wg.Unlock()

	g, err := rl.TryLock()
	if err != nil {
		t.Fatalf("TryLock error = %v, want nil", err)
	}
	g.Unlock()
	rl.Release()
}

func TestTryUpgradeSoleReference(t *testing.T) {
	s := shared.New(7)
	rl := s.GetReadLock()
	serial := s.Serial()
	s.Release()

	up, ok := rl.TryUpgrade()
	if !ok {
		t.Fatal("TryUpgrade failed on the sole strong reference")
	}
	if up.Serial() != serial {
		t.Fatalf("upgraded serial = %d, want %d", up.Serial(), serial)
	}
	if got := *up.Get(); got != 7 {
		t.Fatalf("Get after upgrade = %d, want 7", got)
	}
	// The read handle was consumed by the successful conversion.
	mustPanic(t, "shared: use of released handle", func() { rl.Lock() })
}

func TestTryUpgradeRejected(t *testing.T) {
	s := shared.New(0)
	rl := s.GetReadLock()

	// The Shared still exists: upgrading would mint a second writer.
	if _, ok := rl.TryUpgrade(); ok {
		t.Fatal("TryUpgrade succeeded while a Shared exists")
	}

	sibling := rl.Clone()
	s.Release()
	if _, ok := rl.TryUpgrade(); ok {
		t.Fatal("TryUpgrade succeeded with a sibling ReadLock alive")
	}

	// Weak references also block the upgrade.
	sibling.Release()
	w := rl.Downgrade()
	if _, ok := rl.TryUpgrade(); ok {
		t.Fatal("TryUpgrade succeeded with a WeakLock alive")
	}
	w.Release()

	if _, ok := rl.TryUpgrade(); !ok {
		t.Fatal("TryUpgrade failed with no other references")
	}
}

func TestTryIntoInner(t *testing.T) {
	s := shared.New(2)
	rl := s.GetReadLock()

	if _, ok := rl.TryIntoInner(); ok {
		t.Fatal("TryIntoInner succeeded while a Shared exists")
	}
	s.Release()

	c, ok := rl.TryIntoInner()
	if !ok {
		t.Fatal("TryIntoInner failed on the sole reference")
	}
	rl2 := shared.FromInner(c)
	g := rl2.Lock()
	if got := *g.Get(); got != 2 {
		t.Fatalf("read via FromInner = %d, want 2", got)
	}
	g.Unlock()
	rl2.Release()
}

func TestLockOwnedOutlivesHandle(t *testing.T) {
	s := shared.New(6)
	rl := s.GetReadLock()

	og := rl.LockOwned()
	rl.Release()

	// The guard owns its own strong reference; the originating handle
	// is gone but access stays valid.
	if got := *og.Get(); got != 6 {
		t.Fatalf("owned read = %d, want 6", got)
	}
	if _, ok := s.Unwrap(); ok {
		t.Fatal("Unwrap succeeded while an owned guard holds a reference")
	}
	og.Unlock()

	if _, ok := s.Unwrap(); !ok {
		t.Fatal("Unwrap failed after the owned guard was released")
	}
}

func TestGuardDoubleUnlockPanics(t *testing.T) {
	s := shared.New(0)
	rl := s.GetReadLock()
	g := rl.Lock()
	g.Unlock()
	mustPanic(t, "shared: use of unlocked guard", func() { g.Unlock() })
	mustPanic(t, "shared: use of unlocked guard", func() { g.Get() })

	wg := s.Lock()
	wg.Unlock()
	mustPanic(t, "shared: use of unlocked guard", func() { wg.Unlock() })
	rl.Release()
}
