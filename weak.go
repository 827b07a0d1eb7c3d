// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package shared

// WeakLock is a non-owning observer handle for a resource possibly
// shared with up to one [Shared] and many [ReadLock]s. It does not keep
// the value alive: once the last strong reference is dropped, Upgrade
// fails. Only weak-capable cell flavors mint WeakLocks (see
// [ReadLock.Downgrade]).
type WeakLock[T any] struct {
	cell *Cell[T]
}

// c returns the backing cell, panicking if the handle was released.
func (w *WeakLock[T]) c() *Cell[T] {
	if w.cell == nil {
		panic(panicReleased)
	}
	return w.cell
}

// Upgrade attempts to convert this WeakLock into a [ReadLock], delaying
// the drop of the inner value if successful.
//
// Returns false if the value has already been dropped, i.e. the strong
// count reached zero before the upgrade executed. This is an expected
// outcome, not a failure. Never blocks. The WeakLock itself stays
// valid either way.
func (w *WeakLock[T]) Upgrade() (*ReadLock[T], bool) {
	c := w.c()
	if !c.tryIncStrong() {
		return nil, false
	}
	return &ReadLock[T]{cell: c}, true
}

// Clone mints a sibling WeakLock. Increments the weak count only;
// strong-count-based uniqueness checks are unaffected by how many
// times a weak handle is cloned beyond the count itself.
func (w *WeakLock[T]) Clone() *WeakLock[T] {
	c := w.c()
	c.weak.Add(1)
	return &WeakLock[T]{cell: c}
}

// Serial returns the serial number of the backing cell.
func (w *WeakLock[T]) Serial() Serial {
	return w.c().serial
}

// Release drops the handle's weak reference and invalidates the
// handle. Must be called exactly once.
func (w *WeakLock[T]) Release() {
	c := w.c()
	w.cell = nil
	c.weak.Add(^uint32(0))
}
