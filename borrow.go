package ecs

import (
	"sync/atomic"

	"github.com/TheBitDrifter/bark"
)

// borrowCell is a runtime aliasing guard for a single component type's
// sparse set (spec.md's borrow/borrow_mut), implemented with a single
// atomic word instead of a channel or sync.RWMutex: 0 means free, -1 means
// exclusively held, and any positive value is the number of live shared
// borrows. Unlike sync.RWMutex, a failed acquire panics immediately rather
// than blocking — concurrent systems are expected to declare non-conflicting
// access up front, so contention here indicates a programming error, not a
// timing race to wait out.
type borrowCell struct {
	state atomic.Int32
}

func newBorrowCell() *borrowCell {
	return &borrowCell{}
}

func (c *borrowCell) acquireShared(typeName string) {
	for {
		v := c.state.Load()
		if v < 0 {
			panic(bark.AddTrace(BorrowConflictError{TypeName: typeName}))
		}
		if c.state.CompareAndSwap(v, v+1) {
			return
		}
	}
}

func (c *borrowCell) releaseShared() {
	c.state.Add(-1)
}

func (c *borrowCell) acquireExclusive(typeName string) {
	if !c.state.CompareAndSwap(0, -1) {
		panic(bark.AddTrace(BorrowConflictError{TypeName: typeName}))
	}
}

func (c *borrowCell) releaseExclusive() {
	c.state.Store(0)
}

// View is a shared, read-only borrow of a component type's packed storage.
// Release must be called when the caller is done, conventionally via defer.
type View[T any] struct {
	set  *TypedSparseSet[T]
	cell *borrowCell
}

// Release ends the shared borrow.
func (v View[T]) Release() {
	v.cell.releaseShared()
}

// Get looks up e's component through the borrowed set.
func (v View[T]) Get(e Entity) (*T, bool) {
	return v.set.Get(e)
}

// Slice returns the packed, read-only component slice.
func (v View[T]) Slice() []T {
	return v.set.AsSlice()
}

// Entities returns the packed, index-aligned entity slice.
func (v View[T]) Entities() []Entity {
	return v.set.Entities()
}

// Len reports how many entities currently carry this component.
func (v View[T]) Len() int {
	return v.set.Len()
}

// ViewMut is an exclusive, read-write borrow of a component type's packed
// storage. Release must be called when the caller is done.
type ViewMut[T any] struct {
	set  *TypedSparseSet[T]
	cell *borrowCell
}

// Release ends the exclusive borrow.
func (v ViewMut[T]) Release() {
	v.cell.releaseExclusive()
}

// Get looks up e's component through the borrowed set.
func (v ViewMut[T]) Get(e Entity) (*T, bool) {
	return v.set.Get(e)
}

// Slice returns the packed component slice for in-place mutation.
func (v ViewMut[T]) Slice() []T {
	return v.set.AsMutSlice()
}

// Entities returns the packed, index-aligned entity slice.
func (v ViewMut[T]) Entities() []Entity {
	return v.set.Entities()
}

// Len reports how many entities currently carry this component.
func (v ViewMut[T]) Len() int {
	return v.set.Len()
}

// borrow acquires a shared View over T's sparse set, registering T first if
// necessary.
func borrow[T any](cs *ComponentStorage) View[T] {
	register[T](cs)
	set, meta := sparseSetOf[T](cs)
	cell := cs.cells[meta.storageIndex]
	cell.acquireShared(set.TypeName())
	return View[T]{set: set, cell: cell}
}

// borrowMut acquires an exclusive ViewMut over T's sparse set, registering T
// first if necessary.
func borrowMut[T any](cs *ComponentStorage) ViewMut[T] {
	register[T](cs)
	set, meta := sparseSetOf[T](cs)
	cell := cs.cells[meta.storageIndex]
	cell.acquireExclusive(set.TypeName())
	return ViewMut[T]{set: set, cell: cell}
}
