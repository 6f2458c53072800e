package ecs

import "reflect"

// erasedSparseSet is the type-erased surface every per-component-type
// sparse set exposes to the component storage, so storage can hold a
// single heterogeneous slice of them (spec.md §4.3's "type-erased vtable
// records grow, swap, delete, clear, drop"; Go generics let us express this
// as an interface implemented by the generic TypedSparseSet[T] instead of a
// hand-rolled function-pointer vtable).
type erasedSparseSet interface {
	Len() int
	EntityAt(dense int) Entity
	Entities() []Entity
	Contains(e Entity) bool
	Swap(a, b int)
	DeleteErased(e Entity) bool
	Clear()
	TypeName() string
}

// TypedSparseSet is the per-component-type dense storage described in
// spec.md §4.3: a sparse vector plus two parallel packed arrays, entities
// and components, kept index-aligned and density-preserving via
// swap_remove.
type TypedSparseSet[T any] struct {
	sparse      *sparseVector
	entitiesArr []Entity
	components  []T
}

var (
	_ erasedSparseSet = (*TypedSparseSet[int])(nil)
	_ denseIndexer    = (*TypedSparseSet[int])(nil)
)

// newTypedSparseSet constructs an empty sparse set for component type T.
func newTypedSparseSet[T any]() *TypedSparseSet[T] {
	return &TypedSparseSet[T]{sparse: newSparseVector()}
}

// Len returns the number of components currently stored.
func (s *TypedSparseSet[T]) Len() int {
	return len(s.entitiesArr)
}

// Entities returns the packed, index-aligned entity slice.
func (s *TypedSparseSet[T]) Entities() []Entity {
	return s.entitiesArr
}

// EntityAt returns the entity at the given dense position.
func (s *TypedSparseSet[T]) EntityAt(dense int) Entity {
	return s.entitiesArr[dense]
}

// AsSlice returns the packed, index-aligned component slice.
func (s *TypedSparseSet[T]) AsSlice() []T {
	return s.components
}

// AsMutSlice returns the packed component slice for in-place mutation.
func (s *TypedSparseSet[T]) AsMutSlice() []T {
	return s.components
}

// Contains reports whether e currently owns a component in this set.
func (s *TypedSparseSet[T]) Contains(e Entity) bool {
	_, ok := s.sparse.get(e.Index, e.Version)
	return ok
}

// DenseIndexOf returns e's packed-array position in O(1), used by the
// group maintenance algorithm (spec.md §4.5) instead of a linear scan.
func (s *TypedSparseSet[T]) DenseIndexOf(e Entity) (int, bool) {
	dense, ok := s.sparse.get(e.Index, e.Version)
	return int(dense), ok
}

// Get returns a pointer to e's component value, if any.
func (s *TypedSparseSet[T]) Get(e Entity) (*T, bool) {
	dense, ok := s.sparse.get(e.Index, e.Version)
	if !ok {
		return nil, false
	}
	return &s.components[dense], true
}

// Insert attaches value to e, growing the packed arrays by geometric
// doubling if needed. If e already owned a component, the previous value is
// returned and overwritten in place; e.Version may have advanced (the
// sparse slot is rewritten to match).
func (s *TypedSparseSet[T]) Insert(e Entity, value T) (T, bool) {
	if dense, ok := s.sparse.getSparse(e.Index); ok {
		prev := s.components[dense]
		s.entitiesArr[dense] = e
		s.components[dense] = value
		slot := s.sparse.insertOrGetMutAt(e.Index)
		slot.Version = e.Version
		return prev, true
	}

	s.grow()
	dense := uint32(len(s.entitiesArr))
	s.entitiesArr = append(s.entitiesArr, e)
	s.components = append(s.components, value)
	slot := s.sparse.insertOrGetMutAt(e.Index)
	*slot = sparseSlot{Dense: dense, Version: e.Version}

	var zero T
	return zero, false
}

// grow pre-sizes both packed arrays to Config.sparseSetMinCap the first
// time the set is used and does nothing afterwards: later growth is left to
// append, whose capacity growth is the slice runtime's, not hand-rolled.
func (s *TypedSparseSet[T]) grow() {
	if cap(s.entitiesArr) == 0 {
		s.entitiesArr = make([]Entity, 0, Config.sparseSetMinCap)
		s.components = make([]T, 0, Config.sparseSetMinCap)
	}
}

// Remove detaches e's component, swap-removing the last packed element into
// the vacated slot, and returns the removed value.
func (s *TypedSparseSet[T]) Remove(e Entity) (T, bool) {
	dense, ok := s.sparse.remove(e.Index, e.Version)
	if !ok {
		var zero T
		return zero, false
	}
	value := s.components[dense]
	s.swapRemoveAt(int(dense))
	return value, true
}

// DeleteErased is Remove without returning the value, for the type-erased
// strip/clear paths (spec.md §4.3's delete).
func (s *TypedSparseSet[T]) DeleteErased(e Entity) bool {
	_, ok := s.Remove(e)
	return ok
}

func (s *TypedSparseSet[T]) swapRemoveAt(dense int) {
	last := len(s.entitiesArr) - 1
	if dense != last {
		movedEntity := s.entitiesArr[last]
		s.entitiesArr[dense] = movedEntity
		s.components[dense] = s.components[last]
		movedSlot := s.sparse.insertOrGetMutAt(movedEntity.Index)
		movedSlot.Dense = uint32(dense)
	}
	var zero T
	s.entitiesArr = s.entitiesArr[:last]
	s.components[last] = zero
	s.components = s.components[:last]
}

// Swap exchanges the dense positions a and b across both packed arrays and
// rewrites the sparse vector for both affected entities. The group
// maintenance algorithm (spec.md §4.5) relies on this to reorder entities
// without touching any other component type's storage.
func (s *TypedSparseSet[T]) Swap(a, b int) {
	if a == b {
		return
	}
	ea, eb := s.entitiesArr[a], s.entitiesArr[b]
	s.entitiesArr[a], s.entitiesArr[b] = eb, ea
	s.components[a], s.components[b] = s.components[b], s.components[a]
	s.sparse.swap(ea.Index, eb.Index)
}

// Clear drops every stored value and empties the sparse vector.
func (s *TypedSparseSet[T]) Clear() {
	s.entitiesArr = s.entitiesArr[:0]
	s.components = s.components[:0]
	s.sparse.clear()
}

// TypeName returns the reflect-derived name of the stored component type,
// used in error messages (NotRegisteredError, etc).
func (s *TypedSparseSet[T]) TypeName() string {
	var zero T
	return reflect.TypeOf(zero).String()
}
