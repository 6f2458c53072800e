package ecs

import (
	"golang.org/x/sync/errgroup"
)

// World owns one entity set, one component storage, and an optional bag of
// singleton resources (spec.md §4's top-level "World"). A World is not
// safe for concurrent mutation except through the narrow atomic-allocate /
// maintain protocol CreateParallel exercises; everything else assumes a
// single exclusive caller, matching the borrow cells guarding component
// access.
type World struct {
	entities  *entitySet
	alloc     *entityAllocator
	storage   *ComponentStorage
	resources *Resources
}

// NewWorld returns an empty world with no registered component types and no
// declared group layout.
func NewWorld() *World {
	return &World{
		entities:  &entitySet{},
		alloc:     &entityAllocator{},
		storage:   newComponentStorage(),
		resources: newResources(),
	}
}

// Resources returns the world's singleton resource container.
func (w *World) Resources() *Resources {
	return w.resources
}

// Create mints and immediately live-inserts a single entity with no
// components attached.
func (w *World) Create() (Entity, error) {
	e, err := w.alloc.allocate()
	if err != nil {
		return Entity{}, err
	}
	w.entities.insert(e)
	return e, nil
}

// Contains reports whether e is currently live in this world.
func (w *World) Contains(e Entity) bool {
	return w.entities.contains(e)
}

// Alive returns every currently-live entity. The returned slice is owned by
// the world and must not be retained past the next structural mutation.
func (w *World) Alive() []Entity {
	return w.entities.live
}

// Destroy strips every component from e, ungrouping it from any group it
// belonged to, removes it from the live set, and returns its slot to the
// recycle pool.
func (w *World) Destroy(e Entity) error {
	w.entities.mustContain(e)
	w.storage.strip(e)
	w.entities.remove(e)
	w.alloc.recycle(e)
	return nil
}

// Maintain promotes every entity reserved through CreateParallel's atomic
// allocation since the last Maintain call into
// the live entity set (spec.md GLOSSARY: Maintain). Call it once after a
// burst of atomic allocation, never concurrently with itself or with
// Create.
func (w *World) Maintain() []Entity {
	realized := w.alloc.maintain()
	for _, e := range realized {
		w.entities.insert(e)
	}
	return realized
}

// CreateParallel reserves count entities across workers goroutines using
// the allocator's lock-free atomic path, then runs the single-threaded
// Maintain barrier once to reify them all. It demonstrates the
// atomic-allocate/maintain-barrier protocol spec.md's entity allocator is
// built around, wiring golang.org/x/sync/errgroup instead of a hand-rolled
// WaitGroup + channel for the fan-out.
func (w *World) CreateParallel(count int, workers int) ([]Entity, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > count {
		workers = count
	}
	if count == 0 {
		return nil, nil
	}

	var g errgroup.Group
	chunk := (count + workers - 1) / workers
	for start := 0; start < count; start += chunk {
		end := start + chunk
		if end > count {
			end = count
		}
		n := end - start
		g.Go(func() error {
			for i := 0; i < n; i++ {
				if _, ok := w.alloc.allocateAtomic(); !ok {
					return IdSpaceExhaustedError{}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return w.Maintain(), nil
}

// Reset discards every entity, component, and group, as if the world had
// just been constructed with NewWorld, but keeps registered component types
// and the declared layout.
func (w *World) Reset() {
	w.entities.clear()
	w.alloc.reset()
	w.storage.clear()
}

// SetLayout compiles and applies a group layout. Every component type the
// layout names must already be registered (via Register[T] or a prior
// Insert/View call). Calling it again recompiles from scratch and replays
// grouping over every currently-live entity.
func (w *World) SetLayout(layout *GroupLayout) {
	w.storage.setLayout(layout, w.entities.live)
}

// Insert attaches value of type T to e, registering T if this is the first
// time it is used. Returns the previous value and true if e already carried
// a T.
func Insert[T any](w *World, e Entity, value T) (T, bool) {
	w.entities.mustContain(e)
	register[T](w.storage)
	set, _ := sparseSetOf[T](w.storage)
	prev, existed := set.Insert(e, value)
	if !existed {
		w.storage.onInsert([]componentKey{keyOf[T]()}, e)
	}
	return prev, existed
}

// Remove detaches T from e, if present, ungrouping it from any group that
// required T. Ungrouping must run before the set removal: group status is
// derived from which components e currently carries, so T has to still be
// present in its sparse set while ungroupEntity walks the affected groups
// (matches component_set.rs's ungroup-then-remove ordering).
func Remove[T any](w *World, e Entity) (T, bool) {
	set, _ := sparseSetOf[T](w.storage)
	if !set.Contains(e) {
		var zero T
		return zero, false
	}
	w.storage.onRemove([]componentKey{keyOf[T]()}, e)
	return set.Remove(e)
}

// Has reports whether e currently carries a component of type T.
func Has[T any](w *World, e Entity) bool {
	key := keyOf[T]()
	meta, ok := w.storage.metadata[key]
	if !ok {
		return false
	}
	return w.storage.components[meta.storageIndex].Contains(e)
}

// Register ensures T has a sparse set, without attaching it to any entity.
// Component types referenced by a GroupLayout must be registered before
// World.SetLayout is called.
func Register[T any](w *World) {
	register[T](w.storage)
}

// ViewOf acquires a shared, read-only borrow over every T component
// currently stored. The caller must call Release when done.
func ViewOf[T any](w *World) View[T] {
	return borrow[T](w.storage)
}

// ViewMutOf acquires an exclusive, read-write borrow over every T component
// currently stored. The caller must call Release when done.
func ViewMutOf[T any](w *World) ViewMut[T] {
	return borrowMut[T](w.storage)
}
