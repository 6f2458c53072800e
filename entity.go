package ecs

import (
	"fmt"
	"sync/atomic"

	"github.com/TheBitDrifter/bark"
)

// Entity is a versioned index: the primary key for component storage. Two
// entities are equal iff both Index and Version match. Entities are value
// types; copying one does not transfer ownership of anything.
type Entity struct {
	Index   uint32
	Version uint32
}

// Valid reports whether e has a non-zero version. The zero Entity is never
// live in any world.
func (e Entity) Valid() bool {
	return e.Version != 0
}

func (e Entity) String() string {
	return fmt.Sprintf("Entity(%d, v%d)", e.Index, e.Version)
}

// entityAllocator mints fresh entities and recycles destroyed ones with a
// bumped version, per spec.md §4.1. allocate is exclusive-caller-only;
// allocateAtomic may be called concurrently from multiple goroutines
// without holding an exclusive reference, so long as maintain is not
// running concurrently with it (maintain is the single-threaded barrier
// that reifies atomically-allocated entities).
type entityAllocator struct {
	nextIndex             atomic.Uint32
	lastMaintainedIndex   uint32
	recycled              []Entity
	recycledSinceMaintain atomic.Int64
}

// allocate mints or recycles one entity for a caller holding exclusive
// access. It never returns an entity already live in the entity set; the
// caller is expected to insert it.
func (a *entityAllocator) allocate() (Entity, error) {
	since := a.recycledSinceMaintain.Load()
	if int(since) < len(a.recycled) {
		a.recycledSinceMaintain.Add(1)
		return a.recycled[since], nil
	}
	next := a.nextIndex.Load()
	if next == ^uint32(0) {
		return Entity{}, IdSpaceExhaustedError{}
	}
	a.nextIndex.Add(1)
	return Entity{Index: next, Version: 1}, nil
}

// allocateAtomic is the lock-free parallel form: multiple goroutines may
// call it concurrently without ever observing a duplicate entity. The
// returned entities are not yet live; a subsequent maintain call reifies
// them. Returns false if the id space is exhausted.
func (a *entityAllocator) allocateAtomic() (Entity, bool) {
	if since, ok := a.reserveRecycled(); ok {
		return a.recycled[since], true
	}
	if idx, ok := a.reserveNextIndex(); ok {
		return Entity{Index: idx, Version: 1}, true
	}
	return Entity{}, false
}

func (a *entityAllocator) reserveRecycled() (int64, bool) {
	recycledLen := int64(len(a.recycled))
	for {
		prev := a.recycledSinceMaintain.Load()
		if prev >= recycledLen {
			return 0, false
		}
		if a.recycledSinceMaintain.CompareAndSwap(prev, prev+1) {
			return prev, true
		}
	}
}

func (a *entityAllocator) reserveNextIndex() (uint32, bool) {
	for {
		prev := a.nextIndex.Load()
		if prev == ^uint32(0) {
			return 0, false
		}
		if a.nextIndex.CompareAndSwap(prev, prev+1) {
			return prev, true
		}
	}
}

// recycle bumps the entity's version and returns its slot to the recycle
// pool. If the version would overflow back to zero, the slot is retired and
// never returned to the pool again.
func (a *entityAllocator) recycle(e Entity) {
	nextVersion := e.Version + 1
	if nextVersion == 0 {
		return
	}
	a.recycled = append(a.recycled, Entity{Index: e.Index, Version: nextVersion})
}

// maintain drains every recycled entity reserved since the last maintain
// call plus the range of freshly-issued indices, and returns their union.
// It is the barrier operation promoting atomically-allocated entities into
// the live entity set (spec.md GLOSSARY: Maintain).
func (a *entityAllocator) maintain() []Entity {
	since := int(a.recycledSinceMaintain.Swap(0))
	drained := a.recycled[:since]
	a.recycled = a.recycled[since:]

	next := a.nextIndex.Load()
	freshStart := a.lastMaintainedIndex
	a.lastMaintainedIndex = next

	realized := make([]Entity, 0, len(drained)+int(next-freshStart))
	realized = append(realized, drained...)
	for i := freshStart; i < next; i++ {
		realized = append(realized, Entity{Index: i, Version: 1})
	}
	return realized
}

// reset restores the allocator to its construction-time state, invalidating
// every previously-issued entity.
func (a *entityAllocator) reset() {
	a.nextIndex.Store(0)
	a.lastMaintainedIndex = 0
	a.recycled = a.recycled[:0]
	a.recycledSinceMaintain.Store(0)
}

// entitySet is the authoritative live-entity membership (spec.md C3). It
// maps an entity's index to its live version; version 0 marks an index with
// no live entity, whether it was never allocated or has been removed.
type entitySet struct {
	versions []uint32
	live     []Entity
}

func (s *entitySet) contains(e Entity) bool {
	idx := int(e.Index)
	return idx < len(s.versions) && s.versions[idx] == e.Version && e.Version != 0
}

// insert is idempotent: re-inserting an entity already recorded at this
// version leaves live untouched (matches entity_sparse_set.rs's insert,
// which replaces rather than pushes on a repeat index). Create followed by
// Maintain re-observing the same freshly-allocated entity relies on this —
// without it, live would carry a duplicate.
func (s *entitySet) insert(e Entity) {
	idx := int(e.Index)
	if idx >= len(s.versions) {
		grown := make([]uint32, idx+1)
		copy(grown, s.versions)
		s.versions = grown
	}
	if s.versions[idx] == e.Version {
		return
	}
	s.versions[idx] = e.Version
	s.live = append(s.live, e)
}

func (s *entitySet) remove(e Entity) bool {
	idx := int(e.Index)
	if idx >= len(s.versions) || s.versions[idx] != e.Version {
		return false
	}
	s.versions[idx] = 0
	for i, live := range s.live {
		if live == e {
			last := len(s.live) - 1
			s.live[i] = s.live[last]
			s.live = s.live[:last]
			break
		}
	}
	return true
}

func (s *entitySet) clear() {
	s.versions = s.versions[:0]
	s.live = s.live[:0]
}

// mustContain panics through bark.AddTrace when e is not live; used at
// internal call sites where the caller has already promised e is live.
func (s *entitySet) mustContain(e Entity) {
	if !s.contains(e) {
		panic(bark.AddTrace(NoSuchEntityError{Entity: e}))
	}
}
