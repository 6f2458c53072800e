package ecs

import "math/bits"

// groupMetadata is the static, layout-derived half of a Group record
// (spec.md §3's "Group"): storage ranges, the skip mask, and the query
// masks that let the planner recognize a query as "exactly this group".
type groupMetadata struct {
	storageStart    int
	newStorageStart int
	storageEnd      int
	skipMask        GroupMask
	includeMask     QueryMask
	excludeMask     QueryMask
}

func (m groupMetadata) storageRange() (int, int) {
	return m.storageStart, m.storageEnd
}

func (m groupMetadata) newStorageRange() (int, int) {
	return m.newStorageStart, m.storageEnd
}

// group is the runtime record tracked per declared group: how many
// entities currently satisfy it (len), held contiguously in the first len
// positions of every sparse set in its storage range.
type group struct {
	metadata groupMetadata
	len      int
}

// componentGroupInfo is attached to a registered component that belongs to
// a group family. familyStart/familyEnd identify the family's global group
// range (two infos combine only if these match); firstGroup is the
// shallowest (smallest-arity) group this component already appears in —
// a query naming several components from the same family can only be dense
// at or below max(firstGroup) across them. storageMask is this component's
// single-bit position within the family.
type componentGroupInfo struct {
	familyStart int
	familyEnd   int
	firstGroup  int
	storageMask StorageMask
}

// groupStatus is the three-way outcome of checking whether an entity
// belongs, could belong, or cannot currently belong to a group (spec.md
// §4.5).
type groupStatus int

const (
	statusIncomplete groupStatus = iota
	statusUngrouped
	statusGrouped
)

// getGroupStatus inspects only the group's new storage range: entities
// already satisfying the parent prefix only need the newly-added storages
// checked (spec.md §4.5 step 1).
func getGroupStatus(components []erasedSparseSet, groupLen int, e Entity) groupStatus {
	first := components[0]
	dense, ok := sparseDenseIndex(first, e)
	if !ok {
		return statusIncomplete
	}
	for _, s := range components[1:] {
		if !s.Contains(e) {
			return statusIncomplete
		}
	}
	if dense < groupLen {
		return statusGrouped
	}
	return statusUngrouped
}

// sparseDenseIndex finds e's dense position within s by a linear scan of
// entities (erasedSparseSet exposes no direct sparse-vector accessor since
// it is type-erased); typed sparse sets route through Contains+dense
// lookup instead when the concrete type is known. Group maintenance only
// needs presence plus the dense index of the *first* storage in a range,
// which every concrete TypedSparseSet exposes through denseIndexer.
func sparseDenseIndex(s erasedSparseSet, e Entity) (int, bool) {
	if d, ok := s.(denseIndexer); ok {
		return d.DenseIndexOf(e)
	}
	if !s.Contains(e) {
		return 0, false
	}
	for i, ent := range s.Entities() {
		if ent == e {
			return i, true
		}
	}
	return 0, false
}

// denseIndexer is implemented by TypedSparseSet for O(1) dense-index
// lookup; the generic fallback above degrades to a linear scan only if a
// caller supplies some other erasedSparseSet implementation.
type denseIndexer interface {
	DenseIndexOf(e Entity) (int, bool)
}

func groupComponents(components []erasedSparseSet, groupLen *int, e Entity) {
	swapIndex := *groupLen
	for _, s := range components {
		dense, _ := sparseDenseIndex(s, e)
		if dense != swapIndex {
			s.Swap(dense, swapIndex)
		}
	}
	*groupLen++
}

func ungroupComponents(components []erasedSparseSet, groupLen *int, e Entity) {
	*groupLen--
	swapIndex := *groupLen
	for _, s := range components {
		dense, _ := sparseDenseIndex(s, e)
		if dense != swapIndex {
			s.Swap(dense, swapIndex)
		}
	}
}

// groupEntity admits e into every group named by groupMask that it newly
// satisfies, processing groups outer-to-inner so an outer group's
// completeness is established before its nested children are considered
// (spec.md §4.5).
func groupEntity(components []erasedSparseSet, groups []group, groupMask GroupMask, e Entity) {
	for groupMask != 0 {
		gi := firstSetBit(groupMask)
		groupMask &= groupMask - 1 // clear lowest set bit

		g := &groups[gi]
		start, end := g.metadata.newStorageRange()
		status := getGroupStatus(components[start:end], g.len, e)

		switch status {
		case statusIncomplete:
			groupMask &= g.metadata.skipMask
		case statusUngrouped:
			rstart, rend := g.metadata.storageRange()
			groupComponents(components[rstart:rend], &g.len, e)
		case statusGrouped:
		}
	}
}

func firstSetBit(m GroupMask) int {
	return bits.TrailingZeros64(uint64(m))
}

// ungroupEntity ejects e from every group named by groupMask that
// currently holds it, processing groups inner-to-outer (spec.md §4.5).
func ungroupEntity(components []erasedSparseSet, groups []group, groupMask GroupMask, e Entity) {
	indices := groupMask.ReverseIndices()
	for _, gi := range indices {
		g := &groups[gi]
		start, end := g.metadata.newStorageRange()
		status := getGroupStatus(components[start:end], g.len, e)
		if status == statusGrouped {
			rstart, rend := g.metadata.storageRange()
			ungroupComponents(components[rstart:rend], &g.len, e)
		}
	}
}

// ungroupAllEntity is the catastrophic path used when stripping every
// component from an entity (spec.md §4.5).
func ungroupAllEntity(components []erasedSparseSet, groups []group, e Entity) {
	for i := len(groups) - 1; i >= 0; i-- {
		g := &groups[i]
		start, end := g.metadata.newStorageRange()
		status := getGroupStatus(components[start:end], g.len, e)
		if status == statusGrouped {
			rstart, rend := g.metadata.storageRange()
			ungroupComponents(components[rstart:rend], &g.len, e)
		}
	}
}
