package ecs

import "github.com/TheBitDrifter/bark"

// componentMeta is the per-registered-type bookkeeping the component
// storage keeps: its absolute position in the sparse-set list, the group
// masks that drive maintenance on insert/remove, and (for grouped types)
// the info the query planner combines to find a dense range.
type componentMeta struct {
	storageIndex int
	insertMask   GroupMask
	deleteMask   GroupMask
	groupInfo    *componentGroupInfo
}

// ComponentStorage is the collection of sparse sets plus grouping metadata
// described in spec.md §4.6. It is owned exclusively by one World.
type ComponentStorage struct {
	components []erasedSparseSet
	cells      []*borrowCell
	groups     []group
	metadata   map[componentKey]*componentMeta
	layout     *GroupLayout
}

func newComponentStorage() *ComponentStorage {
	return &ComponentStorage{metadata: make(map[componentKey]*componentMeta)}
}

// register ensures component type T has a sparse set; idempotent.
func register[T any](cs *ComponentStorage) {
	key := keyOf[T]()
	if _, ok := cs.metadata[key]; ok {
		return
	}
	cs.components = append(cs.components, newTypedSparseSet[T]())
	cs.cells = append(cs.cells, newBorrowCell())
	cs.metadata[key] = &componentMeta{storageIndex: len(cs.components) - 1}
}

func (cs *ComponentStorage) isRegistered(key componentKey) bool {
	_, ok := cs.metadata[key]
	return ok
}

func sparseSetOf[T any](cs *ComponentStorage) (*TypedSparseSet[T], *componentMeta) {
	key := keyOf[T]()
	meta, ok := cs.metadata[key]
	if !ok {
		panic(bark.AddTrace(NotRegisteredError{TypeName: key.String()}))
	}
	return cs.components[meta.storageIndex].(*TypedSparseSet[T]), meta
}

// setLayout compiles layout into concrete groups, reorders the sparse-set
// list so each family occupies a contiguous storage range, and replays
// grouping for every currently-live entity (spec.md §4.6's "Construction
// from a layout"). Every component type named in layout must already be
// registered.
func (cs *ComponentStorage) setLayout(layout *GroupLayout, liveEntities []Entity) {
	keyOfIndex := make(map[int]componentKey, len(cs.metadata))
	for key, meta := range cs.metadata {
		keyOfIndex[meta.storageIndex] = key
	}

	placed := make(map[componentKey]bool, len(cs.metadata))
	var ordered []erasedSparseSet
	var orderedCells []*borrowCell
	newIndex := make(map[componentKey]int, len(cs.metadata))

	type famRange struct{ start, end int }
	famRanges := make([]famRange, len(layout.families))

	for fi, fam := range layout.families {
		start := len(ordered)
		for _, key := range fam.components {
			meta, ok := cs.metadata[key]
			if !ok {
				panic(bark.AddTrace(NotRegisteredError{TypeName: key.String()}))
			}
			newIndex[key] = len(ordered)
			ordered = append(ordered, cs.components[meta.storageIndex])
			orderedCells = append(orderedCells, cs.cells[meta.storageIndex])
			placed[key] = true
		}
		famRanges[fi] = famRange{start: start, end: len(ordered)}
	}
	for i, s := range cs.components {
		key := keyOfIndex[i]
		if placed[key] {
			continue
		}
		newIndex[key] = len(ordered)
		ordered = append(ordered, s)
		orderedCells = append(orderedCells, cs.cells[i])
	}

	cs.components = ordered
	cs.cells = orderedCells
	for key, meta := range cs.metadata {
		meta.storageIndex = newIndex[key]
	}

	var groups []group
	groupStart := 0
	for fi, fam := range layout.families {
		famBase := famRanges[fi].start
		famEnd := groupStart + len(fam.arities)

		prevArity := 0
		for k, arity := range fam.arities {
			gi := groupStart + k
			md := groupMetadata{
				storageStart:    famBase,
				newStorageStart: famBase + prevArity,
				storageEnd:      famBase + arity,
				skipMask:        skipMask(gi+1, famEnd),
				includeMask:     includeQueryMask(arity),
				excludeMask:     excludeQueryMask(prevArity, arity),
			}
			groups = append(groups, group{metadata: md})
			prevArity = arity
		}

		for p, key := range fam.components {
			localKFirst := len(fam.arities) - 1
			for k, arity := range fam.arities {
				if p < arity {
					localKFirst = k
					break
				}
			}
			firstGroup := groupStart + localKFirst
			meta := cs.metadata[key]
			// A component matters to every group from the one that first
			// required it through the family's deepest group: adding it can
			// complete any of those groups, and removing it breaks all of
			// them (spec.md §4.5).
			meta.insertMask = groupMaskRange(firstGroup, famEnd)
			meta.deleteMask = groupMaskRange(firstGroup, famEnd)
			meta.groupInfo = &componentGroupInfo{
				familyStart: groupStart,
				familyEnd:   famEnd,
				firstGroup:  firstGroup,
				storageMask: singleStorageMask(p),
			}
		}

		groupStart = famEnd
	}

	cs.groups = groups
	cs.layout = layout

	if len(groups) == 0 {
		return
	}
	fullMask := groupMaskRange(0, len(groups))
	for _, e := range liveEntities {
		groupEntity(cs.components, cs.groups, fullMask, e)
	}
}

// insertAggregateMask ORs every key's insert_mask together (spec.md §4.5:
// the aggregate group_mask names the groups potentially admitting this
// entity after a component was just attached).
func (cs *ComponentStorage) insertAggregateMask(keys []componentKey) GroupMask {
	var mask GroupMask
	for _, k := range keys {
		if meta, ok := cs.metadata[k]; ok {
			mask |= meta.insertMask
		}
	}
	return mask
}

func (cs *ComponentStorage) deleteAggregateMask(keys []componentKey) GroupMask {
	var mask GroupMask
	for _, k := range keys {
		if meta, ok := cs.metadata[k]; ok {
			mask |= meta.deleteMask
		}
	}
	return mask
}

func (cs *ComponentStorage) onInsert(keys []componentKey, e Entity) {
	if mask := cs.insertAggregateMask(keys); mask != 0 {
		groupEntity(cs.components, cs.groups, mask, e)
	}
}

func (cs *ComponentStorage) onRemove(keys []componentKey, e Entity) {
	if mask := cs.deleteAggregateMask(keys); mask != 0 {
		ungroupEntity(cs.components, cs.groups, mask, e)
	}
}

// strip ungroups e from every group, then deletes it from every sparse set;
// used by World.Destroy.
func (cs *ComponentStorage) strip(e Entity) {
	if len(cs.groups) > 0 {
		ungroupAllEntity(cs.components, cs.groups, e)
	}
	for _, s := range cs.components {
		s.DeleteErased(e)
	}
}

// clear zeroes every group's len and empties every sparse set, keeping
// registrations and layout intact.
func (cs *ComponentStorage) clear() {
	for i := range cs.groups {
		cs.groups[i].len = 0
	}
	for _, s := range cs.components {
		s.Clear()
	}
}
