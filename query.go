package ecs

// resolveGroupRange decides whether a query over includeKeys (required
// components) and excludeKeys (forbidden components) corresponds exactly to
// one declared group, and if so returns the [start, end) dense range every
// family sparse set can be indexed into directly, with no per-entity
// membership check (spec.md §4.7's query planner: "recognize a query's
// combined storage mask against a group's include/exclude mask").
//
// A plain include-only query resolves to [0, group.len): the whole packed
// prefix satisfying that group. A query that also excludes components
// nested one level deeper resolves to [deeper.len, group.len): the entities
// satisfying this group but not its child, which group maintenance keeps
// packed directly after the child's own prefix (spec.md §4.5).
//
// A query resolves densely only when every include key belongs to the same
// group family and every exclude key either belongs to that same family (at
// a deeper nesting level) or was never registered; anything else, including
// a registered exclude from outside the family, falls back to per-entity
// iteration.
func resolveGroupRange(cs *ComponentStorage, includeKeys, excludeKeys []componentKey) (start, end int, ok bool) {
	if len(includeKeys) == 0 {
		return 0, 0, false
	}

	// A single include with no exclude that could ever apply is already
	// fully dense on its own: a sparse set packs every entity carrying that
	// component at [0, Len()) regardless of whether it also belongs to a
	// group (spec.md §4.7's single-view fast path). Grouping only reorders
	// a *prefix* of this set, so the set's own length is always the widest
	// correct dense answer here, and checking it needs no group at all.
	if len(includeKeys) == 1 && !anyRegistered(cs, excludeKeys) {
		meta, registered := cs.metadata[includeKeys[0]]
		if !registered {
			return 0, 0, false
		}
		return 0, cs.components[meta.storageIndex].Len(), true
	}

	var familyStart = -1
	var familyEnd int
	var gi = -1
	var includeStorage StorageMask

	for _, key := range includeKeys {
		meta, registered := cs.metadata[key]
		if !registered || meta.groupInfo == nil {
			return 0, 0, false
		}
		info := meta.groupInfo
		if familyStart == -1 {
			familyStart, familyEnd = info.familyStart, info.familyEnd
		} else if info.familyStart != familyStart {
			return 0, 0, false
		}
		includeStorage |= info.storageMask
		if info.firstGroup > gi {
			gi = info.firstGroup
		}
	}

	var excludeStorage StorageMask
	relevantExcludes := 0
	for _, key := range excludeKeys {
		meta, registered := cs.metadata[key]
		if !registered {
			continue
		}
		info := meta.groupInfo
		if info == nil || info.familyStart != familyStart {
			// An exclude naming a component outside this family can't be
			// folded into the dense range; the caller still needs a
			// per-entity check for it, so the query as a whole isn't dense.
			return 0, 0, false
		}
		relevantExcludes++
		excludeStorage |= info.storageMask
		if info.firstGroup > gi {
			gi = info.firstGroup
		}
	}

	if gi < familyStart || gi >= familyEnd {
		return 0, 0, false
	}
	md := cs.groups[gi].metadata

	switch {
	case relevantExcludes == 0 && md.includeMask.Include == includeStorage && md.includeMask.Exclude == 0:
		return 0, cs.groups[gi].len, true
	case relevantExcludes > 0 && md.excludeMask.Include == includeStorage && md.excludeMask.Exclude == excludeStorage && gi > familyStart:
		return cs.groups[gi].len, cs.groups[gi-1].len, true
	default:
		return 0, 0, false
	}
}

// anyRegistered reports whether any of keys has ever been registered; an
// unregistered component type can never be present on an entity, so it
// excludes nothing and is never "relevant" to a query.
func anyRegistered(cs *ComponentStorage, keys []componentKey) bool {
	for _, k := range keys {
		if _, ok := cs.metadata[k]; ok {
			return true
		}
	}
	return false
}

// gatherExcludeSets resolves excludeKeys to their erasedSparseSet, skipping
// any key that was never registered (an unregistered type can never be
// present on an entity, so it excludes nothing).
func gatherExcludeSets(cs *ComponentStorage, excludeKeys []componentKey) []erasedSparseSet {
	if len(excludeKeys) == 0 {
		return nil
	}
	sets := make([]erasedSparseSet, 0, len(excludeKeys))
	for _, key := range excludeKeys {
		if meta, ok := cs.metadata[key]; ok {
			sets = append(sets, cs.components[meta.storageIndex])
		}
	}
	return sets
}

func excludedBy(sets []erasedSparseSet, e Entity) bool {
	for _, s := range sets {
		if s.Contains(e) {
			return true
		}
	}
	return false
}

// Without names a component type as a query exclusion; pass its result to a
// QueryN's Exclude method.
func Without[T any]() componentKey {
	return keyOf[T]()
}
