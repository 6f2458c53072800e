package ecs

// sparseSlot is a versioned dense index: the sparse vector's unit of
// storage (spec.md §3, "Dense slot"). Version 0 means empty.
type sparseSlot struct {
	Dense   uint32
	Version uint32
}

func (s sparseSlot) empty() bool {
	return s.Version == 0
}

// sparseVector is a paged array of optional (dense index, version) slots,
// lazily allocating pages as higher indexes are touched (spec.md §4.2).
// Pages keep a sparse-index space with holes (entity indexes never
// attached to this component type) from forcing one giant contiguous
// allocation.
type sparseVector struct {
	pageSize int
	pages    [][]sparseSlot
}

func newSparseVector() *sparseVector {
	return &sparseVector{pageSize: Config.sparsePageSize}
}

func (v *sparseVector) pageAndOffset(index uint32) (page, offset int) {
	ps := v.pageSize
	return int(index) / ps, int(index) % ps
}

// get returns the dense index mapped to sparseIndex under version, if any.
func (v *sparseVector) get(sparseIndex, version uint32) (uint32, bool) {
	page, offset := v.pageAndOffset(sparseIndex)
	if page >= len(v.pages) || v.pages[page] == nil {
		return 0, false
	}
	slot := v.pages[page][offset]
	if slot.empty() || slot.Version != version {
		return 0, false
	}
	return slot.Dense, true
}

// getSparse returns the dense index at sparseIndex ignoring version.
func (v *sparseVector) getSparse(sparseIndex uint32) (uint32, bool) {
	page, offset := v.pageAndOffset(sparseIndex)
	if page >= len(v.pages) || v.pages[page] == nil {
		return 0, false
	}
	slot := v.pages[page][offset]
	if slot.empty() {
		return 0, false
	}
	return slot.Dense, true
}

// containsSparse reports whether sparseIndex has any mapping, regardless of
// version.
func (v *sparseVector) containsSparse(sparseIndex uint32) bool {
	_, ok := v.getSparse(sparseIndex)
	return ok
}

// insertOrGetMutAt returns a pointer to the slot for sparseIndex, lazily
// allocating the backing page. The caller is responsible for writing
// Dense/Version.
func (v *sparseVector) insertOrGetMutAt(sparseIndex uint32) *sparseSlot {
	page, offset := v.pageAndOffset(sparseIndex)
	for page >= len(v.pages) {
		v.pages = append(v.pages, nil)
	}
	if v.pages[page] == nil {
		v.pages[page] = make([]sparseSlot, v.pageSize)
	}
	return &v.pages[page][offset]
}

// remove clears the slot for sparseIndex if its version matches, returning
// the dense index it held.
func (v *sparseVector) remove(sparseIndex, version uint32) (uint32, bool) {
	page, offset := v.pageAndOffset(sparseIndex)
	if page >= len(v.pages) || v.pages[page] == nil {
		return 0, false
	}
	slot := &v.pages[page][offset]
	if slot.empty() || slot.Version != version {
		return 0, false
	}
	dense := slot.Dense
	*slot = sparseSlot{}
	return dense, true
}

// removeSparse clears the slot for sparseIndex unconditionally.
func (v *sparseVector) removeSparse(sparseIndex uint32) (sparseSlot, bool) {
	page, offset := v.pageAndOffset(sparseIndex)
	if page >= len(v.pages) || v.pages[page] == nil {
		return sparseSlot{}, false
	}
	slot := v.pages[page][offset]
	if slot.empty() {
		return sparseSlot{}, false
	}
	v.pages[page][offset] = sparseSlot{}
	return slot, true
}

// swap exchanges the dense indexes stored at two present sparse slots,
// without touching the dense-side arrays; the typed sparse set relies on
// this to keep the sparse vector consistent after it swaps its own packed
// arrays (spec.md §4.2).
func (v *sparseVector) swap(sparseA, sparseB uint32) {
	pa, oa := v.pageAndOffset(sparseA)
	pb, ob := v.pageAndOffset(sparseB)
	da := v.pages[pa][oa].Dense
	db := v.pages[pb][ob].Dense
	v.pages[pa][oa].Dense = db
	v.pages[pb][ob].Dense = da
}

func (v *sparseVector) clear() {
	v.pages = v.pages[:0]
}
