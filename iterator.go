package ecs

// Query1 iterates every entity carrying a single component type, honoring
// any declared exclusions (spec.md §4.7).
type Query1[A any] struct {
	w           *World
	excludeKeys []componentKey
}

// NewQuery1 builds a query over a single component type.
func NewQuery1[A any](w *World) *Query1[A] {
	return &Query1[A]{w: w}
}

// Exclude adds component types that must be absent; use Without[T]() to name
// one.
func (q *Query1[A]) Exclude(keys ...componentKey) *Query1[A] {
	q.excludeKeys = append(q.excludeKeys, keys...)
	return q
}

// Each calls fn once per matching entity. Entity order is unspecified.
func (q *Query1[A]) Each(fn func(Entity, *A)) {
	cs := q.w.storage
	keyA := keyOf[A]()
	if !cs.isRegistered(keyA) {
		return
	}
	setA, _ := sparseSetOf[A](cs)

	if start, end, ok := resolveGroupRange(cs, []componentKey{keyA}, q.excludeKeys); ok {
		a := setA.AsMutSlice()
		entities := setA.Entities()
		for i := start; i < end; i++ {
			fn(entities[i], &a[i])
		}
		return
	}

	excludeSets := gatherExcludeSets(cs, q.excludeKeys)
	entities := append([]Entity(nil), setA.Entities()...)
	a := setA.AsMutSlice()
	for i, e := range entities {
		if excludedBy(excludeSets, e) {
			continue
		}
		fn(e, &a[i])
	}
}

// Slice returns the dense, index-aligned component and entity slices when
// this query resolves to a contiguous range, so callers needing raw
// throughput can skip the per-entity callback. With no registered exclusion
// the range is the whole packed set, whether or not A is grouped. Returns
// UngroupedError if A is unregistered, or if a registered exclusion keeps
// the query from matching a declared group.
func (q *Query1[A]) Slice() ([]A, []Entity, error) {
	cs := q.w.storage
	keyA := keyOf[A]()
	if !cs.isRegistered(keyA) {
		return nil, nil, UngroupedError{}
	}
	start, end, ok := resolveGroupRange(cs, []componentKey{keyA}, q.excludeKeys)
	if !ok {
		return nil, nil, UngroupedError{}
	}
	setA, _ := sparseSetOf[A](cs)
	return setA.AsMutSlice()[start:end], setA.Entities()[start:end], nil
}

// Query2 iterates every entity carrying both component types A and B.
type Query2[A, B any] struct {
	w           *World
	excludeKeys []componentKey
}

// NewQuery2 builds a query over two component types.
func NewQuery2[A, B any](w *World) *Query2[A, B] {
	return &Query2[A, B]{w: w}
}

// Exclude adds component types that must be absent; use Without[T]() to name
// one.
func (q *Query2[A, B]) Exclude(keys ...componentKey) *Query2[A, B] {
	q.excludeKeys = append(q.excludeKeys, keys...)
	return q
}

// Each calls fn once per matching entity. Entity order is unspecified.
func (q *Query2[A, B]) Each(fn func(Entity, *A, *B)) {
	cs := q.w.storage
	keyA, keyB := keyOf[A](), keyOf[B]()
	if !cs.isRegistered(keyA) || !cs.isRegistered(keyB) {
		return
	}
	setA, _ := sparseSetOf[A](cs)
	setB, _ := sparseSetOf[B](cs)

	if start, end, ok := resolveGroupRange(cs, []componentKey{keyA, keyB}, q.excludeKeys); ok {
		a, b := setA.AsMutSlice(), setB.AsMutSlice()
		entities := setA.Entities()
		for i := start; i < end; i++ {
			fn(entities[i], &a[i], &b[i])
		}
		return
	}

	excludeSets := gatherExcludeSets(cs, q.excludeKeys)
	small, big := chooseSmaller(setA, setB)
	for _, e := range append([]Entity(nil), small.Entities()...) {
		if !big.Contains(e) || excludedBy(excludeSets, e) {
			continue
		}
		aPtr, _ := setA.Get(e)
		bPtr, _ := setB.Get(e)
		fn(e, aPtr, bPtr)
	}
}

// Slice returns the dense, index-aligned component and entity slices when
// this query resolves to a contiguous group range. Returns UngroupedError
// otherwise.
func (q *Query2[A, B]) Slice() ([]A, []B, []Entity, error) {
	cs := q.w.storage
	keyA, keyB := keyOf[A](), keyOf[B]()
	if !cs.isRegistered(keyA) || !cs.isRegistered(keyB) {
		return nil, nil, nil, UngroupedError{}
	}
	start, end, ok := resolveGroupRange(cs, []componentKey{keyA, keyB}, q.excludeKeys)
	if !ok {
		return nil, nil, nil, UngroupedError{}
	}
	setA, _ := sparseSetOf[A](cs)
	setB, _ := sparseSetOf[B](cs)
	return setA.AsMutSlice()[start:end], setB.AsMutSlice()[start:end], setA.Entities()[start:end], nil
}

// Query3 iterates every entity carrying component types A, B, and C.
type Query3[A, B, C any] struct {
	w           *World
	excludeKeys []componentKey
}

// NewQuery3 builds a query over three component types.
func NewQuery3[A, B, C any](w *World) *Query3[A, B, C] {
	return &Query3[A, B, C]{w: w}
}

// Exclude adds component types that must be absent; use Without[T]() to name
// one.
func (q *Query3[A, B, C]) Exclude(keys ...componentKey) *Query3[A, B, C] {
	q.excludeKeys = append(q.excludeKeys, keys...)
	return q
}

// Each calls fn once per matching entity. Entity order is unspecified.
func (q *Query3[A, B, C]) Each(fn func(Entity, *A, *B, *C)) {
	cs := q.w.storage
	keyA, keyB, keyC := keyOf[A](), keyOf[B](), keyOf[C]()
	if !cs.isRegistered(keyA) || !cs.isRegistered(keyB) || !cs.isRegistered(keyC) {
		return
	}
	setA, _ := sparseSetOf[A](cs)
	setB, _ := sparseSetOf[B](cs)
	setC, _ := sparseSetOf[C](cs)

	if start, end, ok := resolveGroupRange(cs, []componentKey{keyA, keyB, keyC}, q.excludeKeys); ok {
		a, b, c := setA.AsMutSlice(), setB.AsMutSlice(), setC.AsMutSlice()
		entities := setA.Entities()
		for i := start; i < end; i++ {
			fn(entities[i], &a[i], &b[i], &c[i])
		}
		return
	}

	excludeSets := gatherExcludeSets(cs, q.excludeKeys)
	smallest := smallestOf(setA, setB, setC)
	for _, e := range append([]Entity(nil), smallest.Entities()...) {
		if !setA.Contains(e) || !setB.Contains(e) || !setC.Contains(e) || excludedBy(excludeSets, e) {
			continue
		}
		aPtr, _ := setA.Get(e)
		bPtr, _ := setB.Get(e)
		cPtr, _ := setC.Get(e)
		fn(e, aPtr, bPtr, cPtr)
	}
}

// Slice returns the dense, index-aligned component and entity slices when
// this query resolves to a contiguous group range. Returns UngroupedError
// otherwise.
func (q *Query3[A, B, C]) Slice() ([]A, []B, []C, []Entity, error) {
	cs := q.w.storage
	keyA, keyB, keyC := keyOf[A](), keyOf[B](), keyOf[C]()
	if !cs.isRegistered(keyA) || !cs.isRegistered(keyB) || !cs.isRegistered(keyC) {
		return nil, nil, nil, nil, UngroupedError{}
	}
	start, end, ok := resolveGroupRange(cs, []componentKey{keyA, keyB, keyC}, q.excludeKeys)
	if !ok {
		return nil, nil, nil, nil, UngroupedError{}
	}
	setA, _ := sparseSetOf[A](cs)
	setB, _ := sparseSetOf[B](cs)
	setC, _ := sparseSetOf[C](cs)
	return setA.AsMutSlice()[start:end], setB.AsMutSlice()[start:end], setC.AsMutSlice()[start:end], setA.Entities()[start:end], nil
}

// Query4 iterates every entity carrying component types A, B, C, and D.
type Query4[A, B, C, D any] struct {
	w           *World
	excludeKeys []componentKey
}

// NewQuery4 builds a query over four component types.
func NewQuery4[A, B, C, D any](w *World) *Query4[A, B, C, D] {
	return &Query4[A, B, C, D]{w: w}
}

// Exclude adds component types that must be absent; use Without[T]() to name
// one.
func (q *Query4[A, B, C, D]) Exclude(keys ...componentKey) *Query4[A, B, C, D] {
	q.excludeKeys = append(q.excludeKeys, keys...)
	return q
}

// Each calls fn once per matching entity. Entity order is unspecified.
func (q *Query4[A, B, C, D]) Each(fn func(Entity, *A, *B, *C, *D)) {
	cs := q.w.storage
	keyA, keyB, keyC, keyD := keyOf[A](), keyOf[B](), keyOf[C](), keyOf[D]()
	if !cs.isRegistered(keyA) || !cs.isRegistered(keyB) || !cs.isRegistered(keyC) || !cs.isRegistered(keyD) {
		return
	}
	setA, _ := sparseSetOf[A](cs)
	setB, _ := sparseSetOf[B](cs)
	setC, _ := sparseSetOf[C](cs)
	setD, _ := sparseSetOf[D](cs)

	if start, end, ok := resolveGroupRange(cs, []componentKey{keyA, keyB, keyC, keyD}, q.excludeKeys); ok {
		a, b, c, d := setA.AsMutSlice(), setB.AsMutSlice(), setC.AsMutSlice(), setD.AsMutSlice()
		entities := setA.Entities()
		for i := start; i < end; i++ {
			fn(entities[i], &a[i], &b[i], &c[i], &d[i])
		}
		return
	}

	excludeSets := gatherExcludeSets(cs, q.excludeKeys)
	smallest := smallestOf(setA, setB, setC, setD)
	for _, e := range append([]Entity(nil), smallest.Entities()...) {
		if !setA.Contains(e) || !setB.Contains(e) || !setC.Contains(e) || !setD.Contains(e) || excludedBy(excludeSets, e) {
			continue
		}
		aPtr, _ := setA.Get(e)
		bPtr, _ := setB.Get(e)
		cPtr, _ := setC.Get(e)
		dPtr, _ := setD.Get(e)
		fn(e, aPtr, bPtr, cPtr, dPtr)
	}
}

func chooseSmaller(a, b erasedSparseSet) (smaller, other erasedSparseSet) {
	if a.Len() <= b.Len() {
		return a, b
	}
	return b, a
}

func smallestOf(sets ...erasedSparseSet) erasedSparseSet {
	smallest := sets[0]
	for _, s := range sets[1:] {
		if s.Len() < smallest.Len() {
			smallest = s
		}
	}
	return smallest
}
