package ecs

import "testing"

func newGroupedWorld() *World {
	w := NewWorld()
	Register[compA](w)
	Register[compB](w)
	Register[compC](w)

	b := NewGroupLayoutBuilder()
	b = AddGroup2[compA, compB](b)
	b = AddGroup3[compA, compB, compC](b)
	w.SetLayout(b.Build())
	return w
}

func TestQuery2DenseIteration(t *testing.T) {
	w := newGroupedWorld()
	e1, _ := w.Create()
	e2, _ := w.Create()
	Insert(w, e1, compA{v: 1})
	Insert(w, e1, compB{v: 10})
	Insert(w, e2, compA{v: 2})
	Insert(w, e2, compB{v: 20})

	seen := make(map[Entity]int)
	NewQuery2[compA, compB](w).Each(func(e Entity, a *compA, b *compB) {
		seen[e] = a.v + b.v
	})
	if len(seen) != 2 {
		t.Fatalf("Each() visited %d entities, want 2", len(seen))
	}
	if seen[e1] != 11 || seen[e2] != 22 {
		t.Fatalf("Each() sums = %v, want {e1:11 e2:22}", seen)
	}

	a, b, entities, err := NewQuery2[compA, compB](w).Slice()
	if err != nil {
		t.Fatalf("Slice() error = %v, want dense match", err)
	}
	if len(a) != 2 || len(b) != 2 || len(entities) != 2 {
		t.Fatalf("Slice() lengths = %d %d %d, want 2 2 2", len(a), len(b), len(entities))
	}
}

func TestQuery3DenseIterationNestedFamily(t *testing.T) {
	w := newGroupedWorld()
	eAB, _ := w.Create()
	eABC, _ := w.Create()
	Insert(w, eAB, compA{v: 1})
	Insert(w, eAB, compB{v: 1})
	Insert(w, eABC, compA{v: 2})
	Insert(w, eABC, compB{v: 2})
	Insert(w, eABC, compC{v: 2})

	var visited []Entity
	NewQuery3[compA, compB, compC](w).Each(func(e Entity, a *compA, b *compB, c *compC) {
		visited = append(visited, e)
	})
	if len(visited) != 1 || visited[0] != eABC {
		t.Fatalf("Query3.Each() visited %v, want only %v", visited, eABC)
	}
}

func TestQuery2ExcludeResolvesToRingRange(t *testing.T) {
	w := newGroupedWorld()
	eAB, _ := w.Create()
	eABC, _ := w.Create()
	Insert(w, eAB, compA{v: 1})
	Insert(w, eAB, compB{v: 1})
	Insert(w, eABC, compA{v: 2})
	Insert(w, eABC, compB{v: 2})
	Insert(w, eABC, compC{v: 2})

	var visited []Entity
	NewQuery2[compA, compB](w).Exclude(Without[compC]()).Each(func(e Entity, a *compA, b *compB) {
		visited = append(visited, e)
	})
	if len(visited) != 1 || visited[0] != eAB {
		t.Fatalf("Query2.Exclude(C).Each() visited %v, want only %v", visited, eAB)
	}
}

func TestQuery2SparseFallbackWhenUngrouped(t *testing.T) {
	w := NewWorld()
	e, _ := w.Create()
	Insert(w, e, compA{v: 1})
	Insert(w, e, compB{v: 2})

	count := 0
	NewQuery2[compA, compB](w).Each(func(e Entity, a *compA, b *compB) {
		count++
	})
	if count != 1 {
		t.Fatalf("sparse Each() visited %d entities, want 1", count)
	}

	if _, _, _, err := NewQuery2[compA, compB](w).Slice(); err == nil {
		t.Fatal("Slice() on an ungrouped query did not return UngroupedError")
	}
}

func TestQuery1ExcludeSparse(t *testing.T) {
	w := NewWorld()
	e1, _ := w.Create()
	e2, _ := w.Create()
	Insert(w, e1, compA{v: 1})
	Insert(w, e2, compA{v: 2})
	Insert(w, e2, compB{v: 1})

	var visited []Entity
	NewQuery1[compA](w).Exclude(Without[compB]()).Each(func(e Entity, a *compA) {
		visited = append(visited, e)
	})
	if len(visited) != 1 || visited[0] != e1 {
		t.Fatalf("Query1.Exclude(B).Each() visited %v, want only %v", visited, e1)
	}
}

func TestQuery1SliceDenseSingleView(t *testing.T) {
	w := newGroupedWorld()
	e1, _ := w.Create()
	e2, _ := w.Create()
	Insert(w, e1, compA{v: 1})
	Insert(w, e1, compB{v: 1})
	Insert(w, e2, compA{v: 2})

	// compA is part of a declared group, but a single-component query needs
	// no group at all: its own sparse set is already fully dense.
	a, entities, err := NewQuery1[compA](w).Slice()
	if err != nil {
		t.Fatalf("Slice() error = %v, want dense match", err)
	}
	if len(a) != 2 || len(entities) != 2 {
		t.Fatalf("Slice() lengths = %d %d, want 2 2", len(a), len(entities))
	}
}

func TestRemoveFromGroupedEntityKeepsDensity(t *testing.T) {
	w := newGroupedWorld()
	e1, _ := w.Create()
	e2, _ := w.Create()
	Insert(w, e1, compA{v: 1})
	Insert(w, e1, compB{v: 1})
	Insert(w, e2, compA{v: 2})
	Insert(w, e2, compB{v: 2})

	if _, ok := Remove[compA](w, e1); !ok {
		t.Fatal("Remove() reported e1 had no compA")
	}

	var visited []Entity
	NewQuery2[compA, compB](w).Each(func(e Entity, a *compA, b *compB) {
		visited = append(visited, e)
	})
	if len(visited) != 1 || visited[0] != e2 {
		t.Fatalf("Query2.Each() after Remove() visited %v, want only %v", visited, e2)
	}

	if Has[compA](w, e1) {
		t.Fatal("Has[compA]() = true after Remove")
	}
	if !Has[compB](w, e1) {
		t.Fatal("Has[compB]() = false after removing only compA")
	}
}
