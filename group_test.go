package ecs

import "testing"

func buildSingleGroup(arity int) (*ComponentStorage, []componentKey) {
	cs := newComponentStorage()
	register[compA](cs)
	register[compB](cs)
	if arity >= 3 {
		register[compC](cs)
	}

	b := NewGroupLayoutBuilder()
	var keys []componentKey
	switch arity {
	case 2:
		b = AddGroup2[compA, compB](b)
		keys = []componentKey{keyOf[compA](), keyOf[compB]()}
	case 3:
		b = AddGroup3[compA, compB, compC](b)
		keys = []componentKey{keyOf[compA](), keyOf[compB](), keyOf[compC]()}
	}
	cs.setLayout(b.Build(), nil)
	return cs, keys
}

func TestGroupEntityAdmitsOnlyWhenComplete(t *testing.T) {
	cs, keys := buildSingleGroup(2)
	e := Entity{Index: 0, Version: 1}

	setA, _ := sparseSetOf[compA](cs)
	setA.Insert(e, compA{1})
	cs.onInsert(keys[:1], e)
	if cs.groups[0].len != 0 {
		t.Fatalf("group len = %d after partial insert, want 0", cs.groups[0].len)
	}

	setB, _ := sparseSetOf[compB](cs)
	setB.Insert(e, compB{2})
	cs.onInsert(keys[1:2], e)
	if cs.groups[0].len != 1 {
		t.Fatalf("group len = %d after complete insert, want 1", cs.groups[0].len)
	}
}

func TestGroupEntityKeepsDensityOnRemoveOfMiddle(t *testing.T) {
	cs, keys := buildSingleGroup(2)
	setA, _ := sparseSetOf[compA](cs)
	setB, _ := sparseSetOf[compB](cs)

	entities := []Entity{
		{Index: 0, Version: 1},
		{Index: 1, Version: 1},
		{Index: 2, Version: 1},
	}
	for _, e := range entities {
		setA.Insert(e, compA{})
		setB.Insert(e, compB{})
		cs.onInsert(keys, e)
	}
	if cs.groups[0].len != 3 {
		t.Fatalf("group len = %d, want 3", cs.groups[0].len)
	}

	// Remove the middle entity's component; the group must shrink and keep
	// the remaining two entities grouped (contiguous at [0,2)). Ungrouping
	// must run while the entity still carries every component the group
	// checks, so onRemove is called before the set removal.
	cs.onRemove(keys[:1], entities[1])
	setA.Remove(entities[1])
	if cs.groups[0].len != 2 {
		t.Fatalf("group len after removal = %d, want 2", cs.groups[0].len)
	}
	for _, e := range []Entity{entities[0], entities[2]} {
		idx, ok := setB.DenseIndexOf(e)
		if !ok || idx >= cs.groups[0].len {
			t.Fatalf("entity %v not within grouped range after removal (idx=%d, len=%d)", e, idx, cs.groups[0].len)
		}
	}
}

func TestGroupEntityNestedFamily(t *testing.T) {
	cs := newComponentStorage()
	register[compA](cs)
	register[compB](cs)
	register[compC](cs)
	b := NewGroupLayoutBuilder()
	b = AddGroup2[compA, compB](b)
	b = AddGroup3[compA, compB, compC](b)
	cs.setLayout(b.Build(), nil)

	setA, _ := sparseSetOf[compA](cs)
	setB, _ := sparseSetOf[compB](cs)
	setC, _ := sparseSetOf[compC](cs)

	e := Entity{Index: 0, Version: 1}
	keyA, keyB, keyC := keyOf[compA](), keyOf[compB](), keyOf[compC]()

	setA.Insert(e, compA{})
	cs.onInsert([]componentKey{keyA}, e)
	setB.Insert(e, compB{})
	cs.onInsert([]componentKey{keyB}, e)
	if cs.groups[0].len != 1 {
		t.Fatalf("outer group len = %d after AB, want 1", cs.groups[0].len)
	}
	if cs.groups[1].len != 0 {
		t.Fatalf("inner group len = %d after AB, want 0", cs.groups[1].len)
	}

	setC.Insert(e, compC{})
	cs.onInsert([]componentKey{keyC}, e)
	if cs.groups[1].len != 1 {
		t.Fatalf("inner group len = %d after ABC, want 1", cs.groups[1].len)
	}
}
