package ecs

import "testing"

type compA struct{ v int }
type compB struct{ v int }
type compC struct{ v int }
type compD struct{ v int }
type compE struct{ v int }

func TestGroupLayoutBuilderNestedFamily(t *testing.T) {
	b := NewGroupLayoutBuilder()
	b = AddGroup2[compA, compB](b)
	b = AddGroup3[compA, compB, compC](b)
	layout := b.Build()

	if got := layout.GroupCount(); got != 2 {
		t.Fatalf("GroupCount() = %d, want 2", got)
	}
	families := layout.Families()
	if len(families) != 1 {
		t.Fatalf("len(Families()) = %d, want 1", len(families))
	}
	if len(families[0].components) != 3 {
		t.Fatalf("family component count = %d, want 3", len(families[0].components))
	}
	if got := families[0].arities; len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("family arities = %v, want [2 3]", got)
	}
}

func TestGroupLayoutBuilderDisjointFamilies(t *testing.T) {
	layout := AddGroup2[compD, compE](AddGroup2[compA, compB](NewGroupLayoutBuilder())).Build()
	if got := len(layout.Families()); got != 2 {
		t.Fatalf("len(Families()) = %d, want 2", got)
	}
}

func TestGroupLayoutBuilderPartialOverlapPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Build() did not panic on partial overlap")
		}
	}()
	NewGroupLayoutBuilder().
		AddGroupKeys(keyOf[compA](), keyOf[compB]()).
		AddGroupKeys(keyOf[compA](), keyOf[compC]()).
		Build()
}

func TestGroupLayoutBuilderTooSmallPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("AddGroupKeys() did not panic for an arity-1 group")
		}
	}()
	NewGroupLayoutBuilder().AddGroupKeys(keyOf[compA]())
}

func TestGroupLayoutBuilderDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("AddGroupKeys() did not panic on duplicate component")
		}
	}()
	NewGroupLayoutBuilder().AddGroupKeys(keyOf[compA](), keyOf[compA]())
}

func TestGroupLayoutBuilderExactRedeclarationIsNoop(t *testing.T) {
	layout := NewGroupLayoutBuilder().
		AddGroupKeys(keyOf[compA](), keyOf[compB]()).
		AddGroupKeys(keyOf[compB](), keyOf[compA]()).
		Build()
	if got := layout.GroupCount(); got != 1 {
		t.Fatalf("GroupCount() = %d, want 1", got)
	}
}
