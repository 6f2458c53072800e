package ecs

import "testing"

func TestEntityValid(t *testing.T) {
	tests := []struct {
		name string
		e    Entity
		want bool
	}{
		{"zero value", Entity{}, false},
		{"version one", Entity{Index: 0, Version: 1}, true},
		{"nonzero index, zero version", Entity{Index: 5, Version: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.e.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntityAllocatorAllocate(t *testing.T) {
	a := &entityAllocator{}

	first, err := a.allocate()
	if err != nil {
		t.Fatalf("allocate() error = %v", err)
	}
	if first.Index != 0 || first.Version != 1 {
		t.Fatalf("first entity = %+v, want {0 1}", first)
	}

	second, err := a.allocate()
	if err != nil {
		t.Fatalf("allocate() error = %v", err)
	}
	if second.Index != 1 {
		t.Fatalf("second entity index = %d, want 1", second.Index)
	}
}

func TestEntityAllocatorRecycle(t *testing.T) {
	a := &entityAllocator{}
	e, _ := a.allocate()
	a.recycle(e)

	recycled, err := a.allocate()
	if err != nil {
		t.Fatalf("allocate() error = %v", err)
	}
	if recycled.Index != e.Index {
		t.Fatalf("recycled entity index = %d, want %d", recycled.Index, e.Index)
	}
	if recycled.Version != e.Version+1 {
		t.Fatalf("recycled entity version = %d, want %d", recycled.Version, e.Version+1)
	}
}

func TestEntityAllocatorAtomicAndMaintain(t *testing.T) {
	a := &entityAllocator{}

	const n = 64
	seen := make(map[Entity]bool, n)
	for i := 0; i < n; i++ {
		e, ok := a.allocateAtomic()
		if !ok {
			t.Fatalf("allocateAtomic() failed at i=%d", i)
		}
		if seen[e] {
			t.Fatalf("duplicate entity %+v allocated", e)
		}
		seen[e] = true
	}

	realized := a.maintain()
	if len(realized) != n {
		t.Fatalf("maintain() returned %d entities, want %d", len(realized), n)
	}
	for _, e := range realized {
		if !seen[e] {
			t.Fatalf("maintain() returned unexpected entity %+v", e)
		}
	}

	if more := a.maintain(); len(more) != 0 {
		t.Fatalf("second maintain() returned %d entities, want 0", len(more))
	}
}

func TestEntitySet(t *testing.T) {
	s := &entitySet{}
	e := Entity{Index: 3, Version: 1}

	if s.contains(e) {
		t.Fatal("contains() = true before insert")
	}
	s.insert(e)
	if !s.contains(e) {
		t.Fatal("contains() = false after insert")
	}
	if len(s.live) != 1 {
		t.Fatalf("live count = %d, want 1", len(s.live))
	}

	if !s.remove(e) {
		t.Fatal("remove() = false, want true")
	}
	if s.contains(e) {
		t.Fatal("contains() = true after remove")
	}
	if s.remove(e) {
		t.Fatal("remove() = true on already-removed entity")
	}
}

func TestEntitySetMustContainPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("mustContain() did not panic on missing entity")
		}
	}()
	s := &entitySet{}
	s.mustContain(Entity{Index: 1, Version: 1})
}
