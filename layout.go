package ecs

import (
	"reflect"
	"sort"

	"github.com/TheBitDrifter/bark"
)

// componentKey identifies a component type across the storage core without
// needing the component's zero value in hand.
type componentKey = reflect.Type

func keyOf[T any]() componentKey {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// GroupLayout is the compiled output of a GroupLayoutBuilder: an ordered
// list of group families, each with a component vector ordered so that
// every nested group's components form a prefix of it (the first declared
// group's components sorted, then each larger group's new components
// appended), and the nested arities declared within it (spec.md §4.4).
type GroupLayout struct {
	families []groupFamily
}

// Families exposes the compiled families for diagnostics/testing.
func (l *GroupLayout) Families() []groupFamily {
	return l.families
}

// GroupCount returns the total number of groups across every family.
func (l *GroupLayout) GroupCount() int {
	n := 0
	for _, f := range l.families {
		n += len(f.arities)
	}
	return n
}

type groupFamily struct {
	components []componentKey
	arities    []int
}

// tryAddGroup attempts to fold the declared, sorted set into this family.
// Returns false when the set is disjoint from the family and should be
// tried against another family or start a new one. Panics immediately (via
// bark.AddTrace) on partial overlap, matching group_layout.rs's
// try_add_group assert.
func (f *groupFamily) tryAddGroup(set []componentKey) bool {
	if f.isDisjoint(set) {
		return false
	}
	if missing, ok := f.subsetCheck(set); !ok {
		panic(bark.AddTrace(PartialOverlapError{TypeName: missing.String()}))
	}

	// Declaring a group that exactly reproduces the family's current
	// component set (e.g. the layout builder is called twice with the same
	// group) is a no-op, not an error — matches group_layout.rs's
	// try_add_group early-return on exact re-declaration.
	if len(f.components) == len(set) {
		return true
	}

	for _, c := range set {
		if !containsKey(f.components, c) {
			f.components = append(f.components, c)
		}
	}
	f.arities = append(f.arities, len(set))
	return true
}

func (f *groupFamily) isDisjoint(set []componentKey) bool {
	for _, c := range f.components {
		if containsKey(set, c) {
			return false
		}
	}
	return true
}

// subsetCheck verifies every component already in the family also appears
// in set (the family must be a subset of the newly declared, larger set).
func (f *groupFamily) subsetCheck(set []componentKey) (componentKey, bool) {
	for _, c := range f.components {
		if !containsKey(set, c) {
			return c, false
		}
	}
	return nil, true
}

func containsKey(keys []componentKey, k componentKey) bool {
	for _, c := range keys {
		if c == k {
			return true
		}
	}
	return false
}

// GroupLayoutBuilder incrementally collects declared groups before
// compiling them into a GroupLayout (spec.md §6: Layout.builder()).
type GroupLayoutBuilder struct {
	groups [][]componentKey
}

// NewGroupLayoutBuilder returns an empty builder.
func NewGroupLayoutBuilder() *GroupLayoutBuilder {
	return &GroupLayoutBuilder{}
}

// AddGroupKeys declares one group from raw component keys. Prefer the
// generic AddGroup2..AddGroup4 helpers when the component types are known
// at the call site; this form exists for callers building groups
// dynamically (e.g. from reflection over a config file).
func (b *GroupLayoutBuilder) AddGroupKeys(keys ...componentKey) *GroupLayoutBuilder {
	sorted := append([]componentKey(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })

	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			panic(bark.AddTrace(DuplicateInGroupError{TypeName: sorted[i].String()}))
		}
	}
	if len(sorted) < MinGroupArity {
		panic(bark.AddTrace(GroupTooSmallError{Size: len(sorted)}))
	}
	if len(sorted) > MaxGroupArity {
		panic(bark.AddTrace(GroupTooLargeError{Size: len(sorted)}))
	}

	b.groups = append(b.groups, sorted)
	return b
}

// AddGroup2 declares a two-component group.
func AddGroup2[A, B any](b *GroupLayoutBuilder) *GroupLayoutBuilder {
	return b.AddGroupKeys(keyOf[A](), keyOf[B]())
}

// AddGroup3 declares a three-component group.
func AddGroup3[A, B, C any](b *GroupLayoutBuilder) *GroupLayoutBuilder {
	return b.AddGroupKeys(keyOf[A](), keyOf[B](), keyOf[C]())
}

// AddGroup4 declares a four-component group.
func AddGroup4[A, B, C, D any](b *GroupLayoutBuilder) *GroupLayoutBuilder {
	return b.AddGroupKeys(keyOf[A](), keyOf[B](), keyOf[C](), keyOf[D]())
}

// Build compiles every declared group into group families, validating the
// overlap and arity rules of spec.md §4.4. Panics (via bark.AddTrace) on
// PartialOverlapError, MultiFamilyError, or TooManyGroupsError.
func (b *GroupLayoutBuilder) Build() *GroupLayout {
	groups := append([][]componentKey(nil), b.groups...)
	sort.SliceStable(groups, func(i, j int) bool { return len(groups[i]) < len(groups[j]) })

	var families []groupFamily
	for _, set := range groups {
		successes := 0
		for i := range families {
			if families[i].tryAddGroup(set) {
				successes++
			}
		}
		if successes > 1 {
			panic(bark.AddTrace(MultiFamilyError{}))
		}
		if successes == 0 {
			families = append(families, groupFamily{
				components: append([]componentKey(nil), set...),
				arities:    []int{len(set)},
			})
		}
	}

	total := 0
	for _, f := range families {
		total += len(f.arities)
	}
	if total > MaxGroupCount {
		panic(bark.AddTrace(TooManyGroupsError{Count: total}))
	}

	return &GroupLayout{families: families}
}
