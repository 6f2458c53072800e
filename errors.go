package ecs

import "fmt"

// NotRegisteredError is raised as a panic (through bark.AddTrace) when
// Remove, SetLayout, or MustResource names a type that was never registered
// or set. Insert, ViewOf, and ViewMutOf register the type instead of
// failing.
type NotRegisteredError struct {
	TypeName string
}

func (e NotRegisteredError) Error() string {
	return fmt.Sprintf("component type %s is not registered", e.TypeName)
}

// DuplicateInGroupError is raised at layout build time when a declared
// group lists the same component type more than once.
type DuplicateInGroupError struct {
	TypeName string
}

func (e DuplicateInGroupError) Error() string {
	return fmt.Sprintf("group contains duplicate component type %s", e.TypeName)
}

// GroupTooSmallError is raised at layout build time for a declared group
// with fewer than MinGroupArity component types.
type GroupTooSmallError struct {
	Size int
}

func (e GroupTooSmallError) Error() string {
	return fmt.Sprintf("group has %d component types, need at least %d", e.Size, MinGroupArity)
}

// GroupTooLargeError is raised at layout build time for a declared group
// with more than MaxGroupArity component types.
type GroupTooLargeError struct {
	Size int
}

func (e GroupTooLargeError) Error() string {
	return fmt.Sprintf("group has %d component types, at most %d allowed", e.Size, MaxGroupArity)
}

// PartialOverlapError is raised at layout build time when a declared group
// shares some, but not all, components with an existing family.
type PartialOverlapError struct {
	TypeName string
}

func (e PartialOverlapError) Error() string {
	return fmt.Sprintf("group partially overlaps an existing family at component %s", e.TypeName)
}

// MultiFamilyError is raised at layout build time when a declared group
// would need to belong to more than one family at once.
type MultiFamilyError struct{}

func (e MultiFamilyError) Error() string {
	return "group must belong to exactly one family"
}

// TooManyGroupsError is raised at layout build time when the total number
// of groups across all families exceeds MaxGroupCount.
type TooManyGroupsError struct {
	Count int
}

func (e TooManyGroupsError) Error() string {
	return fmt.Sprintf("layout declares %d groups, at most %d allowed", e.Count, MaxGroupCount)
}

// IdSpaceExhaustedError is returned by the entity allocator when the next
// fresh index would exceed the range of a uint32.
type IdSpaceExhaustedError struct{}

func (e IdSpaceExhaustedError) Error() string {
	return "entity id space exhausted"
}

// UngroupedError is returned by the dense-only slice accessors of a query
// when the query does not resolve to a contiguous group range.
type UngroupedError struct{}

func (e UngroupedError) Error() string {
	return "query is not grouped; use the iterator form instead of slice accessors"
}

// NoSuchEntityError is raised as a panic (through bark.AddTrace) when
// Destroy or Insert targets an entity that is not currently live in the
// world.
type NoSuchEntityError struct {
	Entity Entity
}

func (e NoSuchEntityError) Error() string {
	return fmt.Sprintf("no such entity: %v", e.Entity)
}

// BorrowConflictError signals a runtime aliasing violation on a borrow
// cell: an exclusive borrow was requested while another borrow (shared or
// exclusive) was outstanding, or vice versa.
type BorrowConflictError struct {
	TypeName string
}

func (e BorrowConflictError) Error() string {
	return fmt.Sprintf("borrow conflict on component type %s", e.TypeName)
}
