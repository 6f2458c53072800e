package ecs

import (
	"reflect"

	"github.com/TheBitDrifter/bark"
)

// Resources is an opaque, type-keyed container for singleton values that
// live alongside a World but are not entities — a clock, a render target, a
// configuration blob (spec.md §4's supplemented "world-global singletons").
// Unlike components, resources are not iterated by queries and carry no
// grouping overhead.
type Resources struct {
	values map[reflect.Type]any
}

func newResources() *Resources {
	return &Resources{values: make(map[reflect.Type]any)}
}

// SetResource stores value under its own type, replacing any prior value of
// the same type.
func SetResource[T any](r *Resources, value T) {
	r.values[keyOf[T]()] = value
}

// Resource retrieves the value of type T, if one was set.
func Resource[T any](r *Resources) (T, bool) {
	v, ok := r.values[keyOf[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// MustResource retrieves the value of type T, panicking with
// NotRegisteredError if it was never set.
func MustResource[T any](r *Resources) T {
	v, ok := Resource[T](r)
	if !ok {
		panic(bark.AddTrace(NotRegisteredError{TypeName: keyOf[T]().String()}))
	}
	return v
}

// RemoveResource deletes the value of type T, if any.
func RemoveResource[T any](r *Resources) {
	delete(r.values, keyOf[T]())
}
