/*
Package ecs provides the storage core of a sparse-set entity/component
system: entity allocation, per-type dense component storage, an optional
group layout that keeps declared component sets physically contiguous, and
a query planner that dispatches to a dense slice walk whenever a query
matches a declared group.

Core Concepts:

  - Entity: a versioned index identifying a live object.
  - Component: any Go value type attached to an entity through a typed
    sparse set.
  - Group: a declared component set whose sparse sets are kept in lockstep
    so queries over it reduce to a contiguous slice scan.
  - Query: a conjunction of required and excluded component types,
    iterated densely when it matches a group or sparsely otherwise. There is
    no include-only filter: every required type's value is passed to the
    callback.

Basic Usage:

	world := ecs.NewWorld()
	e, _ := world.Create()
	ecs.Insert(world, e, Position{X: 1})
	ecs.Insert(world, e, Velocity{X: 2})

	q := ecs.NewQuery2[Position, Velocity](world)
	q.Each(func(e ecs.Entity, pos *Position, vel *Velocity) {
		pos.X += vel.X
	})

This package is the underlying storage core of a larger ECS. Besides the
core it carries a minimal type-keyed Resources container (World.Resources);
the system scheduler and command buffers built on top of it are not part of
this package.
*/
package ecs
