package ecs

// factory implements the factory pattern for constructing the core types
// the rest of the package exposes as free functions/generics, mirroring how
// the teacher package centralizes construction behind a single global
// instance rather than scattered New* functions.
type factory struct{}

// Factory is the global factory instance for creating worlds and layout
// builders.
var Factory factory

// NewWorld creates an empty World.
func (f factory) NewWorld() *World {
	return NewWorld()
}

// NewLayoutBuilder creates an empty GroupLayoutBuilder.
func (f factory) NewLayoutBuilder() *GroupLayoutBuilder {
	return NewGroupLayoutBuilder()
}
