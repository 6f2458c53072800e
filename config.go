package ecs

// Config holds global, process-wide tuning knobs for the storage core.
var Config config = config{
	sparsePageSize:  defaultSparsePageSize,
	sparseSetMinCap: defaultSparseSetMinCap,
}

const (
	defaultSparsePageSize = 64
	defaultSparseSetMinCap = 4
)

type config struct {
	sparsePageSize  int
	sparseSetMinCap int
}

// SetSparsePageSize configures the page size used by every sparse vector's
// lazily-allocated paging scheme. Must be a power of two; panics otherwise.
func (c *config) SetSparsePageSize(size int) {
	if size <= 0 || size&(size-1) != 0 {
		panic("ecs: sparse page size must be a power of two")
	}
	c.sparsePageSize = size
}

// SetSparseSetMinCapacity configures the initial capacity new typed sparse
// sets grow from before geometric doubling takes over.
func (c *config) SetSparseSetMinCapacity(cap int) {
	if cap <= 0 {
		panic("ecs: sparse set minimum capacity must be positive")
	}
	c.sparseSetMinCap = cap
}
