package alloc

// Allocator is the allocation surface shared by HugeAllocator and the
// CheckedAllocator wrapper.
type Allocator interface {
	// AllocPage returns a 4 KiB page, or nil when the kernel is out of
	// huge memory.
	AllocPage() []byte

	// FreePage returns a page obtained from AllocPage to the pool.
	FreePage(page []byte)

	// AllocHuge returns a hugepage-aligned contiguous buffer of at
	// least size bytes, rounded up to whole hugepages, or nil when the
	// kernel is out of huge memory. Huge buffers are never reclaimed
	// before Close.
	AllocHuge(size int) []byte

	// ReservedMemory returns the total bytes reserved from the kernel,
	// a hugepage multiple.
	ReservedMemory() int

	// AllocatedMemory returns the net bytes currently handed to
	// callers, a page multiple.
	AllocatedMemory() int

	// NumaNode returns the node every region is bound to.
	NumaNode() int

	// Close removes every acquired region. The allocator and all
	// buffers it handed out are unusable afterwards.
	Close()
}

// Source acquires and releases the hugepage-backed regions an
// allocator carves from.
//
// Acquire returns a zero-filled, hugepage-aligned segment of exactly
// size bytes (a hugepage multiple) bound to numaNode, under a key no
// other live segment uses. When the kernel cannot back the request the
// error satisfies errors.Is(err, ErrOutOfHugepages); the allocator
// treats every other acquire error as fatal.
//
// Release removes the segment from the kernel namespace and detaches
// its mapping.
type Source interface {
	Acquire(size, numaNode int) (Segment, error)
	Release(seg Segment) error
}
