package alloc

import (
	"errors"
	"fmt"

	"github.com/joshuapare/hugealloc/internal/shm"
)

// HugeAllocator hands out individually freeable 4 KiB pages and
// never-freed contiguous hugepage buffers, all carved from
// hugepage-backed regions bound to a single NUMA node.
type HugeAllocator struct {
	numaNode int
	source   Source

	// regions in acquisition order. Growth doubles each request, so
	// the list is also non-decreasing by size.
	regions []*region

	// pageFreelist holds returned and freshly carved pages, popped
	// LIFO. Every entry is page-aligned and lies in the carved prefix
	// of exactly one region.
	pageFreelist [][]byte

	// totFreeHugepages counts un-carved hugepages across all regions.
	totFreeHugepages int

	// lastReservation is the byte size of the most recent region
	// request; internal growth doubles it before each new reservation.
	lastReservation int

	reserved  int // total bytes reserved from the source
	allocated int // net bytes handed to callers

	growCalls int
}

var _ Allocator = (*HugeAllocator)(nil)

// sysvSource adapts internal/shm to the Source interface.
type sysvSource struct{}

func (sysvSource) Acquire(size, numaNode int) (Segment, error) {
	seg, err := shm.Acquire(size, numaNode)
	if err != nil {
		if errors.Is(err, shm.ErrNoHugeMem) {
			return Segment{}, fmt.Errorf("%v: %w", err, ErrOutOfHugepages)
		}
		return Segment{}, err
	}
	return Segment{Key: seg.Key, Buf: seg.Buf}, nil
}

func (sysvSource) Release(seg Segment) error {
	return shm.Release(shm.Segment{Key: seg.Key, Buf: seg.Buf})
}

// New constructs an allocator over SysV hugepage segments, eagerly
// reserving initialSize bytes (rounded up to whole hugepages) on
// numaNode. Construction fails recoverably only when the kernel is out
// of huge memory; invalid arguments and any other reservation failure
// panic.
func New(initialSize, numaNode int) (*HugeAllocator, error) {
	return NewWithSource(initialSize, numaNode, sysvSource{})
}

// NewWithSource is New with a caller-supplied region source.
func NewWithSource(initialSize, numaNode int, source Source) (*HugeAllocator, error) {
	if initialSize <= 0 || initialSize > MaxAllocSize {
		panic(fmt.Sprintf("alloc: new: initial size %d out of range (0, %d]", initialSize, MaxAllocSize))
	}
	if numaNode < 0 || numaNode > MaxNumaNodes {
		panic(fmt.Sprintf("alloc: new: numa node %d out of range [0, %d]", numaNode, MaxNumaNodes))
	}

	a := &HugeAllocator{
		numaNode:        numaNode,
		source:          source,
		lastReservation: initialSize,
	}
	if err := a.reserve(initialSize); err != nil {
		return nil, err
	}
	return a, nil
}

// ReservedMemory returns the total bytes reserved from the kernel, a
// hugepage multiple.
func (a *HugeAllocator) ReservedMemory() int { return a.reserved }

// AllocatedMemory returns the net bytes handed to callers, a page
// multiple.
func (a *HugeAllocator) AllocatedMemory() int { return a.allocated }

// NumaNode returns the node every region is bound to.
func (a *HugeAllocator) NumaNode() int { return a.numaNode }

// Close removes every acquired region, in acquisition order. Buffers
// handed out earlier must not be touched afterwards. A release failure
// panics: a leaked kernel-visible segment is a worse outcome than a
// loud crash.
func (a *HugeAllocator) Close() {
	for _, r := range a.regions {
		if err := a.source.Release(r.seg); err != nil {
			panic(fmt.Sprintf("alloc: close: releasing region key %d: %v", r.seg.Key, err))
		}
	}
	a.regions = nil
	a.pageFreelist = nil
	a.totFreeHugepages = 0
	a.reserved = 0
	a.allocated = 0
}
