package alloc

import (
	"fmt"

	"github.com/joshuapare/hugealloc/internal/memsize"
)

// AllocHuge returns a hugepage-aligned buffer of size bytes rounded up
// to whole hugepages, carved contiguously from a single region, or nil
// if and only if no further growth is possible. Huge buffers are never
// reclaimed before Close.
func (a *HugeAllocator) AllocHuge(size int) []byte {
	if size < HugepageSize || size > MaxAllocSize {
		panic(fmt.Sprintf("alloc: alloc huge: size %d out of range [%d, %d]", size, HugepageSize, MaxAllocSize))
	}
	size = memsize.RoundUp(size, HugepageSize)
	need := size / HugepageSize

	for _, r := range a.regions {
		if r.freeHugepages >= need {
			buf := a.popHugepages(r, need)
			a.allocated += size
			return buf
		}
	}

	// No region can hold the request in one contiguous span; grow
	// until the next one can.
	if err := a.grow(size); err != nil {
		return nil
	}

	// Only the newly appended region is large enough; the scan above
	// already rejected the others.
	r := a.regions[len(a.regions)-1]
	buf := a.popHugepages(r, need)
	a.allocated += size
	return buf
}
