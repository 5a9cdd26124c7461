package alloc

import (
	"errors"
	"fmt"

	"github.com/joshuapare/hugealloc/internal/memsize"
)

// reserve acquires a new region of at least size bytes (rounded up to
// whole hugepages) and appends it to the region list with a full free
// span. It returns ErrOutOfHugepages when the kernel cannot back the
// request; any other acquire failure panics.
func (a *HugeAllocator) reserve(size int) error {
	size = memsize.RoundUp(size, HugepageSize)

	seg, err := a.source.Acquire(size, a.numaNode)
	if err != nil {
		if errors.Is(err, ErrOutOfHugepages) {
			return err
		}
		panic(fmt.Sprintf("alloc: reserve: acquiring %d bytes on node %d: %v", size, a.numaNode, err))
	}
	if len(seg.Buf) != size {
		panic(fmt.Sprintf("alloc: reserve: source returned %d bytes, requested %d", len(seg.Buf), size))
	}

	a.regions = append(a.regions, &region{
		seg:           seg,
		freeHugepages: size / HugepageSize,
	})
	a.totFreeHugepages += size / HugepageSize
	a.reserved += size
	return nil
}

// grow doubles lastReservation until it covers need, then reserves
// that much. A need of zero grows by plain doubling (the page-pool
// path). lastReservation keeps the doubled value even when the
// reservation fails, so the next growth asks for more again.
func (a *HugeAllocator) grow(need int) error {
	a.lastReservation *= 2
	for a.lastReservation < need {
		a.lastReservation *= 2
	}
	a.growCalls++
	return a.reserve(a.lastReservation)
}

// popHugepages bumps n hugepages off the front of r's free span and
// returns the carved range. The caller must have checked
// r.freeHugepages >= n.
func (a *HugeAllocator) popHugepages(r *region, n int) []byte {
	start := r.cursor
	r.cursor += n * HugepageSize
	r.freeHugepages -= n
	a.totFreeHugepages -= n
	return r.seg.Buf[start:r.cursor:r.cursor]
}
