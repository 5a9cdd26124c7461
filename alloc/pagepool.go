package alloc

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/hugealloc/internal/memsize"
)

// AllocPage returns a 4 KiB page owned by the allocator, or nil if and
// only if no further growth is possible.
func (a *HugeAllocator) AllocPage() []byte {
	if n := len(a.pageFreelist); n > 0 {
		page := a.pageFreelist[n-1]
		a.pageFreelist = a.pageFreelist[:n-1]
		a.allocated += PageSize
		return page
	}

	if a.totFreeHugepages == 0 {
		if err := a.grow(0); err != nil {
			return nil
		}
	}

	// At least one region has a free hugepage. The region list is
	// smallest-first, so the first hit wastes the least large-region
	// space. Carve it into pages, low to high, and hand back the top
	// of the freelist.
	for _, r := range a.regions {
		if r.freeHugepages == 0 {
			continue
		}
		huge := a.popHugepages(r, 1)
		for off := 0; off < HugepageSize; off += PageSize {
			a.pageFreelist = append(a.pageFreelist, huge[off:off+PageSize:off+PageSize])
		}

		n := len(a.pageFreelist)
		page := a.pageFreelist[n-1]
		a.pageFreelist = a.pageFreelist[:n-1]
		a.allocated += PageSize
		return page
	}

	panic("alloc: alloc page: free hugepage count out of sync with regions")
}

// FreePage returns page to the pool. The page must have come from this
// allocator's AllocPage and must not be freed twice; neither is
// checked here (CheckedAllocator adds those checks).
func (a *HugeAllocator) FreePage(page []byte) {
	if len(page) != PageSize {
		panic(fmt.Sprintf("alloc: free page: length %d, want %d", len(page), PageSize))
	}
	if addr := uintptr(unsafe.Pointer(&page[0])); !memsize.IsAligned(addr, PageSize) {
		panic(fmt.Sprintf("alloc: free page: address %#x not page aligned", addr))
	}

	a.pageFreelist = append(a.pageFreelist, page)
	a.allocated -= PageSize
}
