package alloc

import "github.com/joshuapare/hugealloc/internal/memsize"

// Sizes and limits fixed by the allocator's contract.
const (
	// PageSize is the fine-grained allocation unit handed out by
	// AllocPage.
	PageSize = memsize.Page

	// HugepageSize is the coarse allocation and region granularity.
	HugepageSize = memsize.Hugepage

	// MaxAllocSize caps the initial size passed to New and each
	// AllocHuge request. Reservations made by internal growth are not
	// checked against it.
	MaxAllocSize = 256 * memsize.GiB

	// MaxNumaNodes is the highest node id accepted by New.
	MaxNumaNodes = 8

	// pagesPerHugepage is how many pages one carve pushes onto the
	// freelist.
	pagesPerHugepage = HugepageSize / PageSize
)

// Segment is one keyed shared memory region handed out by a Source.
type Segment struct {
	Key int    // key the region was created under, used for removal
	Buf []byte // mapped range; len is a hugepage multiple
}

// region tracks the carve state of one acquired segment.
type region struct {
	seg Segment

	// cursor is the offset of the first un-carved byte; it never
	// retreats. cursor == len(seg.Buf) - freeHugepages*HugepageSize.
	cursor int

	// freeHugepages counts the hugepages remaining past cursor.
	freeHugepages int
}
