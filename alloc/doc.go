// Package alloc provides a hugepage-backed region allocator for
// user-space runtimes that need NUMA-local, physically contiguous
// memory.
//
// # Overview
//
// The allocator reserves large regions of hugepage-backed System V
// shared memory, binds each region to a single NUMA node, and carves
// two kinds of allocations from them:
//
//   - AllocPage: individually freeable 4 KiB pages
//   - AllocHuge: contiguous buffers of 2 MiB or more that are reclaimed
//     only when the allocator is closed
//
// Regions grow geometrically: every internal reservation doubles the
// previous request, so the region list stays logarithmic in total
// memory and front-to-back scans are cheap.
//
// # Usage Example
//
//	a, err := alloc.New(16*memsize.MiB, 0)
//	if err != nil {
//	    // out of hugepages; nothing was reserved
//	    return err
//	}
//	defer a.Close()
//
//	page := a.AllocPage()   // 4 KiB, freeable
//	ring := a.AllocHuge(8 * memsize.MiB) // contiguous, lives until Close
//
//	a.FreePage(page)
//
// # Page pool
//
// Pages come from a LIFO freelist. When the freelist is empty the
// allocator carves one hugepage from the first region that still has
// one, pushing its 512 sub-pages low to high; a page freed and then
// re-allocated comes back with the same address.
//
// # Huge buffers
//
// AllocHuge rounds the request up to whole hugepages and bumps it off
// the first region whose un-carved tail is large enough. The bump
// cursor never retreats, so huge buffers are never reclaimed before
// Close. The region list is non-decreasing by size, which makes the
// first-fit scan a best-fit among sufficient regions.
//
// # Region sources
//
// Regions come from a Source. The production source (wired by New)
// creates SysV SHM_HUGETLB segments under random exclusive keys, binds
// them with mbind(MPOL_BIND), and zero-fills them; tests substitute a
// heap-backed source through NewWithSource.
//
// # Failure model
//
// AllocPage and AllocHuge return nil, and New returns
// ErrOutOfHugepages, exactly when the kernel cannot back a new region.
// Every other failure — permission errors, size-class mismatches,
// binding failures, release failures, precondition violations — panics
// with a message naming the operation and its parameters. Those
// conditions mean the host is misconfigured or kernel state is corrupt,
// and continuing would leak kernel-visible segments.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers sharing one across
// goroutines must serialize access externally.
package alloc
