package alloc

import (
	"fmt"
	"unsafe"
)

// CheckedAllocator wraps an Allocator and verifies the page contract:
// every freed page must be live and must have come from AllocPage. The
// base allocator performs none of these checks, so use the wrapper in
// tests and debug builds where double frees are suspected.
type CheckedAllocator struct {
	Allocator

	live map[uintptr]struct{}
}

var _ Allocator = (*CheckedAllocator)(nil)

// NewChecked wraps wrapped with page tracking.
func NewChecked(wrapped Allocator) *CheckedAllocator {
	return &CheckedAllocator{
		Allocator: wrapped,
		live:      make(map[uintptr]struct{}),
	}
}

// AllocPage records the returned page as live.
func (c *CheckedAllocator) AllocPage() []byte {
	page := c.Allocator.AllocPage()
	if page != nil {
		c.live[uintptr(unsafe.Pointer(&page[0]))] = struct{}{}
	}
	return page
}

// FreePage panics on a double free or a page this allocator never
// handed out, then forwards to the wrapped allocator.
func (c *CheckedAllocator) FreePage(page []byte) {
	if len(page) == 0 {
		panic("alloc: checked free: empty page")
	}
	addr := uintptr(unsafe.Pointer(&page[0]))
	if _, ok := c.live[addr]; !ok {
		panic(fmt.Sprintf("alloc: checked free: page %#x is not live (double free or foreign page)", addr))
	}
	delete(c.live, addr)

	c.Allocator.FreePage(page)
}

// Live returns the number of pages handed out and not yet freed.
func (c *CheckedAllocator) Live() int { return len(c.live) }
