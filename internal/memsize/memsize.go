// Package memsize holds the size constants and rounding helpers shared
// by the allocator, the segment layer, and hugectl.
package memsize

// Power-of-two byte units.
const (
	KiB = 1 << 10
	MiB = 1 << 20
	GiB = 1 << 30
)

// Sizes fixed by the hugepage mechanism this module targets.
const (
	// Page is the fine-grained allocation unit.
	Page = 4 * KiB

	// Hugepage is the SysV SHM_HUGETLB segment granularity.
	Hugepage = 2 * MiB
)

// RoundUp returns n rounded up to the next multiple of m.
// m must be a power of two.
func RoundUp(n, m int) int {
	return (n + m - 1) &^ (m - 1)
}

// IsAligned reports whether addr is a multiple of m.
// m must be a power of two.
func IsAligned(addr uintptr, m int) bool {
	return addr&uintptr(m-1) == 0
}
