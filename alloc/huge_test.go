package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_AllocHuge_BumpsFromFirstRegion(t *testing.T) {
	a, err := NewWithSource(4*HugepageSize, 0, newHeapSource(0))
	require.NoError(t, err)
	defer a.Close()

	buf := a.AllocHuge(HugepageSize)
	require.NotNil(t, buf)
	require.Len(t, buf, HugepageSize)
	require.Zero(t, bufAddr(buf)%HugepageSize)
	require.Equal(t, bufAddr(a.regions[0].seg.Buf), bufAddr(buf))

	require.Equal(t, HugepageSize, a.AllocatedMemory())
	require.Equal(t, 3, a.regions[0].freeHugepages)
	require.Equal(t, HugepageSize, a.regions[0].cursor)
}

func Test_AllocHuge_RoundsUpToWholeHugepages(t *testing.T) {
	a, err := NewWithSource(4*HugepageSize, 0, newHeapSource(0))
	require.NoError(t, err)
	defer a.Close()

	buf := a.AllocHuge(HugepageSize + 1)
	require.NotNil(t, buf)
	require.Len(t, buf, 2*HugepageSize)
	require.Equal(t, 2*HugepageSize, a.AllocatedMemory())
}

func Test_AllocHuge_GrowsWhenCarvedOut(t *testing.T) {
	a, err := NewWithSource(HugepageSize, 0, newHeapSource(0))
	require.NoError(t, err)
	defer a.Close()

	// Carve the whole initial region into pages first.
	for i := 0; i < pagesPerHugepage; i++ {
		require.NotNil(t, a.AllocPage())
	}
	allocated := a.AllocatedMemory()

	// A 3 MiB request rounds to 2 hugepages; the sole region is fully
	// carved, so growth doubles 2 MiB until it covers the request.
	buf := a.AllocHuge(3 * HugepageSize / 2)
	require.NotNil(t, buf)
	require.Len(t, buf, 2*HugepageSize)
	require.Zero(t, bufAddr(buf)%HugepageSize)

	require.Equal(t, allocated+2*HugepageSize, a.AllocatedMemory())
	require.Equal(t, 3*HugepageSize, a.ReservedMemory())
	require.Equal(t, 2*HugepageSize, a.lastReservation)
	require.True(t, a.regions[1].contains(buf))
}

func Test_AllocHuge_GrowthCoversLargeRequests(t *testing.T) {
	a, err := NewWithSource(HugepageSize, 0, newHeapSource(0))
	require.NoError(t, err)
	defer a.Close()

	// 10 hugepages cannot fit in the 2 MiB region; doubling runs
	// 2 -> 4 -> 8 -> 16 -> 32 MiB before the reservation is attempted.
	buf := a.AllocHuge(10 * HugepageSize)
	require.NotNil(t, buf)
	require.Len(t, buf, 10*HugepageSize)
	require.Equal(t, 16*HugepageSize, a.lastReservation)
	require.Equal(t, HugepageSize+16*HugepageSize, a.ReservedMemory())
}

func Test_AllocHuge_FirstFitPrefersEarlierRegions(t *testing.T) {
	a, err := NewWithSource(HugepageSize, 0, newHeapSource(0))
	require.NoError(t, err)
	defer a.Close()

	// Exhaust region 0, grow a 4 MiB region, take one hugepage of it.
	require.NotNil(t, a.AllocHuge(HugepageSize))
	require.NotNil(t, a.AllocHuge(HugepageSize))
	require.Len(t, a.regions, 2)
	require.Equal(t, 1, a.regions[1].freeHugepages)

	// The next single-hugepage request must land in region 1's tail,
	// not trigger growth.
	buf := a.AllocHuge(HugepageSize)
	require.NotNil(t, buf)
	require.Len(t, a.regions, 2)
	require.True(t, a.regions[1].contains(buf))
}

func Test_AllocHuge_BuffersAreDisjoint(t *testing.T) {
	a, err := NewWithSource(2*HugepageSize, 0, newHeapSource(0))
	require.NoError(t, err)
	defer a.Close()

	sizes := []int{HugepageSize, 2 * HugepageSize, HugepageSize, 3 * HugepageSize}
	bufs := make([][]byte, 0, len(sizes))
	for _, sz := range sizes {
		buf := a.AllocHuge(sz)
		require.NotNil(t, buf)
		bufs = append(bufs, buf)
	}

	for i := range bufs {
		for j := i + 1; j < len(bufs); j++ {
			ai, bi := bufAddr(bufs[i]), bufAddr(bufs[i])+uintptr(len(bufs[i]))
			aj, bj := bufAddr(bufs[j]), bufAddr(bufs[j])+uintptr(len(bufs[j]))
			require.True(t, bi <= aj || bj <= ai,
				"buffers %d and %d overlap: [%#x,%#x) vs [%#x,%#x)", i, j, ai, bi, aj, bj)
		}
	}
}

func Test_AllocHuge_OutOfHugepagesReturnsNil(t *testing.T) {
	src := newHeapSource(2 * HugepageSize)
	a, err := NewWithSource(HugepageSize, 0, src)
	require.NoError(t, err)
	defer a.Close()

	// Two hugepages cannot fit the remaining budget once growth asks
	// for a doubled region.
	require.Nil(t, a.AllocHuge(2*HugepageSize))

	// The allocator keeps serving what it still owns.
	buf := a.AllocHuge(HugepageSize)
	require.NotNil(t, buf)
	require.True(t, a.regions[0].contains(buf))
}

func Test_AllocHuge_PreconditionPanics(t *testing.T) {
	a, err := NewWithSource(HugepageSize, 0, newHeapSource(0))
	require.NoError(t, err)
	defer a.Close()

	require.Panics(t, func() { a.AllocHuge(PageSize) })
	require.Panics(t, func() { a.AllocHuge(HugepageSize - 1) })
	require.Panics(t, func() { a.AllocHuge(MaxAllocSize + 1) })
}

func Test_PagesAndHugeBuffers_ShareRegions(t *testing.T) {
	a, err := NewWithSource(2*HugepageSize, 0, newHeapSource(0))
	require.NoError(t, err)
	defer a.Close()

	huge := a.AllocHuge(HugepageSize)
	require.NotNil(t, huge)

	page := a.AllocPage()
	require.NotNil(t, page)
	require.True(t, a.regions[0].contains(page))

	// The page pool carves past the bumped prefix, never inside it.
	require.GreaterOrEqual(t, bufAddr(page), bufAddr(huge)+uintptr(len(huge)))
	require.Equal(t, HugepageSize+PageSize, a.AllocatedMemory())
}
