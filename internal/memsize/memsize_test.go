package memsize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_RoundUp_Table(t *testing.T) {
	cases := []struct {
		n, m, want int
	}{
		{0, Hugepage, 0},
		{1, Hugepage, Hugepage},
		{Hugepage, Hugepage, Hugepage},
		{Hugepage + 1, Hugepage, 2 * Hugepage},
		{3 * MiB, Hugepage, 4 * MiB},
		{Page - 1, Page, Page},
		{5 * Page, Page, 5 * Page},
	}
	for _, c := range cases {
		require.Equal(t, c.want, RoundUp(c.n, c.m), "RoundUp(%d, %d)", c.n, c.m)
	}
}

func Test_IsAligned_Table(t *testing.T) {
	require.True(t, IsAligned(0, Page))
	require.True(t, IsAligned(Hugepage, Page))
	require.True(t, IsAligned(2*Hugepage, Hugepage))
	require.False(t, IsAligned(Page+8, Page))
	require.False(t, IsAligned(Hugepage+Page, Hugepage))
}

func Test_PageDividesHugepage(t *testing.T) {
	require.Zero(t, Hugepage%Page)
}
