package main

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeNode lays out one fake sysfs node directory with a 2 MiB pool.
func writeNode(t *testing.T, root string, node int, total, free string) {
	t.Helper()
	pool := filepath.Join(root, "node"+strconv.Itoa(node), "hugepages", "hugepages-2048kB")
	require.NoError(t, os.MkdirAll(pool, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pool, "nr_hugepages"), []byte(total), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(pool, "free_hugepages"), []byte(free), 0o644))
}

func Test_ReadNodeHugepages_TwoNodes(t *testing.T) {
	root := t.TempDir()
	writeNode(t, root, 1, "512\n", "100\n")
	writeNode(t, root, 0, "1024\n", "1024\n")
	// A node without a hugepage pool is skipped, not an error.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node2"), 0o755))
	// Non-node entries are ignored.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "possible"), 0o755))

	nodes, err := readNodeHugepages(root)
	require.NoError(t, err)
	require.Equal(t, []NodeHugepages{
		{Node: 0, Total: 1024, Free: 1024},
		{Node: 1, Total: 512, Free: 100},
	}, nodes)
}

func Test_ReadNodeHugepages_MissingRoot(t *testing.T) {
	_, err := readNodeHugepages(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func Test_ReadNodeHugepages_BadCounter(t *testing.T) {
	root := t.TempDir()
	writeNode(t, root, 0, "512\n", "not-a-number\n")

	_, err := readNodeHugepages(root)
	require.Error(t, err)
}
