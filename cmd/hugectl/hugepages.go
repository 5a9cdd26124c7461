package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// nodeSysfsRoot is where the kernel exposes per-NUMA-node hugepage
// pools.
const nodeSysfsRoot = "/sys/devices/system/node"

// NodeHugepages is one NUMA node's 2 MiB hugepage pool.
type NodeHugepages struct {
	Node  int `json:"node"`
	Total int `json:"total"`
	Free  int `json:"free"`
}

func init() {
	rootCmd.AddCommand(newHugepagesCmd())
}

func newHugepagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hugepages",
		Short: "Show per-NUMA-node 2 MiB hugepage availability",
		Long: `The hugepages command reads the kernel's per-node hugepage pools and
shows how many 2 MiB hugepages each NUMA node has configured and free.

Example:
  hugectl hugepages
  hugectl hugepages --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHugepages(nodeSysfsRoot)
		},
	}
}

func runHugepages(root string) error {
	nodes, err := readNodeHugepages(root)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(nodes)
	}

	if len(nodes) == 0 {
		printInfo("No NUMA nodes with 2 MiB hugepage pools found.\n")
		return nil
	}
	printInfo("%-6s %-8s %-8s\n", "NODE", "TOTAL", "FREE")
	for _, n := range nodes {
		printInfo("%-6d %-8d %-8d\n", n.Node, n.Total, n.Free)
	}
	return nil
}

// readNodeHugepages walks root for node directories and reads each
// node's 2048 kB pool counters.
func readNodeHugepages(root string) ([]NodeHugepages, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}

	var nodes []NodeHugepages
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "node") {
			continue
		}
		id, err := strconv.Atoi(strings.TrimPrefix(entry.Name(), "node"))
		if err != nil {
			continue
		}

		pool := filepath.Join(root, entry.Name(), "hugepages", "hugepages-2048kB")
		total, err := readCounter(filepath.Join(pool, "nr_hugepages"))
		if err != nil {
			// Node without a 2 MiB pool.
			continue
		}
		free, err := readCounter(filepath.Join(pool, "free_hugepages"))
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, NodeHugepages{Node: id, Total: total, Free: free})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Node < nodes[j].Node })
	return nodes, nil
}

func readCounter(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return n, nil
}
