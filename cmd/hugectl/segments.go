package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hugealloc/internal/memsize"
)

var (
	segmentsAll     bool
	segmentsOrphans bool
)

func init() {
	cmd := newSegmentsCmd()
	cmd.Flags().BoolVar(&segmentsAll, "all", false, "Include segments that are not hugepage multiples")
	cmd.Flags().BoolVar(&segmentsOrphans, "orphans", false, "Only show segments with no attached process")
	rootCmd.AddCommand(cmd)
}

func newSegmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segments",
		Short: "List SysV shared memory segments",
		Long: `The segments command lists the SysV shared memory segments the kernel
currently tracks. By default only hugepage-multiple segments are shown,
since those are the ones an allocator crash can leave behind.

Example:
  hugectl segments
  hugectl segments --orphans --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSegments()
		},
	}
	return cmd
}

func runSegments() error {
	f, err := os.Open(sysvShmPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", sysvShmPath, err)
	}
	defer f.Close()

	segs, err := parseSegments(f)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", sysvShmPath, err)
	}

	shown := segs[:0]
	for _, seg := range segs {
		if !segmentsAll && !seg.Hugebacked() {
			continue
		}
		if segmentsOrphans && !seg.Orphaned() {
			continue
		}
		shown = append(shown, seg)
	}

	if jsonOut {
		return printJSON(shown)
	}

	if len(shown) == 0 {
		printInfo("No matching segments.\n")
		return nil
	}
	printInfo("%-12s %-10s %-6s %-12s %-8s %s\n", "KEY", "ID", "PERMS", "SIZE", "ATTACH", "CREATOR")
	for _, seg := range shown {
		printInfo("%-12d %-10d %-6s %-12s %-8d %d\n",
			seg.Key, seg.ID, seg.Perms, formatSize(seg.Size), seg.Attached, seg.Creator)
	}
	return nil
}

// formatSize renders byte counts in the unit operators reason in.
func formatSize(n int) string {
	switch {
	case n >= memsize.GiB && n%memsize.GiB == 0:
		return fmt.Sprintf("%dG", n/memsize.GiB)
	case n >= memsize.MiB && n%memsize.MiB == 0:
		return fmt.Sprintf("%dM", n/memsize.MiB)
	case n >= memsize.KiB && n%memsize.KiB == 0:
		return fmt.Sprintf("%dK", n/memsize.KiB)
	default:
		return fmt.Sprintf("%d", n)
	}
}
