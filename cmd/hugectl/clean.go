//go:build linux

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

var (
	cleanAllOrphans bool
	cleanForce      bool
)

func init() {
	cmd := newCleanCmd()
	cmd.Flags().BoolVar(&cleanAllOrphans, "all-orphans", false,
		"Remove every unattached hugepage-multiple segment")
	cmd.Flags().BoolVarP(&cleanForce, "force", "f", false, "Don't prompt for confirmation")
	rootCmd.AddCommand(cmd)
}

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [key...]",
		Short: "Remove SysV segments left behind by a crashed allocator",
		Long: `The clean command removes SysV shared memory segments by key, releasing
the hugepages they pin. With --all-orphans it removes every segment
that has no attached process and whose size is a hugepage multiple.

Removal asks for confirmation unless --force is given.

Example:
  hugectl clean 1384229188
  hugectl clean --all-orphans --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(args)
		},
	}
	return cmd
}

func runClean(args []string) error {
	keys, err := cleanTargets(args)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		printInfo("Nothing to clean.\n")
		return nil
	}

	if !cleanForce {
		fmt.Printf("Remove %d segment(s)? [y/N] ", len(keys))
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			printInfo("Aborted.\n")
			return nil
		}
	}

	removed := 0
	for _, key := range keys {
		if err := removeSegmentByKey(key); err != nil {
			printError("key %d: %v\n", key, err)
			continue
		}
		printVerbose("removed segment key %d\n", key)
		removed++
	}
	printInfo("Removed %d of %d segment(s).\n", removed, len(keys))
	if removed != len(keys) {
		return fmt.Errorf("%d segment(s) could not be removed", len(keys)-removed)
	}
	return nil
}

// cleanTargets resolves the key list from arguments or, with
// --all-orphans, from the kernel's segment table.
func cleanTargets(args []string) ([]int, error) {
	if cleanAllOrphans {
		if len(args) > 0 {
			return nil, fmt.Errorf("--all-orphans takes no key arguments")
		}
		f, err := os.Open(sysvShmPath)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", sysvShmPath, err)
		}
		defer f.Close()

		segs, err := parseSegments(f)
		if err != nil {
			return nil, err
		}
		var keys []int
		for _, seg := range segs {
			if seg.Orphaned() && seg.Hugebacked() {
				keys = append(keys, seg.Key)
			}
		}
		return keys, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("no keys given (or use --all-orphans)")
	}
	keys := make([]int, 0, len(args))
	for _, arg := range args {
		key, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("bad key %q: %w", arg, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// removeSegmentByKey resolves a key to its current id and marks the
// segment for removal.
func removeSegmentByKey(key int) error {
	id, err := unix.SysvShmGet(key, 0, 0)
	if err != nil {
		return fmt.Errorf("resolving key: %w", err)
	}
	if _, err := unix.SysvShmCtl(id, unix.IPC_RMID, nil); err != nil {
		return fmt.Errorf("removing id %d: %w", id, err)
	}
	return nil
}
