package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/joshuapare/hugealloc/internal/memsize"
)

// sysvShmPath is the kernel's listing of live SysV shared memory
// segments.
const sysvShmPath = "/proc/sysvipc/shm"

// SegmentInfo is one row of the kernel's segment table.
type SegmentInfo struct {
	Key      int    `json:"key"`
	ID       int    `json:"id"`
	Perms    string `json:"perms"`
	Size     int    `json:"size"`
	Creator  int    `json:"creator_pid"`
	LastPID  int    `json:"last_pid"`
	Attached int    `json:"attached"`
}

// Hugebacked reports whether the segment size is a whole number of
// 2 MiB hugepages, the signature of a region this allocator family
// creates.
func (s SegmentInfo) Hugebacked() bool {
	return s.Size > 0 && s.Size%memsize.Hugepage == 0
}

// Orphaned reports whether no process has the segment attached.
func (s SegmentInfo) Orphaned() bool {
	return s.Attached == 0
}

// parseSegments reads the /proc/sysvipc/shm table format: a header
// line followed by one whitespace-separated row per segment
// (key shmid perms size cpid lpid nattch uid gid ...).
func parseSegments(r io.Reader) ([]SegmentInfo, error) {
	var segs []SegmentInfo

	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			// Header row.
			first = false
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 7 {
			return nil, fmt.Errorf("malformed segment row %q", line)
		}

		var seg SegmentInfo
		var err error
		if seg.Key, err = strconv.Atoi(fields[0]); err != nil {
			return nil, fmt.Errorf("bad key in row %q: %w", line, err)
		}
		if seg.ID, err = strconv.Atoi(fields[1]); err != nil {
			return nil, fmt.Errorf("bad shmid in row %q: %w", line, err)
		}
		seg.Perms = fields[2]
		if seg.Size, err = strconv.Atoi(fields[3]); err != nil {
			return nil, fmt.Errorf("bad size in row %q: %w", line, err)
		}
		if seg.Creator, err = strconv.Atoi(fields[4]); err != nil {
			return nil, fmt.Errorf("bad cpid in row %q: %w", line, err)
		}
		if seg.LastPID, err = strconv.Atoi(fields[5]); err != nil {
			return nil, fmt.Errorf("bad lpid in row %q: %w", line, err)
		}
		if seg.Attached, err = strconv.Atoi(fields[6]); err != nil {
			return nil, fmt.Errorf("bad nattch in row %q: %w", line, err)
		}
		segs = append(segs, seg)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return segs, nil
}
