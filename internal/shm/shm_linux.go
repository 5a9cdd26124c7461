//go:build linux

package shm

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/joshuapare/hugealloc/internal/memsize"
)

// mbind(2) parameters. x/sys/unix exposes the syscall number but not
// the memory policy constants.
const (
	mpolBind     = 2  // MPOL_BIND: strict binding, not preferred
	mbindMaxNode = 64 // nodemask width handed to the kernel
)

// shmHugetlb is Linux's SHM_HUGETLB shmget(2) flag. x/sys/unix does not
// expose it.
const shmHugetlb = 0o4000

// Acquire creates a hugepage-backed segment of exactly size bytes (a
// hugepage multiple), binds it to numaNode, and zero-fills it.
func Acquire(size, numaNode int) (Segment, error) {
	if size <= 0 || size%memsize.Hugepage != 0 {
		return Segment{}, fmt.Errorf("shm: acquire size %d is not a hugepage multiple", size)
	}

	key, id, err := createExclusive(size)
	if err != nil {
		return Segment{}, err
	}

	buf, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		return Segment{}, fmt.Errorf("shm: shmat failed for key %d size %d: %w", key, size, err)
	}

	if err := bindToNode(buf, numaNode); err != nil {
		return Segment{}, fmt.Errorf("shm: mbind to node %d failed for key %d: %w", numaNode, key, err)
	}

	// Touch every page now so the kernel commits backing hugepages here
	// rather than at first user access.
	clear(buf)

	return Segment{Key: key, Buf: buf}, nil
}

// createExclusive draws random keys until shmget succeeds in exclusive
// mode, classifying the errno on each failure. Only EEXIST is retried.
func createExclusive(size int) (key, id int, err error) {
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		key, err = randKey()
		if err != nil {
			return 0, 0, err
		}
		id, err = unix.SysvShmGet(key, size, unix.IPC_CREAT|unix.IPC_EXCL|shmHugetlb|0o666)
		if err == nil {
			return key, id, nil
		}
		switch {
		case errors.Is(err, unix.EEXIST):
			// Key already taken, draw again.
		case errors.Is(err, unix.ENOMEM):
			return 0, 0, fmt.Errorf("shm: shmget key %d size %d (%d MB): %w",
				key, size, size/memsize.MiB, ErrNoHugeMem)
		case errors.Is(err, unix.EACCES):
			return 0, 0, fmt.Errorf("shm: shmget permission denied for size %d: %w", size, err)
		case errors.Is(err, unix.EINVAL):
			return 0, 0, fmt.Errorf("shm: shmget SHMMAX/SHMMIN mismatch for size %d (%d MB): %w",
				size, size/memsize.MiB, err)
		default:
			return 0, 0, fmt.Errorf("shm: unexpected shmget error for size %d: %w", size, err)
		}
	}
	return 0, 0, ErrKeyExhausted
}

// bindToNode pins buf strictly to a single NUMA node.
func bindToNode(buf []byte, numaNode int) error {
	nodemask := uint64(1) << uint(numaNode)
	_, _, errno := unix.Syscall6(unix.SYS_MBIND,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		uintptr(mpolBind),
		uintptr(unsafe.Pointer(&nodemask)),
		uintptr(mbindMaxNode),
		0)
	if errno != 0 {
		return errno
	}
	return nil
}

// Release removes the segment and detaches its mapping. The segment is
// re-resolved by key so removal works even if the creating id went
// stale.
func Release(seg Segment) error {
	id, err := unix.SysvShmGet(seg.Key, 0, 0)
	if err != nil {
		return fmt.Errorf("shm: resolving key %d for removal: %w", seg.Key, err)
	}
	if _, err := unix.SysvShmCtl(id, unix.IPC_RMID, nil); err != nil {
		return fmt.Errorf("shm: removing segment id %d (key %d): %w", id, seg.Key, err)
	}
	if err := unix.SysvShmDetach(seg.Buf); err != nil {
		return fmt.Errorf("shm: detaching segment key %d: %w", seg.Key, err)
	}
	return nil
}
