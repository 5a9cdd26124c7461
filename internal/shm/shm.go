// Package shm acquires and releases hugepage-backed System V shared
// memory segments.
//
// Each segment is created under a freshly drawn positive key with
// create-exclusive semantics, attached, bound strictly to a single NUMA
// node, and zero-filled so that a hugepage shortage surfaces at acquire
// time instead of at first touch. Release re-resolves the segment by
// key, marks it for removal, and detaches the mapping.
package shm

import "errors"

// Segment is one keyed shared memory region.
type Segment struct {
	Key int    // SysV key the segment was created under
	Buf []byte // attached mapping; len is a hugepage multiple
}

var (
	// ErrNoHugeMem indicates the kernel has no free hugepages for the
	// requested size. This is the only acquire failure callers can
	// recover from.
	ErrNoHugeMem = errors.New("shm: insufficient huge memory")

	// ErrUnsupported indicates the platform has no SysV hugepage
	// segments or NUMA binding.
	ErrUnsupported = errors.New("shm: hugepage segments unsupported on this platform")

	// ErrKeyExhausted indicates repeated key collisions. With random
	// 31-bit keys this is practically unreachable unless the key
	// namespace is corrupt.
	ErrKeyExhausted = errors.New("shm: could not find an unused key")
)
