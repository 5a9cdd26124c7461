package alloc

import "errors"

// ErrOutOfHugepages indicates the kernel could not back a new region.
// It is the only recoverable failure the allocator reports; New returns
// it, and AllocPage/AllocHuge return nil when growth hits it.
var ErrOutOfHugepages = errors.New("alloc: out of hugepages")
