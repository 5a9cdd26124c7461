package shm

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// maxKeyAttempts caps the collision retry loop in Acquire.
const maxKeyAttempts = 512

// randKey draws a positive 31-bit SysV key from crypto/rand. Zero is
// reserved by the kernel (IPC_PRIVATE) and is never returned.
func randKey() (int, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("shm: drawing key: %w", err)
	}
	key := int(binary.LittleEndian.Uint32(b[:]) & 0x7fffffff)
	if key == 0 {
		key = 1
	}
	return key, nil
}
