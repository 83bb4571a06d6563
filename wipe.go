package encrust

import (
	"unsafe"

	"github.com/awnumar/memguard"
)

// wipeBytes overwrites b with zeros
func wipeBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	memguard.WipeBytes(b)
}

// cellBytes returns the raw memory of the value at p, headers included.
// Only used for memory locking, never written through.
func cellBytes[T any](p *T) []byte {
	size := unsafe.Sizeof(*p)
	if size == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), size)
}
