//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package encrust

import (
	"golang.org/x/sys/unix"
)

// lockMemory keeps the pages holding b out of swap
func lockMemory(b []byte) error {
	return unix.Mlock(b)
}

// unlockMemory releases a lock taken by lockMemory. Locks are per page and do
// not nest, so this also unlocks neighbours sharing those pages.
func unlockMemory(b []byte) error {
	return unix.Munlock(b)
}
