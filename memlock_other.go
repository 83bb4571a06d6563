//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package encrust

import (
	"errors"
)

var errMemoryLockUnsupported = errors.New("memory locking is not supported on this platform")

func lockMemory(b []byte) error {
	return errMemoryLockUnsupported
}

func unlockMemory(b []byte) error {
	return nil
}
