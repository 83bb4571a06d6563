package encrust

import (
	"go.uber.org/zap"
)

// Decrusted is the exclusive, scoped view of an Encrusted value in plaintext.
// Only one guard per container can be live at a time. Release masks the value
// again; it is safe to call more than once, so the usual pattern is
//
//	g := secret.Decrust()
//	defer g.Release()
type Decrusted[T any] struct {
	container *Encrusted[T]
	released  bool
}

// Get returns a pointer to the plaintext value inside the container. The
// pointer must not be used after Release.
//
// Get panics with a *ContractError once the guard has been released or the
// container destroyed.
func (d *Decrusted[T]) Get() *T {
	if d.released {
		violation("get", ErrReleased)
	}
	if d.container.destroyed {
		violation("get", ErrDestroyed)
	}
	return d.container.data
}

// Released reports whether Release has been called
func (d *Decrusted[T]) Released() bool {
	return d.released
}

// Release masks the value again and ends the exposure. Strings that were
// replaced through the guard are first moved into container-owned buffers,
// and slice storage that was replaced or outgrown is wiped.
//
// With ReseedOnRelease the value is masked under a fresh seed. If the seed
// source fails, the value is masked under the previous seed and the
// *SeedError is returned; the guard is released either way.
func (d *Decrusted[T]) Release() error {
	if d.released {
		return nil
	}
	d.released = true

	e := d.container
	defer e.exposed.Store(false)

	if e.destroyed {
		return nil
	}

	e.ownStrings()
	e.adoptSlices()

	var seedErr error
	seed := e.seed
	if e.config.ReseedOnRelease {
		next, err := drawSeed(e.config.SeedSource)
		if err != nil {
			seedErr = err
			e.config.Logger.Warn("failed to draw seed on release, keeping previous seed",
				zap.Error(err))
		} else {
			seed = next
		}
	}

	e.toggle(seed)
	e.seed = seed

	if e.config.LockMemory {
		e.lock()
	}
	return seedErr
}
