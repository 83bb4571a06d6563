package encrust

import (
	"errors"
	"runtime"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"
)

// Encrusted holds a value of type T obfuscated in memory. The value is only
// readable through a Decrusted guard obtained from Decrust, and is masked
// again when the guard is released.
//
// An Encrusted must not be copied after construction and is not safe for
// concurrent use; callers sharing one across goroutines must serialize
// every Decrust, guard use and Release.
type Encrusted[T any] struct {
	data   *T
	seed   uint64
	config *Config

	view   regionFunc
	layout *layout // nil when T implements ByteView
	owned  map[*byte][]byte
	arrays [][]byte // slice storage adopted from the value
	locked [][]byte

	exposed   atomic.Bool
	destroyed bool
}

// New obfuscates value with the given seed using the default configuration.
// It panics if T contains kinds without a fixed byte representation, such as
// pointers, maps or interfaces.
//
// Strings in value are copied into buffers owned by the container. Slices are
// adopted: their backing arrays are masked in place and must not be used by
// the caller afterwards. An adopted array that is replaced or outgrown
// through a guard is wiped when the guard is released.
func New[T any](value T, seed uint64) *Encrusted[T] {
	e, err := NewWithConfig(value, seed, nil)
	if err != nil {
		panic(err)
	}
	return e
}

// NewWithConfig obfuscates value with the given seed. A nil config selects
// the defaults.
func NewWithConfig[T any](value T, seed uint64, config *Config) (*Encrusted[T], error) {
	e, err := newEncrusted(&value, seed, config, false)
	var zero T
	value = zero
	runtime.KeepAlive(&value)
	return e, err
}

// NewWithRandomSeed obfuscates value with a seed drawn from src. The same
// source is used for later reseeding.
func NewWithRandomSeed[T any](value T, src SeedSource) (*Encrusted[T], error) {
	seed, err := drawSeed(src)
	if err != nil {
		return nil, err
	}
	config := DefaultConfig()
	config.SeedSource = src
	return NewWithConfig(value, seed, config)
}

// Take moves the value at v into a new container and clears *v
func Take[T any](v *T, seed uint64) *Encrusted[T] {
	e, err := newEncrusted(v, seed, nil, false)
	if err != nil {
		panic(err)
	}
	var zero T
	*v = zero
	return e
}

// FromEncrusted wraps a value that is already masked with seed, such as one
// produced at build time by encrustgen. The value is not masked again.
func FromEncrusted[T any](masked T, seed uint64, config *Config) (*Encrusted[T], error) {
	return newEncrusted(&masked, seed, config, true)
}

// MustFromEncrusted is like FromEncrusted with the default configuration and
// the given keystream suite, but panics on error. It is meant for generated
// package-level variables.
func MustFromEncrusted[T any](masked T, seed uint64, suite KeystreamSuite) *Encrusted[T] {
	config := DefaultConfig()
	config.Keystream = suite
	e, err := FromEncrusted(masked, seed, config)
	if err != nil {
		panic(err)
	}
	return e
}

// ToggleMask applies the mask for seed to *v in place. Applying it twice
// restores the original value. Strings in *v are first moved to fresh
// buffers, since string storage may be read-only.
func ToggleMask[T any](v *T, seed uint64, suite KeystreamSuite) error {
	if err := ValidateKeystream(suite); err != nil {
		return err
	}
	view, l, err := viewOf(v)
	if err != nil {
		return err
	}
	if l != nil && l.hasStrings() {
		l.ownStrings(unsafe.Pointer(v), nil)
	}
	return applyMask(view, suite, seed)
}

func newEncrusted[T any](value *T, seed uint64, config *Config, premasked bool) (*Encrusted[T], error) {
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	e := &Encrusted[T]{
		data:   new(T),
		seed:   seed,
		config: config,
	}
	*e.data = *value

	view, l, err := viewOf(e.data)
	if err != nil {
		return nil, err
	}
	e.view = view
	e.layout = l
	e.ownStrings()
	e.adoptSlices()

	if !premasked {
		e.toggle(seed)
	}
	if config.LockMemory {
		e.lock()
	}

	runtime.SetFinalizer(e, func(e *Encrusted[T]) {
		e.Destroy()
	})
	return e, nil
}

// Decrust unmasks the value in place and returns the guard through which it
// can be read and modified. The value is masked again when the guard is
// released, so callers should defer Release right away.
//
// Decrust panics with a *ContractError if a guard from this container is
// still live or the container has been destroyed.
func (e *Encrusted[T]) Decrust() *Decrusted[T] {
	if e.destroyed {
		violation("decrust", ErrDestroyed)
	}
	if !e.exposed.CompareAndSwap(false, true) {
		violation("decrust", ErrAlreadyExposed)
	}

	e.toggle(e.seed)
	return &Decrusted[T]{container: e}
}

// With decrusts the value for the duration of fn. The value is masked again
// on every exit path, including a panic in fn.
func (e *Encrusted[T]) With(fn func(v *T) error) (err error) {
	guard := e.Decrust()
	defer func() {
		if rerr := guard.Release(); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()
	return fn(guard.Get())
}

// Reseed re-masks the value under newSeed. The old and new masks are
// combined before being applied, so the plaintext never appears in storage.
//
// Reseed panics with a *ContractError while a guard is live or after Destroy.
func (e *Encrusted[T]) Reseed(newSeed uint64) {
	if e.destroyed {
		violation("reseed", ErrDestroyed)
	}
	if !e.exposed.CompareAndSwap(false, true) {
		violation("reseed", ErrExposedReseed)
	}
	defer e.exposed.Store(false)

	e.remask(newSeed)
}

// ReseedRandom re-masks the value under a seed drawn from the configured
// source. On failure the value stays masked under the current seed.
func (e *Encrusted[T]) ReseedRandom() error {
	seed, err := drawSeed(e.config.SeedSource)
	if err != nil {
		return err
	}
	e.Reseed(seed)
	return nil
}

// Seed returns the seed the value is currently masked with
func (e *Encrusted[T]) Seed() uint64 {
	return e.seed
}

// Keystream returns the keystream suite used by the container
func (e *Encrusted[T]) Keystream() KeystreamSuite {
	return e.config.Keystream
}

// Exposed reports whether a guard is currently live
func (e *Encrusted[T]) Exposed() bool {
	return e.exposed.Load()
}

// Destroyed reports whether Destroy has been called
func (e *Encrusted[T]) Destroyed() bool {
	return e.destroyed
}

// Destroy overwrites the protected bytes with zeros, whether or not they are
// currently masked, and releases any memory locks. The container cannot be
// used afterwards. Destroy is idempotent and also runs from a finalizer if
// the container becomes unreachable without it.
func (e *Encrusted[T]) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	runtime.SetFinalizer(e, nil)

	e.unlock()
	e.adoptSlices()
	e.zeroize()
	e.arrays = nil
	e.seed = 0

	e.config.Logger.Debug("encrusted value destroyed",
		zap.Bool("exposed", e.exposed.Load()))
}

// toggle applies the mask for seed to the storage
func (e *Encrusted[T]) toggle(seed uint64) {
	if err := applyMask(e.view, e.config.Keystream, seed); err != nil {
		// The suite was validated at construction
		panic(err)
	}
}

// remask moves the storage from the current mask to the one for newSeed
func (e *Encrusted[T]) remask(newSeed uint64) {
	if err := applyRemask(e.view, e.config.Keystream, e.seed, newSeed); err != nil {
		panic(err)
	}
	e.seed = newSeed
	e.config.Logger.Debug("encrusted value reseeded",
		zap.Stringer("keystream", e.config.Keystream))
}

// ownStrings moves every string into a buffer owned by the container
func (e *Encrusted[T]) ownStrings() {
	if e.layout == nil || !e.layout.hasStrings() {
		return
	}
	e.owned = e.layout.ownStrings(unsafe.Pointer(e.data), e.owned)
}

// adoptSlices records the slice storage currently reachable from the value
// and wipes whatever part of previously adopted storage is no longer
// reachable, such as an array replaced or outgrown through a guard.
func (e *Encrusted[T]) adoptSlices() {
	if e.layout == nil || !e.layout.hasSlices() {
		return
	}
	current := e.layout.sliceArrays(unsafe.Pointer(e.data), nil)
	wipeSuperseded(e.arrays, current)
	e.arrays = current
}

// zeroize wipes the protected bytes. Strings the container does not own are
// only detached, since their storage may be read-only.
func (e *Encrusted[T]) zeroize() {
	if e.layout == nil {
		if bv, ok := any(e.data).(ByteView); ok {
			bv.Zeroize()
		}
		return
	}

	e.layout.walk(unsafe.Pointer(e.data), func(r Region) {
		wipeBytes(r.Bytes)
	}, func(sp *string) {
		if len(*sp) > 0 {
			if buf, ok := e.owned[unsafe.StringData(*sp)]; ok {
				wipeBytes(buf)
			}
		}
		*sp = ""
	})

	for _, buf := range e.owned {
		wipeBytes(buf)
	}
	e.owned = nil
}

// lock asks the OS to keep the storage out of swap, replacing earlier locks
func (e *Encrusted[T]) lock() {
	e.unlock()

	regions := [][]byte{}
	if cell := cellBytes(e.data); cell != nil {
		regions = append(regions, cell)
	}
	e.view(func(r Region) {
		regions = append(regions, r.Bytes)
	})

	for _, b := range regions {
		if err := lockMemory(b); err != nil {
			e.config.Logger.Warn("failed to lock encrusted memory",
				zap.Int("bytes", len(b)), zap.Error(err))
			continue
		}
		e.locked = append(e.locked, b)
	}
}

// unlock releases the locks taken by lock
func (e *Encrusted[T]) unlock() {
	for _, b := range e.locked {
		_ = unlockMemory(b)
	}
	e.locked = nil
}
