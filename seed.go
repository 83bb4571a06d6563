package encrust

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// SeedSource supplies 64-bit seeds. Seeds only need to be unpredictable to
// casual inspection; they are stored next to the data they mask.
type SeedSource interface {
	// Seed returns a new seed
	Seed() (uint64, error)
}

// ErrSeedsExhausted is returned by FixedSeeds once every seed has been used
var ErrSeedsExhausted = errors.New("no seeds left")

// CryptoSeedSource draws seeds from crypto/rand
type CryptoSeedSource struct{}

// Seed returns a seed read from the operating system's random source
func (CryptoSeedSource) Seed() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, NewSeedError("crypto/rand", err)
	}
	seed := binary.LittleEndian.Uint64(b[:])
	wipeBytes(b[:])
	return seed, nil
}

// PooledSeedSource draws seeds from the random pool of github.com/google/uuid,
// which reads entropy in batches. Useful when ReseedOnRelease makes seeds
// frequent.
type PooledSeedSource struct{}

// NewPooledSeedSource enables the uuid random pool and returns a source
// drawing from it. The pool is process-wide and also affects uuid.New callers.
func NewPooledSeedSource() PooledSeedSource {
	uuid.EnableRandPool()
	return PooledSeedSource{}
}

// Seed folds the 16 bytes of a random UUID into 64 bits. XOR-folding spreads
// the six fixed version and variant bits over random ones.
func (PooledSeedSource) Seed() (uint64, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return 0, NewSeedError("uuid pool", err)
	}
	seed := binary.LittleEndian.Uint64(id[:8]) ^ binary.LittleEndian.Uint64(id[8:])
	wipeBytes(id[:])
	return seed, nil
}

// SeedFunc adapts a function to the SeedSource interface
type SeedFunc func() (uint64, error)

// Seed calls f
func (f SeedFunc) Seed() (uint64, error) {
	return f()
}

// FixedSeeds hands out a predetermined sequence of seeds, for tests and
// reproducible builds. It fails with ErrSeedsExhausted once drained.
type FixedSeeds struct {
	mu    sync.Mutex
	seeds []uint64
	next  int
}

// NewFixedSeeds creates a source returning seeds in order
func NewFixedSeeds(seeds ...uint64) *FixedSeeds {
	return &FixedSeeds{seeds: seeds}
}

// Seed returns the next seed of the sequence
func (f *FixedSeeds) Seed() (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.next >= len(f.seeds) {
		return 0, NewSeedError("fixed seeds", ErrSeedsExhausted)
	}
	seed := f.seeds[f.next]
	f.next++
	return seed, nil
}

// Remaining returns how many seeds are left
func (f *FixedSeeds) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seeds) - f.next
}

// drawSeed calls src and makes sure any failure is reported as a SeedError
func drawSeed(src SeedSource) (uint64, error) {
	if src == nil {
		return 0, ErrNilSeedSource
	}
	seed, err := src.Seed()
	if err != nil {
		if IsSeedError(err) {
			return 0, err
		}
		return 0, NewSeedError(fmt.Sprintf("%T", src), err)
	}
	return seed, nil
}
