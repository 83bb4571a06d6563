package encrust

import (
	"math/bits"
)

// xoshiro256 is the xoshiro256++ generator by Blackman and Vigna.
// See https://prng.di.unimi.it/xoshiro256plusplus.c
type xoshiro256 struct {
	s [4]uint64
}

// newXoshiro256 expands seed into the generator state with SplitMix64, the
// seeding procedure recommended by the xoshiro authors. The expansion is pure
// integer arithmetic, so it does not depend on the host byte order.
func newXoshiro256(seed uint64) *xoshiro256 {
	x := &xoshiro256{}
	state := seed
	for i := range x.s {
		x.s[i] = splitMix64(&state)
	}
	return x
}

// splitMix64 advances state and returns the next output
func splitMix64(state *uint64) uint64 {
	*state += 0x9e3779b97f4a7c15
	z := *state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// Uint64 returns the next output of the generator
func (x *xoshiro256) Uint64() uint64 {
	s := &x.s
	result := bits.RotateLeft64(s[0]+s[3], 23) + s[0]
	t := s[1] << 17

	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]

	s[2] ^= t
	s[3] = bits.RotateLeft64(s[3], 45)

	return result
}

// wipe clears the generator state
func (x *xoshiro256) wipe() {
	x.s = [4]uint64{}
}
