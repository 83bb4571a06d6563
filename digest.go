package encrust

import (
	"encoding/binary"
	"hash"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
)

// foldChunk is the size of the stack buffer used to case-fold input
const foldChunk = 64

// Digest returns the keyed digest of data with the default suite
func Digest(data []byte, seed uint64) uint64 {
	return DigestXXH64.Sum(data, seed)
}

// DigestCaseInsensitive returns the keyed digest of data with ASCII letters
// folded to lower case, using the default suite
func DigestCaseInsensitive(data []byte, seed uint64) uint64 {
	return DigestXXH64.SumCaseInsensitive(data, seed)
}

// Sum returns the keyed digest of data. It panics on an unknown suite; use
// ValidateDigest first for untrusted suite values.
func (d DigestSuite) Sum(data []byte, seed uint64) uint64 {
	h := d.newHash(seed)
	_, _ = h.Write(data)
	return finishHash(h)
}

// SumCaseInsensitive returns the keyed digest of data with ASCII letters
// folded to lower case. Other bytes, including multi-byte UTF-8 sequences,
// are digested unchanged. No folded copy of data is allocated.
func (d DigestSuite) SumCaseInsensitive(data []byte, seed uint64) uint64 {
	h := d.newHash(seed)

	var buf [foldChunk]byte
	for len(data) > 0 {
		n := foldASCII(buf[:], data)
		_, _ = h.Write(buf[:n])
		data = data[n:]
	}
	wipeBytes(buf[:])

	return finishHash(h)
}

// newHash returns the streaming hash for the suite keyed with seed
func (d DigestSuite) newHash(seed uint64) hash.Hash {
	switch d {
	case DigestXXH64:
		return xxhash.NewWithSeed(seed)

	case DigestBLAKE2b:
		key := seedBytes(seed)
		h, err := blake2b.New(8, key[:])
		wipeBytes(key[:])
		if err != nil {
			panic(err)
		}
		return h

	default:
		panic(ValidateDigest(d))
	}
}

// finishHash returns the 64-bit digest. Hashes without a native 64-bit sum
// produce 8 bytes, read as a little-endian integer.
func finishHash(h hash.Hash) uint64 {
	if h64, ok := h.(hash.Hash64); ok {
		return h64.Sum64()
	}
	var out [8]byte
	sum := h.Sum(out[:0])
	return binary.LittleEndian.Uint64(sum)
}

// foldASCII copies src into dst with ASCII upper-case letters lowered and
// returns the number of bytes copied
func foldASCII(dst, src []byte) int {
	n := copy(dst, src)
	for i := 0; i < n; i++ {
		if c := dst[i]; 'A' <= c && c <= 'Z' {
			dst[i] = c + ('a' - 'A')
		}
	}
	return n
}

// stringBytes views s as bytes without copying. The result must not be
// modified.
func stringBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
