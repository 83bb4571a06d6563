package encrust

// Sensitivity selects whether a Hashstring ignores ASCII letter case
type Sensitivity uint8

const (
	// CaseSensitive compares strings byte for byte
	CaseSensitive Sensitivity = iota
	// CaseInsensitive folds ASCII letters to lower case before hashing
	CaseInsensitive
)

// String returns the string representation of the sensitivity
func (s Sensitivity) String() string {
	switch s {
	case CaseSensitive:
		return "case-sensitive"
	case CaseInsensitive:
		return "case-insensitive"
	default:
		return "unknown"
	}
}

// GoName returns the exported identifier of the sensitivity, for generated source
func (s Sensitivity) GoName() string {
	if s == CaseInsensitive {
		return "CaseInsensitive"
	}
	return "CaseSensitive"
}

// Hashstring is the keyed digest of a string. It allows testing runtime
// strings for equality with a known string without keeping that string in
// memory or in the binary.
//
//	h := encrust.NewHashstring("secret", seed, encrust.CaseSensitive)
//	if h.Matches(input) { ... }
type Hashstring struct {
	value       uint64
	seed        uint64
	length      int
	suite       DigestSuite
	sensitivity Sensitivity
}

// NewHashstring digests s with the default suite. The caller's copy of s is
// not scrubbed; use encrustgen to keep s out of the binary entirely.
func NewHashstring(s string, seed uint64, sensitivity Sensitivity) Hashstring {
	return NewHashstringWithSuite(DigestXXH64, s, seed, sensitivity)
}

// NewHashstringWithSuite digests s with the given suite
func NewHashstringWithSuite(suite DigestSuite, s string, seed uint64, sensitivity Sensitivity) Hashstring {
	return Hashstring{
		value:       digestString(suite, s, seed, sensitivity),
		seed:        seed,
		length:      len(s),
		suite:       suite,
		sensitivity: sensitivity,
	}
}

// HashstringFromRaw rebuilds a Hashstring from a digest computed ahead of
// time. length is the byte length of the digested string, used by Index.
func HashstringFromRaw(suite DigestSuite, value, seed uint64, length int, sensitivity Sensitivity) Hashstring {
	return Hashstring{
		value:       value,
		seed:        seed,
		length:      length,
		suite:       suite,
		sensitivity: sensitivity,
	}
}

// Matches reports whether s digests to the stored value. Digest collisions
// are possible, so a match is a strong hint rather than a proof.
func (h Hashstring) Matches(s string) bool {
	return digestString(h.suite, s, h.seed, h.sensitivity) == h.value
}

// MatchesBytes is like Matches for a byte slice holding text
func (h Hashstring) MatchesBytes(b []byte) bool {
	return digestBytes(h.suite, b, h.seed, h.sensitivity) == h.value
}

// Index returns the byte offset of the first window of s that matches, or
// -1 if none does
func (h Hashstring) Index(s string) int {
	return indexWindow(stringBytes(s), h.length, func(w []byte) bool {
		return h.MatchesBytes(w)
	})
}

// RawValue returns the digest
func (h Hashstring) RawValue() uint64 { return h.value }

// Seed returns the digest key
func (h Hashstring) Seed() uint64 { return h.seed }

// Len returns the byte length of the digested string
func (h Hashstring) Len() int { return h.length }

// Suite returns the digest suite
func (h Hashstring) Suite() DigestSuite { return h.suite }

// Sensitivity returns the case sensitivity
func (h Hashstring) Sensitivity() Sensitivity { return h.sensitivity }

// Hashbytes is the keyed digest of a byte sequence
type Hashbytes struct {
	value  uint64
	seed   uint64
	length int
	suite  DigestSuite
}

// NewHashbytes digests b with the default suite
func NewHashbytes(b []byte, seed uint64) Hashbytes {
	return NewHashbytesWithSuite(DigestXXH64, b, seed)
}

// NewHashbytesWithSuite digests b with the given suite
func NewHashbytesWithSuite(suite DigestSuite, b []byte, seed uint64) Hashbytes {
	return Hashbytes{
		value:  suite.Sum(b, seed),
		seed:   seed,
		length: len(b),
		suite:  suite,
	}
}

// HashbytesFromRaw rebuilds a Hashbytes from a digest computed ahead of time
func HashbytesFromRaw(suite DigestSuite, value, seed uint64, length int) Hashbytes {
	return Hashbytes{
		value:  value,
		seed:   seed,
		length: length,
		suite:  suite,
	}
}

// Matches reports whether b digests to the stored value
func (h Hashbytes) Matches(b []byte) bool {
	return h.suite.Sum(b, h.seed) == h.value
}

// Index returns the offset of the first window of b that matches, or -1
func (h Hashbytes) Index(b []byte) int {
	return indexWindow(b, h.length, h.Matches)
}

// RawValue returns the digest
func (h Hashbytes) RawValue() uint64 { return h.value }

// Seed returns the digest key
func (h Hashbytes) Seed() uint64 { return h.seed }

// Len returns the length of the digested sequence
func (h Hashbytes) Len() int { return h.length }

// Suite returns the digest suite
func (h Hashbytes) Suite() DigestSuite { return h.suite }

func digestString(suite DigestSuite, s string, seed uint64, sensitivity Sensitivity) uint64 {
	return digestBytes(suite, stringBytes(s), seed, sensitivity)
}

func digestBytes(suite DigestSuite, b []byte, seed uint64, sensitivity Sensitivity) uint64 {
	if sensitivity == CaseInsensitive {
		return suite.SumCaseInsensitive(b, seed)
	}
	return suite.Sum(b, seed)
}

// indexWindow slides a window of n bytes over data and returns the offset of
// the first window accepted by match. A negative n never matches.
func indexWindow(data []byte, n int, match func([]byte) bool) int {
	if n < 0 || n > len(data) {
		return -1
	}
	for i := 0; i+n <= len(data); i++ {
		if match(data[i : i+n]) {
			return i
		}
	}
	return -1
}
