// Package encrust keeps sensitive values obfuscated in process memory and
// exposes them in plaintext only for short, scoped periods.
//
// # Overview
//
// An Encrusted[T] owns one value of type T whose bytes are XORed with a
// keystream derived from a 64-bit seed. Core dumps, swapped pages and casual
// debugger sessions see only the masked bytes. To use the value, call Decrust
// to unmask it in place and obtain a Decrusted guard; releasing the guard
// masks the value again, keeping any changes made through it.
//
// This is obfuscation, not encryption: the seed lives next to the data it
// masks. It defends against passive memory scraping, not against an attacker
// who can read the whole process image.
//
// # Supported Types
//
// Values may be built from integers of any width, floats, complex numbers,
// strings, fixed arrays, slices and structs of these. Only the data is
// masked; string and slice headers stay in cleartext. Types that need a
// different view of their bytes implement ByteView on their pointer receiver.
//
// Pointers, maps, channels, funcs, interfaces and bool are rejected with
// ErrUnsupportedType.
//
// # Basic Usage
//
//	secret := encrust.New(Credentials{User: "admin", Token: token}, seed)
//	defer secret.Destroy()
//
//	err := secret.With(func(c *Credentials) error {
//	    return login(c.User, c.Token)
//	})
//
// Or with an explicit guard:
//
//	g := secret.Decrust()
//	defer g.Release()
//	use(g.Get())
//
// Only one guard per container may be live at a time. A second Decrust, or a
// Reseed while a guard is live, panics with a *ContractError. Containers are
// not safe for concurrent use without external locking.
//
// # Keystream Suites
//
//   - KeystreamXoshiro256: xoshiro256++ seeded through SplitMix64 (default)
//   - KeystreamChaCha8: the ChaCha8 generator from math/rand/v2
//   - KeystreamChaCha20: ChaCha20 keyed with BLAKE2b-256 of the seed
//
// All suites serialize seeds and output words in little-endian order, and
// multi-byte numbers are masked byte by byte from the least significant end,
// so a value masked on one platform unmasks correctly on any other.
//
// # Reseeding
//
// Reseed moves a container to a new mask without exposing the plaintext.
// With Config.ReseedOnRelease every guard release draws a fresh seed from
// Config.SeedSource, so consecutive exposures never share a mask.
//
// # Searching Without Storing
//
// Hashstring and Hashbytes hold only a keyed 64-bit digest of a string or
// byte sequence. Matches and Index test runtime data against it, which lets a
// program look for a known secret without carrying the secret itself.
//
// # Build-Time Embedding
//
// The encrustgen command masks literals and files, or digests strings, at
// build time and writes Go source that wraps the result with
// MustFromEncrusted or HashstringFromRaw. The plaintext never reaches the
// compiled binary.
package encrust
