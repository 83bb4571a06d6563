package encrust

import (
	"go.uber.org/zap"
)

// KeystreamSuite selects the generator used to mask protected bytes
type KeystreamSuite uint8

const (
	// KeystreamXoshiro256 uses xoshiro256++ seeded through SplitMix64 (default)
	KeystreamXoshiro256 KeystreamSuite = iota
	// KeystreamChaCha8 uses the ChaCha8 generator from math/rand/v2
	KeystreamChaCha8
	// KeystreamChaCha20 uses the ChaCha20 stream with a key derived from the seed
	KeystreamChaCha20
)

// String returns the string representation of the keystream suite
func (k KeystreamSuite) String() string {
	switch k {
	case KeystreamXoshiro256:
		return "xoshiro256++"
	case KeystreamChaCha8:
		return "chacha8"
	case KeystreamChaCha20:
		return "chacha20"
	default:
		return "unknown"
	}
}

// ParseKeystreamSuite converts a suite name as returned by String back into a suite
func ParseKeystreamSuite(name string) (KeystreamSuite, error) {
	switch name {
	case "", "xoshiro256++", "xoshiro256", "xoshiro":
		return KeystreamXoshiro256, nil
	case "chacha8":
		return KeystreamChaCha8, nil
	case "chacha20":
		return KeystreamChaCha20, nil
	default:
		return 0, &ValidationError{
			Field:   "keystream",
			Value:   name,
			Message: "unknown keystream suite",
			Err:     ErrUnsupportedKeystream,
		}
	}
}

// GoName returns the exported identifier of the suite, for generated source
func (k KeystreamSuite) GoName() string {
	switch k {
	case KeystreamChaCha8:
		return "KeystreamChaCha8"
	case KeystreamChaCha20:
		return "KeystreamChaCha20"
	default:
		return "KeystreamXoshiro256"
	}
}

// DigestSuite selects the keyed hash used by Hashstring and Hashbytes
type DigestSuite uint8

const (
	// DigestXXH64 uses seeded XXH64 (default)
	DigestXXH64 DigestSuite = iota
	// DigestBLAKE2b uses BLAKE2b keyed with the seed, truncated to 64 bits
	DigestBLAKE2b
)

// String returns the string representation of the digest suite
func (d DigestSuite) String() string {
	switch d {
	case DigestXXH64:
		return "xxh64"
	case DigestBLAKE2b:
		return "blake2b"
	default:
		return "unknown"
	}
}

// ParseDigestSuite converts a suite name as returned by String back into a suite
func ParseDigestSuite(name string) (DigestSuite, error) {
	switch name {
	case "", "xxh64", "xxhash":
		return DigestXXH64, nil
	case "blake2b":
		return DigestBLAKE2b, nil
	default:
		return 0, &ValidationError{
			Field:   "digest",
			Value:   name,
			Message: "unknown digest suite",
			Err:     ErrUnsupportedDigest,
		}
	}
}

// GoName returns the exported identifier of the suite, for generated source
func (d DigestSuite) GoName() string {
	if d == DigestBLAKE2b {
		return "DigestBLAKE2b"
	}
	return "DigestXXH64"
}

// Config contains configuration for an Encrusted container
type Config struct {
	// Keystream suite used to mask the protected bytes
	Keystream KeystreamSuite

	// ReseedOnRelease draws a fresh seed from SeedSource every time a
	// Decrusted guard is released, so consecutive exposures use different masks
	ReseedOnRelease bool

	// SeedSource supplies seeds for ReseedOnRelease and ReseedRandom.
	// Defaults to CryptoSeedSource.
	SeedSource SeedSource

	// LockMemory asks the operating system to keep the protected regions out
	// of swap. Best effort: failures are logged and otherwise ignored.
	LockMemory bool

	// Logger receives debug and warning events. Defaults to a no-op logger.
	Logger *zap.Logger
}

// DefaultConfig returns the configuration used by New
func DefaultConfig() *Config {
	return &Config{
		Keystream:  KeystreamXoshiro256,
		SeedSource: CryptoSeedSource{},
		Logger:     zap.NewNop(),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	return ValidateKeystream(c.Keystream)
}

// withDefaults returns a copy of c with unset fields filled in
func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	cfg := *c
	if cfg.SeedSource == nil {
		cfg.SeedSource = CryptoSeedSource{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &cfg
}

// ValidateKeystream checks that the suite is one this package implements
func ValidateKeystream(suite KeystreamSuite) error {
	switch suite {
	case KeystreamXoshiro256, KeystreamChaCha8, KeystreamChaCha20:
		return nil
	default:
		return &ValidationError{
			Field:   "keystream",
			Value:   suite,
			Message: "unsupported keystream suite",
			Err:     ErrUnsupportedKeystream,
		}
	}
}

// ValidateDigest checks that the suite is one this package implements
func ValidateDigest(suite DigestSuite) error {
	switch suite {
	case DigestXXH64, DigestBLAKE2b:
		return nil
	default:
		return &ValidationError{
			Field:   "digest",
			Value:   suite,
			Message: "unsupported digest suite",
			Err:     ErrUnsupportedDigest,
		}
	}
}
