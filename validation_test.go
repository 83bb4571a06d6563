package encrust

import (
	"errors"
	"testing"
)

// TestConfig_Validate tests the Config validation
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr error
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: ErrNilConfig,
		},
		{
			name:    "zero config",
			config:  &Config{},
			wantErr: nil,
		},
		{
			name:    "default config",
			config:  DefaultConfig(),
			wantErr: nil,
		},
		{
			name:    "chacha20 with reseed",
			config:  &Config{Keystream: KeystreamChaCha20, ReseedOnRelease: true},
			wantErr: nil,
		},
		{
			name:    "unsupported keystream",
			config:  &Config{Keystream: KeystreamSuite(99)},
			wantErr: ErrUnsupportedKeystream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Config.Validate() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Config.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := (&Config{Keystream: KeystreamChaCha8, ReseedOnRelease: true}).withDefaults()
	if cfg.SeedSource == nil {
		t.Error("SeedSource not filled in")
	}
	if cfg.Logger == nil {
		t.Error("Logger not filled in")
	}
	if cfg.Keystream != KeystreamChaCha8 || !cfg.ReseedOnRelease {
		t.Error("explicit settings were overwritten")
	}

	var nilConfig *Config
	if nilConfig.withDefaults() == nil {
		t.Error("nil config should resolve to the defaults")
	}

	// The caller's config is not modified
	src := &Config{}
	_ = src.withDefaults()
	if src.SeedSource != nil || src.Logger != nil {
		t.Error("withDefaults modified its receiver")
	}
}

func TestParseKeystreamSuite(t *testing.T) {
	tests := []struct {
		name    string
		want    KeystreamSuite
		wantErr bool
	}{
		{"", KeystreamXoshiro256, false},
		{"xoshiro256++", KeystreamXoshiro256, false},
		{"xoshiro", KeystreamXoshiro256, false},
		{"chacha8", KeystreamChaCha8, false},
		{"chacha20", KeystreamChaCha20, false},
		{"aes", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseKeystreamSuite(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKeystreamSuite(%q) error = %v", tt.name, err)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnsupportedKeystream) {
			t.Errorf("ParseKeystreamSuite(%q) error = %v, want ErrUnsupportedKeystream", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("ParseKeystreamSuite(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	// String output parses back to the same suite
	for _, s := range []KeystreamSuite{KeystreamXoshiro256, KeystreamChaCha8, KeystreamChaCha20} {
		if got, err := ParseKeystreamSuite(s.String()); err != nil || got != s {
			t.Errorf("round trip of %v = %v, %v", s, got, err)
		}
	}
}

func TestParseDigestSuite(t *testing.T) {
	tests := []struct {
		name    string
		want    DigestSuite
		wantErr bool
	}{
		{"", DigestXXH64, false},
		{"xxh64", DigestXXH64, false},
		{"xxhash", DigestXXH64, false},
		{"blake2b", DigestBLAKE2b, false},
		{"md5", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDigestSuite(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDigestSuite(%q) error = %v", tt.name, err)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnsupportedDigest) {
			t.Errorf("ParseDigestSuite(%q) error = %v, want ErrUnsupportedDigest", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("ParseDigestSuite(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSuiteNames(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{KeystreamXoshiro256.String(), "xoshiro256++"},
		{KeystreamChaCha8.String(), "chacha8"},
		{KeystreamChaCha20.String(), "chacha20"},
		{KeystreamSuite(9).String(), "unknown"},
		{KeystreamChaCha20.GoName(), "KeystreamChaCha20"},
		{KeystreamXoshiro256.GoName(), "KeystreamXoshiro256"},
		{DigestXXH64.String(), "xxh64"},
		{DigestBLAKE2b.String(), "blake2b"},
		{DigestSuite(9).String(), "unknown"},
		{DigestBLAKE2b.GoName(), "DigestBLAKE2b"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestValidateDigest(t *testing.T) {
	if err := ValidateDigest(DigestBLAKE2b); err != nil {
		t.Errorf("ValidateDigest(blake2b) = %v", err)
	}
	if err := ValidateDigest(DigestSuite(5)); !errors.Is(err, ErrUnsupportedDigest) {
		t.Errorf("ValidateDigest(5) = %v, want ErrUnsupportedDigest", err)
	}
}
