package gen

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"strings"

	"github.com/absfs/absfs"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/absfs/encrust"
)

// EnvPrefix prefixes environment variables that override the config file
const EnvPrefix = "ENCRUSTGEN_"

// maxConfigFileSize bounds the config file read
const maxConfigFileSize = 1024 * 1024

// Sentinel errors
var (
	ErrInvalidName    = errors.New("not a valid Go identifier")
	ErrDuplicateName  = errors.New("name already declared")
	ErrUnknownKind    = errors.New("unknown kind")
	ErrInvalidValue   = errors.New("value does not fit the kind")
	ErrNothingToWrite = errors.New("no declarations")
)

// Config contains the generator settings
type Config struct {
	Package   string `koanf:"package"`   // package clause of the generated file
	Output    string `koanf:"output"`    // output path, "-" for stdout
	Keystream string `koanf:"keystream"` // keystream suite name
	Digest    string `koanf:"digest"`    // digest suite name
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() *Config {
	return &Config{
		Package:   "secrets",
		Output:    "-",
		Keystream: encrust.KeystreamXoshiro256.String(),
		Digest:    encrust.DigestXXH64.String(),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c == nil {
		return encrust.ErrNilConfig
	}
	if !token.IsIdentifier(c.Package) {
		return &encrust.ValidationError{
			Field:   "package",
			Value:   c.Package,
			Message: "package name must be a Go identifier",
			Err:     ErrInvalidName,
		}
	}
	if c.Output == "" {
		return encrust.NewValidationError("output", c.Output, "output path cannot be empty")
	}
	if _, err := encrust.ParseKeystreamSuite(c.Keystream); err != nil {
		return err
	}
	if _, err := encrust.ParseDigestSuite(c.Digest); err != nil {
		return err
	}
	return nil
}

// Suites resolves the configured suite names
func (c *Config) Suites() (encrust.KeystreamSuite, encrust.DigestSuite, error) {
	ks, err := encrust.ParseKeystreamSuite(c.Keystream)
	if err != nil {
		return 0, 0, err
	}
	ds, err := encrust.ParseDigestSuite(c.Digest)
	if err != nil {
		return 0, 0, err
	}
	return ks, ds, nil
}

// LoadConfig loads the YAML file at path from fs, if path is not empty, then
// applies ENCRUSTGEN_* environment overrides on top.
//
// Precedence (highest to lowest):
//  1. Environment variables (ENCRUSTGEN_PACKAGE, ENCRUSTGEN_KEYSTREAM, ...)
//  2. YAML config file
//  3. DefaultConfig
func LoadConfig(fs absfs.FileSystem, path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(fs, path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// ENCRUSTGEN_KEYSTREAM -> keystream
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// applyDefaults fills fields that were set to empty values
func applyDefaults(cfg *Config) {
	def := DefaultConfig()
	if cfg.Package == "" {
		cfg.Package = def.Package
	}
	if cfg.Output == "" {
		cfg.Output = def.Output
	}
	if cfg.Keystream == "" {
		cfg.Keystream = def.Keystream
	}
	if cfg.Digest == "" {
		cfg.Digest = def.Digest
	}
}

func readConfigFile(fs absfs.FileSystem, path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s is larger than %d bytes", path, maxConfigFileSize)
	}

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}
