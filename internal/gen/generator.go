// Package gen produces Go source embedding masked literals and keyed digests,
// so secrets reach the compiled binary only in obfuscated form.
package gen

import (
	"fmt"
	"go/token"
	"io"
	"os"

	"github.com/absfs/absfs"
	"go.uber.org/zap"

	"github.com/absfs/encrust"
)

// Generator collects declarations and renders them as one Go source file
type Generator struct {
	fs        absfs.FileSystem
	seeds     encrust.SeedSource
	keystream encrust.KeystreamSuite
	digest    encrust.DigestSuite
	pkg       string
	logger    *zap.Logger

	decls []decl
	names map[string]bool
}

// decl is one rendered declaration. It never holds plaintext.
type decl struct {
	name string
	expr string
}

// New creates a generator. Seeds defaults to encrust.CryptoSeedSource and
// logger to a no-op logger. fs is used by AddFile and WriteFile.
func New(cfg *Config, fs absfs.FileSystem, seeds encrust.SeedSource, logger *zap.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ks, ds, err := cfg.Suites()
	if err != nil {
		return nil, err
	}
	if seeds == nil {
		seeds = encrust.CryptoSeedSource{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Generator{
		fs:        fs,
		seeds:     seeds,
		keystream: ks,
		digest:    ds,
		pkg:       cfg.Package,
		logger:    logger,
		names:     make(map[string]bool),
	}, nil
}

// Len returns the number of declarations collected so far
func (g *Generator) Len() int {
	return len(g.decls)
}

// AddLiteral masks value, parsed as kind, and declares it as name. Integers
// accept Go literal syntax (0x, 0b, underscores); bytes are hex encoded.
func (g *Generator) AddLiteral(name string, kind LiteralKind, value string) error {
	if err := g.checkName(name); err != nil {
		return err
	}

	var expr string
	var err error
	switch kind {
	case KindString:
		expr, err = g.maskString(value)
	case KindBytes:
		b, perr := parseBytes(value)
		if perr != nil {
			return invalidValue(name, kind, perr)
		}
		expr, err = g.maskBytes(b)
		wipe(b)
	default:
		if kind.bits() == 0 {
			return &encrust.ValidationError{Field: name, Value: kind, Message: "unknown literal type", Err: ErrUnknownKind}
		}
		v, perr := parseInteger(kind, value)
		if perr != nil {
			return invalidValue(name, kind, perr)
		}
		expr, err = g.maskInteger(kind, v)
	}
	if err != nil {
		return err
	}

	g.add(name, expr)
	g.logger.Debug("added literal", zap.String("name", name), zap.Stringer("type", kind))
	return nil
}

// AddFile masks the contents of the file at path and declares them as name,
// as a string or as a byte slice
func (g *Generator) AddFile(name, path string, asBytes bool) error {
	if err := g.checkName(name); err != nil {
		return err
	}
	if g.fs == nil {
		return encrust.NewValidationError("fs", nil, "no filesystem configured")
	}

	content, err := readFile(g.fs, path)
	if err != nil {
		return err
	}
	defer wipe(content)

	var expr string
	if asBytes {
		expr, err = g.maskBytes(content)
	} else {
		expr, err = g.maskString(string(content))
	}
	if err != nil {
		return err
	}

	g.add(name, expr)
	g.logger.Debug("added file",
		zap.String("name", name),
		zap.String("path", path),
		zap.Int("bytes", len(content)))
	return nil
}

// AddHash declares name as the keyed digest of value. Bytes are hex encoded.
func (g *Generator) AddHash(name string, kind HashKind, value string) error {
	if err := g.checkName(name); err != nil {
		return err
	}

	var raw []byte
	switch kind {
	case HashString, HashStringCaseInsensitive:
	case HashBytes:
		b, err := parseBytes(value)
		if err != nil {
			return &encrust.ValidationError{Field: name, Value: kind.String(), Message: err.Error(), Err: ErrInvalidValue}
		}
		raw = b
		defer wipe(raw)
	default:
		return &encrust.ValidationError{Field: name, Value: kind, Message: "unknown hash type", Err: ErrUnknownKind}
	}

	seed, err := g.seeds.Seed()
	if err != nil {
		return err
	}

	var expr string
	if kind == HashBytes {
		h := encrust.NewHashbytesWithSuite(g.digest, raw, seed)
		expr = fmt.Sprintf("encrust.HashbytesFromRaw(encrust.%s, %#x, %#x, %d)",
			g.digest.GoName(), h.RawValue(), h.Seed(), h.Len())
	} else {
		sens := encrust.CaseSensitive
		if kind == HashStringCaseInsensitive {
			sens = encrust.CaseInsensitive
		}
		h := encrust.NewHashstringWithSuite(g.digest, value, seed, sens)
		expr = fmt.Sprintf("encrust.HashstringFromRaw(encrust.%s, %#x, %#x, %d, encrust.%s)",
			g.digest.GoName(), h.RawValue(), h.Seed(), h.Len(), sens.GoName())
	}

	g.add(name, expr)
	g.logger.Debug("added hash", zap.String("name", name), zap.Stringer("type", kind))
	return nil
}

// WriteTo writes the formatted source to w
func (g *Generator) WriteTo(w io.Writer) (int64, error) {
	src, err := g.Source()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(src)
	return int64(n), err
}

// WriteFile writes the formatted source to path on the generator's filesystem
func (g *Generator) WriteFile(path string) error {
	if g.fs == nil {
		return encrust.NewValidationError("fs", nil, "no filesystem configured")
	}

	src, err := g.Source()
	if err != nil {
		return err
	}

	f, err := g.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.Write(src); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	g.logger.Info("wrote generated source",
		zap.String("path", path),
		zap.Int("declarations", len(g.decls)))
	return nil
}

func (g *Generator) checkName(name string) error {
	if !token.IsIdentifier(name) {
		return &encrust.ValidationError{Field: "name", Value: name, Message: "name must be a Go identifier", Err: ErrInvalidName}
	}
	if g.names[name] {
		return &encrust.ValidationError{Field: "name", Value: name, Message: "duplicate declaration", Err: ErrDuplicateName}
	}
	return nil
}

func (g *Generator) add(name, expr string) {
	g.names[name] = true
	g.decls = append(g.decls, decl{name: name, expr: expr})
}

func invalidValue(name string, kind LiteralKind, err error) error {
	return &encrust.ValidationError{
		Field:   name,
		Value:   kind.String(),
		Message: err.Error(),
		Err:     ErrInvalidValue,
	}
}

func readFile(fs absfs.FileSystem, path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return content, nil
}
