// Package main implements encrustgen, which writes Go source embedding
// secrets as masked literals and keyed digests.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/absfs/absfs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/absfs/encrust"
	"github.com/absfs/encrust/internal/gen"
)

var version = "dev"

func main() {
	if err := newRootCmd(osFS{}, encrust.CryptoSeedSource{}).Execute(); err != nil {
		os.Exit(1)
	}
}

// options holds the flag values of one invocation
type options struct {
	configPath string
	pkg        string
	output     string
	keystream  string
	digest     string
	verbose    bool

	literals []string
	files    []string
	hashes   []string
}

func newRootCmd(fs absfs.FileSystem, seeds encrust.SeedSource) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "encrustgen",
		Short: "Generate Go source with masked secrets",
		Long: `encrustgen writes a Go file declaring secrets as masked constants.
The plaintext never appears in the generated source or the compiled binary;
it is unmasked only while the program holds an exposure guard.

Declarations are given as NAME[:TYPE]=VALUE and may be repeated.

Examples:
  # Embed an API key and a port
  encrustgen --literal APIKey=sk-live-123 --literal Port:u16=8443 -o secrets_gen.go

  # Embed a certificate file as bytes
  encrustgen --file Cert:bytes=certs/server.pem --package certs

  # Embed only a digest, for matching without storing the value
  encrustgen --hash Admin:string-ci=root`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, fs, seeds)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	flags.StringVarP(&opts.pkg, "package", "p", "", "package name of the generated file")
	flags.StringVarP(&opts.output, "output", "o", "", `output path, "-" for stdout`)
	flags.StringVar(&opts.keystream, "keystream", "", "keystream suite (xoshiro256++, chacha8, chacha20)")
	flags.StringVar(&opts.digest, "digest", "", "digest suite (xxh64, blake2b)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringArrayVar(&opts.literals, "literal", nil, "NAME[:u8|u16|u32|u64|i8|i16|i32|i64|string|bytes]=VALUE")
	flags.StringArrayVar(&opts.files, "file", nil, "NAME[:string|bytes]=PATH")
	flags.StringArrayVar(&opts.hashes, "hash", nil, "NAME[:string|string-ci|bytes]=VALUE")

	cmd.AddCommand(newSuitesCmd())
	return cmd
}

func newSuitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suites",
		Short: "List keystream and digest suites",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "keystream:")
			for _, s := range []encrust.KeystreamSuite{encrust.KeystreamXoshiro256, encrust.KeystreamChaCha8, encrust.KeystreamChaCha20} {
				fmt.Fprintf(out, "  %s\n", s)
			}
			fmt.Fprintln(out, "digest:")
			for _, s := range []encrust.DigestSuite{encrust.DigestXXH64, encrust.DigestBLAKE2b} {
				fmt.Fprintf(out, "  %s\n", s)
			}
		},
	}
}

func run(cmd *cobra.Command, opts *options, fs absfs.FileSystem, seeds encrust.SeedSource) error {
	logger, err := newLogger(opts.verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := gen.LoadConfig(fs, opts.configPath)
	if err != nil {
		return err
	}

	// Flags override the file and the environment
	flags := cmd.Flags()
	if flags.Changed("package") {
		cfg.Package = opts.pkg
	}
	if flags.Changed("output") {
		cfg.Output = opts.output
	}
	if flags.Changed("keystream") {
		cfg.Keystream = opts.keystream
	}
	if flags.Changed("digest") {
		cfg.Digest = opts.digest
	}

	g, err := gen.New(cfg, fs, seeds, logger)
	if err != nil {
		return err
	}

	for _, arg := range opts.literals {
		name, typ, value, err := splitDecl(arg)
		if err != nil {
			return err
		}
		kind := gen.KindString
		if typ != "" {
			if kind, err = gen.ParseLiteralKind(typ); err != nil {
				return err
			}
		}
		if err := g.AddLiteral(name, kind, value); err != nil {
			return err
		}
	}

	for _, arg := range opts.files {
		name, typ, path, err := splitDecl(arg)
		if err != nil {
			return err
		}
		var asBytes bool
		switch typ {
		case "", "string":
		case "bytes":
			asBytes = true
		default:
			return encrust.NewValidationError("file", typ, "file type must be string or bytes")
		}
		if err := g.AddFile(name, path, asBytes); err != nil {
			return err
		}
	}

	for _, arg := range opts.hashes {
		name, typ, value, err := splitDecl(arg)
		if err != nil {
			return err
		}
		kind, err := gen.ParseHashKind(typ)
		if err != nil {
			return err
		}
		if err := g.AddHash(name, kind, value); err != nil {
			return err
		}
	}

	if g.Len() == 0 {
		return fmt.Errorf("%w: pass at least one of --literal, --file or --hash", gen.ErrNothingToWrite)
	}

	if cfg.Output == "-" {
		_, err = g.WriteTo(cmd.OutOrStdout())
		return err
	}
	return g.WriteFile(cfg.Output)
}

// splitDecl splits NAME[:TYPE]=VALUE. The value may itself contain '=' or ':'.
func splitDecl(arg string) (name, typ, value string, err error) {
	left, value, ok := strings.Cut(arg, "=")
	if !ok {
		return "", "", "", encrust.NewValidationError("declaration", arg, "expected NAME[:TYPE]=VALUE")
	}
	name, typ, _ = strings.Cut(left, ":")
	return name, typ, value, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return config.Build()
}
