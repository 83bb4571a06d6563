package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"

	"github.com/awnumar/memguard"

	"github.com/absfs/encrust"
)

const header = "// Code generated by encrustgen. DO NOT EDIT.\n\n"

// Source renders the collected declarations as a gofmt-formatted Go file
func (g *Generator) Source() ([]byte, error) {
	if len(g.decls) == 0 {
		return nil, ErrNothingToWrite
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	fmt.Fprintf(&buf, "package %s\n\n", g.pkg)
	buf.WriteString("import \"github.com/absfs/encrust\"\n\n")

	buf.WriteString("var (\n")
	for _, d := range g.decls {
		fmt.Fprintf(&buf, "\t%s = %s\n", d.name, d.expr)
	}
	buf.WriteString(")\n")

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated source: %w", err)
	}
	return src, nil
}

// maskString masks a copy of s and renders the wrapping expression
func (g *Generator) maskString(s string) (string, error) {
	seed, err := g.seeds.Seed()
	if err != nil {
		return "", err
	}

	masked := s
	if err := encrust.ToggleMask(&masked, seed, g.keystream); err != nil {
		return "", err
	}
	return fmt.Sprintf("encrust.MustFromEncrusted(%s, %#x, encrust.%s)",
		escapedString([]byte(masked)), seed, g.keystream.GoName()), nil
}

// maskBytes masks a copy of b and renders the wrapping expression
func (g *Generator) maskBytes(b []byte) (string, error) {
	seed, err := g.seeds.Seed()
	if err != nil {
		return "", err
	}

	masked := bytes.Clone(b)
	if masked == nil {
		masked = []byte{}
	}
	if err := encrust.ToggleMask(&masked, seed, g.keystream); err != nil {
		return "", err
	}
	return fmt.Sprintf("encrust.MustFromEncrusted(%s, %#x, encrust.%s)",
		byteSlice(masked), seed, g.keystream.GoName()), nil
}

// maskInteger masks v as an integer of kind and renders the wrapping
// expression. Signed and unsigned kinds of one width mask identically.
func (g *Generator) maskInteger(kind LiteralKind, v uint64) (string, error) {
	seed, err := g.seeds.Seed()
	if err != nil {
		return "", err
	}

	var masked uint64
	switch kind.bits() {
	case 8:
		x := uint8(v)
		err = encrust.ToggleMask(&x, seed, g.keystream)
		masked = uint64(x)
	case 16:
		x := uint16(v)
		err = encrust.ToggleMask(&x, seed, g.keystream)
		masked = uint64(x)
	case 32:
		x := uint32(v)
		err = encrust.ToggleMask(&x, seed, g.keystream)
		masked = uint64(x)
	default:
		x := v
		err = encrust.ToggleMask(&x, seed, g.keystream)
		masked = x
	}
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("encrust.MustFromEncrusted(%s, %#x, encrust.%s)",
		integerExpr(kind, masked), seed, g.keystream.GoName()), nil
}

// integerExpr renders masked bits as a constant of the kind's Go type.
// Signed kinds are sign-extended from their width so the constant fits.
func integerExpr(kind LiteralKind, bits uint64) string {
	if !kind.signed() {
		return fmt.Sprintf("%s(%#x)", kind.GoType(), bits)
	}
	shift := 64 - kind.bits()
	v := int64(bits<<shift) >> shift
	return fmt.Sprintf("%s(%d)", kind.GoType(), v)
}

// escapedString renders b as an interpreted string literal made of \x escapes
func escapedString(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b)*4 + 2)
	sb.WriteByte('"')
	for _, c := range b {
		fmt.Fprintf(&sb, "\\x%02x", c)
	}
	sb.WriteByte('"')
	return sb.String()
}

// byteSlice renders b as a []byte composite literal
func byteSlice(b []byte) string {
	var sb strings.Builder
	sb.WriteString("[]byte{")
	for i, c := range b {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "0x%02x", c)
	}
	sb.WriteString("}")
	return sb.String()
}

// wipe overwrites plaintext held by the generator
func wipe(b []byte) {
	if len(b) > 0 {
		memguard.WipeBytes(b)
	}
}
