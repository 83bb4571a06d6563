package gen

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/absfs/encrust"
)

// LiteralKind is the Go type a literal is embedded as
type LiteralKind int

const (
	KindU8 LiteralKind = iota
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	KindString
	KindBytes
)

var literalKindNames = [...]string{
	KindU8:     "u8",
	KindU16:    "u16",
	KindU32:    "u32",
	KindU64:    "u64",
	KindI8:     "i8",
	KindI16:    "i16",
	KindI32:    "i32",
	KindI64:    "i64",
	KindString: "string",
	KindBytes:  "bytes",
}

// String returns the name accepted by ParseLiteralKind
func (k LiteralKind) String() string {
	if k < 0 || int(k) >= len(literalKindNames) {
		return "unknown"
	}
	return literalKindNames[k]
}

// GoType returns the Go type the literal is declared with
func (k LiteralKind) GoType() string {
	switch k {
	case KindU8:
		return "uint8"
	case KindU16:
		return "uint16"
	case KindU32:
		return "uint32"
	case KindU64:
		return "uint64"
	case KindI8:
		return "int8"
	case KindI16:
		return "int16"
	case KindI32:
		return "int32"
	case KindI64:
		return "int64"
	case KindString:
		return "string"
	case KindBytes:
		return "[]byte"
	default:
		return ""
	}
}

// bits returns the width of integer kinds, 0 otherwise
func (k LiteralKind) bits() int {
	switch k {
	case KindU8, KindI8:
		return 8
	case KindU16, KindI16:
		return 16
	case KindU32, KindI32:
		return 32
	case KindU64, KindI64:
		return 64
	default:
		return 0
	}
}

func (k LiteralKind) signed() bool {
	return k >= KindI8 && k <= KindI64
}

// ParseLiteralKind converts a kind name such as "u32" or "string"
func ParseLiteralKind(name string) (LiteralKind, error) {
	name = strings.ToLower(name)
	for kind, n := range literalKindNames {
		if n == name {
			return LiteralKind(kind), nil
		}
	}
	return 0, &encrust.ValidationError{
		Field:   "type",
		Value:   name,
		Message: "unknown literal type",
		Err:     ErrUnknownKind,
	}
}

// HashKind selects how a hashed value is compared at run time
type HashKind int

const (
	HashString HashKind = iota
	HashStringCaseInsensitive
	HashBytes
)

// String returns the name accepted by ParseHashKind
func (k HashKind) String() string {
	switch k {
	case HashString:
		return "string"
	case HashStringCaseInsensitive:
		return "string-ci"
	case HashBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// ParseHashKind converts "string", "string-ci" or "bytes"
func ParseHashKind(name string) (HashKind, error) {
	switch strings.ToLower(name) {
	case "", "string":
		return HashString, nil
	case "string-ci", "ci":
		return HashStringCaseInsensitive, nil
	case "bytes":
		return HashBytes, nil
	default:
		return 0, &encrust.ValidationError{
			Field:   "type",
			Value:   name,
			Message: "unknown hash type",
			Err:     ErrUnknownKind,
		}
	}
}

// parseInteger parses value as an integer of kind, accepting Go literal
// prefixes such as 0x and underscores
func parseInteger(kind LiteralKind, value string) (uint64, error) {
	if kind.signed() {
		v, err := strconv.ParseInt(value, 0, kind.bits())
		if err != nil {
			return 0, err
		}
		return uint64(v), nil
	}
	return strconv.ParseUint(value, 0, kind.bits())
}

// parseBytes decodes a hex string, ignoring spaces, colons and a 0x prefix
func parseBytes(value string) ([]byte, error) {
	value = strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
	value = strings.NewReplacer(" ", "", ":", "", "\n", "", "\t", "").Replace(value)
	return hex.DecodeString(value)
}
