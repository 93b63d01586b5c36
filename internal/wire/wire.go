// Package wire defines the on-disk layout of a DBPF package: the resource
// key orderings, the 96-byte header, and the flag-driven index rows.
//
// All multi-byte fields are little-endian.
package wire

import (
	"errors"
	"fmt"
)

// Format-level errors. Every malformed-container failure wraps ErrFormat so
// callers can match the whole class with errors.Is.
var (
	// ErrFormat is the class error for malformed container or record bytes.
	ErrFormat = errors.New("dbpf: format error")

	// ErrBadMagic is returned when a stream does not start with "DBPF".
	ErrBadMagic = fmt.Errorf("%w: bad magic", ErrFormat)

	// ErrTruncatedIndex is returned when the index cannot be read to completion.
	ErrTruncatedIndex = fmt.Errorf("%w: truncated index", ErrFormat)
)

// Compression-type codes stored per index row. These select how an entry's
// bytes are stored; they are distinct from the zlib stream signature that
// the codec sniffs.
const (
	// CompressionNone marks an entry stored without compression.
	CompressionNone uint16 = 0x0000

	// CompressionZLib marks a zlib-compressed entry ("ZB").
	CompressionZLib uint16 = 0x5A42
)

// ResourceKey identifies one logical record by type, group, and instance.
//
// ResourceKey is a value type: equality and map hashing are structural over
// all three fields.
type ResourceKey struct {
	Type     uint32
	Group    uint32
	Instance uint64
}

// String formats the key in the conventional hex triple notation.
func (k ResourceKey) String() string {
	return fmt.Sprintf("%08X:%08X:%016X", k.Type, k.Group, k.Instance)
}
