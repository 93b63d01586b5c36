package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Header field offsets within the fixed 96-byte block. Fields not listed
// here are reserved and written as zero; their semantics are unknown and
// readers must not depend on them.
const (
	// HeaderSize is the fixed size of the container header.
	HeaderSize = 96

	offMajorVersion  = 4
	offMinorVersion  = 8
	offIndexCount    = 36
	offIndexSize     = 44
	offIndexPosition = 64

	// FormatMajor and FormatMinor are the container version this package
	// reads and writes.
	FormatMajor uint32 = 2
	FormatMinor uint32 = 1
)

// Magic identifies a DBPF container.
var Magic = [4]byte{'D', 'B', 'P', 'F'}

// Header is the parsed fixed-size container header.
type Header struct {
	Major         uint32
	Minor         uint32
	IndexCount    uint32 // number of index rows
	IndexSize     uint32 // index size in bytes, including the flags word
	IndexPosition uint32 // absolute offset of the index
}

// ParseHeader decodes the 96-byte header block.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, have %d", ErrFormat, HeaderSize, len(b))
	}
	if !bytes.Equal(b[:4], Magic[:]) {
		return Header{}, fmt.Errorf("%w: got %q", ErrBadMagic, b[:4])
	}
	h := Header{
		Major:         binary.LittleEndian.Uint32(b[offMajorVersion:]),
		Minor:         binary.LittleEndian.Uint32(b[offMinorVersion:]),
		IndexCount:    binary.LittleEndian.Uint32(b[offIndexCount:]),
		IndexSize:     binary.LittleEndian.Uint32(b[offIndexSize:]),
		IndexPosition: binary.LittleEndian.Uint32(b[offIndexPosition:]),
	}
	if h.Major != FormatMajor {
		return Header{}, fmt.Errorf("%w: unsupported version %d.%d", ErrFormat, h.Major, h.Minor)
	}
	return h, nil
}

// EncodeHeader produces the 96-byte header block. Reserved regions are zero.
func EncodeHeader(h Header) []byte {
	b := make([]byte, HeaderSize)
	copy(b, Magic[:])
	binary.LittleEndian.PutUint32(b[offMajorVersion:], h.Major)
	binary.LittleEndian.PutUint32(b[offMinorVersion:], h.Minor)
	binary.LittleEndian.PutUint32(b[offIndexCount:], h.IndexCount)
	binary.LittleEndian.PutUint32(b[offIndexSize:], h.IndexSize)
	binary.LittleEndian.PutUint32(b[offIndexPosition:], h.IndexPosition)
	return b
}
