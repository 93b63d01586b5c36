// Package codec compresses and decompresses record payloads with the
// container's single supported scheme, a zlib deflate stream.
//
// Compress only commits to compression when it actually shrinks the
// payload; Decompress sniffs the stream signature rather than trusting
// the caller.
package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/plumbob/dbpf/internal/wire"
)

// signature is the first byte of every zlib stream.
const signature = 0x78

// minStream is the smallest input Decompress will look at: the two-byte
// zlib header. Anything shorter cannot carry a signature to sniff.
const minStream = 2

var (
	// ErrTooShort is returned when compressed data is shorter than the
	// minimum valid stream header.
	ErrTooShort = fmt.Errorf("%w: compressed data too short", wire.ErrFormat)

	// ErrUnknownCompression is returned when the leading bytes match no
	// recognized compression signature.
	ErrUnknownCompression = fmt.Errorf("%w: unknown compression", wire.ErrFormat)
)

// Compress encodes b with zlib and reports whether compression was used.
// The output is the original slice unchanged when b is empty or when the
// compressed form would not be smaller; callers must consult compressed
// rather than assume.
func Compress(b []byte) (out []byte, compressed bool) {
	return CompressLevel(b, zlib.BestCompression)
}

// CompressLevel is Compress with an explicit zlib compression level.
func CompressLevel(b []byte, level int) (out []byte, compressed bool) {
	if len(b) == 0 {
		return b, false
	}
	var buf bytes.Buffer
	buf.Grow(len(b))
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return b, false
	}
	if _, err := zw.Write(b); err != nil {
		return b, false
	}
	if err := zw.Close(); err != nil {
		return b, false
	}
	if buf.Len() >= len(b) {
		return b, false
	}
	return buf.Bytes(), true
}

// Decompress decodes a zlib stream into exactly expectedSize bytes.
func Decompress(b []byte, expectedSize int) ([]byte, error) {
	if len(b) < minStream {
		return nil, ErrTooShort
	}
	if b[0] != signature {
		return nil, ErrUnknownCompression
	}
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wire.ErrFormat, err)
	}
	defer zr.Close()

	out := make([]byte, expectedSize)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, fmt.Errorf("%w: short stream: %v", wire.ErrFormat, err)
	}
	// A well-formed entry decodes to exactly its recorded size.
	var extra [1]byte
	if n, _ := zr.Read(extra[:]); n != 0 {
		return nil, fmt.Errorf("%w: stream longer than recorded size", wire.ErrFormat)
	}
	return out, nil
}
