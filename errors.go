package dbpf

import (
	"errors"
	"fmt"

	"github.com/plumbob/dbpf/internal/codec"
	"github.com/plumbob/dbpf/internal/wire"
)

// Format errors re-exported from the wire and codec packages. All of them
// match ErrFormat under errors.Is.
var (
	// ErrFormat is the class error for malformed container or record bytes.
	ErrFormat = wire.ErrFormat

	// ErrBadMagic is returned by Open when the stream does not start with "DBPF".
	ErrBadMagic = wire.ErrBadMagic

	// ErrTruncatedIndex is returned by Open when the index cannot be read
	// to completion.
	ErrTruncatedIndex = wire.ErrTruncatedIndex

	// ErrTooShort is returned when compressed data is shorter than the
	// minimum valid stream header.
	ErrTooShort = codec.ErrTooShort

	// ErrUnknownCompression is returned when compressed data carries no
	// recognized signature.
	ErrUnknownCompression = codec.ErrUnknownCompression
)

// Usage errors report caller-contract violations. All of them match
// ErrUsage under errors.Is.
var (
	// ErrUsage is the class error for caller-contract violations.
	ErrUsage = errors.New("dbpf: usage error")

	// ErrKeyExists is returned by AddResource when the key already has a
	// live entry.
	ErrKeyExists = fmt.Errorf("%w: resource key already exists", ErrUsage)

	// ErrForeignEntry is returned when an entry is passed to a package it
	// does not belong to.
	ErrForeignEntry = fmt.Errorf("%w: entry does not belong to this package", ErrUsage)

	// ErrEntryDeleted is returned when mutating or reading an entry that
	// has been deleted.
	ErrEntryDeleted = fmt.Errorf("%w: entry is deleted", ErrUsage)
)

// ErrPackageTooLarge is returned by SaveTo when the container would exceed
// the 4 GiB limit imposed by its 32-bit offset fields.
var ErrPackageTooLarge = errors.New("dbpf: package exceeds 4 GiB offset limit")
