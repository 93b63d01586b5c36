package dbpf

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"

	"golang.org/x/sync/singleflight"

	"github.com/plumbob/dbpf/internal/codec"
	"github.com/plumbob/dbpf/internal/wire"
)

// Package is an open DBPF container.
//
// Opening parses the header and index eagerly; record bytes stay in the
// backing stream until read. Mutations (AddResource, ReplaceResource,
// DeleteResource) are staged in memory and only reach disk through SaveTo.
//
// A Package is safe for concurrent reads: Find, Entries, and ResourceData
// may be called from multiple goroutines, and concurrent reads of the
// same unchanged entry are deduplicated. Mutating calls and SaveTo
// require external serialization by the caller.
type Package struct {
	entries []*Entry               // insertion order, tombstones included
	byKey   map[ResourceKey]*Entry // live entries only

	src       io.ReaderAt // nil for fresh packages
	leaveOpen bool
	closed    bool

	readGroup singleflight.Group
	logger    *slog.Logger
	level     int
}

// New creates an empty package. It needs no backing stream until saved.
func New(opts ...Option) *Package {
	p := &Package{
		byKey: make(map[ResourceKey]*Entry),
		level: defaultCompressionLevel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Package) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger
}

// Open reads a package from src, which must cover size bytes. The header
// and index are parsed eagerly; record bytes are read lazily.
//
// The package owns the stream: Close releases it (when it implements
// io.Closer), as does a failed Open. WithLeaveOpen borrows the stream
// instead, leaving its lifetime to the caller.
func Open(src io.ReaderAt, size int64, opts ...Option) (*Package, error) {
	p := New(opts...)
	p.src = src
	if err := p.parse(size); err != nil {
		if !p.leaveOpen {
			if c, ok := src.(io.Closer); ok {
				c.Close()
			}
		}
		return nil, err
	}
	return p, nil
}

// OpenFile opens the package file at path. The returned package owns the
// file handle and releases it on Close.
func OpenFile(path string, opts ...Option) (*Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return Open(f, info.Size(), opts...)
}

// parse reads the header and the full index.
func (p *Package) parse(size int64) error {
	if size < wire.HeaderSize {
		return fmt.Errorf("%w: file shorter than header", ErrFormat)
	}
	hdr := make([]byte, wire.HeaderSize)
	if _, err := p.src.ReadAt(hdr, 0); err != nil {
		return fmt.Errorf("dbpf: read header: %w", err)
	}
	h, err := wire.ParseHeader(hdr)
	if err != nil {
		return err
	}

	if h.IndexCount == 0 {
		p.log().Debug("opened empty package")
		return nil
	}
	if int64(h.IndexPosition)+int64(h.IndexSize) > size {
		return ErrTruncatedIndex
	}
	raw := make([]byte, h.IndexSize)
	if _, err := p.src.ReadAt(raw, int64(h.IndexPosition)); err != nil {
		return fmt.Errorf("%w: %v", ErrTruncatedIndex, err)
	}
	rows, err := wire.DecodeIndex(raw, int(h.IndexCount))
	if err != nil {
		return err
	}

	for _, row := range rows {
		e := &Entry{
			key:        row.Key,
			pkg:        p,
			state:      stateStored,
			offset:     row.Offset,
			storedSize: row.StoredSize,
			memSize:    row.MemSize,
			compressed: row.Compressed,
		}
		p.entries = append(p.entries, e)
		p.byKey[e.key] = e
	}
	p.log().Debug("opened package", "resources", len(p.entries))
	return nil
}

// Close releases the backing stream unless the package was opened with
// WithLeaveOpen or created fresh. Close is idempotent.
func (p *Package) Close() error {
	if p.closed || p.src == nil || p.leaveOpen {
		p.closed = true
		return nil
	}
	p.closed = true
	if c, ok := p.src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Find returns the live entry for key, if any. Deleted entries are not found.
func (p *Package) Find(key ResourceKey) (*Entry, bool) {
	e, ok := p.byKey[key]
	return e, ok
}

// Len returns the number of live (non-deleted) resources.
func (p *Package) Len() int { return len(p.byKey) }

// Entries returns an iterator over the live entries in insertion order.
func (p *Package) Entries() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for _, e := range p.entries {
			if e.state == stateDeleted {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// AddResource creates a new entry for key holding data. The entry takes
// exclusive ownership of the slice. Adding a key that already has a live
// entry is a caller error (ErrKeyExists); delete the old entry first.
func (p *Package) AddResource(key ResourceKey, data []byte) (*Entry, error) {
	if _, ok := p.byKey[key]; ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyExists, key)
	}
	if uint64(len(data)) > maxResourceSize {
		return nil, ErrPackageTooLarge
	}
	e := &Entry{
		key:     key,
		pkg:     p,
		state:   stateReplaced,
		memSize: uint32(len(data)),
		data:    data,
	}
	p.entries = append(p.entries, e)
	p.byKey[key] = e
	return e, nil
}

// ReplaceResource overwrites the entry's bytes in memory, dropping any
// reference to its on-disk location. The key is unchanged. The entry
// takes exclusive ownership of the slice.
func (p *Package) ReplaceResource(e *Entry, data []byte) error {
	if err := p.checkOwned(e); err != nil {
		return err
	}
	if uint64(len(data)) > maxResourceSize {
		return ErrPackageTooLarge
	}
	e.state = stateReplaced
	e.data = data
	e.memSize = uint32(len(data))
	e.offset = 0
	e.storedSize = 0
	e.compressed = false
	return nil
}

// DeleteResource tombstones the entry: Find no longer returns its key,
// the next save excludes it, and a later AddResource with the same key
// creates a fresh entry.
func (p *Package) DeleteResource(e *Entry) error {
	if err := p.checkOwned(e); err != nil {
		return err
	}
	e.state = stateDeleted
	e.data = nil
	delete(p.byKey, e.key)
	return nil
}

// ResourceData returns the entry's uncompressed bytes regardless of
// storage state: replaced entries return their held buffer directly,
// unchanged entries are read from the backing stream and decompressed on
// demand. Concurrent reads of the same unchanged entry are deduplicated.
func (p *Package) ResourceData(e *Entry) ([]byte, error) {
	if err := p.checkOwned(e); err != nil {
		return nil, err
	}
	if e.state == stateReplaced {
		return e.data, nil
	}

	v, err, _ := p.readGroup.Do(e.key.String(), func() (any, error) {
		return p.readStored(e)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// readStored reads one unchanged entry from the backing stream.
func (p *Package) readStored(e *Entry) ([]byte, error) {
	if p.src == nil {
		return nil, fmt.Errorf("%w: entry has no backing stream", ErrUsage)
	}
	raw := make([]byte, e.storedSize)
	if _, err := p.src.ReadAt(raw, int64(e.offset)); err != nil {
		return nil, fmt.Errorf("dbpf: read %s: %w", e.key, err)
	}
	if !e.compressed {
		return raw, nil
	}
	data, err := codec.Decompress(raw, int(e.memSize))
	if err != nil {
		return nil, fmt.Errorf("dbpf: decompress %s: %w", e.key, err)
	}
	return data, nil
}

// OpenResource constructs a typed record for the entry: the entry's bytes
// are read, then dispatched through reg by the key's type code, falling
// back to the raw wrapper when no factory is registered. Parse failures
// propagate from the record's own parser.
func (p *Package) OpenResource(e *Entry, reg *Registry) (Resource, error) {
	data, err := p.ResourceData(e)
	if err != nil {
		return nil, err
	}
	return reg.FactoryOrDefault(e.key.Type).New(e.key, data)
}

// checkOwned rejects entries that do not belong to this package or have
// been tombstoned. Both are caller-contract violations.
func (p *Package) checkOwned(e *Entry) error {
	if e == nil || e.pkg != p {
		return ErrForeignEntry
	}
	if e.state == stateDeleted {
		return fmt.Errorf("%w: %s", ErrEntryDeleted, e.key)
	}
	return nil
}
