package dbpf

// entryState tracks an entry's in-memory override.
type entryState uint8

const (
	// stateStored: unchanged since open; bytes live in the backing stream
	// at the recorded offset.
	stateStored entryState = iota

	// stateReplaced: the entry owns new uncompressed bytes, compressed at
	// save time.
	stateReplaced

	// stateDeleted: tombstoned; excluded from lookups and the next save.
	stateDeleted
)

// Entry is one catalog row of a package: a resource key plus storage
// location, size, and compression metadata.
//
// Entries are created by Open (one per index row) or by AddResource, and
// handed out by Find and Entries. Mutations go through the owning
// package's ReplaceResource and DeleteResource; a freshly constructed or
// foreign Entry is rejected there, which prevents stale-handle mutation.
// Deleted entries stay in the catalog as tombstones until the next save,
// keeping undo cheap and save-time enumeration correct.
type Entry struct {
	key ResourceKey
	pkg *Package

	state entryState

	// Valid only while state == stateStored.
	offset     uint32
	storedSize uint32
	compressed bool

	memSize uint32

	// Owned uncompressed bytes while state == stateReplaced.
	data []byte
}

// Key returns the entry's resource key.
func (e *Entry) Key() ResourceKey { return e.key }

// UncompressedSize returns the size of the entry's uncompressed bytes.
func (e *Entry) UncompressedSize() uint32 { return e.memSize }

// Compressed reports whether the entry's bytes are stored compressed in
// the backing stream. It is false for entries replaced in memory, whose
// compression is re-decided at save time.
func (e *Entry) Compressed() bool { return e.state == stateStored && e.compressed }

// Deleted reports whether the entry has been tombstoned.
func (e *Entry) Deleted() bool { return e.state == stateDeleted }

// Modified reports whether the entry's bytes live in memory rather than
// the backing stream.
func (e *Entry) Modified() bool { return e.state == stateReplaced }
