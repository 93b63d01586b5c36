package dbpf

// Resource is the contract every typed record implements.
//
// A resource is constructed either by parsing non-empty bytes or by
// default initialization when no bytes are supplied; a parse failure
// aborts construction, so a resource is never partially initialized.
//
// Bytes serializes fresh on every call from current in-memory state.
// Nothing is cached, so the returned bytes are always consistent with the
// latest mutation at the cost of repeated work on flat re-reads. Dirty is
// informational for higher layers (save-skipping); Bytes never consults it.
type Resource interface {
	// Key returns the resource key this record was constructed for.
	Key() ResourceKey

	// Bytes serializes the record's current in-memory state.
	Bytes() ([]byte, error)

	// Dirty reports whether the record has been mutated since construction
	// or the last ClearDirty.
	Dirty() bool

	// ClearDirty resets the dirty flag, typically after a save.
	ClearDirty()

	// Changed returns a channel that receives one signal per logical
	// mutation. The channel is never closed.
	Changed() <-chan struct{}
}

// ResourceBase carries the key, dirty flag, and change notification shared
// by every typed record. Concrete record types embed it and call
// MarkChanged from their mutators, once per logical mutation rather than
// once per field.
type ResourceBase struct {
	key     ResourceKey
	dirty   bool
	changed chan struct{}
}

// NewResourceBase initializes the base state for a record with the given key.
func NewResourceBase(key ResourceKey) ResourceBase {
	return ResourceBase{key: key, changed: make(chan struct{}, 1)}
}

// Key returns the resource key this record was constructed for.
func (r *ResourceBase) Key() ResourceKey { return r.key }

// Dirty reports whether MarkChanged has been called since construction or
// the last ClearDirty.
func (r *ResourceBase) Dirty() bool { return r.dirty }

// ClearDirty resets the dirty flag.
func (r *ResourceBase) ClearDirty() { r.dirty = false }

// Changed returns the change notification channel.
func (r *ResourceBase) Changed() <-chan struct{} { return r.changed }

// MarkChanged sets the dirty flag and signals the change channel. The send
// is non-blocking: a pending, unconsumed signal coalesces with later ones.
func (r *ResourceBase) MarkChanged() {
	r.dirty = true
	select {
	case r.changed <- struct{}{}:
	default:
	}
}

// RawResource wraps a record's bytes without interpretation. It backs the
// registry's default factory, guaranteeing that records with no registered
// handler still round-trip verbatim.
type RawResource struct {
	ResourceBase
	data []byte
}

// NewRawResource creates a raw record holding data. The record takes
// ownership of the slice.
func NewRawResource(key ResourceKey, data []byte) *RawResource {
	return &RawResource{ResourceBase: NewResourceBase(key), data: data}
}

// Bytes returns the wrapped data.
func (r *RawResource) Bytes() ([]byte, error) { return r.data, nil }

// SetData replaces the wrapped data. The record takes ownership of the slice.
func (r *RawResource) SetData(data []byte) {
	r.data = data
	r.MarkChanged()
}
