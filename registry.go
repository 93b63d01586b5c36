package dbpf

import (
	"log/slog"
	"sync"
)

// DefaultTypeCode is the reserved type code a factory declares to become
// the registry's default (fallback) factory instead of being keyed.
const DefaultTypeCode uint32 = 0

// Factory constructs typed records for the type code(s) it declares.
//
// New receives the record's key and raw uncompressed bytes; empty bytes
// mean "construct with defaults". NewEmpty is the explicit default-
// construction form used when no stored bytes exist yet. Both fail with a
// data-format error when the bytes cannot be parsed; construction is
// atomic, so a failed New yields no record at all.
type Factory interface {
	// TypeCodes declares the resource type codes this factory handles.
	// Declaring DefaultTypeCode makes it a candidate default factory.
	TypeCodes() []uint32

	// New constructs a record from bytes, or from defaults when data is empty.
	New(key ResourceKey, data []byte) (Resource, error)

	// NewEmpty constructs a default-initialized record.
	NewEmpty(key ResourceKey) (Resource, error)
}

// RawFactory produces RawResource records. It is the built-in default
// factory: bytes pass through uninterpreted.
type RawFactory struct{}

// TypeCodes declares the default type code.
func (RawFactory) TypeCodes() []uint32 { return []uint32{DefaultTypeCode} }

// New wraps data verbatim.
func (RawFactory) New(key ResourceKey, data []byte) (Resource, error) {
	return NewRawResource(key, data), nil
}

// NewEmpty wraps an empty payload.
func (RawFactory) NewEmpty(key ResourceKey) (Resource, error) {
	return NewRawResource(key, nil), nil
}

// Registry maps resource type codes to factories.
//
// A Registry is an explicitly constructed instance rather than process
// state, so tests and hosts can build isolated registries. Population and
// lookup are safe to interleave from multiple goroutines.
type Registry struct {
	mu        sync.RWMutex
	factories map[uint32]Factory
	fallback  Factory
	logger    *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the logger used to report discovery skips.
func WithRegistryLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry creates an empty registry whose default factory is RawFactory.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		factories: make(map[uint32]Factory),
		fallback:  RawFactory{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) log() *slog.Logger {
	if r.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.logger
}

// Register binds code to f unless a factory is already registered for it.
// It reports whether the binding took effect (first writer wins).
// Registering DefaultTypeCode targets the default factory.
func (r *Registry) Register(code uint32, f Factory) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if code == DefaultTypeCode {
		// The built-in raw fallback is replaceable exactly once through
		// Register; use RegisterOrReplace to swap it again.
		if _, isRaw := r.fallback.(RawFactory); !isRaw {
			return false
		}
		r.fallback = f
		return true
	}
	if _, ok := r.factories[code]; ok {
		return false
	}
	r.factories[code] = f
	return true
}

// RegisterOrReplace binds code to f, overwriting any existing binding.
func (r *Registry) RegisterOrReplace(code uint32, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if code == DefaultTypeCode {
		r.fallback = f
		return
	}
	r.factories[code] = f
}

// Factory returns the factory registered for code, if any.
func (r *Registry) Factory(code uint32) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[code]
	return f, ok
}

// FactoryOrDefault returns the factory registered for code, falling back
// to the default factory. It never returns nil.
func (r *Registry) FactoryOrDefault(code uint32) Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.factories[code]; ok {
		return f
	}
	return r.fallback
}

// DefaultFactory returns the current default factory.
func (r *Registry) DefaultFactory() Factory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// Len returns the number of keyed factories (the default is not counted).
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}

// Discover registers each candidate factory under every type code it
// declares. A candidate declaring DefaultTypeCode becomes the new default
// factory. Candidates that are nil or declare no type codes are skipped
// and discovery continues: one bad handler must not block the rest, and
// the default factory keeps every record type representable regardless.
// It returns the number of bindings that took effect.
func (r *Registry) Discover(candidates ...Factory) int {
	registered := 0
	for _, f := range candidates {
		if f == nil {
			r.log().Debug("discovery skipped nil factory")
			continue
		}
		codes := f.TypeCodes()
		if len(codes) == 0 {
			r.log().Debug("discovery skipped factory with no type codes", "factory", f)
			continue
		}
		for _, code := range codes {
			if code == DefaultTypeCode {
				r.RegisterOrReplace(DefaultTypeCode, f)
				registered++
				continue
			}
			if r.Register(code, f) {
				registered++
			} else {
				r.log().Debug("discovery skipped duplicate type code", "type", code)
			}
		}
	}
	return registered
}
