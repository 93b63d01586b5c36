package dbpf

import (
	"io"

	"github.com/plumbob/dbpf/internal/wire"
)

// ResourceKey identifies one logical record by type, group, and instance.
//
// ResourceKey is an immutable value type; equality and map hashing are
// structural over all three fields. Within a package, a key identifies at
// most one live entry at a time.
type ResourceKey = wire.ResourceKey

// KeySize is the serialized size of a resource key in either ordering.
const KeySize = wire.KeySize

// Two serialized orderings of a resource key exist in the wild: TGI
// (type, group, instance) and ITG (instance, type, group). Individual
// record formats pick one per format; the container index uses neither,
// encoding keys through its own flag-driven layout instead.

// AppendTGI appends the 16-byte type-group-instance form of k to dst.
func AppendTGI(dst []byte, k ResourceKey) []byte { return wire.AppendTGI(dst, k) }

// ParseTGI decodes a key from its type-group-instance form.
func ParseTGI(b []byte) (ResourceKey, error) { return wire.ParseTGI(b) }

// AppendITG appends the 16-byte instance-type-group form of k to dst.
func AppendITG(dst []byte, k ResourceKey) []byte { return wire.AppendITG(dst, k) }

// ParseITG decodes a key from its instance-type-group form.
func ParseITG(b []byte) (ResourceKey, error) { return wire.ParseITG(b) }

// WriteTGI writes the type-group-instance form of k to w.
func WriteTGI(w io.Writer, k ResourceKey) error { return wire.WriteTGI(w, k) }

// ReadTGI reads a key in type-group-instance form from r.
func ReadTGI(r io.Reader) (ResourceKey, error) { return wire.ReadTGI(r) }

// WriteITG writes the instance-type-group form of k to w.
func WriteITG(w io.Writer, k ResourceKey) error { return wire.WriteITG(w, k) }

// ReadITG reads a key in instance-type-group form from r.
func ReadITG(r io.Reader) (ResourceKey, error) { return wire.ReadITG(r) }
