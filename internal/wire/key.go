package wire

import (
	"encoding/binary"
	"fmt"
	"io"
)

// KeySize is the serialized size of a resource key in either ordering.
const KeySize = 16

// AppendTGI appends the key in type-group-instance order.
func AppendTGI(dst []byte, k ResourceKey) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, k.Type)
	dst = binary.LittleEndian.AppendUint32(dst, k.Group)
	dst = binary.LittleEndian.AppendUint64(dst, k.Instance)
	return dst
}

// ParseTGI decodes a key serialized in type-group-instance order.
func ParseTGI(b []byte) (ResourceKey, error) {
	if len(b) < KeySize {
		return ResourceKey{}, fmt.Errorf("%w: key needs %d bytes, have %d", ErrFormat, KeySize, len(b))
	}
	return ResourceKey{
		Type:     binary.LittleEndian.Uint32(b[0:4]),
		Group:    binary.LittleEndian.Uint32(b[4:8]),
		Instance: binary.LittleEndian.Uint64(b[8:16]),
	}, nil
}

// AppendITG appends the key in instance-type-group order.
func AppendITG(dst []byte, k ResourceKey) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, k.Instance)
	dst = binary.LittleEndian.AppendUint32(dst, k.Type)
	dst = binary.LittleEndian.AppendUint32(dst, k.Group)
	return dst
}

// ParseITG decodes a key serialized in instance-type-group order.
func ParseITG(b []byte) (ResourceKey, error) {
	if len(b) < KeySize {
		return ResourceKey{}, fmt.Errorf("%w: key needs %d bytes, have %d", ErrFormat, KeySize, len(b))
	}
	return ResourceKey{
		Instance: binary.LittleEndian.Uint64(b[0:8]),
		Type:     binary.LittleEndian.Uint32(b[8:12]),
		Group:    binary.LittleEndian.Uint32(b[12:16]),
	}, nil
}

// WriteTGI writes the key to w in type-group-instance order.
func WriteTGI(w io.Writer, k ResourceKey) error {
	_, err := w.Write(AppendTGI(make([]byte, 0, KeySize), k))
	return err
}

// ReadTGI reads a key from r in type-group-instance order.
func ReadTGI(r io.Reader) (ResourceKey, error) {
	var buf [KeySize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return ResourceKey{}, err
	}
	return ParseTGI(buf[:])
}

// WriteITG writes the key to w in instance-type-group order.
func WriteITG(w io.Writer, k ResourceKey) error {
	_, err := w.Write(AppendITG(make([]byte, 0, KeySize), k))
	return err
}

// ReadITG reads a key from r in instance-type-group order.
func ReadITG(r io.Reader) (ResourceKey, error) {
	var buf [KeySize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return ResourceKey{}, err
	}
	return ParseITG(buf[:])
}
