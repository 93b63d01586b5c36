package dbpf

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/plumbob/dbpf/internal/codec"
	"github.com/plumbob/dbpf/internal/wire"
)

// maxResourceSize bounds a single resource's uncompressed size; the index
// records sizes in 32-bit fields.
const maxResourceSize = math.MaxUint32

// SaveTo writes the package to w in a single pass: header, one data block
// per live entry, then the index. Every entry's storage metadata is
// re-derived from its current bytes, so unchanged entries are re-read
// from the backing stream, recompressed, and relocated. The index write
// decides the shared-type, shared-group, and shared-instance-high
// optimization flags once per save.
//
// The container's 32-bit offset fields cap its total size below 4 GiB;
// SaveTo fails with ErrPackageTooLarge rather than writing a truncated
// offset.
//
// SaveTo does not retarget the package: entries keep reading from the
// stream the package was opened over.
func (p *Package) SaveTo(w io.Writer) error {
	var (
		rows   []wire.IndexEntry
		blocks [][]byte
		offset = uint64(wire.HeaderSize)
	)
	for e := range p.Entries() {
		data, err := p.ResourceData(e)
		if err != nil {
			return fmt.Errorf("dbpf: save %s: %w", e.key, err)
		}
		stored, compressed := codec.CompressLevel(data, p.level)
		if offset > math.MaxUint32 {
			return ErrPackageTooLarge
		}
		rows = append(rows, wire.IndexEntry{
			Key:        e.key,
			Offset:     uint32(offset),
			StoredSize: uint32(len(stored)),
			MemSize:    uint32(len(data)),
			Compressed: compressed,
		})
		blocks = append(blocks, stored)
		offset += uint64(len(stored))
	}

	indexSize := wire.IndexSize(rows)
	if offset+uint64(indexSize) > math.MaxUint32 {
		return ErrPackageTooLarge
	}
	header := wire.EncodeHeader(wire.Header{
		Major:         wire.FormatMajor,
		Minor:         wire.FormatMinor,
		IndexCount:    uint32(len(rows)),
		IndexSize:     uint32(indexSize),
		IndexPosition: uint32(offset),
	})

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("dbpf: write header: %w", err)
	}
	for i, block := range blocks {
		if _, err := w.Write(block); err != nil {
			return fmt.Errorf("dbpf: write %s: %w", rows[i].Key, err)
		}
	}
	if _, err := w.Write(wire.EncodeIndex(rows)); err != nil {
		return fmt.Errorf("dbpf: write index: %w", err)
	}
	p.log().Debug("saved package", "resources", len(rows), "bytes", offset+uint64(indexSize))
	return nil
}

// SaveToFile writes the package to path atomically: the bytes go to a
// temp file in the same directory, renamed over the target only after a
// complete write. Parent directories are created as needed.
//
// Saving over the file the package was opened from works on platforms
// where renaming over an open file succeeds (Linux, macOS); on Windows
// the rename fails while the package still holds its read handle. There,
// write to a temp location, Close the package, and rename yourself.
func (p *Package) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("dbpf: create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".dbpf-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := p.SaveTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
