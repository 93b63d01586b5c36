package wire

import (
	"encoding/binary"
	"fmt"
)

// Index flag bits. When set, the corresponding key field is identical for
// every row, is omitted from each row, and its single shared value is
// stored once after the flags word.
const (
	FlagConstantType   uint32 = 0x1
	FlagConstantGroup  uint32 = 0x2
	FlagConstantInstHi uint32 = 0x4
)

// flagsKnown is the set of flag bits this package understands.
const flagsKnown = FlagConstantType | FlagConstantGroup | FlagConstantInstHi

// storedSizeFlag is reserved in the stored-size field. It is always set
// on write and must be masked off when reading the size.
const storedSizeFlag uint32 = 0x80000000

// committed is written in every row's trailing u16.
const committed uint16 = 1

// IndexEntry is one decoded catalog row.
type IndexEntry struct {
	Key        ResourceKey
	Offset     uint32
	StoredSize uint32 // on-disk byte count, flag bit already masked off
	MemSize    uint32 // uncompressed byte count
	Compressed bool
}

// rowSize returns the encoded size of one row under the given flags.
func rowSize(flags uint32) int {
	n := 4 + 4 + 4 + 4 + 2 + 2 // instance-low, offset, stored size, mem size, compression, committed
	if flags&FlagConstantType == 0 {
		n += 4
	}
	if flags&FlagConstantGroup == 0 {
		n += 4
	}
	if flags&FlagConstantInstHi == 0 {
		n += 4
	}
	return n
}

// sharedCount returns how many shared key values follow the flags word.
func sharedCount(flags uint32) int {
	n := 0
	for _, f := range []uint32{FlagConstantType, FlagConstantGroup, FlagConstantInstHi} {
		if flags&f != 0 {
			n++
		}
	}
	return n
}

// IndexSize returns the encoded size in bytes of an index holding the
// given entries, including the flags word and shared values.
func IndexSize(entries []IndexEntry) int {
	flags := indexFlags(entries)
	return 4 + 4*sharedCount(flags) + len(entries)*rowSize(flags)
}

// indexFlags chooses the optimization flags for a save: each flag is set
// only when the corresponding field is identical across every entry.
// An empty index uses no flags.
func indexFlags(entries []IndexEntry) uint32 {
	if len(entries) == 0 {
		return 0
	}
	first := entries[0].Key
	flags := FlagConstantType | FlagConstantGroup | FlagConstantInstHi
	for _, e := range entries[1:] {
		if e.Key.Type != first.Type {
			flags &^= FlagConstantType
		}
		if e.Key.Group != first.Group {
			flags &^= FlagConstantGroup
		}
		if uint32(e.Key.Instance>>32) != uint32(first.Instance>>32) {
			flags &^= FlagConstantInstHi
		}
	}
	return flags
}

// EncodeIndex encodes the catalog rows, choosing optimization flags once
// for the whole index.
func EncodeIndex(entries []IndexEntry) []byte {
	flags := indexFlags(entries)
	b := make([]byte, 0, IndexSize(entries))
	b = binary.LittleEndian.AppendUint32(b, flags)
	if len(entries) > 0 {
		first := entries[0].Key
		if flags&FlagConstantType != 0 {
			b = binary.LittleEndian.AppendUint32(b, first.Type)
		}
		if flags&FlagConstantGroup != 0 {
			b = binary.LittleEndian.AppendUint32(b, first.Group)
		}
		if flags&FlagConstantInstHi != 0 {
			b = binary.LittleEndian.AppendUint32(b, uint32(first.Instance>>32))
		}
	}
	for _, e := range entries {
		if flags&FlagConstantType == 0 {
			b = binary.LittleEndian.AppendUint32(b, e.Key.Type)
		}
		if flags&FlagConstantGroup == 0 {
			b = binary.LittleEndian.AppendUint32(b, e.Key.Group)
		}
		if flags&FlagConstantInstHi == 0 {
			b = binary.LittleEndian.AppendUint32(b, uint32(e.Key.Instance>>32))
		}
		b = binary.LittleEndian.AppendUint32(b, uint32(e.Key.Instance))
		b = binary.LittleEndian.AppendUint32(b, e.Offset)
		b = binary.LittleEndian.AppendUint32(b, e.StoredSize|storedSizeFlag)
		b = binary.LittleEndian.AppendUint32(b, e.MemSize)
		comp := CompressionNone
		if e.Compressed {
			comp = CompressionZLib
		}
		b = binary.LittleEndian.AppendUint16(b, comp)
		b = binary.LittleEndian.AppendUint16(b, committed)
	}
	return b
}

// DecodeIndex decodes count catalog rows from b.
func DecodeIndex(b []byte, count int) ([]IndexEntry, error) {
	if len(b) < 4 {
		return nil, ErrTruncatedIndex
	}
	flags := binary.LittleEndian.Uint32(b)
	if flags&^flagsKnown != 0 {
		return nil, fmt.Errorf("%w: unsupported index flags %#x", ErrFormat, flags)
	}
	b = b[4:]

	var sharedType, sharedGroup, sharedInstHi uint32
	if flags&FlagConstantType != 0 {
		if len(b) < 4 {
			return nil, ErrTruncatedIndex
		}
		sharedType = binary.LittleEndian.Uint32(b)
		b = b[4:]
	}
	if flags&FlagConstantGroup != 0 {
		if len(b) < 4 {
			return nil, ErrTruncatedIndex
		}
		sharedGroup = binary.LittleEndian.Uint32(b)
		b = b[4:]
	}
	if flags&FlagConstantInstHi != 0 {
		if len(b) < 4 {
			return nil, ErrTruncatedIndex
		}
		sharedInstHi = binary.LittleEndian.Uint32(b)
		b = b[4:]
	}

	// Rows are fixed-width once the flags are known, so the claimed count
	// can be checked against the remaining bytes exactly. Doing it before
	// the allocation keeps a hostile count from sizing the slice.
	size := rowSize(flags)
	if count < 0 || uint64(count)*uint64(size) > uint64(len(b)) {
		return nil, ErrTruncatedIndex
	}
	entries := make([]IndexEntry, 0, count)
	for i := 0; i < count; i++ {
		if len(b) < size {
			return nil, ErrTruncatedIndex
		}
		row := b[:size]
		b = b[size:]

		e := IndexEntry{Key: ResourceKey{Type: sharedType, Group: sharedGroup}}
		instHi := sharedInstHi
		if flags&FlagConstantType == 0 {
			e.Key.Type = binary.LittleEndian.Uint32(row)
			row = row[4:]
		}
		if flags&FlagConstantGroup == 0 {
			e.Key.Group = binary.LittleEndian.Uint32(row)
			row = row[4:]
		}
		if flags&FlagConstantInstHi == 0 {
			instHi = binary.LittleEndian.Uint32(row)
			row = row[4:]
		}
		instLo := binary.LittleEndian.Uint32(row)
		e.Key.Instance = uint64(instHi)<<32 | uint64(instLo)
		e.Offset = binary.LittleEndian.Uint32(row[4:])
		e.StoredSize = binary.LittleEndian.Uint32(row[8:]) &^ storedSizeFlag
		e.MemSize = binary.LittleEndian.Uint32(row[12:])
		switch comp := binary.LittleEndian.Uint16(row[16:]); comp {
		case CompressionNone:
			e.Compressed = false
		case CompressionZLib:
			e.Compressed = true
		default:
			return nil, fmt.Errorf("%w: unsupported compression code %#04x", ErrFormat, comp)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
