package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/plumbob/dbpf"
)

// parseKey parses a "type:group:instance" triple. Each field is hex, with
// or without a 0x prefix, e.g. 220557DA:00000000:123456789ABCDEF0.
func parseKey(s string) (dbpf.ResourceKey, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return dbpf.ResourceKey{}, fmt.Errorf("key %q: want type:group:instance", s)
	}
	t, err := parseHex(parts[0], 32)
	if err != nil {
		return dbpf.ResourceKey{}, fmt.Errorf("key %q: type: %w", s, err)
	}
	g, err := parseHex(parts[1], 32)
	if err != nil {
		return dbpf.ResourceKey{}, fmt.Errorf("key %q: group: %w", s, err)
	}
	i, err := parseHex(parts[2], 64)
	if err != nil {
		return dbpf.ResourceKey{}, fmt.Errorf("key %q: instance: %w", s, err)
	}
	return dbpf.ResourceKey{Type: uint32(t), Group: uint32(g), Instance: i}, nil
}

func parseHex(s string, bits int) (uint64, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return strconv.ParseUint(s, 16, bits)
}
