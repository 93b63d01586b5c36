package dbpf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceKeyValueSemantics(t *testing.T) {
	t.Parallel()

	a := ResourceKey{Type: 1, Group: 2, Instance: 3}
	b := ResourceKey{Type: 1, Group: 2, Instance: 3}
	c := ResourceKey{Type: 1, Group: 2, Instance: 4}

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	// Structural hashing: keys work as map keys.
	m := map[ResourceKey]int{a: 1}
	m[b]++
	m[c] = 5
	assert.Equal(t, 2, m[a])
	assert.Len(t, m, 2)
}

func TestResourceKeyString(t *testing.T) {
	t.Parallel()

	k := ResourceKey{Type: 0x220557DA, Group: 0, Instance: 0x123456789ABCDEF0}
	assert.Equal(t, "220557DA:00000000:123456789ABCDEF0", k.String())
}

func TestKeyOrderingRoundTrip(t *testing.T) {
	t.Parallel()

	keys := []ResourceKey{
		{},
		{Type: 0xFFFFFFFF, Group: 0xFFFFFFFF, Instance: 0xFFFFFFFFFFFFFFFF},
		{Type: 0x220557DA, Group: 0x80000000, Instance: 0x123456789ABCDEF0},
	}
	for _, k := range keys {
		got, err := ParseTGI(AppendTGI(nil, k))
		require.NoError(t, err)
		assert.Equal(t, k, got)

		got, err = ParseITG(AppendITG(nil, k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
}
