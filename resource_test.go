package dbpf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceBaseLifecycle(t *testing.T) {
	t.Parallel()

	key := ResourceKey{Type: 1, Group: 2, Instance: 3}
	r := NewRawResource(key, []byte("initial"))

	assert.Equal(t, key, r.Key())
	assert.False(t, r.Dirty())

	r.SetData([]byte("changed"))
	assert.True(t, r.Dirty())

	r.ClearDirty()
	assert.False(t, r.Dirty())

	// Bytes reflects current state, dirty or not.
	got, err := r.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("changed"), got)
}

func TestMarkChangedSignalsOncePerMutation(t *testing.T) {
	t.Parallel()

	r := NewRawResource(ResourceKey{}, nil)

	select {
	case <-r.Changed():
		t.Fatal("change signal before any mutation")
	default:
	}

	r.SetData([]byte("a"))
	select {
	case <-r.Changed():
	default:
		t.Fatal("no change signal after mutation")
	}

	// Consumed; the channel is empty until the next mutation.
	select {
	case <-r.Changed():
		t.Fatal("spurious second signal")
	default:
	}

	r.SetData([]byte("b"))
	select {
	case <-r.Changed():
	default:
		t.Fatal("no change signal after second mutation")
	}
}

func TestMarkChangedCoalescesUnconsumedSignals(t *testing.T) {
	t.Parallel()

	r := NewRawResource(ResourceKey{}, nil)
	// Nobody listening: repeated mutations must not block.
	for i := range 10 {
		r.SetData([]byte{byte(i)})
	}
	assert.True(t, r.Dirty())

	<-r.Changed()
	select {
	case <-r.Changed():
		t.Fatal("signals should coalesce to one")
	default:
	}
}

func TestRawResourceBytesAlwaysFresh(t *testing.T) {
	t.Parallel()

	r := NewRawResource(ResourceKey{Type: 1}, []byte("v1"))

	got, err := r.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	r.SetData([]byte("v2"))
	got, err = r.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	// Repeated reads stay consistent without mutation in between.
	again, err := r.Bytes()
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestRawFactoryEmptyConstruction(t *testing.T) {
	t.Parallel()

	key := ResourceKey{Type: 0x42}
	res, err := RawFactory{}.NewEmpty(key)
	require.NoError(t, err)
	assert.Equal(t, key, res.Key())
	assert.False(t, res.Dirty())

	got, err := res.Bytes()
	require.NoError(t, err)
	assert.Empty(t, got)
}
