package dbpf

import (
	"encoding/binary"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterFactory is a minimal typed record used to exercise dispatch: its
// payload is a single little-endian u32 counter.
type counterResource struct {
	ResourceBase
	count uint32
}

func (r *counterResource) Bytes() ([]byte, error) {
	return binary.LittleEndian.AppendUint32(nil, r.count), nil
}

func (r *counterResource) SetCount(n uint32) {
	r.count = n
	r.MarkChanged()
}

type counterFactory struct {
	codes []uint32
}

func (f counterFactory) TypeCodes() []uint32 { return f.codes }

func (f counterFactory) New(key ResourceKey, data []byte) (Resource, error) {
	r := &counterResource{ResourceBase: NewResourceBase(key)}
	if len(data) == 0 {
		return r, nil
	}
	if len(data) != 4 {
		return nil, fmt.Errorf("%w: counter payload must be 4 bytes, got %d", ErrFormat, len(data))
	}
	r.count = binary.LittleEndian.Uint32(data)
	return r, nil
}

func (f counterFactory) NewEmpty(key ResourceKey) (Resource, error) {
	return f.New(key, nil)
}

func TestRegisterFirstWriterWins(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	a := counterFactory{codes: []uint32{0x10}}
	b := counterFactory{codes: []uint32{0x10, 0x20}}

	assert.True(t, reg.Register(0x10, a))
	assert.False(t, reg.Register(0x10, b))

	got, ok := reg.Factory(0x10)
	require.True(t, ok)
	assert.Equal(t, a, got)
}

func TestRegisterOrReplace(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	a := counterFactory{codes: []uint32{0x10}}
	b := counterFactory{codes: []uint32{0x10}}

	require.True(t, reg.Register(0x10, a))
	reg.RegisterOrReplace(0x10, b)

	got, ok := reg.Factory(0x10)
	require.True(t, ok)
	assert.Equal(t, b, got)
}

func TestFactoryOrDefaultFallsBack(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	f := reg.FactoryOrDefault(0xDEAD)
	require.NotNil(t, f)

	// The default factory's record round-trips any bytes verbatim,
	// including empty input.
	for _, payload := range [][]byte{nil, {}, {1, 2, 3}} {
		res, err := f.New(ResourceKey{Type: 0xDEAD}, payload)
		require.NoError(t, err)
		got, err := res.Bytes()
		require.NoError(t, err)
		assert.Equal(t, len(payload), len(got))
		if len(payload) > 0 {
			assert.Equal(t, payload, got)
		}
	}
}

func TestDefaultFactoryReplaceable(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	custom := counterFactory{codes: []uint32{DefaultTypeCode}}

	// Type code 0 is a legitimate override target.
	assert.True(t, reg.Register(DefaultTypeCode, custom))
	assert.Equal(t, custom, reg.DefaultFactory())
	assert.Equal(t, custom, reg.FactoryOrDefault(0xFFFF))

	// First-writer-wins applies to the default slot too.
	assert.False(t, reg.Register(DefaultTypeCode, counterFactory{codes: []uint32{0}}))

	other := counterFactory{codes: []uint32{0, 1}}
	reg.RegisterOrReplace(DefaultTypeCode, other)
	assert.Equal(t, other, reg.DefaultFactory())
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	// Includes a nil candidate, one with no declared codes, and a
	// duplicate; all three are skipped without aborting discovery.
	n := reg.Discover(
		counterFactory{codes: []uint32{0x11, 0x22}},
		nil,
		counterFactory{},
		counterFactory{codes: []uint32{0x11}},
		counterFactory{codes: []uint32{DefaultTypeCode}},
	)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, reg.Len())

	_, ok := reg.Factory(0x11)
	assert.True(t, ok)
	_, ok = reg.Factory(0x22)
	assert.True(t, ok)

	// The code-0 candidate became the default factory.
	assert.Equal(t, counterFactory{codes: []uint32{DefaultTypeCode}}, reg.DefaultFactory())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			reg.Discover(counterFactory{codes: []uint32{uint32(i + 1)}})
		}()
		go func() {
			defer wg.Done()
			for code := range uint32(32) {
				reg.FactoryOrDefault(code)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, reg.Len())
}

func TestDispatchByTypeCode(t *testing.T) {
	t.Parallel()

	const counterType uint32 = 0x77
	key := ResourceKey{Type: counterType, Group: 0, Instance: 1}

	p := New()
	payload := binary.LittleEndian.AppendUint32(nil, 1234)
	e, err := p.AddResource(key, payload)
	require.NoError(t, err)

	reg := NewRegistry()
	reg.Discover(counterFactory{codes: []uint32{counterType}})

	res, err := p.OpenResource(e, reg)
	require.NoError(t, err)
	counter, ok := res.(*counterResource)
	require.True(t, ok)
	assert.EqualValues(t, 1234, counter.count)
}

func TestDispatchParseFailurePropagates(t *testing.T) {
	t.Parallel()

	const counterType uint32 = 0x77
	p := New()
	e, err := p.AddResource(ResourceKey{Type: counterType}, []byte{1, 2, 3}) // wrong size
	require.NoError(t, err)

	reg := NewRegistry()
	reg.Discover(counterFactory{codes: []uint32{counterType}})

	_, err = p.OpenResource(e, reg)
	require.ErrorIs(t, err, ErrFormat)
}
