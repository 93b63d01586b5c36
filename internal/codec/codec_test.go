package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumbob/dbpf/internal/wire"
)

func TestCompressEmptyInput(t *testing.T) {
	t.Parallel()

	out, compressed := Compress(nil)
	assert.Empty(t, out)
	assert.False(t, compressed)

	out, compressed = Compress([]byte{})
	assert.Empty(t, out)
	assert.False(t, compressed)
}

func TestCompressIncompressibleReturnsOriginal(t *testing.T) {
	t.Parallel()

	// A few bytes of already-high-entropy data cannot shrink past the
	// zlib framing overhead.
	in := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	out, compressed := Compress(in)
	assert.False(t, compressed)
	assert.Equal(t, in, out)
}

func TestCompressRepetitiveShrinksAndRoundTrips(t *testing.T) {
	t.Parallel()

	in := bytes.Repeat([]byte{0x42}, 1000)
	out, compressed := Compress(in)
	require.True(t, compressed)
	require.Less(t, len(out), len(in))
	assert.EqualValues(t, 0x78, out[0])

	back, err := Decompress(out, 1000)
	require.NoError(t, err)
	assert.Equal(t, in, back)
}

func TestDecompressTooShort(t *testing.T) {
	t.Parallel()

	_, err := Decompress([]byte{0x78}, 10)
	require.ErrorIs(t, err, ErrTooShort)
	require.ErrorIs(t, err, wire.ErrFormat)

	_, err = Decompress(nil, 0)
	require.ErrorIs(t, err, ErrTooShort)
}

func TestDecompressUnknownSignature(t *testing.T) {
	t.Parallel()

	_, err := Decompress([]byte{0xFF, 0xFE, 0x00, 0x00}, 10)
	require.ErrorIs(t, err, ErrUnknownCompression)
	require.ErrorIs(t, err, wire.ErrFormat)
}

func TestDecompressWrongExpectedSize(t *testing.T) {
	t.Parallel()

	in := bytes.Repeat([]byte("abc"), 500)
	out, compressed := Compress(in)
	require.True(t, compressed)

	_, err := Decompress(out, len(in)+1)
	require.ErrorIs(t, err, wire.ErrFormat)

	_, err = Decompress(out, len(in)-1)
	require.ErrorIs(t, err, wire.ErrFormat)
}

func TestCompressLevelRoundTrip(t *testing.T) {
	t.Parallel()

	in := bytes.Repeat([]byte("the quick brown fox "), 100)
	for _, level := range []int{1, 6, 9} {
		out, compressed := CompressLevel(in, level)
		require.True(t, compressed, "level %d", level)
		back, err := Decompress(out, len(in))
		require.NoError(t, err, "level %d", level)
		assert.Equal(t, in, back, "level %d", level)
	}
}
