package deltapack

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame(t *testing.T) {
	compressible := bytes.Repeat([]byte("deltapack"), 100)

	t.Run("LZ4", func(t *testing.T) {
		frame, err := compressFrame(compressible, CodecLZ4)
		require.NoError(t, err)
		assert.Equal(t, byte(CodecLZ4), frame[0])
		assert.Less(t, len(frame), len(compressible))

		got, err := decompressFrame(frame)
		require.NoError(t, err)
		assert.Equal(t, compressible, got)
	})

	t.Run("ZSTD", func(t *testing.T) {
		frame, err := compressFrame(compressible, CodecZSTD)
		require.NoError(t, err)
		assert.Equal(t, byte(CodecZSTD), frame[0])

		got, err := decompressFrame(frame)
		require.NoError(t, err)
		assert.Equal(t, compressible, got)
	})

	t.Run("NoneStillFramed", func(t *testing.T) {
		// The pass-through codec writes the same frame header, so read-side
		// code is uniform.
		data := []byte{1, 2, 3, 4}
		frame, err := compressFrame(data, CodecNone)
		require.NoError(t, err)
		assert.Equal(t, byte(CodecNone), frame[0])
		assert.Len(t, frame, frameHeaderSize+len(data))

		got, err := decompressFrame(frame)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("IncompressibleStoredRaw", func(t *testing.T) {
		data := []byte{0x4f}
		frame, err := compressFrame(data, CodecLZ4)
		require.NoError(t, err)

		got, err := decompressFrame(frame)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("EmptyPayload", func(t *testing.T) {
		frame, err := compressFrame(nil, CodecLZ4)
		require.NoError(t, err)

		got, err := decompressFrame(frame)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := decompressFrame([]byte{1, 2})
		assert.ErrorIs(t, err, errFrameCorrupt)
	})
}
