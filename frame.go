package deltapack

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies the compression algorithm of a column page frame.
type Codec uint8

const (
	// CodecNone stores the payload uncompressed. The frame header is still
	// written so read-side code is uniform.
	CodecNone Codec = 0
	// CodecLZ4 is LZ4 block compression (fast, the write-path default).
	CodecLZ4 Codec = 1
	// CodecZSTD is ZSTD block compression (better ratio, for cold data).
	CodecZSTD Codec = 2
)

// Every column page starts with a frame header carrying a codec marker:
// [Codec uint8][UncompressedSize uint32][CompressedSize uint32][Payload...]
// If CompressedSize == 0, the payload is stored uncompressed; this covers
// both CodecNone and incompressible inputs under a compressing codec.
const frameHeaderSize = 9

var errFrameCorrupt = errors.New("column page frame corrupt")

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// compressFrame wraps data in a column page frame under the given codec.
func compressFrame(data []byte, codec Codec) ([]byte, error) {
	var compressed []byte
	var err error

	switch codec {
	case CodecNone:
	case CodecLZ4:
		compressed, err = compressBlockLZ4(data)
	case CodecZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		putZstdEncoder(enc)
	default:
		return nil, fmt.Errorf("unknown codec %d", codec)
	}
	if err != nil {
		return nil, err
	}

	// Store uncompressed when the codec does not pay for itself.
	if len(compressed) == 0 || len(compressed) >= len(data) {
		frame := make([]byte, frameHeaderSize+len(data))
		frame[0] = byte(codec)
		binary.LittleEndian.PutUint32(frame[1:], uint32(len(data)))
		binary.LittleEndian.PutUint32(frame[5:], 0)
		copy(frame[frameHeaderSize:], data)
		return frame, nil
	}

	frame := make([]byte, frameHeaderSize+len(compressed))
	frame[0] = byte(codec)
	binary.LittleEndian.PutUint32(frame[1:], uint32(len(data)))
	binary.LittleEndian.PutUint32(frame[5:], uint32(len(compressed)))
	copy(frame[frameHeaderSize:], compressed)
	return frame, nil
}

func compressBlockLZ4(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // Incompressible
	}
	return compressed[:n], nil
}

// decompressFrame unwraps a column page frame. The codec marker in the
// frame decides the algorithm; readers accept any known marker.
func decompressFrame(frame []byte) ([]byte, error) {
	if len(frame) < frameHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, want at least %d", errFrameCorrupt, len(frame), frameHeaderSize)
	}
	codec := Codec(frame[0])
	uncompressedSize := binary.LittleEndian.Uint32(frame[1:])
	compressedSize := binary.LittleEndian.Uint32(frame[5:])
	payload := frame[frameHeaderSize:]

	if compressedSize == 0 {
		if uint32(len(payload)) != uncompressedSize {
			return nil, fmt.Errorf("%w: stored payload is %d bytes, header says %d", errFrameCorrupt, len(payload), uncompressedSize)
		}
		return payload, nil
	}
	if uint32(len(payload)) != compressedSize {
		return nil, fmt.Errorf("%w: compressed payload is %d bytes, header says %d", errFrameCorrupt, len(payload), compressedSize)
	}

	switch codec {
	case CodecLZ4:
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, err
		}
		if uint32(n) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed %d bytes, header says %d", errFrameCorrupt, n, uncompressedSize)
		}
		return out, nil
	case CodecZSTD:
		dec := getZstdDecoder()
		out, err := dec.DecodeAll(payload, make([]byte, 0, uncompressedSize))
		putZstdDecoder(dec)
		if err != nil {
			return nil, err
		}
		if uint32(len(out)) != uncompressedSize {
			return nil, fmt.Errorf("%w: decompressed %d bytes, header says %d", errFrameCorrupt, len(out), uncompressedSize)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: compressed payload under codec %d", errFrameCorrupt, codec)
	}
}
