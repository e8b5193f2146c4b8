package compress

import (
	"fmt"

	"github.com/mightysai1997/sdjournal/format"
)

// Compressor compresses a single Data object payload.
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	//
	// Memory management:
	//   - The returned slice is newly allocated and owned by the caller.
	//   - The input slice is not modified.
	//   - Internal buffers may be reused for efficiency.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor for one compression kind.
//
// Thread Safety: implementations must be safe for concurrent use, since a
// single file-wide Codec instance is shared across every reader goroutine.
type Decompressor interface {
	// Decompress decompresses data and returns the original payload.
	//
	// Error conditions:
	//   - the input is corrupted or uses an incompatible format
	//   - the decompression buffer allocation fails
	Decompress(data []byte) ([]byte, error)
}

// Codec combines Compressor and Decompressor for one compression kind.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats reports the outcome of a single compression attempt,
// useful for deciding (per spec §4.4) whether the compressed form was
// actually worth storing over the raw payload.
type CompressionStats struct {
	Algorithm           format.CompressionKind
	OriginalSize        int64
	CompressedSize      int64
	CompressionTimeNs   int64
	DecompressionTimeNs int64
}

// CompressionRatio returns CompressedSize / OriginalSize. Values below 1.0
// indicate the compressed form is smaller than the original.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space saved as a percentage (0-100, negative if
// the compressed form is larger than the original).
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// CreateCodec builds a fresh Codec for the given compression kind.
func CreateCodec(kind format.CompressionKind, target string) (Codec, error) {
	switch kind {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, kind)
	}
}

var builtinCodecs = map[format.CompressionKind]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared built-in Codec for kind. The returned value
// is safe for concurrent use and is the path journal.Open wires into its
// Data object pipeline.
func GetCodec(kind format.CompressionKind) (Codec, error) {
	if codec, ok := builtinCodecs[kind]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression kind: %s", kind)
}
