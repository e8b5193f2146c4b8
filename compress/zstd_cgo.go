//go:build cgo

package compress

import (
	"github.com/valyala/gozstd"
)

// Compress compresses data with cgo zstd at a moderate level (3): good
// ratio without the latency of the higher levels.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, data, 3), nil
}

// Decompress decompresses cgo-zstd-compressed data.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
