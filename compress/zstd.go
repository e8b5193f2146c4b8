package compress

// ZstdCompressor is the Zstd codec, selected with
// journal.WithCompression(format.CompressionZstd); it favors compression
// ratio over speed. Its Compress/Decompress methods are implemented in
// zstd_cgo.go (builds with cgo enabled, via valyala/gozstd) or
// zstd_pure.go (builds with cgo disabled, via klauspost/compress/zstd).
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
