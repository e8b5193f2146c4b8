package compress

// NoOpCompressor stores a Data object payload raw, below the compression
// threshold (format.DefaultCompressionThreshold) or when compression is
// disabled for the file.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a pass-through codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data unchanged, without copying.
//
// The returned slice shares the input's underlying array; callers must not
// mutate data after this call if they still hold the returned slice.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged, without copying.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
