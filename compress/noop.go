package compress

// NoOpCompressor passes ctl/values bytes through unchanged. Useful as the
// default transport when a caller would rather skip the CPU cost of
// compression than save the bandwidth, or when comparing other codecs
// against an uncompressed baseline.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor returns a compressor that passes data through without
// processing or copying it.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data unchanged. The result aliases the input's backing
// array, so callers must not mutate data after the call if they keep using
// the returned slice.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged, aliasing it like Compress.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
