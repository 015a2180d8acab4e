package compress

// ZstdCompressor compresses a finished (ctl, values) byte pair for transport
// or cold storage, trading compression speed for ratio. ctl streams are
// mostly small varints and repeated flag bytes, and values streams are raw
// float64s, both of which zstd's dictionary-free mode handles well without
// needing the encoder to know which byte pair it's looking at.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
//
// Returns:
//   - ZstdCompressor: New Zstd compressor instance
//
// Example:
//
//	compressor := NewZstdCompressor()
//	compressed, err := compressor.Compress(data)
//	if err != nil {
//		return err
//	}
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
