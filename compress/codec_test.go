package compress

import (
	"bytes"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsex-go/csx/ctl"
)

func TestAlgorithmString(t *testing.T) {
	tests := []struct {
		algo     Algorithm
		expected string
	}{
		{AlgorithmNone, "none"},
		{AlgorithmZstd, "zstd"},
		{AlgorithmS2, "s2"},
		{AlgorithmLZ4, "lz4"},
		{Algorithm(0xFF), "Algorithm(255)"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.algo.String())
		})
	}
}

func TestCompressionStatsCalculations(t *testing.T) {
	tests := []struct {
		name            string
		stats           CompressionStats
		expectedRatio   float64
		expectedSavings float64
	}{
		{
			name:            "good compression",
			stats:           CompressionStats{Algorithm: AlgorithmZstd, OriginalSize: 1000, CompressedSize: 300},
			expectedRatio:   0.3,
			expectedSavings: 70.0,
		},
		{
			name:            "no benefit",
			stats:           CompressionStats{Algorithm: AlgorithmNone, OriginalSize: 500, CompressedSize: 500},
			expectedRatio:   1.0,
			expectedSavings: 0.0,
		},
		{
			name:            "overhead",
			stats:           CompressionStats{Algorithm: AlgorithmS2, OriginalSize: 100, CompressedSize: 120},
			expectedRatio:   1.2,
			expectedSavings: -20.0,
		},
		{
			name:            "zero original size",
			stats:           CompressionStats{Algorithm: AlgorithmLZ4, OriginalSize: 0, CompressedSize: 100},
			expectedRatio:   0.0,
			expectedSavings: 100.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.expectedRatio, tt.stats.CompressionRatio(), 0.001)
			require.InDelta(t, tt.expectedSavings, tt.stats.SpaceSavings(), 0.001)
		})
	}
}

func TestCreateCodec(t *testing.T) {
	for _, algo := range []Algorithm{AlgorithmNone, AlgorithmZstd, AlgorithmS2, AlgorithmLZ4} {
		codec, err := CreateCodec(algo, "ctl")
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := CreateCodec(Algorithm(0xFF), "ctl")
	require.Error(t, err)
}

func TestGetCodec(t *testing.T) {
	for _, algo := range []Algorithm{AlgorithmNone, AlgorithmZstd, AlgorithmS2, AlgorithmLZ4} {
		codec, err := GetCodec(algo)
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := GetCodec(Algorithm(0xFF))
	require.Error(t, err)
}

func TestNoOpCompressorEmptyData(t *testing.T) {
	compressor := NewNoOpCompressor()

	compressed, err := compressor.Compress(nil)
	require.NoError(t, err)
	require.Nil(t, compressed)

	empty := []byte{}
	compressed, err = compressor.Compress(empty)
	require.NoError(t, err)
	require.Equal(t, empty, compressed)

	decompressed, err := compressor.Decompress(nil)
	require.NoError(t, err)
	require.Nil(t, decompressed)
}

func TestNoOpCompressorRoundTrip(t *testing.T) {
	compressor := NewNoOpCompressor()

	ctlBytes := []byte{ctl.NRBit, 3, 0x05, 0x02}
	compressed, err := compressor.Compress(ctlBytes)
	require.NoError(t, err)
	require.Equal(t, ctlBytes, compressed)
	require.Same(t, &ctlBytes[0], &compressed[0]) // no copy

	decompressed, err := compressor.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, ctlBytes, decompressed)
}

func TestNoOpCompressorInterfaceCompliance(t *testing.T) {
	compressor := NewNoOpCompressor()
	var _ Compressor = compressor
	var _ Decompressor = compressor
	var _ Codec = compressor
}

// ctlLikePayload builds a byte slice shaped like a real ctl stream: short
// two-byte unit headers interleaved with varint jumps, rather than random
// noise, so the compressible-real-codecs test exercises the actual
// redundancy the ctl format produces.
func ctlLikePayload(units int) []byte {
	var buf []byte
	for i := 0; i < units; i++ {
		buf = append(buf, ctl.NRBit, 1, byte(i%254))
	}
	return buf
}

// valuesLikePayload builds a byte slice shaped like a values stream: raw
// little-endian float64s, mostly small integers as real matrices tend to
// carry.
func valuesLikePayload(n int) []byte {
	buf := make([]byte, n*8)
	for i := 0; i < n; i++ {
		bits := math.Float64bits(float64(i % 17))
		for b := 0; b < 8; b++ {
			buf[i*8+b] = byte(bits >> (8 * b))
		}
	}
	return buf
}

func getAllCodecs() map[string]Codec {
	return map[string]Codec{
		"NoOp": NewNoOpCompressor(),
		"LZ4":  NewLZ4Compressor(),
		"S2":   NewS2Compressor(),
		"Zstd": NewZstdCompressor(),
	}
}

func TestAllCodecsEmptyData(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Nil(t, compressed)

			decompressed, err := codec.Decompress(nil)
			require.NoError(t, err)
			require.Nil(t, decompressed)
		})
	}
}

func TestAllCodecsRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{name: "single_unit_ctl", data: ctlLikePayload(1)},
		{name: "many_unit_ctl", data: ctlLikePayload(4096)},
		{name: "small_values", data: valuesLikePayload(8)},
		{name: "large_values", data: valuesLikePayload(8192)},
		{name: "binary_data", data: []byte{0x00, 0x01, 0x02, 0x03, 0xFF, 0xFE, 0xFD, 0xFC}},
		{name: "single_byte", data: []byte{0x42}},
		{name: "repeated_pattern", data: bytes.Repeat([]byte{0x07}, 1024)},
	}

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					compressed, err := codec.Compress(tc.data)
					require.NoError(t, err)
					require.NotNil(t, compressed)

					decompressed, err := codec.Decompress(compressed)
					require.NoError(t, err)
					require.Equal(t, tc.data, decompressed)
				})
			}
		})
	}
}

func TestAllCodecsInvalidData(t *testing.T) {
	invalidInputs := []struct {
		name string
		data []byte
	}{
		{name: "random_bytes", data: []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{name: "garbage_header", data: []byte("this is not a ctl stream")},
		{name: "truncated_block", data: []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}},
	}

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			if codecName == "NoOp" {
				t.Skip("NoOp codec doesn't validate data")
			}

			for _, input := range invalidInputs {
				t.Run(input.name, func(t *testing.T) {
					_, err := codec.Decompress(input.data)
					require.Error(t, err)
				})
			}
		})
	}
}

func TestAllCodecsConcurrentUsage(t *testing.T) {
	const numGoroutines = 20
	testData := ctlLikePayload(512)

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			compressed, err := codec.Compress(testData)
			require.NoError(t, err)

			done := make(chan error, numGoroutines*2)
			for i := 0; i < numGoroutines; i++ {
				go func() {
					_, err := codec.Compress(testData)
					done <- err
				}()
				go func() {
					decompressed, err := codec.Decompress(compressed)
					if err != nil {
						done <- err
						return
					}
					if !bytes.Equal(testData, decompressed) {
						done <- fmt.Errorf("data mismatch")
						return
					}
					done <- nil
				}()
			}

			for i := 0; i < numGoroutines*2; i++ {
				require.NoError(t, <-done)
			}
		})
	}
}

func TestAllCodecsInterfaceCompliance(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			var _ Codec = codec
			require.NotNil(t, codec)
		})
	}
}

func TestAllCodecsCompressHighlyRedundantCtl(t *testing.T) {
	// A matrix dominated by one repeated pattern id produces a ctl stream
	// that is almost entirely three-byte units whose first two bytes repeat
	// and whose third cycles through a short range — the case
	// transport compression exists for.
	original := ctlLikePayload(1 << 16)

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			compressed, err := codec.Compress(original)
			require.NoError(t, err)
			require.NotNil(t, compressed)

			if codecName == "NoOp" {
				require.Equal(t, len(original), len(compressed))
			} else {
				require.Less(t, len(compressed), len(original)/4)
			}

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, original, decompressed)
		})
	}
}

func TestAllCodecsProgressiveDataSizes(t *testing.T) {
	sizes := []int{1, 10, 100, 1024, 4096, 16384, 65536}

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			for _, size := range sizes {
				t.Run(fmt.Sprintf("%d_bytes", size), func(t *testing.T) {
					data := valuesLikePayload(size / 8)
					if len(data) == 0 {
						data = []byte{byte(size)}
					}

					compressed, err := codec.Compress(data)
					require.NoError(t, err)

					decompressed, err := codec.Decompress(compressed)
					require.NoError(t, err)
					require.Equal(t, data, decompressed)
				})
			}
		})
	}
}
