package compress

import (
	"fmt"
	"testing"

	"github.com/sparsex-go/csx/ctl"
)

// benchSizes mirrors the ctl/values payload sizes a single matrix's encoded
// output realistically falls into: a handful of rows up through a matrix
// with hundreds of thousands of non-zeros.
var benchSizes = []int{1024, 16384, 65536, 262144, 1048576}

func BenchmarkNoOpCompressorCompress(b *testing.B) {
	compressor := NewNoOpCompressor()

	for _, size := range benchSizes {
		data := ctlLikePayload(size / 3)

		b.Run(fmt.Sprintf("%dKB", size/1024), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ResetTimer()

			for b.Loop() {
				if _, err := compressor.Compress(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkAllCodecsCompress compares every codec's compression throughput
// across a ctl-shaped payload (small repeated unit headers) and a
// values-shaped payload (raw float64s), the two byte streams driver.Config
// actually hands to a Compressor.
func BenchmarkAllCodecsCompress(b *testing.B) {
	payloads := map[string]func(int) []byte{
		"ctl":    func(n int) []byte { return ctlLikePayload(n / 3) },
		"values": func(n int) []byte { return valuesLikePayload(n / 8) },
	}

	for codecName, codec := range getAllCodecs() {
		b.Run(codecName, func(b *testing.B) {
			for shape, gen := range payloads {
				for _, size := range benchSizes {
					data := gen(size)
					b.Run(fmt.Sprintf("%s_%dKB", shape, size/1024), func(b *testing.B) {
						b.ReportAllocs()
						b.SetBytes(int64(len(data)))
						b.ResetTimer()

						for b.Loop() {
							if _, err := codec.Compress(data); err != nil {
								b.Fatal(err)
							}
						}
					})
				}
			}
		})
	}
}

func BenchmarkAllCodecsDecompress(b *testing.B) {
	for codecName, codec := range getAllCodecs() {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range benchSizes {
				data := ctlLikePayload(size / 3)
				compressed, err := codec.Compress(data)
				if err != nil {
					b.Fatal(err)
				}

				b.Run(fmt.Sprintf("%dKB", size/1024), func(b *testing.B) {
					b.ReportAllocs()
					b.SetBytes(int64(len(data)))
					b.ResetTimer()

					for b.Loop() {
						if _, err := codec.Decompress(compressed); err != nil {
							b.Fatal(err)
						}
					}
				})
			}
		})
	}
}

func BenchmarkAllCodecsRoundTrip(b *testing.B) {
	for codecName, codec := range getAllCodecs() {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range benchSizes {
				data := ctlLikePayload(size / 3)

				b.Run(fmt.Sprintf("%dKB", size/1024), func(b *testing.B) {
					b.ReportAllocs()
					b.SetBytes(int64(len(data)))
					b.ResetTimer()

					for b.Loop() {
						compressed, err := codec.Compress(data)
						if err != nil {
							b.Fatal(err)
						}
						if _, err := codec.Decompress(compressed); err != nil {
							b.Fatal(err)
						}
					}
				})
			}
		})
	}
}

// BenchmarkAllCodecsCompressionRatio reports the achieved ratio for a 1MB
// highly redundant ctl stream alongside its throughput, so the numbers a
// caller picking driver.Config.Transport would weigh sit next to each other.
func BenchmarkAllCodecsCompressionRatio(b *testing.B) {
	data := ctlLikePayload((1 << 20) / 3)

	for codecName, codec := range getAllCodecs() {
		b.Run(codecName, func(b *testing.B) {
			compressed, err := codec.Compress(data)
			if err != nil {
				b.Fatal(err)
			}
			b.ReportMetric(float64(len(compressed))/float64(len(data))*100, "ratio%")

			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()

			for b.Loop() {
				if _, err := codec.Compress(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkAllCodecsSmallRows benchmarks payload sizes typical of one or two
// encoded matrix rows rather than a whole matrix, since driver.Config.Transport
// is just as likely to compress a small incremental update as a bulk encode.
func BenchmarkAllCodecsSmallRows(b *testing.B) {
	sizes := []int{16, 64, 256, 1024}

	for codecName, codec := range getAllCodecs() {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range sizes {
				data := ctlLikePayload(size / 3)
				if len(data) == 0 {
					data = []byte{ctl.NRBit}
				}

				b.Run(fmt.Sprintf("%d_bytes", size), func(b *testing.B) {
					b.ReportAllocs()
					b.SetBytes(int64(len(data)))
					b.ResetTimer()

					for b.Loop() {
						compressed, err := codec.Compress(data)
						if err != nil {
							b.Fatal(err)
						}
						if _, err := codec.Decompress(compressed); err != nil {
							b.Fatal(err)
						}
					}
				})
			}
		})
	}
}

func BenchmarkAllCodecsParallel(b *testing.B) {
	data := ctlLikePayload(65536 / 3)

	for codecName, codec := range getAllCodecs() {
		b.Run(codecName+"_Compress", func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()

			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if _, err := codec.Compress(data); err != nil {
						b.Fatal(err)
					}
				}
			})
		})

		b.Run(codecName+"_Decompress", func(b *testing.B) {
			compressed, err := codec.Compress(data)
			if err != nil {
				b.Fatal(err)
			}

			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()

			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					if _, err := codec.Decompress(compressed); err != nil {
						b.Fatal(err)
					}
				}
			})
		})
	}
}
