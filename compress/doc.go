// Package compress provides transport compression codecs for finished ctl
// and values byte streams.
//
// # Overview
//
// A driver pass produces two byte streams per matrix: the ctl stream (unit
// headers, flags, deltas) and the values stream (the matrix's non-zero
// entries in ctl order). compress applies a general-purpose algorithm to
// either stream after encoding is done — it knows nothing about rows,
// columns, or patterns, only bytes in and bytes out.
//
//   - None: no compression (fastest, largest)
//   - Zstd: best ratio, moderate speed
//   - S2: balanced ratio and speed
//   - LZ4: fastest decompression
//
// # Architecture
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// # Choosing an algorithm
//
// The ctl stream is short, highly repetitive flag/size/jump headers —
// S2 and LZ4 usually do nearly as well as Zstd on it at a fraction of the
// CPU cost. The values stream is raw float64s with whatever redundancy the
// matrix's actual entries carry; Zstd tends to find more of it than the
// faster codecs, at the cost of slower compression (decompression stays
// fast across all three).
//
// | Concern                | Recommended |
// |-------------------------|-------------|
// | Storage-constrained     | Zstd        |
// | Streaming many small rows | S2 or LZ4 |
// | CPU-constrained          | None        |
// | Read-heavy, write-once   | Zstd        |
//
// # Usage
//
// Most callers never construct a codec directly — driver.Config.Transport
// names an Algorithm, and csx.Matrix.Marshal resolves it via GetCodec when
// producing the byte pair a remote consumer actually receives:
//
//	cfg, _ := driver.NewConfig(driver.WithTransport(compress.AlgorithmZstd))
//	result, err := csx.Encode(m, cfg)
//	ctlBytes, valuesBytes, err := result.Marshal()
//
// csx.Unmarshal reverses it on the receiving end, given the same Algorithm
// and the matrix's non-zero count:
//
//	ctlBytes, values, err := csx.Unmarshal(compress.AlgorithmZstd, ctlIn, valuesIn, nnz)
//
// To compress an arbitrary byte stream directly:
//
//	codec, err := compress.GetCodec(compress.AlgorithmS2)
//	compressed, err := codec.Compress(data)
//	original, err := codec.Decompress(compressed)
//
// # Extending
//
// A custom algorithm just needs to satisfy Codec:
//
//	type MyCodec struct{}
//
//	func (c *MyCodec) Compress(data []byte) ([]byte, error) {
//	    return compressedData, nil
//	}
//
//	func (c *MyCodec) Decompress(data []byte) ([]byte, error) {
//	    return originalData, nil
//	}
//
// It doesn't need to be added to builtinCodecs to be used — CreateCodec and
// GetCodec only resolve the algorithms this package ships; a caller wiring
// in a new one constructs it and calls its methods directly. driver.Config's
// Transport field and csx.Matrix.Marshal accept only a built-in Algorithm.
package compress
