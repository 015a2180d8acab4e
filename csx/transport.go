package csx

import (
	"fmt"
	"math"

	"github.com/sparsex-go/csx/compress"
	"github.com/sparsex-go/csx/endian"
)

var transportEndian = endian.GetLittleEndianEngine()

// Marshal compresses the ctl stream and serializes+compresses the values
// slice with the Algorithm the encoding run's driver.Config.Transport named,
// producing the two byte slices a remote consumer actually receives. The
// matrix's own Ctl/Values fields are left untouched; Marshal is a one-way
// step taken right before handing the pair off, not part of decoding.
func (m *Matrix) Marshal() (ctlOut, valuesOut []byte, err error) {
	codec, err := compress.GetCodec(m.transport)
	if err != nil {
		return nil, nil, fmt.Errorf("csx: resolving transport codec: %w", err)
	}

	ctlOut, err = codec.Compress(m.Ctl)
	if err != nil {
		return nil, nil, fmt.Errorf("csx: compressing ctl stream: %w", err)
	}

	raw := make([]byte, 0, len(m.Values)*8)
	for _, v := range m.Values {
		raw = transportEndian.AppendUint64(raw, math.Float64bits(v))
	}
	valuesOut, err = codec.Compress(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("csx: compressing values stream: %w", err)
	}
	return ctlOut, valuesOut, nil
}

// Unmarshal reverses Marshal given the same transport Algorithm it was
// produced with and the non-zero count needed to size the decoded values
// slice (the values stream carries no length prefix of its own).
func Unmarshal(transport compress.Algorithm, ctlIn, valuesIn []byte, nnz int) (ctlOut []byte, values []float64, err error) {
	codec, err := compress.GetCodec(transport)
	if err != nil {
		return nil, nil, fmt.Errorf("csx: resolving transport codec: %w", err)
	}

	ctlOut, err = codec.Decompress(ctlIn)
	if err != nil {
		return nil, nil, fmt.Errorf("csx: decompressing ctl stream: %w", err)
	}

	raw, err := codec.Decompress(valuesIn)
	if err != nil {
		return nil, nil, fmt.Errorf("csx: decompressing values stream: %w", err)
	}
	if len(raw) != nnz*8 {
		return nil, nil, fmt.Errorf("csx: decompressed values stream has %d bytes, want %d for %d non-zeros", len(raw), nnz*8, nnz)
	}

	values = make([]float64, nnz)
	for i := range values {
		bits := transportEndian.Uint64(raw[i*8 : i*8+8])
		values[i] = math.Float64frombits(bits)
	}
	return ctlOut, values, nil
}
