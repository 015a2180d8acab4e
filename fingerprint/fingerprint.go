// Package fingerprint computes content hashes over a matrix's non-zero
// placement, so two states of a matrix can be compared without diffing
// their full contents. The driver does not call it. Adapted from the teacher's identity
// hashing (originally over encoded blob bytes) to operate directly over a
// matrix.Matrix's row-major cell stream.
package fingerprint

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/sparsex-go/csx/matrix"
)

// Fingerprint returns an xxHash64 digest of m's current row-major layout:
// every cell's column and value, in the order m.Row reports them, row by row
// from m.RowStart() to m.Rows()-1. Two calls return the same digest iff the
// matrix's non-zero placement and values are identical — in particular, a
// Transform to order O followed by Transform back to the original traversal
// leaves the digest unchanged.
func Fingerprint(m matrix.Matrix) uint64 {
	h := xxhash.New()
	var tmp [8]byte
	for i := m.RowStart(); i < m.Rows(); i++ {
		for _, c := range m.Row(i) {
			binary.LittleEndian.PutUint64(tmp[:], uint64(c.Column))
			h.Write(tmp[:])
			binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(c.Value))
			h.Write(tmp[:])
		}
		// A one-byte separator per row so that an empty row is
		// distinguishable from a shifted non-empty one.
		h.Write([]byte{0xff})
	}
	return h.Sum64()
}
