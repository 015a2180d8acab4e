// Package drle implements the delta-encoding and run-length-encoding
// primitives the statistics engine and row re-encoder build on: turning a
// sequence of column (or row) indices into successive differences, then
// collapsing runs of equal differences into (value, frequency) pairs.
package drle

// Int is the set of integer types drle operates over. The encoder uses
// uint64 throughout, but the primitives are generic so tests can exercise
// them over smaller types without casts.
type Int interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~int | ~int32 | ~int64
}

// DeltaEncode returns a sequence of the same length as seq: the first
// element unchanged, each subsequent element replaced by the difference from
// its predecessor. It does not mutate seq.
func DeltaEncode[T Int](seq []T) []T {
	if len(seq) == 0 {
		return nil
	}
	out := make([]T, len(seq))
	out[0] = seq[0]
	for i := 1; i < len(seq); i++ {
		out[i] = seq[i] - seq[i-1]
	}
	return out
}

// Run is one run-length record: Value repeated Freq times consecutively.
type Run[T Int] struct {
	Value T
	Freq  int
}

// RunLengthEncode collapses consecutive equal elements of seq into Run
// records. The sum of Freq across the result equals len(seq). An empty
// input yields a nil result.
func RunLengthEncode[T Int](seq []T) []Run[T] {
	if len(seq) == 0 {
		return nil
	}
	out := make([]Run[T], 0, len(seq))
	cur := Run[T]{Value: seq[0], Freq: 1}
	for i := 1; i < len(seq); i++ {
		if seq[i] == cur.Value {
			cur.Freq++
			continue
		}
		out = append(out, cur)
		cur = Run[T]{Value: seq[i], Freq: 1}
	}
	out = append(out, cur)
	return out
}

// DeltaRLE is the composition DeltaEncode then RunLengthEncode, the shape
// the statistics engine and row re-encoder consume everywhere: delta_encode
// turns uniform-stride runs into repeated deltas, rle_encode counts them.
func DeltaRLE[T Int](seq []T) []Run[T] {
	return RunLengthEncode(DeltaEncode(seq))
}
