// Package reencode implements the row re-encoder (§4.F): given a row's raw
// cells and the admitted deltas for one traversal order, it emits a shorter
// mixed sequence of singleton cells and pattern instances, coalescing
// already-patterned cells from earlier passes in place rather than
// re-splitting them.
package reencode

import (
	"fmt"

	"github.com/sparsex-go/csx/errs"
	"github.com/sparsex-go/csx/internal/drle"
	"github.com/sparsex-go/csx/internal/pool"
	"github.com/sparsex-go/csx/matrix"
	"github.com/sparsex-go/csx/pattern"
)

// Config parameterizes one row-encoding pass over one order.
type Config struct {
	Kind     pattern.Kind
	Align    uint8 // block kinds only
	MinLimit int
	MaxLimit int
	Admitted map[uint64]bool // admitted delta (linear) or other_dim (block)
}

// EncodeRow walks cells — the raw, one-cell-per-nonzero view a matrix.Matrix
// exposes — and returns the re-encoded unit sequence: plain Cells for
// uncovered singletons, and Cells carrying a *pattern.Descriptor (with its
// Values populated) for every newly recognized or previously existing
// pattern instance.
func EncodeRow(cells []matrix.Cell, cfg Config) ([]matrix.Cell, error) {
	out := make([]matrix.Cell, 0, len(cells))
	xs := make([]uint64, 0, len(cells))
	vsBuf, release := pool.GetFloat64Slice(len(cells))
	defer release()
	vs := vsBuf[:0]

	flush := func() error {
		if len(xs) == 0 {
			return nil
		}
		var err error
		if cfg.Kind.IsBlock() {
			err = encodeBlockRun(&out, xs, vs, cfg)
		} else {
			err = encodeLinearRun(&out, xs, vs, cfg)
		}
		xs = xs[:0]
		vs = vs[:0]
		return err
	}

	for _, c := range cells {
		if c.Pattern != nil {
			if err := flush(); err != nil {
				return nil, err
			}
			if n := len(out); n > 0 && out[n-1].Pattern == c.Pattern {
				continue // already-coalesced above; this raw cell is one of its members
			}
			out = append(out, matrix.Cell{Column: c.Column, Pattern: c.Pattern})
			continue
		}
		xs = append(xs, uint64(c.Column)+1)
		vs = append(vs, c.Value)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}

// encodeLinearRun implements §4.F's linear peel-off: admitted deltas are
// chunked to MaxLimit and emitted as pattern instances, residual runs and
// non-admitted deltas fall through as singletons.
func encodeLinearRun(out *[]matrix.Cell, xs []uint64, vs []float64, cfg Config) error {
	col := uint64(0)
	vi := 0
	for _, rec := range drle.DeltaRLE(xs) {
		freq := rec.Freq
		if cfg.Admitted[rec.Value] {
			for freq >= cfg.MinLimit {
				chunk := freq
				if chunk > cfg.MaxLimit {
					chunk = cfg.MaxLimit
				}
				col += rec.Value
				values := append([]float64(nil), vs[vi:vi+chunk]...)
				desc := &pattern.Descriptor{Kind: cfg.Kind, Delta: rec.Value, Length: chunk, Values: values}
				*out = append(*out, matrix.Cell{Column: int(col) - 1, Pattern: desc})
				vi += chunk
				col += rec.Value * uint64(chunk-1)
				freq -= chunk
			}
		}
		for i := 0; i < freq; i++ {
			col += rec.Value
			*out = append(*out, matrix.Cell{Column: int(col) - 1, Value: vs[vi]})
			vi++
		}
	}
	if vi != len(vs) {
		return fmt.Errorf("reencode: linear value cursor landed at %d, want %d: %w", vi, len(vs), errs.ErrRowCursorMismatch)
	}
	return nil
}

// encodeBlockRun implements §4.F's block peel-off: only contiguous
// (delta==1) records are candidates; a qualifying run that does not start
// at the first column annexes the previously emitted singleton (pop +
// rewind) as its true first cell.
func encodeBlockRun(out *[]matrix.Cell, xs []uint64, vs []float64, cfg Config) error {
	align := uint64(cfg.Align)
	maxLimit := (uint64(cfg.MaxLimit) / (2 * align)) * (2 * align)
	if maxLimit == 0 {
		return fmt.Errorf("reencode: max_limit %d too small for block align %d: %w", cfg.MaxLimit, cfg.Align, errs.ErrInvariant)
	}

	col := uint64(0)
	vi := 0
	for _, rec := range drle.DeltaRLE(xs) {
		freq := rec.Freq
		col += rec.Value

		var skipFront, nrElem uint64
		if col == 1 {
			nrElem = uint64(freq)
		} else {
			skipFront = (col - 2) % align
			if skipFront != 0 {
				skipFront = align - skipFront
			}
			nrElem = uint64(freq) + 1
		}
		if nrElem > skipFront {
			nrElem -= skipFront
		} else {
			nrElem = 0
		}
		skipBack := nrElem % align
		if nrElem > skipBack {
			nrElem -= skipBack
		} else {
			nrElem = 0
		}
		otherDim := nrElem / align

		if rec.Value == 1 && cfg.Admitted[otherDim] && nrElem >= 2*align {
			rleStart := col
			if col != 1 {
				rleStart = col - 1
				*out = (*out)[:len(*out)-1]
				vi--
			}
			for i := uint64(0); i < skipFront; i++ {
				*out = append(*out, matrix.Cell{Column: int(rleStart+i) - 1, Value: vs[vi]})
				vi++
			}

			nrBlocks := nrElem / maxLimit
			nrElemBlock := nrElem
			if maxLimit < nrElemBlock {
				nrElemBlock = maxLimit
			}
			if nrBlocks == 0 {
				nrBlocks = 1
			} else {
				skipBack += nrElem - nrElemBlock*nrBlocks
			}
			for i := uint64(0); i < nrBlocks; i++ {
				anchor := rleStart + skipFront + i*nrElemBlock
				values := append([]float64(nil), vs[vi:vi+int(nrElemBlock)]...)
				desc := &pattern.Descriptor{Kind: cfg.Kind, Align: cfg.Align, Length: int(nrElemBlock), Values: values}
				*out = append(*out, matrix.Cell{Column: int(anchor) - 1, Pattern: desc})
				vi += int(nrElemBlock)
			}
			for i := uint64(0); i < skipBack; i++ {
				at := rleStart + skipFront + nrElemBlock*nrBlocks + i
				*out = append(*out, matrix.Cell{Column: int(at) - 1, Value: vs[vi]})
				vi++
			}
		} else {
			for i := 0; i < freq; i++ {
				*out = append(*out, matrix.Cell{Column: int(col+uint64(i)*rec.Value) - 1, Value: vs[vi]})
				vi++
			}
		}
		col += rec.Value * uint64(freq-1)
	}
	if vi != len(vs) {
		return fmt.Errorf("reencode: block value cursor landed at %d, want %d: %w", vi, len(vs), errs.ErrRowCursorMismatch)
	}
	return nil
}
