// Package csx assembles the finished encoder output into an immutable,
// self-contained matrix handle: the ctl stream, the values slice, the
// pattern-id tables Decode needs, and per-row span metadata. It is the
// package a caller actually imports; driver does the work, csx wraps it.
package csx

import (
	"context"

	"github.com/sparsex-go/csx/compress"
	"github.com/sparsex-go/csx/driver"
	"github.com/sparsex-go/csx/matrix"
	"github.com/sparsex-go/csx/pattern"
)

// Matrix is the immutable, encoded form of a matrix.Matrix: a ctl byte
// stream plus the values it references, sufficient on their own (together
// with FlagToPatternID and PatternKeys) for ctl.Decode to reconstruct every
// original non-zero cell.
type Matrix struct {
	Ctl             []byte
	Values          []float64
	FlagToPatternID []int64
	PatternKeys     map[uint8]pattern.Key
	rowSpans        []int
	rows            int
	cols            int
	nnz             int
	rowStart        int
	passes          int
	transport       compress.Algorithm
}

// Rows, Cols, NNZ, and RowStart mirror matrix.Matrix's corresponding
// accessors, describing the shape of the matrix this handle encodes.
func (m *Matrix) Rows() int     { return m.rows }
func (m *Matrix) Cols() int     { return m.cols }
func (m *Matrix) NNZ() int      { return m.nnz }
func (m *Matrix) RowStart() int { return m.rowStart }

// Passes reports how many re-encoding passes the driver ran before
// converging, for logging and tests.
func (m *Matrix) Passes() int { return m.passes }

// RowSpan returns the maximum number of physical rows occupied by any pattern
// instance that has a member cell in row i (its anchor or any other member),
// or 1 for a row with no pattern cells (supplemented feature, see SPEC_FULL.md
// "Row-span tracking").
func (m *Matrix) RowSpan(i int) int {
	if i < 0 || i >= len(m.rowSpans) {
		return 1
	}
	return m.rowSpans[i]
}

// Encode runs the full stats→select→transform→encode→transform⁻¹→ignore
// loop over m and returns its immutable, encoded form.
func Encode(m matrix.Matrix, cfg driver.Config) (*Matrix, error) {
	res, err := driver.Run(m, cfg)
	if err != nil {
		return nil, err
	}
	return fromResult(res), nil
}

// EncodeWithLogger is Encode's context-aware form, see driver.RunWithLogger.
func EncodeWithLogger(ctx context.Context, m matrix.Matrix, cfg driver.Config) (*Matrix, error) {
	res, err := driver.RunWithLogger(ctx, m, cfg)
	if err != nil {
		return nil, err
	}
	return fromResult(res), nil
}

func fromResult(res *driver.Result) *Matrix {
	return &Matrix{
		Ctl:             res.Ctl,
		Values:          res.Values,
		FlagToPatternID: res.FlagToPatternID,
		PatternKeys:     res.PatternKeys,
		rowSpans:        res.RowSpans,
		rows:            res.Rows,
		cols:            res.Cols,
		nnz:             res.NNZ,
		rowStart:        res.RowStart,
		passes:          res.Passes,
		transport:       res.Transport,
	}
}
