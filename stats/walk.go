package stats

import (
	"github.com/sparsex-go/csx/internal/drle"
	"github.com/sparsex-go/csx/matrix"
	"github.com/sparsex-go/csx/order"
)

// patternStrategy answers, for one delta-RLE record produced while walking
// a row's unpatterned cells, what (if anything) to record in tbl. unitStart
// is the running position tracked exactly as the original block detector
// tracks it (see blockStrategy); linearStrategy ignores it.
type patternStrategy interface {
	process(tbl *Table, rec drle.Run[uint64], unitStart uint64)
}

// linearStrategy implements §4.C: every record whose run length reaches
// minLimit contributes its full frequency as covered cells and one instance.
type linearStrategy struct {
	minLimit int
}

func (s *linearStrategy) process(tbl *Table, rec drle.Run[uint64], _ uint64) {
	if rec.Freq >= s.minLimit {
		tbl.add(rec.Value, rec.Freq, 1)
	}
}

// blockStrategy implements §4.D: only contiguous (delta==1) records are
// candidates, and must be trimmed to the alignment boundary before their
// length reveals a whole number of aligned rows/columns.
type blockStrategy struct {
	align int
}

func (s *blockStrategy) process(tbl *Table, rec drle.Run[uint64], unitStart uint64) {
	if rec.Value != 1 {
		return
	}
	nrElem := rec.Freq + 1
	skipFront := 0
	if unitStart != 1 {
		skipFront = int((unitStart - 2) % uint64(s.align))
	}
	if nrElem > skipFront {
		nrElem -= skipFront
	} else {
		nrElem = 0
	}
	otherDim := nrElem / s.align
	if otherDim >= 2 {
		tbl.add(uint64(otherDim), otherDim*s.align, 1)
	}
}

func strategyFor(o order.Order, minLimit int) patternStrategy {
	if o.Kind.IsBlock() {
		return &blockStrategy{align: int(o.Align)}
	}
	return &linearStrategy{minLimit: minLimit}
}

// walkRow accumulates the columns of consecutive unpatterned cells into a
// scratch buffer, flushing (delta-encoding, run-length-encoding, and
// handing every resulting record to strat) whenever a patterned cell
// interrupts the run or the row ends. Columns are tracked one-based,
// matching the alignment arithmetic's own convention.
func walkRow(cells []matrix.Cell, strat patternStrategy, tbl *Table) {
	xs := make([]uint64, 0, len(cells))
	flush := func() {
		if len(xs) == 0 {
			return
		}
		var unitStart uint64
		for _, rec := range drle.DeltaRLE(xs) {
			unitStart += rec.Value
			strat.process(tbl, rec, unitStart)
			unitStart += rec.Value * uint64(rec.Freq-1)
		}
		xs = xs[:0]
	}
	for _, c := range cells {
		if c.Pattern != nil {
			flush()
			continue
		}
		xs = append(xs, uint64(c.Column)+1)
	}
	flush()
}

// bucketCount returns the number of traversal buckets (rows under
// RowMajor, columns under ColMajor, diagonals under the diagonal
// traversals) a matrix of this shape exposes under t.
func bucketCount(m matrix.Matrix, t order.Traversal) int {
	switch t {
	case order.RowMajor:
		return m.Rows()
	case order.ColMajor:
		return m.Cols()
	default:
		if m.Rows() == 0 || m.Cols() == 0 {
			return 0
		}
		return m.Rows() + m.Cols() - 1
	}
}

// Gather walks every bucket of m under o's traversal and returns the
// resulting statistics table. The caller is responsible for having already
// transformed m to o (see GatherAll, which does this automatically).
func Gather(m matrix.Matrix, o order.Order, minLimit int) *Table {
	tbl := NewTable(o)
	strat := strategyFor(o, minLimit)
	n := bucketCount(m, o.Traversal())
	for i := m.RowStart(); i < n; i++ {
		walkRow(m.Row(i), strat, tbl)
	}
	return tbl
}

// GatherAll transforms m to each non-ignored order in turn and gathers its
// table. Orders sharing a traversal (e.g. every BlockRow alignment) reuse
// the same Transform call, since Transform is a no-op when the matrix is
// already in the requested traversal.
func GatherAll(m matrix.Matrix, minLimit int, ignore order.Mask) (map[order.Order]*Table, error) {
	tables := make(map[order.Order]*Table, len(order.All))
	for _, o := range order.All {
		if ignore.Has(o) {
			continue
		}
		if err := m.Transform(o); err != nil {
			return nil, err
		}
		tables[o] = Gather(m, o, minLimit)
	}
	return tables, nil
}
