package matrix

import (
	"fmt"
	"sort"

	"github.com/sparsex-go/csx/errs"
	"github.com/sparsex-go/csx/order"
	"github.com/sparsex-go/csx/pattern"
)

// Triple is one non-zero entry as supplied by a caller: 0-based row, 0-based
// column, value. COO takes ownership of neither; it copies what it needs.
type Triple struct {
	Row   int
	Col   int
	Value float64
}

// cooEntry is COO's durable per-nonzero record. Unlike the Cell values Row
// returns, entries persist across Transform calls and carry the real
// (row, col) coordinates, so a pattern claimed in one traversal survives a
// later Transform to a different one.
type cooEntry struct {
	row, col int
	value    float64
	pattern  *pattern.Descriptor
}

// COO is an in-memory, coordinate-list Matrix implementation: a minimal
// stand-in for the matrix-ingestion collaborator this module treats as
// external, sufficient to exercise the encoder against real data and in
// tests.
type COO struct {
	rows, cols int
	entries    []cooEntry
	trav       order.Traversal
	buckets    [][]int
	rowStart   int
}

// NewCOO builds a COO matrix from an unordered list of non-zero triples.
// Duplicate (row, col) pairs are not detected or merged; the caller is
// responsible for supplying a well-formed coordinate list.
func NewCOO(rows, cols int, triples []Triple) *COO {
	entries := make([]cooEntry, len(triples))
	for i, t := range triples {
		entries[i] = cooEntry{row: t.Row, col: t.Col, value: t.Value}
	}
	c := &COO{rows: rows, cols: cols, entries: entries, trav: order.RowMajor}
	c.rebuild()
	return c
}

func (c *COO) Rows() int { return c.rows }
func (c *COO) Cols() int { return c.cols }
func (c *COO) NNZ() int  { return len(c.entries) }

func (c *COO) RowStart() int { return c.rowStart }

// Row returns the cells of bucket i under the matrix's current traversal.
// Column holds whichever coordinate varies along that traversal (the real
// column for RowMajor/DiagMajor/AntiDiagMajor, the real row for ColMajor).
func (c *COO) Row(i int) []Cell {
	if i < 0 || i >= c.numBuckets() {
		return nil
	}
	ids := c.buckets[i]
	cells := make([]Cell, len(ids))
	for k, idx := range ids {
		e := c.entries[idx]
		cells[k] = Cell{Column: c.columnFor(e), Value: e.value, Pattern: e.pattern}
	}
	return cells
}

// Transform permutes which buckets Row exposes to match o's traversal.
// Previously committed pattern claims (see Annotate) are preserved: they
// live on the underlying entries, not on any one traversal's bucket layout.
func (c *COO) Transform(o order.Order) error {
	t := o.Traversal()
	if t == c.trav {
		return nil
	}
	c.trav = t
	c.rebuild()
	return nil
}

// Annotate claims the cell at column within bucket i for desc, so that later
// passes see it already patterned and flush around it rather than folding
// it into a new run. i and column must refer to the traversal in effect at
// the time of the call — annotate immediately after the Row(i) that produced
// column, before any further Transform.
func (c *COO) Annotate(i, column int, desc *pattern.Descriptor) error {
	if i < 0 || i >= c.numBuckets() {
		return fmt.Errorf("matrix: annotate bucket %d out of range: %w", i, errs.ErrInvariant)
	}
	for _, idx := range c.buckets[i] {
		if c.columnFor(c.entries[idx]) == column {
			c.entries[idx].pattern = desc
			return nil
		}
	}
	return fmt.Errorf("matrix: annotate found no cell at bucket %d column %d: %w", i, column, errs.ErrInvariant)
}

func (c *COO) numBuckets() int {
	switch c.trav {
	case order.RowMajor:
		return c.rows
	case order.ColMajor:
		return c.cols
	case order.DiagMajor, order.AntiDiagMajor:
		if c.rows == 0 || c.cols == 0 {
			return 0
		}
		return c.rows + c.cols - 1
	default:
		return c.rows
	}
}

func (c *COO) bucketFor(e cooEntry) int {
	switch c.trav {
	case order.RowMajor:
		return e.row
	case order.ColMajor:
		return e.col
	case order.DiagMajor:
		return e.col - e.row + (c.rows - 1)
	case order.AntiDiagMajor:
		return e.row + e.col
	default:
		return e.row
	}
}

func (c *COO) columnFor(e cooEntry) int {
	switch c.trav {
	case order.ColMajor:
		return e.row
	default:
		return e.col
	}
}

func (c *COO) rebuild() {
	n := c.numBuckets()
	buckets := make([][]int, n)
	for idx, e := range c.entries {
		b := c.bucketFor(e)
		buckets[b] = append(buckets[b], idx)
	}
	for b := range buckets {
		ids := buckets[b]
		sort.Slice(ids, func(i, j int) bool {
			return c.columnFor(c.entries[ids[i]]) < c.columnFor(c.entries[ids[j]])
		})
	}
	c.buckets = buckets
	c.rowStart = n
	for b, ids := range buckets {
		if len(ids) > 0 {
			c.rowStart = b
			break
		}
	}
}
