// Package matrix defines the minimal sparse-matrix surface the encoder consumes:
// row-major iteration over non-zero cells, and an in-place reordering hook used
// to score alternate traversal orders. It does not implement SpMV, ingestion
// from external formats, or persistence — callers build a Matrix however they
// like and hand it to the driver.
package matrix

import (
	"github.com/sparsex-go/csx/order"
	"github.com/sparsex-go/csx/pattern"
)

// Cell is one non-zero entry within a row. Column is 0-based. Pattern is nil
// until the encoder has matched this cell into a recognized run, at which
// point it points at the run's shared descriptor (all cells of one instance
// share a single *pattern.Descriptor).
type Cell struct {
	Column  int
	Value   float64
	Pattern *pattern.Descriptor
}

// Matrix is a row-major sparse matrix the encoder can walk and reorder.
//
// Implementations need not be mutable in place; Transform may rebuild internal
// storage so long as subsequent Row/RowStart calls reflect the new order.
type Matrix interface {
	// Rows returns the number of rows.
	Rows() int
	// Cols returns the number of columns.
	Cols() int
	// NNZ returns the total number of non-zero entries.
	NNZ() int
	// RowStart returns the 0-based index of the first row that contains at
	// least one non-zero entry, or Rows() if the matrix is empty.
	RowStart() int
	// Row returns the non-zero cells of row i, sorted by Column ascending.
	// The returned slice must not be mutated by the caller.
	Row(i int) []Cell
	// Transform reorders the matrix's internal traversal to match o. Calling
	// Transform with the matrix's current order is a no-op. Transform(RowMajor)
	// must always succeed and restore native order.
	Transform(o order.Order) error
}
