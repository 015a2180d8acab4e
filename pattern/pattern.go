// Package pattern defines the closed set of geometric shapes the encoder recognizes
// in a traversal of non-zero cells, and the per-instance descriptor attached to a
// matched run.
package pattern

import "fmt"

// Kind identifies the geometric shape a run of non-zero cells follows.
type Kind uint8

const (
	// None marks a cell that was not absorbed into any recognized pattern.
	None Kind = iota
	// Horizontal is a run of cells at consecutive columns within one row.
	Horizontal
	// Vertical is a run of cells at the same column across consecutive rows.
	Vertical
	// Diagonal is a run of cells whose row and column both advance by one.
	Diagonal
	// AntiDiagonal is a run of cells whose row advances by one while column
	// retreats by one.
	AntiDiagonal
	// BlockRow is a contiguous run within one row whose start column and
	// length are multiples of Align; it does not span more than one row.
	BlockRow
	// BlockCol is a contiguous run within one column whose start row and
	// length are multiples of Align; it does not span more than one column.
	BlockCol
)

// String renders the kind for logging and pattern-table reports.
func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Diagonal:
		return "diagonal"
	case AntiDiagonal:
		return "anti-diagonal"
	case BlockRow:
		return "block-row"
	case BlockCol:
		return "block-col"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// IsLinear reports whether the kind is one of the four 1D run shapes, as opposed
// to a 2D block shape.
func (k Kind) IsLinear() bool {
	switch k {
	case Horizontal, Vertical, Diagonal, AntiDiagonal:
		return true
	default:
		return false
	}
}

// IsBlock reports whether the kind is one of the 2D block shapes.
func (k Kind) IsBlock() bool {
	return k == BlockRow || k == BlockCol
}

// MinAlign and MaxAlign bound the valid Align values for block kinds. A block's
// Align is the alignment its start and length are multiples of, along the row
// for BlockRow and along the column for BlockCol.
const (
	MinAlign = 2
	MaxAlign = 8
)

// Descriptor records one recognized pattern instance: its shape, the column/row
// delta between consecutive cells (for linear kinds) or the block's alignment
// (for block kinds, held in Align), and how many cells it spans.
type Descriptor struct {
	Kind   Kind
	Delta  uint64    // linear kinds: distance between consecutive cells along the run
	Align  uint8     // block kinds: alignment, 2..MaxAlign
	Length int       // number of cells absorbed by this instance
	Values []float64 // the Length values covered, in pattern-traversal order
}

// Key identifies the (kind, delta-or-align) pair used to assign pattern ids.
// Two descriptors with the same Key are encoded with the same ctl pattern id.
type Key struct {
	Kind  Kind
	Delta uint64
}

// Key returns the identity under which this descriptor's pattern id is tracked.
// Block kinds fold Align into the delta slot since they carry no linear delta.
func (d Descriptor) Key() Key {
	if d.Kind.IsBlock() {
		return Key{Kind: d.Kind, Delta: uint64(d.Align)}
	}
	return Key{Kind: d.Kind, Delta: d.Delta}
}

// ColumnSpan returns the offset from this instance's anchor column to its
// last member cell's column, following the same per-kind geometry as
// RowSpan but along the column axis.
func (d Descriptor) ColumnSpan() int {
	switch d.Kind {
	case Vertical, BlockCol:
		return 0
	case AntiDiagonal:
		return -int(d.Delta) * (d.Length - 1)
	case BlockRow:
		return d.Length - 1
	default: // Horizontal, Diagonal
		return int(d.Delta) * (d.Length - 1)
	}
}

// MemberColumns returns the local column of every cell this instance
// absorbed, in traversal order, given the column of its first (anchor)
// cell. It assumes anchor and the returned columns share one traversal's
// local coordinate space — true for the row/bucket an instance was created
// in, not necessarily for a different traversal's bucketing of the same
// cells.
func (d Descriptor) MemberColumns(anchor int) []int {
	stride := int(d.Delta)
	if d.Kind.IsBlock() {
		stride = 1
	}
	cols := make([]int, d.Length)
	for i := range cols {
		cols[i] = anchor + i*stride
	}
	return cols
}

// RowSpan returns the number of distinct physical rows this instance's
// cells occupy. Horizontal and BlockRow instances are confined to the
// single row bucket they were detected in (this repo's block detector
// finds a contiguous run within one traversal bucket, not a true
// multi-row rectangle); every other kind places each member cell in a
// different physical row, so the count is Length regardless of Delta.
func (d Descriptor) RowSpan() int {
	switch d.Kind {
	case Horizontal, BlockRow:
		return 1
	default: // Vertical, Diagonal, AntiDiagonal, BlockCol
		return d.Length
	}
}
