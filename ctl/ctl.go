// Package ctl builds the byte-exact control stream described by §6: a
// concatenation of units, each either a singleton run (one or more
// unpatterned cells, delta-encoded in place with no constraint that the
// per-step deltas be uniform) or a pattern instance. Grounded on
// original_source/include/sparsex/internals/CsxManager.hpp's
// AddCols/AddPattern/GetFlag/AppendCtlHead.
package ctl

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/sparsex-go/csx/endian"
	"github.com/sparsex-go/csx/errs"
	"github.com/sparsex-go/csx/internal/pool"
	"github.com/sparsex-go/csx/matrix"
	"github.com/sparsex-go/csx/pattern"
)

// Builder accumulates ctl bytes and values for one matrix. It is driven one
// row at a time, in row-major order, over the matrix's final, fully
// pattern-annotated cell sequence. Call AddRow for every row from the
// matrix's RowStart through its last row, then Finalize.
type Builder struct {
	buf    *pool.ByteBuffer
	values []float64

	fullColumnIndices bool

	ids    map[pattern.Key]uint8
	nextID uint8
	keyOf  [64]pattern.Key

	// seen guards against re-emitting a multi-row pattern (Vertical,
	// Diagonal, AntiDiagonal, BlockCol) once per member row: only its anchor
	// cell — the first one encountered in row-major order — produces a unit.
	seen map[*pattern.Descriptor]bool

	emptyRows int
	lastCol   int

	finalized bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithFullColumnIndices selects the alternate ctl encoding (a supplemented
// feature, not in spec.md) where every unit's jump field is the unit's
// absolute starting column rather than an offset from the previous unit's
// last column.
func WithFullColumnIndices() Option {
	return func(b *Builder) { b.fullColumnIndices = true }
}

// NewBuilder returns a Builder with a freshly pooled ctl buffer.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		buf:  pool.GetBlobBuffer(),
		ids:  make(map[pattern.Key]uint8),
		seen: make(map[*pattern.Descriptor]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Result is the output of Finalize: the finished byte-exact ctl stream plus
// everything a decoder needs to walk it back into triples.
type Result struct {
	Ctl             []byte
	Values          []float64
	FlagToPatternID []int64
	PatternKeys     map[uint8]pattern.Key
}

// rowUnit is one pending emission within a row: either a plain run (flag is a
// singleton width marker) or a pattern instance (flag is its pattern id).
type rowUnit struct {
	flag   uint8
	size   int
	col    int // absolute column of the unit's first cell
	deltas []uint64 // per-step column deltas for a plain run, len(deltas) == size-1
	width  int
	values []float64
	span   int // absolute column of the unit's last cell, for lastCol bookkeeping
}

// AddRow consumes one row's cells, already re-encoded and annotated with
// whatever patterns earlier driver passes recognized. Rows with zero
// resulting units (either truly empty, or entirely composed of non-anchor
// members of multi-row patterns already emitted) are folded into the next
// row's RJMP count.
func (b *Builder) AddRow(cells []matrix.Cell) error {
	units, err := b.rowUnits(cells)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		b.emptyRows++
		return nil
	}

	b.lastCol = -1
	for i, u := range units {
		if err := b.emit(u, i == 0); err != nil {
			return err
		}
		b.lastCol = u.span
	}
	return nil
}

func (b *Builder) rowUnits(cells []matrix.Cell) ([]rowUnit, error) {
	var units []rowUnit
	var xs []uint64
	var vs []float64

	// flushPlain batches every accumulated non-pattern cell into one ctl unit
	// per maxUnitSize-sized chunk, regardless of whether the per-step column
	// deltas within a chunk are uniform: a unit's size is bounded only by
	// maxUnitSize, never split early just because two consecutive residual
	// cells happen to land at different strides (AddCols batches this way;
	// see original_source/include/sparsex/internals/CsxManager.hpp).
	flushPlain := func() error {
		n := len(xs)
		for start := 0; start < n; {
			end := start + maxUnitSize
			if end > n {
				end = n
			}
			chunk := end - start

			var deltas []uint64
			var maxDelta uint64
			for i := start; i < end-1; i++ {
				d := xs[i+1] - xs[i]
				deltas = append(deltas, d)
				if d > maxDelta {
					maxDelta = d
				}
			}
			width := widthFor(maxDelta)

			units = append(units, rowUnit{
				flag:   singletonFlag(width),
				size:   chunk,
				col:    int(xs[start]),
				deltas: deltas,
				width:  width,
				values: vs[start:end],
				span:   int(xs[end-1]),
			})
			start = end
		}
		xs, vs = xs[:0], vs[:0]
		return nil
	}

	for _, c := range cells {
		if c.Pattern == nil {
			xs = append(xs, uint64(c.Column))
			vs = append(vs, c.Value)
			continue
		}
		if err := flushPlain(); err != nil {
			return nil, err
		}
		if b.seen[c.Pattern] {
			continue
		}
		b.seen[c.Pattern] = true
		desc := c.Pattern
		if desc.Length > maxUnitSize {
			return nil, fmt.Errorf("ctl: pattern length %d exceeds unit size limit: %w", desc.Length, errs.ErrUnitTooLarge)
		}
		id, err := b.idFor(desc)
		if err != nil {
			return nil, err
		}
		values := desc.Values
		if desc.Kind == pattern.AntiDiagonal {
			// Row-major order meets an anti-diagonal at its top-right cell,
			// which is where Decode starts expanding, while Values runs
			// bottom-left first.
			values = make([]float64, len(desc.Values))
			for i, v := range desc.Values {
				values[len(values)-1-i] = v
			}
		}
		units = append(units, rowUnit{
			flag:   id,
			size:   desc.Length,
			col:    c.Column,
			values: values,
			span:   c.Column + desc.ColumnSpan(),
		})
	}
	if err := flushPlain(); err != nil {
		return nil, err
	}
	return units, nil
}

func (b *Builder) idFor(desc *pattern.Descriptor) (uint8, error) {
	key := desc.Key()
	if id, ok := b.ids[key]; ok {
		return id, nil
	}
	if b.nextID >= CTLPatternsMax {
		return 0, fmt.Errorf("ctl: pattern flag counter exceeded %d: %w", CTLPatternsMax, errs.ErrTooManyPatterns)
	}
	id := b.nextID
	b.nextID++
	b.ids[key] = id
	b.keyOf[id] = key
	return id, nil
}

func (b *Builder) emit(u rowUnit, rowFirst bool) error {
	if u.size > maxUnitSize {
		return fmt.Errorf("ctl: unit size %d exceeds %d: %w", u.size, maxUnitSize, errs.ErrUnitTooLarge)
	}

	flags := u.flag & flagMask
	if rowFirst {
		flags |= NRBit
		if b.emptyRows > 0 {
			flags |= RJMPBit
		}
	}
	b.buf.MustWrite([]byte{flags, byte(u.size)})

	if rowFirst && b.emptyRows > 0 {
		b.buf.B = putVarint(b.buf.B, uint64(b.emptyRows+1))
		b.emptyRows = 0
	}

	jump := uint64(u.col)
	if !b.fullColumnIndices {
		jump = uint64(u.col - b.lastCol) // lastCol == -1 at row start
	}
	b.buf.B = putVarint(b.buf.B, jump)

	if width, ok := isSingletonFlag(u.flag); ok && u.size > 1 {
		b.padTo(width)
		for _, d := range u.deltas {
			b.writeWidth(d, width)
		}
	}

	b.values = append(b.values, u.values...)
	return nil
}

func (b *Builder) padTo(width int) {
	n := b.buf.Len()
	pad := (width - n%width) % width
	for i := 0; i < pad; i++ {
		b.buf.MustWrite([]byte{0})
	}
}

// wireEndian is the byte order of every fixed-width field in the ctl stream
// (§6 mandates little-endian). Using the engine's AppendUint* methods avoids
// the temporary-buffer-then-copy writeWidth previously did by hand.
var wireEndian = endian.GetLittleEndianEngine()

func (b *Builder) writeWidth(v uint64, width int) {
	switch width {
	case 1:
		b.buf.MustWrite([]byte{byte(v)})
	case 2:
		b.buf.B = wireEndian.AppendUint16(b.buf.B, uint16(v))
	case 4:
		b.buf.B = wireEndian.AppendUint32(b.buf.B, uint32(v))
	default:
		b.buf.B = wireEndian.AppendUint64(b.buf.B, v)
	}
}

// Checksum hashes the ctl bytes and values accumulated so far with xxHash64.
func (b *Builder) Checksum() uint64 {
	h := xxhash.New()
	h.Write(b.buf.Bytes())
	var tmp [8]byte
	for _, v := range b.values {
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
		h.Write(tmp[:])
	}
	return h.Sum64()
}

// Finalize copies the accumulated ctl bytes into the returned Result, returns
// the Builder's pooled buffer to the pool, and hands its values slice over to
// the Result. A finalized Builder must not be reused.
func (b *Builder) Finalize() (Result, error) {
	if b.finalized {
		return Result{}, fmt.Errorf("ctl: builder already finalized: %w", errs.ErrInvariant)
	}
	b.finalized = true

	ctlBytes := append([]byte(nil), b.buf.Bytes()...)
	pool.PutBlobBuffer(b.buf)
	b.buf = nil

	flagToPatternID := make([]int64, 64)
	keys := make(map[uint8]pattern.Key, b.nextID)
	for i := range flagToPatternID {
		flagToPatternID[i] = -1
	}
	for id := uint8(0); id < b.nextID; id++ {
		flagToPatternID[id] = int64(id)
		keys[id] = b.keyOf[id]
	}

	res := Result{
		Ctl:             ctlBytes,
		Values:          b.values,
		FlagToPatternID: flagToPatternID,
		PatternKeys:     keys,
	}
	b.values = nil
	return res, nil
}
