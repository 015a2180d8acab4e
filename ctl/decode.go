package ctl

import (
	"fmt"

	"github.com/sparsex-go/csx/errs"
	"github.com/sparsex-go/csx/matrix"
	"github.com/sparsex-go/csx/pattern"
)

// Decode walks a finished Result back into the (row, column, value) triples
// it encodes, in emission order. It exists to let package and end-to-end
// tests assert round-trip equality against the original input; it is not
// part of the encoder's own hot path.
func Decode(res Result, rowStart int, fullColumnIndices bool) ([]matrix.Triple, error) {
	var out []matrix.Triple
	buf := res.Ctl
	pos := 0
	vi := 0
	row := rowStart - 1
	lastCol := -1

	for pos < len(buf) {
		if pos+2 > len(buf) {
			return nil, fmt.Errorf("ctl: truncated unit header: %w", errs.ErrInvariant)
		}
		flags := buf[pos]
		size := int(buf[pos+1])
		pos += 2

		newRow := flags&NRBit != 0
		if newRow {
			rowAdvance := 1
			if flags&RJMPBit != 0 {
				v, n := getVarint(buf[pos:])
				pos += n
				rowAdvance = int(v)
			}
			row += rowAdvance
			lastCol = -1
		}

		jump, n := getVarint(buf[pos:])
		pos += n
		col := int(jump)
		if !fullColumnIndices {
			col = lastCol + int(jump)
		}

		flag := flags & flagMask
		if width, ok := isSingletonFlag(flag); ok {
			if size > 1 {
				padPos := pos
				pad := (width - padPos%width) % width
				pos += pad

				cur := col
				out = append(out, matrix.Triple{Row: row, Col: cur, Value: res.Values[vi]})
				vi++
				for i := 0; i < size-1; i++ {
					d := readWidth(buf[pos:], width)
					pos += width
					cur += int(d)
					out = append(out, matrix.Triple{Row: row, Col: cur, Value: res.Values[vi]})
					vi++
				}
				lastCol = cur
			} else {
				out = append(out, matrix.Triple{Row: row, Col: col, Value: res.Values[vi]})
				vi++
				lastCol = col
			}
			continue
		}

		key, ok := res.PatternKeys[flag]
		if !ok {
			return nil, fmt.Errorf("ctl: unknown pattern flag %d: %w", flag, errs.ErrInvalidOrder)
		}
		delta := int(key.Delta)
		if key.Kind.IsBlock() {
			delta = 1
		}
		for i := 0; i < size; i++ {
			r, c := expand(key.Kind, row, col, delta, i)
			out = append(out, matrix.Triple{Row: r, Col: c, Value: res.Values[vi]})
			vi++
		}
		lastCol = col + span(key.Kind, delta, size)
	}
	return out, nil
}

func expand(kind pattern.Kind, row, col, delta, i int) (int, int) {
	switch kind {
	case pattern.Horizontal, pattern.BlockRow:
		return row, col + i*delta
	case pattern.Vertical, pattern.BlockCol:
		return row + i*delta, col
	case pattern.Diagonal:
		return row + i*delta, col + i*delta
	case pattern.AntiDiagonal:
		return row + i*delta, col - i*delta
	default:
		return row, col
	}
}

func span(kind pattern.Kind, delta, size int) int {
	switch kind {
	case pattern.Vertical, pattern.BlockCol:
		return 0
	case pattern.AntiDiagonal:
		return -delta * (size - 1)
	default:
		return delta * (size - 1)
	}
}

func readWidth(buf []byte, width int) uint64 {
	switch width {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(wireEndian.Uint16(buf))
	case 4:
		return uint64(wireEndian.Uint32(buf))
	default:
		return wireEndian.Uint64(buf)
	}
}
