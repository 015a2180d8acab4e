// Package stats gathers per-traversal-order pattern statistics over a
// matrix's non-zero placement, scores the resulting tables, and picks the
// order most worth encoding.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/exp/maps"

	"github.com/sparsex-go/csx/order"
)

// Entry accumulates coverage for one delta (linear orders) or other_dim
// (block orders) within a single Table.
type Entry struct {
	NNZCovered int
	Instances  int
}

// Table holds the statistics gathered for one candidate order: a mapping
// from delta (or, for block orders, the block's other-dimension extent) to
// its accumulated coverage.
type Table struct {
	Order   order.Order
	entries map[uint64]*Entry
}

// NewTable returns an empty table for o.
func NewTable(o order.Order) *Table {
	return &Table{Order: o, entries: make(map[uint64]*Entry)}
}

func (t *Table) add(delta uint64, covered, instances int) {
	e, ok := t.entries[delta]
	if !ok {
		e = &Entry{}
		t.entries[delta] = e
	}
	e.NNZCovered += covered
	e.Instances += instances
}

// Entry returns the accumulated statistics for delta, and whether anything
// was recorded for it.
func (t *Table) Entry(delta uint64) (Entry, bool) {
	e, ok := t.entries[delta]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Deltas returns every delta this table has an entry for, sorted ascending.
func (t *Table) Deltas() []uint64 {
	ks := maps.Keys(t.entries)
	sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })
	return ks
}

// Admitted returns the subset of entries whose coverage fraction of
// totalNNZ is at least minPerc — the surviving deltas for this order.
func (t *Table) Admitted(totalNNZ int, minPerc float64) map[uint64]Entry {
	out := make(map[uint64]Entry)
	if totalNNZ <= 0 {
		return out
	}
	for d, e := range t.entries {
		if float64(e.NNZCovered)/float64(totalNNZ) >= minPerc {
			out[d] = *e
		}
	}
	return out
}

// Score sums nnz_covered minus instances across the admitted set: each
// covered non-zero is a win, each pattern instance costs a header.
func (t *Table) Score(totalNNZ int, minPerc float64) int {
	score := 0
	for _, e := range t.Admitted(totalNNZ, minPerc) {
		score += e.NNZCovered - e.Instances
	}
	return score
}

// Report renders a human-readable coverage breakdown, used by the driver's
// verbose logging path.
func (t *Table) Report(totalNNZ int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "order=%s", t.Order)
	for _, d := range t.Deltas() {
		e := t.entries[d]
		pct := 0.0
		if totalNNZ > 0 {
			pct = 100 * float64(e.NNZCovered) / float64(totalNNZ)
		}
		fmt.Fprintf(&b, " delta=%d covered=%s instances=%s (%.1f%%)",
			d, humanize.Comma(int64(e.NNZCovered)), humanize.Comma(int64(e.Instances)), pct)
	}
	return b.String()
}

// Select scores every table in tables and returns the order with the
// strictly greatest positive score, favoring the earliest order in
// order.All on ties. Returns order.None if no table scores positively.
func Select(tables map[order.Order]*Table, totalNNZ int, minPerc float64) order.Order {
	best := order.None
	bestScore := 0
	for _, o := range order.All {
		tbl, ok := tables[o]
		if !ok {
			continue
		}
		if score := tbl.Score(totalNNZ, minPerc); score > bestScore {
			bestScore = score
			best = o
		}
	}
	return best
}
