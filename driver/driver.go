// Package driver implements the encoder's outer loop (§4.H): gather
// statistics for every candidate order, select the best, transform the
// matrix into it, re-encode every row, persist the newly recognized
// patterns back onto the matrix, transform back to the canonical traversal,
// and repeat until no order scores positively or every order has fired
// once.
package driver

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sparsex-go/csx/compress"
	"github.com/sparsex-go/csx/ctl"
	"github.com/sparsex-go/csx/errs"
	"github.com/sparsex-go/csx/internal/logging"
	"github.com/sparsex-go/csx/internal/options"
	"github.com/sparsex-go/csx/internal/reencode"
	"github.com/sparsex-go/csx/matrix"
	"github.com/sparsex-go/csx/order"
	"github.com/sparsex-go/csx/pattern"
	"github.com/sparsex-go/csx/stats"
)

// Config parameterizes one encoding run.
type Config struct {
	// MinLimit is the minimum run length a linear-order statistics entry
	// must reach to be gathered at all. Block orders ignore it: their
	// entries are gathered once a run holds at least two aligned groups.
	MinLimit int
	// MaxLimit caps a single pattern instance's length.
	MaxLimit int
	// MinPerc is the minimum fraction of the matrix's non-zeros a delta (or
	// block other-dimension) must cover to be admitted for re-encoding.
	MinPerc float64
	// FullColumnIndices selects the alternate ctl jump-field encoding
	// (a supplemented feature, see SPEC_FULL.md).
	FullColumnIndices bool
	// Transport optionally compresses the finished ctl+values pair for
	// shipping to a remote consumer; it never affects the encoding decision.
	Transport compress.Algorithm
	// Logger receives per-pass progress; defaults to a no-op logger.
	Logger zerolog.Logger
}

// DefaultConfig returns the thresholds the original encoder ships with.
func DefaultConfig() Config {
	return Config{
		MinLimit: 4,
		MaxLimit: 254,
		MinPerc:  0.1,
		Logger:   logging.Nop(),
	}
}

// ConfigOption configures a Config via NewConfig, the same functional-option
// shape the rest of this pack's encoders use for their *EncoderConfig types.
type ConfigOption = options.Option[*Config]

// NewConfig builds a Config from DefaultConfig plus any options, applied in
// order.
func NewConfig(opts ...ConfigOption) (Config, error) {
	cfg := DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithLimits sets the minimum and maximum run/block lengths a pass will
// consider.
func WithLimits(minLimit, maxLimit int) ConfigOption {
	return options.New(func(c *Config) error {
		if minLimit < 1 || maxLimit < minLimit {
			return fmt.Errorf("driver: invalid limits [%d,%d]: %w", minLimit, maxLimit, errs.ErrInvalidOrder)
		}
		c.MinLimit = minLimit
		c.MaxLimit = maxLimit
		return nil
	})
}

// WithMinCoveragePercent sets the minimum fraction of non-zeros a delta must
// cover to be admitted.
func WithMinCoveragePercent(p float64) ConfigOption {
	return options.New(func(c *Config) error {
		if p < 0 || p > 1 {
			return fmt.Errorf("driver: coverage percent %f out of [0,1]: %w", p, errs.ErrInvalidOrder)
		}
		c.MinPerc = p
		return nil
	})
}

// WithFullColumnIndices switches the ctl stream's jump field to absolute
// columns instead of deltas from the last column (see SPEC_FULL.md's
// supplemented full_column_indices mode).
func WithFullColumnIndices() ConfigOption {
	return options.NoError(func(c *Config) { c.FullColumnIndices = true })
}

// WithTransport sets the transport compression applied to the finished ctl
// and values streams.
func WithTransport(a compress.Algorithm) ConfigOption {
	return options.NoError(func(c *Config) { c.Transport = a })
}

// WithLogger sets the per-pass progress logger.
func WithLogger(l zerolog.Logger) ConfigOption {
	return options.NoError(func(c *Config) { c.Logger = l })
}

// annotator is the extra capability matrix.COO exposes beyond the Matrix
// interface: persisting a pattern claim onto one cell so it survives a
// Transform to a different traversal.
type annotator interface {
	Annotate(row, column int, desc *pattern.Descriptor) error
}

// Result is the immutable output of one encoding run: everything csx.Matrix
// needs, kept free of any dependency on the csx package to avoid an import
// cycle (csx imports driver, not the reverse).
type Result struct {
	Ctl             []byte
	Values          []float64
	FlagToPatternID []int64
	PatternKeys     map[uint8]pattern.Key
	RowSpans        []int
	Rows            int
	Cols            int
	NNZ             int
	RowStart        int
	Passes          int
	Transport       compress.Algorithm
}

// Run executes the stats→select→transform→encode→transform⁻¹→ignore loop to
// convergence, then builds the final ctl stream over the fully annotated,
// row-major matrix.
func Run(m matrix.Matrix, cfg Config) (*Result, error) {
	return RunWithLogger(context.Background(), m, cfg)
}

// RunWithLogger is Run's context-aware form: the context is checked between
// passes (not mid-pass, per §5's synchronous-core contract) and cfg.Logger
// receives one Info event per pass.
func RunWithLogger(ctx context.Context, m matrix.Matrix, cfg Config) (*Result, error) {
	if m.NNZ() == 0 {
		return nil, fmt.Errorf("driver: matrix has no non-zeros: %w", errs.ErrEmptyMatrix)
	}
	ann, ok := m.(annotator)
	if !ok {
		return nil, fmt.Errorf("driver: matrix does not support pattern annotation: %w", errs.ErrInvalidOrder)
	}

	committed := make(map[*pattern.Descriptor]bool)
	var ignore order.Mask
	passes := 0

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		tables, err := stats.GatherAll(m, cfg.MinLimit, ignore)
		if err != nil {
			return nil, err
		}
		best := stats.Select(tables, m.NNZ(), cfg.MinPerc)
		if best.IsNone() {
			break
		}

		if tbl, ok := tables[best]; ok {
			cfg.Logger.Info().Str("pass", best.String()).Str("stats", tbl.Report(m.NNZ())).Msg("csx pass")
		}

		if err := runPass(m, ann, best, tables[best], cfg, committed); err != nil {
			return nil, err
		}

		// Return to the canonical row-major traversal before the next
		// pass's stats gathering and before the loop's ignore check.
		if err := m.Transform(order.Order{Kind: pattern.Horizontal}); err != nil {
			return nil, err
		}

		ignore = ignore.Set(best)
		passes++
		if ignore.Exhausted() {
			break
		}
	}

	res, err := build(m, cfg)
	if err != nil {
		return nil, err
	}
	res.Passes = passes
	return res, nil
}

// runPass transforms m into o's traversal, re-encodes every bucket, and
// annotates every freshly recognized pattern instance back onto m.
func runPass(m matrix.Matrix, ann annotator, o order.Order, tbl *stats.Table, cfg Config, committed map[*pattern.Descriptor]bool) error {
	if err := m.Transform(o); err != nil {
		return err
	}

	admitted := tbl.Admitted(m.NNZ(), cfg.MinPerc)
	admittedKeys := make(map[uint64]bool, len(admitted))
	for k := range admitted {
		admittedKeys[k] = true
	}

	rcfg := reencode.Config{
		Kind:     o.Kind,
		Align:    o.Align,
		MinLimit: cfg.MinLimit,
		MaxLimit: cfg.MaxLimit,
		Admitted: admittedKeys,
	}

	n := bucketCount(m, o.Traversal())
	for i := m.RowStart(); i < n; i++ {
		cells := m.Row(i)
		out, err := reencode.EncodeRow(cells, rcfg)
		if err != nil {
			return err
		}
		for _, c := range out {
			if c.Pattern == nil || committed[c.Pattern] {
				continue
			}
			committed[c.Pattern] = true
			for _, col := range c.Pattern.MemberColumns(c.Column) {
				if err := ann.Annotate(i, col, c.Pattern); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// bucketCount mirrors stats.bucketCount (unexported there); duplicated
// rather than exported across a package boundary for one three-line helper.
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

// build walks the final, fully annotated matrix once in row-major order and
// emits the ctl stream, tracking each row's span.
func build(m matrix.Matrix, cfg Config) (*Result, error) {
	if err := m.Transform(order.Order{Kind: pattern.Horizontal}); err != nil {
		return nil, err
	}

	var opts []ctl.Option
	if cfg.FullColumnIndices {
		opts = append(opts, ctl.WithFullColumnIndices())
	}
	b := ctl.NewBuilder(opts...)

	rowSpans := make([]int, m.Rows())
	for i := m.RowStart(); i < m.Rows(); i++ {
		cells := m.Row(i)
		if span := rowSpanFor(cells); span > rowSpans[i] {
			rowSpans[i] = span
		}
		if err := b.AddRow(cells); err != nil {
			return nil, err
		}
	}

	res, err := b.Finalize()
	if err != nil {
		return nil, err
	}
	return &Result{
		Ctl:             res.Ctl,
		Values:          res.Values,
		FlagToPatternID: res.FlagToPatternID,
		PatternKeys:     res.PatternKeys,
		RowSpans:        rowSpans,
		Rows:            m.Rows(),
		Cols:            m.Cols(),
		NNZ:             m.NNZ(),
		RowStart:        m.RowStart(),
		Transport:       cfg.Transport,
	}, nil
}

func rowSpanFor(cells []matrix.Cell) int {
	span := 1
	for _, c := range cells {
		if c.Pattern == nil {
			continue
		}
		if s := c.Pattern.RowSpan(); s > span {
			span = s
		}
	}
	return span
}
