// Package errs defines the closed set of sentinel errors produced by the csx encoder.
//
// Every error the encoder can return is one of the values declared here (or a wrap of
// one, via fmt.Errorf("...: %w", errs.ErrX)), apart from the context error that
// driver.RunWithLogger returns when its context is cancelled. Callers should use
// errors.Is to match.
package errs

import "errors"

var (
	// ErrTooManyPatterns is returned when the pattern-id flag counter would exceed
	// ctl.CTLPatternsMax (60). The matrix is too dense in distinct (kind, delta) pairs
	// for a single ctl stream; lower max_limit or raise min_perc/min_limit.
	ErrTooManyPatterns = errors.New("csx: too many distinct patterns for one pass")

	// ErrUnitTooLarge is returned when a unit's size would exceed 254, the maximum
	// representable in the one-byte size field.
	ErrUnitTooLarge = errors.New("csx: unit size exceeds 254")

	// ErrRowCursorMismatch indicates the value cursor was not at the end of a row
	// when the row closed — an encoder invariant violation.
	ErrRowCursorMismatch = errors.New("csx: value cursor mismatch at row close")

	// ErrValueCursorMismatch indicates the total values consumed did not equal nnz
	// at finalization.
	ErrValueCursorMismatch = errors.New("csx: value cursor mismatch at finalize")

	// ErrPopOnNonSingleton indicates the block detector tried to pop the previously
	// emitted row entry to reclaim it for a block, but that entry was not a plain
	// singleton cell.
	ErrPopOnNonSingleton = errors.New("csx: block pop target was not a singleton")

	// ErrInvalidOrder is returned for an unrecognized or out-of-range traversal order,
	// and also for invalid driver limits or coverage percentage, for a matrix that
	// cannot record pattern annotations, and for an unknown flag met by ctl.Decode.
	ErrInvalidOrder = errors.New("csx: invalid traversal order")

	// ErrEmptyMatrix is returned when an operation requires a non-empty matrix.
	ErrEmptyMatrix = errors.New("csx: matrix has no non-zero entries")

	// ErrInvariant is a catch-all for invariant violations. There is no debug build
	// mode: violations are always returned as errors and never panic.
	ErrInvariant = errors.New("csx: internal invariant violated")

	// ErrAllocation signals a buffer or scratch-space allocation failure.
	ErrAllocation = errors.New("csx: allocation failure")

	// ErrUnsupportedCompression is returned by the compress package for an unknown
	// transport compression type.
	ErrUnsupportedCompression = errors.New("csx: unsupported compression type")
)
