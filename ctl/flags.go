package ctl

// Per spec.md §6: flags is a single byte, bit 7 = NRBit, bit 6 = RJMPBit,
// bits 5..0 = a pattern flag in [0, 64).
const (
	NRBit       = 1 << 7
	RJMPBit     = 1 << 6
	flagMask    = 0x3f
	maxUnitSize = 254
)

// The 6-bit flag space is shared between real pattern ids (first-come,
// first-served, starting at 0) and four reserved markers — one per delta
// width — for singleton runs. CTLPatternsMax is the space left for real
// patterns once those four are carved off the top.
const (
	numDeltaWidths = 4
	pidDeltaBase   = 64 - numDeltaWidths // 60

	// CTLPatternsMax is the largest number of distinct (kind, delta) patterns
	// one matrix can carry, so that pattern ids stay below the flag values
	// reserved for singleton-run width markers; a 61st distinct pattern is
	// rejected with errs.ErrTooManyPatterns.
	CTLPatternsMax = pidDeltaBase
)

// deltaWidths lists the byte widths singleton-run payloads can use, in the
// order their reserved flag values are assigned.
var deltaWidths = [numDeltaWidths]int{1, 2, 4, 8}

func deltaWidthIndex(width int) uint8 {
	for i, w := range deltaWidths {
		if w == width {
			return uint8(i)
		}
	}
	panic("ctl: unsupported delta width")
}

func singletonFlag(width int) uint8 {
	return pidDeltaBase + deltaWidthIndex(width)
}

func isSingletonFlag(flag uint8) (width int, ok bool) {
	if flag < pidDeltaBase {
		return 0, false
	}
	idx := flag - pidDeltaBase
	if int(idx) >= numDeltaWidths {
		return 0, false
	}
	return deltaWidths[idx], true
}

// widthFor returns the smallest of {1,2,4,8} bytes that can hold v unsigned.
func widthFor(v uint64) int {
	switch {
	case v <= 0xff:
		return 1
	case v <= 0xffff:
		return 2
	case v <= 0xffffffff:
		return 4
	default:
		return 8
	}
}
