package pool

import "sync"

// float64SlicePool reuses the scratch []float64 a row re-encode pass needs
// to stage one bucket's values before it's known how many of them a pattern
// match will consume.
var float64SlicePool = sync.Pool{
	New: func() any { return &[]float64{} },
}

// GetFloat64Slice retrieves a float64 slice of exactly length size from the
// pool, allocating a new one if the pooled slice's capacity falls short.
// The caller must call the returned cleanup function (typically via defer)
// to return the slice to the pool.
func GetFloat64Slice(size int) ([]float64, func()) {
	ptr, _ := float64SlicePool.Get().(*[]float64)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]float64, size)
		*ptr = slice
	} else {
		slice = slice[:size]
		*ptr = slice
	}

	return slice, func() { float64SlicePool.Put(ptr) }
}
