package pool

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, bb.Cap())
}

func TestByteBufferBytesAliasesB(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)
	bb.MustWrite([]byte("hello"))

	got := bb.Bytes()
	assert.Equal(t, []byte("hello"), got)
	assert.Same(t, &bb.B[0], &got[0])
}

func TestByteBufferReset(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)
	bb.MustWrite([]byte("some data"))
	originalCap := bb.Cap()

	bb.Reset()

	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, originalCap, bb.Cap())
}

func TestByteBufferMustWrite(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)

	bb.MustWrite([]byte("hello"))
	bb.MustWrite([]byte(" world"))

	assert.Equal(t, []byte("hello world"), bb.B)
}

func TestByteBufferWrite(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte("hello"), bb.B)
}

func TestByteBufferWriteTo(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)
	bb.MustWrite([]byte("test data"))

	var buf bytes.Buffer
	n, err := bb.WriteTo(&buf)

	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "test data", buf.String())
}

func TestByteBufferWriteToPropagatesError(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)
	bb.MustWrite([]byte("test"))

	n, err := bb.WriteTo(&errorWriter{err: io.ErrShortWrite})

	assert.Equal(t, io.ErrShortWrite, err)
	assert.Equal(t, int64(0), n)
}

func TestByteBufferSliceAndSetLength(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.SetLength(8)
	assert.Equal(t, 8, bb.Len())

	s := bb.Slice(2, 6)
	assert.Equal(t, 4, len(s))

	assert.Panics(t, func() { bb.SetLength(-1) })
	assert.Panics(t, func() { bb.Slice(0, 100) })
}

func TestByteBufferExtend(t *testing.T) {
	bb := NewByteBuffer(16)
	ok := bb.Extend(8)
	assert.True(t, ok)
	assert.Equal(t, 8, bb.Len())

	ok = bb.Extend(100)
	assert.False(t, ok, "extend beyond capacity should fail")
}

func TestByteBufferExtendOrGrow(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.ExtendOrGrow(100)
	assert.Equal(t, 100, bb.Len())
}

func TestByteBufferGrowSufficientCapacity(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)
	originalCap := bb.Cap()

	bb.Grow(100)

	assert.Equal(t, originalCap, bb.Cap())
}

func TestByteBufferGrowSmallBuffer(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)
	bb.SetLength(BlobBufferDefaultSize)

	bb.Grow(1024)

	assert.GreaterOrEqual(t, bb.Cap(), BlobBufferDefaultSize+1024)
}

func TestByteBufferGrowLargeBuffer(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)
	largeSize := 4*BlobBufferDefaultSize + 1024
	bb.B = make([]byte, largeSize)

	bb.Grow(2048)

	assert.GreaterOrEqual(t, bb.Cap(), largeSize+2048)
}

func TestByteBufferGrowPreservesData(t *testing.T) {
	bb := NewByteBuffer(BlobBufferDefaultSize)
	testData := []byte("important data that must be preserved")
	bb.MustWrite(testData)

	bb.Grow(BlobBufferDefaultSize * 2)

	assert.Equal(t, testData, bb.B)
}

func TestGetBlobBuffer(t *testing.T) {
	bb := GetBlobBuffer()

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.GreaterOrEqual(t, bb.Cap(), BlobBufferDefaultSize)
}

func TestPutBlobBufferNil(t *testing.T) {
	assert.NotPanics(t, func() { PutBlobBuffer(nil) })
}

func TestPutBlobBufferResets(t *testing.T) {
	bb := GetBlobBuffer()
	bb.MustWrite([]byte("sensitive data"))

	PutBlobBuffer(bb)

	assert.Equal(t, 0, bb.Len())
}

func TestBlobBufferPoolMultipleGetsAndPuts(t *testing.T) {
	buffers := make([]*ByteBuffer, 10)
	for i := range buffers {
		buffers[i] = GetBlobBuffer()
		buffers[i].MustWrite([]byte("data"))
	}
	for _, bb := range buffers {
		PutBlobBuffer(bb)
	}

	for i := 0; i < 10; i++ {
		bb := GetBlobBuffer()
		assert.Equal(t, 0, bb.Len())
		PutBlobBuffer(bb)
	}
}

func TestBlobBufferPoolConcurrentAccess(t *testing.T) {
	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				bb := GetBlobBuffer()
				bb.MustWrite([]byte("data"))
				assert.Equal(t, 4, bb.Len())
				PutBlobBuffer(bb)
			}
		}()
	}
	wg.Wait()
}

func TestNewByteBufferPool(t *testing.T) {
	p := NewByteBufferPool(8192, 65536)

	bb := p.Get()
	require.NotNil(t, bb)
	assert.GreaterOrEqual(t, bb.Cap(), 8192)
	p.Put(bb)
}

func TestByteBufferPoolMaxThresholdDiscard(t *testing.T) {
	p := NewByteBufferPool(1024, 4096)

	bb := p.Get()
	bb.Grow(10000)
	require.Greater(t, bb.Cap(), 4096)

	p.Put(bb)

	bb2 := p.Get()
	assert.LessOrEqual(t, bb2.Cap(), 4096*2, "buffer above threshold should not be retained")
}

func TestByteBufferPoolNoThreshold(t *testing.T) {
	p := NewByteBufferPool(1024, 0)

	bb := p.Get()
	bb.Grow(1024 * 1024)
	p.Put(bb)

	bb2 := p.Get()
	require.NotNil(t, bb2)
}

// errorWriter always fails, for exercising ByteBuffer.WriteTo's error path.
type errorWriter struct {
	err error
}

func (ew *errorWriter) Write(p []byte) (n int, err error) {
	return 0, ew.err
}
