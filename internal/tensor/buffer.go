package tensor

import (
	"fmt"
	"unsafe"

	"github.com/x448/float16"
)

// Buffer is caller-owned memory plus a byte offset into it.
// The core references a Buffer for the duration of one launch and never
// retains, grows or frees it.
type Buffer struct {
	Data   []byte
	Offset uint
}

// NewBuffer allocates a zeroed buffer that covers every element reachable
// through d.
func NewBuffer(d Descriptor) (Buffer, error) {
	if err := d.Validate(); err != nil {
		return Buffer{}, fmt.Errorf("new buffer: %w", err)
	}
	return Buffer{Data: make([]byte, d.ByteSpan())}, nil
}

// Bytes returns the data from the buffer offset onwards.
// WARNING: Direct access to underlying memory. Use with caution.
func (b Buffer) Bytes() []byte {
	return b.Data[b.Offset:]
}

// Float32s interprets the buffer from its offset as []float32.
func (b Buffer) Float32s() []float32 {
	return view[float32](b)
}

// Float16s interprets the buffer from its offset as []float16.Float16.
func (b Buffer) Float16s() []float16.Float16 {
	return view[float16.Float16](b)
}

// Int32s interprets the buffer from its offset as []int32.
func (b Buffer) Int32s() []int32 {
	return view[int32](b)
}

// Int64s interprets the buffer from its offset as []int64.
func (b Buffer) Int64s() []int64 {
	return view[int64](b)
}

func view[T Element](b Buffer) []T {
	data := b.Bytes()
	var zero T
	n := len(data) / int(unsafe.Sizeof(zero))
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy performance, length derived from the byte slice.
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), n)
}
