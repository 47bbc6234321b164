// Package strided maps logical coordinates to byte offsets and performs
// typed loads and stores at those offsets.
//
// Offsets are computed as base + Σ coord[i]*stride[i] in unsigned
// arithmetic. Nothing here checks that a coordinate lies inside a tensor;
// callers guarantee the ranges. An offset outside the backing slice panics.
package strided

import (
	"unsafe"

	"github.com/born-ml/strided/internal/grid"
	"github.com/born-ml/strided/internal/tensor"
)

// Offset returns the byte offset of coordinate c.
func Offset(base uint, c grid.Dim3, stride tensor.Vec4) uint {
	return base + c.X*stride.X + c.Y*stride.Y + c.Z*stride.Z
}

// Offset2 returns the byte offset of a two-dimensional coordinate (x, y).
func Offset2(base, x, y uint, stride tensor.Vec4) uint {
	return base + x*stride.X + y*stride.Y
}

// Offset1 returns the byte offset of a one-dimensional coordinate.
func Offset1(base, x uint, stride tensor.Vec4) uint {
	return base + x*stride.X
}

// Load reads one T at byte offset off.
func Load[T tensor.Element](data []byte, off uint) T {
	var v T
	b := data[off : off+uint(unsafe.Sizeof(v))]
	//nolint:gosec // reinterpretation of a bounds-checked byte window.
	return *(*T)(unsafe.Pointer(&b[0]))
}

// Store writes one T at byte offset off.
func Store[T tensor.Element](data []byte, off uint, v T) {
	b := data[off : off+uint(unsafe.Sizeof(v))]
	//nolint:gosec // reinterpretation of a bounds-checked byte window.
	*(*T)(unsafe.Pointer(&b[0])) = v
}

// Load4 reads four consecutive T starting at byte offset off in a single
// wide access.
func Load4[T tensor.Element](data []byte, off uint) [4]T {
	var v [4]T
	b := data[off : off+uint(unsafe.Sizeof(v))]
	//nolint:gosec // reinterpretation of a bounds-checked byte window.
	return *(*[4]T)(unsafe.Pointer(&b[0]))
}

// Store4 writes four consecutive T starting at byte offset off in a single
// wide access.
func Store4[T tensor.Element](data []byte, off uint, v [4]T) {
	b := data[off : off+uint(unsafe.Sizeof(v))]
	//nolint:gosec // reinterpretation of a bounds-checked byte window.
	*(*[4]T)(unsafe.Pointer(&b[0])) = v
}
