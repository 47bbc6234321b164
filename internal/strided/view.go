package strided

import (
	"github.com/born-ml/strided/internal/grid"
	"github.com/born-ml/strided/internal/tensor"
)

// View is a typed strided window over a byte buffer.
type View[T tensor.Element] struct {
	Data   []byte
	Offset uint
	Stride tensor.Vec4
}

// NewView returns a view over buf with the given byte strides.
func NewView[T tensor.Element](buf tensor.Buffer, stride tensor.Vec4) View[T] {
	return View[T]{Data: buf.Data, Offset: buf.Offset, Stride: stride}
}

// At returns the element at (x, y, z).
func (v View[T]) At(x, y, z uint) T {
	return Load[T](v.Data, Offset(v.Offset, grid.Dim3{X: x, Y: y, Z: z}, v.Stride))
}

// Set stores val at (x, y, z).
func (v View[T]) Set(x, y, z uint, val T) {
	Store(v.Data, Offset(v.Offset, grid.Dim3{X: x, Y: y, Z: z}, v.Stride), val)
}
