package tensor

import "fmt"

// Vec4 holds one unsigned value per dimension, X being the innermost.
// Kernels receive strides (in bytes) and extents in this form.
type Vec4 struct {
	X, Y, Z, W uint
}

// Descriptor describes a strided tensor: logical extents, byte strides and
// the element type.
//
// Strides may describe non-contiguous, transposed or broadcast (stride 0)
// layouts. Negative strides are not representable.
type Descriptor struct {
	Shape   Shape    // Extents, outermost first.
	Strides []uint   // Byte delta per dimension, same order as Shape.
	DType   DataType // Element type tag.
}

// Contiguous returns a descriptor with packed row-major byte strides.
func Contiguous(shape Shape, dtype DataType) Descriptor {
	elem := shape.ComputeStrides()
	strides := make([]uint, len(elem))
	for i, s := range elem {
		//nolint:gosec // G115: strides of a validated shape are non-negative.
		strides[i] = uint(s * dtype.Size())
	}
	return Descriptor{Shape: shape.Clone(), Strides: strides, DType: dtype}
}

// Validate checks the descriptor invariants: a valid shape, at most MaxRank
// dimensions and one stride per dimension.
func (d Descriptor) Validate() error {
	if err := d.Shape.Validate(); err != nil {
		return fmt.Errorf("invalid shape: %w", err)
	}
	if len(d.Shape) > MaxRank {
		return fmt.Errorf("rank %d exceeds maximum %d", len(d.Shape), MaxRank)
	}
	if len(d.Strides) != len(d.Shape) {
		return fmt.Errorf("stride count %d does not match rank %d", len(d.Strides), len(d.Shape))
	}
	return nil
}

// Dims returns the extents with the innermost dimension in X.
// Missing dimensions are 1.
func (d Descriptor) Dims() Vec4 {
	v := [MaxRank]uint{1, 1, 1, 1}
	n := len(d.Shape)
	for i := 0; i < n && i < MaxRank; i++ {
		//nolint:gosec // G115: validated extents are positive.
		v[i] = uint(d.Shape[n-1-i])
	}
	return Vec4{X: v[0], Y: v[1], Z: v[2], W: v[3]}
}

// Stride4 returns the byte strides with the innermost dimension in X.
// Missing dimensions get stride 0.
func (d Descriptor) Stride4() Vec4 {
	var v [MaxRank]uint
	n := len(d.Strides)
	for i := 0; i < n && i < MaxRank; i++ {
		v[i] = d.Strides[n-1-i]
	}
	return Vec4{X: v[0], Y: v[1], Z: v[2], W: v[3]}
}

// ByteSpan returns the number of bytes reachable from offset 0 through the
// descriptor: the offset of the last element plus one element.
func (d Descriptor) ByteSpan() uint {
	span := uint(d.DType.Size())
	for i, ext := range d.Shape {
		if ext > 1 {
			//nolint:gosec // G115: validated extents are positive.
			span += uint(ext-1) * d.Strides[i]
		}
	}
	return span
}

// NumElements returns the number of logical elements.
func (d Descriptor) NumElements() int {
	return d.Shape.NumElements()
}
