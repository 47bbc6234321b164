package kernel

import (
	"github.com/born-ml/strided/internal/grid"
	"github.com/born-ml/strided/internal/strided"
	"github.com/born-ml/strided/internal/tensor"
)

// Gather returns the index-select body for element type T.
//
// Unit (x, y, c) reads an int32 index at Aux.Offset + y*AuxStride.X and
// then, by Axis:
//
//	0: out(x, y, c) = in(x, index, c)
//	1: out(y, c)    = in(index, c)
//	2: out(c)       = in(c)
//
// Any other axis stores nothing.
func Gather[T tensor.Element]() Body {
	return func(a *Args, idx grid.Index) {
		g := idx.Global()
		//nolint:gosec // G115: negative indices are a caller contract violation.
		index := uint(strided.Load[int32](a.Aux.Data, strided.Offset1(a.Aux.Offset, g.Y, a.AuxStride)))

		var src, dst uint
		switch a.Axis {
		case 0:
			src = strided.Offset(a.In.Offset, grid.Dim3{X: g.X, Y: index, Z: g.Z}, a.InStride)
			dst = strided.Offset(a.Out.Offset, g, a.OutStride)
		case 1:
			src = strided.Offset2(a.In.Offset, index, g.Z, a.InStride)
			dst = strided.Offset2(a.Out.Offset, g.Y, g.Z, a.OutStride)
		case 2:
			src = strided.Offset1(a.In.Offset, g.Z, a.InStride)
			dst = strided.Offset1(a.Out.Offset, g.Z, a.OutStride)
		default:
			return
		}
		strided.Store(a.Out.Data, dst, strided.Load[T](a.In.Data, src))
	}
}
