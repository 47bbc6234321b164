package kernel

import (
	"github.com/born-ml/strided/internal/grid"
	"github.com/born-ml/strided/internal/strided"
	"github.com/born-ml/strided/internal/tensor"
)

// Tile returns the broadcast/repeat body for element type T.
// Each output coordinate wraps modulo the input extent per dimension.
//
// The repeat buffer in Aux is part of the argument block but is not read:
// repeat factors follow from the output/input extent ratio.
func Tile[T tensor.Element]() Body {
	return func(a *Args, idx grid.Index) {
		g := idx.Global()
		wrapped := grid.Dim3{
			X: g.X % a.InDims.X,
			Y: g.Y % a.InDims.Y,
			Z: g.Z % a.InDims.Z,
		}
		v := strided.Load[T](a.In.Data, strided.Offset(a.In.Offset, wrapped, a.InStride))
		strided.Store(a.Out.Data, strided.Offset(a.Out.Offset, g, a.OutStride), v)
	}
}
