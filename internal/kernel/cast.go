package kernel

import (
	"github.com/chewxy/math32"

	"github.com/born-ml/strided/internal/grid"
	"github.com/born-ml/strided/internal/strided"
	"github.com/born-ml/strided/internal/tensor"
)

// Cast returns the scalar conversion body for S -> D.
func Cast[S, D tensor.Element](conv func(S) D) Body {
	return func(a *Args, idx grid.Index) {
		g := idx.Global()
		v := strided.Load[S](a.In.Data, strided.Offset(a.In.Offset, g, a.InStride))
		strided.Store(a.Out.Data, strided.Offset(a.Out.Offset, g, a.OutStride), conv(v))
	}
}

// CastWide returns the four-wide conversion body for S -> D.
//
// Unit (x, y, z) converts elements 4x..4x+3 along X with one wide load and
// one wide store. The caller guarantees those four elements are contiguous
// in both buffers.
func CastWide[S, D tensor.Element](conv func(S) D) Body {
	return func(a *Args, idx grid.Index) {
		g := idx.Global()
		g.X *= 4
		src := strided.Load4[S](a.In.Data, strided.Offset(a.In.Offset, g, a.InStride))
		var dst [4]D
		for i, v := range src {
			dst[i] = conv(v)
		}
		strided.Store4(a.Out.Data, strided.Offset(a.Out.Offset, g, a.OutStride), dst)
	}
}

// FloorInt32 converts rounding toward negative infinity.
func FloorInt32(v float32) int32 { return int32(math32.Floor(v)) }

// FloorInt64 converts rounding toward negative infinity.
func FloorInt64(v float32) int64 { return int64(math32.Floor(v)) }

// Identity passes a float32 through unchanged.
func Identity(v float32) float32 { return v }

// Widen sign-extends an int32.
func Widen(v int32) int64 { return int64(v) }

// Narrow keeps the low 32 bits of an int64.
func Narrow(v int64) int32 {
	//nolint:gosec // G115: truncation is the defined behavior.
	return int32(v)
}
