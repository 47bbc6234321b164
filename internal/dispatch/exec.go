package dispatch

import (
	"github.com/born-ml/strided/internal/grid"
	"github.com/born-ml/strided/internal/kernel"
	"github.com/born-ml/strided/internal/launch"
	"github.com/born-ml/strided/internal/logx"
	"github.com/born-ml/strided/internal/tensor"
)

// Status is the uniform result of a dispatch entry point. It reflects only
// that the request was handled, never the device-side outcome, which is
// reported by the stream.
type Status int

// Success is the only status dispatch entry points return.
const Success Status = 0

// GatherParams are the arguments of Gather.
type GatherParams struct {
	Global, Local grid.Dim3
	Type          tensor.DataType

	In       tensor.Buffer
	InStride tensor.Vec4

	Indices       tensor.Buffer // int32 indices.
	IndicesStride tensor.Vec4

	Out       tensor.Buffer
	OutStride tensor.Vec4

	Axis uint
}

// TileParams are the arguments of Tile.
type TileParams struct {
	Global, Local grid.Dim3
	Type          tensor.DataType

	In       tensor.Buffer
	InStride tensor.Vec4
	InDims   tensor.Vec4

	// Repeats is forwarded to the kernel but not consulted: the repeat
	// factor per dimension is Global / InDims.
	Repeats       tensor.Buffer
	RepeatsStride tensor.Vec4

	Out       tensor.Buffer
	OutStride tensor.Vec4
}

// CastParams are the arguments of Cast.
type CastParams struct {
	Global, Local grid.Dim3
	InType        tensor.DataType
	OutType       tensor.DataType

	In       tensor.Buffer
	InStride tensor.Vec4

	Out       tensor.Buffer
	OutStride tensor.Vec4
}

// Gather submits an index-select along p.Axis for every (x, y, c) of
// p.Global. Types other than Float32 and Float16 launch nothing.
func Gather(s launch.Submitter, p GatherParams) Status {
	args := kernel.Args{
		In: p.In, InStride: p.InStride,
		Aux: p.Indices, AuxStride: p.IndicesStride,
		Out: p.Out, OutStride: p.OutStride,
		Axis: p.Axis,
	}
	submit(s, Key{Op: OpGather, In: p.Type, Out: p.Type}, args, p.Global, p.Local)
	return Success
}

// Tile submits a wrap-around copy of p.In over p.Global.
// Types other than Float32 and Float16 launch nothing.
func Tile(s launch.Submitter, p TileParams) Status {
	args := kernel.Args{
		In: p.In, InStride: p.InStride, InDims: p.InDims,
		Aux: p.Repeats, AuxStride: p.RepeatsStride,
		Out: p.Out, OutStride: p.OutStride,
	}
	submit(s, Key{Op: OpTile, In: p.Type, Out: p.Type}, args, p.Global, p.Local)
	return Success
}

// Cast submits an element type conversion over p.Global.
//
// When Global.X*Global.Y is a multiple of 4 the wide variant runs: X and Y
// are flattened and each unit converts four consecutive elements. The
// caller must then provide rows that are packed and contiguous along X in
// both buffers; this is not checked. Unsupported type pairs launch nothing.
func Cast(s launch.Submitter, p CastParams) Status {
	args := kernel.Args{
		In: p.In, InStride: p.InStride,
		Out: p.Out, OutStride: p.OutStride,
	}
	key := Key{Op: OpCast, In: p.InType, Out: p.OutType, Wide: WideEligible(p.Global)}
	extent, local := p.Global, p.Local
	if key.Wide {
		extent, local = WideGeometry(p.Global, p.Local)
	}
	submit(s, key, args, extent, local)
	return Success
}

// WideEligible reports whether a Cast over global takes the wide path.
func WideEligible(global grid.Dim3) bool {
	return (global.X*global.Y)&3 == 0
}

// WideGeometry returns the extent and block for a wide Cast over global:
// X*Y/4 units along X, one along Y.
func WideGeometry(global, local grid.Dim3) (extent, block grid.Dim3) {
	extent = grid.Dim3{X: global.X * global.Y / 4, Y: 1, Z: global.Z}
	block = grid.Dim3{X: local.X, Y: 1, Z: local.Z}
	return extent, block
}

func submit(s launch.Submitter, key Key, args kernel.Args, extent, local grid.Dim3) {
	k, ok := Lookup(key)
	if !ok {
		logx.Logger().Debug("no kernel", "key", key.String())
		return
	}
	l := launch.New(k, args, extent, local)
	logx.Logger().Debug("launch", "kernel", k.Name, "grid", l.Grid, "block", l.Block)
	s.Submit(l)
}

// Extent returns the global launch extent that covers every element of d,
// innermost dimension in X. A fourth dimension is not addressed.
func Extent(d tensor.Descriptor) grid.Dim3 {
	v := d.Dims()
	return grid.Dim3{X: v.X, Y: v.Y, Z: v.Z}
}
