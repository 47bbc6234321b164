// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ops enqueues Gather, Tile and Cast over strided tensors.
//
// Entry points pick a kernel for the element types, compute the launch
// geometry and submit it to a stream. They never wait and always return
// Success: execution faults are reported by the stream's Synchronize.
// Type combinations without a kernel launch nothing.
//
// Example:
//
//	s := device.NewHostStream(device.DefaultConfig(), 0)
//	defer s.Close()
//
//	in := tensor.Contiguous(tensor.Shape{8}, tensor.Float32)
//	out := tensor.Contiguous(tensor.Shape{8}, tensor.Int32)
//	ops.Cast(s, ops.CastParams{
//	    Global: ops.Extent(out), Local: ops.Dim3{X: 64, Y: 1, Z: 1},
//	    InType: tensor.Float32, OutType: tensor.Int32,
//	    In: inBuf, InStride: in.Stride4(),
//	    Out: outBuf, OutStride: out.Stride4(),
//	})
//	if err := s.Synchronize(ctx); err != nil {
//	    // launch fault
//	}
package ops

import (
	"github.com/born-ml/strided/internal/dispatch"
	"github.com/born-ml/strided/internal/grid"
	"github.com/born-ml/strided/internal/launch"
	"github.com/born-ml/strided/tensor"
)

// Dim3 is a 3-D extent of the execution grid.
type Dim3 = grid.Dim3

// Status is the result of an entry point.
type Status = dispatch.Status

// Success is the only Status entry points return.
const Success = dispatch.Success

// Submitter accepts launches; *device.Stream implements it.
type Submitter = launch.Submitter

// Op names an operation.
type Op = dispatch.Op

// Operations.
const (
	OpGather = dispatch.OpGather
	OpTile   = dispatch.OpTile
	OpCast   = dispatch.OpCast
)

// GatherParams are the arguments of Gather.
type GatherParams = dispatch.GatherParams

// TileParams are the arguments of Tile.
type TileParams = dispatch.TileParams

// CastParams are the arguments of Cast.
type CastParams = dispatch.CastParams

// Gather selects slices of p.In along p.Axis using the int32 indices in
// p.Indices. Only Float32 and Float16 are supported.
func Gather(s Submitter, p GatherParams) Status {
	return dispatch.Gather(s, p)
}

// Tile fills p.Out by repeating p.In: every output coordinate reads the
// input at the coordinate modulo p.InDims.
func Tile(s Submitter, p TileParams) Status {
	return dispatch.Tile(s, p)
}

// Cast converts elements of p.In to p.OutType. Floats convert to integers
// by rounding toward negative infinity.
func Cast(s Submitter, p CastParams) Status {
	return dispatch.Cast(s, p)
}

// Supported reports whether a kernel exists for op with the given element
// types. Gather and Tile use in for both sides.
func Supported(op Op, in, out tensor.DataType) bool {
	return dispatch.Supported(op, in, out)
}

// Extent returns the grid extent covering every element of d.
func Extent(d tensor.Descriptor) Dim3 {
	return dispatch.Extent(d)
}

// Kernels lists the names of all registered kernels.
func Kernels() []string {
	return dispatch.Kernels()
}
