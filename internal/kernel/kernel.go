// Package kernel holds the per-unit compute bodies for Gather, Tile and Cast.
//
// A body computes one output element (four on the wide Cast path) from
// strided input addresses. Bodies are stateless: every unit writes a
// distinct output address and inputs are never written during a launch.
package kernel

import (
	"github.com/born-ml/strided/internal/grid"
	"github.com/born-ml/strided/internal/tensor"
)

// Args is the argument block a dispatch entry point forwards unchanged to
// a kernel body. Offsets and strides are in bytes.
type Args struct {
	In       tensor.Buffer
	InStride tensor.Vec4
	InDims   tensor.Vec4 // Tile only.

	// Aux is the gather index buffer or the tile repeat buffer.
	Aux       tensor.Buffer
	AuxStride tensor.Vec4

	Out       tensor.Buffer
	OutStride tensor.Vec4

	Axis uint // Gather only.
}

// Body computes the output of one execution unit.
type Body func(a *Args, idx grid.Index)

// Kernel is a named, fully specialized kernel body.
type Kernel struct {
	Name string
	Body Body

	// Wide kernels cover four consecutive X elements per unit.
	Wide bool
}
