package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/born-ml/strided/internal/grid"
	"github.com/born-ml/strided/internal/strided"
	"github.com/born-ml/strided/internal/tensor"
)

// run executes body once per coordinate of extent.
func run(body Body, a *Args, extent grid.Dim3) {
	one := grid.Dim3{X: 1, Y: 1, Z: 1}
	for z := uint(0); z < extent.Z; z++ {
		for y := uint(0); y < extent.Y; y++ {
			for x := uint(0); x < extent.X; x++ {
				body(a, grid.Index{Thread: grid.Dim3{X: x, Y: y, Z: z}, BlockDim: one, GridDim: one})
			}
		}
	}
}

func packed(shape tensor.Shape, dt tensor.DataType) (tensor.Buffer, tensor.Vec4) {
	d := tensor.Contiguous(shape, dt)
	buf, err := tensor.NewBuffer(d)
	if err != nil {
		panic(err)
	}
	return buf, d.Stride4()
}

func indexBuffer(idx ...int32) (tensor.Buffer, tensor.Vec4) {
	buf, stride := packed(tensor.Shape{len(idx)}, tensor.Int32)
	copy(buf.Int32s(), idx)
	return buf, stride
}

func TestGather_Axis0(t *testing.T) {
	// X=2, Y=4 (selected axis), Z=3.
	in, inStride := packed(tensor.Shape{3, 4, 2}, tensor.Float32)
	for i := range in.Float32s() {
		in.Float32s()[i] = float32(i)
	}
	ind, indStride := indexBuffer(2, 0, 3, 1)
	out, outStride := packed(tensor.Shape{3, 4, 2}, tensor.Float32)

	a := &Args{In: in, InStride: inStride, Aux: ind, AuxStride: indStride, Out: out, OutStride: outStride}
	run(Gather[float32](), a, grid.Dim3{X: 2, Y: 4, Z: 3})

	inView := strided.NewView[float32](in, inStride)
	outView := strided.NewView[float32](out, outStride)
	perm := []uint{2, 0, 3, 1}
	for c := uint(0); c < 3; c++ {
		for y := uint(0); y < 4; y++ {
			for x := uint(0); x < 2; x++ {
				assert.Equal(t, inView.At(x, perm[y], c), outView.At(x, y, c), "(%d,%d,%d)", x, y, c)
			}
		}
	}
}

func TestGather_Axis1(t *testing.T) {
	// Input: X=4 rows selected by index, Y=3 columns.
	in, inStride := packed(tensor.Shape{3, 4}, tensor.Float32)
	for i := range in.Float32s() {
		in.Float32s()[i] = float32(100 + i)
	}
	ind, indStride := indexBuffer(3, 3, 0)
	out, outStride := packed(tensor.Shape{3, 3}, tensor.Float32)

	a := &Args{In: in, InStride: inStride, Aux: ind, AuxStride: indStride, Out: out, OutStride: outStride, Axis: 1}
	run(Gather[float32](), a, grid.Dim3{X: 1, Y: 3, Z: 3})

	inView := strided.NewView[float32](in, inStride)
	outView := strided.NewView[float32](out, outStride)
	idx := []uint{3, 3, 0}
	for c := uint(0); c < 3; c++ {
		for y := uint(0); y < 3; y++ {
			assert.Equal(t, inView.At(idx[y], c, 0), outView.At(y, c, 0))
		}
	}
}

func TestGather_Axis2(t *testing.T) {
	in, inStride := packed(tensor.Shape{5}, tensor.Float32)
	copy(in.Float32s(), []float32{1, 2, 3, 4, 5})
	ind, indStride := indexBuffer(4)
	out, outStride := packed(tensor.Shape{5}, tensor.Float32)

	a := &Args{In: in, InStride: inStride, Aux: ind, AuxStride: indStride, Out: out, OutStride: outStride, Axis: 2}
	run(Gather[float32](), a, grid.Dim3{X: 1, Y: 1, Z: 5})

	assert.Equal(t, []float32{1, 2, 3, 4, 5}, out.Float32s())
}

func TestGather_UnknownAxisLeavesOutput(t *testing.T) {
	in, inStride := packed(tensor.Shape{4}, tensor.Float32)
	ind, indStride := indexBuffer(0)
	out, outStride := packed(tensor.Shape{4}, tensor.Float32)
	copy(out.Float32s(), []float32{-1, -1, -1, -1})

	a := &Args{In: in, InStride: inStride, Aux: ind, AuxStride: indStride, Out: out, OutStride: outStride, Axis: 3}
	run(Gather[float32](), a, grid.Dim3{X: 4, Y: 1, Z: 1})

	assert.Equal(t, []float32{-1, -1, -1, -1}, out.Float32s())
}

func TestGather_Float16(t *testing.T) {
	in, inStride := packed(tensor.Shape{1, 3, 1}, tensor.Float16)
	for i, v := range []float32{0.5, -1.5, 8} {
		in.Float16s()[i] = float16.Fromfloat32(v)
	}
	ind, indStride := indexBuffer(1, 2, 0)
	out, outStride := packed(tensor.Shape{1, 3, 1}, tensor.Float16)

	a := &Args{In: in, InStride: inStride, Aux: ind, AuxStride: indStride, Out: out, OutStride: outStride}
	run(Gather[float16.Float16](), a, grid.Dim3{X: 1, Y: 3, Z: 1})

	got := make([]float32, 3)
	for i, h := range out.Float16s() {
		got[i] = h.Float32()
	}
	assert.Equal(t, []float32{-1.5, 8, 0.5}, got)
}

func TestTile(t *testing.T) {
	// Input extents {2,3,1} tiled to {6,6,4}.
	in, inStride := packed(tensor.Shape{1, 3, 2}, tensor.Float32)
	for i := range in.Float32s() {
		in.Float32s()[i] = float32(i + 1)
	}
	out, outStride := packed(tensor.Shape{4, 6, 6}, tensor.Float32)

	a := &Args{In: in, InStride: inStride, InDims: tensor.Vec4{X: 2, Y: 3, Z: 1}, Out: out, OutStride: outStride}
	run(Tile[float32](), a, grid.Dim3{X: 6, Y: 6, Z: 4})

	inView := strided.NewView[float32](in, inStride)
	outView := strided.NewView[float32](out, outStride)
	for z := uint(0); z < 4; z++ {
		for y := uint(0); y < 6; y++ {
			for x := uint(0); x < 6; x++ {
				require.Equal(t, inView.At(x%2, y%3, z%1), outView.At(x, y, z), "(%d,%d,%d)", x, y, z)
			}
		}
	}
}

func TestTile_BroadcastStride(t *testing.T) {
	// A zero stride on the input reads the same element along Y.
	in := tensor.Buffer{Data: make([]byte, 8)}
	copy(in.Float32s(), []float32{7, 9})
	out, outStride := packed(tensor.Shape{3, 2}, tensor.Float32)

	a := &Args{In: in, InStride: tensor.Vec4{X: 4}, InDims: tensor.Vec4{X: 2, Y: 3, Z: 1}, Out: out, OutStride: outStride}
	run(Tile[float32](), a, grid.Dim3{X: 2, Y: 3, Z: 1})

	assert.Equal(t, []float32{7, 9, 7, 9, 7, 9}, out.Float32s())
}

func TestFloorConversions(t *testing.T) {
	tests := []struct {
		in   float32
		want int64
	}{
		{2.7, 2},
		{-2.7, -3},
		{0.5, 0},
		{-0.5, -1},
		{-3, -3},
		{1e6 + 0.25, 1000000},
	}
	for _, tt := range tests {
		assert.Equal(t, int32(tt.want), FloorInt32(tt.in), "int32(%v)", tt.in)
		assert.Equal(t, tt.want, FloorInt64(tt.in), "int64(%v)", tt.in)
	}
}

func TestIntegerConversions(t *testing.T) {
	assert.Equal(t, int64(math.MinInt32), Widen(math.MinInt32))
	assert.Equal(t, int32(5), Narrow(1<<32+5))
	assert.Equal(t, int32(-1), Narrow(-1))
	assert.Equal(t, int32(math.MinInt32), Narrow(0x8000_0000))
	assert.Equal(t, float32(-0.25), Identity(-0.25))
}

func TestCast_Strided(t *testing.T) {
	// Transposed input: out(x, y) = floor(in(y, x)).
	in, inStride := packed(tensor.Shape{3, 2}, tensor.Float32)
	copy(in.Float32s(), []float32{0.5, 1.5, -0.5, -1.5, 2.9, -2.9})
	out, outStride := packed(tensor.Shape{2, 3}, tensor.Int64)

	a := &Args{In: in, InStride: tensor.Vec4{X: inStride.Y, Y: inStride.X}, Out: out, OutStride: outStride}
	run(Cast(FloorInt64), a, grid.Dim3{X: 3, Y: 2, Z: 1})

	assert.Equal(t, []int64{0, -1, 2, 1, -2, -3}, out.Int64s())
}

func TestCastWide_MatchesScalar(t *testing.T) {
	in, inStride := packed(tensor.Shape{2, 8}, tensor.Float32)
	for i := range in.Float32s() {
		in.Float32s()[i] = float32(i)*0.7 - 5
	}
	scalar, outStride := packed(tensor.Shape{2, 8}, tensor.Int32)
	wide, _ := packed(tensor.Shape{2, 8}, tensor.Int32)

	run(Cast(FloorInt32), &Args{In: in, InStride: inStride, Out: scalar, OutStride: outStride}, grid.Dim3{X: 8, Y: 2, Z: 1})
	run(CastWide(FloorInt32), &Args{In: in, InStride: inStride, Out: wide, OutStride: outStride}, grid.Dim3{X: 2, Y: 2, Z: 1})

	assert.Equal(t, scalar.Data, wide.Data)
}
