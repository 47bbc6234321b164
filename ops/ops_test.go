package ops_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/strided/device"
	"github.com/born-ml/strided/ops"
	"github.com/born-ml/strided/tensor"
)

func TestCast_ThroughPublicAPI(t *testing.T) {
	s := device.NewHostStream(device.DefaultConfig(), 0)
	defer s.Close()

	inDesc := tensor.Contiguous(tensor.Shape{2, 4}, tensor.Float32)
	outDesc := tensor.Contiguous(tensor.Shape{2, 4}, tensor.Int64)
	in, err := tensor.NewBuffer(inDesc)
	require.NoError(t, err)
	out, err := tensor.NewBuffer(outDesc)
	require.NoError(t, err)
	copy(in.Float32s(), []float32{2.7, -2.7, 0.5, -0.5, 3, -3, 9.99, -9.99})

	st := ops.Cast(s, ops.CastParams{
		Global: ops.Extent(outDesc), Local: ops.Dim3{X: 4, Y: 1, Z: 1},
		InType: tensor.Float32, OutType: tensor.Int64,
		In: in, InStride: inDesc.Stride4(),
		Out: out, OutStride: outDesc.Stride4(),
	})
	assert.Equal(t, ops.Success, st)
	require.NoError(t, s.Synchronize(context.Background()))
	assert.Equal(t, []int64{2, -3, 0, -1, 3, -3, 9, -10}, out.Int64s())
}

func TestGather_FaultThroughPublicAPI(t *testing.T) {
	s := device.NewHostStream(device.DefaultConfig(), 0)
	defer s.Close()

	inDesc := tensor.Contiguous(tensor.Shape{4}, tensor.Float32)
	idxDesc := tensor.Contiguous(tensor.Shape{1}, tensor.Int32)
	in, _ := tensor.NewBuffer(inDesc)
	idx, _ := tensor.NewBuffer(idxDesc)
	out, _ := tensor.NewBuffer(idxDesc)
	idx.Int32s()[0] = 1 << 20

	st := ops.Gather(s, ops.GatherParams{
		Global: ops.Dim3{X: 1, Y: 1, Z: 1}, Local: ops.Dim3{X: 1, Y: 1, Z: 1}, Type: tensor.Float32,
		In: in, InStride: inDesc.Stride4(),
		Indices: idx, IndicesStride: idxDesc.Stride4(),
		Out: out, OutStride: idxDesc.Stride4(), Axis: 1,
	})
	assert.Equal(t, ops.Success, st)

	err := s.Synchronize(context.Background())
	var f *device.Fault
	require.True(t, errors.As(err, &f))
	assert.Equal(t, "gather_float32_float32", f.Kernel)
}

func TestSupported(t *testing.T) {
	assert.True(t, ops.Supported(ops.OpCast, tensor.Float32, tensor.Int32))
	assert.True(t, ops.Supported(ops.OpGather, tensor.Float16, tensor.Float16))
	assert.False(t, ops.Supported(ops.OpGather, tensor.Int32, tensor.Int32))
	assert.False(t, ops.Supported(ops.OpCast, tensor.Int32, tensor.Float32))
	assert.NotEmpty(t, ops.Kernels())
}
